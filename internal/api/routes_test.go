package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fundlane/backend/internal/account"
	"github.com/fundlane/backend/internal/api"
	"github.com/fundlane/backend/internal/board"
	"github.com/fundlane/backend/internal/column"
	"github.com/fundlane/backend/internal/donor"
	"github.com/fundlane/backend/internal/donorvalue"
	"github.com/fundlane/backend/internal/invitation"
	"github.com/fundlane/backend/internal/notification"
	"github.com/fundlane/backend/internal/template"
	"github.com/fundlane/backend/internal/testutil"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type nullMailer struct{}

func (nullMailer) Send(ctx context.Context, to, subject, htmlBody string) error { return nil }

func newTestRouter(t *testing.T) *mux.Router {
	db := testutil.NewDB(t)

	registry := column.NewRegistry(db)
	values := donorvalue.NewStore(db)
	donorRepo := donor.NewRepository(db)
	boardRepo := board.NewRepository(db)
	templateRepo := template.NewRepository(db, boardRepo)
	notificationRepo := notification.NewRepository(db)
	accountRepo := account.NewRepository(db)
	invitationService := invitation.NewService(db, nullMailer{}, "fundlane.app")
	testutil.InitSchema(t, registry, values, donorRepo, boardRepo, templateRepo, notificationRepo, accountRepo, invitationService)

	return api.SetupRoutes(api.Handlers{
		Columns:       api.NewColumnHandler(registry, column.NewLifecycle(registry, values, donorRepo)),
		Donors:        api.NewDonorHandler(donor.NewService(donorRepo, values, registry), donor.NewQueryService(db, values, registry)),
		Boards:        api.NewBoardHandler(boardRepo),
		Templates:     api.NewTemplateHandler(templateRepo),
		Invitations:   api.NewInvitationHandler(invitationService),
		Notifications: api.NewNotificationHandler(notificationRepo),
		Accounts:      api.NewAccountHandler(accountRepo),
	}, "http://localhost:5173")
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestColumnEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doJSON(t, router, http.MethodPost, "/api/columns", map[string]any{
		"column_key": "donation_tier",
		"title":      "Donation Tier",
		"type":       "dropdown",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)

	rec, env = doJSON(t, router, http.MethodGet, "/api/columns", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var columns []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &columns))
	require.Len(t, columns, 1)
	assert.Equal(t, "donation_tier", columns[0]["column_key"])

	// Duplicate keys map to 400.
	rec, env = doJSON(t, router, http.MethodPost, "/api/columns", map[string]any{
		"column_key": "donation_tier",
		"title":      "Again",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)

	rec, _ = doJSON(t, router, http.MethodGet, "/api/columns/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDonorEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doJSON(t, router, http.MethodPost, "/api/donors", map[string]any{
		"donor_name": "Miriam Vance",
		"email":      "miriam@example.org",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(t, created.ID)

	rec, env = doJSON(t, router, http.MethodGet, "/api/donors?page=1&limit=10", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Donors     []map[string]any `json:"donors"`
		Pagination struct {
			Total      int `json:"total"`
			TotalPages int `json:"totalPages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Donors, 1)
	assert.Equal(t, 1, page.Pagination.Total)

	// Custom field writes need a registered column first.
	rec, _ = doJSON(t, router, http.MethodPatch, "/api/donors/"+created.ID+"/custom", map[string]any{
		"column_key": "tier",
		"value":      "Gold",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, _ = doJSON(t, router, http.MethodPost, "/api/columns", map[string]any{
		"column_key": "tier",
		"title":      "Tier",
	})
	rec, _ = doJSON(t, router, http.MethodPatch, "/api/donors/"+created.ID+"/custom", map[string]any{
		"column_key": "tier",
		"value":      "Gold",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = doJSON(t, router, http.MethodGet, "/api/donors/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var withFields struct {
		CustomFields map[string]any `json:"customFields"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &withFields))
	assert.Equal(t, "Gold", withFields.CustomFields["tier"])

	rec, _ = doJSON(t, router, http.MethodGet, "/api/donors/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDonorFilterEndpoint(t *testing.T) {
	router := newTestRouter(t)

	for _, d := range []map[string]any{
		{"donor_name": "Alice", "email": "alice@example.org", "status": "active"},
		{"donor_name": "Bob", "email": "bob@example.org", "status": "potential"},
	} {
		rec, _ := doJSON(t, router, http.MethodPost, "/api/donors", d)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, env := doJSON(t, router, http.MethodPost, "/api/donors/filter", map[string]any{
		"filters": []map[string]any{
			{"field": "status", "operator": "equals", "value": "active"},
		},
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	var result struct {
		Donors []map[string]any `json:"donors"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.Len(t, result.Donors, 1)
	assert.Equal(t, "Alice", result.Donors[0]["donor_name"])
}

func TestNotificationEndpointsRequireUserID(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doJSON(t, router, http.MethodGet, "/api/notifications", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/notifications", map[string]any{
		"userId":  "user-1",
		"type":    "system",
		"title":   "Welcome",
		"message": "Your workspace is ready.",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, env = doJSON(t, router, http.MethodGet, "/api/notifications/unread-count?userId=user-1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var count map[string]int
	require.NoError(t, json.Unmarshal(env.Data, &count))
	assert.Equal(t, 1, count["count"])
}

func TestAccountEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/account/save-account", map[string]any{
		"email":    "miriam@example.org",
		"fullName": "Miriam Vance",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, router, http.MethodGet, "/api/account?email=miriam@example.org", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/users/email", map[string]any{"email": "lead@example.org"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = doJSON(t, router, http.MethodPost, "/api/users/email", map[string]any{"email": "lead@example.org"})
	assert.Equal(t, http.StatusOK, rec.Code)
}
