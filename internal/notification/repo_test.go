package notification

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fundlane/backend/internal/apperr"
	"github.com/fundlane/backend/internal/models"
	"github.com/fundlane/backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *Repository {
	repo := NewRepository(testutil.NewDB(t))
	testutil.InitSchema(t, repo)
	return repo
}

func validRequest(userID string) CreateRequest {
	return CreateRequest{
		UserID:  userID,
		Type:    "task_assigned",
		Title:   "Task assigned",
		Message: "You were assigned a task.",
	}
}

func TestCreateValidation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateRequest)
	}{
		{"missing user", func(r *CreateRequest) { r.UserID = "" }},
		{"unknown type", func(r *CreateRequest) { r.Type = "carrier_pigeon" }},
		{"missing title", func(r *CreateRequest) { r.Title = "" }},
		{"title too long", func(r *CreateRequest) { r.Title = strings.Repeat("x", 256) }},
		{"message too long", func(r *CreateRequest) { r.Message = strings.Repeat("x", 1001) }},
		{"bad priority", func(r *CreateRequest) { r.Priority = "critical" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest("user-1")
			tc.mutate(&req)
			_, err := repo.Create(ctx, req)
			assert.True(t, apperr.IsValidation(err))
		})
	}
}

func TestCreateDefaultsPriorityAndExpiry(t *testing.T) {
	repo := newTestRepo(t)

	before := time.Now()
	n, err := repo.Create(context.Background(), validRequest("user-1"))
	require.NoError(t, err)
	assert.Equal(t, models.PriorityMedium, n.Priority)
	assert.False(t, n.IsRead)

	// Expiry lands one TTL out from creation.
	expected := before.Add(models.NotificationTTL)
	assert.WithinDuration(t, expected, n.ExpiresAt, time.Minute)
}

func TestCreateBulkRejectsWholeBatchOnInvalidEntry(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	bad := validRequest("user-1")
	bad.Type = "carrier_pigeon"
	_, err := repo.CreateBulk(ctx, []CreateRequest{validRequest("user-1"), bad})
	assert.True(t, apperr.IsValidation(err))

	// Nothing landed.
	count, err := repo.UnreadCount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCreateBulk(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateBulk(ctx, []CreateRequest{
		validRequest("user-1"),
		validRequest("user-2"),
	})
	require.NoError(t, err)
	assert.Len(t, created, 2)

	mine, err := repo.ListByUser(ctx, "user-1", 0, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestListByUserPaginates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := repo.Create(ctx, validRequest("user-1"))
		require.NoError(t, err)
	}

	page, err := repo.ListByUser(ctx, "user-1", 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := repo.ListByUser(ctx, "user-1", 10, 4)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestMarkAsReadScopedToUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	n, err := repo.Create(ctx, validRequest("user-1"))
	require.NoError(t, err)

	// Another user cannot touch it.
	_, err = repo.MarkAsRead(ctx, n.ID, "user-2")
	assert.True(t, apperr.IsNotFound(err))

	read, err := repo.MarkAsRead(ctx, n.ID, "user-1")
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	count, err := repo.UnreadCount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestMarkAllAsRead(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, validRequest("user-1"))
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, validRequest("user-2"))
	require.NoError(t, err)

	updated, err := repo.MarkAllAsRead(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, updated)

	otherCount, err := repo.UnreadCount(ctx, "user-2")
	require.NoError(t, err)
	assert.Equal(t, 1, otherCount)
}

func TestDeleteScopedToUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	n, err := repo.Create(ctx, validRequest("user-1"))
	require.NoError(t, err)

	err = repo.Delete(ctx, n.ID, "user-2")
	assert.True(t, apperr.IsNotFound(err))

	require.NoError(t, repo.Delete(ctx, n.ID, "user-1"))
	err = repo.Delete(ctx, uuid.New(), "user-1")
	assert.True(t, apperr.IsNotFound(err))
}

func TestDeleteAllRead(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	read, err := repo.Create(ctx, validRequest("user-1"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, validRequest("user-1"))
	require.NoError(t, err)
	_, err = repo.MarkAsRead(ctx, read.ID, "user-1")
	require.NoError(t, err)

	deleted, err := repo.DeleteAllRead(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	remaining, err := repo.ListByUser(ctx, "user-1", 0, 0)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
	assert.False(t, remaining[0].IsRead)
}

func TestDeleteExpired(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	fresh, err := repo.Create(ctx, validRequest("user-1"))
	require.NoError(t, err)

	// Backdate one notification past its expiry.
	stale, err := repo.Create(ctx, validRequest("user-1"))
	require.NoError(t, err)
	_, err = repo.db.NewUpdate().
		Model((*models.Notification)(nil)).
		Set("expires_at = ?", time.Now().Add(-time.Hour)).
		Where("id = ?", stale.ID).
		Exec(ctx)
	require.NoError(t, err)

	deleted, err := repo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	remaining, err := repo.ListByUser(ctx, "user-1", 0, 0)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, fresh.ID, remaining[0].ID)
}
