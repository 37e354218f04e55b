package account

import (
	"context"
	"testing"

	"github.com/fundlane/backend/internal/apperr"
	"github.com/fundlane/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *Repository {
	repo := NewRepository(testutil.NewDB(t))
	testutil.InitSchema(t, repo)
	return repo
}

func TestSaveCreatesThenUpdates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Save(ctx, SaveAccountRequest{
		Email:    "Miriam@Example.org",
		FullName: "Miriam Vance",
	})
	require.NoError(t, err)
	assert.Equal(t, "miriam@example.org", created.Email)
	assert.Equal(t, "work", created.Category)

	updated, err := repo.Save(ctx, SaveAccountRequest{
		Email:       "miriam@example.org",
		FullName:    "Miriam V.",
		AccountName: "acme",
		Role:        "Admin",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Miriam V.", updated.FullName)
	assert.Equal(t, "acme", updated.AccountName)
}

func TestSaveValidation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Save(ctx, SaveAccountRequest{Email: "a@example.org"})
	assert.True(t, apperr.IsValidation(err))

	_, err = repo.Save(ctx, SaveAccountRequest{FullName: "A"})
	assert.True(t, apperr.IsValidation(err))
}

func TestGetByEmailNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByEmail(context.Background(), "missing@example.org")
	assert.True(t, apperr.IsNotFound(err))
}

func TestSaveEmailLeadIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, existed, err := repo.SaveEmailLead(ctx, "Lead@Example.org")
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Equal(t, "lead@example.org", first.Email)

	again, existed, err := repo.SaveEmailLead(ctx, "lead@example.org")
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, first.ID, again.ID)

	_, _, err = repo.SaveEmailLead(ctx, "")
	assert.True(t, apperr.IsValidation(err))
}
