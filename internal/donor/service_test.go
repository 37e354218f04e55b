package donor

import (
	"context"
	"testing"

	"github.com/fundlane/backend/internal/apperr"
	"github.com/fundlane/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  CreateDonorRequest
	}{
		{"missing name", CreateDonorRequest{Email: "a@example.org"}},
		{"bad email", CreateDonorRequest{DonorName: "A", Email: "nope"}},
		{"bad status", CreateDonorRequest{DonorName: "A", Email: "a@example.org", Status: "vip"}},
		{"negative totals", CreateDonorRequest{DonorName: "A", Email: "a@example.org", TotalDonated: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.service.Create(ctx, tc.req)
			assert.True(t, apperr.IsValidation(err))
		})
	}
}

func TestServiceCreateDefaultsAndNormalizes(t *testing.T) {
	env := newTestEnv(t)

	d, err := env.service.Create(context.Background(), CreateDonorRequest{
		DonorName: "  Miriam Vance ",
		Email:     "Miriam.Vance@Example.org",
	})
	require.NoError(t, err)
	assert.Equal(t, "Miriam Vance", d.DonorName)
	assert.Equal(t, "miriam.vance@example.org", d.Email)
	assert.Equal(t, models.DonorStatusPotential, d.Status)
	assert.NotEqual(t, "", d.ID.String())
}

func TestServiceCreateDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.service.Create(ctx, CreateDonorRequest{DonorName: "A", Email: "same@example.org"})
	require.NoError(t, err)

	_, err = env.service.Create(ctx, CreateDonorRequest{DonorName: "B", Email: "same@example.org"})
	assert.True(t, apperr.IsDuplicateKey(err))

	// Case variants collide too; emails are stored lowercase.
	_, err = env.service.Create(ctx, CreateDonorRequest{DonorName: "C", Email: "Same@Example.ORG"})
	assert.True(t, apperr.IsDuplicateKey(err))
}

func TestServiceUpdateDuplicateEmailCheck(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a, err := env.service.Create(ctx, CreateDonorRequest{DonorName: "A", Email: "a@example.org"})
	require.NoError(t, err)
	_, err = env.service.Create(ctx, CreateDonorRequest{DonorName: "B", Email: "b@example.org"})
	require.NoError(t, err)

	taken := "b@example.org"
	_, err = env.service.Update(ctx, a.ID, DonorUpdate{Email: &taken})
	assert.True(t, apperr.IsDuplicateKey(err))

	// Re-submitting the donor's own email is not a conflict.
	same := "a@example.org"
	updated, err := env.service.Update(ctx, a.ID, DonorUpdate{Email: &same})
	require.NoError(t, err)
	assert.Equal(t, "a@example.org", updated.Email)
}

func TestServiceUpdateNormalizesEmailCase(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a, err := env.service.Create(ctx, CreateDonorRequest{DonorName: "A", Email: "alice@example.org"})
	require.NoError(t, err)
	b, err := env.service.Create(ctx, CreateDonorRequest{DonorName: "B", Email: "b@example.org"})
	require.NoError(t, err)

	// A case variant of a taken address is still a conflict.
	taken := "Alice@Example.org"
	_, err = env.service.Update(ctx, b.ID, DonorUpdate{Email: &taken})
	assert.True(t, apperr.IsDuplicateKey(err))

	// A case variant of the donor's own address is not, and the stored
	// value stays lowercase.
	own := "ALICE@example.org"
	updated, err := env.service.Update(ctx, a.ID, DonorUpdate{Email: &own})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.org", updated.Email)

	mixed := "New.Donor@Example.org"
	updated, err = env.service.Update(ctx, b.ID, DonorUpdate{Email: &mixed})
	require.NoError(t, err)
	assert.Equal(t, "new.donor@example.org", updated.Email)
}

func TestServiceUpdatePartial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	d, err := env.service.Create(ctx, CreateDonorRequest{DonorName: "A", Email: "a@example.org", TotalDonated: 100})
	require.NoError(t, err)

	donated := 250.0
	updated, err := env.service.Update(ctx, d.ID, DonorUpdate{TotalDonated: &donated})
	require.NoError(t, err)
	assert.Equal(t, 250.0, updated.TotalDonated)
	assert.Equal(t, "A", updated.DonorName)
	assert.Equal(t, "a@example.org", updated.Email)
}

func TestServiceDeleteCascadesValues(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	d, err := env.service.Create(ctx, CreateDonorRequest{DonorName: "A", Email: "a@example.org"})
	require.NoError(t, err)
	_, err = env.values.Upsert(ctx, d.ID, "tier", "Gold")
	require.NoError(t, err)

	require.NoError(t, env.service.Delete(ctx, d.ID))

	_, err = env.repo.GetByID(ctx, d.ID)
	assert.True(t, apperr.IsNotFound(err))

	fields, err := env.values.GetForEntity(ctx, d.ID)
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestServiceUpdateCustomFieldGatedOnActiveColumn(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	d, err := env.service.Create(ctx, CreateDonorRequest{DonorName: "A", Email: "a@example.org"})
	require.NoError(t, err)

	// Unregistered column.
	_, err = env.service.UpdateCustomField(ctx, d.ID, "tier", "Gold")
	assert.True(t, apperr.IsNotFound(err))

	_, err = env.registry.Create(ctx, &models.DynamicColumn{
		ColumnKey: "tier", Title: "Tier", Type: models.ColumnTypeText, Width: 150,
	}, false)
	require.NoError(t, err)

	value, err := env.service.UpdateCustomField(ctx, d.ID, "tier", "Gold")
	require.NoError(t, err)
	assert.Equal(t, "tier", value.ColumnKey)

	// Inactive columns reject writes.
	_, err = env.registry.SetActive(ctx, "tier", false)
	require.NoError(t, err)
	_, err = env.service.UpdateCustomField(ctx, d.ID, "tier", "Silver")
	assert.True(t, apperr.IsNotFound(err))
}

func TestServiceGetMergesCustomFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	d, err := env.service.Create(ctx, CreateDonorRequest{DonorName: "A", Email: "a@example.org"})
	require.NoError(t, err)
	_, err = env.values.Upsert(ctx, d.ID, "tier", "Gold")
	require.NoError(t, err)

	got, err := env.service.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.DonorName)
	assert.Equal(t, "Gold", got.CustomFields["tier"])
}

func TestServiceFiles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	d, err := env.service.Create(ctx, CreateDonorRequest{DonorName: "A", Email: "a@example.org"})
	require.NoError(t, err)

	files, err := env.service.Files(ctx, d.ID)
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = env.service.AttachFile(ctx, d.ID, models.FileMetadata{})
	assert.True(t, apperr.IsValidation(err))

	saved, err := env.service.AttachFile(ctx, d.ID, models.FileMetadata{Filename: "pledge.pdf", Size: 1024})
	require.NoError(t, err)
	assert.False(t, saved.UploadedAt.IsZero())

	files, err = env.service.Files(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "pledge.pdf", files[0].Filename)
}
