package donor

import (
	"context"
	"testing"

	"github.com/fundlane/backend/internal/apperr"
	"github.com/fundlane/backend/internal/column"
	"github.com/fundlane/backend/internal/donorvalue"
	"github.com/fundlane/backend/internal/models"
	"github.com/fundlane/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type testEnv struct {
	db       *bun.DB
	repo     *DonorRepository
	values   donorvalue.Store
	registry column.Registry
	service  *Service
	query    *QueryService
}

func newTestEnv(t *testing.T) *testEnv {
	db := testutil.NewDB(t)
	repo := NewRepository(db)
	values := donorvalue.NewStore(db)
	registry := column.NewRegistry(db)
	testutil.InitSchema(t, repo, values, registry)
	return &testEnv{
		db:       db,
		repo:     repo,
		values:   values,
		registry: registry,
		service:  NewService(repo, values, registry),
		query:    NewQueryService(db, values, registry),
	}
}

func (e *testEnv) seedDonor(t *testing.T, name, email string, status models.DonorStatus, phone *string, donated float64) *models.Donor {
	t.Helper()
	d := &models.Donor{
		DonorName:    name,
		Email:        email,
		Phone:        phone,
		TotalDonated: donated,
		Status:       status,
	}
	require.NoError(t, e.repo.Create(context.Background(), d))
	return d
}

func strptr(s string) *string { return &s }

func (e *testEnv) filterNames(t *testing.T, clauses []FilterClause) []string {
	t.Helper()
	page, err := e.query.Query(context.Background(), clauses, &Sort{Field: "donor_name", Order: "asc"}, 1, 100)
	require.NoError(t, err)
	names := make([]string, len(page.Donors))
	for i, d := range page.Donors {
		names[i] = d.DonorName
	}
	return names
}

func seedFilterFixture(t *testing.T, env *testEnv) {
	env.seedDonor(t, "Alice", "alice@example.org", models.DonorStatusActive, strptr("555-0101"), 1000)
	env.seedDonor(t, "Bob", "bob@example.org", models.DonorStatusPotential, nil, 250)
	env.seedDonor(t, "Carol", "carol@example.org", models.DonorStatusActive, strptr(""), 4800)
	env.seedDonor(t, "Dan", "dan@example.org", models.DonorStatusInactive, strptr("555-0104"), 0)
}

func TestFilterEquals(t *testing.T) {
	env := newTestEnv(t)
	seedFilterFixture(t, env)

	names := env.filterNames(t, []FilterClause{
		{Field: "status", Operator: "equals", Value: "active"},
	})
	assert.Equal(t, []string{"Alice", "Carol"}, names)

	// "is" is an alias for equals.
	names = env.filterNames(t, []FilterClause{
		{Field: "status", Operator: "is", Value: "inactive"},
	})
	assert.Equal(t, []string{"Dan"}, names)
}

func TestFilterNotEqualsMatchesNull(t *testing.T) {
	env := newTestEnv(t)
	seedFilterFixture(t, env)

	// Bob's NULL phone counts as "not equal", not as a non-match.
	names := env.filterNames(t, []FilterClause{
		{Field: "phone", Operator: "not_equals", Value: "555-0101"},
	})
	assert.Equal(t, []string{"Bob", "Carol", "Dan"}, names)
}

func TestFilterContainsCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	seedFilterFixture(t, env)

	names := env.filterNames(t, []FilterClause{
		{Field: "donor_name", Operator: "contains", Value: "AR"},
	})
	assert.Equal(t, []string{"Carol"}, names)
}

func TestFilterStartsWithEndsWith(t *testing.T) {
	env := newTestEnv(t)
	seedFilterFixture(t, env)

	names := env.filterNames(t, []FilterClause{
		{Field: "email", Operator: "starts_with", Value: "ali"},
	})
	assert.Equal(t, []string{"Alice"}, names)

	names = env.filterNames(t, []FilterClause{
		{Field: "donor_name", Operator: "ends_with", Value: "b"},
	})
	assert.Equal(t, []string{"Bob"}, names)
}

func TestFilterNumericComparisons(t *testing.T) {
	env := newTestEnv(t)
	seedFilterFixture(t, env)

	names := env.filterNames(t, []FilterClause{
		{Field: "total_donated", Operator: "greater_than", Value: 250},
	})
	assert.Equal(t, []string{"Alice", "Carol"}, names)

	names = env.filterNames(t, []FilterClause{
		{Field: "total_donated", Operator: "less_than_or_equal", Value: 250},
	})
	assert.Equal(t, []string{"Bob", "Dan"}, names)
}

func TestFilterEmptyComplement(t *testing.T) {
	env := newTestEnv(t)
	seedFilterFixture(t, env)

	// NULL and empty string both count as empty.
	empty := env.filterNames(t, []FilterClause{
		{Field: "phone", Operator: "is_empty"},
	})
	assert.Equal(t, []string{"Bob", "Carol"}, empty)

	notEmpty := env.filterNames(t, []FilterClause{
		{Field: "phone", Operator: "is_not_empty"},
	})
	assert.Equal(t, []string{"Alice", "Dan"}, notEmpty)

	// Together the two partitions cover every donor exactly once.
	assert.Len(t, append(empty, notEmpty...), 4)
}

func TestFilterInSet(t *testing.T) {
	env := newTestEnv(t)
	seedFilterFixture(t, env)

	names := env.filterNames(t, []FilterClause{
		{Field: "status", Operator: "in", Value: []any{"potential", "inactive"}},
	})
	assert.Equal(t, []string{"Bob", "Dan"}, names)

	// A bare scalar is treated as a one-element set.
	names = env.filterNames(t, []FilterClause{
		{Field: "status", Operator: "in", Value: "potential"},
	})
	assert.Equal(t, []string{"Bob"}, names)

	names = env.filterNames(t, []FilterClause{
		{Field: "status", Operator: "not_in", Value: []any{"active"}},
	})
	assert.Equal(t, []string{"Bob", "Dan"}, names)
}

func TestFilterUnknownOperatorFallsBackToEquality(t *testing.T) {
	env := newTestEnv(t)
	seedFilterFixture(t, env)

	names := env.filterNames(t, []FilterClause{
		{Field: "donor_name", Operator: "resembles", Value: "Alice"},
	})
	assert.Equal(t, []string{"Alice"}, names)
}

func TestFilterRejectsUnknownField(t *testing.T) {
	env := newTestEnv(t)
	seedFilterFixture(t, env)

	// sqlite would quietly treat the unknown identifier as a string
	// literal; the clause has to be rejected before it reaches SQL.
	_, err := env.query.Query(context.Background(), []FilterClause{
		{Field: "favorite_color", Operator: "equals", Value: "blue"},
	}, nil, 1, 10)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestFilterRejectsStringOperatorOnNonTextField(t *testing.T) {
	env := newTestEnv(t)
	seedFilterFixture(t, env)

	cases := []FilterClause{
		{Field: "total_donated", Operator: "contains", Value: "48"},
		{Field: "total_donated", Operator: "is_empty"},
		{Field: "created_at", Operator: "starts_with", Value: "2026"},
	}
	for _, clause := range cases {
		_, err := env.query.Query(context.Background(), []FilterClause{clause}, nil, 1, 10)
		require.Error(t, err, "operator %s on %s", clause.Operator, clause.Field)
		assert.True(t, apperr.IsValidation(err))
	}
}

func TestFilterClausesCombineWithAnd(t *testing.T) {
	env := newTestEnv(t)
	seedFilterFixture(t, env)

	names := env.filterNames(t, []FilterClause{
		{Field: "status", Operator: "equals", Value: "active"},
		{Field: "total_donated", Operator: "greater_than", Value: 2000},
	})
	assert.Equal(t, []string{"Carol"}, names)
}

func TestFilterNoClausesMatchesEverything(t *testing.T) {
	env := newTestEnv(t)
	seedFilterFixture(t, env)

	names := env.filterNames(t, nil)
	assert.Len(t, names, 4)
}
