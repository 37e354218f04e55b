package donor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fundlane/backend/internal/apperr"
	"github.com/fundlane/backend/internal/column"
	"github.com/fundlane/backend/internal/donorvalue"
	"github.com/fundlane/backend/internal/models"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// baseFields are the donor columns filtering, sorting and grouping may
// reference. Dynamic column values are never part of the push-down.
var baseFields = map[string]bool{
	"id":              true,
	"donor_name":      true,
	"email":           true,
	"phone":           true,
	"total_donated":   true,
	"total_donations": true,
	"status":          true,
	"created_at":      true,
	"updated_at":      true,
}

// textFields are the base fields the string operators (contains,
// starts_with, is_empty and friends) may target. Postgres rejects
// LOWER() and '' comparisons on the numeric and timestamp columns.
var textFields = map[string]bool{
	"donor_name": true,
	"email":      true,
	"phone":      true,
	"status":     true,
}

type Sort struct {
	Field string `json:"field"`
	Order string `json:"order"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type Page struct {
	Donors     []models.DonorWithFields `json:"donors"`
	Pagination Pagination               `json:"pagination"`
}

type Group struct {
	Value  any            `json:"value"`
	Count  int            `json:"count"`
	Donors []models.Donor `json:"donors"`
}

// ListParams drive the plain donor listing: free-text search over
// name/email/phone plus an optional status filter.
type ListParams struct {
	Page   int
	Limit  int
	Search string
	SortBy string
	Order  string
	Status models.DonorStatus
}

// QueryService orchestrates filtered, sorted, paginated donor
// retrieval with custom values merged in.
type QueryService struct {
	db       *bun.DB
	values   donorvalue.Store
	registry column.Registry
}

func NewQueryService(db *bun.DB, values donorvalue.Store, registry column.Registry) *QueryService {
	return &QueryService{db: db, values: values, registry: registry}
}

// Query runs the advanced filter pipeline: translate clauses, count,
// fetch the requested page, then merge custom values for exactly the
// donors on that page.
func (s *QueryService) Query(ctx context.Context, clauses []FilterClause, sortSpec *Sort, page, limit int) (*Page, error) {
	page, limit = normalizePage(page, limit)

	countQ, err := ApplyFilters(s.db.NewSelect().Model((*models.Donor)(nil)), clauses)
	if err != nil {
		return nil, err
	}
	total, err := countQ.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count donors: %w", err)
	}

	donors := make([]models.Donor, 0)
	q, err := ApplyFilters(s.db.NewSelect().Model(&donors), clauses)
	if err != nil {
		return nil, err
	}
	q, err = applySort(q, sortSpec)
	if err != nil {
		return nil, err
	}
	err = q.Offset((page - 1) * limit).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donors: %w", err)
	}

	merged, err := s.mergeValues(ctx, donors)
	if err != nil {
		return nil, err
	}

	return &Page{
		Donors: merged,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages(total, limit),
		},
	}, nil
}

// List is the plain donor listing with search and status filter.
func (s *QueryService) List(ctx context.Context, params ListParams) (*Page, error) {
	page, limit := normalizePage(params.Page, params.Limit)

	base := func() *bun.SelectQuery {
		q := s.db.NewSelect().Model((*models.Donor)(nil))
		if params.Search != "" {
			term := "%" + strings.ToLower(params.Search) + "%"
			q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.
					WhereOr("LOWER(donor_name) LIKE ?", term).
					WhereOr("LOWER(email) LIKE ?", term).
					WhereOr("LOWER(phone) LIKE ?", term)
			})
		}
		if params.Status != "" {
			q = q.Where("status = ?", params.Status)
		}
		return q
	}

	total, err := base().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count donors: %w", err)
	}

	sortSpec := &Sort{Field: params.SortBy, Order: params.Order}
	if sortSpec.Field == "" {
		sortSpec.Field = "created_at"
	}
	if sortSpec.Order == "" {
		sortSpec.Order = "desc"
	}

	donors := make([]models.Donor, 0)
	q := base().Model(&donors)
	q, err = applySort(q, sortSpec)
	if err != nil {
		return nil, err
	}
	err = q.Offset((page - 1) * limit).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donors: %w", err)
	}

	merged, err := s.mergeValues(ctx, donors)
	if err != nil {
		return nil, err
	}

	return &Page{
		Donors: merged,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages(total, limit),
		},
	}, nil
}

// GroupBy buckets all donors by the distinct values of one base field,
// largest group first.
func (s *QueryService) GroupBy(ctx context.Context, field string) ([]Group, error) {
	if field == "" {
		return nil, apperr.Validation("field is required for grouping")
	}
	if !baseFields[field] {
		return nil, apperr.Validationf("cannot group by field %q", field)
	}

	donors := make([]models.Donor, 0)
	err := s.db.NewSelect().
		Model(&donors).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donors for grouping: %w", err)
	}

	index := make(map[any]int)
	groups := make([]Group, 0)
	for i := range donors {
		key := fieldValue(&donors[i], field)
		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, Group{Value: key})
		}
		groups[pos].Count++
		groups[pos].Donors = append(groups[pos].Donors, donors[i])
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})
	return groups, nil
}

// mergeValues attaches each donor's custom values, restricted to keys
// the registry currently lists as active. Orphaned values from
// non-cascade deletes never resurface here.
func (s *QueryService) mergeValues(ctx context.Context, donors []models.Donor) ([]models.DonorWithFields, error) {
	ids := make([]uuid.UUID, len(donors))
	for i := range donors {
		ids[i] = donors[i].ID
	}

	valuesByDonor, err := s.values.GetForEntities(ctx, ids)
	if err != nil {
		return nil, err
	}

	active, err := s.registry.List(ctx, false)
	if err != nil {
		return nil, err
	}
	registered := make(map[string]bool, len(active))
	for i := range active {
		registered[active[i].ColumnKey] = true
	}

	merged := make([]models.DonorWithFields, len(donors))
	for i := range donors {
		fields := make(map[string]any)
		for key, value := range valuesByDonor[donors[i].ID] {
			if registered[key] {
				fields[key] = value
			}
		}
		merged[i] = models.DonorWithFields{
			Donor:        donors[i],
			CustomFields: fields,
		}
	}
	return merged, nil
}

func applySort(q *bun.SelectQuery, sortSpec *Sort) (*bun.SelectQuery, error) {
	if sortSpec == nil || sortSpec.Field == "" {
		return q.OrderExpr("created_at DESC"), nil
	}
	if !baseFields[sortSpec.Field] {
		return nil, apperr.Validationf("cannot sort by field %q", sortSpec.Field)
	}
	dir := "ASC"
	if strings.EqualFold(sortSpec.Order, "desc") {
		dir = "DESC"
	}
	return q.OrderExpr("? ?", bun.Ident(sortSpec.Field), bun.Safe(dir)), nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}

func totalPages(total, limit int) int {
	return (total + limit - 1) / limit
}

func fieldValue(d *models.Donor, field string) any {
	switch field {
	case "id":
		return d.ID.String()
	case "donor_name":
		return d.DonorName
	case "email":
		return d.Email
	case "phone":
		if d.Phone == nil {
			return nil
		}
		return *d.Phone
	case "total_donated":
		return d.TotalDonated
	case "total_donations":
		return d.TotalDonations
	case "status":
		return string(d.Status)
	case "created_at":
		return d.CreatedAt
	case "updated_at":
		return d.UpdatedAt
	default:
		return nil
	}
}
