package column

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fundlane/backend/internal/apperr"
	"github.com/fundlane/backend/internal/models"
	"github.com/uptrace/bun"
)

// Registry owns the set of dynamic column definitions.
type Registry interface {
	InitializeDatabase(ctx context.Context) error
	List(ctx context.Context, includeInactive bool) ([]models.DynamicColumn, error)
	GetByKey(ctx context.Context, key string) (*models.DynamicColumn, error)
	Create(ctx context.Context, def *models.DynamicColumn, explicitOrder bool) (*models.DynamicColumn, error)
	Update(ctx context.Context, key string, upd models.ColumnUpdate) (*models.DynamicColumn, error)
	SetActive(ctx context.Context, key string, active bool) (*models.DynamicColumn, error)
	UpdateOrder(ctx context.Context, key string, order int) error
	ShiftOrdersAbove(ctx context.Context, threshold int) error
	Delete(ctx context.Context, key string) error
}

type ColumnRegistry struct {
	db *bun.DB
}

func NewRegistry(db *bun.DB) *ColumnRegistry {
	return &ColumnRegistry{db: db}
}

func (r *ColumnRegistry) InitializeDatabase(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*models.DynamicColumn)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create dynamic_columns table: %w", err)
	}

	_, err = r.db.NewCreateIndex().
		Model((*models.DynamicColumn)(nil)).
		Index("idx_dynamic_columns_sort_order").
		Column("sort_order").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create sort_order index: %w", err)
	}
	return nil
}

func (r *ColumnRegistry) List(ctx context.Context, includeInactive bool) ([]models.DynamicColumn, error) {
	columns := make([]models.DynamicColumn, 0)
	query := r.db.NewSelect().
		Model(&columns).
		Order("sort_order ASC").
		Order("created_at ASC")

	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	return columns, nil
}

func (r *ColumnRegistry) GetByKey(ctx context.Context, key string) (*models.DynamicColumn, error) {
	def := new(models.DynamicColumn)
	err := r.db.NewSelect().
		Model(def).
		Where("column_key = ?", key).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("column " + key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get column %s: %w", key, err)
	}
	return def, nil
}

// Create inserts a new definition. When the caller did not supply an
// order, the column appends to the end: max(existing order) + 1, or 0
// for an empty registry.
func (r *ColumnRegistry) Create(ctx context.Context, def *models.DynamicColumn, explicitOrder bool) (*models.DynamicColumn, error) {
	exists, err := r.db.NewSelect().
		Model((*models.DynamicColumn)(nil)).
		Where("column_key = ?", def.ColumnKey).
		Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check column key %s: %w", def.ColumnKey, err)
	}
	if exists {
		return nil, apperr.Duplicate("column " + def.ColumnKey)
	}

	if !explicitOrder {
		next, err := r.nextOrder(ctx)
		if err != nil {
			return nil, err
		}
		def.SortOrder = next
	}

	now := time.Now()
	def.CreatedAt = now
	def.UpdatedAt = now
	def.IsActive = true

	if _, err := r.db.NewInsert().Model(def).Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to create column %s: %w", def.ColumnKey, err)
	}
	return def, nil
}

func (r *ColumnRegistry) nextOrder(ctx context.Context) (int, error) {
	var max sql.NullInt64
	err := r.db.NewSelect().
		Model((*models.DynamicColumn)(nil)).
		ColumnExpr("MAX(sort_order)").
		Scan(ctx, &max)
	if err != nil {
		return 0, fmt.Errorf("failed to get max column order: %w", err)
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}

func (r *ColumnRegistry) Update(ctx context.Context, key string, upd models.ColumnUpdate) (*models.DynamicColumn, error) {
	def, err := r.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		def.Title = *upd.Title
	}
	if upd.Type != nil {
		def.Type = *upd.Type
	}
	if upd.Options != nil {
		def.Options = *upd.Options
	}
	if upd.Width != nil {
		def.Width = *upd.Width
	}
	if upd.SortOrder != nil {
		def.SortOrder = *upd.SortOrder
	}
	if upd.IsRequired != nil {
		def.IsRequired = *upd.IsRequired
	}
	if upd.IsActive != nil {
		def.IsActive = *upd.IsActive
	}
	def.UpdatedAt = time.Now()

	_, err = r.db.NewUpdate().
		Model(def).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update column %s: %w", key, err)
	}
	return def, nil
}

func (r *ColumnRegistry) SetActive(ctx context.Context, key string, active bool) (*models.DynamicColumn, error) {
	return r.Update(ctx, key, models.ColumnUpdate{IsActive: &active})
}

func (r *ColumnRegistry) UpdateOrder(ctx context.Context, key string, order int) error {
	res, err := r.db.NewUpdate().
		Model((*models.DynamicColumn)(nil)).
		Set("sort_order = ?", order).
		Set("updated_at = ?", time.Now()).
		Where("column_key = ?", key).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update order for column %s: %w", key, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return apperr.NotFound("column " + key)
	}
	return nil
}

// ShiftOrdersAbove bumps every column ordered after the threshold by
// one, opening a slot at threshold+1.
func (r *ColumnRegistry) ShiftOrdersAbove(ctx context.Context, threshold int) error {
	_, err := r.db.NewUpdate().
		Model((*models.DynamicColumn)(nil)).
		Set("sort_order = sort_order + 1").
		Set("updated_at = ?", time.Now()).
		Where("sort_order > ?", threshold).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to shift column orders: %w", err)
	}
	return nil
}

func (r *ColumnRegistry) Delete(ctx context.Context, key string) error {
	res, err := r.db.NewDelete().
		Model((*models.DynamicColumn)(nil)).
		Where("column_key = ?", key).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete column %s: %w", key, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return apperr.NotFound("column " + key)
	}
	return nil
}
