// Package donorvalue stores custom column values as a sparse
// (donor_id, column_key) side table. Values are opaque JSON payloads;
// validating them against column definitions is the caller's job.
package donorvalue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fundlane/backend/internal/models"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Store interface {
	InitializeDatabase(ctx context.Context) error
	GetForEntities(ctx context.Context, donorIDs []uuid.UUID) (map[uuid.UUID]map[string]any, error)
	GetForEntity(ctx context.Context, donorID uuid.UUID) (map[string]any, error)
	Upsert(ctx context.Context, donorID uuid.UUID, columnKey string, value any) (*models.DonorColumnValue, error)
	DeleteForEntity(ctx context.Context, donorID uuid.UUID) error
	DeleteForColumn(ctx context.Context, columnKey string) error
	CopyColumn(ctx context.Context, fromKey, toKey string) (int, error)
}

type ValueStore struct {
	db *bun.DB
}

func NewStore(db *bun.DB) *ValueStore {
	return &ValueStore{db: db}
}

func (s *ValueStore) InitializeDatabase(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*models.DonorColumnValue)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create donor_column_values table: %w", err)
	}

	_, err = s.db.NewCreateIndex().
		Model((*models.DonorColumnValue)(nil)).
		Index("idx_donor_column_values_column_key").
		Column("column_key").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create column_key index: %w", err)
	}
	return nil
}

// GetForEntities returns the value map for every requested donor. A
// donor with no custom values maps to an empty map, never a missing
// entry.
func (s *ValueStore) GetForEntities(ctx context.Context, donorIDs []uuid.UUID) (map[uuid.UUID]map[string]any, error) {
	result := make(map[uuid.UUID]map[string]any, len(donorIDs))
	for _, id := range donorIDs {
		result[id] = make(map[string]any)
	}
	if len(donorIDs) == 0 {
		return result, nil
	}

	var values []models.DonorColumnValue
	err := s.db.NewSelect().
		Model(&values).
		Where("donor_id IN (?)", bun.In(donorIDs)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get values for donors: %w", err)
	}

	for i := range values {
		v := &values[i]
		result[v.DonorID][v.ColumnKey] = v.DecodedValue()
	}
	return result, nil
}

func (s *ValueStore) GetForEntity(ctx context.Context, donorID uuid.UUID) (map[string]any, error) {
	all, err := s.GetForEntities(ctx, []uuid.UUID{donorID})
	if err != nil {
		return nil, err
	}
	return all[donorID], nil
}

// Upsert writes one value, replacing any previous value for the same
// (donor, column) pair. Last write wins at the store's conflict
// granularity.
func (s *ValueStore) Upsert(ctx context.Context, donorID uuid.UUID, columnKey string, value any) (*models.DonorColumnValue, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value for column %s: %w", columnKey, err)
	}

	now := time.Now()
	row := &models.DonorColumnValue{
		ID:        uuid.New(),
		DonorID:   donorID,
		ColumnKey: columnKey,
		Value:     payload,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = s.db.NewInsert().
		Model(row).
		On("CONFLICT (donor_id, column_key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert value for column %s: %w", columnKey, err)
	}
	return row, nil
}

func (s *ValueStore) DeleteForEntity(ctx context.Context, donorID uuid.UUID) error {
	_, err := s.db.NewDelete().
		Model((*models.DonorColumnValue)(nil)).
		Where("donor_id = ?", donorID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete values for donor %s: %w", donorID, err)
	}
	return nil
}

func (s *ValueStore) DeleteForColumn(ctx context.Context, columnKey string) error {
	_, err := s.db.NewDelete().
		Model((*models.DonorColumnValue)(nil)).
		Where("column_key = ?", columnKey).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete values for column %s: %w", columnKey, err)
	}
	return nil
}

// CopyColumn duplicates every value stored under fromKey to toKey for
// the same donors. The destination definition is the caller's concern.
func (s *ValueStore) CopyColumn(ctx context.Context, fromKey, toKey string) (int, error) {
	var source []models.DonorColumnValue
	err := s.db.NewSelect().
		Model(&source).
		Where("column_key = ?", fromKey).
		Scan(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read values for column %s: %w", fromKey, err)
	}
	if len(source) == 0 {
		return 0, nil
	}

	now := time.Now()
	copies := make([]models.DonorColumnValue, len(source))
	for i := range source {
		copies[i] = models.DonorColumnValue{
			ID:        uuid.New(),
			DonorID:   source[i].DonorID,
			ColumnKey: toKey,
			Value:     source[i].Value,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	_, err = s.db.NewInsert().
		Model(&copies).
		On("CONFLICT (donor_id, column_key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to copy values from %s to %s: %w", fromKey, toKey, err)
	}
	return len(copies), nil
}
