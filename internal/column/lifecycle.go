package column

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fundlane/backend/internal/apperr"
	"github.com/fundlane/backend/internal/donorvalue"
	"github.com/fundlane/backend/internal/models"
	"github.com/google/uuid"
)

// EntityLister supplies the IDs autofill targets when the caller asks
// for "all donors".
type EntityLister interface {
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

type CreateColumnRequest struct {
	ColumnKey  string            `json:"column_key"`
	Title      string            `json:"title"`
	Type       models.ColumnType `json:"type"`
	Options    *json.RawMessage  `json:"options,omitempty"`
	Width      *int              `json:"width,omitempty"`
	Order      *int              `json:"order,omitempty"`
	IsRequired bool              `json:"isRequired"`
}

type ReorderItem struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// BatchResult reports per-item outcomes of a best-effort batch. The
// batch never aborts on the first failure.
type BatchResult struct {
	Succeeded []string       `json:"succeeded"`
	Failed    []BatchFailure `json:"failed"`
}

type BatchFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

type AutofillResult struct {
	ColumnKey string `json:"column_key"`
	Updated   int    `json:"updated"`
	Failed    int    `json:"failed"`
}

// Lifecycle implements the column state machine: active <-> inactive,
// with permanent deletion cascading into the value store. Multi-step
// operations run as short ordered pipelines of idempotent steps; a
// fault partway through leaves a documented partial state for the
// caller to retry.
type Lifecycle struct {
	registry Registry
	values   donorvalue.Store
	entities EntityLister
}

func NewLifecycle(registry Registry, values donorvalue.Store, entities EntityLister) *Lifecycle {
	return &Lifecycle{registry: registry, values: values, entities: entities}
}

func (l *Lifecycle) Create(ctx context.Context, req CreateColumnRequest) (*models.DynamicColumn, error) {
	def, err := l.buildDefinition(req)
	if err != nil {
		return nil, err
	}
	return l.registry.Create(ctx, def, req.Order != nil)
}

func (l *Lifecycle) buildDefinition(req CreateColumnRequest) (*models.DynamicColumn, error) {
	key := strings.ToLower(strings.TrimSpace(req.ColumnKey))
	if key == "" {
		return nil, apperr.Validation("column_key is required")
	}
	if !models.ColumnKeyPattern.MatchString(key) {
		return nil, apperr.Validation("column_key must contain only lowercase letters, numbers, and underscores")
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, apperr.Validation("title is required")
	}
	if req.Type == "" {
		req.Type = models.ColumnTypeText
	}
	if !req.Type.Valid() {
		return nil, apperr.Validationf("invalid column type %q", req.Type)
	}

	def := &models.DynamicColumn{
		ColumnKey:  key,
		Title:      strings.TrimSpace(req.Title),
		Type:       req.Type,
		Width:      150,
		IsRequired: req.IsRequired,
	}
	if req.Options != nil {
		def.Options = *req.Options
	}
	if req.Width != nil {
		if *req.Width <= 0 {
			return nil, apperr.Validation("width must be positive")
		}
		def.Width = *req.Width
	}
	if req.Order != nil {
		def.SortOrder = *req.Order
	}
	return def, nil
}

// Delete soft-deletes by default; permanent removes the definition and
// then cascades the values. The fixed order means a fault after the
// definition delete leaves orphaned values, which the query path never
// surfaces and a retry of DeleteForColumn cleans up.
func (l *Lifecycle) Delete(ctx context.Context, key string, permanent bool) (*models.DynamicColumn, error) {
	def, err := l.registry.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if !permanent {
		return l.registry.SetActive(ctx, key, false)
	}
	if err := l.registry.Delete(ctx, key); err != nil {
		return nil, err
	}
	if err := l.values.DeleteForColumn(ctx, key); err != nil {
		return nil, err
	}
	return def, nil
}

func (l *Lifecycle) Restore(ctx context.Context, key string) (*models.DynamicColumn, error) {
	return l.registry.SetActive(ctx, key, true)
}

// Duplicate copies a definition under a generated key ordered right
// after the source, then copies every stored value. A fault during the
// value copy leaves the new definition in place; the caller retries
// the copy or deletes the column.
func (l *Lifecycle) Duplicate(ctx context.Context, sourceKey string) (*models.DynamicColumn, error) {
	src, err := l.registry.GetByKey(ctx, sourceKey)
	if err != nil {
		return nil, err
	}

	dup := &models.DynamicColumn{
		Title:      src.Title,
		Type:       src.Type,
		Options:    src.Options,
		Width:      src.Width,
		SortOrder:  src.SortOrder + 1,
		IsRequired: src.IsRequired,
	}

	// Millisecond timestamps still collide when the same source is
	// duplicated twice in quick succession, so retry with a counter
	// suffix on a key clash.
	base := fmt.Sprintf("%s_copy_%d", src.ColumnKey, time.Now().UnixMilli())
	var created *models.DynamicColumn
	for attempt := 0; ; attempt++ {
		dup.ColumnKey = base
		if attempt > 0 {
			dup.ColumnKey = fmt.Sprintf("%s_%d", base, attempt)
		}
		created, err = l.registry.Create(ctx, dup, true)
		if err == nil {
			break
		}
		if !apperr.IsDuplicateKey(err) || attempt >= 10 {
			return nil, err
		}
	}
	if _, err := l.values.CopyColumn(ctx, src.ColumnKey, created.ColumnKey); err != nil {
		return nil, err
	}
	return created, nil
}

// Retype changes a column's declared type in place. Stored values are
// opaque payloads and are left exactly as they are: a retype may leave
// values that no longer match the declared type, and that is the
// contract.
func (l *Lifecycle) Retype(ctx context.Context, key string, newType models.ColumnType, options *json.RawMessage) (*models.DynamicColumn, error) {
	if !newType.Valid() {
		return nil, apperr.Validationf("invalid column type %q", newType)
	}
	upd := models.ColumnUpdate{Type: &newType}
	if options != nil {
		upd.Options = options
	}
	return l.registry.Update(ctx, key, upd)
}

// Reorder applies each (key, order) pair independently. A missing
// column fails that item only; the rest of the batch still lands.
func (l *Lifecycle) Reorder(ctx context.Context, items []ReorderItem) (*BatchResult, error) {
	if len(items) == 0 {
		return nil, apperr.Validation("columnOrders must be a non-empty array")
	}

	result := &BatchResult{
		Succeeded: make([]string, 0, len(items)),
		Failed:    make([]BatchFailure, 0),
	}
	for _, item := range items {
		if err := l.registry.UpdateOrder(ctx, item.ID, item.Order); err != nil {
			result.Failed = append(result.Failed, BatchFailure{ID: item.ID, Error: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, item.ID)
	}
	return result, nil
}

// InsertRight shifts every column ordered after the anchor by +1, then
// creates the new column in the opened slot. The shift must land
// before the insert to avoid an order collision with the anchor's old
// right-hand neighbour.
func (l *Lifecycle) InsertRight(ctx context.Context, anchorKey string, req CreateColumnRequest) (*models.DynamicColumn, error) {
	anchor, err := l.registry.GetByKey(ctx, anchorKey)
	if err != nil {
		return nil, err
	}
	def, err := l.buildDefinition(req)
	if err != nil {
		return nil, err
	}

	if err := l.registry.ShiftOrdersAbove(ctx, anchor.SortOrder); err != nil {
		return nil, err
	}
	def.SortOrder = anchor.SortOrder + 1
	return l.registry.Create(ctx, def, true)
}

// Autofill upserts one value for every targeted donor. donorIDs == nil
// targets all donors; an empty target set autofills nothing and is not
// an error. Each upsert is independent: failures are counted, not
// fatal.
func (l *Lifecycle) Autofill(ctx context.Context, key string, value any, donorIDs []uuid.UUID) (*AutofillResult, error) {
	def, err := l.registry.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if !def.IsActive {
		return nil, apperr.NotFound("column " + key + " is inactive")
	}

	if donorIDs == nil {
		donorIDs, err = l.entities.ListIDs(ctx)
		if err != nil {
			return nil, err
		}
	}

	result := &AutofillResult{ColumnKey: key}
	for _, id := range donorIDs {
		if _, err := l.values.Upsert(ctx, id, key, value); err != nil {
			result.Failed++
			continue
		}
		result.Updated++
	}
	return result, nil
}
