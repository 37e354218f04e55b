package board

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fundlane/backend/internal/apperr"
	"github.com/fundlane/backend/internal/models"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type CreateBoardRequest struct {
	BoardName       string          `json:"boardName"`
	SelectedColumns map[string]bool `json:"selectedColumns"`
	Tasks           []string        `json:"tasks"`
	UserID          *string         `json:"userId"`
	UserEmail       *string         `json:"userEmail"`
}

type UpdateBoardRequest struct {
	BoardName       string                `json:"boardName"`
	SelectedColumns map[string]bool       `json:"selectedColumns"`
	Settings        *models.BoardSettings `json:"settings"`
}

type ItemUpdate struct {
	Title *string        `json:"title,omitempty"`
	Group *string        `json:"group,omitempty"`
	Data  map[string]any `json:"data,omitempty"`
}

type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) InitializeDatabase(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*models.Board)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create boards table: %w", err)
	}

	_, err = r.db.NewCreateIndex().
		Model((*models.Board)(nil)).
		Index("idx_boards_user_id").
		Column("user_id").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create user_id index: %w", err)
	}
	return nil
}

// Create builds a board with the default views and one item per task
// name, mirroring how a fresh board is seeded from the setup flow.
func (r *Repository) Create(ctx context.Context, req CreateBoardRequest) (*models.Board, error) {
	name := strings.TrimSpace(req.BoardName)
	if name == "" {
		return nil, apperr.Validation("board name is required")
	}

	columns := req.SelectedColumns
	if columns == nil {
		columns = models.DefaultBoardColumns()
	}

	now := time.Now()
	items := make([]models.BoardItem, 0, len(req.Tasks))
	for i, task := range req.Tasks {
		status := "Stuck"
		switch i {
		case 0:
			status = "Working on it"
		case 1:
			status = "Done"
		}
		items = append(items, models.BoardItem{
			ID:    uuid.New(),
			Title: task,
			Group: "default",
			Data: map[string]any{
				"status":   status,
				"owner":    nil,
				"dueDate":  nil,
				"priority": nil,
			},
			CreatedAt: now,
		})
	}

	b := &models.Board{
		ID:      uuid.New(),
		Name:    name,
		Columns: columns,
		Views: []models.BoardView{
			{ID: "main-table", Name: "Main Table", Icon: "board", Type: "main", IsDefault: true},
			{ID: "dashboard", Name: "Dashboard and reporting", Icon: "chart", Type: "dashboard", IsDefault: false},
		},
		Items:       items,
		Settings:    models.DefaultBoardSettings(),
		UserID:      req.UserID,
		UserEmail:   req.UserEmail,
		CreatedFrom: "scratch",
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := r.db.NewInsert().Model(b).Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}
	return b, nil
}

// Insert stores an already-built board; used by the template flow.
func (r *Repository) Insert(ctx context.Context, b *models.Board) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	if _, err := r.db.NewInsert().Model(b).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert board: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Board, error) {
	b := new(models.Board)
	err := r.db.NewSelect().
		Model(b).
		Where("id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("board " + id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get board %s: %w", id, err)
	}
	return b, nil
}

func (r *Repository) ListAll(ctx context.Context) ([]models.Board, error) {
	boards := make([]models.Board, 0)
	err := r.db.NewSelect().
		Model(&boards).
		Where("is_deleted = ?", false).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	return boards, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]models.Board, error) {
	boards := make([]models.Board, 0)
	err := r.db.NewSelect().
		Model(&boards).
		Where("user_id = ?", userID).
		Where("is_deleted = ?", false).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards for user %s: %w", userID, err)
	}
	return boards, nil
}

func (r *Repository) Search(ctx context.Context, term string) ([]models.Board, error) {
	boards := make([]models.Board, 0)
	err := r.db.NewSelect().
		Model(&boards).
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(term)+"%").
		Where("is_deleted = ?", false).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search boards: %w", err)
	}
	return boards, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, req UpdateBoardRequest) (*models.Board, error) {
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.BoardName != "" {
		b.Name = strings.TrimSpace(req.BoardName)
	}
	if req.SelectedColumns != nil {
		if b.Columns == nil {
			b.Columns = make(map[string]bool)
		}
		for key, enabled := range req.SelectedColumns {
			b.Columns[key] = enabled
		}
	}
	if req.Settings != nil {
		b.Settings = *req.Settings
	}
	b.UpdatedAt = time.Now()

	if _, err := r.db.NewUpdate().Model(b).WherePK().Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to update board %s: %w", id, err)
	}
	return b, nil
}

// SoftDelete flags the board; nothing is removed from storage.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	b.IsDeleted = true
	b.IsActive = false
	b.UpdatedAt = time.Now()

	if _, err := r.db.NewUpdate().Model(b).WherePK().Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete board %s: %w", id, err)
	}
	return nil
}

func (r *Repository) AddItem(ctx context.Context, id uuid.UUID, title, group string, data map[string]any) (*models.Board, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperr.Validation("item title is required")
	}
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if group == "" {
		group = "default"
	}
	if data == nil {
		data = map[string]any{}
	}
	b.Items = append(b.Items, models.BoardItem{
		ID:        uuid.New(),
		Title:     title,
		Group:     group,
		Data:      data,
		CreatedAt: time.Now(),
	})
	b.UpdatedAt = time.Now()

	if _, err := r.db.NewUpdate().Model(b).WherePK().Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to add item to board %s: %w", id, err)
	}
	return b, nil
}

func (r *Repository) UpdateItem(ctx context.Context, id, itemID uuid.UUID, upd ItemUpdate) (*models.Board, error) {
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range b.Items {
		if b.Items[i].ID != itemID {
			continue
		}
		found = true
		if upd.Title != nil {
			b.Items[i].Title = *upd.Title
		}
		if upd.Group != nil {
			b.Items[i].Group = *upd.Group
		}
		if upd.Data != nil {
			if b.Items[i].Data == nil {
				b.Items[i].Data = map[string]any{}
			}
			for key, value := range upd.Data {
				b.Items[i].Data[key] = value
			}
		}
		break
	}
	if !found {
		return nil, apperr.NotFound("item " + itemID.String())
	}
	b.UpdatedAt = time.Now()

	if _, err := r.db.NewUpdate().Model(b).WherePK().Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to update item on board %s: %w", id, err)
	}
	return b, nil
}

func (r *Repository) DeleteItem(ctx context.Context, id, itemID uuid.UUID) (*models.Board, error) {
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	kept := b.Items[:0]
	found := false
	for _, item := range b.Items {
		if item.ID == itemID {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	if !found {
		return nil, apperr.NotFound("item " + itemID.String())
	}
	b.Items = kept
	b.UpdatedAt = time.Now()

	if _, err := r.db.NewUpdate().Model(b).WherePK().Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to delete item from board %s: %w", id, err)
	}
	return b, nil
}
