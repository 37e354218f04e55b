package template

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fundlane/backend/internal/apperr"
	"github.com/fundlane/backend/internal/board"
	"github.com/fundlane/backend/internal/logger"
	"github.com/fundlane/backend/internal/models"
	"github.com/uptrace/bun"
)

type Repository struct {
	db     *bun.DB
	boards *board.Repository
}

func NewRepository(db *bun.DB, boards *board.Repository) *Repository {
	return &Repository{db: db, boards: boards}
}

func (r *Repository) InitializeDatabase(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*models.Template)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create templates table: %w", err)
	}

	_, err = r.db.NewCreateIndex().
		Model((*models.Template)(nil)).
		Index("idx_templates_category").
		Column("category", "is_active").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create category index: %w", err)
	}
	return nil
}

func (r *Repository) ListAll(ctx context.Context) ([]models.Template, error) {
	templates := make([]models.Template, 0)
	err := r.db.NewSelect().
		Model(&templates).
		Where("is_active = ?", true).
		Order("usage_count DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

func (r *Repository) ListByCategory(ctx context.Context, category string) ([]models.Template, error) {
	templates := make([]models.Template, 0)
	err := r.db.NewSelect().
		Model(&templates).
		Where("category = ?", category).
		Where("is_active = ?", true).
		Order("usage_count DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates for category %s: %w", category, err)
	}
	return templates, nil
}

func (r *Repository) Search(ctx context.Context, term string) ([]models.Template, error) {
	pattern := "%" + strings.ToLower(term) + "%"
	templates := make([]models.Template, 0)
	err := r.db.NewSelect().
		Model(&templates).
		Where("is_active = ?", true).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				WhereOr("LOWER(name) LIKE ?", pattern).
				WhereOr("LOWER(description) LIKE ?", pattern)
		}).
		Order("usage_count DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search templates: %w", err)
	}
	return templates, nil
}

func (r *Repository) GetByTemplateID(ctx context.Context, templateID string) (*models.Template, error) {
	t := new(models.Template)
	err := r.db.NewSelect().
		Model(t).
		Where("template_id = ?", templateID).
		Where("is_active = ?", true).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("template " + templateID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template %s: %w", templateID, err)
	}
	return t, nil
}

func (r *Repository) Categories() []string {
	return models.TemplateCategories
}

// CreateBoard expands a template into a new board and bumps the
// template's usage counter. The counter bump is best-effort: a board
// that exists with a stale count beats no board at all.
func (r *Repository) CreateBoard(ctx context.Context, templateID string, userID *string, customBoardName string) (*models.Board, error) {
	t, err := r.GetByTemplateID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	name := t.BoardStructure.Name
	if strings.TrimSpace(customBoardName) != "" {
		name = strings.TrimSpace(customBoardName)
	}

	columns := t.BoardStructure.Columns
	if columns == nil {
		columns = models.DefaultBoardColumns()
	}

	b := &models.Board{
		Name:    name,
		Columns: columns,
		Views: []models.BoardView{
			{ID: "main-table", Name: "Main Table", Icon: "board", Type: "main", IsDefault: true},
			{ID: "dashboard", Name: "Dashboard and reporting", Icon: "chart", Type: "dashboard", IsDefault: false},
		},
		Items:       t.BoardStructure.SampleItems,
		Settings:    t.BoardStructure.Settings,
		UserID:      userID,
		CreatedFrom: "template",
		TemplateID:  &t.TemplateID,
		IsActive:    true,
	}
	if b.Items == nil {
		b.Items = []models.BoardItem{}
	}

	if err := r.boards.Insert(ctx, b); err != nil {
		return nil, err
	}

	_, err = r.db.NewUpdate().
		Model((*models.Template)(nil)).
		Set("usage_count = usage_count + 1").
		Set("updated_at = ?", time.Now()).
		Where("template_id = ?", t.TemplateID).
		Exec(ctx)
	if err != nil {
		logger.Log.Warn("failed to bump template usage", "template_id", t.TemplateID, "error", err)
	}
	return b, nil
}
