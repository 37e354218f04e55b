package account

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

type SaveAccountRequest struct {
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	AccountName string `json:"accountName"`
	Category    string `json:"category"`
	Role        string `json:"role"`
}

type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) InitializeDatabase(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*models.Account)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create accounts table: %w", err)
	}

	_, err = r.db.NewCreateTable().
		Model((*models.EmailLead)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create email_leads table: %w", err)
	}
	return nil
}

// Save creates the account or updates it in place when the email is
// already known.
func (r *Repository) Save(ctx context.Context, req SaveAccountRequest) (*models.Account, error) {
	if strings.TrimSpace(req.FullName) == "" {
		return nil, apperr.Validation("full name is required")
	}
	if req.Email == "" {
		return nil, apperr.Validation("email is required")
	}
	category := req.Category
	if category == "" {
		category = "work"
	}

	existing, err := r.GetByEmail(ctx, req.Email)
	if err != nil && !apperr.IsNotFound(err) {
		return nil, err
	}

	if existing != nil {
		existing.FullName = req.FullName
		existing.AccountName = req.AccountName
		existing.Category = category
		existing.Role = req.Role
		existing.UpdatedAt = time.Now()

		if _, err := r.db.NewUpdate().Model(existing).WherePK().Exec(ctx); err != nil {
			return nil, fmt.Errorf("failed to update account: %w", err)
		}
		return existing, nil
	}

	now := time.Now()
	a := &models.Account{
		ID:          uuid.New(),
		Email:       strings.ToLower(req.Email),
		FullName:    req.FullName,
		AccountName: req.AccountName,
		Category:    category,
		Role:        req.Role,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.db.NewInsert().Model(a).Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return a, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	a := new(models.Account)
	err := r.db.NewSelect().
		Model(a).
		Where("email = ?", strings.ToLower(email)).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("account " + email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return a, nil
}

// SaveEmailLead records a signup email; duplicates are reported so the
// handler can answer idempotently.
func (r *Repository) SaveEmailLead(ctx context.Context, email string) (*models.EmailLead, bool, error) {
	if email == "" {
		return nil, false, apperr.Validation("email is required")
	}

	existing := new(models.EmailLead)
	err := r.db.NewSelect().
		Model(existing).
		Where("email = ?", strings.ToLower(email)).
		Scan(ctx)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to check email lead: %w", err)
	}

	lead := &models.EmailLead{
		ID:        uuid.New(),
		Email:     strings.ToLower(email),
		CreatedAt: time.Now(),
	}
	if _, err := r.db.NewInsert().Model(lead).Exec(ctx); err != nil {
		return nil, false, fmt.Errorf("failed to save email lead: %w", err)
	}
	return lead, false, nil
}
