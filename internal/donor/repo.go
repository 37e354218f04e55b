package donor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fundlane/backend/internal/apperr"
	"github.com/fundlane/backend/internal/models"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DonorUpdate carries a partial donor update; nil fields are left
// untouched.
type DonorUpdate struct {
	DonorName      *string             `json:"donor_name,omitempty"`
	Email          *string             `json:"email,omitempty"`
	Phone          *string             `json:"phone,omitempty"`
	TotalDonated   *float64            `json:"total_donated,omitempty"`
	TotalDonations *int                `json:"total_donations,omitempty"`
	Status         *models.DonorStatus `json:"status,omitempty"`
}

type Repository interface {
	InitializeDatabase(ctx context.Context) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Donor, error)
	GetByEmail(ctx context.Context, email string) (*models.Donor, error)
	Create(ctx context.Context, d *models.Donor) error
	Update(ctx context.Context, id uuid.UUID, upd DonorUpdate) (*models.Donor, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	AddFile(ctx context.Context, id uuid.UUID, file models.FileMetadata) error
}

type DonorRepository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *DonorRepository {
	return &DonorRepository{db: db}
}

func (r *DonorRepository) InitializeDatabase(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*models.Donor)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create donors table: %w", err)
	}

	for _, idx := range []struct{ name, column string }{
		{"idx_donors_email", "email"},
		{"idx_donors_donor_name", "donor_name"},
		{"idx_donors_status", "status"},
	} {
		_, err = r.db.NewCreateIndex().
			Model((*models.Donor)(nil)).
			Index(idx.name).
			Column(idx.column).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}
	return nil
}

func (r *DonorRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Donor, error) {
	d := new(models.Donor)
	err := r.db.NewSelect().
		Model(d).
		Where("id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("donor " + id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get donor %s: %w", id, err)
	}
	return d, nil
}

func (r *DonorRepository) GetByEmail(ctx context.Context, email string) (*models.Donor, error) {
	d := new(models.Donor)
	err := r.db.NewSelect().
		Model(d).
		Where("email = ?", email).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("donor with email " + email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get donor by email: %w", err)
	}
	return d, nil
}

func (r *DonorRepository) Create(ctx context.Context, d *models.Donor) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	if d.Status == "" {
		d.Status = models.DonorStatusPotential
	}

	_, err := r.db.NewInsert().Model(d).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create donor: %w", err)
	}
	return nil
}

func (r *DonorRepository) Update(ctx context.Context, id uuid.UUID, upd DonorUpdate) (*models.Donor, error) {
	d, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.DonorName != nil {
		d.DonorName = *upd.DonorName
	}
	if upd.Email != nil {
		d.Email = *upd.Email
	}
	if upd.Phone != nil {
		d.Phone = upd.Phone
	}
	if upd.TotalDonated != nil {
		d.TotalDonated = *upd.TotalDonated
	}
	if upd.TotalDonations != nil {
		d.TotalDonations = *upd.TotalDonations
	}
	if upd.Status != nil {
		d.Status = *upd.Status
	}
	d.UpdatedAt = time.Now()

	_, err = r.db.NewUpdate().
		Model(d).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update donor %s: %w", id, err)
	}
	return d, nil
}

func (r *DonorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*models.Donor)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete donor %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return apperr.NotFound("donor " + id.String())
	}
	return nil
}

func (r *DonorRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0)
	err := r.db.NewSelect().
		Model((*models.Donor)(nil)).
		Column("id").
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list donor ids: %w", err)
	}
	return ids, nil
}

func (r *DonorRepository) AddFile(ctx context.Context, id uuid.UUID, file models.FileMetadata) error {
	d, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	d.Files = append(d.Files, file)
	d.UpdatedAt = time.Now()

	_, err = r.db.NewUpdate().
		Model(d).
		Column("files", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to attach file to donor %s: %w", id, err)
	}
	return nil
}
