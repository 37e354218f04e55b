package donor

import (
	"context"
	"strings"
	"time"

	"github.com/fundlane/backend/internal/apperr"
	"github.com/fundlane/backend/internal/column"
	"github.com/fundlane/backend/internal/donorvalue"
	"github.com/fundlane/backend/internal/models"
	"github.com/google/uuid"
)

type CreateDonorRequest struct {
	DonorName      string             `json:"donor_name"`
	Email          string             `json:"email"`
	Phone          *string            `json:"phone"`
	TotalDonated   float64            `json:"total_donated"`
	TotalDonations int                `json:"total_donations"`
	Status         models.DonorStatus `json:"status"`
}

// Service wraps the donor repository with the cross-store rules:
// duplicate-email checks, value cascade on delete, and custom-field
// writes gated on an active column.
type Service struct {
	repo     Repository
	values   donorvalue.Store
	registry column.Registry
}

func NewService(repo Repository, values donorvalue.Store, registry column.Registry) *Service {
	return &Service{repo: repo, values: values, registry: registry}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.DonorWithFields, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	fields, err := s.values.GetForEntity(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.DonorWithFields{Donor: *d, CustomFields: fields}, nil
}

func (s *Service) Create(ctx context.Context, req CreateDonorRequest) (*models.Donor, error) {
	if strings.TrimSpace(req.DonorName) == "" {
		return nil, apperr.Validation("donor name is required")
	}
	if !strings.Contains(req.Email, "@") {
		return nil, apperr.Validation("a valid email is required")
	}
	if req.Status != "" && !req.Status.Valid() {
		return nil, apperr.Validationf("invalid status %q", req.Status)
	}
	if req.TotalDonated < 0 || req.TotalDonations < 0 {
		return nil, apperr.Validation("donation totals cannot be negative")
	}

	email := strings.ToLower(req.Email)
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, apperr.Duplicate("donor with email " + email)
	} else if !apperr.IsNotFound(err) {
		return nil, err
	}

	d := &models.Donor{
		DonorName:      strings.TrimSpace(req.DonorName),
		Email:          email,
		Phone:          req.Phone,
		TotalDonated:   req.TotalDonated,
		TotalDonations: req.TotalDonations,
		Status:         req.Status,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, upd DonorUpdate) (*models.Donor, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, apperr.Validationf("invalid status %q", *upd.Status)
	}
	if upd.Email != nil {
		// Emails are stored lowercase; normalize before the duplicate
		// check so case variants cannot slip past it.
		email := strings.ToLower(*upd.Email)
		upd.Email = &email
		if email != current.Email {
			if _, err := s.repo.GetByEmail(ctx, email); err == nil {
				return nil, apperr.Duplicate("donor with email " + email)
			} else if !apperr.IsNotFound(err) {
				return nil, err
			}
		}
	}
	return s.repo.Update(ctx, id, upd)
}

// Delete removes the donor and cascades its custom values.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.values.DeleteForEntity(ctx, id)
}

// UpdateCustomField upserts one custom value after checking the donor
// exists and the column is registered and active.
func (s *Service) UpdateCustomField(ctx context.Context, id uuid.UUID, columnKey string, value any) (*models.DonorColumnValue, error) {
	if columnKey == "" {
		return nil, apperr.Validation("column_key is required")
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	def, err := s.registry.GetByKey(ctx, columnKey)
	if err != nil {
		return nil, err
	}
	if !def.IsActive {
		return nil, apperr.NotFound("column " + columnKey + " is inactive")
	}
	return s.values.Upsert(ctx, id, columnKey, value)
}

func (s *Service) AttachFile(ctx context.Context, id uuid.UUID, file models.FileMetadata) (*models.FileMetadata, error) {
	if file.Filename == "" {
		return nil, apperr.Validation("filename is required")
	}
	if file.UploadedAt.IsZero() {
		file.UploadedAt = time.Now()
	}
	if err := s.repo.AddFile(ctx, id, file); err != nil {
		return nil, err
	}
	return &file, nil
}

func (s *Service) Files(ctx context.Context, id uuid.UUID) ([]models.FileMetadata, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Files == nil {
		return []models.FileMetadata{}, nil
	}
	return d.Files, nil
}
