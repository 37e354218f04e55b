package invitation

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/fundlane/backend/internal/apperr"
	"github.com/fundlane/backend/internal/logger"
	"github.com/fundlane/backend/internal/models"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Invitee struct {
	Email string                `json:"email"`
	Role  models.InvitationRole `json:"role"`
}

type SendRequest struct {
	InviterUserID string    `json:"inviterUserId"`
	InviterName   string    `json:"inviterName"`
	InviterEmail  string    `json:"inviterEmail"`
	AccountName   string    `json:"accountName"`
	Invitations   []Invitee `json:"invitations"`
}

// SendResult reports the fan-out outcome per invitee; one bounced
// email does not abort the batch.
type SendResult struct {
	Sent   []models.Invitation `json:"sent"`
	Failed []SendFailure       `json:"failed"`
}

type SendFailure struct {
	Email string `json:"email"`
	Error string `json:"error"`
}

type Service struct {
	db         *bun.DB
	mailer     Mailer
	baseDomain string
}

func NewService(db *bun.DB, mailer Mailer, baseDomain string) *Service {
	return &Service{db: db, mailer: mailer, baseDomain: baseDomain}
}

func (s *Service) InitializeDatabase(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*models.Invitation)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create invitations table: %w", err)
	}
	return nil
}

// Send persists and emails each invitation independently. An
// invitation whose email fails to deliver stays persisted; the invitee
// can still be re-invited.
func (s *Service) Send(ctx context.Context, req SendRequest) (*SendResult, error) {
	if len(req.Invitations) == 0 {
		return nil, apperr.Validation("no invitations provided")
	}

	result := &SendResult{
		Sent:   make([]models.Invitation, 0, len(req.Invitations)),
		Failed: make([]SendFailure, 0),
	}

	for _, invitee := range req.Invitations {
		inv, err := s.sendOne(ctx, req, invitee)
		if err != nil {
			logger.Log.Error("invitation failed",
				"email", invitee.Email,
				"error", err.Error(),
			)
			result.Failed = append(result.Failed, SendFailure{Email: invitee.Email, Error: err.Error()})
			continue
		}
		result.Sent = append(result.Sent, *inv)
	}
	return result, nil
}

func (s *Service) sendOne(ctx context.Context, req SendRequest, invitee Invitee) (*models.Invitation, error) {
	if invitee.Email == "" {
		return nil, apperr.Validation("invitee email is required")
	}
	role := invitee.Role
	if role == "" {
		role = models.RoleMember
	}
	if !role.Valid() {
		return nil, apperr.Validationf("invalid role %q", role)
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}

	inv := &models.Invitation{
		ID:              uuid.New(),
		InviterUserID:   req.InviterUserID,
		InviterName:     req.InviterName,
		InviterEmail:    req.InviterEmail,
		AccountName:     req.AccountName,
		InvitedEmail:    invitee.Email,
		Role:            role,
		Status:          models.InvitationPending,
		InvitationToken: token,
		CreatedAt:       time.Now(),
	}

	if _, err := s.db.NewInsert().Model(inv).Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to save invitation: %w", err)
	}

	url := fmt.Sprintf("https://%s.%s/accept-invitation?token=%s", req.AccountName, s.baseDomain, token)
	subject := fmt.Sprintf("%s invited you to %s", req.InviterName, req.AccountName)
	if err := s.mailer.Send(ctx, invitee.Email, subject, invitationBody(req, invitee.Email, url)); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) Accept(ctx context.Context, token string) (*models.Invitation, error) {
	inv := new(models.Invitation)
	err := s.db.NewSelect().
		Model(inv).
		Where("invitation_token = ?", token).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("invitation")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up invitation: %w", err)
	}

	if inv.Status != models.InvitationPending {
		return nil, apperr.Validation("invitation already processed")
	}

	inv.Status = models.InvitationAccepted
	_, err = s.db.NewUpdate().
		Model(inv).
		Column("status").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to accept invitation: %w", err)
	}
	return inv, nil
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate invitation token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func invitationBody(req SendRequest, email, url string) string {
	return fmt.Sprintf(`<html><body>
<h2>%s invited you to %s</h2>
<p><strong>Work Management</strong></p>
<p><a href="%s">Accept Invitation</a></p>
<p><strong>Your Account's URL:</strong><br>%s</p>
<p><strong>Your Login Email:</strong><br>%s</p>
</body></html>`, req.InviterName, req.AccountName, url, req.AccountName, email)
}
