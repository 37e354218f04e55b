package notification

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

type CreateRequest struct {
	UserID   string                      `json:"userId"`
	Type     string                      `json:"type"`
	Title    string                      `json:"title"`
	Message  string                      `json:"message"`
	Link     *string                     `json:"link,omitempty"`
	Priority models.NotificationPriority `json:"priority,omitempty"`
	Metadata map[string]any              `json:"metadata,omitempty"`
}

type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) InitializeDatabase(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*models.Notification)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create notifications table: %w", err)
	}

	for _, idx := range []struct {
		name    string
		columns []string
	}{
		{"idx_notifications_user_created", []string{"user_id", "created_at"}},
		{"idx_notifications_user_read", []string{"user_id", "is_read"}},
		{"idx_notifications_expires_at", []string{"expires_at"}},
	} {
		_, err = r.db.NewCreateIndex().
			Model((*models.Notification)(nil)).
			Index(idx.name).
			Column(idx.columns...).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}
	return nil
}

func (r *Repository) validate(req CreateRequest) error {
	if req.UserID == "" {
		return apperr.Validation("userId is required")
	}
	if !models.NotificationTypes[req.Type] {
		return apperr.Validationf("invalid notification type %q", req.Type)
	}
	if req.Title == "" || len(req.Title) > 255 {
		return apperr.Validation("title is required and must be at most 255 characters")
	}
	if req.Message == "" || len(req.Message) > 1000 {
		return apperr.Validation("message is required and must be at most 1000 characters")
	}
	if req.Priority != "" && !req.Priority.Valid() {
		return apperr.Validationf("invalid priority %q", req.Priority)
	}
	return nil
}

func (r *Repository) build(req CreateRequest, now time.Time) *models.Notification {
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	return &models.Notification{
		ID:        uuid.New(),
		UserID:    req.UserID,
		Type:      req.Type,
		Title:     req.Title,
		Message:   req.Message,
		Link:      req.Link,
		Priority:  priority,
		Metadata:  req.Metadata,
		ExpiresAt: now.Add(models.NotificationTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (r *Repository) Create(ctx context.Context, req CreateRequest) (*models.Notification, error) {
	if err := r.validate(req); err != nil {
		return nil, err
	}
	n := r.build(req, time.Now())
	if _, err := r.db.NewInsert().Model(n).Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return n, nil
}

// CreateBulk inserts every valid notification; invalid entries are
// rejected up front so the batch is all-or-nothing on validation but a
// single insert on storage.
func (r *Repository) CreateBulk(ctx context.Context, reqs []CreateRequest) ([]models.Notification, error) {
	if len(reqs) == 0 {
		return nil, apperr.Validation("no notifications provided")
	}
	now := time.Now()
	rows := make([]models.Notification, 0, len(reqs))
	for _, req := range reqs {
		if err := r.validate(req); err != nil {
			return nil, err
		}
		rows = append(rows, *r.build(req, now))
	}
	if _, err := r.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to bulk create notifications: %w", err)
	}
	return rows, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID string, limit, skip int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	notifications := make([]models.Notification, 0)
	err := r.db.NewSelect().
		Model(&notifications).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(skip).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (r *Repository) ListUnread(ctx context.Context, userID string) ([]models.Notification, error) {
	notifications := make([]models.Notification, 0)
	err := r.db.NewSelect().
		Model(&notifications).
		Where("user_id = ?", userID).
		Where("is_read = ?", false).
		Order("created_at DESC").
		Limit(50).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list unread notifications: %w", err)
	}
	return notifications, nil
}

func (r *Repository) ListByType(ctx context.Context, userID, notifType string) ([]models.Notification, error) {
	notifications := make([]models.Notification, 0)
	err := r.db.NewSelect().
		Model(&notifications).
		Where("user_id = ?", userID).
		Where("type = ?", notifType).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications by type: %w", err)
	}
	return notifications, nil
}

func (r *Repository) UnreadCount(ctx context.Context, userID string) (int, error) {
	count, err := r.db.NewSelect().
		Model((*models.Notification)(nil)).
		Where("user_id = ?", userID).
		Where("is_read = ?", false).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (r *Repository) MarkAsRead(ctx context.Context, id uuid.UUID, userID string) (*models.Notification, error) {
	n := new(models.Notification)
	err := r.db.NewSelect().
		Model(n).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("notification " + id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification %s: %w", id, err)
	}

	n.IsRead = true
	n.UpdatedAt = time.Now()
	_, err = r.db.NewUpdate().
		Model(n).
		Column("is_read", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}
	return n, nil
}

func (r *Repository) MarkAllAsRead(ctx context.Context, userID string) (int, error) {
	res, err := r.db.NewUpdate().
		Model((*models.Notification)(nil)).
		Set("is_read = ?", true).
		Set("updated_at = ?", time.Now()).
		Where("user_id = ?", userID).
		Where("is_read = ?", false).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return int(affected), nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	res, err := r.db.NewDelete().
		Model((*models.Notification)(nil)).
		Where("id = ?", id).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete notification %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return apperr.NotFound("notification " + id.String())
	}
	return nil
}

func (r *Repository) DeleteAllRead(ctx context.Context, userID string) (int, error) {
	res, err := r.db.NewDelete().
		Model((*models.Notification)(nil)).
		Where("user_id = ?", userID).
		Where("is_read = ?", true).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete read notifications: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return int(affected), nil
}

// DeleteExpired removes every notification past its expiry; the purge
// job calls this on a schedule.
func (r *Repository) DeleteExpired(ctx context.Context) (int, error) {
	res, err := r.db.NewDelete().
		Model((*models.Notification)(nil)).
		Where("expires_at < ?", time.Now()).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired notifications: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return int(affected), nil
}
