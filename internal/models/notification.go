package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
	PriorityUrgent NotificationPriority = "urgent"
)

func (p NotificationPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

var NotificationTypes = map[string]bool{
	"new_lead":          true,
	"lead_assigned":     true,
	"contact_update":    true,
	"deal_won":          true,
	"deal_lost":         true,
	"deal_stage_change": true,
	"deal_at_risk":      true,
	"task_assigned":     true,
	"task_due_soon":     true,
	"task_overdue":      true,
	"task_completed":    true,
	"mention":           true,
	"comment":           true,
	"board_invite":      true,
	"system":            true,
	"other":             true,
}

// NotificationTTL is how long a notification lives before the purge job
// removes it.
const NotificationTTL = 30 * 24 * time.Hour

type Notification struct {
	bun.BaseModel `bun:"table:notifications,alias:n"`

	ID        uuid.UUID            `bun:"id,pk,type:uuid" json:"id"`
	UserID    string               `bun:"user_id,notnull" json:"userId"`
	Type      string               `bun:"type,notnull" json:"type"`
	Title     string               `bun:"title,notnull" json:"title"`
	Message   string               `bun:"message,notnull" json:"message"`
	Link      *string              `bun:"link" json:"link"`
	IsRead    bool                 `bun:"is_read,notnull,default:false" json:"isRead"`
	Priority  NotificationPriority `bun:"priority,notnull,default:'medium'" json:"priority"`
	Metadata  map[string]any       `bun:"metadata,type:jsonb" json:"metadata,omitempty"`
	ExpiresAt time.Time            `bun:"expires_at,notnull" json:"expiresAt"`
	CreatedAt time.Time            `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time            `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

func (n *Notification) IsUrgent() bool {
	return n.Priority == PriorityUrgent || n.Priority == PriorityHigh
}
