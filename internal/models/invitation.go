package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type InvitationRole string

const (
	RoleAdmin  InvitationRole = "Admin"
	RoleMember InvitationRole = "Member"
	RoleViewer InvitationRole = "Viewer"
)

func (r InvitationRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember, RoleViewer:
		return true
	}
	return false
}

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
)

type Invitation struct {
	bun.BaseModel `bun:"table:invitations,alias:inv"`

	ID              uuid.UUID        `bun:"id,pk,type:uuid" json:"id"`
	InviterUserID   string           `bun:"inviter_user_id,notnull" json:"inviterUserId"`
	InviterName     string           `bun:"inviter_name,notnull" json:"inviterName"`
	InviterEmail    string           `bun:"inviter_email,notnull" json:"inviterEmail"`
	AccountName     string           `bun:"account_name,notnull" json:"accountName"`
	InvitedEmail    string           `bun:"invited_email,notnull" json:"invitedEmail"`
	Role            InvitationRole   `bun:"role,notnull,default:'Member'" json:"role"`
	Status          InvitationStatus `bun:"status,notnull,default:'pending'" json:"status"`
	InvitationToken string           `bun:"invitation_token,notnull,unique" json:"invitationToken"`
	CreatedAt       time.Time        `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
