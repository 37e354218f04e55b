package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:a"`

	ID          uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Email       string    `bun:"email,notnull,unique" json:"email"`
	FullName    string    `bun:"full_name,notnull" json:"fullName"`
	AccountName string    `bun:"account_name" json:"accountName"`
	Category    string    `bun:"category,notnull,default:'work'" json:"category"`
	Role        string    `bun:"role" json:"role"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// EmailLead is a bare signup email captured before account creation.
type EmailLead struct {
	bun.BaseModel `bun:"table:email_leads,alias:el"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Email     string    `bun:"email,notnull,unique" json:"email"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
