package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type BoardView struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Icon      string         `json:"icon"`
	Type      string         `json:"type"`
	IsDefault bool           `json:"isDefault"`
	Settings  map[string]any `json:"settings,omitempty"`
}

type BoardItem struct {
	ID        uuid.UUID      `json:"id"`
	Title     string         `json:"title"`
	Group     string         `json:"group"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"createdAt"`
}

type BoardSettings struct {
	BackgroundColor string `json:"backgroundColor"`
	IsPublic        bool   `json:"isPublic"`
	AllowComments   bool   `json:"allowComments"`
}

func DefaultBoardSettings() BoardSettings {
	return BoardSettings{
		BackgroundColor: "#ffffff",
		IsPublic:        false,
		AllowComments:   true,
	}
}

// DefaultBoardColumns mirrors the column toggles a fresh board starts
// with.
func DefaultBoardColumns() map[string]bool {
	return map[string]bool{
		"owner":       true,
		"status":      true,
		"dueDate":     true,
		"priority":    false,
		"lastUpdated": false,
		"timeline":    false,
		"notes":       false,
		"budget":      false,
		"files":       false,
	}
}

type Board struct {
	bun.BaseModel `bun:"table:boards,alias:b"`

	ID          uuid.UUID       `bun:"id,pk,type:uuid" json:"id"`
	Name        string          `bun:"name,notnull" json:"name"`
	Columns     map[string]bool `bun:"columns,type:jsonb" json:"columns"`
	UserID      *string         `bun:"user_id" json:"userId"`
	UserEmail   *string         `bun:"user_email" json:"userEmail"`
	Items       []BoardItem     `bun:"items,type:jsonb" json:"items"`
	Views       []BoardView     `bun:"views,type:jsonb" json:"views"`
	Settings    BoardSettings   `bun:"settings,type:jsonb" json:"settings"`
	CreatedFrom string          `bun:"created_from,notnull,default:'scratch'" json:"createdFrom"`
	TemplateID  *string         `bun:"template_id" json:"templateId,omitempty"`
	IsActive    bool            `bun:"is_active,notnull,default:true" json:"isActive"`
	IsDeleted   bool            `bun:"is_deleted,notnull,default:false" json:"isDeleted"`
	CreatedAt   time.Time       `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time       `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}
