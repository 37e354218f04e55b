package models

import (
	"time"

	"github.com/uptrace/bun"
)

type TemplateIntegration struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// BoardStructure is the board a template expands into.
type BoardStructure struct {
	Name        string          `json:"name"`
	Columns     map[string]bool `json:"columns"`
	SampleItems []BoardItem     `json:"sampleItems,omitempty"`
	Settings    BoardSettings   `json:"settings"`
}

type Template struct {
	bun.BaseModel `bun:"table:templates,alias:t"`

	TemplateID     string                `bun:"template_id,pk" json:"templateId"`
	Name           string                `bun:"name,notnull" json:"name"`
	Category       string                `bun:"category,notnull,default:'Nonprofits'" json:"category"`
	Description    string                `bun:"description,notnull" json:"description"`
	Thumbnail      string                `bun:"thumbnail" json:"thumbnail"`
	Creator        string                `bun:"creator,default:'fundlane'" json:"creator"`
	Downloads      string                `bun:"downloads,default:'0'" json:"downloads"`
	Integrations   []TemplateIntegration `bun:"integrations,type:jsonb" json:"integrations,omitempty"`
	BoardStructure BoardStructure        `bun:"board_structure,type:jsonb" json:"boardStructure"`
	UsageCount     int                   `bun:"usage_count,notnull,default:0" json:"usageCount"`
	IsActive       bool                  `bun:"is_active,notnull,default:true" json:"isActive"`
	CreatedAt      time.Time             `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time             `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

var TemplateCategories = []string{
	"Marketing",
	"HR",
	"Nonprofits",
	"Sales & CRM",
	"Project Management",
	"Software Development",
}

func ValidTemplateCategory(c string) bool {
	for _, cat := range TemplateCategories {
		if cat == c {
			return true
		}
	}
	return false
}
