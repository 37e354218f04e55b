package models

import (
	"encoding/json"
	"regexp"
	"time"

	"github.com/uptrace/bun"
)

type ColumnType string

const (
	ColumnTypeText     ColumnType = "text"
	ColumnTypeNumber   ColumnType = "number"
	ColumnTypeEmail    ColumnType = "email"
	ColumnTypePhone    ColumnType = "phone"
	ColumnTypeDate     ColumnType = "date"
	ColumnTypeStatus   ColumnType = "status"
	ColumnTypeCheckbox ColumnType = "checkbox"
	ColumnTypeDropdown ColumnType = "dropdown"
	ColumnTypeFile     ColumnType = "file"
	ColumnTypePerson   ColumnType = "person"
	ColumnTypeLink     ColumnType = "link"
)

func (t ColumnType) Valid() bool {
	switch t {
	case ColumnTypeText, ColumnTypeNumber, ColumnTypeEmail, ColumnTypePhone,
		ColumnTypeDate, ColumnTypeStatus, ColumnTypeCheckbox, ColumnTypeDropdown,
		ColumnTypeFile, ColumnTypePerson, ColumnTypeLink:
		return true
	}
	return false
}

var ColumnKeyPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// DynamicColumn is the definition of one user-created column. The key
// is the stable identity; values reference it, never the row id.
type DynamicColumn struct {
	bun.BaseModel `bun:"table:dynamic_columns,alias:dc"`

	ColumnKey  string          `bun:"column_key,pk" json:"column_key"`
	Title      string          `bun:"title,notnull" json:"title"`
	Type       ColumnType      `bun:"type,notnull,default:'text'" json:"type"`
	Options    json.RawMessage `bun:"options,type:jsonb" json:"options,omitempty"`
	Width      int             `bun:"width,notnull,default:150" json:"width"`
	SortOrder  int             `bun:"sort_order,notnull,default:0" json:"order"`
	IsRequired bool            `bun:"is_required,notnull,default:false" json:"isRequired"`
	IsActive   bool            `bun:"is_active,notnull,default:true" json:"isActive"`
	CreatedAt  time.Time       `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time       `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// ColumnUpdate carries a partial definition update. Nil fields are left
// untouched; the column key itself is immutable.
type ColumnUpdate struct {
	Title      *string          `json:"title,omitempty"`
	Type       *ColumnType      `json:"type,omitempty"`
	Options    *json.RawMessage `json:"options,omitempty"`
	Width      *int             `json:"width,omitempty"`
	SortOrder  *int             `json:"order,omitempty"`
	IsRequired *bool            `json:"isRequired,omitempty"`
	IsActive   *bool            `json:"isActive,omitempty"`
}
