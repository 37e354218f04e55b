package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type DonorStatus string

const (
	DonorStatusPotential DonorStatus = "potential"
	DonorStatusActive    DonorStatus = "active"
	DonorStatusInactive  DonorStatus = "inactive"
)

func (s DonorStatus) Valid() bool {
	switch s {
	case DonorStatusPotential, DonorStatusActive, DonorStatusInactive:
		return true
	}
	return false
}

// FileMetadata describes an uploaded file attached to a donor. Only the
// metadata lives here; blob storage is someone else's problem.
type FileMetadata struct {
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	Path         string    `json:"path"`
	MimeType     string    `json:"mimetype"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

type Donor struct {
	bun.BaseModel `bun:"table:donors,alias:d"`

	ID             uuid.UUID      `bun:"id,pk,type:uuid" json:"id"`
	DonorName      string         `bun:"donor_name,notnull" json:"donor_name"`
	Email          string         `bun:"email,notnull,unique" json:"email"`
	Phone          *string        `bun:"phone" json:"phone"`
	TotalDonated   float64        `bun:"total_donated,notnull,default:0" json:"total_donated"`
	TotalDonations int            `bun:"total_donations,notnull,default:0" json:"total_donations"`
	Status         DonorStatus    `bun:"status,notnull,default:'potential'" json:"status"`
	Files          []FileMetadata `bun:"files,type:jsonb" json:"files"`
	CreatedAt      time.Time      `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time      `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// DonorWithFields is a donor merged with its custom column values.
// Columns the donor has no value for simply do not appear in the map.
type DonorWithFields struct {
	Donor
	CustomFields map[string]any `json:"customFields"`
}

// DonorColumnValue is one cell of the sparse custom-field side table.
// The payload is opaque JSON; nothing here interprets it against the
// column's declared type.
type DonorColumnValue struct {
	bun.BaseModel `bun:"table:donor_column_values,alias:dcv"`

	ID        uuid.UUID       `bun:"id,pk,type:uuid" json:"id"`
	DonorID   uuid.UUID       `bun:"donor_id,notnull,type:uuid,unique:donor_column" json:"donor_id"`
	ColumnKey string          `bun:"column_key,notnull,unique:donor_column" json:"column_key"`
	Value     json.RawMessage `bun:"value,type:jsonb" json:"value"`
	CreatedAt time.Time       `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time       `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// DecodedValue unmarshals the stored payload. A null or empty payload
// decodes to nil.
func (v *DonorColumnValue) DecodedValue() any {
	if len(v.Value) == 0 {
		return nil
	}
	var out any
	if err := json.Unmarshal(v.Value, &out); err != nil {
		return nil
	}
	return out
}
