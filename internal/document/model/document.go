// Package model contains compliance document metadata and request types.
package model

import (
	"time"

	"github.com/festy23/consultant_staffing/internal/lifecycle"
	"github.com/festy23/consultant_staffing/pkg/daterange"
)

// Kind names documents in errors, events and metrics.
const Kind = "document"

// Document is the metadata of a consultant's compliance document. File
// contents live elsewhere.
type Document struct {
	ID            string                   `gorm:"primaryKey;column:id;type:uuid"                 json:"id"`
	ConsultantID  string                   `gorm:"column:consultant_id;type:uuid;not null"        json:"consultantId"`
	Title         string                   `gorm:"column:title;type:varchar(255);not null"        json:"title"`
	DocumentType  string                   `gorm:"column:document_type;type:varchar(64);not null" json:"documentType"`
	FileName      string                   `gorm:"column:file_name;type:varchar(255);not null"    json:"fileName"`
	Status        lifecycle.DocumentStatus `gorm:"column:status;type:varchar(16);not null"        json:"status"`
	ReviewComment string                   `gorm:"column:review_comment;type:text;not null"       json:"reviewComment,omitempty"`
	ReviewedBy    string                   `gorm:"column:reviewed_by;type:varchar(255);not null"  json:"reviewedBy,omitempty"`
	ReviewedAt    *time.Time               `gorm:"column:reviewed_at"                             json:"reviewedAt,omitempty"`
	ExpiresAt     daterange.Date           `gorm:"column:expires_at;type:date"                    json:"expiresAt"`
	Version       int64                    `gorm:"column:version;not null"                        json:"version"`
	CreatedAt     time.Time                `gorm:"column:created_at;not null"                     json:"createdAt"`
	UpdatedAt     time.Time                `gorm:"column:updated_at;not null"                     json:"updatedAt"`
}

// TableName specifies the table name for GORM.
func (Document) TableName() string {
	return "documents"
}

// GetID implements concurrency.Versioned.
func (d *Document) GetID() string { return d.ID }

// GetVersion implements concurrency.Versioned.
func (d *Document) GetVersion() int64 { return d.Version }

// Expired reports whether the document expired before today. Documents
// without an expiry date never expire.
func (d *Document) Expired(today daterange.Date) bool {
	return !d.ExpiresAt.IsZero() && d.ExpiresAt.Before(today)
}

// View is a document as returned to callers.
type View struct {
	Document
	Expired bool `json:"expired"`
}

// NewView evaluates the expiry of d against today.
func NewView(d Document, today daterange.Date) View {
	return View{Document: d, Expired: d.Expired(today)}
}
