// Package model holds the consultant directory replica.
package model

import (
	"time"
)

// Kind names consultants in errors and events.
const Kind = "consultant"

// Consultant is the local replica of a directory entry. The directory service
// owns the record; this service only stores what it needs for lookups and
// response payloads.
type Consultant struct {
	ID        string    `gorm:"primaryKey;column:id;type:uuid"                  json:"id"`
	Name      string    `gorm:"column:name;type:varchar(255);not null"          json:"name"`
	Email     string    `gorm:"column:email;type:varchar(255);not null"         json:"email"`
	Specialty string    `gorm:"column:specialty;type:varchar(255);not null"     json:"specialty"`
	IsActive  bool      `gorm:"column:is_active;not null"                       json:"isActive"`
	CreatedAt time.Time `gorm:"column:created_at;not null"                      json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"                      json:"updatedAt"`
}

// TableName specifies the table name for GORM.
func (Consultant) TableName() string {
	return "consultants"
}

// Summary returns the denormalized fields embedded in other responses.
func (c Consultant) Summary() Summary {
	return Summary{ID: c.ID, Name: c.Name, Email: c.Email}
}

// Summary is the consultant as embedded in assignment and team payloads.
type Summary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
