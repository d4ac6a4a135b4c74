package models

import (
	"time"

	"github.com/lib/pq"
)

// Subject represents a taught subject with a unique code.
type Subject struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Code        string    `db:"code" json:"code"`
	Description string    `db:"description" json:"description,omitempty"`
	Credits     int       `db:"credits" json:"credits"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectDetail adds the derived list of assigned teacher names.
type SubjectDetail struct {
	Subject
	Teachers pq.StringArray `db:"teachers" json:"teachers"`
}
