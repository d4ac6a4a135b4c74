package models

import (
	"strings"
	"time"
)

// Role represents the available account roles.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// Account represents an application account stored in the accounts table.
type Account struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Phone        string    `db:"phone" json:"phone"`
	Role         Role      `db:"role" json:"role"`
	Department   string    `db:"department" json:"department,omitempty"`
	Division     string    `db:"division" json:"division,omitempty"`
	Salary       *float64  `db:"salary" json:"salary,omitempty"`
	Active       bool      `db:"active" json:"active"`
	Staff        bool      `db:"staff" json:"staff"`
	DateJoined   time.Time `db:"date_joined" json:"date_joined"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// FullName returns the display name for the account.
func (a *Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// Info projects the account into the shape returned by auth endpoints.
func (a *Account) Info() AccountInfo {
	return AccountInfo{
		ID:        a.ID,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Phone:     a.Phone,
		Role:      a.Role,
	}
}

// AccountInfo describes an account in responses.
type AccountInfo struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	Role      Role   `json:"role"`
}
