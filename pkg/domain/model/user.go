package model

import (
	"errors"
	"time"
)

var (
	ErrCredentialsRequired = errors.New("email and password are required")
	ErrNameRequired        = errors.New("name is required")
	ErrNoSession           = errors.New("no active session")
	ErrCorruptSession      = errors.New("stored session is corrupt")
	ErrInvalidToken        = errors.New("invalid token")
)

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleCustomer UserRole = "customer"
)

type User struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
	Token string   `json:"token"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

const SessionSchemaVersion = 1

// SessionRecord is the single persisted session slot.
type SessionRecord struct {
	Version int       `json:"version"`
	User    User      `json:"user"`
	SavedAt time.Time `json:"savedAt"`
}

// SessionStore holds at most one session record.
type SessionStore interface {
	// Load returns ErrNoSession when the slot is empty and ErrCorruptSession when it cannot be decoded.
	Load() (*SessionRecord, error)
	Save(record *SessionRecord) error
	Clear() error
}

type TokenIssuer interface {
	Issue(user User) (string, error)
	Parse(token string) (*User, error)
}
