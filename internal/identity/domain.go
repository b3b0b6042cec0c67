package identity

import "time"

// Identity represents an authenticated principal's account record.
type Identity struct {
	ID            int64
	Email         string
	PasswordHash  string
	FirstName     string
	LastName      string
	IsActive      bool
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewIdentity carries the fields required to create an account.
type NewIdentity struct {
	Email         string
	PasswordHash  string
	EmailVerified bool
}
