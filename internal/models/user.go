package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Email is the user's email address (unique). Used for login and as
	// the fallback entrant label.
	Email string `json:"email"`

	// DisplayName is the name shown on raffles and entries.
	DisplayName string `json:"displayName"`

	// Bio is a short free-form profile text.
	Bio string `json:"bio,omitempty"`

	// PasswordHash is the bcrypt hash of the user's password. Never
	// serialized in API responses.
	PasswordHash string `json:"-"`

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// NewUser creates a user with a generated ID and current timestamps.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// EntrantName returns the label recorded on new entries for this user.
func (u *User) EntrantName() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}
