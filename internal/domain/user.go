package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxPasswordLength is bcrypt's input limit; longer passwords are rejected
// rather than silently truncated.
const MaxPasswordLength = 72

// User represents a registered account.
// The password hash is never serialized.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	FullName       string    `json:"fullName"`
	Gender         string    `json:"gender"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewUser builds a User ready for storage. The caller must have hashed the
// password already; plaintext never reaches this type.
func NewUser(username, email, hashedPassword, fullName, gender string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:             uuid.New(),
		Username:       strings.TrimSpace(username),
		Email:          strings.TrimSpace(email),
		HashedPassword: hashedPassword,
		FullName:       strings.TrimSpace(fullName),
		Gender:         strings.TrimSpace(gender),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks that every required field is present.
// Email format is checked at the request boundary.
func (u *User) Validate() error {
	switch {
	case u.ID == uuid.Nil:
		return NewValidationError("id", "user ID cannot be empty")
	case u.Username == "":
		return NewValidationError("username", "username cannot be empty")
	case u.Email == "":
		return NewValidationError("email", "email cannot be empty")
	case u.HashedPassword == "":
		return NewValidationError("password", "hashed password cannot be empty")
	case u.FullName == "":
		return NewValidationError("fullName", "full name cannot be empty")
	case u.Gender == "":
		return NewValidationError("gender", "gender cannot be empty")
	}
	return nil
}

// Summary returns the public subset of the user returned alongside tokens.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
	}
}

// UserSummary is the identity block embedded in authentication responses.
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	FullName string    `json:"fullName"`
}
