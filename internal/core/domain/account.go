package domain

import (
	"errors"
	"time"
)

// UserType is the primary role declared on an account at registration time.
type UserType string

const (
	UserTypeStudent       UserType = "student"
	UserTypeSchoolStudent UserType = "school_student"
	UserTypeProfessor     UserType = "professor"
	UserTypeSchoolAdmin   UserType = "school_admin"
	UserTypePlatformAdmin UserType = "platform_admin"
)

// validUserTypes enumerates the user types accepted at registration.
var validUserTypes = map[UserType]struct{}{
	UserTypeStudent:       {},
	UserTypeSchoolStudent: {},
	UserTypeProfessor:     {},
	UserTypeSchoolAdmin:   {},
	UserTypePlatformAdmin: {},
}

// IsValid reports whether t is a known user type.
func (t UserType) IsValid() bool {
	_, ok := validUserTypes[t]
	return ok
}

// SchoolScoped reports whether accounts of this type carry a school scope
// in their credentials.
func (t UserType) SchoolScoped() bool {
	switch t {
	case UserTypeSchoolStudent, UserTypeProfessor, UserTypeSchoolAdmin:
		return true
	}
	return false
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidCredential  = errors.New("invalid credential")
	ErrCredentialRevoked  = errors.New("credential revoked")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountExists      = errors.New("account already exists")
	ErrAccountInactive    = errors.New("account inactive")
	ErrForbidden          = errors.New("access forbidden")
)

// Account is the persisted user identity record.
type Account struct {
	ID                  string     `json:"id"`
	Username            string     `json:"username"`
	Email               string     `json:"email,omitempty"`
	PasswordHash        string     `json:"-"`
	UserType            UserType   `json:"user_type"`
	SchoolID            string     `json:"school_id,omitempty"`
	IsActive            bool       `json:"is_active"`
	FailedLoginAttempts int        `json:"-"`
	LastLoginAttempt    *time.Time `json:"-"`
	TokenRevokedAt      *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// RevokedSince reports whether a credential issued at issuedAt predates the
// account's revocation stamp. Tokens issued at exactly the stamp remain valid;
// only strictly earlier ones are rejected.
func (a *Account) RevokedSince(issuedAt time.Time) bool {
	if a.TokenRevokedAt == nil {
		return false
	}
	return issuedAt.Before(*a.TokenRevokedAt)
}
