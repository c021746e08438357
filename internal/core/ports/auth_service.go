package ports

import (
	"context"
	"time"

	"github.com/edulink/school-system/internal/core/domain"
)

// TokenKind distinguishes access tokens from refresh tokens.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// Claims are the verified contents of a credential.
type Claims struct {
	Subject   string
	Kind      TokenKind
	UserType  domain.UserType
	SchoolID  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and validates signed, time-limited credentials. It is
// pure: revocation requires persistence and is checked one layer up.
type TokenService interface {
	Issue(account *domain.Account, kind TokenKind) (token string, expiresAt time.Time, err error)
	Validate(token string, expected TokenKind) (*Claims, error)
}

// TokenPair is returned on login and refresh.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// RegisterInput carries all data needed to create an account.
type RegisterInput struct {
	Username string
	Password string
	Email    string
	UserType domain.UserType
	SchoolID string
}

// AuthService implements the account credential lifecycle.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, username, password string) (*TokenPair, *domain.Account, error)
	// Refresh exchanges a valid refresh token for a new access token.
	Refresh(ctx context.Context, refreshToken string) (string, time.Time, error)
	// Logout stamps the account's revocation time, invalidating all
	// previously issued tokens.
	Logout(ctx context.Context, username string) error
}

// IdentityResolver turns a raw access token into a resolved identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Identity, error)
}
