package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/edulink/school-system/internal/core/domain"
	"github.com/edulink/school-system/internal/core/ports"
)

const (
	defaultAccessTTL  = 30 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// credentialClaims is the wire shape of a signed credential. Field names are
// part of the token contract: sub, type, user_type, school_id, iat, exp.
type credentialClaims struct {
	TokenType string `json:"type"`
	UserType  string `json:"user_type"`
	SchoolID  string `json:"school_id,omitempty"`
	jwt.RegisteredClaims
}

type tokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenService returns a TokenService signing with the given symmetric
// secret. Non-positive TTLs fall back to defaults.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) ports.TokenService {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &tokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (s *tokenService) ttl(kind ports.TokenKind) time.Duration {
	if kind == ports.TokenKindRefresh {
		return s.refreshTTL
	}
	return s.accessTTL
}

// Issue encodes the account's identity claims into a signed token of the
// given kind. No side effects beyond encoding.
func (s *tokenService) Issue(account *domain.Account, kind ports.TokenKind) (string, time.Time, error) {
	now := s.now().UTC()
	exp := now.Add(s.ttl(kind))

	claims := credentialClaims{
		TokenType: string(kind),
		UserType:  string(account.UserType),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	if account.UserType.SchoolScoped() {
		claims.SchoolID = account.SchoolID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Validate verifies signature, expiry, and kind. Revocation is not checked
// here: it requires an account lookup and belongs to the identity resolver.
func (s *tokenService) Validate(tokenString string, expected ports.TokenKind) (*ports.Claims, error) {
	claims := &credentialClaims{}
	tkn, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidCredential
	}

	if claims.TokenType != string(expected) {
		return nil, domain.ErrInvalidCredential
	}
	if claims.Subject == "" || claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, domain.ErrInvalidCredential
	}

	return &ports.Claims{
		Subject:   claims.Subject,
		Kind:      ports.TokenKind(claims.TokenType),
		UserType:  domain.UserType(claims.UserType),
		SchoolID:  claims.SchoolID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
