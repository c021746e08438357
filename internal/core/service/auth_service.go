package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/edulink/school-system/internal/core/domain"
	"github.com/edulink/school-system/internal/core/ports"
)

const defaultMaxFailedLogins = 10

type authService struct {
	accounts        ports.AccountRepository
	cache           ports.AccountCache
	tokens          ports.TokenService
	audit           ports.AuditRecorder
	maxFailedLogins int
	log             zerolog.Logger
	now             func() time.Time
}

// NewAuthService returns an AuthService implementation. cache and audit may
// be nil; maxFailedLogins <= 0 falls back to the default threshold.
func NewAuthService(
	accounts ports.AccountRepository,
	cache ports.AccountCache,
	tokens ports.TokenService,
	audit ports.AuditRecorder,
	maxFailedLogins int,
	log zerolog.Logger,
) ports.AuthService {
	if maxFailedLogins <= 0 {
		maxFailedLogins = defaultMaxFailedLogins
	}
	return &authService{
		accounts:        accounts,
		cache:           cache,
		tokens:          tokens,
		audit:           audit,
		maxFailedLogins: maxFailedLogins,
		log:             log,
		now:             time.Now,
	}
}

func (s *authService) Register(ctx context.Context, input ports.RegisterInput) (*domain.Account, error) {
	if input.Username == "" || input.Password == "" || !input.UserType.IsValid() {
		return nil, domain.ErrInvalidCredentials
	}
	if input.UserType.SchoolScoped() && input.SchoolID == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	account := &domain.Account{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		UserType:     input.UserType,
		SchoolID:     input.SchoolID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.accounts.Create(ctx, account)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Login verifies credentials and issues a token pair. Consecutive failures
// are counted on the account; reaching the threshold deactivates it, so even
// the correct password is rejected afterwards.
func (s *authService) Login(ctx context.Context, username, password string) (*ports.TokenPair, *domain.Account, error) {
	if username == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			// Collapsed to invalid credentials so login does not confirm
			// which usernames exist.
			s.record(username, ports.AuditLoginFailure, "unknown_account")
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !account.IsActive {
		s.record(username, ports.AuditLoginFailure, "account_inactive")
		return nil, nil, domain.ErrAccountInactive
	}

	now := s.now().UTC()
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		attempts := account.FailedLoginAttempts + 1
		deactivate := attempts >= s.maxFailedLogins
		if err := s.accounts.RecordLoginFailure(ctx, username, attempts, now, deactivate); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("failed to record login failure")
		}
		s.invalidate(ctx, username)
		if deactivate {
			s.log.Warn().Str("username", username).Int("attempts", attempts).Msg("account locked out")
			s.record(username, ports.AuditAccountLockout, "failed_login_threshold")
		} else {
			s.record(username, ports.AuditLoginFailure, "bad_password")
		}
		return nil, nil, domain.ErrInvalidCredentials
	}

	if err := s.accounts.RecordLoginSuccess(ctx, username, now); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to reset login state")
	}
	s.invalidate(ctx, username)

	pair, err := s.issuePair(account)
	if err != nil {
		return nil, nil, err
	}

	s.record(username, ports.AuditLoginSuccess, "")
	s.log.Info().Str("username", username).Str("user_type", string(account.UserType)).Msg("login succeeded")

	return pair, account, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// revocation stamp applies here too, so logout also kills refresh tokens.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	claims, err := s.tokens.Validate(refreshToken, ports.TokenKindRefresh)
	if err != nil {
		return "", time.Time{}, domain.ErrInvalidCredential
	}

	account, err := s.accounts.FindByUsername(ctx, claims.Subject)
	if err != nil {
		return "", time.Time{}, domain.ErrInvalidCredential
	}
	if account.RevokedSince(claims.IssuedAt) {
		s.record(claims.Subject, ports.AuditTokenRevoked, "refresh")
		return "", time.Time{}, domain.ErrCredentialRevoked
	}
	if !account.IsActive {
		return "", time.Time{}, domain.ErrAccountInactive
	}

	token, exp, err := s.tokens.Issue(account, ports.TokenKindAccess)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

// Logout stamps the revocation time: every credential issued strictly before
// the stamp becomes unusable, a cheap O(1) global sign-out.
func (s *authService) Logout(ctx context.Context, username string) error {
	now := s.now().UTC()
	if err := s.accounts.SetTokenRevokedAt(ctx, username, now); err != nil {
		return err
	}
	s.invalidate(ctx, username)
	s.record(username, ports.AuditLogout, "")
	s.log.Info().Str("username", username).Time("revoked_at", now).Msg("tokens revoked")
	return nil
}

func (s *authService) issuePair(account *domain.Account) (*ports.TokenPair, error) {
	access, accessExp, err := s.tokens.Issue(account, ports.TokenKindAccess)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.tokens.Issue(account, ports.TokenKindRefresh)
	if err != nil {
		return nil, err
	}
	return &ports.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *authService) invalidate(ctx context.Context, username string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to invalidate account cache")
	}
}

func (s *authService) record(subject, action, reason string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ports.AuditEvent{
		Subject:    subject,
		Action:     action,
		Reason:     reason,
		OccurredAt: s.now().UTC(),
	})
}
