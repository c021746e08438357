package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/edulink/school-system/internal/core/domain"
	"github.com/edulink/school-system/internal/core/ports"
)

func newTestAuthService(repo *stubAccountRepo, audit ports.AuditRecorder, maxFailed int) (ports.AuthService, ports.TokenService) {
	tokens := NewTokenService("secret", time.Minute, time.Hour)
	svc := NewAuthService(repo, nil, tokens, audit, maxFailed, zerolog.Nop())
	return svc, tokens
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubAccountRepo()
	svc, _ := newTestAuthService(repo, nil, 0)

	account, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice",
		Password: "pass123",
		Email:    "alice@example.com",
		UserType: domain.UserTypeStudent,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if account == nil {
		t.Fatalf("expected account, got nil")
	}
	if account.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if !account.IsActive {
		t.Fatalf("expected new account to be active")
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	repo := newStubAccountRepo()
	svc, _ := newTestAuthService(repo, nil, 0)

	cases := []ports.RegisterInput{
		{Username: "", Password: "pass", UserType: domain.UserTypeStudent},
		{Username: "bob", Password: "", UserType: domain.UserTypeStudent},
		{Username: "bob", Password: "pass", UserType: "wizard"},
		// school-scoped types need a school
		{Username: "bob", Password: "pass", UserType: domain.UserTypeProfessor},
		{Username: "bob", Password: "pass", UserType: domain.UserTypeSchoolStudent},
	}
	for i, input := range cases {
		if _, err := svc.Register(context.Background(), input); err != domain.ErrInvalidCredentials {
			t.Fatalf("case %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubAccountRepo()
	svc, _ := newTestAuthService(repo, nil, 0)

	input := ports.RegisterInput{Username: "bob", Password: "pass", UserType: domain.UserTypeStudent}
	if _, err := svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), input); err != domain.ErrAccountExists {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubAccountRepo()
	audit := &stubAuditRecorder{}
	svc, tokens := newTestAuthService(repo, audit, 0)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "carol", Password: "s3cret", UserType: domain.UserTypePlatformAdmin,
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	pair, account, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", pair)
	}
	if account.Username != "carol" {
		t.Fatalf("unexpected account: %+v", account)
	}

	if _, err := tokens.Validate(pair.AccessToken, ports.TokenKindAccess); err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if _, err := tokens.Validate(pair.RefreshToken, ports.TokenKindRefresh); err != nil {
		t.Fatalf("refresh token invalid: %v", err)
	}
	if !audit.has(ports.AuditLoginSuccess) {
		t.Fatalf("expected login_success audit event, got %v", audit.actions())
	}
}

func TestAuthService_Login_UnknownAccount(t *testing.T) {
	repo := newStubAccountRepo()
	svc, _ := newTestAuthService(repo, nil, 0)

	// Unknown usernames collapse to the same error as a bad password.
	if _, _, err := svc.Login(context.Background(), "ghost", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_LockoutAtThreshold(t *testing.T) {
	repo := newStubAccountRepo()
	audit := &stubAuditRecorder{}
	svc, _ := newTestAuthService(repo, audit, 3)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "dave", Password: "correct", UserType: domain.UserTypeStudent,
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, _, err := svc.Login(context.Background(), "dave", "wrong"); err != domain.ErrInvalidCredentials {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}

	stored, _ := repo.FindByUsername(context.Background(), "dave")
	if stored.IsActive {
		t.Fatalf("expected account deactivated after 3 failures")
	}
	if !audit.has(ports.AuditAccountLockout) {
		t.Fatalf("expected account_lockout audit event, got %v", audit.actions())
	}

	// Even the correct password is rejected once locked out.
	if _, _, err := svc.Login(context.Background(), "dave", "correct"); err != domain.ErrAccountInactive {
		t.Fatalf("expected ErrAccountInactive after lockout, got %v", err)
	}
}

func TestAuthService_Login_FailureCounterResets(t *testing.T) {
	repo := newStubAccountRepo()
	svc, _ := newTestAuthService(repo, nil, 3)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "erin", Password: "correct", UserType: domain.UserTypeStudent,
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, _ = svc.Login(context.Background(), "erin", "wrong")
	_, _, _ = svc.Login(context.Background(), "erin", "wrong")

	if _, _, err := svc.Login(context.Background(), "erin", "correct"); err != nil {
		t.Fatalf("login with correct password failed: %v", err)
	}

	stored, _ := repo.FindByUsername(context.Background(), "erin")
	if stored.FailedLoginAttempts != 0 {
		t.Fatalf("expected failure counter reset, got %d", stored.FailedLoginAttempts)
	}

	// Counter restarted: two more failures must not lock the account.
	_, _, _ = svc.Login(context.Background(), "erin", "wrong")
	_, _, _ = svc.Login(context.Background(), "erin", "wrong")
	stored, _ = repo.FindByUsername(context.Background(), "erin")
	if !stored.IsActive {
		t.Fatalf("account locked before reaching threshold")
	}
}

func TestAuthService_Refresh_Success(t *testing.T) {
	repo := newStubAccountRepo()
	svc, tokens := newTestAuthService(repo, nil, 0)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "frank", Password: "pass", UserType: domain.UserTypeStudent,
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	pair, _, err := svc.Login(context.Background(), "frank", "pass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	access, exp, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if !exp.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", exp)
	}
	if _, err := tokens.Validate(access, ports.TokenKindAccess); err != nil {
		t.Fatalf("refreshed access token invalid: %v", err)
	}
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	repo := newStubAccountRepo()
	svc, _ := newTestAuthService(repo, nil, 0)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "gina", Password: "pass", UserType: domain.UserTypeStudent,
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	pair, _, err := svc.Login(context.Background(), "gina", "pass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if _, _, err := svc.Refresh(context.Background(), pair.AccessToken); err != domain.ErrInvalidCredential {
		t.Fatalf("expected ErrInvalidCredential for access-as-refresh, got %v", err)
	}
}

func TestAuthService_Logout_RevokesRefreshTokens(t *testing.T) {
	repo := newStubAccountRepo()
	audit := &stubAuditRecorder{}
	tokens := NewTokenService("secret", time.Minute, time.Hour).(*tokenService)
	svc := NewAuthService(repo, nil, tokens, audit, 0, zerolog.Nop()).(*authService)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tokens.now = func() time.Time { return base }
	svc.now = func() time.Time { return base }

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "henry", Password: "pass", UserType: domain.UserTypeStudent,
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	pair, _, err := svc.Login(context.Background(), "henry", "pass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// Logout one second later: the refresh token issued at base is now dead.
	svc.now = func() time.Time { return base.Add(time.Second) }
	if err := svc.Logout(context.Background(), "henry"); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if !audit.has(ports.AuditLogout) {
		t.Fatalf("expected logout audit event, got %v", audit.actions())
	}

	tokens.now = func() time.Time { return base.Add(2 * time.Second) }
	if _, _, err := svc.Refresh(context.Background(), pair.RefreshToken); err != domain.ErrCredentialRevoked {
		t.Fatalf("expected ErrCredentialRevoked after logout, got %v", err)
	}
}
