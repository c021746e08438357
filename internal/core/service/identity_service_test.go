package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/edulink/school-system/internal/core/domain"
	"github.com/edulink/school-system/internal/core/ports"
)

type resolverFixture struct {
	tokens   *tokenService
	accounts *stubAccountRepo
	cache    *stubAccountCache
	bindings *stubBindingRepo
	schools  *stubSchoolRepo
	audit    *stubAuditRecorder
	resolver ports.IdentityResolver
}

func newResolverFixture(withCache bool) *resolverFixture {
	f := &resolverFixture{
		tokens:   NewTokenService("secret", time.Minute, time.Hour).(*tokenService),
		accounts: newStubAccountRepo(),
		bindings: newStubBindingRepo(),
		schools:  newStubSchoolRepo(),
		audit:    &stubAuditRecorder{},
	}
	var cache ports.AccountCache
	if withCache {
		f.cache = newStubAccountCache()
		cache = f.cache
	}
	f.resolver = NewIdentityResolver(f.tokens, f.accounts, cache, f.bindings, f.schools, f.audit, zerolog.Nop())
	return f
}

func (f *resolverFixture) issueAccess(t *testing.T, account *domain.Account) string {
	t.Helper()
	token, _, err := f.tokens.Issue(account, ports.TokenKindAccess)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	return token
}

func TestIdentityResolver_Resolve_Success(t *testing.T) {
	f := newResolverFixture(false)
	account := &domain.Account{ID: "id_alice", Username: "alice", UserType: domain.UserTypeStudent, IsActive: true}
	f.accounts.put(account)

	token := f.issueAccess(t, account)
	identity, err := f.resolver.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if identity.Account.Username != "alice" {
		t.Fatalf("unexpected account: %+v", identity.Account)
	}
	// Plain students carry no role binding.
	if identity.Role != nil {
		t.Fatalf("expected no role context, got %+v", identity.Role)
	}
}

func TestIdentityResolver_Resolve_Idempotent(t *testing.T) {
	f := newResolverFixture(false)
	account := &domain.Account{ID: "id_alice", Username: "alice", UserType: domain.UserTypeStudent, IsActive: true}
	f.accounts.put(account)

	token := f.issueAccess(t, account)
	first, err := f.resolver.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("first Resolve failed: %v", err)
	}
	second, err := f.resolver.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("second Resolve failed: %v", err)
	}
	if first.Account.Username != second.Account.Username || first.Account.ID != second.Account.ID {
		t.Fatalf("resolutions differ: %+v vs %+v", first.Account, second.Account)
	}
}

func TestIdentityResolver_Resolve_InvalidToken(t *testing.T) {
	f := newResolverFixture(false)
	if _, err := f.resolver.Resolve(context.Background(), "garbage"); err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestIdentityResolver_Resolve_UnknownSubject(t *testing.T) {
	f := newResolverFixture(false)
	ghost := &domain.Account{ID: "id_ghost", Username: "ghost", UserType: domain.UserTypeStudent}
	token := f.issueAccess(t, ghost)

	if _, err := f.resolver.Resolve(context.Background(), token); err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated for deleted account, got %v", err)
	}
}

func TestIdentityResolver_Resolve_RevokedCredential(t *testing.T) {
	f := newResolverFixture(false)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	f.tokens.now = func() time.Time { return base }

	account := &domain.Account{ID: "id_bob", Username: "bob", UserType: domain.UserTypeStudent, IsActive: true}
	f.accounts.put(account)

	earlier := f.issueAccess(t, account)

	// Stamp revocation between the two issues.
	stamp := base.Add(time.Second)
	if err := f.accounts.SetTokenRevokedAt(context.Background(), "bob", stamp); err != nil {
		t.Fatalf("stamping failed: %v", err)
	}

	f.tokens.now = func() time.Time { return base.Add(2 * time.Second) }
	later := f.issueAccess(t, account)

	if _, err := f.resolver.Resolve(context.Background(), earlier); err != domain.ErrCredentialRevoked {
		t.Fatalf("expected ErrCredentialRevoked for pre-stamp token, got %v", err)
	}
	if !f.audit.has(ports.AuditTokenRevoked) {
		t.Fatalf("expected token_revoked audit event, got %v", f.audit.actions())
	}
	if _, err := f.resolver.Resolve(context.Background(), later); err != nil {
		t.Fatalf("post-stamp token should resolve: %v", err)
	}
}

func TestIdentityResolver_Resolve_InactiveStillResolves(t *testing.T) {
	f := newResolverFixture(false)
	account := &domain.Account{ID: "id_carl", Username: "carl", UserType: domain.UserTypeStudent, IsActive: false}
	f.accounts.put(account)

	token := f.issueAccess(t, account)
	identity, err := f.resolver.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if identity.Account.IsActive {
		t.Fatalf("expected inactive account in identity")
	}
}

func TestIdentityResolver_RolePrecedence_SchoolAdminType(t *testing.T) {
	f := newResolverFixture(false)
	account := &domain.Account{ID: "id_dana", Username: "dana", UserType: domain.UserTypeSchoolAdmin, SchoolID: "school_a", IsActive: true}
	f.accounts.put(account)
	f.schools.add(&domain.School{ID: "school_b", Name: "North", AdminAccountID: "id_dana"})

	// An admin-grade staff record exists too but the declared user type wins.
	_, _ = f.bindings.CreateStaff(context.Background(), &domain.StaffRecord{
		ID: "staff_1", AccountID: "id_dana", SchoolID: "school_c", StaffType: domain.StaffTypeAdmin, IsActive: true,
	})

	token := f.issueAccess(t, account)
	identity, err := f.resolver.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if identity.Role == nil || identity.Role.Capability != domain.CapabilitySchoolAdmin {
		t.Fatalf("expected school_admin capability, got %+v", identity.Role)
	}
	// Linked school takes precedence over the school id on the account.
	if identity.Role.SchoolID != "school_b" {
		t.Fatalf("expected linked school, got %s", identity.Role.SchoolID)
	}
}

func TestIdentityResolver_RolePrecedence_StaffAdminOverProfessor(t *testing.T) {
	f := newResolverFixture(false)
	account := &domain.Account{ID: "id_eve", Username: "eve", UserType: domain.UserTypeProfessor, SchoolID: "school_a", IsActive: true}
	f.accounts.put(account)

	_, _ = f.bindings.CreateProfessor(context.Background(), &domain.ProfessorRecord{
		ID: "prof_1", AccountID: "id_eve", SchoolID: "school_a", IsActive: true,
	})
	_, _ = f.bindings.CreateStaff(context.Background(), &domain.StaffRecord{
		ID: "staff_1", AccountID: "id_eve", SchoolID: "school_a", StaffType: domain.StaffTypePrincipal, IsActive: true,
	})

	token := f.issueAccess(t, account)
	identity, err := f.resolver.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if identity.Role == nil || identity.Role.Capability != domain.CapabilityStaffAdmin {
		t.Fatalf("expected staff_admin capability, got %+v", identity.Role)
	}
	if !identity.Role.IsAdmin() {
		t.Fatalf("expected admin-level role context")
	}
}

func TestIdentityResolver_TeacherStaffIsNotAdmin(t *testing.T) {
	f := newResolverFixture(false)
	account := &domain.Account{ID: "id_finn", Username: "finn", UserType: domain.UserTypeProfessor, SchoolID: "school_a", IsActive: true}
	f.accounts.put(account)

	_, _ = f.bindings.CreateStaff(context.Background(), &domain.StaffRecord{
		ID: "staff_1", AccountID: "id_finn", SchoolID: "school_a", StaffType: domain.StaffTypeTeacher, IsActive: true,
	})
	_, _ = f.bindings.CreateProfessor(context.Background(), &domain.ProfessorRecord{
		ID: "prof_1", AccountID: "id_finn", SchoolID: "school_a", IsActive: true,
	})

	token := f.issueAccess(t, account)
	identity, err := f.resolver.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if identity.Role == nil || identity.Role.Capability != domain.CapabilityProfessor {
		t.Fatalf("expected professor capability, got %+v", identity.Role)
	}
	if identity.Role.IsAdmin() {
		t.Fatalf("teacher staff record must not grant admin")
	}
}

func TestIdentityResolver_InactiveBindingSkipped(t *testing.T) {
	f := newResolverFixture(false)
	account := &domain.Account{ID: "id_gil", Username: "gil", UserType: domain.UserTypeSchoolStudent, SchoolID: "school_a", IsActive: true}
	f.accounts.put(account)

	_, _ = f.bindings.CreateStudent(context.Background(), &domain.StudentRecord{
		ID: "stu_1", AccountID: "id_gil", SchoolID: "school_a", IsActive: false,
	})

	token := f.issueAccess(t, account)
	identity, err := f.resolver.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if identity.Role != nil {
		t.Fatalf("expected no role for inactive binding, got %+v", identity.Role)
	}
}

func TestIdentityResolver_CacheReadThrough(t *testing.T) {
	f := newResolverFixture(true)
	account := &domain.Account{ID: "id_hana", Username: "hana", UserType: domain.UserTypeStudent, IsActive: true}
	f.accounts.put(account)

	token := f.issueAccess(t, account)
	if _, err := f.resolver.Resolve(context.Background(), token); err != nil {
		t.Fatalf("first Resolve failed: %v", err)
	}
	if f.cache.puts != 1 {
		t.Fatalf("expected one cache fill, got %d", f.cache.puts)
	}

	// Second resolution is served from the cache even if the repo entry goes.
	delete(f.accounts.accounts, "hana")
	if _, err := f.resolver.Resolve(context.Background(), token); err != nil {
		t.Fatalf("cached Resolve failed: %v", err)
	}
}

func TestIdentityResolver_CacheErrorDegradesToRepo(t *testing.T) {
	f := newResolverFixture(true)
	account := &domain.Account{ID: "id_iris", Username: "iris", UserType: domain.UserTypeStudent, IsActive: true}
	f.accounts.put(account)
	f.cache.getErr = errors.New("connection refused")

	token := f.issueAccess(t, account)
	if _, err := f.resolver.Resolve(context.Background(), token); err != nil {
		t.Fatalf("Resolve should fall back to repository: %v", err)
	}
}
