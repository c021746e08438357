package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/edulink/school-system/internal/core/domain"
	"github.com/edulink/school-system/internal/core/ports"
)

type identityResolver struct {
	tokens   ports.TokenService
	accounts ports.AccountRepository
	cache    ports.AccountCache
	bindings ports.RoleBindingRepository
	schools  ports.SchoolRepository
	audit    ports.AuditRecorder
	log      zerolog.Logger
}

// NewIdentityResolver returns an IdentityResolver implementation. cache and
// audit may be nil.
func NewIdentityResolver(
	tokens ports.TokenService,
	accounts ports.AccountRepository,
	cache ports.AccountCache,
	bindings ports.RoleBindingRepository,
	schools ports.SchoolRepository,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) ports.IdentityResolver {
	return &identityResolver{
		tokens:   tokens,
		accounts: accounts,
		cache:    cache,
		bindings: bindings,
		schools:  schools,
		audit:    audit,
		log:      log,
	}
}

// Resolve turns a raw access token into a concrete account plus, when one
// applies, its active role context. Validation alone has no side effects, so
// resolving the same token twice yields the same identity.
//
// Inactive accounts still resolve: the active check belongs to the gates, so
// endpoints that must identify a deactivated caller (logout, support views)
// can do so.
func (r *identityResolver) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	// 1. Signature, expiry, and kind are the token service's job.
	claims, err := r.tokens.Validate(token, ports.TokenKindAccess)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	// 2. Load the account behind the subject claim.
	account, err := r.lookupAccount(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}

	// 3. Global sign-out: any credential issued strictly before the
	// revocation stamp is dead, even if unexpired. Rendered like any other
	// 401 but logged and audited distinctly.
	if account.RevokedSince(claims.IssuedAt) {
		r.log.Info().
			Str("username", account.Username).
			Time("issued_at", claims.IssuedAt).
			Time("revoked_at", *account.TokenRevokedAt).
			Msg("rejected revoked credential")
		if r.audit != nil {
			r.audit.Record(ports.AuditEvent{
				Subject:    account.Username,
				Action:     ports.AuditTokenRevoked,
				Reason:     "access",
				OccurredAt: time.Now().UTC(),
			})
		}
		return nil, domain.ErrCredentialRevoked
	}

	// 4. Resolve the role binding. Absence is not fatal here; whether a
	// given endpoint needs one is the gate's decision.
	role := r.resolveRoleContext(ctx, account)

	return &domain.Identity{Account: account, Role: role}, nil
}

// lookupAccount reads through the short-TTL cache when one is configured.
// Cache errors degrade to a repository read, never to a request failure.
func (r *identityResolver) lookupAccount(ctx context.Context, username string) (*domain.Account, error) {
	if r.cache != nil {
		account, hit, err := r.cache.Get(ctx, username)
		if err != nil {
			r.log.Warn().Err(err).Str("username", username).Msg("account cache read failed")
		} else if hit {
			return account, nil
		}
	}

	account, err := r.accounts.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Put(ctx, account); err != nil {
			r.log.Warn().Err(err).Str("username", username).Msg("account cache write failed")
		}
	}
	return account, nil
}

// capabilityCheck is one step of the ordered role-resolution list. It returns
// a context when the capability applies to the account, nil when it does not.
type capabilityCheck struct {
	name string
	fn   func(ctx context.Context, account *domain.Account) (*domain.RoleContext, error)
}

// capabilities returns the resolution order. First match wins:
//
//  1. platform admin by user type, no school attachment required
//  2. school_admin by user type, linked school preferred over the declared scope
//  3. active staff record with an admin-grade staff type
//  4. professor record
//  5. school-student record
//
// A school_admin-typed account therefore outranks a teacher-typed account
// holding an admin staff record.
func (r *identityResolver) capabilities() []capabilityCheck {
	return []capabilityCheck{
		{name: string(domain.CapabilityPlatformAdmin), fn: r.asPlatformAdmin},
		{name: string(domain.CapabilitySchoolAdmin), fn: r.asSchoolAdmin},
		{name: string(domain.CapabilityStaffAdmin), fn: r.asStaffAdmin},
		{name: string(domain.CapabilityProfessor), fn: r.asProfessor},
		{name: string(domain.CapabilityStudent), fn: r.asStudent},
	}
}

func (r *identityResolver) resolveRoleContext(ctx context.Context, account *domain.Account) *domain.RoleContext {
	for _, check := range r.capabilities() {
		role, err := check.fn(ctx, account)
		if err != nil {
			// A failed lookup makes the capability "not applicable", not the
			// request invalid.
			r.log.Warn().Err(err).
				Str("username", account.Username).
				Str("capability", check.name).
				Msg("capability check failed")
			continue
		}
		if role != nil {
			return role
		}
	}
	return nil
}

func (r *identityResolver) asPlatformAdmin(_ context.Context, account *domain.Account) (*domain.RoleContext, error) {
	if account.UserType != domain.UserTypePlatformAdmin {
		return nil, nil
	}
	return &domain.RoleContext{Capability: domain.CapabilityPlatformAdmin}, nil
}

func (r *identityResolver) asSchoolAdmin(ctx context.Context, account *domain.Account) (*domain.RoleContext, error) {
	if account.UserType != domain.UserTypeSchoolAdmin {
		return nil, nil
	}
	schoolID := account.SchoolID
	school, err := r.schools.FindByAdminAccountID(ctx, account.ID)
	if err == nil {
		schoolID = school.ID
	} else if !errors.Is(err, domain.ErrSchoolNotFound) {
		return nil, err
	}
	return &domain.RoleContext{Capability: domain.CapabilitySchoolAdmin, SchoolID: schoolID}, nil
}

func (r *identityResolver) asStaffAdmin(ctx context.Context, account *domain.Account) (*domain.RoleContext, error) {
	records, err := r.bindings.FindStaffByAccount(ctx, account.ID)
	if err != nil {
		if errors.Is(err, domain.ErrBindingNotFound) {
			return nil, nil
		}
		return nil, err
	}
	for _, rec := range records {
		if rec.IsActive && rec.StaffType.IsAdminGrade() {
			return &domain.RoleContext{
				Capability: domain.CapabilityStaffAdmin,
				SchoolID:   rec.SchoolID,
				BindingID:  rec.ID,
				StaffType:  rec.StaffType,
			}, nil
		}
	}
	return nil, nil
}

func (r *identityResolver) asProfessor(ctx context.Context, account *domain.Account) (*domain.RoleContext, error) {
	if account.UserType != domain.UserTypeProfessor {
		return nil, nil
	}
	rec, err := r.bindings.FindProfessorByAccount(ctx, account.ID)
	if err != nil {
		if errors.Is(err, domain.ErrBindingNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !rec.IsActive {
		return nil, nil
	}
	return &domain.RoleContext{
		Capability: domain.CapabilityProfessor,
		SchoolID:   rec.SchoolID,
		BindingID:  rec.ID,
	}, nil
}

func (r *identityResolver) asStudent(ctx context.Context, account *domain.Account) (*domain.RoleContext, error) {
	if account.UserType != domain.UserTypeSchoolStudent {
		return nil, nil
	}
	rec, err := r.bindings.FindStudentByAccount(ctx, account.ID)
	if err != nil {
		if errors.Is(err, domain.ErrBindingNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !rec.IsActive {
		return nil, nil
	}
	return &domain.RoleContext{
		Capability: domain.CapabilityStudent,
		SchoolID:   rec.SchoolID,
		BindingID:  rec.ID,
	}, nil
}
