package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/edulink/school-system/internal/core/domain"
	"github.com/edulink/school-system/internal/core/ports"
)

// Gate is the composable authorization predicate layer applied after identity
// resolution. Every failure is a per-request rejection: 403, or 404 where
// confirming a resource's existence to an unauthorized caller must be
// avoided. Nothing here retries.
type Gate struct {
	schools  ports.SchoolRepository
	bindings ports.RoleBindingRepository
	audit    ports.AuditRecorder
	log      zerolog.Logger
}

// NewGate returns an authorization gate. audit may be nil.
func NewGate(schools ports.SchoolRepository, bindings ports.RoleBindingRepository, audit ports.AuditRecorder, log zerolog.Logger) *Gate {
	return &Gate{schools: schools, bindings: bindings, audit: audit, log: log}
}

// RequireRole checks the account's user type against an allow-set.
func (g *Gate) RequireRole(account *domain.Account, allowed ...domain.UserType) error {
	for _, t := range allowed {
		if account.UserType == t {
			return nil
		}
	}
	g.deny(account, "require_role")
	return domain.ErrForbidden
}

// RequireActive rejects deactivated accounts. Token validity is unaffected by
// the active flag; this gate is where deactivation bites.
func (g *Gate) RequireActive(account *domain.Account) error {
	if account.IsActive {
		return nil
	}
	g.deny(account, "require_active")
	return domain.ErrAccountInactive
}

// RequireSchoolAdmin checks the school_admin user type and loads the school
// the account administers. An admin account not yet linked to a school gets
// ErrSchoolNotFound, deliberately not ErrForbidden.
func (g *Gate) RequireSchoolAdmin(ctx context.Context, account *domain.Account) (*domain.School, error) {
	if account.UserType != domain.UserTypeSchoolAdmin {
		g.deny(account, "require_school_admin")
		return nil, domain.ErrForbidden
	}
	school, err := g.schools.FindByAdminAccountID(ctx, account.ID)
	if err != nil {
		if errors.Is(err, domain.ErrSchoolNotFound) {
			return nil, domain.ErrSchoolNotFound
		}
		return nil, err
	}
	return school, nil
}

// RequireAdminOrStaffAdmin is the broader admin check: platform admins,
// school_admin-typed accounts, and active staff records with an admin-grade
// staff type all pass. The returned school ID is empty for platform-level
// admins with no school attachment.
func (g *Gate) RequireAdminOrStaffAdmin(ctx context.Context, account *domain.Account) (string, error) {
	switch account.UserType {
	case domain.UserTypePlatformAdmin:
		return "", nil
	case domain.UserTypeSchoolAdmin:
		school, err := g.schools.FindByAdminAccountID(ctx, account.ID)
		if err == nil {
			return school.ID, nil
		}
		if errors.Is(err, domain.ErrSchoolNotFound) {
			return account.SchoolID, nil
		}
		return "", err
	}

	records, err := g.bindings.FindStaffByAccount(ctx, account.ID)
	if err != nil && !errors.Is(err, domain.ErrBindingNotFound) {
		return "", err
	}
	for _, rec := range records {
		if rec.IsActive && rec.StaffType.IsAdminGrade() {
			return rec.SchoolID, nil
		}
	}

	g.deny(account, "require_admin_or_staff_admin")
	return "", domain.ErrForbidden
}

// RequireCourseOwnership allows the owning account or the professor teaching
// the course.
func (g *Gate) RequireCourseOwnership(ctx context.Context, account *domain.Account, course *domain.Course) error {
	if course.OwnerAccountID == account.ID {
		return nil
	}
	if course.ProfessorID != "" {
		rec, err := g.bindings.FindProfessorByAccount(ctx, account.ID)
		if err == nil && rec.ID == course.ProfessorID {
			return nil
		}
		if err != nil && !errors.Is(err, domain.ErrBindingNotFound) {
			return err
		}
	}
	g.deny(account, "require_course_ownership")
	return domain.ErrForbidden
}

func (g *Gate) deny(account *domain.Account, gate string) {
	g.log.Info().
		Str("username", account.Username).
		Str("user_type", string(account.UserType)).
		Str("gate", gate).
		Msg("authorization denied")
	if g.audit != nil {
		g.audit.Record(ports.AuditEvent{
			Subject:    account.Username,
			Action:     ports.AuditGateDenied,
			Reason:     gate,
			SchoolID:   account.SchoolID,
			OccurredAt: time.Now().UTC(),
		})
	}
}
