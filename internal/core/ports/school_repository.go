package ports

import (
	"context"

	"github.com/edulink/school-system/internal/core/domain"
)

// SchoolRepository defines persistence operations for schools.
type SchoolRepository interface {
	Create(ctx context.Context, school *domain.School) (*domain.School, error)
	FindByID(ctx context.Context, id string) (*domain.School, error)
	// FindByAdminAccountID retrieves the school administered by the given
	// account, used by the school-admin gate.
	FindByAdminAccountID(ctx context.Context, accountID string) (*domain.School, error)
	List(ctx context.Context) ([]*domain.School, error)
}

// RoleBindingRepository resolves the role-specific records linking an account
// to a school. Each lookup returns ErrBindingNotFound when no record exists.
type RoleBindingRepository interface {
	FindStaffByAccount(ctx context.Context, accountID string) ([]*domain.StaffRecord, error)
	FindProfessorByAccount(ctx context.Context, accountID string) (*domain.ProfessorRecord, error)
	FindStudentByAccount(ctx context.Context, accountID string) (*domain.StudentRecord, error)
	CreateStaff(ctx context.Context, rec *domain.StaffRecord) (*domain.StaffRecord, error)
	CreateProfessor(ctx context.Context, rec *domain.ProfessorRecord) (*domain.ProfessorRecord, error)
	CreateStudent(ctx context.Context, rec *domain.StudentRecord) (*domain.StudentRecord, error)
}

// CourseRepository defines persistence operations for courses.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) (*domain.Course, error)
	FindByID(ctx context.Context, id string) (*domain.Course, error)
	ListBySchool(ctx context.Context, schoolID string) ([]*domain.Course, error)
}
