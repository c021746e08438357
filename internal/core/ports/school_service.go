package ports

import (
	"context"

	"github.com/edulink/school-system/internal/core/domain"
)

// CreateSchoolInput carries the data needed to register a new school.
type CreateSchoolInput struct {
	Name           string
	City           string
	AdminAccountID string
}

// SchoolService defines use-case operations for schools and their staff.
type SchoolService interface {
	CreateSchool(ctx context.Context, input CreateSchoolInput) (*domain.School, error)
	GetSchool(ctx context.Context, id string) (*domain.School, error)
	ListSchools(ctx context.Context) ([]*domain.School, error)
	AddStaff(ctx context.Context, rec *domain.StaffRecord) (*domain.StaffRecord, error)
}

// CreateCourseInput carries the data needed to create a course.
type CreateCourseInput struct {
	SchoolID       string
	Title          string
	Description    string
	OwnerAccountID string
	ProfessorID    string
}

// CourseService defines use-case operations for courses.
type CourseService interface {
	CreateCourse(ctx context.Context, input CreateCourseInput) (*domain.Course, error)
	GetCourse(ctx context.Context, id string) (*domain.Course, error)
	ListCourses(ctx context.Context, schoolID string) ([]*domain.Course, error)
}
