package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/edulink/school-system/internal/core/domain"
	"github.com/edulink/school-system/internal/core/ports"
)

type courseService struct {
	courses ports.CourseRepository
	schools ports.SchoolRepository
	log     zerolog.Logger
}

// NewCourseService returns a CourseService implementation.
func NewCourseService(courses ports.CourseRepository, schools ports.SchoolRepository, log zerolog.Logger) ports.CourseService {
	return &courseService{courses: courses, schools: schools, log: log}
}

func (s *courseService) CreateCourse(ctx context.Context, input ports.CreateCourseInput) (*domain.Course, error) {
	if _, err := s.schools.FindByID(ctx, input.SchoolID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	course := &domain.Course{
		SchoolID:       input.SchoolID,
		Title:          input.Title,
		Description:    input.Description,
		OwnerAccountID: input.OwnerAccountID,
		ProfessorID:    input.ProfessorID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.courses.Create(ctx, course)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("course_id", created.ID).
		Str("school_id", created.SchoolID).
		Str("owner", created.OwnerAccountID).
		Msg("course created")
	return created, nil
}

func (s *courseService) GetCourse(ctx context.Context, id string) (*domain.Course, error) {
	return s.courses.FindByID(ctx, id)
}

func (s *courseService) ListCourses(ctx context.Context, schoolID string) ([]*domain.Course, error) {
	return s.courses.ListBySchool(ctx, schoolID)
}
