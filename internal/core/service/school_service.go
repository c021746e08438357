package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/edulink/school-system/internal/core/domain"
	"github.com/edulink/school-system/internal/core/ports"
)

type schoolService struct {
	schools  ports.SchoolRepository
	bindings ports.RoleBindingRepository
	log      zerolog.Logger
}

// NewSchoolService returns a SchoolService implementation.
func NewSchoolService(schools ports.SchoolRepository, bindings ports.RoleBindingRepository, log zerolog.Logger) ports.SchoolService {
	return &schoolService{schools: schools, bindings: bindings, log: log}
}

func (s *schoolService) CreateSchool(ctx context.Context, input ports.CreateSchoolInput) (*domain.School, error) {
	now := time.Now().UTC()
	school := &domain.School{
		Name:           input.Name,
		City:           input.City,
		AdminAccountID: input.AdminAccountID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.schools.Create(ctx, school)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("school_id", created.ID).Str("name", created.Name).Msg("school created")
	return created, nil
}

func (s *schoolService) GetSchool(ctx context.Context, id string) (*domain.School, error) {
	return s.schools.FindByID(ctx, id)
}

func (s *schoolService) ListSchools(ctx context.Context) ([]*domain.School, error) {
	return s.schools.List(ctx)
}

func (s *schoolService) AddStaff(ctx context.Context, rec *domain.StaffRecord) (*domain.StaffRecord, error) {
	// The school must exist before staff can be bound to it.
	if _, err := s.schools.FindByID(ctx, rec.SchoolID); err != nil {
		return nil, err
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return s.bindings.CreateStaff(ctx, rec)
}
