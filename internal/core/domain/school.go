package domain

import (
	"errors"
	"time"
)

// StaffType classifies a staff record within a school.
type StaffType string

const (
	StaffTypeTeacher   StaffType = "teacher"
	StaffTypeAdmin     StaffType = "admin"
	StaffTypePrincipal StaffType = "principal"
	StaffTypeDirector  StaffType = "director"
)

// adminStaffTypes are the staff types that grant school-admin capabilities.
var adminStaffTypes = map[StaffType]struct{}{
	StaffTypeAdmin:     {},
	StaffTypePrincipal: {},
	StaffTypeDirector:  {},
}

// IsAdminGrade reports whether this staff type carries admin privileges.
func (t StaffType) IsAdminGrade() bool {
	_, ok := adminStaffTypes[t]
	return ok
}

var (
	ErrSchoolNotFound  = errors.New("school not found")
	ErrSchoolExists    = errors.New("school already exists")
	ErrCourseNotFound  = errors.New("course not found")
	ErrBindingNotFound = errors.New("role binding not found")
)

// School is a tenant: a single institution with its own staff and courses.
type School struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	City           string    `json:"city,omitempty"`
	AdminAccountID string    `json:"admin_account_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// StaffRecord binds an account to a school with a staff role.
type StaffRecord struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	SchoolID  string    `json:"school_id"`
	StaffType StaffType `json:"staff_type"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfessorRecord binds an account to a school as teaching staff with a
// subject profile.
type ProfessorRecord struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	SchoolID  string    `json:"school_id"`
	Subject   string    `json:"subject,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// StudentRecord binds an account to a school as an enrolled student.
type StudentRecord struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	SchoolID  string    `json:"school_id"`
	Grade     string    `json:"grade,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Course belongs to a school and is taught by a professor.
type Course struct {
	ID             string    `json:"id"`
	SchoolID       string    `json:"school_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	OwnerAccountID string    `json:"owner_account_id"`
	ProfessorID    string    `json:"professor_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
