package handler

import "time"

type createSchoolRequest struct {
	Name string `json:"name" validate:"required,min=2"`
	City string `json:"city"`
}

type schoolResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	City           string    `json:"city,omitempty"`
	AdminAccountID string    `json:"admin_account_id"`
	CreatedAt      time.Time `json:"created_at"`
}

type listSchoolsResponse struct {
	Data []schoolResponse `json:"data"`
}

type addStaffRequest struct {
	AccountID string `json:"account_id" validate:"required"`
	StaffType string `json:"staff_type" validate:"required,oneof=teacher admin principal director"`
}

type staffResponse struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	SchoolID  string    `json:"school_id"`
	StaffType string    `json:"staff_type"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type createCourseRequest struct {
	SchoolID    string `json:"school_id"   validate:"required"`
	Title       string `json:"title"       validate:"required,min=2"`
	Description string `json:"description"`
	ProfessorID string `json:"professor_id"`
}

type courseResponse struct {
	ID             string    `json:"id"`
	SchoolID       string    `json:"school_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	OwnerAccountID string    `json:"owner_account_id"`
	ProfessorID    string    `json:"professor_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type listCoursesResponse struct {
	Data []courseResponse `json:"data"`
}
