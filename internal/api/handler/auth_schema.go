package handler

import "time"

// --- Request / Response types ---

type registerRequest struct {
	Username string `json:"username"  validate:"required,min=3"`
	Password string `json:"password"  validate:"required,min=8"`
	Email    string `json:"email"     validate:"omitempty,email"`
	UserType string `json:"user_type" validate:"required,oneof=student school_student professor school_admin platform_admin"`
	SchoolID string `json:"school_id"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type accountResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	UserType  string    `json:"user_type"`
	SchoolID  string    `json:"school_id,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type tokenPairResponse struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	TokenType        string    `json:"token_type"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

type loginResponse struct {
	tokenPairResponse
	Account accountResponse `json:"account"`
}

type refreshResponse struct {
	AccessToken     string    `json:"access_token"`
	TokenType       string    `json:"token_type"`
	AccessExpiresAt time.Time `json:"access_expires_at"`
}

type roleContextResponse struct {
	Capability string `json:"capability"`
	SchoolID   string `json:"school_id,omitempty"`
	StaffType  string `json:"staff_type,omitempty"`
}

type meResponse struct {
	Account accountResponse      `json:"account"`
	Role    *roleContextResponse `json:"role,omitempty"`
}
