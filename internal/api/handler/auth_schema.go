package handler

import "github.com/fitmarket/session-gateway/internal/core/domain"

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Identity   *domain.Identity `json:"identity"`
	RedirectTo string           `json:"redirect_to"`
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role" validate:"required,oneof=CLIENT_USER PT_USER GYM_STAFF ADMIN"`
}

type registerResponse struct {
	Identity *domain.Identity `json:"identity"`
}

type confirmRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type sessionResponse struct {
	Identity        *domain.Identity `json:"identity"`
	IsAuthenticated bool             `json:"is_authenticated"`
	Error           string           `json:"error,omitempty"`
}
