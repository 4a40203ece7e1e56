package dto

import (
	"time"

	"craftcurio/internal/entity"
)

type SendSigninRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type SendSignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty"`
}

type VerifySigninRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

type VerifySignupRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`

	// Optional fallback fields, used only when the pending signup
	// payload captured at issuance cannot be read back.
	FullName string `json:"full_name" validate:"omitempty"`
	Password string `json:"password" validate:"omitempty"`
	Role     string `json:"role" validate:"omitempty"`
}

type SendOTPResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
	DevOTP  string `json:"dev_otp,omitempty"`
}

type SessionResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
	Token   string       `json:"token"`
}

// UserResponse is the sanitized user: no password hash, no internal
// bookkeeping fields.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func UserResponseFromEntity(user *entity.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func UserResponsesFromEntities(users []entity.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, UserResponseFromEntity(&users[i]))
	}
	return responses
}
