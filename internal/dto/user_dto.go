package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserProfileResponse struct {
	Id            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	Phone         string    `json:"phone,omitempty"`
	Nationality   string    `json:"nationality,omitempty"`
	Role          string    `json:"role"`
	Status        string    `json:"status"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

type UpdateProfileRequest struct {
	FullName    string `json:"full_name" validate:"omitempty,min=3"`
	Phone       string `json:"phone" validate:"omitempty,min=6"`
	Nationality string `json:"nationality" validate:"omitempty,min=2"`
}
