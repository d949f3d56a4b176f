package dto

import "time"

type LoginResponse struct {
	AuthorizationURL string `json:"authorization_url"`
}

type MeResponse struct {
	UserEmail string    `json:"user_email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type CallbackQuery struct {
	Code  string `form:"code" binding:"required"`
	State string `form:"state" binding:"required"`
}
