package dto

import "medshare.app/backend/internal/entity"

type RegisterInput struct {
	FullName      string `json:"fullName" binding:"required"`
	Email         string `json:"email" binding:"required"`
	ContactNumber string `json:"contactNumber" binding:"required"`
	Role          string `json:"role" binding:"required,oneof=donor receiver"`
	Address       string `json:"address"`
	Password      string `json:"password" binding:"required"`
	AcceptTerms   bool   `json:"acceptTerms"`
}

type LoginInput struct {
	FullName string `json:"fullName" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=donor receiver"`
}

type AuthResponse struct {
	Message    string       `json:"message"`
	Token      string       `json:"token"`
	TokenType  string       `json:"token_type"`
	ExpiresIn  int64        `json:"expires_in"`
	RedirectTo string       `json:"redirectTo,omitempty"`
	User       *entity.User `json:"user,omitempty"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordInput struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type VerifyPasswordInput struct {
	Password string `json:"password" binding:"required"`
}

type UpdateProfileInput struct {
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	ContactNumber string `json:"contactNumber"`
	Address       string `json:"address"`
	Password      string `json:"password"`
}
