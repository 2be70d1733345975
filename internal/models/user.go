package models

import "time"

// User is the client-local profile record.
type User struct {
	Name         string    `json:"name"`
	Email        string    `json:"email" validate:"required,email"`
	Phone        string    `json:"phone,omitempty" validate:"omitempty,ng_phone"`
	Address      string    `json:"address,omitempty" validate:"omitempty,max=300"`
	ProfileImage string    `json:"profileImage,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}

// Session simulates an authenticated login. It is never checked against a
// server; only ExpiresAt and the token signature matter.
type Session struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// PendingVerification is written by sign-up until the email is verified.
type PendingVerification struct {
	Name         string    `json:"name,omitempty"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
	IsVerified   bool      `json:"isVerified"`
}

// SignUpRequest represents the request body for sign-up.
type SignUpRequest struct {
	Name            string `json:"name" validate:"omitempty,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required,ng_phone"`
	Password        string `json:"password" validate:"required,strong_password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Agreed          bool   `json:"agreed" validate:"required"`
}

// SignInRequest represents the request body for sign-in.
type SignInRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

// PasswordStrength reports which password checks pass.
type PasswordStrength struct {
	Length    bool   `json:"length"`
	Uppercase bool   `json:"uppercase"`
	Lowercase bool   `json:"lowercase"`
	Number    bool   `json:"number"`
	Special   bool   `json:"special"`
	Score     int    `json:"score"`
	Label     string `json:"label"`
}
