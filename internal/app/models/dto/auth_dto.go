package dto

import "time"

// LoginRequest represents admin credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminResponse is the identity exposed to the dashboard
type AdminResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// SessionResponse is returned by login and session checks
type SessionResponse struct {
	Admin     AdminResponse `json:"admin"`
	ExpiresAt time.Time     `json:"expiresAt"`
	Token     string        `json:"token,omitempty"`
}
