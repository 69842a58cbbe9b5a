package models

// AuthUser is the subset of the CMS user entity this service cares about.
type AuthUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginResult carries the CMS-issued JWT plus the authenticated user.
type LoginResult struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}
