package dto

// LoginRequest is the JSON body for POST /auth/signin.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignupRequest is the JSON body for POST /auth/signup. Roles carries
// informal role hints ("admin", "mod", "user") that the server maps to
// canonical ROLE_* labels; empty means plain user.
type SignupRequest struct {
	Username string   `json:"username" binding:"required,min=3,max=20"`
	Email    string   `json:"email" binding:"required,email,max=50"`
	Password string   `json:"password" binding:"required,min=6,max=40"`
	Roles    []string `json:"roles"`
}

// JwtResponse is returned by POST /auth/signin. The credential is carried
// under the canonical accessToken name only.
type JwtResponse struct {
	AccessToken string   `json:"accessToken"`
	TokenType   string   `json:"tokenType"`
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
}

// MessageResponse is the generic `{message}` body used for signup results
// and error payloads.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse is returned when user info is needed (e.g. GET /users/me).
type UserResponse struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// UpdateUserRequest is the JSON body for PUT /users/me.
type UpdateUserRequest struct {
	Email string `json:"email" binding:"required,email,max=50"`
}

// ChangePasswordRequest is the JSON body for PUT /users/me/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6,max=40"`
}

// ListUsersResponse wraps the admin user listing.
type ListUsersResponse struct {
	Items []UserResponse `json:"items"`
}
