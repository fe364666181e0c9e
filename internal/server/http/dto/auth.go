package dto

// RegisterRequest describes the account creation payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest describes the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse returns the session token. The same token is also set as a
// cookie for browser clients.
type AuthResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}
