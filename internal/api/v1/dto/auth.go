package dto

// LoginRequestDTO is used for incoming sign-in requests
type LoginRequestDTO struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponseDTO carries the bearer token for later requests
type LoginResponseDTO struct {
	Token string         `json:"token"`
	User  SessionUserDTO `json:"user"`
}

// SessionUserDTO describes the signed-in user without credentials
type SessionUserDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
