package dto

// UserWriteDTO is used for incoming create and update requests
type UserWriteDTO struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin staff"`
}

// UserResponseDTO is returned to admins managing accounts. Passwords are
// included so the edit form can be pre-filled.
type UserResponseDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}
