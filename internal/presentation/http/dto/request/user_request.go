package request

// CreateUserRequest represents a user creation request
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Name     string `json:"name" binding:"required,min=2,max=255"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=admin kasir"`
}

// UpdateUserRequest represents a user update request
type UpdateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=2,max=255"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin kasir"`
	Active   *bool   `json:"active"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}
