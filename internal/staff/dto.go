package staff

import "github.com/pbertoldo/workshop-backend/pkg/enums"

// CreateStaffInput registers an employee with login credentials.
type CreateStaffInput struct {
	Name     string          `json:"name" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Role     enums.StaffRole `json:"role" validate:"required"`
	Password string          `json:"password" validate:"required,min=8"`
}

// UpdateStaffInput carries optional profile and role updates.
type UpdateStaffInput struct {
	Name   *string          `json:"name,omitempty"`
	Role   *enums.StaffRole `json:"role,omitempty"`
	Active *bool            `json:"active,omitempty"`
}
