package customers

import "github.com/google/uuid"

// CreateCustomerInput captures the fields required to register a customer.
type CreateCustomerInput struct {
	Name     string  `json:"name" validate:"required"`
	Document *string `json:"document,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Address  *string `json:"address,omitempty"`
}

// UpdateCustomerInput carries optional profile updates.
type UpdateCustomerInput struct {
	Name     *string `json:"name,omitempty"`
	Document *string `json:"document,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Address  *string `json:"address,omitempty"`
}

// CreateVehicleInput registers a vehicle under a customer.
type CreateVehicleInput struct {
	CustomerID uuid.UUID `json:"-"`
	Plate      string    `json:"plate" validate:"required"`
	Make       string    `json:"make" validate:"required"`
	Model      string    `json:"model" validate:"required"`
	Year       *int      `json:"year,omitempty"`
	Color      *string   `json:"color,omitempty"`
	Odometer   *int      `json:"odometer,omitempty" validate:"omitempty,gte=0"`
}

// UpdateVehicleInput carries optional vehicle updates.
type UpdateVehicleInput struct {
	Plate    *string `json:"plate,omitempty"`
	Make     *string `json:"make,omitempty"`
	Model    *string `json:"model,omitempty"`
	Year     *int    `json:"year,omitempty"`
	Color    *string `json:"color,omitempty"`
	Odometer *int    `json:"odometer,omitempty" validate:"omitempty,gte=0"`
}
