package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pbertoldo/workshop-backend/pkg/db/models"
	pkgerrors "github.com/pbertoldo/workshop-backend/pkg/errors"
	"github.com/pbertoldo/workshop-backend/pkg/pagination"
)

// Service defines customer and vehicle operations.
type Service interface {
	Create(ctx context.Context, input CreateCustomerInput) (*models.Customer, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Search(ctx context.Context, query string, params pagination.Params) ([]models.Customer, string, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*models.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddVehicle(ctx context.Context, input CreateVehicleInput) (*models.Vehicle, error)
	ListVehicles(ctx context.Context, customerID uuid.UUID) ([]models.Vehicle, error)
	UpdateVehicle(ctx context.Context, customerID, vehicleID uuid.UUID, input UpdateVehicleInput) (*models.Vehicle, error)
	RemoveVehicle(ctx context.Context, customerID, vehicleID uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService wires a customers service with the required repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateCustomerInput) (*models.Customer, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}

	customer, err := s.repo.Create(ctx, &models.Customer{
		Name:     input.Name,
		Document: input.Document,
		Phone:    input.Phone,
		Email:    input.Email,
		Address:  input.Address,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}
	return customer, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}

func (s *service) Search(ctx context.Context, query string, params pagination.Params) ([]models.Customer, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	customers, err := s.repo.Search(ctx, query, cursor, params.Limit)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search customers")
	}

	customers, more := pagination.TrimPage(customers, params.Limit)
	next := ""
	if more {
		last := customers[len(customers)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return customers, next, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*models.Customer, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		updates["name"] = *input.Name
	}
	if input.Document != nil {
		updates["document"] = *input.Document
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete customer")
	}
	return nil
}

func (s *service) AddVehicle(ctx context.Context, input CreateVehicleInput) (*models.Vehicle, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if input.Plate == "" || input.Make == "" || input.Model == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plate, make and model required")
	}

	if _, err := s.Get(ctx, input.CustomerID); err != nil {
		return nil, err
	}

	vehicle, err := s.repo.CreateVehicle(ctx, &models.Vehicle{
		CustomerID: input.CustomerID,
		Plate:      input.Plate,
		Make:       input.Make,
		Model:      input.Model,
		Year:       input.Year,
		Color:      input.Color,
		Odometer:   input.Odometer,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vehicle")
	}
	return vehicle, nil
}

func (s *service) ListVehicles(ctx context.Context, customerID uuid.UUID) ([]models.Vehicle, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	vehicles, err := s.repo.ListVehicles(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vehicles")
	}
	return vehicles, nil
}

func (s *service) UpdateVehicle(ctx context.Context, customerID, vehicleID uuid.UUID, input UpdateVehicleInput) (*models.Vehicle, error) {
	vehicle, err := s.loadVehicle(ctx, customerID, vehicleID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Plate != nil {
		if *input.Plate == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "plate cannot be empty")
		}
		updates["plate"] = *input.Plate
	}
	if input.Make != nil {
		updates["make"] = *input.Make
	}
	if input.Model != nil {
		updates["model"] = *input.Model
	}
	if input.Year != nil {
		updates["year"] = *input.Year
	}
	if input.Color != nil {
		updates["color"] = *input.Color
	}
	if input.Odometer != nil {
		if *input.Odometer < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "odometer cannot be negative")
		}
		updates["odometer"] = *input.Odometer
	}
	if len(updates) == 0 {
		return vehicle, nil
	}

	if err := s.repo.UpdateVehicle(ctx, vehicle.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vehicle")
	}
	return s.loadVehicle(ctx, customerID, vehicleID)
}

func (s *service) RemoveVehicle(ctx context.Context, customerID, vehicleID uuid.UUID) error {
	vehicle, err := s.loadVehicle(ctx, customerID, vehicleID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteVehicle(ctx, vehicle.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete vehicle")
	}
	return nil
}

func (s *service) loadVehicle(ctx context.Context, customerID, vehicleID uuid.UUID) (*models.Vehicle, error) {
	if customerID == uuid.Nil || vehicleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id and vehicle id required")
	}
	vehicle, err := s.repo.FindVehicle(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
	}
	if vehicle.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
	}
	return vehicle, nil
}
