package addresses

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tigraytip/storefront-backend/pkg/db/models"
	pkgerrors "github.com/tigraytip/storefront-backend/pkg/errors"
)

type repository interface {
	Create(ctx context.Context, address *models.Address) error
	FindByID(ctx context.Context, id uuid.UUID) (models.Address, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (models.Address, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) error
}

// ServiceParams groups dependencies for the addresses service.
type ServiceParams struct {
	Repo repository
}

// Service exposes saved delivery address management.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error)
	Create(ctx context.Context, input SaveAddressInput) (AddressDTO, error)
	Update(ctx context.Context, input SaveAddressInput) (AddressDTO, error)
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) error
}

type service struct {
	repo repository
}

// NewService builds an addresses service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address repo is required")
	}
	return &service{repo: params.Repo}, nil
}

// List returns the user's saved addresses, default first.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	items := make([]AddressDTO, 0, len(records))
	for _, record := range records {
		items = append(items, toDTO(record))
	}
	return items, nil
}

// Create saves a new address, promoting it to default when requested or when
// it is the user's first.
func (s *service) Create(ctx context.Context, input SaveAddressInput) (AddressDTO, error) {
	if err := validateInput(input); err != nil {
		return AddressDTO{}, err
	}

	existing, err := s.repo.ListByUser(ctx, input.UserID)
	if err != nil {
		return AddressDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}

	record := models.Address{
		UserID:     input.UserID,
		FullName:   strings.TrimSpace(input.FullName),
		Phone:      strings.TrimSpace(input.Phone),
		Line1:      strings.TrimSpace(input.Line1),
		Line2:      input.Line2,
		City:       strings.TrimSpace(input.City),
		Province:   strings.TrimSpace(input.Province),
		PostalCode: strings.TrimSpace(input.PostalCode),
		IsDefault:  input.IsDefault || len(existing) == 0,
	}
	if err := s.repo.Create(ctx, &record); err != nil {
		return AddressDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
	}
	if record.IsDefault && len(existing) > 0 {
		if err := s.repo.SetDefault(ctx, input.UserID, record.ID); err != nil {
			return AddressDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set default address")
		}
	}
	return toDTO(record), nil
}

// Update edits the caller's own address.
func (s *service) Update(ctx context.Context, input SaveAddressInput) (AddressDTO, error) {
	if input.AddressID == uuid.Nil {
		return AddressDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "address id is required")
	}
	if err := validateInput(input); err != nil {
		return AddressDTO{}, err
	}

	if err := s.ownedBy(ctx, input.UserID, input.AddressID); err != nil {
		return AddressDTO{}, err
	}

	updates := map[string]any{
		"full_name":   strings.TrimSpace(input.FullName),
		"phone":       strings.TrimSpace(input.Phone),
		"line1":       strings.TrimSpace(input.Line1),
		"line2":       input.Line2,
		"city":        strings.TrimSpace(input.City),
		"province":    strings.TrimSpace(input.Province),
		"postal_code": strings.TrimSpace(input.PostalCode),
	}
	record, err := s.repo.Update(ctx, input.AddressID, updates)
	if err != nil {
		return AddressDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update address")
	}
	if input.IsDefault && !record.IsDefault {
		if err := s.repo.SetDefault(ctx, input.UserID, input.AddressID); err != nil {
			return AddressDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set default address")
		}
		record.IsDefault = true
	}
	return toDTO(record), nil
}

// Delete removes the caller's own address.
func (s *service) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	if addressID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "address id is required")
	}
	if err := s.ownedBy(ctx, userID, addressID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, addressID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	return nil
}

// SetDefault marks one of the caller's addresses as the default destination.
func (s *service) SetDefault(ctx context.Context, userID, addressID uuid.UUID) error {
	if userID == uuid.Nil || addressID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and address id are required")
	}
	if err := s.repo.SetDefault(ctx, userID, addressID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "address not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set default address")
	}
	return nil
}

func (s *service) ownedBy(ctx context.Context, userID, addressID uuid.UUID) error {
	existing, err := s.repo.FindByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "address not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	if existing.UserID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "cannot modify another user's address")
	}
	return nil
}

func validateInput(input SaveAddressInput) error {
	if input.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	required := map[string]string{
		"full name":   input.FullName,
		"phone":       input.Phone,
		"line1":       input.Line1,
		"city":        input.City,
		"province":    input.Province,
		"postal code": input.PostalCode,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, field+" is required")
		}
	}
	return nil
}
