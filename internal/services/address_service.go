package services

import (
	"context"
	"strings"

	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	"github.com/VedantNarayan/champaran-meat-house/internal/repository"
)

type AddressService interface {
	List(ctx context.Context, userID string) ([]models.UserAddress, error)
	Create(ctx context.Context, address *models.UserAddress) error
	// SaveIfNew stores the delivery address unless the user already has one with the same
	// street and city. It reports whether a row was written.
	SaveIfNew(ctx context.Context, userID string, addr models.DeliveryAddress) (bool, error)
	// Delete removes one of the user's addresses. Other users' addresses are reported as not found.
	Delete(ctx context.Context, userID string, id uint) error
}

type addressService struct {
	addressRepo repository.AddressRepository
}

func NewAddressService(addressRepo repository.AddressRepository) AddressService {
	return &addressService{addressRepo: addressRepo}
}

func (s *addressService) List(ctx context.Context, userID string) ([]models.UserAddress, error) {
	return s.addressRepo.GetByUserID(ctx, userID)
}

func (s *addressService) Create(ctx context.Context, address *models.UserAddress) error {
	return s.addressRepo.Create(ctx, address)
}

func (s *addressService) Delete(ctx context.Context, userID string, id uint) error {
	return s.addressRepo.Delete(ctx, userID, id)
}

func (s *addressService) SaveIfNew(ctx context.Context, userID string, addr models.DeliveryAddress) (bool, error) {
	street := strings.TrimSpace(addr.Street)
	city := strings.TrimSpace(addr.City)
	if street == "" || city == "" {
		return false, nil
	}

	exists, err := s.addressRepo.Exists(ctx, userID, street, city)
	if err != nil || exists {
		return false, err
	}

	err = s.addressRepo.Create(ctx, &models.UserAddress{
		UserID:      userID,
		FullName:    addr.FullName,
		PhoneNumber: addr.Phone,
		Street:      street,
		City:        city,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
