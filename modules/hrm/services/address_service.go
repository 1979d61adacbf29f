package services

import (
	"context"

	"github.com/cams7/cadferias/modules/hrm/domain/value_objects/address"
)

// AddressService serves the state and city reference data. Callers wrap the
// two getters in lookup.Cached to fetch them once per form.
type AddressService struct {
	repo address.Repository
}

func NewAddressService(repo address.Repository) *AddressService {
	return &AddressService{repo: repo}
}

func (s *AddressService) States(ctx context.Context) ([]address.StateVO, error) {
	return s.repo.AllStates(ctx)
}

func (s *AddressService) Cities(ctx context.Context) ([]address.CityVO, error) {
	return s.repo.AllCities(ctx)
}
