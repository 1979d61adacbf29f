package address

import "context"

type Repository interface {
	AllStates(ctx context.Context) ([]StateVO, error)
	AllCities(ctx context.Context) ([]CityVO, error)
}
