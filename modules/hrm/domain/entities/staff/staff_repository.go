package staff

import "context"

type Repository interface {
	// FindByName returns the staffs whose names start with name.
	FindByName(ctx context.Context, name string) ([]Staff, error)
}
