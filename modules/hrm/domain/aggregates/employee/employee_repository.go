package employee

import (
	"context"

	"github.com/cams7/cadferias/pkg/crud"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (Employee, error)
	// Save creates the employee when it has no id and updates it otherwise.
	Save(ctx context.Context, data Employee) (Employee, error)
	Remove(ctx context.Context, id int64) error
	Search(ctx context.Context, query crud.SearchQuery[Filter]) (crud.Page[Employee], error)
}
