package vacation

import (
	"context"

	"github.com/cams7/cadferias/pkg/crud"
)

type Repository interface {
	Remove(ctx context.Context, id int64) error
	Search(ctx context.Context, query crud.SearchQuery[Filter]) (crud.Page[Vacation], error)
}
