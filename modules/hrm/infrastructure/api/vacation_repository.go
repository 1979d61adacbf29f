package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"

	"github.com/cams7/cadferias/modules/hrm/domain/aggregates/vacation"
	"github.com/cams7/cadferias/pkg/crud"
)

const vacationsPath = "/vacations"

type VacationRepository struct {
	client *Client
}

func NewVacationRepository(client *Client) vacation.Repository {
	return &VacationRepository{client: client}
}

func (r *VacationRepository) Remove(ctx context.Context, id int64) error {
	path := vacationsPath + "/" + strconv.FormatInt(id, 10)
	if err := r.client.Do(ctx, "vacations.remove", http.MethodDelete, path, nil, nil, nil); err != nil {
		return errors.Wrapf(err, "remove vacation %d", id)
	}
	return nil
}

func (r *VacationRepository) Search(ctx context.Context, query crud.SearchQuery[vacation.Filter]) (crud.Page[vacation.Vacation], error) {
	var body pageBody[vacation.Vacation]
	if err := r.client.Do(ctx, "vacations.search", http.MethodPost, vacationsPath+"/search", nil, query, &body); err != nil {
		return crud.Page[vacation.Vacation]{}, errors.Wrap(err, "search vacations")
	}
	return body.toPage(), nil
}
