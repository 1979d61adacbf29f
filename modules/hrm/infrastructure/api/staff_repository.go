package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-faster/errors"

	"github.com/cams7/cadferias/modules/hrm/domain/entities/staff"
)

type StaffRepository struct {
	client *Client
}

func NewStaffRepository(client *Client) staff.Repository {
	return &StaffRepository{client: client}
}

func (r *StaffRepository) FindByName(ctx context.Context, name string) ([]staff.Staff, error) {
	var staffs []staff.Staff
	query := url.Values{"name": {name}}
	if err := r.client.Do(ctx, "staffs.by_name", http.MethodGet, "/staffs/name", query, nil, &staffs); err != nil {
		return nil, errors.Wrap(err, "find staffs by name")
	}
	return staffs, nil
}
