package services

import (
	"context"

	"github.com/cams7/cadferias/modules/hrm/domain/aggregates/vacation"
	"github.com/cams7/cadferias/pkg/crud"
)

type VacationService struct {
	repo vacation.Repository
}

func NewVacationService(repo vacation.Repository) *VacationService {
	return &VacationService{repo: repo}
}

func (s *VacationService) Search(ctx context.Context, query crud.SearchQuery[vacation.Filter]) (crud.Page[vacation.Vacation], error) {
	return s.repo.Search(ctx, query)
}

func (s *VacationService) Remove(ctx context.Context, id int64) error {
	return s.repo.Remove(ctx, id)
}
