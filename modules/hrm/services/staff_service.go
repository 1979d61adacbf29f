package services

import (
	"context"

	"github.com/cams7/cadferias/modules/hrm/domain/entities/staff"
)

type StaffService struct {
	repo staff.Repository
}

func NewStaffService(repo staff.Repository) *StaffService {
	return &StaffService{repo: repo}
}

func (s *StaffService) FindByName(ctx context.Context, name string) ([]staff.Staff, error) {
	return s.repo.FindByName(ctx, name)
}
