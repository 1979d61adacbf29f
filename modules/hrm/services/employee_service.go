package services

import (
	"context"

	"github.com/cams7/cadferias/modules/hrm/domain/aggregates/employee"
	"github.com/cams7/cadferias/pkg/crud"
	"github.com/cams7/cadferias/pkg/eventbus"
)

type EmployeeService struct {
	repo      employee.Repository
	publisher eventbus.EventBus
}

func NewEmployeeService(repo employee.Repository, publisher eventbus.EventBus) *EmployeeService {
	return &EmployeeService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *EmployeeService) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *EmployeeService) Search(ctx context.Context, query crud.SearchQuery[employee.Filter]) (crud.Page[employee.Employee], error) {
	return s.repo.Search(ctx, query)
}

func (s *EmployeeService) Save(ctx context.Context, data employee.Employee) (employee.Employee, error) {
	saved, err := s.repo.Save(ctx, data)
	if err != nil {
		return employee.Employee{}, err
	}
	if data.Persisted() {
		s.publisher.Publish(employee.NewUpdatedEvent(ctx, saved))
	} else {
		s.publisher.Publish(employee.NewCreatedEvent(ctx, saved))
	}
	return saved, nil
}

func (s *EmployeeService) Remove(ctx context.Context, e employee.Employee) error {
	if err := s.repo.Remove(ctx, e.EntityID); err != nil {
		return err
	}
	s.publisher.Publish(employee.NewDeletedEvent(ctx, e.EntityID, e.Name))
	return nil
}
