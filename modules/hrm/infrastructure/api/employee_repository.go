package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"

	"github.com/cams7/cadferias/modules/hrm/domain/aggregates/employee"
	"github.com/cams7/cadferias/modules/hrm/domain/value_objects/address"
	"github.com/cams7/cadferias/pkg/crud"
)

const employeesPath = "/employees"

type EmployeeRepository struct {
	client *Client
}

func NewEmployeeRepository(client *Client) *EmployeeRepository {
	return &EmployeeRepository{client: client}
}

var (
	_ employee.Repository = (*EmployeeRepository)(nil)
	_ address.Repository  = (*EmployeeRepository)(nil)
)

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	var e employee.Employee
	path := employeesPath + "/" + strconv.FormatInt(id, 10)
	if err := r.client.Do(ctx, "employees.get", http.MethodGet, path, nil, nil, &e); err != nil {
		return employee.Employee{}, errors.Wrapf(err, "get employee %d", id)
	}
	return e, nil
}

func (r *EmployeeRepository) Save(ctx context.Context, data employee.Employee) (employee.Employee, error) {
	method, operation := http.MethodPost, "employees.create"
	if data.Persisted() {
		method, operation = http.MethodPut, "employees.update"
	}
	data.Links = nil
	var saved employee.Employee
	if err := r.client.Do(ctx, operation, method, employeesPath, nil, data, &saved); err != nil {
		return employee.Employee{}, errors.Wrap(err, "save employee")
	}
	return saved, nil
}

func (r *EmployeeRepository) Remove(ctx context.Context, id int64) error {
	path := employeesPath + "/" + strconv.FormatInt(id, 10)
	if err := r.client.Do(ctx, "employees.remove", http.MethodDelete, path, nil, nil, nil); err != nil {
		return errors.Wrapf(err, "remove employee %d", id)
	}
	return nil
}

func (r *EmployeeRepository) Search(ctx context.Context, query crud.SearchQuery[employee.Filter]) (crud.Page[employee.Employee], error) {
	var body pageBody[employee.Employee]
	if err := r.client.Do(ctx, "employees.search", http.MethodPost, employeesPath+"/search", nil, query, &body); err != nil {
		return crud.Page[employee.Employee]{}, errors.Wrap(err, "search employees")
	}
	return body.toPage(), nil
}

func (r *EmployeeRepository) AllStates(ctx context.Context) ([]address.StateVO, error) {
	var states []address.StateVO
	if err := r.client.Do(ctx, "address.states", http.MethodGet, "/address/states", nil, nil, &states); err != nil {
		return nil, errors.Wrap(err, "list states")
	}
	return states, nil
}

func (r *EmployeeRepository) AllCities(ctx context.Context) ([]address.CityVO, error) {
	var cities []address.CityVO
	if err := r.client.Do(ctx, "address.cities", http.MethodGet, "/address/cities", nil, nil, &cities); err != nil {
		return nil, errors.Wrap(err, "list cities")
	}
	return cities, nil
}
