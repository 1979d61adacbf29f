package viewmodels

import (
	"github.com/cams7/cadferias/pkg/crud"
	"github.com/cams7/cadferias/pkg/hateoas"
)

type Employee struct {
	ID                   int64              `json:"id"`
	EmployeeRegistration string             `json:"employeeRegistration"`
	Name                 string             `json:"name"`
	BirthDate            string             `json:"birthDate"`
	HiringDate           string             `json:"hiringDate"`
	PhoneNumber          string             `json:"phoneNumber"`
	StaffName            string             `json:"staffName,omitempty"`
	City                 string             `json:"city"`
	State                string             `json:"state"`
	PhotoURL             string             `json:"photoUrl"`
	Details              hateoas.Affordance `json:"details"`
	Edit                 hateoas.Affordance `json:"edit"`
	Delete               hateoas.Affordance `json:"delete"`
}

type Vacation struct {
	ID           int64              `json:"id"`
	EmployeeName string             `json:"employeeName"`
	StartDate    string             `json:"startDate"`
	EndDate      string             `json:"endDate"`
	Days         int                `json:"days"`
	Details      hateoas.Affordance `json:"details"`
	Delete       hateoas.Affordance `json:"delete"`
}

// ListPage is one rendered page of a list with its sort state.
type ListPage[T any] struct {
	Search        string           `json:"search"`
	Sort          []crud.SortField `json:"sort"`
	SortFields    []string         `json:"sortFields"`
	Items         []*T             `json:"items"`
	Number        int              `json:"number"`
	Size          int              `json:"size"`
	TotalElements int64            `json:"totalElements"`
	TotalPages    int              `json:"totalPages"`
	First         bool             `json:"first"`
	Last          bool             `json:"last"`
}

type LookupResult struct {
	Field string `json:"field"`
	Query string `json:"query,omitempty"`
	Items any    `json:"items"`
	Seed  bool   `json:"seed,omitempty"`
}

type EmployeeForm struct {
	ID              string                  `json:"id"`
	URL             string                  `json:"url"`
	Draft           any                     `json:"draft"`
	PhotoURL        string                  `json:"photoUrl"`
	Persisted       bool                    `json:"persisted"`
	Submitted       bool                    `json:"submitted"`
	Modified        bool                    `json:"modified"`
	Classes         map[string]string       `json:"classes,omitempty"`
	Errors          map[string]string       `json:"errors,omitempty"`
	SubmitTooltip   string                  `json:"submitTooltip"`
	Search          hateoas.Affordance      `json:"search"`
	Details         hateoas.Affordance      `json:"details"`
	Update          hateoas.Affordance      `json:"update"`
	ShowDetailsLink bool                    `json:"showDetailsLink"`
	Lookups         map[string]LookupResult `json:"lookups,omitempty"`
	Changes         any                     `json:"changes,omitempty"`
}
