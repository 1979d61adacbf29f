package employee

import (
	"github.com/cams7/cadferias/modules/hrm/domain/entities/staff"
	"github.com/cams7/cadferias/modules/hrm/domain/entities/user"
)

type AddressFilter struct {
	Street       string `json:"street,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
}

type Filter struct {
	EmployeeRegistration string         `json:"employeeRegistration,omitempty"`
	Name                 string         `json:"name,omitempty"`
	PhoneNumber          string         `json:"phoneNumber,omitempty"`
	Address              *AddressFilter `json:"address,omitempty"`
	User                 *user.Filter   `json:"user,omitempty"`
	Staff                *staff.Filter  `json:"staff,omitempty"`
}

// SortFields in the order the list shows them.
var SortFields = []string{"name", "birthDate", "hiringDate", "employeeRegistration", "staff.name"}

// FilterBySearch matches free text against registration, name and staff name.
func FilterBySearch(search string) Filter {
	if search == "" {
		return Filter{}
	}
	return Filter{
		EmployeeRegistration: search,
		Name:                 search,
		Staff:                &staff.Filter{Name: search},
	}
}

func SearchByFilter(f Filter) string {
	return f.Name
}
