package employee

import (
	"github.com/cams7/cadferias/modules/hrm/domain/entities/staff"
	"github.com/cams7/cadferias/modules/hrm/domain/entities/user"
	"github.com/cams7/cadferias/pkg/hateoas"
	"github.com/cams7/cadferias/pkg/shared"
)

type Address struct {
	Street       string `json:"street,omitempty"`
	HouseNumber  int    `json:"houseNumber,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
}

type Employee struct {
	EntityID             int64         `json:"entityId,omitempty"`
	User                 *user.User    `json:"user,omitempty"`
	Staff                *staff.Staff  `json:"staff,omitempty"`
	HiringDate           shared.Date   `json:"hiringDate"`
	EmployeeRegistration string        `json:"employeeRegistration,omitempty"`
	Name                 string        `json:"name,omitempty"`
	BirthDate            shared.Date   `json:"birthDate"`
	PhoneNumber          string        `json:"phoneNumber,omitempty"`
	Address              Address       `json:"address"`
	Photos               []Photo       `json:"photos,omitempty"`
	Links                hateoas.Links `json:"_links,omitempty"`
}

func ID(e Employee) int64 {
	return e.EntityID
}

func Links(e Employee) hateoas.Links {
	return e.Links
}

func (e Employee) Persisted() bool {
	return e.EntityID != 0
}

// Photo returns the first stored photo; the UI keeps at most one.
func (e Employee) Photo() (Photo, bool) {
	if len(e.Photos) == 0 {
		return Photo{}, false
	}
	return e.Photos[0], true
}

func (e Employee) UserID() int64 {
	if e.User == nil {
		return 0
	}
	return e.User.EntityID
}

func (e Employee) StaffID() int64 {
	if e.Staff == nil {
		return 0
	}
	return e.Staff.EntityID
}
