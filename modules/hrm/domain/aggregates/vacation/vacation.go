package vacation

import (
	"github.com/cams7/cadferias/modules/hrm/domain/aggregates/employee"
	"github.com/cams7/cadferias/pkg/hateoas"
	"github.com/cams7/cadferias/pkg/shared"
)

type Vacation struct {
	EntityID  int64              `json:"entityId,omitempty"`
	Employee  *employee.Employee `json:"employee,omitempty"`
	StartDate shared.Date        `json:"startDate"`
	EndDate   shared.Date        `json:"endDate"`
	Links     hateoas.Links      `json:"_links,omitempty"`
}

func ID(v Vacation) int64 {
	return v.EntityID
}

// EmployeeName is empty when the backend did not embed the employee.
func (v Vacation) EmployeeName() string {
	if v.Employee == nil {
		return ""
	}
	return v.Employee.Name
}

// Days counts both ends.
func (v Vacation) Days() int {
	if v.StartDate.IsZero() || v.EndDate.IsZero() {
		return 0
	}
	return int(v.EndDate.Time().Sub(v.StartDate.Time()).Hours()/24) + 1
}

type Filter struct {
	Employee *employee.Filter `json:"employee,omitempty"`
}

var SortFields = []string{"startDate", "endDate", "employee.name"}

// FilterBySearch matches free text against the employee name.
func FilterBySearch(search string) Filter {
	if search == "" {
		return Filter{}
	}
	return Filter{Employee: &employee.Filter{Name: search}}
}

func SearchByFilter(f Filter) string {
	if f.Employee == nil {
		return ""
	}
	return f.Employee.Name
}
