package hrm

import (
	"github.com/cams7/cadferias/pkg/types"
)

var EmployeesLink = types.NavigationItem{
	Name:         "NavigationLinks.Employees",
	Href:         "/hrm/employees",
	RequiresAuth: true,
}

var VacationsLink = types.NavigationItem{
	Name:         "NavigationLinks.Vacations",
	Href:         "/hrm/vacations",
	RequiresAuth: true,
}

var HRMLink = types.NavigationItem{
	Name:         "NavigationLinks.HRM",
	Href:         "/hrm",
	RequiresAuth: true,
	Children: []types.NavigationItem{
		EmployeesLink,
		VacationsLink,
	},
}

var NavItems = []types.NavigationItem{
	HRMLink,
}
