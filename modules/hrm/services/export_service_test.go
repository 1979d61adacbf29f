package services_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cams7/cadferias/modules/hrm/domain/aggregates/employee"
	"github.com/cams7/cadferias/modules/hrm/domain/entities/staff"
	"github.com/cams7/cadferias/modules/hrm/services"
	"github.com/cams7/cadferias/pkg/crud"
	"github.com/cams7/cadferias/pkg/eventbus"
	"github.com/cams7/cadferias/pkg/shared"
)

func TestExportService_WritesEveryPage(t *testing.T) {
	seed := make([]employee.Employee, 0, 130)
	for i := 1; i <= 130; i++ {
		seed = append(seed, employee.Employee{
			EntityID:             int64(i),
			EmployeeRegistration: fmt.Sprintf("R%04d", i),
			Name:                 fmt.Sprintf("Employee %d", i),
			BirthDate:            shared.NewDate(1990, 5, 17),
			Staff:                &staff.Staff{EntityID: 1, Name: "RH"},
			Address:              employee.Address{City: "Belo Horizonte", State: "MG"},
		})
	}
	employees := services.NewEmployeeService(newMemoryEmployees(seed...), eventbus.NewEventPublisher(nil))
	svc := services.NewExportService(employees)

	var buf bytes.Buffer
	n, err := svc.ExportEmployees(context.Background(), &buf, crud.SearchQuery[employee.Filter]{Page: 3, Size: 5})
	require.NoError(t, err)
	assert.Equal(t, 130, n)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Employees")
	require.NoError(t, err)
	require.Len(t, rows, 131)
	assert.Equal(t, "Employees.Export.Name", rows[0][1])
	assert.Equal(t, []string{"R0001", "Employee 1", "17/05/1990", "", "", "RH", "Belo Horizonte", "MG"}, rows[1])
}
