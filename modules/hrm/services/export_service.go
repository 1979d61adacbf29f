package services

import (
	"context"
	"io"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/cams7/cadferias/modules/hrm/domain/aggregates/employee"
	"github.com/cams7/cadferias/pkg/crud"
	"github.com/cams7/cadferias/pkg/intl"
)

const (
	employeeSheet  = "Employees"
	exportPageSize = 100
	// maxExportPages bounds a runaway export.
	maxExportPages = 500
)

var employeeColumns = []string{
	"Employees.Export.Registration",
	"Employees.Export.Name",
	"Employees.Export.BirthDate",
	"Employees.Export.HiringDate",
	"Employees.Export.Phone",
	"Employees.Export.Staff",
	"Employees.Export.City",
	"Employees.Export.State",
}

type ExportService struct {
	employees *EmployeeService
}

func NewExportService(employees *EmployeeService) *ExportService {
	return &ExportService{employees: employees}
}

// ExportEmployees writes every employee matching query, page by page, as an
// XLSX workbook. Page and size of query are ignored.
func (s *ExportService) ExportEmployees(ctx context.Context, w io.Writer, query crud.SearchQuery[employee.Filter]) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", employeeSheet); err != nil {
		return 0, errors.Wrap(err, "name sheet")
	}

	header := make([]interface{}, len(employeeColumns))
	for i, id := range employeeColumns {
		header[i] = intl.Localize(ctx, id, nil)
	}
	if err := f.SetSheetRow(employeeSheet, "A1", &header); err != nil {
		return 0, errors.Wrap(err, "write header")
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return 0, errors.Wrap(err, "create header style")
	}
	lastCol, err := excelize.ColumnNumberToName(len(employeeColumns))
	if err != nil {
		return 0, err
	}
	if err := f.SetCellStyle(employeeSheet, "A1", lastCol+"1", bold); err != nil {
		return 0, errors.Wrap(err, "style header")
	}
	if err := f.SetColWidth(employeeSheet, "A", lastCol, 22); err != nil {
		return 0, errors.Wrap(err, "size columns")
	}

	row := 2
	query.Size = exportPageSize
	for query.Page = 0; query.Page < maxExportPages; query.Page++ {
		page, err := s.employees.Search(ctx, query)
		if err != nil {
			return 0, errors.Wrapf(err, "fetch page %d", query.Page)
		}
		for _, e := range page.Items {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return 0, err
			}
			values := employeeRow(e)
			if err := f.SetSheetRow(employeeSheet, cell, &values); err != nil {
				return 0, errors.Wrapf(err, "write row %d", row)
			}
			row++
		}
		if page.Empty() || page.Last() {
			break
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return 0, errors.Wrap(err, "write workbook")
	}
	return row - 2, nil
}

func employeeRow(e employee.Employee) []interface{} {
	staffName := ""
	if e.Staff != nil {
		staffName = e.Staff.Name
	}
	return []interface{}{
		e.EmployeeRegistration,
		e.Name,
		e.BirthDate.String(),
		e.HiringDate.String(),
		e.PhoneNumber,
		staffName,
		e.Address.City,
		e.Address.State,
	}
}
