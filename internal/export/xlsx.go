package export

import (
	"io"

	"github.com/antonio-alexander/go-employee-records/internal/data"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const SheetEmployees string = "Employees"

var employeeHeaders = []any{"ID", "First Name", "Last Name", "Email",
	"Phone Number", "Department", "Position", "Hire Date", "Salary",
	"Address", "Status"}

func employeeRow(employee *data.Employee) []any {
	return []any{
		employee.EmpNo(),
		employee.FirstName,
		employee.LastName,
		employee.Email,
		employee.PhoneNumber,
		employee.Department,
		employee.Position,
		employee.HireDate,
		employee.Salary,
		employee.Address,
		employee.Status,
	}
}

// EmployeesXlsx writes a workbook with a single sheet to w, the first row
// holds the column headers and every employee after that gets its own row
// (in the order given)
func EmployeesXlsx(w io.Writer, employees []*data.Employee) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetEmployees); err != nil {
		return errors.Wrap(err, "error while naming sheet")
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetEmployees, "A1", &employeeHeaders); err != nil {
		return errors.Wrap(err, "error while writing header")
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(employeeHeaders), 1)
	if err := f.SetCellStyle(SheetEmployees, "A1", lastHeader, style); err != nil {
		return err
	}
	row := 2
	for _, employee := range employees {
		if employee == nil {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := employeeRow(employee)
		if err := f.SetSheetRow(SheetEmployees, cell, &values); err != nil {
			return errors.Wrapf(err, "error while writing employee %d", employee.EmpNo())
		}
		row++
	}
	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "error while writing workbook")
	}
	return nil
}
