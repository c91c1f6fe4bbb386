package export_test

import (
	"bytes"
	"testing"

	"github.com/antonio-alexander/go-employee-records/internal/data"
	"github.com/antonio-alexander/go-employee-records/internal/export"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

func TestEmployeesXlsx(t *testing.T) {
	id1, id2 := int64(1), int64(2)
	employees := []*data.Employee{
		{
			Id:          &id1,
			FirstName:   "John",
			LastName:    "Smith",
			Email:       "john.smith@example.com",
			PhoneNumber: "1234567890",
			Department:  data.DepartmentIT,
			Position:    "Engineer",
			HireDate:    "2020-01-15",
			Salary:      75000,
			Address:     "1 Main St",
			Status:      data.StatusActive,
		},
		nil,
		{
			Id:          &id2,
			FirstName:   "Jane",
			LastName:    "Doe",
			Email:       "jane.doe@example.com",
			PhoneNumber: "0987654321",
			Department:  data.DepartmentHR,
			Position:    "Recruiter",
			HireDate:    "2019-06-01",
			Salary:      52000,
			Status:      data.StatusOnLeave,
		},
	}

	buffer := &bytes.Buffer{}
	err := export.EmployeesXlsx(buffer, employees)
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to export employees")
	}
	f, err := excelize.OpenReader(buffer)
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to read workbook")
	}
	defer f.Close()
	assert.Equal(t, []string{export.SheetEmployees}, f.GetSheetList())
	rows, err := f.GetRows(export.SheetEmployees)
	assert.Nil(t, err)
	if assert.Len(t, rows, 3) {
		assert.Equal(t, []string{"ID", "First Name", "Last Name", "Email",
			"Phone Number", "Department", "Position", "Hire Date", "Salary",
			"Address", "Status"}, rows[0])
		assert.Equal(t, []string{"1", "John", "Smith", "john.smith@example.com",
			"1234567890", "IT", "Engineer", "2020-01-15", "75000",
			"1 Main St", "Active"}, rows[1])
		assert.Equal(t, []string{"2", "Jane", "Doe", "jane.doe@example.com",
			"0987654321", "HR", "Recruiter", "2019-06-01", "52000",
			"", "On Leave"}, rows[2])
	}
}

func TestEmployeesXlsxEmpty(t *testing.T) {
	buffer := &bytes.Buffer{}
	err := export.EmployeesXlsx(buffer, nil)
	assert.Nil(t, err)
	f, err := excelize.OpenReader(buffer)
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to read workbook")
	}
	defer f.Close()
	rows, err := f.GetRows(export.SheetEmployees)
	assert.Nil(t, err)
	assert.Len(t, rows, 1)
}
