package data

import (
	"encoding/json"
	"time"
)

const (
	DepartmentIT         string = "IT"
	DepartmentHR         string = "HR"
	DepartmentFinance    string = "Finance"
	DepartmentSales      string = "Sales"
	DepartmentMarketing  string = "Marketing"
	DepartmentOperations string = "Operations"
)

const (
	StatusActive   string = "Active"
	StatusInactive string = "Inactive"
	StatusOnLeave  string = "On Leave"
)

// DateFormat is the calendar date layout of Employee.HireDate
const DateFormat string = "2006-01-02"

var (
	Departments = []string{DepartmentIT, DepartmentHR, DepartmentFinance,
		DepartmentSales, DepartmentMarketing, DepartmentOperations}
	Statuses = []string{StatusActive, StatusInactive, StatusOnLeave}
)

type Employee struct {
	Id          *int64  `json:"id,omitempty"` //assigned by the backend on create
	FirstName   string  `json:"firstName" validate:"required"`
	LastName    string  `json:"lastName" validate:"required"`
	Email       string  `json:"email" validate:"required,employee_email"`
	PhoneNumber string  `json:"phoneNumber" validate:"required,employee_phone"`
	Department  string  `json:"department" validate:"required,employee_department"`
	Position    string  `json:"position" validate:"required"`
	HireDate    string  `json:"hireDate" validate:"required"`
	Salary      float64 `json:"salary" validate:"required,gt=0"`
	Address     string  `json:"address,omitempty"`
	Status      string  `json:"status" validate:"employee_status"`
}

// NewEmployee returns the blank employee a create form starts from: it's
// active and hired on the (local) calendar day of now.
func NewEmployee(now time.Time) Employee {
	return Employee{
		Status:   StatusActive,
		HireDate: now.Local().Format(DateFormat),
	}
}

// EmpNo returns the identifier or zero if the employee hasn't been persisted
func (e *Employee) EmpNo() int64 {
	if e == nil || e.Id == nil {
		return 0
	}
	return *e.Id
}

func (e *Employee) MarshalBinary() ([]byte, error) {
	return json.Marshal(e)
}

func (e *Employee) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, e)
}

func CopyEmployee(e *Employee) *Employee {
	employee := &Employee{}
	*employee = *e
	if e.Id != nil {
		id := *e.Id
		employee.Id = &id
	}
	return employee
}

func IsDepartment(department string) bool {
	for _, d := range Departments {
		if d == department {
			return true
		}
	}
	return false
}

func IsStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}
