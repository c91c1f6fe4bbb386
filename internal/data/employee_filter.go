package data

import "strings"

// DepartmentAll is the department selection that doesn't narrow the list
const DepartmentAll string = "all"

// EmployeeFilter narrows an already fetched list of employees without going
// back to the backend.
type EmployeeFilter struct {
	Department string `json:"department"`
	Term       string `json:"term"`
}

func (f EmployeeFilter) allDepartments() bool {
	return f.Department == "" || strings.EqualFold(f.Department, DepartmentAll)
}

// Match returns true if the employee is in the selected department (if any)
// and the term is found, ignoring case, in its first name, last name, email
// or department.
func (f EmployeeFilter) Match(employee *Employee) bool {
	if employee == nil {
		return false
	}
	if !f.allDepartments() && employee.Department != f.Department {
		return false
	}
	term := strings.ToLower(f.Term)
	for _, value := range []string{
		employee.FirstName,
		employee.LastName,
		employee.Email,
		employee.Department,
	} {
		if strings.Contains(strings.ToLower(value), term) {
			return true
		}
	}
	return false
}

// Apply returns the employees that match, preserving their order; the
// employees themselves aren't copied.
func (f EmployeeFilter) Apply(employees []*Employee) []*Employee {
	filtered := make([]*Employee, 0, len(employees))
	for _, employee := range employees {
		if f.Match(employee) {
			filtered = append(filtered, employee)
		}
	}
	return filtered
}
