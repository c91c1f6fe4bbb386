package views

import (
	"context"
	"sync"

	"github.com/antonio-alexander/go-employee-records/internal/data"
)

// List shows every employee, narrowed locally by department and a search
// term.
type List struct {
	sync.RWMutex
	view
	state        State
	employees    []*data.Employee
	filtered     []*data.Employee
	filter       data.EmployeeFilter
	errorMessage string
}

func NewList(parameters ...any) *List {
	return &List{
		view:   newView(parameters...),
		filter: data.EmployeeFilter{Department: data.DepartmentAll},
	}
}

// Load replaces the employees with those read from the backend, on failure
// the list is left empty
func (l *List) Load(ctx context.Context) error {
	l.Lock()
	l.state, l.errorMessage = StateLoading, ""
	l.Unlock()

	employees, err := l.client.EmployeesRead(ctx)

	l.Lock()
	defer l.Unlock()

	if err != nil {
		l.logger.Error(ctx, "error while loading employees: %s", err)
		l.state, l.errorMessage = StateErrored, MessageListFailed
		l.employees, l.filtered = nil, nil
		return err
	}
	l.employees = employees
	l.filtered = l.filter.Apply(l.employees)
	l.state = StateLoaded
	return nil
}

func (l *List) SetSearchTerm(term string) {
	l.Lock()
	defer l.Unlock()

	l.filter.Term = term
	l.filtered = l.filter.Apply(l.employees)
}

// SetDepartment narrows the list to a single department, "all" shows
// every department
func (l *List) SetDepartment(department string) {
	l.Lock()
	defer l.Unlock()

	l.filter.Department = department
	l.filtered = l.filter.Apply(l.employees)
}

func (l *List) Filter() data.EmployeeFilter {
	l.RLock()
	defer l.RUnlock()

	return l.filter
}

// Employees returns the employees that pass the current filter
func (l *List) Employees() []*data.Employee {
	l.RLock()
	defer l.RUnlock()

	return copyEmployees(l.filtered)
}

func (l *List) All() []*data.Employee {
	l.RLock()
	defer l.RUnlock()

	return copyEmployees(l.employees)
}

func (l *List) State() State {
	l.RLock()
	defer l.RUnlock()

	return l.state
}

func (l *List) ErrorMessage() string {
	l.RLock()
	defer l.RUnlock()

	return l.errorMessage
}

func (l *List) Add(ctx context.Context) {
	l.navigate(ctx, PageAdd)
}

func (l *List) View(ctx context.Context, id *int64) {
	if id == nil {
		return
	}
	l.navigate(ctx, PageView, *id)
}

func (l *List) Edit(ctx context.Context, id *int64) {
	if id == nil {
		return
	}
	l.navigate(ctx, PageEdit, *id)
}

// Delete removes the employee once the user confirms and reloads the list,
// if the delete fails the list is left as is
func (l *List) Delete(ctx context.Context, id *int64) error {
	if id == nil || !l.confirm(ctx, MessageConfirmDelete) {
		return nil
	}
	if err := l.client.EmployeeDelete(ctx, *id); err != nil {
		l.logger.Error(ctx, "error while deleting employee (%d): %s", *id, err)
		l.alert(ctx, MessageDeleteFailed)
		return err
	}
	if err := l.Load(ctx); err != nil {
		l.logger.Error(ctx, "error while reloading employees: %s", err)
	}
	l.alert(ctx, MessageDeleted)
	return nil
}
