package views

import (
	"context"

	"github.com/antonio-alexander/go-employee-records/internal/data"
)

type Edit struct {
	form
	id    int64
	state State
}

func NewEdit(id int64, parameters ...any) *Edit {
	e := &Edit{id: id}
	e.view = newView(parameters...)
	e.employee = data.Employee{Status: data.StatusActive}
	return e
}

func (e *Edit) Id() int64 {
	return e.id
}

func (e *Edit) State() State {
	e.RLock()
	defer e.RUnlock()

	return e.state
}

// Load replaces the employee being edited with the one from the backend,
// on failure the blank employee is kept
func (e *Edit) Load(ctx context.Context) error {
	e.Lock()
	e.state, e.errorMessage = StateLoading, ""
	e.Unlock()

	employee, err := e.client.EmployeeRead(ctx, e.id)

	e.Lock()
	defer e.Unlock()

	if err != nil {
		e.logger.Error(ctx, "error while loading employee (%d): %s", e.id, err)
		e.state, e.errorMessage = StateErrored, MessageEditLoadFailed
		return err
	}
	e.employee = *employee
	e.state = StateLoaded
	return nil
}

func (e *Edit) Save(ctx context.Context) error {
	return e.save(ctx, func(ctx context.Context, employee data.Employee) (*data.Employee, error) {
		id := e.id
		employee.Id = &id
		return e.client.EmployeeUpdate(ctx, e.id, employee)
	}, MessageUpdated, MessageUpdateFailed)
}
