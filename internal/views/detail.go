package views

import (
	"context"
	"sync"

	"github.com/antonio-alexander/go-employee-records/internal/data"
)

// Detail shows a single employee
type Detail struct {
	sync.RWMutex
	view
	id           int64
	state        State
	employee     *data.Employee
	errorMessage string
}

func NewDetail(id int64, parameters ...any) *Detail {
	return &Detail{
		view: newView(parameters...),
		id:   id,
	}
}

func (d *Detail) Load(ctx context.Context) error {
	d.Lock()
	d.state, d.errorMessage = StateLoading, ""
	d.Unlock()

	employee, err := d.client.EmployeeRead(ctx, d.id)

	d.Lock()
	defer d.Unlock()

	if err != nil {
		d.logger.Error(ctx, "error while loading employee (%d): %s", d.id, err)
		d.state, d.errorMessage = StateErrored, MessageViewLoadFailed
		return err
	}
	d.employee, d.state = employee, StateLoaded
	return nil
}

func (d *Detail) Id() int64 {
	return d.id
}

// Employee returns nil until the employee has been loaded
func (d *Detail) Employee() *data.Employee {
	d.RLock()
	defer d.RUnlock()

	if d.employee == nil {
		return nil
	}
	return data.CopyEmployee(d.employee)
}

func (d *Detail) State() State {
	d.RLock()
	defer d.RUnlock()

	return d.state
}

func (d *Detail) ErrorMessage() string {
	d.RLock()
	defer d.RUnlock()

	return d.errorMessage
}

func (d *Detail) Edit(ctx context.Context) {
	d.navigate(ctx, PageEdit, d.id)
}

func (d *Detail) Back(ctx context.Context) {
	d.navigate(ctx, PageList)
}

func (d *Detail) Delete(ctx context.Context) error {
	if !d.confirm(ctx, MessageConfirmDelete) {
		return nil
	}
	if err := d.client.EmployeeDelete(ctx, d.id); err != nil {
		d.logger.Error(ctx, "error while deleting employee (%d): %s", d.id, err)
		d.alert(ctx, MessageDeleteFailed)
		return err
	}
	d.alert(ctx, MessageDeleted)
	d.navigate(ctx, PageList)
	return nil
}
