package views

import (
	"context"
	"sync"

	"github.com/antonio-alexander/go-employee-records/internal/data"
)

// form is the state shared by the create and edit views
type form struct {
	sync.RWMutex
	view
	employee     data.Employee
	submitted    bool
	errorMessage string
}

func (f *form) Employee() data.Employee {
	f.RLock()
	defer f.RUnlock()

	return *data.CopyEmployee(&f.employee)
}

// SetEmployee binds the values of the form
func (f *form) SetEmployee(employee data.Employee) {
	f.Lock()
	defer f.Unlock()

	f.employee = *data.CopyEmployee(&employee)
}

func (f *form) Submitted() bool {
	f.RLock()
	defer f.RUnlock()

	return f.submitted
}

func (f *form) ErrorMessage() string {
	f.RLock()
	defer f.RUnlock()

	return f.errorMessage
}

func (f *form) setErrorMessage(message string) {
	f.Lock()
	defer f.Unlock()

	f.errorMessage = message
}

// save validates the employee and only if valid, submits it using
// submitFx; on success the user is notified and sent back to the list
func (f *form) save(ctx context.Context, submitFx func(context.Context, data.Employee) (*data.Employee, error),
	success, fallback string) error {
	f.Lock()
	f.submitted, f.errorMessage = true, ""
	employee := *data.CopyEmployee(&f.employee)
	f.Unlock()

	if err := data.ValidateEmployee(employee); err != nil {
		f.setErrorMessage(err.Error())
		return err
	}
	saved, err := submitFx(ctx, employee)
	if err != nil {
		f.logger.Error(ctx, "error while saving employee: %s", err)
		f.setErrorMessage(writeErrorMessage(err, fallback))
		return err
	}
	if saved != nil {
		f.Lock()
		f.employee = *saved
		f.Unlock()
	}
	f.alert(ctx, success)
	f.navigate(ctx, PageList)
	return nil
}

func (f *form) Cancel(ctx context.Context) {
	f.navigate(ctx, PageList)
}
