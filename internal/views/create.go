package views

import (
	"context"
	"time"

	"github.com/antonio-alexander/go-employee-records/internal/data"
)

type Create struct {
	form
}

// NewCreate starts from a blank, active employee hired today
func NewCreate(parameters ...any) *Create {
	c := &Create{}
	c.view = newView(parameters...)
	c.employee = data.NewEmployee(time.Now())
	return c
}

func (c *Create) Save(ctx context.Context) error {
	return c.save(ctx, c.client.EmployeeCreate, MessageCreated, MessageCreateFailed)
}
