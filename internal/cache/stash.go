package cache

import (
	"context"
	"fmt"

	"github.com/antonio-alexander/go-employee-records/internal"
	"github.com/antonio-alexander/go-employee-records/internal/data"
	"github.com/antonio-alexander/go-employee-records/internal/utilities"

	"github.com/antonio-alexander/go-stash"
)

type stashCache struct {
	logger utilities.Logger
	stash  interface {
		stash.Configurer
		stash.Parameterizer
		stash.Initializer
		stash.Shutdowner
	}
	stash.Stasher
}

// NewStash caches employees in the go-stash implementation provided as a
// parameter (i.e. memory or redis), without one every read is a miss
func NewStash(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Cache
} {
	c := &stashCache{}
	for _, p := range parameters {
		switch p := p.(type) {
		case utilities.Logger:
			c.logger = p
		case interface {
			stash.Configurer
			stash.Parameterizer
			stash.Initializer
			stash.Shutdowner
			stash.Stasher
		}:
			c.stash = p
			c.Stasher = p
		}
	}
	if c.logger == nil {
		c.logger = utilities.NewLogger()
	}
	if c.stash != nil {
		c.stash.SetParameters(parameters...)
	}
	return c
}

func (c *stashCache) Configure(envs map[string]string) error {
	if c.stash != nil {
		if err := c.stash.Configure(envs); err != nil {
			return err
		}
	}
	return nil
}

func (c *stashCache) Open(ctx context.Context) error {
	if c.stash != nil {
		return c.stash.Initialize()
	}
	return nil
}

func (c *stashCache) Close(ctx context.Context) error {
	if c.stash != nil {
		return c.stash.Shutdown()
	}
	return nil
}

func (c *stashCache) Clear(ctx context.Context) error {
	if c.Stasher == nil {
		return nil
	}
	return c.Stasher.Clear()
}

func (c *stashCache) EmployeeRead(ctx context.Context, id int64) (*data.Employee, error) {
	if c.Stasher == nil {
		return nil, ErrEmployeeNotCached
	}
	employee := &data.Employee{}
	if err := c.Stasher.Read(fmt.Sprint(id), employee); err != nil {
		c.logger.Trace(ctx, "cache miss for employee (%d): %s", id, err)
		return nil, ErrEmployeeNotCached
	}
	c.logger.Trace(ctx, "cache hit for employee: %d", id)
	return employee, nil
}

func (c *stashCache) EmployeesWrite(ctx context.Context, employees ...*data.Employee) error {
	if c.Stasher == nil {
		return nil
	}
	for _, employee := range employees {
		if employee == nil || employee.Id == nil {
			continue
		}
		if _, err := c.Stasher.Write(fmt.Sprint(employee.EmpNo()), employee); err != nil {
			// a failed write only makes the cache incomplete
			c.logger.Error(ctx, "error while writing employee (%d): %s", employee.EmpNo(), err)
			continue
		}
		c.logger.Trace(ctx, "cached employee: %d", employee.EmpNo())
	}
	return nil
}

func (c *stashCache) EmployeesDelete(ctx context.Context, ids ...int64) error {
	if c.Stasher == nil {
		return nil
	}
	for _, id := range ids {
		if err := c.Stasher.Delete(fmt.Sprint(id)); err != nil {
			c.logger.Debug(ctx, "error while deleting employee (%d): %s", id, err)
			continue
		}
		c.logger.Trace(ctx, "evicted cached employee: %d", id)
	}
	return nil
}
