package cache

import (
	"context"
	"sync"

	"github.com/antonio-alexander/go-employee-records/internal"
	"github.com/antonio-alexander/go-employee-records/internal/data"
	"github.com/antonio-alexander/go-employee-records/internal/utilities"
)

type memoryCache struct {
	sync.RWMutex
	employees map[int64]*data.Employee //map[id]employee
	utilities.Logger
}

func NewMemory(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Cache
} {
	c := &memoryCache{}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case utilities.Logger:
			c.Logger = p
		}
	}
	if c.Logger == nil {
		c.Logger = utilities.NewLogger()
	}
	return c
}

func (c *memoryCache) Configure(envs map[string]string) error {
	return nil
}

func (c *memoryCache) Open(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	c.employees = make(map[int64]*data.Employee)
	return nil
}

func (c *memoryCache) Close(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	c.employees = nil
	return nil
}

func (c *memoryCache) Clear(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	c.employees = make(map[int64]*data.Employee)
	return nil
}

func (c *memoryCache) EmployeeRead(ctx context.Context, id int64) (*data.Employee, error) {
	c.RLock()
	defer c.RUnlock()

	employee, ok := c.employees[id]
	if !ok {
		c.Trace(ctx, "cache miss for employee: %d", id)
		return nil, ErrEmployeeNotCached
	}
	c.Trace(ctx, "cache hit for employee: %d", id)
	return data.CopyEmployee(employee), nil
}

func (c *memoryCache) EmployeesWrite(ctx context.Context, employees ...*data.Employee) error {
	c.Lock()
	defer c.Unlock()

	if c.employees == nil {
		c.employees = make(map[int64]*data.Employee)
	}
	for _, e := range employees {
		if e == nil || e.Id == nil {
			continue
		}
		c.employees[e.EmpNo()] = data.CopyEmployee(e)
	}
	return nil
}

func (c *memoryCache) EmployeesDelete(ctx context.Context, ids ...int64) error {
	c.Lock()
	defer c.Unlock()

	for _, id := range ids {
		delete(c.employees, id)
	}
	return nil
}
