package cache

import (
	"context"

	"github.com/antonio-alexander/go-employee-records/internal/data"

	"github.com/pkg/errors"
)

var ErrEmployeeNotCached = errors.New("employee not cached")

// Cache holds employees by id, it's only ever populated with employees
// read from the database and is evicted on mutation
type Cache interface {
	EmployeeRead(ctx context.Context, id int64) (*data.Employee, error)
	EmployeesWrite(ctx context.Context, employees ...*data.Employee) error
	EmployeesDelete(ctx context.Context, ids ...int64) error
}
