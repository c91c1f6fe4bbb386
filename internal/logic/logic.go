package logic

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/antonio-alexander/go-employee-records/internal"
	"github.com/antonio-alexander/go-employee-records/internal/cache"
	"github.com/antonio-alexander/go-employee-records/internal/data"
	"github.com/antonio-alexander/go-employee-records/internal/sql"
	"github.com/antonio-alexander/go-employee-records/internal/utilities"

	"github.com/pkg/errors"
)

var ErrMutateDisabled = data.NewError(http.StatusForbidden, "mutation disabled")

type Logic interface {
	EmployeeCreate(ctx context.Context, employee data.Employee) (*data.Employee, error)
	EmployeeRead(ctx context.Context, id int64) (*data.Employee, error)
	EmployeesSearch(ctx context.Context, search data.EmployeeSearch) ([]*data.Employee, error)
	EmployeeUpdate(ctx context.Context, id int64, employee data.Employee) (*data.Employee, error)
	EmployeeDelete(ctx context.Context, id int64) error
}

type logic struct {
	sync.RWMutex
	sql.Sql
	utilities.Logger
	cache  cache.Cache
	config struct {
		cacheEnabled   bool
		mutateDisabled bool
	}
	mutations struct {
		sync.Mutex
		sequence uint64
		ids      map[int64]uint64 //id -> sequence of its last mutation
	}
}

func NewLogic(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	Logic
} {
	l := &logic{}
	l.mutations.ids = make(map[int64]uint64)
	for _, parameter := range parameters {
		switch v := parameter.(type) {
		case sql.Sql:
			l.Sql = v
		case cache.Cache:
			l.cache = v
		case utilities.Logger:
			l.Logger = v
		}
	}
	if l.Logger == nil {
		l.Logger = utilities.NewLogger()
	}
	// a cache is used if provided, unless disabled
	l.config.cacheEnabled = l.cache != nil
	return l
}

func (l *logic) Configure(envs map[string]string) error {
	l.Lock()
	defer l.Unlock()

	if cacheEnabled, ok := envs["LOGIC_CACHE_ENABLED"]; ok {
		l.config.cacheEnabled, _ = strconv.ParseBool(cacheEnabled)
	}
	if mutateDisabled, ok := envs["MUTATE_DISABLED"]; ok {
		l.config.mutateDisabled, _ = strconv.ParseBool(mutateDisabled)
	}
	return nil
}

func (l *logic) Open(ctx context.Context) error {
	l.Lock()
	defer l.Unlock()

	if l.Sql == nil {
		return errors.New("sql not provided")
	}
	if l.config.cacheEnabled && l.cache == nil {
		l.Error(ctx, "cache enabled, but not provided; disabling")
		l.config.cacheEnabled = false
	}
	if l.config.cacheEnabled {
		l.Info(ctx, "cache enabled")
	}
	if l.config.mutateDisabled {
		l.Info(ctx, "mutation disabled")
	}
	return nil
}

func (l *logic) Close(ctx context.Context) error {
	return nil
}

func (l *logic) cacheEnabled() bool {
	l.RLock()
	defer l.RUnlock()

	return l.config.cacheEnabled
}

func (l *logic) mutateDisabled() bool {
	l.RLock()
	defer l.RUnlock()

	return l.config.mutateDisabled
}

// cacheEvict records the mutation of id and removes it from the cache, a
// read that started before the mutation will no longer cache its result
func (l *logic) cacheEvict(ctx context.Context, id int64) {
	if !l.cacheEnabled() {
		return
	}
	l.mutations.Lock()
	l.mutations.sequence++
	l.mutations.ids[id] = l.mutations.sequence
	l.mutations.Unlock()
	if err := l.cache.EmployeesDelete(ctx, id); err != nil {
		l.Error(ctx, "error while deleting employee (%d) from cache: %s", id, err)
	}
}

func (l *logic) mutationSequence() uint64 {
	l.mutations.Lock()
	defer l.mutations.Unlock()

	return l.mutations.sequence
}

// cacheWrite caches the employee read from sql unless it was mutated after
// sequence
func (l *logic) cacheWrite(ctx context.Context, employee *data.Employee, sequence uint64) {
	l.mutations.Lock()
	defer l.mutations.Unlock()

	id := employee.EmpNo()
	if l.mutations.ids[id] > sequence {
		l.Debug(ctx, "employee (%d) mutated while being read, not cached", id)
		return
	}
	if err := l.cache.EmployeesWrite(ctx, employee); err != nil {
		l.Error(ctx, "error while writing employee (%d) to cache: %s", id, err)
	}
}

func validate(employee data.Employee) error {
	if fields := data.ValidateEmployeeFields(employee); len(fields) > 0 {
		return data.NewError(http.StatusBadRequest, "", fields)
	}
	return nil
}

func notFound(err error, id int64) error {
	if errors.Is(err, data.ErrNotFound) {
		return data.NewError(http.StatusNotFound,
			fmt.Sprintf("Employee not found with ID: %d", id))
	}
	return err
}

func conflict(err error, email string) error {
	if errors.Is(err, data.ErrConflict) {
		return duplicateEmail(email)
	}
	return err
}

func duplicateEmail(email string) error {
	return data.NewError(http.StatusConflict,
		fmt.Sprintf("Employee with email %s already exists", email))
}

// emailExists returns true if an employee other than id has the email
func (l *logic) emailExists(ctx context.Context, email string, id int64) (bool, error) {
	employees, err := l.Sql.EmployeesSearch(ctx, data.EmployeeSearch{
		Emails: []string{email},
	})
	if err != nil {
		return false, err
	}
	for _, employee := range employees {
		if employee.EmpNo() != id {
			return true, nil
		}
	}
	return false, nil
}

func (l *logic) EmployeeCreate(ctx context.Context, employee data.Employee) (*data.Employee, error) {
	if l.mutateDisabled() {
		return nil, ErrMutateDisabled
	}
	l.Info(ctx, "creating new employee with email: %s", employee.Email)
	employee.Id = nil
	if err := validate(employee); err != nil {
		return nil, err
	}
	exists, err := l.emailExists(ctx, employee.Email, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, duplicateEmail(employee.Email)
	}
	employeeCreated, err := l.Sql.EmployeeCreate(ctx, employee)
	if err != nil {
		return nil, conflict(err, employee.Email)
	}
	l.Info(ctx, "employee created successfully with id: %d", employeeCreated.EmpNo())
	return employeeCreated, nil
}

func (l *logic) EmployeeRead(ctx context.Context, id int64) (*data.Employee, error) {
	if l.cacheEnabled() {
		employee, err := l.cache.EmployeeRead(ctx, id)
		if err == nil {
			return employee, nil
		}
		if !errors.Is(err, cache.ErrEmployeeNotCached) {
			l.Error(ctx, "error while reading employee (%d) from cache: %s", id, err)
		}
	}
	sequence := l.mutationSequence()
	employee, err := l.Sql.EmployeeRead(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	if l.cacheEnabled() {
		l.cacheWrite(ctx, employee, sequence)
	}
	return employee, nil
}

func (l *logic) EmployeesSearch(ctx context.Context, search data.EmployeeSearch) ([]*data.Employee, error) {
	employees, err := l.Sql.EmployeesSearch(ctx, search)
	if err != nil {
		return nil, err
	}
	return employees, nil
}

func (l *logic) EmployeeUpdate(ctx context.Context, id int64, employee data.Employee) (*data.Employee, error) {
	if l.mutateDisabled() {
		return nil, ErrMutateDisabled
	}
	l.Info(ctx, "updating employee with id: %d", id)
	employee.Id = &id
	if err := validate(employee); err != nil {
		return nil, err
	}
	existing, err := l.Sql.EmployeeRead(ctx, id)
	if err != nil {
		return nil, notFound(err, id)
	}
	if existing.Email != employee.Email {
		exists, err := l.emailExists(ctx, employee.Email, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, duplicateEmail(employee.Email)
		}
	}
	employeeUpdated, err := l.Sql.EmployeeUpdate(ctx, id, employee)
	if err != nil {
		return nil, notFound(conflict(err, employee.Email), id)
	}
	l.cacheEvict(ctx, id)
	return employeeUpdated, nil
}

func (l *logic) EmployeeDelete(ctx context.Context, id int64) error {
	if l.mutateDisabled() {
		return ErrMutateDisabled
	}
	l.Info(ctx, "deleting employee with id: %d", id)
	if err := l.Sql.EmployeeDelete(ctx, id); err != nil {
		return notFound(err, id)
	}
	l.cacheEvict(ctx, id)
	return nil
}
