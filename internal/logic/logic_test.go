package logic_test

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/antonio-alexander/go-employee-records/internal"
	"github.com/antonio-alexander/go-employee-records/internal/cache"
	"github.com/antonio-alexander/go-employee-records/internal/data"
	"github.com/antonio-alexander/go-employee-records/internal/logic"
	"github.com/antonio-alexander/go-employee-records/internal/sql"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

var (
	envs = map[string]string{
		//sql
		"DATABASE_QUERY_TIMEOUT": "10",
		"DATABASE_MIGRATE":       "true",
		//logic
		"LOGIC_CACHE_ENABLED": "true",
		"MUTATE_DISABLED":     "false",
	}
)

func init() {
	for _, env := range os.Environ() {
		if s := strings.Split(env, "="); len(s) > 1 {
			envs[s[0]] = strings.Join(s[1:], "=")
		}
	}
	// the file is always in memory so tests don't share state
	envs["DATABASE_FILE"] = ":memory:"
}

type logicTest struct {
	sql interface {
		internal.Configurer
		internal.Opener
		sql.Sql
	}
	cache interface {
		internal.Configurer
		internal.Opener
		internal.Clearer
		cache.Cache
	}
	logic interface {
		internal.Configurer
		internal.Opener
	}
	logic.Logic
}

func newLogicTest() *logicTest {
	sql := sql.NewSqlite()
	c := cache.NewMemory()
	logic := logic.NewLogic(sql, c)
	return &logicTest{
		sql:   sql,
		cache: c,
		logic: logic,
		Logic: logic,
	}
}

func (l *logicTest) Configure(envs map[string]string) error {
	if err := l.sql.Configure(envs); err != nil {
		return err
	}
	if err := l.cache.Configure(envs); err != nil {
		return err
	}
	if err := l.logic.Configure(envs); err != nil {
		return err
	}
	return nil
}

func (l *logicTest) Open(ctx context.Context) error {
	if err := l.sql.Open(ctx); err != nil {
		return err
	}
	if err := l.cache.Open(ctx); err != nil {
		return err
	}
	if err := l.logic.Open(ctx); err != nil {
		return err
	}
	return nil
}

func (l *logicTest) Close(ctx context.Context) error {
	if err := l.logic.Close(ctx); err != nil {
		return err
	}
	if err := l.cache.Close(ctx); err != nil {
		return err
	}
	if err := l.sql.Close(ctx); err != nil {
		return err
	}
	return nil
}

func newEmployee() data.Employee {
	id := internal.GenerateId()
	return data.Employee{
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       fmt.Sprintf("%s@example.com", id[:8]),
		PhoneNumber: "0987654321",
		Department:  data.DepartmentMarketing,
		Position:    "Coordinator",
		HireDate:    "2022-03-07",
		Salary:      48000,
		Status:      data.StatusActive,
	}
}

func (l *logicTest) TestLogic(t *testing.T) {
	ctx := context.TODO()

	// create employee
	employeeCreated, err := l.EmployeeCreate(ctx, newEmployee())
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to create employee")
	}
	id := employeeCreated.EmpNo()
	defer func(id int64) {
		_ = l.EmployeeDelete(ctx, id)
	}(id)

	// validate that employee not in cache
	employeeCached, err := l.cache.EmployeeRead(ctx, id)
	assert.NotNil(t, err)
	assert.Nil(t, employeeCached)

	// read employee
	employeeRead, err := l.EmployeeRead(ctx, id)
	assert.Nil(t, err)
	assert.Equal(t, employeeCreated, employeeRead)

	// validate that employee in cache
	employeeCached, err = l.cache.EmployeeRead(ctx, id)
	assert.Nil(t, err)
	assert.Equal(t, employeeCreated, employeeCached)

	// update employee
	employee := *employeeCreated
	employee.Position = "Lead"
	employeeUpdated, err := l.EmployeeUpdate(ctx, id, employee)
	assert.Nil(t, err)
	if assert.NotNil(t, employeeUpdated) {
		assert.Equal(t, "Lead", employeeUpdated.Position)
	}

	// validate that employee not in cache
	employeeCached, err = l.cache.EmployeeRead(ctx, id)
	assert.NotNil(t, err)
	assert.Nil(t, employeeCached)

	// read employee (not from cache)
	employeeRead, err = l.EmployeeRead(ctx, id)
	assert.Nil(t, err)
	assert.Equal(t, employeeUpdated, employeeRead)

	// delete employee
	err = l.EmployeeDelete(ctx, id)
	assert.Nil(t, err)

	// validate that employee not in cache
	_, err = l.cache.EmployeeRead(ctx, id)
	assert.NotNil(t, err)

	// read employee
	_, err = l.EmployeeRead(ctx, id)
	assert.True(t, errors.Is(err, data.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, data.ErrorStatus(err))
	assert.Contains(t, err.Error(), fmt.Sprintf("Employee not found with ID: %d", id))

	// delete employee again
	err = l.EmployeeDelete(ctx, id)
	assert.True(t, errors.Is(err, data.ErrNotFound))
}

func (l *logicTest) TestValidation(t *testing.T) {
	ctx := context.TODO()

	employee := newEmployee()
	employee.Email = "not-an-email"
	employee.PhoneNumber = "123"
	_, err := l.EmployeeCreate(ctx, employee)
	assert.True(t, errors.Is(err, data.ErrValidation))
	var e *data.Error
	if assert.True(t, errors.As(err, &e)) {
		assert.Equal(t, http.StatusBadRequest, e.Status)
		assert.Empty(t, e.Message)
		assert.Contains(t, e.ValidationErrors, "email")
		assert.Contains(t, e.ValidationErrors, "phoneNumber")
		assert.Len(t, e.ValidationErrors, 2)
	}

	// nothing was created
	employees, err := l.EmployeesSearch(ctx, data.EmployeeSearch{
		Emails: []string{employee.Email},
	})
	assert.Nil(t, err)
	assert.Empty(t, employees)
}

func (l *logicTest) TestDuplicateEmail(t *testing.T) {
	ctx := context.TODO()

	employee := newEmployee()
	employeeCreated, err := l.EmployeeCreate(ctx, employee)
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to create employee")
	}
	defer func() {
		_ = l.EmployeeDelete(ctx, employeeCreated.EmpNo())
	}()
	other, err := l.EmployeeCreate(ctx, newEmployee())
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to create employee")
	}
	defer func() {
		_ = l.EmployeeDelete(ctx, other.EmpNo())
	}()

	// create with existing email
	_, err = l.EmployeeCreate(ctx, employee)
	assert.True(t, errors.Is(err, data.ErrConflict))
	var e *data.Error
	if assert.True(t, errors.As(err, &e)) {
		assert.Equal(t, fmt.Sprintf("Employee with email %s already exists", employee.Email), e.Message)
	}

	// update to another employee's email
	update := *other
	update.Email = employee.Email
	_, err = l.EmployeeUpdate(ctx, other.EmpNo(), update)
	assert.True(t, errors.Is(err, data.ErrConflict))

	// update keeping its own email
	update = *employeeCreated
	update.Salary = 52000
	employeeUpdated, err := l.EmployeeUpdate(ctx, employeeCreated.EmpNo(), update)
	assert.Nil(t, err)
	if assert.NotNil(t, employeeUpdated) {
		assert.Equal(t, float64(52000), employeeUpdated.Salary)
	}
}

func (l *logicTest) TestSearch(t *testing.T) {
	ctx := context.TODO()

	var ids []int64
	for _, status := range []string{data.StatusActive, data.StatusOnLeave, data.StatusOnLeave} {
		employee := newEmployee()
		employee.Status = status
		employeeCreated, err := l.EmployeeCreate(ctx, employee)
		if !assert.Nil(t, err) {
			assert.FailNow(t, "unable to create employee")
		}
		ids = append(ids, employeeCreated.EmpNo())
	}
	defer func() {
		for _, id := range ids {
			_ = l.EmployeeDelete(ctx, id)
		}
	}()

	employees, err := l.EmployeesSearch(ctx, data.EmployeeSearch{
		Statuses: []string{data.StatusOnLeave},
	})
	assert.Nil(t, err)
	assert.Len(t, employees, 2)
	employees, err = l.EmployeesSearch(ctx, data.EmployeeSearch{})
	assert.Nil(t, err)
	assert.Len(t, employees, 3)
}

func testLogic(t *testing.T) {
	ctx := context.TODO()
	l := newLogicTest()
	if err := l.Configure(envs); err != nil {
		assert.FailNow(t, "unable to configure logic test")
	}
	if err := l.Open(ctx); err != nil {
		assert.FailNow(t, "unable to open logic test")
	}
	defer func() {
		_ = l.Close(ctx)
	}()
	t.Run("Logic", l.TestLogic)
	t.Run("Validation", l.TestValidation)
	t.Run("Duplicate Email", l.TestDuplicateEmail)
	t.Run("Search", l.TestSearch)
}

func TestLogic(t *testing.T) {
	testLogic(t)
}

func TestMutateDisabled(t *testing.T) {
	ctx := context.TODO()
	s := sql.NewSqlite()
	l := logic.NewLogic(s)
	err := s.Open(ctx)
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to open sql")
	}
	defer func() {
		_ = s.Close(ctx)
	}()
	err = l.Configure(map[string]string{"MUTATE_DISABLED": "true"})
	assert.Nil(t, err)
	err = l.Open(ctx)
	assert.Nil(t, err)

	_, err = l.EmployeeCreate(ctx, newEmployee())
	assert.True(t, errors.Is(err, logic.ErrMutateDisabled))
	assert.Equal(t, http.StatusForbidden, data.ErrorStatus(err))
	_, err = l.EmployeeUpdate(ctx, 1, newEmployee())
	assert.True(t, errors.Is(err, logic.ErrMutateDisabled))
	err = l.EmployeeDelete(ctx, 1)
	assert.True(t, errors.Is(err, logic.ErrMutateDisabled))
}

// pausingSql blocks the first EmployeeRead after arm() once the row has been
// read, until resume is closed
type pausingSql struct {
	sync.Mutex
	sql.Sql
	armed   bool
	reading chan struct{}
	resume  chan struct{}
}

func (p *pausingSql) arm() {
	p.Lock()
	defer p.Unlock()

	p.armed = true
	p.reading, p.resume = make(chan struct{}), make(chan struct{})
}

func (p *pausingSql) EmployeeRead(ctx context.Context, id int64) (*data.Employee, error) {
	employee, err := p.Sql.EmployeeRead(ctx, id)
	p.Lock()
	armed := p.armed
	p.armed = false
	p.Unlock()
	if armed {
		close(p.reading)
		<-p.resume
	}
	return employee, err
}

func TestCacheUpdatedWhileReading(t *testing.T) {
	ctx := context.TODO()
	s := sql.NewSqlite()
	c := cache.NewMemory()
	p := &pausingSql{Sql: s}
	l := logic.NewLogic(p, c)
	err := s.Open(ctx)
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to open sql")
	}
	defer func() {
		_ = s.Close(ctx)
	}()
	err = c.Open(ctx)
	assert.Nil(t, err)
	err = l.Open(ctx)
	assert.Nil(t, err)

	// create employee
	employeeCreated, err := l.EmployeeCreate(ctx, newEmployee())
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to create employee")
	}
	id := employeeCreated.EmpNo()

	// read the employee, pausing once the old row has been read
	var wg sync.WaitGroup
	p.arm()
	wg.Add(1)
	go func() {
		defer wg.Done()

		employee, err := l.EmployeeRead(ctx, id)
		assert.Nil(t, err)
		if assert.NotNil(t, employee) {
			assert.Equal(t, employeeCreated.Position, employee.Position)
		}
	}()
	<-p.reading

	// update the employee while the read is in progress
	employee := *employeeCreated
	employee.Position = "Director"
	employeeUpdated, err := l.EmployeeUpdate(ctx, id, employee)
	assert.Nil(t, err)
	close(p.resume)
	wg.Wait()

	// the old row must not have been cached
	employeeRead, err := l.EmployeeRead(ctx, id)
	assert.Nil(t, err)
	if assert.NotNil(t, employeeRead) {
		assert.Equal(t, "Director", employeeRead.Position)
		assert.Equal(t, employeeUpdated, employeeRead)
	}
	employeeCached, err := c.EmployeeRead(ctx, id)
	assert.Nil(t, err)
	assert.Equal(t, employeeUpdated, employeeCached)
}
