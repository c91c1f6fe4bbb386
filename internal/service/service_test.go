package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/antonio-alexander/go-employee-records/internal"
	"github.com/antonio-alexander/go-employee-records/internal/cache"
	"github.com/antonio-alexander/go-employee-records/internal/data"
	"github.com/antonio-alexander/go-employee-records/internal/logic"
	"github.com/antonio-alexander/go-employee-records/internal/service"
	"github.com/antonio-alexander/go-employee-records/internal/sql"

	"github.com/stretchr/testify/assert"
)

var (
	envs = map[string]string{
		//sql
		"DATABASE_QUERY_TIMEOUT": "10",
		"DATABASE_MIGRATE":       "true",

		//logic
		"LOGIC_CACHE_ENABLED": "true",

		//service
		"SERVICE_ADDRESS":              "localhost",
		"SERVICE_PORT":                 "0",
		"SERVICE_SHUTDOWN_TIMEOUT":     "5",
		"SERVICE_CORS_ALLOWED_ORIGINS": "http://localhost:4200",
	}
)

func init() {
	for _, env := range os.Environ() {
		if s := strings.Split(env, "="); len(s) > 1 {
			envs[s[0]] = strings.Join(s[1:], "=")
		}
	}
	envs["DATABASE_FILE"] = ":memory:"
}

type serviceTest struct {
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
		logic.Logic
	}
	service interface {
		internal.Configurer
		internal.Opener
		http.Handler
	}
	server *httptest.Server
	client *http.Client
}

func newServiceTest() *serviceTest {
	sql := sql.NewSqlite()
	c := cache.NewMemory()
	logic := logic.NewLogic(sql, c)
	service := service.NewService(logic, c)
	return &serviceTest{
		sql:     sql,
		cache:   c,
		logic:   logic,
		service: service,
		client:  &http.Client{},
	}
}

func (s *serviceTest) Configure(envs map[string]string) error {
	if err := s.sql.Configure(envs); err != nil {
		return err
	}
	if err := s.cache.Configure(envs); err != nil {
		return err
	}
	if err := s.logic.Configure(envs); err != nil {
		return err
	}
	if err := s.service.Configure(envs); err != nil {
		return err
	}
	return nil
}

func (s *serviceTest) Open(ctx context.Context) error {
	if err := s.sql.Open(ctx); err != nil {
		return err
	}
	if err := s.cache.Open(ctx); err != nil {
		return err
	}
	if err := s.logic.Open(ctx); err != nil {
		return err
	}
	s.server = httptest.NewServer(s.service)
	return nil
}

func (s *serviceTest) Close(ctx context.Context) error {
	s.server.Close()
	if err := s.logic.Close(ctx); err != nil {
		return err
	}
	if err := s.cache.Close(ctx); err != nil {
		return err
	}
	if err := s.sql.Close(ctx); err != nil {
		return err
	}
	return nil
}

func (s *serviceTest) do(t *testing.T, method, route string, item any, headers ...string) (int, http.Header, []byte) {
	var body io.Reader

	if item != nil {
		switch item := item.(type) {
		case string:
			body = strings.NewReader(item)
		default:
			payload, err := json.Marshal(item)
			if !assert.Nil(t, err) {
				assert.FailNow(t, "unable to marshal item")
			}
			body = bytes.NewReader(payload)
		}
	}
	request, err := http.NewRequest(method, s.server.URL+route, body)
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to create request")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		request.Header.Set(headers[i], headers[i+1])
	}
	response, err := s.client.Do(request)
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to execute request")
	}
	defer response.Body.Close()
	responseBody, err := io.ReadAll(response.Body)
	assert.Nil(t, err)
	return response.StatusCode, response.Header, responseBody
}

func newEmployee() data.Employee {
	id := internal.GenerateId()
	return data.Employee{
		FirstName:   "John",
		LastName:    "Smith",
		Email:       fmt.Sprintf("%s@example.com", id[:8]),
		PhoneNumber: "1234567890",
		Department:  data.DepartmentIT,
		Position:    "Engineer",
		HireDate:    "2024-01-15",
		Salary:      50000,
		Address:     "1 Infinite Loop",
		Status:      data.StatusActive,
	}
}

func (s *serviceTest) TestService(t *testing.T) {
	// create employee
	employee := newEmployee()
	status, _, body := s.do(t, http.MethodPost, data.RouteEmployees, &employee)
	assert.Equal(t, http.StatusCreated, status)
	employeeCreated := &data.Employee{}
	err := json.Unmarshal(body, employeeCreated)
	assert.Nil(t, err)
	if !assert.NotNil(t, employeeCreated.Id) {
		assert.FailNow(t, "employee not created")
	}
	id := employeeCreated.EmpNo()
	assert.Equal(t, employee.Email, employeeCreated.Email)

	// read employee
	status, _, body = s.do(t, http.MethodGet, fmt.Sprintf(data.RouteEmployeesIdf, id), nil)
	assert.Equal(t, http.StatusOK, status)
	employeeRead := &data.Employee{}
	err = json.Unmarshal(body, employeeRead)
	assert.Nil(t, err)
	assert.Equal(t, employeeCreated, employeeRead)

	// read employees
	status, _, body = s.do(t, http.MethodGet, data.RouteEmployees, nil)
	assert.Equal(t, http.StatusOK, status)
	var employees []*data.Employee
	err = json.Unmarshal(body, &employees)
	assert.Nil(t, err)
	assert.Contains(t, employees, employeeCreated)

	// read employees by department
	status, _, body = s.do(t, http.MethodGet, fmt.Sprintf(data.RouteEmployeesDepartmentf, data.DepartmentIT), nil)
	assert.Equal(t, http.StatusOK, status)
	employees = nil
	err = json.Unmarshal(body, &employees)
	assert.Nil(t, err)
	assert.Contains(t, employees, employeeCreated)

	// update employee
	employeeCreated.Status = data.StatusOnLeave
	status, _, body = s.do(t, http.MethodPut, fmt.Sprintf(data.RouteEmployeesIdf, id), employeeCreated)
	assert.Equal(t, http.StatusOK, status)
	employeeUpdated := &data.Employee{}
	err = json.Unmarshal(body, employeeUpdated)
	assert.Nil(t, err)
	assert.Equal(t, data.StatusOnLeave, employeeUpdated.Status)

	// read employees by status (the space is escaped)
	status, _, body = s.do(t, http.MethodGet,
		fmt.Sprintf(data.RouteEmployeesStatusf, url.PathEscape(data.StatusOnLeave)), nil)
	assert.Equal(t, http.StatusOK, status)
	employees = nil
	err = json.Unmarshal(body, &employees)
	assert.Nil(t, err)
	if assert.Len(t, employees, 1) {
		assert.Equal(t, employeeUpdated, employees[0])
	}

	// delete employee
	status, _, body = s.do(t, http.MethodDelete, fmt.Sprintf(data.RouteEmployeesIdf, id), nil)
	assert.Equal(t, http.StatusOK, status)
	deleteResponse := &data.DeleteResponse{}
	err = json.Unmarshal(body, deleteResponse)
	assert.Nil(t, err)
	assert.Equal(t, &data.DeleteResponse{
		Message: "Employee deleted successfully",
		Id:      fmt.Sprint(id),
	}, deleteResponse)

	// read employee
	status, _, body = s.do(t, http.MethodGet, fmt.Sprintf(data.RouteEmployeesIdf, id), nil)
	assert.Equal(t, http.StatusNotFound, status)
	e := &data.Error{}
	err = json.Unmarshal(body, e)
	assert.Nil(t, err)
	assert.Equal(t, http.StatusNotFound, e.Status)
	assert.Equal(t, fmt.Sprintf("Employee not found with ID: %d", id), e.Message)
}

func (s *serviceTest) TestErrors(t *testing.T) {
	// invalid employee
	employee := newEmployee()
	employee.PhoneNumber = "12345"
	employee.Salary = 0
	status, _, body := s.do(t, http.MethodPost, data.RouteEmployees, &employee)
	assert.Equal(t, http.StatusBadRequest, status)
	e := &data.Error{}
	err := json.Unmarshal(body, e)
	assert.Nil(t, err)
	assert.Equal(t, http.StatusBadRequest, e.Status)
	assert.Empty(t, e.Message)
	assert.Contains(t, e.ValidationErrors, "phoneNumber")
	assert.Contains(t, e.ValidationErrors, "salary")

	// invalid body
	status, _, body = s.do(t, http.MethodPost, data.RouteEmployees, "{")
	assert.Equal(t, http.StatusBadRequest, status)
	e = &data.Error{}
	err = json.Unmarshal(body, e)
	assert.Nil(t, err)
	assert.NotEmpty(t, e.Message)

	// duplicate email
	employee = newEmployee()
	status, _, body = s.do(t, http.MethodPost, data.RouteEmployees, &employee)
	assert.Equal(t, http.StatusCreated, status)
	employeeCreated := &data.Employee{}
	_ = json.Unmarshal(body, employeeCreated)
	defer func() {
		_, _, _ = s.do(t, http.MethodDelete, fmt.Sprintf(data.RouteEmployeesIdf, employeeCreated.EmpNo()), nil)
	}()
	status, _, body = s.do(t, http.MethodPost, data.RouteEmployees, &employee)
	assert.Equal(t, http.StatusConflict, status)
	e = &data.Error{}
	err = json.Unmarshal(body, e)
	assert.Nil(t, err)
	assert.Equal(t, fmt.Sprintf("Employee with email %s already exists", employee.Email), e.Message)

	// update missing employee
	status, _, _ = s.do(t, http.MethodPut, fmt.Sprintf(data.RouteEmployeesIdf, 999999), &employee)
	assert.Equal(t, http.StatusNotFound, status)

	// delete missing employee
	status, _, _ = s.do(t, http.MethodDelete, fmt.Sprintf(data.RouteEmployeesIdf, 999999), nil)
	assert.Equal(t, http.StatusNotFound, status)

	// method not allowed
	status, _, _ = s.do(t, http.MethodPatch, data.RouteEmployees, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, status)
}

func (s *serviceTest) TestCorrelationId(t *testing.T) {
	correlationId := internal.GenerateId()
	status, header, _ := s.do(t, http.MethodGet, data.RouteEmployees, nil,
		data.HeaderCorrelationId, correlationId)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, correlationId, header.Get(data.HeaderCorrelationId))

	// generated when not provided
	_, header, _ = s.do(t, http.MethodGet, data.RouteEmployees, nil)
	assert.NotEmpty(t, header.Get(data.HeaderCorrelationId))
}

func (s *serviceTest) TestCors(t *testing.T) {
	status, header, _ := s.do(t, http.MethodOptions, data.RouteEmployees, nil,
		"Origin", "http://localhost:4200",
		"Access-Control-Request-Method", http.MethodPost,
	)
	assert.True(t, status == http.StatusOK || status == http.StatusNoContent)
	assert.Equal(t, "http://localhost:4200", header.Get("Access-Control-Allow-Origin"))

	_, header, _ = s.do(t, http.MethodGet, data.RouteEmployees, nil,
		"Origin", "http://example.com")
	assert.Empty(t, header.Get("Access-Control-Allow-Origin"))
}

func (s *serviceTest) TestCacheClear(t *testing.T) {
	status, _, _ := s.do(t, http.MethodDelete, data.RouteCache, nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestService(t *testing.T) {
	c := newServiceTest()

	ctx := context.TODO()
	err := c.Configure(envs)
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to configure testService")
	}
	err = c.Open(ctx)
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to open testService")
	}
	defer func() {
		if err := c.Close(ctx); err != nil {
			t.Logf("error while closing testService: %s", err)
		}
	}()
	t.Run("Service", c.TestService)
	t.Run("Errors", c.TestErrors)
	t.Run("Correlation Id", c.TestCorrelationId)
	t.Run("Cors", c.TestCors)
	t.Run("Cache Clear", c.TestCacheClear)
}

func TestServiceOpenClose(t *testing.T) {
	ctx := context.TODO()
	s := service.NewService(logic.NewLogic(sql.NewSqlite()))
	err := s.Configure(envs)
	assert.Nil(t, err)
	err = s.Open(ctx)
	assert.Nil(t, err)
	err = s.Close(ctx)
	assert.Nil(t, err)
}
