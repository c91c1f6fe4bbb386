package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-records/internal"
	"github.com/antonio-alexander/go-employee-records/internal/data"
	"github.com/antonio-alexander/go-employee-records/internal/utilities"

	"github.com/pkg/errors"
)

// Client wraps the employee endpoints of the backend, every call issues
// exactly one request and is never retried
type Client interface {
	EmployeesRead(ctx context.Context) ([]*data.Employee, error)
	EmployeeRead(ctx context.Context, id int64) (*data.Employee, error)
	EmployeeCreate(ctx context.Context, employee data.Employee) (*data.Employee, error)
	EmployeeUpdate(ctx context.Context, id int64, employee data.Employee) (*data.Employee, error)
	EmployeeDelete(ctx context.Context, id int64) error
	EmployeesByDepartment(ctx context.Context, department string) ([]*data.Employee, error)
	EmployeesByStatus(ctx context.Context, status string) ([]*data.Employee, error)
}

type client struct {
	sync.RWMutex
	config struct {
		protocol   string
		address    string
		port       string
		timeout    time.Duration
		sslCaFile  string
		sslCrtFile string
		sslKeyFile string
	}
	address string
	utilities.Logger
	*http.Client
}

func NewClient(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	Client
} {
	c := &client{Client: &http.Client{}}
	c.config.protocol = "http"
	c.config.address = "localhost"
	c.config.port = "8080"
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

func (c *client) doRequest(ctx context.Context, uri, method string, item any) ([]byte, error) {
	var body io.Reader

	if item != nil {
		payload, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(payload)
	}
	ctx, correlationId := internal.CtxEnsureCorrelationId(ctx)
	request, err := http.NewRequestWithContext(ctx, method, uri, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set(data.HeaderCorrelationId, correlationId)
	response, err := c.Do(request)
	if err != nil {
		c.Error(ctx, "error while executing %s %s: %s", method, uri, err)
		return nil, errors.Wrapf(err, "%s %s", method, uri)
	}
	defer response.Body.Close()
	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	c.Trace(ctx, "%s %s: %d", method, uri, response.StatusCode)
	if response.StatusCode >= http.StatusOK && response.StatusCode < http.StatusMultipleChoices {
		return payload, nil
	}
	return nil, responseError(response.StatusCode, payload)
}

// responseError converts a non-2xx response into a *data.Error; a body
// that isn't a json error is kept as context but never as the message
func responseError(statusCode int, body []byte) error {
	e := &data.Error{}
	if err := json.Unmarshal(body, e); err != nil {
		e = &data.Error{Status: statusCode}
		if text := strings.TrimSpace(string(body)); text != "" {
			return errors.WithMessage(e, text)
		}
		return e
	}
	e.Status = statusCode
	return e
}

func (c *client) employeeRequest(ctx context.Context, uri, method string, item any) (*data.Employee, error) {
	bytes, err := c.doRequest(ctx, uri, method, item)
	if err != nil {
		return nil, err
	}
	employee := &data.Employee{}
	if err := json.Unmarshal(bytes, employee); err != nil {
		return nil, errors.Wrap(err, "error while decoding employee")
	}
	return employee, nil
}

func (c *client) employeesRequest(ctx context.Context, uri string) ([]*data.Employee, error) {
	var employees []*data.Employee

	bytes, err := c.doRequest(ctx, uri, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(bytes, &employees); err != nil {
		return nil, errors.Wrap(err, "error while decoding employees")
	}
	if employees == nil {
		employees = []*data.Employee{}
	}
	return employees, nil
}

func (c *client) Configure(envs map[string]string) error {
	if address, ok := envs["CLIENT_ADDRESS"]; ok && address != "" {
		c.config.address = address
	}
	if port, ok := envs["CLIENT_PORT"]; ok && port != "" {
		c.config.port = port
	}
	if protocol, ok := envs["CLIENT_PROTOCOL"]; ok && protocol != "" {
		c.config.protocol = protocol
	}
	if timeout, ok := envs["CLIENT_TIMEOUT"]; ok && timeout != "" {
		i, err := strconv.ParseInt(timeout, 10, 64)
		if err != nil {
			return errors.Wrap(err, "CLIENT_TIMEOUT")
		}
		c.config.timeout = time.Duration(i) * time.Second
	}
	if sslCaFile, ok := envs["SSL_CA_FILE"]; ok {
		c.config.sslCaFile = sslCaFile
	}
	if sslKeyFile, ok := envs["SSL_KEY_FILE"]; ok {
		c.config.sslKeyFile = sslKeyFile
	}
	if sslCrtFile, ok := envs["SSL_CRT_FILE"]; ok {
		c.config.sslCrtFile = sslCrtFile
	}
	return nil
}

func (c *client) Open(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	switch c.config.protocol {
	default:
		return errors.Errorf("unsupported protocol: %s", c.config.protocol)
	case "http", "https":
		c.address = fmt.Sprintf("%s://%s", c.config.protocol,
			net.JoinHostPort(c.config.address, c.config.port))
	}
	transport, err := newTransport(c.config.sslCaFile, c.config.sslCrtFile,
		c.config.sslKeyFile)
	if err != nil {
		return err
	}
	c.Client.Transport = transport
	c.Client.Timeout = c.config.timeout
	c.Debug(ctx, "client: using %s", c.address)
	return nil
}

func (c *client) Close(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	c.Client.CloseIdleConnections()
	return nil
}

func (c *client) EmployeesRead(ctx context.Context) ([]*data.Employee, error) {
	return c.employeesRequest(ctx, c.address+data.RouteEmployees)
}

func (c *client) EmployeeRead(ctx context.Context, id int64) (*data.Employee, error) {
	uri := fmt.Sprintf(c.address+data.RouteEmployeesIdf, id)
	return c.employeeRequest(ctx, uri, http.MethodGet, nil)
}

func (c *client) EmployeeCreate(ctx context.Context, employee data.Employee) (*data.Employee, error) {
	employee.Id = nil
	uri := c.address + data.RouteEmployees
	return c.employeeRequest(ctx, uri, http.MethodPost, &employee)
}

func (c *client) EmployeeUpdate(ctx context.Context, id int64, employee data.Employee) (*data.Employee, error) {
	employee.Id = &id
	uri := fmt.Sprintf(c.address+data.RouteEmployeesIdf, id)
	return c.employeeRequest(ctx, uri, http.MethodPut, &employee)
}

func (c *client) EmployeeDelete(ctx context.Context, id int64) error {
	uri := fmt.Sprintf(c.address+data.RouteEmployeesIdf, id)
	if _, err := c.doRequest(ctx, uri, http.MethodDelete, nil); err != nil {
		return err
	}
	return nil
}

func (c *client) EmployeesByDepartment(ctx context.Context, department string) ([]*data.Employee, error) {
	uri := fmt.Sprintf(c.address+data.RouteEmployeesDepartmentf, url.PathEscape(department))
	return c.employeesRequest(ctx, uri)
}

func (c *client) EmployeesByStatus(ctx context.Context, status string) ([]*data.Employee, error) {
	uri := fmt.Sprintf(c.address+data.RouteEmployeesStatusf, url.PathEscape(status))
	return c.employeesRequest(ctx, uri)
}
