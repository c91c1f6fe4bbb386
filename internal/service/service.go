package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-records/internal"
	"github.com/antonio-alexander/go-employee-records/internal/data"
	"github.com/antonio-alexander/go-employee-records/internal/logic"
	"github.com/antonio-alexander/go-employee-records/internal/utilities"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

const messageDeleted string = "Employee deleted successfully"

var (
	Version   string
	GitCommit string
	GitBranch string
)

func init() {
	if Version = data.Version; Version == "" {
		Version = "<no_version_provided>"
	}
	if GitCommit = data.GitCommit; GitCommit == "" {
		GitCommit = "<no_git_commit>"
	}
	if GitBranch = data.GitBranch; GitBranch == "" {
		GitBranch = "<no_git_branch>"
	}
}

type service struct {
	sync.RWMutex
	sync.WaitGroup
	config struct {
		address          string
		port             string
		shutdownTimeout  time.Duration
		allowedOrigins   []string
		allowedMethods   []string
		allowedHeaders   []string
		allowCredentials bool
		corsDisabled     bool
		corsDebug        bool
	}
	ctx    context.Context
	cancel context.CancelFunc
	*mux.Router
	*http.Server
	cache  internal.Clearer
	opened bool
	utilities.Logger
	logic.Logic
}

// NewService serves the employee api, it can be used as an http.Handler
// without being opened
func NewService(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	http.Handler
} {
	router := mux.NewRouter()
	s := &service{
		Router: router,
		Server: &http.Server{
			Handler: router,
		},
	}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case logic.Logic:
			s.Logic = p
		case internal.Clearer:
			s.cache = p
		case utilities.Logger:
			s.Logger = p
		}
	}
	if s.Logger == nil {
		s.Logger = utilities.NewLogger()
	}
	s.config.port = "8080"
	s.config.shutdownTimeout = 10 * time.Second
	s.config.allowedMethods = []string{http.MethodGet, http.MethodPost,
		http.MethodPut, http.MethodDelete, http.MethodOptions}
	s.config.allowedHeaders = []string{"Content-Type", "Accept", data.HeaderCorrelationId}
	s.buildRoutes()
	s.buildHandler()
	return s
}

func (s *service) buildHandler() {
	if s.config.corsDisabled {
		s.Server.Handler = s.Router
		return
	}
	s.Server.Handler = cors.New(cors.Options{
		AllowedOrigins:   s.config.allowedOrigins,
		AllowCredentials: s.config.allowCredentials,
		AllowedMethods:   s.config.allowedMethods,
		AllowedHeaders:   s.config.allowedHeaders,
		ExposedHeaders:   []string{data.HeaderCorrelationId},
		Debug:            s.config.corsDebug,
	}).Handler(s.Router)
}

func (s *service) launchServer() error {
	started := make(chan struct{})
	chErr := make(chan error, 1)
	s.Add(1)
	go func() {
		defer s.WaitGroup.Done()
		defer close(chErr)

		close(started)
		if err := s.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			chErr <- err
		}
	}()
	<-started
	select {
	case err := <-chErr:
		// listen failures (i.e. port in use) show up right away
		return err
	case <-time.After(time.Second):
		address := net.JoinHostPort(s.config.address, s.config.port)
		s.Info(s.ctx, "started server: %s", address)
		return nil
	}
}

// middleware attaches the correlation id of the request (or a new one) to
// its context and response
func (s *service) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		tStart := time.Now()
		ctx := internal.CtxWithCorrelationId(request.Context(),
			getCorrelationId(request))
		writer.Header().Set(data.HeaderCorrelationId, internal.CorrelationIdFromCtx(ctx))
		next.ServeHTTP(writer, request.WithContext(ctx))
		s.Trace(ctx, "%s %s took %v", request.Method, request.URL.Path, time.Since(tStart))
	})
}

func (s *service) endpointDefault() func(http.ResponseWriter, *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		fmt.Fprintf(writer,
			"go-employee-records\n"+
				"Version: \"%s\"\n"+
				"Git Commit: \"%s\"\n"+
				"Git Branch: \"%s\"\n",
			Version, GitCommit, GitBranch)
	}
}

func (s *service) readEmployee(request *http.Request) (data.Employee, error) {
	var employee data.Employee

	bytes, err := io.ReadAll(request.Body)
	defer request.Body.Close()
	if err != nil {
		return data.Employee{}, err
	}
	if err := json.Unmarshal(bytes, &employee); err != nil {
		return data.Employee{}, data.NewError(http.StatusBadRequest,
			fmt.Sprintf("invalid request body: %s", err))
	}
	return employee, nil
}

func (s *service) endpointEmployeeCreate(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	employee, err := s.readEmployee(request)
	if err != nil {
		s.handleResponse(ctx, writer, err, http.StatusBadRequest)
		return
	}
	employeeCreated, err := s.EmployeeCreate(ctx, employee)
	if err != nil {
		s.handleResponse(ctx, writer, err, 0)
		return
	}
	s.handleResponse(ctx, writer, nil, http.StatusCreated, employeeCreated)
	s.Trace(ctx, "executed employee_create: %d", employeeCreated.EmpNo())
}

func (s *service) endpointEmployeeRead(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	id, err := idFromPath(mux.Vars(request))
	if err != nil {
		s.handleResponse(ctx, writer, err, 0)
		return
	}
	employee, err := s.EmployeeRead(ctx, id)
	if err != nil {
		s.handleResponse(ctx, writer, err, 0)
		return
	}
	s.handleResponse(ctx, writer, nil, http.StatusOK, employee)
	s.Trace(ctx, "executed employee_read: %d", id)
}

func (s *service) endpointEmployeesSearch(search data.EmployeeSearch) func(http.ResponseWriter, *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		employees, err := s.EmployeesSearch(ctx, search)
		if err != nil {
			s.handleResponse(ctx, writer, err, 0)
			return
		}
		s.handleResponse(ctx, writer, nil, http.StatusOK, employees)
		s.Trace(ctx, "executed employees_search: %d", len(employees))
	}
}

func (s *service) endpointEmployeesByDepartment(writer http.ResponseWriter, request *http.Request) {
	department := mux.Vars(request)[data.PathDepartment]
	s.endpointEmployeesSearch(data.EmployeeSearch{
		Departments: []string{department},
	})(writer, request)
}

func (s *service) endpointEmployeesByStatus(writer http.ResponseWriter, request *http.Request) {
	status := mux.Vars(request)[data.PathStatus]
	s.endpointEmployeesSearch(data.EmployeeSearch{
		Statuses: []string{status},
	})(writer, request)
}

func (s *service) endpointEmployeeUpdate(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	id, err := idFromPath(mux.Vars(request))
	if err != nil {
		s.handleResponse(ctx, writer, err, 0)
		return
	}
	employee, err := s.readEmployee(request)
	if err != nil {
		s.handleResponse(ctx, writer, err, http.StatusBadRequest)
		return
	}
	employeeUpdated, err := s.EmployeeUpdate(ctx, id, employee)
	if err != nil {
		s.handleResponse(ctx, writer, err, 0)
		return
	}
	s.handleResponse(ctx, writer, nil, http.StatusOK, employeeUpdated)
	s.Trace(ctx, "executed employee_update: %d", id)
}

func (s *service) endpointEmployeeDelete(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	id, err := idFromPath(mux.Vars(request))
	if err != nil {
		s.handleResponse(ctx, writer, err, 0)
		return
	}
	if err := s.EmployeeDelete(ctx, id); err != nil {
		s.handleResponse(ctx, writer, err, 0)
		return
	}
	s.handleResponse(ctx, writer, nil, http.StatusOK, &data.DeleteResponse{
		Message: messageDeleted,
		Id:      strconv.FormatInt(id, 10),
	})
	s.Trace(ctx, "executed employee_delete: %d", id)
}

func (s *service) endpointCacheClear(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	if s.cache != nil {
		if err := s.cache.Clear(ctx); err != nil {
			s.handleResponse(ctx, writer, err, 0)
			return
		}
		s.Trace(ctx, "executed cache_clear")
	}
	s.handleResponse(ctx, writer, nil, http.StatusNoContent)
}

func (s *service) buildRoutes() {
	s.Router.Use(s.middleware)
	s.Router.HandleFunc("/", s.endpointDefault())
	s.Router.HandleFunc(data.RouteEmployees, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			s.endpointEmployeesSearch(data.EmployeeSearch{})(w, r)
		case http.MethodPost:
			s.endpointEmployeeCreate(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteEmployeesId, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			s.endpointEmployeeRead(w, r)
		case http.MethodPut:
			s.endpointEmployeeUpdate(w, r)
		case http.MethodDelete:
			s.endpointEmployeeDelete(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteEmployeesDepartment, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			s.endpointEmployeesByDepartment(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteEmployeesStatus, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			s.endpointEmployeesByStatus(w, r)
		}
	})
	s.Router.HandleFunc(data.RouteCache, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodDelete:
			s.endpointCacheClear(w, r)
		}
	})
}

func (s *service) Configure(envs map[string]string) error {
	s.Lock()
	defer s.Unlock()

	if address, ok := envs["SERVICE_ADDRESS"]; ok {
		s.config.address = address
	}
	if port, ok := envs["SERVICE_PORT"]; ok && port != "" {
		s.config.port = port
	}
	if shutdownTimeoutString, ok := envs["SERVICE_SHUTDOWN_TIMEOUT"]; ok {
		if shutdownTimeoutInt, err := strconv.Atoi(shutdownTimeoutString); err == nil {
			if timeout := time.Duration(shutdownTimeoutInt) * time.Second; timeout > 0 {
				s.config.shutdownTimeout = timeout
			}
		}
	}
	if allowCredentialsString, ok := envs["SERVICE_CORS_ALLOW_CREDENTIALS"]; ok {
		if allowCredentials, err := strconv.ParseBool(allowCredentialsString); err == nil {
			s.config.allowCredentials = allowCredentials
		}
	}
	if allowedOrigins, ok := envs["SERVICE_CORS_ALLOWED_ORIGINS"]; ok && allowedOrigins != "" {
		s.config.allowedOrigins = strings.Split(allowedOrigins, ",")
	}
	if allowedMethods, ok := envs["SERVICE_CORS_ALLOWED_METHODS"]; ok && allowedMethods != "" {
		s.config.allowedMethods = strings.Split(allowedMethods, ",")
	}
	if allowedHeaders, ok := envs["SERVICE_CORS_ALLOWED_HEADERS"]; ok && allowedHeaders != "" {
		s.config.allowedHeaders = strings.Split(allowedHeaders, ",")
	}
	if corsDisabledString, ok := envs["SERVICE_CORS_DISABLED"]; ok {
		if corsDisabled, err := strconv.ParseBool(corsDisabledString); err == nil {
			s.config.corsDisabled = corsDisabled
		}
	}
	if corsDebug, ok := envs["SERVICE_CORS_DEBUG"]; ok {
		if corsDebug, err := strconv.ParseBool(corsDebug); err == nil {
			s.config.corsDebug = corsDebug
		}
	}
	s.buildHandler()
	return nil
}

func (s *service) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	s.RLock()
	handler := s.Server.Handler
	s.RUnlock()

	handler.ServeHTTP(writer, request)
}

func (s *service) Open(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	if s.opened {
		return nil
	}
	if s.Logic == nil {
		return fmt.Errorf("logic not provided")
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.Server.Addr = net.JoinHostPort(s.config.address, s.config.port)
	if err := s.launchServer(); err != nil {
		s.cancel()
		return err
	}
	s.opened = true
	return nil
}

func (s *service) Close(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	if !s.opened {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.config.shutdownTimeout)
	defer cancel()
	if err := s.Server.Shutdown(ctx); err != nil {
		s.Error(ctx, "error while shutting down the server: %s", err)
	}
	s.cancel()
	s.Wait()
	s.opened = false
	return nil
}
