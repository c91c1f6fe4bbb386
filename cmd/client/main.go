package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/antonio-alexander/go-employee-records/internal"
	"github.com/antonio-alexander/go-employee-records/internal/client"
	"github.com/antonio-alexander/go-employee-records/internal/data"
	"github.com/antonio-alexander/go-employee-records/internal/export"
	"github.com/antonio-alexander/go-employee-records/internal/utilities"
	"github.com/antonio-alexander/go-employee-records/internal/views"

	"github.com/pkg/errors"
)

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

func main() {
	args := os.Args[1:]
	envs := internal.Envs(".env")
	osSignal := make(chan os.Signal, 1)
	signal.Notify(osSignal, syscall.SIGINT, syscall.SIGTERM)
	if err := Main(args, envs, osSignal); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func printJson(item any) error {
	bytes, err := json.MarshalIndent(item, "", " ")
	if err != nil {
		return err
	}
	fmt.Println(string(bytes))
	return nil
}

// employeeInput decodes the employee provided through EMPLOYEE (json) or
// EMPLOYEE_FILE on top of employee
func employeeInput(envs map[string]string, employee *data.Employee) error {
	bytes := []byte(envs["EMPLOYEE"])
	if file := envs["EMPLOYEE_FILE"]; file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return errors.Wrap(err, "error while reading EMPLOYEE_FILE")
		}
		bytes = b
	}
	if len(bytes) == 0 {
		return errors.New("EMPLOYEE or EMPLOYEE_FILE is required")
	}
	if err := json.Unmarshal(bytes, employee); err != nil {
		return errors.Wrap(err, "error while decoding employee")
	}
	return nil
}

func employeeId(envs map[string]string) (int64, error) {
	id, err := strconv.ParseInt(envs["EMPLOYEE_ID"], 10, 64)
	if err != nil {
		return 0, errors.Errorf("invalid EMPLOYEE_ID: %q", envs["EMPLOYEE_ID"])
	}
	return id, nil
}

func Main(args []string, envs map[string]string, osSignal chan os.Signal) error {
	var wg sync.WaitGroup

	ctx, cancel := internal.LaunchContext(&wg, osSignal)
	defer func() {
		cancel()
		wg.Wait()
	}()

	logger := utilities.NewLogger(os.Stderr)
	if err := logger.Configure(envs); err != nil {
		return err
	}
	logger.Info(ctx, "client: go-employee-records v%s (%s) built from: %s",
		Version, GitCommit, GitBranch)

	//create client
	client := client.NewClient(logger)
	if err := client.Configure(envs); err != nil {
		return err
	}
	if err := client.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if err := client.Close(context.Background()); err != nil {
			logger.Error(context.Background(), "error while closing client: %s", err)
		}
	}()

	// execute command
	terminal := views.NewTerminal(os.Stdin, os.Stdout)
	command := envs["COMMAND"]
	if command == "" && len(args) > 0 {
		command = args[0]
	}
	switch command {
	default:
		return errors.Errorf("unsupported command: %s", command)
	case "employees_list":
		list := views.NewList(client, terminal, logger)
		if err := list.Load(ctx); err != nil {
			return errors.New(list.ErrorMessage())
		}
		if department := envs["DEPARTMENT"]; department != "" {
			list.SetDepartment(department)
		}
		list.SetSearchTerm(envs["SEARCH_TERM"])
		return printJson(list.Employees())
	case "employees_by_department":
		employees, err := client.EmployeesByDepartment(ctx, envs["DEPARTMENT"])
		if err != nil {
			return err
		}
		return printJson(employees)
	case "employees_by_status":
		employees, err := client.EmployeesByStatus(ctx, envs["STATUS"])
		if err != nil {
			return err
		}
		return printJson(employees)
	case "employee_read":
		id, err := employeeId(envs)
		if err != nil {
			return err
		}
		detail := views.NewDetail(id, client, terminal, logger)
		if err := detail.Load(ctx); err != nil {
			return errors.New(detail.ErrorMessage())
		}
		return printJson(detail.Employee())
	case "employee_create":
		create := views.NewCreate(client, terminal, logger)
		employee := create.Employee()
		if err := employeeInput(envs, &employee); err != nil {
			return err
		}
		create.SetEmployee(employee)
		if err := create.Save(ctx); err != nil {
			return errors.New(create.ErrorMessage())
		}
		return printJson(create.Employee())
	case "employee_update":
		id, err := employeeId(envs)
		if err != nil {
			return err
		}
		edit := views.NewEdit(id, client, terminal, logger)
		if err := edit.Load(ctx); err != nil {
			return errors.New(edit.ErrorMessage())
		}
		employee := edit.Employee()
		if err := employeeInput(envs, &employee); err != nil {
			return err
		}
		edit.SetEmployee(employee)
		if err := edit.Save(ctx); err != nil {
			return errors.New(edit.ErrorMessage())
		}
		return printJson(edit.Employee())
	case "employee_delete":
		id, err := employeeId(envs)
		if err != nil {
			return err
		}
		return views.NewDetail(id, client, terminal, logger).Delete(ctx)
	case "employees_export":
		file := envs["EXPORT_FILE"]
		if file == "" {
			file = "employees.xlsx"
		}
		list := views.NewList(client, logger)
		if err := list.Load(ctx); err != nil {
			return errors.New(list.ErrorMessage())
		}
		if department := envs["DEPARTMENT"]; department != "" {
			list.SetDepartment(department)
		}
		list.SetSearchTerm(envs["SEARCH_TERM"])
		f, err := os.Create(file)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.EmployeesXlsx(f, list.Employees()); err != nil {
			return err
		}
		logger.Info(ctx, "exported employees to %s", file)
	}
	return nil
}
