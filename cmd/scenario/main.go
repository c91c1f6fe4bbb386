package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/antonio-alexander/go-employee-records/internal"
	"github.com/antonio-alexander/go-employee-records/internal/client"
	"github.com/antonio-alexander/go-employee-records/internal/data"
	"github.com/antonio-alexander/go-employee-records/internal/utilities"

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

func envDuration(envs map[string]string, key string, value time.Duration) time.Duration {
	if s := envs[key]; s != "" {
		if i, err := strconv.Atoi(s); err == nil && i > 0 {
			return time.Duration(i) * time.Second
		}
	}
	return value
}

func sampleEmployee(i int) data.Employee {
	id := internal.GenerateId()
	employee := data.NewEmployee(time.Now())
	employee.FirstName = fmt.Sprintf("First%d", i)
	employee.LastName = fmt.Sprintf("Last%d", i)
	employee.Email = fmt.Sprintf("%s@example.com", id[:12])
	employee.PhoneNumber = fmt.Sprintf("555%07d", i%10000000)
	employee.Department = data.Departments[i%len(data.Departments)]
	employee.Position = "Associate"
	employee.Salary = float64(40000 + 1000*(i%50))
	employee.Status = data.Statuses[i%len(data.Statuses)]
	return employee
}

// scenarioSeed creates sample employees, spread across departments and
// statuses
func scenarioSeed(ctx context.Context, envs map[string]string, logger utilities.Logger,
	clients ...client.Client) error {
	const correlationId string = "scenario_seed"

	count := 10
	if s := envs["SCENARIO_SEED_COUNT"]; s != "" {
		count, _ = strconv.Atoi(s)
	}
	ctx = internal.CtxWithCorrelationId(ctx, correlationId)
	for i := 0; i < count; i++ {
		employee, err := clients[i%len(clients)].EmployeeCreate(ctx, sampleEmployee(i))
		if err != nil {
			return err
		}
		logger.Info(ctx, "created employee: %d", employee.EmpNo())
	}
	return nil
}

// scenarioCacheCoherence has one client update an employee while the
// others read it concurrently, once stopped every client must read the
// last update
func scenarioCacheCoherence(ctx context.Context, envs map[string]string, logger utilities.Logger,
	clients ...client.Client) error {
	const correlationId string = "scenario_cache_coherence"
	const minClients int = 2

	var wg sync.WaitGroup
	var mu sync.Mutex
	var reads, readErrors, updates int

	readInterval := envDuration(envs, "SCENARIO_READ_INTERVAL", time.Second)
	updateInterval := envDuration(envs, "SCENARIO_UPDATE_INTERVAL", 2*time.Second)
	scenarioDuration := envDuration(envs, "SCENARIO_DURATION", 10*time.Second)
	if len(clients) < minClients {
		return errors.New("not enough clients provided")
	}

	//generate context
	ctx = internal.CtxWithCorrelationId(ctx, correlationId)

	// create employee using the first client
	employeeCreated, err := clients[0].EmployeeCreate(ctx, sampleEmployee(0))
	if err != nil {
		return err
	}
	id := employeeCreated.EmpNo()
	defer func(id int64) {
		_ = clients[0].EmployeeDelete(ctx, id)
		logger.Info(ctx, "deleted employee: %d", id)
	}(id)
	logger.Info(ctx, "created employee: %d", id)

	//generate start/stop channels
	start, stop := make(chan struct{}), make(chan struct{})
	lastPosition := employeeCreated.Position

	//create writer go routine
	wg.Add(1)
	go func(ctx context.Context, client client.Client) {
		defer wg.Done()

		tUpdate := time.NewTicker(updateInterval)
		defer tUpdate.Stop()
		<-start
		for {
			select {
			case <-stop:
				return
			case <-tUpdate.C:
				employee := *employeeCreated
				employee.Position = fmt.Sprintf("Associate %s", internal.GenerateId()[:8])
				if _, err := client.EmployeeUpdate(ctx, id, employee); err != nil {
					logger.Error(ctx, "error while updating employee: %s", err)
					continue
				}
				mu.Lock()
				lastPosition = employee.Position
				updates++
				mu.Unlock()
			}
		}
	}(ctx, clients[0])

	//create reader go routines
	for i := 1; i < len(clients); i++ {
		wg.Add(1)
		go func(ctx context.Context, clientNumber int, client client.Client) {
			defer wg.Done()

			ctx = internal.CtxWithCorrelationId(ctx,
				fmt.Sprintf("%s_%d", correlationId, clientNumber))
			tRead := time.NewTicker(readInterval)
			defer tRead.Stop()
			<-start
			for {
				select {
				case <-stop:
					return
				case <-tRead.C:
					_, err := client.EmployeeRead(ctx, id)
					mu.Lock()
					if reads++; err != nil {
						readErrors++
						logger.Error(ctx, "error while reading employee: %s", err)
					}
					mu.Unlock()
				}
			}
		}(ctx, i, clients[i])
	}
	close(start)

	//allow go routines to run
	select {
	case <-ctx.Done():
	case <-time.After(scenarioDuration):
	}

	//stop go routines
	close(stop)
	wg.Wait()
	logger.Info(ctx, "updates: %d, reads: %d (%d errors)", updates, reads, readErrors)

	//every client should read the last update
	for i, client := range clients {
		employee, err := client.EmployeeRead(ctx, id)
		if err != nil {
			return err
		}
		if employee.Position != lastPosition {
			return errors.Errorf("client %d read stale employee: %q != %q",
				i, employee.Position, lastPosition)
		}
	}
	logger.Info(ctx, "all clients read the last update")
	return nil
}

func Main(args []string, envs map[string]string, osSignal chan os.Signal) error {
	var clients []client.Client
	var wg sync.WaitGroup

	//create context
	ctx, cancel := internal.LaunchContext(&wg, osSignal)
	defer cancel()

	// create logger
	logger := utilities.NewLogger()
	_ = logger.Configure(envs)

	//print version info
	logger.Info(ctx, "scenarios: go-employee-records v%s (%s) built from: %s",
		Version, GitCommit, GitBranch)

	nClients, _ := strconv.Atoi(envs["N_CLIENTS"])
	if nClients <= 0 {
		nClients = 1
	}
	for range nClients {
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
				logger.Error(ctx, "error while closing client: %s", err)
			}
		}()
		clients = append(clients, client)
	}

	scenario := envs["SCENARIO"]
	if scenario == "" && len(args) > 0 {
		scenario = args[0]
	}
	switch scenario {
	default:
		return errors.Errorf("unsupported scenario: %s", scenario)
	case "seed":
		return scenarioSeed(ctx, envs, logger, clients...)
	case "cache_coherence":
		return scenarioCacheCoherence(ctx, envs, logger, clients...)
	}
}
