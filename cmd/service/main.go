package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/antonio-alexander/go-employee-records/internal"
	"github.com/antonio-alexander/go-employee-records/internal/cache"
	"github.com/antonio-alexander/go-employee-records/internal/data"
	"github.com/antonio-alexander/go-employee-records/internal/logic"
	"github.com/antonio-alexander/go-employee-records/internal/service"
	"github.com/antonio-alexander/go-employee-records/internal/sql"
	"github.com/antonio-alexander/go-employee-records/internal/utilities"

	"github.com/antonio-alexander/go-stash/memory"
	"github.com/antonio-alexander/go-stash/redis"
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
	pwd, _ := os.Getwd()
	args := os.Args[1:]
	envs := internal.Envs(".env")
	osSignal := make(chan os.Signal, 1)
	signal.Notify(osSignal, syscall.SIGINT, syscall.SIGTERM)
	if err := Main(pwd, args, envs, osSignal); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func createSql(envs map[string]string, parameters ...any) (interface {
	internal.Configurer
	internal.Opener
	sql.Sql
}, error) {
	switch databaseType := envs["DATABASE_TYPE"]; databaseType {
	default:
		return nil, errors.Errorf("unsupported database type: %s", databaseType)
	case "", "sqlite":
		return sql.NewSqlite(parameters...), nil
	case "mysql":
		return sql.NewMySql(parameters...), nil
	}
}

func createCache(envs map[string]string, parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	cache.Cache
} {
	switch envs["CACHE_TYPE"] {
	default:
		return nil
	case "memory":
		return cache.NewMemory(parameters...)
	case "redis":
		return cache.NewRedis(parameters...)
	case "stash-memory":
		stash := memory.New()
		parameters = append(parameters, stash)
		return cache.NewStash(parameters...)
	case "stash-redis":
		stash := redis.New()
		parameters = append(parameters, stash)
		return cache.NewStash(parameters...)
	}
}

func Main(pwd string, args []string, envs map[string]string, osSignal chan os.Signal) error {
	var wg sync.WaitGroup

	//create context
	ctx, cancel := internal.LaunchContext(&wg, osSignal)
	defer cancel()

	// create utilities
	logger := utilities.NewLogger()
	if err := logger.Configure(envs); err != nil {
		return err
	}

	//print version info
	logger.Info(ctx, "server: go-employee-records v%s (%s) built from: %s",
		Version, GitCommit, GitBranch)

	//create sql, configure and open
	sql, err := createSql(envs, logger)
	if err != nil {
		return err
	}
	if err := sql.Configure(envs); err != nil {
		return err
	}
	if err := sql.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if err := sql.Close(context.Background()); err != nil {
			logger.Error(context.Background(), "error while closing sql: %s", err)
		}
	}()

	// create cache, this is optional
	parameters := []any{sql, logger}
	cache := createCache(envs, logger)
	if cache != nil {
		if err := cache.Configure(envs); err != nil {
			return err
		}
		if err := cache.Open(ctx); err != nil {
			return err
		}
		defer func() {
			if err := cache.Close(context.Background()); err != nil {
				logger.Error(context.Background(), "error while closing cache: %s", err)
			}
		}()
		parameters = append(parameters, cache)
	}

	//create logic, configure and open
	logic := logic.NewLogic(parameters...)
	if err := logic.Configure(envs); err != nil {
		return err
	}
	if err := logic.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if err := logic.Close(context.Background()); err != nil {
			logger.Error(context.Background(), "error while closing logic: %s", err)
		}
	}()

	//create service, configure and open
	serviceParameters := []any{logic, logger}
	if cache != nil {
		serviceParameters = append(serviceParameters, cache)
	}
	service := service.NewService(serviceParameters...)
	if err := service.Configure(envs); err != nil {
		return err
	}
	if err := service.Open(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	wg.Wait()
	return service.Close(context.Background())
}
