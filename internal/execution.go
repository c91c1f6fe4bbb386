package internal

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func GenerateId() string {
	return uuid.Must(uuid.NewRandom()).String()
}

// Envs builds the configuration map shared by every Configurer: values from
// the given .env files (missing files are ignored) overlaid by the process
// environment.
func Envs(files ...string) map[string]string {
	envs := make(map[string]string)
	for _, file := range files {
		values, err := godotenv.Read(file)
		if err != nil {
			continue
		}
		for key, value := range values {
			envs[key] = value
		}
	}
	for _, env := range os.Environ() {
		if s := strings.Split(env, "="); len(s) > 1 {
			envs[s[0]] = strings.Join(s[1:], "=")
		}
	}
	return envs
}

// LaunchContext returns a context that's cancelled once a signal is received
// on osSignal (or cancel is called).
func LaunchContext(wg *sync.WaitGroup, osSignal chan os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	wg.Add(1)
	go func() {
		defer wg.Done()

		select {
		case <-ctx.Done():
		case <-osSignal:
			cancel()
		}
	}()
	return ctx, cancel
}
