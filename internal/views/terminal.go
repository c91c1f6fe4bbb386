package views

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Terminal prompts on a line based terminal and records where views
// navigated to, it implements both Prompter and Navigator
type Terminal struct {
	sync.Mutex
	reader       *bufio.Reader
	writer       io.Writer
	destinations []Destination
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		reader: bufio.NewReader(in),
		writer: out,
	}
}

// Confirm asks a yes/no question, anything but y or yes (including a read
// error) is a no
func (t *Terminal) Confirm(ctx context.Context, message string) bool {
	t.Lock()
	defer t.Unlock()

	fmt.Fprintf(t.writer, "%s [y/N]: ", message)
	line, err := t.reader.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(t.writer)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	default:
		return false
	case "y", "yes":
		return true
	}
}

func (t *Terminal) Alert(ctx context.Context, message string) {
	t.Lock()
	defer t.Unlock()

	fmt.Fprintln(t.writer, message)
}

func (t *Terminal) Navigate(ctx context.Context, destination Destination) {
	t.Lock()
	defer t.Unlock()

	t.destinations = append(t.destinations, destination)
	fmt.Fprintf(t.writer, "-> %s\n", destination)
}

// Destination returns the last destination navigated to
func (t *Terminal) Destination() (Destination, bool) {
	t.Lock()
	defer t.Unlock()

	if len(t.destinations) == 0 {
		return Destination{}, false
	}
	return t.destinations[len(t.destinations)-1], true
}
