package views

import (
	"context"
	"fmt"

	"github.com/antonio-alexander/go-employee-records/internal/client"
	"github.com/antonio-alexander/go-employee-records/internal/data"
	"github.com/antonio-alexander/go-employee-records/internal/utilities"

	"github.com/pkg/errors"
)

const (
	MessageConfirmDelete  string = "Are you sure you want to delete this employee?"
	MessageDeleted        string = "Employee deleted successfully!"
	MessageDeleteFailed   string = "Failed to delete employee. Please try again."
	MessageCreated        string = "Employee added successfully!"
	MessageCreateFailed   string = "Failed to add employee. Please try again."
	MessageUpdated        string = "Employee updated successfully!"
	MessageUpdateFailed   string = "Failed to update employee. Please try again."
	MessageListFailed     string = "Failed to load employees. Please try again."
	MessageEditLoadFailed string = "Failed to load employee data."
	MessageViewLoadFailed string = "Failed to load employee details."
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateErrored
)

func (s State) String() string {
	switch s {
	default:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateErrored:
		return "errored"
	}
}

type Page string

const (
	PageList Page = "list"
	PageAdd  Page = "add"
	PageView Page = "view"
	PageEdit Page = "edit"
)

// Destination is where a view asks to navigate to, Id is only set for
// pages that show a single employee
type Destination struct {
	Page Page  `json:"page"`
	Id   int64 `json:"id,omitempty"`
}

func (d Destination) String() string {
	switch d.Page {
	case PageView, PageEdit:
		return fmt.Sprintf("%s/%d", d.Page, d.Id)
	}
	return string(d.Page)
}

// Prompter is the interactive capability views use for blocking
// confirmation (i.e. before deleting) and notifications.
type Prompter interface {
	Confirm(ctx context.Context, message string) bool
	Alert(ctx context.Context, message string)
}

type Navigator interface {
	Navigate(ctx context.Context, destination Destination)
}

// view holds the dependencies shared by every view, all of them are
// provided to the constructors as parameters in any order
type view struct {
	client    client.Client
	prompter  Prompter
	navigator Navigator
	logger    utilities.Logger
}

func newView(parameters ...any) view {
	var v view

	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case client.Client:
			v.client = p
		case utilities.Logger:
			v.logger = p
		}
		if p, ok := parameter.(Prompter); ok {
			v.prompter = p
		}
		if p, ok := parameter.(Navigator); ok {
			v.navigator = p
		}
	}
	if v.logger == nil {
		v.logger = utilities.NewLogger()
	}
	return v
}

func (v *view) confirm(ctx context.Context, message string) bool {
	if v.prompter == nil {
		return false
	}
	return v.prompter.Confirm(ctx, message)
}

func (v *view) alert(ctx context.Context, message string) {
	if v.prompter != nil {
		v.prompter.Alert(ctx, message)
	}
}

func (v *view) navigate(ctx context.Context, page Page, id ...int64) {
	if v.navigator == nil {
		return
	}
	destination := Destination{Page: page}
	if len(id) > 0 {
		destination.Id = id[0]
	}
	v.navigator.Navigate(ctx, destination)
}

// writeErrorMessage returns the message the backend provided for a
// failed write (its message or its validation errors), otherwise the
// fallback
func writeErrorMessage(err error, fallback string) string {
	var e *data.Error

	if errors.As(err, &e) {
		if detail := e.Detail(); detail != "" {
			return detail
		}
	}
	return fallback
}

func copyEmployees(employees []*data.Employee) []*data.Employee {
	copies := make([]*data.Employee, 0, len(employees))
	for _, employee := range employees {
		copies = append(copies, data.CopyEmployee(employee))
	}
	return copies
}
