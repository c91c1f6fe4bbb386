package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/antonio-alexander/go-employee-records/internal"
	"github.com/antonio-alexander/go-employee-records/internal/data"

	"github.com/pkg/errors"
)

func getCorrelationId(request *http.Request) string {
	if correlationId := request.Header.Get(data.HeaderCorrelationId); correlationId != "" {
		return correlationId
	}
	return internal.GenerateId()
}

func idFromPath(pathVariables map[string]string) (int64, error) {
	id, err := strconv.ParseInt(pathVariables[data.PathId], 10, 64)
	if err != nil {
		return 0, data.NewError(http.StatusBadRequest,
			fmt.Sprintf("invalid id: %s", pathVariables[data.PathId]))
	}
	return id, nil
}

// errorResponse converts err into the error body, status is used when err
// doesn't carry one of its own
func errorResponse(err error, status int) *data.Error {
	var e *data.Error

	if errors.As(err, &e) {
		response := *e
		if response.Status == 0 {
			response.Status = status
		}
		if response.Status == 0 {
			response.Status = http.StatusInternalServerError
		}
		return &response
	}
	if status == 0 {
		status = data.ErrorStatus(err)
	}
	return &data.Error{
		Status:  status,
		Message: err.Error(),
	}
}

func (s *service) handleResponse(ctx context.Context, writer http.ResponseWriter, err error, status int, items ...any) {
	var bytes []byte

	if err == nil && len(items) > 0 {
		if bytes, err = json.Marshal(items[0]); err != nil {
			status = http.StatusInternalServerError
		}
	}
	if err != nil {
		e := errorResponse(err, status)
		if e.Status >= http.StatusInternalServerError {
			s.Error(ctx, "error while handling request: %s", err)
		} else {
			s.Debug(ctx, "request failed: %s", err)
		}
		bytes, err = json.Marshal(e)
		if err != nil {
			s.Error(ctx, "error handling response: %s", err)
			writer.WriteHeader(http.StatusInternalServerError)
			return
		}
		writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		writer.WriteHeader(e.Status)
		if _, err := writer.Write(bytes); err != nil {
			s.Error(ctx, "error handling response: %s", err)
		}
		return
	}
	if len(items) <= 0 {
		writer.WriteHeader(status)
		return
	}
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(status)
	if _, err := writer.Write(bytes); err != nil {
		s.Error(ctx, "error handling response: %s", err)
	}
}
