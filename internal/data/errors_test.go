package data_test

import (
	"net/http"
	"testing"

	"github.com/antonio-alexander/go-employee-records/internal/data"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorDetail(t *testing.T) {
	e := data.NewError(http.StatusBadRequest, "", map[string]string{
		"salary": "salary must be greater than 0",
		"email":  "email should be valid",
	})
	assert.Equal(t, "email should be valid, salary must be greater than 0", e.Detail())
	assert.True(t, errors.Is(e, data.ErrValidation))
	assert.False(t, errors.Is(e, data.ErrNotFound))

	e = data.NewError(http.StatusConflict, "Employee with email a@b.c already exists")
	assert.Equal(t, "Employee with email a@b.c already exists", e.Detail())
	assert.True(t, errors.Is(e, data.ErrConflict))

	e = data.NewError(http.StatusNotFound, "")
	assert.Equal(t, "", e.Detail())
	assert.True(t, errors.Is(errors.Wrap(e, "read"), data.ErrNotFound))
}

func TestErrorStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, data.ErrorStatus(errors.Wrap(data.ErrNotFound, "employee 5")))
	assert.Equal(t, http.StatusBadRequest, data.ErrorStatus(&data.ValidationError{Message: "x"}))
	assert.Equal(t, http.StatusConflict, data.ErrorStatus(data.ErrConflict))
	assert.Equal(t, http.StatusTeapot, data.ErrorStatus(data.NewError(http.StatusTeapot, "")))
	assert.Equal(t, http.StatusInternalServerError, data.ErrorStatus(errors.New("boom")))
}
