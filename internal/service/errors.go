package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/geometry"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/models/todo"
	repo "github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/repository"
	"github.com/orinadjar/Ori-s-Todo-List-Hafifa/internal/spatial"
)

const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeMalformedFilter  = "MALFORMED_FILTER"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func ToDetail(key string, payload any) Detail {
	return Detail{Key: key, Payload: payload}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}
	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}
	return busErr
}

func NewNotFound(resource, id string) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %s not found", resource, id),
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func NewValidationError(field, reason string) *BusinessError {
	return &BusinessError{
		Code:    CodeValidation,
		Message: fmt.Sprintf("invalid value of '%s': %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}

// AsBusinessError classifies err into the error taxonomy exposed to clients.
// Unknown failures are treated as the store being unavailable.
func AsBusinessError(err error) *BusinessError {
	if err == nil {
		return nil
	}
	var busErr *BusinessError
	if errors.As(err, &busErr) {
		return busErr
	}

	var code, message string
	switch {
	case errors.Is(err, spatial.ErrMalformedFilter):
		code, message = CodeMalformedFilter, "filter geometry is malformed"
	case errors.Is(err, repo.ErrNotFound):
		code, message = CodeNotFound, "todo not found"
	case errors.Is(err, todo.ErrInvalid),
		errors.Is(err, repo.ErrInvalidPagination),
		errors.Is(err, geometry.ErrInvalidGeometry),
		errors.Is(err, geometry.ErrUnsupportedGeometryType):
		code, message = CodeValidation, "validation failed"
	case errors.Is(err, context.Canceled):
		code, message = CodeStoreUnavailable, "request cancelled"
	default:
		code, message = CodeStoreUnavailable, "todo store is unavailable"
	}

	busErr = NewBusinessError(code, message, ToDetail("reason", err.Error()))
	busErr.Err = err
	return busErr
}
