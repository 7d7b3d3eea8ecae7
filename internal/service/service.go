// Package service holds business logic orchestration across repositories and handlers.
// Kept intentionally lean: only use-case coordination, validation and domain error shaping.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/maxviazov/clients-service/internal/model"
	"github.com/maxviazov/clients-service/internal/repository"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// ErrInvalidRequest marks requests the store refused or that cannot be turned into a query.
// The message shown to callers is generic; the cause only goes to the log.
var ErrInvalidRequest = errors.New("invalid request")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

func newInvalidInput(fe []FieldError) error {
	if len(fe) == 0 {
		return nil
	}
	return &invalidInputError{fields: fe}
}

// InvalidField reports a single bad field found before the service is reached,
// such as a path id or a body that failed to decode.
func InvalidField(field, message string) error {
	return newInvalidInput([]FieldError{{Field: field, Message: message}})
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	var v interface{ Fields() []FieldError }
	if errors.As(err, &v) && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// invalidRequestError carries a caller-safe message and unwraps to ErrInvalidRequest.
type invalidRequestError struct {
	msg string
}

func (e *invalidRequestError) Error() string { return e.msg }
func (e *invalidRequestError) Unwrap() error { return ErrInvalidRequest }

func newInvalidRequest(format string, args ...any) error {
	return &invalidRequestError{msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing client by id. It matches repository.ErrNotFound under errors.Is.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("client with id %d not found", e.ID) }
func (e *NotFoundError) Unwrap() error { return repository.ErrNotFound }

// ListQuery is the raw paginated listing request as the transport received it.
// Zero values pick the defaults.
type ListQuery struct {
	Page       int
	Limit      int
	Sort       string
	Order      string
	NameFilter string
}

// PageResult is the paginated listing response: one page and the filtered total.
type PageResult struct {
	Data  []model.Client `json:"data"`
	Total int            `json:"total"`
}

// QueryObserver receives store latency per logical operation. Metrics wiring implements it.
type QueryObserver interface {
	ObserveQuery(operation string, d time.Duration)
}

// ClientService defines client-oriented use cases.
type ClientService interface {
	Create(ctx context.Context, in model.CreateClientInput) (model.Client, error)
	List(ctx context.Context) ([]model.Client, error)
	FindOne(ctx context.Context, id int64) (model.Client, error)
	Update(ctx context.Context, id int64, in model.UpdateClientInput) (model.Client, error)
	Remove(ctx context.Context, id int64) error
	FindAllPaginated(ctx context.Context, q ListQuery) (PageResult, error)
}
