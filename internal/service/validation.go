package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/maxviazov/clients-service/internal/model"
	"github.com/maxviazov/clients-service/internal/repository"
)

const (
	defaultPage  = 1
	defaultSort  = repository.SortByCreatedAt
	defaultOrder = "DESC"
)

// payloadValidator reports fields by their JSON names so callers see the names they sent.
var payloadValidator = newPayloadValidator()

func newPayloadValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validatePayload runs struct tags and folds every failure into one aggregated error.
func validatePayload(payload any) error {
	err := payloadValidator.Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ferrs := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		ferrs = append(ferrs, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return newInvalidInput(ferrs)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Param() == "1" {
			return "must not be empty"
		}
		return fmt.Sprintf("length must be >= %s", fe.Param())
	case "max":
		return fmt.Sprintf("length must be <= %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

// ValidateCreate checks every field of a creation payload. Values are stored as sent.
func ValidateCreate(in model.CreateClientInput) (model.CreateClientInput, error) {
	return in, validatePayload(in)
}

// ValidateUpdate checks only the fields present in a partial update.
func ValidateUpdate(in model.UpdateClientInput) (model.UpdateClientInput, error) {
	return in, validatePayload(in)
}

// normalizeListQuery turns raw listing parameters into a store query.
// A page below 1 or a missing limit falls back to the defaults; an unknown sort field or order is rejected.
func normalizeListQuery(q ListQuery) (repository.ClientQuery, error) {
	page := q.Page
	if page < 1 {
		page = defaultPage
	}
	limit := q.Limit
	if limit < 1 {
		limit = repository.DefaultPageLimit
	}

	field := defaultSort
	if s := strings.TrimSpace(q.Sort); s != "" {
		f, ok := repository.ParseSortField(s)
		if !ok {
			return repository.ClientQuery{}, newInvalidRequest("invalid sort field %q", s)
		}
		field = f
	}

	order := strings.ToUpper(strings.TrimSpace(q.Order))
	if order == "" {
		order = defaultOrder
	}
	if order != "ASC" && order != "DESC" {
		return repository.ClientQuery{}, newInvalidRequest("invalid sort order %q", q.Order)
	}

	return repository.ClientQuery{
		Page:       repository.Page{Limit: limit, Offset: (page - 1) * limit},
		SortField:  field,
		Desc:       order == "DESC",
		NameFilter: strings.TrimSpace(q.NameFilter),
	}, nil
}
