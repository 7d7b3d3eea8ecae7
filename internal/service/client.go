package service

import (
	"context"
	"errors"
	"time"

	"github.com/maxviazov/clients-service/internal/model"
	"github.com/maxviazov/clients-service/internal/repository"
	"github.com/rs/zerolog"
)

// clientService holds client use-case logic: validation, existence checks and error shaping.
type clientService struct {
	repo     repository.ClientRepository
	log      zerolog.Logger
	observer QueryObserver
}

// NewClientService wires the use cases over repo. observer may be nil when metrics are off.
func NewClientService(repo repository.ClientRepository, logger zerolog.Logger, observer QueryObserver) ClientService {
	l := logger.With().Str("module", "service").Str("component", "client").Logger()
	return &clientService{repo: repo, log: l, observer: observer}
}

// observe reports how long a store call took under a stable operation name.
func (s *clientService) observe(op string, start time.Time) {
	if s.observer != nil {
		s.observer.ObserveQuery(op, time.Since(start))
	}
}

func (s *clientService) Create(ctx context.Context, in model.CreateClientInput) (model.Client, error) {
	in, err := ValidateCreate(in)
	if err != nil {
		s.log.Debug().Interface("field_errors", FieldErrors(err)).Msg("client validation failed")
		return model.Client{}, err
	}

	start := time.Now()
	out, err := s.repo.Create(ctx, in)
	s.observe("create", start)
	if err != nil {
		s.log.Error().Err(err).Msg("create client failed")
		return model.Client{}, newInvalidRequest("unable to create client")
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("client_id", out.ID).Msg("client created")
	return out, nil
}

func (s *clientService) List(ctx context.Context) ([]model.Client, error) {
	start := time.Now()
	out, err := s.repo.ListAll(ctx)
	s.observe("list_all", start)
	if err != nil {
		s.log.Error().Err(err).Msg("list clients failed")
		return nil, err
	}
	return out, nil
}

// FindOne never reaches the store for non-positive ids since those are never assigned.
func (s *clientService) FindOne(ctx context.Context, id int64) (model.Client, error) {
	if id <= 0 {
		return model.Client{}, &NotFoundError{ID: id}
	}
	start := time.Now()
	out, err := s.repo.GetByID(ctx, id)
	s.observe("get_by_id", start)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Client{}, &NotFoundError{ID: id}
		}
		s.log.Error().Err(err).Int64("client_id", id).Msg("get client failed")
		return model.Client{}, err
	}
	return out, nil
}

// Update returns the row as stored after the write. An empty patch returns the current row.
func (s *clientService) Update(ctx context.Context, id int64, in model.UpdateClientInput) (model.Client, error) {
	in, err := ValidateUpdate(in)
	if err != nil {
		s.log.Debug().Int64("client_id", id).Interface("field_errors", FieldErrors(err)).Msg("client validation failed")
		return model.Client{}, err
	}

	current, err := s.FindOne(ctx, id)
	if err != nil {
		return model.Client{}, err
	}
	if in.IsEmpty() {
		return current, nil
	}

	start := time.Now()
	out, err := s.repo.UpdateByID(ctx, id, in)
	s.observe("update", start)
	if err != nil {
		// deleted between the lookup and the write
		if errors.Is(err, repository.ErrNotFound) {
			return model.Client{}, &NotFoundError{ID: id}
		}
		s.log.Error().Err(err).Int64("client_id", id).Msg("update client failed")
		return model.Client{}, newInvalidRequest("unable to update client %d", id)
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("client_id", id).Msg("client updated")
	return out, nil
}

func (s *clientService) Remove(ctx context.Context, id int64) error {
	if _, err := s.FindOne(ctx, id); err != nil {
		return err
	}

	start := time.Now()
	n, err := s.repo.DeleteByID(ctx, id)
	s.observe("delete", start)
	if err != nil {
		s.log.Error().Err(err).Int64("client_id", id).Msg("delete client failed")
		return newInvalidRequest("unable to delete client %d", id)
	}
	if n == 0 {
		return &NotFoundError{ID: id}
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("client_id", id).Msg("client deleted")
	return nil
}

func (s *clientService) FindAllPaginated(ctx context.Context, q ListQuery) (PageResult, error) {
	cq, err := normalizeListQuery(q)
	if err != nil {
		s.log.Debug().Err(err).Str("sort", q.Sort).Str("order", q.Order).Msg("rejected listing query")
		return PageResult{}, err
	}

	start := time.Now()
	res, err := s.repo.ListPaginated(ctx, cq)
	s.observe("list_paginated", start)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidSort) {
			return PageResult{}, newInvalidRequest("invalid sort field %q", q.Sort)
		}
		s.log.Error().Err(err).
			Int("limit", cq.Page.Limit).
			Int("offset", cq.Page.Offset).
			Str("sort", string(cq.SortField)).
			Msg("paginated listing failed")
		return PageResult{}, err
	}
	return PageResult{Data: res.Items, Total: res.Total}, nil
}
