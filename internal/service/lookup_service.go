package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/platform/logger"
	"github.com/phrazzld/catalog-api/internal/redact"
	"github.com/phrazzld/catalog-api/internal/store"
	"github.com/phrazzld/catalog-api/internal/validation"
)

// LookupInput carries the raw fields of a category or status.
type LookupInput struct {
	Name *string
}

// LookupService manages one kind of lookup record (categories or statuses).
type LookupService interface {
	// Kind reports which lookup records the service manages.
	Kind() domain.LookupKind

	// List returns one page of records, newest first.
	List(ctx context.Context, page int) (*domain.Page[*domain.Lookup], error)

	// Get returns store.ErrLookupNotFound if the record does not exist.
	Get(ctx context.Context, id int64) (*domain.Lookup, error)

	// Create validates and saves a new record. Returns validation.Errors for
	// a missing, overlong or duplicate name.
	Create(ctx context.Context, in LookupInput) (*domain.Lookup, error)

	// Update renames a record. The name stays required and must not be used
	// by any other record.
	Update(ctx context.Context, id int64, in LookupInput) (*domain.Lookup, error)

	// Delete removes a record. Products still referencing it keep the
	// dangling id and show a null relation afterwards.
	Delete(ctx context.Context, id int64) error
}

type lookupServiceImpl struct {
	lookups store.LookupStore
	logger  *slog.Logger
}

// NewLookupService creates a LookupService over lookups.
func NewLookupService(lookups store.LookupStore, logger *slog.Logger) LookupService {
	if logger == nil {
		logger = slog.Default()
	}
	return &lookupServiceImpl{
		lookups: lookups,
		logger:  logger.With(slog.String("component", lookups.Kind().Name+"_service")),
	}
}

func (s *lookupServiceImpl) Kind() domain.LookupKind {
	return s.lookups.Kind()
}

func (s *lookupServiceImpl) List(ctx context.Context, page int) (*domain.Page[*domain.Lookup], error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	req := domain.NewPageRequest(page, domain.LookupPageSize)
	items, total, err := s.lookups.List(ctx, req)
	if err != nil {
		log.Error("failed to list records",
			slog.String("error", redact.Error(err)),
			slog.Int("page", req.Page))
		return nil, NewServiceError("list_"+s.Kind().Name, "failed to fetch records", err)
	}
	if items == nil {
		items = []*domain.Lookup{}
	}
	return &domain.Page[*domain.Lookup]{Items: items, Meta: domain.NewPageMeta(req, total)}, nil
}

func (s *lookupServiceImpl) Get(ctx context.Context, id int64) (*domain.Lookup, error) {
	l, err := s.lookups.GetByID(ctx, id)
	if err != nil {
		if !store.IsNotFoundError(err) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to fetch record",
				slog.String("error", redact.Error(err)),
				slog.Int64("id", id))
			return nil, NewServiceError("get_"+s.Kind().Name, "failed to fetch record", err)
		}
		return nil, err
	}
	return l, nil
}

func (s *lookupServiceImpl) Create(ctx context.Context, in LookupInput) (*domain.Lookup, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.validate(ctx, in, 0); err != nil {
		return nil, err
	}

	l, err := domain.NewLookup(*in.Name)
	if err != nil {
		return nil, NewServiceError("create_"+s.Kind().Name, "invalid record", err)
	}
	if err := s.lookups.Create(ctx, l); err != nil {
		if errors.Is(err, store.ErrNameExists) {
			return nil, validation.Errors{{Field: "name", Message: validation.Taken("name")}}
		}
		log.Error("failed to create record", slog.String("error", redact.Error(err)))
		return nil, NewServiceError("create_"+s.Kind().Name, "failed to save record", err)
	}

	log.Info("record created", slog.Int64("id", l.ID), slog.String("name", l.Name))
	return l, nil
}

func (s *lookupServiceImpl) Update(ctx context.Context, id int64, in LookupInput) (*domain.Lookup, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	l, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, in, id); err != nil {
		return nil, err
	}
	if err := l.Rename(*in.Name); err != nil {
		return nil, NewServiceError("update_"+s.Kind().Name, "invalid record", err)
	}

	if err := s.lookups.Update(ctx, l); err != nil {
		switch {
		case errors.Is(err, store.ErrNameExists):
			return nil, validation.Errors{{Field: "name", Message: validation.Taken("name")}}
		case store.IsNotFoundError(err):
			return nil, err
		}
		log.Error("failed to update record", slog.String("error", redact.Error(err)), slog.Int64("id", id))
		return nil, NewServiceError("update_"+s.Kind().Name, "failed to save record", err)
	}

	log.Info("record updated", slog.Int64("id", l.ID), slog.String("name", l.Name))
	return l, nil
}

func (s *lookupServiceImpl) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.lookups.Delete(ctx, id); err != nil {
		if store.IsNotFoundError(err) {
			return err
		}
		log.Error("failed to delete record", slog.String("error", redact.Error(err)), slog.Int64("id", id))
		return NewServiceError("delete_"+s.Kind().Name, "failed to delete record", err)
	}

	log.Info("record deleted", slog.Int64("id", id))
	return nil
}

// validate checks the name rules; excludeID skips the record being updated
// in the uniqueness check.
func (s *lookupServiceImpl) validate(ctx context.Context, in LookupInput, excludeID int64) error {
	v := validation.New()
	if v.Check("name", deref(in.Name), validation.Required(), validation.MaxLength(domain.MaxNameLength)) {
		taken, err := s.lookups.ExistsByName(ctx, strings.TrimSpace(*in.Name), excludeID)
		if err != nil {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to check name uniqueness",
				slog.String("error", redact.Error(err)))
			return NewServiceError("validate_"+s.Kind().Name, "failed to check name", err)
		}
		if taken {
			v.Add("name", validation.Taken("name"))
		}
	}
	return v.Err()
}
