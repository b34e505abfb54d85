package service

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"strings"

	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/media"
	"github.com/phrazzld/catalog-api/internal/platform/logger"
	"github.com/phrazzld/catalog-api/internal/redact"
	"github.com/phrazzld/catalog-api/internal/store"
	"github.com/phrazzld/catalog-api/internal/validation"
	"github.com/shopspring/decimal"
)

// Product field names as they appear in requests and validation errors.
const (
	FieldName       = "name"
	FieldPrice      = "price"
	FieldCategoryID = "product_category_id"
	FieldStatusID   = "product_status_id"
	FieldImages     = "images"
	FieldSearch     = "search"
)

// ProductInput carries the raw product fields. Nil fields are absent.
// A non-empty Images replaces every existing image on update.
type ProductInput struct {
	Name       *string
	Price      *string
	CategoryID *string
	StatusID   *string
	Images     []media.Upload
}

// ProductQuery selects a page of the product listing.
type ProductQuery struct {
	Page       int
	Search     *string
	CategoryID *string
	StatusID   *string
}

// ProductService manages products and their images.
type ProductService interface {
	// List returns one page of products with relations and media, newest first.
	List(ctx context.Context, q ProductQuery) (*domain.Page[*domain.Product], error)

	// Get returns store.ErrProductNotFound if the product does not exist.
	Get(ctx context.Context, id int64) (*domain.Product, error)

	// Create validates the input, saves the product and stores its images
	// with their conversions before returning.
	Create(ctx context.Context, in ProductInput) (*domain.Product, error)

	// Update applies the present fields. Supplied images replace the
	// existing ones.
	Update(ctx context.Context, id int64, in ProductInput) (*domain.Product, error)

	// Delete removes the product's images, then the product.
	Delete(ctx context.Context, id int64) error
}

type productServiceImpl struct {
	tx         store.Transactor
	products   store.ProductStore
	categories store.LookupStore
	statuses   store.LookupStore
	media      store.MediaStore
	library    *media.Library
	logger     *slog.Logger
}

// NewProductService creates a ProductService.
func NewProductService(
	tx store.Transactor,
	products store.ProductStore,
	categories store.LookupStore,
	statuses store.LookupStore,
	mediaStore store.MediaStore,
	library *media.Library,
	logger *slog.Logger,
) ProductService {
	if logger == nil {
		logger = slog.Default()
	}
	return &productServiceImpl{
		tx:         tx,
		products:   products,
		categories: categories,
		statuses:   statuses,
		media:      mediaStore,
		library:    library,
		logger:     logger.With(slog.String("component", "product_service")),
	}
}

func (s *productServiceImpl) List(ctx context.Context, q ProductQuery) (*domain.Page[*domain.Product], error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	v := validation.New()
	filter := domain.ProductFilter{Search: strings.TrimSpace(deref(q.Search))}
	filter.CategoryID = optionalID(v, FieldCategoryID, q.CategoryID)
	filter.StatusID = optionalID(v, FieldStatusID, q.StatusID)
	if err := v.Err(); err != nil {
		return nil, err
	}

	req := domain.NewPageRequest(q.Page, domain.ProductPageSize)
	items, total, err := s.products.List(ctx, filter, req)
	if err != nil {
		log.Error("failed to list products", slog.String("error", redact.Error(err)), slog.Int("page", req.Page))
		return nil, NewServiceError("list_products", "failed to fetch products", err)
	}
	if items == nil {
		items = []*domain.Product{}
	}
	if err := s.loadMedia(ctx, items...); err != nil {
		log.Error("failed to load product media", slog.String("error", redact.Error(err)))
		return nil, NewServiceError("list_products", "failed to fetch product media", err)
	}

	return &domain.Page[*domain.Product]{Items: items, Meta: domain.NewPageMeta(req, total)}, nil
}

func (s *productServiceImpl) Get(ctx context.Context, id int64) (*domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("product not found", slog.Int64("product_id", id))
			return nil, err
		}
		log.Error("failed to fetch product", slog.String("error", redact.Error(err)), slog.Int64("product_id", id))
		return nil, NewServiceError("get_product", "failed to fetch product", err)
	}
	if err := s.loadMedia(ctx, p); err != nil {
		log.Error("failed to load product media", slog.String("error", redact.Error(err)), slog.Int64("product_id", id))
		return nil, NewServiceError("get_product", "failed to fetch product media", err)
	}
	return p, nil
}

func (s *productServiceImpl) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	v := validation.New()
	v.Check(FieldName, deref(in.Name), validation.Required(), validation.MaxLength(domain.MaxNameLength))
	v.Check(FieldPrice, deref(in.Price), priceRules()...)
	if err := s.checkReference(ctx, v, FieldCategoryID, deref(in.CategoryID), s.categories); err != nil {
		return nil, err
	}
	if err := s.checkReference(ctx, v, FieldStatusID, deref(in.StatusID), s.statuses); err != nil {
		return nil, err
	}
	s.library.Validate(v, FieldImages, in.Images)
	if err := v.Err(); err != nil {
		log.Debug("product input rejected", slog.String("error", err.Error()))
		return nil, err
	}

	p, err := domain.NewProduct(
		*in.Name,
		decimal.RequireFromString(strings.TrimSpace(*in.Price)),
		mustParseID(*in.CategoryID),
		mustParseID(*in.StatusID),
	)
	if err != nil {
		return nil, NewServiceError("create_product", "invalid product", err)
	}

	var attached []*domain.Media
	err = s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.products.WithTx(tx).Create(ctx, p); err != nil {
			return err
		}
		if len(in.Images) == 0 {
			return nil
		}
		items, err := s.library.Attach(ctx, s.media.WithTx(tx), p.ID, in.Images)
		if err != nil {
			return err
		}
		attached = items
		return nil
	})
	if err != nil {
		s.purge(ctx, attached)
		log.Error("failed to create product", slog.String("error", redact.Error(err)))
		return nil, NewServiceError("create_product", "failed to save product", err)
	}

	log.Info("product created", slog.Int64("product_id", p.ID), slog.Int("images", len(attached)))
	return s.Get(ctx, p.ID)
}

func (s *productServiceImpl) Update(ctx context.Context, id int64, in ProductInput) (*domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	v := validation.New()
	v.CheckOptional(FieldName, in.Name, validation.Required(), validation.MaxLength(domain.MaxNameLength))
	v.CheckOptional(FieldPrice, in.Price, priceRules()...)
	if in.CategoryID != nil {
		if err := s.checkReference(ctx, v, FieldCategoryID, *in.CategoryID, s.categories); err != nil {
			return nil, err
		}
	}
	if in.StatusID != nil {
		if err := s.checkReference(ctx, v, FieldStatusID, *in.StatusID, s.statuses); err != nil {
			return nil, err
		}
	}
	s.library.Validate(v, FieldImages, in.Images)
	if err := v.Err(); err != nil {
		log.Debug("product input rejected", slog.Int64("product_id", id), slog.String("error", err.Error()))
		return nil, err
	}

	var changes domain.ProductChanges
	changes.Name = in.Name
	if in.Price != nil {
		price := decimal.RequireFromString(strings.TrimSpace(*in.Price))
		changes.Price = &price
	}
	if in.CategoryID != nil {
		categoryID := mustParseID(*in.CategoryID)
		changes.CategoryID = &categoryID
	}
	if in.StatusID != nil {
		statusID := mustParseID(*in.StatusID)
		changes.StatusID = &statusID
	}
	if err := p.Apply(changes); err != nil {
		return nil, NewServiceError("update_product", "invalid product", err)
	}

	var attached, detached []*domain.Media
	err = s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.products.WithTx(tx).Update(ctx, p); err != nil {
			return err
		}
		if len(in.Images) == 0 {
			return nil
		}
		ms := s.media.WithTx(tx)
		old, err := s.library.Detach(ctx, ms, p.ID)
		if err != nil {
			return err
		}
		items, err := s.library.Attach(ctx, ms, p.ID, in.Images)
		if err != nil {
			return err
		}
		detached, attached = old, items
		return nil
	})
	if err != nil {
		s.purge(ctx, attached)
		if store.IsNotFoundError(err) {
			return nil, err
		}
		log.Error("failed to update product", slog.String("error", redact.Error(err)), slog.Int64("product_id", id))
		return nil, NewServiceError("update_product", "failed to save product", err)
	}
	s.purge(ctx, detached)

	log.Info("product updated", slog.Int64("product_id", p.ID), slog.Int("images", len(attached)))
	return s.Get(ctx, p.ID)
}

func (s *productServiceImpl) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var detached []*domain.Media
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		ps := s.products.WithTx(tx)
		if _, err := ps.GetByID(ctx, id); err != nil {
			return err
		}
		old, err := s.library.Detach(ctx, s.media.WithTx(tx), id)
		if err != nil {
			return err
		}
		if err := ps.Delete(ctx, id); err != nil {
			return err
		}
		detached = old
		return nil
	})
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("product not found for delete", slog.Int64("product_id", id))
			return err
		}
		log.Error("failed to delete product", slog.String("error", redact.Error(err)), slog.Int64("product_id", id))
		return NewServiceError("delete_product", "failed to delete product", err)
	}
	s.purge(ctx, detached)

	log.Info("product deleted", slog.Int64("product_id", id), slog.Int("images", len(detached)))
	return nil
}

// loadMedia attaches media with resolved URLs to every product.
func (s *productServiceImpl) loadMedia(ctx context.Context, products ...*domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]int64, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	byProduct, err := s.media.ListByProducts(ctx, ids)
	if err != nil {
		return err
	}
	for _, p := range products {
		p.Media = byProduct[p.ID]
		if p.Media == nil {
			p.Media = []*domain.Media{}
		}
		for _, m := range p.Media {
			s.library.ResolveURLs(m)
		}
	}
	return nil
}

// checkReference validates a required id field that must name an existing
// lookup record. Only store failures are returned; rule failures go to v.
// priceRules keep a price within what the price column stores.
func priceRules() []validation.Rule {
	return []validation.Rule{
		validation.Required(),
		validation.Numeric(),
		validation.MaxAbs(domain.MaxPrice),
		validation.MaxDecimalPlaces(domain.PriceScale),
	}
}

func (s *productServiceImpl) checkReference(
	ctx context.Context,
	v *validation.Validator,
	field, value string,
	lookups store.LookupStore,
) error {
	if !v.Check(field, value, validation.Required(), validation.Integer()) {
		return nil
	}
	id := mustParseID(value)
	exists, err := lookups.Exists(ctx, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to check reference",
			slog.String("field", field),
			slog.String("error", redact.Error(err)))
		return NewServiceError("validate_product", "failed to check "+field, err)
	}
	if !exists {
		v.Add(field, validation.InvalidSelection(field))
	}
	return nil
}

func (s *productServiceImpl) purge(ctx context.Context, items []*domain.Media) {
	if len(items) == 0 {
		return
	}
	if err := s.library.Purge(ctx, items); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to remove stored images",
			slog.Int64("product_id", items[0].ProductID),
			slog.String("error", redact.Error(err)))
	}
}

// optionalID parses an optional integer filter, recording a failure on v
// when it is present but malformed. Blank values are ignored.
func optionalID(v *validation.Validator, field string, value *string) *int64 {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	if !v.Check(field, *value, validation.Integer()) {
		return nil
	}
	id := mustParseID(*value)
	return &id
}

// mustParseID parses a value that already passed validation.Integer.
func mustParseID(value string) int64 {
	id, _ := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	return id
}
