package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/storefront/internal/cache"
	"github.com/Additional-Code/storefront/internal/config"
	"github.com/Additional-Code/storefront/internal/database"
	"github.com/Additional-Code/storefront/internal/entity"
	"github.com/Additional-Code/storefront/internal/event"
	"github.com/Additional-Code/storefront/internal/messaging"
	repo "github.com/Additional-Code/storefront/internal/repository/product"
	"github.com/Additional-Code/storefront/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/storefront/service/product")

const listCacheKey = "products:list"

// Service encapsulates business logic around the product catalog.
type Service struct {
	repo      *repo.Repository
	cache     cache.Store
	cacheTTL  time.Duration
	logger    *zap.Logger
	publisher messaging.Client
	publish   bool
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository *repo.Repository
	Cache      cache.Store
	Config     config.Config
	Logger     *zap.Logger
	Publisher  messaging.Client
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:      p.Repository,
		cache:     p.Cache,
		cacheTTL:  p.Config.Cache.DefaultTTL,
		logger:    p.Logger,
		publisher: p.Publisher,
		publish:   p.Config.Messaging.Enabled,
	}
}

// List returns all products, consulting the list cache when available.
func (s *Service) List(ctx context.Context) ([]entity.Product, error) {
	ctx, span := serviceTracer.Start(ctx, "ProductService.List")
	defer span.End()

	if products, err := s.listFromCache(ctx); err == nil {
		return products, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("products cache read failed", zap.Error(err))
	}

	products, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list products", errorbank.WithCause(err))
	}

	if err := s.storeListInCache(ctx, products); err != nil {
		s.logger.Warn("products cache write failed", zap.Error(err))
	}

	return products, nil
}

// Create persists a new product.
func (s *Service) Create(ctx context.Context, product *entity.Product) error {
	if product == nil {
		return errorbank.BadRequest("product payload is required")
	}
	ctx, span := serviceTracer.Start(ctx, "ProductService.Create", trace.WithAttributes(attribute.String("product.name", product.Name)))
	defer span.End()

	if err := s.repo.Create(ctx, product); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return s.mapWriteError("failed to create product", err)
	}

	s.afterWrite(ctx, event.ActionCreated, product.ID)
	return nil
}

// Update overwrites an existing product in full.
func (s *Service) Update(ctx context.Context, product *entity.Product) error {
	if product == nil {
		return errorbank.BadRequest("product payload is required")
	}
	ctx, span := serviceTracer.Start(ctx, "ProductService.Update", trace.WithAttributes(attribute.Int64("product.id", product.ID)))
	defer span.End()

	if err := s.repo.Update(ctx, product); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return s.mapWriteError("failed to update product", err)
	}

	s.afterWrite(ctx, event.ActionUpdated, product.ID)
	return nil
}

// Delete removes a product by id. Products still referenced by order
// association rows are protected by the foreign key.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := serviceTracer.Start(ctx, "ProductService.Delete", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return s.mapWriteError("failed to delete product", err)
	}

	s.afterWrite(ctx, event.ActionDeleted, id)
	return nil
}

func (s *Service) mapWriteError(message string, err error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return errorbank.NotFound("product not found")
	case errors.Is(err, database.ErrUniqueViolation):
		return errorbank.Conflict("product already exists")
	case errors.Is(err, database.ErrForeignKeyViolation):
		return errorbank.Conflict("product is referenced by orders")
	default:
		return errorbank.Internal(message, errorbank.WithCause(err))
	}
}

func (s *Service) afterWrite(ctx context.Context, action string, id int64) {
	if err := s.cache.Delete(ctx, listCacheKey); err != nil {
		s.logger.Warn("products cache invalidation failed", zap.Error(err))
	}
	s.publishChange(ctx, action, id)
}

func (s *Service) publishChange(ctx context.Context, action string, id int64) {
	if !s.publish || s.publisher == nil {
		return
	}
	change := event.Change{Entity: "product", Action: action, ID: id, At: time.Now().UTC()}
	payload, err := json.Marshal(change)
	if err != nil {
		s.logger.Error("marshal product change", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, []byte(fmt.Sprintf("product-%d", id)), payload); err != nil {
		s.logger.Error("publish product change", zap.Error(err))
	}
}

func (s *Service) listFromCache(ctx context.Context) ([]entity.Product, error) {
	if s.cache == nil {
		return nil, cache.ErrCacheMiss
	}
	bytes, err := s.cache.Get(ctx, listCacheKey)
	if err != nil {
		return nil, err
	}
	var products []entity.Product
	if err := json.Unmarshal(bytes, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Service) storeListInCache(ctx context.Context, products []entity.Product) error {
	if s.cache == nil {
		return nil
	}
	bytes, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, listCacheKey, bytes, s.cacheTTL)
}
