package customer

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
	repo "github.com/Additional-Code/storefront/internal/repository/customer"
	"github.com/Additional-Code/storefront/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/storefront/service/customer")

const listCacheKey = "customers:list"

// Service encapsulates business logic around customers.
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

// List returns all customers, consulting the list cache when available.
func (s *Service) List(ctx context.Context) ([]entity.Customer, error) {
	ctx, span := serviceTracer.Start(ctx, "CustomerService.List")
	defer span.End()

	if customers, err := s.listFromCache(ctx); err == nil {
		return customers, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("customers cache read failed", zap.Error(err))
	}

	customers, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list customers", errorbank.WithCause(err))
	}

	if err := s.storeListInCache(ctx, customers); err != nil {
		s.logger.Warn("customers cache write failed", zap.Error(err))
	}

	return customers, nil
}

// Create persists a new customer.
func (s *Service) Create(ctx context.Context, customer *entity.Customer) error {
	if customer == nil {
		return errorbank.BadRequest("customer payload is required")
	}
	ctx, span := serviceTracer.Start(ctx, "CustomerService.Create", trace.WithAttributes(attribute.String("customer.name", customer.Name)))
	defer span.End()

	if err := s.repo.Create(ctx, customer); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return s.mapWriteError("failed to create customer", err)
	}

	s.afterWrite(ctx, event.ActionCreated, customer.ID)
	return nil
}

// Update overwrites an existing customer in full.
func (s *Service) Update(ctx context.Context, customer *entity.Customer) error {
	if customer == nil {
		return errorbank.BadRequest("customer payload is required")
	}
	ctx, span := serviceTracer.Start(ctx, "CustomerService.Update", trace.WithAttributes(attribute.Int64("customer.id", customer.ID)))
	defer span.End()

	if err := s.repo.Update(ctx, customer); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return s.mapWriteError("failed to update customer", err)
	}

	s.afterWrite(ctx, event.ActionUpdated, customer.ID)
	return nil
}

// Delete removes a customer by id. Dependent orders or accounts are not
// cascaded; the engine's foreign key policy decides whether this succeeds.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := serviceTracer.Start(ctx, "CustomerService.Delete", trace.WithAttributes(attribute.Int64("customer.id", id)))
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return s.mapWriteError("failed to delete customer", err)
	}

	s.afterWrite(ctx, event.ActionDeleted, id)
	return nil
}

func (s *Service) mapWriteError(message string, err error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return errorbank.NotFound("customer not found")
	case errors.Is(err, database.ErrUniqueViolation):
		return errorbank.Conflict("customer already exists")
	case errors.Is(err, database.ErrForeignKeyViolation):
		return errorbank.Conflict("customer is referenced by other records")
	default:
		return errorbank.Internal(message, errorbank.WithCause(err))
	}
}

func (s *Service) afterWrite(ctx context.Context, action string, id int64) {
	if err := s.cache.Delete(ctx, listCacheKey); err != nil {
		s.logger.Warn("customers cache invalidation failed", zap.Error(err))
	}
	s.publishChange(ctx, action, id)
}

func (s *Service) publishChange(ctx context.Context, action string, id int64) {
	if !s.publish || s.publisher == nil {
		return
	}
	change := event.Change{Entity: "customer", Action: action, ID: id, At: time.Now().UTC()}
	payload, err := json.Marshal(change)
	if err != nil {
		s.logger.Error("marshal customer change", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, []byte(fmt.Sprintf("customer-%d", id)), payload); err != nil {
		s.logger.Error("publish customer change", zap.Error(err))
	}
}

func (s *Service) listFromCache(ctx context.Context) ([]entity.Customer, error) {
	if s.cache == nil {
		return nil, cache.ErrCacheMiss
	}
	bytes, err := s.cache.Get(ctx, listCacheKey)
	if err != nil {
		return nil, err
	}
	var customers []entity.Customer
	if err := json.Unmarshal(bytes, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (s *Service) storeListInCache(ctx context.Context, customers []entity.Customer) error {
	if s.cache == nil {
		return nil
	}
	bytes, err := json.Marshal(customers)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, listCacheKey, bytes, s.cacheTTL)
}
