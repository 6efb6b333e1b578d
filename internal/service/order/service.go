package order

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

	"github.com/Additional-Code/storefront/internal/config"
	"github.com/Additional-Code/storefront/internal/database"
	"github.com/Additional-Code/storefront/internal/entity"
	"github.com/Additional-Code/storefront/internal/event"
	"github.com/Additional-Code/storefront/internal/messaging"
	repo "github.com/Additional-Code/storefront/internal/repository/order"
	"github.com/Additional-Code/storefront/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/storefront/service/order")

// Service encapsulates business logic around orders. Order lists are not
// cached: they change whenever an association row does, so the hit rate
// would not pay for the invalidation traffic.
type Service struct {
	repo      *repo.Repository
	logger    *zap.Logger
	publisher messaging.Client
	publish   bool
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository *repo.Repository
	Config     config.Config
	Logger     *zap.Logger
	Publisher  messaging.Client
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:      p.Repository,
		logger:    p.Logger,
		publisher: p.Publisher,
		publish:   p.Config.Messaging.Enabled,
	}
}

// List returns all orders with their products eagerly loaded.
func (s *Service) List(ctx context.Context) ([]entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.List")
	defer span.End()

	orders, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list orders", errorbank.WithCause(err))
	}
	return orders, nil
}

// ListByCustomer returns one customer's orders with products eagerly loaded.
func (s *Service) ListByCustomer(ctx context.Context, customerID int64) ([]entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.ListByCustomer", trace.WithAttributes(attribute.Int64("customer.id", customerID)))
	defer span.End()

	orders, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list orders", errorbank.WithCause(err))
	}
	return orders, nil
}

// Create persists a new order along with its product associations.
func (s *Service) Create(ctx context.Context, order *entity.Order, productIDs []int64) error {
	if order == nil {
		return errorbank.BadRequest("order payload is required")
	}
	ctx, span := serviceTracer.Start(ctx, "OrderService.Create", trace.WithAttributes(attribute.Int64("order.customer_id", order.CustomerID)))
	defer span.End()

	if err := s.repo.Create(ctx, order, productIDs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return s.mapWriteError("failed to create order", err)
	}

	s.publishChange(ctx, event.ActionCreated, order.ID)
	return nil
}

// Update overwrites an existing order in full. When productIDs is non-nil
// the association set is replaced as well.
func (s *Service) Update(ctx context.Context, order *entity.Order, productIDs []int64) error {
	if order == nil {
		return errorbank.BadRequest("order payload is required")
	}
	ctx, span := serviceTracer.Start(ctx, "OrderService.Update", trace.WithAttributes(attribute.Int64("order.id", order.ID)))
	defer span.End()

	if err := s.repo.Update(ctx, order, productIDs, productIDs != nil); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return s.mapWriteError("failed to update order", err)
	}

	s.publishChange(ctx, event.ActionUpdated, order.ID)
	return nil
}

// Delete removes an order and its association rows by id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return s.mapWriteError("failed to delete order", err)
	}

	s.publishChange(ctx, event.ActionDeleted, id)
	return nil
}

func (s *Service) mapWriteError(message string, err error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return errorbank.NotFound("order not found")
	case errors.Is(err, database.ErrUniqueViolation):
		return errorbank.Conflict("order already contains that product")
	case errors.Is(err, database.ErrForeignKeyViolation):
		return errorbank.Unprocessable("referenced customer or product does not exist")
	default:
		return errorbank.Internal(message, errorbank.WithCause(err))
	}
}

func (s *Service) publishChange(ctx context.Context, action string, id int64) {
	if !s.publish || s.publisher == nil {
		return
	}
	change := event.Change{Entity: "order", Action: action, ID: id, At: time.Now().UTC()}
	payload, err := json.Marshal(change)
	if err != nil {
		s.logger.Error("marshal order change", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, []byte(fmt.Sprintf("order-%d", id)), payload); err != nil {
		s.logger.Error("publish order change", zap.Error(err))
	}
}
