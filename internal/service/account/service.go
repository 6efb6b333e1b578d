package account

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
	repo "github.com/Additional-Code/storefront/internal/repository/account"
	"github.com/Additional-Code/storefront/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/storefront/service/account")

// Service encapsulates business logic around customer accounts.
// Credential rows are never cached.
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

// List returns all accounts in insertion order.
func (s *Service) List(ctx context.Context) ([]entity.CustomerAccount, error) {
	ctx, span := serviceTracer.Start(ctx, "AccountService.List")
	defer span.End()

	accounts, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list accounts", errorbank.WithCause(err))
	}
	return accounts, nil
}

// Create persists a new account. Usernames are unique storewide.
func (s *Service) Create(ctx context.Context, account *entity.CustomerAccount) error {
	if account == nil {
		return errorbank.BadRequest("account payload is required")
	}
	ctx, span := serviceTracer.Start(ctx, "AccountService.Create", trace.WithAttributes(attribute.String("account.username", account.Username)))
	defer span.End()

	if err := s.repo.Create(ctx, account); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return s.mapWriteError("failed to create account", err)
	}

	s.publishChange(ctx, event.ActionCreated, account.ID)
	return nil
}

// Update overwrites an existing account in full.
func (s *Service) Update(ctx context.Context, account *entity.CustomerAccount) error {
	if account == nil {
		return errorbank.BadRequest("account payload is required")
	}
	ctx, span := serviceTracer.Start(ctx, "AccountService.Update", trace.WithAttributes(attribute.Int64("account.id", account.ID)))
	defer span.End()

	if err := s.repo.Update(ctx, account); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return s.mapWriteError("failed to update account", err)
	}

	s.publishChange(ctx, event.ActionUpdated, account.ID)
	return nil
}

// Delete removes an account by id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := serviceTracer.Start(ctx, "AccountService.Delete", trace.WithAttributes(attribute.Int64("account.id", id)))
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return s.mapWriteError("failed to delete account", err)
	}

	s.publishChange(ctx, event.ActionDeleted, id)
	return nil
}

func (s *Service) mapWriteError(message string, err error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return errorbank.NotFound("account not found")
	case errors.Is(err, database.ErrUniqueViolation):
		return errorbank.Conflict("username is already taken")
	case errors.Is(err, database.ErrForeignKeyViolation):
		return errorbank.Unprocessable("referenced customer does not exist")
	default:
		return errorbank.Internal(message, errorbank.WithCause(err))
	}
}

func (s *Service) publishChange(ctx context.Context, action string, id int64) {
	if !s.publish || s.publisher == nil {
		return
	}
	change := event.Change{Entity: "account", Action: action, ID: id, At: time.Now().UTC()}
	payload, err := json.Marshal(change)
	if err != nil {
		s.logger.Error("marshal account change", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, []byte(fmt.Sprintf("account-%d", id)), payload); err != nil {
		s.logger.Error("publish account change", zap.Error(err))
	}
}
