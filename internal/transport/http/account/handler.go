package account

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/storefront/internal/dto"
	"github.com/Additional-Code/storefront/internal/entity"
	"github.com/Additional-Code/storefront/internal/presentation/http/response"
	service "github.com/Additional-Code/storefront/internal/service/account"
	"github.com/Additional-Code/storefront/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/storefront/transport/http/account")

// Handler exposes customer account endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an account Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/accounts")
	g.GET("", h.list)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "accounts.list")
	defer span.End()

	accounts, err := h.svc.List(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}

	out := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, dto.NewAccountResponse(&accounts[i]))
	}
	return b.WithData(out).Build()
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload dto.AccountPayload
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}
	if problems := payload.Validate(); len(problems) > 0 {
		return b.WithError(errorbank.BadRequest("validation failed", errorbank.WithDetails(problems))).Build()
	}

	account := new(entity.CustomerAccount)
	payload.Apply(account)

	ctx, span := httpTracer.Start(c.Request().Context(), "accounts.create", trace.WithAttributes(attribute.String("account.username", account.Username)))
	defer span.End()

	if err := h.svc.Create(ctx, account); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(dto.MessageResponse{Message: "Account added"}).Build()
}

func (h *Handler) update(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	var payload dto.AccountPayload
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}
	if problems := payload.Validate(); len(problems) > 0 {
		return b.WithError(errorbank.BadRequest("validation failed", errorbank.WithDetails(problems))).Build()
	}

	account := &entity.CustomerAccount{ID: id}
	payload.Apply(account)

	ctx, span := httpTracer.Start(c.Request().Context(), "accounts.update", trace.WithAttributes(attribute.Int64("account.id", id)))
	defer span.End()

	if err := h.svc.Update(ctx, account); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.MessageResponse{Message: "Account updated"}).Build()
}

func (h *Handler) delete(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "accounts.delete", trace.WithAttributes(attribute.Int64("account.id", id)))
	defer span.End()

	if err := h.svc.Delete(ctx, id); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.MessageResponse{Message: "Account removed"}).Build()
}
