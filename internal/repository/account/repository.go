package account

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/storefront/internal/database"
	"github.com/Additional-Code/storefront/internal/entity"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/storefront/repository/account")

// ErrNotFound is returned when an account is missing.
var ErrNotFound = errors.New("account not found")

// Repository encapsulates read/write access for customer accounts.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// List returns every account in insertion order.
func (r *Repository) List(ctx context.Context) ([]entity.CustomerAccount, error) {
	ctx, span := repoTracer.Start(ctx, "AccountRepository.List")
	defer span.End()

	accounts := make([]entity.CustomerAccount, 0)
	err := r.reader.NewSelect().Model(&accounts).Order("id ASC").Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return accounts, nil
}

// ListByCustomer returns the accounts belonging to one customer.
func (r *Repository) ListByCustomer(ctx context.Context, customerID int64) ([]entity.CustomerAccount, error) {
	ctx, span := repoTracer.Start(ctx, "AccountRepository.ListByCustomer", trace.WithAttributes(attribute.Int64("customer.id", customerID)))
	defer span.End()

	accounts := make([]entity.CustomerAccount, 0)
	err := r.reader.NewSelect().Model(&accounts).
		Where("customer_id = ?", customerID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return accounts, nil
}

// Create persists a new account inside its own transaction.
func (r *Repository) Create(ctx context.Context, account *entity.CustomerAccount) error {
	if account == nil {
		return errors.New("nil account")
	}
	ctx, span := repoTracer.Start(ctx, "AccountRepository.Create", trace.WithAttributes(attribute.String("account.username", account.Username)))
	defer span.End()

	err := r.writer.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(account).Exec(ctx)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return database.NormalizeConstraintError(err)
	}
	return nil
}

// Update overwrites every mapped column of an existing account.
func (r *Repository) Update(ctx context.Context, account *entity.CustomerAccount) error {
	if account == nil {
		return errors.New("nil account")
	}
	ctx, span := repoTracer.Start(ctx, "AccountRepository.Update", trace.WithAttributes(attribute.Int64("account.id", account.ID)))
	defer span.End()

	err := r.writer.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().Model(account).
			Column("username", "password", "customer_id").
			WherePK().
			Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		span.SetStatus(codes.Error, "not found")
		return err
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return database.NormalizeConstraintError(err)
	}
	return nil
}

// Delete removes an account by primary key.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, span := repoTracer.Start(ctx, "AccountRepository.Delete", trace.WithAttributes(attribute.Int64("account.id", id)))
	defer span.End()

	err := r.writer.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().Model((*entity.CustomerAccount)(nil)).Where("id = ?", id).Exec(ctx)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		span.SetStatus(codes.Error, "not found")
		return err
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return database.NormalizeConstraintError(err)
	}
	return nil
}
