package seeder

import (
	"context"

	"github.com/uptrace/bun"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/storefront/internal/database"
	"github.com/Additional-Code/storefront/internal/entity"
)

// Module provides the seeder to Fx.
var Module = fx.Provide(New)

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	db     *bun.DB
	logger *zap.Logger
}

// New constructs a Seeder backed by the primary database connection.
func New(conns *database.Connections, logger *zap.Logger) *Seeder {
	return &Seeder{db: conns.Writer, logger: logger}
}

// Run seeds every entity type in dependency order.
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.Customers(ctx); err != nil {
		return err
	}
	return s.Products(ctx)
}

// Customers seeds example customers when the table is empty.
func (s *Seeder) Customers(ctx context.Context) error {
	count, err := s.db.NewSelect().Model((*entity.Customer)(nil)).Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	samples := []entity.Customer{
		{Name: "Ada Lovelace", Email: "ada@example.com", Phone: "5550100"},
		{Name: "Grace Hopper", Email: "grace@example.com", Phone: "5550101"},
	}
	if _, err := s.db.NewInsert().Model(&samples).Exec(ctx); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("seeded customers", zap.Int("count", len(samples)))
	}
	return nil
}

// Products seeds example products when the table is empty.
func (s *Seeder) Products(ctx context.Context) error {
	count, err := s.db.NewSelect().Model((*entity.Product)(nil)).Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	samples := []entity.Product{
		{Name: "Widget", Price: 9.99},
		{Name: "Gadget", Price: 24.5},
		{Name: "Gizmo", Price: 3.75},
	}
	if _, err := s.db.NewInsert().Model(&samples).Exec(ctx); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("seeded products", zap.Int("count", len(samples)))
	}
	return nil
}
