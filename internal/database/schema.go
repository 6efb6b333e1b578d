package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/Additional-Code/storefront/internal/entity"
)

// RegisterModels makes relation metadata available on a bun instance.
// The many-to-many join model must be registered before any query that
// traverses Order.Products.
func RegisterModels(db *bun.DB) {
	db.RegisterModel((*entity.OrderProduct)(nil))
}

type foreignKeySpec struct {
	column    string
	refTable  string
	refColumn string
}

type tableSpec struct {
	model       any
	foreignKeys []foreignKeySpec
}

func schemaTables() []tableSpec {
	return []tableSpec{
		{model: (*entity.Customer)(nil)},
		{model: (*entity.Product)(nil)},
		{
			model:       (*entity.CustomerAccount)(nil),
			foreignKeys: []foreignKeySpec{{column: "customer_id", refTable: "customers", refColumn: "id"}},
		},
		{
			model:       (*entity.Order)(nil),
			foreignKeys: []foreignKeySpec{{column: "customer_id", refTable: "customers", refColumn: "id"}},
		},
		{
			model: (*entity.OrderProduct)(nil),
			foreignKeys: []foreignKeySpec{
				{column: "order_id", refTable: "orders", refColumn: "id"},
				{column: "product_id", refTable: "products", refColumn: "id"},
			},
		},
	}
}

// createTableQuery builds the CREATE TABLE statement for one table spec.
// Foreign-key identifiers go through bun.Ident so each dialect applies
// its own quoting; hard-coded quotes would reach mysql verbatim and be
// read there as string literals.
func createTableQuery(db *bun.DB, spec tableSpec) *bun.CreateTableQuery {
	q := db.NewCreateTable().Model(spec.model).IfNotExists()
	for _, fk := range spec.foreignKeys {
		q = q.ForeignKey("(?) REFERENCES ? (?)",
			bun.Ident(fk.column), bun.Ident(fk.refTable), bun.Ident(fk.refColumn))
	}
	return q
}

// EnsureSchema creates the storefront tables and indexes when absent.
// It runs at process start and is idempotent, so existing data survives.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	for _, spec := range schemaTables() {
		if _, err := createTableQuery(db, spec).Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", spec.model, err)
		}
	}

	_, err := db.NewCreateIndex().
		Model((*entity.CustomerAccount)(nil)).
		Index("customer_accounts_username_key").
		Unique().
		Column("username").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create username index: %w", err)
	}

	return nil
}
