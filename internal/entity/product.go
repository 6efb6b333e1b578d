package entity

import "github.com/uptrace/bun"

// Product is a purchasable item in the catalog.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID    int64   `bun:",pk,autoincrement" json:"id"`
	Name  string  `bun:"name,notnull" json:"name"`
	Price float64 `bun:"price,notnull" json:"price"`
}
