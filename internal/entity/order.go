package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Order is a purchase placed by a customer on a calendar date.
// Products are associated through the order_products join table.
type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID         int64     `bun:",pk,autoincrement" json:"id"`
	Date       time.Time `bun:"date,notnull" json:"date"`
	CustomerID int64     `bun:"customer_id,notnull" json:"customer_id"`

	Customer *Customer  `bun:"rel:belongs-to,join:customer_id=id" json:"-"`
	Products []*Product `bun:"m2m:order_products,join:Order=Product" json:"products"`
}

// OrderProduct is the pure join row tying an order to a product.
// The composite primary key makes each (order, product) pair unique.
type OrderProduct struct {
	bun.BaseModel `bun:"table:order_products,alias:op"`

	OrderID   int64 `bun:"order_id,pk"`
	ProductID int64 `bun:"product_id,pk"`

	Order   *Order   `bun:"rel:belongs-to,join:order_id=id"`
	Product *Product `bun:"rel:belongs-to,join:product_id=id"`
}
