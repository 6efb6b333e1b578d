package entity

import "github.com/uptrace/bun"

// Customer represents a storefront customer stored in the relational database.
type Customer struct {
	bun.BaseModel `bun:"table:customers,alias:c"`

	ID    int64  `bun:",pk,autoincrement" json:"id"`
	Name  string `bun:"name,notnull" json:"name"`
	Email string `bun:"email" json:"email"`
	Phone string `bun:"phone" json:"phone"`
}
