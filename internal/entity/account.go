package entity

import "github.com/uptrace/bun"

// CustomerAccount holds login credentials tied to a single customer.
// Username is unique across all accounts; the customer foreign key is not,
// so at-most-one-account-per-customer is a convention rather than a schema rule.
type CustomerAccount struct {
	bun.BaseModel `bun:"table:customer_accounts,alias:ca"`

	ID         int64  `bun:",pk,autoincrement" json:"id"`
	Username   string `bun:"username,notnull" json:"username"`
	Password   string `bun:"password,notnull" json:"password"`
	CustomerID int64  `bun:"customer_id,notnull" json:"customer_id"`

	Customer *Customer `bun:"rel:belongs-to,join:customer_id=id" json:"-"`
}
