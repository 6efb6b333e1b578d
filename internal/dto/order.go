package dto

import (
	"time"

	"github.com/Additional-Code/storefront/internal/entity"
)

// OrderPayload is the inbound body for order create/update. ProductIDs is
// optional; when present on update it replaces the full association set.
type OrderPayload struct {
	Date       *string `json:"date"`
	CustomerID *int64  `json:"customer_id"`
	ProductIDs []int64 `json:"product_ids"`
}

// Validate reports every offending field; an empty map means the payload is valid.
func (p OrderPayload) Validate() map[string]any {
	problems := make(map[string]any)
	requireDate(problems, "date", p.Date)
	requireID(problems, "customer_id", p.CustomerID)
	for _, id := range p.ProductIDs {
		if id <= 0 {
			problems["product_ids"] = "must contain only positive ids"
			break
		}
	}
	return problems
}

// Apply copies the validated payload onto the entity, overwriting every field.
func (p OrderPayload) Apply(o *entity.Order) {
	date, _ := time.Parse(DateLayout, *p.Date)
	o.Date = date
	o.CustomerID = *p.CustomerID
}

// OrderResponse represents an order with its products fully inlined.
type OrderResponse struct {
	ID         int64             `json:"id"`
	Date       string            `json:"date"`
	CustomerID int64             `json:"customer_id"`
	Products   []ProductResponse `json:"products"`
}

// NewOrderResponse maps a stored order and its eagerly loaded products.
func NewOrderResponse(o *entity.Order) OrderResponse {
	products := make([]ProductResponse, 0, len(o.Products))
	for _, p := range o.Products {
		products = append(products, NewProductResponse(p))
	}
	return OrderResponse{
		ID:         o.ID,
		Date:       o.Date.Format(DateLayout),
		CustomerID: o.CustomerID,
		Products:   products,
	}
}
