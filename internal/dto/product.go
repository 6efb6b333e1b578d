package dto

import "github.com/Additional-Code/storefront/internal/entity"

// ProductPayload is the inbound body for product create/update.
type ProductPayload struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
}

// Validate reports every offending field; an empty map means the payload is valid.
func (p ProductPayload) Validate() map[string]any {
	problems := make(map[string]any)
	requireString(problems, "name", p.Name, maxNameLen)
	if p.Price == nil {
		problems["price"] = msgRequired
	} else if *p.Price < 0 {
		problems["price"] = "must not be negative"
	}
	return problems
}

// Apply copies the validated payload onto the entity, overwriting every field.
func (p ProductPayload) Apply(prod *entity.Product) {
	prod.Name = *p.Name
	prod.Price = *p.Price
}

// ProductResponse represents a product as exposed via transport layers.
type ProductResponse struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// NewProductResponse maps a stored product to its transport shape.
func NewProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
	}
}
