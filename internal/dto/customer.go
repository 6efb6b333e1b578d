package dto

import "github.com/Additional-Code/storefront/internal/entity"

// CustomerPayload is the inbound body for customer create/update.
// Pointer fields distinguish absent keys from zero values.
type CustomerPayload struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// Validate reports every offending field; an empty map means the payload is valid.
func (p CustomerPayload) Validate() map[string]any {
	problems := make(map[string]any)
	requireString(problems, "name", p.Name, maxNameLen)
	requireString(problems, "email", p.Email, maxEmailLen)
	requireString(problems, "phone", p.Phone, maxPhoneLen)
	return problems
}

// Apply copies the validated payload onto the entity, overwriting every field.
func (p CustomerPayload) Apply(c *entity.Customer) {
	c.Name = *p.Name
	c.Email = *p.Email
	c.Phone = *p.Phone
}

// CustomerResponse represents a customer as exposed via transport layers.
type CustomerResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// NewCustomerResponse maps a stored customer to its transport shape.
func NewCustomerResponse(c *entity.Customer) CustomerResponse {
	return CustomerResponse{
		ID:    c.ID,
		Name:  c.Name,
		Email: c.Email,
		Phone: c.Phone,
	}
}
