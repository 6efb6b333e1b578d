package dto

import "github.com/Additional-Code/storefront/internal/entity"

// AccountPayload is the inbound body for customer account create/update.
type AccountPayload struct {
	Username   *string `json:"username"`
	Password   *string `json:"password"`
	CustomerID *int64  `json:"customer_id"`
}

// Validate reports every offending field; an empty map means the payload is valid.
func (p AccountPayload) Validate() map[string]any {
	problems := make(map[string]any)
	requireString(problems, "username", p.Username, maxNameLen)
	requireString(problems, "password", p.Password, maxNameLen)
	requireID(problems, "customer_id", p.CustomerID)
	return problems
}

// Apply copies the validated payload onto the entity, overwriting every field.
func (p AccountPayload) Apply(a *entity.CustomerAccount) {
	a.Username = *p.Username
	a.Password = *p.Password
	a.CustomerID = *p.CustomerID
}

// AccountResponse represents a customer account as exposed via transport layers.
// Password is returned verbatim; credentials are stored unhashed today and
// clients read the field back, so masking it here would break them.
type AccountResponse struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	CustomerID int64  `json:"customer_id"`
}

// NewAccountResponse maps a stored account to its transport shape.
func NewAccountResponse(a *entity.CustomerAccount) AccountResponse {
	return AccountResponse{
		ID:         a.ID,
		Username:   a.Username,
		Password:   a.Password,
		CustomerID: a.CustomerID,
	}
}
