package dto_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/storefront/internal/dto"
	"github.com/Additional-Code/storefront/internal/entity"
)

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func float64Ptr(v float64) *float64 { return &v }

func TestCustomerPayloadValidate(t *testing.T) {
	tests := []struct {
		name    string
		payload dto.CustomerPayload
		fields  []string
	}{
		{
			name:    "valid",
			payload: dto.CustomerPayload{Name: strPtr("Ada"), Email: strPtr("ada@x.com"), Phone: strPtr("5551234")},
		},
		{
			name:    "all missing",
			payload: dto.CustomerPayload{},
			fields:  []string{"name", "email", "phone"},
		},
		{
			name:    "empty name",
			payload: dto.CustomerPayload{Name: strPtr(""), Email: strPtr("ada@x.com"), Phone: strPtr("5551234")},
			fields:  []string{"name"},
		},
		{
			name:    "phone too long",
			payload: dto.CustomerPayload{Name: strPtr("Ada"), Email: strPtr("ada@x.com"), Phone: strPtr(strings.Repeat("5", 16))},
			fields:  []string{"phone"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := tt.payload.Validate()
			assert.Len(t, problems, len(tt.fields))
			for _, field := range tt.fields {
				assert.Contains(t, problems, field)
			}
		})
	}
}

func TestProductPayloadValidate(t *testing.T) {
	valid := dto.ProductPayload{Name: strPtr("Widget"), Price: float64Ptr(9.99)}
	assert.Empty(t, valid.Validate())

	free := dto.ProductPayload{Name: strPtr("Sample"), Price: float64Ptr(0)}
	assert.Empty(t, free.Validate())

	negative := dto.ProductPayload{Name: strPtr("Widget"), Price: float64Ptr(-1)}
	problems := negative.Validate()
	require.Contains(t, problems, "price")
	assert.Equal(t, "must not be negative", problems["price"])

	missing := dto.ProductPayload{}
	problems = missing.Validate()
	assert.Contains(t, problems, "name")
	assert.Contains(t, problems, "price")
}

func TestOrderPayloadValidate(t *testing.T) {
	valid := dto.OrderPayload{Date: strPtr("2024-05-01"), CustomerID: int64Ptr(1)}
	assert.Empty(t, valid.Validate())

	missingDate := dto.OrderPayload{CustomerID: int64Ptr(1)}
	problems := missingDate.Validate()
	require.Contains(t, problems, "date")
	assert.Equal(t, "missing required field", problems["date"])

	badDate := dto.OrderPayload{Date: strPtr("05/01/2024"), CustomerID: int64Ptr(1)}
	problems = badDate.Validate()
	assert.Contains(t, problems, "date")

	badCustomer := dto.OrderPayload{Date: strPtr("2024-05-01"), CustomerID: int64Ptr(0)}
	problems = badCustomer.Validate()
	assert.Contains(t, problems, "customer_id")

	badProducts := dto.OrderPayload{Date: strPtr("2024-05-01"), CustomerID: int64Ptr(1), ProductIDs: []int64{1, -2}}
	problems = badProducts.Validate()
	assert.Contains(t, problems, "product_ids")
}

func TestAccountPayloadValidate(t *testing.T) {
	valid := dto.AccountPayload{Username: strPtr("ada"), Password: strPtr("secret"), CustomerID: int64Ptr(1)}
	assert.Empty(t, valid.Validate())

	missing := dto.AccountPayload{Username: strPtr("ada")}
	problems := missing.Validate()
	assert.Contains(t, problems, "password")
	assert.Contains(t, problems, "customer_id")
}

func TestOrderPayloadApply(t *testing.T) {
	payload := dto.OrderPayload{Date: strPtr("2024-05-01"), CustomerID: int64Ptr(7)}
	require.Empty(t, payload.Validate())

	var order entity.Order
	payload.Apply(&order)
	assert.Equal(t, int64(7), order.CustomerID)
	assert.Equal(t, "2024-05-01", order.Date.Format(dto.DateLayout))
}

func TestNewOrderResponseInlinesProducts(t *testing.T) {
	payload := dto.OrderPayload{Date: strPtr("2024-05-01"), CustomerID: int64Ptr(1)}
	var order entity.Order
	payload.Apply(&order)
	order.ID = 3
	order.Products = []*entity.Product{
		{ID: 1, Name: "Widget", Price: 9.99},
		{ID: 2, Name: "Gadget", Price: 24.5},
	}

	resp := dto.NewOrderResponse(&order)
	assert.Equal(t, "2024-05-01", resp.Date)
	require.Len(t, resp.Products, 2)
	assert.Equal(t, "Widget", resp.Products[0].Name)
	assert.Equal(t, 24.5, resp.Products[1].Price)
}
