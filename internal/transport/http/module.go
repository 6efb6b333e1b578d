package http

import (
	"go.uber.org/fx"

	accounttransport "github.com/Additional-Code/storefront/internal/transport/http/account"
	customertransport "github.com/Additional-Code/storefront/internal/transport/http/customer"
	ordertransport "github.com/Additional-Code/storefront/internal/transport/http/order"
	producttransport "github.com/Additional-Code/storefront/internal/transport/http/product"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	customertransport.Module,
	producttransport.Module,
	ordertransport.Module,
	accounttransport.Module,
)
