package product

import "go.uber.org/fx"

// Module provides the product service to Fx.
var Module = fx.Provide(NewService)
