package support

import "go.uber.org/fx"

// Module exposes the ticket lifecycle service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
