package thread

import "go.uber.org/fx"

// Module exposes the messaging service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
