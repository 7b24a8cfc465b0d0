package authapi

import "go.uber.org/fx"

// Module provides the auth service client
var Module = fx.Options(
	fx.Provide(NewClient),
)
