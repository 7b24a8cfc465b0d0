package contract

import "go.uber.org/fx"

// Module provides the contract checker
var Module = fx.Module("contract",
	fx.Provide(NewChecker),
)
