package tui

import (
	"context"

	"go.uber.org/fx"
)

// Module provides the terminal program
var Module = fx.Module("tui",
	fx.Provide(NewProgram),
	fx.Invoke(func(lc fx.Lifecycle, p *Program) {
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error { return p.Start() },
			OnStop:  p.Stop,
		})
	}),
)
