package session

import (
	"context"

	"github.com/brizzai/hotel-console/internal/authapi"
	"github.com/brizzai/hotel-console/internal/config"
	"go.uber.org/fx"
)

// Module provides the process-wide session store
var Module = fx.Options(
	fx.Provide(func(api *authapi.Client, cfg *config.Config) *Store {
		return NewStore(api, cfg.RequestTimeout)
	}),
	fx.Invoke(func(lc fx.Lifecycle, s *Store) {
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				s.Wait()
				return nil
			},
		})
	}),
)
