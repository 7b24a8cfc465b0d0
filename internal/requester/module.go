package requester

import (
	"net/http"

	"github.com/brizzai/hotel-console/internal/config"
	"go.uber.org/fx"
)

// Module provides the shared cookie jar and HTTP client used by every gateway
var Module = fx.Options(
	fx.Provide(
		NewCookieJar,
		func(cfg *config.Config, jar http.CookieJar) *http.Client {
			return NewHTTPClient(cfg.RequestTimeout, jar)
		},
	),
)
