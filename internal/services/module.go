package services

import (
	"net/http"

	"github.com/brizzai/hotel-console/internal/config"
	"github.com/brizzai/hotel-console/internal/requester"
	"github.com/brizzai/hotel-console/internal/session"
	"go.uber.org/fx"
)

// Gateways builds one requester per collaborating service. Every gateway reads
// the bearer token from the session and clears it on a 401.
type Gateways struct {
	client  *http.Client
	cfg     *config.EndpointsConfig
	session *session.Store
}

func NewGateways(client *http.Client, cfg *config.Config, store *session.Store) *Gateways {
	return &Gateways{client: client, cfg: &cfg.Endpoints, session: store}
}

func (g *Gateways) gateway(endpoint *config.EndpointConfig) *requester.HTTPRequester {
	return requester.NewHTTPRequester(g.client, endpoint, requester.NewBearerAuthManager(g.session)).
		OnUnauthorized(g.session.Clear)
}

// Clients bundles the typed clients the screens use.
type Clients struct {
	Hotels       *Hotels
	Rooms        *Rooms
	Bookings     *Bookings
	Availability *Availability
}

func NewClients(g *Gateways) *Clients {
	return &Clients{
		Hotels:       NewHotels(g.gateway(&g.cfg.Hotels)),
		Rooms:        NewRooms(g.gateway(&g.cfg.Rooms)),
		Bookings:     NewBookings(g.gateway(&g.cfg.Bookings)),
		Availability: NewAvailability(g.gateway(&g.cfg.Availability)),
	}
}

// Module provides the collaborating service clients
var Module = fx.Options(
	fx.Provide(
		NewGateways,
		NewClients,
	),
)

// Routes lists the routes the console calls on each collaborating service.
func Routes() map[string][]*requester.RouteConfig {
	return map[string][]*requester.RouteConfig{
		"hotels":       {routeMyHotels, routeSearchHotels, routeHotelDetails, routeCreateHotel, routeDeleteHotel},
		"rooms":        {routeMyRooms, routeSearchRooms, routeAllRooms, routeRoomDetails, routeCreateRoom, routeDeleteRoom},
		"bookings":     {routeMyBookings, routeCancelBooking},
		"availability": {routeCheckAvailable, routeCalendar},
	}
}
