package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/brizzai/hotel-console/internal/requester"
)

var (
	routeMyBookings = &requester.RouteConfig{
		Path: "/my-bookings", Method: http.MethodGet, Description: "List the user's bookings",
	}
	routeCancelBooking = &requester.RouteConfig{
		Path: "/cancel/{id}", Method: http.MethodPut, Description: "Cancel a booking",
		MethodConfig: requester.MethodConfig{QueryParams: []string{"cancellationReason"}},
	}
	routeCheckAvailable = &requester.RouteConfig{
		Path: "/check/{roomId}", Method: http.MethodGet, Description: "Check room availability",
		MethodConfig: requester.MethodConfig{QueryParams: []string{"checkIn", "checkOut", "numberOfRooms"}},
	}
)

type Booking struct {
	BookingID          string   `json:"bookingId" yaml:"booking_id"`
	HotelName          string   `json:"hotelName,omitempty" yaml:"hotel_name,omitempty"`
	RoomName           string   `json:"roomName,omitempty" yaml:"room_name,omitempty"`
	FirstName          string   `json:"firstName,omitempty" yaml:"first_name,omitempty"`
	LastName           string   `json:"lastName,omitempty" yaml:"last_name,omitempty"`
	Email              string   `json:"email,omitempty" yaml:"email,omitempty"`
	CheckInDate        string   `json:"checkInDate,omitempty" yaml:"check_in_date,omitempty"`
	CheckOutDate       string   `json:"checkOutDate,omitempty" yaml:"check_out_date,omitempty"`
	NumberOfRooms      int      `json:"numberOfRooms,omitempty" yaml:"number_of_rooms,omitempty"`
	TotalAmount        *float64 `json:"totalAmount,omitempty" yaml:"total_amount,omitempty"`
	BookingStatus      string   `json:"bookingStatus,omitempty" yaml:"booking_status,omitempty"`
	ConfirmationCode   string   `json:"confirmationCode,omitempty" yaml:"confirmation_code,omitempty"`
	CancellationReason string   `json:"cancellationReason,omitempty" yaml:"cancellation_reason,omitempty"`
}

// Guest is the booking's guest name.
func (b Booking) Guest() string {
	return strings.TrimSpace(b.FirstName + " " + b.LastName)
}

// Bookings is the booking service client.
type Bookings struct {
	gw *requester.HTTPRequester
}

func NewBookings(gw *requester.HTTPRequester) *Bookings {
	return &Bookings{gw: gw}
}

// Mine lists the bookings made against the signed-in user's listings.
func (b *Bookings) Mine(ctx context.Context) ([]Booking, error) {
	return call[[]Booking](ctx, b.gw, routeMyBookings, nil, "Failed to fetch bookings")
}

// Cancel cancels a booking; the service requires a reason.
func (b *Bookings) Cancel(ctx context.Context, id, reason string) error {
	reason = strings.TrimSpace(reason)
	if err := required("cancellation reason", reason); err != nil {
		return err
	}
	_, err := call[struct{}](ctx, b.gw, routeCancelBooking, map[string]interface{}{
		"id":                 id,
		"cancellationReason": reason,
	}, "Failed to cancel booking")
	return err
}
