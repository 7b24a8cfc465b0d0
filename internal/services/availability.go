package services

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/brizzai/hotel-console/internal/requester"
)

const dateLayout = "2006-01-02"

var routeCalendar = &requester.RouteConfig{
	Path: "/calendar/{roomId}", Method: http.MethodGet, Description: "Daily availability of a room",
	MethodConfig: requester.MethodConfig{QueryParams: []string{"startDate", "endDate"}},
}

var ErrCheckOutBeforeCheckIn = errors.New("check-out date must be after check-in date")

// AvailabilityQuery asks whether NumberOfRooms rooms are free for the stay.
type AvailabilityQuery struct {
	RoomID        string
	CheckIn       time.Time
	CheckOut      time.Time
	NumberOfRooms int
}

// ParseDate parses a YYYY-MM-DD date as typed into a form.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(s))
}

type AvailabilityResult struct {
	RoomID         string `json:"roomId" yaml:"room_id"`
	CheckIn        string `json:"checkIn" yaml:"check_in"`
	CheckOut       string `json:"checkOut" yaml:"check_out"`
	RequestedRooms int    `json:"requestedRooms" yaml:"requested_rooms"`
	IsAvailable    bool   `json:"isAvailable" yaml:"is_available"`
	// Available is how the service serializes IsAvailable on some builds.
	Available bool `json:"available" yaml:"-"`
}

// Free reports whether the requested rooms are available.
func (r *AvailabilityResult) Free() bool {
	return r.IsAvailable || r.Available
}

// Availability is the availability endpoint of the booking service.
type Availability struct {
	gw *requester.HTTPRequester
}

func NewAvailability(gw *requester.HTTPRequester) *Availability {
	return &Availability{gw: gw}
}

// Check asks whether the room is free for the stay.
func (a *Availability) Check(ctx context.Context, q AvailabilityQuery) (*AvailabilityResult, error) {
	if err := required("room id", strings.TrimSpace(q.RoomID)); err != nil {
		return nil, err
	}
	if !q.CheckOut.After(q.CheckIn) {
		return nil, ErrCheckOutBeforeCheckIn
	}
	if q.NumberOfRooms <= 0 {
		q.NumberOfRooms = 1
	}
	return call[*AvailabilityResult](ctx, a.gw, routeCheckAvailable, map[string]interface{}{
		"roomId":        strings.TrimSpace(q.RoomID),
		"checkIn":       q.CheckIn.Format(dateLayout),
		"checkOut":      q.CheckOut.Format(dateLayout),
		"numberOfRooms": q.NumberOfRooms,
	}, "Failed to check availability")
}

// CalendarDay is the number of rooms still free on one date.
type CalendarDay struct {
	Date      string `json:"date" yaml:"date"`
	Available int    `json:"available" yaml:"available"`
}

// Calendar fetches the per-day free room count between start and end, ordered by date.
func (a *Availability) Calendar(ctx context.Context, roomID string, start, end time.Time) ([]CalendarDay, error) {
	roomID = strings.TrimSpace(roomID)
	if err := required("room id", roomID); err != nil {
		return nil, err
	}
	if !end.After(start) {
		return nil, ErrCheckOutBeforeCheckIn
	}
	byDate, err := call[map[string]int](ctx, a.gw, routeCalendar, map[string]interface{}{
		"roomId":    roomID,
		"startDate": start.Format(dateLayout),
		"endDate":   end.Format(dateLayout),
	}, "Failed to load availability calendar")
	if err != nil {
		return nil, err
	}
	days := make([]CalendarDay, 0, len(byDate))
	for date, n := range byDate {
		days = append(days, CalendarDay{Date: date, Available: n})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days, nil
}

// AvailabilityLevel labels how much of total is still free.
func AvailabilityLevel(available, total int) string {
	if total <= 0 {
		return "N/A"
	}
	pct := float64(available) / float64(total) * 100
	switch {
	case pct <= 0:
		return "Fully Booked"
	case pct <= 25:
		return "Limited"
	case pct <= 50:
		return "Available"
	default:
		return "Good Availability"
	}
}
