package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/brizzai/hotel-console/internal/authapi"
	"github.com/brizzai/hotel-console/internal/config"
	"github.com/brizzai/hotel-console/internal/requester"
	"github.com/brizzai/hotel-console/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth struct {
	mu      sync.Mutex
	logouts int
}

func (s *stubAuth) Profile(ctx context.Context, token string) (*authapi.Profile, error) {
	return &authapi.Profile{ID: "u1", Username: "owner"}, nil
}

func (s *stubAuth) Logout(ctx context.Context, token string) error {
	s.mu.Lock()
	s.logouts++
	s.mu.Unlock()
	return nil
}

func signedIn(t *testing.T) *session.Store {
	t.Helper()
	store := session.NewStore(&stubAuth{}, time.Second)
	store.SetToken("tok1")
	store.Wait()
	require.True(t, store.GetState().Authenticated())
	return store
}

func newClients(t *testing.T, store *session.Store, h http.HandlerFunc) *Clients {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg := &config.Config{}
	cfg.Endpoints.Hotels.BaseURL = srv.URL + "/api/hotels"
	cfg.Endpoints.Rooms.BaseURL = srv.URL + "/api/rooms"
	cfg.Endpoints.Bookings.BaseURL = srv.URL + "/api/bookings"
	cfg.Endpoints.Availability.BaseURL = srv.URL + "/api/availability"
	return NewClients(NewGateways(srv.Client(), cfg, store))
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestHotels_Mine(t *testing.T) {
	store := signedIn(t)
	c := newClients(t, store, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/hotels/my-hotels", r.URL.Path)
		assert.Equal(t, "Bearer tok1", r.Header.Get("Authorization"))
		writeJSON(w, map[string]interface{}{
			"success": true,
			"data":    []map[string]interface{}{{"hotelId": "h1", "hotelName": "Grand", "rating": 4.5}},
		})
	})

	hotels, err := c.Hotels.Mine(context.Background())
	require.NoError(t, err)
	require.Len(t, hotels, 1)
	assert.Equal(t, "Grand", hotels[0].HotelName)
	assert.InDelta(t, 4.5, *hotels[0].Rating, 0.001)
}

func TestEnvelopeRejected(t *testing.T) {
	c := newClients(t, signedIn(t), func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{"success": false})
	})
	_, err := c.Rooms.Mine(context.Background())
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "Failed to fetch rooms", requester.UserMessage(err))
}

func TestUnauthorizedClearsSession(t *testing.T) {
	store := signedIn(t)
	c := newClients(t, store, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.Bookings.Mine(context.Background())
	require.Error(t, err)
	assert.Equal(t, requester.MsgUnauthorized, requester.UserMessage(err))

	store.Wait()
	assert.Equal(t, session.State{}, store.GetState())
}

func TestAnonymousRequestOmitsHeader(t *testing.T) {
	store := session.NewStore(&stubAuth{}, time.Second)
	store.Bootstrap()
	c := newClients(t, store, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "Suite", r.URL.Query().Get("roomName"))
		writeJSON(w, map[string]interface{}{"success": true, "data": []interface{}{}})
	})
	rooms, err := c.Rooms.Search(context.Background(), " Suite ")
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestHotels_Search(t *testing.T) {
	c := newClients(t, signedIn(t), func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/hotels/public/search", r.URL.Path)
		assert.Equal(t, "Grand", r.URL.Query().Get("hotelName"))
		assert.Equal(t, "Lahore", r.URL.Query().Get("location"))
		writeJSON(w, map[string]interface{}{"success": true, "data": []interface{}{}})
	})
	_, err := c.Hotels.Search(context.Background(), HotelQuery{HotelName: "Grand", Location: "Lahore"})
	require.NoError(t, err)

	_, err = c.Hotels.Search(context.Background(), HotelQuery{})
	assert.Error(t, err)
}

func TestHotels_CreateMultipart(t *testing.T) {
	rating := 4.0
	c := newClients(t, signedIn(t), func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		var got map[string]interface{}
		assert.NoError(t, json.Unmarshal([]byte(r.FormValue("hotel")), &got))
		assert.Equal(t, "Grand", got["hotelName"])
		assert.Equal(t, "Lahore", got["hotelLocation"])
		assert.Equal(t, 4.0, got["rating"])
		writeJSON(w, map[string]interface{}{"success": true, "data": map[string]interface{}{"hotelId": "h9", "hotelName": "Grand"}})
	})
	hotel, err := c.Hotels.Create(context.Background(), HotelDraft{HotelName: "Grand", HotelLocation: "Lahore", Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, "h9", hotel.HotelID)
}

func TestRooms_CreateAndDelete(t *testing.T) {
	var paths []string
	c := newClients(t, signedIn(t), func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPost {
			assert.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Contains(t, r.FormValue("room"), `"hotelId":"h1"`)
		}
		writeJSON(w, map[string]interface{}{"success": true, "data": map[string]interface{}{"roomId": "r1"}})
	})

	room, err := c.Rooms.Create(context.Background(), RoomDraft{HotelID: "h1", RoomName: "Deluxe"})
	require.NoError(t, err)
	assert.Equal(t, "r1", room.RoomID)
	require.NoError(t, c.Rooms.Delete(context.Background(), "r1"))
	require.NoError(t, c.Hotels.Delete(context.Background(), "h1"))

	assert.Equal(t, []string{
		"POST /api/rooms/create",
		"DELETE /api/rooms/delete/r1",
		"DELETE /api/hotels/delete/h1",
	}, paths)
}

func TestBookings_Cancel(t *testing.T) {
	c := newClients(t, signedIn(t), func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/bookings/cancel/b1", r.URL.Path)
		assert.Equal(t, "plans changed", r.URL.Query().Get("cancellationReason"))
		writeJSON(w, map[string]interface{}{"success": false, "error": "Booking already cancelled"})
	})

	err := c.Bookings.Cancel(context.Background(), "b1", "plans changed")
	assert.EqualError(t, err, "Booking already cancelled")

	assert.Error(t, c.Bookings.Cancel(context.Background(), "b1", "  "))
}

func TestAvailability_Check(t *testing.T) {
	c := newClients(t, signedIn(t), func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/availability/check/r1", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "2025-03-01", q.Get("checkIn"))
		assert.Equal(t, "2025-03-04", q.Get("checkOut"))
		assert.Equal(t, "2", q.Get("numberOfRooms"))
		writeJSON(w, map[string]interface{}{"success": true, "data": map[string]interface{}{
			"roomId": "r1", "requestedRooms": 2, "available": true,
		}})
	})

	in, _ := ParseDate("2025-03-01")
	out, _ := ParseDate("2025-03-04")
	res, err := c.Availability.Check(context.Background(), AvailabilityQuery{RoomID: "r1", CheckIn: in, CheckOut: out, NumberOfRooms: 2})
	require.NoError(t, err)
	assert.True(t, res.Free())

	_, err = c.Availability.Check(context.Background(), AvailabilityQuery{RoomID: "r1", CheckIn: out, CheckOut: in})
	assert.True(t, errors.Is(err, ErrCheckOutBeforeCheckIn))
}

func TestHotelsAndRooms_Details(t *testing.T) {
	c := newClients(t, signedIn(t), func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/hotels/public/h1":
			writeJSON(w, map[string]interface{}{"success": true, "data": map[string]interface{}{
				"hotelId": "h1", "hotelName": "Grand", "amenities": []string{"Pool", "Gym"}, "extraBeds": 2,
			}})
		case "/api/rooms/public/r1":
			writeJSON(w, map[string]interface{}{"success": true, "data": map[string]interface{}{
				"roomId": "r1", "roomName": "Suite", "numberOfRooms": 4, "breakfastIncluded": true,
			}})
		case "/api/rooms/public/all":
			writeJSON(w, map[string]interface{}{"success": true, "data": []map[string]interface{}{
				{"roomId": "r1", "roomName": "Suite"}, {"roomId": "r2", "roomName": "Single"},
			}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	hotel, err := c.Hotels.Get(ctx, " h1 ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Pool", "Gym"}, hotel.Amenities)
	assert.Equal(t, 2, *hotel.ExtraBeds)

	room, err := c.Rooms.Get(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, room.BreakfastIncluded)
	assert.Equal(t, 4, room.Inventory(10))

	rooms, err := c.Rooms.All(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, 10, rooms[1].Inventory(10))

	_, err = c.Hotels.Get(ctx, "  ")
	assert.EqualError(t, err, "hotel id is required")
}

func TestAvailability_Calendar(t *testing.T) {
	c := newClients(t, signedIn(t), func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/availability/calendar/r1", r.URL.Path)
		assert.Equal(t, "2025-03-01", r.URL.Query().Get("startDate"))
		assert.Equal(t, "2025-03-03", r.URL.Query().Get("endDate"))
		writeJSON(w, map[string]interface{}{"success": true, "data": map[string]int{
			"2025-03-02": 0, "2025-03-01": 3, "2025-03-03": 1,
		}})
	})

	start, _ := ParseDate("2025-03-01")
	end, _ := ParseDate("2025-03-03")
	days, err := c.Availability.Calendar(context.Background(), "r1", start, end)
	require.NoError(t, err)
	assert.Equal(t, []CalendarDay{
		{Date: "2025-03-01", Available: 3},
		{Date: "2025-03-02", Available: 0},
		{Date: "2025-03-03", Available: 1},
	}, days)

	_, err = c.Availability.Calendar(context.Background(), "r1", end, start)
	assert.True(t, errors.Is(err, ErrCheckOutBeforeCheckIn))
}

func TestAvailabilityLevel(t *testing.T) {
	tests := []struct {
		available, total int
		want             string
	}{
		{0, 0, "N/A"},
		{0, 10, "Fully Booked"},
		{2, 10, "Limited"},
		{5, 10, "Available"},
		{6, 10, "Good Availability"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AvailabilityLevel(tt.available, tt.total), "%d/%d", tt.available, tt.total)
	}
}
