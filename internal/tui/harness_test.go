package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brizzai/hotel-console/internal/auth"
	"github.com/brizzai/hotel-console/internal/authapi"
	"github.com/brizzai/hotel-console/internal/config"
	"github.com/brizzai/hotel-console/internal/requester"
	"github.com/brizzai/hotel-console/internal/services"
	"github.com/brizzai/hotel-console/internal/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

// backend fakes the auth service and the listing services on one server.
type backend struct {
	mu        sync.Mutex
	exchanges int
	requests  []string
	profile   map[string]interface{}
	photo     string
	srv       *httptest.Server
}

func (b *backend) record(r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, r.Method+" "+r.URL.RequestURI())
}

func (b *backend) seen(prefix string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, r := range b.requests {
		if strings.HasPrefix(r, prefix) {
			return true
		}
	}
	return false
}

func (b *backend) exchangeCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.exchanges
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{profile: map[string]interface{}{
		"id": "42", "email": "a@b.com", "username": "ann", "fullName": "Ann Example", "roles": []string{"USER"},
	}}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/auth/login/send-otp", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "OTP sent"})
	})
	mux.HandleFunc("POST /api/v1/auth/login/verify-otp", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["otp"] != "123456" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid OTP"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"accessToken": "tok1", "refreshToken": "r1"})
	})
	mux.HandleFunc("GET /api/v1/auth/callback/tokens", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.exchanges++
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"accessToken": "tok2", "refreshToken": "r2"})
	})
	mux.HandleFunc("POST /api/v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "bye"})
	})
	mux.HandleFunc("GET /api/v1/profile", func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("Authorization") {
		case "Bearer tok1", "Bearer tok2":
			b.mu.Lock()
			profile := map[string]interface{}{}
			for k, v := range b.profile {
				profile[k] = v
			}
			b.mu.Unlock()
			writeJSON(w, http.StatusOK, profile)
		default:
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
		}
	})
	mux.HandleFunc("PUT /api/v1/profile", func(w http.ResponseWriter, r *http.Request) {
		var update map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&update)
		b.mu.Lock()
		for k, v := range update {
			b.profile[k] = v
		}
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"message": "Profile updated"})
	})
	mux.HandleFunc("POST /api/v1/profile/upload-image", func(w http.ResponseWriter, r *http.Request) {
		_, header, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "No file"})
			return
		}
		b.mu.Lock()
		b.photo = header.Filename
		b.profile["profilePhotoUrl"] = "https://cdn.example.com/" + header.Filename
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"message": "Uploaded"})
	})
	mux.HandleFunc("DELETE /api/v1/profile/delete-image", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		delete(b.profile, "profilePhotoUrl")
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
	})
	mux.HandleFunc("GET /api/hotels/my-hotels", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data": []map[string]interface{}{
				{"hotelId": "h1", "hotelName": "Grand", "hotelLocation": "Budapest"},
				{"hotelId": "h2", "hotelName": "Overlook", "hotelLocation": "Colorado"},
			},
		})
	})
	mux.HandleFunc("DELETE /api/hotels/delete/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	})
	mux.HandleFunc("GET /api/hotels/public/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "h1" {
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": false, "error": "Hotel not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": map[string]interface{}{
			"hotelId": "h1", "hotelName": "Grand", "hotelLocation": "Budapest", "amenities": []string{"Spa", "Funicular"},
		}})
	})
	mux.HandleFunc("GET /api/rooms/public/all", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data": []map[string]interface{}{
				{"roomId": "r1", "roomName": "Suite", "numberOfRooms": 4},
				{"roomId": "r2", "roomName": "Single"},
			},
		})
	})
	mux.HandleFunc("GET /api/availability/check/{roomId}", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": map[string]interface{}{
			"roomId": r.PathValue("roomId"), "checkIn": q.Get("checkIn"), "checkOut": q.Get("checkOut"),
			"requestedRooms": 1, "isAvailable": true,
		}})
	})
	mux.HandleFunc("GET /api/availability/calendar/{roomId}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": map[string]int{
			"2030-01-02": 0, "2030-01-01": 3,
		}})
	})
	mux.HandleFunc("GET /api/bookings/my-bookings", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    []map[string]interface{}{{"bookingId": "b1", "hotelName": "Grand", "bookingStatus": "CONFIRMED"}},
		})
	})
	mux.HandleFunc("PUT /api/bookings/cancel/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	})

	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

type fakeNavigator struct {
	opened []string
	err    error
}

func (f *fakeNavigator) Open(target string) error {
	f.opened = append(f.opened, target)
	return f.err
}

// newDeps wires the router's collaborators against b, landing on landing.
func newDeps(t *testing.T, b *backend, landing string) *Deps {
	t.Helper()
	cfg := &config.Config{LandingURL: landing, RequestTimeout: 5 * time.Second}
	cfg.Endpoints.Auth.BaseURL = b.srv.URL + "/api/v1"
	cfg.Endpoints.Hotels.BaseURL = b.srv.URL + "/api/hotels"
	cfg.Endpoints.Rooms.BaseURL = b.srv.URL + "/api/rooms"
	cfg.Endpoints.Bookings.BaseURL = b.srv.URL + "/api/bookings"
	cfg.Endpoints.Availability.BaseURL = b.srv.URL + "/api/availability"
	cfg.OAuth.Provider = "google"
	cfg.OAuth.CallbackURL = config.DefaultCallbackURL

	httpClient := requester.NewHTTPClient(cfg.RequestTimeout, nil)
	api := authapi.NewClient(httpClient, cfg)
	store := session.NewStore(api, cfg.RequestTimeout)
	t.Cleanup(store.Wait)

	flows, err := auth.NewFlows(auth.FlowsParams{
		Config:    cfg,
		API:       api,
		Session:   store,
		Navigator: &fakeNavigator{},
	})
	require.NoError(t, err)

	return &Deps{
		Session:     store,
		Flows:       flows,
		Clients:     services.NewClients(services.NewGateways(httpClient, cfg, store)),
		Account:     api,
		DefaultView: DefaultView,
	}
}

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(AppModel)
	require.True(t, ok)
	return out, cmd
}

// settle waits for the store's background work and delivers the resulting
// state, the way the program subscription would.
func settle(t *testing.T, m AppModel) AppModel {
	t.Helper()
	m.deps.Session.Wait()
	m, _ = update(t, m, SessionMsg{State: m.deps.Session.GetState()})
	return m
}

// boot runs the start-up command: redirect completion then bootstrap.
func boot(t *testing.T, m AppModel) AppModel {
	t.Helper()
	m, _ = update(t, m, m.completeRedirect(true)())
	return settle(t, m)
}

func typeText(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
)

// signIn walks the login flow with the correct code.
func signIn(t *testing.T, m AppModel) AppModel {
	t.Helper()
	m, _ = update(t, m, typeText("a@b.com"))
	m, cmd := update(t, m, enterKey)
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	m, _ = update(t, m, typeText("123456"))
	m, cmd = update(t, m, enterKey)
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	return settle(t, m)
}
