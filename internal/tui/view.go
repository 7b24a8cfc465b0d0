package tui

import (
	"fmt"

	"github.com/brizzai/hotel-console/internal/session"
)

// View identifies a screen of the signed-in console. The set is closed: a new
// screen needs a constant here, a name in viewNames and a case in newScreen.
type View int

const (
	ViewHotels View = iota
	ViewRooms
	ViewBookings
	ViewAvailability
	ViewSearchHotels
	ViewSearchRooms
	ViewProfile
	ViewCreateHotel
	ViewCreateRoom
	ViewEditProfile
)

var viewNames = [...]string{
	ViewHotels:       "hotels",
	ViewRooms:        "rooms",
	ViewBookings:     "bookings",
	ViewAvailability: "availability",
	ViewSearchHotels: "search-hotels",
	ViewSearchRooms:  "search-rooms",
	ViewProfile:      "profile",
	ViewCreateHotel:  "create-hotel",
	ViewCreateRoom:   "create-room",
	ViewEditProfile:  "edit-profile",
}

// DefaultView is shown right after sign-in unless configured otherwise.
const DefaultView = ViewHotels

func (v View) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return fmt.Sprintf("view(%d)", int(v))
	}
	return viewNames[v]
}

// ParseView maps a view identifier such as "search-rooms" to its View.
func ParseView(name string) (View, error) {
	for v, n := range viewNames {
		if n == name {
			return View(v), nil
		}
	}
	return 0, fmt.Errorf("unknown view %q", name)
}

// Views returns every view in declaration order.
func Views() []View {
	out := make([]View, len(viewNames))
	for i := range viewNames {
		out[i] = View(i)
	}
	return out
}

// FullScreen reports whether v renders without the navigation chrome.
func (v View) FullScreen() bool {
	switch v {
	case ViewProfile, ViewCreateHotel, ViewCreateRoom, ViewEditProfile:
		return true
	default:
		return false
	}
}

// NavViews are the views reachable from the header navigation.
func NavViews() []View {
	var out []View
	for _, v := range Views() {
		if !v.FullScreen() {
			out = append(out, v)
		}
	}
	return out
}

// Layout is the top-level frame the router draws.
type Layout int

const (
	LayoutLoading Layout = iota
	LayoutAuth
	LayoutFullScreen
	LayoutShell
)

func (l Layout) String() string {
	switch l {
	case LayoutLoading:
		return "loading"
	case LayoutAuth:
		return "auth"
	case LayoutFullScreen:
		return "full-screen"
	case LayoutShell:
		return "shell"
	default:
		return "unknown"
	}
}

// Route picks the layout for the session state and the selected view.
func Route(st session.State, v View) Layout {
	switch {
	case st.IsLoading:
		return LayoutLoading
	case !st.Authenticated():
		return LayoutAuth
	case v.FullScreen():
		return LayoutFullScreen
	default:
		return LayoutShell
	}
}
