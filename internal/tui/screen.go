package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// screen is one mounted view of the signed-in console.
type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (screen, tea.Cmd)
	View() string
	// Title is shown in the page header.
	Title() string
	// Capturing reports whether a text field has focus, in which case plain
	// letter keys belong to the screen.
	Capturing() bool
}

// newScreen mounts v. Each mount gets a fresh id so late responses for an
// unmounted screen can be recognized.
func newScreen(v View, id int, deps *Deps, status string) screen {
	switch v {
	case ViewHotels:
		return newRecordsPage(id, hotelsSource(deps.Clients), status)
	case ViewRooms:
		return newRecordsPage(id, roomsSource(deps.Clients), status)
	case ViewBookings:
		return newRecordsPage(id, bookingsSource(deps.Clients), status)
	case ViewAvailability:
		return newAvailabilityPage(id, deps.Clients)
	case ViewSearchHotels:
		return newHotelSearchPage(id, deps.Clients)
	case ViewSearchRooms:
		return newRoomSearchPage(id, deps.Clients)
	case ViewProfile:
		return newProfileView(id, deps.Session, deps.Account, status)
	case ViewCreateHotel:
		return newCreateHotelPage(id, deps.Clients)
	case ViewCreateRoom:
		return newCreateRoomPage(id, deps.Clients)
	case ViewEditProfile:
		return newEditProfilePage(id, deps.Session, deps.Account)
	default:
		panic("tui: unhandled view " + v.String())
	}
}
