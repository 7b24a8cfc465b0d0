package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/brizzai/hotel-console/internal/requester"
	"github.com/brizzai/hotel-console/internal/services"
	tea "github.com/charmbracelet/bubbletea"
)

type createdMsg struct {
	id   int
	name string
	err  error
}

func (m createdMsg) owner() int { return m.id }

// CreatePage is the full-screen form that creates a hotel or a room, or
// edits the profile.
type CreatePage struct {
	id    int
	title string
	form  form
	// required are the indexes that must be filled before submitting.
	required []int
	submit   func(ctx context.Context, values []string) (string, error)
	// done is the view the user returns to after a successful save, with
	// savedFormat applied to the saved name as its status.
	done        View
	savedFormat string

	busy bool
	err  string
}

func optionalFloat(raw, name string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", name)
	}
	return &f, nil
}

func optionalInt(raw, name string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a whole number", name)
	}
	return &n, nil
}

func newCreateHotelPage(id int, c *services.Clients) CreatePage {
	return CreatePage{
		id:    id,
		title: "Create Hotel",
		form: newForm(
			field{label: "Hotel name *"},
			field{label: "Location *"},
			field{label: "Rating", placeholder: "4.5"},
			field{label: "Check-in time", placeholder: "14:00"},
			field{label: "Check-out time", placeholder: "11:00"},
			field{label: "Map link"},
		),
		required:    []int{0, 1},
		done:        ViewHotels,
		savedFormat: "Created %s",
		submit: func(ctx context.Context, v []string) (string, error) {
			rating, err := optionalFloat(v[2], "rating")
			if err != nil {
				return "", err
			}
			hotel, err := c.Hotels.Create(ctx, services.HotelDraft{
				HotelName:     v[0],
				HotelLocation: v[1],
				Rating:        rating,
				CheckinTime:   v[3],
				CheckoutTime:  v[4],
				LocationLink:  v[5],
			})
			if err != nil {
				return "", err
			}
			if hotel != nil && hotel.HotelName != "" {
				return hotel.HotelName, nil
			}
			return v[0], nil
		},
	}
}

func newCreateRoomPage(id int, c *services.Clients) CreatePage {
	return CreatePage{
		id:    id,
		title: "Create Room",
		form: newForm(
			field{label: "Hotel ID *"},
			field{label: "Room name *"},
			field{label: "Room type", placeholder: "DOUBLE"},
			field{label: "Base price", placeholder: "120"},
			field{label: "Number of rooms", placeholder: "1"},
			field{label: "Check-in time", placeholder: "14:00"},
			field{label: "Check-out time", placeholder: "11:00"},
		),
		required:    []int{0, 1},
		done:        ViewRooms,
		savedFormat: "Created %s",
		submit: func(ctx context.Context, v []string) (string, error) {
			price, err := optionalFloat(v[3], "base price")
			if err != nil {
				return "", err
			}
			count, err := optionalInt(v[4], "number of rooms")
			if err != nil {
				return "", err
			}
			room, err := c.Rooms.Create(ctx, services.RoomDraft{
				HotelID:       v[0],
				RoomName:      v[1],
				RoomType:      v[2],
				BasePrice:     price,
				NumberOfRooms: count,
				CheckinTime:   v[5],
				CheckoutTime:  v[6],
			})
			if err != nil {
				return "", err
			}
			if room != nil && room.RoomName != "" {
				return room.RoomName, nil
			}
			return v[1], nil
		},
	}
}

func (m CreatePage) Title() string   { return m.title }
func (m CreatePage) Capturing() bool { return true }
func (m CreatePage) Init() tea.Cmd   { return nil }

// Ready reports whether every required field is filled.
func (m CreatePage) Ready() bool {
	for _, i := range m.required {
		if m.form.Value(i) == "" {
			return false
		}
	}
	return true
}

func (m CreatePage) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case createdMsg:
		m.busy = false
		if msg.err != nil {
			m.err = requester.UserMessage(msg.err)
			return m, nil
		}
		return m, navigate(m.done, fmt.Sprintf(m.savedFormat, msg.name))

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, back
		case "ctrl+s":
			return m.trySubmit()
		case "enter":
			if !m.form.Last() {
				cmd := m.form.Move(1)
				return m, cmd
			}
			return m.trySubmit()
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m CreatePage) trySubmit() (screen, tea.Cmd) {
	if m.busy || !m.Ready() {
		return m, nil
	}
	m.busy = true
	m.err = ""
	id, submit, values := m.id, m.submit, m.form.Values()
	return m, func() tea.Msg {
		name, err := submit(context.Background(), values)
		return createdMsg{id: id, name: name, err: err}
	}
}

func (m CreatePage) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.title))
	sb.WriteString("\n\n")
	sb.WriteString(m.form.View())
	switch {
	case m.busy:
		sb.WriteString("Saving...\n")
	case m.err != "":
		sb.WriteString(errorMessageStyle(m.err) + "\n")
	case !m.Ready():
		sb.WriteString(helpStyle.Render("Fields marked * are required") + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("tab: Next field • ctrl+s: Save • esc: Back"))
	return docStyle.Render(sb.String())
}
