package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/brizzai/hotel-console/internal/requester"
	"github.com/brizzai/hotel-console/internal/services"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	availRoomID = iota
	availCheckIn
	availCheckOut
	availRooms
)

// inventoryFallback is the room count assumed when a room does not state one.
const inventoryFallback = 10

type availabilityMsg struct {
	id     int
	result *services.AvailabilityResult
	err    error
	// days is the calendar of the checked stay; calErr does not fail the check.
	days   []services.CalendarDay
	calErr error
	total  int
}

func (m availabilityMsg) owner() int { return m.id }

type pickerRoomsMsg struct {
	id    int
	rooms []services.Room
	err   error
}

func (m pickerRoomsMsg) owner() int { return m.id }

// AvailabilityPage checks whether a room is free for a stay and shows the
// daily availability of the stay. Rooms can be typed in or picked from the
// public room list.
type AvailabilityPage struct {
	id     int
	client *services.Availability
	rooms  *services.Rooms
	form   form
	busy   bool
	err    string
	result *services.AvailabilityResult

	picker    []services.Room
	picked    int
	pickerErr string

	days   []services.CalendarDay
	calErr string
	total  int
}

func newAvailabilityPage(id int, c *services.Clients) AvailabilityPage {
	return AvailabilityPage{
		id:     id,
		client: c.Availability,
		rooms:  c.Rooms,
		picked: -1,
		form: newForm(
			field{label: "Room ID", placeholder: "room id"},
			field{label: "Check-in", placeholder: "YYYY-MM-DD", charLimit: 10},
			field{label: "Check-out", placeholder: "YYYY-MM-DD", charLimit: 10},
			field{label: "Rooms", placeholder: "1", charLimit: 3},
		),
	}
}

func (m AvailabilityPage) Title() string   { return "Availability" }
func (m AvailabilityPage) Capturing() bool { return true }
func (m AvailabilityPage) Init() tea.Cmd {
	id, rooms := m.id, m.rooms
	return func() tea.Msg {
		list, err := rooms.All(context.Background())
		return pickerRoomsMsg{id: id, rooms: list, err: err}
	}
}

// pick selects the picker room delta steps away and fills in its id.
func (m *AvailabilityPage) pick(delta int) {
	n := len(m.picker)
	if n == 0 {
		return
	}
	if m.picked < 0 && delta < 0 {
		m.picked = 0
	}
	m.picked = ((m.picked+delta)%n + n) % n
	m.form.SetValue(availRoomID, m.picker[m.picked].RoomID)
}

// inventory is the number of rooms of roomID, when the picker knows it.
func (m AvailabilityPage) inventory(roomID string) int {
	for i := range m.picker {
		if m.picker[i].RoomID == roomID {
			return m.picker[i].Inventory(inventoryFallback)
		}
	}
	return inventoryFallback
}

// query validates the form into an availability query.
func (m AvailabilityPage) query() (services.AvailabilityQuery, error) {
	q := services.AvailabilityQuery{RoomID: m.form.Value(availRoomID), NumberOfRooms: 1}
	var err error
	if q.CheckIn, err = services.ParseDate(m.form.Value(availCheckIn)); err != nil {
		return q, errors.New("check-in date must be YYYY-MM-DD")
	}
	if q.CheckOut, err = services.ParseDate(m.form.Value(availCheckOut)); err != nil {
		return q, errors.New("check-out date must be YYYY-MM-DD")
	}
	if raw := m.form.Value(availRooms); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return q, errors.New("number of rooms must be a positive number")
		}
		q.NumberOfRooms = n
	}
	return q, nil
}

func (m AvailabilityPage) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case pickerRoomsMsg:
		if msg.err != nil {
			m.pickerErr = requester.UserMessage(msg.err)
			return m, nil
		}
		m.picker = msg.rooms
		return m, nil

	case availabilityMsg:
		m.busy = false
		m.days, m.calErr, m.total = nil, "", msg.total
		if msg.err != nil {
			m.err = requester.UserMessage(msg.err)
			m.result = nil
			return m, nil
		}
		m.err = ""
		m.result = msg.result
		m.days = msg.days
		if msg.calErr != nil {
			m.calErr = requester.UserMessage(msg.calErr)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "pgdown":
			m.pick(1)
			return m, nil
		case "pgup":
			m.pick(-1)
			return m, nil
		}
		if msg.String() == "enter" {
			if m.busy {
				return m, nil
			}
			q, err := m.query()
			if err != nil {
				m.err = err.Error()
				m.result = nil
				return m, nil
			}
			m.busy = true
			id, client, total := m.id, m.client, m.inventory(q.RoomID)
			return m, func() tea.Msg {
				ctx := context.Background()
				out := availabilityMsg{id: id, total: total}
				out.result, out.err = client.Check(ctx, q)
				if out.err == nil {
					out.days, out.calErr = client.Calendar(ctx, q.RoomID, q.CheckIn, q.CheckOut)
				}
				return out
			}
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m AvailabilityPage) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Check Availability"))
	sb.WriteString("\n\n")
	switch {
	case m.pickerErr != "":
		sb.WriteString(helpStyle.Render("Room list unavailable: "+m.pickerErr) + "\n\n")
	case m.picked >= 0 && m.picked < len(m.picker):
		r := m.picker[m.picked]
		sb.WriteString(statusMessageStyle(fmt.Sprintf("Room %d/%d: %s", m.picked+1, len(m.picker), r.RoomName)) + "\n\n")
	case len(m.picker) > 0:
		sb.WriteString(helpStyle.Render(fmt.Sprintf("%d rooms to pick from", len(m.picker))) + "\n\n")
	}
	sb.WriteString(m.form.View())

	switch {
	case m.busy:
		sb.WriteString("Checking...\n")
	case m.err != "":
		sb.WriteString(errorMessageStyle(m.err) + "\n")
	case m.result != nil && m.result.Free():
		sb.WriteString(completeMessageStyle(fmt.Sprintf("Available: %d room(s) from %s to %s",
			m.result.RequestedRooms, m.result.CheckIn, m.result.CheckOut)) + "\n")
	case m.result != nil:
		sb.WriteString(errorMessageStyle("Not available for the selected dates") + "\n")
	}
	if !m.busy && m.result != nil {
		sb.WriteString(m.calendarView())
	}
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("tab: Next field • pgup/pgdown: Pick room • enter: Check"))
	return sb.String()
}

func (m AvailabilityPage) calendarView() string {
	if m.calErr != "" {
		return "\n" + errorMessageStyle("Calendar unavailable: "+m.calErr) + "\n"
	}
	if len(m.days) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n" + editHeaderStyle.Render("Daily availability") + "\n")
	for _, d := range m.days {
		sb.WriteString(fmt.Sprintf("%s  %d/%d available  %s\n",
			d.Date, d.Available, m.total, services.AvailabilityLevel(d.Available, m.total)))
	}
	return sb.String()
}
