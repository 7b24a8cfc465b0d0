package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/brizzai/hotel-console/internal/requester"
	"github.com/brizzai/hotel-console/internal/services"
	"github.com/brizzai/hotel-console/internal/tui/models"
	tea "github.com/charmbracelet/bubbletea"
)

type searchResultMsg struct {
	id      int
	results []models.RecordItem
	err     error
}

func (m searchResultMsg) owner() int { return m.id }

// SearchPage runs one of the public searches and lists the matches.
type SearchPage struct {
	id      int
	title   string
	form    form
	search  func(ctx context.Context, values []string) ([]models.RecordItem, error)
	busy    bool
	err     string
	results []models.RecordItem
	// searched is false until the first search completes.
	searched bool
}

func newHotelSearchPage(id int, c *services.Clients) SearchPage {
	return SearchPage{
		id:    id,
		title: "Search Hotels",
		form: newForm(
			field{label: "Hotel name", placeholder: "Grand Budapest"},
			field{label: "Location", placeholder: "Zubrowka"},
		),
		search: func(ctx context.Context, values []string) ([]models.RecordItem, error) {
			hotels, err := c.Hotels.Search(ctx, services.HotelQuery{HotelName: values[0], Location: values[1]})
			if err != nil {
				return nil, err
			}
			out := make([]models.RecordItem, len(hotels))
			for i, h := range hotels {
				out[i] = models.HotelItem(h)
			}
			return out, nil
		},
	}
}

func newRoomSearchPage(id int, c *services.Clients) SearchPage {
	return SearchPage{
		id:    id,
		title: "Search Rooms",
		form:  newForm(field{label: "Room name", placeholder: "Deluxe"}),
		search: func(ctx context.Context, values []string) ([]models.RecordItem, error) {
			rooms, err := c.Rooms.Search(ctx, values[0])
			if err != nil {
				return nil, err
			}
			out := make([]models.RecordItem, len(rooms))
			for i, r := range rooms {
				out[i] = models.RoomItem(r)
			}
			return out, nil
		},
	}
}

func (m SearchPage) Title() string   { return m.title }
func (m SearchPage) Capturing() bool { return true }
func (m SearchPage) Init() tea.Cmd   { return nil }

func (m SearchPage) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case searchResultMsg:
		m.busy = false
		m.searched = true
		if msg.err != nil {
			m.err = requester.UserMessage(msg.err)
			m.results = nil
			return m, nil
		}
		m.err = ""
		m.results = msg.results
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "enter" {
			if m.busy {
				return m, nil
			}
			m.busy = true
			id, search, values := m.id, m.search, m.form.Values()
			return m, func() tea.Msg {
				results, err := search(context.Background(), values)
				return searchResultMsg{id: id, results: results, err: err}
			}
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m SearchPage) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.title))
	sb.WriteString("\n\n")
	sb.WriteString(m.form.View())

	switch {
	case m.busy:
		sb.WriteString("Searching...\n")
	case m.err != "":
		sb.WriteString(errorMessageStyle(m.err) + "\n")
	case m.searched && len(m.results) == 0:
		sb.WriteString("No results.\n")
	case m.searched:
		sb.WriteString(statusMessageStyle(fmt.Sprintf("%d results", len(m.results))) + "\n\n")
		for _, r := range m.results {
			sb.WriteString(fmt.Sprintf("%s  %s\n", r.Title(), helpStyle.Render(r.Description())))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("tab: Next field • enter: Search"))
	return sb.String()
}
