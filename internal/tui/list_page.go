package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/brizzai/hotel-console/internal/requester"
	"github.com/brizzai/hotel-console/internal/services"
	"github.com/brizzai/hotel-console/internal/tui/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// recordSource describes one of the "my records" lists.
type recordSource struct {
	title        string
	load         func(ctx context.Context) ([]models.RecordItem, error)
	remove       func(ctx context.Context, id, reason string) error
	removeHelp   string
	removedLabel string
	// needsReason asks for a free-text reason before removing.
	needsReason bool
	// create is the view the "new" key opens, if any.
	create    View
	hasCreate bool
	// details loads the detail pane of a record; nil disables it.
	details func(ctx context.Context, id string) ([]models.Field, error)
}

func hotelsSource(c *services.Clients) recordSource {
	return recordSource{
		title: "My Hotels",
		load: func(ctx context.Context) ([]models.RecordItem, error) {
			hotels, err := c.Hotels.Mine(ctx)
			if err != nil {
				return nil, err
			}
			items := make([]models.RecordItem, len(hotels))
			for i, h := range hotels {
				items[i] = models.HotelItem(h)
			}
			return items, nil
		},
		remove: func(ctx context.Context, id, _ string) error {
			return c.Hotels.Delete(ctx, id)
		},
		details: func(ctx context.Context, id string) ([]models.Field, error) {
			h, err := c.Hotels.Get(ctx, id)
			if err != nil {
				return nil, err
			}
			return models.HotelFields(h), nil
		},
		removeHelp:   "Delete hotel",
		removedLabel: "Deleted",
		create:       ViewCreateHotel,
		hasCreate:    true,
	}
}

func roomsSource(c *services.Clients) recordSource {
	return recordSource{
		title: "My Rooms",
		load: func(ctx context.Context) ([]models.RecordItem, error) {
			rooms, err := c.Rooms.Mine(ctx)
			if err != nil {
				return nil, err
			}
			items := make([]models.RecordItem, len(rooms))
			for i, r := range rooms {
				items[i] = models.RoomItem(r)
			}
			return items, nil
		},
		remove: func(ctx context.Context, id, _ string) error {
			return c.Rooms.Delete(ctx, id)
		},
		details: func(ctx context.Context, id string) ([]models.Field, error) {
			r, err := c.Rooms.Get(ctx, id)
			if err != nil {
				return nil, err
			}
			return models.RoomFields(r), nil
		},
		removeHelp:   "Delete room",
		removedLabel: "Deleted",
		create:       ViewCreateRoom,
		hasCreate:    true,
	}
}

func bookingsSource(c *services.Clients) recordSource {
	return recordSource{
		title: "My Bookings",
		load: func(ctx context.Context) ([]models.RecordItem, error) {
			bookings, err := c.Bookings.Mine(ctx)
			if err != nil {
				return nil, err
			}
			items := make([]models.RecordItem, len(bookings))
			for i, b := range bookings {
				items[i] = models.BookingItem(b)
			}
			return items, nil
		},
		remove:       c.Bookings.Cancel,
		removeHelp:   "Cancel booking",
		removedLabel: "Cancelled",
		needsReason:  true,
	}
}

type recordsLoadedMsg struct {
	id    int
	items []models.RecordItem
	err   error
}

func (m recordsLoadedMsg) owner() int { return m.id }

type recordRemovedMsg struct {
	id   int
	item models.RecordItem
	err  error
}

func (m recordRemovedMsg) owner() int { return m.id }

type recordDetailsMsg struct {
	id     int
	fields []models.Field
	err    error
}

func (m recordDetailsMsg) owner() int { return m.id }

// recordsKeyMap holds key bindings for the list actions.
type recordsKeyMap struct {
	refresh key.Binding
	create  key.Binding
	open    key.Binding
	confirm key.Binding
	cancel  key.Binding
}

func newRecordsKeyMap(src recordSource) *recordsKeyMap {
	km := &recordsKeyMap{
		refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh"),
		),
		create: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "New"),
		),
		open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Details"),
		),
		confirm: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "Confirm"),
		),
		cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),
	}
	km.create.SetEnabled(src.hasCreate)
	km.open.SetEnabled(src.details != nil)
	return km
}

// RecordsPage lists the signed-in user's hotels, rooms or bookings.
type RecordsPage struct {
	id      int
	src     recordSource
	list    list.Model
	keys    *recordsKeyMap
	loading bool
	busy    bool
	err     string

	editing bool
	target  models.RecordItem
	reason  ReasonModal

	// details pane of one record, open until esc
	opened        bool
	openedItem    models.RecordItem
	openedFields  []models.Field
	openedErr     string
	openedLoading bool
}

func newRecordsPage(id int, src recordSource, status string) RecordsPage {
	keys := newRecordsKeyMap(src)

	l := list.New(nil, newItemDelegate(newDelegateKeyMap(src.removeHelp)), 0, 0)
	l.Title = titleStyle.Render(src.title)
	l.SetShowFilter(true)
	l.KeyMap.Quit.SetEnabled(false)
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.open, keys.refresh, keys.create}
	}
	if status != "" {
		l.NewStatusMessage(completeMessageStyle(status))
	}

	return RecordsPage{id: id, src: src, list: l, keys: keys, loading: true}
}

func (m RecordsPage) Title() string { return m.src.title }

func (m RecordsPage) Capturing() bool {
	return m.editing || m.list.FilterState() == list.Filtering
}

func (m RecordsPage) Init() tea.Cmd {
	return m.load()
}

func (m RecordsPage) load() tea.Cmd {
	id, load := m.id, m.src.load
	return func() tea.Msg {
		items, err := load(context.Background())
		return recordsLoadedMsg{id: id, items: items, err: err}
	}
}

func (m RecordsPage) removeCmd(item models.RecordItem, reason string) tea.Cmd {
	id, remove := m.id, m.src.remove
	return func() tea.Msg {
		err := remove(context.Background(), item.ID, reason)
		return recordRemovedMsg{id: id, item: item, err: err}
	}
}

func (m RecordsPage) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case recordsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = requester.UserMessage(msg.err)
			return m, nil
		}
		m.err = ""
		items := make([]list.Item, len(msg.items))
		for i, it := range msg.items {
			items[i] = it
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case recordRemovedMsg:
		m.busy = false
		if msg.err != nil {
			cmd := m.list.NewStatusMessage(errorMessageStyle(requester.UserMessage(msg.err)))
			return m, cmd
		}
		var cmds []tea.Cmd
		for i, it := range m.list.Items() {
			if rec, ok := it.(models.RecordItem); ok && rec.ID == msg.item.ID {
				cmds = append(cmds, m.list.SetItem(i, rec.MarkRemoved(m.src.removedLabel)))
			}
		}
		cmds = append(cmds, m.list.NewStatusMessage(statusMessageStyle(fmt.Sprintf("%s %s", m.src.removedLabel, msg.item.Title()))))
		return m, tea.Batch(cmds...)

	case recordDetailsMsg:
		m.openedLoading = false
		if msg.err != nil {
			m.openedErr = requester.UserMessage(msg.err)
			return m, nil
		}
		m.openedFields = msg.fields
		return m, nil

	case removeRequestMsg:
		if m.busy {
			return m, nil
		}
		if m.src.needsReason {
			m.editing = true
			m.target = msg.item
			m.reason = NewReasonModal()
			return m, m.reason.Init()
		}
		m.busy = true
		return m, m.removeCmd(msg.item, "")

	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
	}

	if m.editing {
		return m.updateReason(msg)
	}
	if m.opened {
		if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.cancel) {
			m.opened = false
		}
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.refresh):
			m.loading = true
			m.err = ""
			return m, m.load()
		case key.Matches(msg, m.keys.create):
			return m, navigate(m.src.create, "")
		case key.Matches(msg, m.keys.open):
			item, ok := m.list.SelectedItem().(models.RecordItem)
			if !ok || item.Removed {
				return m, nil
			}
			return m.openDetails(item)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m RecordsPage) openDetails(item models.RecordItem) (screen, tea.Cmd) {
	m.opened = true
	m.openedItem = item
	m.openedFields = nil
	m.openedErr = ""
	m.openedLoading = true
	id, details := m.id, m.src.details
	return m, func() tea.Msg {
		fields, err := details(context.Background(), item.ID)
		return recordDetailsMsg{id: id, fields: fields, err: err}
	}
}

func (m RecordsPage) updateReason(msg tea.Msg) (screen, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.cancel):
			m.editing = false
			return m, nil
		case key.Matches(msg, m.keys.confirm):
			reason := m.reason.Reason()
			m.editing = false
			m.busy = true
			return m, m.removeCmd(m.target, reason)
		}
	}
	var cmd tea.Cmd
	m.reason, cmd = m.reason.Update(msg)
	return m, cmd
}

func (m RecordsPage) View() string {
	switch {
	case m.editing:
		return m.reason.View(m.src.removeHelp + ": " + m.target.Title())
	case m.opened:
		return m.detailsView()
	case m.loading:
		return "Loading " + m.src.title + "..."
	case m.err != "":
		return errorMessageStyle(m.err) + "\n\n" + helpStyle.Render("r: Try Again")
	}
	return m.list.View()
}

func (m RecordsPage) detailsView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.openedItem.Title()))
	sb.WriteString("\n\n")
	switch {
	case m.openedLoading:
		sb.WriteString("Loading details...\n")
	case m.openedErr != "":
		sb.WriteString(errorMessageStyle(m.openedErr) + "\n")
	default:
		sb.WriteString(renderFields(m.openedFields))
	}
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("esc: Back to " + m.src.title))
	return docStyle.Render(sb.String())
}
