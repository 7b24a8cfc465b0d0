package models

import (
	"fmt"
	"strings"

	"github.com/brizzai/hotel-console/internal/services"
	"github.com/charmbracelet/lipgloss"
)

// RecordItem wraps a hotel, room or booking for display in a list
// Implements list.Item
type RecordItem struct {
	ID      string
	Name    string
	Details []string
	// Removed marks a record deleted or cancelled during this visit; the
	// description then shows RemovedLabel.
	Removed      bool
	RemovedLabel string
}

func (i RecordItem) Title() string {
	return i.Name
}

func (i RecordItem) Description() string {
	if i.Removed {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Render("[" + i.RemovedLabel + "]")
	}
	return strings.Join(i.Details, " · ")
}

func (i RecordItem) MarkRemoved(label string) RecordItem {
	i.Removed = true
	i.RemovedLabel = label
	return i
}

func (i RecordItem) FilterValue() string {
	return i.Name + " " + strings.Join(i.Details, " ")
}

func HotelItem(h services.Hotel) RecordItem {
	details := []string{h.HotelLocation}
	if h.Rating != nil {
		details = append(details, fmt.Sprintf("%.1f★", *h.Rating))
	}
	if h.CheckinTime != "" || h.CheckoutTime != "" {
		details = append(details, fmt.Sprintf("in %s / out %s", h.CheckinTime, h.CheckoutTime))
	}
	return RecordItem{ID: h.HotelID, Name: h.HotelName, Details: nonEmpty(details)}
}

func RoomItem(r services.Room) RecordItem {
	details := []string{r.RoomType, r.PropertyType}
	if r.BasePrice != nil {
		details = append(details, fmt.Sprintf("%.2f", *r.BasePrice))
	}
	if r.NumberOfRooms != nil {
		details = append(details, fmt.Sprintf("%d rooms", *r.NumberOfRooms))
	}
	return RecordItem{ID: r.RoomID, Name: r.RoomName, Details: nonEmpty(details)}
}

func BookingItem(b services.Booking) RecordItem {
	name := strings.TrimSpace(b.HotelName + " " + b.RoomName)
	if name == "" {
		name = b.BookingID
	}
	details := []string{b.Guest(), b.CheckInDate + " → " + b.CheckOutDate, b.BookingStatus}
	if b.ConfirmationCode != "" {
		details = append(details, "#"+b.ConfirmationCode)
	}
	return RecordItem{ID: b.BookingID, Name: name, Details: nonEmpty(details)}
}

func nonEmpty(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if strings.TrimSpace(s) != "" && s != " → " {
			out = append(out, s)
		}
	}
	return out
}
