package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/brizzai/hotel-console/internal/services"
)

// Field is one labelled line of a detail pane.
type Field struct {
	Label string
	Value string
}

func HotelFields(h *services.Hotel) []Field {
	fields := []Field{
		{"Name", h.HotelName},
		{"Location", h.HotelLocation},
		{"Rating", optFloat(h.Rating, "%.1f★")},
		{"Check-in", h.CheckinTime},
		{"Check-out", h.CheckoutTime},
		{"Amenities", strings.Join(h.Amenities, ", ")},
		{"Extra beds", optInt(h.ExtraBeds)},
		{"Extra bed price", optFloat(h.PerExtraBedPrice, "%.2f")},
		{"Map", h.LocationLink},
	}
	for i, d := range h.Descriptions {
		label := ""
		if i == 0 {
			label = "About"
		}
		fields = append(fields, Field{label, d})
	}
	return fields
}

func RoomFields(r *services.Room) []Field {
	return []Field{
		{"Name", r.RoomName},
		{"Hotel", r.HotelID},
		{"Type", strings.TrimSpace(r.RoomType + " " + r.PropertyType)},
		{"Base price", optFloat(r.BasePrice, "%.2f")},
		{"One guest", optFloat(r.PriceForOneGuest, "%.2f")},
		{"Two guests", optFloat(r.PriceForTwoGuest, "%.2f")},
		{"Rooms", optInt(r.NumberOfRooms)},
		{"Check-in", r.CheckinTime},
		{"Check-out", r.CheckoutTime},
		{"Breakfast", yesNo(r.BreakfastIncluded)},
		{"Parking", yesNo(r.ParkingAvailable)},
		{"Children", yesNo(r.ChildrenAllowed)},
		{"Pets", yesNo(r.PetAllowed)},
	}
}

func optFloat(f *float64, format string) string {
	if f == nil {
		return ""
	}
	return fmt.Sprintf(format, *f)
}

func optInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
