package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/brizzai/hotel-console/internal/requester"
)

var (
	routeMyRooms = &requester.RouteConfig{
		Path: "/my-rooms", Method: http.MethodGet, Description: "List the user's rooms",
	}
	routeSearchRooms = &requester.RouteConfig{
		Path: "/public/search", Method: http.MethodGet, Description: "Search rooms",
		MethodConfig: requester.MethodConfig{QueryParams: []string{"roomName"}},
	}
	routeCreateRoom = &requester.RouteConfig{
		Path: "/create", Method: http.MethodPost, Description: "Create a room",
		MethodConfig: requester.MethodConfig{FormFields: []string{"room"}},
	}
	routeDeleteRoom = &requester.RouteConfig{
		Path: "/delete/{id}", Method: http.MethodDelete, Description: "Delete a room",
	}
	routeAllRooms = &requester.RouteConfig{
		Path: "/public/all", Method: http.MethodGet, Description: "List all public rooms",
	}
	routeRoomDetails = &requester.RouteConfig{
		Path: "/public/{id}", Method: http.MethodGet, Description: "Get room details",
	}
)

type Room struct {
	RoomID        string   `json:"roomId" yaml:"room_id"`
	HotelID       string   `json:"hotelId" yaml:"hotel_id"`
	RoomName      string   `json:"roomName" yaml:"room_name"`
	RoomType      string   `json:"roomType,omitempty" yaml:"room_type,omitempty"`
	PropertyType  string   `json:"propertyType,omitempty" yaml:"property_type,omitempty"`
	BasePrice     *float64 `json:"basePrice,omitempty" yaml:"base_price,omitempty"`
	NumberOfRooms *int     `json:"numberOfRooms,omitempty" yaml:"number_of_rooms,omitempty"`
	CheckinTime   string   `json:"checkinTime,omitempty" yaml:"checkin_time,omitempty"`
	CheckoutTime  string   `json:"checkoutTime,omitempty" yaml:"checkout_time,omitempty"`
	IsActive      *bool    `json:"isActive,omitempty" yaml:"is_active,omitempty"`

	// Detail-only fields, filled by Get.
	PriceForOneGuest  *float64 `json:"priceForOneGuest,omitempty" yaml:"price_for_one_guest,omitempty"`
	PriceForTwoGuest  *float64 `json:"priceForTwoGuest,omitempty" yaml:"price_for_two_guest,omitempty"`
	BreakfastIncluded bool     `json:"breakfastIncluded,omitempty" yaml:"breakfast_included,omitempty"`
	ParkingAvailable  bool     `json:"parkingAvailable,omitempty" yaml:"parking_available,omitempty"`
	ChildrenAllowed   bool     `json:"childrenAllowed,omitempty" yaml:"children_allowed,omitempty"`
	PetAllowed        bool     `json:"petAllowed,omitempty" yaml:"pet_allowed,omitempty"`
}

// Inventory is how many rooms of this kind exist, or fallback when unknown.
func (r *Room) Inventory(fallback int) int {
	if r == nil || r.NumberOfRooms == nil {
		return fallback
	}
	return *r.NumberOfRooms
}

// RoomDraft is the payload of the create form.
type RoomDraft struct {
	HotelID       string   `json:"hotelId"`
	RoomName      string   `json:"roomName"`
	RoomType      string   `json:"roomType,omitempty"`
	BasePrice     *float64 `json:"basePrice,omitempty"`
	NumberOfRooms *int     `json:"numberOfRooms,omitempty"`
	CheckinTime   string   `json:"checkinTime,omitempty"`
	CheckoutTime  string   `json:"checkoutTime,omitempty"`
}

// Rooms is the room listing service client.
type Rooms struct {
	gw *requester.HTTPRequester
}

func NewRooms(gw *requester.HTTPRequester) *Rooms {
	return &Rooms{gw: gw}
}

// Mine lists the rooms owned by the signed-in user.
func (r *Rooms) Mine(ctx context.Context) ([]Room, error) {
	return call[[]Room](ctx, r.gw, routeMyRooms, nil, "Failed to fetch rooms")
}

// Search runs the public room search by name.
func (r *Rooms) Search(ctx context.Context, roomName string) ([]Room, error) {
	roomName = strings.TrimSpace(roomName)
	if err := required("room name", roomName); err != nil {
		return nil, err
	}
	return call[[]Room](ctx, r.gw, routeSearchRooms, map[string]interface{}{"roomName": roomName}, "Search failed")
}

// All lists every public room. The availability picker is fed from it.
func (r *Rooms) All(ctx context.Context) ([]Room, error) {
	return call[[]Room](ctx, r.gw, routeAllRooms, nil, "Failed to fetch rooms")
}

// Get fetches the public details of one room.
func (r *Rooms) Get(ctx context.Context, id string) (*Room, error) {
	id = strings.TrimSpace(id)
	if err := required("room id", id); err != nil {
		return nil, err
	}
	return call[*Room](ctx, r.gw, routeRoomDetails, map[string]interface{}{"id": id}, "Failed to fetch room details")
}

// Create submits the draft as the "room" part of a multipart form.
func (r *Rooms) Create(ctx context.Context, d RoomDraft) (*Room, error) {
	if err := required("hotel id", strings.TrimSpace(d.HotelID)); err != nil {
		return nil, err
	}
	if err := required("room name", strings.TrimSpace(d.RoomName)); err != nil {
		return nil, err
	}
	return call[*Room](ctx, r.gw, routeCreateRoom, map[string]interface{}{"room": d}, "Failed to create room")
}

// Delete removes the room with the given id.
func (r *Rooms) Delete(ctx context.Context, id string) error {
	_, err := call[struct{}](ctx, r.gw, routeDeleteRoom, map[string]interface{}{"id": id}, "Failed to delete room")
	return err
}
