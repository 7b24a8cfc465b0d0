package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/brizzai/hotel-console/internal/requester"
)

var (
	routeMyHotels = &requester.RouteConfig{
		Path: "/my-hotels", Method: http.MethodGet, Description: "List the user's hotels",
	}
	routeSearchHotels = &requester.RouteConfig{
		Path: "/public/search", Method: http.MethodGet, Description: "Search hotels",
		MethodConfig: requester.MethodConfig{QueryParams: []string{"hotelName", "location"}},
	}
	routeCreateHotel = &requester.RouteConfig{
		Path: "/create", Method: http.MethodPost, Description: "Create a hotel",
		MethodConfig: requester.MethodConfig{FormFields: []string{"hotel"}},
	}
	routeDeleteHotel = &requester.RouteConfig{
		Path: "/delete/{id}", Method: http.MethodDelete, Description: "Delete a hotel",
	}
	routeHotelDetails = &requester.RouteConfig{
		Path: "/public/{id}", Method: http.MethodGet, Description: "Get hotel details",
	}
)

type Hotel struct {
	HotelID       string   `json:"hotelId" yaml:"hotel_id"`
	UserID        string   `json:"userId,omitempty" yaml:"user_id,omitempty"`
	HotelName     string   `json:"hotelName" yaml:"hotel_name"`
	Rating        *float64 `json:"rating,omitempty" yaml:"rating,omitempty"`
	HotelLocation string   `json:"hotelLocation" yaml:"hotel_location"`
	LocationLink  string   `json:"locationLink,omitempty" yaml:"location_link,omitempty"`
	HotelImages   []string `json:"hotelImages,omitempty" yaml:"hotel_images,omitempty"`
	CheckinTime   string   `json:"checkinTime,omitempty" yaml:"checkin_time,omitempty"`
	CheckoutTime  string   `json:"checkoutTime,omitempty" yaml:"checkout_time,omitempty"`

	// Detail-only fields, filled by Get.
	Amenities        []string `json:"amenities,omitempty" yaml:"amenities,omitempty"`
	Descriptions     []string `json:"descriptions,omitempty" yaml:"descriptions,omitempty"`
	ExtraBeds        *int     `json:"extraBeds,omitempty" yaml:"extra_beds,omitempty"`
	PerExtraBedPrice *float64 `json:"perExtraBedPrice,omitempty" yaml:"per_extra_bed_price,omitempty"`
}

// HotelDraft is the payload of the create form.
type HotelDraft struct {
	HotelName     string   `json:"hotelName"`
	HotelLocation string   `json:"hotelLocation"`
	Rating        *float64 `json:"rating"`
	CheckinTime   string   `json:"checkinTime,omitempty"`
	CheckoutTime  string   `json:"checkoutTime,omitempty"`
	LocationLink  string   `json:"locationLink,omitempty"`
}

// HotelQuery filters the public hotel search.
type HotelQuery struct {
	HotelName string
	Location  string
}

// Hotels is the hotel listing service client.
type Hotels struct {
	gw *requester.HTTPRequester
}

func NewHotels(gw *requester.HTTPRequester) *Hotels {
	return &Hotels{gw: gw}
}

// Mine lists the hotels owned by the signed-in user.
func (h *Hotels) Mine(ctx context.Context) ([]Hotel, error) {
	return call[[]Hotel](ctx, h.gw, routeMyHotels, nil, "Failed to fetch hotels")
}

// Search runs the public hotel search. A hotel name is required.
func (h *Hotels) Search(ctx context.Context, q HotelQuery) ([]Hotel, error) {
	q.HotelName = strings.TrimSpace(q.HotelName)
	if err := required("hotel name", q.HotelName); err != nil {
		return nil, err
	}
	params := map[string]interface{}{"hotelName": q.HotelName}
	if loc := strings.TrimSpace(q.Location); loc != "" {
		params["location"] = loc
	}
	return call[[]Hotel](ctx, h.gw, routeSearchHotels, params, "Search failed")
}

// Get fetches the public details of one hotel.
func (h *Hotels) Get(ctx context.Context, id string) (*Hotel, error) {
	id = strings.TrimSpace(id)
	if err := required("hotel id", id); err != nil {
		return nil, err
	}
	return call[*Hotel](ctx, h.gw, routeHotelDetails, map[string]interface{}{"id": id}, "Failed to fetch hotel details")
}

// Create submits the draft as the "hotel" part of a multipart form.
func (h *Hotels) Create(ctx context.Context, d HotelDraft) (*Hotel, error) {
	if err := required("hotel name", strings.TrimSpace(d.HotelName)); err != nil {
		return nil, err
	}
	if err := required("location", strings.TrimSpace(d.HotelLocation)); err != nil {
		return nil, err
	}
	return call[*Hotel](ctx, h.gw, routeCreateHotel, map[string]interface{}{"hotel": d}, "Failed to create hotel")
}

// Delete removes the hotel with the given id.
func (h *Hotels) Delete(ctx context.Context, id string) error {
	_, err := call[struct{}](ctx, h.gw, routeDeleteHotel, map[string]interface{}{"id": id}, "Failed to delete hotel")
	return err
}
