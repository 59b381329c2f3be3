package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-seat-booking/internal/chart"
	"github.com/iliyamo/cinema-seat-booking/internal/model"
	"github.com/iliyamo/cinema-seat-booking/internal/service"
)

// VenueHandler serves the venue and booking endpoints.  Every call goes
// through a service.Venue, which serializes access to its ledger.
type VenueHandler struct {
	Venues *service.Registry
}

// NewVenueHandler panics on a nil registry.
func NewVenueHandler(venues *service.Registry) *VenueHandler {
	if venues == nil {
		panic("nil registry passed to NewVenueHandler")
	}
	return &VenueHandler{Venues: venues}
}

type createVenueReq struct {
	Title       string `json:"title"`
	Rows        int    `json:"rows"`
	SeatsPerRow int    `json:"seats_per_row"`
}

type bookReq struct {
	Count int      `json:"count"`
	Start string   `json:"start"`
	Seats []string `json:"seats"`
}

type bookingResp struct {
	BookingID model.BookingID `json:"booking_id"`
	Seats     []string        `json:"seats"`
	Available int             `json:"available"`
}

// CreateVenue handles POST /v1/venues.
func (h *VenueHandler) CreateVenue(c echo.Context) error {
	var req createVenueReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	v, err := h.Venues.Create(req.Title, req.Rows, req.SeatsPerRow)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, v.Summary())
}

// ListVenues handles GET /v1/venues.
func (h *VenueHandler) ListVenues(c echo.Context) error {
	venues := h.Venues.List()
	out := make([]service.Summary, 0, len(venues))
	for _, v := range venues {
		out = append(out, v.Summary())
	}
	return c.JSON(http.StatusOK, echo.Map{"venues": out})
}

// GetVenue handles GET /v1/venues/:id.
func (h *VenueHandler) GetVenue(c echo.Context) error {
	v, err := h.Venues.Get(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, v.Summary())
}

// Chart handles GET /v1/venues/:id/chart.  The optional highlight query
// parameter marks the seats of one booking, as the check-bookings screen
// does.
func (h *VenueHandler) Chart(c echo.Context) error {
	v, err := h.Venues.Get(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	var selected []model.Seat
	if id := strings.TrimSpace(c.QueryParam("highlight")); id != "" {
		if selected, err = v.Lookup(model.BookingID(id)); err != nil {
			return writeError(c, err)
		}
	}
	return c.String(http.StatusOK, v.Chart(selected, chart.PlainStyles()))
}

// Preview handles GET /v1/venues/:id/preview?count=N[&start=B03].  It
// proposes seats without booking them.
func (h *VenueHandler) Preview(c echo.Context) error {
	v, err := h.Venues.Get(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	count, err := strconv.Atoi(c.QueryParam("count"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "count must be an integer"})
	}
	seats, err := v.PreviewFrom(count, c.QueryParam("start"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"seats":     v.Labels(seats),
		"positions": seats,
	})
}

// Book handles POST /v1/venues/:id/bookings.  A body with "seats" books
// exactly those labels; otherwise "count" seats are allocated, starting at
// "start" when given.
func (h *VenueHandler) Book(c echo.Context) error {
	v, err := h.Venues.Get(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	var b model.Booking
	if len(req.Seats) > 0 {
		b, err = v.BookSeats(ctx, req.Seats)
	} else {
		b, err = v.Book(ctx, req.Count, req.Start)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, bookingResp{
		BookingID: b.ID,
		Seats:     v.Labels(b.Seats),
		Available: v.Available(),
	})
}

// ListBookings handles GET /v1/venues/:id/bookings.
func (h *VenueHandler) ListBookings(c echo.Context) error {
	v, err := h.Venues.Get(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	bookings := v.Bookings()
	out := make([]bookingResp, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, bookingResp{BookingID: b.ID, Seats: v.Labels(b.Seats)})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

// GetBooking handles GET /v1/venues/:id/bookings/:bid.
func (h *VenueHandler) GetBooking(c echo.Context) error {
	v, err := h.Venues.Get(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	id := model.BookingID(c.Param("bid")).Normalize()
	seats, err := v.Lookup(id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, bookingResp{BookingID: id, Seats: v.Labels(seats)})
}

// CancelBooking handles DELETE /v1/venues/:id/bookings/:bid.
func (h *VenueHandler) CancelBooking(c echo.Context) error {
	v, err := h.Venues.Get(c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	if !v.Cancel(c.Request().Context(), model.BookingID(c.Param("bid"))) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Revision feeds the chart cache: the key changes whenever the venue does.
func (h *VenueHandler) Revision(c echo.Context) (uint64, bool) {
	v, err := h.Venues.Get(c.Param("id"))
	if err != nil {
		return 0, false
	}
	return v.Revision(), true
}
