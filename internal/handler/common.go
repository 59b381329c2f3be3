package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-seat-booking/internal/model"
	"github.com/iliyamo/cinema-seat-booking/internal/service"
	"github.com/iliyamo/cinema-seat-booking/internal/utils"
)

// writeError translates engine and service errors into the JSON error
// body used by every endpoint.  Unknown errors become 500 without
// leaking their text.
func writeError(c echo.Context, err error) error {
	var me *model.Error
	switch {
	case errors.As(err, &me):
		return writeModelError(c, me)
	case errors.Is(err, service.ErrVenueNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTitle),
		errors.Is(err, model.ErrInvalidDimensions),
		errors.Is(err, utils.ErrInvalidSeatLabel):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	c.Logger().Errorf("unhandled error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

func writeModelError(c echo.Context, me *model.Error) error {
	body := echo.Map{"error": me.Error(), "kind": me.Kind.String()}
	switch me.Kind {
	case model.KindNotFound:
		return c.JSON(http.StatusNotFound, body)
	case model.KindInsufficientSeats:
		body["found"] = me.Found
		body["requested"] = me.Requested
		return c.JSON(http.StatusConflict, body)
	case model.KindSeatConflict:
		if me.Seat != nil {
			body["seat"] = *me.Seat
		}
		return c.JSON(http.StatusConflict, body)
	case model.KindIdentifierTaken:
		return c.JSON(http.StatusConflict, body)
	default:
		return c.JSON(http.StatusBadRequest, body)
	}
}
