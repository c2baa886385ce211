package handler

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bookit/experience-booking/internal/model"
	"github.com/bookit/experience-booking/internal/refgen"
)

// bookingFinder looks up a booking by its human-facing reference. Satisfied
// by *repository.BookingRepo.
type bookingFinder interface {
	GetByReference(ctx context.Context, reference string) (*model.Booking, error)
}

// BookingLookupHandler serves GET /bookings/:reference so a customer can
// retrieve their confirmation with just the reference from the success page.
type BookingLookupHandler struct {
	Log  *slog.Logger
	Repo bookingFinder
}

// NewBookingLookupHandler constructs a BookingLookupHandler.
func NewBookingLookupHandler(log *slog.Logger, repo bookingFinder) *BookingLookupHandler {
	if repo == nil {
		panic("nil booking finder passed to NewBookingLookupHandler")
	}
	return &BookingLookupHandler{Log: log, Repo: repo}
}

// GetByReference handles GET /bookings/:reference.
func (h *BookingLookupHandler) GetByReference(c echo.Context) error {
	ref := strings.ToUpper(strings.TrimSpace(c.Param("reference")))
	if len(ref) != refgen.Length {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid booking reference"})
	}

	b, err := h.Repo.GetByReference(c.Request().Context(), ref)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Booking not found"})
		}
		h.Log.Error("failed to fetch booking", "reference", ref, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error fetching booking"})
	}
	return c.JSON(http.StatusOK, b)
}
