package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookit/experience-booking/internal/booking"
	"github.com/bookit/experience-booking/internal/model"
	"github.com/bookit/experience-booking/internal/queue"
)

// bookingCreator runs the booking transaction. Satisfied by
// *booking.Coordinator.
type bookingCreator interface {
	CreateBooking(ctx context.Context, in booking.CreateBookingInput) (*model.Booking, error)
}

// eventPublisher sends the post-commit confirmation event. May be left nil
// when no broker is configured.
type eventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// BookingHandler serves POST /bookings. Validation and the transactional
// body live in the coordinator; the handler only binds the request and maps
// classified errors onto HTTP statuses.
type BookingHandler struct {
	Log         *slog.Logger
	Coordinator bookingCreator
	Publisher   eventPublisher
	Env         string
}

// NewBookingHandler constructs a BookingHandler. Publisher may be nil.
func NewBookingHandler(log *slog.Logger, coordinator bookingCreator, publisher eventPublisher, env string) *BookingHandler {
	if coordinator == nil {
		panic("nil coordinator passed to NewBookingHandler")
	}
	return &BookingHandler{Log: log, Coordinator: coordinator, Publisher: publisher, Env: env}
}

type createBookingRequest struct {
	ExperienceID     uint64  `json:"experienceId"`
	SlotID           string  `json:"slotId"`
	UserFullName     string  `json:"userFullName"`
	UserEmail        string  `json:"userEmail"`
	NumberOfPeople   int     `json:"numberOfPeople"`
	FinalPrice       float64 `json:"finalPrice"`
	PromoCodeApplied string  `json:"promoCodeApplied"`
	DiscountAmount   float64 `json:"discountAmount"`
}

// CreateBooking handles POST /bookings.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body."})
	}

	b, err := h.Coordinator.CreateBooking(c.Request().Context(), booking.CreateBookingInput{
		ExperienceID:     req.ExperienceID,
		SlotID:           req.SlotID,
		UserFullName:     req.UserFullName,
		UserEmail:        req.UserEmail,
		NumberOfPeople:   req.NumberOfPeople,
		FinalPrice:       req.FinalPrice,
		PromoCodeApplied: req.PromoCodeApplied,
		DiscountAmount:   req.DiscountAmount,
	})
	if err != nil {
		return h.writeBookingError(c, err)
	}

	if h.Publisher != nil {
		// Best-effort: the booking is committed, a broker hiccup only loses
		// the notification, never the booking.
		go func(b *model.Booking) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			ev := queue.BookingConfirmedEvent{
				BookingReference: b.BookingReference,
				ExperienceTitle:  b.ExperienceTitle,
				SlotID:           b.SlotID,
				Date:             b.Date,
				StartTime:        b.StartTime,
				UserEmail:        b.UserEmail,
				NumberOfPeople:   b.NumberOfPeople,
				FinalPrice:       b.FinalPrice,
				ConfirmedAt:      time.Now().UTC().Format(time.RFC3339),
			}
			if err := h.Publisher.PublishBookingConfirmed(ctx, ev); err != nil {
				h.Log.Warn("failed to publish booking.confirmed", "reference", b.BookingReference, "err", err)
			}
		}(b)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Booking successfully confirmed!",
		"booking": echo.Map{
			"bookingReference": b.BookingReference,
			"experienceTitle":  b.ExperienceTitle,
			"date":             b.Date,
			"startTime":        b.StartTime,
			"finalPrice":       b.FinalPrice,
		},
	})
}

func (h *BookingHandler) writeBookingError(c echo.Context, err error) error {
	if ie := booking.AsInputError(err); ie != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "Missing or invalid booking fields.",
			"errors":  ie.Fields(),
		})
	}
	if errors.Is(err, booking.ErrExperienceNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Experience not found."})
	}
	if errors.Is(err, booking.ErrSlotNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Slot not found or invalid."})
	}
	if ce := booking.AsCapacityError(err); ce != nil {
		return c.JSON(http.StatusConflict, echo.Map{
			"message":        "Not enough seats available.",
			"availableSeats": ce.Remaining,
		})
	}
	if errors.Is(err, booking.ErrTimeout) {
		return c.JSON(http.StatusConflict, echo.Map{
			"message": "Booking could not be completed in time. Please try again.",
		})
	}

	h.Log.Error("booking failed", "err", err)
	body := echo.Map{"message": "Booking failed due to a server error."}
	if h.Env != "prod" {
		body["error"] = err.Error()
	}
	return c.JSON(http.StatusInternalServerError, body)
}
