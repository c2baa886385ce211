package handler

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookit/experience-booking/internal/booking"
	"github.com/bookit/experience-booking/internal/model"
)

// catalogReader provides the read-only experience queries. Satisfied by
// *repository.ExperienceRepo and the in-memory store.
type catalogReader interface {
	List(ctx context.Context) ([]model.Experience, error)
	GetByID(ctx context.Context, id uint64) (*model.Experience, error)
}

// CatalogHandler serves the public experience listing and detail endpoints.
// It performs no mutation.
type CatalogHandler struct {
	Log  *slog.Logger
	Repo catalogReader
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(log *slog.Logger, repo catalogReader) *CatalogHandler {
	if repo == nil {
		panic("nil catalog reader passed to NewCatalogHandler")
	}
	return &CatalogHandler{Log: log, Repo: repo}
}

// ListExperiences handles GET /experiences. The listing is a projection for
// the home page: id, title, price, duration, location, image. Never slots.
func (h *CatalogHandler) ListExperiences(c echo.Context) error {
	experiences, err := h.Repo.List(c.Request().Context())
	if err != nil {
		h.Log.Error("failed to list experiences", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error fetching experiences"})
	}

	out := make([]echo.Map, 0, len(experiences))
	for _, e := range experiences {
		out = append(out, echo.Map{
			"id":       e.ID,
			"title":    e.Title,
			"price":    e.Price,
			"duration": e.Duration,
			"location": e.Location,
			"imageUrl": e.ImageURL,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// GetExperienceByID handles GET /experiences/:id. Sold-out slots and slots
// whose date is strictly in the past are filtered from the response; they
// stay in storage untouched.
func (h *CatalogHandler) GetExperienceByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid experience id"})
	}

	exp, err := h.Repo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, booking.ErrExperienceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Experience not found"})
		}
		h.Log.Error("failed to fetch experience", "id", id, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error fetching experience details"})
	}

	// Slot dates are date-only ISO strings, so lexical comparison against
	// today's date is a calendar comparison.
	today := time.Now().UTC().Format("2006-01-02")
	visible := make([]model.Slot, 0, len(exp.Slots))
	for _, s := range exp.Slots {
		if !s.IsSoldOut && s.Date >= today {
			visible = append(visible, s)
		}
	}
	exp.Slots = visible

	return c.JSON(http.StatusOK, exp)
}
