package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/bookit/experience-booking/internal/model"
)

// stubFinder returns one known booking keyed by reference.
type stubFinder struct {
	booking *model.Booking
}

func (f *stubFinder) GetByReference(_ context.Context, ref string) (*model.Booking, error) {
	if f.booking != nil && f.booking.BookingReference == ref {
		return f.booking, nil
	}
	return nil, sql.ErrNoRows
}

func TestGetBookingByReference(t *testing.T) {
	known := &model.Booking{
		ID:               7,
		ExperienceTitle:  "Venice Gondola Ride & Aperitivo",
		BookingReference: "F8A9C1D2",
		Status:           model.StatusConfirmed,
	}
	h := NewBookingLookupHandler(testLogger(), &stubFinder{booking: known})
	e := echo.New()

	tests := []struct {
		name       string
		reference  string
		wantStatus int
	}{
		{"existing reference", "F8A9C1D2", http.StatusOK},
		{"lowercase reference is normalized", "f8a9c1d2", http.StatusOK},
		{"unknown reference", "AAAA0000", http.StatusNotFound},
		{"wrong length", "ABC", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/"+tt.reference, nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetParamNames("reference")
			c.SetParamValues(tt.reference)

			if err := h.GetByReference(c); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var got model.Booking
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("bad response JSON: %v", err)
			}
			if got.BookingReference != known.BookingReference || got.Status != model.StatusConfirmed {
				t.Errorf("booking = %+v", got)
			}
		})
	}
}
