// Package seed holds the fixture catalog used for local development and
// demos.
package seed

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bookit/experience-booking/internal/model"
)

// newSlot builds a slot offsetDays from today. The fixture generator gives
// every slot a two-hour window; stored endTime remains authoritative data,
// the offset is only how these fixtures happen to be produced.
func newSlot(offsetDays int, startTime string, capacity, available int) model.Slot {
	hour, _ := strconv.Atoi(strings.SplitN(startTime, ":", 2)[0])
	return model.Slot{
		ID:             uuid.NewString(),
		Date:           time.Now().UTC().AddDate(0, 0, offsetDays).Format("2006-01-02"),
		StartTime:      startTime,
		EndTime:        fmt.Sprintf("%02d:00", hour+2),
		Capacity:       capacity,
		AvailableSeats: available,
		IsSoldOut:      available == 0,
	}
}

// Experiences returns the fixture catalog. Slot ids are minted fresh on
// every call; seat counts include a sold-out slot and two nearly-full ones
// so the booking flow can be exercised immediately after seeding.
func Experiences() []model.Experience {
	return []model.Experience{
		{
			Title:       "Venice Gondola Ride & Aperitivo",
			Description: "Experience the magic of Venice's canals with a private gondola ride, followed by a classic Italian Aperitivo.",
			Price:       99.50,
			Duration:    "1.5 hours",
			Location:    "Venice, Italy",
			ImageURL:    "https://images.unsplash.com/photo-1549487922-b5b4a7d6e4a2",
			Slots: []model.Slot{
				newSlot(3, "16:00", 5, 5),
				newSlot(3, "18:00", 5, 2), // limited availability
				newSlot(4, "10:00", 10, 0), // sold out
				newSlot(5, "17:00", 8, 8),
			},
		},
		{
			Title:       "Japanese Sushi Making Masterclass",
			Description: "Learn the art of Nigiri and Maki from a seasoned Tokyo chef. All ingredients and sake tasting included.",
			Price:       75.00,
			Duration:    "3 hours",
			Location:    "Kyoto, Japan",
			ImageURL:    "https://images.unsplash.com/photo-1596773344605-64c8d374467c",
			Slots: []model.Slot{
				newSlot(7, "11:00", 12, 12),
				newSlot(7, "15:00", 12, 1), // very limited
				newSlot(8, "18:30", 15, 15),
			},
		},
		{
			Title:       "Sahara Desert Stargazing Camp",
			Description: "An overnight experience in the Moroccan desert. Includes camel trek, traditional dinner, and guided astronomy session.",
			Price:       150.00,
			Duration:    "1 Day",
			Location:    "Marrakech, Morocco",
			ImageURL:    "https://images.unsplash.com/photo-1555734289-566d21f8a85f",
			Slots: []model.Slot{
				newSlot(14, "14:00", 20, 20),
				newSlot(21, "14:00", 15, 15),
			},
		},
	}
}
