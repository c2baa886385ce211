package model

import "time"

// Booking status values. New bookings are created as Confirmed; the other
// states exist for administrative use.
const (
	StatusPending   = "Pending"
	StatusConfirmed = "Confirmed"
	StatusCancelled = "Cancelled"
)

// Booking is an immutable record of a successful reservation. The experience
// title and slot date/start time are denormalized snapshots taken at booking
// time so that historical bookings stay meaningful even if the experience is
// edited later. BookingReference is the short human-facing identifier and is
// unique across all bookings; ID is the storage identity.
type Booking struct {
	ID               uint64    `json:"id"`
	ExperienceID     uint64    `json:"experienceId"`
	ExperienceTitle  string    `json:"experienceTitle"`
	SlotID           string    `json:"slotId"`
	Date             string    `json:"date"`
	StartTime        string    `json:"startTime"`
	UserFullName     string    `json:"userFullName"`
	UserEmail        string    `json:"userEmail"`
	PromoCodeApplied *string   `json:"promoCodeApplied"`
	DiscountAmount   float64   `json:"discountAmount"`
	FinalPrice       float64   `json:"finalPrice"`
	NumberOfPeople   int       `json:"numberOfPeople"`
	Status           string    `json:"status"`
	BookingReference string    `json:"bookingReference"`
	CreatedAt        time.Time `json:"createdAt"`
}
