// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published after a booking transaction commits.
// It carries enough data for downstream consumers to log or notify without
// querying the primary database.
type BookingConfirmedEvent struct {
	BookingReference string  `json:"booking_reference"`
	ExperienceTitle  string  `json:"experience_title"`
	SlotID           string  `json:"slot_id"`
	Date             string  `json:"date"`
	StartTime        string  `json:"start_time"`
	UserEmail        string  `json:"user_email"`
	NumberOfPeople   int     `json:"number_of_people"`
	FinalPrice       float64 `json:"final_price"`
	ConfirmedAt      string  `json:"confirmed_at"`
}
