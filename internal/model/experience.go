package model

import "time"

// Experience represents a bookable product such as a tour or a class.
// Each experience owns an ordered list of slots; slots have no lifecycle
// of their own and are stored embedded inside the experience record.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – short display name.
//  Description – longer marketing text.
//  Price       – unit price per person.
//  Duration    – human-readable duration label (e.g. "2 hours").
//  Location    – where the experience takes place.
//  ImageURL    – reference to a cover image.
//  Slots       – embedded bookable time windows.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Experience struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Duration    string    `json:"duration"`
	Location    string    `json:"location"`
	ImageURL    string    `json:"imageUrl"`
	Slots       []Slot    `json:"slots"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Slot is one bookable time window of an experience. The end time is
// authoritative stored data; it is never re-derived from the start time.
// AvailableSeats only decreases during normal operation and IsSoldOut must
// always equal AvailableSeats == 0.
type Slot struct {
	ID             string `json:"id"`
	Date           string `json:"date"` // date-only, formatted 2006-01-02
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	Capacity       int    `json:"capacity"`
	AvailableSeats int    `json:"availableSeats"`
	IsSoldOut      bool   `json:"isSoldOut"`
}

// FindSlot returns a pointer to the slot with the given id, or nil when the
// experience has no such slot.
func (e *Experience) FindSlot(slotID string) *Slot {
	for i := range e.Slots {
		if e.Slots[i].ID == slotID {
			return &e.Slots[i]
		}
	}
	return nil
}

// TakeSeats reserves seats on the slot. It reports whether the slot still
// had enough capacity; on success the seat count is decremented and the
// sold-out flag updated.
func (s *Slot) TakeSeats(n int) bool {
	if s.AvailableSeats < n {
		return false
	}
	s.AvailableSeats -= n
	if s.AvailableSeats == 0 {
		s.IsSoldOut = true
	}
	return true
}
