// Package selection stores the line and stops a client last picked, so a UI
// can restore them on the next visit.
package selection

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tplfvg/tariffe/pricing"
)

// ErrNotFound is returned when a client has no saved selection.
var ErrNotFound = errors.New("selection: not found")

// ErrInvalidClientID is returned for client IDs that are not UUIDs.
var ErrInvalidClientID = errors.New("selection: invalid client id")

// Saved is a client's selection. Nil fields are unset.
type Saved struct {
	Line      *int      `json:"line"`
	Departure *int      `json:"departure"`
	Arrival   *int      `json:"arrival"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SelectLine sets the line and clears both stops.
func (s *Saved) SelectLine(i int) {
	s.Line = &i
	s.Departure = nil
	s.Arrival = nil
}

func (s *Saved) SelectDeparture(i int) { s.Departure = &i }

func (s *Saved) SelectArrival(i int) { s.Arrival = &i }

// Swap exchanges departure and arrival. It does nothing unless the line and
// both stops are set.
func (s *Saved) Swap() bool {
	if s.Line == nil || s.Departure == nil || s.Arrival == nil {
		return false
	}
	s.Departure, s.Arrival = s.Arrival, s.Departure
	return true
}

// ResetRoute clears both stops and keeps the line.
func (s *Saved) ResetRoute() {
	s.Departure = nil
	s.Arrival = nil
}

// Selection converts to calculator input.
func (s Saved) Selection() pricing.Selection {
	return pricing.Selection{
		Line:      pricing.ParseIndex(s.Line),
		Departure: pricing.ParseIndex(s.Departure),
		Arrival:   pricing.ParseIndex(s.Arrival),
	}
}

// Store persists selections by client ID.
type Store interface {
	Get(ctx context.Context, clientID string) (Saved, error)
	Save(ctx context.Context, clientID string, s Saved) error
	Delete(ctx context.Context, clientID string) error
}

// NewClientID returns a fresh random client ID.
func NewClientID() string {
	return uuid.NewString()
}

// CheckClientID rejects IDs that are not UUIDs.
func CheckClientID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidClientID
	}
	return nil
}
