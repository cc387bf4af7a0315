package delivery

import "fmt"

type SessionStatus string

const (
	SessionActive         SessionStatus = "active"
	SessionReadyForPickup SessionStatus = "ready_for_pickup"
	SessionArchived       SessionStatus = "archived"
)

type ArtworkStatus string

const (
	StatusInStock   ArtworkStatus = "in_stock"
	StatusInTruck   ArtworkStatus = "in_truck"
	StatusDelivered ArtworkStatus = "delivered"
	// Returned is never produced by the scan workflow; it exists as a manual
	// bucket that delivery reports fold into "not delivered".
	StatusReturned ArtworkStatus = "returned"
)

// Phase is the operator-selected workflow mode on the driver screen.
type Phase string

const (
	PhaseLoading    Phase = "loading"
	PhaseDelivering Phase = "delivering"
)

// ParsePhase validates a wire value.
func ParsePhase(s string) (Phase, error) {
	switch Phase(s) {
	case PhaseLoading, PhaseDelivering:
		return Phase(s), nil
	}
	return "", fmt.Errorf("%w: unknown phase %q", ErrValidation, s)
}

// Precondition is the status an artwork must currently hold for a bulk
// scan-confirm in this phase to apply. Anything else is silently skipped.
func (p Phase) Precondition() ArtworkStatus {
	if p == PhaseDelivering {
		return StatusInTruck
	}
	return StatusInStock
}

// Target is the status a bulk scan-confirm in this phase moves artworks to.
func (p Phase) Target() ArtworkStatus {
	if p == PhaseDelivering {
		return StatusDelivered
	}
	return StatusInTruck
}

// SessionTransitionAllowed enforces the forward-only session lifecycle:
// active -> ready_for_pickup -> archived.
func SessionTransitionAllowed(from, to SessionStatus) bool {
	switch from {
	case SessionActive:
		return to == SessionReadyForPickup
	case SessionReadyForPickup:
		return to == SessionArchived
	}
	return false
}

// manualEdges are the only artwork moves an operator may force from the
// manual override dialog. The override skips the phase precondition used by
// bulk confirmation but never leaves this table.
var manualEdges = map[ArtworkStatus][]ArtworkStatus{
	StatusInStock:   {StatusInTruck},
	StatusInTruck:   {StatusInStock, StatusDelivered},
	StatusDelivered: {StatusInTruck},
}

// ManualTransitionAllowed reports whether from -> to is one of the four
// permitted override edges.
func ManualTransitionAllowed(from, to ArtworkStatus) bool {
	for _, next := range manualEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidArtworkStatus reports whether s is a known status value.
func ValidArtworkStatus(s ArtworkStatus) bool {
	switch s {
	case StatusInStock, StatusInTruck, StatusDelivered, StatusReturned:
		return true
	}
	return false
}
