package delivery

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"delivery-app/internal/domain/manifest"
)

// Store is the persistence surface the workflow needs. Status updates are
// compare-and-swap: they only apply while the row still holds the expected
// current status, and report whether a row was changed. That single primitive
// is both the phase-precondition guard for bulk confirmation and the
// optimistic concurrency control for racing operators.
type Store interface {
	CreateSessionWithArtworks(ctx context.Context, session *Session, artworks []Artwork) error
	GetSession(ctx context.Context, id string) (*Session, error)
	ListArtworks(ctx context.Context, sessionID string) ([]Artwork, error)
	GetArtwork(ctx context.Context, id string) (*Artwork, error)
	UpdateSessionStatus(ctx context.Context, id string, from, to SessionStatus) (bool, error)
	UpdateArtworkStatus(ctx context.Context, id string, from, to ArtworkStatus) (bool, error)
}

// Notifier sends the completion emails. Both sends are best-effort: the
// workflow logs failures and archives the session regardless, because the
// delivery itself already happened in the physical world.
type Notifier interface {
	DeliveryConfirmation(session *Session, delivered []Artwork) error
	DeliveryReport(session *Session, delivered, returned []Artwork) error
}

// ClientDetails is the recipient of a delivery session.
type ClientDetails struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// UpdateResult is the per-item outcome of a bulk confirmation. Applied=false
// with a nil Err means the precondition no longer held and the item was
// skipped, so re-scanning an already-advanced piece is a no-op.
type UpdateResult struct {
	ArtworkID string `json:"artwork_id"`
	Applied   bool   `json:"applied"`
	Err       error  `json:"-"`
}

type Workflow struct {
	store    Store
	notifier Notifier
}

func NewWorkflow(store Store, notifier Notifier) *Workflow {
	return &Workflow{store: store, notifier: notifier}
}

// CreateSession reconciles the candidate list, validates the client details
// and persists the session with one in_stock artwork per candidate as a
// single transaction.
func (w *Workflow) CreateSession(ctx context.Context, candidates []manifest.Candidate, client ClientDetails) (string, error) {
	candidates = manifest.Reconcile(candidates)
	if len(candidates) == 0 {
		return "", ErrEmptyManifest
	}
	if strings.TrimSpace(client.Name) == "" || strings.TrimSpace(client.Email) == "" {
		return "", fmt.Errorf("%w: client name and email are required", ErrValidation)
	}

	session := &Session{
		ClientName:  client.Name,
		ClientEmail: client.Email,
		Address:     client.Address,
		Status:      SessionActive,
	}

	artworks := make([]Artwork, 0, len(candidates))
	for _, c := range candidates {
		artworks = append(artworks, Artwork{
			WACCode:    strings.TrimSpace(c.WACCode),
			Artist:     c.ArtistOrDefault(),
			Title:      c.TitleOrDefault(),
			Dimensions: c.Dimensions,
			Status:     StatusInStock,
		})
	}

	if err := w.store.CreateSessionWithArtworks(ctx, session, artworks); err != nil {
		return "", fmt.Errorf("%w: create session: %v", ErrDependency, err)
	}
	return session.ID, nil
}

// FinalizeSession moves an active session to ready_for_pickup so drivers can
// see it.
func (w *Workflow) FinalizeSession(ctx context.Context, id string) error {
	session, err := w.store.GetSession(ctx, id)
	if err != nil {
		return err
	}
	if session.Status != SessionActive {
		return fmt.Errorf("%w: session is %s", ErrInvalidTransition, session.Status)
	}
	ok, err := w.store.UpdateSessionStatus(ctx, id, SessionActive, SessionReadyForPickup)
	if err != nil {
		return fmt.Errorf("%w: finalize session: %v", ErrDependency, err)
	}
	if !ok {
		// Lost a race; the session moved on since we loaded it.
		return fmt.Errorf("%w: session is no longer active", ErrInvalidTransition)
	}
	return nil
}

// MatchScans loads the session's artwork set and matches the scanned codes
// against it.
func (w *Workflow) MatchScans(ctx context.Context, sessionID string, scans []manifest.Candidate) ([]ReviewMatch, error) {
	session, err := w.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == SessionArchived {
		return nil, fmt.Errorf("%w: session is archived", ErrInvalidTransition)
	}
	artworks, err := w.store.ListArtworks(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: load artworks: %v", ErrDependency, err)
	}
	return MatchScans(scans, artworks), nil
}

// ConfirmSelections applies the phase transition to every selected match.
// Updates run concurrently with no ordering guarantee; each is individually
// guarded by the phase precondition, and each failure is reported per item so
// the caller can retry only the failed subset.
func (w *Workflow) ConfirmSelections(ctx context.Context, phase Phase, selections []ReviewMatch) ([]UpdateResult, error) {
	if _, err := ParsePhase(string(phase)); err != nil {
		return nil, err
	}

	required := phase.Precondition()
	target := phase.Target()

	type job struct {
		idx       int
		artworkID string
	}
	jobs := make([]job, 0, len(selections))
	results := make([]UpdateResult, 0, len(selections))
	for _, sel := range selections {
		if !sel.Selected || sel.Match == nil {
			continue
		}
		jobs = append(jobs, job{idx: len(results), artworkID: sel.Match.ID})
		results = append(results, UpdateResult{ArtworkID: sel.Match.ID})
	}

	var wg sync.WaitGroup
	for _, j := range jobs {
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			applied, err := w.store.UpdateArtworkStatus(ctx, j.artworkID, required, target)
			if err != nil {
				results[j.idx].Err = fmt.Errorf("%w: update artwork %s: %v", ErrDependency, j.artworkID, err)
				return
			}
			results[j.idx].Applied = applied
		}(j)
	}
	wg.Wait()

	return results, nil
}

// UpdateArtworkStatus is the manual override. It bypasses the phase
// precondition but the move must still be one of the permitted edges, and the
// write only lands if the status we validated against is still current.
func (w *Workflow) UpdateArtworkStatus(ctx context.Context, artworkID string, target ArtworkStatus) error {
	if !ValidArtworkStatus(target) {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, target)
	}
	artwork, err := w.store.GetArtwork(ctx, artworkID)
	if err != nil {
		return err
	}
	if !ManualTransitionAllowed(artwork.Status, target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, artwork.Status, target)
	}
	ok, err := w.store.UpdateArtworkStatus(ctx, artworkID, artwork.Status, target)
	if err != nil {
		return fmt.Errorf("%w: update artwork: %v", ErrDependency, err)
	}
	if !ok {
		return fmt.Errorf("%w: artwork status changed concurrently", ErrInvalidTransition)
	}
	return nil
}

// CompleteDelivery partitions the session's artworks into delivered and
// not-delivered, sends the completion emails best-effort and archives the
// session. Archiving is deliberately not gated on email success.
func (w *Workflow) CompleteDelivery(ctx context.Context, sessionID string) error {
	session, err := w.store.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if !SessionTransitionAllowed(session.Status, SessionArchived) {
		return fmt.Errorf("%w: session is %s", ErrInvalidTransition, session.Status)
	}
	artworks, err := w.store.ListArtworks(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("%w: load artworks: %v", ErrDependency, err)
	}

	var delivered, returned []Artwork
	for _, a := range artworks {
		if a.Status == StatusDelivered {
			delivered = append(delivered, a)
		} else {
			returned = append(returned, a)
		}
	}

	if session.ClientEmail != "" && len(delivered) > 0 {
		if err := w.notifier.DeliveryConfirmation(session, delivered); err != nil {
			log.Printf("Failed to send confirmation to client %s: %v", session.ClientEmail, err)
		}
	}

	if err := w.notifier.DeliveryReport(session, delivered, returned); err != nil {
		log.Printf("Failed to send delivery report for session %s: %v", session.ID, err)
	}

	ok, err := w.store.UpdateSessionStatus(ctx, sessionID, SessionReadyForPickup, SessionArchived)
	if err != nil {
		return fmt.Errorf("%w: archive session: %v", ErrDependency, err)
	}
	if !ok {
		return fmt.Errorf("%w: session moved while completing", ErrInvalidTransition)
	}
	return nil
}
