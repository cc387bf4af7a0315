package delivery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"delivery-app/internal/domain/manifest"

	"github.com/google/uuid"
)

// memStore is an in-memory Store for exercising the workflow without
// postgres. Status updates take the same compare-and-swap shape as the gorm
// implementation.
type memStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	artworks map[string]*Artwork

	failCreate bool
}

func newMemStore() *memStore {
	return &memStore{
		sessions: make(map[string]*Session),
		artworks: make(map[string]*Artwork),
	}
}

func (m *memStore) CreateSessionWithArtworks(ctx context.Context, session *Session, artworks []Artwork) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate {
		return errors.New("insert failed")
	}
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	m.sessions[session.ID] = session
	for i := range artworks {
		a := artworks[i]
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		a.SessionID = session.ID
		m.artworks[a.ID] = &a
	}
	return nil
}

func (m *memStore) GetSession(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: session %s", ErrNotFound, id)
	}
	copied := *s
	return &copied, nil
}

func (m *memStore) ListArtworks(ctx context.Context, sessionID string) ([]Artwork, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Artwork
	for _, a := range m.artworks {
		if a.SessionID == sessionID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memStore) GetArtwork(ctx context.Context, id string) (*Artwork, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.artworks[id]
	if !ok {
		return nil, fmt.Errorf("%w: artwork %s", ErrNotFound, id)
	}
	copied := *a
	return &copied, nil
}

func (m *memStore) UpdateSessionStatus(ctx context.Context, id string, from, to SessionStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || s.Status != from {
		return false, nil
	}
	s.Status = to
	return true, nil
}

func (m *memStore) UpdateArtworkStatus(ctx context.Context, id string, from, to ArtworkStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.artworks[id]
	if !ok || a.Status != from {
		return false, nil
	}
	a.Status = to
	return true, nil
}

type fakeNotifier struct {
	mu sync.Mutex

	confirmations int
	reports       int

	lastDelivered []Artwork
	lastReturned  []Artwork

	fail bool
}

func (n *fakeNotifier) DeliveryConfirmation(session *Session, delivered []Artwork) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmations++
	n.lastDelivered = delivered
	if n.fail {
		return errors.New("smtp down")
	}
	return nil
}

func (n *fakeNotifier) DeliveryReport(session *Session, delivered, returned []Artwork) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reports++
	n.lastDelivered = delivered
	n.lastReturned = returned
	if n.fail {
		return errors.New("smtp down")
	}
	return nil
}

func newTestWorkflow() (*Workflow, *memStore, *fakeNotifier) {
	st := newMemStore()
	notifier := &fakeNotifier{}
	return NewWorkflow(st, notifier), st, notifier
}

func jane() ClientDetails {
	return ClientDetails{Name: "Jane", Email: "j@x.com", Address: "1 Main St"}
}

func TestCreateSessionRejectsEmptyManifest(t *testing.T) {
	wf, _, _ := newTestWorkflow()

	_, err := wf.CreateSession(context.Background(), nil, jane())
	if !errors.Is(err, ErrEmptyManifest) {
		t.Fatalf("expected ErrEmptyManifest, got %v", err)
	}
}

func TestCreateSessionRequiresClientNameAndEmail(t *testing.T) {
	wf, st, _ := newTestWorkflow()
	candidates := []manifest.Candidate{{WACCode: "A1"}}

	for _, client := range []ClientDetails{
		{Email: "j@x.com"},
		{Name: "Jane"},
		{Name: "  ", Email: "j@x.com"},
	} {
		if _, err := wf.CreateSession(context.Background(), candidates, client); !errors.Is(err, ErrValidation) {
			t.Fatalf("client %+v: expected ErrValidation, got %v", client, err)
		}
	}

	if len(st.sessions) != 0 || len(st.artworks) != 0 {
		t.Fatalf("failed validation must leave the store untouched")
	}
}

func TestCreateSessionReportsStoreFailure(t *testing.T) {
	wf, st, _ := newTestWorkflow()
	st.failCreate = true

	_, err := wf.CreateSession(context.Background(), []manifest.Candidate{{WACCode: "A1"}}, jane())
	if !errors.Is(err, ErrDependency) {
		t.Fatalf("expected ErrDependency, got %v", err)
	}
}

func TestCreateSessionAppliesCommitDefaults(t *testing.T) {
	wf, st, _ := newTestWorkflow()

	id, err := wf.CreateSession(context.Background(), []manifest.Candidate{{WACCode: " A1 "}}, jane())
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	artworks, _ := st.ListArtworks(context.Background(), id)
	if len(artworks) != 1 {
		t.Fatalf("expected 1 artwork, got %d", len(artworks))
	}
	a := artworks[0]
	if a.WACCode != "A1" {
		t.Fatalf("code must be trimmed at commit, got %q", a.WACCode)
	}
	if a.Artist != "Unknown" || a.Title != "Untitled" || a.Dimensions != "" {
		t.Fatalf("expected commit defaults, got %+v", a)
	}
}

func TestFinalizeSessionNotFound(t *testing.T) {
	wf, _, _ := newTestWorkflow()
	if err := wf.FinalizeSession(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFinalizeSessionOnlyFromActive(t *testing.T) {
	wf, st, _ := newTestWorkflow()
	id, _ := wf.CreateSession(context.Background(), []manifest.Candidate{{WACCode: "A1"}}, jane())

	if err := wf.FinalizeSession(context.Background(), id); err != nil {
		t.Fatalf("first finalize: %v", err)
	}
	if err := wf.FinalizeSession(context.Background(), id); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("second finalize: expected ErrInvalidTransition, got %v", err)
	}

	session, _ := st.GetSession(context.Background(), id)
	if session.Status != SessionReadyForPickup {
		t.Fatalf("failed finalize must not move status, got %s", session.Status)
	}
}

func TestConfirmSelectionsSkipsWhenPreconditionMissing(t *testing.T) {
	wf, st, _ := newTestWorkflow()
	id, _ := wf.CreateSession(context.Background(), []manifest.Candidate{{WACCode: "A1"}}, jane())
	artworks, _ := st.ListArtworks(context.Background(), id)
	artworkID := artworks[0].ID

	// Move to in_truck, then re-run the loading confirm: must be a silent no-op.
	if _, err := st.UpdateArtworkStatus(context.Background(), artworkID, StatusInStock, StatusInTruck); err != nil {
		t.Fatalf("setup: %v", err)
	}

	results, err := wf.ConfirmSelections(context.Background(), PhaseLoading, []ReviewMatch{
		{Match: &Artwork{ID: artworkID}, Selected: true},
	})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Applied {
		t.Fatalf("re-scan of advanced item must not apply")
	}
	if results[0].Err != nil {
		t.Fatalf("skip must not be an error, got %v", results[0].Err)
	}

	a, _ := st.GetArtwork(context.Background(), artworkID)
	if a.Status != StatusInTruck {
		t.Fatalf("status must be unchanged, got %s", a.Status)
	}
}

func TestConfirmSelectionsIgnoresUnselectedAndUnmatched(t *testing.T) {
	wf, st, _ := newTestWorkflow()
	id, _ := wf.CreateSession(context.Background(), []manifest.Candidate{{WACCode: "A1"}}, jane())
	artworks, _ := st.ListArtworks(context.Background(), id)

	results, err := wf.ConfirmSelections(context.Background(), PhaseLoading, []ReviewMatch{
		{Match: &Artwork{ID: artworks[0].ID}, Selected: false},
		{Match: nil, Selected: true},
	})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}

	a, _ := st.GetArtwork(context.Background(), artworks[0].ID)
	if a.Status != StatusInStock {
		t.Fatalf("unselected item must stay in_stock, got %s", a.Status)
	}
}

func TestConfirmSelectionsRejectsUnknownPhase(t *testing.T) {
	wf, _, _ := newTestWorkflow()
	if _, err := wf.ConfirmSelections(context.Background(), Phase("unloading"), nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestManualUpdateEnforcesEdges(t *testing.T) {
	wf, st, _ := newTestWorkflow()
	id, _ := wf.CreateSession(context.Background(), []manifest.Candidate{{WACCode: "A1"}}, jane())
	artworks, _ := st.ListArtworks(context.Background(), id)
	artworkID := artworks[0].ID

	// in_stock -> delivered skips the truck and must be rejected.
	err := wf.UpdateArtworkStatus(context.Background(), artworkID, StatusDelivered)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	a, _ := st.GetArtwork(context.Background(), artworkID)
	if a.Status != StatusInStock {
		t.Fatalf("rejected transition must not change status, got %s", a.Status)
	}

	// The permitted edges work without phase preconditions.
	for _, target := range []ArtworkStatus{StatusInTruck, StatusDelivered, StatusInTruck, StatusInStock} {
		if err := wf.UpdateArtworkStatus(context.Background(), artworkID, target); err != nil {
			t.Fatalf("manual update to %s: %v", target, err)
		}
	}

	if err := wf.UpdateArtworkStatus(context.Background(), artworkID, StatusReturned); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("returned must not be a manual target, got %v", err)
	}
	if err := wf.UpdateArtworkStatus(context.Background(), "missing", StatusInTruck); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCompleteDeliveryRequiresFinalizedSession(t *testing.T) {
	wf, _, notifier := newTestWorkflow()
	id, _ := wf.CreateSession(context.Background(), []manifest.Candidate{{WACCode: "A1"}}, jane())

	if err := wf.CompleteDelivery(context.Background(), id); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("active session must not complete, got %v", err)
	}
	if notifier.reports != 0 || notifier.confirmations != 0 {
		t.Fatalf("rejected completion must not notify")
	}
}

func TestCompleteDeliveryArchivedIsTerminal(t *testing.T) {
	wf, _, _ := newTestWorkflow()
	id, _ := wf.CreateSession(context.Background(), []manifest.Candidate{{WACCode: "A1"}}, jane())
	_ = wf.FinalizeSession(context.Background(), id)
	if err := wf.CompleteDelivery(context.Background(), id); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if err := wf.CompleteDelivery(context.Background(), id); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("archived session must stay archived, got %v", err)
	}
}

func TestCompleteDeliverySkipsClientMailWithoutDeliveredItems(t *testing.T) {
	wf, _, notifier := newTestWorkflow()
	id, _ := wf.CreateSession(context.Background(), []manifest.Candidate{{WACCode: "A1"}}, jane())
	_ = wf.FinalizeSession(context.Background(), id)

	if err := wf.CompleteDelivery(context.Background(), id); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if notifier.confirmations != 0 {
		t.Fatalf("no delivered items, client confirmation must be skipped")
	}
	if notifier.reports != 1 {
		t.Fatalf("admin report must always be attempted, got %d", notifier.reports)
	}
	if len(notifier.lastReturned) != 1 {
		t.Fatalf("undelivered artwork must land in the returned partition")
	}
}

func TestCompleteDeliveryArchivesDespiteMailFailure(t *testing.T) {
	wf, st, notifier := newTestWorkflow()
	notifier.fail = true
	id, _ := wf.CreateSession(context.Background(), []manifest.Candidate{{WACCode: "A1"}}, jane())
	_ = wf.FinalizeSession(context.Background(), id)

	if err := wf.CompleteDelivery(context.Background(), id); err != nil {
		t.Fatalf("mail outage must not block completion: %v", err)
	}

	session, _ := st.GetSession(context.Background(), id)
	if session.Status != SessionArchived {
		t.Fatalf("expected archived, got %s", session.Status)
	}
}

func TestEndToEndDeliveryFlow(t *testing.T) {
	ctx := context.Background()
	wf, st, notifier := newTestWorkflow()

	id, err := wf.CreateSession(ctx, []manifest.Candidate{{WACCode: "A1"}}, jane())
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	session, _ := st.GetSession(ctx, id)
	if session.Status != SessionActive {
		t.Fatalf("new session must be active, got %s", session.Status)
	}
	artworks, _ := st.ListArtworks(ctx, id)
	if len(artworks) != 1 || artworks[0].Status != StatusInStock || artworks[0].WACCode != "A1" {
		t.Fatalf("expected one in_stock artwork A1, got %+v", artworks)
	}

	if err := wf.FinalizeSession(ctx, id); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	session, _ = st.GetSession(ctx, id)
	if session.Status != SessionReadyForPickup {
		t.Fatalf("expected ready_for_pickup, got %s", session.Status)
	}

	// Loading phase: scan, match, confirm.
	matches, err := wf.MatchScans(ctx, id, []manifest.Candidate{{WACCode: "A1"}})
	if err != nil {
		t.Fatalf("match scans: %v", err)
	}
	if len(matches) != 1 || matches[0].Match == nil || !matches[0].Selected {
		t.Fatalf("expected one pre-selected match, got %+v", matches)
	}

	results, err := wf.ConfirmSelections(ctx, PhaseLoading, matches)
	if err != nil {
		t.Fatalf("confirm loading: %v", err)
	}
	if len(results) != 1 || !results[0].Applied {
		t.Fatalf("loading confirm must apply, got %+v", results)
	}
	a, _ := st.GetArtwork(ctx, matches[0].Match.ID)
	if a.Status != StatusInTruck {
		t.Fatalf("expected in_truck, got %s", a.Status)
	}

	// Delivering phase.
	matches, _ = wf.MatchScans(ctx, id, []manifest.Candidate{{WACCode: "A1"}})
	results, err = wf.ConfirmSelections(ctx, PhaseDelivering, matches)
	if err != nil {
		t.Fatalf("confirm delivering: %v", err)
	}
	if !results[0].Applied {
		t.Fatalf("delivering confirm must apply")
	}
	a, _ = st.GetArtwork(ctx, a.ID)
	if a.Status != StatusDelivered {
		t.Fatalf("expected delivered, got %s", a.Status)
	}

	if err := wf.CompleteDelivery(ctx, id); err != nil {
		t.Fatalf("complete delivery: %v", err)
	}

	session, _ = st.GetSession(ctx, id)
	if session.Status != SessionArchived {
		t.Fatalf("expected archived, got %s", session.Status)
	}
	if notifier.reports != 1 {
		t.Fatalf("expected exactly one admin report attempt, got %d", notifier.reports)
	}
	if notifier.confirmations != 1 {
		t.Fatalf("expected one client confirmation, got %d", notifier.confirmations)
	}
	if len(notifier.lastDelivered) != 1 || len(notifier.lastReturned) != 0 {
		t.Fatalf("expected delivered=1 returned=0, got %d/%d",
			len(notifier.lastDelivered), len(notifier.lastReturned))
	}

	// Archived sessions are read-only for the scanner too.
	if _, err := wf.MatchScans(ctx, id, []manifest.Candidate{{WACCode: "A1"}}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("scanning an archived session must fail, got %v", err)
	}
}
