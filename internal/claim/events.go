package claim

import (
	"context"
	"sync"
	"time"

	"proofmark/pkg/domain"
)

// EventKind labels a successful state transition.
type EventKind string

const (
	// EventClaimCreated is emitted when a proof is first claimed. [owner, proof]
	EventClaimCreated EventKind = "ClaimCreated"
	// EventClaimTransfered is emitted when ownership moves. [from, to, proof]
	EventClaimTransfered EventKind = "ClaimTransfered"
	// EventClaimRevoked is emitted when the owner disowns a proof. [owner, proof]
	EventClaimRevoked EventKind = "ClaimRevoked"
)

// Event describes one successful state transition. Exactly one event is
// emitted per successful operation; failed operations emit nothing. Keep it
// transport-agnostic so sinks can fan out.
type Event struct {
	ID    string         `json:"id"`
	Kind  EventKind      `json:"kind"`
	Proof Proof          `json:"proof"`
	// Sender is the authenticated identity that performed the operation.
	Sender domain.AccountID `json:"sender"`
	// NewOwner is set for ClaimTransfered only.
	NewOwner domain.AccountID `json:"new_owner,omitempty"`
	// Height is the creation height of the claim the event concerns. Only
	// creation consumes a fresh sequence position.
	Height    domain.Height `json:"height"`
	Timestamp time.Time     `json:"timestamp"`
}

// Publisher delivers events to the host's event sink. Implementations must
// tolerate being called after the originating mutation has committed:
// delivery is post-commit and best-effort, never part of the transition.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Recorder is an in-memory Publisher for tests and for hosts that run
// without an event sink.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event{}, r.events...)
}
