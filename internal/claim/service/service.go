// Package service implements the claim registry's state transitions. Each
// operation takes an already-authenticated sender, validates preconditions
// against the store in a fixed order, mutates on success and emits exactly
// one event. Failed operations mutate nothing and emit nothing.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/google/uuid"

	"proofmark/internal/claim"
	"proofmark/internal/claim/metrics"
	"proofmark/internal/sequencer"
	"proofmark/pkg/domain"
	dErrors "proofmark/pkg/domain-errors"
	"proofmark/pkg/platform/sentinel"
)

type Service struct {
	store          claim.Store
	clock          sequencer.Clock
	publisher      claim.Publisher
	metrics        *metrics.Metrics
	logger         *slog.Logger
	tracer         trace.Tracer
	maxBytesInHash int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithPublisher(publisher claim.Publisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithMaxBytesInHash overrides the proof length bound. The service is the
// single enforcement point for it.
func WithMaxBytesInHash(n int) Option {
	return func(s *Service) {
		s.maxBytesInHash = n
	}
}

func New(store claim.Store, clock sequencer.Clock, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("claim store is required")
	}
	if clock == nil {
		return nil, fmt.Errorf("sequencer clock is required")
	}

	svc := &Service{
		store:          store,
		clock:          clock,
		logger:         slog.Default(),
		tracer:         otel.Tracer("proofmark/claim"),
		maxBytesInHash: claim.DefaultMaxBytesInHash,
	}

	for _, opt := range opts {
		opt(svc)
	}

	if svc.maxBytesInHash <= 0 {
		return nil, fmt.Errorf("max bytes in hash must be positive")
	}

	return svc, nil
}

// Create binds proof to sender at the current logical time. The first
// submission of a fingerprint establishes provenance: an existing claim is
// never overwritten, so a fingerprint's creator stays attributable until
// they revoke.
func (s *Service) Create(ctx context.Context, sender domain.AccountID, proof claim.Proof) (*claim.ProofRecord, error) {
	ctx, span := s.startSpan(ctx, "claim.Create", proof)
	defer span.End()
	defer s.observe("create", time.Now())

	if err := s.validate(sender, proof); err != nil {
		return nil, s.reject(ctx, span, "create", proof, err)
	}

	exists, err := s.store.Exists(ctx, proof)
	if err != nil {
		return nil, s.fail(ctx, span, "create", proof, err)
	}
	if exists {
		return nil, s.reject(ctx, span, "create", proof, claim.ErrProofAlreadyClaimed())
	}

	height, err := s.clock.Now(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "create", proof, err)
	}

	record := claim.ProofRecord{Owner: sender, CreatedAt: height}
	if err := s.store.Insert(ctx, proof, record); err != nil {
		// A concurrent create between the existence check and the insert
		// loses here; it is the same caller error either way.
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, s.reject(ctx, span, "create", proof, claim.ErrProofAlreadyClaimed())
		}
		return nil, s.fail(ctx, span, "create", proof, err)
	}

	if s.metrics != nil {
		s.metrics.ClaimsCreated.Inc()
	}
	s.logger.InfoContext(ctx, "claim created",
		"proof", proof.Hex(),
		"owner", sender.String(),
		"height", uint64(height),
	)
	s.emit(ctx, claim.Event{
		Kind:   claim.EventClaimCreated,
		Proof:  proof,
		Sender: sender,
		Height: height,
	})
	return &record, nil
}

// Transfer hands ownership of proof from sender to newOwner. Preconditions
// are checked in order: the record must exist, then sender must own it.
// Transferring to yourself is a permitted no-op that still emits the event.
func (s *Service) Transfer(ctx context.Context, sender, newOwner domain.AccountID, proof claim.Proof) error {
	ctx, span := s.startSpan(ctx, "claim.Transfer", proof)
	defer span.End()
	defer s.observe("transfer", time.Now())

	if err := s.validate(sender, proof); err != nil {
		return s.reject(ctx, span, "transfer", proof, err)
	}
	if newOwner.IsNil() {
		return s.reject(ctx, span, "transfer", proof,
			dErrors.New(dErrors.CodeBadRequest, "new owner is required"))
	}

	record, err := s.authorize(ctx, sender, proof)
	if err != nil {
		return s.reject(ctx, span, "transfer", proof, err)
	}

	if err := s.store.SetOwner(ctx, proof, newOwner); err != nil {
		return s.fail(ctx, span, "transfer", proof, err)
	}

	if s.metrics != nil {
		s.metrics.ClaimsTransferred.Inc()
	}
	s.logger.InfoContext(ctx, "claim transferred",
		"proof", proof.Hex(),
		"from", sender.String(),
		"to", newOwner.String(),
	)
	s.emit(ctx, claim.Event{
		Kind:     claim.EventClaimTransfered,
		Proof:    proof,
		Sender:   sender,
		NewOwner: newOwner,
		Height:   record.CreatedAt,
	})
	return nil
}

// Revoke removes the claim on proof. Same ordered precondition checks as
// Transfer. The proof becomes claimable again by anyone afterwards.
func (s *Service) Revoke(ctx context.Context, sender domain.AccountID, proof claim.Proof) error {
	ctx, span := s.startSpan(ctx, "claim.Revoke", proof)
	defer span.End()
	defer s.observe("revoke", time.Now())

	if err := s.validate(sender, proof); err != nil {
		return s.reject(ctx, span, "revoke", proof, err)
	}

	record, err := s.authorize(ctx, sender, proof)
	if err != nil {
		return s.reject(ctx, span, "revoke", proof, err)
	}

	if err := s.store.Remove(ctx, proof); err != nil {
		return s.fail(ctx, span, "revoke", proof, err)
	}

	if s.metrics != nil {
		s.metrics.ClaimsRevoked.Inc()
	}
	s.logger.InfoContext(ctx, "claim revoked",
		"proof", proof.Hex(),
		"owner", sender.String(),
	)
	s.emit(ctx, claim.Event{
		Kind:   claim.EventClaimRevoked,
		Proof:  proof,
		Sender: sender,
		Height: record.CreatedAt,
	})
	return nil
}

// Get returns the record for proof. Read-only: no event, no sequencing.
func (s *Service) Get(ctx context.Context, proof claim.Proof) (*claim.ProofRecord, error) {
	ctx, span := s.startSpan(ctx, "claim.Get", proof)
	defer span.End()

	if err := proof.Validate(s.maxBytesInHash); err != nil {
		return nil, err
	}
	record, err := s.store.Get(ctx, proof)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, claim.ErrNoSuchProof()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "get claim failed")
	}
	return record, nil
}

// authorize runs the shared transfer/revoke precondition chain: existence
// first, then ownership. A present record without an owner can never be
// produced by the three operations; observing one means the store is
// corrupt, so it surfaces as an invariant violation rather than a caller
// error or a silent no-op.
func (s *Service) authorize(ctx context.Context, sender domain.AccountID, proof claim.Proof) (*claim.ProofRecord, error) {
	record, err := s.store.Get(ctx, proof)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, claim.ErrNoSuchProof()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load claim failed")
	}
	if record.Owner.IsNil() {
		s.logger.ErrorContext(ctx, "registry corruption: proof record has no owner",
			"proof", proof.Hex(),
		)
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "proof record has no owner")
	}
	if record.Owner != sender {
		return nil, claim.ErrNotProofOwner()
	}
	return record, nil
}

func (s *Service) validate(sender domain.AccountID, proof claim.Proof) error {
	if sender.IsNil() {
		// The authenticator collaborator must never deliver this.
		return dErrors.New(dErrors.CodeUnauthorized, "sender identity is required")
	}
	return proof.Validate(s.maxBytesInHash)
}

func (s *Service) emit(ctx context.Context, event claim.Event) {
	if s.publisher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	if err := s.publisher.Publish(ctx, event); err != nil {
		// Post-commit and best-effort: the transition already happened.
		s.logger.WarnContext(ctx, "failed to publish claim event",
			"kind", string(event.Kind),
			"proof", event.Proof.Hex(),
			"error", err.Error(),
		)
	}
}

// reject records a caller error; the operation performed zero mutation.
func (s *Service) reject(ctx context.Context, span trace.Span, op string, proof claim.Proof, err error) error {
	code := string(dErrors.CodeOf(err))
	span.SetAttributes(attribute.String("claim.outcome", code))
	if s.metrics != nil {
		s.metrics.RecordFailure(op, code)
	}
	s.logger.WarnContext(ctx, "claim operation rejected",
		"operation", op,
		"proof", proof.Hex(),
		"code", code,
	)
	return err
}

// fail records an infrastructure error (store or sequencer).
func (s *Service) fail(ctx context.Context, span trace.Span, op string, proof claim.Proof, err error) error {
	span.SetAttributes(attribute.String("claim.outcome", "error"))
	if s.metrics != nil {
		s.metrics.RecordFailure(op, string(dErrors.CodeInternal))
	}
	s.logger.ErrorContext(ctx, "claim operation failed",
		"operation", op,
		"proof", proof.Hex(),
		"error", err.Error(),
	)
	if dErrors.Is(err, dErrors.CodeUnavailable) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, op+" claim failed")
}

func (s *Service) startSpan(ctx context.Context, name string, proof claim.Proof) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.Int("claim.proof_bytes", len(proof)),
	))
}

func (s *Service) observe(op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.OperationLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}
