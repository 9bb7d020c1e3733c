// Package handler exposes the claim registry over HTTP. It is a thin
// adapter: authentication happens in middleware, validation and state
// transitions in the service.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"proofmark/internal/claim"
	"proofmark/internal/platform/metrics"
	"proofmark/internal/platform/middleware"
	"proofmark/internal/transport/http/shared"
	"proofmark/pkg/domain"
	dErrors "proofmark/pkg/domain-errors"
)

// Service defines the claim operations the handler needs.
type Service interface {
	Create(ctx context.Context, sender domain.AccountID, proof claim.Proof) (*claim.ProofRecord, error)
	Transfer(ctx context.Context, sender, newOwner domain.AccountID, proof claim.Proof) error
	Revoke(ctx context.Context, sender domain.AccountID, proof claim.Proof) error
	Get(ctx context.Context, proof claim.Proof) (*claim.ProofRecord, error)
}

// Handler handles claim endpoints.
type Handler struct {
	service   Service
	logger    *slog.Logger
	metrics   *metrics.Metrics
	validator middleware.JWTValidator
}

// New creates a new claim Handler.
func New(service Service, logger *slog.Logger, m *metrics.Metrics, validator middleware.JWTValidator) *Handler {
	return &Handler{
		service:   service,
		logger:    logger,
		metrics:   m,
		validator: validator,
	}
}

// Register mounts the claim routes. Lookup is public; the three state
// transitions require an authenticated sender.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.Latency(h.metrics))

	router.Get("/v1/claims/{proof}", h.handleGetClaim)

	router.Group(func(g chi.Router) {
		g.Use(middleware.RequireAuth(h.validator, h.logger))
		g.Post("/v1/claims", h.handleCreateClaim)
		g.Post("/v1/claims/transfer", h.handleTransferClaim)
		g.Post("/v1/claims/revoke", h.handleRevokeClaim)
	})

	r.Mount("/", router)
}

func (h *Handler) handleCreateClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sender, ok := h.sender(ctx, w)
	if !ok {
		return
	}

	var req CreateClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	proof, err := parseProof(req.Proof)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	record, err := h.service.Create(ctx, sender, proof)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, toClaimResponse(proof, record))
}

func (h *Handler) handleTransferClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sender, ok := h.sender(ctx, w)
	if !ok {
		return
	}

	var req TransferClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	proof, err := parseProof(req.Proof)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	newOwner, err := parseNewOwner(req.NewOwner)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.service.Transfer(ctx, sender, newOwner, proof); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRevokeClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sender, ok := h.sender(ctx, w)
	if !ok {
		return
	}

	var req RevokeClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	proof, err := parseProof(req.Proof)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.service.Revoke(ctx, sender, proof); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGetClaim(w http.ResponseWriter, r *http.Request) {
	proof, err := parseProof(chi.URLParam(r, "proof"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	record, err := h.service.Get(r.Context(), proof)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, toClaimResponse(proof, record))
}

// sender reads the authenticated identity set by RequireAuth. Its absence
// here means the middleware chain is miswired, not a caller mistake.
func (h *Handler) sender(ctx context.Context, w http.ResponseWriter) (domain.AccountID, bool) {
	sender := middleware.GetAccountID(ctx)
	if sender.IsNil() {
		h.logger.ErrorContext(ctx, "sender missing from context despite auth middleware",
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return "", false
	}
	return sender, true
}
