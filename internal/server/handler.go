// Package server provides the JSON HTTP API for review sessions.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/wiaanjvr/fluency-next-sub010/internal/deck"
	"github.com/wiaanjvr/fluency-next-sub010/internal/query"
	"github.com/wiaanjvr/fluency-next-sub010/internal/review"
	"github.com/wiaanjvr/fluency-next-sub010/internal/srs"
	"github.com/wiaanjvr/fluency-next-sub010/internal/stats"
)

// Handler serves the review API.
type Handler struct {
	reviews *review.Service
	repo    deck.Repository
}

// NewHandler creates a new Handler.
func NewHandler(reviews *review.Service, repo deck.Repository) *Handler {
	return &Handler{
		reviews: reviews,
		repo:    repo,
	}
}

// Routes returns the route table for the API.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/queue", h.getQueue)
	mux.HandleFunc("POST /api/v1/reviews", h.postReview)
	mux.HandleFunc("POST /api/v1/items/{id}/suspend", h.postSuspend)
	mux.HandleFunc("POST /api/v1/items/{id}/unsuspend", h.postUnsuspend)
	mux.HandleFunc("POST /api/v1/items/{id}/bury", h.postBury)
	mux.HandleFunc("POST /api/v1/decks/{deck}/unbury", h.postUnburyDeck)
	mux.HandleFunc("GET /api/v1/search", h.getSearch)
	mux.HandleFunc("GET /api/v1/stats", h.getStats)
	return mux
}

// getQueue returns the due queue for a deck, optionally narrowed by a
// search query. An empty deck parameter spans all decks.
func (h *Handler) getQueue(w http.ResponseWriter, r *http.Request) {
	queue, err := h.reviews.Queue(r.Context(), r.URL.Query().Get("deck"), r.URL.Query().Get("q"))
	if err != nil {
		h.respondServiceError(w, fmt.Errorf("build queue: %w", err))
		return
	}

	respondJSON(w, http.StatusOK, toQueueResponse(queue))
}

// postReview grades one answer and returns the rescheduled item.
func (h *Handler) postReview(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if req.ItemID == "" {
		respondError(w, http.StatusBadRequest, errors.New("item_id is required"))
		return
	}
	if req.Rating == nil {
		respondError(w, http.StatusBadRequest, errors.New("rating is required"))
		return
	}

	result, err := h.reviews.Submit(r.Context(), req.ItemID, srs.Rating(*req.Rating), req.ResponseTimeMs)
	if err != nil {
		h.respondServiceError(w, fmt.Errorf("submit review: %w", err))
		return
	}

	respondJSON(w, http.StatusOK, toSubmitResponse(result))
}

// postSuspend removes the item from due computations until unsuspended.
func (h *Handler) postSuspend(w http.ResponseWriter, r *http.Request) {
	h.changeFlags(w, r, h.reviews.Suspend)
}

// postUnsuspend returns the item to due computations.
func (h *Handler) postUnsuspend(w http.ResponseWriter, r *http.Request) {
	h.changeFlags(w, r, h.reviews.Unsuspend)
}

// postBury hides the item until the learner's next day.
func (h *Handler) postBury(w http.ResponseWriter, r *http.Request) {
	h.changeFlags(w, r, h.reviews.Bury)
}

func (h *Handler) changeFlags(w http.ResponseWriter, r *http.Request, change func(context.Context, string) (srs.Item, error)) {
	itemID := r.PathValue("id")
	item, err := change(r.Context(), itemID)
	if err != nil {
		h.respondServiceError(w, fmt.Errorf("update item flags(%s): %w", itemID, err))
		return
	}

	respondJSON(w, http.StatusOK, itemResponse{Item: toItemPayload(item)})
}

// postUnburyDeck clears every burial in the deck.
func (h *Handler) postUnburyDeck(w http.ResponseWriter, r *http.Request) {
	deckID := r.PathValue("deck")
	count, err := h.reviews.UnburyDeck(r.Context(), deckID)
	if err != nil {
		h.respondServiceError(w, fmt.Errorf("unbury deck(%s): %w", deckID, err))
		return
	}

	respondJSON(w, http.StatusOK, unburyResponse{Deck: deckID, Unburied: count})
}

// getSearch parses a search query and returns its structured filters
// together with a readable description, without touching storage.
func (h *Handler) getSearch(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("q")
	respondJSON(w, http.StatusOK, toSearchResponse(raw, query.Parse(raw)))
}

// getStats aggregates review history into per-month reports, optionally
// filtered by year and month parameters.
func (h *Handler) getStats(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	month, err := queryInt(r, "month")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if month < 0 || month > 12 {
		respondError(w, http.StatusBadRequest, fmt.Errorf("month out of range: %d", month))
		return
	}

	events, err := h.repo.Events(r.Context())
	if err != nil {
		h.respondServiceError(w, fmt.Errorf("load review events: %w", err))
		return
	}

	respondJSON(w, http.StatusOK, toStatsResponse(stats.Calculate(events, year, month)))
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, deck.ErrItemNotFound), errors.Is(err, deck.ErrDeckNotFound):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, srs.ErrInvalidRating):
		respondError(w, http.StatusBadRequest, err)
	default:
		respondError(w, http.StatusInternalServerError, err)
	}
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return value, nil
}

type errorPayload struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, errorPayload{Error: err.Error()})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Default().Warn("failed to encode response", slog.Any("error", err))
	}
}
