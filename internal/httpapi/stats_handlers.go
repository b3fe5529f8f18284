package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"example.com/hangman/internal/game"
	"example.com/hangman/internal/store"
)

const maxRecentLimit = 200

// SessionSource reports on live sessions.
type SessionSource interface {
	Stats() game.ConnStats
	Sessions() []game.SessionInfo
}

type VisitSource interface {
	Count(ctx context.Context) (int64, error)
}

// OutcomeSource reports per-outcome totals kept outside the results store.
type OutcomeSource interface {
	Outcomes(ctx context.Context) (map[string]int64, error)
}

type StatsResponse struct {
	Visits      int64            `json:"visits"`
	Connections game.ConnStats   `json:"connections"`
	Results     store.Summary    `json:"results"`
	Outcomes    map[string]int64 `json:"outcomes,omitempty"`
}

type StatsHandler struct {
	Sessions SessionSource
	Results  store.Results
	Visits   VisitSource
	Outcomes OutcomeSource // optional
	Log      *slog.Logger
}

func (h *StatsHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	var resp StatsResponse
	resp.Connections = h.Sessions.Stats()

	if h.Visits != nil {
		n, err := h.Visits.Count(r.Context())
		if err != nil {
			writeInternal(w, h.Log, "visit count", err)
			return
		}
		resp.Visits = n
	}

	if h.Outcomes != nil {
		out, err := h.Outcomes.Outcomes(r.Context())
		if err != nil {
			writeInternal(w, h.Log, "outcome counts", err)
			return
		}
		resp.Outcomes = out
	}

	sum, err := h.Results.Summary(r.Context())
	if err != nil {
		writeInternal(w, h.Log, "results summary", err)
		return
	}
	resp.Results = sum

	writeJSON(w, http.StatusOK, resp)
}

func (h *StatsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := store.DefaultRecentLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxRecentLimit {
			writeError(w, http.StatusBadRequest, codeBadRequest, "limit must be 1.."+strconv.Itoa(maxRecentLimit))
			return
		}
		limit = n
	}

	games, err := h.Results.Recent(r.Context(), limit)
	if err != nil {
		writeInternal(w, h.Log, "recent results", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"games": games})
}

func (h *StatsHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"sessions": h.Sessions.Sessions()})
}

// Routes mounts the ops endpoints on r.
func Routes(r chi.Router, h *StatsHandler) {
	r.Get("/healthz", h.Health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", h.Stats)
		r.Get("/games/recent", h.Recent)
		r.Get("/sessions", h.Live)
	})
}
