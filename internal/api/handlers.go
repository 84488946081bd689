package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"rehearsal-hub/internal/health"
	"rehearsal-hub/internal/hub"
	"rehearsal-hub/internal/logs"
	"rehearsal-hub/internal/store"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	hub      *hub.Hub
	analyzer *health.Analyzer
	logger   *logs.Logger
	metrics  http.Handler
}

// NewHandler creates a new API handler. gatherer backs /metrics.
func NewHandler(
	h *hub.Hub,
	logger *logs.Logger,
	gatherer prometheus.Gatherer,
) *Handler {
	return &Handler{
		hub:      h,
		analyzer: health.NewAnalyzer(h, logger),
		logger:   logger,
		metrics:  promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
	}
}

func (h *Handler) cache(w http.ResponseWriter, r *http.Request) (*store.Store, bool) {
	name := r.PathValue("name")
	s, ok := h.hub.Get(name)
	if !ok {
		http.Error(w, "unknown cache", http.StatusNotFound)
		return nil, false
	}
	return s, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

/* ---------------- GET /caches ---------------- */

func (h *Handler) ListCaches(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.hub.Stats())
}

/* ---------------- GET /caches/{name} ---------------- */

func (h *Handler) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	s, ok := h.cache(w, r)
	if !ok {
		return
	}
	writeJSON(w, s.Stats())
}

/* ---------------- DELETE /caches/{name} ---------------- */

func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	s, ok := h.cache(w, r)
	if !ok {
		return
	}
	s.Clear()
	w.WriteHeader(http.StatusNoContent)
}

/* ---------------- PUT /caches/{name}/kv/{key} ---------------- */

type setRequest struct {
	Value any   `json:"value"`
	TTLms int64 `json:"ttl_ms,omitempty"`
}

func (h *Handler) SetKey(w http.ResponseWriter, r *http.Request) {
	s, ok := h.cache(w, r)
	if !ok {
		return
	}
	key := r.PathValue("key")

	var req setRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	var opts []store.SetOption
	if req.TTLms != 0 {
		opts = append(opts, store.WithTTL(time.Duration(req.TTLms)*time.Millisecond))
	}

	if err := s.Set(key, req.Value, opts...); err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidTTL):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("cache set failed", zap.String("cache", s.Name()), zap.Error(err))
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/* ---------------- GET /caches/{name}/kv/{key} ---------------- */

type entryResponse struct {
	Value       any       `json:"value"`
	ExpiresAt   time.Time `json:"expires_at"`
	AccessCount int64     `json:"access_count"`
}

func (h *Handler) GetKey(w http.ResponseWriter, r *http.Request) {
	s, ok := h.cache(w, r)
	if !ok {
		return
	}
	key := r.PathValue("key")

	if _, ok := s.Get(key); !ok {
		http.Error(w, "key not found", http.StatusNotFound)
		return
	}
	entry, ok := s.Peek(key)
	if !ok {
		http.Error(w, "key not found", http.StatusNotFound)
		return
	}

	writeJSON(w, entryResponse{
		Value:       entry.Value,
		ExpiresAt:   entry.ExpiresAt(),
		AccessCount: entry.AccessCount,
	})
}

/* ---------------- DELETE /caches/{name}/kv/{key} ---------------- */

func (h *Handler) DeleteKey(w http.ResponseWriter, r *http.Request) {
	s, ok := h.cache(w, r)
	if !ok {
		return
	}
	s.Delete(r.PathValue("key"))
	w.WriteHeader(http.StatusNoContent)
}

/* ---------------- GET /metrics ---------------- */

func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}

/* ---------------- GET /health ---------------- */

func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.analyzer.Analyze())
}
