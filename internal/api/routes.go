package api

import "net/http"

func RegisterRoutes(mux *http.ServeMux, h *Handler) http.Handler {
	// Cache admin APIs
	mux.HandleFunc("GET /caches", h.ListCaches)
	mux.HandleFunc("GET /caches/{name}", h.GetCacheStats)
	mux.HandleFunc("DELETE /caches/{name}", h.ClearCache)

	// KV APIs
	mux.HandleFunc("PUT /caches/{name}/kv/{key}", h.SetKey)
	mux.HandleFunc("GET /caches/{name}/kv/{key}", h.GetKey)
	mux.HandleFunc("DELETE /caches/{name}/kv/{key}", h.DeleteKey)

	// Observability APIs
	mux.HandleFunc("GET /metrics", h.GetMetrics)
	mux.HandleFunc("GET /health", h.GetHealth)

	// Middlewares
	return Chain(
		mux,
		RecoveryMiddleware(h.logger),
		LoggingMiddleware(h.logger),
	)
}
