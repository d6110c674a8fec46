package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/bhumiseba/namjari-intent/internal/core/domain"
	"github.com/bhumiseba/namjari-intent/internal/core/ports"
	"github.com/bhumiseba/namjari-intent/internal/observability/metrics"
)

const serviceName = "api"

type Options struct {
	RateLimitRPS     float64
	RateLimitBurst   int
	ConcurrencyLimit int
	AcquireTimeout   time.Duration
}

type Router struct {
	classifier ports.IntentClassifier
	metrics    *metrics.HTTPServerMetrics
	options    Options
}

func NewRouter(classifier ports.IntentClassifier, serverMetrics *metrics.HTTPServerMetrics, options Options) *Router {
	if options.ConcurrencyLimit <= 0 {
		options.ConcurrencyLimit = 64
	}
	if options.AcquireTimeout <= 0 {
		options.AcquireTimeout = 2 * time.Second
	}
	return &Router{
		classifier: classifier,
		metrics:    serverMetrics,
		options:    options,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/classify", rt.classify)
	mux.HandleFunc("/v1/tags", rt.listTags)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.options.ConcurrencyLimit, rt.options.AcquireTimeout)
	handler = rateLimitMiddleware(handler, rt.options.RateLimitRPS, rt.options.RateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type classifyResponse struct {
	RequestID string                       `json:"request_id"`
	Result    *domain.ClassificationResult `json:"result"`
}

func (rt *Router) classify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}

	start := time.Now()
	result, err := rt.classifier.Classify(r.Context(), req.Query)
	if err != nil {
		rt.recordClassification("", "error", 0, time.Since(start))
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	method := "unclassified"
	confidence := 0.0
	if result != nil {
		method = string(result.Method)
		confidence = result.Confidence
	}
	rt.recordClassification(method, "ok", confidence, time.Since(start))

	writeJSON(w, http.StatusOK, classifyResponse{
		RequestID: requestIDFromContext(r.Context()),
		Result:    result,
	})
}

func (rt *Router) listTags(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string][]domain.Tag{"tags": domain.AllTags()})
}

func (rt *Router) recordClassification(method, status string, confidence float64, duration time.Duration) {
	if rt.metrics == nil {
		return
	}
	rt.metrics.RecordClassification(serviceName, method, status, confidence, duration)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
