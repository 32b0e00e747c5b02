// Package server exposes sigmac's convert pipeline over HTTP: single and
// batch conversion endpoints. A batch request never aborts on the first
// failing rule — each entry reports its own error instead.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sigmac"
	"sigmac/internal/cache"
	"sigmac/internal/metrics"
	"sigmac/internal/options"
)

// Server wires the HTTP routes over the convert pipeline.
type Server struct {
	router *chi.Mux
	cache  *cache.Cache
}

// Config configures the server's CORS origins and request timeout.
type Config struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
	Cache          *cache.Cache
}

// New builds a Server with its routes registered.
func New(cfg Config) *Server {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
	}))
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	s := &Server{router: r, cache: cfg.Cache}
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Post("/convert", s.handleSingleConvert)
	r.Post("/batch-convert", s.handleBatchConvert)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.router.ServeHTTP(w, r) }

// convertRequest is a single-rule conversion request.
type convertRequest struct {
	SigmaRuleYmlContent string `json:"sigma_rule_yml_content"`
	DestinationType     string `json:"destination_type"`
	FieldMap            string `json:"field_map"`
	AddAlerting         string `json:"add_alerting"`
	AddFields           string `json:"add_fields"`
	ReplaceFields       string `json:"replace_fields"`
	KeepFields          string `json:"keep_fields"`
}

type batchConvertRequest struct {
	SigmaRules []convertRequest `json:"sigma_rules"`
}

type convertResult struct {
	Target string `json:"target"`
	Data   string `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

type batchConvertResponse struct {
	Rules []convertResult `json:"rules"`
}

func toOptions(req convertRequest) sigmac.Options {
	addFields, _ := options.ParseKeyValuePairs(req.AddFields)
	replaceFields, _ := options.ParseKeyValuePairs(req.ReplaceFields)
	return sigmac.Options{
		FieldMap:      options.ParseFieldMap(req.FieldMap),
		AddAlerting:   options.ParseCommaList(req.AddAlerting),
		AddFields:     addFields,
		ReplaceFields: replaceFields,
		KeepFields:    options.ParseCommaList(req.KeepFields),
	}
}

func (s *Server) convertOne(ctx context.Context, req convertRequest) convertResult {
	opts := toOptions(req)
	key := ""
	if s.cache != nil {
		key = cache.Key([]byte(req.SigmaRuleYmlContent), req.DestinationType, opts)
		if cached, ok := s.cache.Get(ctx, key); ok {
			metrics.CacheHitsTotal.WithLabelValues("hit").Inc()
			return convertResult{Target: req.DestinationType, Data: cached}
		}
		metrics.CacheHitsTotal.WithLabelValues("miss").Inc()
	}

	timer := time.Now()
	out, err := sigmac.FromSigma([]byte(req.SigmaRuleYmlContent), req.DestinationType, opts)
	metrics.ConversionDuration.WithLabelValues(req.DestinationType).Observe(time.Since(timer).Seconds())
	if err != nil {
		metrics.ConversionsTotal.WithLabelValues(req.DestinationType, "error").Inc()
		return convertResult{Target: req.DestinationType, Error: err.Error()}
	}
	metrics.ConversionsTotal.WithLabelValues(req.DestinationType, "ok").Inc()
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, out)
	}
	return convertResult{Target: req.DestinationType, Data: out}
}

func (s *Server) handleSingleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	result := s.convertOne(r.Context(), req)
	if result.Error != "" {
		w.WriteHeader(http.StatusBadRequest)
	} else {
		w.WriteHeader(http.StatusCreated)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}

func (s *Server) handleBatchConvert(w http.ResponseWriter, r *http.Request) {
	var req batchConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	resp := batchConvertResponse{Rules: make([]convertResult, 0, len(req.SigmaRules))}
	for _, rule := range req.SigmaRules {
		resp.Rules = append(resp.Rules, s.convertOne(r.Context(), rule))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(resp)
}
