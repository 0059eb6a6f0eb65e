// Package server exposes formula validation over HTTP: a JSON endpoint, a
// GraphQL endpoint, and a WebSocket endpoint for validating as the user types.
package server

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/graphql-go/graphql"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Config holds server settings.
type Config struct {
	// Addr is the listen address.
	Addr string
	// MaxFormulaBytes is the longest formula accepted. Longer formulas are
	// rejected before validation.
	MaxFormulaBytes int
	// MaxBodyBytes bounds a request body or live message, which also carries
	// symbol lists. Zero derives it from MaxFormulaBytes.
	MaxBodyBytes int64
	// TLSCert and TLSKey are paths to a certificate and key. TLS is used only
	// when both are set.
	TLSCert, TLSKey string
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		MaxFormulaBytes: 4096,
	}
}

// ConfigFromEnv applies FORMULAD_* environment overrides to c.
func ConfigFromEnv(c Config) Config {
	if v := os.Getenv("FORMULAD_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("FORMULAD_MAX_FORMULA_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxFormulaBytes = n
		}
	}
	if v := os.Getenv("FORMULAD_MAX_BODY_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			c.MaxBodyBytes = n
		}
	}
	if v := os.Getenv("FORMULAD_TLS_CERT"); v != "" {
		c.TLSCert = v
	}
	if v := os.Getenv("FORMULAD_TLS_KEY"); v != "" {
		c.TLSKey = v
	}
	return c
}

// Server is the formulad HTTP server.
type Server struct {
	cfg      Config
	mux      *http.ServeMux
	logger   zerolog.Logger
	metrics  *Metrics
	schema   graphql.Schema
	upgrader websocket.Upgrader
	tracer   trace.Tracer
}

// NewServer creates a server with all routes registered.
func NewServer(cfg Config, logger zerolog.Logger) *Server {
	if cfg.MaxFormulaBytes <= 0 {
		cfg.MaxFormulaBytes = DefaultConfig().MaxFormulaBytes
	}
	s := &Server{
		cfg:     cfg,
		mux:     http.NewServeMux(),
		logger:  logger,
		metrics: NewMetrics(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		tracer: otel.Tracer("github.com/zephyrtronium/formula/server"),
	}
	s.initGraphQLSchema()
	s.registerRoutes()
	return s
}

// bodyLimit returns the largest request body or live message accepted.
func (s *Server) bodyLimit() int64 {
	if s.cfg.MaxBodyBytes > 0 {
		return s.cfg.MaxBodyBytes
	}
	return 4*int64(s.cfg.MaxFormulaBytes) + 64<<10
}

// Metrics returns the server's metrics collector.
func (s *Server) Metrics() *Metrics { return s.metrics }

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("POST /v1/validate", s.handleValidate)
	s.mux.HandleFunc("POST /v1/graphql", s.handleGraphQL)
	s.mux.HandleFunc("GET /v1/live", s.handleLive)
	s.mux.HandleFunc("GET /v1/grammar", s.handleGrammar)
	s.mux.HandleFunc("GET /v1/conformance", s.handleConformance)

	s.mux.HandleFunc("GET /internal/metrics", s.handleInternalMetrics)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "formulad"})
}

func (s *Server) handleInternalMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}

// Handler returns the full handler chain: tracing, request logging, routes.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.loggingMiddleware(s.mux), "formulad")
}

// ListenAndServe starts the HTTP server. It returns only on failure.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	host, port, _ := net.SplitHostPort(s.cfg.Addr)
	if host == "" {
		host = "localhost"
	}

	if s.cfg.TLSCert != "" && s.cfg.TLSKey != "" {
		s.logger.Info().Msgf("formulad listening on https://%s:%s", host, port)
		return srv.ListenAndServeTLS(s.cfg.TLSCert, s.cfg.TLSKey)
	}

	s.logger.Info().Msgf("formulad listening on http://%s:%s", host, port)
	return srv.ListenAndServe()
}

const requestIDHeader = "X-Request-Id"

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		rw := &responseWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(rw, r)
		s.logger.Debug().
			Str("id", id).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.status).
			Dur("dur", time.Since(start)).
			Msg("request")
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack lets the live endpoint take over the connection.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	rw.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// writeJSON marshals v as JSON and writes it to w.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeBody decodes a JSON request body of at most bodyLimit bytes. On
// failure it writes the error response and returns false.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.bodyLimit())
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.metrics.RecordRejected()
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		return false
	}
	writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
	return false
}

// writeError writes an error body for a request that never reached the
// validator.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
