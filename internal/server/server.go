// Package server implements the HTTP server for the estimation API.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/codeGROOVE-dev/gsm"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/codeGROOVE-dev/estcalc/internal/metrics"
	"github.com/codeGROOVE-dev/estcalc/internal/session"
)

const (
	// DefaultRateLimit is the default requests per second limit.
	DefaultRateLimit = 100
	// DefaultRateBurst is the default burst size for rate limiting.
	DefaultRateBurst = 100
	// APIKeySecret names both the environment variable and the Secret Manager
	// secret holding the optional API key.
	APIKeySecret = "ESTCALC_API_KEY"
	// RequestIDHeader carries the request ID in both directions.
	RequestIDHeader = "X-Request-ID"
	// errorKey is the logging key for error messages.
	errorKey = "error"
	// maxRequestSize caps request bodies.
	maxRequestSize = 1 << 20 // 1MB
	// maxLimiters bounds the per-IP limiter map.
	maxLimiters = 10000
)

// tokenPattern matches bearer credentials for sanitization.
var tokenPattern = regexp.MustCompile(`(?i)(Bearer\s+[a-zA-Z0-9._\-]+)`)

// routes maps calculation endpoints to session kinds.
var routes = map[string]session.Kind{
	"/v1/cod":  session.KindCoD,
	"/v1/fpa":  session.KindFPA,
	"/v1/pert": session.KindPERT,
}

// secretFetcher reads a named secret, such as gsm.Fetch.
type secretFetcher func(ctx context.Context, name string) (string, error)

// Server handles HTTP requests for the estimation API.
//
//nolint:govet // fieldalignment: struct field ordering optimized for readability over memory
type Server struct {
	logger         *slog.Logger
	csrfProtection *http.CrossOriginProtection
	handler        http.Handler
	registry       *prometheus.Registry
	metrics        *metrics.Recorder
	fetchSecret    secretFetcher
	opts           session.Options
	// Per-IP rate limiting.
	ipLimiters     map[string]*rate.Limiter
	allowedOrigins []string
	ipLimitersMu   sync.RWMutex
	apiKeyMu       sync.RWMutex
	apiKey         string
	apiKeyLoaded   bool
	serverCommit   string
	rateLimit      int
	rateBurst      int
	allowAllCors   bool
}

// CalculateResponse represents the response from an estimation run.
//
//nolint:govet // fieldalignment: API struct field order optimized for readability
type CalculateResponse struct {
	Kind      session.Kind   `json:"kind"`
	Report    session.Report `json:"report"`
	Timestamp time.Time      `json:"timestamp"`
	Commit    string         `json:"commit"`
	RequestID string         `json:"request_id"`
}

// ErrorResponse is the JSON body of a failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// New creates a new Server instance.
func New() *Server {
	ctx := context.Background()
	logger := slog.Default().With("component", "estcalc-server")

	// Configure CSRF protection using Sec-Fetch-Site and Origin headers.
	// GET, HEAD, and OPTIONS are safe methods and automatically allowed.
	// Requests without Sec-Fetch-Site or Origin headers are assumed same-origin or non-browser.
	csrfProtection := http.NewCrossOriginProtection()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		logger:         logger,
		csrfProtection: csrfProtection,
		registry:       registry,
		fetchSecret:    gsm.Fetch,
		opts:           session.Options{Logger: logger},
		ipLimiters:     make(map[string]*rate.Limiter),
		rateLimit:      DefaultRateLimit,
		rateBurst:      DefaultRateBurst,
	}
	s.metrics = metrics.New(registry, routeLabel)
	s.handler = s.metrics.Handler(http.HandlerFunc(s.serve))

	logger.InfoContext(ctx, "Server initialized with CSRF protection enabled")
	return s
}

// routeLabel bounds the path label used in request metrics.
func routeLabel(path string) string {
	if _, ok := routes[path]; ok {
		return path
	}
	switch path {
	case "/health", "/metrics":
		return path
	default:
		return "other"
	}
}

// SetCommit sets the server commit hash.
func (s *Server) SetCommit(commit string) {
	s.serverCommit = commit
}

// SetOptions sets the enrichments applied to every report. The server logger
// is used when opts.Logger is nil.
func (s *Server) SetOptions(opts session.Options) {
	if opts.Logger == nil {
		opts.Logger = s.logger
	}
	s.opts = opts
}

// SetCORSConfig sets the CORS configuration.
//
//nolint:revive // flag-parameter: allowAll is a clear boolean flag for CORS configuration
func (s *Server) SetCORSConfig(origins string, allowAll bool) {
	ctx := context.Background()
	if allowAll {
		s.allowAllCors = true
		s.logger.WarnContext(ctx, "CORS configured to allow all origins - DEVELOPMENT MODE ONLY")
		return
	}

	s.allowAllCors = false
	if origins == "" {
		return
	}
	for _, origin := range strings.Split(origins, ",") {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}

		// Wildcard patterns must be *.domain.com or https://*.domain.com
		if strings.Contains(origin, "*") {
			valid := strings.HasPrefix(origin, "*.") ||
				strings.HasPrefix(origin, "https://*.") ||
				strings.HasPrefix(origin, "http://*.")
			if !valid || strings.Count(origin, "*") > 1 {
				s.logger.ErrorContext(ctx, "Invalid wildcard CORS origin", "origin", origin)
				continue
			}
		}

		s.allowedOrigins = append(s.allowedOrigins, origin)
	}
	s.logger.InfoContext(ctx, "CORS origins configured", "origins", s.allowedOrigins)
}

// SetRateLimit sets the rate limiting configuration.
func (s *Server) SetRateLimit(rps int, burst int) {
	ctx := context.Background()
	s.rateLimit = rps
	s.rateBurst = burst
	s.logger.InfoContext(ctx, "Rate limit configured (per-IP)", "requests_per_sec", rps, "burst", burst)
}

// SetAPIKey sets the API key explicitly, bypassing environment and Secret Manager lookup.
// An empty key disables authentication.
func (s *Server) SetAPIKey(key string) {
	s.apiKeyMu.Lock()
	defer s.apiKeyMu.Unlock()
	s.apiKey = key
	s.apiKeyLoaded = true
}

// LoadAPIKey resolves the API key at startup so the first request does not pay for the lookup.
// It reports whether authentication is enabled.
func (s *Server) LoadAPIKey(ctx context.Context) bool {
	return s.key(ctx) != ""
}

// key returns the configured API key, loading it once.
// Priority: ESTCALC_API_KEY env var, then ESTCALC_API_KEY from GSM.
func (s *Server) key(ctx context.Context) string {
	s.apiKeyMu.RLock()
	if s.apiKeyLoaded {
		key := s.apiKey
		s.apiKeyMu.RUnlock()
		return key
	}
	s.apiKeyMu.RUnlock()

	s.apiKeyMu.Lock()
	defer s.apiKeyMu.Unlock()

	// Double-check after acquiring write lock
	if s.apiKeyLoaded {
		return s.apiKey
	}
	s.apiKeyLoaded = true

	if key := os.Getenv(APIKeySecret); key != "" {
		s.logger.InfoContext(ctx, "Using API key from environment variable")
		s.apiKey = key
		return key
	}

	key, err := s.fetchSecret(ctx, APIKeySecret)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to fetch API key from GSM - authentication disabled", errorKey, err)
		return ""
	}
	if key != "" {
		s.logger.InfoContext(ctx, "Using API key from Google Secret Manager")
	}
	s.apiKey = key
	return key
}

// limiter returns a rate limiter for the given IP address.
func (s *Server) limiter(ctx context.Context, ip string) *rate.Limiter {
	s.ipLimitersMu.RLock()
	limiter, exists := s.ipLimiters[ip]
	s.ipLimitersMu.RUnlock()

	if exists {
		return limiter
	}

	s.ipLimitersMu.Lock()
	defer s.ipLimitersMu.Unlock()

	// Double-check after acquiring write lock.
	if existingLimiter, exists := s.ipLimiters[ip]; exists {
		return existingLimiter
	}

	limiter = rate.NewLimiter(rate.Limit(s.rateLimit), s.rateBurst)
	s.ipLimiters[ip] = limiter

	if len(s.ipLimiters) > maxLimiters {
		count := 0
		target := len(s.ipLimiters) / 2
		for old := range s.ipLimiters {
			if old == ip {
				continue
			}
			delete(s.ipLimiters, old)
			count++
			if count >= target {
				break
			}
		}
		s.logger.InfoContext(ctx, "Cleaned up old IP rate limiters", "removed", count, "remaining", len(s.ipLimiters))
	}

	return limiter
}

// Shutdown gracefully shuts down the server.
func (*Server) Shutdown() {
	// Nothing to do - in-memory structures will be garbage collected.
}

// sanitizeError removes credentials from error messages before logging.
func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return tokenPattern.ReplaceAllString(err.Error(), "[REDACTED_TOKEN]")
}

// requestID returns the caller's request ID when it is a UUID, otherwise a new one.
func requestID(r *http.Request) string {
	if id := r.Header.Get(RequestIDHeader); id != "" {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	return uuid.New().String()
}

// clientIP extracts the client address for rate limiting and logging.
// X-Forwarded-For is trusted because Cloud Run replaces it with the actual client IP.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// ServeHTTP implements http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	id := requestID(r)
	w.Header().Set(RequestIDHeader, id)
	r = r.WithContext(withRequestID(r.Context(), id))

	// Apply CSRF protection FIRST - blocks cross-origin POST requests.
	if s.csrfProtection != nil {
		if err := s.csrfProtection.Check(r); err != nil {
			s.logger.WarnContext(r.Context(), "CSRF check failed - cross-origin request denied",
				"origin", r.Header.Get("Origin"),
				"sec_fetch_site", r.Header.Get("Sec-Fetch-Site"),
				"path", r.URL.Path,
				"method", r.Method,
				"remote_addr", r.RemoteAddr,
				"request_id", id,
				errorKey, err)
			http.Error(w, "Cross-origin request denied", http.StatusForbidden)
			return
		}
	}

	// Security headers.
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.Header().Set("Cross-Origin-Resource-Policy", "cross-origin")

	// Handle CORS.
	origin := r.Header.Get("Origin")
	if s.allowAllCors {
		// Never use wildcard with credentials - echo the origin even in dev mode.
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
	} else if origin != "" && s.isOriginAllowed(origin) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Vary", "Origin")
	}
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+RequestIDHeader)
	w.Header().Set("Access-Control-Expose-Headers", RequestIDHeader)

	// Handle preflight OPTIONS request.
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	// Route requests.
	if kind, ok := routes[r.URL.Path]; ok {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.handleCalculate(w, r, kind)
		return
	}
	switch r.URL.Path {
	case "/health":
		s.handleHealth(w, r)
	case "/metrics":
		promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	default:
		http.NotFound(w, r)
	}
}

// handleCalculate runs a session of the given kind and writes the report.
func (s *Server) handleCalculate(writer http.ResponseWriter, request *http.Request, kind session.Kind) {
	ctx := request.Context()
	id := requestIDFrom(ctx)
	ip := clientIP(request)

	s.logger.InfoContext(ctx, "[handleCalculate] Incoming request",
		"client_ip", ip, "kind", kind, "request_id", id)

	// Per-IP rate limiting prevents a single client from starving all users.
	if !s.limiter(ctx, ip).Allow() {
		s.logger.WarnContext(ctx, "[handleCalculate] Rate limit exceeded", "client_ip", ip, "request_id", id)
		s.writeError(ctx, writer, NewRequestError(http.StatusTooManyRequests, ErrRateLimit))
		return
	}

	if err := s.authorize(request); err != nil {
		s.logger.WarnContext(ctx, "[handleCalculate] Unauthorized request",
			"client_ip", ip, "request_id", id, errorKey, sanitizeError(err))
		s.writeError(ctx, writer, err)
		return
	}

	request.Body = http.MaxBytesReader(writer, request.Body, maxRequestSize)
	body, err := io.ReadAll(request.Body)
	if err != nil {
		s.logger.WarnContext(ctx, "[handleCalculate] Failed to read body", "request_id", id, errorKey, err)
		s.writeError(ctx, writer, decodeError(err))
		return
	}
	doc, err := session.DecodeAs(bytes.NewReader(body), kind)
	if err != nil {
		s.logger.WarnContext(ctx, "[handleCalculate] Failed to decode session", "request_id", id, errorKey, sanitizeError(err))
		s.metrics.Calculation(string(kind), metrics.OutcomeInvalid)
		s.writeError(ctx, writer, decodeError(err))
		return
	}

	opts := s.opts
	opts.Logger = s.opts.Logger.With("request_id", id)
	report, err := doc.Run(opts)
	if err != nil {
		s.logger.WarnContext(ctx, "[handleCalculate] Session rejected", "kind", kind, "request_id", id, errorKey, err)
		rerr := runError(err)
		s.metrics.Calculation(string(kind), outcome(rerr))
		s.writeError(ctx, writer, rerr)
		return
	}
	response := CalculateResponse{
		Kind:      kind,
		Report:    report,
		Timestamp: time.Now(),
		Commit:    s.serverCommit,
		RequestID: id,
	}
	// Encode before writing so a failure can still be reported as a 500.
	body, err = json.Marshal(response)
	if err != nil {
		s.logger.ErrorContext(ctx, "[handleCalculate] Error encoding response", "kind", kind, "request_id", id, errorKey, err)
		s.metrics.Calculation(string(kind), metrics.OutcomeError)
		s.writeError(ctx, writer, err)
		return
	}
	s.metrics.Calculation(string(kind), metrics.OutcomeOK)

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(http.StatusOK)
	if _, err := writer.Write(append(body, '\n')); err != nil {
		s.logger.ErrorContext(ctx, "[handleCalculate] Error writing response", "request_id", id, errorKey, err)
		return
	}

	s.logger.InfoContext(ctx, "[handleCalculate] Request completed", "kind", kind, "request_id", id)
}

// authorize checks the bearer token when an API key is configured.
func (s *Server) authorize(r *http.Request) error {
	key := s.key(r.Context())
	if key == "" {
		return nil
	}
	token := extractToken(r)
	if token == "" {
		return NewRequestError(http.StatusUnauthorized, fmt.Errorf("%w: API key required", ErrAccessDenied))
	}
	if token != key {
		return NewRequestError(http.StatusUnauthorized, fmt.Errorf("%w: invalid API key", ErrAccessDenied))
	}
	return nil
}

// extractToken extracts the bearer token from the Authorization header.
func extractToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// writeError writes err as a JSON error body with its mapped status code.
func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "Internal server error"
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		status = reqErr.StatusCode
		msg = reqErr.Err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := ErrorResponse{Error: msg, RequestID: requestIDFrom(ctx)}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.ErrorContext(ctx, "[writeError] Error encoding response", errorKey, err)
	}
}

// handleHealth provides a simple health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	body := map[string]string{"status": "healthy", "commit": s.serverCommit}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.ErrorContext(ctx, "[handleHealth] Error encoding response", errorKey, err)
	}
}

// isOriginAllowed checks if an origin is in the allowed list.
// Supports exact matches and wildcard subdomain patterns (*.example.com or https://*.example.com).
func (s *Server) isOriginAllowed(origin string) bool {
	protocol, rest, ok := strings.Cut(origin, "://")
	if !ok || (protocol != "http" && protocol != "https") {
		return false
	}

	host := rest
	// Remove path if present
	if slashIndex := strings.Index(host, "/"); slashIndex != -1 {
		host = host[:slashIndex]
	}
	// Remove port if present
	if colonIndex := strings.Index(host, ":"); colonIndex != -1 {
		host = host[:colonIndex]
	}

	for _, allowed := range s.allowedOrigins {
		if allowed == origin {
			return true
		}
		if !strings.Contains(allowed, "*") {
			continue
		}

		var wildcardDomain string
		if allowedProtocol, wildcardPart, hasProtocol := strings.Cut(allowed, "://"); hasProtocol {
			// Format: "https://*.example.com"
			if allowedProtocol != protocol || !strings.HasPrefix(wildcardPart, "*.") {
				continue
			}
			wildcardDomain = wildcardPart[2:]
		} else if strings.HasPrefix(allowed, "*.") {
			// Format: "*.example.com"
			wildcardDomain = allowed[2:]
		} else {
			continue
		}

		// Matches example.com and any subdomain, but not notexample.com.
		if host == wildcardDomain || strings.HasSuffix(host, "."+wildcardDomain) {
			return true
		}
	}
	return false
}
