// Package http is the JSON surface of the reconciliation engine: routing,
// bearer-token authentication, rate limiting and the error-to-status
// mapping every handler shares.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"financas/internal/auth"
	"financas/internal/cache"
	"financas/internal/log"
	"financas/internal/services"
)

// Services groups the orchestrators the server routes to.
type Services struct {
	Backup       *services.BackupService
	Import       *services.ImportService
	Export       *services.ExportService
	Transactions *services.TransactionService
	Accounts     *services.AccountService
}

type Server struct {
	http.Server

	authenticator *auth.Authenticator
	svc           Services
	logger        *log.Logger
	rateLimiter   *rateLimiter

	// exportCache holds recent export snapshots per owner and query.
	// Every write endpoint drops the owner's entries.
	exportCache  *cache.LRUCache[*services.ExportSnapshot]
	cacheManager *cache.Manager
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server. Every /api route requires a bearer token.
func NewServer(addr string, authenticator *auth.Authenticator, svc Services, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		authenticator: authenticator,
		svc:           svc,
		logger:        logger.WithComponent(log.ComponentHTTP),
		rateLimiter:   newRateLimiter(60, time.Minute),
		exportCache:   cache.NewLRUCache[*services.ExportSnapshot](100, time.Minute),
		cacheManager:  cache.NewManager(),
	}

	s.cacheManager.Register(s.exportCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/export", s.api(s.handleExport))
	mux.HandleFunc("GET /api/backup", s.api(s.handleBackup))
	mux.HandleFunc("POST /api/backup/restore", s.api(s.handleRestore))
	mux.HandleFunc("POST /api/import", s.api(s.handleImport))
	mux.HandleFunc("POST /api/import/candidates", s.api(s.handleImportCandidates))
	mux.HandleFunc("POST /api/transactions", s.api(s.handleCreateTransaction))
	mux.HandleFunc("DELETE /api/accounts/{id}", s.api(s.handleDeleteAccount))

	return s
}

// Shutdown stops the server and its background cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
			if n := s.rateLimiter.rejectedCount(); n > 0 {
				s.logger.Info("Rate limiter rejected requests", log.FieldCount, n)
			}
		}
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// api wraps a handler with logging, security headers, rate limiting and
// bearer-token authentication, in that order.
func (s *Server) api(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		s.logger.InfoContext(ctx, "Request started",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldClientIP, clientIP)

		if !s.rateLimiter.allow(r.Method, clientIP) {
			s.logger.WarnContext(ctx, "Rate limit exceeded",
				log.FieldRequestID, requestID, log.FieldClientIP, clientIP, log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")

		id, err := s.authenticator.Authenticate(bearerToken(r))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		r = r.WithContext(auth.WithIdentity(r.Context(), id))

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.InfoContext(r.Context(), "Request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, time.Since(start).Milliseconds(),
			log.FieldClientIP, clientIP)
	}
}

type requestIDKey struct{}

// requestIDFrom returns the request id the middleware stored, empty when
// the request bypassed the api wrapper.
func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// bearerToken extracts the token of an Authorization: Bearer header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
