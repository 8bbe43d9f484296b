package server

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/notlelouch/go-interview-practice/degen-scanner/internal/models"
)

const maxBodyBytes = 64 << 10

const (
	errMethodNotAllowed = `Method not allowed. Use POST with { "mintAddress": "token_address_here" }`
	errInvalidBody      = "Invalid request body"
	errMissingAddress   = "Missing or invalid mint address"
	errInvalidAddress   = "Invalid mint address format"
	errFetchFailed      = "Failed to fetch token data. The token may not exist or the provider is unavailable."
	errInternal         = "Internal server error"
)

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, models.ScanResponse{Error: errMethodNotAllowed})
		return
	}

	if s.limiter != nil {
		decision := s.limiter.Allow(clientKey(r))
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(s.limiter.Limit()))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		if !decision.Allowed {
			seconds := int(math.Ceil(decision.ResetAt.Sub(s.now()).Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			s.metrics.ObserveRequest("rate_limited")
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Try again in "+strconv.Itoa(seconds)+" seconds.")
			return
		}
	}

	var req models.ScanRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		s.metrics.ObserveRequest("bad_request")
		if errors.As(err, &typeErr) && typeErr.Field == "mintAddress" {
			writeError(w, http.StatusBadRequest, errMissingAddress)
			return
		}
		writeError(w, http.StatusBadRequest, errInvalidBody)
		return
	}

	if req.MintAddress == "" {
		s.metrics.ObserveRequest("bad_request")
		writeError(w, http.StatusBadRequest, errMissingAddress)
		return
	}
	if err := models.ValidateMintAddress(req.MintAddress); err != nil {
		s.metrics.ObserveRequest("bad_request")
		writeError(w, http.StatusBadRequest, errInvalidAddress)
		return
	}

	result, cached, err := s.scanner.Scan(r.Context(), req.MintAddress)
	if err != nil {
		if errors.Is(err, models.ErrInvalidMintAddress) {
			s.metrics.ObserveRequest("bad_request")
			writeError(w, http.StatusBadRequest, errInvalidAddress)
			return
		}
		s.log.Errorw("Error fetching token metrics",
			"address", req.MintAddress,
			"request_id", requestID(r.Context()),
			"error", err)
		s.metrics.ObserveRequest("upstream_error")
		writeError(w, http.StatusInternalServerError, errFetchFailed)
		return
	}

	outcome := "scanned"
	if cached {
		outcome = "cached"
	}
	s.metrics.ObserveRequest(outcome)

	writeJSON(w, http.StatusOK, models.ScanResponse{
		Success: true,
		Data:    result,
		Cached:  &cached,
	})
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Checks: map[string]string{}}
	status := http.StatusOK

	if s.cache != nil {
		if err := s.cache.Ping(r.Context()); err != nil {
			resp.Checks["cache"] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		} else {
			resp.Checks["cache"] = "ok"
		}
	}

	if s.breakers != nil {
		for name, state := range s.breakers.BreakerStates() {
			resp.Checks["breaker:"+name] = state
		}
	}

	writeJSON(w, status, resp)
}

// clientKey identifies the caller for rate limiting, preferring proxy headers.
func clientKey(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return "unknown"
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.ScanResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
