package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/rescp17/ipLeak/pkg/candidate"
	"github.com/rescp17/ipLeak/pkg/concurrency"
	"github.com/rescp17/ipLeak/pkg/detector"
)

// IPResponse is the body of a successful /api/ip request.
type IPResponse struct {
	SessionID  string                `json:"session_id"`
	Address    string                `json:"address"`
	Class      string                `json:"class"`
	Candidates []candidate.Candidate `json:"candidates"`
	ElapsedMS  int64                 `json:"elapsed_ms"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// IPHandler runs one server-side discovery attempt. Only one attempt runs at a time.
func (s *Server) IPHandler(w http.ResponseWriter, r *http.Request) {
	task := func() error {
		start := time.Now()
		res, err := s.detector.Detect(r.Context())
		s.metrics.observe(err, time.Since(start))
		if err != nil {
			slog.Warn("Detection request failed", "error", err)
			writeJSON(w, statusFor(err), ErrorResponse{Error: err.Error(), Reason: detector.Reason(err)})
			return nil
		}
		writeJSON(w, http.StatusOK, IPResponse{
			SessionID:  res.SessionID,
			Address:    res.Address,
			Class:      res.Class.String(),
			Candidates: res.Candidates,
			ElapsedMS:  res.Elapsed.Milliseconds(),
		})
		return nil
	}

	if err := s.guard.Execute(task); errors.Is(err, concurrency.ErrBusy) {
		slog.Info("Request rejected, detection in progress")
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: err.Error(), Reason: "busy"})
	}
}

func statusFor(err error) int {
	switch detector.Reason(err) {
	case "timeout":
		return http.StatusGatewayTimeout
	case "no-address-found":
		return http.StatusNotFound
	case "negotiation-error":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
