package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/godilite/ta-grader/internal/llm"
	"github.com/godilite/ta-grader/internal/service"
)

const noGradeDataMessage = "No grade data available yet. Grade some submissions first."

type errResp struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errResp{Error: msg})
}

// statusFor maps domain errors onto an HTTP status and a client-safe message.
func statusFor(err error) (int, string) {
	var upstream *llm.UpstreamError

	switch {
	case errors.Is(err, service.ErrNoGradeData):
		return http.StatusNotFound, noGradeDataMessage
	case errors.Is(err, service.ErrNoRubric):
		return http.StatusConflict, "No rubric loaded. Upload a rubric first."
	case errors.Is(err, service.ErrNoSubmissions):
		return http.StatusBadRequest, "No submissions to grade"
	case errors.Is(err, llm.ErrEmptyPrompt):
		return http.StatusBadRequest, "Missing or invalid prompt"
	case errors.Is(err, llm.ErrNotConfigured):
		return http.StatusInternalServerError, "Server configuration error"
	case errors.As(err, &upstream):
		code := upstream.StatusCode
		if code < 400 {
			code = http.StatusBadGateway
		}
		return code, upstream.Message
	case errors.Is(err, llm.ErrUpstream):
		return http.StatusBadGateway, "Language model request failed"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Request timed out"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (s *Server) handleError(w http.ResponseWriter, op string, err error) {
	code, msg := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", zap.Int("status", code), zap.Error(err))
	} else {
		s.logger.Debug(op+" rejected", zap.Int("status", code), zap.Error(err))
	}
	writeError(w, code, msg)
}
