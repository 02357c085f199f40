package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"multipitch-sync/internal/apperr"
)

type ErrorResponse struct {
	Detail string `json:"detail" example:"No backup found."`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("failed to encode response")
	}
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindConflict:
		return http.StatusBadRequest
	case apperr.KindAuthentication:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err by its taxonomy kind. Field errors become
// {"field": ["message"]}; everything else becomes {"detail": "message"}.
// Unclassified errors are logged and hidden behind a generic 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if isMaxBytesError(err) {
		writeJSON(w, r, http.StatusRequestEntityTooLarge, ErrorResponse{Detail: "Request body too large."})
		return
	}

	appErr, ok := apperr.From(err)
	if !ok {
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		writeJSON(w, r, http.StatusInternalServerError, ErrorResponse{Detail: "Internal server error."})
		return
	}

	status := statusFor(appErr.Kind)
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	}

	if len(appErr.Fields) > 0 {
		writeJSON(w, r, status, appErr.Fields)
		return
	}
	writeJSON(w, r, status, ErrorResponse{Detail: appErr.Message})
}
