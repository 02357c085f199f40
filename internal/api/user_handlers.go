package api

import (
	"net/http"

	"multipitch-sync/internal/models"
)

type MeResponse struct {
	User   *models.AccountSummary `json:"user"`
	Access string                 `json:"access,omitempty" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// @Summary      Get current user info
// @Description  Resolves the optional bearer token. Anonymous callers, including ones whose token merely expired, get {"user": null} with 200. A valid token returns the account and a freshly issued access token. A malformed or forged token is rejected with 401.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  MeResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /me [get]
func (s *Server) GetCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	tokenString, err := bearerToken(r)
	if err != nil {
		recordAuthEvent("identity", err)
		s.writeError(w, r, err)
		return
	}

	identity, err := s.sessions.ResolveIdentity(r.Context(), tokenString)
	recordAuthEvent("identity", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, MeResponse{
		User:   identity.Account,
		Access: identity.Access,
	})
}
