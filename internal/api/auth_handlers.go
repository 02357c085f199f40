package api

import (
	"errors"
	"net/http"

	"multipitch-sync/internal/apperr"
	"multipitch-sync/internal/models"
	"multipitch-sync/internal/session"
)

type AuthResponse struct {
	Success  bool                  `json:"success" example:"true"`
	User     models.AccountSummary `json:"user"`
	UserID   int64                 `json:"user_id" example:"42"`
	Username string                `json:"username" example:"pitchfan"`
	Access   string                `json:"access" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	Refresh  string                `json:"refresh" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

func newAuthResponse(res *session.Result) AuthResponse {
	return AuthResponse{
		Success:  true,
		User:     res.Account,
		UserID:   res.Account.ID,
		Username: res.Account.Username,
		Access:   res.Tokens.Access,
		Refresh:  res.Tokens.Refresh,
	}
}

// @Summary      Create an account
// @Description  Registers a new account and returns an access/refresh token pair.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        signupRequest  body      SignupRequest  true  "New account"
// @Success      201            {object}  AuthResponse
// @Failure      400            {object}  map[string][]string  "Field errors, including duplicate username or email"
// @Failure      500            {object}  ErrorResponse
// @Router       /signup [post]
func (s *Server) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.sessions.Signup(r.Context(), session.SignupInput{
		Username: *req.Username,
		Email:    *req.Email,
		Password: *req.Password,
	})
	recordAuthEvent("signup", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, newAuthResponse(res))
}

type NonFieldErrorsResponse struct {
	NonFieldErrors []string `json:"non_field_errors"`
}

// @Summary      Log in
// @Description  Authenticates by email and password. Unknown email and wrong password produce the same response.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        loginRequest  body      LoginRequest  true  "Login Credentials"
// @Success      200           {object}  AuthResponse
// @Failure      400           {object}  NonFieldErrorsResponse
// @Failure      500           {object}  ErrorResponse
// @Router       /login [post]
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.sessions.Login(r.Context(), session.LoginInput{
		Email:    *req.Email,
		Password: *req.Password,
	})
	recordAuthEvent("login", err)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindAuthentication {
			writeJSON(w, r, http.StatusBadRequest, NonFieldErrorsResponse{
				NonFieldErrors: []string{session.ErrInvalidCredentials.Message},
			})
			return
		}
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, newAuthResponse(res))
}

type RefreshResponse struct {
	Access string `json:"access" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

type RefreshErrorResponse struct {
	Error string `json:"error" example:"Invalid or expired refresh token."`
}

// @Summary      Refresh access token
// @Description  Exchanges a valid refresh token for a new access token. The refresh token is not rotated and stays valid until it expires.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        refreshRequest  body      RefreshRequest  true  "Refresh Token"
// @Success      200             {object}  RefreshResponse
// @Failure      400             {object}  RefreshErrorResponse  "Refresh token required."
// @Failure      401             {object}  RefreshErrorResponse  "Invalid or expired refresh token."
// @Failure      500             {object}  ErrorResponse
// @Router       /token/refresh [post]
func (s *Server) RefreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := decodeBody(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		s.writeError(w, r, err)
		return
	}

	token, err := req.Token()
	if err != nil {
		recordAuthEvent("refresh", err)
		s.writeRefreshError(w, r, err)
		return
	}

	access, err := s.sessions.Refresh(r.Context(), token)
	recordAuthEvent("refresh", err)
	if err != nil {
		s.writeRefreshError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, RefreshResponse{Access: access})
}

// writeRefreshError keeps the {"error": msg} body this endpoint has always used.
func (s *Server) writeRefreshError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperr.From(err)
	if !ok {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, r, statusFor(appErr.Kind), RefreshErrorResponse{Error: appErr.Message})
}
