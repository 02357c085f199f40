package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jaevor/go-nanoid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"multipitch-sync/internal/apperr"
	"multipitch-sync/internal/auth"
	"multipitch-sync/internal/database"
)

type contextKey string

const principalContextKey = contextKey("principal")

const requestIDHeader = "X-Request-ID"

var (
	errCredentialsMissing = apperr.Authentication("Authentication credentials were not provided.")
	errBadAuthHeader      = apperr.Authentication("Authorization header must contain two space-delimited values.")
	errTokenRejected      = apperr.Authentication("Given token not valid for any token type.")
)

// Principal is the verified caller of an authenticated request.
type Principal struct {
	AccountID int64
}

// bearerToken extracts the token from "Authorization: Bearer <token>". A
// missing header or a different scheme yields "" with no error.
func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", nil
	}

	headerParts := strings.Fields(authHeader)
	if len(headerParts) == 0 || !strings.EqualFold(headerParts[0], "Bearer") {
		return "", nil
	}
	if len(headerParts) != 2 {
		return "", errBadAuthHeader
	}

	return headerParts[1], nil
}

// RequireAccount verifies the access token, checks the account still exists
// and stores the caller's Principal on the request context. Handlers pass
// Principal.AccountID on explicitly.
func (s *Server) RequireAccount(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := bearerToken(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if tokenString == "" {
			s.writeError(w, r, errCredentialsMissing)
			return
		}

		accountID, err := s.tokens.Verify(tokenString, auth.TokenTypeAccess)
		if err != nil {
			s.writeError(w, r, apperr.Wrap(errTokenRejected, err))
			return
		}

		if _, err := s.store.GetAccountByID(r.Context(), accountID); err != nil {
			if errors.Is(err, database.ErrAccountNotFound) {
				err = apperr.Wrap(errTokenRejected, err)
			}
			s.writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), principalContextKey, Principal{AccountID: accountID})

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetPrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(Principal)
	return p, ok
}

var generateRequestID = mustRequestIDGenerator()

func mustRequestIDGenerator() func() string {
	gen, err := nanoid.Standard(21)
	if err != nil {
		panic(err)
	}
	return gen
}

// RequestIDMiddleware reuses a sane incoming X-Request-ID or mints one, echoes
// it back and tags the request logger with it.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = generateRequestID()
		}
		w.Header().Set(requestIDHeader, id)

		zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("request_id", id)
		})

		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	event := hlog.FromRequest(r).Info()
	if status >= http.StatusInternalServerError {
		event = hlog.FromRequest(r).Warn()
	}
	event.
		Str("method", r.Method).
		Stringer("url", r.URL).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request")
}

func isMaxBytesError(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
