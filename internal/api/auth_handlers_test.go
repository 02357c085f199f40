package api

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"multipitch-sync/internal/auth"
)

func TestAPI_Signup_Success(t *testing.T) {
	username := uniqueUsername("Signup")
	rr := doRequest(t, http.MethodPost, "/signup", map[string]string{
		"username": username,
		"email":    " " + strings.ToUpper(username) + "@Example.com ",
		"password": testPassword,
	}, "")

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	res := decodeResponse[AuthResponse](t, rr)
	require.True(t, res.Success)
	require.Positive(t, res.User.ID)
	require.Equal(t, username, res.User.Username)
	require.Equal(t, strings.ToLower(username)+"@example.com", res.User.Email)
	require.Equal(t, res.User.ID, res.UserID)
	require.Equal(t, username, res.Username)

	accountID, err := testServer.tokens.Verify(res.Access, auth.TokenTypeAccess)
	require.NoError(t, err)
	require.Equal(t, res.User.ID, accountID)

	accountID, err = testServer.tokens.Verify(res.Refresh, auth.TokenTypeRefresh)
	require.NoError(t, err)
	require.Equal(t, res.User.ID, accountID)
}

func TestAPI_Signup_DuplicateUsername(t *testing.T) {
	existing := signupTestAccount(t)

	rr := doRequest(t, http.MethodPost, "/signup", map[string]string{
		"username": existing.Username,
		"email":    uniqueUsername("other") + "@example.com",
		"password": testPassword,
	}, "")

	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeResponse[map[string][]string](t, rr)
	require.Equal(t, []string{"A user with that username already exists."}, body["username"])
}

func TestAPI_Signup_DuplicateEmailIgnoresCase(t *testing.T) {
	existing := signupTestAccount(t)

	rr := doRequest(t, http.MethodPost, "/signup", map[string]string{
		"username": uniqueUsername("other"),
		"email":    strings.ToUpper(existing.User.Email),
		"password": testPassword,
	}, "")

	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeResponse[map[string][]string](t, rr)
	require.Equal(t, []string{"A user with that email already exists."}, body["email"])
}

func TestAPI_Signup_ValidationErrors(t *testing.T) {
	testCases := []struct {
		name      string
		body      any
		wantField string
	}{
		{
			name:      "missing username",
			body:      map[string]string{"email": "nouser@example.com", "password": testPassword},
			wantField: "username",
		},
		{
			name:      "invalid username characters",
			body:      map[string]string{"username": "has space", "email": "space@example.com", "password": testPassword},
			wantField: "username",
		},
		{
			name:      "invalid email",
			body:      map[string]string{"username": uniqueUsername("bademail"), "email": "not-an-email", "password": testPassword},
			wantField: "email",
		},
		{
			name:      "blank password",
			body:      map[string]string{"username": uniqueUsername("blank"), "email": "blank@example.com", "password": ""},
			wantField: "password",
		},
		{
			name:      "weak password",
			body:      map[string]string{"username": uniqueUsername("weak"), "email": "weak@example.com", "password": "12345678"},
			wantField: "password",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := doRequest(t, http.MethodPost, "/signup", tc.body, "")
			require.Equal(t, http.StatusBadRequest, rr.Code)
			body := decodeResponse[map[string][]string](t, rr)
			require.NotEmpty(t, body[tc.wantField], rr.Body.String())
		})
	}
}

func TestAPI_Signup_InvalidBody(t *testing.T) {
	rr := doRequest(t, http.MethodPost, "/signup", "{not json", "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeResponse[ErrorResponse](t, rr)
	require.Equal(t, "Invalid request body.", body.Detail)
}

func TestAPI_Login_Success(t *testing.T) {
	account := signupTestAccount(t)

	rr := doRequest(t, http.MethodPost, "/login", map[string]string{
		"email":    strings.ToUpper(account.User.Email),
		"password": testPassword,
	}, "")

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	res := decodeResponse[AuthResponse](t, rr)
	require.True(t, res.Success)
	require.Equal(t, account.User, res.User)
	require.NotEmpty(t, res.Access)
	require.NotEmpty(t, res.Refresh)
}

func TestAPI_Login_FailuresAreIndistinguishable(t *testing.T) {
	account := signupTestAccount(t)

	wrongPassword := doRequest(t, http.MethodPost, "/login", map[string]string{
		"email":    account.User.Email,
		"password": "WrongPass123!",
	}, "")
	unknownEmail := doRequest(t, http.MethodPost, "/login", map[string]string{
		"email":    uniqueUsername("ghost") + "@example.com",
		"password": testPassword,
	}, "")

	require.Equal(t, http.StatusBadRequest, wrongPassword.Code)
	require.Equal(t, http.StatusBadRequest, unknownEmail.Code)
	require.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())

	body := decodeResponse[NonFieldErrorsResponse](t, wrongPassword)
	require.Equal(t, []string{"Unable to log in with provided credentials."}, body.NonFieldErrors)
}

func TestAPI_Login_MissingFields(t *testing.T) {
	rr := doRequest(t, http.MethodPost, "/login", map[string]string{}, "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeResponse[map[string][]string](t, rr)
	require.Equal(t, []string{"This field is required."}, body["email"])
	require.Equal(t, []string{"This field is required."}, body["password"])
}

func TestAPI_Login_TrailingSlash(t *testing.T) {
	account := signupTestAccount(t)

	rr := doRequest(t, http.MethodPost, "/login/", map[string]string{
		"email":    account.User.Email,
		"password": testPassword,
	}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestAPI_RefreshToken(t *testing.T) {
	account := signupTestAccount(t)

	t.Run("valid refresh token", func(t *testing.T) {
		rr := doRequest(t, http.MethodPost, "/token/refresh", map[string]any{"refresh": account.Refresh}, "")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		res := decodeResponse[RefreshResponse](t, rr)
		accountID, err := testServer.tokens.Verify(res.Access, auth.TokenTypeAccess)
		require.NoError(t, err)
		require.Equal(t, account.User.ID, accountID)
	})

	t.Run("refresh token is not rotated", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			rr := doRequest(t, http.MethodPost, "/token/refresh", map[string]any{"refresh": account.Refresh}, "")
			require.Equal(t, http.StatusOK, rr.Code)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		for _, body := range []any{map[string]string{}, map[string]any{"refresh": nil}, map[string]any{"refresh": ""}, ""} {
			rr := doRequest(t, http.MethodPost, "/token/refresh", body, "")
			require.Equal(t, http.StatusBadRequest, rr.Code)
			res := decodeResponse[RefreshErrorResponse](t, rr)
			require.Equal(t, "Refresh token required.", res.Error)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		rr := doRequest(t, http.MethodPost, "/token/refresh", map[string]any{"refresh": "not.a.token"}, "")
		require.Equal(t, http.StatusUnauthorized, rr.Code)
		res := decodeResponse[RefreshErrorResponse](t, rr)
		require.Equal(t, "Invalid or expired refresh token.", res.Error)
	})

	t.Run("non-string token", func(t *testing.T) {
		for _, body := range []string{`{"refresh": 123}`, `{"refresh": {"token": "x"}}`, `{"refresh": ["a"]}`, `{"refresh": true}`} {
			rr := doRequest(t, http.MethodPost, "/token/refresh", body, "")
			require.Equal(t, http.StatusUnauthorized, rr.Code, body)
			res := decodeResponse[RefreshErrorResponse](t, rr)
			require.Equal(t, "Invalid or expired refresh token.", res.Error)
		}
	})

	t.Run("whitespace token", func(t *testing.T) {
		rr := doRequest(t, http.MethodPost, "/token/refresh", map[string]any{"refresh": "   "}, "")
		require.Equal(t, http.StatusUnauthorized, rr.Code)
		res := decodeResponse[RefreshErrorResponse](t, rr)
		require.Equal(t, "Invalid or expired refresh token.", res.Error)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		rr := doRequest(t, http.MethodPost, "/token/refresh", map[string]any{"refresh": account.Access}, "")
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		past := auth.NewTokenService(testServer.config.JWT, auth.WithClock(func() time.Time {
			return time.Now().Add(-48 * time.Hour)
		}))
		pair, err := past.IssuePair(account.User.ID)
		require.NoError(t, err)

		rr := doRequest(t, http.MethodPost, "/token/refresh", map[string]any{"refresh": pair.Refresh}, "")
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAPI_Me(t *testing.T) {
	account := signupTestAccount(t)

	t.Run("anonymous", func(t *testing.T) {
		rr := doRequest(t, http.MethodGet, "/me", nil, "")
		require.Equal(t, http.StatusOK, rr.Code)
		require.JSONEq(t, `{"user": null}`, rr.Body.String())
	})

	t.Run("valid token", func(t *testing.T) {
		rr := doRequest(t, http.MethodGet, "/me", nil, account.Access)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		res := decodeResponse[MeResponse](t, rr)
		require.NotNil(t, res.User)
		require.Equal(t, account.User, *res.User)

		accountID, err := testServer.tokens.Verify(res.Access, auth.TokenTypeAccess)
		require.NoError(t, err)
		require.Equal(t, account.User.ID, accountID)
	})

	t.Run("expired token is anonymous", func(t *testing.T) {
		past := auth.NewTokenService(testServer.config.JWT, auth.WithClock(func() time.Time {
			return time.Now().Add(-time.Hour)
		}))
		expired, err := past.IssueAccess(account.User.ID)
		require.NoError(t, err)

		rr := doRequest(t, http.MethodGet, "/me", nil, expired)
		require.Equal(t, http.StatusOK, rr.Code)
		require.JSONEq(t, `{"user": null}`, rr.Body.String())
	})

	t.Run("garbage token", func(t *testing.T) {
		rr := doRequest(t, http.MethodGet, "/me", nil, "garbage")
		require.Equal(t, http.StatusUnauthorized, rr.Code)
		require.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))
	})

	t.Run("refresh token is rejected", func(t *testing.T) {
		rr := doRequest(t, http.MethodGet, "/me", nil, account.Refresh)
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("other scheme is anonymous", func(t *testing.T) {
		req := newRawRequest(http.MethodGet, "/me", "Token "+account.Access)
		rr := serve(req)
		require.Equal(t, http.StatusOK, rr.Code)
		require.JSONEq(t, `{"user": null}`, rr.Body.String())
	})

	t.Run("bearer without token", func(t *testing.T) {
		rr := serve(newRawRequest(http.MethodGet, "/me", "Bearer"))
		require.Equal(t, http.StatusUnauthorized, rr.Code)
		body := decodeResponse[ErrorResponse](t, rr)
		require.Equal(t, "Authorization header must contain two space-delimited values.", body.Detail)
	})
}
