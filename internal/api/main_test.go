package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"

	"multipitch-sync/internal/auth"
	"multipitch-sync/internal/config"
	"multipitch-sync/internal/database"
	"multipitch-sync/internal/session"
)

const testPassword = "StrongPass123!"

var (
	testServer *Server
	testRouter http.Handler
)

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_api_db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	)
	if err != nil {
		log.Fatalf("Could not start postgres: %s", err)
	}
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			log.Printf("Could not terminate postgres: %s", err)
		}
	}()

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("Could not get connection string: %s", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("Could not connect to database: %s", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatalf("Could not apply schema: %s", err)
	}

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:     "api_test_secret_api_test_secret_api",
			Issuer:     "multipitch-sync",
			AccessTTL:  5 * time.Minute,
			RefreshTTL: 24 * time.Hour,
		},
		Bcrypt: config.BcryptConfig{Cost: bcrypt.MinCost},
		Backup: config.BackupConfig{MaxUploadBytes: 4096},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"*"}},
	}

	cfg.AppHost = "sync.test:8080"

	store := database.NewStore(pool)
	tokens := auth.NewTokenService(cfg.JWT)
	sessions := session.NewService(store, auth.NewBcryptHasher(cfg.Bcrypt.Cost), auth.DefaultPasswordPolicy(), tokens)
	testServer = NewServer(cfg, store, sessions, tokens)
	testRouter = testServer.Routes(zerolog.Nop())

	return m.Run()
}

// doRequest sends body as-is when it is a string and JSON-encodes it otherwise.
func doRequest(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	testRouter.ServeHTTP(rr, req)
	return rr
}

func decodeResponse[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func uniqueUsername(prefix string) string {
	return prefix + "_" + uuid.NewString()[:8]
}

// signupTestAccount registers a fresh account through the API.
func signupTestAccount(t *testing.T) AuthResponse {
	t.Helper()
	username := uniqueUsername("api")
	rr := doRequest(t, http.MethodPost, "/signup", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": testPassword,
	}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decodeResponse[AuthResponse](t, rr)
}

func newRawRequest(method, path, authorization string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	return req
}

func serve(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	testRouter.ServeHTTP(rr, req)
	return rr
}
