package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"multipitch-sync/internal/config"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Verification outcomes other than valid.
var (
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenBadSignature = errors.New("token signature invalid")
	ErrTokenWrongType    = errors.New("token has wrong type")
	ErrTokenMalformed    = errors.New("token malformed")
)

type AppClaims struct {
	UserID    int64     `json:"user_id"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenService issues and verifies stateless HS256 session tokens. Nothing is
// persisted: validity is the signature plus the embedded expiry.
type TokenService struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

type TokenOption func(*TokenService)

// WithClock replaces the time source used for both issuing and verifying.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

func NewTokenService(cfg config.JWTConfig, opts ...TokenOption) *TokenService {
	s := &TokenService{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TokenService) IssuePair(accountID int64) (TokenPair, error) {
	refresh, err := s.issue(accountID, TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	access, err := s.issue(accountID, TokenTypeAccess, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *TokenService) IssueAccess(accountID int64) (string, error) {
	return s.issue(accountID, TokenTypeAccess, s.accessTTL)
}

func (s *TokenService) issue(accountID int64, typ TokenType, ttl time.Duration) (string, error) {
	now := s.now()

	claims := &AppClaims{
		UserID:    accountID,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(accountID, 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks signature, then expiry against the server clock, then the
// token type, and returns the account id the token was issued for.
func (s *TokenService) Verify(tokenString string, expected TokenType) (int64, error) {
	claims := &AppClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return 0, classify(err)
	}

	if s.issuer != "" && claims.Issuer != s.issuer {
		return 0, ErrTokenMalformed
	}
	if claims.TokenType != expected {
		return 0, ErrTokenWrongType
	}
	if claims.UserID <= 0 || claims.Subject != strconv.FormatInt(claims.UserID, 10) {
		return 0, ErrTokenMalformed
	}

	return claims.UserID, nil
}

// Refresh mints a new access token from a refresh token. The refresh token
// itself is left untouched and stays usable until it expires.
func (s *TokenService) Refresh(refreshToken string) (string, error) {
	accountID, err := s.Verify(refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", err
	}
	return s.IssueAccess(accountID)
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrTokenBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return ErrTokenMalformed
	}
}
