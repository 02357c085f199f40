// Package session composes the account store, the credential hasher and the
// token service into the signup, login, identity and refresh flows.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"multipitch-sync/internal/apperr"
	"multipitch-sync/internal/auth"
	"multipitch-sync/internal/database"
	"multipitch-sync/internal/models"
)

var (
	ErrInvalidCredentials  = apperr.Authentication("Unable to log in with provided credentials.")
	ErrInvalidToken        = apperr.Authentication("Given token not valid for any token type.")
	ErrRefreshRequired     = apperr.Validation("Refresh token required.")
	ErrInvalidRefreshToken = apperr.Authentication("Invalid or expired refresh token.")
)

type AccountStore interface {
	CreateAccount(ctx context.Context, arg database.CreateAccountParams) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	GetAccountByID(ctx context.Context, id int64) (*models.Account, error)
}

type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

type PasswordPolicy interface {
	Validate(password string, attrs ...string) error
}

type Tokens interface {
	IssuePair(accountID int64) (auth.TokenPair, error)
	IssueAccess(accountID int64) (string, error)
	Verify(token string, expected auth.TokenType) (int64, error)
	Refresh(refreshToken string) (string, error)
}

type Service struct {
	accounts AccountStore
	hasher   Hasher
	policy   PasswordPolicy
	tokens   Tokens

	dummyOnce sync.Once
	dummyHash string
}

func NewService(accounts AccountStore, hasher Hasher, policy PasswordPolicy, tokens Tokens) *Service {
	return &Service{
		accounts: accounts,
		hasher:   hasher,
		policy:   policy,
		tokens:   tokens,
	}
}

type SignupInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// Result is what signup and login hand back to the client.
type Result struct {
	Account models.AccountSummary
	Tokens  auth.TokenPair
}

// Identity is the outcome of resolving an optional access token. Account is
// nil for anonymous callers.
type Identity struct {
	Account *models.AccountSummary
	Access  string
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Signup(ctx context.Context, in SignupInput) (*Result, error) {
	email := NormalizeEmail(in.Email)

	if err := s.policy.Validate(in.Password, in.Username, email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account, err := s.accounts.CreateAccount(ctx, database.CreateAccountParams{
		Username:     in.Username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	pair, err := s.tokens.IssuePair(account.ID)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	zerolog.Ctx(ctx).Info().Int64("account_id", account.ID).Msg("account created")

	return &Result{Account: account.Summary(), Tokens: pair}, nil
}

// Login answers unknown email and wrong password with the same error, and
// runs a bcrypt comparison in both cases.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Result, error) {
	account, err := s.accounts.GetAccountByEmail(ctx, NormalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, database.ErrAccountNotFound) {
			s.hasher.Verify(in.Password, s.dummy())
			zerolog.Ctx(ctx).Debug().Msg("login for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	if !s.hasher.Verify(in.Password, account.PasswordHash) {
		zerolog.Ctx(ctx).Debug().Int64("account_id", account.ID).Msg("login with wrong password")
		return nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(account.ID)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	return &Result{Account: account.Summary(), Tokens: pair}, nil
}

// ResolveIdentity never fails for an absent or merely expired token; those
// callers are anonymous. A token that is present but forged, garbled or of the
// wrong type is an authentication error.
func (s *Service) ResolveIdentity(ctx context.Context, accessToken string) (*Identity, error) {
	if accessToken == "" {
		return &Identity{}, nil
	}

	accountID, err := s.tokens.Verify(accessToken, auth.TokenTypeAccess)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return &Identity{}, nil
		}
		return nil, apperr.Wrap(ErrInvalidToken, err)
	}

	account, err := s.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, database.ErrAccountNotFound) {
			return &Identity{}, nil
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	access, err := s.tokens.IssueAccess(account.ID)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	summary := account.Summary()
	return &Identity{Account: &summary, Access: access}, nil
}

// Refresh mints a new access token. The refresh token is not rotated. Only the
// empty string counts as missing; anything else, blank or not, must verify.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrRefreshRequired
	}

	access, err := s.tokens.Refresh(refreshToken)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("refresh rejected")
		return "", apperr.Wrap(ErrInvalidRefreshToken, err)
	}

	return access, nil
}

func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("multipitch-sync-timing-equaliser")
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}
