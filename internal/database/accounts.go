package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"multipitch-sync/internal/apperr"
	"multipitch-sync/internal/models"
)

const pgUniqueViolation = "23505"

var (
	ErrAccountNotFound = apperr.NotFound("account not found")
	ErrUsernameTaken   = apperr.Conflict("username", "A user with that username already exists.")
	ErrEmailTaken      = apperr.Conflict("email", "A user with that email already exists.")
)

type CreateAccountParams struct {
	Username     string
	Email        string
	PasswordHash string
}

const accountColumns = `id, username, email, password_hash, created_at, updated_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.PasswordHash,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// CreateAccount relies on the unique constraints, so two racing signups for
// the same username cannot both succeed.
func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) (*models.Account, error) {
	if arg.PasswordHash == "" {
		return nil, errors.New("create account: empty password hash")
	}

	query := `
		INSERT INTO accounts (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + accountColumns

	account, err := scanAccount(q.db.QueryRow(ctx, query, arg.Username, arg.Email, arg.PasswordHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			switch pgErr.ConstraintName {
			case "accounts_username_key":
				return nil, apperr.Wrap(ErrUsernameTaken, err)
			case "accounts_email_key":
				return nil, apperr.Wrap(ErrEmailTaken, err)
			}
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	return account, nil
}

func (q *Queries) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return scanAccount(q.db.QueryRow(ctx, query, email))
}

func (q *Queries) GetAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(q.db.QueryRow(ctx, query, id))
}

// lockAccount takes a row lock on the account for the rest of the transaction.
func (q *Queries) lockAccount(ctx context.Context, id int64) error {
	var locked int64
	err := q.db.QueryRow(ctx, `SELECT id FROM accounts WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAccountNotFound
		}
		return err
	}
	return nil
}
