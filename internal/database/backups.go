package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"multipitch-sync/internal/apperr"
	"multipitch-sync/internal/models"
)

var (
	ErrBackupNotFound = apperr.NotFound("No backup found.")
	ErrEmptyBackup    = apperr.FieldValidation("sqlite_blob", "Backup file cannot be empty.")
)

// UpsertBackup stores blob as the account's only backup, replacing any
// previous one wholesale. Writers for the same account serialise on the
// account row, and last_sync is forced to move forward on every write.
func (s *Store) UpsertBackup(ctx context.Context, accountID int64, blob []byte) (time.Time, error) {
	if len(blob) == 0 {
		return time.Time{}, ErrEmptyBackup
	}

	var lastSync time.Time
	err := s.ExecTx(ctx, func(q *Queries) error {
		if err := q.lockAccount(ctx, accountID); err != nil {
			return err
		}

		query := `
			INSERT INTO backups (owner_id, blob, last_sync)
			VALUES ($1, $2, clock_timestamp())
			ON CONFLICT (owner_id) DO UPDATE
			SET blob = EXCLUDED.blob,
			    last_sync = GREATEST(EXCLUDED.last_sync, backups.last_sync + interval '1 microsecond')
			RETURNING last_sync
		`
		return q.db.QueryRow(ctx, query, accountID, blob).Scan(&lastSync)
	})
	if err != nil {
		if apperr.KindOf(err) != apperr.KindInternal {
			return time.Time{}, err
		}
		return time.Time{}, fmt.Errorf("upsert backup for account %d: %w", accountID, err)
	}

	return lastSync, nil
}

func (q *Queries) GetBackup(ctx context.Context, accountID int64) (*models.Backup, error) {
	query := `SELECT owner_id, blob, last_sync FROM backups WHERE owner_id = $1`

	var backup models.Backup
	err := q.db.QueryRow(ctx, query, accountID).Scan(
		&backup.OwnerID,
		&backup.Blob,
		&backup.LastSync,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBackupNotFound
		}
		return nil, fmt.Errorf("get backup for account %d: %w", accountID, err)
	}

	return &backup, nil
}
