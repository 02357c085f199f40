package api

import (
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"

	"multipitch-sync/internal/apperr"
	"multipitch-sync/internal/database"
)

type UploadBackupResponse struct {
	Success  bool      `json:"success" example:"true"`
	Message  string    `json:"message" example:"Backup saved successfully."`
	LastSync time.Time `json:"last_sync"`
}

type DownloadBackupResponse struct {
	SQLiteBlob string    `json:"sqlite_blob" example:"U1FMaXRlIGZvcm1hdCAz"`
	LastSync   time.Time `json:"last_sync"`
}

var errBackupTooLarge = apperr.FieldValidation("sqlite_blob", "Backup file exceeds the maximum allowed size.")

// uploadBodyLimit leaves room for base64 expansion and the JSON envelope.
func (s *Server) uploadBodyLimit() int64 {
	return s.config.Backup.MaxUploadBytes/3*4 + 4 + 1024
}

// @Summary      Upload backup
// @Description  Stores the caller's database snapshot, replacing any previous backup wholesale.
// @Tags         backup
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        uploadRequest  body      UploadBackupRequest  true  "Base64-encoded snapshot"
// @Success      200            {object}  UploadBackupResponse
// @Failure      400            {object}  map[string][]string  "Empty or invalid base64 snapshot"
// @Failure      401            {object}  ErrorResponse
// @Failure      413            {object}  ErrorResponse
// @Failure      500            {object}  ErrorResponse
// @Router       /backup/upload [post]
func (s *Server) UploadBackupHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := GetPrincipalFromContext(r.Context())
	if !ok {
		s.writeError(w, r, errCredentialsMissing)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.uploadBodyLimit())

	var req UploadBackupRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	blob, err := req.Blob()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if int64(len(blob)) > s.config.Backup.MaxUploadBytes {
		s.writeError(w, r, errBackupTooLarge)
		return
	}

	lastSync, err := s.store.UpsertBackup(r.Context(), principal.AccountID, blob)
	if err != nil {
		if errors.Is(err, database.ErrAccountNotFound) {
			err = apperr.Wrap(errTokenRejected, err)
		}
		s.writeError(w, r, err)
		return
	}

	backupUploadBytes.Observe(float64(len(blob)))
	hlog.FromRequest(r).Info().
		Int64("account_id", principal.AccountID).
		Int("bytes", len(blob)).
		Time("last_sync", lastSync).
		Msg("backup stored")

	writeJSON(w, r, http.StatusOK, UploadBackupResponse{
		Success:  true,
		Message:  "Backup saved successfully.",
		LastSync: lastSync,
	})
}

// @Summary      Download backup
// @Description  Returns the caller's most recent database snapshot.
// @Tags         backup
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  DownloadBackupResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse  "No backup found."
// @Failure      500  {object}  ErrorResponse
// @Router       /backup/download [get]
func (s *Server) DownloadBackupHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := GetPrincipalFromContext(r.Context())
	if !ok {
		s.writeError(w, r, errCredentialsMissing)
		return
	}

	backup, err := s.store.GetBackup(r.Context(), principal.AccountID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, DownloadBackupResponse{
		SQLiteBlob: base64.StdEncoding.EncodeToString(backup.Blob),
		LastSync:   backup.LastSync,
	})
}
