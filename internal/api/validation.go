package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"multipitch-sync/internal/apperr"
	"multipitch-sync/internal/database"
	"multipitch-sync/internal/session"
)

const (
	msgRequired        = "This field is required."
	msgBlank           = "This field may not be blank."
	msgInvalidEmail    = "Enter a valid email address."
	msgInvalidUsername = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	msgUsernameTooLong = "Ensure this field has no more than 150 characters."
	msgEmailTooLong    = "Ensure this field has no more than 254 characters."
	msgInvalidBase64   = "Invalid Base64 data."

	maxUsernameLength = 150
	maxEmailLength    = 254
)

var (
	errInvalidBody  = apperr.Validation("Invalid request body.")
	errEmptyBody    = apperr.Validation("Request body is empty.")
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
)

// decodeBody reads a single JSON object from the request body.
func decodeBody(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if isMaxBytesError(err) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return apperr.Wrap(errInvalidBody, err)
	}
	return nil
}

// requireString records a required-field error when v is missing or blank.
func requireString(fe apperr.FieldErrors, field string, v *string) (string, bool) {
	if v == nil {
		fe.Add(field, msgRequired)
		return "", false
	}
	if strings.TrimSpace(*v) == "" {
		fe.Add(field, msgBlank)
		return "", false
	}
	return *v, true
}

type SignupRequest struct {
	Username *string `json:"username" example:"pitchfan"`
	Email    *string `json:"email" example:"pitchfan@example.com"`
	Password *string `json:"password" example:"StrongPass123!"`
}

func (req SignupRequest) Validate() error {
	fe := apperr.FieldErrors{}

	if username, ok := requireString(fe, "username", req.Username); ok {
		if utf8.RuneCountInString(username) > maxUsernameLength {
			fe.Add("username", msgUsernameTooLong)
		} else if !usernamePattern.MatchString(username) {
			fe.Add("username", msgInvalidUsername)
		}
	}

	if email, ok := requireString(fe, "email", req.Email); ok {
		email = strings.TrimSpace(email)
		if len(email) > maxEmailLength {
			fe.Add("email", msgEmailTooLong)
		} else if !validEmail(email) {
			fe.Add("email", msgInvalidEmail)
		}
	}

	if req.Password == nil {
		fe.Add("password", msgRequired)
	} else if *req.Password == "" {
		fe.Add("password", msgBlank)
	}

	return fe.Err()
}

type LoginRequest struct {
	Email    *string `json:"email" example:"pitchfan@example.com"`
	Password *string `json:"password" example:"StrongPass123!"`
}

func (req LoginRequest) Validate() error {
	fe := apperr.FieldErrors{}
	requireString(fe, "email", req.Email)
	if req.Password == nil {
		fe.Add("password", msgRequired)
	} else if *req.Password == "" {
		fe.Add("password", msgBlank)
	}
	return fe.Err()
}

type RefreshRequest struct {
	Refresh json.RawMessage `json:"refresh" swaggertype:"string" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// Token returns the refresh token string. Absent or null yields "". A value
// of any other JSON type can never verify and is rejected outright.
func (req RefreshRequest) Token() (string, error) {
	raw := bytes.TrimSpace(req.Refresh)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	var token string
	if err := json.Unmarshal(raw, &token); err != nil {
		return "", apperr.Wrap(session.ErrInvalidRefreshToken, err)
	}
	return token, nil
}

type UploadBackupRequest struct {
	SQLiteBlob *string `json:"sqlite_blob" example:"U1FMaXRlIGZvcm1hdCAz"`
}

// Blob validates and decodes the base64 payload.
func (req UploadBackupRequest) Blob() ([]byte, error) {
	if req.SQLiteBlob == nil {
		return nil, apperr.FieldValidation("sqlite_blob", msgRequired)
	}
	if *req.SQLiteBlob == "" {
		return nil, database.ErrEmptyBackup
	}

	blob, err := base64.StdEncoding.DecodeString(strings.TrimSpace(*req.SQLiteBlob))
	if err != nil {
		return nil, apperr.Wrap(apperr.FieldValidation("sqlite_blob", msgInvalidBase64), err)
	}
	if len(blob) == 0 {
		return nil, database.ErrEmptyBackup
	}

	return blob, nil
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndexByte(email, '@')
	return at > 0 && strings.Contains(email[at+1:], ".")
}
