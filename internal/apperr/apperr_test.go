package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

var errSentinel = NotFound("No backup found.")

func TestWrap_MatchesSentinelAndCause(t *testing.T) {
	cause := errors.New("no rows")
	err := fmt.Errorf("get backup: %w", Wrap(errSentinel, cause))

	require.ErrorIs(t, err, errSentinel)
	require.ErrorIs(t, err, cause)
	require.Equal(t, KindNotFound, KindOf(err))
	require.Nil(t, errSentinel.Err)
}

func TestIs_ComparesKindAndMessage(t *testing.T) {
	require.ErrorIs(t, NotFound("No backup found."), errSentinel)
	require.NotErrorIs(t, Validation("No backup found."), errSentinel)
	require.NotErrorIs(t, NotFound("other"), errSentinel)
	require.NotErrorIs(t, FieldValidation("a", "x"), FieldValidation("a", "y"))
}

func TestKindOf_Unclassified(t *testing.T) {
	require.Equal(t, KindInternal, KindOf(errors.New("boom")))
	require.Equal(t, KindInternal, KindOf(nil))

	_, ok := From(errors.New("boom"))
	require.False(t, ok)
}

func TestFieldErrors(t *testing.T) {
	fe := FieldErrors{}
	require.NoError(t, fe.Err())

	fe.Add("email", "Enter a valid email address.")
	fe.Add("username", "This field is required.")
	fe.Add("username", "Ensure this field has no more than 150 characters.")

	err := fe.Err()
	e, ok := From(err)
	require.True(t, ok)
	require.Equal(t, KindValidation, e.Kind)
	require.Len(t, e.Fields["username"], 2)
	require.Equal(t,
		"validation: email: Enter a valid email address.; username: This field is required. Ensure this field has no more than 150 characters.",
		err.Error())
}

func TestConflict(t *testing.T) {
	err := Conflict("username", "A user with that username already exists.")
	require.Equal(t, KindConflict, err.Kind)
	require.Equal(t, []string{"A user with that username already exists."}, err.Fields["username"])
	require.Equal(t, "conflict", err.Kind.String())
}
