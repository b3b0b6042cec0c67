package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapClassifiesAndKeepsMessage(t *testing.T) {
	err := Wrap(ErrGuard, "A Shulowner already exists")

	require.ErrorIs(t, err, ErrGuard)
	require.NotErrorIs(t, err, ErrValidation)
	require.Equal(t, "A Shulowner already exists", err.Error())
}

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
		body   string
	}{
		"validation":   {Wrap(ErrValidation, "memberId is required"), http.StatusBadRequest, "memberId is required"},
		"guard":        {Wrap(ErrGuard, "A Shulowner already exists"), http.StatusBadRequest, "A Shulowner already exists"},
		"unauthorized": {Wrap(ErrUnauthorized, "invalid bearer credential"), http.StatusUnauthorized, "invalid bearer credential"},
		"not found":    {Wrap(ErrNotFound, "member not found"), http.StatusNotFound, "member not found"},
		"downstream":   {errors.New("account could not be created"), http.StatusInternalServerError, "account could not be created"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			RespondError(rec, tc.err)

			require.Equal(t, tc.status, rec.Code)
			require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, tc.body, body["error"])
		})
	}
}
