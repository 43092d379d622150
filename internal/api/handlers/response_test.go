package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondBusy(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondBusy(rec)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), `"code":503`)
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		MemberID int64 `json:"memberId"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"memberId":5}`))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, int64(5), dst.MemberID)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"memberId":5,"extra":1}`))
	assert.Error(t, DecodeJSON(r, &dst))

	r = httptest.NewRequest(http.MethodPost, "/", nil)
	assert.ErrorIs(t, DecodeJSON(r, &dst), ErrEmptyBody)
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = ParseID("0")
	assert.Error(t, err)
	_, err = ParseID("x")
	assert.Error(t, err)
}

func TestParseTime(t *testing.T) {
	got, err := ParseTime("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseTime("2026-03-02T10:00:00+03:00")
	require.NoError(t, err)
	assert.Equal(t, 7, got.UTC().Hour())

	_, err = ParseTime("2026-03-02")
	assert.Error(t, err)
}
