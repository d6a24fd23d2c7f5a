package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabinFqt/minesweeper-session-server/internal/admission"
	"github.com/GabinFqt/minesweeper-session-server/internal/registry"
)

func newHandler() *Handler {
	return New(registry.New(), admission.New(10), nil, nil)
}

func TestCreateGame_DefaultsAndSuccess(t *testing.T) {
	h := newHandler()

	req := httptest.NewRequest(http.MethodPost, "/create", bytes.NewReader(nil))
	rec := httptest.NewRecorder()
	h.CreateGame(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp createGameResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)

	_, ok := h.registry.Get(resp.ID)
	assert.True(t, ok)
}

func TestCreateGame_ValidationFailure(t *testing.T) {
	h := newHandler()

	body := bytes.NewBufferString(`{"width":3,"height":3,"bombs":9}`)
	req := httptest.NewRequest(http.MethodPost, "/create", body)
	rec := httptest.NewRecorder()
	h.CreateGame(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateGame_AdmissionRejection(t *testing.T) {
	h := New(registry.New(), admission.New(1), nil, nil)

	req1 := httptest.NewRequest(http.MethodPost, "/create", bytes.NewReader(nil))
	req1.RemoteAddr = "203.0.113.5:1234"
	rec1 := httptest.NewRecorder()
	h.CreateGame(rec1, req1)
	assert.Equal(t, http.StatusOK, rec1.Code)

	req2 := httptest.NewRequest(http.MethodPost, "/create", bytes.NewReader(nil))
	req2.RemoteAddr = "203.0.113.5:1234"
	rec2 := httptest.NewRecorder()
	h.CreateGame(rec2, req2)
	assert.Equal(t, http.StatusTooManyRequests, rec2.Code)
}

func TestConnect_UnknownGameReturns404(t *testing.T) {
	h := newHandler()

	req := httptest.NewRequest(http.MethodGet, "/ws?id=does-not-exist", nil)
	rec := httptest.NewRecorder()
	h.Connect(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
