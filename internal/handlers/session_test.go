package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evergarden-code/vova/internal/services"
	"github.com/evergarden-code/vova/pkg/session"
	"github.com/evergarden-code/vova/pkg/story"
)

func createTestSession(t *testing.T, handler *SessionHandler, topic string) session.Session {
	t.Helper()

	body, err := json.Marshal(CreateSessionRequest{
		Material: story.Material{Type: story.MaterialText, Data: topic},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/session", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var s session.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	return s
}

func TestSessionCreate(t *testing.T) {
	storage := services.NewMockStorage()
	handler := NewSessionHandler(storage, testLogger())

	s := createTestSession(t, handler, "бананы")

	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.Equal(t, story.StageStart, s.Stage)
	assert.Equal(t, 50, s.LastMood)
	assert.Equal(t, "бананы", s.Material.Data)
	assert.GreaterOrEqual(t, s.Personality.IQ, 60)
	assert.LessOrEqual(t, s.Personality.IQ, 140)

	saved, err := storage.LoadSession(context.Background(), s.ID)
	require.NoError(t, err)
	require.NotNil(t, saved)
}

func TestSessionCreateDefaultsMaterialType(t *testing.T) {
	handler := NewSessionHandler(services.NewMockStorage(), testLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/session",
		bytes.NewBufferString(`{"material":{"data":""}}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var s session.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, story.MaterialText, s.Material.Type)
}

func TestSessionRead(t *testing.T) {
	handler := NewSessionHandler(services.NewMockStorage(), testLogger())
	s := createTestSession(t, handler, "тема")

	req := httptest.NewRequest(http.MethodGet, "/v1/session/"+s.ID.String(), nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var loaded session.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loaded))
	assert.Equal(t, s.ID, loaded.ID)
	assert.Equal(t, s.Personality, loaded.Personality)
}

func TestSessionReadNotFound(t *testing.T) {
	handler := NewSessionHandler(services.NewMockStorage(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/session/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionInvalidID(t *testing.T) {
	handler := NewSessionHandler(services.NewMockStorage(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/session/not-a-uuid", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionIDRequired(t *testing.T) {
	handler := NewSessionHandler(services.NewMockStorage(), testLogger())

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/v1/session", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, method)
	}
}

func TestSessionReplace(t *testing.T) {
	storage := services.NewMockStorage()
	handler := NewSessionHandler(storage, testLogger())
	s := createTestSession(t, handler, "тема")

	s.Stage = story.StageMiddle
	s.LastMood = 70
	s.TotalChoicesMade = 3
	body, err := json.Marshal(s)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/v1/session/"+s.ID.String(), bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	saved, err := storage.LoadSession(context.Background(), s.ID)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, story.StageMiddle, saved.Stage)
	assert.Equal(t, 70, saved.LastMood)
	assert.Equal(t, 3, saved.TotalChoicesMade)
}

func TestSessionReplaceMissing(t *testing.T) {
	handler := NewSessionHandler(services.NewMockStorage(), testLogger())

	body, err := json.Marshal(session.Session{})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/v1/session/"+uuid.NewString(), bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code,
		"PUT only replaces sessions that already exist")
}

func TestSessionDelete(t *testing.T) {
	storage := services.NewMockStorage()
	handler := NewSessionHandler(storage, testLogger())
	s := createTestSession(t, handler, "тема")

	req := httptest.NewRequest(http.MethodDelete, "/v1/session/"+s.ID.String(), nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	saved, err := storage.LoadSession(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestSessionMethodNotAllowed(t *testing.T) {
	handler := NewSessionHandler(services.NewMockStorage(), testLogger())

	req := httptest.NewRequest(http.MethodPatch, "/v1/session", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
