package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecosort/kiosk-server-go/internal/service"
	"github.com/ecosort/kiosk-server-go/internal/store"
)

func newTestRouter(sessionTTL, tokenTTL time.Duration) chi.Router {
	sessionService := service.NewSessionService(store.NewSessionStore(sessionTTL))
	redemptionService := service.NewRedemptionService(
		store.NewTokenStore(tokenTTL),
		store.NewResetSignal(10*time.Second),
	)

	sessionHandler := NewSessionHandler(sessionService, redemptionService)
	redemptionHandler := NewRedemptionHandler(redemptionService)

	r := chi.NewRouter()
	r.Mount("/session", sessionHandler.Routes())
	r.Post("/qr/claim", redemptionHandler.Claim)
	r.Get("/kiosk/should-reset", redemptionHandler.ShouldReset)
	return r
}

func doJSON(t *testing.T, router chi.Router, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var parsed map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	}
	return rec, parsed
}

func createSession(t *testing.T, router chi.Router) string {
	t.Helper()

	rec, body := doJSON(t, router, "POST", "/session/generate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	id, ok := body["sessionId"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)
	return id
}

func TestSessionGenerate(t *testing.T) {
	router := newTestRouter(time.Hour, time.Hour)

	t.Run("returns a fresh session id", func(t *testing.T) {
		id := createSession(t, router)
		other := createSession(t, router)
		assert.NotEqual(t, id, other)
	})
}

func TestSessionValidate(t *testing.T) {
	router := newTestRouter(time.Hour, time.Hour)

	t.Run("valid session reports points and item count", func(t *testing.T) {
		id := createSession(t, router)
		doJSON(t, router, "POST", "/session/add", map[string]any{
			"sessionId": id, "item": "Plastic Bottle", "points": 15,
		})

		rec, body := doJSON(t, router, "POST", "/session/validate", map[string]any{"sessionId": id})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, body["valid"])

		session := body["session"].(map[string]any)
		assert.Equal(t, float64(15), session["points"])
		assert.Equal(t, float64(1), session["itemCount"])
	})

	t.Run("unknown session is invalid", func(t *testing.T) {
		rec, body := doJSON(t, router, "POST", "/session/validate", map[string]any{"sessionId": "session_nope"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, body["valid"])
	})

	t.Run("missing sessionId is a bad request", func(t *testing.T) {
		rec, body := doJSON(t, router, "POST", "/session/validate", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, false, body["valid"])
	})

	t.Run("expired session is invalid", func(t *testing.T) {
		shortRouter := newTestRouter(10*time.Millisecond, time.Hour)
		id := createSession(t, shortRouter)

		time.Sleep(20 * time.Millisecond)

		rec, body := doJSON(t, shortRouter, "POST", "/session/validate", map[string]any{"sessionId": id})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, false, body["valid"])
	})
}

func TestSessionAdd(t *testing.T) {
	router := newTestRouter(time.Hour, time.Hour)

	t.Run("accumulates points across items", func(t *testing.T) {
		id := createSession(t, router)

		rec, body := doJSON(t, router, "POST", "/session/add", map[string]any{
			"sessionId": id, "item": "Plastic Bottle", "points": 15,
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(15), body["totalPoints"])

		rec, body = doJSON(t, router, "POST", "/session/add", map[string]any{
			"sessionId": id, "item": "Aluminum Can", "points": 20,
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(35), body["totalPoints"])
	})

	t.Run("clamps inflated points to 50", func(t *testing.T) {
		id := createSession(t, router)

		rec, body := doJSON(t, router, "POST", "/session/add", map[string]any{
			"sessionId": id, "item": "Glass Bottle", "points": 9999,
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(50), body["totalPoints"])
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		id := createSession(t, router)

		rec, _ := doJSON(t, router, "POST", "/session/add", map[string]any{
			"sessionId": id, "item": "Plastic Bottle",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects non-numeric points", func(t *testing.T) {
		id := createSession(t, router)

		rec, _ := doJSON(t, router, "POST", "/session/add", map[string]any{
			"sessionId": id, "item": "Plastic Bottle", "points": "fifteen",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown session is a 404", func(t *testing.T) {
		rec, _ := doJSON(t, router, "POST", "/session/add", map[string]any{
			"sessionId": "session_nope", "item": "Plastic Bottle", "points": 15,
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSessionGet(t *testing.T) {
	router := newTestRouter(time.Hour, time.Hour)

	t.Run("returns the read-only view", func(t *testing.T) {
		id := createSession(t, router)
		doJSON(t, router, "POST", "/session/add", map[string]any{
			"sessionId": id, "item": "Cardboard", "points": 12,
		})

		rec, body := doJSON(t, router, "GET", "/session/"+id, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(12), body["points"])
		assert.Equal(t, float64(1), body["itemCount"])

		items := body["items"].([]any)
		require.Len(t, items, 1)
		item := items[0].(map[string]any)
		assert.Equal(t, "Cardboard", item["item"])
	})

	t.Run("unknown session is a 404", func(t *testing.T) {
		rec, _ := doJSON(t, router, "GET", "/session/session_nope", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSessionFinalize(t *testing.T) {
	t.Run("mints a token bound to the session total", func(t *testing.T) {
		router := newTestRouter(time.Hour, time.Hour)
		id := createSession(t, router)

		doJSON(t, router, "POST", "/session/add", map[string]any{
			"sessionId": id, "item": "Plastic Bottle", "points": 15,
		})
		doJSON(t, router, "POST", "/session/add", map[string]any{
			"sessionId": id, "item": "Aluminum Can", "points": 20,
		})

		rec, body := doJSON(t, router, "POST", "/session/finalize", map[string]any{"sessionId": id})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, float64(35), body["points"])

		code := body["code"].(string)
		assert.NotEmpty(t, code)
		assert.Equal(t, fmt.Sprintf("POINTS:35|CODE:%s", code), body["qrData"])
	})

	t.Run("finalized session is gone", func(t *testing.T) {
		router := newTestRouter(time.Hour, time.Hour)
		id := createSession(t, router)

		doJSON(t, router, "POST", "/session/add", map[string]any{
			"sessionId": id, "item": "Paper Cup", "points": 10,
		})

		rec, _ := doJSON(t, router, "POST", "/session/finalize", map[string]any{"sessionId": id})
		require.Equal(t, http.StatusOK, rec.Code)

		rec, _ = doJSON(t, router, "GET", "/session/"+id, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec, _ = doJSON(t, router, "POST", "/session/finalize", map[string]any{"sessionId": id})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("empty session cannot be finalized", func(t *testing.T) {
		router := newTestRouter(time.Hour, time.Hour)
		id := createSession(t, router)

		rec, body := doJSON(t, router, "POST", "/session/finalize", map[string]any{"sessionId": id})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "EMPTY_SESSION", body["code"])
	})

	t.Run("missing sessionId is a bad request", func(t *testing.T) {
		router := newTestRouter(time.Hour, time.Hour)

		rec, _ := doJSON(t, router, "POST", "/session/finalize", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
