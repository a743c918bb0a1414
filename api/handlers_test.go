package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"court-booking/logger"
	"court-booking/reservation"
	"court-booking/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubJournal struct {
	events []types.Event
	err    error
	asked  int64
}

func (s *stubJournal) Recent(_ context.Context, n int64) ([]types.Event, error) {
	s.asked = n
	return s.events, s.err
}

type envelope struct {
	Status     string            `json:"status"`
	StatusCode int               `json:"status_code"`
	Message    string            `json:"message"`
	Data       json.RawMessage   `json:"data"`
	Errors     map[string]string `json:"errors"`
}

func newTestRouter(t *testing.T, journal JournalReader) (*gin.Engine, *reservation.Manager) {
	t.Helper()
	m := reservation.NewManager(reservation.DefaultMaxCourts)
	log := logger.Discard()
	return NewRouter(NewHandler(m, journal, log), log, RouterConfig{}), m
}

func do(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestReserve(t *testing.T) {
	r, m := newTestRouter(t, nil)

	w, env := do(t, r, http.MethodPost, "/api/v1/reservations", `{"court_id":1,"date":"2024-01-01","duration":60}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", env.Status)
	assert.JSONEq(t, `{"court_id":1,"date":"2024-01-01","duration":60}`, string(env.Data))
	assert.Len(t, m.Reservations(), 1)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	w, env = do(t, r, http.MethodPost, "/api/v1/reservations", `{"court_id":1,"date":"2024-01-01","duration":30}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "error", env.Status)

	w, _ = do(t, r, http.MethodPost, "/api/v1/reservations", `{"court_id":1,"date":"2024-01-02","duration":60}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, m.Reservations(), 2)
}

func TestReserve_CourtZeroIsValid(t *testing.T) {
	r, m := newTestRouter(t, nil)

	w, _ := do(t, r, http.MethodPost, "/api/v1/reservations", `{"court_id":0,"date":"2024-01-01","duration":60}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, m.Reservations(), 1)
}

func TestReserve_BadInput(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"court out of range", `{"court_id":10,"date":"2024-05-01","duration":30}`, ""},
		{"negative court", `{"court_id":-1,"date":"2024-05-01","duration":30}`, "court_id"},
		{"missing court", `{"date":"2024-05-01","duration":30}`, "court_id"},
		{"bad date", `{"court_id":1,"date":"01/05/2024","duration":30}`, "date"},
		{"zero duration", `{"court_id":1,"date":"2024-05-01","duration":0}`, "duration"},
		{"negative duration", `{"court_id":1,"date":"2024-05-01","duration":-5}`, "duration"},
		{"not json", `court=1`, "body"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r, m := newTestRouter(t, nil)
			w, env := do(t, r, http.MethodPost, "/api/v1/reservations", test.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			if test.field != "" {
				assert.Contains(t, env.Errors, test.field)
			}
			assert.Empty(t, m.Reservations())
		})
	}
}

func TestCancel(t *testing.T) {
	r, m := newTestRouter(t, nil)
	require.NoError(t, m.Reserve(2, types.NewDate(2024, 1, 1), 60))
	require.NoError(t, m.Reserve(2, types.NewDate(2024, 1, 2), 60))

	w, env := do(t, r, http.MethodDelete, "/api/v1/courts/2/reservations", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"court_id":2,"removed":2}`, string(env.Data))

	w, _ = do(t, r, http.MethodDelete, "/api/v1/courts/2/reservations", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, r, http.MethodDelete, "/api/v1/courts/10/reservations", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = do(t, r, http.MethodDelete, "/api/v1/courts/abc/reservations", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "abc", env.Errors["id"])
}

func TestAvailability(t *testing.T) {
	r, m := newTestRouter(t, nil)
	require.NoError(t, m.Reserve(3, types.NewDate(2024, 5, 1), 60))

	w, env := do(t, r, http.MethodGet, "/api/v1/courts/3/availability?date=2024-05-01", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"court_id":3,"date":"2024-05-01","available":false}`, string(env.Data))

	_, env = do(t, r, http.MethodGet, "/api/v1/courts/3/availability?date=2024-05-02", "")
	assert.JSONEq(t, `{"court_id":3,"date":"2024-05-02","available":true}`, string(env.Data))

	_, env = do(t, r, http.MethodGet, "/api/v1/courts/10/availability?date=2024-05-02", "")
	assert.JSONEq(t, `{"court_id":10,"date":"2024-05-02","available":false}`, string(env.Data))

	w, _ = do(t, r, http.MethodGet, "/api/v1/courts/3/availability", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListReservations(t *testing.T) {
	r, m := newTestRouter(t, nil)
	require.NoError(t, m.Reserve(1, types.NewDate(2024, 1, 1), 60))
	require.NoError(t, m.Reserve(4, types.NewDate(2024, 1, 1), 30))

	_, env := do(t, r, http.MethodGet, "/api/v1/reservations", "")
	assert.JSONEq(t, `[
		{"court_id":1,"date":"2024-01-01","duration":60},
		{"court_id":4,"date":"2024-01-01","duration":30}
	]`, string(env.Data))

	_, env = do(t, r, http.MethodGet, "/api/v1/courts/4/reservations", "")
	assert.JSONEq(t, `[{"court_id":4,"date":"2024-01-01","duration":30}]`, string(env.Data))

	_, env = do(t, r, http.MethodGet, "/api/v1/courts/5/reservations", "")
	assert.JSONEq(t, `[]`, string(env.Data))

	w, _ := do(t, r, http.MethodGet, "/api/v1/courts/11/reservations", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLights(t *testing.T) {
	r, m := newTestRouter(t, nil)

	w, env := do(t, r, http.MethodPut, "/api/v1/courts/3/lights/on", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"court_id":3,"on":true}`, string(env.Data))

	_, env = do(t, r, http.MethodGet, "/api/v1/courts/3/lights", "")
	assert.JSONEq(t, `{"court_id":3,"on":true}`, string(env.Data))

	w, _ = do(t, r, http.MethodPut, "/api/v1/courts/3/lights/off", "")
	assert.Equal(t, http.StatusOK, w.Code)
	on, err := m.Lighting(3)
	require.NoError(t, err)
	assert.False(t, on)

	w, _ = do(t, r, http.MethodPut, "/api/v1/courts/10/lights/on", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = do(t, r, http.MethodGet, "/api/v1/courts/-1/lights", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.NoError(t, m.EnableLighting(0))
	_, env = do(t, r, http.MethodGet, "/api/v1/courts/lights", "")
	var all []lightingResponse
	require.NoError(t, json.Unmarshal(env.Data, &all))
	require.Len(t, all, reservation.DefaultMaxCourts)
	assert.True(t, all[0].On)
	assert.False(t, all[3].On)
}

func TestJournal(t *testing.T) {
	d := types.NewDate(2024, 5, 1)
	j := &stubJournal{events: []types.Event{{ID: "ev-1", Op: types.OpReserve, CourtID: 1, Date: &d, Duration: 60}}}
	r, _ := newTestRouter(t, j)

	w, env := do(t, r, http.MethodGet, "/api/v1/journal?limit=5000", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, maxJournalLimit, j.asked)
	var events []types.Event
	require.NoError(t, json.Unmarshal(env.Data, &events))
	require.Len(t, events, 1)
	assert.Equal(t, "ev-1", events[0].ID)

	do(t, r, http.MethodGet, "/api/v1/journal", "")
	assert.EqualValues(t, defaultJournalLimit, j.asked)

	w, _ = do(t, r, http.MethodGet, "/api/v1/journal?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	j.err = errors.New("redis down")
	w, _ = do(t, r, http.MethodGet, "/api/v1/journal", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestJournal_NotConfigured(t *testing.T) {
	r, _ := newTestRouter(t, nil)
	w, env := do(t, r, http.MethodGet, "/api/v1/journal", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "journal is not configured", env.Message)
}

func TestHealthAndRequestID(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "6f1c2a8e-3b4d-4e5f-9a7b-1c2d3e4f5a6b")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "6f1c2a8e-3b4d-4e5f-9a7b-1c2d3e4f5a6b", w.Header().Get(requestIDHeader))
	assert.JSONEq(t, `{"status":"success","status_code":200,"message":"ok","data":{"courts":10}}`, w.Body.String())
}

func TestRequestID_ReplacesMalformedHeader(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	for _, supplied := range []string{"", "fixed-id", "bad\x01id", strings.Repeat("a", 4096)} {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(requestIDHeader, supplied)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		got := w.Header().Get(requestIDHeader)
		assert.NotEqual(t, supplied, got)
		_, err := uuid.Parse(got)
		assert.NoError(t, err, "generated id %q", got)
	}
}

func TestToSnake(t *testing.T) {
	assert.Equal(t, "court_id", toSnake("CourtID"))
	assert.Equal(t, "duration", toSnake("Duration"))
	assert.Equal(t, "date", toSnake("Date"))
}
