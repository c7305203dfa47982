package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scheerer/indicator-lights/internal/arbiter"
	"github.com/scheerer/indicator-lights/internal/channel"
	"github.com/scheerer/indicator-lights/lights"
)

func newTestAPI(t *testing.T) (humatest.TestAPI, *arbiter.Arbiter, *channel.Recorder) {
	t.Helper()
	rec := channel.NewRecorder()
	arb := arbiter.New(rec.Bank(), arbiter.Config{})
	_, api := humatest.New(t)
	Register(api, Options{Lights: arb, State: arb})
	return api, arb, rec
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	api, _, _ := newTestAPI(t)

	resp := api.Get("/api/health")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, resp)["status"])
}

func TestGetLightTypes(t *testing.T) {
	api, _, _ := newTestAPI(t)

	resp := api.Get("/api/lights/types")
	require.Equal(t, http.StatusOK, resp.Code)

	body := decode[struct {
		Types []string `json:"types"`
	}](t, resp)
	assert.Equal(t, []string{"backlight", "battery", "notifications", "attention"}, body.Types)
}

func TestSetLightNotification(t *testing.T) {
	api, arb, rec := newTestAPI(t)

	resp := api.Put("/api/lights/notifications", map[string]any{
		"color":  "0x800000ff",
		"flash":  "timed",
		"on_ms":  1000,
		"off_ms": 500,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "SUCCESS", decode[map[string]string](t, resp)["status"])

	v, ok := rec.Last(channel.BlueBlink)
	assert.True(t, ok)
	assert.Equal(t, "1", v)
	v, _ = rec.Last(channel.BluePauseLo)
	assert.Equal(t, "500", v)

	snap := arb.Snapshot()
	assert.True(t, snap.Lit)
	assert.Equal(t, uint32(0x800000ff), snap.Requests[snap.Winner].Color)
}

func TestSetLightBacklightShortColor(t *testing.T) {
	api, _, rec := newTestAPI(t)

	resp := api.Put("/api/lights/backlight", map[string]any{"color": "#ffffff"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	v, _ := rec.Last(channel.Backlight)
	assert.Equal(t, "255", v)
}

func TestSetLightErrors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   map[string]any
		status int
	}{
		{name: "unknown type", path: "/api/lights/lasers", body: map[string]any{"color": "0xffffffff"}, status: http.StatusBadRequest},
		{name: "unsupported type", path: "/api/lights/wifi", body: map[string]any{"color": "0xffffffff"}, status: http.StatusNotFound},
		{name: "bad color", path: "/api/lights/battery", body: map[string]any{"color": "purple"}, status: http.StatusBadRequest},
		{name: "missing color", path: "/api/lights/battery", body: map[string]any{}, status: http.StatusUnprocessableEntity},
		{name: "bad flash", path: "/api/lights/attention", body: map[string]any{"color": "0xffffffff", "flash": "strobe"}, status: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, _, rec := newTestAPI(t)

			resp := api.Put(tt.path, tt.body)
			assert.Equal(t, tt.status, resp.Code, resp.Body.String())
			assert.Empty(t, rec.Writes())
		})
	}
}

func TestSetLightWriteFailure(t *testing.T) {
	api, arb, rec := newTestAPI(t)
	rec.FailOn(channel.GreenLED, errors.New("EIO"))

	resp := api.Put("/api/lights/battery", map[string]any{"color": "0x6400ff00"})
	assert.Equal(t, http.StatusInternalServerError, resp.Code)

	// The request is kept even though the hardware write failed.
	assert.Equal(t, uint32(0x6400ff00), arb.Snapshot().Requests[lights.TypeBattery].Color)
}

func TestGetLightState(t *testing.T) {
	api, _, _ := newTestAPI(t)

	require.Equal(t, http.StatusOK, api.Put("/api/lights/battery", map[string]any{"color": "0x0500ff00"}).Code)
	require.Equal(t, http.StatusOK, api.Put("/api/lights/backlight", map[string]any{"color": "0xff808080"}).Code)

	resp := api.Get("/api/lights/state")
	require.Equal(t, http.StatusOK, resp.Code)

	body := decode[struct {
		Requests []struct {
			Type  string `json:"type"`
			Color string `json:"color"`
			Flash string `json:"flash"`
		} `json:"requests"`
		Indicator string `json:"indicator"`
		Backlight uint32 `json:"backlight"`
	}](t, resp)

	assert.Equal(t, "battery", body.Indicator)
	assert.Equal(t, uint32(128), body.Backlight)
	require.Len(t, body.Requests, 3)
	assert.Equal(t, "battery", body.Requests[0].Type)
	assert.Equal(t, "0x0500ff00", body.Requests[0].Color)
	assert.Equal(t, "none", body.Requests[0].Flash)
	assert.Equal(t, "notifications", body.Requests[1].Type)
	assert.Equal(t, "attention", body.Requests[2].Type)
}

func TestMetricsMounted(t *testing.T) {
	rec := channel.NewRecorder()
	arb := arbiter.New(rec.Bank(), arbiter.Config{})
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("lights_requests_total 1\n"))
	})
	srv := NewServer("127.0.0.1:0", Options{Lights: arb, MetricsHandler: metrics})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	srv.Handler().ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "lights_requests_total")

	// No state reader, so the state route is absent.
	req = httptest.NewRequest(http.MethodGet, "/api/lights/state", nil)
	resp = httptest.NewRecorder()
	srv.Handler().ServeHTTP(resp, req)
	assert.NotEqual(t, http.StatusOK, resp.Code)
}
