package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakeemmukif/distraction-shop-v2/models"
	"github.com/hakeemmukif/distraction-shop-v2/schedule"
	"github.com/hakeemmukif/distraction-shop-v2/store"
)

func testSettings(t *testing.T) *store.Settings {
	t.Helper()
	day := schedule.DayConfig{Open: "09:00", Close: "18:00"}
	week, err := schedule.FromConfig(schedule.WeekConfig{
		Monday: day, Tuesday: day, Wednesday: day, Thursday: day,
		Friday: day, Saturday: day,
		Sunday: schedule.DayConfig{Closed: true},
	})
	require.NoError(t, err)

	settings, err := store.NewSettings(week, "UTC", "hello@distractionshop.com")
	require.NoError(t, err)
	return settings
}

func shopRouter(h *ShopHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/shop/status", h.GetStatus)
	r.GET("/admin/shop/override", h.GetOverride)
	r.POST("/admin/shop/override", h.SetOverride)
	return r
}

func TestGetStatusOpen(t *testing.T) {
	h := NewShopHandler(testSettings(t), schedule.NewOverrideState())
	// Monday midday, UTC.
	h.now = func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) }

	w := httptest.NewRecorder()
	shopRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/shop/status", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ShopStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.IsOpen)
	assert.Equal(t, "Shop is open", resp.Message)
	require.NotNil(t, resp.NextStatusChange)
	assert.Equal(t, "2026-08-31T18:00:00Z", *resp.NextStatusChange)
	assert.Equal(t, "2026-08-31T12:00:00Z", resp.CurrentTime)
	assert.Equal(t, "09:00", resp.Schedule.Monday.Open)
}

func TestGetStatusWireFieldNames(t *testing.T) {
	h := NewShopHandler(testSettings(t), schedule.NewOverrideState())
	h.now = func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) }

	w := httptest.NewRecorder()
	shopRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/shop/status", nil))
	require.Equal(t, http.StatusOK, w.Code)

	// Storefront clients key on these exact camelCase names.
	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	for _, key := range []string{"isOpen", "message", "nextStatusChange", "currentTime", "schedule"} {
		assert.Contains(t, payload, key)
	}
	assert.NotContains(t, payload, "is_open")
	assert.NotContains(t, payload, "next_status_change")
}

func TestGetStatusReadsClockOnce(t *testing.T) {
	h := NewShopHandler(testSettings(t), schedule.NewOverrideState())
	// Each clock read advances a full day, so evaluating and reporting at
	// different instants would flip the open flag against the timestamp.
	calls := 0
	h.now = func() time.Time {
		calls++
		return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC).AddDate(0, 0, calls-1)
	}

	w := httptest.NewRecorder()
	shopRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/shop/status", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ShopStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2026-08-31T12:00:00Z", resp.CurrentTime)
}

func TestGetStatusClosedDay(t *testing.T) {
	h := NewShopHandler(testSettings(t), schedule.NewOverrideState())
	// Sunday.
	h.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	w := httptest.NewRecorder()
	shopRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/shop/status", nil))

	var resp models.ShopStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.IsOpen)
	assert.Nil(t, resp.NextStatusChange)
}

func TestGetStatusHonorsOverride(t *testing.T) {
	override := schedule.NewOverrideState()
	override.Set(schedule.ForceOpen)

	h := NewShopHandler(testSettings(t), override)
	// Sunday, normally closed all day.
	h.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	w := httptest.NewRecorder()
	shopRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/shop/status", nil))

	var resp models.ShopStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.IsOpen)
	assert.Equal(t, "Shop is open (manual override)", resp.Message)
	assert.Nil(t, resp.NextStatusChange)
}

func TestSetOverride(t *testing.T) {
	override := schedule.NewOverrideState()
	h := NewShopHandler(testSettings(t), override)
	router := shopRouter(h)

	tests := []struct {
		name    string
		body    string
		want    schedule.Override
		message string
	}{
		{"force open", `{"override":true}`, schedule.ForceOpen, "Shop forced OPEN"},
		{"force closed", `{"override":false}`, schedule.ForceClosed, "Shop forced CLOSED"},
		{"back to schedule", `{"override":null}`, schedule.UseSchedule, "Using schedule"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/admin/shop/override", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, override.Get())

			var resp models.OverrideResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.message, resp.Message)
		})
	}
}

func TestGetOverrideReflectsState(t *testing.T) {
	override := schedule.NewOverrideState()
	override.Set(schedule.ForceClosed)
	h := NewShopHandler(testSettings(t), override)

	w := httptest.NewRecorder()
	shopRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/shop/override", nil))

	var resp models.OverrideResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Override)
	assert.False(t, *resp.Override)
}
