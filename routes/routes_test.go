package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	timetableRepo "clinicsite/database/repository/timetable"
	"clinicsite/handlers"
	"clinicsite/middleware"
	"clinicsite/models"
	"clinicsite/services/timetable"
	"clinicsite/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	svc, err := timetable.NewDefaultTimetableService(
		timetableRepo.NewInMemoryTimetableRepo(), nil, timetable.NewMetrics(reg), zap.NewNop())
	require.NoError(t, err)
	th := handlers.NewTimetableHandler(svc)

	r := gin.New()
	r.Use(utils.ErrorHandler())
	r.Use(middleware.RequestLogger(zap.NewNop()))
	RegisterRoutes(r, &handlers.HandlerBundle{
		GetTimetableHandler:     th.GetTimetableHandler,
		ReplaceTimetableHandler: th.ReplaceTimetableHandler,
		AdminAuth:               middleware.AdminAuthMiddleware(utils.NewJWTAdminVerifier(testSecret)),
		HealthHandler:           handlers.HealthHandler,
		MetricsHandler:          gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	})
	return r
}

func adminToken(t *testing.T) string {
	t.Helper()
	tok, err := utils.GenerateAdminToken(testSecret, "ops@clinic", time.Hour)
	require.NoError(t, err)
	return tok
}

func do(t *testing.T, r http.Handler, method, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, "/time-table", reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestTimetableRoutes_GetBeforeAnyWrite(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Time table not found","code":"not_found"}`, rec.Body.String())
}

func TestTimetableRoutes_WriteRequiresAdmin(t *testing.T) {
	r := newTestRouter(t)
	body := `{"schedule":[{"day":"Monday","timings":[{"from":"09:00","to":"10:00","doctor":"Dr. A","specialty":"Cardiology"}]}]}`

	rec := do(t, r, http.MethodPost, body, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, r, http.MethodGet, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTimetableRoutes_PartialValidityAndReadBack(t *testing.T) {
	r := newTestRouter(t)
	auth := map[string]string{"Authorization": "Bearer " + adminToken(t)}
	body := `{"schedule":[{"day":"Monday","timings":[
		{"from":"09:00","to":"10:00","doctor":"Dr. A","specialty":"Cardiology"},
		{"from":"","to":"11:00","doctor":"Dr. B","specialty":"Neurology"}]}]}`

	rec := do(t, r, http.MethodPost, body, auth)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, `"1"`, rec.Header().Get("ETag"))

	var saved models.ReplaceTimetableResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, "Time table saved successfully", saved.Message)
	assert.Equal(t, int64(1), saved.Version)
	want := []models.DaySchedule{{Day: "Monday", Timings: []models.Timing{
		{From: "09:00", To: "10:00", Doctor: "Dr. A", Specialty: "Cardiology"},
	}}}
	assert.Equal(t, want, saved.Schedule)
	require.Len(t, saved.Warnings, 1)
	assert.Equal(t, models.ReasonIncompleteTiming, saved.Warnings[0].Reason)

	rec = do(t, r, http.MethodGet, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.TimetableResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, want, got.Schedule)
	assert.Equal(t, `"1"`, rec.Header().Get("ETag"))
}

func TestTimetableRoutes_BadRequests(t *testing.T) {
	r := newTestRouter(t)
	auth := map[string]string{"Authorization": "Bearer " + adminToken(t)}

	tests := []struct {
		name string
		body string
		want string
		code string
	}{
		{"malformed json", `{"schedule":`, "Invalid request payload", models.CodeBadRequest},
		{"missing schedule", `{}`, "Invalid schedule format", models.CodeInvalidFormat},
		{"object schedule", `{"schedule":{"day":"Monday"}}`, "Invalid schedule format", models.CodeInvalidFormat},
		{"all invalid", `{"schedule":[{"day":"Monday","timings":[{"from":"09:00","to":"10:00","doctor":"Dr. A"}]}]}`, "No valid schedule entries provided", models.CodeNoValidEntries},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, r, http.MethodPost, tt.body, auth)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"`+tt.want+`","code":"`+tt.code+`"}`, rec.Body.String())
		})
	}

	rec := do(t, r, http.MethodGet, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTimetableRoutes_IfMatch(t *testing.T) {
	r := newTestRouter(t)
	tok := adminToken(t)
	body := `{"schedule":[{"day":"Tuesday","timings":[{"from":"08:00","to":"09:00","doctor":"Dr. L","specialty":"ENT"}]}]}`

	rec := do(t, r, http.MethodPost, body, map[string]string{"Authorization": "Bearer " + tok, "If-Match": `"0"`})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodPost, body, map[string]string{"Authorization": "Bearer " + tok, "If-Match": `"0"`})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, r, http.MethodPost, body, map[string]string{"Authorization": "Bearer " + tok, "If-Match": `W/"1"`})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `"2"`, rec.Header().Get("ETag"))

	rec = do(t, r, http.MethodPost, body, map[string]string{"Authorization": "Bearer " + tok, "If-Match": "soon"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	do(t, r, http.MethodGet, "", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `clinicsite_timetable_operations_total{operation="fetch",outcome="not_found"} 1`)
}
