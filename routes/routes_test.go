package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JRBGitHub/scheadule-desvio/config"
	"github.com/JRBGitHub/scheadule-desvio/model"
	"github.com/JRBGitHub/scheadule-desvio/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success    bool              `json:"success"`
	Data       json.RawMessage   `json:"data"`
	Error      *model.APIError   `json:"error"`
	Message    string            `json:"message"`
	Timestamp  string            `json:"timestamp"`
	Pagination *model.Pagination `json:"pagination"`
}

func testConfig() *config.SystemConfigs {
	return &config.SystemConfigs{Config: &model.EnvConfig{
		Port:         "0",
		Environment:  "test",
		Store:        model.StoreMemory,
		Timezone:     "America/Argentina/Buenos_Aires",
		FrontendUrls: []string{"http://localhost:3000"},
		RateLimiter:  false,
		StatsTTL:     time.Minute,
	}}
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	r, _, err := SetupRouter(testConfig(), repository.NewMemoryScheduleRepository(), nil)
	require.NoError(t, err)
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func decodeSchedule(t *testing.T, raw json.RawMessage) model.Schedule {
	t.Helper()
	var s model.Schedule
	require.NoError(t, json.Unmarshal(raw, &s))
	return s
}

const validBody = `{"day":"Lunes","time":"09:30","iterationTime":"daily","ric":"AAPL.O"}`

func TestCreateSchedule_Created(t *testing.T) {
	r := newTestRouter(t)

	rec, env := do(t, r, http.MethodPost, "/api/v1/schedules", validBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	assert.True(t, env.Success)
	assert.Equal(t, "Schedule creado exitosamente", env.Message)
	s := decodeSchedule(t, env.Data)
	assert.NotEmpty(t, s.ID)
	assert.True(t, s.IsActive)
	assert.True(t, s.CreatedAt.Equal(s.UpdatedAt))
	assert.EqualValues(t, 1, s.Version)
	assert.Equal(t, model.SchemaVersionFlat, s.SchemaVersion)
	assert.NotNil(t, s.NextExecution)
}

func TestCreateSchedule_ValidationEnvelope(t *testing.T) {
	r := newTestRouter(t)

	rec, env := do(t, r, http.MethodPost, "/api/v1/schedules",
		`{"day":"Funday","time":"09:30","iterationTime":"daily","ric":"AAPL.O"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, model.CodeValidationError, env.Error.Code)
	assert.Equal(t, model.ValidationErrorMessage, env.Error.Message)
	require.Len(t, env.Error.Details, 1)
	assert.Equal(t, "day", env.Error.Details[0].Field)
	assert.NotEmpty(t, env.Timestamp)
}

func TestCreateSchedule_MalformedJSON(t *testing.T) {
	r := newTestRouter(t)

	rec, env := do(t, r, http.MethodPost, "/api/v1/schedules", `{"day":`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "body", env.Error.Details[0].Field)
}

func TestListSchedules_EmptyStore(t *testing.T) {
	r := newTestRouter(t)

	rec, env := do(t, r, http.MethodGet, "/api/v1/schedules?page=1&limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.True(t, env.Success)
	assert.JSONEq(t, `[]`, string(env.Data))
	require.NotNil(t, env.Pagination)
	assert.Equal(t, model.Pagination{Page: 1, Limit: 10}, *env.Pagination)
}

func TestListSchedules_NoQuery(t *testing.T) {
	r := newTestRouter(t)
	do(t, r, http.MethodPost, "/api/v1/schedules", validBody)

	rec, env := do(t, r, http.MethodGet, "/api/v1/schedules", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, env.Pagination)
	assert.Equal(t, model.Pagination{Page: 1, Limit: 10, Total: 1, TotalPages: 1}, *env.Pagination)
}

func TestListSchedules_HugePageIs400(t *testing.T) {
	r := newTestRouter(t)
	do(t, r, http.MethodPost, "/api/v1/schedules", validBody)

	rec, env := do(t, r, http.MethodGet, "/api/v1/schedules?page=9223372036854775807&limit=10&isActive=true&day=Lunes", "")
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	require.NotNil(t, env.Error)
	require.Len(t, env.Error.Details, 1)
	assert.Equal(t, "page", env.Error.Details[0].Field)
}

func TestCreateSchedule_SingleDigitHour(t *testing.T) {
	r := newTestRouter(t)

	rec, env := do(t, r, http.MethodPost, "/api/v1/schedules",
		`{"day":"Lunes","time":"9:30","iterationTime":"daily","ric":"AAPL.O"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "09:30", decodeSchedule(t, env.Data).Time)
}

func TestListSchedules_BadQueryIs400(t *testing.T) {
	r := newTestRouter(t)

	rec, env := do(t, r, http.MethodGet, "/api/v1/schedules?limit=abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	require.NotNil(t, env.Error)
	assert.Equal(t, model.CodeBadRequest, env.Error.Code)
	require.Len(t, env.Error.Details, 1)
	assert.Equal(t, "limit", env.Error.Details[0].Field)
}

func TestListSchedules_FiltersAndPages(t *testing.T) {
	r := newTestRouter(t)

	for i := 0; i < 25; i++ {
		ric := "AAPL.O"
		if i%5 == 0 {
			ric = "MSFT.O"
		}
		body := fmt.Sprintf(`{"day":"Martes","time":"10:00","iterationTime":"1h","ric":%q}`, ric)
		rec, _ := do(t, r, http.MethodPost, "/api/v1/schedules", body)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	_, env := do(t, r, http.MethodGet, "/api/v1/schedules?page=2&limit=10", "")
	require.NotNil(t, env.Pagination)
	assert.Equal(t, model.Pagination{Page: 2, Limit: 10, Total: 25, TotalPages: 3, HasNext: true, HasPrev: true}, *env.Pagination)

	_, env = do(t, r, http.MethodGet, "/api/v1/schedules?ric=MSFT.O&day=Martes&isActive=true", "")
	require.NotNil(t, env.Pagination)
	assert.EqualValues(t, 5, env.Pagination.Total)

	_, env = do(t, r, http.MethodGet, "/api/v1/schedules?isActive=false", "")
	assert.EqualValues(t, 0, env.Pagination.Total)
}

func TestScheduleLifecycle(t *testing.T) {
	r := newTestRouter(t)

	_, env := do(t, r, http.MethodPost, "/api/v1/schedules", validBody)
	created := decodeSchedule(t, env.Data)
	path := "/api/v1/schedules/" + created.ID

	rec, env := do(t, r, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decodeSchedule(t, env.Data).ID)

	rec, env = do(t, r, http.MethodPost, path+"/toggle", "", "If-Match", "1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	toggled := decodeSchedule(t, env.Data)
	assert.False(t, toggled.IsActive)
	assert.Nil(t, toggled.NextExecution)
	assert.EqualValues(t, 2, toggled.Version)
	assert.True(t, toggled.CreatedAt.Equal(created.CreatedAt))

	rec, env = do(t, r, http.MethodPut, path,
		`{"day":"Viernes","time":"18:00","iterationTime":"weekly","ric":"MSFT.O","isActive":true}`, "If-Match", "1")
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, model.CodeVersionConflict, env.Error.Code)

	_, env = do(t, r, http.MethodGet, path, "")
	assert.Equal(t, "AAPL.O", decodeSchedule(t, env.Data).RIC)

	rec, env = do(t, r, http.MethodPut, path,
		`{"day":"Viernes","time":"18:00","iterationTime":"weekly","ric":"MSFT.O","isActive":true}`, "If-Match", `"2"`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeSchedule(t, env.Data)
	assert.Equal(t, model.Viernes, updated.Day)
	assert.True(t, updated.IsActive)
	assert.EqualValues(t, 3, updated.Version)

	rec, env = do(t, r, http.MethodPatch, path, `{"description":"cierre semanal","id":"x"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	patched := decodeSchedule(t, env.Data)
	assert.Equal(t, created.ID, patched.ID)
	assert.Equal(t, "cierre semanal", patched.Description)
	assert.Equal(t, "MSFT.O", patched.RIC)

	rec, env = do(t, r, http.MethodPatch, path, `{"time":"25:00"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "time", env.Error.Details[0].Field)

	rec, _ = do(t, r, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = do(t, r, http.MethodGet, path, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, model.CodeNotFound, env.Error.Code)
}

func TestToggle_BadIfMatch(t *testing.T) {
	r := newTestRouter(t)
	_, env := do(t, r, http.MethodPost, "/api/v1/schedules", validBody)
	created := decodeSchedule(t, env.Data)

	rec, env := do(t, r, http.MethodPost, "/api/v1/schedules/"+created.ID+"/toggle", "", "If-Match", "abc")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "If-Match", env.Error.Details[0].Field)
}

func TestCreateSchedule_InstrumentForm(t *testing.T) {
	r := newTestRouter(t)

	rec, env := do(t, r, http.MethodPost, "/api/v1/schedules",
		`{"day":"Jueves","time":"11:00","iterationTime":"30min","instrument":{"ric":"ARGD35D1=BA","cajaValor":"81088","ticker":"GD35","mercado":"BYM","plazo":"24","moneda":"USD"}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	s := decodeSchedule(t, env.Data)
	assert.Equal(t, model.SchemaVersionInstrument, s.SchemaVersion)
	assert.Equal(t, "ARGD35D1=BA", s.RIC)
	assert.Equal(t, model.PresetInstruments[0], s.Instrument)
}

func TestStatsAndCatalog(t *testing.T) {
	r := newTestRouter(t)
	do(t, r, http.MethodPost, "/api/v1/schedules", validBody)

	rec, env := do(t, r, http.MethodGet, "/api/v1/schedules/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats model.ScheduleStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.EqualValues(t, 1, stats.TotalSchedules)
	assert.EqualValues(t, 1, stats.SchedulesByDay[model.Lunes])

	rec, env = do(t, r, http.MethodGet, "/api/v1/instruments/options", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var opts model.InstrumentOptions
	require.NoError(t, json.Unmarshal(env.Data, &opts))
	assert.Len(t, opts.Monedas, 5)

	rec, env = do(t, r, http.MethodGet, "/api/v1/instruments/presets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var presets []model.Instrument
	require.NoError(t, json.Unmarshal(env.Data, &presets))
	assert.Equal(t, model.PresetInstruments, presets)

	rec, env = do(t, r, http.MethodGet, "/api/v1/instruments/ARTC25P3=ME", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var inst model.Instrument
	require.NoError(t, json.Unmarshal(env.Data, &inst))
	assert.Equal(t, "TC25P", inst.Ticker)

	rec, _ = do(t, r, http.MethodGet, "/api/v1/instruments/NFLX.O", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(t)

	rec, _ := do(t, r, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","store":"memory"}`, rec.Body.String())

	rec, _ = do(t, r, http.MethodHead, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	do(t, r, http.MethodGet, "/api/v1/schedules", "")
	rec, _ = do(t, r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "scheadule_http_requests_total")
}

func TestRuntimeConfig(t *testing.T) {
	r := newTestRouter(t)

	rec, env := do(t, r, http.MethodGet, "/api/v1/config/runtime", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cfg model.RuntimeConfig
	require.NoError(t, json.Unmarshal(env.Data, &cfg))
	assert.False(t, cfg.RateLimiter)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.FrontendUrls)
}
