package validator

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/JRBGitHub/scheadule-desvio/customerrors"
	"github.com/JRBGitHub/scheadule-desvio/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPayload() map[string]any {
	return map[string]any{
		"day":           "Lunes",
		"time":          "09:30",
		"iterationTime": "daily",
		"ric":           "AAPL.O",
	}
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var verr *customerrors.ValidationError
	require.True(t, errors.As(err, &verr), "expected a validation error, got %v", err)
	return verr.Fields()
}

func TestValidateCreate_Valid(t *testing.T) {
	req, err := ValidateCreate(validPayload())
	require.NoError(t, err)

	assert.Equal(t, model.Lunes, req.Day)
	assert.Equal(t, "09:30", req.Time)
	assert.Equal(t, model.Daily, req.IterationTime)
	assert.Equal(t, "AAPL.O", req.RIC)
	assert.Nil(t, req.Instrument)
}

func TestValidateCreate_MissingRequiredField(t *testing.T) {
	for _, field := range []string{"day", "time", "iterationTime", "ric"} {
		t.Run(field, func(t *testing.T) {
			payload := validPayload()
			delete(payload, field)

			_, err := ValidateCreate(payload)
			assert.Equal(t, []string{field}, fieldsOf(t, err))
		})
	}
}

func TestValidateCreate_UnknownDay(t *testing.T) {
	payload := validPayload()
	payload["day"] = "Funday"

	_, err := ValidateCreate(payload)
	assert.Equal(t, []string{"day"}, fieldsOf(t, err))
}

func TestValidateCreate_Time(t *testing.T) {
	for value, want := range map[string]string{"00:00": "00:00", "09:30": "09:30", "23:59": "23:59", "9:30": "09:30", "0:05": "00:05"} {
		payload := validPayload()
		payload["time"] = value
		req, err := ValidateCreate(payload)
		require.NoError(t, err, value)
		assert.Equal(t, want, req.Time, value)
	}

	for _, value := range []string{"24:00", "23:60", "123:00", "09:3", "0930", "09-30", "09:30:00", "ab:cd", "-1:00"} {
		payload := validPayload()
		payload["time"] = value
		_, err := ValidateCreate(payload)
		assert.Equal(t, []string{"time"}, fieldsOf(t, err), value)
	}
}

func TestValidateCreate_IterationTime(t *testing.T) {
	for _, token := range model.IterationValues() {
		payload := validPayload()
		payload["iterationTime"] = token
		_, err := ValidateCreate(payload)
		assert.NoError(t, err, token)
	}

	payload := validPayload()
	payload["iterationTime"] = "5min"
	_, err := ValidateCreate(payload)
	assert.Equal(t, []string{"iterationTime"}, fieldsOf(t, err))
}

func TestValidateCreate_RIC(t *testing.T) {
	for _, value := range []string{"aapl.o", "AAPL", "AAPL.", ".O", "AAPL.O1", "AAPL O", "ARGD35D1=BA"} {
		payload := validPayload()
		payload["ric"] = value
		_, err := ValidateCreate(payload)
		assert.Equal(t, []string{"ric"}, fieldsOf(t, err), value)
	}

	payload := validPayload()
	payload["ric"] = "GOOGL2.OQ"
	_, err := ValidateCreate(payload)
	assert.NoError(t, err)
}

func TestValidateCreate_DescriptionLength(t *testing.T) {
	payload := validPayload()
	payload["description"] = strings.Repeat("a", 500)
	req, err := ValidateCreate(payload)
	require.NoError(t, err)
	assert.Len(t, req.Description, 500)

	payload["description"] = strings.Repeat("a", 501)
	_, err = ValidateCreate(payload)
	assert.Equal(t, []string{"description"}, fieldsOf(t, err))

	payload["description"] = strings.Repeat("é", 500)
	_, err = ValidateCreate(payload)
	assert.NoError(t, err)
}

func TestValidateCreate_ReportsEveryField(t *testing.T) {
	payload := map[string]any{
		"day":           "Funday",
		"time":          "25:00",
		"iterationTime": "yearly",
		"ric":           "bad",
		"description":   strings.Repeat("x", 600),
	}

	_, err := ValidateCreate(payload)
	assert.Equal(t, []string{"day", "description", "iterationTime", "ric", "time"}, fieldsOf(t, err))
}

func TestValidateCreate_Instrument(t *testing.T) {
	payload := validPayload()
	delete(payload, "ric")
	payload["instrument"] = map[string]any{
		"ric":       "ARGD35D1=BA",
		"cajaValor": "81088",
		"ticker":    "GD35",
		"mercado":   "BYM",
		"plazo":     "24",
		"moneda":    "USD",
	}

	req, err := ValidateCreate(payload)
	require.NoError(t, err)
	require.NotNil(t, req.Instrument)
	assert.Equal(t, "ARGD35D1=BA", req.RIC)
	assert.Equal(t, model.PresetInstruments[0], *req.Instrument)

	_, version := req.ResolveInstrument()
	assert.Equal(t, model.SchemaVersionInstrument, version)
}

func TestValidateCreate_InstrumentViolations(t *testing.T) {
	payload := validPayload()
	delete(payload, "ric")
	payload["instrument"] = map[string]any{
		"ric":       "ARGD35D1=BA",
		"cajaValor": "81O88",
		"mercado":   "MERVAL",
		"moneda":    "BTC",
	}

	_, err := ValidateCreate(payload)
	assert.Equal(t, []string{"instrument.cajaValor", "instrument.mercado", "instrument.moneda"}, fieldsOf(t, err))

	payload["instrument"] = "AAPL.O"
	_, err = ValidateCreate(payload)
	assert.Equal(t, []string{"instrument"}, fieldsOf(t, err))
}

func TestValidateCreate_RICMustMatchInstrument(t *testing.T) {
	payload := validPayload()
	payload["instrument"] = map[string]any{"ric": "MSFT.O"}

	_, err := ValidateCreate(payload)
	assert.Equal(t, []string{"ric"}, fieldsOf(t, err))

	payload["ric"] = "MSFT.O"
	req, err := ValidateCreate(payload)
	require.NoError(t, err)
	assert.Equal(t, "MSFT.O", req.RIC)
}

func TestDecodePayload(t *testing.T) {
	payload, err := DecodePayload([]byte(`{"day":"Lunes"}`))
	require.NoError(t, err)
	assert.Equal(t, "Lunes", payload["day"])

	for _, body := range []string{``, `[]`, `"x"`, `null`, `{"day":`} {
		_, err := DecodePayload([]byte(body))
		assert.Equal(t, []string{"body"}, fieldsOf(t, err), body)
	}
}

func TestValidateUpdate(t *testing.T) {
	payload := validPayload()
	payload["isActive"] = false

	req, err := ValidateUpdate(payload)
	require.NoError(t, err)
	assert.False(t, req.IsActive)
	assert.Equal(t, "AAPL.O", req.RIC)

	delete(payload, "isActive")
	_, err = ValidateUpdate(payload)
	assert.Equal(t, []string{"isActive"}, fieldsOf(t, err))

	payload["isActive"] = "yes"
	_, err = ValidateUpdate(payload)
	assert.Equal(t, []string{"isActive"}, fieldsOf(t, err))
}

func storedSchedule(req model.CreateScheduleRequest) model.Schedule {
	return model.NewSchedule("sched-1", req, time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC))
}

func TestValidatePatch_Merges(t *testing.T) {
	current := storedSchedule(model.CreateScheduleRequest{
		Day: model.Lunes, Time: "09:30", IterationTime: model.Daily, RIC: "AAPL.O", Description: "apertura",
	})

	req, isActive, err := ValidatePatch(current, map[string]any{
		"time":      "10:15",
		"id":        "other",
		"version":   float64(9),
		"unknown":   true,
		"isActive":  false,
		"createdAt": "2020-01-01T00:00:00Z",
	})
	require.NoError(t, err)
	require.NotNil(t, isActive)
	assert.False(t, *isActive)
	assert.Equal(t, "10:15", req.Time)
	assert.Equal(t, model.Lunes, req.Day)
	assert.Equal(t, "AAPL.O", req.RIC)
	assert.Equal(t, "apertura", req.Description)
}

func TestValidatePatch_RejectsInvalidMerge(t *testing.T) {
	current := storedSchedule(model.CreateScheduleRequest{
		Day: model.Lunes, Time: "09:30", IterationTime: model.Daily, RIC: "AAPL.O",
	})

	_, _, err := ValidatePatch(current, map[string]any{"day": "Funday", "isActive": "no"})
	assert.Equal(t, []string{"day", "isActive"}, fieldsOf(t, err))
}

func TestValidatePatch_InstrumentSchedule(t *testing.T) {
	inst := model.PresetInstruments[1]
	current := storedSchedule(model.CreateScheduleRequest{
		Day: model.Martes, Time: "11:00", IterationTime: model.Every2H, Instrument: &inst,
	})

	req, isActive, err := ValidatePatch(current, map[string]any{"ric": "ARGD35D1=BA"})
	require.NoError(t, err)
	assert.Nil(t, isActive)
	require.NotNil(t, req.Instrument)
	assert.Equal(t, "ARGD35D1=BA", req.RIC)
	assert.Equal(t, "ARGD35D1=BA", req.Instrument.RIC)
	assert.Equal(t, "MAE", req.Instrument.Mercado)

	req, _, err = ValidatePatch(current, map[string]any{"instrument": map[string]any{"ric": "AAPL.O", "ticker": "AAPL"}})
	require.NoError(t, err)
	assert.Equal(t, "AAPL.O", req.RIC)
	assert.Equal(t, "AAPL", req.Instrument.Ticker)
	assert.Empty(t, req.Instrument.Mercado)
}

func TestValidateListQuery_Defaults(t *testing.T) {
	q, err := ValidateListQuery(map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.Limit)
	assert.Nil(t, q.IsActive)
	assert.Empty(t, q.RIC)
	assert.Empty(t, q.Day)
}

func TestValidateListQuery_BlankParamsUseDefaults(t *testing.T) {
	q, err := ValidateListQuery(map[string]string{"page": "", "limit": "", "isActive": "", "ric": "", "day": ""})
	require.NoError(t, err)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.Limit)
	assert.Nil(t, q.IsActive)
	assert.Empty(t, q.RIC)
	assert.Empty(t, q.Day)

	q, err = ValidateListQuery(map[string]string{"page": "2", "limit": " ", "isActive": "", "ric": "", "day": ""})
	require.NoError(t, err)
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, 10, q.Limit)
}

func TestValidateListQuery_PageOutOfRange(t *testing.T) {
	_, err := ValidateListQuery(map[string]string{"page": "9223372036854775807", "limit": "10"})
	assert.Equal(t, []string{"page"}, fieldsOf(t, err))

	_, err = ValidateListQuery(map[string]string{"page": "99999999999999999999"})
	assert.Equal(t, []string{"page"}, fieldsOf(t, err))

	q, err := ValidateListQuery(map[string]string{"page": "1000000", "limit": "100"})
	require.NoError(t, err)
	assert.Equal(t, 1000000, q.Page)
}

func TestValidateListQuery_Filters(t *testing.T) {
	q, err := ValidateListQuery(map[string]string{
		"page": "3", "limit": "25", "isActive": "false", "ric": "AAPL.O", "day": "Miércoles",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 25, q.Limit)
	require.NotNil(t, q.IsActive)
	assert.False(t, *q.IsActive)
	assert.Equal(t, "AAPL.O", q.RIC)
	assert.Equal(t, model.Miercoles, q.Day)
}

func TestValidateListQuery_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"limit":    {"limit": "abc"},
		"page":     {"page": "0"},
		"isActive": {"isActive": "yes"},
		"day":      {"day": "Monday"},
	}
	for field, query := range cases {
		_, err := ValidateListQuery(query)
		assert.Equal(t, []string{field}, fieldsOf(t, err), field)
	}

	_, err := ValidateListQuery(map[string]string{"limit": "101"})
	assert.Equal(t, []string{"limit"}, fieldsOf(t, err))

	_, err = ValidateListQuery(map[string]string{"limit": "100"})
	assert.NoError(t, err)
}
