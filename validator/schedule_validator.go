package validator

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/JRBGitHub/scheadule-desvio/customerrors"
	"github.com/JRBGitHub/scheadule-desvio/model"

	"github.com/Oudwins/zog"
	"github.com/mitchellh/mapstructure"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// immutableFields can never be changed by a patch.
var immutableFields = []string{"id", "schemaVersion", "version", "createdAt", "updatedAt", "lastExecuted", "nextExecution"}

// violations collects one message per field; the first message recorded for a
// field wins.
type violations map[string]string

func (v violations) add(field, message string) {
	if _, exists := v[field]; !exists {
		v[field] = message
	}
}

func (v violations) has(field string) bool {
	_, ok := v[field]
	return ok
}

func (v violations) err() *customerrors.ValidationError {
	if len(v) == 0 {
		return nil
	}
	details := make([]model.FieldError, 0, len(v))
	for field, message := range v {
		details = append(details, model.FieldError{Field: field, Message: message})
	}
	sort.Slice(details, func(i, j int) bool { return details[i].Field < details[j].Field })
	return customerrors.NewValidationError(details)
}

// DecodePayload turns a raw request body into a JSON object.
func DecodePayload(body []byte) (map[string]any, error) {
	var payload map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&payload); err != nil || payload == nil {
		v := violations{}
		v.add("body", msgBodyInvalid)
		return nil, v.err()
	}
	return payload, nil
}

// ValidateCreate checks a creation payload and returns the normalized
// request. Every failing field is reported.
func ValidateCreate(payload map[string]any) (model.CreateScheduleRequest, error) {
	v := violations{}
	req := validateSchedule(payload, v)
	if err := v.err(); err != nil {
		return model.CreateScheduleRequest{}, err
	}
	return req, nil
}

// ValidateUpdate checks a full replacement payload: the creation rules plus a
// required isActive flag.
func ValidateUpdate(payload map[string]any) (model.UpdateScheduleRequest, error) {
	v := violations{}
	req := validateSchedule(payload, v)

	isActive := false
	switch raw := payload["isActive"].(type) {
	case nil:
		v.add("isActive", msgIsActiveRequired)
	case bool:
		isActive = raw
	default:
		v.add("isActive", msgIsActiveInvalid)
	}

	if err := v.err(); err != nil {
		return model.UpdateScheduleRequest{}, err
	}
	return model.UpdateScheduleRequest{CreateScheduleRequest: req, IsActive: isActive}, nil
}

// ValidatePatch overlays payload on the current schedule and validates the
// merged result with the creation rules. Unknown and immutable fields are
// dropped. isActive is returned when the patch sets it.
func ValidatePatch(current model.Schedule, payload map[string]any) (model.CreateScheduleRequest, *bool, error) {
	base, err := requestToMap(current.ToCreateRequest())
	if err != nil {
		return model.CreateScheduleRequest{}, nil, err
	}

	for _, field := range immutableFields {
		delete(payload, field)
	}

	fields := []string{"day", "time", "iterationTime", "ric", "instrument", "description"}
	_, patchRIC := payload["ric"]
	_, patchInstrument := payload["instrument"]
	switch {
	case patchInstrument && !patchRIC:
		delete(base, "ric")
	case patchRIC && !patchInstrument:
		// an instrument schedule keeps its shape; the ric lands inside it
		if inst, ok := base["instrument"].(map[string]any); ok {
			inst["ric"] = payload["ric"]
			fields = []string{"day", "time", "iterationTime", "description"}
		}
	}

	for _, key := range fields {
		if value, ok := payload[key]; ok {
			base[key] = value
		}
	}

	v := violations{}
	req := validateSchedule(base, v)

	var isActive *bool
	if raw, ok := payload["isActive"]; ok {
		if b, isBool := raw.(bool); isBool {
			isActive = &b
		} else {
			v.add("isActive", msgIsActiveInvalid)
		}
	}

	if verr := v.err(); verr != nil {
		return model.CreateScheduleRequest{}, nil, verr
	}
	return req, isActive, nil
}

// ValidateListQuery checks list query parameters and applies defaults.
func ValidateListQuery(query map[string]string) (model.ListScheduleQuery, error) {
	v := violations{}
	// absent and blank parameters both fall back to the defaults
	data := make(map[string]any, len(query))
	for k, val := range query {
		if val = strings.TrimSpace(val); val != "" {
			data[k] = val
		}
	}

	var fields listQueryFields
	errs := zog.Struct(ListQueryShape).Parse(data, &fields)
	for field, issues := range errs {
		if strings.HasPrefix(field, "$") || len(issues) == 0 {
			continue
		}
		v.add(field, issues[0].Message)
	}

	out := model.ListScheduleQuery{
		Page:  DefaultPage,
		Limit: DefaultLimit,
		RIC:   strings.TrimSpace(query["ric"]),
	}

	if fields.Page != "" && !v.has("page") {
		page, err := strconv.Atoi(fields.Page)
		if err != nil {
			v.add("page", msgPageInvalid)
		} else {
			out.Page = page
		}
	}
	if fields.Limit != "" && !v.has("limit") {
		limit, err := strconv.Atoi(fields.Limit)
		if err != nil || limit > MaxLimit {
			v.add("limit", msgLimitInvalid)
		} else {
			out.Limit = limit
		}
	}
	if !v.has("page") && !v.has("limit") && out.Page > math.MaxInt/out.Limit {
		v.add("page", msgPageTooLarge)
	}
	if fields.IsActive != "" && !v.has("isActive") {
		active := fields.IsActive == "true"
		out.IsActive = &active
	}
	if fields.Day != "" && !v.has("day") {
		out.Day = model.Day(fields.Day)
	}

	if err := v.err(); err != nil {
		return model.ListScheduleQuery{}, err
	}
	return out, nil
}

// normalizeClock pads a single-digit hour, so 9:30 is stored as 09:30.
func normalizeClock(clock string) string {
	if len(clock) == 4 && clock[1] == ':' {
		return "0" + clock
	}
	return clock
}

func validateSchedule(payload map[string]any, v violations) model.CreateScheduleRequest {
	var fields scheduleFields
	errs := zog.Struct(ScheduleShape).Parse(payload, &fields)
	for field, issues := range errs {
		if strings.HasPrefix(field, "$") || len(issues) == 0 {
			continue
		}
		v.add(field, issues[0].Message)
	}

	req := model.CreateScheduleRequest{
		Day:           model.Day(fields.Day),
		Time:          normalizeClock(fields.Time),
		IterationTime: model.IterationTime(fields.IterationTime),
		RIC:           fields.Ric,
	}

	switch raw := payload["description"].(type) {
	case nil:
	case string:
		if utf8.RuneCountInString(raw) > MaxDescriptionLength {
			v.add("description", msgDescriptionMax)
		}
		req.Description = raw
	default:
		v.add("description", msgDescriptionType)
	}

	if rawInstrument, ok := payload["instrument"]; ok && rawInstrument != nil {
		inst, valid := validateInstrument(rawInstrument, v)
		if valid {
			req.Instrument = &inst
			if req.RIC != "" && !v.has("ric") && req.RIC != inst.RIC {
				v.add("ric", msgRICMismatch)
			}
			req.RIC = inst.RIC
		}
	} else if req.RIC == "" {
		v.add("ric", msgRICRequired)
	}

	return req
}

func validateInstrument(raw any, v violations) (model.Instrument, bool) {
	data, ok := raw.(map[string]any)
	if !ok {
		v.add("instrument", msgInstrumentInvalid)
		return model.Instrument{}, false
	}

	var fields instrumentFields
	errs := zog.Struct(InstrumentShape).Parse(data, &fields)
	valid := true
	for field, issues := range errs {
		if strings.HasPrefix(field, "$") || len(issues) == 0 {
			continue
		}
		v.add("instrument."+field, issues[0].Message)
		valid = false
	}

	return model.Instrument{
		RIC:       fields.Ric,
		CajaValor: fields.CajaValor,
		Ticker:    fields.Ticker,
		Mercado:   fields.Mercado,
		Plazo:     fields.Plazo,
		Moneda:    fields.Moneda,
	}, valid
}

// requestToMap renders a request in its JSON field names so a patch can be
// laid over it.
func requestToMap(req model.CreateScheduleRequest) (map[string]any, error) {
	out := map[string]any{
		"day":           string(req.Day),
		"time":          req.Time,
		"iterationTime": string(req.IterationTime),
	}
	if req.RIC != "" {
		out["ric"] = req.RIC
	}
	if req.Description != "" {
		out["description"] = req.Description
	}
	if req.Instrument != nil {
		inst := map[string]any{}
		if err := mapstructure.Decode(req.Instrument, &inst); err != nil {
			return nil, err
		}
		out["instrument"] = inst
	}
	return out, nil
}
