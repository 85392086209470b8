package model

import (
	"math"
	"time"
)

// --- ENUMS ---
type Day string
type IterationTime string

const (
	Lunes     Day = "Lunes"
	Martes    Day = "Martes"
	Miercoles Day = "Miércoles"
	Jueves    Day = "Jueves"
	Viernes   Day = "Viernes"
	Sabado    Day = "Sábado"
	Domingo   Day = "Domingo"
)

const (
	Every15Min IterationTime = "15min"
	Every30Min IterationTime = "30min"
	EveryHour  IterationTime = "1h"
	Every2H    IterationTime = "2h"
	Every4H    IterationTime = "4h"
	Daily      IterationTime = "daily"
	Weekly     IterationTime = "weekly"
)

// Days lists the weekdays in calendar order, Monday first.
var Days = []Day{Lunes, Martes, Miercoles, Jueves, Viernes, Sabado, Domingo}

var IterationTimes = []IterationTime{Every15Min, Every30Min, EveryHour, Every2H, Every4H, Daily, Weekly}

var dayWeekdays = map[Day]time.Weekday{
	Lunes:     time.Monday,
	Martes:    time.Tuesday,
	Miercoles: time.Wednesday,
	Jueves:    time.Thursday,
	Viernes:   time.Friday,
	Sabado:    time.Saturday,
	Domingo:   time.Sunday,
}

var iterationLabels = map[IterationTime]string{
	Every15Min: "Cada 15 minutos",
	Every30Min: "Cada 30 minutos",
	EveryHour:  "Cada hora",
	Every2H:    "Cada 2 horas",
	Every4H:    "Cada 4 horas",
	Daily:      "Diario",
	Weekly:     "Semanal",
}

var iterationIntervals = map[IterationTime]time.Duration{
	Every15Min: 15 * time.Minute,
	Every30Min: 30 * time.Minute,
	EveryHour:  time.Hour,
	Every2H:    2 * time.Hour,
	Every4H:    4 * time.Hour,
}

func (d Day) String() string { return string(d) }

func (d Day) Valid() bool {
	_, ok := dayWeekdays[d]
	return ok
}

// Weekday returns the calendar weekday for d. Unknown days map to Sunday;
// callers validate first.
func (d Day) Weekday() time.Weekday {
	return dayWeekdays[d]
}

func (i IterationTime) String() string { return string(i) }

func (i IterationTime) Valid() bool {
	_, ok := iterationLabels[i]
	return ok
}

// Label is the Spanish display text for the frequency.
func (i IterationTime) Label() string {
	if label, ok := iterationLabels[i]; ok {
		return label
	}
	return string(i)
}

// Interval is the repeat period for sub-daily frequencies and zero for
// daily and weekly ones.
func (i IterationTime) Interval() time.Duration {
	return iterationIntervals[i]
}

func DayValues() []string {
	values := make([]string, 0, len(Days))
	for _, d := range Days {
		values = append(values, string(d))
	}
	return values
}

func IterationValues() []string {
	values := make([]string, 0, len(IterationTimes))
	for _, i := range IterationTimes {
		values = append(values, string(i))
	}
	return values
}

// --- SCHEDULE ---

// Schema versions of a stored schedule. Flat schedules were created from a
// bare RIC; instrument schedules carry the full instrument record.
const (
	SchemaVersionFlat       = 1
	SchemaVersionInstrument = 2
)

// Instrument is the canonical instrument record. A flat RIC is the reduced
// projection of it.
type Instrument struct {
	RIC       string `json:"ric" bson:"ric" mapstructure:"ric"`
	CajaValor string `json:"cajaValor,omitempty" bson:"cajaValor,omitempty" mapstructure:"cajaValor,omitempty"`
	Ticker    string `json:"ticker,omitempty" bson:"ticker,omitempty" mapstructure:"ticker,omitempty"`
	Mercado   string `json:"mercado,omitempty" bson:"mercado,omitempty" mapstructure:"mercado,omitempty"`
	Plazo     string `json:"plazo,omitempty" bson:"plazo,omitempty" mapstructure:"plazo,omitempty"`
	Moneda    string `json:"moneda,omitempty" bson:"moneda,omitempty" mapstructure:"moneda,omitempty"`
}

// FlatToInstrument lifts a flat RIC into the composite form.
func FlatToInstrument(ric string) Instrument {
	return Instrument{RIC: ric}
}

type Schedule struct {
	ID            string        `json:"id" bson:"_id"`
	SchemaVersion int           `json:"schemaVersion" bson:"schemaVersion"`
	Day           Day           `json:"day" bson:"day"`
	Time          string        `json:"time" bson:"time"`
	IterationTime IterationTime `json:"iterationTime" bson:"iterationTime"`
	RIC           string        `json:"ric" bson:"ric"`
	Instrument    Instrument    `json:"instrument" bson:"instrument"`
	Description   string        `json:"description,omitempty" bson:"description,omitempty"`
	IsActive      bool          `json:"isActive" bson:"isActive"`
	Version       int64         `json:"version" bson:"version"`
	CreatedAt     time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt" bson:"updatedAt"`
	LastExecuted  *time.Time    `json:"lastExecuted,omitempty" bson:"lastExecuted,omitempty"`
	NextExecution *time.Time    `json:"nextExecution,omitempty" bson:"nextExecution,omitempty"`
}

// Flat projects the schedule onto the flat instrument form.
func (s Schedule) Flat() string {
	return s.Instrument.RIC
}

// ToCreateRequest returns the request that would recreate s in its own
// schema version.
func (s Schedule) ToCreateRequest() CreateScheduleRequest {
	req := CreateScheduleRequest{
		Day:           s.Day,
		Time:          s.Time,
		IterationTime: s.IterationTime,
		Description:   s.Description,
	}
	if s.SchemaVersion == SchemaVersionInstrument {
		inst := s.Instrument
		req.Instrument = &inst
	} else {
		req.RIC = s.RIC
	}
	return req
}

// ScheduleFilter narrows a listing. Zero values mean "any".
type ScheduleFilter struct {
	IsActive *bool
	RIC      string
	Day      Day
}

func (f ScheduleFilter) Matches(s Schedule) bool {
	if f.IsActive != nil && s.IsActive != *f.IsActive {
		return false
	}
	if f.RIC != "" && s.RIC != f.RIC {
		return false
	}
	if f.Day != "" && s.Day != f.Day {
		return false
	}
	return true
}

type PageRequest struct {
	Page  int
	Limit int
}

func (p PageRequest) Offset() int {
	if p.Page < 1 {
		return 0
	}
	if p.Limit > 0 && p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// --- DTOs ---

type CreateScheduleRequest struct {
	Day           Day           `json:"day" example:"Lunes"`
	Time          string        `json:"time" example:"09:30"`
	IterationTime IterationTime `json:"iterationTime" example:"daily"`
	RIC           string        `json:"ric,omitempty" example:"AAPL.O"`
	Instrument    *Instrument   `json:"instrument,omitempty" copier:"-"`
	Description   string        `json:"description,omitempty"`
}

// ResolveInstrument returns the canonical instrument for the request and
// the schema version it implies.
func (r CreateScheduleRequest) ResolveInstrument() (Instrument, int) {
	if r.Instrument != nil {
		return *r.Instrument, SchemaVersionInstrument
	}
	return FlatToInstrument(r.RIC), SchemaVersionFlat
}

type UpdateScheduleRequest struct {
	CreateScheduleRequest
	IsActive bool `json:"isActive"`
}

type ListScheduleQuery struct {
	Page     int
	Limit    int
	IsActive *bool
	RIC      string
	Day      Day
}

func (q ListScheduleQuery) Filter() ScheduleFilter {
	return ScheduleFilter{IsActive: q.IsActive, RIC: q.RIC, Day: q.Day}
}

func (q ListScheduleQuery) PageRequest() PageRequest {
	return PageRequest{Page: q.Page, Limit: q.Limit}
}

// NewSchedule builds a freshly created schedule: active, version 1 and
// with equal creation and update stamps.
func NewSchedule(id string, req CreateScheduleRequest, now time.Time) Schedule {
	inst, schemaVersion := req.ResolveInstrument()
	return Schedule{
		ID:            id,
		SchemaVersion: schemaVersion,
		Day:           req.Day,
		Time:          req.Time,
		IterationTime: req.IterationTime,
		RIC:           inst.RIC,
		Instrument:    inst,
		Description:   req.Description,
		IsActive:      true,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
