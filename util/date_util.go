package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/JRBGitHub/scheadule-desvio/model"

	"github.com/teambition/rrule-go"
)

var (
	ClockLayout     = "15:04"
	DefaultTimezone = "America/Argentina/Buenos_Aires"
)

var ruleWeekdays = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// LoadLocation resolves an IANA zone name, falling back to the default zone
// when name is empty.
func LoadLocation(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

// ParseClock splits an HH:MM string into hour and minute.
func ParseClock(clock string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid clock %q", clock)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", clock)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", clock)
	}
	return hour, minute, nil
}

// NextExecution returns the first firing strictly after now.
//
// weekly fires on day at clock, daily fires every day at clock. Sub-daily
// frequencies start on day at clock and repeat every interval until the end
// of that day, then wait for the next week's start.
func NextExecution(day model.Day, clock string, iteration model.IterationTime, now time.Time, loc *time.Location) (time.Time, error) {
	if !day.Valid() {
		return time.Time{}, fmt.Errorf("invalid day %q", day)
	}
	if !iteration.Valid() {
		return time.Time{}, fmt.Errorf("invalid iteration %q", iteration)
	}
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.UTC
	}

	local := now.In(loc)
	opt := rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   time.Date(local.Year(), local.Month(), local.Day()-7, 0, 0, 0, 0, loc),
		Byweekday: []rrule.Weekday{ruleWeekdays[day.Weekday()]},
		Byhour:    []int{hour},
		Byminute:  []int{minute},
		Bysecond:  []int{0},
	}
	if iteration == model.Daily {
		opt.Freq = rrule.DAILY
		opt.Byweekday = nil
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return time.Time{}, fmt.Errorf("build recurrence: %w", err)
	}

	interval := iteration.Interval()
	if interval == 0 {
		return rule.After(local, false), nil
	}

	if anchor := rule.Before(local, true); !anchor.IsZero() {
		steps := local.Sub(anchor)/interval + 1
		next := anchor.Add(steps * interval)
		endOfDay := time.Date(anchor.Year(), anchor.Month(), anchor.Day()+1, 0, 0, 0, 0, loc)
		if next.Before(endOfDay) {
			return next, nil
		}
	}
	return rule.After(local, false), nil
}
