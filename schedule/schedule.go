package schedule

import (
	"fmt"
	"time"
)

// DayConfig is the wire/env representation of a single weekday's hours.
// Open and Close are "HH:MM" 24-hour strings; Closed marks the whole day off.
type DayConfig struct {
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
	Closed bool   `json:"closed,omitempty"`
}

// WeekConfig is the wire/env representation of a full weekly schedule.
// All seven days must be present; there are no partial-week schedules.
type WeekConfig struct {
	Monday    DayConfig `json:"monday"`
	Tuesday   DayConfig `json:"tuesday"`
	Wednesday DayConfig `json:"wednesday"`
	Thursday  DayConfig `json:"thursday"`
	Friday    DayConfig `json:"friday"`
	Saturday  DayConfig `json:"saturday"`
	Sunday    DayConfig `json:"sunday"`
}

// ConfigError reports a malformed schedule at construction time. Evaluation
// never fails; bad input is rejected before a WeeklySchedule exists.
type ConfigError struct {
	Day    string
	Detail string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid schedule for %s: %s", e.Day, e.Detail)
}

// daySpec is a validated weekday entry. Open/close are minutes since local
// midnight.
type daySpec struct {
	closed bool
	open   int
	close  int
}

// WeeklySchedule is a validated schedule with one entry per weekday, indexed
// by time.Weekday (Sunday = 0).
type WeeklySchedule struct {
	days [7]daySpec
}

// Reason explains how a Status was decided.
type Reason int

const (
	ReasonManualOverride Reason = iota
	ReasonScheduleOpen
	ReasonScheduleClosed
)

// Status is the derived open/closed state of the shop. It is computed fresh
// on every call and never cached: the override or wall clock may change
// between queries. NextTransition is nil when no same-day transition remains.
type Status struct {
	IsOpen         bool
	Reason         Reason
	NextTransition *time.Time
}

// FromConfig validates a WeekConfig and builds a WeeklySchedule.
func FromConfig(cfg WeekConfig) (WeeklySchedule, error) {
	var ws WeeklySchedule
	entries := []struct {
		day  time.Weekday
		name string
		cfg  DayConfig
	}{
		{time.Monday, "monday", cfg.Monday},
		{time.Tuesday, "tuesday", cfg.Tuesday},
		{time.Wednesday, "wednesday", cfg.Wednesday},
		{time.Thursday, "thursday", cfg.Thursday},
		{time.Friday, "friday", cfg.Friday},
		{time.Saturday, "saturday", cfg.Saturday},
		{time.Sunday, "sunday", cfg.Sunday},
	}

	for _, e := range entries {
		if e.cfg.Closed {
			ws.days[e.day] = daySpec{closed: true}
			continue
		}
		openMin, err := parseClock(e.cfg.Open)
		if err != nil {
			return WeeklySchedule{}, &ConfigError{Day: e.name, Detail: fmt.Sprintf("open time %q: %v", e.cfg.Open, err)}
		}
		closeMin, err := parseClock(e.cfg.Close)
		if err != nil {
			return WeeklySchedule{}, &ConfigError{Day: e.name, Detail: fmt.Sprintf("close time %q: %v", e.cfg.Close, err)}
		}
		if openMin >= closeMin {
			return WeeklySchedule{}, &ConfigError{Day: e.name, Detail: fmt.Sprintf("open time %s is not before close time %s", e.cfg.Open, e.cfg.Close)}
		}
		ws.days[e.day] = daySpec{open: openMin, close: closeMin}
	}
	return ws, nil
}

// Config renders the schedule back to its wire representation.
func (ws WeeklySchedule) Config() WeekConfig {
	day := func(d time.Weekday) DayConfig {
		spec := ws.days[d]
		if spec.closed {
			return DayConfig{Closed: true}
		}
		return DayConfig{Open: formatClock(spec.open), Close: formatClock(spec.close)}
	}
	return WeekConfig{
		Monday:    day(time.Monday),
		Tuesday:   day(time.Tuesday),
		Wednesday: day(time.Wednesday),
		Thursday:  day(time.Thursday),
		Friday:    day(time.Friday),
		Saturday:  day(time.Saturday),
		Sunday:    day(time.Sunday),
	}
}

// Evaluate determines the shop's status at the given instant.
//
// An override wins outright and reports no transition. Under the schedule,
// the opening boundary is inclusive and the closing boundary exclusive: at
// the exact close minute the shop is already closed. The next transition is
// only ever computed within the current local calendar day; after closing
// (and on closed days) it is nil rather than tomorrow's opening.
func (ws WeeklySchedule) Evaluate(loc *time.Location, override Override, now time.Time) Status {
	switch override {
	case ForceOpen:
		return Status{IsOpen: true, Reason: ReasonManualOverride}
	case ForceClosed:
		return Status{IsOpen: false, Reason: ReasonManualOverride}
	}

	local := now.In(loc)
	spec := ws.days[local.Weekday()]
	if spec.closed {
		return Status{IsOpen: false, Reason: ReasonScheduleClosed}
	}

	nowMinutes := local.Hour()*60 + local.Minute()
	isOpen := nowMinutes >= spec.open && nowMinutes < spec.close

	var next *time.Time
	switch {
	case isOpen:
		t := clockInstant(local, spec.close, loc)
		next = &t
	case nowMinutes < spec.open:
		t := clockInstant(local, spec.open, loc)
		next = &t
	}

	reason := ReasonScheduleClosed
	if isOpen {
		reason = ReasonScheduleOpen
	}
	return Status{IsOpen: isOpen, Reason: reason, NextTransition: next}
}

func clockInstant(local time.Time, minutes int, loc *time.Location) time.Time {
	return time.Date(local.Year(), local.Month(), local.Day(), minutes/60, minutes%60, 0, 0, loc)
}

func parseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("not an HH:MM time")
	}
	for _, i := range [4]int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("not an HH:MM time")
		}
	}
	hour := int(s[0]-'0')*10 + int(s[1]-'0')
	minute := int(s[3]-'0')*10 + int(s[4]-'0')
	if hour > 23 || minute > 59 {
		return 0, fmt.Errorf("out of range")
	}
	return hour*60 + minute, nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
