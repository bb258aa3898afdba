package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/goccy/go-json"
)

// OverrideDateLayout is the fixed key format for override dates and closure
// start/end dates, month/day/year without zero padding.
const OverrideDateLayout = "1/2/2006"

// ScheduleChangesLayout is the short format used in upcoming-changes
// summaries, e.g. "Jan 28".
const ScheduleChangesLayout = "Jan 2"

// DefaultHourCapacity is the fill value for newly initialized hours.
const DefaultHourCapacity = 20

type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WeekdayFromTime maps a time.Weekday to the lowercase weekday key used in
// the schedule blob.
func WeekdayFromTime(day time.Weekday) Weekday {
	switch day {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// DayCode returns the three-letter FHIR daysOfWeek code for the weekday.
func (w Weekday) DayCode() string {
	if len(w) < 3 {
		return string(w)
	}
	return string(w[:3])
}

type HourlyCapacity struct {
	Hour     int `json:"hour"`
	Capacity int `json:"capacity"`
}

// DaySchedule is one weekday's configuration. Open and Close are hours of
// day in [0,24]; Close == 24 means open through end of day. Buffers are
// minutes shaved off the bookable window at either boundary.
type DaySchedule struct {
	Open          int              `json:"open"`
	Close         int              `json:"close"`
	OpeningBuffer int              `json:"openingBuffer"`
	ClosingBuffer int              `json:"closingBuffer"`
	WorkingDay    bool             `json:"workingDay"`
	Hours         []HourlyCapacity `json:"hours"`
}

// Override is a one-time deviation for a single calendar date. Its presence
// implies the day is open per its own open/close.
type Override struct {
	Open          int              `json:"open"`
	Close         int              `json:"close"`
	OpeningBuffer int              `json:"openingBuffer"`
	ClosingBuffer int              `json:"closingBuffer"`
	Hours         []HourlyCapacity `json:"hours"`
}

type ClosureType string

const (
	ClosureOneDay ClosureType = "one-day"
	ClosurePeriod ClosureType = "period"
)

// Closure marks a date (or inclusive date range) as fully closed. End is
// empty for one-day closures.
type Closure struct {
	Start string      `json:"start"`
	End   string      `json:"end"`
	Type  ClosureType `json:"type"`
}

// Covers reports whether the closure covers the given date. Malformed dates
// never match.
func (c Closure) Covers(date time.Time) bool {
	start, err := time.Parse(OverrideDateLayout, c.Start)
	if err != nil {
		return false
	}
	day := startOfDay(date)
	if c.Type == ClosureOneDay {
		return day.Equal(start)
	}
	end, err := time.Parse(OverrideDateLayout, c.End)
	if err != nil {
		return false
	}
	return !day.Before(start) && !day.After(end)
}

// ScheduleExtension is the persisted aggregate: the weekly schedule plus
// overrides and closures, serialized as one JSON string under the schedule
// extension URL of the owning resource. It is always replaced wholesale on
// save.
type ScheduleExtension struct {
	Schedule          map[Weekday]DaySchedule `json:"schedule"`
	ScheduleOverrides map[string]Override     `json:"scheduleOverrides"`
	Closures          []Closure               `json:"closures"`
}

// ParseScheduleExtension decodes the extension valueString.
func ParseScheduleExtension(valueString string) (*ScheduleExtension, error) {
	ext := new(ScheduleExtension)
	if err := json.Unmarshal([]byte(valueString), ext); err != nil {
		return nil, err
	}
	return ext, nil
}

// Encode serializes the extension back to the valueString form.
func (e *ScheduleExtension) Encode() (string, error) {
	schedule := e.Schedule
	if schedule == nil {
		schedule = map[Weekday]DaySchedule{}
	}
	overrides := e.ScheduleOverrides
	if overrides == nil {
		overrides = map[string]Override{}
	}
	closures := e.Closures
	if closures == nil {
		closures = []Closure{}
	}
	encoded, err := json.Marshal(&ScheduleExtension{
		Schedule:          schedule,
		ScheduleOverrides: overrides,
		Closures:          closures,
	})
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// OverrideDates returns the override date keys parsed and sorted ascending.
// Malformed keys are skipped.
func (e *ScheduleExtension) OverrideDates() []time.Time {
	dates := make([]time.Time, 0, len(e.ScheduleOverrides))
	for key := range e.ScheduleOverrides {
		date, err := time.Parse(OverrideDateLayout, key)
		if err != nil {
			continue
		}
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// OverrideFor looks up the override for the given date, if any.
func (e *ScheduleExtension) OverrideFor(date time.Time) (Override, bool) {
	override, ok := e.ScheduleOverrides[date.Format(OverrideDateLayout)]
	return override, ok
}

// ClosedOn reports whether any closure covers the given date.
func (e *ScheduleExtension) ClosedOn(date time.Time) bool {
	for _, closure := range e.Closures {
		if closure.Covers(date) {
			return true
		}
	}
	return false
}

// HoursInRange builds one capacity entry per bookable hour in [open, close).
func HoursInRange(open, close, capacity int) []HourlyCapacity {
	if close <= open {
		return []HourlyCapacity{}
	}
	hours := make([]HourlyCapacity, 0, close-open)
	for hour := open; hour < close; hour++ {
		hours = append(hours, HourlyCapacity{Hour: hour, Capacity: capacity})
	}
	return hours
}

// DefaultOverride is the row seeded when an admin adds a new override rule.
func DefaultOverride(open, close int) Override {
	return Override{
		Open:  open,
		Close: close,
		Hours: HoursInRange(open, close, DefaultHourCapacity),
	}
}

// FormatHourOfDay renders an hour of day on a 12-hour clock. Hours 0 and 24
// both render as 12 AM; 24 is the end-of-day boundary.
func FormatHourOfDay(hour int) string {
	display := hour % 12
	if display == 0 {
		display = 12
	}
	suffix := "PM"
	if hour < 12 || hour == 24 {
		suffix = "AM"
	}
	return fmt.Sprintf("%d:00 %s", display, suffix)
}

// startOfDay normalizes to the civil date at UTC midnight so comparisons
// against parsed date keys (always UTC) are location independent.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
