package schedules

import (
	"telemed-schedule-service/internal/app/models"
	"time"
)

// Where a resolved day's values came from. Closures beat overrides, which
// beat the weekly base.
const (
	SourceClosure  = "closure"
	SourceOverride = "override"
	SourceWeekly   = "weekly"
)

// ResolvedDay is the effective schedule for one calendar date.
type ResolvedDay struct {
	Weekday       models.Weekday
	Closed        bool
	Source        string
	Open          int
	Close         int
	OpeningBuffer int
	ClosingBuffer int
	Hours         []models.HourlyCapacity
}

// ResolveDay layers closures and overrides over the weekly base for the
// given date. A closure closes the whole day no matter what an override or
// the weekly schedule says. An override opens the day per its own hours
// even if the weekday is not a working day. Otherwise the weekday entry
// applies, and a missing or non-working weekday means closed.
func ResolveDay(ext *models.ScheduleExtension, date time.Time) ResolvedDay {
	weekday := models.WeekdayFromTime(date.Weekday())

	if ext.ClosedOn(date) {
		return ResolvedDay{
			Weekday: weekday,
			Closed:  true,
			Source:  SourceClosure,
			Hours:   []models.HourlyCapacity{},
		}
	}

	if override, ok := ext.OverrideFor(date); ok {
		hours := override.Hours
		if hours == nil {
			hours = []models.HourlyCapacity{}
		}
		return ResolvedDay{
			Weekday:       weekday,
			Source:        SourceOverride,
			Open:          override.Open,
			Close:         override.Close,
			OpeningBuffer: override.OpeningBuffer,
			ClosingBuffer: override.ClosingBuffer,
			Hours:         hours,
		}
	}

	day, ok := ext.Schedule[weekday]
	if !ok || !day.WorkingDay {
		return ResolvedDay{
			Weekday: weekday,
			Closed:  true,
			Source:  SourceWeekly,
			Hours:   []models.HourlyCapacity{},
		}
	}

	hours := day.Hours
	if hours == nil {
		hours = []models.HourlyCapacity{}
	}
	return ResolvedDay{
		Weekday:       weekday,
		Source:        SourceWeekly,
		Open:          day.Open,
		Close:         day.Close,
		OpeningBuffer: day.OpeningBuffer,
		ClosingBuffer: day.ClosingBuffer,
		Hours:         hours,
	}
}
