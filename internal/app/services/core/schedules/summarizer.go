package schedules

import (
	"fmt"
	"sort"
	"strings"
	"telemed-schedule-service/internal/app/models"
	"telemed-schedule-service/internal/pkg/constvars"
	"time"
)

type upcomingChange struct {
	start time.Time
	last  time.Time
	label string
}

// UpcomingChanges summarizes override dates and closures still relevant
// today or later as a comma-joined list of short dates, e.g.
// "Jan 15, Jan 20 - Jan 24, Feb 1". One-day entries show a single date,
// period closures a range; entries are sorted by their first date and a
// date appearing as both an override and a closure shows once. Nothing
// upcoming renders as "None Scheduled".
func UpcomingChanges(ext *models.ScheduleExtension, today time.Time) string {
	cutoff := civilDate(today)

	changes := make([]upcomingChange, 0, len(ext.ScheduleOverrides)+len(ext.Closures))
	for _, date := range ext.OverrideDates() {
		changes = append(changes, upcomingChange{
			start: date,
			last:  date,
			label: date.Format(models.ScheduleChangesLayout),
		})
	}
	for _, closure := range ext.Closures {
		start, err := time.Parse(models.OverrideDateLayout, closure.Start)
		if err != nil {
			continue
		}
		change := upcomingChange{
			start: start,
			last:  start,
			label: start.Format(models.ScheduleChangesLayout),
		}
		if closure.Type == models.ClosurePeriod {
			end, err := time.Parse(models.OverrideDateLayout, closure.End)
			if err != nil {
				continue
			}
			change.last = end
			change.label = fmt.Sprintf("%s - %s",
				start.Format(models.ScheduleChangesLayout),
				end.Format(models.ScheduleChangesLayout),
			)
		}
		changes = append(changes, change)
	}

	// stable so an override and a closure starting the same day keep their
	// collection order (overrides first)
	sort.SliceStable(changes, func(i, j int) bool { return changes[i].start.Before(changes[j].start) })

	labels := make([]string, 0, len(changes))
	seen := make(map[string]bool, len(changes))
	for _, change := range changes {
		if change.last.Before(cutoff) {
			continue
		}
		if seen[change.label] {
			continue
		}
		seen[change.label] = true
		labels = append(labels, change.label)
	}

	if len(labels) == 0 {
		return constvars.ResponseNoneScheduled
	}
	return strings.Join(labels, ", ")
}

// TodaysHours renders today's resolved window on a 12-hour clock, e.g.
// "8:00 AM - 5:00 PM", or "No scheduled hours" when today is closed.
func TodaysHours(ext *models.ScheduleExtension, today time.Time) string {
	resolved := ResolveDay(ext, today)
	if resolved.Closed || resolved.Close <= resolved.Open {
		return constvars.ResponseNoScheduledHours
	}
	return fmt.Sprintf("%s - %s",
		models.FormatHourOfDay(resolved.Open),
		models.FormatHourOfDay(resolved.Close),
	)
}

func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
