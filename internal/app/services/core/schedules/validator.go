package schedules

import (
	"telemed-schedule-service/internal/app/models"
	"telemed-schedule-service/internal/pkg/constvars"
	"time"
)

// ValidateNewClosure checks a closure about to be appended against the ones
// already stored. Violation strings come back verbatim for the client.
func ValidateNewClosure(existing []models.Closure, closure models.Closure) []string {
	violations := make([]string, 0, 2)

	for _, stored := range existing {
		if stored.Start == closure.Start {
			violations = append(violations, constvars.ErrClientClosureDuplicateStart)
			break
		}
	}

	violations = append(violations, periodViolations(closure)...)
	return violations
}

// ValidateScheduleExtension checks a whole blob before it is saved
// wholesale: no two closures may share a start date, and every period
// closure needs an end strictly after its start.
func ValidateScheduleExtension(ext *models.ScheduleExtension) []string {
	violations := make([]string, 0)

	seenStarts := make(map[string]bool, len(ext.Closures))
	duplicateReported := false
	for _, closure := range ext.Closures {
		if seenStarts[closure.Start] && !duplicateReported {
			violations = append(violations, constvars.ErrClientClosureDuplicateStart)
			duplicateReported = true
		}
		seenStarts[closure.Start] = true
		violations = append(violations, periodViolations(closure)...)
	}

	return violations
}

func periodViolations(closure models.Closure) []string {
	if closure.Type != models.ClosurePeriod {
		return nil
	}
	if closure.End == "" {
		return []string{constvars.ErrClientClosureMissingEnd}
	}

	start, startErr := time.Parse(models.OverrideDateLayout, closure.Start)
	end, endErr := time.Parse(models.OverrideDateLayout, closure.End)
	if startErr != nil || endErr != nil {
		return nil
	}
	if !end.After(start) {
		return []string{constvars.ErrClientClosureEndBeforeStart}
	}
	return nil
}
