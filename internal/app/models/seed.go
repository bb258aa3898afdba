package models

// DefaultScheduleExtension is the seed written when a schedulable resource
// is first given a schedule. Open 8 to 15 every day with the stock capacity
// curve; admins tune it from there.
func DefaultScheduleExtension() *ScheduleExtension {
	schedule := make(map[Weekday]DaySchedule, len(AllWeekdays))
	for _, weekday := range AllWeekdays {
		schedule[weekday] = DaySchedule{
			Open:       8,
			Close:      15,
			WorkingDay: true,
			Hours:      seedHours(),
		}
	}
	return &ScheduleExtension{
		Schedule:          schedule,
		ScheduleOverrides: map[string]Override{},
	}
}

func seedHours() []HourlyCapacity {
	hours := make([]HourlyCapacity, 0, 13)
	for hour := 8; hour <= 16; hour++ {
		hours = append(hours, HourlyCapacity{Hour: hour, Capacity: 2})
	}
	for hour := 17; hour <= 19; hour++ {
		hours = append(hours, HourlyCapacity{Hour: hour, Capacity: 3})
	}
	hours = append(hours, HourlyCapacity{Hour: 20, Capacity: 1})
	return hours
}
