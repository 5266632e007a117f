package dateutil

import "time"

// Day returns the calendar day of t in the given location, truncated to
// midnight.
func Day(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// DaysBetween returns the number of calendar days from a to b in the given
// location. It is negative if b is before a. Daylight saving makes some local
// days 23 or 25 hours long, so the distance between the two midnights is
// rounded to whole days instead of truncated.
func DaysBetween(a, b time.Time, loc *time.Location) int {
	from := Day(a, loc)
	to := Day(b, loc)
	return int(to.Sub(from).Round(24*time.Hour) / (24 * time.Hour))
}

// CurrentWeek returns the beginning (Monday 00:00) of the ISO week containing
// the given time.
func CurrentWeek(current time.Time) time.Time {
	daysFromMonday := (int(current.Weekday()) + 6) % 7
	monday := current.AddDate(0, 0, -daysFromMonday)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, current.Location())
}

func LastWeek(current time.Time) time.Time {
	return current.AddDate(0, 0, -7)
}
