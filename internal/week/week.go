// Package week defines the calendar-week boundaries used by goal
// generation, evaluation, and finalization. Weeks run Monday 00:00
// through the following Monday 00:00 (exclusive), in the local zone of
// the reference time.
package week

import "time"

// Start returns Monday 00:00 of the week containing t.
func Start(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return day.AddDate(0, 0, -offset)
}

// End returns the exclusive end of the week containing t (next Monday
// 00:00).
func End(t time.Time) time.Time {
	return Start(t).AddDate(0, 0, 7)
}

// Prev returns Monday 00:00 of the week before the one containing t.
func Prev(t time.Time) time.Time {
	return Start(t).AddDate(0, 0, -7)
}
