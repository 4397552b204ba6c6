package utils

import "time"

// SameCalendarDay проверяет, что обе даты приходятся на один календарный день
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
