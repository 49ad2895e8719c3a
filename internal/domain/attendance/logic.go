package attendance

import "time"

// DayOf truncates a timestamp to its local calendar day.
func DayOf(ts time.Time) time.Time {
	year, month, day := ts.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, ts.Location())
}

// StatusForClockIn marks the log late when the clock-in hour reaches
// lateHour, otherwise present.
func StatusForClockIn(ts time.Time, lateHour int) string {
	if ts.Hour() >= lateHour {
		return StatusLate
	}
	return StatusPresent
}

// TotalHours computes the elapsed-hours value recorded on clock-out. The
// fractional part is floor(minutes/60*100) appended after the decimal point,
// not a true fraction of an hour: 1h30m gives 1.50 but 1h20m gives 1.33.
// Existing records use this encoding, so it is kept as is.
func TotalHours(clockIn, clockOut time.Time) float64 {
	elapsed := clockOut.Sub(clockIn)
	if elapsed < 0 {
		return 0
	}
	hours := int(elapsed.Hours())
	minutes := int(elapsed.Minutes()) % 60
	return float64(hours) + float64(minutes*100/60)/100
}
