package slot

import "time"

// DateLayout is the calendar-date format used by the booking site.
const DateLayout = "2006-01-02"

// NextWeekday returns the next occurrence of wd strictly after from. When
// from already falls on wd the result is a full week later, never the same
// day: a slot for today is not worth booking by the time the mail arrives.
func NextWeekday(from time.Time, wd time.Weekday) time.Time {
	days := (int(wd) - int(from.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return from.AddDate(0, 0, days)
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// HumanDate renders a stored YYYY-MM-DD date for mail bodies, e.g.
// "Friday, 07 Jun 2024". Unparseable dates fall back to the raw string.
func HumanDate(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Monday, 02 Jan 2006")
}
