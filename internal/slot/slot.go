package slot

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrBadLink indicates a scraped link does not match the booking-URL shape.
var ErrBadLink = errors.New("link does not match booking pattern")

// Record represents one bookable time window discovered on the facility's
// calendar. The booking URL doubles as the record identity: two scrapes
// producing the same URL are the same slot.
type Record struct {
	ID        string    `json:"id"`
	Court     int       `json:"court"`
	Date      string    `json:"date"`  // YYYY-MM-DD
	Start     string    `json:"start"` // HH:MM
	End       string    `json:"end"`   // HH:MM
	FirstSeen time.Time `json:"first_seen,omitempty"`
}

// linkPattern matches booking links of the form
// https://host/path?court=3&datum=2024-06-07&startZeit=18%3A00&endZeit=19%3A00.
// The time separator may arrive percent-encoded.
var linkPattern = regexp.MustCompile(
	`^https?://.+?court=(?P<court>[0-9])&datum=(?P<date>[0-9\-]+)&startZeit=(?P<start>\d\d(?:%3A|:)\d\d)&endZeit=(?P<end>\d\d(?:%3A|:)\d\d)`)

// ParseLink converts a scraped booking link into a Record. The original
// link string becomes the record ID verbatim. Links that do not match the
// expected pattern return an error wrapping ErrBadLink.
func ParseLink(raw string) (*Record, error) {
	m := linkPattern.FindStringSubmatch(raw)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrBadLink, raw)
	}

	fields := make(map[string]string, 4)
	for i, name := range linkPattern.SubexpNames() {
		if name != "" {
			fields[name] = m[i]
		}
	}

	court, err := strconv.Atoi(fields["court"])
	if err != nil {
		return nil, fmt.Errorf("%w: court %q: %v", ErrBadLink, fields["court"], err)
	}

	return &Record{
		ID:    raw,
		Court: court,
		Date:  fields["date"],
		Start: decodeTime(fields["start"]),
		End:   decodeTime(fields["end"]),
	}, nil
}

// decodeTime turns "18%3A00" into "18:00". Already-decoded times pass
// through unchanged.
func decodeTime(s string) string {
	return strings.ReplaceAll(s, "%3A", ":")
}

// SortByDate sorts records ascending by calendar date. The sort is stable:
// records sharing a date keep their original relative order.
func SortByDate(records []*Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date < records[j].Date
	})
}
