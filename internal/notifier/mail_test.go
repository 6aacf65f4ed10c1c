package notifier

import (
	"strings"
	"testing"
	"time"

	"github.com/soccarena/slotwatch/internal/slot"
)

var testCapacities = map[int]int{1: 10, 2: 10, 3: 8, 4: 10, 5: 8}

func TestRenderHTMLSingular(t *testing.T) {
	records := []*slot.Record{
		{
			ID:    "https://x/book?court=3&datum=2024-06-07&startZeit=18%3A00&endZeit=19%3A00",
			Court: 3,
			Date:  "2024-06-07",
			Start: "18:00",
			End:   "19:00",
		},
	}

	body := renderHTML(records, testCapacities)

	for _, want := range []string{
		"I found a slot:",
		"Court: 3 (8 people)",
		"18:00 - 19:00",
		"Friday, 07 Jun 2024",
		"<a href='https://x/book?court=3&datum=2024-06-07&startZeit=18%3A00&endZeit=19%3A00'>Click here to book</a>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q\nbody: %s", want, body)
		}
	}

	if strings.Contains(body, "slots:") {
		t.Error("single record should use singular phrasing")
	}
}

func TestRenderHTMLPluralWithCount(t *testing.T) {
	records := []*slot.Record{
		{ID: "a", Court: 1, Date: "2024-06-07", Start: "18:00", End: "19:00"},
		{ID: "b", Court: 2, Date: "2024-06-08", Start: "10:00", End: "11:00"},
		{ID: "c", Court: 5, Date: "2024-06-09", Start: "12:00", End: "13:00"},
	}

	body := renderHTML(records, testCapacities)

	if !strings.Contains(body, "I found 3 slots:") {
		t.Errorf("expected plural phrasing with count, got: %s", body)
	}
}

func TestRenderHTMLSortsByDate(t *testing.T) {
	records := []*slot.Record{
		{ID: "sun", Court: 1, Date: "2024-06-09", Start: "10:00", End: "11:00"},
		{ID: "fri", Court: 2, Date: "2024-06-07", Start: "10:00", End: "11:00"},
		{ID: "sat", Court: 3, Date: "2024-06-08", Start: "10:00", End: "11:00"},
	}

	body := renderHTML(records, testCapacities)

	fri := strings.Index(body, "href='fri'")
	sat := strings.Index(body, "href='sat'")
	sun := strings.Index(body, "href='sun'")
	if fri < 0 || sat < 0 || sun < 0 {
		t.Fatalf("missing links in body: %s", body)
	}
	if !(fri < sat && sat < sun) {
		t.Errorf("slots not in ascending date order: fri=%d sat=%d sun=%d", fri, sat, sun)
	}

	// Input order must be untouched.
	if records[0].ID != "sun" {
		t.Error("renderHTML must not reorder the caller's slice")
	}
}

func TestRenderHTMLUnknownCourt(t *testing.T) {
	records := []*slot.Record{
		{ID: "x", Court: 9, Date: "2024-06-07", Start: "10:00", End: "11:00"},
	}

	body := renderHTML(records, testCapacities)

	if !strings.Contains(body, "Court: 9<br />") {
		t.Errorf("unknown court should render without capacity: %s", body)
	}
	if strings.Contains(body, "people") {
		t.Errorf("unknown court should omit the capacity suffix: %s", body)
	}
}

func TestSubject(t *testing.T) {
	now := time.Date(2024, 6, 7, 18, 30, 0, 0, time.UTC)
	if got := subject(now); got != "Soccarena Update: 07 Jun 2024 18:30" {
		t.Errorf("subject = %q", got)
	}
}

func TestDryRunNotifierEmpty(t *testing.T) {
	n := NewDryRunNotifier(testCapacities)
	if err := n.Notify(nil); err != nil {
		t.Errorf("Notify(nil) error = %v", err)
	}
}
