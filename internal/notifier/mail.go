package notifier

import (
	"fmt"
	"strings"
	"time"

	gomail "gopkg.in/gomail.v2"

	"github.com/soccarena/slotwatch/internal/slot"
)

// plainFallback is the text/plain body for clients that refuse HTML.
const plainFallback = "I found something"

// MailNotifier emails newly discovered slots via SMTP.
type MailNotifier struct {
	dialer     *gomail.Dialer
	from       string
	to         []string
	capacities map[int]int
}

// NewMailNotifier creates a notifier that dispatches through the given SMTP
// server. capacities maps court numbers to their people capacity and is
// used only for rendering.
func NewMailNotifier(host string, port int, username, password, from string, to []string, capacities map[int]int) *MailNotifier {
	return &MailNotifier{
		dialer:     gomail.NewDialer(host, port, username, password),
		from:       from,
		to:         to,
		capacities: capacities,
	}
}

// Notify renders the slots into an HTML mail and sends it.
func (n *MailNotifier) Notify(records []*slot.Record) error {
	if len(records) == 0 {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to...)
	m.SetHeader("Subject", subject(time.Now()))
	m.SetBody("text/plain", plainFallback)
	m.AddAlternative("text/html", renderHTML(records, n.capacities))

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	return nil
}

// subject builds the fixed subject line with a timestamp.
func subject(now time.Time) string {
	return "Soccarena Update: " + now.Format("02 Jan 2006 15:04")
}

// renderHTML formats the slots as the mail body. Slots are rendered in
// ascending date order; ties keep their discovery order.
func renderHTML(records []*slot.Record, capacities map[int]int) string {
	sorted := make([]*slot.Record, len(records))
	copy(sorted, records)
	slot.SortByDate(sorted)

	var b strings.Builder
	b.WriteString("<div>")

	if len(sorted) == 1 {
		b.WriteString("<p>I found a slot:</p>")
	} else {
		fmt.Fprintf(&b, "<p>I found %d slots:</p>", len(sorted))
	}

	for _, rec := range sorted {
		b.WriteString(formatSlot(rec, capacities))
	}

	b.WriteString("</div>")
	return b.String()
}

// formatSlot renders one slot as a paragraph with a booking link.
func formatSlot(rec *slot.Record, capacities map[int]int) string {
	court := fmt.Sprintf("Court: %d", rec.Court)
	if capacity, ok := capacities[rec.Court]; ok {
		court += fmt.Sprintf(" (%d people)", capacity)
	}

	return "<p>" +
		court + "<br />" +
		"Date: " + slot.HumanDate(rec.Date) + "<br />" +
		rec.Start + " - " + rec.End + "<br />" +
		"<a href='" + rec.ID + "'>Click here to book</a></p>"
}
