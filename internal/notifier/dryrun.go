package notifier

import (
	"fmt"

	"github.com/soccarena/slotwatch/internal/slot"
)

// DryRunNotifier prints what would be mailed without touching SMTP
type DryRunNotifier struct {
	capacities map[int]int
}

// NewDryRunNotifier creates a new dry-run notifier
func NewDryRunNotifier(capacities map[int]int) *DryRunNotifier {
	return &DryRunNotifier{capacities: capacities}
}

// Notify prints the mail that would be sent
func (n *DryRunNotifier) Notify(records []*slot.Record) error {
	if len(records) == 0 {
		return nil
	}
	fmt.Printf("--- Mail (%d slots, not sent) ---\n", len(records))
	fmt.Println(renderHTML(records, n.capacities))
	return nil
}
