package notifier

import (
	"github.com/soccarena/slotwatch/internal/slot"
)

// Notifier defines the interface for dispatching new-slot notifications
type Notifier interface {
	// Notify sends a notification for the given slots
	Notify(records []*slot.Record) error
}
