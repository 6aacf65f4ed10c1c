// Package cli implements the command-line interface for slotwatch.
//
// The cli package provides the Cobra-based entrypoint that wires the
// config, store, scraper, notifier and pipeline packages together and
// hands control to the scheduler, either for a single check (--once) or
// for the unattended watch loop.
package cli
