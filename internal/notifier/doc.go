// Package notifier turns newly discovered slots into a human-readable mail
// and dispatches it over SMTP. A dry-run implementation logs the rendered
// message instead of sending, for debugging without mail traffic.
package notifier
