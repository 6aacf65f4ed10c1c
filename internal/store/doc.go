// Package store provides the durable, append-only collection of every slot
// this watcher has ever seen. Novelty detection works across process
// restarts, so the store lives in a SQLite database on disk. Records are
// never updated or deleted here; pruning is a manual affair.
package store
