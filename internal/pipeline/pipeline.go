package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/soccarena/slotwatch/internal/logger"
	"github.com/soccarena/slotwatch/internal/notifier"
	"github.com/soccarena/slotwatch/internal/slot"
)

// Fetcher retrieves a day page and returns the booking links found on it.
type Fetcher interface {
	FetchSlotLinks(ctx context.Context, url string) ([]string, error)
}

// SlotStore records slots and reports whether each one was seen before.
type SlotStore interface {
	InsertIfAbsent(ctx context.Context, rec *slot.Record) (*slot.Record, error)
}

// Pipeline runs one discovery pass: compute target dates, fetch the day
// pages, parse the links, record the slots and notify about the new ones.
type Pipeline struct {
	fetcher  Fetcher
	store    SlotStore
	notifier notifier.Notifier
	log      *logger.Logger

	baseURL  string
	weekdays []time.Weekday

	// now is swapped out in tests
	now func() time.Time
}

// New creates a Pipeline watching baseURL for the given weekdays.
func New(fetcher Fetcher, store SlotStore, n notifier.Notifier, log *logger.Logger, baseURL string, weekdays []time.Weekday) *Pipeline {
	return &Pipeline{
		fetcher:  fetcher,
		store:    store,
		notifier: n,
		log:      log,
		baseURL:  baseURL,
		weekdays: weekdays,
		now:      time.Now,
	}
}

// Run executes one discovery pass and returns the slots that were new to
// the store. A failed fetch fails the whole run before anything is
// recorded; the next tick retries naturally. A failed notification is
// logged but does not fail the run, since the slots are already recorded.
func (p *Pipeline) Run(ctx context.Context) ([]*slot.Record, error) {
	runID := uuid.NewString()
	started := p.now()

	urls := p.targetURLs(started)
	p.log.Info("checking for empty slots", logger.Fields{
		"run_id": runID,
		"urls":   urls,
	})

	links, err := p.fetchAll(ctx, urls)
	if err != nil {
		return nil, fmt.Errorf("fetching day pages: %w", err)
	}
	logger.AddCounter("links.scraped", int64(len(links)))

	records := p.parseAll(runID, links)

	newSlots, err := p.insertAll(ctx, records)
	if err != nil {
		return nil, err
	}
	logger.AddCounter("slots.new", int64(len(newSlots)))
	logger.RecordTiming("pipeline.run", time.Since(started))

	if len(newSlots) == 0 {
		p.log.Info("no new slots found", logger.Fields{"run_id": runID})
		return newSlots, nil
	}

	p.log.Info("new slots found", logger.Fields{
		"run_id": runID,
		"count":  len(newSlots),
	})

	if err := p.notifier.Notify(newSlots); err != nil {
		// The slots are recorded either way; this notification is lost.
		p.log.Error("notification failed", logger.Fields{
			"run_id": runID,
			"count":  len(newSlots),
		}, err)
	}

	return newSlots, nil
}

// targetURLs builds one day-page URL per configured weekday, each for the
// next occurrence strictly after now.
func (p *Pipeline) targetURLs(now time.Time) []string {
	urls := make([]string, 0, len(p.weekdays))
	for _, wd := range p.weekdays {
		date := slot.NextWeekday(now, wd)
		urls = append(urls, p.baseURL+slot.FormatDate(date))
	}
	return urls
}

// fetchAll fetches every URL concurrently and waits for all of them. The
// first failure cancels the remaining fetches and fails the batch.
func (p *Pipeline) fetchAll(ctx context.Context, urls []string) ([]string, error) {
	g, ctx := errgroup.WithContext(ctx)

	perURL := make([][]string, len(urls))
	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			started := time.Now()
			links, err := p.fetcher.FetchSlotLinks(ctx, url)
			if err != nil {
				return fmt.Errorf("fetching %s: %w", url, err)
			}
			logger.RecordTiming("fetch.page", time.Since(started))
			perURL[i] = links
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var links []string
	for _, l := range perURL {
		links = append(links, l...)
	}
	return links, nil
}

// parseAll converts the scraped links to records. A malformed link means
// the page structure drifted for that cell; it is logged and skipped so it
// cannot suppress the valid slots next to it.
func (p *Pipeline) parseAll(runID string, links []string) []*slot.Record {
	records := make([]*slot.Record, 0, len(links))
	for _, link := range links {
		rec, err := slot.ParseLink(link)
		if err != nil {
			if errors.Is(err, slot.ErrBadLink) {
				logger.IncrCounter("links.malformed")
				p.log.Warn("skipping malformed link", logger.Fields{
					"run_id": runID,
					"link":   link,
				})
				continue
			}
			p.log.Error("parsing link", logger.Fields{"run_id": runID, "link": link}, err)
			continue
		}
		records = append(records, rec)
	}
	return records
}

// insertAll records every slot concurrently and returns the subset the
// store had not seen before, in input order.
func (p *Pipeline) insertAll(ctx context.Context, records []*slot.Record) ([]*slot.Record, error) {
	g, ctx := errgroup.WithContext(ctx)

	inserted := make([]*slot.Record, len(records))
	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			stored, err := p.store.InsertIfAbsent(ctx, rec)
			if err != nil {
				return fmt.Errorf("recording slot %s: %w", rec.ID, err)
			}
			inserted[i] = stored
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	newSlots := make([]*slot.Record, 0, len(inserted))
	for _, rec := range inserted {
		if rec != nil {
			newSlots = append(newSlots, rec)
		}
	}
	return newSlots, nil
}
