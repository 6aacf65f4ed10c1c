package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// DefaultSelector matches the booking links inside the calendar grid.
	DefaultSelector = "td > a"
	// DefaultMarker is the anchor text that marks a slot as available.
	DefaultMarker = "frei"

	UserAgent = "slotwatch/1.0 (github.com/soccarena/slotwatch)"
	Timeout   = 30 * time.Second
)

// Scraper fetches calendar day pages and extracts booking links
type Scraper struct {
	client   *http.Client
	selector string
	marker   string
}

// New creates a Scraper. Empty selector or marker fall back to the
// reference deployment's values.
func New(selector, marker string, timeout time.Duration) *Scraper {
	if selector == "" {
		selector = DefaultSelector
	}
	if marker == "" {
		marker = DefaultMarker
	}
	if timeout <= 0 {
		timeout = Timeout
	}
	return &Scraper{
		client:   &http.Client{Timeout: timeout},
		selector: selector,
		marker:   marker,
	}
}

// FetchSlotLinks fetches the page at url and returns the href of every
// anchor matching the selector whose text contains the availability marker.
func (s *Scraper) FetchSlotLinks(ctx context.Context, url string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return s.extractLinks(resp.Body)
}

// extractLinks pulls matching hrefs out of HTML
func (s *Scraper) extractLinks(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	links := make([]string, 0)
	doc.Find(s.selector).Each(func(i int, sel *goquery.Selection) {
		if !strings.Contains(sel.Text(), s.marker) {
			return
		}
		if href, ok := sel.Attr("href"); ok && href != "" {
			links = append(links, href)
		}
	})

	return links, nil
}
