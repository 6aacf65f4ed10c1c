// Package scraper fetches booking-calendar day pages and extracts the
// hyperlinks that advertise an open slot. It knows nothing about the link
// format beyond the CSS selector and availability marker it is given;
// turning links into slot records is the slot package's job.
package scraper
