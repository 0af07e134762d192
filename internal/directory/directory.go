// Package directory parses the network status page into the candidate
// station list.
package directory

import (
	"context"
	"regexp"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ozradio/repeater-atlas/internal/extract"
	"github.com/ozradio/repeater-atlas/internal/model"
)

// rowRe matches one station row of the status table: sequence number,
// callsign (2-3 letter prefix, digit, 2-4 letter suffix), free-text info,
// numeric network id. Attribute and whitespace variations are tolerated; a
// changed column order is an upstream format break and matches nothing.
var rowRe = regexp.MustCompile(`(?is)<tr[^>]*>\s*` +
	`<td[^>]*>\s*(\d+)\s*</td>\s*` +
	`<td[^>]*>\s*([A-Za-z]{2,3}\d[A-Za-z]{2,4})\s*</td>\s*` +
	`<td[^>]*>(.*?)</td>\s*` +
	`<td[^>]*>\s*(\d+)\s*</td>`)

// Parse extracts the station list from the raw status page body. Duplicate
// callsigns collapse to the first occurrence, insertion order preserved.
// A page with zero matching rows is a fatal format-break signal: no partial
// result would be meaningful.
func Parse(body string) ([]model.StationListing, error) {
	rows := extract.All(body, rowRe)
	if len(rows) == 0 {
		return nil, eris.New("directory: no station rows matched, status page format may have changed")
	}

	seen := make(map[string]bool, len(rows))
	listings := make([]model.StationListing, 0, len(rows))
	for _, row := range rows {
		callsign := extract.Clean(row[1])
		if seen[callsign] {
			continue
		}
		seen[callsign] = true
		listings = append(listings, model.StationListing{
			Callsign:  callsign,
			Info:      extract.Clean(row[2]),
			NetworkID: extract.Clean(row[3]),
		})
	}
	return listings, nil
}

// Fetcher fetches a page body by URL.
type Fetcher interface {
	Get(ctx context.Context, url string) (string, error)
}

// Source fetches and parses the status page.
type Source struct {
	fetcher Fetcher
	url     string
}

// NewSource creates a directory source for the given status page URL.
func NewSource(f Fetcher, url string) *Source {
	return &Source{fetcher: f, url: url}
}

// Fetch downloads the status page and returns the parsed station list. Any
// failure here is fatal to the run: without the directory there is nothing
// to process.
func (s *Source) Fetch(ctx context.Context) ([]model.StationListing, error) {
	body, err := s.fetcher.Get(ctx, s.url)
	if err != nil {
		return nil, eris.Wrap(err, "directory: fetch status page")
	}

	listings, err := Parse(body)
	if err != nil {
		return nil, err
	}

	zap.L().Info("parsed station directory",
		zap.String("url", s.url),
		zap.Int("stations", len(listings)),
	)
	return listings, nil
}
