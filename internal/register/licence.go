package register

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ozradio/repeater-atlas/internal/extract"
	"github.com/ozradio/repeater-atlas/internal/model"
)

// detailMarker distinguishes a licence-detail page from a search-result page.
// An exact-match callsign search sometimes lands directly on the detail page
// and sometimes on a result list with a link to it; both shapes are handled.
const detailMarker = "Licence Details"

var (
	detailLinkRe = regexp.MustCompile(`(?i)licence_lookup[^"']*?pLICENCE_ID=(\d+)`)

	licenceNoRe = regexp.MustCompile(`(?is)Licence\s+(?:No|Number)\.?[^0-9]{0,80}?(\d{6,})`)
	licenseeRe  = regexp.MustCompile(`(?is)<a[^>]*client_lookup[^>]*>(.*?)</a>`)
	siteLinkRe  = regexp.MustCompile(`(?is)<a[^>]*site_lookup[^"']*?pSITE_ID=(\d+)[^>]*>(.*?)</a>`)

	// Frequency rows are located first, then value+unit and direction are
	// extracted independently inside each row so a drifted column does not
	// take the other field down with it.
	tableRowRe = regexp.MustCompile(`(?is)<tr[^>]*>(.*?)</tr>`)
	freqRe     = regexp.MustCompile(`(?i)([0-9]+(?:\.[0-9]+)?)\s*(kHz|MHz|GHz)`)
	dirRe      = regexp.MustCompile(`(?i)\b(Transmitter|Receiver)\b`)
)

// Lookup resolves a callsign to a licence record. The returned record has
// Found=false when the register has no licence for the callsign; that is a
// valid outcome, not an error. Errors are reserved for transport failures.
func (c *Client) Lookup(ctx context.Context, callsign string) (*model.LicenceRecord, error) {
	log := zap.L().With(zap.String("callsign", callsign))

	form := url.Values{
		"SEARCH_TYPE": {"Licences"},
		"SUB_TYPE":    {"Callsign"},
		"MATCH_TYPE":  {"matches"},
		"SEARCH_TEXT": {callsign},
	}
	body, err := c.fetcher.PostForm(ctx, c.ep.SearchURL, form)
	if err != nil {
		return nil, eris.Wrapf(err, "register: search for %s", callsign)
	}

	// Two-branch state machine: the search response is either already the
	// detail page, or a result list carrying a link to it.
	if !containsMarker(body) {
		link, ok := extract.First(body, detailLinkRe)
		if !ok {
			log.Debug("no licence found in register")
			return &model.LicenceRecord{}, nil
		}

		body, err = c.fetcher.Get(ctx, c.licenceURL(link[0]))
		if err != nil {
			return nil, eris.Wrapf(err, "register: follow licence link for %s", callsign)
		}
		if !containsMarker(body) {
			log.Debug("licence link did not resolve to a detail page")
			return &model.LicenceRecord{}, nil
		}
	}

	rec := &model.LicenceRecord{Found: true}

	if m, ok := extract.First(body, licenceNoRe); ok {
		rec.LicenceNumber = m[0]
	}
	if m, ok := extract.First(body, licenseeRe); ok {
		rec.Licensee = extract.Clean(m[0])
	}
	if m, ok := extract.First(body, siteLinkRe); ok {
		rec.SiteID = m[0]
		rec.SiteName = extract.Clean(m[1])
	}
	rec.Assignments = parseAssignments(body)

	log.Debug("licence resolved",
		zap.String("licence", rec.LicenceNumber),
		zap.String("site_id", rec.SiteID),
		zap.Int("assignments", len(rec.Assignments)),
	)
	return rec, nil
}

func containsMarker(body string) bool {
	return strings.Contains(body, detailMarker)
}

// parseAssignments pulls every frequency-assignment row from a detail page
// body, normalizing values to megahertz.
func parseAssignments(body string) []model.FrequencyAssignment {
	var out []model.FrequencyAssignment
	for _, row := range extract.All(body, tableRowRe) {
		fm, ok := extract.First(row[0], freqRe)
		if !ok {
			continue
		}
		dm, ok := extract.First(row[0], dirRe)
		if !ok {
			continue
		}

		value, err := strconv.ParseFloat(fm[0], 64)
		if err != nil {
			continue
		}
		mhz, ok := toMHz(value, fm[1])
		if !ok {
			continue
		}

		dir := model.Transmit
		if strings.EqualFold(dm[0], "Receiver") {
			dir = model.Receive
		}
		out = append(out, model.FrequencyAssignment{MHz: mhz, Direction: dir})
	}
	return out
}

// toMHz normalizes a frequency value to megahertz.
func toMHz(value float64, unit string) (float64, bool) {
	switch {
	case strings.EqualFold(unit, "kHz"):
		return value / 1000, true
	case strings.EqualFold(unit, "MHz"):
		return value, true
	case strings.EqualFold(unit, "GHz"):
		return value * 1000, true
	}
	return 0, false
}
