package register

import (
	"context"
	"regexp"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ozradio/repeater-atlas/internal/extract"
	"github.com/ozradio/repeater-atlas/internal/model"
)

var (
	// The coordinate pair is captured by a single pattern: a page that lost
	// one half of "Lat,Long" yields no coordinates at all rather than a
	// half-filled position.
	latLongRe = regexp.MustCompile(`(?is)Lat\s*,\s*Long[^<]*</t[dh]>\s*<td[^>]*>\s*(-?\d+\.\d+)\s*,\s*(-?\d+\.\d+)`)

	locationRe = regexp.MustCompile(`(?is)Site\s+Location[^<]*</t[dh]>\s*<td[^>]*>(.*?)</td>`)
)

// Site fetches the site-detail page for a numeric site id and extracts the
// decimal-degree coordinate pair and the free-text location. Site ids come
// straight from licence pages and are assumed precise, so there is no
// fallback search step.
func (c *Client) Site(ctx context.Context, siteID string) (*model.SiteDetail, error) {
	body, err := c.fetcher.Get(ctx, c.siteURL(siteID))
	if err != nil {
		return nil, eris.Wrapf(err, "register: fetch site %s", siteID)
	}

	detail := &model.SiteDetail{}

	if m, ok := extract.First(body, latLongRe); ok {
		lat, errLat := strconv.ParseFloat(m[0], 64)
		lon, errLon := strconv.ParseFloat(m[1], 64)
		if errLat == nil && errLon == nil {
			detail.Latitude = &lat
			detail.Longitude = &lon
		}
	}
	if m, ok := extract.First(body, locationRe); ok {
		detail.Location = extract.Clean(m[0])
	}

	zap.L().Debug("site resolved",
		zap.String("site_id", siteID),
		zap.Bool("coordinates", detail.HasCoordinates()),
		zap.String("location", detail.Location),
	)
	return detail, nil
}
