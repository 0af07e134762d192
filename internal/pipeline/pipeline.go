// Package pipeline sequences the directory fetch, licence lookups, pair
// selection, and site lookups into the final station record collection.
package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ozradio/repeater-atlas/internal/model"
	"github.com/ozradio/repeater-atlas/internal/pairing"
)

// DirectorySource yields the candidate station list. A failure here is fatal
// to the whole run.
type DirectorySource interface {
	Fetch(ctx context.Context) ([]model.StationListing, error)
}

// LicenceResolver resolves a callsign to a licence record. An error is a
// transport or parse fault; "not in the register" is a Found=false record.
type LicenceResolver interface {
	Lookup(ctx context.Context, callsign string) (*model.LicenceRecord, error)
}

// SiteResolver resolves a register site id to coordinates and location text.
type SiteResolver interface {
	Site(ctx context.Context, siteID string) (*model.SiteDetail, error)
}

// Pipeline merges the three sources into one StationRecord per listing.
type Pipeline struct {
	directory DirectorySource
	licences  LicenceResolver
	sites     SiteResolver
}

// New creates a pipeline over the given sources.
func New(directory DirectorySource, licences LicenceResolver, sites SiteResolver) *Pipeline {
	return &Pipeline{directory: directory, licences: licences, sites: sites}
}

// Run processes every directory listing in order, strictly sequentially, and
// returns one record per listing. Lookup faults are isolated per station:
// the affected record keeps its listing fields and everything else stays
// absent. Only a directory failure aborts the run.
func (p *Pipeline) Run(ctx context.Context) ([]model.StationRecord, error) {
	listings, err := p.directory.Fetch(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: station directory")
	}

	records := make([]model.StationRecord, 0, len(listings))
	for _, listing := range listings {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "pipeline: run aborted")
		}
		records = append(records, p.process(ctx, listing))
	}

	zap.L().Info("pipeline complete", zap.Int("stations", len(records)))
	return records, nil
}

// process resolves one station. It always returns a record; sub-resolver
// faults are downgraded to absent fields here and never propagate.
func (p *Pipeline) process(ctx context.Context, listing model.StationListing) model.StationRecord {
	log := zap.L().With(zap.String("callsign", listing.Callsign))

	rec := model.StationRecord{
		Callsign:  listing.Callsign,
		Info:      listing.Info,
		NetworkID: listing.NetworkID,
	}

	licence, err := p.licences.Lookup(ctx, listing.Callsign)
	if err != nil {
		log.Warn("licence lookup failed", zap.Error(err))
		return rec
	}
	if !licence.Found {
		log.Info("station not found in register")
		return rec
	}

	rec.LicenceNumber = licence.LicenceNumber
	rec.Licensee = licence.Licensee
	rec.SiteID = licence.SiteID
	rec.Location = licence.SiteName

	freq := pairing.Select(licence.Assignments)
	rec.TxMHz = freq.TxMHz
	rec.RxMHz = freq.RxMHz
	if freq.TxMHz != nil && freq.RxMHz != nil {
		offset := *freq.TxMHz - *freq.RxMHz
		rec.OffsetMHz = &offset
	}

	if licence.SiteID != "" {
		site, err := p.sites.Site(ctx, licence.SiteID)
		if err != nil {
			log.Warn("site lookup failed", zap.String("site_id", licence.SiteID), zap.Error(err))
		} else {
			rec.Latitude = site.Latitude
			rec.Longitude = site.Longitude
			if site.Location != "" {
				rec.Location = site.Location
			}
		}
	}

	log.Info("station resolved",
		zap.String("licence", rec.LicenceNumber),
		zap.Bool("coordinates", rec.HasCoordinates()),
		zap.Bool("frequencies", rec.TxMHz != nil && rec.RxMHz != nil),
	)
	return rec
}
