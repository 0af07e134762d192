package report

import (
	"encoding/json"
	"io"
	"math"
	"time"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/ozradio/repeater-atlas/internal/model"
)

// sourceLabel identifies the dataset in the feature collection.
const sourceLabel = "repeater-atlas"

// featureCollection wraps the feature list with collection-level metadata:
// the generation timestamp and the fixed source label.
type featureCollection struct {
	Type      string             `json:"type"`
	Generated string             `json:"generated"`
	Source    string             `json:"source"`
	Features  []*geojson.Feature `json:"features"`
}

// WriteGeoJSON writes a feature collection with one point feature per record
// with known coordinates. The generated timestamp is passed in so repeated
// serializations of the same collection are byte-identical.
func WriteGeoJSON(w io.Writer, records []model.StationRecord, generated time.Time) error {
	fc := featureCollection{
		Type:      "FeatureCollection",
		Generated: generated.UTC().Format(time.RFC3339),
		Source:    sourceLabel,
		Features:  []*geojson.Feature{},
	}

	for _, rec := range records {
		if !rec.HasCoordinates() {
			continue
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       rec.Callsign,
			Geometry: geom.NewPointFlat(geom.XY, []float64{*rec.Longitude, *rec.Latitude}),
			Properties: map[string]any{
				"callsign":       rec.Callsign,
				"info":           rec.Info,
				"network_id":     rec.NetworkID,
				"licensee":       rec.Licensee,
				"location":       rec.Location,
				"tx_mhz":         round4(rec.TxMHz),
				"rx_mhz":         round4(rec.RxMHz),
				"offset_mhz":     round4(rec.OffsetMHz),
				"latitude":       *rec.Latitude,
				"longitude":      *rec.Longitude,
				"licence_number": rec.LicenceNumber,
				"site_id":        rec.SiteID,
			},
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fc); err != nil {
		return eris.Wrap(err, "report: marshal geojson")
	}
	return nil
}

// round4 rounds an optional value to 4 decimal places, passing absence
// through as a JSON null.
func round4(v *float64) any {
	if v == nil {
		return nil
	}
	return math.Round(*v*1e4) / 1e4
}
