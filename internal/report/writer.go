package report

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ozradio/repeater-atlas/internal/model"
)

// Artifact file names inside the output directory.
const (
	KMLFile     = "atlas.kml"
	CSVFile     = "atlas.csv"
	GeoJSONFile = "atlas.geojson"
)

// Writer emits the three output artifacts into a directory.
type Writer struct {
	dir string
	now func() time.Time
}

// NewWriter creates a Writer for the given output directory. A nil clock
// defaults to time.Now; tests inject a fixed one.
func NewWriter(dir string, now func() time.Time) *Writer {
	if now == nil {
		now = time.Now
	}
	return &Writer{dir: dir, now: now}
}

// Write creates the output directory and writes the KML, CSV, and GeoJSON
// artifacts. The record collection is immutable by the time it arrives here,
// so the serializers fan out concurrently.
func (wr *Writer) Write(records []model.StationRecord) error {
	if err := os.MkdirAll(wr.dir, 0o755); err != nil {
		return eris.Wrapf(err, "report: create output dir %s", wr.dir)
	}
	generated := wr.now()

	var g errgroup.Group
	g.Go(func() error {
		return wr.writeFile(KMLFile, func(f *os.File) error {
			return WriteKML(f, records)
		})
	})
	g.Go(func() error {
		return wr.writeFile(CSVFile, func(f *os.File) error {
			return WriteCSV(f, records)
		})
	})
	g.Go(func() error {
		return wr.writeFile(GeoJSONFile, func(f *os.File) error {
			return WriteGeoJSON(f, records, generated)
		})
	})
	if err := g.Wait(); err != nil {
		return err
	}

	zap.L().Info("wrote output artifacts",
		zap.String("dir", wr.dir),
		zap.Int("records", len(records)),
	)
	return nil
}

func (wr *Writer) writeFile(name string, write func(*os.File) error) error {
	path := filepath.Join(wr.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "report: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	if err := write(f); err != nil {
		return err
	}
	return eris.Wrapf(f.Sync(), "report: sync %s", path)
}
