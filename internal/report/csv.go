package report

import (
	"io"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/ozradio/repeater-atlas/internal/model"
)

// csvRow is the fixed tabular schema. Numeric fields are pre-formatted
// strings so absent values serialize as empty cells rather than zeros.
type csvRow struct {
	Callsign      string `csv:"callsign"`
	Info          string `csv:"info"`
	NetworkID     string `csv:"network_id"`
	Licensee      string `csv:"licensee"`
	Location      string `csv:"location"`
	TxMHz         string `csv:"tx_mhz"`
	RxMHz         string `csv:"rx_mhz"`
	OffsetMHz     string `csv:"offset_mhz"`
	Latitude      string `csv:"latitude"`
	Longitude     string `csv:"longitude"`
	LicenceNumber string `csv:"licence_number"`
	SiteID        string `csv:"site_id"`
}

// WriteCSV writes one row per record, including records without coordinates.
func WriteCSV(w io.Writer, records []model.StationRecord) error {
	rows := make([]csvRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, csvRow{
			Callsign:      rec.Callsign,
			Info:          rec.Info,
			NetworkID:     rec.NetworkID,
			Licensee:      rec.Licensee,
			Location:      rec.Location,
			TxMHz:         fmtMHz(rec.TxMHz),
			RxMHz:         fmtMHz(rec.RxMHz),
			OffsetMHz:     fmtOffset(rec.OffsetMHz),
			Latitude:      fmtCoord(rec.Latitude),
			Longitude:     fmtCoord(rec.Longitude),
			LicenceNumber: rec.LicenceNumber,
			SiteID:        rec.SiteID,
		})
	}

	data, err := csvutil.Marshal(rows)
	if err != nil {
		return eris.Wrap(err, "report: marshal csv")
	}
	if _, err := w.Write(data); err != nil {
		return eris.Wrap(err, "report: write csv")
	}
	return nil
}
