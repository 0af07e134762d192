package report

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/ozradio/repeater-atlas/internal/model"
)

const kmlNamespace = "http://www.opengis.net/kml/2.2"

type kmlFile struct {
	XMLName  xml.Name    `xml:"kml"`
	Xmlns    string      `xml:"xmlns,attr"`
	Document kmlDocument `xml:"Document"`
}

type kmlDocument struct {
	Name       string         `xml:"name"`
	Placemarks []kmlPlacemark `xml:"Placemark"`
}

type kmlPlacemark struct {
	Name        string         `xml:"name"`
	Description kmlDescription `xml:"description"`
	Point       kmlPoint       `xml:"Point"`
}

type kmlDescription struct {
	Text string `xml:",cdata"`
}

type kmlPoint struct {
	// KML coordinate order is longitude,latitude.
	Coordinates string `xml:"coordinates"`
}

// WriteKML writes one placemark per record with known coordinates; records
// without a position are omitted.
func WriteKML(w io.Writer, records []model.StationRecord) error {
	doc := kmlDocument{Name: "Repeater Atlas"}
	for _, rec := range records {
		if !rec.HasCoordinates() {
			continue
		}
		doc.Placemarks = append(doc.Placemarks, kmlPlacemark{
			Name:        rec.Callsign,
			Description: kmlDescription{Text: describe(rec)},
			Point: kmlPoint{
				Coordinates: fmt.Sprintf("%s,%s", fmtCoord(rec.Longitude), fmtCoord(rec.Latitude)),
			},
		})
	}

	data, err := xml.MarshalIndent(kmlFile{Xmlns: kmlNamespace, Document: doc}, "", "  ")
	if err != nil {
		return eris.Wrap(err, "report: marshal kml")
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return eris.Wrap(err, "report: write kml header")
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return eris.Wrap(err, "report: write kml")
	}
	return nil
}

// describe assembles the placemark's rich-text description. Absent fields
// render as empty values; the line set is fixed.
func describe(rec model.StationRecord) string {
	var b strings.Builder
	line := func(label, value string) {
		fmt.Fprintf(&b, "<b>%s:</b> %s<br/>", label, value)
	}

	line("Callsign", rec.Callsign)
	line("Info", rec.Info)
	line("Network ID", rec.NetworkID)
	line("Licensee", rec.Licensee)
	line("Location", rec.Location)
	line("TX", fmtMHz(rec.TxMHz)+" MHz")
	line("RX", fmtMHz(rec.RxMHz)+" MHz")
	line("Offset", fmtOffset(rec.OffsetMHz)+" MHz")
	line("Licence", rec.LicenceNumber)
	line("Lat,Long", fmtCoord(rec.Latitude)+","+fmtCoord(rec.Longitude))
	return b.String()
}
