// Package model defines the record types flowing through the repeater
// aggregation pipeline, from raw directory listings to the final merged
// station records consumed by the output serializers.
package model

// Direction tags a frequency assignment as transmit or receive.
type Direction string

const (
	Transmit Direction = "transmit"
	Receive  Direction = "receive"
)

// StationListing is one row of the network status page: a repeater callsign,
// its free-text info column, and the numeric network identifier. Listings are
// immutable once parsed.
type StationListing struct {
	Callsign  string `json:"callsign"`
	Info      string `json:"info"`
	NetworkID string `json:"network_id"`
}

// FrequencyAssignment is a single frequency from a licence record, normalized
// to megahertz. Assignments only live for the duration of one licence lookup;
// the pair selector consumes them immediately.
type FrequencyAssignment struct {
	MHz       float64   `json:"mhz"`
	Direction Direction `json:"direction"`
}

// LicenceRecord holds whatever could be extracted from a register
// licence-detail page. Every field is optional: a failed extraction leaves
// the zero value, which is a valid terminal state, not an error.
//
// Found distinguishes "the register has no licence for this callsign" from a
// transport failure (which surfaces as an error from the resolver instead).
type LicenceRecord struct {
	Found         bool                  `json:"found"`
	LicenceNumber string                `json:"licence_number,omitempty"`
	Licensee      string                `json:"licensee,omitempty"`
	SiteID        string                `json:"site_id,omitempty"`
	SiteName      string                `json:"site_name,omitempty"`
	Assignments   []FrequencyAssignment `json:"assignments,omitempty"`
}

// SiteDetail holds the coordinates and location text of one register site.
// Latitude and Longitude are set together or not at all.
type SiteDetail struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Location  string   `json:"location,omitempty"`
}

// HasCoordinates reports whether the site resolved to a usable position.
func (s *SiteDetail) HasCoordinates() bool {
	return s != nil && s.Latitude != nil && s.Longitude != nil
}

// FrequencyPair is the selector's output: the single transmit/receive pair
// chosen to represent a station's operating channel. Either side may be nil
// when no candidate qualified.
type FrequencyPair struct {
	TxMHz *float64 `json:"tx_mhz,omitempty"`
	RxMHz *float64 `json:"rx_mhz,omitempty"`
}

// StationRecord is the terminal merged entity: listing fields, flattened
// licence fields, the selected frequency pair, and site coordinates. Exactly
// one record exists per directory listing, regardless of how many lookups
// failed; absent fields stay at their zero value. Records are never mutated
// after the orchestrator creates them.
type StationRecord struct {
	Callsign      string   `json:"callsign"`
	Info          string   `json:"info"`
	NetworkID     string   `json:"network_id"`
	Licensee      string   `json:"licensee,omitempty"`
	Location      string   `json:"location,omitempty"`
	LicenceNumber string   `json:"licence_number,omitempty"`
	SiteID        string   `json:"site_id,omitempty"`
	TxMHz         *float64 `json:"tx_mhz,omitempty"`
	RxMHz         *float64 `json:"rx_mhz,omitempty"`
	OffsetMHz     *float64 `json:"offset_mhz,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
}

// HasCoordinates reports whether the record carries a site position. KML and
// GeoJSON output only include records for which this is true.
func (r *StationRecord) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}
