// Package report serializes the final station record collection as KML,
// CSV, and GeoJSON. Every serializer is a pure function of the record slice;
// given the same records and timestamp the outputs are byte-identical.
package report

import (
	"fmt"
	"strconv"
)

// fmtMHz renders an optional frequency at 4 decimal places, empty when
// absent.
func fmtMHz(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.4f", *v)
}

// fmtOffset renders an optional duplex offset at 3 decimal places with an
// explicit sign, empty when absent.
func fmtOffset(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%+.3f", *v)
}

// fmtCoord renders an optional coordinate without padding or truncation,
// empty when absent.
func fmtCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
