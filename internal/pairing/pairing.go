// Package pairing reduces the frequency assignments of one licence to the
// single transmit/receive pair representing the station's operating channel.
package pairing

import (
	"math"

	"github.com/ozradio/repeater-atlas/internal/model"
)

// tier is one rung of the selection policy: a band window and an optional
// duplex-offset constraint.
type tier struct {
	low, high float64
	offset    float64
	tolerance float64
	hasOffset bool
}

// Licences carry assignments for every service on the licence, not just the
// repeater channel, so band-aware tiers run before the blind fallback. The
// 70cm band gets two rungs: the standard 5 MHz split first, then any in-band
// pair.
var tiers = []tier{
	{low: 430, high: 450, offset: 5.0, tolerance: 0.1, hasOffset: true},
	{low: 430, high: 450},
	{low: 144, high: 148, offset: 0.6, tolerance: 0.05, hasOffset: true},
}

// Select picks the transmit/receive pair for a station. Candidates are
// scanned in assignment order, transmit-major, and the first pair satisfying
// a tier wins; tiers are tried strictly in order. When no tier applies and
// either candidate list is empty, both sides of the result are nil.
func Select(assignments []model.FrequencyAssignment) model.FrequencyPair {
	var tx, rx []float64
	for _, a := range assignments {
		switch a.Direction {
		case model.Transmit:
			tx = append(tx, a.MHz)
		case model.Receive:
			rx = append(rx, a.MHz)
		}
	}

	for _, t := range tiers {
		for _, f := range tx {
			for _, g := range rx {
				if f < t.low || f > t.high || g < t.low || g > t.high {
					continue
				}
				if t.hasOffset && math.Abs(math.Abs(f-g)-t.offset) > t.tolerance {
					continue
				}
				return pair(f, g)
			}
		}
	}

	// Last resort: first transmit with first receive, any band. Known to be
	// wrong for licences carrying multiple unrelated services, but better
	// than dropping the station.
	if len(tx) > 0 && len(rx) > 0 {
		return pair(tx[0], rx[0])
	}
	return model.FrequencyPair{}
}

func pair(tx, rx float64) model.FrequencyPair {
	return model.FrequencyPair{TxMHz: &tx, RxMHz: &rx}
}
