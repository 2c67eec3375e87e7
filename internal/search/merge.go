package search

import (
	"sync/atomic"

	"github.com/idilsaglam/storelocator/internal/model"
)

// Merge combines the name-match and item-match result sets into one map.
//
// StoreNameMatched follows the service's historical tagging: name matches are
// written first and item matches second, so a store found by both queries ends
// up tagged false. Provenance keeps both flags so nothing is lost.
func Merge(byName, byItem model.StoreMap) model.StoreMap {
	out := make(model.StoreMap, len(byName)+len(byItem))
	for id, s := range byName {
		s.StoreNameMatched = true
		s.Provenance = model.Provenance{ByName: true}
		out[id] = s
	}
	for id, s := range byItem {
		prev, seen := out[id]
		s.StoreNameMatched = false
		s.Provenance = model.Provenance{ByName: seen && prev.Provenance.ByName, ByItem: true}
		out[id] = s
	}
	return out
}

// Sequencer provides monotonically increasing request sequence numbers.
type Sequencer struct{ n atomic.Uint64 }

// Next returns the next sequence number.
func (s *Sequencer) Next() uint64 { return s.n.Add(1) }

// Current returns the last issued number, 0 before the first call to Next.
func (s *Sequencer) Current() uint64 { return s.n.Load() }
