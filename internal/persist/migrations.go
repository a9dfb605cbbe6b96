package persist

import (
	"fmt"
	"math"
)

// CurrentVersion is the document version written by Encode.
const CurrentVersion = 3

// migration upgrades a document from Version-1 to Version.
type migration struct {
	Version int
	Name    string
	Apply   func(doc *document) error
}

var migrations = []migration{
	{Version: 2, Name: "inline_key_held", Apply: migrateV002},
	{Version: 3, Name: "pair_intervals", Apply: migrateV003},
}

// upgrade applies every pending migration in order and re-tags the
// document. Documents newer than CurrentVersion are read as current; their
// unknown fields are already dropped by the decoder.
func upgrade(doc *document) error {
	if doc.Version <= 0 {
		doc.Version = 1
	}
	for _, m := range migrations {
		if doc.Version >= m.Version {
			continue
		}
		if err := m.Apply(doc); err != nil {
			return fmt.Errorf("apply migration %d (%s): %w", m.Version, m.Name, err)
		}
		doc.Version = m.Version
	}
	doc.Version = CurrentVersion
	return nil
}

// migrateV002 moves version 1 held counts, stored as a separate key to
// count list, onto the key entries and introduces the mistake ledger.
func migrateV002(doc *document) error {
	index := make(map[int]int, len(doc.Keys))
	for i, k := range doc.Keys {
		index[k.Key] = i
	}
	for _, held := range doc.LegacyHeld {
		if held.Bucket < math.MinInt32 || held.Bucket > math.MaxInt32 {
			return fmt.Errorf("held count for invalid key %d", held.Bucket)
		}
		key := int(held.Bucket)
		i, ok := index[key]
		if !ok {
			i = len(doc.Keys)
			index[key] = i
			doc.Keys = append(doc.Keys, keyDoc{Key: key})
		}
		if held.Count > math.MaxUint64-doc.Keys[i].Held {
			doc.Keys[i].Held = math.MaxUint64
		} else {
			doc.Keys[i].Held += held.Count
		}
	}
	doc.LegacyHeld = nil
	if doc.Mistakes == nil {
		doc.Mistakes = []pairCountDoc{}
	}
	return nil
}

// migrateV003 introduces per-pair interval histograms and axis histograms,
// and drops the empty 0x0 bucket older versions wrote before the desktop
// size was known.
func migrateV003(doc *document) error {
	if doc.PairIntervals == nil {
		doc.PairIntervals = []pairHistDoc{}
	}
	if doc.Axes == nil {
		doc.Axes = []axisDoc{}
	}
	kept := doc.Resolutions[:0]
	for _, res := range doc.Resolutions {
		if res.Width <= 0 || res.Height <= 0 {
			continue
		}
		kept = append(kept, res)
	}
	doc.Resolutions = kept
	return nil
}
