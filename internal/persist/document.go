package persist

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
	"slices"

	"github.com/fxamacker/cbor/v2"

	"github.com/verte-zerg/mousetracks/internal/aggregate"
	"github.com/verte-zerg/mousetracks/internal/model"
)

// document is the on-disk shape of an aggregate.Store. Maps are flattened
// into sorted slices so encoding is deterministic and key types stay simple.
type document struct {
	Version       int             `cbor:"version"`
	Ticks         ticksDoc        `cbor:"ticks"`
	Resolutions   []resolutionDoc `cbor:"resolutions"`
	Keys          []keyDoc        `cbor:"keys"`
	LegacyHeld    []bucketDoc     `cbor:"held,omitempty"`
	Mistakes      []pairCountDoc  `cbor:"mistakes,omitempty"`
	Intervals     []bucketDoc     `cbor:"intervals"`
	PairIntervals []pairHistDoc   `cbor:"pair_intervals,omitempty"`
	Buttons       []buttonDoc     `cbor:"gamepad_buttons"`
	Axes          []axisDoc       `cbor:"gamepad_axes,omitempty"`
}

type ticksDoc struct {
	Total    uint64 `cbor:"total"`
	Tracks   uint64 `cbor:"tracks"`
	Recorded uint64 `cbor:"recorded"`
}

type resolutionDoc struct {
	Width   int        `cbor:"w"`
	Height  int        `cbor:"h"`
	Enabled bool       `cbor:"enabled"`
	Tracks  []pixelDoc `cbor:"tracks"`
	Clicks  []clickDoc `cbor:"clicks"`
}

type clickDoc struct {
	Kind   int        `cbor:"kind"`
	Button int        `cbor:"button"`
	Pixels []pixelDoc `cbor:"pixels"`
}

type pixelDoc struct {
	_     struct{} `cbor:",toarray"`
	X     int
	Y     int
	Value uint64
}

type keyDoc struct {
	_       struct{} `cbor:",toarray"`
	Key     int
	Pressed uint64
	Held    uint64
}

type pairCountDoc struct {
	_      struct{} `cbor:",toarray"`
	First  int
	Second int
	Count  uint64
}

type bucketDoc struct {
	_      struct{} `cbor:",toarray"`
	Bucket int64
	Count  uint64
}

type pairHistDoc struct {
	First   int         `cbor:"first"`
	Second  int         `cbor:"second"`
	Buckets []bucketDoc `cbor:"buckets"`
}

type buttonDoc struct {
	_       struct{} `cbor:",toarray"`
	ID      int
	Pressed uint64
	Held    uint64
}

type axisDoc struct {
	Axis    int         `cbor:"axis"`
	Buckets []bucketDoc `cbor:"buckets"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("persist: CBOR encoder initialization failed: " + err.Error())
	}
	// Pixel lists grow with screen area, far past the library defaults.
	decMode, err = cbor.DecOptions{
		DefaultMapType:   reflect.TypeOf(map[string]any(nil)),
		MaxArrayElements: math.MaxInt32,
		MaxMapPairs:      math.MaxInt32,
	}.DecMode()
	if err != nil {
		panic("persist: CBOR decoder initialization failed: " + err.Error())
	}
}

// Encode serializes a store into the framed on-disk format.
func Encode(store *aggregate.Store, c Compression) ([]byte, error) {
	payload, err := encMode.Marshal(toDocument(store))
	if err != nil {
		return nil, fmt.Errorf("encode store: %w", err)
	}
	return frame(payload, c)
}

// Decode parses framed data, upgrading older versions to CurrentVersion.
func Decode(data []byte) (*aggregate.Store, error) {
	payload, err := unframe(data)
	if err != nil {
		return nil, err
	}
	var doc document
	if err := decMode.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("decode store: %w", err)
	}
	if err := upgrade(&doc); err != nil {
		return nil, err
	}
	return fromDocument(&doc), nil
}

func toDocument(s *aggregate.Store) *document {
	doc := &document{
		Version: s.Version,
		Ticks: ticksDoc{
			Total:    s.Ticks.Total,
			Tracks:   s.Ticks.Tracks,
			Recorded: s.Ticks.Recorded,
		},
	}

	resolutions := make([]model.Resolution, 0, len(s.Resolutions))
	for res := range s.Resolutions {
		resolutions = append(resolutions, res)
	}
	for res := range s.Tracks {
		if _, ok := s.Resolutions[res]; !ok {
			resolutions = append(resolutions, res)
		}
	}
	slices.SortFunc(resolutions, compareResolution)
	for _, res := range resolutions {
		enabled, ok := s.Resolutions[res]
		entry := resolutionDoc{
			Width:   res.Width,
			Height:  res.Height,
			Enabled: enabled || !ok,
			Tracks:  pixelsDoc(s.Tracks[res]),
		}
		if set := s.Clicks[res]; set != nil {
			for kind := range set {
				for button := range set[kind] {
					if len(set[kind][button]) == 0 {
						continue
					}
					entry.Clicks = append(entry.Clicks, clickDoc{
						Kind:   kind,
						Button: button,
						Pixels: pixelsDoc(set[kind][button]),
					})
				}
			}
		}
		doc.Resolutions = append(doc.Resolutions, entry)
	}

	for key, stats := range s.Keys {
		doc.Keys = append(doc.Keys, keyDoc{Key: int(key), Pressed: stats.Pressed, Held: stats.Held})
	}
	slices.SortFunc(doc.Keys, func(a, b keyDoc) int { return cmp.Compare(a.Key, b.Key) })

	for pair, count := range s.Mistakes {
		doc.Mistakes = append(doc.Mistakes, pairCountDoc{First: int(pair.First), Second: int(pair.Second), Count: count})
	}
	slices.SortFunc(doc.Mistakes, func(a, b pairCountDoc) int {
		return cmp.Or(cmp.Compare(a.First, b.First), cmp.Compare(a.Second, b.Second))
	})

	doc.Intervals = uintBuckets(s.Intervals)
	for pair, hist := range s.PairIntervals {
		doc.PairIntervals = append(doc.PairIntervals, pairHistDoc{
			First:   int(pair.First),
			Second:  int(pair.Second),
			Buckets: uintBuckets(hist),
		})
	}
	slices.SortFunc(doc.PairIntervals, func(a, b pairHistDoc) int {
		return cmp.Or(cmp.Compare(a.First, b.First), cmp.Compare(a.Second, b.Second))
	})

	for id, stats := range s.Gamepad.Buttons {
		doc.Buttons = append(doc.Buttons, buttonDoc{ID: id, Pressed: stats.Pressed, Held: stats.Held})
	}
	slices.SortFunc(doc.Buttons, func(a, b buttonDoc) int { return cmp.Compare(a.ID, b.ID) })

	for axis, hist := range s.Gamepad.Axes {
		entry := axisDoc{Axis: axis}
		for bucket, count := range hist {
			entry.Buckets = append(entry.Buckets, bucketDoc{Bucket: int64(bucket), Count: count})
		}
		sortBuckets(entry.Buckets)
		doc.Axes = append(doc.Axes, entry)
	}
	slices.SortFunc(doc.Axes, func(a, b axisDoc) int { return cmp.Compare(a.Axis, b.Axis) })
	return doc
}

func fromDocument(doc *document) *aggregate.Store {
	s := aggregate.New(doc.Version)
	s.Ticks.Total = doc.Ticks.Total
	s.Ticks.Tracks = doc.Ticks.Tracks
	s.Ticks.Recorded = doc.Ticks.Recorded

	for _, entry := range doc.Resolutions {
		res := model.Resolution{Width: entry.Width, Height: entry.Height}
		s.EnsureResolution(res)
		s.Resolutions[res] = entry.Enabled
		tracks := s.Tracks[res]
		for _, px := range entry.Tracks {
			tracks[model.Point{X: px.X, Y: px.Y}] = px.Value
		}
		for _, clicks := range entry.Clicks {
			kind, button := aggregate.ClickKind(clicks.Kind), aggregate.Button(clicks.Button)
			if !kind.Valid() || !button.Valid() {
				continue
			}
			counts := s.Clicks[res][kind][button]
			for _, px := range clicks.Pixels {
				counts[model.Point{X: px.X, Y: px.Y}] = px.Value
			}
		}
	}

	for _, k := range doc.Keys {
		s.Keys[aggregate.Key(k.Key)] = &aggregate.KeyStats{Pressed: k.Pressed, Held: k.Held}
	}
	for _, m := range doc.Mistakes {
		s.Mistakes[aggregate.KeyPair{First: aggregate.Key(m.First), Second: aggregate.Key(m.Second)}] = m.Count
	}
	for _, b := range doc.Intervals {
		if b.Bucket >= 0 {
			s.Intervals[uint64(b.Bucket)] = b.Count
		}
	}
	for _, entry := range doc.PairIntervals {
		hist := map[uint64]uint64{}
		for _, b := range entry.Buckets {
			if b.Bucket >= 0 {
				hist[uint64(b.Bucket)] = b.Count
			}
		}
		s.PairIntervals[aggregate.KeyPair{First: aggregate.Key(entry.First), Second: aggregate.Key(entry.Second)}] = hist
	}
	for _, b := range doc.Buttons {
		s.Gamepad.Buttons[b.ID] = &aggregate.ButtonStats{Pressed: b.Pressed, Held: b.Held}
	}
	for _, entry := range doc.Axes {
		hist := map[int]uint64{}
		for _, b := range entry.Buckets {
			hist[int(b.Bucket)] = b.Count
		}
		s.Gamepad.Axes[entry.Axis] = hist
	}
	return s
}

func pixelsDoc(counts aggregate.PixelCounts) []pixelDoc {
	out := make([]pixelDoc, 0, len(counts))
	for p, v := range counts {
		out = append(out, pixelDoc{X: p.X, Y: p.Y, Value: v})
	}
	slices.SortFunc(out, func(a, b pixelDoc) int {
		return cmp.Or(cmp.Compare(a.Y, b.Y), cmp.Compare(a.X, b.X))
	})
	return out
}

func uintBuckets(hist map[uint64]uint64) []bucketDoc {
	out := make([]bucketDoc, 0, len(hist))
	for bucket, count := range hist {
		out = append(out, bucketDoc{Bucket: int64(bucket), Count: count})
	}
	sortBuckets(out)
	return out
}

func sortBuckets(buckets []bucketDoc) {
	slices.SortFunc(buckets, func(a, b bucketDoc) int { return cmp.Compare(a.Bucket, b.Bucket) })
}

func compareResolution(a, b model.Resolution) int {
	return cmp.Or(cmp.Compare(a.Width, b.Width), cmp.Compare(a.Height, b.Height))
}
