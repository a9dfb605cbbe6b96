// Package aggregate holds the in-memory statistics for one tracking profile.
package aggregate

import (
	"math"

	"github.com/verte-zerg/mousetracks/internal/model"
)

// Key is a virtual key code as reported by the sampler.
type Key int

// KeyBackspace is the key code that marks a correction.
const KeyBackspace Key = 8

// KeyPair is an ordered pair of keys.
type KeyPair struct {
	First  Key
	Second Key
}

// Button is a mouse button.
type Button int

// Mouse buttons.
const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
	numButtons
)

// ClickKind distinguishes single, held and double clicks.
type ClickKind int

// Click kinds.
const (
	ClickSingle ClickKind = iota
	ClickHeld
	ClickDouble
	numClickKinds
)

// Valid reports whether b is a tracked button.
func (b Button) Valid() bool {
	return b >= 0 && b < numButtons
}

// Valid reports whether k is a known click kind.
func (k ClickKind) Valid() bool {
	return k >= 0 && k < numClickKinds
}

// PixelCounts maps pixels to a counter or recency stamp.
type PixelCounts map[model.Point]uint64

// ClickSet holds one click map per (kind, button).
type ClickSet [numClickKinds][numButtons]PixelCounts

func newClickSet() *ClickSet {
	var set ClickSet
	for kind := range set {
		for button := range set[kind] {
			set[kind][button] = PixelCounts{}
		}
	}
	return &set
}

// SessionTicks mirrors the tick counters since the profile was loaded.
type SessionTicks struct {
	Total  uint64
	Tracks uint64
}

// Ticks holds the store's tick counters.
type Ticks struct {
	// Total only ever grows.
	Total uint64
	// Tracks drives recency stamps and shrinks on compaction.
	Tracks uint64
	// Recorded counts processed messages.
	Recorded uint64
	Session  SessionTicks
}

// KeyStats counts presses and held ticks for one key.
type KeyStats struct {
	Pressed uint64
	Held    uint64
}

// ButtonStats counts presses and held ticks for one gamepad button.
type ButtonStats struct {
	Pressed uint64
	Held    uint64
}

// GamepadStats holds controller statistics.
type GamepadStats struct {
	Buttons map[int]*ButtonStats
	// Axes maps an axis to a histogram of magnitude buckets.
	Axes map[int]map[int]uint64
}

// Store is the aggregate data for one profile. It has a single owner and is
// not safe for concurrent use.
type Store struct {
	Version int
	Ticks   Ticks

	Resolutions map[model.Resolution]bool
	Tracks      map[model.Resolution]PixelCounts
	Clicks      map[model.Resolution]*ClickSet

	Keys          map[Key]*KeyStats
	Mistakes      map[KeyPair]uint64
	Intervals     map[uint64]uint64
	PairIntervals map[KeyPair]map[uint64]uint64

	Gamepad GamepadStats
}

// New returns an empty store tagged with version.
func New(version int) *Store {
	return &Store{
		Version:       version,
		Resolutions:   map[model.Resolution]bool{},
		Tracks:        map[model.Resolution]PixelCounts{},
		Clicks:        map[model.Resolution]*ClickSet{},
		Keys:          map[Key]*KeyStats{},
		Mistakes:      map[KeyPair]uint64{},
		Intervals:     map[uint64]uint64{},
		PairIntervals: map[KeyPair]map[uint64]uint64{},
		Gamepad: GamepadStats{
			Buttons: map[int]*ButtonStats{},
			Axes:    map[int]map[int]uint64{},
		},
	}
}

// Empty reports whether the store holds no recorded input.
func (s *Store) Empty() bool {
	return s.Ticks.Total == 0 && len(s.Tracks) == 0 && len(s.Keys) == 0 &&
		len(s.Gamepad.Buttons) == 0 && len(s.Gamepad.Axes) == 0
}

// EnsureResolution initializes every per-resolution map for res. New
// resolutions start enabled.
func (s *Store) EnsureResolution(res model.Resolution) {
	if _, ok := s.Resolutions[res]; !ok {
		s.Resolutions[res] = true
	}
	if s.Tracks[res] == nil {
		s.Tracks[res] = PixelCounts{}
	}
	if s.Clicks[res] == nil {
		s.Clicks[res] = newClickSet()
	}
}

// AddTicks advances the lifetime and session totals.
func (s *Store) AddTicks(delta uint64) {
	s.Ticks.Total = satAdd(s.Ticks.Total, delta)
	s.Ticks.Session.Total = satAdd(s.Ticks.Session.Total, delta)
}

// StampTrack records the current Tracks tick at p and advances Tracks.
// Tracks moves once per pixel, not once per movement, so the pixels of a
// single path get strictly increasing stamps in path order and the last
// one drawn wins.
func (s *Store) StampTrack(res model.Resolution, p model.Point) {
	s.EnsureResolution(res)
	s.Tracks[res][p] = s.Ticks.Tracks
	s.Ticks.Tracks = satAdd(s.Ticks.Tracks, 1)
	s.Ticks.Session.Tracks = satAdd(s.Ticks.Session.Tracks, 1)
}

// AddClick increments the click map for (kind, button) at p.
func (s *Store) AddClick(res model.Resolution, kind ClickKind, button Button, p model.Point) bool {
	if !kind.Valid() || !button.Valid() {
		return false
	}
	s.EnsureResolution(res)
	counts := s.Clicks[res][kind][button]
	counts[p] = satAdd(counts[p], 1)
	return true
}

// Key returns the stats for k, creating them if needed.
func (s *Store) Key(k Key) *KeyStats {
	stats, ok := s.Keys[k]
	if !ok {
		stats = &KeyStats{}
		s.Keys[k] = stats
	}
	return stats
}

// AddKeyPress increments the press count for k.
func (s *Store) AddKeyPress(k Key) {
	stats := s.Key(k)
	stats.Pressed = satAdd(stats.Pressed, 1)
}

// AddKeyHeld increments the held ticks for k.
func (s *Store) AddKeyHeld(k Key) {
	stats := s.Key(k)
	stats.Held = satAdd(stats.Held, 1)
}

// AddMistake records that first was corrected to second.
func (s *Store) AddMistake(first, second Key) {
	pair := KeyPair{First: first, Second: second}
	s.Mistakes[pair] = satAdd(s.Mistakes[pair], 1)
}

// AddInterval records the tick gap between two consecutive presses.
func (s *Store) AddInterval(prev, next Key, delta uint64) {
	s.Intervals[delta] = satAdd(s.Intervals[delta], 1)
	pair := KeyPair{First: prev, Second: next}
	hist, ok := s.PairIntervals[pair]
	if !ok {
		hist = map[uint64]uint64{}
		s.PairIntervals[pair] = hist
	}
	hist[delta] = satAdd(hist[delta], 1)
}

// Button returns the stats for a gamepad button, creating them if needed.
func (s *Store) Button(id int) *ButtonStats {
	stats, ok := s.Gamepad.Buttons[id]
	if !ok {
		stats = &ButtonStats{}
		s.Gamepad.Buttons[id] = stats
	}
	return stats
}

// AddButtonPress increments the press count for a gamepad button.
func (s *Store) AddButtonPress(id int) {
	stats := s.Button(id)
	stats.Pressed = satAdd(stats.Pressed, 1)
}

// AddButtonHeld increments the held ticks for a gamepad button.
func (s *Store) AddButtonHeld(id int) {
	stats := s.Button(id)
	stats.Held = satAdd(stats.Held, 1)
}

// AddAxis increments the magnitude bucket for axis.
func (s *Store) AddAxis(axis, bucket int) {
	hist, ok := s.Gamepad.Axes[axis]
	if !ok {
		hist = map[int]uint64{}
		s.Gamepad.Axes[axis] = hist
	}
	hist[bucket] = satAdd(hist[bucket], 1)
}

// CountRecorded increments the processed message counter.
func (s *Store) CountRecorded() {
	s.Ticks.Recorded = satAdd(s.Ticks.Recorded, 1)
}

func satAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}
