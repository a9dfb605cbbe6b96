// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// Point is a pixel coordinate.
type Point struct {
	X int
	Y int
}

// Rect is a screen rectangle. Right and Bottom are exclusive.
type Rect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// Contains reports whether p lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Right && p.Y >= r.Top && p.Y < r.Bottom
}

// Size returns the resolution covered by the rectangle.
func (r Rect) Size() Resolution {
	return Resolution{Width: r.Right - r.Left, Height: r.Bottom - r.Top}
}

// Resolution identifies the display configuration a sample was captured in.
type Resolution struct {
	Width  int
	Height int
}

// Valid reports whether both dimensions are positive.
func (r Resolution) Valid() bool {
	return r.Width > 0 && r.Height > 0
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Config defines tracking settings.
type Config struct {
	UpdatesPerSecond int
	SaveInterval     time.Duration
	SaveRetries      int
	SwitchRetries    int
	RetryBackoff     time.Duration
	CompressCeiling  uint64
	CompressFactor   float64
	MultiMonitor     bool
	KeyIntervalLimit uint64
	Compression      string
	DataDir          string
}

// StatsConfig defines options for the stats report.
type StatsConfig struct {
	Profile string
	Top     int
	Plain   bool
}

// SaveRecord describes one attempt to write a profile to disk.
type SaveRecord struct {
	Profile    string
	Reason     string
	Attempt    int
	SavedAt    time.Time
	TotalTicks uint64
	Bytes      int
	Err        string
}

// Succeeded reports whether the attempt wrote the profile.
func (r SaveRecord) Succeeded() bool {
	return r.Err == ""
}
