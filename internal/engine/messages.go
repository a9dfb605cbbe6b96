package engine

import (
	"github.com/verte-zerg/mousetracks/internal/aggregate"
	"github.com/verte-zerg/mousetracks/internal/model"
)

// Message is one inbound event from the sampler. Kinds the engine does not
// recognize are ignored.
type Message interface {
	Kind() string
}

// Tick reports sampler intervals elapsed since the previous tick.
type Tick struct {
	Delta uint64
}

// Save asks the engine to flush the active profile.
type Save struct{}

// ProfileChanged activates a named profile. Rects optionally restrict
// tracking to application windows.
type ProfileChanged struct {
	Name  string
	Rects []model.Rect
}

// ResolutionChanged reports the virtual desktop size.
type ResolutionChanged struct {
	Width  int
	Height int
}

// MonitorLimits reports the rectangle of every monitor.
type MonitorLimits struct {
	Rects []model.Rect
}

// KeyPress reports keys that went down this tick.
type KeyPress struct {
	Keys []aggregate.Key
}

// KeyHeld reports keys still held this tick.
type KeyHeld struct {
	Keys []aggregate.Key
}

// MouseMove reports cursor movement. Start is nil for the first sample.
type MouseMove struct {
	Start *model.Point
	End   model.Point
}

// MouseClick reports a single click.
type MouseClick struct {
	Button aggregate.Button
	Point  model.Point
}

// MouseDoubleClick reports a double click.
type MouseDoubleClick struct {
	Button aggregate.Button
	Point  model.Point
}

// MouseHeld reports a button held down at a point.
type MouseHeld struct {
	Button aggregate.Button
	Point  model.Point
}

// GamepadButtonPress reports controller buttons that went down.
type GamepadButtonPress struct {
	IDs []int
}

// GamepadButtonHeld reports controller buttons still held.
type GamepadButtonHeld struct {
	IDs []int
}

// GamepadAxis reports an axis position in [-1, 1].
type GamepadAxis struct {
	Axis  int
	Value float64
}

// QueueDepth asks for a QueueReport.
type QueueDepth struct{}

// Quit saves the active profile and stops the engine.
type Quit struct{}

func (Tick) Kind() string               { return "tick" }
func (Save) Kind() string               { return "save" }
func (ProfileChanged) Kind() string     { return "profile_changed" }
func (ResolutionChanged) Kind() string  { return "resolution" }
func (MonitorLimits) Kind() string      { return "monitor_limits" }
func (KeyPress) Kind() string           { return "key_press" }
func (KeyHeld) Kind() string            { return "key_held" }
func (MouseMove) Kind() string          { return "mouse_move" }
func (MouseClick) Kind() string         { return "mouse_click" }
func (MouseDoubleClick) Kind() string   { return "mouse_double_click" }
func (MouseHeld) Kind() string          { return "mouse_held" }
func (GamepadButtonPress) Kind() string { return "gamepad_button_press" }
func (GamepadButtonHeld) Kind() string  { return "gamepad_button_held" }
func (GamepadAxis) Kind() string        { return "gamepad_axis" }
func (QueueDepth) Kind() string         { return "queue_depth" }
func (Quit) Kind() string               { return "quit" }
