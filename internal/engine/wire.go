package engine

import (
	"encoding/json"
	"fmt"

	"github.com/verte-zerg/mousetracks/internal/aggregate"
	"github.com/verte-zerg/mousetracks/internal/model"
)

// envelope is the JSON line format written by the sampler. Points are
// [x, y] pairs and rects are [left, top, right, bottom].
type envelope struct {
	Type   string   `json:"type"`
	Delta  uint64   `json:"delta"`
	Name   string   `json:"name"`
	Rects  [][4]int `json:"rects"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Keys   []int    `json:"keys"`
	IDs    []int    `json:"ids"`
	Start  *[2]int  `json:"start"`
	End    *[2]int  `json:"end"`
	Point  *[2]int  `json:"point"`
	Button string   `json:"button"`
	Axis   int      `json:"axis"`
	Value  float64  `json:"value"`
}

// DecodeMessage parses one JSON line from the sampler. Unknown message
// types decode to a nil Message without error.
func DecodeMessage(line []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}

	switch env.Type {
	case "tick":
		return Tick{Delta: env.Delta}, nil
	case "save":
		return Save{}, nil
	case "profile_changed":
		return ProfileChanged{Name: env.Name, Rects: rects(env.Rects)}, nil
	case "resolution":
		return ResolutionChanged{Width: env.Width, Height: env.Height}, nil
	case "monitor_limits":
		return MonitorLimits{Rects: rects(env.Rects)}, nil
	case "key_press":
		return KeyPress{Keys: keys(env.Keys)}, nil
	case "key_held":
		return KeyHeld{Keys: keys(env.Keys)}, nil
	case "mouse_move":
		if env.End == nil {
			return nil, fmt.Errorf("mouse_move: missing end")
		}
		move := MouseMove{End: point(*env.End)}
		if env.Start != nil {
			start := point(*env.Start)
			move.Start = &start
		}
		return move, nil
	case "mouse_click", "mouse_double_click", "mouse_held":
		if env.Point == nil {
			return nil, fmt.Errorf("%s: missing point", env.Type)
		}
		button, err := parseButton(env.Button)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", env.Type, err)
		}
		p := point(*env.Point)
		switch env.Type {
		case "mouse_click":
			return MouseClick{Button: button, Point: p}, nil
		case "mouse_double_click":
			return MouseDoubleClick{Button: button, Point: p}, nil
		default:
			return MouseHeld{Button: button, Point: p}, nil
		}
	case "gamepad_button_press":
		return GamepadButtonPress{IDs: env.IDs}, nil
	case "gamepad_button_held":
		return GamepadButtonHeld{IDs: env.IDs}, nil
	case "gamepad_axis":
		return GamepadAxis{Axis: env.Axis, Value: env.Value}, nil
	case "queue_depth":
		return QueueDepth{}, nil
	case "quit":
		return Quit{}, nil
	case "":
		return nil, fmt.Errorf("decode message: missing type")
	default:
		return nil, nil
	}
}

func parseButton(name string) (aggregate.Button, error) {
	switch name {
	case "left", "":
		return aggregate.ButtonLeft, nil
	case "middle":
		return aggregate.ButtonMiddle, nil
	case "right":
		return aggregate.ButtonRight, nil
	default:
		return 0, fmt.Errorf("unknown button %q", name)
	}
}

func point(v [2]int) model.Point {
	return model.Point{X: v[0], Y: v[1]}
}

func rects(in [][4]int) []model.Rect {
	if len(in) == 0 {
		return nil
	}
	out := make([]model.Rect, len(in))
	for i, r := range in {
		out[i] = model.Rect{Left: r[0], Top: r[1], Right: r[2], Bottom: r[3]}
	}
	return out
}

func keys(in []int) []aggregate.Key {
	out := make([]aggregate.Key, len(in))
	for i, k := range in {
		out[i] = aggregate.Key(k)
	}
	return out
}
