package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/mousetracks/internal/aggregate"
	"github.com/verte-zerg/mousetracks/internal/model"
)

func TestDecodeMessage(t *testing.T) {
	start := model.Point{X: 1, Y: 2}
	tests := []struct {
		line string
		want Message
	}{
		{`{"type":"tick","delta":3}`, Tick{Delta: 3}},
		{`{"type":"save"}`, Save{}},
		{`{"type":"quit"}`, Quit{}},
		{`{"type":"queue_depth"}`, QueueDepth{}},
		{`{"type":"resolution","width":2560,"height":1440}`, ResolutionChanged{Width: 2560, Height: 1440}},
		{
			`{"type":"profile_changed","name":"Game","rects":[[0,0,800,600]]}`,
			ProfileChanged{Name: "Game", Rects: []model.Rect{{Left: 0, Top: 0, Right: 800, Bottom: 600}}},
		},
		{`{"type":"monitor_limits","rects":[]}`, MonitorLimits{}},
		{`{"type":"key_press","keys":[65,8]}`, KeyPress{Keys: []aggregate.Key{65, aggregate.KeyBackspace}}},
		{`{"type":"key_held","keys":[65]}`, KeyHeld{Keys: []aggregate.Key{65}}},
		{`{"type":"mouse_move","start":[1,2],"end":[3,4]}`, MouseMove{Start: &start, End: model.Point{X: 3, Y: 4}}},
		{`{"type":"mouse_move","end":[3,4]}`, MouseMove{End: model.Point{X: 3, Y: 4}}},
		{`{"type":"mouse_click","point":[5,6]}`, MouseClick{Button: aggregate.ButtonLeft, Point: model.Point{X: 5, Y: 6}}},
		{`{"type":"mouse_double_click","button":"right","point":[5,6]}`, MouseDoubleClick{Button: aggregate.ButtonRight, Point: model.Point{X: 5, Y: 6}}},
		{`{"type":"mouse_held","button":"middle","point":[5,6]}`, MouseHeld{Button: aggregate.ButtonMiddle, Point: model.Point{X: 5, Y: 6}}},
		{`{"type":"gamepad_button_press","ids":[1,2]}`, GamepadButtonPress{IDs: []int{1, 2}}},
		{`{"type":"gamepad_button_held","ids":[3]}`, GamepadButtonHeld{IDs: []int{3}}},
		{`{"type":"gamepad_axis","axis":1,"value":-0.25}`, GamepadAxis{Axis: 1, Value: -0.25}},
	}

	for _, tt := range tests {
		got, err := DecodeMessage([]byte(tt.line))
		require.NoError(t, err, tt.line)
		assert.Equal(t, tt.want, got, tt.line)
	}
}

func TestDecodeMessageUnknownType(t *testing.T) {
	msg, err := DecodeMessage([]byte(`{"type":"telemetry_v9","x":1}`))
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestDecodeMessageErrors(t *testing.T) {
	for _, line := range []string{
		`not json`,
		`{"delta":1}`,
		`{"type":"mouse_move"}`,
		`{"type":"mouse_click"}`,
		`{"type":"mouse_held","button":"thumb","point":[0,0]}`,
	} {
		_, err := DecodeMessage([]byte(line))
		assert.Error(t, err, line)
	}
}
