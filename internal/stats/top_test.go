package stats

import (
	"testing"

	"github.com/verte-zerg/mousetracks/internal/aggregate"
)

func TestTopKeys(t *testing.T) {
	s := aggregate.New(3)
	for i := 0; i < 3; i++ {
		s.AddKeyPress('B')
	}
	for i := 0; i < 5; i++ {
		s.AddKeyPress('A')
	}
	s.AddKeyPress('C')
	s.AddKeyHeld('A')
	s.AddMistake('A', 'S')
	s.AddMistake('A', 'D')

	top := TopKeys(s, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(top))
	}
	if top[0].Name != "A" || top[1].Name != "B" {
		t.Fatalf("unexpected order: %+v", top)
	}
	if top[0].Held != 1 || top[0].Mistakes != 2 {
		t.Fatalf("unexpected counters: %+v", top[0])
	}
	if all := TopKeys(s, 0); len(all) != 3 {
		t.Fatalf("expected all keys, got %d", len(all))
	}
}

func TestTopMistakesOrdersByCountThenPair(t *testing.T) {
	s := aggregate.New(3)
	s.AddMistake('W', 'E')
	s.AddMistake('Q', 'W')
	s.AddMistake('Q', 'W')
	s.AddMistake('A', 'S')

	rows := TopMistakes(s, 0)
	want := []MistakeRow{
		{Wanted: "Q", Typed: "W", Count: 2},
		{Wanted: "A", Typed: "S", Count: 1},
		{Wanted: "W", Typed: "E", Count: 1},
	}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(rows))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("row %d: got %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestKeyName(t *testing.T) {
	cases := map[aggregate.Key]string{
		'A':                    "A",
		'7':                    "7",
		aggregate.KeyBackspace: "BACK",
		32:                     "SPACE",
		113:                    "F2",
		255:                    "0xFF",
	}
	for key, want := range cases {
		if got := KeyName(key); got != want {
			t.Fatalf("KeyName(%d) = %q, want %q", key, got, want)
		}
	}
}
