package stats

import (
	"sort"

	"github.com/verte-zerg/mousetracks/internal/aggregate"
)

// KeyRow is one line of the key table.
type KeyRow struct {
	Key      aggregate.Key
	Name     string
	Pressed  uint64
	Held     uint64
	Mistakes uint64
}

// MistakeRow counts how often Wanted was replaced by Typed.
type MistakeRow struct {
	Wanted string
	Typed  string
	Count  uint64
}

// TopKeys returns the n most pressed keys. n <= 0 returns every key.
func TopKeys(s *aggregate.Store, n int) []KeyRow {
	mistakes := map[aggregate.Key]uint64{}
	for pair, count := range s.Mistakes {
		mistakes[pair.First] += count
	}
	rows := make([]KeyRow, 0, len(s.Keys))
	for key, ks := range s.Keys {
		rows = append(rows, KeyRow{
			Key:      key,
			Name:     KeyName(key),
			Pressed:  ks.Pressed,
			Held:     ks.Held,
			Mistakes: mistakes[key],
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Pressed == rows[j].Pressed {
			return rows[i].Key < rows[j].Key
		}
		return rows[i].Pressed > rows[j].Pressed
	})
	if n > 0 && n < len(rows) {
		rows = rows[:n]
	}
	return rows
}

// TopMistakes returns the n most frequent corrections. n <= 0 returns all.
func TopMistakes(s *aggregate.Store, n int) []MistakeRow {
	type item struct {
		pair  aggregate.KeyPair
		count uint64
	}
	items := make([]item, 0, len(s.Mistakes))
	for pair, count := range s.Mistakes {
		items = append(items, item{pair: pair, count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].count != items[j].count {
			return items[i].count > items[j].count
		}
		if items[i].pair.First != items[j].pair.First {
			return items[i].pair.First < items[j].pair.First
		}
		return items[i].pair.Second < items[j].pair.Second
	})
	if n > 0 && n < len(items) {
		items = items[:n]
	}
	rows := make([]MistakeRow, len(items))
	for i, it := range items {
		rows[i] = MistakeRow{Wanted: KeyName(it.pair.First), Typed: KeyName(it.pair.Second), Count: it.count}
	}
	return rows
}
