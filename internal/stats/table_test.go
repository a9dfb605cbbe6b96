package stats

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Key", "Pressed", "Held"}
	rows := [][]string{
		{"A", "1250", "12"},
		{"SPACE", "80", "3"},
	}

	lines := formatTable(headers, rows, map[int]bool{1: true, 2: true})
	assert.Equal(t, []string{
		"Key   Pressed Held",
		"A        1250   12",
		"SPACE      80    3",
	}, lines)
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Key", "N"}, [][]string{{"日本", "1"}}, nil)
	assert.Equal(t, []string{"Key  N", "日本 1"}, lines)
}

func TestFormatTableShortRows(t *testing.T) {
	lines := formatTable(nil, [][]string{{"a", "bb"}, {"ccc"}}, map[int]bool{1: true})
	assert.Equal(t, []string{"a   bb", "ccc   "}, lines)
	assert.Nil(t, formatTable(nil, nil, nil))
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, "Keys", []string{"Key", "N"}, [][]string{{"A", "7"}}, nil))
	assert.Equal(t, "Keys\nKey N\nA   7\n\n", buf.String())
}
