package persist

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/mousetracks/internal/aggregate"
	"github.com/verte-zerg/mousetracks/internal/model"
)

func encodeDocument(t *testing.T, doc *document) []byte {
	t.Helper()
	payload, err := encMode.Marshal(doc)
	require.NoError(t, err)
	data, err := frame(payload, CompressionZstd)
	require.NoError(t, err)
	return data
}

func TestDecodeUpgradesVersionOne(t *testing.T) {
	doc := &document{
		Version: 1,
		Ticks:   ticksDoc{Total: 100, Tracks: 3},
		Resolutions: []resolutionDoc{
			{Width: 0, Height: 0, Enabled: true, Tracks: []pixelDoc{{X: 1, Y: 1, Value: 1}}},
			{Width: 800, Height: 600, Enabled: true, Tracks: []pixelDoc{{X: 2, Y: 3, Value: 2}}},
		},
		Keys:       []keyDoc{{Key: 65, Pressed: 3}},
		LegacyHeld: []bucketDoc{{Bucket: 65, Count: 4}, {Bucket: 66, Count: 2}},
		Intervals:  []bucketDoc{{Bucket: 5, Count: 2}},
	}

	store, err := Decode(encodeDocument(t, doc))
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, store.Version)
	assert.Len(t, store.Tracks, 1)
	assert.Equal(t, uint64(2), store.Tracks[model.Resolution{Width: 800, Height: 600}][model.Point{X: 2, Y: 3}])
	assert.Equal(t, &aggregate.KeyStats{Pressed: 3, Held: 4}, store.Keys[65])
	assert.Equal(t, &aggregate.KeyStats{Held: 2}, store.Keys[66])
	assert.Equal(t, uint64(2), store.Intervals[5])
	assert.Empty(t, store.Mistakes)
	assert.Empty(t, store.PairIntervals)
}

func TestUpgradeMissingVersion(t *testing.T) {
	doc := &document{}
	require.NoError(t, upgrade(doc))
	assert.Equal(t, CurrentVersion, doc.Version)
	assert.NotNil(t, doc.Mistakes)
	assert.NotNil(t, doc.Axes)
}

func TestUpgradeNewerVersionIsRetagged(t *testing.T) {
	doc := &document{Version: CurrentVersion + 4, Keys: []keyDoc{{Key: 1, Pressed: 1}}}
	store, err := Decode(encodeDocument(t, doc))
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, store.Version)
	assert.Equal(t, &aggregate.KeyStats{Pressed: 1}, store.Keys[1])
}

func TestMigrationsAscending(t *testing.T) {
	for i := 1; i < len(migrations); i++ {
		assert.Greater(t, migrations[i].Version, migrations[i-1].Version)
	}
	assert.Equal(t, CurrentVersion, migrations[len(migrations)-1].Version)
}

func TestMigrateInlinesHeldCounts(t *testing.T) {
	doc := &document{
		Version:    1,
		Keys:       []keyDoc{{Key: 8, Pressed: 1, Held: 1}},
		LegacyHeld: []bucketDoc{{Bucket: 8, Count: math.MaxUint64}, {Bucket: 32, Count: 5}},
	}
	require.NoError(t, migrateV002(doc))
	assert.Nil(t, doc.LegacyHeld)
	assert.NotNil(t, doc.Mistakes)
	assert.Equal(t, []keyDoc{
		{Key: 8, Pressed: 1, Held: math.MaxUint64},
		{Key: 32, Held: 5},
	}, doc.Keys)

	bad := &document{LegacyHeld: []bucketDoc{{Bucket: math.MaxInt64, Count: 1}}}
	assert.Error(t, migrateV002(bad))
}

func TestEncodeOmitsLegacyHeld(t *testing.T) {
	data, err := Encode(sampleStore(), CompressionNone)
	require.NoError(t, err)
	payload, err := unframe(data)
	require.NoError(t, err)
	var doc document
	require.NoError(t, decMode.Unmarshal(payload, &doc))
	assert.Nil(t, doc.LegacyHeld)
}
