package charts

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hitmaker/internal/config"
	"github.com/talgya/hitmaker/internal/entropy"
	"github.com/talgya/hitmaker/internal/world"
)

func song(id string, streams int64, player bool) world.Song {
	return world.Song{
		ID: id, Title: "T-" + id, IsReleased: true, IsPlayer: player,
		WeeklyStreams: streams,
		RegionalData: map[world.RegionID]world.RegionalStat{
			world.RegionUK: {WeeklyStreams: streams / 2},
		},
	}
}

func regions() []world.RegionStats {
	return []world.RegionStats{{ID: world.RegionUK, Name: "United Kingdom"}}
}

func assertDense(t *testing.T, entries []world.ChartEntry) {
	t.Helper()
	for i, e := range entries {
		require.Equal(t, i+1, e.Rank, "entry %s", e.ItemID)
	}
}

func TestGenerate_RanksAreDense(t *testing.T) {
	src := entropy.NewSeeded(9)
	var songs []world.Song
	for i := 0; i < 300; i++ {
		// Plenty of ties.
		songs = append(songs, song(fmt.Sprintf("s%03d", i), int64(entropy.Intn(src, 20))*1000, i%7 == 0))
	}
	out := Generate(Input{Songs: songs, Regions: regions(), Week: 1, Cfg: config.Default().Charts})

	hot := out.Charts[world.ChartHot100]
	require.Len(t, hot, 100)
	assertDense(t, hot)
	assertDense(t, out.Charts[world.RegionalSongChart(world.RegionUK)])
	for i := 1; i < len(hot); i++ {
		assert.GreaterOrEqual(t, hot[i-1].Score, hot[i].Score)
	}
}

func TestGenerate_TieBreakByID(t *testing.T) {
	songs := []world.Song{song("b", 500, false), song("a", 500, false), song("c", 900, false)}
	out := Generate(Input{Songs: songs, Week: 1, Cfg: config.Default().Charts})
	hot := out.Charts[world.ChartHot100]
	require.Len(t, hot, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{hot[0].ItemID, hot[1].ItemID, hot[2].ItemID})
}

func TestGenerate_ZeroScoreAndUnreleasedExcluded(t *testing.T) {
	unreleased := song("u", 1000, false)
	unreleased.IsReleased = false
	out := Generate(Input{Songs: []world.Song{song("z", 0, false), unreleased}, Week: 1, Cfg: config.Default().Charts})
	assert.Empty(t, out.Charts[world.ChartHot100])
}

func TestGenerate_MovementAcrossWeeks(t *testing.T) {
	cfg := config.Default().Charts
	week1 := Generate(Input{
		Songs: []world.Song{song("a", 100, true), song("b", 200, false), song("c", 300, false)},
		Week:  1, Cfg: cfg,
	})
	for _, e := range week1.Charts[world.ChartHot100] {
		assert.Equal(t, world.MovementNew, e.Movement)
	}

	// a climbs, c drops off.
	week2 := Generate(Input{
		Songs:    []world.Song{song("a", 500, true), song("b", 200, false)},
		Previous: week1.Charts, Memory: week1.Memory, History: week1.History,
		Week: 2, Cfg: cfg,
	})
	hot := week2.Charts[world.ChartHot100]
	require.Len(t, hot, 2)
	assert.Equal(t, "a", hot[0].ItemID)
	assert.Equal(t, world.MovementUp, hot[0].Movement)
	assert.Equal(t, 3, hot[0].LastWeekRank)
	assert.Equal(t, 2, hot[0].WeeksOnChart)
	assert.Equal(t, 1, hot[0].PeakRank)
	assert.Equal(t, world.MovementSame, hot[1].Movement)

	// c comes back.
	week3 := Generate(Input{
		Songs:    []world.Song{song("a", 500, true), song("b", 200, false), song("c", 50, false)},
		Previous: week2.Charts, Memory: week2.Memory, History: week2.History,
		Week: 3, Cfg: cfg,
	})
	hot = week3.Charts[world.ChartHot100]
	require.Len(t, hot, 3)
	assert.Equal(t, "c", hot[2].ItemID)
	assert.Equal(t, world.MovementReEntry, hot[2].Movement)
	assert.Equal(t, 1, hot[2].WeeksOnChart)
	assert.Equal(t, 1, hot[2].PeakRank, "peak survives dropping off")
}

func TestGenerate_HistoryOnlyForPlayerAndInputUntouched(t *testing.T) {
	cfg := config.Default().Charts
	in := Input{
		Songs:   []world.Song{song("mine", 100, true), song("npc", 200, false)},
		Regions: regions(),
		History: map[world.ChartKey]map[string][]world.ChartPoint{},
		Week:    7, Cfg: cfg,
	}
	out := Generate(in)

	assert.Equal(t, []world.ChartPoint{{Week: 7, Rank: 2}}, out.History[world.ChartHot100]["mine"])
	assert.Equal(t, []world.ChartPoint{{Week: 7, Rank: 2}}, out.History[world.RegionalSongChart(world.RegionUK)]["mine"])
	_, npc := out.History[world.ChartHot100]["npc"]
	assert.False(t, npc)
	assert.Empty(t, in.History)
}

func TestGenerate_AlbumCharts(t *testing.T) {
	cfg := config.Default().Charts
	albums := []world.Album{
		{ID: "al1", IsReleased: true, WeeklySales: 300, WeeklyStreams: 15000},
		{ID: "al2", IsReleased: true, WeeklySales: 500},
	}
	out := Generate(Input{Albums: albums, Regions: regions(), Week: 1, Cfg: cfg})
	g := out.Charts[world.ChartGlobal200]
	require.Len(t, g, 2)
	assert.Equal(t, "al2", g[0].ItemID)
	assert.True(t, g[0].IsAlbum)
	assert.Empty(t, out.Charts[world.RegionalAlbumChart(world.RegionUK)])
}

func TestSongScoreMonotonic(t *testing.T) {
	cfg := config.Default().Charts
	assert.Greater(t, SongScore(101, 10, cfg), SongScore(100, 10, cfg))
	assert.Greater(t, SongScore(100, 11, cfg), SongScore(100, 10, cfg))
	assert.Greater(t, AlbumScore(1500, 10, cfg), AlbumScore(0, 10, cfg))
}
