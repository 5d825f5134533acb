package awards

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hitmaker/internal/config"
	"github.com/talgya/hitmaker/internal/entropy"
	"github.com/talgya/hitmaker/internal/world"
)

func TestSchedule(t *testing.T) {
	cfg := config.Default().Awards
	assert.True(t, IsNominationWeek(world.Date{Week: 1, Month: 11, Year: 2024}, cfg))
	assert.False(t, IsNominationWeek(world.Date{Week: 2, Month: 11, Year: 2024}, cfg))
	assert.True(t, IsCeremonyWeek(world.Date{Week: 2, Month: 2, Year: 2025}, cfg))
}

func catalog() []world.Song {
	var songs []world.Song
	for i := 0; i < 8; i++ {
		songs = append(songs, world.Song{
			ID: fmt.Sprintf("n%d", i), Title: fmt.Sprintf("Song %d", i), ArtistID: "npc",
			Genre: world.GenrePop, Quality: 60, IsReleased: true, ReleaseWeek: 5,
			StreamsThisYear: int64(1_000_000 * (i + 1)),
		})
	}
	songs = append(songs,
		world.Song{ID: "mine", Title: "Glass", ArtistID: "me", IsPlayer: true, Genre: world.GenreRock, Quality: 90,
			IsReleased: true, ReleaseWeek: 20, StreamsThisYear: 500_000},
		world.Song{ID: "last-year", IsReleased: true, ReleaseWeek: 40 - world.WeeksPerYear, StreamsThisYear: 99_000_000},
		world.Song{ID: "demo", ReleaseWeek: 10, StreamsThisYear: 99_000_000},
	)
	return songs
}

func TestNominate(t *testing.T) {
	cfg := config.Default().Awards
	noms := Nominate(Input{
		Year:   2024,
		Songs:  catalog(),
		Albums: []world.Album{{ID: "al", Title: "Chapters", IsReleased: true, ReleaseWeek: 12, SalesThisYear: 10_000, Quality: 70}},
		Artist: world.Artist{ID: "me", Genre: world.GenreRock},
		Cfg:    cfg,
	})

	byCat := map[string][]world.Nomination{}
	for _, n := range noms {
		byCat[n.Category] = append(byCat[n.Category], n)
		assert.NotEqual(t, "last-year", n.NomineeID)
		assert.NotEqual(t, "demo", n.NomineeID)
	}
	require.Len(t, byCat[SongOfTheYear], cfg.Nominees)
	assert.Equal(t, "n7", byCat[RecordOfTheYear][0].NomineeID)
	require.Len(t, byCat[BestGenre(world.GenreRock)], 1)
	assert.True(t, byCat[BestGenre(world.GenreRock)][0].IsPlayer)
	require.Len(t, byCat[AlbumOfTheYear], 1)
	assert.Equal(t, []string{SongOfTheYear, RecordOfTheYear, BestGenre(world.GenreRock), AlbumOfTheYear}, Categories(noms))
}

func TestCeremony_PlayerWinAndPerformance(t *testing.T) {
	cfg := config.Default().Awards
	noms := []world.Nomination{
		{Year: 2024, Category: "Best Rock", NomineeID: "mine", IsPlayer: true, Score: 1_000},
		{Year: 2024, Category: "Best Rock", NomineeID: "theirs", Score: 10},
		{Year: 2024, Category: SongOfTheYear, NomineeID: "big", Score: 5_000},
	}
	res := Ceremony(noms, "mine", entropy.NewSeeded(1), cfg)

	require.Len(t, res.Results, 2)
	assert.True(t, res.Results[0].PlayerWon)
	assert.True(t, res.Results[0].PlayerNominated)
	assert.False(t, res.Results[1].PlayerNominated)
	assert.Equal(t, 1, res.PlayerWins)
	assert.Equal(t, cfg.WinMoney, res.Money)
	assert.Equal(t, cfg.WinHype+cfg.PerformanceHype, res.HypeDelta)
	assert.Equal(t, "mine", res.PerformedSong)
}

func TestCeremony_PerformanceNeedsNomination(t *testing.T) {
	cfg := config.Default().Awards
	noms := []world.Nomination{{Category: SongOfTheYear, NomineeID: "x", Score: 1}}
	res := Ceremony(noms, "mine", entropy.NewSeeded(1), cfg)
	assert.Zero(t, res.HypeDelta)
	assert.Empty(t, res.PerformedSong)
}

func TestPosts(t *testing.T) {
	rng := entropy.NewSeeded(2)
	noms := []world.Nomination{
		{Category: SongOfTheYear, NomineeTitle: "Glass", ArtistName: "Nova", IsPlayer: true},
		{Category: SongOfTheYear, NomineeTitle: "Other"},
	}
	posts := NominationPosts(noms, 41, rng)
	require.Len(t, posts, 2)
	for _, p := range posts {
		assert.Equal(t, world.PostAward, p.Kind)
		assert.NotNil(t, p.Award)
	}

	res := ResultPosts([]world.AwardResult{{Category: SongOfTheYear, WinnerTitle: "Glass", ArtistName: "Nova"}}, 54, rng)
	require.Len(t, res, 1)
	assert.True(t, res[0].Award.Won)
}
