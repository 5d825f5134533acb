package trends

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hitmaker/internal/config"
	"github.com/talgya/hitmaker/internal/entropy"
	"github.com/talgya/hitmaker/internal/world"
)

func TestDecayFatigue_NeverNegative(t *testing.T) {
	cfg := config.Default().Trends
	fat := map[world.ThemeID]float64{
		world.ThemeLove:      10,
		world.ThemeParty:     1,
		world.ThemeChristmas: 0,
	}
	for i := 0; i < 20; i++ {
		fat = DecayFatigue(fat, cfg)
		for theme, v := range fat {
			require.GreaterOrEqual(t, v, 0.0, "theme %s", theme)
		}
	}
	assert.Equal(t, 0.0, fat[world.ThemeLove])
}

func TestDecayFatigue_FixedStep(t *testing.T) {
	cfg := config.Default().Trends
	out := DecayFatigue(map[world.ThemeID]float64{world.ThemeMoney: 5}, cfg)
	assert.InDelta(t, 3.5, out[world.ThemeMoney], 1e-9)
}

func TestYearBoundary_TrendsStayBounded(t *testing.T) {
	cfg := config.Default().Trends
	tr, fat := Initial()
	tr[world.GenrePop] = 1.45
	tr[world.GenreRock] = 0.55
	fat[world.ThemeChristmas] = 10
	fat[world.ThemeHalloween] = 5
	fat[world.ThemeLove] = 8

	src := entropy.NewSeeded(11)
	for i := 0; i < 50; i++ {
		tr, fat = YearBoundary(tr, fat, cfg, src)
		for g, v := range tr {
			require.GreaterOrEqual(t, v, 0.5, "genre %s", g)
			require.LessOrEqual(t, v, 1.5, "genre %s", g)
		}
	}
	assert.Len(t, tr, len(world.AllGenres()))
}

func TestYearBoundary_SeasonalPartialReset(t *testing.T) {
	cfg := config.Default().Trends
	tr, fat := Initial()
	fat[world.ThemeChristmas] = 10
	fat[world.ThemeHalloween] = 5
	fat[world.ThemeLove] = 8

	_, out := YearBoundary(tr, fat, cfg, entropy.NewSeeded(1))
	assert.InDelta(t, 4.0, out[world.ThemeChristmas], 1e-9)
	assert.InDelta(t, 2.0, out[world.ThemeHalloween], 1e-9)
	assert.Equal(t, 8.0, out[world.ThemeLove])
	assert.Equal(t, 10.0, fat[world.ThemeChristmas], "input map untouched")
}

func TestYearBoundary_SeededIsDeterministic(t *testing.T) {
	cfg := config.Default().Trends
	tr, fat := Initial()
	a, _ := YearBoundary(tr, fat, cfg, entropy.NewSeeded(5))
	b, _ := YearBoundary(tr, fat, cfg, entropy.NewSeeded(5))
	assert.Equal(t, a, b)
}

func TestRollActiveThemes(t *testing.T) {
	cfg := config.Default().Trends
	_, fat := Initial()

	dec := RollActiveThemes(12, fat, cfg, entropy.NewSeeded(3))
	assert.Contains(t, dec, world.ThemeChristmas)
	assert.NotContains(t, dec, world.ThemeHalloween)
	assert.Len(t, dec, cfg.ActiveThemeCount)

	may := RollActiveThemes(5, fat, cfg, entropy.NewSeeded(3))
	assert.NotContains(t, may, world.ThemeChristmas)
	assert.Len(t, may, cfg.ActiveThemeCount)

	seen := map[world.ThemeID]bool{}
	for _, th := range may {
		assert.False(t, seen[th], "duplicate theme %s", th)
		seen[th] = true
	}
}

func TestHottest(t *testing.T) {
	tr := map[world.Genre]float64{world.GenrePop: 1.2, world.GenreRock: 1.4, world.GenreIndie: 0.7}
	assert.Equal(t, []world.Genre{world.GenreRock, world.GenrePop, world.GenreIndie}, Hottest(tr))
}
