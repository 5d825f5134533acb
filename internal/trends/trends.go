// Package trends models genre popularity multipliers and per-theme fatigue.
// Fatigue decays every week; genre trends only move at the year boundary.
package trends

import (
	"sort"

	"github.com/talgya/hitmaker/internal/config"
	"github.com/talgya/hitmaker/internal/entropy"
	"github.com/talgya/hitmaker/internal/world"
)

// Initial returns neutral trends and zero fatigue for every genre and theme.
func Initial() (map[world.Genre]float64, map[world.ThemeID]float64) {
	tr := make(map[world.Genre]float64, len(world.AllGenres()))
	for _, g := range world.AllGenres() {
		tr[g] = 1.0
	}
	fat := make(map[world.ThemeID]float64, len(world.AllThemes()))
	for _, t := range world.AllThemes() {
		fat[t] = 0
	}
	return tr, fat
}

// DecayFatigue returns fatigue reduced by the weekly decay, floored at zero.
func DecayFatigue(fatigue map[world.ThemeID]float64, cfg config.Trends) map[world.ThemeID]float64 {
	out := make(map[world.ThemeID]float64, len(fatigue))
	for theme, v := range fatigue {
		out[theme] = world.NonNegative(v - cfg.FatigueDecayPerWeek)
	}
	return out
}

// RegisterRelease adds release fatigue to a theme.
func RegisterRelease(fatigue map[world.ThemeID]float64, theme world.ThemeID, cfg config.Trends) {
	fatigue[theme] += cfg.FatiguePerRelease
}

// YearBoundary applies the annual shake-up: every genre takes a bounded
// random step and seasonal themes shed most of their fatigue.
func YearBoundary(trends map[world.Genre]float64, fatigue map[world.ThemeID]float64, cfg config.Trends, rng entropy.Source) (map[world.Genre]float64, map[world.ThemeID]float64) {
	nextTrends := make(map[world.Genre]float64, len(trends))
	// Iterate in a fixed order so a seeded source gives the same walk.
	for _, g := range sortedGenres(trends) {
		step := entropy.Range(rng, -cfg.YearlyDrift, cfg.YearlyDrift)
		nextTrends[g] = world.Clamp(trends[g]+step, cfg.Min, cfg.Max)
	}

	nextFatigue := make(map[world.ThemeID]float64, len(fatigue))
	for theme, v := range fatigue {
		nextFatigue[theme] = v
	}
	for _, theme := range []world.ThemeID{world.ThemeChristmas, world.ThemeHalloween} {
		if v, ok := nextFatigue[theme]; ok {
			nextFatigue[theme] = v * cfg.SeasonalCarryOver
		}
	}
	return nextTrends, nextFatigue
}

// RollActiveThemes picks the themes audiences are into this month. A seasonal
// theme is always active during its month; the rest are drawn without
// replacement, favouring low-fatigue themes.
func RollActiveThemes(month int, fatigue map[world.ThemeID]float64, cfg config.Trends, rng entropy.Source) []world.ThemeID {
	var active []world.ThemeID
	var pool []world.ThemeID
	for _, t := range world.AllThemes() {
		if m, seasonal := world.SeasonalMonth(t); seasonal {
			if m == month {
				active = append(active, t)
			}
			continue
		}
		pool = append(pool, t)
	}

	for len(active) < cfg.ActiveThemeCount && len(pool) > 0 {
		weights := make([]float64, len(pool))
		for i, t := range pool {
			weights[i] = 1 / (1 + fatigue[t])
		}
		idx := entropy.Weighted(rng, weights)
		active = append(active, pool[idx])
		pool = append(pool[:idx], pool[idx+1:]...)
	}
	return active
}

// Multiplier returns the trend for a genre, defaulting to neutral.
func Multiplier(trends map[world.Genre]float64, g world.Genre) float64 {
	if v, ok := trends[g]; ok {
		return v
	}
	return 1.0
}

// Hottest returns genres ordered by trend, strongest first.
func Hottest(trends map[world.Genre]float64) []world.Genre {
	gs := sortedGenres(trends)
	sort.SliceStable(gs, func(i, j int) bool { return trends[gs[i]] > trends[gs[j]] })
	return gs
}

func sortedGenres(trends map[world.Genre]float64) []world.Genre {
	gs := make([]world.Genre, 0, len(trends))
	for g := range trends {
		gs = append(gs, g)
	}
	sort.Slice(gs, func(i, j int) bool { return gs[i] < gs[j] })
	return gs
}
