// Region model: per-region popularity for the player's act, market sizes,
// and the weekly diffusion of popularity between neighboring markets.
package world

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/hitmaker/internal/config"
)

// RegionID identifies a market.
type RegionID string

const (
	RegionNorthAmerica RegionID = "NA"
	RegionLatinAmerica RegionID = "LATAM"
	RegionUK           RegionID = "UK"
	RegionEurope       RegionID = "EU"
	RegionAfrica       RegionID = "AFRICA"
	RegionAsia         RegionID = "ASIA"
	RegionKorea        RegionID = "KR"
	RegionOceania      RegionID = "OCEANIA"
)

// RegionStats is the player's standing in one market.
type RegionStats struct {
	ID           RegionID   `json:"id"`
	Name         string     `json:"name"`
	Popularity   float64    `json:"popularity"`  // 0..100
	MarketSize   float64    `json:"market_size"` // multiplier, 1.0 = reference market
	StrongGenres []Genre    `json:"strong_genres"`
	Neighbors    []RegionID `json:"neighbors"`
}

// IsStrong reports whether the genre over-performs in this market.
func (r RegionStats) IsStrong(g Genre) bool {
	for _, sg := range r.StrongGenres {
		if sg == g {
			return true
		}
	}
	return false
}

// DefaultRegions returns the fixed market set with a new artist's starting popularity.
func DefaultRegions() []RegionStats {
	return []RegionStats{
		{
			ID: RegionNorthAmerica, Name: "North America", Popularity: 6, MarketSize: 1.6,
			StrongGenres: []Genre{GenreHipHop, GenrePop, GenreCountry, GenreRnB},
			Neighbors:    []RegionID{RegionLatinAmerica, RegionUK, RegionOceania},
		},
		{
			ID: RegionLatinAmerica, Name: "Latin America", Popularity: 4, MarketSize: 0.9,
			StrongGenres: []Genre{GenreLatin, GenrePop},
			Neighbors:    []RegionID{RegionNorthAmerica, RegionEurope},
		},
		{
			ID: RegionUK, Name: "United Kingdom", Popularity: 5, MarketSize: 0.7,
			StrongGenres: []Genre{GenreRock, GenreIndie, GenreElectronic, GenrePop},
			Neighbors:    []RegionID{RegionEurope, RegionNorthAmerica},
		},
		{
			ID: RegionEurope, Name: "Europe", Popularity: 4, MarketSize: 1.2,
			StrongGenres: []Genre{GenreElectronic, GenrePop, GenreRock},
			Neighbors:    []RegionID{RegionUK, RegionAfrica, RegionLatinAmerica},
		},
		{
			ID: RegionAfrica, Name: "Africa", Popularity: 3, MarketSize: 0.5,
			StrongGenres: []Genre{GenreHipHop, GenreRnB},
			Neighbors:    []RegionID{RegionEurope},
		},
		{
			ID: RegionAsia, Name: "Asia", Popularity: 3, MarketSize: 1.3,
			StrongGenres: []Genre{GenrePop, GenreKPop, GenreElectronic},
			Neighbors:    []RegionID{RegionKorea, RegionOceania},
		},
		{
			ID: RegionKorea, Name: "South Korea", Popularity: 3, MarketSize: 0.45,
			StrongGenres: []Genre{GenreKPop, GenreRnB, GenreHipHop},
			Neighbors:    []RegionID{RegionAsia},
		},
		{
			ID: RegionOceania, Name: "Oceania", Popularity: 5, MarketSize: 0.35,
			StrongGenres: []Genre{GenrePop, GenreIndie, GenreCountry},
			Neighbors:    []RegionID{RegionAsia, RegionNorthAmerica},
		},
	}
}

// RegionNoise produces a smooth per-region wobble over time so popularity
// drifts organically instead of jumping between independent random values.
type RegionNoise struct {
	noise opensimplex.Noise
}

// NewRegionNoise creates a deterministic noise field for the given seed.
func NewRegionNoise(seed int64) *RegionNoise {
	return &RegionNoise{noise: opensimplex.NewNormalized(seed)}
}

// At returns a value in [-1, 1] for a region slot at a linear week.
func (n *RegionNoise) At(slot, week int) float64 {
	v := octaveNoise(n.noise, float64(slot)*3.7, float64(week), 3, 0.08, 0.5)
	return v*2 - 1
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// DiffuseRegions returns next week's region list. Popularity decays toward
// zero, grows with the square root of the player's weekly streams in that
// market (relative to market size), leaks between neighbors, and wobbles by
// a small noise term. All reads come from the input snapshot so the result
// does not depend on iteration order.
func DiffuseRegions(regions []RegionStats, weeklyStreams map[RegionID]int64, week int, cfg config.Regions, noise *RegionNoise) []RegionStats {
	byID := make(map[RegionID]float64, len(regions))
	for _, r := range regions {
		byID[r.ID] = r.Popularity
	}

	out := make([]RegionStats, len(regions))
	for i, r := range regions {
		pop := r.Popularity * cfg.PopularityDecay

		market := r.MarketSize
		if market <= 0 {
			market = 1
		}
		pop += cfg.StreamGrowth * math.Sqrt(float64(NonNegative(weeklyStreams[r.ID]))/market)

		if len(r.Neighbors) > 0 {
			sum, n := 0.0, 0
			for _, nb := range r.Neighbors {
				if p, ok := byID[nb]; ok {
					sum += p
					n++
				}
			}
			if n > 0 {
				pop += cfg.Diffusion * (sum/float64(n) - r.Popularity)
			}
		}

		if noise != nil {
			pop += cfg.NoiseAmplitude * noise.At(i, week)
		}

		r.Popularity = Clamp(pop, 0, 100)
		r.StrongGenres = append([]Genre(nil), r.StrongGenres...)
		r.Neighbors = append([]RegionID(nil), r.Neighbors...)
		out[i] = r
	}
	return out
}

// MeanPopularity is the unweighted average popularity across regions.
func MeanPopularity(regions []RegionStats) float64 {
	if len(regions) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range regions {
		sum += r.Popularity
	}
	return sum / float64(len(regions))
}

// ApplyPopularityGains adds tour or event gains, clamped to 100.
func ApplyPopularityGains(regions []RegionStats, gains map[RegionID]float64) {
	for i := range regions {
		if g, ok := gains[regions[i].ID]; ok {
			regions[i].Popularity = Clamp(regions[i].Popularity+g, 0, 100)
		}
	}
}
