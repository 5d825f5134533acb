// Package performance computes weekly streams and sales for songs and albums.
// It is a pure calculator: callers own the catalog and decide what to keep.
package performance

import (
	"math"

	"github.com/talgya/hitmaker/internal/config"
	"github.com/talgya/hitmaker/internal/entropy"
	"github.com/talgya/hitmaker/internal/trends"
	"github.com/talgya/hitmaker/internal/world"
)

// NPCContext replaces the player's regional popularity with a competitor's
// global popularity when computing an NPC song.
type NPCContext struct {
	Popularity float64 // 0..100
	Hype       float64 // 0..1000
}

// SongInputs are everything a song's week depends on besides the song itself.
type SongInputs struct {
	Regions      []world.RegionStats
	Trends       map[world.Genre]float64
	Fatigue      map[world.ThemeID]float64
	ActiveThemes []world.ThemeID
	Month        int
	Hype         float64
	CurrentWeek  int
	ListenerBase float64
	ChartBonus   float64 // 1.0 = no bonus
	NPC          *NPCContext
	RNG          entropy.Source
	Cfg          config.Performance
}

// ComputeSongWeek returns the song with this week's numbers applied.
// Unreleased songs are returned unchanged. Pending payola is left alone;
// the orchestrator injects it after this call.
func ComputeSongWeek(song world.Song, in SongInputs) world.Song {
	if !song.IsReleased {
		return song
	}
	cfg := in.Cfg

	age := in.CurrentWeek - song.ReleaseWeek
	if age < 0 {
		age = 0
	}
	ageDecay := math.Pow(cfg.SongDecay, float64(age))

	hype := in.Hype
	popularityOverride := -1.0
	if in.NPC != nil {
		hype = in.NPC.Hype
		popularityOverride = in.NPC.Popularity
	}

	chartBonus := in.ChartBonus
	if chartBonus <= 0 {
		chartBonus = 1
	}

	base := in.ListenerBase * cfg.StreamsPerListener *
		QualityFactor(song.Quality) *
		trends.Multiplier(in.Trends, song.Genre) *
		FatiguePenalty(in.Fatigue[song.Theme], cfg.FatigueSensitivity) *
		SeasonalFactor(song.Theme, in.Month, cfg) *
		HypeFactor(hype, cfg.HypeDivisor) *
		themeBonus(song.Theme, in.ActiveThemes, cfg.ActiveThemeBonus) *
		ageDecay * chartBonus

	regional := make(map[world.RegionID]world.RegionalStat, len(in.Regions))
	var weeklyStreams, weeklySales int64
	for _, r := range in.Regions {
		popularity := r.Popularity
		if popularityOverride >= 0 {
			popularity = popularityOverride
		}
		weight := RegionWeight(r, popularity, song.Genre, cfg)
		jitter := 1.0
		if in.RNG != nil && cfg.Jitter > 0 {
			jitter = entropy.Range(in.RNG, 1-cfg.Jitter, 1+cfg.Jitter)
		}

		streams := int64(world.NonNegative(base * weight * jitter))
		sales := int64(world.NonNegative(float64(streams) * cfg.SalesPerStream * salesQuality(song.Quality)))

		prev := song.RegionalData[r.ID]
		regional[r.ID] = world.RegionalStat{
			Streams:       prev.Streams + streams,
			Sales:         prev.Sales + sales,
			WeeklyStreams: streams,
			WeeklySales:   sales,
		}
		weeklyStreams += streams
		weeklySales += sales
	}

	song.RegionalData = regional
	song.WeeklyStreams = weeklyStreams
	song.Streams += weeklyStreams
	song.StreamsThisYear += weeklyStreams
	song.WeeklySales = weeklySales
	song.Sales += weeklySales
	song.SalesThisYear += weeklySales
	return song
}

// AlbumInputs are everything an album's week depends on besides its tracks.
type AlbumInputs struct {
	Regions      []world.RegionStats
	Hype         float64
	ListenerBase float64
	ChartRank    int // last week's GLOBAL_200 rank, 0 if unranked
	CurrentWeek  int
	NPC          *NPCContext
	RNG          entropy.Source
	Cfg          config.Performance
}

// ComputeAlbumWeek recomputes an album's stream totals from the live track
// catalog (tracks missing from the catalog are skipped) and adds a week of
// album sales.
func ComputeAlbumWeek(album world.Album, catalog map[string]world.Song, in AlbumInputs) world.Album {
	if !album.IsReleased {
		return album
	}
	cfg := in.Cfg

	regional := make(map[world.RegionID]world.RegionalStat, len(in.Regions))
	var total, weekly int64
	for _, id := range album.TrackIDs() {
		live, ok := catalog[id]
		if !ok {
			continue
		}
		total += live.Streams
		weekly += live.WeeklyStreams
		for rid, st := range live.RegionalData {
			agg := regional[rid]
			agg.WeeklyStreams += st.WeeklyStreams
			regional[rid] = agg
		}
	}
	album.TotalStreams = total
	album.WeeklyStreams = weekly

	age := in.CurrentWeek - album.ReleaseWeek
	if age < 0 {
		age = 0
	}
	decay := math.Pow(cfg.AlbumDecay, float64(age))

	hype := in.Hype
	popularityOverride := -1.0
	if in.NPC != nil {
		hype = in.NPC.Hype
		popularityOverride = in.NPC.Popularity
	}

	base := in.ListenerBase * cfg.AlbumSalesPerFan *
		BundleFactor(album.Quality, len(album.Tracks), cfg.TrackCountBundle) *
		HypeFactor(hype, cfg.HypeDivisor) *
		AlbumChartBonus(in.ChartRank, cfg.ChartBonusMax) *
		decay

	var weeklySales int64
	for _, r := range in.Regions {
		popularity := r.Popularity
		if popularityOverride >= 0 {
			popularity = popularityOverride
		}
		weight := RegionWeight(r, popularity, album.Genre, cfg)
		jitter := 1.0
		if in.RNG != nil && cfg.Jitter > 0 {
			jitter = entropy.Range(in.RNG, 1-cfg.Jitter, 1+cfg.Jitter)
		}
		sales := int64(world.NonNegative(base * weight * jitter))

		prev := album.RegionalData[r.ID]
		agg := regional[r.ID]
		agg.Streams = prev.Streams + agg.WeeklyStreams
		agg.WeeklySales = sales
		agg.Sales = prev.Sales + sales
		regional[r.ID] = agg
		weeklySales += sales
	}

	album.RegionalData = regional
	album.WeeklySales = weeklySales
	album.Sales += weeklySales
	album.SalesThisYear += weeklySales
	return album
}

// QualityFactor maps 0..100 quality onto a convex stream multiplier (0.2..1.8).
func QualityFactor(quality int) float64 {
	q := world.Clamp(float64(quality), 0, 100) / 100
	return 0.2 + 1.6*q*q
}

// FatiguePenalty shrinks output as a theme is overused; the effect flattens
// out as fatigue grows.
func FatiguePenalty(fatigue, sensitivity float64) float64 {
	return 1 / (1 + world.NonNegative(fatigue)*sensitivity)
}

// SeasonalFactor boosts seasonal themes in their month and dampens them outside it.
func SeasonalFactor(theme world.ThemeID, month int, cfg config.Performance) float64 {
	m, seasonal := world.SeasonalMonth(theme)
	if !seasonal {
		return 1
	}
	if m == month {
		return cfg.SeasonalInBonus
	}
	return cfg.SeasonalOutPenalty
}

// HypeFactor maps 0..1000 hype onto a multiplier starting at 1.
func HypeFactor(hype, divisor float64) float64 {
	if divisor <= 0 {
		return 1
	}
	return 1 + world.NonNegative(hype)/divisor
}

// RegionWeight is how much of a release's audience a region contributes.
func RegionWeight(r world.RegionStats, popularity float64, genre world.Genre, cfg config.Performance) float64 {
	affinity := cfg.WeakRegionFactor
	if r.IsStrong(genre) {
		affinity = cfg.StrongRegionBonus
	}
	return world.Clamp(popularity, 0, 100) / 100 * r.MarketSize * affinity
}

// BundleFactor rewards album quality and, mildly, track count.
func BundleFactor(quality, tracks int, perTrack float64) float64 {
	q := world.Clamp(float64(quality), 0, 100) / 100
	return (0.5 + math.Pow(q, 1.5)) * (1 + perTrack*float64(tracks))
}

// SongChartBonus converts last week's HOT_100 rank into a stream multiplier.
// Unranked songs get 1.
func SongChartBonus(rank, size int, max float64) float64 {
	if rank <= 0 || size <= 0 || rank > size {
		return 1
	}
	return 1 + max*float64(size-rank+1)/float64(size)
}

// AlbumChartBonus converts last week's GLOBAL_200 rank into a sales multiplier.
func AlbumChartBonus(rank int, max float64) float64 {
	return SongChartBonus(rank, 200, max)
}

// ListenerBase is the player's addressable audience.
func ListenerBase(followers int64, cfg config.Performance) float64 {
	return cfg.PlayerBaseListeners + float64(world.NonNegative(followers))*cfg.ListenersPerFollower
}

func themeBonus(theme world.ThemeID, active []world.ThemeID, bonus float64) float64 {
	for _, t := range active {
		if t == theme {
			return bonus
		}
	}
	return 1
}

func salesQuality(quality int) float64 {
	return 0.5 + world.Clamp(float64(quality), 0, 100)/200
}
