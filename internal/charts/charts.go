// Package charts ranks songs and albums into the weekly charts.
package charts

import (
	"sort"

	"github.com/talgya/hitmaker/internal/config"
	"github.com/talgya/hitmaker/internal/world"
)

// Input is everything a chart week needs. Songs and Albums are the combined
// player and NPC catalogs.
type Input struct {
	Songs    []world.Song
	Albums   []world.Album
	Previous map[world.ChartKey][]world.ChartEntry
	Memory   map[world.ChartKey]map[string]world.ChartMemory
	History  map[world.ChartKey]map[string][]world.ChartPoint
	Regions  []world.RegionStats
	Week     int // linear week
	Cfg      config.Charts
}

// Output replaces the chart fields of the next state.
type Output struct {
	Charts  map[world.ChartKey][]world.ChartEntry
	Memory  map[world.ChartKey]map[string]world.ChartMemory
	History map[world.ChartKey]map[string][]world.ChartPoint
}

// candidate is one item competing for a chart slot.
type candidate struct {
	id, title, artistID, artistName string
	streams, sales                  int64
	score                           float64
	isPlayer, isAlbum               bool
}

// Generate builds every chart for the week. Inputs are not mutated.
func Generate(in Input) Output {
	out := Output{
		Charts:  make(map[world.ChartKey][]world.ChartEntry),
		Memory:  copyMemory(in.Memory),
		History: copyHistory(in.History),
	}

	rank := func(key world.ChartKey, pool []candidate, size int) {
		entries := rankPool(pool, size, in.Previous[key], out.Memory[key])
		out.Charts[key] = entries
		mem := out.Memory[key]
		if mem == nil {
			mem = make(map[string]world.ChartMemory)
			out.Memory[key] = mem
		}
		for _, e := range entries {
			mem[e.ItemID] = world.ChartMemory{
				PeakRank:     e.PeakRank,
				LastRank:     e.Rank,
				LastWeek:     in.Week,
				WeeksOnChart: e.WeeksOnChart,
			}
			if e.IsPlayer {
				if out.History[key] == nil {
					out.History[key] = make(map[string][]world.ChartPoint)
				}
				out.History[key][e.ItemID] = append(out.History[key][e.ItemID], world.ChartPoint{Week: in.Week, Rank: e.Rank})
			}
		}
	}

	rank(world.ChartHot100, songCandidates(in.Songs, "", in.Cfg), in.Cfg.Hot100Size)
	rank(world.ChartGlobal200, albumCandidates(in.Albums, "", in.Cfg), in.Cfg.Global200Size)
	for _, r := range in.Regions {
		rank(world.RegionalSongChart(r.ID), songCandidates(in.Songs, r.ID, in.Cfg), in.Cfg.RegionalSize)
		rank(world.RegionalAlbumChart(r.ID), albumCandidates(in.Albums, r.ID, in.Cfg), in.Cfg.RegionalSize)
	}

	// Forget items that have been off a chart for two sim-years.
	for _, mem := range out.Memory {
		for id, m := range mem {
			if in.Week-m.LastWeek > 2*world.WeeksPerYear {
				delete(mem, id)
			}
		}
	}
	return out
}

// SongScore is the chart score of a song's week.
func SongScore(streams, sales int64, cfg config.Charts) float64 {
	return float64(streams)*cfg.SongStreamWeight + float64(sales)*cfg.SongSaleWeight
}

// AlbumScore is the chart score of an album's week.
func AlbumScore(streams, sales int64, cfg config.Charts) float64 {
	return float64(streams)*cfg.AlbumStreamWeight + float64(sales)*cfg.AlbumSaleWeight
}

func songCandidates(songs []world.Song, region world.RegionID, cfg config.Charts) []candidate {
	out := make([]candidate, 0, len(songs))
	for _, s := range songs {
		if !s.IsReleased {
			continue
		}
		streams, sales := s.WeeklyStreams, s.WeeklySales
		if region != "" {
			st := s.RegionalData[region]
			streams, sales = st.WeeklyStreams, st.WeeklySales
		}
		out = append(out, candidate{
			id: s.ID, title: s.Title, artistID: s.ArtistID, artistName: s.ArtistName,
			streams: streams, sales: sales,
			score:    SongScore(streams, sales, cfg),
			isPlayer: s.IsPlayer,
		})
	}
	return out
}

func albumCandidates(albums []world.Album, region world.RegionID, cfg config.Charts) []candidate {
	out := make([]candidate, 0, len(albums))
	for _, a := range albums {
		if !a.IsReleased {
			continue
		}
		streams, sales := a.WeeklyStreams, a.WeeklySales
		if region != "" {
			st := a.RegionalData[region]
			streams, sales = st.WeeklyStreams, st.WeeklySales
		}
		out = append(out, candidate{
			id: a.ID, title: a.Title, artistID: a.ArtistID, artistName: a.ArtistName,
			streams: streams, sales: sales,
			score:    AlbumScore(streams, sales, cfg),
			isPlayer: a.IsPlayer,
			isAlbum:  true,
		})
	}
	return out
}

// rankPool sorts a candidate pool into a chart of at most size entries and
// classifies each entry against last week's chart and the key's memory.
// Equal scores are ordered by item id so the result never depends on
// catalog order.
func rankPool(pool []candidate, size int, previous []world.ChartEntry, memory map[string]world.ChartMemory) []world.ChartEntry {
	scored := make([]candidate, 0, len(pool))
	for _, c := range pool {
		if c.score > 0 {
			scored = append(scored, c)
		}
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].id < scored[j].id
	})
	if size > 0 && len(scored) > size {
		scored = scored[:size]
	}

	lastWeek := make(map[string]world.ChartEntry, len(previous))
	for _, e := range previous {
		lastWeek[e.ItemID] = e
	}

	entries := make([]world.ChartEntry, len(scored))
	for i, c := range scored {
		rank := i + 1
		e := world.ChartEntry{
			Rank:          rank,
			ItemID:        c.id,
			Title:         c.title,
			ArtistID:      c.artistID,
			ArtistName:    c.artistName,
			Score:         c.score,
			IsPlayer:      c.isPlayer,
			IsAlbum:       c.isAlbum,
			WeeklyStreams: c.streams,
			WeeklySales:   c.sales,
			PeakRank:      rank,
			WeeksOnChart:  1,
		}

		mem, seen := memory[c.id]
		if prev, ok := lastWeek[c.id]; ok {
			e.LastWeekRank = prev.Rank
			e.WeeksOnChart = prev.WeeksOnChart + 1
			e.Movement = classify(prev.Rank, rank)
			peak := prev.PeakRank
			if seen && mem.PeakRank > 0 && mem.PeakRank < peak {
				peak = mem.PeakRank
			}
			if peak > 0 && peak < rank {
				e.PeakRank = peak
			}
		} else if seen {
			e.Movement = world.MovementReEntry
			if mem.PeakRank > 0 && mem.PeakRank < rank {
				e.PeakRank = mem.PeakRank
			}
		} else {
			e.Movement = world.MovementNew
		}
		entries[i] = e
	}
	return entries
}

func classify(lastRank, rank int) world.Movement {
	switch {
	case rank < lastRank:
		return world.MovementUp
	case rank > lastRank:
		return world.MovementDown
	default:
		return world.MovementSame
	}
}

func copyMemory(in map[world.ChartKey]map[string]world.ChartMemory) map[world.ChartKey]map[string]world.ChartMemory {
	out := make(map[world.ChartKey]map[string]world.ChartMemory, len(in))
	for k, m := range in {
		cm := make(map[string]world.ChartMemory, len(m))
		for id, v := range m {
			cm[id] = v
		}
		out[k] = cm
	}
	return out
}

func copyHistory(in map[world.ChartKey]map[string][]world.ChartPoint) map[world.ChartKey]map[string][]world.ChartPoint {
	out := make(map[world.ChartKey]map[string][]world.ChartPoint, len(in))
	for k, m := range in {
		cm := make(map[string][]world.ChartPoint, len(m))
		for id, pts := range m {
			cm[id] = append([]world.ChartPoint(nil), pts...)
		}
		out[k] = cm
	}
	return out
}

// Top returns the entry at rank 1, if any.
func Top(entries []world.ChartEntry) (world.ChartEntry, bool) {
	if len(entries) == 0 {
		return world.ChartEntry{}, false
	}
	return entries[0], true
}

// RankOf returns an item's rank on a chart, 0 when absent.
func RankOf(entries []world.ChartEntry, id string) int {
	for _, e := range entries {
		if e.ItemID == id {
			return e.Rank
		}
	}
	return 0
}
