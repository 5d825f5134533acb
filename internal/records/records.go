// Package records tracks the all-time best weekly numbers per scope.
package records

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/talgya/hitmaker/internal/world"
)

// PlayerRef identifies the player so their records can be announced.
type PlayerRef struct {
	ID     string
	Name   string
	Handle string
}

// Result is the updated record book plus announcements for this week.
type Result struct {
	Records []world.WorldRecord
	Posts   []world.Post
	Broken  []world.WorldRecord
}

// Definitions returns an empty record for every (category, scope, metric).
func Definitions(regions []world.RegionStats) []world.WorldRecord {
	metrics := []world.RecordMetric{world.MetricWeeklyStreams, world.MetricWeeklySales}
	var defs []world.WorldRecord
	add := func(cat world.RecordCategory, scope string) {
		for _, m := range metrics {
			defs = append(defs, world.WorldRecord{Category: cat, ScopeValue: scope, Metric: m})
		}
	}
	add(world.RecordGlobal, "")
	for _, r := range regions {
		add(world.RecordRegion, string(r.ID))
	}
	for _, g := range world.AllGenres() {
		add(world.RecordGenre, string(g))
	}
	for _, t := range world.AllThemes() {
		add(world.RecordTheme, string(t))
	}
	return defs
}

// Process checks every released, streaming song against every record.
// A record only moves when a song strictly beats it.
func Process(songs []world.Song, current []world.WorldRecord, week int, player PlayerRef) Result {
	recs := append([]world.WorldRecord(nil), current...)

	candidates := make([]world.Song, 0, len(songs))
	for _, s := range songs {
		if s.IsReleased && s.WeeklyStreams > 0 {
			candidates = append(candidates, s)
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })

	var res Result
	for i := range recs {
		rec := &recs[i]
		broke := false
		for _, s := range candidates {
			v, ok := valueFor(s, *rec)
			if !ok || v <= rec.Value {
				continue
			}
			rec.Value = v
			rec.SongID = s.ID
			rec.SongTitle = s.Title
			rec.HolderID = s.ArtistID
			rec.HolderName = s.ArtistName
			rec.DateBrokenWeek = week
			broke = true
		}
		if !broke {
			continue
		}
		res.Broken = append(res.Broken, *rec)
		if (player.ID != "" && rec.HolderID == player.ID) || rec.Category == world.RecordGlobal || rec.Category == world.RecordGenre {
			res.Posts = append(res.Posts, announce(*rec, week))
		}
	}
	res.Records = recs
	return res
}

// valueFor returns the song's number for a record, or false when the song
// is outside the record's scope.
func valueFor(s world.Song, rec world.WorldRecord) (int64, bool) {
	pick := func(streams, sales int64) int64 {
		if rec.Metric == world.MetricWeeklySales {
			return sales
		}
		return streams
	}
	switch rec.Category {
	case world.RecordGlobal:
		return pick(s.WeeklyStreams, s.WeeklySales), true
	case world.RecordRegion:
		st, ok := s.RegionalData[world.RegionID(rec.ScopeValue)]
		if !ok {
			return 0, false
		}
		return pick(st.WeeklyStreams, st.WeeklySales), true
	case world.RecordGenre:
		if string(s.Genre) != rec.ScopeValue {
			return 0, false
		}
		return pick(s.WeeklyStreams, s.WeeklySales), true
	case world.RecordTheme:
		if string(s.Theme) != rec.ScopeValue {
			return 0, false
		}
		return pick(s.WeeklyStreams, s.WeeklySales), true
	}
	return 0, false
}

func announce(rec world.WorldRecord, week int) world.Post {
	metric := "streams"
	if rec.Metric == world.MetricWeeklySales {
		metric = "sales"
	}
	scope := "worldwide"
	if rec.ScopeValue != "" {
		scope = "in " + rec.ScopeValue
	}
	return world.Post{
		ID:         uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("record|%s|%d", rec.Key(), week))).String(),
		Kind:       world.PostRecord,
		Week:       week,
		AuthorID:   "chart-data",
		AuthorName: "Chart Data",
		Handle:     "@chartdata",
		Verified:   true,
		Content: fmt.Sprintf("RECORD: %q by %s just set the biggest week of %s %s ever with %s.",
			rec.SongTitle, rec.HolderName, metric, scope, humanize.Comma(rec.Value)),
		Record: &world.RecordCard{
			Category:   rec.Category,
			Scope:      rec.ScopeValue,
			Metric:     rec.Metric,
			Value:      rec.Value,
			SongTitle:  rec.SongTitle,
			HolderName: rec.HolderName,
		},
	}
}
