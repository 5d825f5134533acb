// Package press writes the weekly music-press recap. It asks Haiku for the
// copy when a client is configured and falls back to a fixed template.
package press

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hitmaker/internal/llm"
	"github.com/talgya/hitmaker/internal/world"
)

const maxTokens = 600

const systemPrompt = `You are the lead columnist of Pulse Weekly, a music trade paper.
Write a punchy recap of this week in music in under 220 words. Lead with the
biggest chart story, mention any broken records, and close with a line about
the featured artist. Plain text, no markdown headings. Only use the facts given.`

// Digest is one issue of the weekly recap.
type Digest struct {
	GeneratedAt time.Time `json:"generated_at"`
	Week        int       `json:"week"`
	Date        string    `json:"date"`
	Content     string    `json:"content"`
	Generated   bool      `json:"generated"` // false when the template was used
}

// Facts is what a digest is written from.
type Facts struct {
	Date        world.Date
	Artist      world.Artist
	Hot100      []world.ChartEntry
	Global200   []world.ChartEntry
	BestRank    int
	Streams     int64
	Sales       int64
	Money       int64
	Hype        float64
	Followers   int64
	NewRecords  []world.WorldRecord
	OnTour      string
	ActiveDeals int
}

// Gather collects the facts for the save's current week.
func Gather(sv *world.Save) Facts {
	st := sv.State
	f := Facts{
		Date:        st.Date,
		Artist:      sv.Artist,
		Hot100:      top(st.ActiveCharts[world.ChartHot100], 5),
		Global200:   top(st.ActiveCharts[world.ChartGlobal200], 3),
		Streams:     st.WeeklyStreams,
		Sales:       st.WeeklySales,
		Money:       st.Money,
		Hype:        st.Hype,
		Followers:   st.Social.Followers,
		ActiveDeals: len(st.ActiveDeals),
	}
	for _, e := range st.ActiveCharts[world.ChartHot100] {
		if e.IsPlayer && (f.BestRank == 0 || e.Rank < f.BestRank) {
			f.BestRank = e.Rank
		}
	}
	week := st.Date.Linear()
	for _, r := range st.WorldRecords {
		if r.DateBrokenWeek == week && r.HolderID != "" {
			f.NewRecords = append(f.NewRecords, r)
		}
	}
	if st.ActiveTour != nil {
		f.OnTour = st.ActiveTour.Name
	}
	return f
}

func top(entries []world.ChartEntry, n int) []world.ChartEntry {
	if len(entries) > n {
		return entries[:n]
	}
	return entries
}

// Write produces the digest. Any client failure is logged and the template
// is used instead, so Write never fails.
func Write(ctx context.Context, client *llm.Client, sv *world.Save) Digest {
	f := Gather(sv)
	d := Digest{
		GeneratedAt: time.Now().UTC(),
		Week:        f.Date.Linear(),
		Date:        f.Date.String(),
	}

	if client.Enabled() {
		content, err := client.Complete(ctx, systemPrompt, Prompt(f), maxTokens)
		if err == nil && strings.TrimSpace(content) != "" {
			d.Content = content
			d.Generated = true
			return d
		}
		slog.Warn("press digest fell back to template", "error", err)
	}

	d.Content = Fallback(f)
	return d
}

// Prompt renders the facts as the user prompt.
func Prompt(f Facts) string {
	var b strings.Builder

	fmt.Fprintf(&b, "WEEK: %s\n\n", f.Date)

	if len(f.Hot100) > 0 {
		b.WriteString("HOT 100 TOP 5:\n")
		for _, e := range f.Hot100 {
			fmt.Fprintf(&b, "%d. %q by %s (%s, %d weeks on chart, %s streams)\n",
				e.Rank, e.Title, e.ArtistName, e.Movement, e.WeeksOnChart, humanize.Comma(e.WeeklyStreams))
		}
		b.WriteString("\n")
	}

	if len(f.Global200) > 0 {
		b.WriteString("GLOBAL 200 TOP 3:\n")
		for _, e := range f.Global200 {
			fmt.Fprintf(&b, "%d. %q by %s\n", e.Rank, e.Title, e.ArtistName)
		}
		b.WriteString("\n")
	}

	if len(f.NewRecords) > 0 {
		b.WriteString("RECORDS BROKEN:\n")
		for _, r := range f.NewRecords {
			fmt.Fprintf(&b, "- %s: %q by %s, %s\n", recordLabel(r), r.SongTitle, r.HolderName, humanize.Comma(r.Value))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "FEATURED ARTIST: %s (%s)\n", f.Artist.Name, f.Artist.Genre)
	fmt.Fprintf(&b, "Weekly streams %s, sales %s, hype %.0f/1000, %s followers.\n",
		humanize.Comma(f.Streams), humanize.Comma(f.Sales), f.Hype, humanize.Comma(f.Followers))
	if f.BestRank > 0 {
		fmt.Fprintf(&b, "Best Hot 100 position this week: #%d.\n", f.BestRank)
	} else {
		b.WriteString("Not on the Hot 100 this week.\n")
	}
	if f.OnTour != "" {
		fmt.Fprintf(&b, "Currently on the road with the %s tour.\n", f.OnTour)
	}
	return b.String()
}

// Fallback is the template digest.
func Fallback(f Facts) string {
	var b strings.Builder

	b.WriteString("PULSE WEEKLY\n")
	b.WriteString("============\n")
	fmt.Fprintf(&b, "%s\n\n", f.Date)

	if len(f.Hot100) > 0 {
		lead := f.Hot100[0]
		switch {
		case lead.Movement == world.MovementNew:
			fmt.Fprintf(&b, "%s debuts at #1 with %q.\n", lead.ArtistName, lead.Title)
		case lead.WeeksOnChart > 1 && lead.LastWeekRank == 1:
			fmt.Fprintf(&b, "%q by %s holds the top spot for another week.\n", lead.Title, lead.ArtistName)
		default:
			fmt.Fprintf(&b, "%q by %s climbs to #1.\n", lead.Title, lead.ArtistName)
		}
		b.WriteString("\nTHE HOT 100\n")
		for _, e := range f.Hot100 {
			fmt.Fprintf(&b, "%d. %s - %s\n", e.Rank, e.Title, e.ArtistName)
		}
		b.WriteString("\n")
	} else {
		b.WriteString("A quiet week: the charts are still taking shape.\n\n")
	}

	if len(f.NewRecords) > 0 {
		b.WriteString("RECORD BOOK\n")
		for _, r := range f.NewRecords {
			fmt.Fprintf(&b, "- %s now belongs to %q by %s (%s)\n",
				recordLabel(r), r.SongTitle, r.HolderName, humanize.Comma(r.Value))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "SPOTLIGHT: %s\n", strings.ToUpper(f.Artist.Name))
	fmt.Fprintf(&b, "%s streams and %s sales this week. Hype sits at %.0f.\n",
		humanize.Comma(f.Streams), humanize.Comma(f.Sales), f.Hype)
	if f.BestRank > 0 {
		fmt.Fprintf(&b, "Highest Hot 100 entry: #%d.\n", f.BestRank)
	}
	if f.OnTour != "" {
		fmt.Fprintf(&b, "On the road: %s.\n", f.OnTour)
	}

	return b.String()
}

func recordLabel(r world.WorldRecord) string {
	metric := "weekly streams"
	if r.Metric == world.MetricWeeklySales {
		metric = "weekly sales"
	}
	if r.Category == world.RecordGlobal {
		return "Global " + metric
	}
	cat := strings.ToLower(string(r.Category))
	return fmt.Sprintf("%s%s %s (%s)", strings.ToUpper(cat[:1]), cat[1:], metric, r.ScopeValue)
}
