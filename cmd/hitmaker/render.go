package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/talgya/hitmaker/internal/world"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	playerStyle = cellStyle.Foreground(lipgloss.Color("214")).Bold(true)
	border      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
)

func movementMark(e world.ChartEntry) string {
	switch e.Movement {
	case world.MovementNew:
		return "NEW"
	case world.MovementReEntry:
		return "RE"
	case world.MovementUp:
		return fmt.Sprintf("▲%d", e.LastWeekRank-e.Rank)
	case world.MovementDown:
		return fmt.Sprintf("▼%d", e.Rank-e.LastWeekRank)
	default:
		return "="
	}
}

// renderChart draws the top limit entries; the player's rows are highlighted.
func renderChart(entries []world.ChartEntry, limit int) string {
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		weekly := e.WeeklyStreams
		if e.IsAlbum {
			weekly = e.WeeklySales
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", e.Rank),
			movementMark(e),
			e.Title,
			e.ArtistName,
			fmt.Sprintf("%d", e.PeakRank),
			fmt.Sprintf("%d", e.WeeksOnChart),
			humanize.Comma(weekly),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(border).
		BorderHeader(true).
		BorderRow(false).
		Headers("#", "±", "Title", "Artist", "Peak", "Wks", "Units").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(entries) && entries[row].IsPlayer {
				return playerStyle
			}
			return cellStyle
		})

	return t.Render()
}

func renderStatus(sv *world.Save) string {
	st := sv.State
	line := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
	}

	lines := []string{
		titleStyle.Render(fmt.Sprintf("%s %s  ·  %s", sv.Artist.Name, sv.Artist.Handle, st.Date)),
		line("Genre", string(sv.Artist.Genre)),
		line("Money", "$"+humanize.Comma(st.Money)),
		line("Hype", fmt.Sprintf("%.0f / 1000", st.Hype)),
		line("Weekly streams", humanize.Comma(st.WeeklyStreams)),
		line("Total streams", humanize.Comma(st.TotalStreams)),
		line("Total sales", humanize.Comma(st.TotalSales)),
		line("Followers", humanize.Comma(st.Social.Followers)),
		line("Reputation", fmt.Sprintf("%.0f", st.Social.Reputation)),
		line("Songs", fmt.Sprintf("%d recorded, %d released", len(st.Songs), released(st.Songs))),
		line("Deals", fmt.Sprintf("%d active, %d pending", len(st.ActiveDeals), len(st.PendingOffers))),
	}
	if st.ActiveTour != nil {
		t := st.ActiveTour
		lines = append(lines, line("Tour", fmt.Sprintf("%s, leg %d/%d, $%s so far",
			t.Name, t.CurrentLegIndex, len(t.Regions), humanize.Comma(t.TotalRevenue))))
	}
	if len(st.ActiveNominations) > 0 {
		var cats []string
		for _, n := range st.ActiveNominations {
			if n.IsPlayer {
				cats = append(cats, n.Category)
			}
		}
		if len(cats) > 0 {
			lines = append(lines, line("Nominated", strings.Join(cats, ", ")))
		}
	}
	return strings.Join(lines, "\n")
}

func released(songs []world.Song) int {
	n := 0
	for _, s := range songs {
		if s.IsReleased {
			n++
		}
	}
	return n
}
