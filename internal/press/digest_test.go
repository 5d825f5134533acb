package press

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hitmaker/internal/llm"
	"github.com/talgya/hitmaker/internal/world"
)

func testSave() *world.Save {
	date := world.Date{Week: 2, Month: 3, Year: 2024}
	return &world.Save{
		Artist: world.Artist{ID: "p1", Name: "Nova", Genre: world.GenreRock},
		State: &world.State{
			Date:          date,
			WeeklyStreams: 1_250_000,
			WeeklySales:   3_400,
			Hype:          420,
			ActiveCharts: map[world.ChartKey][]world.ChartEntry{
				world.ChartHot100: {
					{Rank: 1, Title: "Neon Rain", ArtistName: "Lumen", Movement: world.MovementNew, WeeksOnChart: 1},
					{Rank: 2, Title: "Glass", ArtistName: "Nova", IsPlayer: true, WeeksOnChart: 3, LastWeekRank: 4, Movement: world.MovementUp},
				},
			},
			WorldRecords: []world.WorldRecord{
				{Category: world.RecordGenre, ScopeValue: "rock", Metric: world.MetricWeeklyStreams,
					Value: 900_000, HolderID: "p1", HolderName: "Nova", SongTitle: "Glass", DateBrokenWeek: date.Linear()},
				{Category: world.RecordGlobal, Metric: world.MetricWeeklySales,
					Value: 10, HolderID: "x", HolderName: "Old", SongTitle: "Old Song", DateBrokenWeek: 1},
			},
			ActiveTour: &world.ActiveTour{Name: "First Steps"},
		},
	}
}

func TestGather(t *testing.T) {
	f := Gather(testSave())
	assert.Equal(t, 2, f.BestRank)
	require.Len(t, f.NewRecords, 1)
	assert.Equal(t, "Glass", f.NewRecords[0].SongTitle)
	assert.Equal(t, "First Steps", f.OnTour)
	assert.Len(t, f.Hot100, 2)
}

func TestWrite_FallbackWithoutClient(t *testing.T) {
	d := Write(context.Background(), nil, testSave())
	assert.False(t, d.Generated)
	assert.Contains(t, d.Content, "Lumen debuts at #1")
	assert.Contains(t, d.Content, "Genre weekly streams (rock)")
	assert.Contains(t, d.Content, "1,250,000")
	assert.Contains(t, d.Content, "On the road: First Steps")
	assert.Equal(t, Write(context.Background(), nil, testSave()).Content, d.Content)
}

func TestWrite_UsesClient(t *testing.T) {
	var prompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []llm.Message `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		prompt = req.Messages[0].Content
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"text":"Lumen rules the week."}]}`))
	}))
	defer srv.Close()

	d := Write(context.Background(), llm.NewClient("key", llm.WithURL(srv.URL)), testSave())
	assert.True(t, d.Generated)
	assert.Equal(t, "Lumen rules the week.", d.Content)
	assert.Contains(t, prompt, "FEATURED ARTIST: Nova (Rock)")
	assert.Contains(t, prompt, "Best Hot 100 position this week: #2")
}

func TestWrite_FallsBackOnAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	d := Write(context.Background(), llm.NewClient("key", llm.WithURL(srv.URL)), testSave())
	assert.False(t, d.Generated)
	assert.Contains(t, d.Content, "PULSE WEEKLY")
}
