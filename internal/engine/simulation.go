// Simulation ties together all world systems and runs them once per week.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/talgya/hitmaker/internal/awards"
	"github.com/talgya/hitmaker/internal/brands"
	"github.com/talgya/hitmaker/internal/charts"
	"github.com/talgya/hitmaker/internal/config"
	"github.com/talgya/hitmaker/internal/entropy"
	"github.com/talgya/hitmaker/internal/npc"
	"github.com/talgya/hitmaker/internal/performance"
	"github.com/talgya/hitmaker/internal/records"
	"github.com/talgya/hitmaker/internal/social"
	"github.com/talgya/hitmaker/internal/tour"
	"github.com/talgya/hitmaker/internal/trends"
	"github.com/talgya/hitmaker/internal/world"
)

// ErrTickPanic wraps a panic recovered while computing a week.
var ErrTickPanic = errors.New("week computation panicked")

// Simulation holds the tuning and the random source shared by every system.
// It carries no world state of its own.
type Simulation struct {
	Cfg     config.Balance
	RNG     entropy.Source
	Noise   *world.RegionNoise
	Brands  []brands.Brand
	Spawner *npc.Spawner
}

// NewSimulation wires the systems for one balance and source.
func NewSimulation(cfg config.Balance, rng entropy.Source) *Simulation {
	return &Simulation{
		Cfg:     cfg,
		RNG:     rng,
		Noise:   world.NewRegionNoise(cfg.Regions.NoiseSeed),
		Brands:  brands.Catalog(),
		Spawner: npc.NewSpawner(rng, cfg.NPC),
	}
}

// Summary is the headline of a processed week.
type Summary struct {
	Date          world.Date `json:"date"`
	Streams       int64      `json:"streams"`
	Sales         int64      `json:"sales"`
	Income        int64      `json:"income"`
	Hype          float64    `json:"hype"`
	Money         int64      `json:"money"`
	BestRank      int        `json:"best_rank"`
	RecordsBroken int        `json:"records_broken"`
	NewOffers     int        `json:"new_offers"`
	Posts         int        `json:"posts"`
}

// WeekResult is the outcome of AdvanceWeek. When Err is set, State is the
// unchanged input.
type WeekResult struct {
	State         *world.State
	YearAdvanced  bool
	MonthAdvanced bool
	Summary       Summary
	Err           error
}

// week carries the state under construction through the pipeline.
type week struct {
	prev    *world.State
	next    *world.State
	artist  world.Artist
	lw      int
	events  []world.Post
	inbox   []world.Message
	income  int64
	broken  int
	offers  int
	streams int64
	sales   int64
}

// AdvanceWeek computes the week after prev. prev is never modified. Any
// validation failure or panic discards the whole week.
func (s *Simulation) AdvanceWeek(prev *world.State, artist world.Artist) (res WeekResult) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", ErrTickPanic, r)
			slog.Error("week discarded", "error", err)
			res = WeekResult{State: prev, Err: err}
		}
	}()

	if err := prev.Validate(); err != nil {
		slog.Error("week discarded", "error", err)
		return WeekResult{State: prev, Err: fmt.Errorf("advance week: %w", err)}
	}
	next, err := prev.Clone()
	if err != nil {
		slog.Error("week discarded", "error", err)
		return WeekResult{State: prev, Err: fmt.Errorf("advance week: %w", err)}
	}

	w := &week{prev: prev, next: next, artist: artist}
	var monthChanged, yearChanged bool
	next.Date, monthChanged, yearChanged = prev.Date.Next()
	w.lw = next.Date.Linear()

	s.advanceTrends(w, monthChanged, yearChanged)
	s.npcReleases(w)
	s.playerSongs(w)
	s.npcSongs(w)
	s.albums(w)
	s.income(w)
	s.touring(w)
	s.diffuse(w)
	s.hype(w)
	s.charts(w)
	s.records(w)
	s.brandDeals(w)
	s.awardsCycle(w)
	posts := s.audience(w)
	s.totals(w)

	sum := Summary{
		Date:          next.Date,
		Streams:       w.streams,
		Sales:         w.sales,
		Income:        w.income,
		Hype:          next.Hype,
		Money:         next.Money,
		BestRank:      bestRank(next.ActiveCharts[world.ChartHot100]),
		RecordsBroken: w.broken,
		NewOffers:     w.offers,
		Posts:         posts,
	}
	slog.Info("weekly summary",
		"date", next.Date.String(),
		"streams", sum.Streams,
		"sales", sum.Sales,
		"income", sum.Income,
		"money", sum.Money,
		"hype", fmt.Sprintf("%.1f", sum.Hype),
		"best_rank", sum.BestRank,
		"records_broken", sum.RecordsBroken,
		"npc_songs", len(next.NPCSongs),
	)

	return WeekResult{State: next, YearAdvanced: yearChanged, MonthAdvanced: monthChanged, Summary: sum}
}

func (s *Simulation) advanceTrends(w *week, monthChanged, yearChanged bool) {
	st := w.next
	st.ThemeFatigue = trends.DecayFatigue(st.ThemeFatigue, s.Cfg.Trends)
	if yearChanged {
		st.Trends, st.ThemeFatigue = trends.YearBoundary(st.Trends, st.ThemeFatigue, s.Cfg.Trends, s.RNG)
		resetYearly(st)
	}
	if monthChanged || len(st.ActiveThemes) == 0 {
		st.ActiveThemes = trends.RollActiveThemes(st.Date.Month, st.ThemeFatigue, s.Cfg.Trends, s.RNG)
	}
}

func resetYearly(st *world.State) {
	st.YearlyStreams = 0
	st.YearlySales = 0
	for _, songs := range [][]world.Song{st.Songs, st.NPCSongs} {
		for i := range songs {
			songs[i].StreamsThisYear = 0
			songs[i].SalesThisYear = 0
		}
	}
	for _, albums := range [][]world.Album{st.Albums, st.NPCAlbums} {
		for i := range albums {
			albums[i].SalesThisYear = 0
		}
	}
}

func (s *Simulation) npcReleases(w *week) {
	st := w.next
	st.NPCArtists = s.Spawner.Drift(st.NPCArtists)
	rel := s.Spawner.WeeklyReleases(st.NPCArtists, w.lw)
	st.NPCSongs = append(st.NPCSongs, rel.Songs...)
	st.NPCAlbums = append(st.NPCAlbums, rel.Albums...)
}

func (s *Simulation) songInputs(w *week) performance.SongInputs {
	st := w.next
	return performance.SongInputs{
		Regions:      st.Regions,
		Trends:       st.Trends,
		Fatigue:      st.ThemeFatigue,
		ActiveThemes: st.ActiveThemes,
		Month:        st.Date.Month,
		Hype:         st.Hype,
		CurrentWeek:  w.lw,
		ListenerBase: performance.ListenerBase(st.Social.Followers, s.Cfg.Performance),
		RNG:          s.RNG,
		Cfg:          s.Cfg.Performance,
	}
}

func (s *Simulation) chartBonus(w *week, id string) float64 {
	rank := charts.RankOf(w.prev.ActiveCharts[world.ChartHot100], id)
	return performance.SongChartBonus(rank, s.Cfg.Charts.Hot100Size, s.Cfg.Performance.ChartBonusMax)
}

func (s *Simulation) playerSongs(w *week) {
	st := w.next
	in := s.songInputs(w)
	for i, song := range st.Songs {
		in.ChartBonus = s.chartBonus(w, song.ID)
		st.Songs[i] = applyPayola(performance.ComputeSongWeek(song, in), st.Regions)
	}
}

// applyPayola books the queued bought streams into the song's week, split
// across regions by market size, and clears the queue.
func applyPayola(song world.Song, regions []world.RegionStats) world.Song {
	bought := song.PendingPayolaStreams
	if bought <= 0 || !song.IsReleased {
		return song
	}
	song.WeeklyStreams += bought
	song.Streams += bought
	song.StreamsThisYear += bought
	song.PendingPayolaStreams = 0

	totalMarket := 0.0
	for _, r := range regions {
		totalMarket += r.MarketSize
	}
	if totalMarket <= 0 {
		return song
	}
	if song.RegionalData == nil {
		song.RegionalData = make(map[world.RegionID]world.RegionalStat, len(regions))
	}
	var assigned int64
	for i, r := range regions {
		share := int64(math.Floor(float64(bought) * r.MarketSize / totalMarket))
		if i == len(regions)-1 {
			share = bought - assigned
		}
		assigned += share
		stat := song.RegionalData[r.ID]
		stat.WeeklyStreams += share
		stat.Streams += share
		song.RegionalData[r.ID] = stat
	}
	return song
}

func (s *Simulation) npcSongs(w *week) {
	st := w.next
	byID := make(map[string]world.NPCArtist, len(st.NPCArtists))
	for _, a := range st.NPCArtists {
		byID[a.ID] = a
	}
	in := s.songInputs(w)
	for i, song := range st.NPCSongs {
		a := byID[song.ArtistID]
		in.NPC = &performance.NPCContext{Popularity: a.Popularity, Hype: a.Hype}
		in.ListenerBase = s.Cfg.NPC.ListenersPerPop * a.Popularity
		in.ChartBonus = s.chartBonus(w, song.ID)
		st.NPCSongs[i] = performance.ComputeSongWeek(song, in)
	}
	st.NPCSongs = npc.Collect(st.NPCSongs, chartedIDs(w.prev.ActiveCharts), w.lw, s.Cfg.NPC.MaxSongAgeWeeks)
}

func chartedIDs(cs map[world.ChartKey][]world.ChartEntry) map[string]bool {
	ids := make(map[string]bool)
	for _, entries := range cs {
		for _, e := range entries {
			ids[e.ItemID] = true
		}
	}
	return ids
}

func (s *Simulation) albums(w *week) {
	st := w.next
	prevAlbums := w.prev.ActiveCharts[world.ChartGlobal200]

	catalog := songIndex(st.Songs)
	in := performance.AlbumInputs{
		Regions:      st.Regions,
		Hype:         st.Hype,
		ListenerBase: performance.ListenerBase(st.Social.Followers, s.Cfg.Performance),
		CurrentWeek:  w.lw,
		RNG:          s.RNG,
		Cfg:          s.Cfg.Performance,
	}
	for i, a := range st.Albums {
		in.ChartRank = charts.RankOf(prevAlbums, a.ID)
		st.Albums[i] = performance.ComputeAlbumWeek(a, catalog, in)
	}

	npcCatalog := songIndex(st.NPCSongs)
	st.NPCAlbums = npc.CollectAlbums(st.NPCAlbums, npcCatalog)
	byID := make(map[string]world.NPCArtist, len(st.NPCArtists))
	for _, a := range st.NPCArtists {
		byID[a.ID] = a
	}
	for i, a := range st.NPCAlbums {
		artist := byID[a.ArtistID]
		in.NPC = &performance.NPCContext{Popularity: artist.Popularity, Hype: artist.Hype}
		in.ListenerBase = s.Cfg.NPC.ListenersPerPop * artist.Popularity
		in.ChartRank = charts.RankOf(prevAlbums, a.ID)
		st.NPCAlbums[i] = performance.ComputeAlbumWeek(a, npcCatalog, in)
	}
}

func songIndex(songs []world.Song) map[string]world.Song {
	idx := make(map[string]world.Song, len(songs))
	for _, s := range songs {
		idx[s.ID] = s
	}
	return idx
}

func (s *Simulation) income(w *week) {
	st := w.next
	eco := s.Cfg.Economy
	var songSales, albumSales int64
	for _, song := range st.Songs {
		w.streams += song.WeeklyStreams
		songSales += song.WeeklySales
	}
	for _, a := range st.Albums {
		albumSales += a.WeeklySales
	}
	w.sales = songSales + albumSales
	w.income = int64(math.Round(float64(w.streams)*eco.PayPerStream +
		float64(songSales)*eco.SongSaleNet +
		float64(albumSales)*eco.AlbumSaleNet))
	st.Money += w.income
}

func (s *Simulation) touring(w *week) {
	st := w.next
	if st.ActiveTour == nil {
		return
	}
	r := tour.ProcessWeek(st.ActiveTour, st.Regions, w.lw, s.RNG, s.Cfg.Tour)
	st.ActiveTour = r.Tour
	st.Money += r.WeekRevenue
	w.income += r.WeekRevenue
	world.ApplyPopularityGains(st.Regions, r.PopGains)
	st.Hype = world.Clamp(st.Hype+r.HypeGain, 0, s.Cfg.Hype.Max)

	if r.Leg != nil {
		name := ""
		if r.Tour != nil {
			name = r.Tour.Name
		} else if r.Completed != nil {
			name = r.Completed.Name
		}
		w.events = append(w.events, tourPost(w, name, *r.Leg, s.RNG))
	}
	if r.Completed != nil {
		w.inbox = append(w.inbox, world.Message{
			ID:      entropy.NewID(s.RNG),
			Week:    w.lw,
			From:    "Booking Agent",
			Subject: "Tour wrapped: " + r.Completed.Name,
			Body: fmt.Sprintf("%d shows, %d tickets, $%d gross.",
				len(r.Completed.History), r.Completed.TotalAttendance, r.Completed.TotalRevenue),
		})
	}
}

func tourPost(w *week, tourName string, leg world.TourLeg, rng entropy.Source) world.Post {
	content := fmt.Sprintf("%s live in %s tonight.", w.artist.Name, leg.Region)
	if leg.SoldOut {
		content = fmt.Sprintf("SOLD OUT. %s in %s was unreal.", w.artist.Name, leg.Region)
	}
	return world.Post{
		ID:         entropy.NewID(rng),
		Kind:       world.PostTour,
		Week:       w.lw,
		AuthorID:   w.artist.ID,
		AuthorName: w.artist.Name,
		Handle:     w.artist.Handle,
		Content:    content,
		Likes:      int64(leg.Attendance) / 2,
		Tour: &world.TourCard{
			TourName:   tourName,
			Region:     leg.Region,
			Attendance: leg.Attendance,
			SoldOut:    leg.SoldOut,
		},
	}
}

func (s *Simulation) diffuse(w *week) {
	st := w.next
	regional := make(map[world.RegionID]int64, len(st.Regions))
	for _, song := range st.Songs {
		for id, stat := range song.RegionalData {
			regional[id] += stat.WeeklyStreams
		}
	}
	st.Regions = world.DiffuseRegions(st.Regions, regional, w.lw, s.Cfg.Regions, s.Noise)
}

// hype decays toward zero every week and is topped up by last week's chart
// standing.
func (s *Simulation) hype(w *week) {
	st := w.next
	h := s.Cfg.Hype
	st.Hype *= h.WeeklyRetention
	switch rank := bestRank(w.prev.ActiveCharts[world.ChartHot100]); {
	case rank == 1:
		st.Hype += h.NumberOneBonus
	case rank > 0 && rank <= 10:
		st.Hype += h.Top10Bonus
	case rank > 0:
		st.Hype += h.ChartingBonus
	}
	st.ClampHype(h.Max)
}

// bestRank is the player's highest position on a chart, 0 if absent.
func bestRank(entries []world.ChartEntry) int {
	for _, e := range entries {
		if e.IsPlayer {
			return e.Rank
		}
	}
	return 0
}

func (s *Simulation) charts(w *week) {
	st := w.next
	out := charts.Generate(charts.Input{
		Songs:    allSongs(st),
		Albums:   append(append([]world.Album(nil), st.Albums...), st.NPCAlbums...),
		Previous: w.prev.ActiveCharts,
		Memory:   st.ChartMemory,
		History:  st.PlayerChartHistory,
		Regions:  st.Regions,
		Week:     w.lw,
		Cfg:      s.Cfg.Charts,
	})
	st.ActiveCharts = out.Charts
	st.ChartMemory = out.Memory
	st.PlayerChartHistory = out.History
}

func allSongs(st *world.State) []world.Song {
	return append(append([]world.Song(nil), st.Songs...), st.NPCSongs...)
}

func (s *Simulation) records(w *week) {
	st := w.next
	if len(st.WorldRecords) == 0 {
		st.WorldRecords = records.Definitions(st.Regions)
	}
	res := records.Process(allSongs(st), st.WorldRecords, w.lw, records.PlayerRef{
		ID: w.artist.ID, Name: w.artist.Name, Handle: w.artist.Handle,
	})
	st.WorldRecords = res.Records
	w.broken = len(res.Broken)
	w.events = append(w.events, res.Posts...)
}

func (s *Simulation) brandCtx(w *week) brands.Context {
	return brands.Context{
		Week:       w.lw,
		Hype:       w.next.Hype,
		Reputation: w.next.Social.Reputation,
		ArtistName: w.artist.Name,
		Handle:     w.artist.Handle,
	}
}

func (s *Simulation) brandDeals(w *week) {
	st := w.next
	ctx := s.brandCtx(w)

	offers := brands.CheckOffers(st.PendingOffers, st.ActiveDeals, ctx, s.Brands, s.RNG, s.Cfg.Brands)
	st.PendingOffers = offers.Pending
	w.offers = len(offers.New)
	w.inbox = append(w.inbox, offers.Messages...)

	deals := brands.ProcessActiveDeals(st.ActiveDeals, ctx, s.Brands, s.RNG, s.Cfg.Brands)
	st.ActiveDeals = deals.Active
	st.PendingOffers = append(st.PendingOffers, deals.Renewals...)
	st.Money += deals.Money
	w.income += deals.Money
	st.Hype = world.Clamp(st.Hype+deals.HypeDelta, 0, s.Cfg.Hype.Max)
	st.Social.Reputation = world.Clamp(st.Social.Reputation+deals.ReputationDelta, 0, 100)
	w.events = append(w.events, deals.Posts...)
	w.inbox = append(w.inbox, deals.Messages...)
}

func (s *Simulation) awardsCycle(w *week) {
	st := w.next
	cfg := s.Cfg.Awards

	if awards.IsNominationWeek(st.Date, cfg) {
		noms := awards.Nominate(awards.Input{
			Year:   st.Date.Year,
			Songs:  allSongs(st),
			Albums: append(append([]world.Album(nil), st.Albums...), st.NPCAlbums...),
			Artist: w.artist,
			Cfg:    cfg,
		})
		st.ActiveNominations = noms
		nominated := 0
		for _, n := range noms {
			if n.IsPlayer {
				nominated++
			}
		}
		if nominated > 0 {
			st.Hype = world.Clamp(st.Hype+cfg.NominationHype, 0, s.Cfg.Hype.Max)
			w.inbox = append(w.inbox, world.Message{
				ID:      entropy.NewID(s.RNG),
				Week:    w.lw,
				From:    "Recording Academy",
				Subject: "Congratulations on your nomination",
				Body:    fmt.Sprintf("You received %d nomination(s) for the %d awards.", nominated, st.Date.Year),
			})
		}
		w.events = append(w.events, awards.NominationPosts(noms, w.lw, s.RNG)...)
	}

	if awards.IsCeremonyWeek(st.Date, cfg) && len(st.ActiveNominations) > 0 {
		c := awards.Ceremony(st.ActiveNominations, st.GrammyPerformanceSongID, s.RNG, cfg)
		st.AwardsHistory = append(st.AwardsHistory, c.Results...)
		st.Money += c.Money
		w.income += c.Money
		st.Hype = world.Clamp(st.Hype+c.HypeDelta, 0, s.Cfg.Hype.Max)
		st.ActiveNominations = nil
		st.GrammyPerformanceSongID = ""
		w.events = append(w.events, awards.ResultPosts(c.Results, w.lw, s.RNG)...)
		if c.PlayerWins > 0 {
			slog.Info("awards won", "wins", c.PlayerWins, "year", c.Results[0].Year)
		}
	}
}

// audience moves followers and reputation, then builds the week's feed with
// this week's event posts on top. It returns the number of posts added.
func (s *Simulation) audience(w *week) int {
	st := w.next
	st.Social = social.UpdateAudience(st.Social, w.streams, st.Hype, s.Cfg.Social)

	posts := social.GenerateWeeklyFeed(social.FeedInput{
		Date:        st.Date,
		Artist:      w.artist,
		Followers:   st.Social.Followers,
		Hype:        st.Hype,
		Verified:    st.Social.IsVerified,
		Songs:       st.Songs,
		NPCs:        st.NPCArtists,
		NPCSongs:    st.NPCSongs,
		Charts:      st.ActiveCharts,
		Deals:       st.ActiveDeals,
		Nominations: st.ActiveNominations,
		Events:      w.events,
		Cfg:         s.Cfg.Social,
	}, s.RNG)
	for i := range posts {
		posts[i].Week = w.lw
	}
	st.Social.Posts = append(posts, st.Social.Posts...)

	st.Social.Messages = append(w.inbox, st.Social.Messages...)
	return len(posts)
}

func (s *Simulation) totals(w *week) {
	st := w.next
	st.WeeklyStreams = w.streams
	st.WeeklySales = w.sales
	st.YearlyStreams += w.streams
	st.YearlySales += w.sales
	st.TotalStreams += w.streams
	st.TotalSales += w.sales
	st.ClampHype(s.Cfg.Hype.Max)
}
