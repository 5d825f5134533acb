// Package social generates the weekly social feed and moves the player's
// audience numbers. Every generator draws from an entropy.Source, so a
// seeded source reproduces a feed exactly.
package social

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hitmaker/internal/config"
	"github.com/talgya/hitmaker/internal/entropy"
	"github.com/talgya/hitmaker/internal/world"
)

// FeedInput is the read-only view of the world the feed reflects.
type FeedInput struct {
	Date        world.Date
	Artist      world.Artist
	Followers   int64
	Hype        float64
	Verified    bool
	Songs       []world.Song
	NPCs        []world.NPCArtist
	NPCSongs    []world.Song
	Charts      map[world.ChartKey][]world.ChartEntry
	Deals       []world.BrandOffer
	Nominations []world.Nomination
	// Events are posts produced elsewhere this week (record breaks, tour
	// stops, award results). They lead the feed.
	Events []world.Post
	Cfg    config.Social
}

// Generator produces one post. It reports false when it has nothing to say
// for this input.
type Generator func(in FeedInput, rng entropy.Source) (world.Post, bool)

// GenerateWeeklyFeed returns the week's posts, newest first: event posts,
// then PostsPerWeek posts drawn from the weighted generators.
func GenerateWeeklyFeed(in FeedInput, rng entropy.Source) []world.Post {
	gens, weights := mix(in)
	posts := make([]world.Post, 0, len(in.Events)+in.Cfg.PostsPerWeek)
	posts = append(posts, in.Events...)

	for i := 0; i < in.Cfg.PostsPerWeek; i++ {
		p, ok := gens[entropy.Weighted(rng, weights)](in, rng)
		if !ok {
			p = FanPost(in, rng)
		}
		posts = append(posts, p)
	}
	return posts
}

// mix returns the generators that apply this week with their weights.
func mix(in FeedInput) ([]Generator, []float64) {
	cfg := in.Cfg
	gens := []Generator{ChartBulletin, FanStatsPost, NPCPost, fanGenerator}
	weights := []float64{cfg.SystemWeight, cfg.RichWeight, cfg.NPCWeight, cfg.FanWeight}
	if len(in.Deals) > 0 {
		gens = append(gens, BrandAdPost)
		weights = append(weights, cfg.AdWeight)
	}
	if GrammySeason(in.Date.Month) {
		gens = append(gens, GrammyPost)
		weights = append(weights, cfg.GrammyWeight)
	}
	return gens, weights
}

// GrammySeason reports whether award chatter is in season (November to February).
func GrammySeason(month int) bool {
	return month >= 11 || month <= 2
}

func fanGenerator(in FeedInput, rng entropy.Source) (world.Post, bool) {
	return FanPost(in, rng), true
}

var chartAccounts = []struct{ id, name, handle string }{
	{"chart-data", "Chart Data", "@chartdata"},
	{"pop-base", "Pop Base", "@popbase"},
	{"hits-daily", "Hits Daily", "@hitsdaily"},
}

// ChartBulletin is a system account posting a chart position.
func ChartBulletin(in FeedInput, rng entropy.Source) (world.Post, bool) {
	keys := []world.ChartKey{world.ChartHot100, world.ChartGlobal200}
	for _, r := range world.DefaultRegions() {
		keys = append(keys, world.RegionalSongChart(r.ID))
	}
	key := entropy.Pick(rng, keys)
	entries := in.Charts[key]
	if len(entries) == 0 {
		return world.Post{}, false
	}

	// Bias toward the top of the chart.
	n := len(entries)
	if n > 10 {
		n = 10
	}
	e := entries[entropy.Intn(rng, n)]
	acct := entropy.Pick(rng, chartAccounts)

	var content string
	switch e.Movement {
	case world.MovementNew:
		content = fmt.Sprintf("%q by %s debuts at #%d on the %s.", e.Title, e.ArtistName, e.Rank, chartName(key))
	case world.MovementReEntry:
		content = fmt.Sprintf("%q by %s re-enters the %s at #%d.", e.Title, e.ArtistName, chartName(key), e.Rank)
	case world.MovementUp:
		content = fmt.Sprintf("%q by %s climbs to #%d (from #%d) on the %s.", e.Title, e.ArtistName, e.Rank, e.LastWeekRank, chartName(key))
	case world.MovementDown:
		content = fmt.Sprintf("%q by %s slips to #%d on the %s.", e.Title, e.ArtistName, e.Rank, chartName(key))
	default:
		content = fmt.Sprintf("%q by %s holds at #%d on the %s, %s weeks on chart.", e.Title, e.ArtistName, e.Rank, chartName(key), humanize.Comma(int64(e.WeeksOnChart)))
	}

	return world.Post{
		ID:         entropy.NewID(rng),
		Kind:       world.PostChart,
		Week:       in.Date.Linear(),
		AuthorID:   acct.id,
		AuthorName: acct.name,
		Handle:     acct.handle,
		Verified:   true,
		Content:    content,
		Likes:      engagement(rng, 2_000, in.Hype),
		Reposts:    engagement(rng, 300, in.Hype),
		Chart: &world.ChartCard{
			ChartKey:   key,
			Rank:       e.Rank,
			Title:      e.Title,
			ArtistName: e.ArtistName,
			Movement:   e.Movement,
			PeakRank:   e.PeakRank,
		},
	}, true
}

func chartName(key world.ChartKey) string {
	switch key {
	case world.ChartHot100:
		return "Hot 100"
	case world.ChartGlobal200:
		return "Global 200"
	}
	name := string(key)
	if strings.HasSuffix(name, "_ALBUMS") {
		return strings.TrimSuffix(name, "_ALBUMS") + " album chart"
	}
	return name + " chart"
}

// FanStatsPost is a fan account posting a stat card for one of the player's songs.
func FanStatsPost(in FeedInput, rng entropy.Source) (world.Post, bool) {
	var live []world.Song
	for _, s := range in.Songs {
		if s.IsReleased && s.WeeklyStreams > 0 {
			live = append(live, s)
		}
	}
	if len(live) == 0 {
		return world.Post{}, false
	}
	s := entropy.Pick(rng, live)

	var top world.RegionID
	var best int64 = -1
	for _, r := range world.DefaultRegions() {
		if st := s.RegionalData[r.ID]; st.WeeklyStreams > best {
			best, top = st.WeeklyStreams, r.ID
		}
	}

	handle := fanHandle(in.Artist, rng)
	return world.Post{
		ID:         entropy.NewID(rng),
		Kind:       world.PostFanStats,
		Week:       in.Date.Linear(),
		AuthorID:   handle,
		AuthorName: handle,
		Handle:     "@" + handle,
		Content: fmt.Sprintf("%q did %s streams this week (%s total). %s is carrying it.",
			s.Title, humanize.SIWithDigits(float64(s.WeeklyStreams), 1, ""), humanize.Comma(s.Streams), top),
		Likes:   engagement(rng, 400, in.Hype),
		Reposts: engagement(rng, 60, in.Hype),
		Stats: &world.StatCard{
			SongID:        s.ID,
			SongTitle:     s.Title,
			WeeklyStreams: s.WeeklyStreams,
			TotalStreams:  s.Streams,
			TopRegion:     top,
		},
	}, true
}

var npcLines = []string{
	"studio all week. something big coming",
	"thank you for %s streams on %q, I see every one of you",
	"tour rehearsals starting. who's coming?",
	"new merch drop friday",
	"can't stop listening to %q ngl",
	"no skips on this one. trust me",
	"%q is my favorite thing I've ever made",
}

// NPCPost is a competitor posting about their own work.
func NPCPost(in FeedInput, rng entropy.Source) (world.Post, bool) {
	if len(in.NPCs) == 0 {
		return world.Post{}, false
	}
	a := entropy.Pick(rng, in.NPCs)

	var own []world.Song
	for _, s := range in.NPCSongs {
		if s.ArtistID == a.ID {
			own = append(own, s)
		}
	}

	line := entropy.Pick(rng, npcLines)
	var content string
	switch strings.Count(line, "%") {
	case 0:
		content = line
	case 1:
		title := "the new one"
		if len(own) > 0 {
			title = entropy.Pick(rng, own).Title
		}
		content = fmt.Sprintf(line, title)
	default:
		if len(own) == 0 {
			content = npcLines[0]
			break
		}
		s := entropy.Pick(rng, own)
		content = fmt.Sprintf(line, humanize.SIWithDigits(float64(s.Streams), 1, ""), s.Title)
	}

	return world.Post{
		ID:         entropy.NewID(rng),
		Kind:       world.PostNPC,
		Week:       in.Date.Linear(),
		AuthorID:   a.ID,
		AuthorName: a.Name,
		Handle:     a.Handle,
		Verified:   a.Popularity >= 50,
		Content:    content,
		Likes:      engagement(rng, 1_000*(1+a.Popularity/10), a.Hype),
		Reposts:    engagement(rng, 100*(1+a.Popularity/10), a.Hype),
	}, true
}

var fanLines = []string{
	"%s has not missed once",
	"I need %s to go on tour RIGHT NOW",
	"%s deserves a grammy and I'm not joking",
	"on my 40th listen of %q today",
	"%q at 2am hits different",
	"whoever is not streaming %q is missing out",
	"%s fans where are we 🫡",
	"the bridge on %q…",
	"new %s era when??",
}

// FanPost is generic fan chatter about the player.
func FanPost(in FeedInput, rng entropy.Source) world.Post {
	var released []world.Song
	for _, s := range in.Songs {
		if s.IsReleased {
			released = append(released, s)
		}
	}

	line := entropy.Pick(rng, fanLines)
	var content string
	if strings.Contains(line, "%q") {
		if len(released) == 0 {
			content = fmt.Sprintf("%s please drop something, I'm begging", in.Artist.Name)
		} else {
			content = fmt.Sprintf(line, entropy.Pick(rng, released).Title)
		}
	} else {
		content = fmt.Sprintf(line, in.Artist.Name)
	}

	handle := fanHandle(in.Artist, rng)
	return world.Post{
		ID:         entropy.NewID(rng),
		Kind:       world.PostFan,
		Week:       in.Date.Linear(),
		AuthorID:   handle,
		AuthorName: handle,
		Handle:     "@" + handle,
		Content:    content,
		Likes:      engagement(rng, 50+float64(in.Followers)/2_000, in.Hype),
		Replies:    engagement(rng, 5, in.Hype),
	}
}

// BrandAdPost is a sponsor promoting a product from an active deal.
func BrandAdPost(in FeedInput, rng entropy.Source) (world.Post, bool) {
	if len(in.Deals) == 0 {
		return world.Post{}, false
	}
	d := entropy.Pick(rng, in.Deals)
	product := ""
	if len(d.Products) > 0 {
		product = entropy.Pick(rng, d.Products).Name
	}
	content := fmt.Sprintf("%s x %s. Out now.", d.BrandName, in.Artist.Name)
	if product != "" {
		content = fmt.Sprintf("The %s, picked by %s. Out now.", product, in.Artist.Name)
	}
	return world.Post{
		ID:         entropy.NewID(rng),
		Kind:       world.PostBrandAd,
		Week:       in.Date.Linear(),
		AuthorID:   d.BrandID,
		AuthorName: d.BrandName,
		Handle:     "@" + d.BrandID,
		Verified:   true,
		Content:    content,
		Likes:      engagement(rng, 800, in.Hype),
		Ad: &world.AdCard{
			BrandID:     d.BrandID,
			BrandName:   d.BrandName,
			ProductName: product,
		},
	}, true
}

// GrammyPost is awards-season speculation.
func GrammyPost(in FeedInput, rng entropy.Source) (world.Post, bool) {
	if !GrammySeason(in.Date.Month) {
		return world.Post{}, false
	}
	acct := entropy.Pick(rng, chartAccounts)
	post := world.Post{
		ID:         entropy.NewID(rng),
		Kind:       world.PostAward,
		Week:       in.Date.Linear(),
		AuthorID:   acct.id,
		AuthorName: acct.name,
		Handle:     acct.handle,
		Verified:   true,
		Likes:      engagement(rng, 1_500, in.Hype),
	}
	if len(in.Nominations) == 0 {
		post.Content = "Awards season is coming. Who are you predicting for Song of the Year?"
		return post, true
	}
	n := entropy.Pick(rng, in.Nominations)
	post.Content = fmt.Sprintf("%q by %s is nominated for %s. Can it win?", n.NomineeTitle, n.ArtistName, n.Category)
	post.Award = &world.AwardCard{
		Year:     n.Year,
		Category: n.Category,
		Nominee:  n.NomineeTitle,
		Artist:   n.ArtistName,
	}
	return post, true
}

var fanSuffixes = []string{"stan", "hive", "daily", "updates", "world", "fan", "archive", "lover"}

func fanHandle(a world.Artist, rng entropy.Source) string {
	base := strings.ToLower(strings.ReplaceAll(a.Name, " ", ""))
	if base == "" {
		base = "music"
	}
	return fmt.Sprintf("%s%s%d", base, entropy.Pick(rng, fanSuffixes), entropy.Intn(rng, 1000))
}

// engagement scales a base count by hype with some noise.
func engagement(rng entropy.Source, base, hype float64) int64 {
	v := base * (1 + world.Clamp(hype, 0, 1000)/200) * entropy.Range(rng, 0.5, 1.5)
	return int64(world.NonNegative(v))
}
