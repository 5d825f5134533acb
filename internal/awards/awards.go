// Package awards runs the yearly nominations and ceremony.
package awards

import (
	"fmt"
	"sort"

	"github.com/talgya/hitmaker/internal/config"
	"github.com/talgya/hitmaker/internal/entropy"
	"github.com/talgya/hitmaker/internal/world"
)

const (
	SongOfTheYear   = "Song of the Year"
	RecordOfTheYear = "Record of the Year"
	AlbumOfTheYear  = "Album of the Year"
)

// BestGenre is the genre category name.
func BestGenre(g world.Genre) string {
	return "Best " + string(g)
}

// IsNominationWeek reports whether nominations are announced on d.
func IsNominationWeek(d world.Date, cfg config.Awards) bool {
	return d.Month == cfg.NominationMonth && d.Week == cfg.NominationWeek
}

// IsCeremonyWeek reports whether the ceremony happens on d.
func IsCeremonyWeek(d world.Date, cfg config.Awards) bool {
	return d.Month == cfg.CeremonyMonth && d.Week == cfg.CeremonyWeek
}

// Input is the catalog nominations are drawn from.
type Input struct {
	Year   int
	Songs  []world.Song
	Albums []world.Album
	Artist world.Artist
	Cfg    config.Awards
}

// Nominate picks the nominees for every category from releases in the
// eligibility year.
func Nominate(in Input) []world.Nomination {
	first := (in.Year-world.StartYear)*world.WeeksPerYear + 1
	last := first + world.WeeksPerYear - 1
	eligible := func(releaseWeek int) bool { return releaseWeek >= first && releaseWeek <= last }

	var songs []world.Song
	for _, s := range in.Songs {
		if s.IsReleased && eligible(s.ReleaseWeek) {
			songs = append(songs, s)
		}
	}

	var noms []world.Nomination
	noms = append(noms, pickSongs(in, SongOfTheYear, songs, func(s world.Song) float64 {
		return float64(s.StreamsThisYear) * float64(s.Quality) / 100
	})...)
	noms = append(noms, pickSongs(in, RecordOfTheYear, songs, func(s world.Song) float64 {
		return float64(s.StreamsThisYear)
	})...)

	var genreSongs []world.Song
	for _, s := range songs {
		if s.Genre == in.Artist.Genre {
			genreSongs = append(genreSongs, s)
		}
	}
	if in.Artist.Genre != "" {
		noms = append(noms, pickSongs(in, BestGenre(in.Artist.Genre), genreSongs, func(s world.Song) float64 {
			return float64(s.StreamsThisYear) * float64(s.Quality) / 100
		})...)
	}

	type scoredAlbum struct {
		a     world.Album
		score float64
	}
	var albums []scoredAlbum
	for _, a := range in.Albums {
		if a.IsReleased && eligible(a.ReleaseWeek) {
			albums = append(albums, scoredAlbum{a, float64(a.SalesThisYear+a.TotalStreams/1500) * float64(a.Quality) / 100})
		}
	}
	sort.Slice(albums, func(i, j int) bool {
		if albums[i].score != albums[j].score {
			return albums[i].score > albums[j].score
		}
		return albums[i].a.ID < albums[j].a.ID
	})
	for i := 0; i < len(albums) && i < in.Cfg.Nominees; i++ {
		a := albums[i]
		if a.score <= 0 {
			break
		}
		noms = append(noms, world.Nomination{
			ID:           fmt.Sprintf("%d|%s|%s", in.Year, AlbumOfTheYear, a.a.ID),
			Year:         in.Year,
			Category:     AlbumOfTheYear,
			NomineeID:    a.a.ID,
			NomineeTitle: a.a.Title,
			ArtistID:     a.a.ArtistID,
			ArtistName:   a.a.ArtistName,
			IsPlayer:     a.a.IsPlayer,
			Score:        a.score,
		})
	}
	return noms
}

func pickSongs(in Input, category string, songs []world.Song, score func(world.Song) float64) []world.Nomination {
	type scored struct {
		s     world.Song
		score float64
	}
	ranked := make([]scored, 0, len(songs))
	for _, s := range songs {
		if v := score(s); v > 0 {
			ranked = append(ranked, scored{s, v})
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].s.ID < ranked[j].s.ID
	})

	var noms []world.Nomination
	for i := 0; i < len(ranked) && i < in.Cfg.Nominees; i++ {
		s := ranked[i].s
		noms = append(noms, world.Nomination{
			ID:           fmt.Sprintf("%d|%s|%s", in.Year, category, s.ID),
			Year:         in.Year,
			Category:     category,
			NomineeID:    s.ID,
			NomineeTitle: s.Title,
			ArtistID:     s.ArtistID,
			ArtistName:   s.ArtistName,
			IsPlayer:     s.IsPlayer,
			Score:        ranked[i].score,
		})
	}
	return noms
}

// Categories returns the categories present in a nomination list, in
// announcement order.
func Categories(noms []world.Nomination) []string {
	seen := make(map[string]bool)
	var cats []string
	for _, n := range noms {
		if !seen[n.Category] {
			seen[n.Category] = true
			cats = append(cats, n.Category)
		}
	}
	return cats
}

// CeremonyResult is the decided categories and what the player took home.
type CeremonyResult struct {
	Results       []world.AwardResult
	PlayerWins    int
	PlayerNoms    int
	HypeDelta     float64
	Money         int64
	PerformedSong string
}

// Ceremony decides every category. Each nominee's score gets a bounded
// random swing so favourites usually but not always win. A booked
// performance pays off only if the player is nominated.
func Ceremony(noms []world.Nomination, performanceSongID string, rng entropy.Source, cfg config.Awards) CeremonyResult {
	var res CeremonyResult
	for _, n := range noms {
		if n.IsPlayer {
			res.PlayerNoms++
		}
	}

	for _, cat := range Categories(noms) {
		var best world.Nomination
		bestScore := -1.0
		playerNominated := false
		for _, n := range noms {
			if n.Category != cat {
				continue
			}
			if n.IsPlayer {
				playerNominated = true
			}
			swing := n.Score * entropy.Range(rng, 0.85, 1.15)
			if swing > bestScore {
				best, bestScore = n, swing
			}
		}
		r := world.AwardResult{
			Year:            best.Year,
			Category:        cat,
			WinnerID:        best.NomineeID,
			WinnerTitle:     best.NomineeTitle,
			ArtistName:      best.ArtistName,
			PlayerNominated: playerNominated,
			PlayerWon:       best.IsPlayer,
		}
		if r.PlayerWon {
			res.PlayerWins++
			res.HypeDelta += cfg.WinHype
			res.Money += cfg.WinMoney
		}
		res.Results = append(res.Results, r)
	}

	if performanceSongID != "" && res.PlayerNoms > 0 {
		res.HypeDelta += cfg.PerformanceHype
		res.PerformedSong = performanceSongID
	}
	return res
}

// NominationPosts announces nominations for the feed.
func NominationPosts(noms []world.Nomination, week int, rng entropy.Source) []world.Post {
	var posts []world.Post
	for _, n := range noms {
		if !n.IsPlayer {
			continue
		}
		posts = append(posts, awardPost(rng, week,
			fmt.Sprintf("Nominated for %s: %q by %s.", n.Category, n.NomineeTitle, n.ArtistName),
			world.AwardCard{Year: n.Year, Category: n.Category, Nominee: n.NomineeTitle, Artist: n.ArtistName}))
	}
	for _, cat := range Categories(noms) {
		count := 0
		for _, n := range noms {
			if n.Category == cat {
				count++
			}
		}
		posts = append(posts, awardPost(rng, week,
			fmt.Sprintf("The %d nominees for %s are in.", count, cat),
			world.AwardCard{Category: cat}))
	}
	return posts
}

// ResultPosts announces the winners.
func ResultPosts(results []world.AwardResult, week int, rng entropy.Source) []world.Post {
	posts := make([]world.Post, 0, len(results))
	for _, r := range results {
		posts = append(posts, awardPost(rng, week,
			fmt.Sprintf("%s goes to %q by %s!", r.Category, r.WinnerTitle, r.ArtistName),
			world.AwardCard{Year: r.Year, Category: r.Category, Nominee: r.WinnerTitle, Artist: r.ArtistName, Won: true}))
	}
	return posts
}

func awardPost(rng entropy.Source, week int, content string, card world.AwardCard) world.Post {
	return world.Post{
		ID:         entropy.NewID(rng),
		Kind:       world.PostAward,
		Week:       week,
		AuthorID:   "recording-academy",
		AuthorName: "Recording Academy",
		Handle:     "@recordingacademy",
		Verified:   true,
		Content:    content,
		Likes:      int64(entropy.Range(rng, 5_000, 50_000)),
		Award:      &card,
	}
}
