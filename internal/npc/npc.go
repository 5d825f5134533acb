// Package npc creates and maintains the competitor roster and its catalog.
package npc

import (
	"fmt"
	"strings"

	"github.com/talgya/hitmaker/internal/config"
	"github.com/talgya/hitmaker/internal/entropy"
	"github.com/talgya/hitmaker/internal/world"
)

// Spawner creates competitor artists and their releases.
type Spawner struct {
	rng entropy.Source
	cfg config.NPC
}

// NewSpawner creates a spawner drawing from rng.
func NewSpawner(rng entropy.Source, cfg config.NPC) *Spawner {
	return &Spawner{rng: rng, cfg: cfg}
}

// Roster creates the starting competitor list. Popularity is skewed so a few
// acts are stars and most are mid-tier.
func (s *Spawner) Roster() []world.NPCArtist {
	used := make(map[string]bool)
	artists := make([]world.NPCArtist, 0, s.cfg.RosterSize)
	for attempts := 0; len(artists) < s.cfg.RosterSize; attempts++ {
		name := s.artistName()
		if used[name] {
			if attempts < s.cfg.RosterSize*20 {
				continue
			}
			name = fmt.Sprintf("%s %d", name, len(artists)+1)
		}
		used[name] = true

		u := s.rng.Float64()
		popularity := world.Clamp(15+85*u*u+entropy.Normal(s.rng, 0, 5), 5, 100)
		artists = append(artists, world.NPCArtist{
			ID:         entropy.NewID(s.rng),
			Name:       name,
			Handle:     "@" + strings.ToLower(strings.ReplaceAll(name, " ", "")),
			Genre:      entropy.Pick(s.rng, world.AllGenres()),
			Popularity: popularity,
			Hype:       world.Clamp(popularity*5+entropy.Normal(s.rng, 0, 40), 0, 1000),
		})
	}
	return artists
}

func (s *Spawner) artistName() string {
	if entropy.Chance(s.rng, 0.15) {
		return entropy.Pick(s.rng, bandNames)
	}
	if entropy.Chance(s.rng, 0.3) {
		return entropy.Pick(s.rng, stageFirst)
	}
	return entropy.Pick(s.rng, stageFirst) + " " + entropy.Pick(s.rng, stageLast)
}

// Song creates a released NPC single.
func (s *Spawner) Song(a world.NPCArtist, releaseWeek int) world.Song {
	return world.Song{
		ID:                entropy.NewID(s.rng),
		Title:             s.songTitle(),
		ArtistID:          a.ID,
		ArtistName:        a.Name,
		Genre:             a.Genre,
		Theme:             entropy.Pick(s.rng, world.AllThemes()),
		Quality:           world.Clamp(int(entropy.Normal(s.rng, 40+a.Popularity/2, 12)), 5, 100),
		IsReleased:        true,
		ReleaseWeek:       releaseWeek,
		ReleasePopularity: a.Popularity,
		RegionalData:      make(map[world.RegionID]world.RegionalStat),
	}
}

func (s *Spawner) songTitle() string {
	switch entropy.Intn(s.rng, 3) {
	case 0:
		return entropy.Pick(s.rng, titleAdjectives) + " " + entropy.Pick(s.rng, titleNouns)
	case 1:
		return entropy.Pick(s.rng, titleNouns)
	default:
		return entropy.Pick(s.rng, titleAdjectives)
	}
}

// Album creates a released NPC album with 5 to 12 new tracks. The tracks are
// returned separately so the caller can add them to the song catalog.
func (s *Spawner) Album(a world.NPCArtist, releaseWeek int) (world.Album, []world.Song) {
	n := 5 + entropy.Intn(s.rng, 8)
	tracks := make([]world.Song, n)
	quality := 0
	for i := range tracks {
		tracks[i] = s.Song(a, releaseWeek)
		quality += tracks[i].Quality
	}
	album := world.Album{
		ID:           entropy.NewID(s.rng),
		Title:        entropy.Pick(s.rng, albumWords),
		ArtistID:     a.ID,
		ArtistName:   a.Name,
		Genre:        a.Genre,
		Type:         world.AlbumTypeFor(n),
		Tracks:       tracks,
		Quality:      quality / n,
		IsReleased:   true,
		ReleaseWeek:  releaseWeek,
		RegionalData: make(map[world.RegionID]world.RegionalStat),
	}
	return album, tracks
}

// InitialCatalog gives every artist a few songs released over the weeks
// before the career starts, so the first charts are full.
func (s *Spawner) InitialCatalog(artists []world.NPCArtist, startWeek int) []world.Song {
	var songs []world.Song
	for _, a := range artists {
		for i := 0; i < s.cfg.InitialSongsEach; i++ {
			songs = append(songs, s.Song(a, startWeek-entropy.Intn(s.rng, 12)))
		}
	}
	return songs
}

// Releases is what the roster put out this week.
type Releases struct {
	Songs  []world.Song
	Albums []world.Album
}

// WeeklyReleases rolls singles and albums for every artist. Single odds
// scale with popularity.
func (s *Spawner) WeeklyReleases(artists []world.NPCArtist, week int) Releases {
	var r Releases
	for _, a := range artists {
		if entropy.Chance(s.rng, s.cfg.AlbumChance) {
			album, tracks := s.Album(a, week)
			r.Albums = append(r.Albums, album)
			r.Songs = append(r.Songs, tracks...)
			continue
		}
		if entropy.Chance(s.rng, s.cfg.SingleChance*(0.5+a.Popularity/100)) {
			r.Songs = append(r.Songs, s.Song(a, week))
		}
	}
	return r
}

// Drift moves each artist's popularity and hype a little.
func (s *Spawner) Drift(artists []world.NPCArtist) []world.NPCArtist {
	out := make([]world.NPCArtist, len(artists))
	for i, a := range artists {
		a.Popularity = world.Clamp(a.Popularity+entropy.Normal(s.rng, 0, s.cfg.PopularityDrift), 1, 100)
		target := a.Popularity * 5
		a.Hype = world.Clamp(a.Hype+(target-a.Hype)*0.1+entropy.Normal(s.rng, 0, 10), 0, 1000)
		out[i] = a
	}
	return out
}

// Collect drops NPC songs that stopped streaming, and old songs that are no
// longer on any chart.
func Collect(songs []world.Song, charted map[string]bool, week, maxAge int) []world.Song {
	out := make([]world.Song, 0, len(songs))
	for _, s := range songs {
		if s.WeeklyStreams <= 0 {
			continue
		}
		if maxAge > 0 && week-s.ReleaseWeek > maxAge && !charted[s.ID] {
			continue
		}
		out = append(out, s)
	}
	return out
}

// CollectAlbums drops NPC albums none of whose tracks are still in the catalog.
func CollectAlbums(albums []world.Album, catalog map[string]world.Song) []world.Album {
	out := make([]world.Album, 0, len(albums))
	for _, a := range albums {
		for _, id := range a.TrackIDs() {
			if _, ok := catalog[id]; ok {
				out = append(out, a)
				break
			}
		}
	}
	return out
}
