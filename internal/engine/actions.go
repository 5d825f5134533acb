package engine

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/talgya/hitmaker/internal/brands"
	"github.com/talgya/hitmaker/internal/entropy"
	"github.com/talgya/hitmaker/internal/records"
	"github.com/talgya/hitmaker/internal/tour"
	"github.com/talgya/hitmaker/internal/trends"
	"github.com/talgya/hitmaker/internal/world"
)

// Player action errors. Every action checks its preconditions before it
// touches the state, so a failed action leaves nothing behind.
var (
	ErrNoArtistName       = errors.New("artist needs a name")
	ErrUnknownGenre       = errors.New("unknown genre")
	ErrUnknownTheme       = errors.New("unknown theme")
	ErrNoTitle            = errors.New("title is required")
	ErrSongNotFound       = errors.New("song not found")
	ErrAlreadyReleased    = errors.New("song is already released")
	ErrNotReleased        = errors.New("song is not released")
	ErrNotEnoughMoney     = errors.New("not enough money")
	ErrTooFewTracks       = errors.New("an album needs at least 3 tracks")
	ErrTrackInUse         = errors.New("track listed twice")
	ErrOfferNotFound      = errors.New("offer not found")
	ErrUnknownResponse    = errors.New("unknown offer response")
	ErrNotNominated       = errors.New("player has no nominations this cycle")
	ErrInvalidPayolaCount = errors.New("payola streams must be positive")
)

// StartingMoney is a new career's bank balance.
const StartingMoney int64 = 50_000

// MinAlbumTracks is the shortest EP.
const MinAlbumTracks = 3

// NewGame creates the artist's starting world: default regions, neutral
// trends, a seeded competitor roster and their back catalog.
func (s *Simulation) NewGame(artist world.Artist) (*world.Save, error) {
	artist.Name = strings.TrimSpace(artist.Name)
	if artist.Name == "" {
		return nil, ErrNoArtistName
	}
	if !knownGenre(artist.Genre) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGenre, artist.Genre)
	}
	if artist.ID == "" {
		artist.ID = entropy.NewID(s.RNG)
	}
	if artist.Handle == "" {
		artist.Handle = "@" + strings.ToLower(strings.ReplaceAll(artist.Name, " ", ""))
	}

	tr, fatigue := trends.Initial()
	st := &world.State{
		Date:               world.StartDate(),
		Money:              StartingMoney,
		Regions:            world.DefaultRegions(),
		Trends:             tr,
		ThemeFatigue:       fatigue,
		ActiveCharts:       make(map[world.ChartKey][]world.ChartEntry),
		ChartMemory:        make(map[world.ChartKey]map[string]world.ChartMemory),
		PlayerChartHistory: make(map[world.ChartKey]map[string][]world.ChartPoint),
		Social:             world.SocialState{Reputation: 50},
	}
	st.ActiveThemes = trends.RollActiveThemes(st.Date.Month, st.ThemeFatigue, s.Cfg.Trends, s.RNG)
	st.NPCArtists = s.Spawner.Roster()
	st.NPCSongs = s.Spawner.InitialCatalog(st.NPCArtists, st.Date.Linear())
	st.WorldRecords = records.Definitions(st.Regions)

	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	return &world.Save{State: st, Artist: artist}, nil
}

func knownGenre(g world.Genre) bool {
	for _, k := range world.AllGenres() {
		if k == g {
			return true
		}
	}
	return false
}

func knownTheme(t world.ThemeID) bool {
	for _, k := range world.AllThemes() {
		if k == t {
			return true
		}
	}
	return false
}

// SongRequest is a recording session.
type SongRequest struct {
	Title string
	Theme world.ThemeID
	Genre world.Genre // defaults to the artist's genre
}

// RecordSong pays for a session and adds an unreleased song to the catalog.
// Quality rises a little with hype and the artist's reputation.
func (s *Simulation) RecordSong(st *world.State, artist world.Artist, req SongRequest) (*world.State, world.Song, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, world.Song{}, ErrNoTitle
	}
	if !knownTheme(req.Theme) {
		return nil, world.Song{}, fmt.Errorf("%w: %q", ErrUnknownTheme, req.Theme)
	}
	genre := req.Genre
	if genre == "" {
		genre = artist.Genre
	}
	if !knownGenre(genre) {
		return nil, world.Song{}, fmt.Errorf("%w: %q", ErrUnknownGenre, genre)
	}
	cost := s.Cfg.Economy.RecordingCost
	if st.Money < cost {
		return nil, world.Song{}, fmt.Errorf("%w: recording costs %d", ErrNotEnoughMoney, cost)
	}

	next, err := st.Clone()
	if err != nil {
		return nil, world.Song{}, err
	}
	mean := 50 + next.Hype/50 + next.Social.Reputation/10
	song := world.Song{
		ID:           entropy.NewID(s.RNG),
		Title:        title,
		ArtistID:     artist.ID,
		ArtistName:   artist.Name,
		Genre:        genre,
		Theme:        req.Theme,
		Quality:      world.Clamp(int(math.Round(entropy.Normal(s.RNG, mean, 12))), 1, 100),
		IsPlayer:     true,
		RegionalData: make(map[world.RegionID]world.RegionalStat),
	}
	next.Money -= cost
	next.Songs = append(next.Songs, song)
	return next, song, nil
}

// ReleaseSong puts a recorded song out this week. It snapshots the player's
// mean popularity, adds fatigue to the theme and gives a hype bump.
func (s *Simulation) ReleaseSong(st *world.State, songID string) (*world.State, error) {
	song, ok := st.SongByID(songID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSongNotFound, songID)
	}
	if song.IsReleased {
		return nil, ErrAlreadyReleased
	}

	next, err := st.Clone()
	if err != nil {
		return nil, err
	}
	released, _ := next.SongByID(songID)
	released.IsReleased = true
	released.ReleaseWeek = next.Date.Linear()
	released.ReleasePopularity = world.MeanPopularity(next.Regions)
	trends.RegisterRelease(next.ThemeFatigue, released.Theme, s.Cfg.Trends)
	next.Hype = world.Clamp(next.Hype+s.Cfg.Hype.ReleaseBoost, 0, s.Cfg.Hype.Max)
	return next, nil
}

// AlbumRequest bundles recorded songs into an EP or LP.
type AlbumRequest struct {
	Title    string
	TrackIDs []string
}

// ReleaseAlbum releases an album built from the player's songs. Unreleased
// tracks go out with it. Tracks are copied at release; quality is their mean.
func (s *Simulation) ReleaseAlbum(st *world.State, artist world.Artist, req AlbumRequest) (*world.State, world.Album, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, world.Album{}, ErrNoTitle
	}
	if len(req.TrackIDs) < MinAlbumTracks {
		return nil, world.Album{}, ErrTooFewTracks
	}
	seen := make(map[string]bool, len(req.TrackIDs))
	for _, id := range req.TrackIDs {
		if seen[id] {
			return nil, world.Album{}, fmt.Errorf("%w: %q", ErrTrackInUse, id)
		}
		seen[id] = true
		if _, ok := st.SongByID(id); !ok {
			return nil, world.Album{}, fmt.Errorf("%w: %q", ErrSongNotFound, id)
		}
	}

	next, err := st.Clone()
	if err != nil {
		return nil, world.Album{}, err
	}
	lw := next.Date.Linear()
	pop := world.MeanPopularity(next.Regions)
	tracks := make([]world.Song, 0, len(req.TrackIDs))
	quality := 0
	for _, id := range req.TrackIDs {
		song, _ := next.SongByID(id)
		if !song.IsReleased {
			song.IsReleased = true
			song.ReleaseWeek = lw
			song.ReleasePopularity = pop
			trends.RegisterRelease(next.ThemeFatigue, song.Theme, s.Cfg.Trends)
		}
		tracks = append(tracks, *song)
		quality += song.Quality
	}

	album := world.Album{
		ID:           entropy.NewID(s.RNG),
		Title:        title,
		ArtistID:     artist.ID,
		ArtistName:   artist.Name,
		Genre:        artist.Genre,
		Type:         world.AlbumTypeFor(len(tracks)),
		Tracks:       tracks,
		Quality:      quality / len(tracks),
		IsReleased:   true,
		IsPlayer:     true,
		ReleaseWeek:  lw,
		RegionalData: make(map[world.RegionID]world.RegionalStat),
	}
	next.Albums = append(next.Albums, album)
	next.Hype = world.Clamp(next.Hype+s.Cfg.Hype.AlbumReleaseBoost, 0, s.Cfg.Hype.Max)
	return next, album, nil
}

// PayolaCost is the price of buying streams for a song.
func (s *Simulation) PayolaCost(streams int64) int64 {
	return int64(math.Ceil(float64(streams) / 1000 * s.Cfg.Economy.PayolaCostPer1000))
}

// BuyPayola queues bought streams on a released song. They land in the
// song's numbers on the next advance.
func (s *Simulation) BuyPayola(st *world.State, songID string, streams int64) (*world.State, error) {
	if streams <= 0 {
		return nil, ErrInvalidPayolaCount
	}
	song, ok := st.SongByID(songID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSongNotFound, songID)
	}
	if !song.IsReleased {
		return nil, ErrNotReleased
	}
	cost := s.PayolaCost(streams)
	if st.Money < cost {
		return nil, fmt.Errorf("%w: payola costs %d", ErrNotEnoughMoney, cost)
	}

	next, err := st.Clone()
	if err != nil {
		return nil, err
	}
	target, _ := next.SongByID(songID)
	target.PendingPayolaStreams += streams
	next.Money -= cost
	return next, nil
}

// BookTour books a tour and pays for it up front.
func (s *Simulation) BookTour(st *world.State, req tour.Request) (*world.State, *world.ActiveTour, error) {
	t, cost, err := tour.Book(req, st, s.RNG)
	if err != nil {
		return nil, nil, err
	}
	next, err := st.Clone()
	if err != nil {
		return nil, nil, err
	}
	next.Money -= cost
	next.ActiveTour = t
	return next, t, nil
}

// OfferResponse is the player's answer to a pending brand offer.
type OfferResponse string

const (
	RespondAccept    OfferResponse = "accept"
	RespondNegotiate OfferResponse = "negotiate"
	RespondReject    OfferResponse = "reject"
)

// OfferOutcome reports what happened to an offer.
type OfferOutcome struct {
	Offer     world.BrandOffer
	Accepted  bool
	Withdrawn bool
	Money     int64
}

// RespondToOffer accepts (with a creative style), negotiates or rejects a
// pending offer. A failed negotiation withdraws the offer.
func (s *Simulation) RespondToOffer(st *world.State, artist world.Artist, offerID string, resp OfferResponse, style world.CreativeStyle) (*world.State, OfferOutcome, error) {
	idx := -1
	for i, o := range st.PendingOffers {
		if o.ID == offerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, OfferOutcome{}, fmt.Errorf("%w: %q", ErrOfferNotFound, offerID)
	}
	offer := st.PendingOffers[idx]
	ctx := brands.Context{
		Week:       st.Date.Linear(),
		Hype:       st.Hype,
		Reputation: st.Social.Reputation,
		ArtistName: artist.Name,
		Handle:     artist.Handle,
	}

	var out OfferOutcome
	var hypeDelta float64
	var msg *world.Message
	var replace *world.BrandOffer
	switch resp {
	case RespondAccept:
		b, ok := brands.Find(s.Brands, offer.BrandID)
		if !ok {
			return nil, OfferOutcome{}, fmt.Errorf("%w: %q", brands.ErrUnknownBrand, offer.BrandID)
		}
		res, err := brands.ExecuteCampaign(offer, b, style, ctx, s.RNG)
		if err != nil {
			return nil, OfferOutcome{}, err
		}
		out = OfferOutcome{Offer: res.Deal, Accepted: true, Money: res.Money}
		hypeDelta = res.HypeDelta
	case RespondNegotiate:
		res, err := brands.Negotiate(offer, ctx, s.RNG)
		if err != nil {
			return nil, OfferOutcome{}, err
		}
		msg = &res.Message
		if res.NewOffer == nil {
			out = OfferOutcome{Offer: brands.Reject(offer), Withdrawn: true}
		} else {
			out = OfferOutcome{Offer: *res.NewOffer}
			replace = res.NewOffer
		}
	case RespondReject:
		out = OfferOutcome{Offer: brands.Reject(offer)}
	default:
		return nil, OfferOutcome{}, fmt.Errorf("%w: %q", ErrUnknownResponse, resp)
	}

	next, err := st.Clone()
	if err != nil {
		return nil, OfferOutcome{}, err
	}
	next.PendingOffers = append(next.PendingOffers[:idx:idx], next.PendingOffers[idx+1:]...)
	if replace != nil {
		next.PendingOffers = append(next.PendingOffers, *replace)
	}
	if out.Accepted {
		next.ActiveDeals = append(next.ActiveDeals, out.Offer)
		next.Money += out.Money
		next.Hype = world.Clamp(next.Hype+hypeDelta, 0, s.Cfg.Hype.Max)
	}
	if msg != nil {
		next.Social.Messages = append([]world.Message{*msg}, next.Social.Messages...)
	}
	return next, out, nil
}

// SetGrammyPerformance books a performance slot at the next ceremony. It
// pays off only if the player is nominated.
func (s *Simulation) SetGrammyPerformance(st *world.State, songID string) (*world.State, error) {
	song, ok := st.SongByID(songID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSongNotFound, songID)
	}
	if !song.IsReleased {
		return nil, ErrNotReleased
	}
	nominated := false
	for _, n := range st.ActiveNominations {
		if n.IsPlayer {
			nominated = true
			break
		}
	}
	if !nominated {
		return nil, ErrNotNominated
	}
	next, err := st.Clone()
	if err != nil {
		return nil, err
	}
	next.GrammyPerformanceSongID = songID
	return next, nil
}
