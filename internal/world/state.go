package world

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// State is the complete world for one week. The orchestrator never mutates a
// State it was handed; it builds the next one from a clone.
type State struct {
	Date Date `json:"date"`

	Money         int64   `json:"money"`
	Hype          float64 `json:"hype"` // 0..1000
	WeeklyStreams int64   `json:"weekly_streams"`
	WeeklySales   int64   `json:"weekly_sales"`
	YearlyStreams int64   `json:"yearly_streams"`
	YearlySales   int64   `json:"yearly_sales"`
	TotalStreams  int64   `json:"total_streams"`
	TotalSales    int64   `json:"total_sales"`

	Regions      []RegionStats       `json:"regions"`
	Trends       map[Genre]float64   `json:"trends"`
	ThemeFatigue map[ThemeID]float64 `json:"theme_fatigue"`
	ActiveThemes []ThemeID           `json:"active_themes"`

	Songs      []Song      `json:"songs"`
	Albums     []Album     `json:"albums"`
	NPCArtists []NPCArtist `json:"npc_artists"`
	NPCSongs   []Song      `json:"npc_songs"`
	NPCAlbums  []Album     `json:"npc_albums"`

	ActiveCharts       map[ChartKey][]ChartEntry            `json:"active_charts"`
	ChartMemory        map[ChartKey]map[string]ChartMemory  `json:"chart_memory"`
	PlayerChartHistory map[ChartKey]map[string][]ChartPoint `json:"player_chart_history"`

	ActiveTour    *ActiveTour   `json:"active_tour"`
	WorldRecords  []WorldRecord `json:"world_records"`
	ActiveDeals   []BrandOffer  `json:"active_deals"`
	PendingOffers []BrandOffer  `json:"pending_offers"`
	Social        SocialState   `json:"social"`

	AwardsHistory           []AwardResult `json:"awards_history"`
	ActiveNominations       []Nomination  `json:"active_nominations"`
	GrammyPerformanceSongID string        `json:"grammy_performance_song_id"`
}

// SocialState is the player's social presence.
type SocialState struct {
	Followers  int64     `json:"followers"`
	Following  int64     `json:"following"`
	Posts      []Post    `json:"posts"`
	Messages   []Message `json:"messages"`
	Reputation float64   `json:"reputation"` // 0..100
	IsVerified bool      `json:"is_verified"`
}

// Message is an inbox item (brand offers, quarterly reports, award notices).
type Message struct {
	ID      string `json:"id"`
	Week    int    `json:"week"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	OfferID string `json:"offer_id,omitempty"`
	Read    bool   `json:"read"`
}

// Save is the persisted unit: a state and the artist it belongs to.
type Save struct {
	State  *State `json:"state"`
	Artist Artist `json:"artist"`
}

var (
	ErrNoRegions   = errors.New("world has no regions")
	ErrInvalidDate = errors.New("world date is invalid")
	ErrInvalidHype = errors.New("world hype is not a number")
	ErrNilState    = errors.New("world state is nil")
)

// Validate checks the invariants a tick relies on.
func (s *State) Validate() error {
	if s == nil {
		return ErrNilState
	}
	if len(s.Regions) == 0 {
		return ErrNoRegions
	}
	if !s.Date.Valid() {
		return fmt.Errorf("%w: %+v", ErrInvalidDate, s.Date)
	}
	if math.IsNaN(s.Hype) || math.IsInf(s.Hype, 0) {
		return ErrInvalidHype
	}
	return nil
}

// Clone returns a deep copy through the same JSON encoding used for persistence,
// so anything that survives a save survives a clone.
func (s *State) Clone() (*State, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("clone marshal: %w", err)
	}
	var out State
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("clone unmarshal: %w", err)
	}
	out.ensureMaps()
	return &out, nil
}

// ensureMaps replaces nil maps left by sparse JSON with empty ones.
func (s *State) ensureMaps() {
	if s.Trends == nil {
		s.Trends = make(map[Genre]float64)
	}
	if s.ThemeFatigue == nil {
		s.ThemeFatigue = make(map[ThemeID]float64)
	}
	if s.ActiveCharts == nil {
		s.ActiveCharts = make(map[ChartKey][]ChartEntry)
	}
	if s.ChartMemory == nil {
		s.ChartMemory = make(map[ChartKey]map[string]ChartMemory)
	}
	if s.PlayerChartHistory == nil {
		s.PlayerChartHistory = make(map[ChartKey]map[string][]ChartPoint)
	}
}

// Decode parses a persisted save. Malformed or structurally invalid payloads
// return an error and no partial value.
func Decode(data []byte) (*Save, error) {
	var sv Save
	if err := json.Unmarshal(data, &sv); err != nil {
		return nil, fmt.Errorf("decode save: %w", err)
	}
	if sv.State == nil {
		return nil, fmt.Errorf("decode save: %w", ErrNilState)
	}
	if err := sv.State.Validate(); err != nil {
		return nil, fmt.Errorf("decode save: %w", err)
	}
	if sv.Artist.ID == "" {
		return nil, errors.New("decode save: artist has no id")
	}
	sv.State.ensureMaps()
	return &sv, nil
}

// Encode serialises a save.
func Encode(sv *Save) ([]byte, error) {
	return json.Marshal(sv)
}

// SongByID finds a player song.
func (s *State) SongByID(id string) (*Song, bool) {
	for i := range s.Songs {
		if s.Songs[i].ID == id {
			return &s.Songs[i], true
		}
	}
	return nil, false
}

// Region finds a region by id.
func (s *State) Region(id RegionID) (*RegionStats, bool) {
	for i := range s.Regions {
		if s.Regions[i].ID == id {
			return &s.Regions[i], true
		}
	}
	return nil, false
}

// NPCByID finds a competitor.
func (s *State) NPCByID(id string) (*NPCArtist, bool) {
	for i := range s.NPCArtists {
		if s.NPCArtists[i].ID == id {
			return &s.NPCArtists[i], true
		}
	}
	return nil, false
}

// ClampHype keeps hype inside [0, max].
func (s *State) ClampHype(ceiling float64) {
	s.Hype = Clamp(s.Hype, 0, ceiling)
}
