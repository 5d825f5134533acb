// Package tour books tours and plays one leg per simulated week.
package tour

import (
	"errors"
	"fmt"
	"math"

	"github.com/talgya/hitmaker/internal/config"
	"github.com/talgya/hitmaker/internal/entropy"
	"github.com/talgya/hitmaker/internal/world"
)

// Tier is a venue class the player can book.
type Tier struct {
	ID          string
	Name        string
	Capacity    int
	TicketPrice float64
	CostPerLeg  int64
	MinHype     float64
}

// Tiers returns the bookable venue classes, smallest first.
func Tiers() []Tier {
	return []Tier{
		{ID: "clubs", Name: "Club Run", Capacity: 800, TicketPrice: 25, CostPerLeg: 4_000, MinHype: 0},
		{ID: "theaters", Name: "Theater Tour", Capacity: 3_000, TicketPrice: 45, CostPerLeg: 20_000, MinHype: 100},
		{ID: "arenas", Name: "Arena Tour", Capacity: 15_000, TicketPrice: 85, CostPerLeg: 120_000, MinHype: 350},
		{ID: "stadiums", Name: "Stadium Tour", Capacity: 50_000, TicketPrice: 120, CostPerLeg: 450_000, MinHype: 700},
	}
}

// TierByID finds a tier.
func TierByID(id string) (Tier, bool) {
	for _, t := range Tiers() {
		if t.ID == id {
			return t, true
		}
	}
	return Tier{}, false
}

var (
	ErrNoSongs           = errors.New("tour needs at least one song in the setlist")
	ErrNoRegions         = errors.New("tour needs at least one region")
	ErrUnknownTier       = errors.New("unknown tour tier")
	ErrUnknownRegion     = errors.New("unknown region")
	ErrUnknownSong       = errors.New("setlist song is not a released player song")
	ErrInsufficientFunds = errors.New("not enough money to book tour")
	ErrInsufficientHype  = errors.New("not enough hype for this tier")
	ErrAlreadyTouring    = errors.New("a tour is already in progress")
)

// Request is what the player picks when booking.
type Request struct {
	Name    string
	TierID  string
	Regions []world.RegionID
	Setlist []string
}

// Book validates a request against the player's state and builds the tour.
// Nothing is created when validation fails. The returned cost is what the
// caller must deduct.
func Book(req Request, st *world.State, rng entropy.Source) (*world.ActiveTour, int64, error) {
	if st.ActiveTour != nil {
		return nil, 0, ErrAlreadyTouring
	}
	if len(req.Setlist) == 0 {
		return nil, 0, ErrNoSongs
	}
	if len(req.Regions) == 0 {
		return nil, 0, ErrNoRegions
	}
	tier, ok := TierByID(req.TierID)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownTier, req.TierID)
	}
	for _, id := range req.Regions {
		if _, ok := st.Region(id); !ok {
			return nil, 0, fmt.Errorf("%w: %q", ErrUnknownRegion, id)
		}
	}

	qualitySum := 0
	for _, id := range req.Setlist {
		s, ok := st.SongByID(id)
		if !ok || !s.IsReleased {
			return nil, 0, fmt.Errorf("%w: %q", ErrUnknownSong, id)
		}
		qualitySum += s.Quality
	}

	cost := tier.CostPerLeg * int64(len(req.Regions))
	if st.Money < cost {
		return nil, 0, fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, cost, st.Money)
	}
	if st.Hype < tier.MinHype {
		return nil, 0, fmt.Errorf("%w: need %.0f, have %.0f", ErrInsufficientHype, tier.MinHype, st.Hype)
	}

	name := req.Name
	if name == "" {
		name = tier.Name
	}

	return &world.ActiveTour{
		ID:           entropy.NewID(rng),
		Name:         name,
		TierID:       tier.ID,
		Regions:      append([]world.RegionID(nil), req.Regions...),
		Setlist:      append([]string(nil), req.Setlist...),
		ShowQuality:  ShowQuality(qualitySum/len(req.Setlist), len(req.Setlist)),
		BaseCapacity: tier.Capacity,
		TicketPrice:  tier.TicketPrice,
		StartWeek:    st.Date.Linear(),
	}, cost, nil
}

// ShowQuality is fixed at booking from the setlist's mean quality, with a
// small bonus for a fuller set.
func ShowQuality(meanQuality, songs int) int {
	bonus := songs
	if bonus > 10 {
		bonus = 10
	}
	return world.Clamp(meanQuality+bonus, 0, 100)
}

// WeekResult is one processed leg. Tour is nil once the itinerary is done;
// Completed then carries the finished tour with its full history.
type WeekResult struct {
	Tour        *world.ActiveTour
	Completed   *world.ActiveTour
	Leg         *world.TourLeg
	WeekRevenue int64
	PopGains    map[world.RegionID]float64
	HypeGain    float64
}

// ProcessWeek plays the leg at CurrentLegIndex. The input tour is not modified.
func ProcessWeek(t *world.ActiveTour, regions []world.RegionStats, currentWeek int, rng entropy.Source, cfg config.Tour) WeekResult {
	if t == nil || t.CurrentLegIndex >= len(t.Regions) {
		return WeekResult{}
	}

	next := *t
	next.Regions = append([]world.RegionID(nil), t.Regions...)
	next.Setlist = append([]string(nil), t.Setlist...)
	next.History = append([]world.TourLeg(nil), t.History...)

	regionID := t.Regions[t.CurrentLegIndex]
	popularity, market := 0.0, 1.0
	for _, r := range regions {
		if r.ID == regionID {
			popularity, market = r.Popularity, r.MarketSize
			break
		}
	}

	attendance := Attendance(t.BaseCapacity, popularity, market, t.ShowQuality, entropy.Range(rng, 0.8, 1.2), cfg)
	revenue := int64(math.Floor(float64(attendance) * t.TicketPrice))

	ratio := 0.0
	if t.BaseCapacity > 0 {
		ratio = float64(attendance) / float64(t.BaseCapacity)
	}
	quality := float64(t.ShowQuality) / 100

	leg := world.TourLeg{
		Week:       currentWeek,
		Region:     regionID,
		Attendance: attendance,
		Capacity:   t.BaseCapacity,
		Revenue:    revenue,
		SoldOut:    attendance >= t.BaseCapacity,
	}
	next.History = append(next.History, leg)
	next.TotalRevenue += revenue
	next.TotalAttendance += int64(attendance)
	next.CurrentLegIndex++

	res := WeekResult{
		Leg:         &leg,
		WeekRevenue: revenue,
		PopGains:    map[world.RegionID]float64{regionID: cfg.PopGainBase + cfg.PopGainScale*ratio*quality},
		HypeGain:    cfg.HypeGainScale * ratio * (0.5 + quality),
	}
	if next.CurrentLegIndex >= len(next.Regions) {
		res.Completed = &next
		return res
	}
	res.Tour = &next
	return res
}

// Attendance for one show, clamped to [MinAttendance, capacity].
func Attendance(capacity int, popularity, market float64, showQuality int, roll float64, cfg config.Tour) int {
	a := float64(capacity) * world.Clamp(popularity, 0, 100) / 100 * market * roll
	if showQuality > cfg.SelloutBoostQuality {
		a *= cfg.QualityBoost
	}
	lo := cfg.MinAttendance
	if lo > capacity {
		lo = capacity
	}
	return world.Clamp(int(a), lo, capacity)
}
