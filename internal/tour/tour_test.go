package tour

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hitmaker/internal/config"
	"github.com/talgya/hitmaker/internal/entropy"
	"github.com/talgya/hitmaker/internal/world"
)

func touringState() *world.State {
	return &world.State{
		Date:    world.StartDate(),
		Money:   1_000_000,
		Hype:    400,
		Regions: world.DefaultRegions(),
		Songs: []world.Song{
			{ID: "s1", Quality: 90, IsReleased: true, IsPlayer: true},
			{ID: "s2", Quality: 70, IsReleased: true, IsPlayer: true},
			{ID: "demo", Quality: 99, IsPlayer: true},
		},
	}
}

func TestBook_Validation(t *testing.T) {
	rng := entropy.NewSeeded(1)
	st := touringState()
	regions := []world.RegionID{world.RegionUK, world.RegionEurope}

	_, _, err := Book(Request{TierID: "clubs", Regions: regions}, st, rng)
	assert.ErrorIs(t, err, ErrNoSongs)

	_, _, err = Book(Request{TierID: "clubs", Setlist: []string{"s1"}}, st, rng)
	assert.ErrorIs(t, err, ErrNoRegions)

	_, _, err = Book(Request{TierID: "moon", Regions: regions, Setlist: []string{"s1"}}, st, rng)
	assert.ErrorIs(t, err, ErrUnknownTier)

	_, _, err = Book(Request{TierID: "clubs", Regions: []world.RegionID{"MARS"}, Setlist: []string{"s1"}}, st, rng)
	assert.ErrorIs(t, err, ErrUnknownRegion)

	_, _, err = Book(Request{TierID: "clubs", Regions: regions, Setlist: []string{"demo"}}, st, rng)
	assert.ErrorIs(t, err, ErrUnknownSong)

	big := []world.RegionID{world.RegionUK, world.RegionEurope, world.RegionNorthAmerica}
	_, _, err = Book(Request{TierID: "stadiums", Regions: big, Setlist: []string{"s1"}}, st, rng)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	st.Money = 10_000_000
	_, _, err = Book(Request{TierID: "stadiums", Regions: big, Setlist: []string{"s1"}}, st, rng)
	assert.ErrorIs(t, err, ErrInsufficientHype)

	st.ActiveTour = &world.ActiveTour{}
	_, _, err = Book(Request{TierID: "clubs", Regions: regions, Setlist: []string{"s1"}}, st, rng)
	assert.ErrorIs(t, err, ErrAlreadyTouring)
}

func TestBook_BuildsTour(t *testing.T) {
	st := touringState()
	tr, cost, err := Book(Request{
		TierID:  "arenas",
		Regions: []world.RegionID{world.RegionUK, world.RegionEurope, world.RegionNorthAmerica},
		Setlist: []string{"s1", "s2"},
	}, st, entropy.NewSeeded(2))
	require.NoError(t, err)

	assert.Equal(t, int64(360_000), cost)
	assert.Equal(t, "Arena Tour", tr.Name)
	assert.Equal(t, 82, tr.ShowQuality)
	assert.Equal(t, 15_000, tr.BaseCapacity)
	assert.NotEmpty(t, tr.ID)
	assert.Equal(t, int64(1_000_000), st.Money, "booking does not charge")
}

func TestProcessWeek_TerminatesAfterEveryLeg(t *testing.T) {
	cfg := config.Default().Tour
	st := touringState()
	tr, _, err := Book(Request{
		TierID:  "clubs",
		Regions: []world.RegionID{world.RegionUK, world.RegionEurope, world.RegionAsia, world.RegionKorea},
		Setlist: []string{"s1"},
	}, st, entropy.NewSeeded(3))
	require.NoError(t, err)

	rng := entropy.NewSeeded(4)
	cur := tr
	var res WeekResult
	for i := 0; i < len(tr.Regions); i++ {
		require.NotNil(t, cur, "tour ended early at leg %d", i)
		res = ProcessWeek(cur, st.Regions, 10+i, rng, cfg)
		cur = res.Tour
	}

	assert.Nil(t, res.Tour)
	require.NotNil(t, res.Completed)
	assert.Len(t, res.Completed.History, len(tr.Regions))
	assert.Empty(t, tr.History, "input tour untouched")

	var total int64
	for i, leg := range res.Completed.History {
		assert.Equal(t, tr.Regions[i], leg.Region)
		assert.GreaterOrEqual(t, leg.Attendance, cfg.MinAttendance)
		assert.LessOrEqual(t, leg.Attendance, tr.BaseCapacity)
		total += leg.Revenue
	}
	assert.Equal(t, total, res.Completed.TotalRevenue)
}

func TestProcessWeek_FinishedTourReturnsNil(t *testing.T) {
	tr := &world.ActiveTour{Regions: []world.RegionID{world.RegionUK}, CurrentLegIndex: 1}
	res := ProcessWeek(tr, world.DefaultRegions(), 5, entropy.NewSeeded(1), config.Default().Tour)
	assert.Nil(t, res.Tour)
	assert.Nil(t, res.Completed)
	assert.Zero(t, res.WeekRevenue)
}

func TestAttendance(t *testing.T) {
	cfg := config.Default().Tour
	assert.Equal(t, 50, Attendance(1000, 0, 1, 50, 1, cfg))
	assert.Equal(t, 1000, Attendance(1000, 100, 2, 50, 1.2, cfg))
	assert.Equal(t, 500, Attendance(1000, 50, 1, 50, 1, cfg))
	assert.InDelta(t, 600, Attendance(1000, 50, 1, 81, 1, cfg), 1)
}
