package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hitmaker/internal/config"
)

func TestDate_NextRollsWeekMonthYear(t *testing.T) {
	next, monthChanged, yearChanged := Date{Week: 3, Month: 5, Year: 2024}.Next()
	assert.Equal(t, Date{Week: 4, Month: 5, Year: 2024}, next)
	assert.False(t, monthChanged)
	assert.False(t, yearChanged)

	next, monthChanged, yearChanged = Date{Week: 4, Month: 5, Year: 2024}.Next()
	assert.Equal(t, Date{Week: 1, Month: 6, Year: 2024}, next)
	assert.True(t, monthChanged)
	assert.False(t, yearChanged)

	next, monthChanged, yearChanged = Date{Week: 4, Month: 12, Year: 2024}.Next()
	assert.Equal(t, Date{Week: 1, Month: 1, Year: 2025}, next)
	assert.True(t, monthChanged)
	assert.True(t, yearChanged)
}

func TestDate_LinearIsMonotonic(t *testing.T) {
	d := StartDate()
	assert.Equal(t, 1, d.Linear())
	prev := d.Linear()
	for i := 0; i < 200; i++ {
		d, _, _ = d.Next()
		require.Equal(t, prev+1, d.Linear())
		prev = d.Linear()
	}
	assert.Equal(t, 49, Date{Week: 1, Month: 1, Year: 2025}.Linear())
}

func TestDate_Valid(t *testing.T) {
	assert.True(t, Date{Week: 1, Month: 1, Year: 2024}.Valid())
	assert.False(t, Date{Week: 5, Month: 1, Year: 2024}.Valid())
	assert.False(t, Date{Week: 1, Month: 13, Year: 2024}.Valid())
	assert.False(t, Date{Week: 1, Month: 1, Year: 2023}.Valid())
}

func TestDiffuseRegions_StaysInBoundsAndIsDeterministic(t *testing.T) {
	cfg := config.Default().Regions
	regions := DefaultRegions()
	regions[0].Popularity = 99
	streams := map[RegionID]int64{RegionNorthAmerica: 50_000_000, RegionUK: 10_000}

	a := DiffuseRegions(regions, streams, 10, cfg, NewRegionNoise(1))
	b := DiffuseRegions(regions, streams, 10, cfg, NewRegionNoise(1))
	assert.Equal(t, a, b)

	for _, r := range a {
		assert.GreaterOrEqual(t, r.Popularity, 0.0)
		assert.LessOrEqual(t, r.Popularity, 100.0)
	}
	assert.Len(t, a, len(regions))
	// Input untouched.
	assert.Equal(t, 99.0, regions[0].Popularity)
}

func TestDiffuseRegions_SpilloverRaisesNeighbors(t *testing.T) {
	cfg := config.Default().Regions
	cfg.NoiseAmplitude = 0
	cfg.PopularityDecay = 1
	regions := DefaultRegions()
	for i := range regions {
		regions[i].Popularity = 0
	}
	regions[0].Popularity = 80 // NA

	out := DiffuseRegions(regions, nil, 1, cfg, nil)
	latam, _ := (&State{Regions: out}).Region(RegionLatinAmerica)
	korea, _ := (&State{Regions: out}).Region(RegionKorea)
	assert.Greater(t, latam.Popularity, 0.0)
	assert.Equal(t, 0.0, korea.Popularity)
}

func TestClone_IsDeep(t *testing.T) {
	s := &State{
		Date:    StartDate(),
		Regions: DefaultRegions(),
		Songs: []Song{{
			ID:           "s1",
			RegionalData: map[RegionID]RegionalStat{RegionUK: {Streams: 10}},
		}},
		Trends: map[Genre]float64{GenrePop: 1.1},
	}
	c, err := s.Clone()
	require.NoError(t, err)

	c.Songs[0].RegionalData[RegionUK] = RegionalStat{Streams: 99}
	c.Regions[0].Popularity = 77
	c.Trends[GenrePop] = 0.5

	assert.Equal(t, int64(10), s.Songs[0].RegionalData[RegionUK].Streams)
	assert.NotEqual(t, 77.0, s.Regions[0].Popularity)
	assert.Equal(t, 1.1, s.Trends[GenrePop])
	assert.NotNil(t, c.ActiveCharts)
}

func TestDecode_RejectsMalformedAndInvalid(t *testing.T) {
	_, err := Decode([]byte(`{"state":`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"artist":{"id":"a"}}`))
	assert.ErrorIs(t, err, ErrNilState)

	_, err = Decode([]byte(`{"state":{"date":{"week":1,"month":1,"year":2024},"regions":[]},"artist":{"id":"a"}}`))
	assert.ErrorIs(t, err, ErrNoRegions)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	s := &State{Date: StartDate(), Regions: DefaultRegions(), Money: 1234, Hype: 12.5}
	data, err := Encode(&Save{State: s, Artist: Artist{ID: "a1", Name: "Nova"}})
	require.NoError(t, err)

	sv, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, int64(1234), sv.State.Money)
	assert.Equal(t, 12.5, sv.State.Hype)
	assert.Equal(t, "Nova", sv.Artist.Name)
}

func TestAlbumTypeFor(t *testing.T) {
	assert.Equal(t, AlbumEP, AlbumTypeFor(6))
	assert.Equal(t, AlbumLP, AlbumTypeFor(7))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.5, Clamp(0.2, 0.5, 1.5))
	assert.Equal(t, 1000, Clamp(1200, 0, 1000))
	assert.Equal(t, int64(0), NonNegative(int64(-3)))
}
