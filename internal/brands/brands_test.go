package brands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hitmaker/internal/config"
	"github.com/talgya/hitmaker/internal/entropy"
	"github.com/talgya/hitmaker/internal/world"
)

// fixed is a Source that always returns the same value.
type fixed float64

func (f fixed) Float64() float64 { return float64(f) }

func pendingOffer() world.BrandOffer {
	return world.BrandOffer{
		ID: "o1", BrandID: "pulse", BrandName: "Pulse Audio",
		Type: world.DealCampaign, Payout: 30_000, WeeksDuration: 8, OfferedWeek: 5,
	}
}

func TestNegotiate_FailureWithdrawsOffer(t *testing.T) {
	offer := pendingOffer()
	// 0.99 is above any success odds.
	res, err := Negotiate(offer, Context{Week: 6, Reputation: 100}, fixed(0.99))
	require.NoError(t, err)
	assert.Nil(t, res.NewOffer)
	assert.Equal(t, "Offer withdrawn", res.Message.Subject)

	rejected := Reject(offer)
	assert.True(t, rejected.IsRejected)
	assert.False(t, rejected.IsAccepted)
	assert.False(t, offer.IsRejected, "input untouched")
}

func TestNegotiate_SuccessRaisesPayoutOnce(t *testing.T) {
	offer := pendingOffer()
	res, err := Negotiate(offer, Context{Week: 6, Reputation: 80}, fixed(0.1))
	require.NoError(t, err)
	require.NotNil(t, res.NewOffer)
	assert.True(t, res.NewOffer.IsNegotiated)
	assert.GreaterOrEqual(t, res.NewOffer.Payout, int64(37_500))
	assert.LessOrEqual(t, res.NewOffer.Payout, int64(43_500))

	_, err = Negotiate(*res.NewOffer, Context{Week: 6, Reputation: 80}, fixed(0.1))
	assert.ErrorIs(t, err, ErrAlreadyNegotiated)

	_, err = Negotiate(Reject(offer), Context{}, fixed(0.1))
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestMatchScore_TierPenalties(t *testing.T) {
	cat := Catalog()
	luxury, _ := Find(cat, "velocity")
	budget, _ := Find(cat, "fizzup")

	assert.Equal(t, 90, MatchScore(luxury, world.StyleCinematic, fixed(0)))
	assert.Equal(t, 5, MatchScore(luxury, world.StyleViral, fixed(0)))
	assert.Equal(t, 35, MatchScore(budget, world.StyleCinematic, fixed(0)))
	assert.Equal(t, 99, MatchScore(budget, world.StyleViral, fixed(0.999)))
}

func TestExecuteCampaign(t *testing.T) {
	cat := Catalog()
	b, _ := Find(cat, "velocity")
	offer := pendingOffer()
	offer.BrandID = b.ID

	out, err := ExecuteCampaign(offer, b, world.StyleCinematic, Context{Week: 6}, fixed(0.5))
	require.NoError(t, err)
	assert.True(t, out.Deal.IsAccepted)
	assert.Equal(t, 8, out.Deal.WeeksRemaining)
	require.NotNil(t, out.Deal.CampaignResult)
	assert.Equal(t, 95, out.Deal.CampaignResult.MatchScore)
	assert.Equal(t, 95.0, out.Deal.RelationshipScore)
	assert.Equal(t, int64(36_000), out.Money)
	assert.Equal(t, 30.0, out.HypeDelta)
	assert.Len(t, out.Deal.Products, 1)

	flop, err := ExecuteCampaign(offer, b, world.StyleViral, Context{Week: 6}, fixed(0.5))
	require.NoError(t, err)
	assert.Equal(t, -25.0, flop.HypeDelta)
	assert.Equal(t, int64(30_000), flop.Money)

	_, err = ExecuteCampaign(out.Deal, b, world.StyleMinimal, Context{}, fixed(0.5))
	assert.ErrorIs(t, err, ErrNotPending)

	_, err = ExecuteCampaign(offer, b, "interpretive-dance", Context{}, fixed(0.5))
	assert.ErrorIs(t, err, ErrUnknownStyle)
}

func TestCheckOffers_SkipsBusyAndExpiresStale(t *testing.T) {
	cfg := config.Default().Brands
	cat := Catalog()
	pending := []world.BrandOffer{
		{ID: "stale", BrandID: "fizzup", OfferedWeek: 1},
		{ID: "fresh", BrandID: "streetline", OfferedWeek: 9},
	}
	active := []world.BrandOffer{{ID: "a", BrandID: "pulse", IsAccepted: true}}

	// fixed(0) wins every roll.
	res := CheckOffers(pending, active, Context{Week: 10, Hype: 1000, Reputation: 100}, cat, fixed(0), cfg)

	require.Len(t, res.Withdrawn, 1)
	assert.Equal(t, "stale", res.Withdrawn[0].ID)
	for _, o := range res.New {
		assert.NotEqual(t, "pulse", o.BrandID, "brand under contract")
		assert.NotEqual(t, "streetline", o.BrandID, "brand already offering")
		assert.Greater(t, o.Payout, int64(0))
	}
	// fizzup's stale offer is withdrawn this week, so it stays busy until next week.
	assert.Len(t, res.New, len(cat)-3)
	assert.Len(t, res.Messages, len(res.New))
	assert.Len(t, res.Pending, 1+len(res.New))
}

func TestCheckOffers_HypeGate(t *testing.T) {
	cfg := config.Default().Brands
	res := CheckOffers(nil, nil, Context{Week: 1, Hype: 0, Reputation: 100}, Catalog(), fixed(0), cfg)
	require.Len(t, res.New, 1)
	assert.Equal(t, "fizzup", res.New[0].BrandID)
	assert.Equal(t, world.DealCampaign, res.New[0].Type)
}

func TestProcessActiveDeals_ExpiryAndRenewal(t *testing.T) {
	cfg := config.Default().Brands
	cfg.ScandalChance = 0
	deal := world.BrandOffer{
		ID: "d1", BrandID: "fizzup", BrandName: "FizzUp Soda", Type: world.DealCampaign,
		Payout: 10_000, WeeksDuration: 8, WeeksRemaining: 1, IsAccepted: true,
		RelationshipScore: 90,
		Products:          []world.BrandProduct{{ID: "p", Name: "Limited Can", Price: 2.5}},
	}
	res := ProcessActiveDeals([]world.BrandOffer{deal}, Context{Week: 20, Hype: 300, Reputation: 60}, Catalog(), entropy.NewSeeded(1), cfg)

	assert.Empty(t, res.Active)
	require.Len(t, res.Ended, 1)
	require.Len(t, res.Renewals, 1)
	r := res.Renewals[0]
	assert.True(t, r.IsRenewal)
	assert.False(t, r.IsAccepted)
	assert.Greater(t, r.Payout, deal.Payout)
	assert.Greater(t, res.Ended[0].Products[0].UnitsSold, int64(0))
	assert.Greater(t, res.Money, int64(0))
}

func TestProcessActiveDeals_ScandalTerminates(t *testing.T) {
	cfg := config.Default().Brands
	cfg.ScandalChance = 1
	deal := world.BrandOffer{ID: "d1", BrandID: "pulse", IsAccepted: true, WeeksRemaining: 10, RelationshipScore: 50}
	res := ProcessActiveDeals([]world.BrandOffer{deal}, Context{Week: 3, Reputation: 5}, Catalog(), entropy.NewSeeded(2), cfg)
	assert.Empty(t, res.Active)
	assert.Len(t, res.Ended, 1)
	assert.Empty(t, res.Renewals)
	assert.Less(t, res.ReputationDelta, 0.0)
}

func TestProcessActiveDeals_QuarterlyReport(t *testing.T) {
	cfg := config.Default().Brands
	cfg.ScandalChance = 0
	deal := world.BrandOffer{
		ID: "d1", BrandID: "pulse", BrandName: "Pulse Audio", IsAccepted: true,
		Payout: 100_000, WeeksRemaining: 20, WeeksActive: 11, RelationshipScore: 50,
	}
	res := ProcessActiveDeals([]world.BrandOffer{deal}, Context{Week: 30, Reputation: 50}, Catalog(), entropy.NewSeeded(3), cfg)
	require.Len(t, res.Active, 1)
	assert.Equal(t, 12, res.Active[0].WeeksActive)
	assert.Equal(t, 19, res.Active[0].WeeksRemaining)

	var report bool
	for _, m := range res.Messages {
		if m.Subject == "Quarterly partnership report" {
			report = true
		}
	}
	assert.True(t, report)
	assert.GreaterOrEqual(t, res.Money, int64(5_000))
}
