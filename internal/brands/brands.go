package brands

import (
	"errors"
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hitmaker/internal/config"
	"github.com/talgya/hitmaker/internal/entropy"
	"github.com/talgya/hitmaker/internal/world"
)

var (
	ErrAlreadyNegotiated = errors.New("offer was already negotiated")
	ErrNotPending        = errors.New("offer is no longer pending")
	ErrUnknownBrand      = errors.New("unknown brand")
	ErrUnknownStyle      = errors.New("unknown creative style")
)

// Context is the slice of player state the brand engine reads.
type Context struct {
	Week       int
	Hype       float64
	Reputation float64
	ArtistName string
	Handle     string
}

// OfferResult is the pending offer list after a weekly check.
type OfferResult struct {
	Pending   []world.BrandOffer
	New       []world.BrandOffer
	Withdrawn []world.BrandOffer
	Messages  []world.Message
}

// CheckOffers withdraws stale offers and rolls new ones from brands that are
// neither under contract nor already offering.
func CheckOffers(pending, active []world.BrandOffer, ctx Context, catalog []Brand, rng entropy.Source, cfg config.Brands) OfferResult {
	var res OfferResult
	busy := make(map[string]bool)
	for _, d := range active {
		busy[d.BrandID] = true
	}
	for _, o := range pending {
		busy[o.BrandID] = true
		if ctx.Week-o.OfferedWeek >= cfg.OfferExpiryWeeks {
			res.Withdrawn = append(res.Withdrawn, o)
			continue
		}
		res.Pending = append(res.Pending, o)
	}

	chance := cfg.BaseOfferChance + world.Clamp(ctx.Reputation, 0, 100)/100*cfg.ReputationOfferBoost
	for _, b := range catalog {
		if busy[b.ID] || ctx.Hype < b.MinHype {
			continue
		}
		if !entropy.Chance(rng, chance) {
			continue
		}
		dt := pickDealType(ctx.Hype, rng)
		offer := world.BrandOffer{
			ID:                entropy.NewID(rng),
			BrandID:           b.ID,
			BrandName:         b.Name,
			Type:              dt,
			Payout:            Payout(b, dt, ctx.Hype),
			WeeksDuration:     dealTerms[dt].weeks,
			OfferedWeek:       ctx.Week,
			RelationshipScore: 50,
		}
		res.New = append(res.New, offer)
		res.Pending = append(res.Pending, offer)
		res.Messages = append(res.Messages, world.Message{
			ID:      entropy.NewID(rng),
			Week:    ctx.Week,
			From:    b.Name,
			Subject: fmt.Sprintf("%s offer: %s", humanizeDeal(dt), b.Name),
			Body: fmt.Sprintf("%s would like to sign %s to a %d-week %s deal worth $%s.",
				b.Name, ctx.ArtistName, offer.WeeksDuration, humanizeDeal(dt), humanize.Comma(offer.Payout)),
			OfferID: offer.ID,
		})
	}
	return res
}

// Payout scales a brand's base fee by deal tier and current hype.
func Payout(b Brand, dt world.DealType, hype float64) int64 {
	return int64(math.Round(float64(b.BasePayout) * dealTerms[dt].multiplier * (1 + world.Clamp(hype, 0, 1000)/1000)))
}

func pickDealType(hype float64, rng entropy.Source) world.DealType {
	types := []world.DealType{world.DealCampaign, world.DealAmbassador, world.DealGlobalAmbassador}
	weights := []float64{1, 0, 0}
	if hype >= dealTerms[world.DealAmbassador].minHype {
		weights[1] = 0.6
	}
	if hype >= dealTerms[world.DealGlobalAmbassador].minHype {
		weights[2] = 0.3
	}
	return types[entropy.Weighted(rng, weights)]
}

func humanizeDeal(dt world.DealType) string {
	switch dt {
	case world.DealAmbassador:
		return "ambassador"
	case world.DealGlobalAmbassador:
		return "global ambassador"
	}
	return "campaign"
}

// NegotiationResult is the outcome of a single counter-offer. A failed
// negotiation has NewOffer == nil; the caller marks the original rejected.
type NegotiationResult struct {
	NewOffer *world.BrandOffer
	Message  world.Message
}

// Negotiate asks for more money once per offer. Success odds rise with reputation.
func Negotiate(offer world.BrandOffer, ctx Context, rng entropy.Source) (NegotiationResult, error) {
	if offer.IsAccepted || offer.IsRejected {
		return NegotiationResult{}, ErrNotPending
	}
	if offer.IsNegotiated {
		return NegotiationResult{}, ErrAlreadyNegotiated
	}

	odds := 0.3 + world.Clamp(ctx.Reputation, 0, 100)/100*0.5
	if !entropy.Chance(rng, odds) {
		return NegotiationResult{Message: world.Message{
			ID:      entropy.NewID(rng),
			Week:    ctx.Week,
			From:    offer.BrandName,
			Subject: "Offer withdrawn",
			Body:    fmt.Sprintf("%s has walked away from the table.", offer.BrandName),
			OfferID: offer.ID,
		}}, nil
	}

	next := offer
	next.Products = append([]world.BrandProduct(nil), offer.Products...)
	next.Payout = int64(math.Round(float64(offer.Payout) * entropy.Range(rng, 1.25, 1.45)))
	next.IsNegotiated = true
	return NegotiationResult{
		NewOffer: &next,
		Message: world.Message{
			ID:      entropy.NewID(rng),
			Week:    ctx.Week,
			From:    offer.BrandName,
			Subject: "Counter-offer accepted",
			Body:    fmt.Sprintf("%s raised the deal to $%s.", offer.BrandName, humanize.Comma(next.Payout)),
			OfferID: offer.ID,
		},
	}, nil
}

// Reject marks an offer rejected.
func Reject(offer world.BrandOffer) world.BrandOffer {
	offer.IsRejected = true
	offer.IsAccepted = false
	return offer
}

// CampaignOutcome is an accepted contract and what executing it paid out.
type CampaignOutcome struct {
	Deal      world.BrandOffer
	Money     int64
	HypeDelta float64
}

// ExecuteCampaign accepts an offer with the chosen creative direction. The
// match score is fixed here and seeds the relationship.
func ExecuteCampaign(offer world.BrandOffer, b Brand, style world.CreativeStyle, ctx Context, rng entropy.Source) (CampaignOutcome, error) {
	if offer.IsAccepted || offer.IsRejected {
		return CampaignOutcome{}, ErrNotPending
	}
	if !validStyle(style) {
		return CampaignOutcome{}, fmt.Errorf("%w: %q", ErrUnknownStyle, style)
	}

	score := MatchScore(b, style, rng)
	result := &world.CampaignResult{Style: style, MatchScore: score, Verdict: "solid"}
	switch {
	case score >= 85:
		result.MoneyBonus = offer.Payout / 5
		result.HypeDelta = 30
		result.Verdict = "smash"
	case score < 30:
		result.HypeDelta = -25
		result.Verdict = "flop"
	}

	deal := offer
	deal.IsAccepted = true
	deal.IsRejected = false
	deal.WeeksRemaining = offer.WeeksDuration
	deal.WeeksActive = 0
	deal.RelationshipScore = float64(score)
	deal.CampaignResult = result
	deal.Products = append([]world.BrandProduct(nil), offer.Products...)
	if len(deal.Products) == 0 && len(b.Products) > 0 {
		deal.Products = append(deal.Products, launch(b.Products[0], false, ctx.Week, rng))
	}

	return CampaignOutcome{
		Deal:      deal,
		Money:     offer.Payout + result.MoneyBonus,
		HypeDelta: result.HypeDelta,
	}, nil
}

// MatchScore rates a creative style against a brand, 0..100.
func MatchScore(b Brand, style world.CreativeStyle, rng entropy.Source) int {
	score := 50.0
	switch {
	case style == b.Preferred:
		score += 40
	case b.compatible(style):
		score += 15
	}
	switch {
	case b.Tier == TierLuxury && style == world.StyleViral:
		score -= 45
	case b.Tier == TierLuxury && style == world.StyleWholesome:
		score -= 20
	case b.Tier == TierBudget && style == world.StyleCinematic:
		score -= 15
	}
	score += entropy.Range(rng, 0, 10)
	return int(world.Clamp(score, 0, 100))
}

func validStyle(s world.CreativeStyle) bool {
	switch s {
	case world.StyleViral, world.StyleCinematic, world.StyleMinimal, world.StyleEdgy, world.StyleWholesome:
		return true
	}
	return false
}

func launch(t ProductTemplate, signature bool, week int, rng entropy.Source) world.BrandProduct {
	return world.BrandProduct{
		ID:           entropy.NewID(rng),
		Name:         t.Name,
		Price:        t.Price,
		IsSignature:  signature,
		LaunchedWeek: week,
	}
}

// DealsResult is the active contract list after a week plus everything the
// week produced.
type DealsResult struct {
	Active          []world.BrandOffer
	Ended           []world.BrandOffer
	Renewals        []world.BrandOffer
	Money           int64
	HypeDelta       float64
	ReputationDelta float64
	Posts           []world.Post
	Messages        []world.Message
}

// ProcessActiveDeals advances every active contract by one week.
func ProcessActiveDeals(deals []world.BrandOffer, ctx Context, catalog []Brand, rng entropy.Source, cfg config.Brands) DealsResult {
	var res DealsResult
	for _, d := range deals {
		b, ok := Find(catalog, d.BrandID)
		if !ok {
			b = Brand{ID: d.BrandID, Name: d.BrandName, Tier: TierMainstream}
		}
		deal := d
		deal.Products = append([]world.BrandProduct(nil), d.Products...)
		deal.WeeksActive++
		deal.WeeksRemaining--

		viral := entropy.Chance(rng, cfg.ViralChance)
		spike := 1.0
		if viral {
			spike = 3
			res.HypeDelta += 20
			deal.RelationshipScore += 5
			res.Posts = append(res.Posts, adPost(deal, b, ctx, rng, fmt.Sprintf("%s x %s is everywhere this week", ctx.ArtistName, b.Name)))
		}

		for i := range deal.Products {
			p := &deal.Products[i]
			units := int64(world.NonNegative(deal.RelationshipScore/100*(1+ctx.Hype/200)*unitsFor(b.Tier, p.IsSignature)*entropy.Range(rng, 0.7, 1.3)*spike))
			revenue := float64(units) * p.Price
			p.UnitsSold += units
			p.Revenue += revenue
			res.Money += int64(revenue * cfg.RoyaltyShare)
		}

		if cfg.QuarterWeeks > 0 && deal.WeeksActive%cfg.QuarterWeeks == 0 {
			bonus := int64(float64(deal.Payout) * 0.1 * world.Clamp(ctx.Reputation, 0, 100) / 100)
			res.Money += bonus
			res.Messages = append(res.Messages, world.Message{
				ID:      entropy.NewID(rng),
				Week:    ctx.Week,
				From:    b.Name,
				Subject: "Quarterly partnership report",
				Body:    quarterlyBody(deal, bonus),
				OfferID: deal.ID,
			})
		}

		if !viral && entropy.Chance(rng, cfg.AdPostChance) {
			res.Posts = append(res.Posts, adPost(deal, b, ctx, rng, b.Tagline))
		}

		if entropy.Chance(rng, cfg.ProductDropChance) {
			if deal.RelationshipScore >= 80 && b.Signature.Name != "" && !hasSignature(deal) && entropy.Chance(rng, 0.25) {
				deal.Products = append(deal.Products, launch(b.Signature, true, ctx.Week, rng))
			} else if len(b.Products) > 0 {
				deal.Products = append(deal.Products, launch(entropy.Pick(rng, b.Products), false, ctx.Week, rng))
			}
		}

		deal.RelationshipScore = world.Clamp(deal.RelationshipScore+relationshipDrift(ctx.Hype, rng), 0, 100)

		if ctx.Reputation < cfg.ScandalReputation && entropy.Chance(rng, cfg.ScandalChance) {
			res.Ended = append(res.Ended, deal)
			res.ReputationDelta -= 5
			res.Messages = append(res.Messages, world.Message{
				ID:      entropy.NewID(rng),
				Week:    ctx.Week,
				From:    b.Name,
				Subject: "Contract terminated",
				Body:    fmt.Sprintf("%s is ending the partnership early, citing recent headlines.", b.Name),
				OfferID: deal.ID,
			})
			continue
		}

		if deal.WeeksRemaining <= 0 {
			res.Ended = append(res.Ended, deal)
			if ctx.Hype >= b.MinHype && deal.RelationshipScore > cfg.RenewalRelationship {
				renewal := world.BrandOffer{
					ID:                entropy.NewID(rng),
					BrandID:           deal.BrandID,
					BrandName:         deal.BrandName,
					Type:              deal.Type,
					Payout:            int64(math.Round(float64(deal.Payout) * (1 + deal.RelationshipScore/200))),
					WeeksDuration:     deal.WeeksDuration,
					OfferedWeek:       ctx.Week,
					RelationshipScore: deal.RelationshipScore,
					Products:          deal.Products,
					IsRenewal:         true,
				}
				res.Renewals = append(res.Renewals, renewal)
				res.Messages = append(res.Messages, world.Message{
					ID:      entropy.NewID(rng),
					Week:    ctx.Week,
					From:    b.Name,
					Subject: "Renewal offer",
					Body:    fmt.Sprintf("%s wants another %d weeks at $%s.", b.Name, renewal.WeeksDuration, humanize.Comma(renewal.Payout)),
					OfferID: renewal.ID,
				})
			}
			continue
		}
		res.Active = append(res.Active, deal)
	}
	return res
}

func unitsFor(t Tier, signature bool) float64 {
	base := 400.0
	switch t {
	case TierMainstream:
		base = 150
	case TierLuxury:
		base = 25
	}
	if signature {
		base *= 2
	}
	return base
}

func hasSignature(d world.BrandOffer) bool {
	for _, p := range d.Products {
		if p.IsSignature {
			return true
		}
	}
	return false
}

// relationshipDrift nudges a relationship up when the artist is hot and
// down when they cool off.
func relationshipDrift(hype float64, rng entropy.Source) float64 {
	return (world.Clamp(hype, 0, 1000)/1000)*2 - 0.5 + entropy.Range(rng, -0.5, 0.5)
}

func quarterlyBody(d world.BrandOffer, bonus int64) string {
	var units int64
	var revenue float64
	for _, p := range d.Products {
		units += p.UnitsSold
		revenue += p.Revenue
	}
	body := fmt.Sprintf("%s units sold, $%s in revenue so far.", humanize.Comma(units), humanize.Commaf(math.Round(revenue)))
	if bonus > 0 {
		body += fmt.Sprintf(" Performance bonus: $%s.", humanize.Comma(bonus))
	}
	return body
}

func adPost(d world.BrandOffer, b Brand, ctx Context, rng entropy.Source, content string) world.Post {
	product := ""
	if len(d.Products) > 0 {
		product = d.Products[len(d.Products)-1].Name
	}
	return world.Post{
		ID:         entropy.NewID(rng),
		Kind:       world.PostBrandAd,
		Week:       ctx.Week,
		AuthorID:   b.ID,
		AuthorName: b.Name,
		Handle:     "@" + b.ID,
		Verified:   true,
		Content:    content,
		Likes:      int64(entropy.Range(rng, 500, 5000) * (1 + ctx.Hype/250)),
		Ad: &world.AdCard{
			BrandID:     b.ID,
			BrandName:   b.Name,
			ProductName: product,
			Tagline:     b.Tagline,
		},
	}
}
