// Package brands runs sponsorship offers and active brand contracts.
package brands

import "github.com/talgya/hitmaker/internal/world"

// Tier is a brand's market position. It changes which creative styles land.
type Tier string

const (
	TierBudget     Tier = "budget"
	TierMainstream Tier = "mainstream"
	TierLuxury     Tier = "luxury"
)

// ProductTemplate is a product a brand can launch with the artist.
type ProductTemplate struct {
	Name  string
	Price float64
}

// Brand is a potential sponsor.
type Brand struct {
	ID         string
	Name       string
	Tier       Tier
	Preferred  world.CreativeStyle
	Compatible []world.CreativeStyle
	MinHype    float64
	BasePayout int64
	Tagline    string
	Products   []ProductTemplate
	Signature  ProductTemplate
}

// Catalog returns every brand that can approach the player.
func Catalog() []Brand {
	return []Brand{
		{
			ID: "fizzup", Name: "FizzUp Soda", Tier: TierBudget,
			Preferred: world.StyleViral, Compatible: []world.CreativeStyle{world.StyleWholesome, world.StyleEdgy},
			MinHype: 0, BasePayout: 8_000, Tagline: "Pop the moment.",
			Products:  []ProductTemplate{{"Limited Can", 2.5}, {"Summer Six-Pack", 9}},
			Signature: ProductTemplate{"Signature Flavor", 3.5},
		},
		{
			ID: "streetline", Name: "Streetline", Tier: TierBudget,
			Preferred: world.StyleEdgy, Compatible: []world.CreativeStyle{world.StyleViral},
			MinHype: 50, BasePayout: 12_000, Tagline: "Built for the block.",
			Products:  []ProductTemplate{{"Logo Tee", 25}, {"Crew Socks", 12}},
			Signature: ProductTemplate{"Signature Sneaker", 140},
		},
		{
			ID: "pulse", Name: "Pulse Audio", Tier: TierMainstream,
			Preferred: world.StyleMinimal, Compatible: []world.CreativeStyle{world.StyleCinematic, world.StyleViral},
			MinHype: 150, BasePayout: 30_000, Tagline: "Hear everything.",
			Products:  []ProductTemplate{{"Wireless Buds", 129}, {"Studio Cans", 249}},
			Signature: ProductTemplate{"Signature Edition Headphones", 399},
		},
		{
			ID: "glowlab", Name: "GlowLab Beauty", Tier: TierMainstream,
			Preferred: world.StyleWholesome, Compatible: []world.CreativeStyle{world.StyleMinimal, world.StyleViral},
			MinHype: 200, BasePayout: 35_000, Tagline: "Shine on your terms.",
			Products:  []ProductTemplate{{"Highlighter Palette", 38}, {"Lip Set", 24}},
			Signature: ProductTemplate{"Signature Fragrance", 85},
		},
		{
			ID: "velocity", Name: "Velocity Motors", Tier: TierLuxury,
			Preferred: world.StyleCinematic, Compatible: []world.CreativeStyle{world.StyleMinimal},
			MinHype: 450, BasePayout: 120_000, Tagline: "Arrive.",
			Products:  []ProductTemplate{{"Collector Model", 180}},
			Signature: ProductTemplate{"Signature Edition Roadster", 2_400},
		},
		{
			ID: "maison-noir", Name: "Maison Noir", Tier: TierLuxury,
			Preferred: world.StyleMinimal, Compatible: []world.CreativeStyle{world.StyleCinematic, world.StyleEdgy},
			MinHype: 600, BasePayout: 200_000, Tagline: "Quietly unforgettable.",
			Products:  []ProductTemplate{{"Leather Card Case", 320}, {"Silk Scarf", 450}},
			Signature: ProductTemplate{"Signature Handbag", 3_200},
		},
	}
}

// Find looks up a brand by id.
func Find(catalog []Brand, id string) (Brand, bool) {
	for _, b := range catalog {
		if b.ID == id {
			return b, true
		}
	}
	return Brand{}, false
}

func (b Brand) compatible(style world.CreativeStyle) bool {
	for _, s := range b.Compatible {
		if s == style {
			return true
		}
	}
	return false
}

// dealTerms are the multiplier and length of each contract tier.
var dealTerms = map[world.DealType]struct {
	multiplier float64
	weeks      int
	minHype    float64
}{
	world.DealCampaign:         {multiplier: 1, weeks: 8, minHype: 0},
	world.DealAmbassador:       {multiplier: 3, weeks: 24, minHype: 250},
	world.DealGlobalAmbassador: {multiplier: 8, weeks: 48, minHype: 600},
}
