// Package world defines the simulation state and the static catalog it is built on:
// genres, themes, regions and the calendar.
package world

// Genre is a musical genre.
type Genre string

const (
	GenrePop        Genre = "Pop"
	GenreHipHop     Genre = "Hip Hop"
	GenreRnB        Genre = "R&B"
	GenreRock       Genre = "Rock"
	GenreElectronic Genre = "Electronic"
	GenreCountry    Genre = "Country"
	GenreLatin      Genre = "Latin"
	GenreKPop       Genre = "K-Pop"
	GenreIndie      Genre = "Indie"
)

// AllGenres returns every genre in a fixed order.
func AllGenres() []Genre {
	return []Genre{
		GenrePop, GenreHipHop, GenreRnB, GenreRock, GenreElectronic,
		GenreCountry, GenreLatin, GenreKPop, GenreIndie,
	}
}

// ThemeID identifies a lyrical theme.
type ThemeID string

const (
	ThemeLove        ThemeID = "love"
	ThemeHeartbreak  ThemeID = "heartbreak"
	ThemeParty       ThemeID = "party"
	ThemeMoney       ThemeID = "money"
	ThemeEmpowerment ThemeID = "empowerment"
	ThemeNostalgia   ThemeID = "nostalgia"
	ThemeRebellion   ThemeID = "rebellion"
	ThemeSummer      ThemeID = "summer"
	ThemeChristmas   ThemeID = "christmas"
	ThemeHalloween   ThemeID = "halloween"
)

// AllThemes returns every theme in a fixed order.
func AllThemes() []ThemeID {
	return []ThemeID{
		ThemeLove, ThemeHeartbreak, ThemeParty, ThemeMoney, ThemeEmpowerment,
		ThemeNostalgia, ThemeRebellion, ThemeSummer, ThemeChristmas, ThemeHalloween,
	}
}

// SeasonalMonth returns the month a seasonal theme peaks in.
func SeasonalMonth(t ThemeID) (int, bool) {
	switch t {
	case ThemeChristmas:
		return 12, true
	case ThemeHalloween:
		return 10, true
	}
	return 0, false
}

// Artist is the player's act. It travels alongside State rather than inside it.
type Artist struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Handle string `json:"handle"`
	Genre  Genre  `json:"genre"`
}

// NPCArtist is a simulated competitor.
type NPCArtist struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Handle     string  `json:"handle"`
	Genre      Genre   `json:"genre"`
	Popularity float64 `json:"popularity"` // 0..100
	Hype       float64 `json:"hype"`       // 0..1000
}

// RegionalStat is one region's share of a song or album.
type RegionalStat struct {
	Streams       int64 `json:"streams"`
	Sales         int64 `json:"sales"`
	WeeklyStreams int64 `json:"weekly_streams"`
	WeeklySales   int64 `json:"weekly_sales"`
}

// Song is a single track, player-owned or NPC-owned.
type Song struct {
	ID                   string                    `json:"id"`
	Title                string                    `json:"title"`
	ArtistID             string                    `json:"artist_id"`
	ArtistName           string                    `json:"artist_name"`
	Genre                Genre                     `json:"genre"`
	Theme                ThemeID                   `json:"theme"`
	Quality              int                       `json:"quality"` // 0..100
	IsReleased           bool                      `json:"is_released"`
	IsPlayer             bool                      `json:"is_player"`
	ReleaseWeek          int                       `json:"release_week"` // linear week
	Streams              int64                     `json:"streams"`
	WeeklyStreams        int64                     `json:"weekly_streams"`
	StreamsThisYear      int64                     `json:"streams_this_year"`
	Sales                int64                     `json:"sales"`
	WeeklySales          int64                     `json:"weekly_sales"`
	SalesThisYear        int64                     `json:"sales_this_year"`
	RegionalData         map[RegionID]RegionalStat `json:"regional_data"`
	ReleasePopularity    float64                   `json:"release_popularity"`
	PendingPayolaStreams int64                     `json:"pending_payola_streams"`
}

// AlbumType is EP or LP.
type AlbumType string

const (
	AlbumEP AlbumType = "EP"
	AlbumLP AlbumType = "LP"
)

// LPMinTracks is the track count at which a release counts as an LP.
const LPMinTracks = 7

// AlbumTypeFor derives the album type from its track count.
func AlbumTypeFor(tracks int) AlbumType {
	if tracks >= LPMinTracks {
		return AlbumLP
	}
	return AlbumEP
}

// Album is a collection release. Tracks are value copies taken at creation;
// live numbers are re-read from the catalog by id each week.
type Album struct {
	ID            string                    `json:"id"`
	Title         string                    `json:"title"`
	ArtistID      string                    `json:"artist_id"`
	ArtistName    string                    `json:"artist_name"`
	Genre         Genre                     `json:"genre"`
	Type          AlbumType                 `json:"type"`
	Tracks        []Song                    `json:"tracks"`
	Quality       int                       `json:"quality"`
	IsReleased    bool                      `json:"is_released"`
	IsPlayer      bool                      `json:"is_player"`
	ReleaseWeek   int                       `json:"release_week"`
	TotalStreams  int64                     `json:"total_streams"`
	WeeklyStreams int64                     `json:"weekly_streams"`
	Sales         int64                     `json:"sales"`
	WeeklySales   int64                     `json:"weekly_sales"`
	SalesThisYear int64                     `json:"sales_this_year"`
	RegionalData  map[RegionID]RegionalStat `json:"regional_data"`
}

// TrackIDs returns the ids of the album's tracks in order.
func (a Album) TrackIDs() []string {
	ids := make([]string, len(a.Tracks))
	for i, t := range a.Tracks {
		ids[i] = t.ID
	}
	return ids
}

// ChartKey names a chart: HOT_100, GLOBAL_200, <region> or <region>_ALBUMS.
type ChartKey string

const (
	ChartHot100    ChartKey = "HOT_100"
	ChartGlobal200 ChartKey = "GLOBAL_200"
)

// RegionalSongChart returns the song chart key for a region.
func RegionalSongChart(id RegionID) ChartKey { return ChartKey(id) }

// RegionalAlbumChart returns the album chart key for a region.
func RegionalAlbumChart(id RegionID) ChartKey { return ChartKey(string(id) + "_ALBUMS") }

// Movement classifies a chart entry against last week.
type Movement string

const (
	MovementNew     Movement = "new"
	MovementReEntry Movement = "re-entry"
	MovementUp      Movement = "up"
	MovementDown    Movement = "down"
	MovementSame    Movement = "same"
)

// ChartEntry is one ranked row of a chart.
type ChartEntry struct {
	Rank          int      `json:"rank"`
	ItemID        string   `json:"item_id"`
	Title         string   `json:"title"`
	ArtistID      string   `json:"artist_id"`
	ArtistName    string   `json:"artist_name"`
	Score         float64  `json:"score"`
	Movement      Movement `json:"movement"`
	LastWeekRank  int      `json:"last_week_rank,omitempty"`
	WeeksOnChart  int      `json:"weeks_on_chart"`
	PeakRank      int      `json:"peak_rank"`
	IsPlayer      bool     `json:"is_player"`
	IsAlbum       bool     `json:"is_album"`
	WeeklyStreams int64    `json:"weekly_streams"`
	WeeklySales   int64    `json:"weekly_sales"`
}

// ChartMemory is what a chart remembers about an item after it drops off.
type ChartMemory struct {
	PeakRank     int `json:"peak_rank"`
	LastRank     int `json:"last_rank"`
	LastWeek     int `json:"last_week"`
	WeeksOnChart int `json:"weeks_on_chart"`
}

// ChartPoint is one week of a player item's chart history.
type ChartPoint struct {
	Week int `json:"week"`
	Rank int `json:"rank"`
}

// RecordCategory scopes a world record.
type RecordCategory string

const (
	RecordGlobal RecordCategory = "GLOBAL"
	RecordRegion RecordCategory = "REGION"
	RecordGenre  RecordCategory = "GENRE"
	RecordTheme  RecordCategory = "THEME"
)

// RecordMetric is the measured quantity of a world record.
type RecordMetric string

const (
	MetricWeeklyStreams RecordMetric = "WEEKLY_STREAMS"
	MetricWeeklySales   RecordMetric = "WEEKLY_SALES"
)

// WorldRecord holds the highest value ever seen for (category, scope, metric).
type WorldRecord struct {
	Category       RecordCategory `json:"category"`
	ScopeValue     string         `json:"scope_value"`
	Metric         RecordMetric   `json:"metric"`
	Value          int64          `json:"value"`
	HolderID       string         `json:"holder_id"`
	HolderName     string         `json:"holder_name"`
	SongID         string         `json:"song_id"`
	SongTitle      string         `json:"song_title"`
	DateBrokenWeek int            `json:"date_broken_week"`
}

// Key identifies the record definition.
func (r WorldRecord) Key() string {
	return string(r.Category) + "|" + r.ScopeValue + "|" + string(r.Metric)
}

// DealType is the tier of a sponsorship contract.
type DealType string

const (
	DealCampaign         DealType = "CAMPAIGN"
	DealAmbassador       DealType = "AMBASSADOR"
	DealGlobalAmbassador DealType = "GLOBAL_AMBASSADOR"
)

// CreativeStyle is the direction the player picks for a campaign.
type CreativeStyle string

const (
	StyleViral     CreativeStyle = "viral"
	StyleCinematic CreativeStyle = "cinematic"
	StyleMinimal   CreativeStyle = "minimal"
	StyleEdgy      CreativeStyle = "edgy"
	StyleWholesome CreativeStyle = "wholesome"
)

// CampaignResult is fixed once a campaign is executed.
type CampaignResult struct {
	Style      CreativeStyle `json:"style"`
	MatchScore int           `json:"match_score"`
	MoneyBonus int64         `json:"money_bonus"`
	HypeDelta  float64       `json:"hype_delta"`
	Verdict    string        `json:"verdict"`
}

// BrandProduct is a co-branded product line item.
type BrandProduct struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	IsSignature  bool    `json:"is_signature"`
	LaunchedWeek int     `json:"launched_week"`
	UnitsSold    int64   `json:"units_sold"`
	Revenue      float64 `json:"revenue"`
}

// BrandOffer is a sponsorship offer or, once accepted, an active contract.
type BrandOffer struct {
	ID                string          `json:"id"`
	BrandID           string          `json:"brand_id"`
	BrandName         string          `json:"brand_name"`
	Type              DealType        `json:"type"`
	Payout            int64           `json:"payout"`
	WeeksDuration     int             `json:"weeks_duration"`
	WeeksRemaining    int             `json:"weeks_remaining"`
	WeeksActive       int             `json:"weeks_active"`
	OfferedWeek       int             `json:"offered_week"`
	RelationshipScore float64         `json:"relationship_score"`
	Products          []BrandProduct  `json:"products"`
	CampaignResult    *CampaignResult `json:"campaign_result,omitempty"`
	IsAccepted        bool            `json:"is_accepted"`
	IsRejected        bool            `json:"is_rejected"`
	IsNegotiated      bool            `json:"is_negotiated"`
	IsRenewal         bool            `json:"is_renewal"`
}

// TourLeg is one processed week of a tour.
type TourLeg struct {
	Week       int      `json:"week"`
	Region     RegionID `json:"region"`
	Attendance int      `json:"attendance"`
	Capacity   int      `json:"capacity"`
	Revenue    int64    `json:"revenue"`
	SoldOut    bool     `json:"sold_out"`
}

// ActiveTour is an in-progress tour. One leg is played per week.
type ActiveTour struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	TierID          string     `json:"tier_id"`
	Regions         []RegionID `json:"regions"`
	CurrentLegIndex int        `json:"current_leg_index"`
	Setlist         []string   `json:"setlist"`
	ShowQuality     int        `json:"show_quality"`
	BaseCapacity    int        `json:"base_capacity"`
	TicketPrice     float64    `json:"ticket_price"`
	StartWeek       int        `json:"start_week"`
	History         []TourLeg  `json:"history"`
	TotalRevenue    int64      `json:"total_revenue"`
	TotalAttendance int64      `json:"total_attendance"`
}

// Nomination is a nominee in the current awards cycle.
type Nomination struct {
	ID           string  `json:"id"`
	Year         int     `json:"year"`
	Category     string  `json:"category"`
	NomineeID    string  `json:"nominee_id"`
	NomineeTitle string  `json:"nominee_title"`
	ArtistID     string  `json:"artist_id"`
	ArtistName   string  `json:"artist_name"`
	IsPlayer     bool    `json:"is_player"`
	Score        float64 `json:"score"`
}

// AwardResult is a decided category.
type AwardResult struct {
	Year            int    `json:"year"`
	Category        string `json:"category"`
	WinnerID        string `json:"winner_id"`
	WinnerTitle     string `json:"winner_title"`
	ArtistName      string `json:"artist_name"`
	PlayerNominated bool   `json:"player_nominated"`
	PlayerWon       bool   `json:"player_won"`
}
