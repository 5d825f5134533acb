// Package config holds the simulation tuning constants and runtime settings.
package config

// Balance is the full set of tuning constants for one simulation.
type Balance struct {
	Version     string      `yaml:"version" json:"version"`
	Performance Performance `yaml:"performance" json:"performance"`
	Charts      Charts      `yaml:"charts" json:"charts"`
	Trends      Trends      `yaml:"trends" json:"trends"`
	Regions     Regions     `yaml:"regions" json:"regions"`
	Economy     Economy     `yaml:"economy" json:"economy"`
	Hype        Hype        `yaml:"hype" json:"hype"`
	Tour        Tour        `yaml:"tour" json:"tour"`
	Brands      Brands      `yaml:"brands" json:"brands"`
	Social      Social      `yaml:"social" json:"social"`
	NPC         NPC         `yaml:"npc" json:"npc"`
	Awards      Awards      `yaml:"awards" json:"awards"`
}

type Performance struct {
	StreamsPerListener   float64 `yaml:"streams_per_listener" json:"streams_per_listener"`
	SongDecay            float64 `yaml:"song_decay" json:"song_decay"`
	AlbumDecay           float64 `yaml:"album_decay" json:"album_decay"`
	StrongRegionBonus    float64 `yaml:"strong_region_bonus" json:"strong_region_bonus"`
	WeakRegionFactor     float64 `yaml:"weak_region_factor" json:"weak_region_factor"`
	FatigueSensitivity   float64 `yaml:"fatigue_sensitivity" json:"fatigue_sensitivity"`
	SeasonalInBonus      float64 `yaml:"seasonal_in_bonus" json:"seasonal_in_bonus"`
	SeasonalOutPenalty   float64 `yaml:"seasonal_out_penalty" json:"seasonal_out_penalty"`
	ActiveThemeBonus     float64 `yaml:"active_theme_bonus" json:"active_theme_bonus"`
	HypeDivisor          float64 `yaml:"hype_divisor" json:"hype_divisor"`
	SalesPerStream       float64 `yaml:"sales_per_stream" json:"sales_per_stream"`
	AlbumSalesPerFan     float64 `yaml:"album_sales_per_fan" json:"album_sales_per_fan"`
	TrackCountBundle     float64 `yaml:"track_count_bundle" json:"track_count_bundle"`
	Jitter               float64 `yaml:"jitter" json:"jitter"`
	ChartBonusMax        float64 `yaml:"chart_bonus_max" json:"chart_bonus_max"`
	PlayerBaseListeners  float64 `yaml:"player_base_listeners" json:"player_base_listeners"`
	ListenersPerFollower float64 `yaml:"listeners_per_follower" json:"listeners_per_follower"`
}

type Charts struct {
	SongStreamWeight  float64 `yaml:"song_stream_weight" json:"song_stream_weight"`
	SongSaleWeight    float64 `yaml:"song_sale_weight" json:"song_sale_weight"`
	AlbumStreamWeight float64 `yaml:"album_stream_weight" json:"album_stream_weight"`
	AlbumSaleWeight   float64 `yaml:"album_sale_weight" json:"album_sale_weight"`
	Hot100Size        int     `yaml:"hot_100_size" json:"hot_100_size"`
	Global200Size     int     `yaml:"global_200_size" json:"global_200_size"`
	RegionalSize      int     `yaml:"regional_size" json:"regional_size"`
}

type Trends struct {
	FatigueDecayPerWeek float64 `yaml:"fatigue_decay_per_week" json:"fatigue_decay_per_week"`
	FatiguePerRelease   float64 `yaml:"fatigue_per_release" json:"fatigue_per_release"`
	YearlyDrift         float64 `yaml:"yearly_drift" json:"yearly_drift"`
	Min                 float64 `yaml:"min" json:"min"`
	Max                 float64 `yaml:"max" json:"max"`
	SeasonalCarryOver   float64 `yaml:"seasonal_carry_over" json:"seasonal_carry_over"`
	ActiveThemeCount    int     `yaml:"active_theme_count" json:"active_theme_count"`
}

type Regions struct {
	PopularityDecay float64 `yaml:"popularity_decay" json:"popularity_decay"`
	StreamGrowth    float64 `yaml:"stream_growth" json:"stream_growth"`
	Diffusion       float64 `yaml:"diffusion" json:"diffusion"`
	NoiseAmplitude  float64 `yaml:"noise_amplitude" json:"noise_amplitude"`
	NoiseSeed       int64   `yaml:"noise_seed" json:"noise_seed"`
}

type Economy struct {
	PayPerStream      float64 `yaml:"pay_per_stream" json:"pay_per_stream"`
	SongSaleNet       float64 `yaml:"song_sale_net" json:"song_sale_net"`
	AlbumSaleNet      float64 `yaml:"album_sale_net" json:"album_sale_net"`
	RecordingCost     int64   `yaml:"recording_cost" json:"recording_cost"`
	PayolaCostPer1000 float64 `yaml:"payola_cost_per_1000" json:"payola_cost_per_1000"`
}

type Hype struct {
	WeeklyRetention   float64 `yaml:"weekly_retention" json:"weekly_retention"`
	Max               float64 `yaml:"max" json:"max"`
	ReleaseBoost      float64 `yaml:"release_boost" json:"release_boost"`
	AlbumReleaseBoost float64 `yaml:"album_release_boost" json:"album_release_boost"`
	NumberOneBonus    float64 `yaml:"number_one_bonus" json:"number_one_bonus"`
	Top10Bonus        float64 `yaml:"top_10_bonus" json:"top_10_bonus"`
	ChartingBonus     float64 `yaml:"charting_bonus" json:"charting_bonus"`
}

type Tour struct {
	SelloutBoostQuality int     `yaml:"sellout_boost_quality" json:"sellout_boost_quality"`
	QualityBoost        float64 `yaml:"quality_boost" json:"quality_boost"`
	MinAttendance       int     `yaml:"min_attendance" json:"min_attendance"`
	PopGainBase         float64 `yaml:"pop_gain_base" json:"pop_gain_base"`
	PopGainScale        float64 `yaml:"pop_gain_scale" json:"pop_gain_scale"`
	HypeGainScale       float64 `yaml:"hype_gain_scale" json:"hype_gain_scale"`
}

type Brands struct {
	BaseOfferChance      float64 `yaml:"base_offer_chance" json:"base_offer_chance"`
	ReputationOfferBoost float64 `yaml:"reputation_offer_boost" json:"reputation_offer_boost"`
	OfferExpiryWeeks     int     `yaml:"offer_expiry_weeks" json:"offer_expiry_weeks"`
	QuarterWeeks         int     `yaml:"quarter_weeks" json:"quarter_weeks"`
	AdPostChance         float64 `yaml:"ad_post_chance" json:"ad_post_chance"`
	ViralChance          float64 `yaml:"viral_chance" json:"viral_chance"`
	ProductDropChance    float64 `yaml:"product_drop_chance" json:"product_drop_chance"`
	ScandalReputation    float64 `yaml:"scandal_reputation" json:"scandal_reputation"`
	ScandalChance        float64 `yaml:"scandal_chance" json:"scandal_chance"`
	RenewalRelationship  float64 `yaml:"renewal_relationship" json:"renewal_relationship"`
	RoyaltyShare         float64 `yaml:"royalty_share" json:"royalty_share"`
}

type Social struct {
	PostsPerWeek       int     `yaml:"posts_per_week" json:"posts_per_week"`
	SystemWeight       float64 `yaml:"system_weight" json:"system_weight"`
	RichWeight         float64 `yaml:"rich_weight" json:"rich_weight"`
	NPCWeight          float64 `yaml:"npc_weight" json:"npc_weight"`
	FanWeight          float64 `yaml:"fan_weight" json:"fan_weight"`
	AdWeight           float64 `yaml:"ad_weight" json:"ad_weight"`
	GrammyWeight       float64 `yaml:"grammy_weight" json:"grammy_weight"`
	FollowersPerStream float64 `yaml:"followers_per_stream" json:"followers_per_stream"`
	FollowerChurn      float64 `yaml:"follower_churn" json:"follower_churn"`
	VerifiedFollowers  int64   `yaml:"verified_followers" json:"verified_followers"`
}

type NPC struct {
	RosterSize       int     `yaml:"roster_size" json:"roster_size"`
	InitialSongsEach int     `yaml:"initial_songs_each" json:"initial_songs_each"`
	SingleChance     float64 `yaml:"single_chance" json:"single_chance"`
	AlbumChance      float64 `yaml:"album_chance" json:"album_chance"`
	ListenersPerPop  float64 `yaml:"listeners_per_pop" json:"listeners_per_pop"`
	MaxSongAgeWeeks  int     `yaml:"max_song_age_weeks" json:"max_song_age_weeks"`
	PopularityDrift  float64 `yaml:"popularity_drift" json:"popularity_drift"`
}

type Awards struct {
	NominationMonth int     `yaml:"nomination_month" json:"nomination_month"`
	NominationWeek  int     `yaml:"nomination_week" json:"nomination_week"`
	CeremonyMonth   int     `yaml:"ceremony_month" json:"ceremony_month"`
	CeremonyWeek    int     `yaml:"ceremony_week" json:"ceremony_week"`
	Nominees        int     `yaml:"nominees" json:"nominees"`
	WinHype         float64 `yaml:"win_hype" json:"win_hype"`
	WinMoney        int64   `yaml:"win_money" json:"win_money"`
	NominationHype  float64 `yaml:"nomination_hype" json:"nomination_hype"`
	PerformanceHype float64 `yaml:"performance_hype" json:"performance_hype"`
}

// Default returns the shipped tuning.
func Default() Balance {
	return Balance{
		Version: "1",
		Performance: Performance{
			StreamsPerListener:   0.9,
			SongDecay:            0.9,
			AlbumDecay:           0.85,
			StrongRegionBonus:    1.35,
			WeakRegionFactor:     0.85,
			FatigueSensitivity:   0.08,
			SeasonalInBonus:      1.8,
			SeasonalOutPenalty:   0.5,
			ActiveThemeBonus:     1.25,
			HypeDivisor:          500,
			SalesPerStream:       0.004,
			AlbumSalesPerFan:     0.012,
			TrackCountBundle:     0.05,
			Jitter:               0.08,
			ChartBonusMax:        0.25,
			PlayerBaseListeners:  50_000,
			ListenersPerFollower: 2.5,
		},
		Charts: Charts{
			SongStreamWeight:  1,
			SongSaleWeight:    150,
			AlbumStreamWeight: 1.0 / 1500,
			AlbumSaleWeight:   1,
			Hot100Size:        100,
			Global200Size:     200,
			RegionalSize:      50,
		},
		Trends: Trends{
			FatigueDecayPerWeek: 1.5,
			FatiguePerRelease:   4,
			YearlyDrift:         0.3,
			Min:                 0.5,
			Max:                 1.5,
			SeasonalCarryOver:   0.4,
			ActiveThemeCount:    3,
		},
		Regions: Regions{
			PopularityDecay: 0.985,
			StreamGrowth:    0.003,
			Diffusion:       0.04,
			NoiseAmplitude:  0.6,
			NoiseSeed:       2024,
		},
		Economy: Economy{
			PayPerStream:      0.004,
			SongSaleNet:       0.9,
			AlbumSaleNet:      7,
			RecordingCost:     5_000,
			PayolaCostPer1000: 6,
		},
		Hype: Hype{
			WeeklyRetention:   0.94,
			Max:               1000,
			ReleaseBoost:      15,
			AlbumReleaseBoost: 60,
			NumberOneBonus:    40,
			Top10Bonus:        15,
			ChartingBonus:     3,
		},
		Tour: Tour{
			SelloutBoostQuality: 80,
			QualityBoost:        1.2,
			MinAttendance:       50,
			PopGainBase:         1.5,
			PopGainScale:        6,
			HypeGainScale:       12,
		},
		Brands: Brands{
			BaseOfferChance:      0.03,
			ReputationOfferBoost: 0.09,
			OfferExpiryWeeks:     4,
			QuarterWeeks:         12,
			AdPostChance:         0.3,
			ViralChance:          0.03,
			ProductDropChance:    0.08,
			ScandalReputation:    20,
			ScandalChance:        0.05,
			RenewalRelationship:  40,
			RoyaltyShare:         0.1,
		},
		Social: Social{
			PostsPerWeek:       100,
			SystemWeight:       0.1,
			RichWeight:         0.15,
			NPCWeight:          0.2,
			FanWeight:          0.45,
			AdWeight:           0.05,
			GrammyWeight:       0.05,
			FollowersPerStream: 0.002,
			FollowerChurn:      0.004,
			VerifiedFollowers:  100_000,
		},
		NPC: NPC{
			RosterSize:       40,
			InitialSongsEach: 3,
			SingleChance:     0.18,
			AlbumChance:      0.02,
			ListenersPerPop:  60_000,
			MaxSongAgeWeeks:  96,
			PopularityDrift:  1.5,
		},
		Awards: Awards{
			NominationMonth: 11,
			NominationWeek:  1,
			CeremonyMonth:   2,
			CeremonyWeek:    2,
			Nominees:        5,
			WinHype:         120,
			WinMoney:        50_000,
			NominationHype:  25,
			PerformanceHype: 60,
		},
	}
}
