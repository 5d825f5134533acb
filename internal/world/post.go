package world

// PostKind tags the payload a Post carries.
type PostKind string

const (
	PostSystem   PostKind = "system"
	PostChart    PostKind = "chart_bulletin"
	PostFanStats PostKind = "fan_stats"
	PostNPC      PostKind = "npc"
	PostFan      PostKind = "fan"
	PostBrandAd  PostKind = "brand_ad"
	PostRecord   PostKind = "record_break"
	PostAward    PostKind = "award"
	PostTour     PostKind = "tour"
)

// Post is one social feed item. Exactly the payload matching Kind is set;
// plain text kinds (system, npc, fan) carry none.
type Post struct {
	ID         string   `json:"id"`
	Kind       PostKind `json:"kind"`
	Week       int      `json:"week"`
	AuthorID   string   `json:"author_id"`
	AuthorName string   `json:"author_name"`
	Handle     string   `json:"handle"`
	Verified   bool     `json:"verified"`
	Content    string   `json:"content"`
	Likes      int64    `json:"likes"`
	Reposts    int64    `json:"reposts"`
	Replies    int64    `json:"replies"`

	Chart  *ChartCard  `json:"chart,omitempty"`
	Stats  *StatCard   `json:"stats,omitempty"`
	Ad     *AdCard     `json:"ad,omitempty"`
	Record *RecordCard `json:"record,omitempty"`
	Award  *AwardCard  `json:"award,omitempty"`
	Tour   *TourCard   `json:"tour,omitempty"`
}

type ChartCard struct {
	ChartKey   ChartKey `json:"chart_key"`
	Rank       int      `json:"rank"`
	Title      string   `json:"title"`
	ArtistName string   `json:"artist_name"`
	Movement   Movement `json:"movement"`
	PeakRank   int      `json:"peak_rank"`
}

type StatCard struct {
	SongID        string   `json:"song_id"`
	SongTitle     string   `json:"song_title"`
	WeeklyStreams int64    `json:"weekly_streams"`
	TotalStreams  int64    `json:"total_streams"`
	TopRegion     RegionID `json:"top_region"`
}

type AdCard struct {
	BrandID     string `json:"brand_id"`
	BrandName   string `json:"brand_name"`
	ProductName string `json:"product_name"`
	Tagline     string `json:"tagline"`
}

type RecordCard struct {
	Category   RecordCategory `json:"category"`
	Scope      string         `json:"scope"`
	Metric     RecordMetric   `json:"metric"`
	Value      int64          `json:"value"`
	SongTitle  string         `json:"song_title"`
	HolderName string         `json:"holder_name"`
}

type AwardCard struct {
	Year     int    `json:"year"`
	Category string `json:"category"`
	Nominee  string `json:"nominee"`
	Artist   string `json:"artist"`
	Won      bool   `json:"won"`
}

type TourCard struct {
	TourName   string   `json:"tour_name"`
	Region     RegionID `json:"region"`
	Attendance int      `json:"attendance"`
	SoldOut    bool     `json:"sold_out"`
}
