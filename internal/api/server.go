// Package api provides the HTTP API for the game.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/talgya/hitmaker/internal/brands"
	"github.com/talgya/hitmaker/internal/engine"
	"github.com/talgya/hitmaker/internal/llm"
	"github.com/talgya/hitmaker/internal/persistence"
	"github.com/talgya/hitmaker/internal/press"
	"github.com/talgya/hitmaker/internal/tour"
	"github.com/talgya/hitmaker/internal/world"
)

// Localhost dev servers are always allowed.
var devOrigins = []string{
	"http://localhost:5173",
	"http://localhost:4173",
	"http://localhost:3000",
}

// Server serves the game over HTTP and WebSocket.
type Server struct {
	Session  *engine.Session
	Eng      *engine.Engine  // nil when auto-advance is off
	LLM      *llm.Client     // nil disables generated digests
	DB       *persistence.DB // nil disables week history
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	origins map[string]bool
	hub     *Hub

	// Cached digest (regenerated at most once per sim-week).
	digestMu     sync.Mutex
	cachedDigest *press.Digest
}

// NewServer wires a server to the session and subscribes the socket hub to
// week results.
func NewServer(sess *engine.Session, corsOrigins []string) *Server {
	s := &Server{
		Session: sess,
		origins: make(map[string]bool),
	}
	for _, o := range devOrigins {
		s.origins[o] = true
	}
	for _, o := range corsOrigins {
		s.origins[o] = true
	}
	s.hub = NewHub(func(origin string) bool { return s.origins[origin] })
	sess.Subscribe(func(res engine.WeekResult) {
		s.hub.Broadcast(Message{Type: "week_advanced", Payload: res.Summary})
	})
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	digestLimiter := NewRateLimiter(30, time.Hour)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.cors)

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints (GET, read-only).
		r.Get("/status", s.handleStatus)
		r.Get("/state", s.handleState)
		r.Get("/charts", s.handleCharts)
		r.Get("/charts/{key}", s.handleChart)
		r.Get("/feed", s.handleFeed)
		r.Get("/records", s.handleRecords)
		r.Get("/deals", s.handleDeals)
		r.Get("/awards", s.handleAwards)
		r.Get("/history", s.handleHistory)
		r.With(digestLimiter.Middleware).Get("/digest", s.handleDigest)

		// Admin endpoints (POST, require bearer token).
		r.Group(func(r chi.Router) {
			r.Use(s.adminOnly)
			r.Post("/advance", s.handleAdvance)
			r.Post("/speed", s.handleSpeed)
			r.Post("/songs", s.handleRecordSong)
			r.Post("/songs/{id}/release", s.handleReleaseSong)
			r.Post("/songs/{id}/payola", s.handlePayola)
			r.Post("/albums", s.handleReleaseAlbum)
			r.Post("/tours", s.handleBookTour)
			r.Post("/offers/{id}/{response}", s.handleOffer)
			r.Post("/awards/performance", s.handlePerformance)
		})
	})
	r.Get("/ws", s.hub.ServeWS)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go s.hub.Run(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", srv.Addr, "admin_auth", s.AdminKey != "", "llm", s.LLM.Enabled())

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// cors adds CORS headers for allowed frontend origins.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if s.origins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled (no HITMAKER_ADMIN_KEY set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// snapshot writes the error response itself when there is no game.
func (s *Server) snapshot(w http.ResponseWriter) (*world.Save, bool) {
	sv, err := s.Session.Snapshot()
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return sv, true
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"name":       "Hitmaker",
		"running":    s.Eng != nil && s.Eng.Running(),
		"ws_clients": s.hub.Clients(),
	}
	if s.Eng != nil {
		status["speed"] = s.Eng.Speed()
		status["weeks_advanced"] = s.Eng.Weeks()
	}
	if sv, err := s.Session.Snapshot(); err == nil {
		st := sv.State
		status["artist"] = sv.Artist
		status["date"] = st.Date.String()
		status["week"] = st.Date.Linear()
		status["money"] = st.Money
		status["hype"] = st.Hype
		status["weekly_streams"] = st.WeeklyStreams
		status["followers"] = st.Social.Followers
		status["on_tour"] = st.ActiveTour != nil
	}
	writeJSON(w, status)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if sv, ok := s.snapshot(w); ok {
		writeJSON(w, sv)
	}
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	sv, ok := s.snapshot(w)
	if !ok {
		return
	}
	limit := queryInt(r, "limit", 10)
	out := make(map[world.ChartKey][]world.ChartEntry, len(sv.State.ActiveCharts))
	for key, entries := range sv.State.ActiveCharts {
		if len(entries) > limit {
			entries = entries[:limit]
		}
		out[key] = entries
	}
	writeJSON(w, out)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	sv, ok := s.snapshot(w)
	if !ok {
		return
	}
	key := world.ChartKey(strings.ToUpper(chi.URLParam(r, "key")))
	entries, found := sv.State.ActiveCharts[key]
	if !found {
		http.Error(w, "chart not found", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]any{
		"key":     key,
		"date":    sv.State.Date.String(),
		"entries": entries,
	})
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	sv, ok := s.snapshot(w)
	if !ok {
		return
	}
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)
	writeJSON(w, map[string]any{
		"followers":   sv.State.Social.Followers,
		"reputation":  sv.State.Social.Reputation,
		"is_verified": sv.State.Social.IsVerified,
		"total_posts": len(sv.State.Social.Posts),
		"posts":       page(sv.State.Social.Posts, offset, limit),
		"messages":    page(sv.State.Social.Messages, offset, limit),
	})
}

// page returns items[offset:offset+limit], clipped to the slice.
func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	if sv, ok := s.snapshot(w); ok {
		writeJSON(w, sv.State.WorldRecords)
	}
}

func (s *Server) handleDeals(w http.ResponseWriter, r *http.Request) {
	if sv, ok := s.snapshot(w); ok {
		writeJSON(w, map[string]any{
			"pending": sv.State.PendingOffers,
			"active":  sv.State.ActiveDeals,
		})
	}
}

func (s *Server) handleAwards(w http.ResponseWriter, r *http.Request) {
	if sv, ok := s.snapshot(w); ok {
		writeJSON(w, map[string]any{
			"nominations":      sv.State.ActiveNominations,
			"performance_song": sv.State.GrammyPerformanceSongID,
			"history":          sv.State.AwardsHistory,
		})
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "database not available", http.StatusServiceUnavailable)
		return
	}
	sv, ok := s.snapshot(w)
	if !ok {
		return
	}
	rows, err := s.DB.WeekHistory(r.Context(), sv.Artist.ID, queryInt(r, "limit", 52))
	if err != nil {
		slog.Error("week history query failed", "error", err)
		http.Error(w, "history unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, rows)
}

func (s *Server) handleDigest(w http.ResponseWriter, r *http.Request) {
	sv, ok := s.snapshot(w)
	if !ok {
		return
	}

	s.digestMu.Lock()
	defer s.digestMu.Unlock()

	// Return cached digest if still from this week.
	if s.cachedDigest != nil && s.cachedDigest.Week == sv.State.Date.Linear() {
		writeJSON(w, s.cachedDigest)
		return
	}

	d := press.Write(r.Context(), s.LLM, sv)
	s.cachedDigest = &d
	writeJSON(w, d)
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	res, err := s.Session.Advance(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"summary":        res.Summary,
		"month_advanced": res.MonthAdvanced,
		"year_advanced":  res.YearAdvanced,
	})
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if s.Eng == nil {
		http.Error(w, "auto-advance not running", http.StatusServiceUnavailable)
		return
	}
	var req struct {
		Speed float64 `json:"speed"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Speed < 0 || req.Speed > 1000 {
		http.Error(w, "speed must be 0-1000", http.StatusBadRequest)
		return
	}
	s.Eng.SetSpeed(req.Speed)
	slog.Info("speed changed", "speed", req.Speed)
	writeJSON(w, map[string]float64{"speed": s.Eng.Speed()})
}

func (s *Server) handleRecordSong(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string        `json:"title"`
		Theme world.ThemeID `json:"theme"`
		Genre world.Genre   `json:"genre"`
	}
	if !decode(w, r, &req) {
		return
	}
	var song world.Song
	_, err := s.Session.Apply(r.Context(), func(st *world.State, a world.Artist) (*world.State, error) {
		next, recorded, err := s.Session.Simulation().RecordSong(st, a, engine.SongRequest{
			Title: req.Title, Theme: req.Theme, Genre: req.Genre,
		})
		song = recorded
		return next, err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, song)
}

func (s *Server) handleReleaseSong(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sv, err := s.Session.Apply(r.Context(), func(st *world.State, _ world.Artist) (*world.State, error) {
		return s.Session.Simulation().ReleaseSong(st, id)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	song, _ := sv.State.SongByID(id)
	writeJSON(w, song)
}

func (s *Server) handlePayola(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Streams int64 `json:"streams"`
	}
	if !decode(w, r, &req) {
		return
	}
	sv, err := s.Session.Apply(r.Context(), func(st *world.State, _ world.Artist) (*world.State, error) {
		return s.Session.Simulation().BuyPayola(st, id, req.Streams)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	song, _ := sv.State.SongByID(id)
	writeJSON(w, map[string]any{
		"song_id":         id,
		"pending_streams": song.PendingPayolaStreams,
		"cost":            s.Session.Simulation().PayolaCost(req.Streams),
		"money":           sv.State.Money,
	})
}

func (s *Server) handleReleaseAlbum(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    string   `json:"title"`
		TrackIDs []string `json:"track_ids"`
	}
	if !decode(w, r, &req) {
		return
	}
	var album world.Album
	_, err := s.Session.Apply(r.Context(), func(st *world.State, a world.Artist) (*world.State, error) {
		next, released, err := s.Session.Simulation().ReleaseAlbum(st, a, engine.AlbumRequest{
			Title: req.Title, TrackIDs: req.TrackIDs,
		})
		album = released
		return next, err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, album)
}

func (s *Server) handleBookTour(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string           `json:"name"`
		TierID  string           `json:"tier_id"`
		Regions []world.RegionID `json:"regions"`
		Setlist []string         `json:"setlist"`
	}
	if !decode(w, r, &req) {
		return
	}
	var booked *world.ActiveTour
	_, err := s.Session.Apply(r.Context(), func(st *world.State, _ world.Artist) (*world.State, error) {
		next, t, err := s.Session.Simulation().BookTour(st, tour.Request{
			Name: req.Name, TierID: req.TierID, Regions: req.Regions, Setlist: req.Setlist,
		})
		booked = t
		return next, err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, booked)
}

func (s *Server) handleOffer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	resp := engine.OfferResponse(chi.URLParam(r, "response"))
	var req struct {
		Style world.CreativeStyle `json:"style"`
	}
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	var out engine.OfferOutcome
	sv, err := s.Session.Apply(r.Context(), func(st *world.State, a world.Artist) (*world.State, error) {
		next, o, err := s.Session.Simulation().RespondToOffer(st, a, id, resp, req.Style)
		out = o
		return next, err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"offer":     out.Offer,
		"accepted":  out.Accepted,
		"withdrawn": out.Withdrawn,
		"paid":      out.Money,
		"money":     sv.State.Money,
	})
}

func (s *Server) handlePerformance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SongID string `json:"song_id"`
	}
	if !decode(w, r, &req) {
		return
	}
	sv, err := s.Session.Apply(r.Context(), func(st *world.State, _ world.Artist) (*world.State, error) {
		return s.Session.Simulation().SetGrammyPerformance(st, req.SongID)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"performance_song": sv.State.GrammyPerformanceSongID})
}

var notFound = []error{
	engine.ErrNoGame,
	engine.ErrSongNotFound,
	engine.ErrOfferNotFound,
}

var badRequest = []error{
	engine.ErrNoTitle,
	engine.ErrUnknownGenre,
	engine.ErrUnknownTheme,
	engine.ErrAlreadyReleased,
	engine.ErrNotReleased,
	engine.ErrNotEnoughMoney,
	engine.ErrTooFewTracks,
	engine.ErrTrackInUse,
	engine.ErrUnknownResponse,
	engine.ErrNotNominated,
	engine.ErrInvalidPayolaCount,
	brands.ErrAlreadyNegotiated,
	brands.ErrNotPending,
	brands.ErrUnknownStyle,
	tour.ErrNoSongs,
	tour.ErrNoRegions,
	tour.ErrUnknownTier,
	tour.ErrUnknownRegion,
	tour.ErrUnknownSong,
	tour.ErrInsufficientFunds,
	tour.ErrInsufficientHype,
	tour.ErrAlreadyTouring,
}

// writeError maps domain errors to status codes. Anything unrecognised is
// logged and reported as a 500 without detail.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrTickInFlight):
		status = http.StatusConflict
	case isAny(err, notFound):
		status = http.StatusNotFound
	case isAny(err, badRequest):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		http.Error(w, "internal error", status)
		return
	}
	writeJSONStatus(w, status, map[string]string{"error": err.Error()})
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(v); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return false
	}
	return true
}

func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, data any) {
	writeJSONStatus(w, http.StatusOK, data)
}

func writeJSONStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
