// Package entropy provides the random sources every stochastic draw in the
// simulation goes through. Tests use seeded sources. Production seeds one from
// random.org when a key is configured, falling back to crypto/rand, and from
// the wall clock otherwise. The simulation never waits on the network.
package entropy

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	mrand "math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Source is the randomness port. Float64 returns a value in [0, 1).
type Source interface {
	Float64() float64
}

// Seeded is a deterministic source backed by math/rand.
type Seeded struct {
	rng *mrand.Rand
}

// NewSeeded creates a deterministic source. Identical seeds give identical sequences.
func NewSeeded(seed int64) *Seeded {
	return &Seeded{rng: mrand.New(mrand.NewSource(seed))}
}

// NewTimeSeeded creates a source seeded from the wall clock.
func NewTimeSeeded() *Seeded {
	return NewSeeded(time.Now().UnixNano())
}

// Float64 returns a pseudo-random float in [0, 1).
func (s *Seeded) Float64() float64 {
	return s.rng.Float64()
}

const randomOrgURL = "https://api.random.org/json-rpc/4/invoke"

// Client provides true random numbers from random.org with a local pool.
// Float64 may block on a refill, so tick code draws from a Seeded source
// seeded by Seed instead of from the client.
type Client struct {
	apiKey string
	url    string
	client *http.Client

	mu   sync.Mutex
	pool []float64
}

// NewClient creates a random.org client. Returns nil if apiKey is empty.
func NewClient(apiKey string) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		apiKey: apiKey,
		url:    randomOrgURL,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Seed returns a non-negative 63-bit seed built from two pool draws.
func (c *Client) Seed() int64 {
	hi := uint64(c.Float64()*(1<<31)) & (1<<31 - 1)
	lo := uint64(c.Float64()*(1<<32)) & (1<<32 - 1)
	return int64(hi<<32 | lo)
}

// Float64 returns a random float64 in [0, 1). Uses the pool, refilling from
// random.org when low. Falls back to crypto/rand on API failure.
func (c *Client) Float64() float64 {
	if c == nil {
		return cryptoRandFloat()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.pool) < 10 {
		c.refill()
	}

	if len(c.pool) == 0 {
		return cryptoRandFloat()
	}

	val := c.pool[0]
	c.pool = c.pool[1:]
	return val
}

func (c *Client) refill() {
	req := map[string]any{
		"jsonrpc": "2.0",
		"method":  "generateDecimalFractions",
		"params": map[string]any{
			"apiKey":        c.apiKey,
			"n":             200,
			"decimalPlaces": 8,
		},
		"id": 1,
	}

	body, err := json.Marshal(req)
	if err != nil {
		slog.Debug("random.org marshal failed", "error", err)
		return
	}

	resp, err := c.client.Post(c.url, "application/json", bytes.NewReader(body))
	if err != nil {
		slog.Debug("random.org fetch failed", "error", err)
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Debug("random.org read failed", "error", err)
		return
	}

	var result struct {
		Result struct {
			Random struct {
				Data []float64 `json:"data"`
			} `json:"random"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(respBody, &result); err != nil {
		slog.Debug("random.org parse failed", "error", err)
		return
	}

	if result.Error != nil {
		slog.Debug("random.org API error", "error", result.Error.Message)
		return
	}

	c.pool = append(c.pool, result.Result.Random.Data...)
	slog.Debug("random.org pool refilled", "count", len(result.Result.Random.Data))
}

// Crypto is a Source backed by crypto/rand.
type Crypto struct{}

// Float64 returns a random float from crypto/rand.
func (Crypto) Float64() float64 {
	return cryptoRandFloat()
}

// cryptoRandFloat generates a random float64 using crypto/rand as fallback.
func cryptoRandFloat() float64 {
	var buf [8]byte
	_, err := rand.Read(buf[:])
	if err != nil {
		// This should never happen but return 0.5 as a safe default.
		return 0.5
	}
	// Use only 53 bits for a uniform float64 in [0, 1).
	n := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(n) / float64(1<<53)
}

// Production returns a seeded source. With a random.org key the seed is
// fetched once, here; otherwise it comes from the wall clock.
func Production(randomOrgKey string) Source {
	if c := NewClient(randomOrgKey); c != nil {
		seed := c.Seed()
		slog.Debug("rng seeded", "source", "random.org")
		return NewSeeded(seed)
	}
	return NewTimeSeeded()
}

// Range returns a uniform float in [lo, hi).
func Range(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Intn returns a uniform int in [0, n). n <= 0 returns 0.
func Intn(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	v := int(src.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// Chance reports whether a draw falls under p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Pick returns a uniformly chosen element. The slice must be non-empty.
func Pick[T any](src Source, items []T) T {
	return items[Intn(src, len(items))]
}

// Weighted returns the index chosen proportionally to weights. Non-positive
// weights are never chosen; if all are non-positive the first index is returned.
func Weighted(src Source, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return 0
	}
	r := src.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if r < w {
			return i
		}
		r -= w
	}
	return len(weights) - 1
}

// Normal returns a normally distributed value (Box-Muller).
func Normal(src Source, mean, stddev float64) float64 {
	u1 := src.Float64()
	if u1 < 1e-12 {
		u1 = 1e-12
	}
	u2 := src.Float64()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean + z*stddev
}

// Reader adapts a Source to io.Reader so byte-oriented consumers (uuid) draw
// from the same stream.
func Reader(src Source) io.Reader {
	return &reader{src: src}
}

type reader struct {
	src Source
}

func (r *reader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(Intn(r.src, 256))
	}
	return len(p), nil
}

// NewID returns a random UUID drawn from src, so seeded runs produce stable ids.
func NewID(src Source) string {
	return uuid.Must(uuid.NewRandomFromReader(Reader(src))).String()
}
