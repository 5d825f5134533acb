package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Runtime holds process-level settings that do not affect the simulation math.
type Runtime struct {
	DBPath       string
	Seed         int64
	AdminKey     string
	AnthropicKey string
	RandomOrgKey string
	Port         int
	BalancePath  string
	CORSOrigins  []string
	TickSeconds  int // 0 disables auto-advance in serve
}

// Load reads balance overrides from a YAML file on top of Default.
// A missing file is not an error.
func Load(path string) (Balance, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading balance file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing balance YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate rejects tunings the engine cannot run with.
func (b Balance) Validate() error {
	if b.Trends.Min > b.Trends.Max {
		return fmt.Errorf("trends: min %.2f above max %.2f", b.Trends.Min, b.Trends.Max)
	}
	if b.Performance.SongDecay <= 0 || b.Performance.SongDecay >= 1 {
		return fmt.Errorf("performance: song_decay must be in (0,1), got %.3f", b.Performance.SongDecay)
	}
	if b.Performance.AlbumDecay <= 0 || b.Performance.AlbumDecay >= 1 {
		return fmt.Errorf("performance: album_decay must be in (0,1), got %.3f", b.Performance.AlbumDecay)
	}
	if b.Charts.Hot100Size <= 0 || b.Charts.Global200Size <= 0 || b.Charts.RegionalSize <= 0 {
		return errors.New("charts: sizes must be positive")
	}
	if b.Hype.Max <= 0 {
		return errors.New("hype: max must be positive")
	}
	if b.Social.PostsPerWeek < 0 {
		return errors.New("social: posts_per_week must not be negative")
	}
	return nil
}

// FromEnv loads runtime settings from environment variables.
// Falls back to defaults if variables are not set.
func FromEnv() Runtime {
	rt := Runtime{
		DBPath: "data/hitmaker.db",
		Seed:   0,
		Port:   8080,
	}

	if v := os.Getenv("HITMAKER_DB"); v != "" {
		rt.DBPath = v
	}
	if v := getEnvInt("HITMAKER_SEED"); v != 0 {
		rt.Seed = int64(v)
	}
	if v := getEnvInt("HITMAKER_PORT"); v > 0 {
		rt.Port = v
	}
	rt.BalancePath = os.Getenv("HITMAKER_BALANCE")
	rt.AdminKey = os.Getenv("HITMAKER_ADMIN_KEY")
	rt.AnthropicKey = os.Getenv("ANTHROPIC_API_KEY")
	rt.RandomOrgKey = os.Getenv("RANDOM_ORG_KEY")
	rt.TickSeconds = getEnvInt("HITMAKER_TICK_SECONDS")
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				rt.CORSOrigins = append(rt.CORSOrigins, o)
			}
		}
	}
	return rt
}

func getEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
