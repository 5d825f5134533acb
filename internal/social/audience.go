package social

import (
	"math"

	"github.com/talgya/hitmaker/internal/config"
	"github.com/talgya/hitmaker/internal/world"
)

// UpdateAudience grows followers from the week's streams, applies churn,
// drifts reputation toward a hype-driven target and verifies the account
// once it is big enough. Posts and messages are carried over untouched.
func UpdateAudience(s world.SocialState, weeklyStreams int64, hype float64, cfg config.Social) world.SocialState {
	hype = world.Clamp(hype, 0, 1000)

	gained := float64(world.NonNegative(weeklyStreams)) * cfg.FollowersPerStream * (1 + hype/1000)
	lost := float64(s.Followers) * cfg.FollowerChurn
	s.Followers = world.NonNegative(s.Followers + int64(math.Round(gained-lost)))

	target := 30 + hype/1000*60
	s.Reputation = world.Clamp(s.Reputation+(target-s.Reputation)*0.1, 0, 100)

	if s.Followers >= cfg.VerifiedFollowers {
		s.IsVerified = true
	}
	return s
}
