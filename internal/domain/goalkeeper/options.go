package goalkeeper

import "github.com/okian/hbelo/pkg/logger"

const (
	defaultInSeasonOccurrences  = 10
	defaultInSeasonSaves        = 5
	defaultInSeasonRatio        = 0.60
	defaultSeasonEndOccurrences = 25
	defaultSeasonEndSaves       = 15
	defaultSeasonEndRatio       = 0.85
	defaultDemotionBlend        = 0.5
	defaultFieldBaseline        = 1200
)

// Option configures a Classifier.
type Option func(*Classifier)

// WithInSeasonThresholds sets the promotion thresholds used while a season
// is being processed.
func WithInSeasonThresholds(t Thresholds) Option {
	return func(c *Classifier) {
		if t.MinOccurrences > 0 && t.MinSaves >= 0 && t.MinRatio > 0 {
			c.inSeason = t
		}
	}
}

// WithSeasonEndThresholds sets the stricter re-validation thresholds.
func WithSeasonEndThresholds(t Thresholds) Option {
	return func(c *Classifier) {
		if t.MinOccurrences > 0 && t.MinSaves >= 0 && t.MinRatio > 0 {
			c.seasonEnd = t
		}
	}
}

// WithFieldPlayers adds players that must never be confirmed. Names are
// matched case-insensitively with collapsed whitespace.
func WithFieldPlayers(names ...string) Option {
	return func(c *Classifier) {
		for _, n := range names {
			if key := normalizeName(n); key != "" {
				c.overrides[key] = struct{}{}
			}
		}
	}
}

// WithDemotion sets the blend factor in [0,1] and the field baseline rating
// used when a player is demoted.
func WithDemotion(blend, baseline float64) Option {
	return func(c *Classifier) {
		if blend >= 0 && blend <= 1 {
			c.blend = blend
		}
		if baseline > 0 {
			c.baseline = baseline
		}
	}
}

// WithLogger sets the logger for promotions.
func WithLogger(l logger.Logger) Option {
	return func(c *Classifier) {
		if l != nil {
			c.log = l
		}
	}
}
