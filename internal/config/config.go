// Package config defines process configuration and how it maps onto the
// rating engine.
//
// Conventions:
// - Sections mirror the engine components they configure.
// - New(ctx) returns the defaults; Load layers a YAML file and env vars on top.
// - Validate reports every problem wrapped in ErrInvalidConfig.
package config

import (
	"context"
	"runtime"

	"github.com/okian/hbelo/internal/domain/carryover"
	"github.com/okian/hbelo/internal/domain/importance"
	"github.com/okian/hbelo/internal/domain/rating"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory refresh queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of refresh workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the per-run duplicate match window.
	DedupeSize int `koanf:"dedupe_size"`

	// TopCacheSize is how many leaderboard rows are precomputed per league.
	TopCacheSize int `koanf:"top_cache_size"`

	// MaxLeaderboardLimit caps GET /leagues/{league}/players?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// RefreshCron re-rates every league on a six-field cron schedule.
	// Empty disables periodic refreshes.
	RefreshCron string `koanf:"refresh_cron"`

	// OutputPath is the SQLite file results are written to. Empty disables it.
	OutputPath string `koanf:"output_path"`

	// DataDir, DataFormat and Leagues are shorthand for one source per
	// league sharing a root. Ignored when Sources is set.
	DataDir    string   `koanf:"data_dir"`
	DataFormat string   `koanf:"data_format"`
	Leagues    []string `koanf:"leagues"`

	Sources []Source `koanf:"sources"`

	Player     Player     `koanf:"player"`
	Team       Team       `koanf:"team"`
	Goalkeeper Goalkeeper `koanf:"goalkeeper"`
	Context    Context    `koanf:"context"`
	Carryover  Carryover  `koanf:"carryover"`
	Weights    Weights    `koanf:"weights"`
}

// Source is one league's match archive.
type Source struct {
	League string `koanf:"league"`
	// Format is "yaml" or "sqlite".
	Format string `koanf:"format"`
	// Path is the archive root laid out as <path>/<league>/<season>/.
	Path string `koanf:"path"`
	// TeamAliases maps short team codes to full names (sqlite only).
	TeamAliases map[string]string `koanf:"team_aliases"`
}

// Player holds the player updater constants.
type Player struct {
	MinRating          float64 `koanf:"min_rating"`
	MaxRating          float64 `koanf:"max_rating"`
	EliteThreshold     float64 `koanf:"elite_threshold"`
	LegendaryThreshold float64 `koanf:"legendary_threshold"`
	EliteGain          float64 `koanf:"elite_gain"`
	LegendaryGain      float64 `koanf:"legendary_gain"`
	FieldScale         float64 `koanf:"field_scale"`
	GoalkeeperScale    float64 `koanf:"goalkeeper_scale"`
	MaxDelta           float64 `koanf:"max_delta"`
	MomentumWindow     int     `koanf:"momentum_window"`
	MomentumMinSamples int     `koanf:"momentum_min_samples"`
	MomentumDecay      float64 `koanf:"momentum_decay"`
	SpilloverShare     float64 `koanf:"spillover_share"`
	SpilloverCap       float64 `koanf:"spillover_cap"`
	FallbackRole       string  `koanf:"fallback_role"`
	DefaultRating      float64 `koanf:"default_rating"`
	DefaultGoalkeeper  float64 `koanf:"default_goalkeeper_rating"`
}

// Team holds the team updater constants.
type Team struct {
	DefaultRating float64 `koanf:"default_rating"`
	HomeAdvantage float64 `koanf:"home_advantage"`
	NewTeamGames  int     `koanf:"new_team_games"`
	EliteRating   float64 `koanf:"elite_rating"`
	KNew          float64 `koanf:"k_new"`
	KElite        float64 `koanf:"k_elite"`
	KDefault      float64 `koanf:"k_default"`
}

// Threshold is one set of goalkeeper promotion requirements.
type Threshold struct {
	MinOccurrences int     `koanf:"min_occurrences"`
	MinSaves       int     `koanf:"min_saves"`
	MinRatio       float64 `koanf:"min_ratio"`
}

// Goalkeeper configures the classifier.
type Goalkeeper struct {
	InSeason  Threshold `koanf:"in_season"`
	SeasonEnd Threshold `koanf:"season_end"`
	// FieldPlayers are never confirmed as goalkeepers.
	FieldPlayers  []string `koanf:"field_players"`
	DemotionBlend float64  `koanf:"demotion_blend"`
	FieldBaseline float64  `koanf:"field_baseline"`
}

// Context holds the importance weights and the clamp range.
type Context struct {
	Timing         float64 `koanf:"timing"`
	Score          float64 `koanf:"score"`
	Momentum       float64 `koanf:"momentum"`
	ActionClass    float64 `koanf:"action_class"`
	GoalkeeperSave float64 `koanf:"goalkeeper_save"`
	Min            float64 `koanf:"min"`
	Max            float64 `koanf:"max"`
}

// Carryover holds the season transition constants.
type Carryover struct {
	Base           float64   `koanf:"base"`
	MaxBonus       float64   `koanf:"max_bonus"`
	MinPenalty     float64   `koanf:"min_penalty"`
	FullCarryGames int       `koanf:"full_carry_games"`
	Consistency    []float64 `koanf:"consistency"`
	TeamMargin     float64   `koanf:"team_margin"`
	Jitter         float64   `koanf:"jitter"`
}

// ActionWeight overrides the weight of one action code. Codes are kept in a
// list because several contain dots.
type ActionWeight struct {
	Action string  `koanf:"action"`
	Weight float64 `koanf:"weight"`
}

// RoleMultiplier overrides one coefficient of a role table. An empty Action
// sets the table default.
type RoleMultiplier struct {
	Role   string  `koanf:"role"`
	Action string  `koanf:"action"`
	Value  float64 `koanf:"value"`
}

// Weights configures the versioned weight registry.
type Weights struct {
	Name    string `koanf:"name"`
	Version string `koanf:"version"`
	// Strict aborts a season on action codes the registry does not know.
	Strict bool `koanf:"strict"`
	// FieldRoles enables outfield role tables; the goalkeeper table always applies.
	FieldRoles bool `koanf:"field_roles"`
	// Replace discards the built-in base table before applying Base.
	Replace   bool             `koanf:"replace"`
	Base      []ActionWeight   `koanf:"base"`
	Conceding []ActionWeight   `koanf:"conceding"`
	Roles     []RoleMultiplier `koanf:"roles"`
}

// New returns the defaults. They match the engine's own defaults, so an
// empty file and environment reproduce the reference ratings.
func New(_ context.Context) *Config {
	p := rating.DefaultPlayerConfig()
	t := rating.DefaultTeamConfig()
	w := importance.DefaultWeights()
	co := carryover.DefaultConfig()

	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		QueueSize:           64,
		WorkerCount:         runtime.NumCPU(),
		DedupeSize:          100_000,
		TopCacheSize:        100,
		MaxLeaderboardLimit: 500,
		DataFormat:          "yaml",
		Player: Player{
			MinRating:          p.Bounds.Min,
			MaxRating:          p.Bounds.Max,
			EliteThreshold:     p.Tiers.Elite,
			LegendaryThreshold: p.Tiers.Legendary,
			EliteGain:          p.Tiers.EliteGain,
			LegendaryGain:      p.Tiers.LegendaryGain,
			FieldScale:         p.FieldScale,
			GoalkeeperScale:    p.GoalkeeperScale,
			MaxDelta:           p.MaxDelta,
			MomentumWindow:     p.MomentumCapacity,
			MomentumMinSamples: p.MomentumMinSamples,
			MomentumDecay:      p.MomentumDecay,
			SpilloverShare:     p.SpilloverShare,
			SpilloverCap:       p.SpilloverCap,
			FallbackRole:       string(p.FallbackRole),
			DefaultRating:      p.DefaultPlayer,
			DefaultGoalkeeper:  p.DefaultGoalkeeper,
		},
		Team: Team{
			DefaultRating: t.Default,
			HomeAdvantage: t.HomeAdvantage,
			NewTeamGames:  t.NewTeamGames,
			EliteRating:   t.EliteRating,
			KNew:          t.KNew,
			KElite:        t.KElite,
			KDefault:      t.KDefault,
		},
		Goalkeeper: Goalkeeper{
			InSeason:      Threshold{MinOccurrences: 10, MinSaves: 5, MinRatio: 0.60},
			SeasonEnd:     Threshold{MinOccurrences: 25, MinSaves: 15, MinRatio: 0.85},
			DemotionBlend: 0.5,
			FieldBaseline: 1200,
		},
		Context: Context{
			Timing:         w.Timing,
			Score:          w.Score,
			Momentum:       w.Momentum,
			ActionClass:    w.ActionClass,
			GoalkeeperSave: w.GoalkeeperSave,
			Min:            importance.DefaultMin,
			Max:            importance.DefaultMax,
		},
		Carryover: Carryover{
			Base:           co.Base,
			MaxBonus:       co.MaxBonus,
			MinPenalty:     co.MinPenalty,
			FullCarryGames: co.FullCarryGames,
			Consistency:    co.Consistency[:],
			TeamMargin:     co.TeamMargin,
			Jitter:         co.Jitter,
		},
	}
}

// ResolvedSources returns Sources, or the DataDir/Leagues shorthand expanded
// into one source per league.
func (c *Config) ResolvedSources() []Source {
	if len(c.Sources) > 0 {
		return c.Sources
	}
	out := make([]Source, 0, len(c.Leagues))
	for _, l := range c.Leagues {
		if l == "" {
			continue
		}
		out = append(out, Source{League: l, Format: c.DataFormat, Path: c.DataDir})
	}
	return out
}
