package config_test

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/okian/hbelo/internal/config"
	"github.com/okian/hbelo/internal/domain/engine"
	m "github.com/okian/hbelo/internal/domain/model"
	"github.com/okian/hbelo/internal/domain/rating"
	"github.com/okian/hbelo/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func withLeague(cfg *config.Config) *config.Config {
	cfg.Leagues = []string{"herreliga"}
	cfg.DataDir = "/data"
	return cfg
}

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 500)
			convey.So(cfg.DataFormat, convey.ShouldEqual, "yaml")
			convey.So(cfg.RefreshCron, convey.ShouldBeEmpty)
			convey.So(cfg.OutputPath, convey.ShouldBeEmpty)
		})

		convey.Convey("Then the engine sections match the engine defaults", func() {
			convey.So(cfg.PlayerConfig(), convey.ShouldResemble, rating.DefaultPlayerConfig())
			convey.So(cfg.TeamConfig(), convey.ShouldResemble, rating.DefaultTeamConfig())
			convey.So(cfg.Carryover.Consistency, convey.ShouldResemble, []float64{30, 50, 80})
			convey.So(cfg.Goalkeeper.InSeason.MinRatio, convey.ShouldEqual, 0.60)
			convey.So(cfg.Goalkeeper.SeasonEnd.MinOccurrences, convey.ShouldEqual, 25)
		})

		convey.Convey("Then it is invalid until a league is configured", func() {
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "no sources")

			convey.So(withLeague(cfg).Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_ResolvedSources(t *testing.T) {
	convey.Convey("Given source settings", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("When only the shorthand is set", func() {
			cfg.DataDir = "/data"
			cfg.DataFormat = "sqlite"
			cfg.Leagues = []string{"herreliga", "", "kvindeliga"}

			convey.Convey("Then one source per league shares the root", func() {
				srcs := cfg.ResolvedSources()
				convey.So(srcs, convey.ShouldResemble, []config.Source{
					{League: "herreliga", Format: "sqlite", Path: "/data"},
					{League: "kvindeliga", Format: "sqlite", Path: "/data"},
				})
			})
		})

		convey.Convey("When explicit sources are set", func() {
			cfg.Leagues = []string{"ignored"}
			cfg.Sources = []config.Source{{League: "herreliga", Format: "yaml", Path: "/archive"}}

			convey.Convey("Then the shorthand is ignored", func() {
				convey.So(cfg.ResolvedSources(), convey.ShouldHaveLength, 1)
				convey.So(cfg.ResolvedSources()[0].Path, convey.ShouldEqual, "/archive")
			})
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a valid config", t, func() {
		cfg := withLeague(config.New(context.Background()))

		cases := []struct {
			name   string
			mutate func(c *config.Config)
			want   string
		}{
			{"empty addr", func(c *config.Config) { c.Addr = "" }, "addr must not be empty"},
			{"zero workers", func(c *config.Config) { c.WorkerCount = 0 }, "worker_count"},
			{"zero queue", func(c *config.Config) { c.QueueSize = 0 }, "queue_size"},
			{"zero limit", func(c *config.Config) { c.MaxLeaderboardLimit = 0 }, "max_leaderboard_limit"},
			{"unknown format", func(c *config.Config) { c.DataFormat = "csv" }, "unknown format"},
			{"empty path", func(c *config.Config) { c.DataDir = "" }, "path must not be empty"},
			{"duplicate league", func(c *config.Config) { c.Leagues = []string{"a", "a"} }, "configured twice"},
			{"inverted bounds", func(c *config.Config) { c.Player.MinRating = 4000 }, "player"},
			{"bad fallback role", func(c *config.Config) { c.Player.FallbackRole = "XX" }, "fallback role"},
			{"negative k", func(c *config.Config) { c.Team.KNew = -1 }, "team"},
			{"short consistency", func(c *config.Config) { c.Carryover.Consistency = []float64{1, 2} }, "consistency"},
			{"few carry games", func(c *config.Config) { c.Carryover.FullCarryGames = 8 }, "carryover"},
			{"context sum", func(c *config.Config) { c.Context.Timing = 0.5 }, "sum"},
			{"context range", func(c *config.Config) { c.Context.Min = 6 }, "range"},
			{"role table", func(c *config.Config) {
				c.Weights.Roles = []config.RoleMultiplier{{Role: "MV", Value: -1}}
			}, "MV"},
		}

		for _, tc := range cases {
			convey.Convey("When it has "+tc.name, func() {
				tc.mutate(cfg)
				err := cfg.Validate()

				convey.Convey("Then validation fails", func() {
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(err.Error(), convey.ShouldContainSubstring, tc.want)
				})
			})
		}
	})
}

func TestConfig_EngineOptions(t *testing.T) {
	convey.Convey("Given a config with overrides", t, func() {
		cfg := withLeague(config.New(context.Background()))
		cfg.Weights.Name = "custom"
		cfg.Weights.Version = "2"
		cfg.Weights.Strict = true
		cfg.Weights.Base = []config.ActionWeight{{Action: "Forårs. str.", Weight: -2}}
		cfg.Goalkeeper.FieldPlayers = []string{"Mikkel  Hansen"}
		cfg.Player.FallbackRole = "pl"

		convey.Convey("When the registry is built", func() {
			reg, err := cfg.Registry()

			convey.Convey("Then the name and overrides apply", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(reg.ID(), convey.ShouldEqual, "custom/2")
				convey.So(reg.Strict(), convey.ShouldBeTrue)
				w, err := reg.Base(m.ActionPenaltyCaused)
				convey.So(err, convey.ShouldBeNil)
				convey.So(w, convey.ShouldEqual, -2)
			})
		})

		convey.Convey("When the classifier is built", func() {
			c := cfg.Classifier(logger.Nop())

			convey.Convey("Then override names match loosely", func() {
				convey.So(c.Overridden("mikkel hansen"), convey.ShouldBeTrue)
				convey.So(c.Overridden("Niklas Landin"), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the player constants are mapped", func() {
			convey.So(cfg.PlayerConfig().FallbackRole, convey.ShouldEqual, m.RoleCentreBack)
		})

		convey.Convey("When an engine is assembled", func() {
			opts, err := cfg.EngineOptions(logger.Nop())
			convey.So(err, convey.ShouldBeNil)
			e, err := engine.New(opts...)

			convey.Convey("Then it uses the configured registry", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(e.Registry().ID(), convey.ShouldEqual, "custom/2")
			})
		})

		convey.Convey("When the context weights are broken", func() {
			cfg.Context.Score = 0.9
			_, err := cfg.EngineOptions(logger.Nop())

			convey.Convey("Then no options are returned", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
