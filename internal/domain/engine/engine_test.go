package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/hbelo/internal/domain/engine"
	"github.com/okian/hbelo/internal/domain/goalkeeper"
	m "github.com/okian/hbelo/internal/domain/model"
	"github.com/okian/hbelo/internal/domain/rating"
	"github.com/okian/hbelo/internal/domain/weights"
	"github.com/okian/hbelo/internal/matchgen"
	. "github.com/smartystreets/goconvey/convey"
)

const home, away = m.TeamID("AAH"), m.TeamID("BSV")

func newEngine(opts ...engine.Option) *engine.Engine {
	e, err := engine.New(opts...)
	So(err, ShouldBeNil)
	return e
}

func goal(t float64, h, a int, team m.TeamID, player, keeper string) m.MatchEvent {
	return m.MatchEvent{
		Time: t, Score: m.Score{Home: h, Away: a}, Team: team,
		Action: m.ActionGoal, Role: m.RoleLeftBack, Player: player, Goalkeeper: keeper,
	}
}

func save(t float64, h, a int, team m.TeamID, player, keeper string) m.MatchEvent {
	return m.MatchEvent{
		Time: t, Score: m.Score{Home: h, Away: a}, Team: team,
		Action: m.ActionSave, Role: m.RoleRightBack, Player: player, Goalkeeper: keeper,
	}
}

func simpleMatch(id string) m.MatchRecord {
	return m.MatchRecord{
		MatchID: id, SeasonID: "2023", Home: home, Away: away,
		FinalScore: m.Score{Home: 2, Away: 1},
		Events: []m.MatchEvent{
			{Time: 0, Action: m.ActionFirstHalf},
			goal(4.5, 1, 0, home, "Ida Berg", "Sara Lund"),
			save(12.2, 1, 0, away, "Mia Holm", "Emma Krog"),
			goal(27.9, 1, 1, away, "Mia Holm", "Emma Krog"),
			{Time: 30, Score: m.Score{Home: 1, Away: 1}, Action: m.ActionHalfTime},
			goal(58.4, 2, 1, home, "Ida Berg", "Sara Lund"),
			{Time: 60, Score: m.Score{Home: 2, Away: 1}, Action: m.ActionFullTime},
		},
	}
}

func corruptMatch(id string) m.MatchRecord {
	rec := simpleMatch(id)
	rec.Events[3].Score = m.Score{Home: 0, Away: 1}
	return rec
}

func TestRunSeason(t *testing.T) {
	Convey("Given a default engine", t, func() {
		ctx := context.Background()
		e := newEngine()

		Convey("One match produces all three tables", func() {
			res, err := e.RunSeason(ctx, engine.Season{League: "test", ID: "2023", Matches: []m.MatchRecord{simpleMatch("m1")}}, nil)
			So(err, ShouldBeNil)
			So(res.Processed, ShouldEqual, 1)
			So(res.Skips, ShouldBeEmpty)
			So(res.Registry, ShouldEqual, weights.Default().ID())

			So(len(res.Players), ShouldEqual, 4)
			for _, p := range res.Players {
				So(p.Games, ShouldEqual, 1)
			}
			ida, ok := res.Player("Ida Berg")
			So(ok, ShouldBeTrue)
			So(ida.Rating, ShouldBeGreaterThan, rating.DefaultPlayerConfig().DefaultPlayer)
			So(ida.Team, ShouldEqual, home)

			keeper, ok := res.Player("Sara Lund")
			So(ok, ShouldBeTrue)
			So(keeper.Rating, ShouldBeLessThan, rating.DefaultPlayerConfig().DefaultGoalkeeper)

			So(len(res.Teams), ShouldEqual, 2)
			ht, _ := res.Team(home)
			at, _ := res.Team(away)
			So(ht.Games, ShouldEqual, 1)
			So(at.Games, ShouldEqual, 1)

			So(len(res.Deltas), ShouldEqual, 1)
			d := res.Deltas[0]
			So(d.MatchID, ShouldEqual, "m1")
			So(d.HomeAfter, ShouldBeGreaterThan, d.HomeBefore)
			So(d.AwayAfter, ShouldBeLessThan, d.AwayBefore)
			So(d.HomeAfter, ShouldEqual, ht.Rating)

			So(len(res.NextStart), ShouldEqual, 4)
			So(res.Stats.Players, ShouldEqual, 4)
		})

		Convey("A corrupt match leaves no trace", func() {
			clean, err := e.RunSeason(ctx, engine.Season{League: "test", ID: "2023", Matches: []m.MatchRecord{simpleMatch("m1"), simpleMatch("m3")}}, nil)
			So(err, ShouldBeNil)
			dirty, err := e.RunSeason(ctx, engine.Season{League: "test", ID: "2023", Matches: []m.MatchRecord{simpleMatch("m1"), corruptMatch("m2"), simpleMatch("m3")}}, nil)
			So(err, ShouldBeNil)

			So(dirty.Processed, ShouldEqual, 2)
			So(len(dirty.Skips), ShouldEqual, 1)
			So(dirty.Skips[0].MatchID, ShouldEqual, "m2")
			So(dirty.Skips[0].Reason, ShouldEqual, engine.ReasonCorrupt)
			So(errors.Is(dirty.Skips[0].Err, engine.ErrCorruptMatch), ShouldBeTrue)

			So(dirty.Players, ShouldResemble, clean.Players)
			So(dirty.Teams, ShouldResemble, clean.Teams)
			So(dirty.NextStart, ShouldResemble, clean.NextStart)
		})

		Convey("A corrupt match does not block a later clean copy", func() {
			res, err := e.RunSeason(ctx, engine.Season{League: "test", ID: "2023", Matches: []m.MatchRecord{corruptMatch("m1"), simpleMatch("m1")}}, nil)
			So(err, ShouldBeNil)
			So(res.Processed, ShouldEqual, 1)
			So(len(res.Skips), ShouldEqual, 1)
		})

		Convey("Duplicate match ids are applied once", func() {
			res, err := e.RunSeason(ctx, engine.Season{League: "test", ID: "2023", Matches: []m.MatchRecord{simpleMatch("m1"), simpleMatch("M1 ")}}, nil)
			So(err, ShouldBeNil)
			So(res.Processed, ShouldEqual, 1)
			So(res.Skips[0].Reason, ShouldEqual, engine.ReasonDuplicate)
			ida, _ := res.Player("Ida Berg")
			So(ida.Games, ShouldEqual, 1)
		})

		Convey("A final score below the running score is corrupt", func() {
			rec := simpleMatch("m1")
			rec.FinalScore = m.Score{Home: 1, Away: 1}
			res, err := e.RunSeason(ctx, engine.Season{League: "test", ID: "2023", Matches: []m.MatchRecord{rec}}, nil)
			So(err, ShouldBeNil)
			So(res.Processed, ShouldEqual, 0)
			So(res.Skips[0].Reason, ShouldEqual, engine.ReasonCorrupt)
			So(res.Players, ShouldBeEmpty)
		})

		Convey("Malformed records are skipped", func() {
			rec := simpleMatch("m1")
			rec.Away = ""
			res, err := e.RunSeason(ctx, engine.Season{League: "test", ID: "2023", Matches: []m.MatchRecord{rec, simpleMatch("m2")}}, nil)
			So(err, ShouldBeNil)
			So(res.Processed, ShouldEqual, 1)
			So(res.Skips[0].Reason, ShouldEqual, engine.ReasonMalformed)
			So(errors.Is(res.Skips[0].Err, m.ErrMissingField), ShouldBeTrue)
		})

		Convey("A match whose events name neither team is skipped", func() {
			rec := simpleMatch("m1")
			for i := range rec.Events {
				if rec.Events[i].Team != "" {
					rec.Events[i].Team = "XXX"
				}
			}
			res, err := e.RunSeason(ctx, engine.Season{League: "test", ID: "2023", Matches: []m.MatchRecord{rec}}, nil)
			So(err, ShouldBeNil)
			So(res.Skips[0].Reason, ShouldEqual, engine.ReasonUnresolvable)
			So(res.Teams, ShouldBeEmpty)
		})

		Convey("A single unresolvable event is only dropped", func() {
			rec := simpleMatch("m1")
			rec.Events[2].Team = "XXX"
			res, err := e.RunSeason(ctx, engine.Season{League: "test", ID: "2023", Matches: []m.MatchRecord{rec}}, nil)
			So(err, ShouldBeNil)
			So(res.Processed, ShouldEqual, 1)
			So(res.Dropped["unresolvable_team"], ShouldEqual, 1)
		})

		Convey("An action-less event mid-match is dropped alone", func() {
			rec := simpleMatch("m1")
			bad := m.MatchEvent{Time: 20, Team: home, Player: "Ida Berg"}
			rec.Events = append(rec.Events[:3], append([]m.MatchEvent{bad}, rec.Events[3:]...)...)
			res, err := e.RunSeason(ctx, engine.Season{League: "test", ID: "2023", Matches: []m.MatchRecord{rec}}, nil)
			So(err, ShouldBeNil)
			So(res.Skips, ShouldBeEmpty)
			So(res.Processed, ShouldEqual, 1)
			So(res.Dropped["malformed_event"], ShouldEqual, 1)

			clean, err := newEngine().RunSeason(ctx, engine.Season{League: "test", ID: "2023", Matches: []m.MatchRecord{simpleMatch("m1")}}, nil)
			So(err, ShouldBeNil)
			So(len(res.Players), ShouldEqual, len(clean.Players))
			for _, p := range clean.Players {
				got, ok := res.Player(p.Player)
				So(ok, ShouldBeTrue)
				So(got.Rating, ShouldAlmostEqual, p.Rating, 1e-9)
			}
		})

		Convey("Source skips are carried into the result", func() {
			s := engine.Season{League: "test", ID: "2023", Skips: []engine.Skip{{MatchID: "bad.yaml", Reason: engine.ReasonUnreadable}}}
			res, err := e.RunSeason(ctx, s, nil)
			So(err, ShouldBeNil)
			So(len(res.Skips), ShouldEqual, 1)
		})
	})
}

func TestAbort(t *testing.T) {
	Convey("Given a strict registry", t, func() {
		ctx := context.Background()
		reg, err := weights.New(weights.WithStrictUnknownActions(true))
		So(err, ShouldBeNil)
		e := newEngine(engine.WithRegistry(reg))

		Convey("An unpriced action aborts before any match is applied", func() {
			bad := simpleMatch("m2")
			bad.Events[2].Action = "Skud på overligger"
			res, err := e.RunSeason(ctx, engine.Season{League: "test", ID: "2023", Matches: []m.MatchRecord{simpleMatch("m1"), bad}}, nil)
			So(res, ShouldBeNil)
			So(errors.Is(err, weights.ErrMissingWeight), ShouldBeTrue)
		})

		Convey("Known actions run normally", func() {
			res, err := e.RunSeason(ctx, engine.Season{League: "test", ID: "2023", Matches: []m.MatchRecord{simpleMatch("m1")}}, nil)
			So(err, ShouldBeNil)
			So(res.Processed, ShouldEqual, 1)
		})
	})

	Convey("Given a lenient registry, unknown actions weigh nothing", t, func() {
		e := newEngine()
		rec := simpleMatch("m1")
		rec.Events[2].Action = "Skud på overligger"
		res, err := e.RunSeason(context.Background(), engine.Season{League: "test", ID: "2023", Matches: []m.MatchRecord{rec}}, nil)
		So(err, ShouldBeNil)
		So(res.Processed, ShouldEqual, 1)
	})

	Convey("Invalid constants are rejected at construction", t, func() {
		cfg := rating.DefaultPlayerConfig()
		cfg.Bounds = rating.Bounds{Min: 2000, Max: 1000}
		_, err := engine.New(engine.WithPlayerConfig(cfg))
		So(err, ShouldNotBeNil)
	})
}

// keeperMatch has "Sara Lund" in the goalkeeper field for n saves and one
// conceded goal.
func keeperMatch(id string, n int) m.MatchRecord {
	rec := m.MatchRecord{MatchID: id, SeasonID: "2023", Home: home, Away: away, FinalScore: m.Score{Home: 0, Away: 1}}
	for i := 0; i < n; i++ {
		rec.Events = append(rec.Events, save(float64(i+1), 0, 0, away, "Mia Holm", "Sara Lund"))
	}
	rec.Events = append(rec.Events, goal(float64(n+1), 0, 1, away, "Mia Holm", "Sara Lund"))
	return rec
}

func TestGoalkeepers(t *testing.T) {
	Convey("Given a player who keeps goal all season", t, func() {
		ctx := context.Background()
		matches := []m.MatchRecord{keeperMatch("k1", 12), keeperMatch("k2", 12)}

		Convey("She is promoted in season and kept at season end", func() {
			res, err := newEngine().RunSeason(ctx, engine.Season{League: "test", ID: "2023", Matches: matches}, nil)
			So(err, ShouldBeNil)
			sara, _ := res.Player("Sara Lund")
			So(sara.ConfirmedGoalkeeper, ShouldBeTrue)
			So(sara.PrimaryRole, ShouldEqual, m.RoleGoalkeeper)
			So(len(res.Transitions), ShouldBeGreaterThan, 0)
			So(res.Transitions[0].Kind, ShouldEqual, "promoted")
			So(res.Transitions[0].InMatch, ShouldEqual, "k1")
		})

		Convey("The override list keeps her a field player", func() {
			e := newEngine(engine.WithClassifier(goalkeeper.New(goalkeeper.WithFieldPlayers(" sara  LUND"))))
			res, err := e.RunSeason(ctx, engine.Season{League: "test", ID: "2023", Matches: matches}, nil)
			So(err, ShouldBeNil)
			sara, _ := res.Player("Sara Lund")
			So(sara.ConfirmedGoalkeeper, ShouldBeFalse)
			So(res.Transitions, ShouldBeEmpty)
		})

		Convey("Thin evidence is demoted at season end", func() {
			res, err := newEngine().RunSeason(ctx, engine.Season{League: "test", ID: "2023", Matches: matches[:1]}, nil)
			So(err, ShouldBeNil)
			sara, _ := res.Player("Sara Lund")
			So(sara.ConfirmedGoalkeeper, ShouldBeFalse)
			last := res.Transitions[len(res.Transitions)-1]
			So(last.Kind, ShouldEqual, "demoted")
			So(last.After, ShouldEqual, sara.Rating)
		})
	})
}

func TestGeneratedLeague(t *testing.T) {
	Convey("Given two generated seasons", t, func() {
		ctx := context.Background()
		g := matchgen.New("herreligaen", matchgen.WithTeams(6), matchgen.WithEvents(80), matchgen.WithSeed(42))
		seasons := []engine.Season{
			{League: "herreligaen", ID: "2022-2023", Matches: g.Season("2022-2023")},
			{League: "herreligaen", ID: "2023-2024", Matches: g.Season("2023-2024")},
		}

		first, err := newEngine().Run(ctx, seasons)
		So(err, ShouldBeNil)
		So(len(first), ShouldEqual, 2)

		Convey("Replays are identical", func() {
			second, err := newEngine().Run(ctx, seasons)
			So(err, ShouldBeNil)
			for i := range first {
				So(second[i].Players, ShouldResemble, first[i].Players)
				So(second[i].Teams, ShouldResemble, first[i].Teams)
				So(second[i].Deltas, ShouldResemble, first[i].Deltas)
				So(second[i].NextStart, ShouldResemble, first[i].NextStart)
			}
		})

		Convey("Every rating stays in bounds", func() {
			b := rating.DefaultPlayerConfig().Bounds
			tb := rating.DefaultTeamConfig().Bounds
			for _, res := range first {
				So(res.Skips, ShouldBeEmpty)
				for _, p := range res.Players {
					So(p.Rating, ShouldBeBetweenOrEqual, b.Min, b.Max)
					So(p.Momentum, ShouldBeBetweenOrEqual, 0.9, 1.1)
				}
				for _, t := range res.Teams {
					So(t.Rating, ShouldBeBetweenOrEqual, tb.Min, tb.Max)
					So(t.Games, ShouldEqual, 10)
				}
			}
		})

		Convey("The second season starts from the carried ratings", func() {
			for _, s := range first[1].Summaries {
				if start, ok := first[0].NextStart[s.Player]; ok {
					So(s.StartRating, ShouldEqual, start)
				}
			}
		})

		Convey("Regular keepers are confirmed", func() {
			p, ok := first[0].Player("AAH Keeper 1")
			So(ok, ShouldBeTrue)
			So(p.ConfirmedGoalkeeper, ShouldBeTrue)
		})

		Convey("Mixed leagues are rejected", func() {
			mixed := append([]engine.Season{}, seasons...)
			mixed[1].League = "kvindeligaen"
			_, err := newEngine().Run(ctx, mixed)
			So(errors.Is(err, engine.ErrMixedLeagues), ShouldBeTrue)
		})

		Convey("Cancellation stops between seasons", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			out, err := newEngine().Run(cctx, seasons)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
			So(out, ShouldBeEmpty)
		})
	})
}
