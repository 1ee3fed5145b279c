package sink_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/hbelo/internal/adapters/sink"
	"github.com/okian/hbelo/internal/domain/engine"
	"github.com/okian/hbelo/internal/matchgen"
)

func rate(t *testing.T, league string, seasons ...string) []*engine.SeasonResult {
	t.Helper()
	gen := matchgen.New(league, matchgen.WithTeams(4), matchgen.WithEvents(40), matchgen.WithSeed(3))
	in := make([]engine.Season, 0, len(seasons))
	for _, id := range seasons {
		in = append(in, engine.Season{League: league, ID: id, Matches: gen.Season(id)})
	}
	eng, err := engine.New()
	if err != nil {
		t.Fatal(err)
	}
	out, err := eng.Run(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestSQLiteSink(t *testing.T) {
	Convey("Given a fresh sink", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "ratings.db")
		s, err := sink.NewSQLiteSink(path)
		So(err, ShouldBeNil)
		Reset(func() { _ = s.Close() })

		Convey("An empty league has no latest season", func() {
			_, err := s.LatestSeason(ctx, "herreliga")
			So(errors.Is(err, sink.ErrNoSeason), ShouldBeTrue)
		})

		Convey("Written seasons read back", func() {
			results := rate(t, "herreliga", "2023-2024", "2024-2025")
			for _, r := range results {
				So(s.Write(ctx, r), ShouldBeNil)
			}

			latest, err := s.LatestSeason(ctx, "herreliga")
			So(err, ShouldBeNil)
			So(latest, ShouldEqual, "2024-2025")

			rows, err := s.Players(ctx, "herreliga", "2024-2025")
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, len(results[1].Players))
			for i := 1; i < len(rows); i++ {
				So(rows[i-1].Rating, ShouldBeGreaterThanOrEqualTo, rows[i].Rating)
			}
			want, ok := results[1].Player(rows[0].Player)
			So(ok, ShouldBeTrue)
			So(rows[0], ShouldResemble, want)

			Convey("Rewriting a season replaces it", func() {
				So(s.Write(ctx, results[1]), ShouldBeNil)
				again, err := s.Players(ctx, "herreliga", "2024-2025")
				So(err, ShouldBeNil)
				So(again, ShouldResemble, rows)
			})
		})

		Convey("Reopening keeps the data", func() {
			results := rate(t, "kvindeliga", "2024-2025")
			So(s.Write(ctx, results[0]), ShouldBeNil)
			So(s.Close(), ShouldBeNil)

			reopened, err := sink.NewSQLiteSink(path)
			So(err, ShouldBeNil)
			defer reopened.Close()
			rows, err := reopened.Players(ctx, "kvindeliga", "2024-2025")
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, len(results[0].Players))
		})
	})
}
