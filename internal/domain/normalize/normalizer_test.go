package normalize_test

import (
	"context"
	"testing"

	m "github.com/okian/hbelo/internal/domain/model"
	"github.com/okian/hbelo/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	Convey("Given a normalizer and a match AAH vs BSV", t, func() {
		n := normalize.New()
		ctx := context.Background()
		const home, away = m.TeamID("AAH"), m.TeamID("BSV")

		Convey("A goal with assist and goalkeeper yields three attributed actions", func() {
			res := n.Normalize(ctx, m.MatchEvent{
				Time: 12.5, Score: m.Score{Home: 5, Away: 4}, Team: home,
				Action: m.ActionGoal, Role: m.RoleLeftBack, Player: "Ida Berg",
				SecondaryAction: m.ActionAssist, SecondaryPlayer: "Mia Holm",
				Goalkeeper: "Sara Lund",
			}, home, away)

			So(res.Notes, ShouldBeEmpty)
			So(len(res.Actions), ShouldEqual, 3)

			So(res.Actions[0].Player, ShouldEqual, "Ida Berg")
			So(res.Actions[0].Team, ShouldEqual, home)
			So(res.Actions[0].Role, ShouldEqual, m.RoleLeftBack)
			So(res.Actions[0].Goalkeeper, ShouldBeFalse)

			So(res.Actions[1].Player, ShouldEqual, "Mia Holm")
			So(res.Actions[1].Team, ShouldEqual, home)
			So(res.Actions[1].Action, ShouldEqual, m.ActionAssist)

			So(res.Actions[2].Player, ShouldEqual, "Sara Lund")
			So(res.Actions[2].Team, ShouldEqual, away)
			So(res.Actions[2].Action, ShouldEqual, m.ActionGoal)
			So(res.Actions[2].Goalkeeper, ShouldBeTrue)
			So(res.Actions[2].Score, ShouldResemble, m.Score{Home: 5, Away: 4})
		})

		Convey("Adversarial secondary actions go to the opposite team", func() {
			res := n.Normalize(ctx, m.MatchEvent{
				Time: 3, Team: away, Action: m.ActionLostBall, Player: "Ane Dahl",
				SecondaryAction: m.ActionSteal, SecondaryPlayer: "Ida Berg",
			}, home, away)
			So(len(res.Actions), ShouldEqual, 2)
			So(res.Actions[1].Team, ShouldEqual, home)
		})

		Convey("Unknown secondary categories are noted and skipped", func() {
			res := n.Normalize(ctx, m.MatchEvent{
				Time: 3, Team: home, Action: m.ActionGoal, Player: "Ida Berg",
				SecondaryAction: m.ActionWarning, SecondaryPlayer: "Mia Holm",
			}, home, away)
			So(len(res.Actions), ShouldEqual, 1)
			So(res.Notes[0].Reason, ShouldEqual, normalize.ReasonIgnoredSecondary)
		})

		Convey("An unknown acting team drops the event", func() {
			res := n.Normalize(ctx, m.MatchEvent{Time: 3, Team: "GOG", Action: m.ActionGoal, Player: "X"}, home, away)
			So(res.Actions, ShouldBeEmpty)
			So(res.Notes[0].Reason, ShouldEqual, normalize.ReasonUnresolvableTeam)
		})

		Convey("Malformed events produce no actions", func() {
			res := n.Normalize(ctx, m.MatchEvent{Time: -1, Team: home, Action: m.ActionGoal, Player: "X"}, home, away)
			So(res.Actions, ShouldBeEmpty)
			So(res.Notes[0].Reason, ShouldEqual, normalize.ReasonMalformedEvent)
		})

		Convey("Placeholder names are ignored", func() {
			res := n.Normalize(ctx, m.MatchEvent{Time: 3, Team: home, Action: m.ActionTimeout, Player: "nan", Goalkeeper: "0"}, home, away)
			So(res.Actions, ShouldBeEmpty)
			So(res.Notes, ShouldBeEmpty)
		})

		Convey("A goalkeeper field repeating the actor is noted", func() {
			res := n.Normalize(ctx, m.MatchEvent{Time: 3, Team: home, Action: m.ActionGoal, Player: "X", Goalkeeper: "X"}, home, away)
			So(len(res.Actions), ShouldEqual, 1)
			So(res.Notes[0].Reason, ShouldEqual, normalize.ReasonSelfGoalkeeper)
		})
	})
}
