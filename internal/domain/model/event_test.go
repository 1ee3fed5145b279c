package model_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/hbelo/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestMatchRecordValidate(t *testing.T) {
	convey.Convey("Given match records", t, func() {
		ok := model.MatchRecord{MatchID: "m1", Home: "AAH", Away: "BSV"}

		convey.Convey("A complete record validates", func() {
			convey.So(ok.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Missing ids are rejected", func() {
			r := ok
			r.MatchID = " "
			convey.So(errors.Is(r.Validate(), model.ErrMissingField), convey.ShouldBeTrue)
			r = ok
			r.Away = ""
			convey.So(errors.Is(r.Validate(), model.ErrMissingField), convey.ShouldBeTrue)
		})

		convey.Convey("A team playing itself is rejected", func() {
			r := ok
			r.Away = r.Home
			convey.So(errors.Is(r.Validate(), model.ErrInvalidField), convey.ShouldBeTrue)
		})
	})
}

func TestMatchEventValidate(t *testing.T) {
	convey.Convey("Given events", t, func() {
		ev := model.MatchEvent{Time: 12.3, Team: "AAH", Action: model.ActionGoal}
		convey.So(ev.Validate(), convey.ShouldBeNil)

		ev.Time = math.NaN()
		convey.So(errors.Is(ev.Validate(), model.ErrInvalidField), convey.ShouldBeTrue)

		ev.Time = 1
		ev.Action = ""
		convey.So(errors.Is(ev.Validate(), model.ErrMissingField), convey.ShouldBeTrue)
	})
}

func TestTeamRef(t *testing.T) {
	convey.Convey("Given a match between AAH and BSV", t, func() {
		convey.Convey("Resolved keeps the team", func() {
			team, ok := model.Resolved("BSV").Resolve("AAH", "BSV")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(team, convey.ShouldEqual, model.TeamID("BSV"))
		})

		convey.Convey("OppositeOf flips to the other side", func() {
			team, ok := model.OppositeOf("AAH").Resolve("AAH", "BSV")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(team, convey.ShouldEqual, model.TeamID("BSV"))
		})

		convey.Convey("A foreign team does not resolve", func() {
			_, ok := model.OppositeOf("GOG").Resolve("AAH", "BSV")
			convey.So(ok, convey.ShouldBeFalse)
			_, ok = model.TeamRef{}.Resolve("AAH", "BSV")
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}

func TestActionCatalog(t *testing.T) {
	convey.Convey("Given the action catalog", t, func() {
		convey.So(model.ActionSave.IsSave(), convey.ShouldBeTrue)
		convey.So(model.ActionPenaltySave.IsSave(), convey.ShouldBeTrue)
		convey.So(model.ActionGoal.IsGoal(), convey.ShouldBeTrue)
		convey.So(model.ActionHalfTime.IsPhaseMarker(), convey.ShouldBeTrue)
		convey.So(model.ActionTimeout.IsPhaseMarker(), convey.ShouldBeFalse)

		info, ok := model.ActionAssist.Info()
		convey.So(ok, convey.ShouldBeTrue)
		convey.So(info.Secondary, convey.ShouldEqual, model.SecondaryCooperative)

		info, _ = model.ActionSteal.Info()
		convey.So(info.Secondary, convey.ShouldEqual, model.SecondaryAdversarial)

		convey.So(model.Action("Dribling").Known(), convey.ShouldBeFalse)

		all := model.KnownActions()
		convey.So(len(all), convey.ShouldBeGreaterThan, 30)
		for i := 1; i < len(all); i++ {
			convey.So(all[i-1] < all[i], convey.ShouldBeTrue)
		}
	})
}

func TestRole(t *testing.T) {
	convey.Convey("Pure roles are recognised", t, func() {
		convey.So(model.RoleGoalkeeper.IsPure(), convey.ShouldBeTrue)
		convey.So(model.Role("Gbr").IsPure(), convey.ShouldBeFalse)
		convey.So(model.RoleNone.IsPure(), convey.ShouldBeFalse)
		convey.So(len(model.FieldRoles()), convey.ShouldEqual, 6)
	})
}
