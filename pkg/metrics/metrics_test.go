package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

func counterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return -1
	}
	return m.GetCounter().GetValue()
}

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("ratings"),
				WithDeltaBuckets([]float64{-1, 0, 1}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then collectors are registered on it", func() {
				So(manager, ShouldNotBeNil)
				manager.matchesProcessed.WithLabelValues("l").Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
				So(families[0].GetName(), ShouldStartWith, "test_")
			})
		})
	})
}

func TestRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording engine metrics", func() {
			before := counterValue(globalManager.matchesSkipped.WithLabelValues("kvindeliga", "duplicate"))
			RecordMatchSkipped("kvindeliga", "duplicate")

			Convey("Then the labelled counter moves", func() {
				after := counterValue(globalManager.matchesSkipped.WithLabelValues("kvindeliga", "duplicate"))
				So(after-before, ShouldEqual, 1)
			})
		})

		Convey("When recording the remaining helpers", func() {
			So(func() {
				RecordMatchProcessed("herreliga")
				RecordActionApplied()
				RecordActionDropped("unresolvable_team")
				RecordSeasonDuration("herreliga", 0.2)
				RecordRatingDelta("player", 3.5)
				RecordContextMultiplier(1.7)
				RecordGoalkeeperTransition("promoted")
				UpdatePlayersTracked("herreliga", 300)
				UpdateTeamsTracked("herreliga", 14)
				RecordRefresh("herreliga", "ok")
				RecordSinkRows("player_ratings", 300)
				UpdateWorkersBusy(2)
				UpdateLeaderboardSize("herreliga", 300)
				RecordHTTPRequest("/stats", "GET", "200")
				RecordHTTPRequestDuration("/stats", "GET", "200", 0.001)
			}, ShouldNotPanic)

			Convey("Then the registry gathers without error", func() {
				_, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
			})
		})
	})
}
