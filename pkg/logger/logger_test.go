package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		So(Init(), ShouldBeNil)
		defer func() { So(Sync(), ShouldBeNil) }()

		Convey("Then Get and Named return usable loggers", func() {
			So(Get(), ShouldNotBeNil)
			named := Named("engine")
			So(named, ShouldNotBeNil)
			So(func() { named.Info(context.Background(), "hello", String("k", "v")) }, ShouldNotPanic)
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a logger writing into a buffer", t, func() {
		SetLevel(0)
		var buf bytes.Buffer
		l := New(&buf).Named("normalize").With(String("league", "herreliga"))

		Convey("When logging with structured fields", func() {
			l.Warn(context.Background(), "event dropped",
				String("match_id", "m1"),
				Int("index", 3),
				Float64("time", 12.5),
				Bool("goalkeeper", true),
				Error(errors.New("boom")))

			Convey("Then every field is rendered", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "event dropped")
				So(out, ShouldContainSubstring, "component=normalize")
				So(out, ShouldContainSubstring, "league=herreliga")
				So(out, ShouldContainSubstring, "match_id=m1")
				So(out, ShouldContainSubstring, "index=3")
				So(out, ShouldContainSubstring, "error=boom")
				So(out, ShouldContainSubstring, "source=")
			})
		})

		Convey("When the level filters debug records", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			l.Debug(context.Background(), "hidden")
			So(buf.String(), ShouldNotContainSubstring, "hidden")
			So(SetLevelString("info"), ShouldBeNil)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		for _, lvl := range []string{"debug", "info", "", "WARN", "warning", "error"} {
			So(SetLevelString(lvl), ShouldBeNil)
		}
		So(SetLevelString("verbose"), ShouldNotBeNil)
		So(SetLevelString("info"), ShouldBeNil)
	})
}

func TestNop(t *testing.T) {
	Convey("Nop discards without panicking", t, func() {
		So(func() { Nop().Error(context.Background(), "x", Any("v", []int{1})) }, ShouldNotPanic)
	})
}
