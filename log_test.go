package main

import (
	"testing"

	"github.com/astaxie/beego/logs"
	"github.com/goccy/go-json"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFileAdapterConfig(t *testing.T) {
	Convey("The file adapter gets a complete config", t, func() {
		s, err := fileAdapterConfig("/var/log/simpleweb.log", logs.LevelWarning, 14)
		So(err, ShouldBeNil)

		var got map[string]interface{}
		So(json.Unmarshal([]byte(s), &got), ShouldBeNil)
		So(got["filename"], ShouldEqual, "/var/log/simpleweb.log")
		So(got["level"], ShouldEqual, float64(logs.LevelWarning))
		So(got["daily"], ShouldEqual, true)
		So(got["maxdays"], ShouldEqual, float64(14))
		So(got["rotate"], ShouldEqual, true)
		So(got["perm"], ShouldEqual, "0640")

		Convey("Zero days turns rotation off", func() {
			s, err := fileAdapterConfig("x.log", logs.LevelDebug, 0)
			So(err, ShouldBeNil)

			var cfg fileLogConfig
			So(json.Unmarshal([]byte(s), &cfg), ShouldBeNil)
			So(cfg.Rotate, ShouldBeFalse)
			So(cfg.Level, ShouldEqual, logs.LevelDebug)
		})
	})

	Convey("Unknown levels are rejected before touching the logger", t, func() {
		So(setupLogger("chatty", "", 0), ShouldNotBeNil)
	})
}
