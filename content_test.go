package main

import (
	"bytes"
	"errors"
	"image"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestWriteContent(t *testing.T) {
	Convey("Given a served root", t, func() {
		root := t.TempDir()
		resolve := func(uri string) *Target {
			return ResolveTarget(root, &Request{URI: uri, Found: true})
		}
		out := new(bytes.Buffer)

		Convey("Nothing is written without a target", func() {
			n, err := WriteContent(out, nil, ContentOptions{})
			So(err, ShouldBeNil)
			So(n, ShouldBeZeroValue)
			So(out.Len(), ShouldEqual, 0)
		})

		Convey("Nothing is written for a missing file", func() {
			n, err := WriteContent(out, resolve("missing.html"), ContentOptions{})
			So(err, ShouldBeNil)
			So(n, ShouldBeZeroValue)
		})

		Convey("A file created after resolving is not served", func() {
			target := resolve("late.html")
			writeFile(t, filepath.Join(root, "late.html"), "too late")
			So(statusFor(target), ShouldEqual, StatusNotFound)

			n, err := WriteContent(out, target, ContentOptions{})
			So(err, ShouldBeNil)
			So(n, ShouldBeZeroValue)
			So(out.Len(), ShouldEqual, 0)
		})

		Convey("Html lines are joined without terminators", func() {
			writeFile(t, filepath.Join(root, "a.html"), "one\ntwo\r\nthree")
			n, err := WriteContent(out, resolve("a.html"), ContentOptions{})
			So(err, ShouldBeNil)
			So(out.String(), ShouldEqual, "onetwothree")
			So(n, ShouldEqual, int64(len("onetwothree")))
		})

		Convey("Html lines can keep a newline each", func() {
			writeFile(t, filepath.Join(root, "a.html"), "one\ntwo\r\nthree")
			_, err := WriteContent(out, resolve("a.html"), ContentOptions{KeepLineEndings: true})
			So(err, ShouldBeNil)
			So(out.String(), ShouldEqual, "one\ntwo\nthree\n")
		})

		Convey("An empty html file has no body", func() {
			writeFile(t, filepath.Join(root, "empty.html"), "")
			_, err := WriteContent(out, resolve("empty.html"), ContentOptions{})
			So(err, ShouldBeNil)
			So(out.Len(), ShouldEqual, 0)
		})

		Convey("Unlisted extensions are skipped", func() {
			writeFile(t, filepath.Join(root, "notes.txt"), "plain")
			_, err := WriteContent(out, resolve("notes.txt"), ContentOptions{})
			So(err, ShouldBeNil)
			So(out.Len(), ShouldEqual, 0)
		})

		Convey("Images are re-encoded in their own format", func() {
			writeImage(t, filepath.Join(root, "p.png"), "png", 5, 9)
			n, err := WriteContent(out, resolve("p.png"), ContentOptions{})
			So(err, ShouldBeNil)
			So(n, ShouldEqual, int64(out.Len()))

			cfg, format, err := image.DecodeConfig(out)
			So(err, ShouldBeNil)
			So(format, ShouldEqual, "png")
			So(cfg.Width, ShouldEqual, 5)
			So(cfg.Height, ShouldEqual, 9)
		})

		Convey("A png served under a gif name comes out as a gif", func() {
			writeImage(t, filepath.Join(root, "p.gif"), "png", 4, 4)
			_, err := WriteContent(out, resolve("p.gif"), ContentOptions{})
			So(err, ShouldBeNil)

			_, format, err := image.DecodeConfig(out)
			So(err, ShouldBeNil)
			So(format, ShouldEqual, "gif")
		})

		Convey("Undecodable images report ErrImageDecode and write nothing", func() {
			writeFile(t, filepath.Join(root, "bad.jpeg"), "garbage")
			n, err := WriteContent(out, resolve("bad.jpeg"), ContentOptions{})
			So(errors.Is(err, ErrImageDecode), ShouldBeTrue)
			So(n, ShouldBeZeroValue)
			So(out.Len(), ShouldEqual, 0)
		})

		Convey("Write failures report ErrWrite", func() {
			writeFile(t, filepath.Join(root, "a.html"), "hello")
			_, err := WriteContent(failingWriter{}, resolve("a.html"), ContentOptions{})
			So(errors.Is(err, ErrWrite), ShouldBeTrue)
		})
	})
}
