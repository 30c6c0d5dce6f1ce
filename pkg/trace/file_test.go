package trace

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTraceFile(t *testing.T) {
	Convey("While writing and reading trace files", t, func() {
		path := filepath.Join(t.TempDir(), "trace.txt")

		Convey("A written trace should be read back exactly", func() {
			arrivals, err := Generate(Config{Kind: KindUniform, Duration: time.Second, Rate: 100, Seed: 3})
			So(err, ShouldBeNil)

			So(WriteFile(path, arrivals), ShouldBeNil)

			read, err := ReadFile(path)
			So(err, ShouldBeNil)
			So(read, ShouldResemble, arrivals)
		})

		Convey("Writing should overwrite previous content", func() {
			So(WriteFile(path, []int64{0, 10, 20, 30}), ShouldBeNil)
			So(WriteFile(path, []int64{0, 5}), ShouldBeNil)

			read, err := ReadFile(path)
			So(err, ShouldBeNil)
			So(read, ShouldResemble, []int64{0, 5})
		})

		Convey("The file should hold one integer per line with no blank lines", func() {
			So(WriteFile(path, []int64{0, 10, 20}), ShouldBeNil)

			content, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, "0\n10\n20\n")
		})

		Convey("Reading a missing file should surface the error", func() {
			_, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt"))
			So(err, ShouldNotBeNil)
		})

		Convey("Reading a malformed file should surface the offending line", func() {
			So(os.WriteFile(path, []byte("0\nbogus\n20\n"), 0644), ShouldBeNil)

			_, err := ReadFile(path)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "line 2")
		})
	})
}
