package bench

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	Convey("While normalizing span start times", t, func() {
		Convey("Unsorted microsecond start times should be rebased, sorted and converted to ms", func() {
			offsets, err := Normalize([]int64{1005000, 1000000, 1002500})
			So(err, ShouldBeNil)
			So(offsets, ShouldResemble, []float64{0.0, 2.5, 5.0})
		})

		Convey("The first element should always be exactly zero", func() {
			offsets, err := Normalize([]int64{1700000000123456, 1700000000123456, 1700000000999999})
			So(err, ShouldBeNil)
			So(offsets[0], ShouldEqual, 0.0)

			for i := 1; i < len(offsets); i++ {
				So(offsets[i], ShouldBeGreaterThanOrEqualTo, offsets[i-1])
			}
		})

		Convey("A single span should normalize to a single zero", func() {
			offsets, err := Normalize([]int64{42})
			So(err, ShouldBeNil)
			So(offsets, ShouldResemble, []float64{0.0})
		})

		Convey("The input slice should not be mutated", func() {
			input := []int64{30, 10, 20}
			_, err := Normalize(input)
			So(err, ShouldBeNil)
			So(input, ShouldResemble, []int64{30, 10, 20})
		})

		Convey("An empty result set should be rejected, never silently written", func() {
			_, err := Normalize(nil)
			So(err, ShouldEqual, ErrEmptyResultSet)
		})
	})
}

func TestWriteLatencyFile(t *testing.T) {
	Convey("While writing the normalized trace file", t, func() {
		path := filepath.Join(t.TempDir(), "trace_jaeger.txt")

		Convey("Values should be written with one fractional digit, one per line", func() {
			So(WriteLatencyFile(path, []float64{0.0, 2.5, 5.0}), ShouldBeNil)

			content, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, "0.0\n2.5\n5.0\n")
		})

		Convey("Writing should overwrite previous content", func() {
			So(WriteLatencyFile(path, []float64{0.0, 1.0, 2.0}), ShouldBeNil)
			So(WriteLatencyFile(path, []float64{0.0}), ShouldBeNil)

			content, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, "0.0\n")
		})
	})
}
