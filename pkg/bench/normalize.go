package bench

import (
	"bufio"
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"
)

// ErrEmptyResultSet is returned when the tracing backend holds no matching
// spans for the run. A baseline cannot be computed from nothing; this usually
// means the settle time was too short or the service/operation filter is wrong.
var ErrEmptyResultSet = errors.New("tracing backend returned no matching spans")

// Normalize rebases microsecond span start times to the earliest one and
// converts them to milliseconds. The result is sorted ascending and its first
// element is exactly 0.0.
func Normalize(startTimes []int64) ([]float64, error) {
	if len(startTimes) == 0 {
		return nil, ErrEmptyResultSet
	}

	sorted := make([]int64, len(startTimes))
	copy(sorted, startTimes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	base := sorted[0]
	offsets := make([]float64, len(sorted))
	for i, startTime := range sorted {
		offsets[i] = float64(startTime-base) / 1e3
	}

	return offsets, nil
}

// WriteLatencyFile stores normalized offsets as one decimal millisecond value
// per line with one fractional digit, overwriting any previous content.
func WriteLatencyFile(path string, offsets []float64) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "could not create output file %q", path)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, offset := range offsets {
		if _, err := fmt.Fprintf(writer, "%.1f\n", offset); err != nil {
			return errors.Wrapf(err, "could not write output file %q", path)
		}
	}

	if err := writer.Flush(); err != nil {
		return errors.Wrapf(err, "could not flush output file %q", path)
	}

	return nil
}
