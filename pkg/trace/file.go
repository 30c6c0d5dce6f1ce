package trace

import (
	"bufio"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// WriteFile stores arrivals as one integer millisecond timestamp per line,
// overwriting any previous content.
func WriteFile(path string, arrivals []int64) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "could not create trace file %q", path)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, arrival := range arrivals {
		if _, err := writer.WriteString(strconv.FormatInt(arrival, 10) + "\n"); err != nil {
			return errors.Wrapf(err, "could not write trace file %q", path)
		}
	}

	if err := writer.Flush(); err != nil {
		return errors.Wrapf(err, "could not flush trace file %q", path)
	}

	return nil
}

// ReadFile loads a trace file written by WriteFile. The round trip is exact
// since timestamps are stored as integers.
func ReadFile(path string) ([]int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open trace file %q", path)
	}
	defer file.Close()

	var arrivals []int64
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		arrival, err := strconv.ParseInt(scanner.Text(), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "malformed line %d in trace file %q", len(arrivals)+1, path)
		}
		arrivals = append(arrivals, arrival)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "could not read trace file %q", path)
	}

	return arrivals, nil
}
