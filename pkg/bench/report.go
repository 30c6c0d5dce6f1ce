package bench

import (
	"math"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	log "github.com/sirupsen/logrus"
)

// logLagSummary reports percentiles of scheduling lag: how far each observed
// span start drifted from its planned arrival offset. It only applies when the
// backend returned exactly one span per planned arrival; otherwise the pairing
// is ambiguous and the summary is skipped.
func (b *Benchmark) logLagSummary(arrivals []int64, offsets []float64) {
	if len(arrivals) != len(offsets) {
		log.Debugf("skipping lag summary: %d arrivals vs %d spans", len(arrivals), len(offsets))
		return
	}
	if len(arrivals) == 0 {
		return
	}

	// Lags can be negative relative to the rebased origin, so they are shifted
	// into the histogram's positive range and shifted back for reporting.
	lags := make([]int64, len(arrivals))
	minLag := int64(math.MaxInt64)
	for i := range arrivals {
		lagUs := int64(math.Round((offsets[i] - float64(arrivals[i])) * 1e3))
		lags[i] = lagUs
		if lagUs < minLag {
			minLag = lagUs
		}
	}

	histogram := hdrhistogram.New(1, int64(10*time.Minute/time.Microsecond), 3)
	for _, lagUs := range lags {
		if err := histogram.RecordValue(lagUs - minLag + 1); err != nil {
			log.Debugf("skipping lag summary: %v", err)
			return
		}
	}

	lagMs := func(quantile float64) float64 {
		return float64(histogram.ValueAtQuantile(quantile)-1+minLag) / 1e3
	}

	log.Infof("scheduling lag over %d spans: p50=%.1fms p90=%.1fms p99=%.1fms max=%.1fms",
		len(lags), lagMs(50), lagMs(90), lagMs(99), float64(histogram.Max()-1+minLag)/1e3)
}
