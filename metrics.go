package bikeshare

import (
	"errors"
	"github.com/prometheus/client_golang/prometheus"
	"slices"
	"strings"
	"time"
)

const queryDurationMetric = "bikeshare_query_duration_seconds"

// NewMetricsObserver registers a query duration histogram on reg and returns
// an Observer feeding it, labelled by operation and outcome.
func NewMetricsObserver(reg prometheus.Registerer) (Observer, error) {
	hist := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bikeshare",
		Name:      "query_duration_seconds",
		Help:      "Time taken to answer a session query.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"op", "outcome"})
	if err := reg.Register(hist); err != nil {
		return nil, err
	}
	return func(op string, elapsed time.Duration, err error) {
		hist.WithLabelValues(op, outcome(err)).Observe(elapsed.Seconds())
	}, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrEmptyView):
		return "empty"
	default:
		return "error"
	}
}

// QueryTiming summarizes the recorded queries of one operation and outcome.
type QueryTiming struct {
	Op      string
	Outcome string
	Count   uint64
	Total   time.Duration
}

// QueryTimings reads back what NewMetricsObserver recorded, sorted by
// operation then outcome.
func QueryTimings(g prometheus.Gatherer) ([]QueryTiming, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}
	var out []QueryTiming
	for _, family := range families {
		if family.GetName() != queryDurationMetric {
			continue
		}
		for _, metric := range family.GetMetric() {
			timing := QueryTiming{
				Count: metric.GetHistogram().GetSampleCount(),
				Total: time.Duration(metric.GetHistogram().GetSampleSum() * float64(time.Second)),
			}
			for _, label := range metric.GetLabel() {
				switch label.GetName() {
				case "op":
					timing.Op = label.GetValue()
				case "outcome":
					timing.Outcome = label.GetValue()
				}
			}
			out = append(out, timing)
		}
	}
	slices.SortFunc(out, func(a, b QueryTiming) int {
		if c := strings.Compare(a.Op, b.Op); c != 0 {
			return c
		}
		return strings.Compare(a.Outcome, b.Outcome)
	})
	return out, nil
}
