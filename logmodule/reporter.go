package logmodule

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"
)

type logReporter struct {
	logger *log.Entry
}

// NewStatsReporter returns a tally reporter that writes every reported
// metric as a debug line
func NewStatsReporter(name string) tally.StatsReporter {
	return &logReporter{logger: log.WithField("prefix", name)}
}

func (r *logReporter) entry(name string, tags map[string]string) *log.Entry {
	fields := log.Fields{"metric": name}
	for k, v := range tags {
		fields["tag."+k] = v
	}
	return r.logger.WithFields(fields)
}

func (r *logReporter) ReportCounter(name string, tags map[string]string, value int64) {
	r.entry(name, tags).Debugf("counter %d", value)
}

func (r *logReporter) ReportGauge(name string, tags map[string]string, value float64) {
	r.entry(name, tags).Debugf("gauge %f", value)
}

func (r *logReporter) ReportTimer(name string, tags map[string]string, interval time.Duration) {
	r.entry(name, tags).Debugf("timer %s", interval)
}

func (r *logReporter) ReportHistogramValueSamples(
	name string,
	tags map[string]string,
	buckets tally.Buckets,
	bucketLowerBound,
	bucketUpperBound float64,
	samples int64,
) {
	r.entry(name, tags).Debugf("histogram [%f, %f) %d", bucketLowerBound, bucketUpperBound, samples)
}

func (r *logReporter) ReportHistogramDurationSamples(
	name string,
	tags map[string]string,
	buckets tally.Buckets,
	bucketLowerBound,
	bucketUpperBound time.Duration,
	samples int64,
) {
	r.entry(name, tags).Debugf("histogram [%s, %s) %d", bucketLowerBound, bucketUpperBound, samples)
}

func (r *logReporter) Capabilities() tally.Capabilities {
	return r
}

func (r *logReporter) Reporting() bool {
	return true
}

func (r *logReporter) Tagging() bool {
	return true
}

func (r *logReporter) Flush() {}
