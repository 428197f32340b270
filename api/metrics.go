package api

import (
	"github.com/uber-go/tally"
)

const (
	metricRequestsCreated    = "requests.created"
	metricRequestsListed     = "requests.listed"
	metricStatusUpdated      = "requests.status_updated"
	metricStatusUpdateMissed = "requests.status_update_missed"
	metricUploadsSaved       = "uploads.saved"
	metricUploadsDiscarded   = "uploads.discarded"
	metricStorageErrors      = "storage.errors"
)

func (s *Server) counter(name string) tally.Counter {
	if s.metrics == nil {
		return tally.NoopScope.Counter(name)
	}
	return s.metrics.Counter(name)
}
