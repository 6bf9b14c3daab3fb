package metrics

import "time"

// ResultLabel enumerates outcome categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

// Recorder defines observability hooks for the tag planner and the host.
type Recorder interface {
	ObservePhaseDuration(phase string, d time.Duration)
	IncTagsPlanned(kind, bucket string, n int)
	IncAssetRegistration(result ResultLabel)
	IncExternalRegistered()
	IncDocumentSkipped()
	IncAttributeMismatch()
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObservePhaseDuration(string, time.Duration) {}
func (NoopRecorder) IncTagsPlanned(string, string, int)         {}
func (NoopRecorder) IncAssetRegistration(ResultLabel)           {}
func (NoopRecorder) IncExternalRegistered()                     {}
func (NoopRecorder) IncDocumentSkipped()                        {}
func (NoopRecorder) IncAttributeMismatch()                      {}
