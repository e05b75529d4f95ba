/*
Copyright 2026 The Jobplacer Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto" // auto-registry collectors in default registry
)

const (
	// JobplacerSubsystem - subsystem in prometheus used by jobplacer
	JobplacerSubsystem = "jobplacer"

	// Accepted label
	Accepted = "accepted"
	// Rejected label
	Rejected = "rejected"

	// Success label
	Success = "success"
	// Failure label
	Failure = "failure"
)

var (
	samplingAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: JobplacerSubsystem,
			Name:      "sampling_attempts_total",
			Help:      "Number of rejection sampling draws, by the result",
		}, []string{"result"},
	)
	acceptedAttempts = samplingAttempts.WithLabelValues(Accepted)
	rejectedAttempts = samplingAttempts.WithLabelValues(Rejected)

	claimedUnits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: JobplacerSubsystem,
			Name:      "claimed_units_total",
			Help:      "Number of topology units handed to tasks, by level",
		}, []string{"level"},
	)

	placedCores = promauto.NewCounter(
		prometheus.CounterOpts{
			Subsystem: JobplacerSubsystem,
			Name:      "placed_cores_total",
			Help:      "Number of cores assigned to tasks",
		},
	)

	placementRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: JobplacerSubsystem,
			Name:      "placement_runs_total",
			Help:      "Number of placement runs, by policy and result",
		}, []string{"policy", "result"},
	)

	placementLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Subsystem: JobplacerSubsystem,
			Name:      "placement_latency_milliseconds",
			Help:      "Placement latency in milliseconds, policy only",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 16),
		}, []string{"policy"},
	)

	taskCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Subsystem: JobplacerSubsystem,
			Name:      "tasks",
			Help:      "Number of tasks in the last placement run",
		},
	)
)

// UpdateSamplingAttempts records draws of the rejection sampler.
func UpdateSamplingAttempts(accepted, rejected int) {
	acceptedAttempts.Add(float64(accepted))
	rejectedAttempts.Add(float64(rejected))
}

// UpdateClaimedUnits adds count claimed units at level.
func UpdateClaimedUnits(level string, count int) {
	claimedUnits.WithLabelValues(level).Add(float64(count))
}

// UpdatePlacedCores adds count assigned cores.
func UpdatePlacedCores(count int) {
	placedCores.Add(float64(count))
}

// UpdatePlacementDuration records a finished run of policy.
func UpdatePlacementDuration(policy string, duration time.Duration) {
	placementLatency.WithLabelValues(policy).Observe(DurationInMilliseconds(duration))
}

// RegisterPlacementResult counts a run by its result, could be Success or Failure
func RegisterPlacementResult(policy, result string) {
	placementRuns.WithLabelValues(policy, result).Inc()
}

// UpdateTaskCount sets the task count of the current run.
func UpdateTaskCount(count int) {
	taskCount.Set(float64(count))
}

// DurationInMilliseconds gets the time in milliseconds.
func DurationInMilliseconds(duration time.Duration) float64 {
	return float64(duration.Nanoseconds()) / float64(time.Millisecond.Nanoseconds())
}

// Duration get the time since specified start
func Duration(start time.Time) time.Duration {
	return time.Since(start)
}
