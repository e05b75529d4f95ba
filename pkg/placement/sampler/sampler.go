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

// Package sampler draws indices from a pool of free indices, either
// uniformly or censored by a locality kernel through rejection sampling.
package sampler

import (
	"context"
	"math"
	"time"

	"golang.org/x/time/rate"
	"k8s.io/klog/v2"

	"jobplacer.sh/jobplacer/pkg/placement/api"
	"jobplacer.sh/jobplacer/pkg/placement/kernel"
	"jobplacer.sh/jobplacer/pkg/placement/metrics"
)

const (
	// DefaultMaxRejections bounds the consecutive rejections of one draw.
	DefaultMaxRejections = 5000000

	// checkInterval is the number of draws between two cancellation checks.
	checkInterval = 1 << 16
)

// Rand is the random stream of one run. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// Sampler draws indices for one run. It is not safe for concurrent use.
type Sampler struct {
	rng           Rand
	registry      *kernel.Registry
	maxRejections int

	attempts   int64
	rejections int64

	progress rate.Sometimes
}

// New returns a sampler claiming accepted indices through registry. A
// non-positive maxRejections selects DefaultMaxRejections.
func New(rng Rand, registry *kernel.Registry, maxRejections int) *Sampler {
	if maxRejections <= 0 {
		maxRejections = DefaultMaxRejections
	}
	return &Sampler{
		rng:           rng,
		registry:      registry,
		maxRejections: maxRejections,
		progress:      rate.Sometimes{Interval: 5 * time.Second},
	}
}

// Attempts returns the number of draws made so far.
func (s *Sampler) Attempts() int64 {
	return s.attempts
}

// Rejections returns the number of rejected draws so far.
func (s *Sampler) Rejections() int64 {
	return s.rejections
}

// Next draws indices uniformly from pool and accepts each with the adjusted
// probability of k until one is accepted. The accepted index is removed from
// pool and claimed in every kernel of the registry.
func (s *Sampler) Next(ctx context.Context, pool *Pool, k *kernel.Kernel) (int, error) {
	rejected, accepted := 0, 0
	defer func() {
		metrics.UpdateSamplingAttempts(accepted, rejected)
	}()

	for {
		if pool.Len() == 0 {
			return -1, api.AccountingErrorf("pool exhausted while sampling %s", k)
		}

		elem := pool.Pick(s.rng)
		test := s.rng.Float64()
		current := k.AdjustedPMF(elem)
		s.attempts++

		if current < 0 || math.IsNaN(current) {
			return -1, api.AccountingErrorf("adjusted probability %v of index %d is invalid for %s", current, elem, k)
		}

		if test < current {
			pool.Remove(elem)
			s.registry.ClaimIndex(elem)
			accepted = 1
			return elem, nil
		}

		s.rejections++
		rejected++
		if rejected >= s.maxRejections {
			return -1, api.AccountingErrorf("no index accepted after %d consecutive rejections for %s with %d free indices",
				rejected, k, pool.Len())
		}

		if rejected%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return -1, err
			}
			s.progress.Do(func() {
				klog.V(4).InfoS("Sampling is still rejecting", "center", k.Center(), "fillSum", k.FillSum(),
					"rejections", rejected, "free", pool.Len())
			})
		}
	}
}

// Uniform removes and returns a uniformly chosen free index of pool. Kernels
// are not involved.
func (s *Sampler) Uniform(pool *Pool) (int, error) {
	if pool.Len() == 0 {
		return -1, api.AccountingErrorf("pool of %d indices exhausted", pool.Capacity())
	}
	elem := pool.Pick(s.rng)
	pool.Remove(elem)
	s.attempts++
	metrics.UpdateSamplingAttempts(1, 0)
	return elem, nil
}
