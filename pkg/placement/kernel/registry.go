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

package kernel

import (
	"math"

	"k8s.io/klog/v2"
)

// DefaultRecomputeInterval is the number of claims between two exact
// recomputations of every kernel's consumed mass.
const DefaultRecomputeInterval = 1024

// Registry owns every kernel of one run. Claiming an index through the
// registry consumes its mass in all kernels, which makes tasks repel each
// other once an area fills up.
type Registry struct {
	kernels []*Kernel
	claimed []int

	recomputeInterval int
	sinceRecompute    int
}

// NewRegistry returns an empty registry. A non-positive interval disables
// the periodic recomputation.
func NewRegistry(recomputeInterval int) *Registry {
	return &Registry{recomputeInterval: recomputeInterval}
}

// Register adds a kernel. Indices claimed before registration are not
// replayed.
func (r *Registry) Register(k *Kernel) {
	r.kernels = append(r.kernels, k)
}

// Kernels returns the registered kernels in registration order.
func (r *Registry) Kernels() []*Kernel {
	return r.kernels
}

// Claimed returns how many indices have been claimed.
func (r *Registry) Claimed() int {
	return len(r.claimed)
}

// ClaimIndex fills slot i in every registered kernel.
func (r *Registry) ClaimIndex(i int) {
	r.claimed = append(r.claimed, i)
	for _, k := range r.kernels {
		k.FillSlot(i)
	}

	r.sinceRecompute++
	if r.recomputeInterval > 0 && r.sinceRecompute >= r.recomputeInterval {
		r.Recompute()
	}
}

// Recompute replaces every kernel's incrementally accumulated mass with a
// compensated sum over the claimed indices.
func (r *Registry) Recompute() {
	r.sinceRecompute = 0
	for _, k := range r.kernels {
		sum, c := 0.0, 0.0
		for _, i := range r.claimed {
			sum, c = neumaierAdd(sum, c, k.PMF(i))
		}
		exact := sum + c
		klog.V(6).InfoS("Recomputed kernel fill sum", "center", k.Center(), "incremental", k.FillSum(), "exact", exact)
		k.resetFillSum(exact)
	}
}

func neumaierAdd(sum, c, v float64) (float64, float64) {
	t := sum + v
	if math.Abs(sum) >= math.Abs(v) {
		c += (sum - t) + v
	} else {
		c += (v - t) + sum
	}
	return t, c
}
