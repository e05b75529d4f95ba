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

// Package kernel implements the locality kernels: discrete probability mass
// functions over a 1-D index space, anchored at a center, whose remaining
// mass is renormalised as indices get claimed by any task of the run.
package kernel

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"

	"jobplacer.sh/jobplacer/pkg/placement/api"
)

// Variant selects the shape of a kernel.
type Variant string

const (
	// Binomial is a bell curve over a ring, centered on the anchor.
	Binomial Variant = "Binomial"
	// Geometric is two one-sided geometric decays meeting at the anchor.
	Geometric Variant = "Geometric"
)

// SaturationEpsilon is the remaining mass under which every index is
// accepted outright.
const SaturationEpsilon = 1e-8

// ParseVariant converts a case-insensitive variant name.
func ParseVariant(name string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "binomial":
		return Binomial, nil
	case "geometric":
		return Geometric, nil
	default:
		return "", api.ConfigurationErrorf("unknown distribution %q, must be %s or %s", name, Binomial, Geometric)
	}
}

// Kernel is one task's locality kernel. It is immutable except for the mass
// already consumed by claimed indices.
type Kernel struct {
	variant Variant
	size    int
	center  int
	p       float64

	binomial distuv.Binomial

	// mass is the centered PMF summed over [0,size). Neither shape holds
	// exactly one there: the ring misses one binomial endpoint and the
	// geometric tails are cut at the edges.
	mass float64

	// fillSum is the PMF mass of every index claimed so far, by any task.
	fillSum float64
}

// New returns a kernel over [0,size) anchored at center.
func New(variant Variant, size, center int, p float64) (*Kernel, error) {
	if variant != Binomial && variant != Geometric {
		return nil, api.ConfigurationErrorf("unknown distribution %q", variant)
	}
	if size <= 0 {
		return nil, api.ConfigurationErrorf("kernel size must be positive, got %d", size)
	}
	if center < 0 || center >= size {
		return nil, api.ConfigurationErrorf("kernel center %d not in [0,%d)", center, size)
	}
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		return nil, api.ConfigurationErrorf("distribution parameter p must be in (0,1), got %v", p)
	}

	k := &Kernel{
		variant:  variant,
		size:     size,
		center:   center,
		p:        p,
		binomial: distuv.Binomial{N: float64(size), P: p},
	}
	for i := 0; i < size; i++ {
		k.mass += k.CenteredPMF(k.Shift(i))
	}
	if k.mass <= 0 || math.IsInf(k.mass, 0) || math.IsNaN(k.mass) {
		return nil, api.ConfigurationErrorf("%s kernel over %d indices with p=%v has no usable mass", variant, size, p)
	}
	return k, nil
}

// Variant returns the kernel shape.
func (k *Kernel) Variant() Variant { return k.variant }

// Size returns the extent of the index space.
func (k *Kernel) Size() int { return k.size }

// Center returns the anchor index.
func (k *Kernel) Center() int { return k.center }

// P returns the concentration parameter.
func (k *Kernel) P() float64 { return k.p }

// FillSum returns the mass consumed by claimed indices.
func (k *Kernel) FillSum() float64 { return k.fillSum }

func (k *Kernel) String() string {
	return fmt.Sprintf("%s(size=%d, center=%d, p=%g, fill=%g)", k.variant, k.size, k.center, k.p, k.fillSum)
}

// Shift maps an index to the coordinate the centered PMF is evaluated at.
func (k *Kernel) Shift(i int) int {
	switch k.variant {
	case Binomial:
		half := k.size / 2
		if abs(k.center-i) > half {
			if i < k.center {
				i += k.size
			} else {
				i -= k.size
			}
		}
		return half - (k.center - i)
	case Geometric:
		return abs(i - k.center)
	default:
		panic(fmt.Sprintf("unknown distribution %q", k.variant))
	}
}

// CenteredPMF evaluates the kernel shape at a shifted coordinate, before it
// is normalised over the index space.
func (k *Kernel) CenteredPMF(x int) float64 {
	switch k.variant {
	case Binomial:
		return k.binomial.Prob(float64(x))
	case Geometric:
		// two geometrics attached at the center hold 2-p of mass
		return math.Pow(1-k.p, float64(x)) * k.p / (2 - k.p)
	default:
		panic(fmt.Sprintf("unknown distribution %q", k.variant))
	}
}

// PMF returns the mass of index i. The masses of [0,size) sum to one.
func (k *Kernel) PMF(i int) float64 {
	return k.CenteredPMF(k.Shift(i)) / k.mass
}

// AdjustedPMF returns the mass of index i renormalised over the mass that is
// still unclaimed. Once the remaining mass is numerically exhausted every
// index is accepted.
func (k *Kernel) AdjustedPMF(i int) float64 {
	remaining := 1 - k.fillSum
	if remaining < SaturationEpsilon {
		return 1
	}
	return k.PMF(i) / remaining
}

// FillSlot records that index i has been claimed.
func (k *Kernel) FillSlot(i int) {
	k.fillSum += k.PMF(i)
}

func (k *Kernel) resetFillSum(sum float64) {
	k.fillSum = sum
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
