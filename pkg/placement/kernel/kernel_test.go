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
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobplacer.sh/jobplacer/pkg/placement/api"
)

func mustKernel(t *testing.T, v Variant, size, center int, p float64) *Kernel {
	k, err := New(v, size, center, p)
	require.NoError(t, err)
	return k
}

func totalMass(k *Kernel) float64 {
	sum := 0.0
	for i := 0; i < k.Size(); i++ {
		sum += k.PMF(i)
	}
	return sum
}

func TestPMFSumsToOne(t *testing.T) {
	for _, variant := range []Variant{Binomial, Geometric} {
		for _, size := range []int{1, 2, 7, 16, 64, 1440} {
			for _, center := range []int{0, size / 2, size / 3, size - 1} {
				for _, p := range []float64{0.1, 0.5, 0.9} {
					k := mustKernel(t, variant, size, center, p)
					assert.InDelta(t, 1.0, totalMass(k), 1e-6, "%s", k)
					for i := 0; i < size; i++ {
						assert.GreaterOrEqual(t, k.PMF(i), 0.0, "%s index %d", k, i)
					}
				}
			}
		}
	}
}

func TestGeometricDoesNotWrap(t *testing.T) {
	k := mustKernel(t, Geometric, 64, 0, 0.5)
	assert.Equal(t, 63, k.Shift(63))
	assert.Greater(t, k.PMF(1), k.PMF(63))
	for i := 1; i < k.Size(); i++ {
		assert.InDelta(t, 0.5, k.PMF(i)/k.PMF(i-1), 1e-9, "index %d", i)
	}
	// the tail cut at the edges is given back to the indices that exist
	assert.InDelta(t, 1.0, totalMass(k), 1e-9)
	assert.InDelta(t, 0.5/(1-math.Pow(0.5, 64)), k.PMF(0), 1e-12)
}

func TestBinomialRingIsNormalised(t *testing.T) {
	// a four index ring centered at 0 sees coordinates 1..4, the mass of 0
	// is (1-p)^4
	k := mustKernel(t, Binomial, 4, 0, 0.1)
	raw := 0.0
	for i := 0; i < k.Size(); i++ {
		raw += k.CenteredPMF(k.Shift(i))
	}
	assert.InDelta(t, 1-math.Pow(0.9, 4), raw, 1e-12)
	assert.InDelta(t, 1.0, totalMass(k), 1e-12)
}

func TestShift(t *testing.T) {
	b := mustKernel(t, Binomial, 8, 0, 0.5)
	testCases := []struct {
		i        int
		expected int
	}{
		{0, 4},
		{1, 5},
		{3, 7},
		{4, 8},
		{5, 1},
		{7, 3},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, b.Shift(tc.i), "binomial shift of %d", tc.i)
	}

	g := mustKernel(t, Geometric, 8, 5, 0.5)
	assert.Equal(t, 5, g.Shift(0))
	assert.Equal(t, 0, g.Shift(5))
	assert.Equal(t, 2, g.Shift(7))
}

func TestBinomialPeaksAtCenter(t *testing.T) {
	k := mustKernel(t, Binomial, 100, 10, 0.5)
	peak := k.PMF(10)
	for i := 0; i < k.Size(); i++ {
		assert.LessOrEqual(t, k.PMF(i), peak+1e-15, "index %d", i)
	}
	// ring distance, not linear distance
	assert.InDelta(t, k.PMF(5), k.PMF(15), 1e-12)
	assert.InDelta(t, k.PMF(95), k.PMF(25), 1e-12)
}

func TestCenteredPMFValues(t *testing.T) {
	b := mustKernel(t, Binomial, 4, 0, 0.5)
	assert.InDelta(t, 6.0/16.0, b.CenteredPMF(2), 1e-12)
	assert.InDelta(t, 1.0/16.0, b.CenteredPMF(4), 1e-12)
	assert.Equal(t, 0.0, b.CenteredPMF(5))

	g := mustKernel(t, Geometric, 4, 0, 0.5)
	assert.InDelta(t, 0.5/1.5, g.CenteredPMF(0), 1e-12)
	assert.InDelta(t, 0.25*0.5/1.5, g.CenteredPMF(2), 1e-12)
}

func TestAdjustedPMF(t *testing.T) {
	k := mustKernel(t, Geometric, 64, 32, 0.5)
	assert.InDelta(t, k.PMF(30), k.AdjustedPMF(30), 1e-15)

	k.FillSlot(32)
	assert.InDelta(t, k.PMF(32), k.FillSum(), 1e-15)
	assert.InDelta(t, k.PMF(31)/(1-k.PMF(32)), k.AdjustedPMF(31), 1e-15)

	for i := 0; i < k.Size(); i++ {
		assert.GreaterOrEqual(t, k.AdjustedPMF(i), 0.0)
	}

	k.resetFillSum(1 - SaturationEpsilon/2)
	for i := 0; i < k.Size(); i++ {
		assert.Equal(t, 1.0, k.AdjustedPMF(i))
	}

	k.resetFillSum(1 + 1e-3)
	assert.Equal(t, 1.0, k.AdjustedPMF(0), "drift past one must not produce negative mass")
}

func TestAdjustedPMFSaturatesWhenEverythingIsClaimed(t *testing.T) {
	r := NewRegistry(0)
	k := mustKernel(t, Binomial, 64, 20, 0.5)
	r.Register(k)
	for i := 0; i < k.Size(); i++ {
		if i == 7 {
			continue
		}
		r.ClaimIndex(i)
		assert.GreaterOrEqual(t, k.AdjustedPMF(7), 0.0)
	}
	// the last free index carries all remaining mass
	assert.InDelta(t, 1.0, k.AdjustedPMF(7), 1e-6)

	r.ClaimIndex(7)
	assert.Equal(t, 1.0, k.AdjustedPMF(7))
}

func TestAdjustedPMFSaturatesAtEveryCenter(t *testing.T) {
	for _, variant := range []Variant{Binomial, Geometric} {
		for _, center := range []int{0, 1, 31, 63} {
			for _, p := range []float64{0.1, 0.5, 0.9} {
				r := NewRegistry(DefaultRecomputeInterval)
				k := mustKernel(t, variant, 64, center, p)
				r.Register(k)

				// claim everything near the center first, leaving the far end
				last := 63
				if center > 31 {
					last = 0
				}
				for i := 0; i < k.Size(); i++ {
					if i != last {
						r.ClaimIndex(i)
					}
				}
				adjusted := k.AdjustedPMF(last)
				assert.True(t, adjusted == 1.0 || math.Abs(adjusted-1) < 1e-6,
					"%s: last free index has adjusted mass %v", k, adjusted)
			}
		}
	}
}

func TestNewRejectsInvalidParameters(t *testing.T) {
	testCases := []struct {
		name    string
		variant Variant
		size    int
		center  int
		p       float64
	}{
		{"unknown variant", Variant("Poisson"), 8, 0, 0.5},
		{"empty space", Binomial, 0, 0, 0.5},
		{"center past end", Binomial, 8, 8, 0.5},
		{"negative center", Geometric, 8, -1, 0.5},
		{"p zero", Geometric, 8, 0, 0},
		{"p one", Binomial, 8, 0, 1},
		{"p nan", Binomial, 8, 0, math.NaN()},
	}
	for _, tc := range testCases {
		_, err := New(tc.variant, tc.size, tc.center, tc.p)
		require.Error(t, err, tc.name)
		assert.True(t, errors.Is(err, api.ErrConfiguration), tc.name)
	}
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("binomial")
	require.NoError(t, err)
	assert.Equal(t, Binomial, v)
	v, err = ParseVariant(" Geometric")
	require.NoError(t, err)
	assert.Equal(t, Geometric, v)
	_, err = ParseVariant("uniform")
	assert.True(t, errors.Is(err, api.ErrConfiguration))
}
