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

package compact

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobplacer.sh/jobplacer/pkg/placement/api"
	"jobplacer.sh/jobplacer/pkg/placement/framework"
)

func openSession(t *testing.T, sizes []int) *framework.Session {
	topo, err := api.NewTopology(api.Shape{Groups: 2, Rows: 2, Columns: 2, NodesPerRouter: 2, CoresPerNode: 4})
	require.NoError(t, err)
	return framework.OpenSession(topo, api.NewTasks(sizes), rand.New(rand.NewSource(1)))
}

func ranks(from, to int) []int {
	out := []int{}
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}

func TestCompact(t *testing.T) {
	testCases := []struct {
		name     string
		args     framework.Arguments
		sizes    []int
		expected [][]int
	}{
		{
			name:     "nodes in rank order",
			args:     framework.Arguments{},
			sizes:    []int{6, 4, 1},
			expected: [][]int{ranks(0, 6), ranks(8, 12), ranks(12, 13)},
		},
		{
			name:     "cores pack tightly",
			args:     framework.Arguments{"level": "core"},
			sizes:    []int{6, 4, 1},
			expected: [][]int{ranks(0, 6), ranks(6, 10), ranks(10, 11)},
		},
		{
			name:     "whole groups",
			args:     framework.Arguments{"level": "group"},
			sizes:    []int{10, 32},
			expected: [][]int{ranks(0, 10), ranks(32, 64)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ssn := openSession(t, tc.sizes)
			require.NoError(t, New(tc.args).Place(context.TODO(), ssn))
			require.NoError(t, ssn.Assignment.Validate(ssn.Tasks))

			got := [][]int{}
			for _, task := range ssn.Tasks {
				got = append(got, ssn.Assignment.Cores(task.ID))
			}
			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("unexpected placement (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompactErrors(t *testing.T) {
	ssn := openSession(t, []int{33, 33})
	err := New(framework.Arguments{"level": "group"}).Place(context.TODO(), ssn)
	assert.True(t, errors.Is(err, api.ErrConfiguration))

	err = New(framework.Arguments{"level": "cabinet"}).Place(context.TODO(), openSession(t, []int{1}))
	assert.True(t, errors.Is(err, api.ErrConfiguration))
	assert.Equal(t, PolicyName, New(nil).Name())
}
