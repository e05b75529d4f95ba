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

package random

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobplacer.sh/jobplacer/pkg/placement/api"
	"jobplacer.sh/jobplacer/pkg/placement/framework"
)

func openSession(t *testing.T, sizes []int, seed int64) *framework.Session {
	topo, err := api.NewTopology(api.Shape{Groups: 4, Rows: 2, Columns: 4, NodesPerRouter: 2, CoresPerNode: 4})
	require.NoError(t, err)
	return framework.OpenSession(topo, api.NewTasks(sizes), rand.New(rand.NewSource(seed)))
}

func TestRandomPlacesWholeUnits(t *testing.T) {
	testCases := []struct {
		name  string
		args  framework.Arguments
		sizes []int
		unit  int
	}{
		{name: "nodes", args: framework.Arguments{}, sizes: []int{13, 40, 7}, unit: 4},
		{name: "routers", args: framework.Arguments{"level": "router"}, sizes: []int{17, 8, 100}, unit: 8},
		{name: "chassis", args: framework.Arguments{"level": "chassis"}, sizes: []int{33, 64}, unit: 32},
		{name: "groups", args: framework.Arguments{"level": "group"}, sizes: []int{64, 65, 1}, unit: 64},
		{name: "first fit only", args: framework.Arguments{AttemptFactor: 0}, sizes: []int{256}, unit: 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ssn := openSession(t, tc.sizes, 11)
			require.NoError(t, New(tc.args).Place(context.TODO(), ssn))
			require.NoError(t, ssn.Assignment.Validate(ssn.Tasks))

			owners := map[int]api.TaskID{}
			for _, task := range ssn.Tasks {
				for _, rank := range ssn.Assignment.Cores(task.ID) {
					unit := rank / tc.unit
					if owner, ok := owners[unit]; ok {
						require.Equal(t, owner, task.ID, "unit %d is shared", unit)
					}
					owners[unit] = task.ID
				}
			}
		})
	}
}

func TestRandomIsDeterministicBySeed(t *testing.T) {
	first := openSession(t, []int{20, 30, 10}, 5)
	second := openSession(t, []int{20, 30, 10}, 5)
	require.NoError(t, New(framework.Arguments{}).Place(context.TODO(), first))
	require.NoError(t, New(framework.Arguments{}).Place(context.TODO(), second))
	assert.Equal(t, first.Assignment.Slots(), second.Assignment.Slots())
}

func TestRandomErrors(t *testing.T) {
	err := New(framework.Arguments{AttemptFactor: -2}).Place(context.TODO(), openSession(t, []int{1}, 1))
	assert.True(t, errors.Is(err, api.ErrConfiguration))

	err = New(framework.Arguments{"level": "core"}).Place(context.TODO(), openSession(t, []int{1}, 1))
	assert.True(t, errors.Is(err, api.ErrConfiguration))

	err = New(framework.Arguments{"level": "group"}).Place(context.TODO(), openSession(t, []int{1, 1, 1, 1, 1}, 1))
	assert.True(t, errors.Is(err, api.ErrConfiguration))
}

func TestRandomWithoutFirstFit(t *testing.T) {
	testCases := []struct {
		name        string
		args        framework.Arguments
		expectError bool
	}{
		{name: "no draws and no first fit", args: framework.Arguments{AttemptFactor: 0, FirstFit: false}, expectError: true},
		{name: "first fit off as a string", args: framework.Arguments{AttemptFactor: "0", FirstFit: "false"}, expectError: true},
		{name: "first fit by default", args: framework.Arguments{AttemptFactor: 0}},
		{name: "unparsable value keeps first fit", args: framework.Arguments{AttemptFactor: 0, FirstFit: "sometimes"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ssn := openSession(t, []int{12}, 3)
			err := New(tc.args).Place(context.TODO(), ssn)
			if !tc.expectError {
				require.NoError(t, err)
				assert.Len(t, ssn.Assignment.Cores(0), 12)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, api.ErrAccountingInconsistency))
			assert.Contains(t, err.Error(), FirstFit)
			assert.Equal(t, 256, ssn.Assignment.Free())
		})
	}
}
