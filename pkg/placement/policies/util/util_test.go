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

package util

import (
	"errors"
	"math/rand"
	"testing"

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

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel(framework.Arguments{}, api.LevelNode, api.LevelNode, api.LevelRouter)
	require.NoError(t, err)
	assert.Equal(t, api.LevelNode, level)

	level, err = ParseLevel(framework.Arguments{Level: "Router"}, api.LevelNode, api.LevelNode, api.LevelRouter)
	require.NoError(t, err)
	assert.Equal(t, api.LevelRouter, level)

	_, err = ParseLevel(framework.Arguments{Level: "group"}, api.LevelNode, api.LevelNode, api.LevelRouter)
	assert.True(t, errors.Is(err, api.ErrConfiguration))

	_, err = ParseLevel(framework.Arguments{Level: "rack"}, api.LevelNode, api.LevelNode)
	assert.True(t, errors.Is(err, api.ErrConfiguration))
}

func TestCheckCapacity(t *testing.T) {
	ssn := openSession(t, []int{9, 9})
	assert.NoError(t, CheckCapacity(ssn.Topology, ssn.Tasks, api.LevelNode))
	assert.Equal(t, 2, UnitsNeeded(ssn.Topology, api.LevelRouter, ssn.Tasks[0]))

	// two tasks cannot share a group
	err := CheckCapacity(ssn.Topology, api.NewTasks([]int{1, 1, 1}), api.LevelGroup)
	assert.True(t, errors.Is(err, api.ErrConfiguration))
}

func TestUnitsTakeAndFill(t *testing.T) {
	ssn := openSession(t, []int{6, 3})
	units := NewUnits(ssn.Topology, api.LevelNode)
	assert.Equal(t, 16, units.Count())

	require.NoError(t, units.Take(ssn, ssn.Tasks[0], 5))
	assert.True(t, units.Used(5))
	assert.Equal(t, 15, units.Free())
	assert.Equal(t, 2, ssn.Remaining(ssn.Tasks[0]))

	err := units.Take(ssn, ssn.Tasks[1], 5)
	assert.True(t, errors.Is(err, api.ErrAccountingInconsistency))
	err = units.Take(ssn, ssn.Tasks[1], 16)
	assert.True(t, errors.Is(err, api.ErrAddressingOutOfRange))

	assert.Equal(t, 4, units.NextFree(4))
	assert.Equal(t, 6, units.NextFree(5))
	assert.Equal(t, -1, units.NextFree(16))

	offered := []int{9, -1}
	next := func() int {
		unit := offered[0]
		offered = offered[1:]
		return unit
	}
	require.NoError(t, units.Fill(ssn, ssn.Tasks[0], next))
	assert.Equal(t, []int{20, 21, 22, 23, 36, 37}, ssn.Assignment.Cores(0))

	err = units.Take(ssn, ssn.Tasks[0], 0)
	assert.True(t, errors.Is(err, api.ErrAccountingInconsistency), "complete task")

	err = units.Fill(ssn, ssn.Tasks[1], next)
	assert.True(t, errors.Is(err, api.ErrAccountingInconsistency), "nothing left to offer")
}
