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

package framework

import (
	"fmt"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"jobplacer.sh/jobplacer/pkg/placement/api"
	"jobplacer.sh/jobplacer/pkg/placement/metrics"
	"jobplacer.sh/jobplacer/pkg/placement/sampler"
)

// Session holds the state of one placement run.
type Session struct {
	Topology   *api.Topology
	Tasks      []*api.Task
	Assignment *api.Assignment
	Rand       sampler.Rand
}

// OpenSession starts a run over an empty assignment.
func OpenSession(topology *api.Topology, tasks []*api.Task, rng sampler.Rand) *Session {
	return &Session{
		Topology:   topology,
		Tasks:      tasks,
		Assignment: api.NewAssignment(topology, len(tasks)),
		Rand:       rng,
	}
}

// Remaining returns how many cores task still needs.
func (ssn *Session) Remaining(task *api.Task) int {
	return task.Size - ssn.Assignment.Count(task.ID)
}

// ShuffledTasks returns the tasks in an order drawn from the run's stream.
func (ssn *Session) ShuffledTasks() []*api.Task {
	order := make([]*api.Task, len(ssn.Tasks))
	copy(order, ssn.Tasks)
	ssn.Rand.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}

// Claim gives the first count cores of a unit to task.
func (ssn *Session) Claim(task *api.Task, level api.Level, unit, count int) error {
	if count <= 0 || count > ssn.Topology.CoresPerUnit(level) {
		return api.AccountingErrorf("cannot claim %d cores of %s %d for %s", count, level, unit, task)
	}
	first, err := ssn.Topology.FirstCoreOfUnit(level, unit)
	if err != nil {
		return err
	}
	if err := ssn.Assignment.ClaimRange(first, count, task.ID); err != nil {
		return errors.Wrapf(err, "failed to claim %s %d for %s", level, unit, task)
	}

	klog.V(5).InfoS("Claimed unit", "task", task.ID, "level", level, "unit", unit, "cores", count)
	metrics.UpdateClaimedUnits(string(level), 1)
	metrics.UpdatePlacedCores(count)
	return nil
}

func (ssn Session) String() string {
	return fmt.Sprintf("Session: topology %s, %d tasks, %d free cores",
		ssn.Topology.Shape(), len(ssn.Tasks), ssn.Assignment.Free())
}
