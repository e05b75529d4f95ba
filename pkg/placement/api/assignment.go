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

package api

// Assignment maps every core rank to the task owning it. Slots hold the task
// id plus one so that zero means free.
type Assignment struct {
	topology *Topology
	slots    []int32
	counts   []int
}

// NewAssignment returns an empty assignment for taskCount tasks.
func NewAssignment(topology *Topology, taskCount int) *Assignment {
	return &Assignment{
		topology: topology,
		slots:    make([]int32, topology.CoreCount()),
		counts:   make([]int, taskCount),
	}
}

// Topology returns the topology the assignment covers.
func (a *Assignment) Topology() *Topology {
	return a.topology
}

// TaskCount returns the number of tasks the assignment was created for.
func (a *Assignment) TaskCount() int {
	return len(a.counts)
}

// Claim gives one core to a task. Claiming an owned core is an accounting
// error.
func (a *Assignment) Claim(rank int, task TaskID) error {
	if rank < 0 || rank >= len(a.slots) {
		return OutOfRangeErrorf("core rank %d not in [0,%d)", rank, len(a.slots))
	}
	if task < 0 || int(task) >= len(a.counts) {
		return AccountingErrorf("task %d is not one of the %d tasks of the run", task, len(a.counts))
	}
	if owner := a.slots[rank]; owner != 0 {
		return AccountingErrorf("core %d claimed by task %d is already owned by task %d", rank, task, owner-1)
	}
	a.slots[rank] = int32(task) + 1
	a.counts[task]++
	return nil
}

// ClaimRange gives count consecutive cores starting at first to a task.
func (a *Assignment) ClaimRange(first, count int, task TaskID) error {
	for rank := first; rank < first+count; rank++ {
		if err := a.Claim(rank, task); err != nil {
			return err
		}
	}
	return nil
}

// Owner returns the task owning a core, or false when the core is free.
func (a *Assignment) Owner(rank int) (TaskID, bool) {
	if rank < 0 || rank >= len(a.slots) || a.slots[rank] == 0 {
		return 0, false
	}
	return TaskID(a.slots[rank] - 1), true
}

// Count returns how many cores a task owns.
func (a *Assignment) Count(task TaskID) int {
	if task < 0 || int(task) >= len(a.counts) {
		return 0
	}
	return a.counts[task]
}

// Cores returns the ranks owned by a task in ascending order.
func (a *Assignment) Cores(task TaskID) []int {
	cores := make([]int, 0, a.Count(task))
	for rank, slot := range a.slots {
		if slot == int32(task)+1 {
			cores = append(cores, rank)
		}
	}
	return cores
}

// Free returns the number of unowned cores.
func (a *Assignment) Free() int {
	free := len(a.slots)
	for _, c := range a.counts {
		free -= c
	}
	return free
}

// Slots returns a copy of the raw slot array, task id plus one per core.
func (a *Assignment) Slots() []int32 {
	out := make([]int32, len(a.slots))
	copy(out, a.slots)
	return out
}

// Validate checks that every task got exactly the cores it asked for and that
// no slot refers to an unknown task.
func (a *Assignment) Validate(tasks []*Task) error {
	if len(tasks) != len(a.counts) {
		return AccountingErrorf("assignment tracks %d tasks but %d were requested", len(a.counts), len(tasks))
	}
	for rank, slot := range a.slots {
		if slot < 0 || int(slot) > len(a.counts) {
			return AccountingErrorf("core %d holds unknown task slot %d", rank, slot)
		}
	}
	for _, t := range tasks {
		if got := a.Count(t.ID); got != t.Size {
			return AccountingErrorf("task assignment inconsistent for task %d: found %d assigned cores but needed %d",
				t.ID, got, t.Size)
		}
	}
	return nil
}
