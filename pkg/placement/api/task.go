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

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// TaskID is the zero-based position of a task in the input list.
type TaskID int

// Task is a job asking for a number of cores.
type Task struct {
	ID   TaskID
	Size int
}

func (t *Task) String() string {
	return fmt.Sprintf("task %d (%d cores)", t.ID, t.Size)
}

// NewTasks builds one task per requested size, numbered in input order.
func NewTasks(sizes []int) []*Task {
	tasks := make([]*Task, 0, len(sizes))
	for i, size := range sizes {
		tasks = append(tasks, &Task{ID: TaskID(i), Size: size})
	}
	return tasks
}

// TotalSize returns the sum of all requested sizes. Only call it on tasks
// that passed ValidateTasks.
func TotalSize(tasks []*Task) int {
	total := 0
	for _, t := range tasks {
		total += t.Size
	}
	return total
}

// ValidateTasks checks that there is at least one task, that every size is
// positive and that the requests fit into the topology.
func ValidateTasks(tasks []*Task, topology *Topology) error {
	var errs error
	if len(tasks) == 0 {
		errs = multierror.Append(errs, ConfigurationErrorf("no task to place"))
	}
	total := 0
	for _, t := range tasks {
		if t.Size <= 0 {
			errs = multierror.Append(errs, ConfigurationErrorf("%s: requested size must be positive", t))
			continue
		}
		if topology == nil {
			continue
		}
		if t.Size > topology.CoreCount() {
			errs = multierror.Append(errs, ConfigurationErrorf("%s: topology %s has only %d cores",
				t, topology.Shape(), topology.CoreCount()))
			continue
		}
		// both terms are at most CoreCount, the sum cannot wrap
		if total <= topology.CoreCount() {
			total += t.Size
		}
	}
	if topology != nil && total > topology.CoreCount() {
		errs = multierror.Append(errs, ConfigurationErrorf("tasks request at least %d cores but topology %s has only %d",
			total, topology.Shape(), topology.CoreCount()))
	}
	return errs
}
