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
	"k8s.io/klog/v2"

	"jobplacer.sh/jobplacer/pkg/placement/api"
	"jobplacer.sh/jobplacer/pkg/placement/framework"
)

// Level is the key for the unit a baseline policy hands out
const Level = "level"

// ParseLevel reads the level argument, falling back to def, and checks it is
// one of allowed.
func ParseLevel(args framework.Arguments, def api.Level, allowed ...api.Level) (api.Level, error) {
	name := string(def)
	args.GetString(&name, Level)
	level, err := api.ParseLevel(name)
	if err != nil {
		return "", err
	}
	for _, a := range allowed {
		if a == level {
			return level, nil
		}
	}
	return "", api.ConfigurationErrorf("level %s is not supported here, use one of %v", level, allowed)
}

// UnitsNeeded returns how many whole units of level task occupies.
func UnitsNeeded(topo *api.Topology, level api.Level, task *api.Task) int {
	per := topo.CoresPerUnit(level)
	return (task.Size + per - 1) / per
}

// CheckCapacity fails when the tasks need more whole units than the topology
// has.
func CheckCapacity(topo *api.Topology, tasks []*api.Task, level api.Level) error {
	needed := 0
	for _, task := range tasks {
		needed += UnitsNeeded(topo, level, task)
	}
	if needed > topo.UnitCount(level) {
		return api.ConfigurationErrorf("tasks need %d whole units at %s level but the topology has %d",
			needed, level, topo.UnitCount(level))
	}
	return nil
}

// Units tracks which units of one level have been handed out. A unit is
// given whole to one task even when the task uses only part of it.
type Units struct {
	level api.Level
	used  []bool
	free  int
}

// NewUnits returns a tracker where every unit of level is free.
func NewUnits(topo *api.Topology, level api.Level) *Units {
	count := topo.UnitCount(level)
	return &Units{
		level: level,
		used:  make([]bool, count),
		free:  count,
	}
}

// Count returns the number of units.
func (u *Units) Count() int {
	return len(u.used)
}

// Free returns the number of units not handed out.
func (u *Units) Free() int {
	return u.free
}

// Used reports whether unit has been handed out.
func (u *Units) Used(unit int) bool {
	return u.used[unit]
}

// NextFree returns the first free unit at or after from, or -1.
func (u *Units) NextFree(from int) int {
	for i := from; i < len(u.used); i++ {
		if !u.used[i] {
			return i
		}
	}
	return -1
}

// Take hands unit to task, which gets as many of its cores as it still
// needs.
func (u *Units) Take(ssn *framework.Session, task *api.Task, unit int) error {
	if unit < 0 || unit >= len(u.used) {
		return api.OutOfRangeErrorf("%s %d not in [0,%d)", u.level, unit, len(u.used))
	}
	if u.used[unit] {
		return api.AccountingErrorf("%s %d handed out twice, second time to %s", u.level, unit, task)
	}
	count := min(ssn.Topology.CoresPerUnit(u.level), ssn.Remaining(task))
	if count <= 0 {
		return api.AccountingErrorf("%s is already complete", task)
	}
	if err := ssn.Claim(task, u.level, unit, count); err != nil {
		return err
	}
	u.used[unit] = true
	u.free--
	return nil
}

// Fill hands the units produced by next to task until it is complete. next
// returns -1 when it has nothing left to offer.
func (u *Units) Fill(ssn *framework.Session, task *api.Task, next func() int) error {
	for ssn.Remaining(task) > 0 {
		unit := next()
		if unit < 0 {
			return api.AccountingErrorf("ran out of free %s units with %d cores of %s left", u.level, ssn.Remaining(task), task)
		}
		if err := u.Take(ssn, task, unit); err != nil {
			return err
		}
	}
	klog.V(4).InfoS("Placed task", "task", task.ID, "size", task.Size, "level", u.level, "freeUnits", u.free)
	return nil
}
