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

	"k8s.io/klog/v2"

	"jobplacer.sh/jobplacer/pkg/placement/api"
	"jobplacer.sh/jobplacer/pkg/placement/framework"
	"jobplacer.sh/jobplacer/pkg/placement/policies/util"
)

const (
	// PolicyName indicates name of the uniform random placement policy.
	PolicyName = "random"

	// AttemptFactor is the key for the number of draws per needed unit
	// before falling back to first fit
	AttemptFactor = "attemptFactor"
	// FirstFit is the key for taking the remaining units first fit once the
	// draws are exhausted. Without it the placement fails instead.
	FirstFit = "firstFit"
)

// defaultAttemptFactors are the draws per needed unit, by level.
var defaultAttemptFactors = map[api.Level]int{
	api.LevelNode:   8,
	api.LevelRouter: 16,
	api.LevelRow:    32,
	api.LevelGroup:  64,
}

type randomPolicy struct {
	level         api.Level
	attemptFactor int
	firstFit      bool
	err           error
}

// New function returns random policy object. Each task draws units
// uniformly, keeping the free ones; after too many draws the remaining units
// are taken first fit.
func New(arguments framework.Arguments) framework.Policy {
	level, err := util.ParseLevel(arguments, api.LevelNode,
		api.LevelNode, api.LevelRouter, api.LevelRow, api.LevelGroup)
	if err != nil {
		return &randomPolicy{err: err}
	}
	rp := &randomPolicy{level: level, attemptFactor: defaultAttemptFactors[level], firstFit: true}
	arguments.GetInt(&rp.attemptFactor, AttemptFactor)
	arguments.GetBool(&rp.firstFit, FirstFit)
	if rp.attemptFactor < 0 {
		rp.err = api.ConfigurationErrorf("%s must not be negative, got %d", AttemptFactor, rp.attemptFactor)
	}
	return rp
}

func (rp *randomPolicy) Name() string {
	return PolicyName
}

func (rp *randomPolicy) Place(ctx context.Context, ssn *framework.Session) error {
	if rp.err != nil {
		return rp.err
	}
	if err := util.CheckCapacity(ssn.Topology, ssn.Tasks, rp.level); err != nil {
		return err
	}

	units := util.NewUnits(ssn.Topology, rp.level)
	for _, task := range ssn.Tasks {
		if err := ctx.Err(); err != nil {
			return err
		}

		draws := rp.attemptFactor * util.UnitsNeeded(ssn.Topology, rp.level, task)
		fallback := 0
		next := func() int {
			for ; draws > 0; draws-- {
				if unit := ssn.Rand.Intn(units.Count()); !units.Used(unit) {
					draws--
					return unit
				}
			}
			if !rp.firstFit {
				return -1
			}
			unit := units.NextFree(fallback)
			fallback = unit + 1
			return unit
		}
		if err := units.Fill(ssn, task, next); err != nil {
			if !rp.firstFit && draws <= 0 {
				return api.AccountingErrorf("%s still needs %d cores after %d random draws and %s is off",
					task, ssn.Remaining(task), rp.attemptFactor*util.UnitsNeeded(ssn.Topology, rp.level, task), FirstFit)
			}
			return err
		}
		if draws <= 0 {
			klog.V(4).InfoS("Random draws exhausted, used first fit", "task", task.ID, "level", rp.level)
		}
	}
	return nil
}
