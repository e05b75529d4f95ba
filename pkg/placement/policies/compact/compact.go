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

	"jobplacer.sh/jobplacer/pkg/placement/api"
	"jobplacer.sh/jobplacer/pkg/placement/framework"
	"jobplacer.sh/jobplacer/pkg/placement/policies/util"
)

const (
	// PolicyName indicates name of the compact placement policy.
	PolicyName = "compact"
)

type compactPolicy struct {
	level api.Level
	err   error
}

// New function returns compact policy object. Tasks take free units in rank
// order, first task first.
func New(arguments framework.Arguments) framework.Policy {
	level, err := util.ParseLevel(arguments, api.LevelNode,
		api.LevelCore, api.LevelNode, api.LevelRouter, api.LevelRow, api.LevelGroup)
	return &compactPolicy{level: level, err: err}
}

func (cp *compactPolicy) Name() string {
	return PolicyName
}

func (cp *compactPolicy) Place(ctx context.Context, ssn *framework.Session) error {
	if cp.err != nil {
		return cp.err
	}
	if err := util.CheckCapacity(ssn.Topology, ssn.Tasks, cp.level); err != nil {
		return err
	}

	units := util.NewUnits(ssn.Topology, cp.level)
	cursor := 0
	next := func() int {
		unit := units.NextFree(cursor)
		cursor = unit + 1
		return unit
	}
	for _, task := range ssn.Tasks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := units.Fill(ssn, task, next); err != nil {
			return err
		}
	}
	return nil
}
