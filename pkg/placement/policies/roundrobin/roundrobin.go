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

package roundrobin

import (
	"context"

	"jobplacer.sh/jobplacer/pkg/placement/api"
	"jobplacer.sh/jobplacer/pkg/placement/framework"
	"jobplacer.sh/jobplacer/pkg/placement/policies/util"
)

const (
	// PolicyName indicates name of the round robin placement policy.
	PolicyName = "round-robin"
)

type roundRobinPolicy struct {
	level api.Level
	err   error
}

// New function returns round robin policy object. Units are striped across
// groups: the k-th unit of every group is handed out before any (k+1)-th.
func New(arguments framework.Arguments) framework.Policy {
	level, err := util.ParseLevel(arguments, api.LevelRouter, api.LevelNode, api.LevelRouter)
	return &roundRobinPolicy{level: level, err: err}
}

func (rp *roundRobinPolicy) Name() string {
	return PolicyName
}

// Sequence returns the order in which units of level are handed out.
func Sequence(topo *api.Topology, level api.Level) []int {
	groups := topo.Shape().Groups
	perGroup := topo.UnitsPerGroup(level)
	seq := make([]int, 0, groups*perGroup)
	for k := 0; k < perGroup; k++ {
		for g := 0; g < groups; g++ {
			seq = append(seq, g*perGroup+k)
		}
	}
	return seq
}

func (rp *roundRobinPolicy) Place(ctx context.Context, ssn *framework.Session) error {
	if rp.err != nil {
		return rp.err
	}
	if err := util.CheckCapacity(ssn.Topology, ssn.Tasks, rp.level); err != nil {
		return err
	}

	units := util.NewUnits(ssn.Topology, rp.level)
	seq := Sequence(ssn.Topology, rp.level)
	pos := 0
	next := func() int {
		for ; pos < len(seq); pos++ {
			if !units.Used(seq[pos]) {
				pos++
				return seq[pos-1]
			}
		}
		return -1
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
