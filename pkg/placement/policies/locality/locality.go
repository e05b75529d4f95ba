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

package locality

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"jobplacer.sh/jobplacer/pkg/placement/api"
	"jobplacer.sh/jobplacer/pkg/placement/framework"
	"jobplacer.sh/jobplacer/pkg/placement/kernel"
	"jobplacer.sh/jobplacer/pkg/placement/sampler"
)

const (
	// PolicyName indicates name of the locality placement policy.
	PolicyName = "locality"
)

const (
	// Distribution is the key for the kernel shape, Binomial or Geometric
	Distribution = "distribution"
	// P is the key for the kernel concentration parameter
	P = "p"
	// Granularity is the key for the unit the kernels range over, router or node
	Granularity = "granularity"
	// TightPercent is the key for the share of a task's routers placed by its kernel
	TightPercent = "tightPercent"
	// MaxRejections is the key for the consecutive rejection budget of one draw
	MaxRejections = "maxRejections"
	// RecomputeInterval is the key for the number of claims between two exact
	// kernel mass recomputations
	RecomputeInterval = "recomputeInterval"

	// DefaultTightPercent leaves about 3% of a task's routers to the spillover phase.
	DefaultTightPercent = 97
	// DefaultP is the concentration used when none is configured.
	DefaultP = 0.5
)

type localityArgs struct {
	Distribution      string  `mapstructure:"distribution"`
	P                 float64 `mapstructure:"p"`
	Granularity       string  `mapstructure:"granularity"`
	TightPercent      int     `mapstructure:"tightPercent"`
	MaxRejections     int     `mapstructure:"maxRejections"`
	RecomputeInterval int     `mapstructure:"recomputeInterval"`
}

func (a *localityArgs) String() string {
	return strings.Join([]string{
		fmt.Sprintf("%s[%s]", Distribution, a.Distribution),
		fmt.Sprintf("%s[%g]", P, a.P),
		fmt.Sprintf("%s[%s]", Granularity, a.Granularity),
		fmt.Sprintf("%s[%d]", TightPercent, a.TightPercent),
		fmt.Sprintf("%s[%d]", MaxRejections, a.MaxRejections),
		fmt.Sprintf("%s[%d]", RecomputeInterval, a.RecomputeInterval),
	}, ", ")
}

type localityPolicy struct {
	variant           kernel.Variant
	p                 float64
	level             api.Level
	tightPercent      int
	maxRejections     int
	recomputeInterval int

	// err is the argument error, reported by Place.
	err error
}

// New function returns the locality policy object
func New(arguments framework.Arguments) framework.Policy {
	lp, err := parseArguments(arguments)
	if err != nil {
		return &localityPolicy{err: err}
	}
	return lp
}

func parseArguments(arguments framework.Arguments) (*localityPolicy, error) {
	/*
	   policy:
	     name: locality
	     arguments:
	       distribution: Binomial
	       p: 0.5
	       granularity: router
	       tightPercent: 97
	*/
	args := localityArgs{
		Distribution:      string(kernel.Binomial),
		P:                 DefaultP,
		Granularity:       string(api.LevelRouter),
		TightPercent:      DefaultTightPercent,
		MaxRejections:     sampler.DefaultMaxRejections,
		RecomputeInterval: kernel.DefaultRecomputeInterval,
	}
	if err := arguments.Decode(&args); err != nil {
		return nil, api.ConfigurationErrorf("invalid %s arguments: %v", PolicyName, err)
	}
	klog.V(4).InfoS("Parsed policy arguments", "policy", PolicyName, "arguments", args.String())

	variant, err := kernel.ParseVariant(args.Distribution)
	if err != nil {
		return nil, err
	}
	level, err := api.ParseLevel(args.Granularity)
	if err != nil {
		return nil, err
	}
	if level != api.LevelRouter && level != api.LevelNode {
		return nil, api.ConfigurationErrorf("%s granularity must be %s or %s, got %s", PolicyName, api.LevelRouter, api.LevelNode, level)
	}
	if args.P <= 0 || args.P >= 1 {
		return nil, api.ConfigurationErrorf("%s must be in (0,1), got %v", P, args.P)
	}
	if args.TightPercent < 0 || args.TightPercent > 100 {
		return nil, api.ConfigurationErrorf("%s must be in [0,100], got %d", TightPercent, args.TightPercent)
	}
	if args.RecomputeInterval < 0 {
		return nil, api.ConfigurationErrorf("%s must not be negative, got %d", RecomputeInterval, args.RecomputeInterval)
	}

	return &localityPolicy{
		variant:           variant,
		p:                 args.P,
		level:             level,
		tightPercent:      args.TightPercent,
		maxRejections:     args.MaxRejections,
		recomputeInterval: args.RecomputeInterval,
	}, nil
}

func (lp *localityPolicy) Name() string {
	return PolicyName
}

// TightTarget returns how many cores of a task of size are placed router by
// router: percent of the routers it would fill, rounded down, in whole
// routers. The target never exceeds the whole routers inside size.
func TightTarget(size, coresPerRouter, percent int) int {
	routers := (size + coresPerRouter - 1) / coresPerRouter
	target := percent * routers / 100 * coresPerRouter
	if target > size {
		target = size / coresPerRouter * coresPerRouter
	}
	return target
}

// run is the state of one Place call.
type run struct {
	ssn      *framework.Session
	sampler  *sampler.Sampler
	order    []*api.Task
	kernels  []*kernel.Kernel
	registry *kernel.Registry
}

func (lp *localityPolicy) Place(ctx context.Context, ssn *framework.Session) error {
	if lp.err != nil {
		return lp.err
	}

	order := ssn.ShuffledTasks()
	tight := make([]int, len(order))
	if lp.level == api.LevelRouter {
		for i, task := range order {
			tight[i] = TightTarget(task.Size, ssn.Topology.CoresPerRouter(), lp.tightPercent)
		}
	}
	if err := lp.checkCapacity(ssn.Topology, order, tight); err != nil {
		return err
	}

	r := &run{
		ssn:      ssn,
		order:    order,
		kernels:  make([]*kernel.Kernel, len(order)),
		registry: kernel.NewRegistry(lp.recomputeInterval),
	}
	units := ssn.Topology.UnitCount(lp.level)
	for i := range order {
		center := ssn.Rand.Intn(units)
		k, err := kernel.New(lp.variant, units, center, lp.p)
		if err != nil {
			return err
		}
		r.kernels[i] = k
		r.registry.Register(k)
	}
	r.sampler = sampler.New(ssn.Rand, r.registry, lp.maxRejections)

	var err error
	if lp.level == api.LevelRouter {
		err = r.placeByRouter(ctx, tight)
	} else {
		err = r.placeByNode(ctx)
	}
	klog.V(3).InfoS("Locality placement finished", "attempts", r.sampler.Attempts(), "rejections", r.sampler.Rejections(),
		"claimed", r.registry.Claimed())
	return err
}

// checkCapacity fails when the whole-unit claims of every task cannot fit,
// before any randomness is consumed by sampling.
func (lp *localityPolicy) checkCapacity(topo *api.Topology, order []*api.Task, tight []int) error {
	needed := 0
	for i, task := range order {
		needed += tight[i] / topo.CoresPerNode()
		residual := task.Size - tight[i]
		needed += (residual + topo.CoresPerNode() - 1) / topo.CoresPerNode()
	}
	if needed > topo.NodeCount() {
		return api.ConfigurationErrorf("tasks need %d whole nodes at %s granularity but the topology has %d",
			needed, lp.level, topo.NodeCount())
	}
	return nil
}

// placeByRouter samples whole routers for the tight share of every task,
// then spreads the residuals over free nodes uniformly.
func (r *run) placeByRouter(ctx context.Context, tight []int) error {
	topo := r.ssn.Topology
	routers := sampler.NewPool(topo.RouterCount())
	nodes := sampler.NewPool(topo.NodeCount())

	for i, task := range r.order {
		if err := ctx.Err(); err != nil {
			return err
		}
		k := r.kernels[i]
		klog.V(4).InfoS("Started task", "task", task.ID, "size", task.Size, "tight", tight[i], "center", k.Center())

		for claimed := 0; claimed < tight[i]; {
			router, err := r.sampler.Next(ctx, routers, k)
			if err != nil {
				return errors.Wrapf(err, "failed to place %s", task)
			}
			count := min(topo.CoresPerRouter(), tight[i]-claimed)
			if err := r.ssn.Claim(task, api.LevelRouter, router, count); err != nil {
				return err
			}
			first, err := topo.FirstNodeOfRouter(router)
			if err != nil {
				return err
			}
			for n := first; n < first+topo.NodesPerRouter(); n++ {
				nodes.Remove(n)
			}
			claimed += count
		}
	}

	for _, task := range r.order {
		if err := ctx.Err(); err != nil {
			return err
		}
		for residual := r.ssn.Remaining(task); residual > 0; residual = r.ssn.Remaining(task) {
			node, err := r.sampler.Uniform(nodes)
			if err != nil {
				return errors.Wrapf(err, "failed to place the residual %d cores of %s", residual, task)
			}
			if err := r.ssn.Claim(task, api.LevelNode, node, min(topo.CoresPerNode(), residual)); err != nil {
				return err
			}
		}
	}
	return nil
}

// placeByNode samples whole nodes with each task's kernel until the task is
// complete.
func (r *run) placeByNode(ctx context.Context) error {
	topo := r.ssn.Topology
	nodes := sampler.NewPool(topo.NodeCount())

	for i, task := range r.order {
		if err := ctx.Err(); err != nil {
			return err
		}
		k := r.kernels[i]
		klog.V(4).InfoS("Started task", "task", task.ID, "size", task.Size, "center", k.Center())

		for remaining := task.Size; remaining > 0; remaining = r.ssn.Remaining(task) {
			node, err := r.sampler.Next(ctx, nodes, k)
			if err != nil {
				return errors.Wrapf(err, "failed to place %s", task)
			}
			if err := r.ssn.Claim(task, api.LevelNode, node, min(topo.CoresPerNode(), remaining)); err != nil {
				return err
			}
		}
	}
	return nil
}
