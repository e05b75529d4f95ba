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

// Package placement runs placement scenarios: it builds the machine and the
// tasks, drives the configured policy and writes the results.
package placement

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/pborman/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"jobplacer.sh/jobplacer/pkg/placement/api"
	"jobplacer.sh/jobplacer/pkg/placement/conf"
	"jobplacer.sh/jobplacer/pkg/placement/framework"
	"jobplacer.sh/jobplacer/pkg/placement/metrics"
	"jobplacer.sh/jobplacer/pkg/placement/output"
	"jobplacer.sh/jobplacer/pkg/placement/report"
)

// Placer runs the placements of one scenario.
type Placer struct {
	scenario *conf.Scenario
	topology *api.Topology
	tasks    []*api.Task
	builder  framework.PolicyBuilder
	seed     int64
	stdout   io.Writer
}

// Result is the outcome of one placement.
type Result struct {
	RunUID     string
	Seed       int64
	Policy     string
	Tasks      []*api.Task
	Assignment *api.Assignment
}

// NewPlacer checks the scenario and prepares its runs. Results sent to
// standard output are written to stdout.
func NewPlacer(scenario *conf.Scenario, stdout io.Writer) (*Placer, error) {
	if err := conf.Validate(scenario); err != nil {
		return nil, err
	}
	topology, err := api.NewTopology(scenario.Topology)
	if err != nil {
		return nil, err
	}
	tasks := api.NewTasks(scenario.Tasks)
	if err := api.ValidateTasks(tasks, topology); err != nil {
		return nil, err
	}
	builder, found := framework.GetPolicyBuilder(scenario.Policy.Name)
	if !found {
		return nil, api.ConfigurationErrorf("unknown policy %q, known policies: %v", scenario.Policy.Name, framework.PolicyNames())
	}

	seed := time.Now().UnixNano()
	if scenario.Seed != nil {
		seed = *scenario.Seed
	}

	return &Placer{
		scenario: scenario,
		topology: topology,
		tasks:    tasks,
		builder:  builder,
		seed:     seed,
		stdout:   stdout,
	}, nil
}

// Seed returns the seed of the first run.
func (p *Placer) Seed() int64 {
	return p.seed
}

// Runs returns the number of placements Run generates.
func (p *Placer) Runs() int {
	if p.scenario.Runs < 1 {
		return 1
	}
	return p.scenario.Runs
}

// Run generates every placement of the scenario and writes its results.
// Run i uses seed Seed()+i; with several runs every output path gets the
// run index as suffix.
func (p *Placer) Run(ctx context.Context) error {
	runs := p.Runs()
	for i := 0; i < runs; i++ {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "placement interrupted before run %d", i)
		}
		result, err := p.Place(ctx, p.seed+int64(i))
		if err != nil {
			return err
		}
		if err := p.write(result, i, runs); err != nil {
			return err
		}
	}

	if path := p.scenario.Output.Metrics; path != "" {
		if err := metrics.WriteTextfile(path); err != nil {
			return err
		}
	}
	return nil
}

// Place computes one placement with the given seed without writing it.
func (p *Placer) Place(ctx context.Context, seed int64) (*Result, error) {
	runUID := uuid.New()
	policy := p.builder(framework.Arguments(p.scenario.Policy.Arguments))
	klog.InfoS("Starting placement", "runUID", runUID, "seed", seed, "policy", policy.Name(),
		"topology", p.topology.Shape().String(), "tasks", len(p.tasks), "cores", api.TotalSize(p.tasks))

	ssn := framework.OpenSession(p.topology, p.tasks, rand.New(rand.NewSource(seed)))
	metrics.UpdateTaskCount(len(p.tasks))

	start := time.Now()
	err := policy.Place(ctx, ssn)
	metrics.UpdatePlacementDuration(policy.Name(), metrics.Duration(start))
	if err == nil {
		err = ssn.Assignment.Validate(p.tasks)
	}
	if err != nil {
		metrics.RegisterPlacementResult(policy.Name(), metrics.Failure)
		return nil, errors.Wrapf(err, "placement run %s with seed %d failed", runUID, seed)
	}
	metrics.RegisterPlacementResult(policy.Name(), metrics.Success)

	klog.InfoS("Finished placement", "runUID", runUID, "duration", metrics.Duration(start), "freeCores", ssn.Assignment.Free())
	return &Result{
		RunUID:     runUID,
		Seed:       seed,
		Policy:     policy.Name(),
		Tasks:      p.tasks,
		Assignment: ssn.Assignment,
	}, nil
}

func (p *Placer) write(result *Result, index, runs int) error {
	records, err := output.Records(result.Assignment)
	if err != nil {
		return err
	}

	out := p.scenario.Output
	var sinks []output.Sink
	if out.Binary != "" {
		w, err := output.Create(runPath(out.Binary, index, runs), p.stdout)
		if err != nil {
			return err
		}
		sinks = append(sinks, output.NewBinaryWriter(w))
	}
	if out.CSV != "" {
		w, err := output.Create(runPath(out.CSV, index, runs), p.stdout)
		if err != nil {
			_ = output.Emit(nil, sinks...)
			return err
		}
		sinks = append(sinks, output.NewCSVWriter(w))
	}
	if err := output.Emit(records, sinks...); err != nil {
		return errors.Wrapf(err, "failed to write placement of run %s", result.RunUID)
	}

	if out.Report != "" {
		if err := p.writeReport(result, runPath(out.Report, index, runs)); err != nil {
			return err
		}
	}
	klog.V(2).InfoS("Wrote placement", "runUID", result.RunUID, "records", len(records))
	return nil
}

func (p *Placer) writeReport(result *Result, path string) error {
	r, err := report.Build(result.RunUID, result.Seed, result.Policy, result.Assignment, result.Tasks)
	if err != nil {
		return err
	}
	w, err := output.Create(path, p.stdout)
	if err != nil {
		return err
	}
	if err := report.Write(w, r); err != nil {
		w.Close()
		return err
	}
	return errors.Wrapf(w.Close(), "failed to close %s", path)
}

// runPath returns the path a run writes to.
func runPath(path string, index, runs int) string {
	if runs <= 1 || path == conf.Stdout {
		return path
	}
	return fmt.Sprintf("%s.%d", path, index)
}
