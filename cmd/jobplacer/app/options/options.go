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

package options

import (
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"

	"jobplacer.sh/jobplacer/pkg/placement/api"
	"jobplacer.sh/jobplacer/pkg/placement/conf"
	"jobplacer.sh/jobplacer/pkg/placement/kernel"
	"jobplacer.sh/jobplacer/pkg/placement/policies/locality"
	"jobplacer.sh/jobplacer/pkg/placement/policies/util"
	"jobplacer.sh/jobplacer/pkg/placement/sampler"
)

const (
	ConfigFlag         = "config"
	GroupsFlag         = "groups"
	RowsFlag           = "rows"
	ColumnsFlag        = "columns"
	NodesPerRouterFlag = "nodes-per-router"
	CoresPerNodeFlag   = "cores-per-node"
	PolicyFlag         = "policy"
	DistributionFlag   = "distribution"
	PFlag              = "p"
	GranularityFlag    = "granularity"
	TightPercentFlag   = "tight-percent"
	MaxRejectionsFlag  = "max-rejections"
	SeedFlag           = "seed"
	RunsFlag           = "runs"
	OutputFlag         = "output"
	CSVFlag            = "csv"
	ReportFlag         = "report-file"
	MetricsFlag        = "metrics-file"
)

// Options are the flags describing a placement scenario. Flags given on the
// command line override the scenario files.
type Options struct {
	ConfigFiles []string

	Groups         int
	Rows           int
	Columns        int
	NodesPerRouter int
	CoresPerNode   int

	Policy        string
	Distribution  string
	P             float64
	Granularity   string
	TightPercent  int
	MaxRejections int

	Seed int64
	Runs int

	Binary  string
	CSV     string
	Report  string
	Metrics string
}

// NewOptions returns the options with their defaults.
func NewOptions() *Options {
	return &Options{
		Policy:        conf.DefaultPolicy,
		P:             locality.DefaultP,
		TightPercent:  locality.DefaultTightPercent,
		Runs:          1,
		CSV:           conf.Stdout,
		Distribution:  string(kernel.Binomial),
		Granularity:   string(api.LevelRouter),
		MaxRejections: sampler.DefaultMaxRejections,
	}
}

// AddFlags is responsible for add flags from the given FlagSet instance for current Options.
func (o *Options) AddFlags(c *cobra.Command) {
	fs := c.Flags()
	fs.StringArrayVar(&o.ConfigFiles, ConfigFlag, o.ConfigFiles, "scenario file, may be repeated; later files override earlier ones")

	fs.IntVar(&o.Groups, GroupsFlag, o.Groups, "number of groups of the dragonfly")
	fs.IntVar(&o.Rows, RowsFlag, o.Rows, "number of router rows per group")
	fs.IntVar(&o.Columns, ColumnsFlag, o.Columns, "number of router columns per group")
	fs.IntVar(&o.NodesPerRouter, NodesPerRouterFlag, o.NodesPerRouter, "number of nodes attached to a router")
	fs.IntVar(&o.CoresPerNode, CoresPerNodeFlag, o.CoresPerNode, "number of cores per node")

	fs.StringVar(&o.Policy, PolicyFlag, o.Policy, "placement policy: locality, compact, round-robin or random")
	fs.StringVar(&o.Distribution, DistributionFlag, o.Distribution, "locality kernel shape, Binomial or Geometric")
	fs.Float64Var(&o.P, PFlag, o.P, "locality kernel concentration, in (0,1)")
	fs.StringVar(&o.Granularity, GranularityFlag, o.Granularity, "unit the locality kernels range over, router or node; placement level of the baseline policies")
	fs.IntVar(&o.TightPercent, TightPercentFlag, o.TightPercent, "share of a task's routers placed by its kernel, in percent")
	fs.IntVar(&o.MaxRejections, MaxRejectionsFlag, o.MaxRejections, "consecutive rejections after which a draw fails")

	fs.Int64Var(&o.Seed, SeedFlag, o.Seed, "seed of the random stream; a time based seed is used when unset")
	fs.IntVar(&o.Runs, RunsFlag, o.Runs, "number of placements to generate, run i using seed+i")

	fs.StringVarP(&o.Binary, OutputFlag, "o", o.Binary, "binary record file, - for standard output")
	fs.StringVar(&o.CSV, CSVFlag, o.CSV, "csv record file, - for standard output, empty to disable")
	fs.StringVar(&o.Report, ReportFlag, o.Report, "locality report file")
	fs.StringVar(&o.Metrics, MetricsFlag, o.Metrics, "prometheus textfile the run metrics are written to")
}

// Scenario builds the scenario of the scenario files, the changed flags and
// the task sizes given as arguments. The result is not validated.
func (o *Options) Scenario(fs *pflag.FlagSet, args []string) (*conf.Scenario, error) {
	scenario := conf.Default()
	if len(o.ConfigFiles) > 0 {
		if err := conf.Load(scenario, o.ConfigFiles...); err != nil {
			return nil, err
		}
	}

	override := &conf.Scenario{
		Topology: api.Shape{
			Groups:         o.changedInt(fs, GroupsFlag, o.Groups),
			Rows:           o.changedInt(fs, RowsFlag, o.Rows),
			Columns:        o.changedInt(fs, ColumnsFlag, o.Columns),
			NodesPerRouter: o.changedInt(fs, NodesPerRouterFlag, o.NodesPerRouter),
			CoresPerNode:   o.changedInt(fs, CoresPerNodeFlag, o.CoresPerNode),
		},
		Runs: o.changedInt(fs, RunsFlag, o.Runs),
	}
	if fs.Changed(PolicyFlag) {
		override.Policy.Name = o.Policy
	}
	for _, arg := range args {
		size, err := strconv.Atoi(arg)
		if err != nil {
			return nil, api.ConfigurationErrorf("task size %q is not an integer", arg)
		}
		override.Tasks = append(override.Tasks, size)
	}
	if err := conf.Merge(scenario, override); err != nil {
		return nil, err
	}

	// Set directly since an empty path or a zero must override the files too.
	if fs.Changed(SeedFlag) {
		scenario.Seed = ptr.To(o.Seed)
	}
	o.applyArguments(fs, scenario)
	o.applyOutput(fs, scenario)
	return scenario, nil
}

func (o *Options) changedInt(fs *pflag.FlagSet, name string, value int) int {
	if fs.Changed(name) {
		return value
	}
	return 0
}

func (o *Options) applyArguments(fs *pflag.FlagSet, scenario *conf.Scenario) {
	set := func(flag, key string, value interface{}) {
		if !fs.Changed(flag) {
			return
		}
		if scenario.Policy.Arguments == nil {
			scenario.Policy.Arguments = map[string]interface{}{}
		}
		scenario.Policy.Arguments[key] = value
	}
	if scenario.Policy.Name != locality.PolicyName {
		for _, flag := range []string{DistributionFlag, PFlag, TightPercentFlag, MaxRejectionsFlag} {
			if fs.Changed(flag) {
				klog.Warningf("Flag --%s only applies to the %s policy, ignored for %s", flag, locality.PolicyName, scenario.Policy.Name)
			}
		}
		set(GranularityFlag, util.Level, o.Granularity)
		return
	}
	set(DistributionFlag, locality.Distribution, o.Distribution)
	set(PFlag, locality.P, o.P)
	set(GranularityFlag, locality.Granularity, o.Granularity)
	set(TightPercentFlag, locality.TightPercent, o.TightPercent)
	set(MaxRejectionsFlag, locality.MaxRejections, o.MaxRejections)
}

func (o *Options) applyOutput(fs *pflag.FlagSet, scenario *conf.Scenario) {
	for flag, target := range map[string]struct {
		dst *string
		src string
	}{
		OutputFlag:  {&scenario.Output.Binary, o.Binary},
		CSVFlag:     {&scenario.Output.CSV, o.CSV},
		ReportFlag:  {&scenario.Output.Report, o.Report},
		MetricsFlag: {&scenario.Output.Metrics, o.Metrics},
	} {
		if fs.Changed(flag) {
			*target.dst = target.src
		}
	}
}
