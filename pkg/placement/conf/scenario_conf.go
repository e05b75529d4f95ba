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

package conf

import (
	"jobplacer.sh/jobplacer/pkg/placement/api"
)

const (
	// DefaultPolicy is the policy used when a scenario names none.
	DefaultPolicy = "locality"
	// Stdout is the output path selecting standard output.
	Stdout = "-"
)

// Scenario defines one placement problem and where its results go.
type Scenario struct {
	// Topology is the shape of the machine
	Topology api.Shape `yaml:"topology"`
	// Seed seeds the random stream; a random seed is drawn when unset
	Seed *int64 `yaml:"seed,omitempty"`
	// Tasks lists the requested core count of every task, in task id order
	Tasks []int `yaml:"tasks" validate:"nonzero"`
	// Runs is the number of placements generated, with seeds Seed, Seed+1, ...
	Runs int `yaml:"runs,omitempty" validate:"min=0"`
	// Policy selects the placement policy
	Policy PolicyOption `yaml:"policy"`
	// Output defines the result sinks
	Output OutputOption `yaml:"output"`
}

// PolicyOption defines the options of a policy
type PolicyOption struct {
	// The name of Policy
	Name string `yaml:"name" validate:"nonzero"`
	// Arguments defines the different arguments that can be given to the policy
	Arguments map[string]interface{} `yaml:"arguments,omitempty"`
}

// OutputOption defines the result sinks of a scenario. Empty paths disable a
// sink, Stdout selects standard output.
type OutputOption struct {
	// Binary is the path of the packed record file
	Binary string `yaml:"binary,omitempty"`
	// CSV is the path of the csv listing
	CSV string `yaml:"csv,omitempty"`
	// Report is the path of the locality report
	Report string `yaml:"report,omitempty"`
	// Metrics is the path of the prometheus textfile
	Metrics string `yaml:"metrics,omitempty"`
}

// stdoutSinks names the sinks writing to standard output. The metrics
// textfile is always a file.
func (o OutputOption) stdoutSinks() []string {
	var sinks []string
	for _, sink := range []struct {
		name, path string
	}{
		{"binary", o.Binary},
		{"csv", o.CSV},
		{"report", o.Report},
	} {
		if sink.path == Stdout {
			sinks = append(sinks, sink.name)
		}
	}
	return sinks
}

// Default returns a scenario with every optional field at its default.
func Default() *Scenario {
	return &Scenario{
		Runs:   1,
		Policy: PolicyOption{Name: DefaultPolicy},
		Output: OutputOption{CSV: Stdout},
	}
}
