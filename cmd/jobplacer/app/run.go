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

package app

import (
	"context"
	"io"

	"k8s.io/klog/v2"

	"jobplacer.sh/jobplacer/pkg/placement"
	"jobplacer.sh/jobplacer/pkg/placement/conf"
)

func runScenario(ctx context.Context, scenario *conf.Scenario, out io.Writer) error {
	placer, err := placement.NewPlacer(scenario, out)
	if err != nil {
		return err
	}
	klog.InfoS("Generating placements", "policy", scenario.Policy.Name, "seed", placer.Seed(), "runs", placer.Runs())
	return placer.Run(ctx)
}
