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
	goflag "flag"
	"io"

	"github.com/spf13/cobra"
	cliflag "k8s.io/component-base/cli/flag"
	"k8s.io/klog/v2"

	// Register the placement policies.
	_ "jobplacer.sh/jobplacer/pkg/placement/policies"
)

// NewRootCmd returns the jobplacer command with every subcommand.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobplacer",
		Short: "Generate synthetic job placements on dragonfly machines",
		Long: "jobplacer assigns the cores of a dragonfly machine to a set of jobs, either with " +
			"locality kernels or with baseline policies, and writes the placements for network simulators.",
	}
	// tell Cobra not to provide the default completion command
	cmd.CompletionOptions.DisableDefaultCmd = true
	// --nodes_per_router and --nodes-per-router are the same flag
	cmd.SetGlobalNormalizationFunc(cliflag.WordSepNormalizeFunc)

	klogFlags := goflag.NewFlagSet("klog", goflag.ContinueOnError)
	klog.InitFlags(klogFlags)
	cmd.PersistentFlags().AddGoFlagSet(klogFlags)

	cmd.AddCommand(newGenerateCmd(out, errOut))
	cmd.AddCommand(newWatchCmd(out, errOut))
	cmd.AddCommand(newLinksCmd(out, errOut))
	cmd.AddCommand(newLinkStatsCmd(out, errOut))
	cmd.AddCommand(newVersionCmd(out, errOut))
	return cmd
}
