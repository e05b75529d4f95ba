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

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	cliflag "k8s.io/component-base/cli/flag"
	"k8s.io/klog/v2"

	"jobplacer.sh/jobplacer/cmd/jobplacer/app/options"
)

type generateCmd struct {
	out    io.Writer
	errOut io.Writer
	opt    *options.Options
}

func newGenerateCmd(out io.Writer, errOut io.Writer) *cobra.Command {
	generate := &generateCmd{
		out:    out,
		errOut: errOut,
		opt:    options.NewOptions(),
	}

	cmd := &cobra.Command{
		Use:   "generate [task sizes...]",
		Short: "Place tasks on a dragonfly machine and write the placement",
		Long: "Place tasks on a dragonfly machine and write the placement. Task sizes are given as " +
			"arguments or in a scenario file; flags override the scenario file.",
		Example: "jobplacer generate --groups 2 --rows 2 --columns 2 --nodes-per-router 2 --cores-per-node 4 --seed 42 32 32",
		Run: func(cmd *cobra.Command, args []string) {
			klog.V(2).InfoS("Jobplacer command called", "command", "generate")
			cliflag.PrintFlags(cmd.Flags())
			if err := generate.run(cmd.Context(), cmd.Flags(), args); err != nil {
				Error(generate.errOut, cmd, err)
			}
		},
	}
	generate.opt.AddFlags(cmd)
	return cmd
}

func (c *generateCmd) run(ctx context.Context, fs *pflag.FlagSet, args []string) error {
	scenario, err := c.opt.Scenario(fs, args)
	if err != nil {
		return err
	}
	return runScenario(ctx, scenario, c.out)
}
