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
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"jobplacer.sh/jobplacer/cmd/jobplacer/app/options"
	"jobplacer.sh/jobplacer/pkg/filewatcher"
)

type watchCmd struct {
	out      io.Writer
	errOut   io.Writer
	opt      *options.Options
	debounce time.Duration
}

func newWatchCmd(out io.Writer, errOut io.Writer) *cobra.Command {
	watch := &watchCmd{
		out:      out,
		errOut:   errOut,
		opt:      options.NewOptions(),
		debounce: filewatcher.DefaultDebounce,
	}

	cmd := &cobra.Command{
		Use:   "watch --config scenario.yaml [task sizes...]",
		Short: "Regenerate the placement every time the scenario files change",
		Long:  "Regenerate the placement every time the scenario files change, until interrupted.",
		Run: func(cmd *cobra.Command, args []string) {
			klog.V(2).InfoS("Jobplacer command called", "command", "watch")
			if err := watch.run(cmd.Context(), cmd.Flags(), args); err != nil {
				Error(watch.errOut, cmd, err)
			}
		},
	}
	watch.opt.AddFlags(cmd)
	cmd.Flags().DurationVar(&watch.debounce, "debounce", watch.debounce, "quiet period after a change before the placement is regenerated")
	return cmd
}

func (c *watchCmd) run(ctx context.Context, fs *pflag.FlagSet, args []string) error {
	if len(c.opt.ConfigFiles) == 0 {
		return fmt.Errorf("watch needs at least one --%s file", options.ConfigFlag)
	}
	watcher, err := filewatcher.NewFileWatcher(c.opt.ConfigFiles...)
	if err != nil {
		return err
	}
	defer watcher.Close()

	trigger := filewatcher.NewTrigger(watcher, c.opt.ConfigFiles, c.debounce, func(ctx context.Context, generation int64) error {
		// files are re-read on every change
		scenario, err := c.opt.Scenario(fs, args)
		if err != nil {
			return err
		}
		klog.InfoS("Regenerating placement", "generation", generation)
		return runScenario(ctx, scenario, c.out)
	})
	klog.InfoS("Watching scenario files", "files", c.opt.ConfigFiles)
	trigger.Run(ctx)
	return nil
}
