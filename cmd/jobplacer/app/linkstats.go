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
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"jobplacer.sh/jobplacer/pkg/linkstats"
)

type linkStatsCmd struct {
	out    io.Writer
	errOut io.Writer
	job    int
	all    bool
}

func newLinkStatsCmd(out io.Writer, errOut io.Writer) *cobra.Command {
	ls := &linkStatsCmd{
		out:    out,
		errOut: errOut,
		job:    linkstats.TotalColumn,
	}

	cmd := &cobra.Command{
		Use:   "linkstats file.csv",
		Short: "Summarise per-link traffic counters by link color",
		Long: "Summarise per-link traffic counters by link color: min, average, max, links with traffic, " +
			"their average and the quartiles, for all links and for green, black and blue links.",
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			klog.V(2).InfoS("Jobplacer command called", "command", "linkstats")
			if err := ls.run(args[0]); err != nil {
				Error(ls.errOut, cmd, err)
			}
		},
	}
	cmd.Flags().IntVar(&ls.job, "job", ls.job, "job column to summarise, -1 for the total")
	cmd.Flags().BoolVar(&ls.all, "all-jobs", ls.all, "summarise the total and every job column")
	return cmd
}

func (c *linkStatsCmd) run(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "failed to open link counters")
	}
	defer f.Close()

	table, err := linkstats.Read(f)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", path)
	}

	jobs := []int{c.job}
	if c.all {
		jobs = []int{linkstats.TotalColumn}
		for j := 0; j < table.Jobs(); j++ {
			jobs = append(jobs, j)
		}
	}
	var stats []linkstats.Stats
	for _, job := range jobs {
		s, err := table.Report(job)
		if err != nil {
			return err
		}
		stats = append(stats, s...)
	}
	return linkstats.WriteReport(c.out, stats)
}
