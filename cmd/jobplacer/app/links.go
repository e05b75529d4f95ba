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
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"jobplacer.sh/jobplacer/pkg/links"
)

type linksCmd struct {
	out       io.Writer
	errOut    io.Writer
	dragonfly links.Dragonfly
	intra     string
	inter     string
}

func newLinksCmd(out io.Writer, errOut io.Writer) *cobra.Command {
	l := &linksCmd{
		out:    out,
		errOut: errOut,
		intra:  "intra.bin",
		inter:  "inter.bin",
	}

	cmd := &cobra.Command{
		Use:   "links",
		Short: "Write the router link lists of a dragonfly",
		Long: "Write the router link lists of a dragonfly: intra-group links of group 0 as " +
			"(source, destination, color) and global links as (source, destination) int32 records.",
		Example: "jobplacer links --groups 9 --rows 2 --columns 4 --intra intra.bin --inter inter.bin",
		Run: func(cmd *cobra.Command, args []string) {
			klog.V(2).InfoS("Jobplacer command called", "command", "links")
			if err := l.run(); err != nil {
				Error(l.errOut, cmd, err)
			}
		},
	}
	cmd.Flags().IntVar(&l.dragonfly.Groups, "groups", l.dragonfly.Groups, "number of groups")
	cmd.Flags().IntVar(&l.dragonfly.Rows, "rows", l.dragonfly.Rows, "number of router rows per group")
	cmd.Flags().IntVar(&l.dragonfly.Columns, "columns", l.dragonfly.Columns, "number of router columns per group")
	cmd.Flags().StringVar(&l.intra, "intra", l.intra, "intra-group link file")
	cmd.Flags().StringVar(&l.inter, "inter", l.inter, "global link file")
	return cmd
}

func (c *linksCmd) run() error {
	if err := c.dragonfly.Validate(); err != nil {
		return err
	}
	intra, err := os.Create(c.intra)
	if err != nil {
		return errors.Wrap(err, "failed to create intra-group link file")
	}
	defer intra.Close()
	inter, err := os.Create(c.inter)
	if err != nil {
		return errors.Wrap(err, "failed to create global link file")
	}
	defer inter.Close()

	counts, err := links.Write(&c.dragonfly, intra, inter)
	if err != nil {
		return err
	}
	if err := intra.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", c.intra)
	}
	if err := inter.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", c.inter)
	}

	fmt.Fprintf(c.out, "wrote %d intra-group links to %s and %d global links to %s\n", counts.Intra, c.intra, counts.Inter, c.inter)
	return nil
}
