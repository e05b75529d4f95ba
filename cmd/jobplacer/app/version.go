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

	"github.com/spf13/cobra"

	"jobplacer.sh/jobplacer/pkg/version"
)

func newVersionCmd(out io.Writer, errOut io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version information",
		Long:  "Print the version information",
		Run: func(cmd *cobra.Command, args []string) {
			if err := version.Fprint(out); err != nil {
				Error(errOut, cmd, err)
			}
		},
	}
}
