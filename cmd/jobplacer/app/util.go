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

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

// Error reports the failure of cmd and exits.
func Error(errOut io.Writer, cmd *cobra.Command, err error) {
	fmt.Fprintf(errOut, "execute command[%s] failed, error:%v\n", cmd.Name(), err)
	klog.ErrorS(err, "Jobplacer command failed", "command", cmd.Name())
	klog.Flush()
	os.Exit(1)
}
