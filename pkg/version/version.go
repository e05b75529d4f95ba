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

package version

import (
	"fmt"
	"io"
	"runtime"
)

var (
	// Version shows the version of jobplacer.
	Version = "Not provided."
	// GitSHA shows the git commit id of jobplacer.
	GitSHA = "Not provided."
	// Built shows the built time of the binary.
	Built = "Not provided."
)

// RecordFormat names the layout of binary placement records.
const RecordFormat = "v1 (6 x int32 little-endian)"

// Fprint writes the lines returned by Info to w.
func Fprint(w io.Writer) error {
	for _, line := range Info() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Info returns the build information of the binary.
func Info() []string {
	return []string{
		fmt.Sprintf("Version: %s", Version),
		fmt.Sprintf("Git SHA: %s", GitSHA),
		fmt.Sprintf("Built At: %s", Built),
		fmt.Sprintf("Record Format: %s", RecordFormat),
		fmt.Sprintf("Go Version: %s", runtime.Version()),
		fmt.Sprintf("Go OS/Arch: %s/%s", runtime.GOOS, runtime.GOARCH),
	}
}
