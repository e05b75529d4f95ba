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
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfo(t *testing.T) {
	Version = "vX.Y.Z"
	GitSHA = "deadbeef"
	Built = "2026-07-05T12:00:00Z"

	var buf bytes.Buffer
	require.NoError(t, Fprint(&buf))
	got := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")

	assert.Equal(t, []string{
		"Version: vX.Y.Z",
		"Git SHA: deadbeef",
		"Built At: 2026-07-05T12:00:00Z",
		"Record Format: " + RecordFormat,
		"Go Version: " + runtime.Version(),
		"Go OS/Arch: " + runtime.GOOS + "/" + runtime.GOARCH,
	}, got)
}
