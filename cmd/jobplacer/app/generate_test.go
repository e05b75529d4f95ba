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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agiledragon/gomonkey/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var smallMachine = []string{"--groups=2", "--rows=2", "--columns=2", "--nodes-per-router=2", "--cores-per-node=4"}

func TestGenerateCmd(t *testing.T) {
	testCases := []struct {
		name                 string
		args                 []string
		expectedLines        int
		expectedErrOut       string
		expectedOsExitCalled bool
	}{
		{
			name:          "[generate] compact placement to stdout",
			args:          append([]string{"--policy=compact", "--seed=1"}, append(smallMachine, "32", "32")...),
			expectedLines: 65,
		},
		{
			name:          "[generate] locality placement to stdout",
			args:          append([]string{"--seed=3", "--distribution=Geometric", "--p=0.4"}, append(smallMachine, "20", "12")...),
			expectedLines: 33,
		},
		{
			name:                 "[generate] unknown policy",
			args:                 append([]string{"--policy=best-fit"}, append(smallMachine, "8")...),
			expectedErrOut:       `execute command[generate] failed, error:unknown policy "best-fit"`,
			expectedOsExitCalled: true,
		},
		{
			name:                 "[generate] task size is not a number",
			args:                 append([]string{"--policy=compact"}, append(smallMachine, "eight")...),
			expectedErrOut:       `execute command[generate] failed, error:task size "eight" is not an integer`,
			expectedOsExitCalled: true,
		},
		{
			name:                 "[generate] binary and csv both on stdout",
			args:                 append([]string{"--policy=compact", "-o", "-"}, append(smallMachine, "8")...),
			expectedErrOut:       `execute command[generate] failed, error:invalid scenario: `,
			expectedOsExitCalled: true,
		},
	}

	exitCalled := false
	patches := gomonkey.NewPatches()
	patches.ApplyFunc(os.Exit, func(code int) {
		exitCalled = true
	})
	defer patches.Reset()

	for _, tc := range testCases {
		exitCalled = false
		out := &bytes.Buffer{}
		errOut := &bytes.Buffer{}
		cmd := newGenerateCmd(out, errOut)
		cmd.SetArgs(tc.args)
		assert.NoError(t, cmd.Execute(), tc.name)

		assert.Equal(t, tc.expectedOsExitCalled, exitCalled, tc.name)
		if tc.expectedErrOut != "" {
			assert.True(t, strings.HasPrefix(errOut.String(), tc.expectedErrOut), "%s: %s", tc.name, errOut.String())
			continue
		}
		assert.Empty(t, errOut.String(), tc.name)
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		assert.Len(t, lines, tc.expectedLines, tc.name)
		assert.Equal(t, "g,r,c,n,core,jobid", lines[0], tc.name)
	}
}

func TestGenerateCmdWithScenarioFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
topology: {groups: 2, rows: 2, columns: 2, nodesPerRouter: 2, coresPerNode: 4}
seed: 5
tasks: [16, 8]
policy: {name: random, arguments: {level: node}}
`), 0o644))
	binary := filepath.Join(dir, "out.bin")

	out := &bytes.Buffer{}
	cmd := newGenerateCmd(out, &bytes.Buffer{})
	cmd.SetArgs([]string{"--config", path, "--csv=", "-o", binary, "--runs=2"})
	require.NoError(t, cmd.Execute())

	assert.Empty(t, out.String())
	for _, suffix := range []string{".0", ".1"} {
		info, err := os.Stat(binary + suffix)
		require.NoError(t, err)
		assert.Equal(t, int64(24*24), info.Size())
	}
}
