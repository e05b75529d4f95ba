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

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "go.uber.org/automaxprocs"
	"k8s.io/component-base/cli"

	"jobplacer.sh/jobplacer/cmd/jobplacer/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	rootCmd := app.NewRootCmd(os.Stdout, os.Stderr)
	rootCmd.SetContext(ctx)

	code := cli.Run(rootCmd)
	stop()
	os.Exit(code)
}
