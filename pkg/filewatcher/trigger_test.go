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

package filewatcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var ignoreKlog = goleak.IgnoreTopFunction("k8s.io/klog/v2.(*flushDaemon).run.func1")

type fakeWatcher struct {
	events chan fsnotify.Event
	errors chan error
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{events: make(chan fsnotify.Event), errors: make(chan error)}
}

func (f *fakeWatcher) Events() chan fsnotify.Event { return f.events }
func (f *fakeWatcher) Errors() chan error          { return f.errors }
func (f *fakeWatcher) Close()                      {}

const testDebounce = 50 * time.Millisecond

func receive(t *testing.T, ch <-chan int64) int64 {
	select {
	case gen := <-ch:
		return gen
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a run")
		return 0
	}
}

func assertQuiet(t *testing.T, ch <-chan int64) {
	select {
	case gen := <-ch:
		t.Fatalf("unexpected run %d", gen)
	case <-time.After(10 * testDebounce):
	}
}

func TestTriggerDebouncesChanges(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreKlog)

	fw := newFakeWatcher()
	runs := make(chan int64, 8)
	trigger := NewTrigger(fw, []string{"/etc/jobplacer/scenario.yaml"}, testDebounce, func(ctx context.Context, generation int64) error {
		runs <- generation
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		trigger.Run(ctx)
	}()

	assert.Equal(t, int64(1), receive(t, runs))

	fw.events <- fsnotify.Event{Name: "/etc/jobplacer/scenario.yaml", Op: fsnotify.Write}
	fw.events <- fsnotify.Event{Name: "/etc/jobplacer/scenario.yaml", Op: fsnotify.Create}
	fw.events <- fsnotify.Event{Name: "/etc/jobplacer/../jobplacer/scenario.yaml", Op: fsnotify.Write}
	assert.Equal(t, int64(2), receive(t, runs))

	fw.events <- fsnotify.Event{Name: "/etc/jobplacer/other.yaml", Op: fsnotify.Write}
	fw.events <- fsnotify.Event{Name: "/etc/jobplacer/scenario.yaml", Op: fsnotify.Chmod}
	fw.errors <- assert.AnError
	assertQuiet(t, runs)

	cancel()
	<-stopped
	assert.Equal(t, int64(2), trigger.Generation())
}

func TestTriggerCancelsRunningAction(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreKlog)

	fw := newFakeWatcher()
	started := make(chan int64, 4)
	cancelled := make(chan int64, 4)
	trigger := NewTrigger(fw, []string{"scenario.yaml"}, testDebounce, func(ctx context.Context, generation int64) error {
		started <- generation
		<-ctx.Done()
		cancelled <- generation
		return ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		trigger.Run(ctx)
	}()

	assert.Equal(t, int64(1), receive(t, started))
	fw.events <- fsnotify.Event{Name: "scenario.yaml", Op: fsnotify.Rename}
	assert.Equal(t, int64(2), receive(t, started))
	assert.Equal(t, int64(1), receive(t, cancelled))

	cancel()
	<-stopped
	assert.Equal(t, int64(2), receive(t, cancelled))
}

func TestTriggerStopsWhenWatcherCloses(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreKlog)

	fw := newFakeWatcher()
	trigger := NewTrigger(fw, nil, testDebounce, func(context.Context, int64) error { return nil })
	close(fw.events)
	// returns without a cancelled context
	trigger.Run(context.Background())
	assert.Equal(t, int64(1), trigger.Generation())
}

func TestNewFileWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")

	fw, err := NewFileWatcher(path)
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, os.WriteFile(path, []byte("tasks: [1]\n"), 0o644))
	select {
	case event := <-fw.Events():
		assert.Equal(t, path, event.Name)
	case err := <-fw.Errors():
		t.Fatalf("watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a file event")
	}

	_, err = NewFileWatcher(path, filepath.Join(dir, "missing", "scenario.yaml"))
	assert.Error(t, err)

	var nilWatcher *fileWatcher
	assert.Nil(t, nilWatcher.Events())
	assert.Nil(t, nilWatcher.Errors())
	nilWatcher.Close()
}
