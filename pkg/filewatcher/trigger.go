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
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/atomic"
	"k8s.io/klog/v2"
)

// DefaultDebounce is the quiet period after the last change before the
// action runs.
const DefaultDebounce = time.Second

// Action is run after the watched files changed. generation counts the
// runs started so far, this one included.
type Action func(ctx context.Context, generation int64) error

// Trigger runs an action whenever one of a set of files changes.
type Trigger struct {
	watcher  FileWatcher
	paths    map[string]bool
	debounce time.Duration
	action   Action

	generation atomic.Int64
}

// NewTrigger runs action on changes to paths reported by watcher. Bursts of
// events closer than debounce apart start a single run.
func NewTrigger(watcher FileWatcher, paths []string, debounce time.Duration, action Action) *Trigger {
	t := &Trigger{
		watcher:  watcher,
		paths:    map[string]bool{},
		debounce: debounce,
		action:   action,
	}
	for _, p := range paths {
		t.paths[filepath.Clean(p)] = true
	}
	return t
}

// Generation returns the number of runs started.
func (t *Trigger) Generation() int64 {
	return t.generation.Load()
}

func (t *Trigger) matches(event fsnotify.Event) bool {
	if !t.paths[filepath.Clean(event.Name)] {
		return false
	}
	return event.Op&fsnotify.Write == fsnotify.Write ||
		event.Op&fsnotify.Create == fsnotify.Create ||
		event.Op&fsnotify.Rename == fsnotify.Rename
}

// Run runs the action once, then again after every change, until ctx is
// done or the watcher is closed. A change arriving while the action runs
// cancels it; runs never overlap.
func (t *Trigger) Run(ctx context.Context) {
	var (
		timer  *time.Timer
		fire   <-chan time.Time
		cancel context.CancelFunc = func() {}
		done   chan struct{}
	)
	stop := func() {
		cancel()
		if done != nil {
			<-done
			done = nil
		}
	}
	start := func() {
		stop()
		var runCtx context.Context
		runCtx, cancel = context.WithCancel(ctx)
		done = make(chan struct{})
		generation := t.generation.Inc()
		go func(finished chan struct{}) {
			defer close(finished)
			if err := t.action(runCtx, generation); err != nil {
				klog.ErrorS(err, "Triggered run failed", "generation", generation)
				return
			}
			klog.V(2).InfoS("Triggered run finished", "generation", generation)
		}(done)
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
		stop()
	}()

	start()
	eventCh := t.watcher.Events()
	errCh := t.watcher.Errors()
	for {
		select {
		case event, ok := <-eventCh:
			if !ok {
				return
			}
			klog.V(4).InfoS("Watch event", "event", event.String())
			if !t.matches(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(t.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(t.debounce)
			}
			fire = timer.C

		case err, ok := <-errCh:
			if !ok {
				return
			}
			klog.ErrorS(err, "Watch error")

		case <-fire:
			fire = nil
			klog.InfoS("Watched file changed, starting a new run", "generation", t.generation.Load()+1)
			start()

		case <-ctx.Done():
			return
		}
	}
}
