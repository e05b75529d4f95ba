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

// Package filewatcher reports changes of a set of files by watching their
// directories, and re-runs an action once the changes settle.
package filewatcher

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/util/sets"
)

// FileWatcher is an interface watching the underlying OS file path.
type FileWatcher interface {
	Events() chan fsnotify.Event
	Errors() chan error
	Close()
}

type fileWatcher struct {
	watcher *fsnotify.Watcher
}

// NewFileWatcher watches the directories holding paths. Editors replace
// files instead of writing them in place, so watching a file itself would
// lose track of it after the first save.
func NewFileWatcher(paths ...string) (FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create file watcher")
	}

	dirs := sets.New[string]()
	for _, path := range paths {
		dirs.Insert(filepath.Dir(filepath.Clean(path)))
	}
	for _, dir := range sets.List(dirs) {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, errors.Wrapf(err, "failed to watch %s", dir)
		}
	}

	return &fileWatcher{
		watcher: watcher,
	}, nil
}

// Events returns the event channel.
func (w *fileWatcher) Events() chan fsnotify.Event {
	if w == nil || w.watcher == nil {
		return nil
	}
	return w.watcher.Events
}

// Errors returns the error channel.
func (w *fileWatcher) Errors() chan error {
	if w == nil || w.watcher == nil {
		return nil
	}
	return w.watcher.Errors
}

// Close closes the file watcher.
func (w *fileWatcher) Close() {
	if w == nil || w.watcher == nil {
		return
	}
	w.watcher.Close()
}
