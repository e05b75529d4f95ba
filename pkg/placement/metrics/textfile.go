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

package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"k8s.io/klog/v2"
)

// WriteTextfile dumps every registered collector of the default registry to
// path in the text exposition format, for the node exporter textfile
// collector. The file is replaced atomically.
func WriteTextfile(path string) error {
	return writeTextfile(prometheus.DefaultGatherer, path)
}

func writeTextfile(g prometheus.Gatherer, path string) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return errors.Wrapf(err, "failed to write metrics to %s", path)
	}
	klog.V(3).InfoS("Wrote metrics textfile", "path", path)
	return nil
}
