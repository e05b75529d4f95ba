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

package conf

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/imdario/mergo"
	"github.com/pkg/errors"
	"gopkg.in/validator.v2"
	"gopkg.in/yaml.v2"
	"k8s.io/klog/v2"

	"jobplacer.sh/jobplacer/pkg/placement/api"
)

// ValidationError is returned when a scenario fails struct tag validation
type ValidationError struct {
	errorMap validator.ErrorMap
}

// ErrForField returns the validation error for the given field
func (e ValidationError) ErrForField(name string) error {
	return e.errorMap[name]
}

// Error returns the error string from a ValidationError
func (e ValidationError) Error() string {
	var w bytes.Buffer

	fields := make([]string, 0, len(e.errorMap))
	for f := range e.errorMap {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	fmt.Fprintf(&w, "validation failed")
	for _, f := range fields {
		fmt.Fprintf(&w, "; %s: %v", f, e.errorMap[f])
	}
	return w.String()
}

// Parse loads the given scenario files in order onto scenario, later files
// overriding earlier ones, and validates the result.
func Parse(scenario *Scenario, files ...string) error {
	if len(files) == 0 {
		return api.ConfigurationErrorf("no scenario files to load")
	}
	if err := Load(scenario, files...); err != nil {
		return err
	}
	return Validate(scenario)
}

// Load is Parse without the validation.
func Load(scenario *Scenario, files ...string) error {
	for _, fname := range files {
		data, err := os.ReadFile(fname)
		if err != nil {
			return api.ConfigurationErrorf("failed to read scenario %s: %v", fname, err)
		}
		layer := &Scenario{}
		if err := Unmarshal(data, layer); err != nil {
			return errors.Wrapf(err, "failed to load scenario %s", fname)
		}
		if err := Merge(scenario, layer); err != nil {
			return errors.Wrapf(err, "failed to merge scenario %s", fname)
		}
		klog.V(3).InfoS("Loaded scenario file", "path", fname)
	}
	return nil
}

// Unmarshal decodes one scenario document onto scenario.
func Unmarshal(data []byte, scenario *Scenario) error {
	if err := yaml.UnmarshalStrict(data, scenario); err != nil {
		return api.ConfigurationErrorf("%v", err)
	}
	return nil
}

// Merge sets every non-empty field of override on scenario. Policy
// arguments are merged key by key.
func Merge(scenario, override *Scenario) error {
	if err := mergo.Merge(scenario, override, mergo.WithOverride); err != nil {
		return api.ConfigurationErrorf("%v", err)
	}
	return nil
}

// Validate checks the scenario and collects every problem found.
func Validate(scenario *Scenario) error {
	var errs error
	if err := validator.Validate(scenario); err != nil {
		if errorMap, ok := err.(validator.ErrorMap); ok {
			errs = multierror.Append(errs, ValidationError{errorMap: errorMap})
		} else {
			errs = multierror.Append(errs, err)
		}
	}
	if err := scenario.Topology.Validate(); err != nil {
		errs = multierror.Append(errs, err)
	}
	for i, size := range scenario.Tasks {
		if size <= 0 {
			errs = multierror.Append(errs, fmt.Errorf("task %d requests %d cores", i, size))
		}
	}
	if sinks := scenario.Output.stdoutSinks(); len(sinks) > 1 {
		errs = multierror.Append(errs, fmt.Errorf("only one output can go to standard output, got %v", sinks))
	}
	if errs != nil {
		return api.ConfigurationErrorf("invalid scenario: %v", errs)
	}
	return nil
}
