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

package framework

import (
	"sort"
	"sync"
)

var policyMutex sync.Mutex

// PolicyBuilder policy management
type PolicyBuilder = func(Arguments) Policy

// Policy management
var policyBuilders = map[string]PolicyBuilder{}

// RegisterPolicyBuilder register the policy
func RegisterPolicyBuilder(name string, pb PolicyBuilder) {
	policyMutex.Lock()
	defer policyMutex.Unlock()

	policyBuilders[name] = pb
}

// CleanupPolicyBuilders cleans up all the policies
func CleanupPolicyBuilders() {
	policyMutex.Lock()
	defer policyMutex.Unlock()

	policyBuilders = map[string]PolicyBuilder{}
}

// GetPolicyBuilder get the policy builder by name
func GetPolicyBuilder(name string) (PolicyBuilder, bool) {
	policyMutex.Lock()
	defer policyMutex.Unlock()

	pb, found := policyBuilders[name]
	return pb, found
}

// PolicyNames returns the registered policy names, sorted.
func PolicyNames() []string {
	policyMutex.Lock()
	defer policyMutex.Unlock()

	names := make([]string, 0, len(policyBuilders))
	for name := range policyBuilders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
