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

package policies

import (
	"jobplacer.sh/jobplacer/pkg/placement/framework"
	"jobplacer.sh/jobplacer/pkg/placement/policies/compact"
	"jobplacer.sh/jobplacer/pkg/placement/policies/locality"
	"jobplacer.sh/jobplacer/pkg/placement/policies/random"
	"jobplacer.sh/jobplacer/pkg/placement/policies/roundrobin"
)

func init() {
	// Policies driven by locality kernels
	framework.RegisterPolicyBuilder(locality.PolicyName, locality.New)

	// Baseline policies
	framework.RegisterPolicyBuilder(compact.PolicyName, compact.New)
	framework.RegisterPolicyBuilder(roundrobin.PolicyName, roundrobin.New)
	framework.RegisterPolicyBuilder(random.PolicyName, random.New)
}
