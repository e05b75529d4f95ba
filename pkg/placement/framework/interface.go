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

import "context"

// Policy is the interface of a placement policy. A policy hands out the
// cores of the session topology to every task of the session.
type Policy interface {
	// The unique name of Policy.
	Name() string

	// Place assigns every task of the session its requested number of cores.
	Place(ctx context.Context, ssn *Session) error
}
