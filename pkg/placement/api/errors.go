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

package api

import (
	"github.com/pkg/errors"
)

// Every failure of a placement run is fatal. The kind of failure is carried by
// one of the sentinels below; callers match it with errors.Is after the error
// has been wrapped with context.
var (
	// ErrConfiguration reports an invalid topology shape, kernel parameter or
	// task list, detected before any sampling starts.
	ErrConfiguration = errors.New("configuration error")

	// ErrAccountingInconsistency reports broken bookkeeping during or after
	// sampling: negative acceptance mass, an exhausted pool, a retry budget
	// overrun or a task whose final core count differs from its request.
	ErrAccountingInconsistency = errors.New("accounting inconsistency")

	// ErrAddressingOutOfRange reports a rank or coordinate outside the index
	// space of the level being converted.
	ErrAddressingOutOfRange = errors.New("addressing out of range")
)

// ConfigurationErrorf wraps ErrConfiguration with a formatted message.
func ConfigurationErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrConfiguration, format, args...)
}

// AccountingErrorf wraps ErrAccountingInconsistency with a formatted message.
func AccountingErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrAccountingInconsistency, format, args...)
}

// OutOfRangeErrorf wraps ErrAddressingOutOfRange with a formatted message.
func OutOfRangeErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrAddressingOutOfRange, format, args...)
}
