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
	"fmt"
	"strconv"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Arguments map
type Arguments map[string]interface{}

// GetInt get the integer value from string or number
func (a Arguments) GetInt(ptr *int, key string) {
	if ptr == nil {
		return
	}

	argv, ok := a[key]
	if !ok {
		return
	}

	switch v := argv.(type) {
	case int:
		*ptr = v
	case int64:
		*ptr = int(v)
	case float64:
		if v != float64(int(v)) {
			klog.Warningf("Could not parse argument: %v for key %s to int, value is fractional", argv, key)
			return
		}
		*ptr = int(v)
	default:
		valueStr := fmt.Sprint(argv)
		value, err := strconv.Atoi(valueStr)
		if err != nil {
			klog.Warningf("Could not parse argument: %v for key %s to int, with err %v", argv, key, err.Error())
			return
		}
		*ptr = value
	}
}

// GetBool get the bool value from string or bool
func (a Arguments) GetBool(ptr *bool, key string) {
	if ptr == nil {
		return
	}

	argv, ok := a[key]
	if !ok {
		return
	}

	if v, isBool := argv.(bool); isBool {
		*ptr = v
		return
	}

	value, err := strconv.ParseBool(fmt.Sprint(argv))
	if err != nil {
		klog.Warningf("Could not parse argument: %v for key %s to bool, with err %v", argv, key, err.Error())
		return
	}

	*ptr = value
}

// GetString get the string value
func (a Arguments) GetString(ptr *string, key string) {
	if ptr == nil {
		return
	}

	argv, ok := a[key]
	if !ok || argv == nil {
		return
	}

	*ptr = fmt.Sprint(argv)
}

// Decode weakly decodes the arguments into the struct pointed to by out,
// matching keys to `mapstructure` tags. Keys unknown to out are an error.
func (a Arguments) Decode(out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return errors.Wrap(err, "failed to build arguments decoder")
	}
	if err := decoder.Decode(map[string]interface{}(a)); err != nil {
		return errors.Wrap(err, "failed to decode arguments")
	}
	return nil
}
