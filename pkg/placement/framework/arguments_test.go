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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type GetIntTestCases struct {
	arg         Arguments
	key         string
	baseValue   int
	expectValue int
}

func TestArgumentsGetInt(t *testing.T) {
	key1 := "intkey"

	cases := []GetIntTestCases{
		{
			arg: Arguments{
				key1: 15,
			},
			key:         key1,
			baseValue:   10,
			expectValue: 15,
		},
		{
			arg: Arguments{
				key1: "16",
			},
			key:         key1,
			baseValue:   10,
			expectValue: 16,
		},
		{
			arg: Arguments{
				key1: 17.0,
			},
			key:         key1,
			baseValue:   10,
			expectValue: 17,
		},
		{
			arg: Arguments{
				key1: 17.5,
			},
			key:         key1,
			baseValue:   10,
			expectValue: 10,
		},
		{
			arg: Arguments{
				key1: "errorvalue",
			},
			key:         key1,
			baseValue:   11,
			expectValue: 11,
		},
		{
			arg: Arguments{
				key1: "",
			},
			key:         key1,
			baseValue:   0,
			expectValue: 0,
		},
	}

	for index, c := range cases {
		baseValue := c.baseValue
		c.arg.GetInt(nil, c.key)
		c.arg.GetInt(&baseValue, c.key)
		if baseValue != c.expectValue {
			t.Errorf("index %d, value should be %v, but not %v", index, c.expectValue, baseValue)
		}
	}
}

func TestArgumentsGetBoolAndString(t *testing.T) {
	args := Arguments{
		"a": true,
		"b": "false",
		"c": "maybe",
		"d": 12,
	}

	value := false
	args.GetBool(&value, "a")
	assert.True(t, value)
	args.GetBool(&value, "b")
	assert.False(t, value)
	value = true
	args.GetBool(&value, "c")
	assert.True(t, value)

	s := "unset"
	args.GetString(&s, "missing")
	assert.Equal(t, "unset", s)
	args.GetString(&s, "d")
	assert.Equal(t, "12", s)
}

func TestArgumentsDecode(t *testing.T) {
	type locality struct {
		Distribution string  `mapstructure:"distribution"`
		P            float64 `mapstructure:"p"`
		TightPercent int     `mapstructure:"tightPercent"`
	}

	out := locality{TightPercent: 97}
	err := Arguments{"distribution": "Geometric", "p": "0.3"}.Decode(&out)
	require.NoError(t, err)
	assert.Equal(t, locality{Distribution: "Geometric", P: 0.3, TightPercent: 97}, out)

	err = Arguments{"p": "high"}.Decode(&out)
	assert.Error(t, err)

	err = Arguments{"sigma": 2}.Decode(&out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sigma")
}
