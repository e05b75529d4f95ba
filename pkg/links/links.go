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

// Package links enumerates the router-to-router links of a dragonfly
// interconnect, for network simulators that take link lists as input.
package links

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"jobplacer.sh/jobplacer/pkg/placement/api"
)

// Color is the class of a link.
type Color int32

const (
	// Green links connect routers of the same row of a group.
	Green Color = 0
	// Black links connect routers of the same column of a group.
	Black Color = 1
	// Blue links connect routers of different groups.
	Blue Color = 2
)

func (c Color) String() string {
	switch c {
	case Green:
		return "green"
	case Black:
		return "black"
	case Blue:
		return "blue"
	default:
		return fmt.Sprintf("Color(%d)", int32(c))
	}
}

// Link is a directed link between two routers.
type Link struct {
	Source      int
	Destination int
	Color       Color
}

func (l Link) String() string {
	return fmt.Sprintf("%d->%d(%s)", l.Source, l.Destination, l.Color)
}

// Source enumerates links. Walk stops at the first error returned by fn.
type Source interface {
	Walk(fn func(Link) error) error
}

// Dragonfly is the link layout of a groups x rows x columns dragonfly.
// Intra-group links are only listed for group 0 since every group has the
// same layout; routers are indexed relative to their group.
type Dragonfly struct {
	Groups  int
	Rows    int
	Columns int
}

var _ Source = &Dragonfly{}

// Validate reports every non-positive dimension.
func (d *Dragonfly) Validate() error {
	var errs error
	for _, dim := range []struct {
		name  string
		value int
	}{
		{"groups", d.Groups},
		{"rows", d.Rows},
		{"columns", d.Columns},
	} {
		if dim.value <= 0 {
			errs = multierror.Append(errs, fmt.Errorf("%s must be positive, got %d", dim.name, dim.value))
		}
	}
	if errs != nil {
		return api.ConfigurationErrorf("invalid dragonfly: %v", errs)
	}
	return nil
}

// Walk calls fn for every link, router by router in index order. A router's
// green links come first, then its black links, then its blue links.
func (d *Dragonfly) Walk(fn func(Link) error) error {
	if err := d.Validate(); err != nil {
		return err
	}

	perGroup := d.Rows * d.Columns
	router := 0
	for g := 0; g < d.Groups; g++ {
		for r := 0; r < d.Rows; r++ {
			for c := 0; c < d.Columns; c++ {
				if g == 0 {
					if err := d.walkIntra(router, r, c, fn); err != nil {
						return err
					}
				}
				if err := d.walkGlobal(router, perGroup, fn); err != nil {
					return err
				}
				router++
			}
		}
	}
	return nil
}

func (d *Dragonfly) walkIntra(router, row, column int, fn func(Link) error) error {
	for c := 0; c < d.Columns; c++ {
		if c == column {
			continue
		}
		if err := fn(Link{Source: router, Destination: row*d.Columns + c, Color: Green}); err != nil {
			return err
		}
	}
	for r := 0; r < d.Rows; r++ {
		if r == row {
			continue
		}
		if err := fn(Link{Source: router, Destination: r*d.Columns + column, Color: Black}); err != nil {
			return err
		}
	}
	return nil
}

// walkGlobal spreads the global links of a group over its routers: router k
// of group g reaches the groups k, k+perGroup, ... and lands on router g of
// those groups.
func (d *Dragonfly) walkGlobal(router, perGroup int, fn func(Link) error) error {
	offset := router % perGroup
	group := router / perGroup

	count := d.Groups / perGroup
	if offset < d.Groups%perGroup {
		count++
	}
	for i := 0; i < count; i++ {
		peer := i*perGroup + offset
		if peer == group {
			continue
		}
		dest := peer*perGroup + group%perGroup
		if err := fn(Link{Source: router, Destination: dest, Color: Blue}); err != nil {
			return err
		}
	}
	return nil
}
