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
	"fmt"
	"math"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Shape is the size of every level of the interconnect hierarchy.
type Shape struct {
	Groups         int `json:"groups" yaml:"groups"`
	Rows           int `json:"rows" yaml:"rows"`
	Columns        int `json:"columns" yaml:"columns"`
	NodesPerRouter int `json:"nodesPerRouter" yaml:"nodesPerRouter"`
	CoresPerNode   int `json:"coresPerNode" yaml:"coresPerNode"`
}

// String returns the shape as groups x rows x columns x nodes x cores.
func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%dx%dx%d", s.Groups, s.Rows, s.Columns, s.NodesPerRouter, s.CoresPerNode)
}

// Validate returns every non-positive dimension of the shape.
func (s Shape) Validate() error {
	var errs error
	dims := []struct {
		name  string
		value int
	}{
		{"groups", s.Groups},
		{"rows", s.Rows},
		{"columns", s.Columns},
		{"nodesPerRouter", s.NodesPerRouter},
		{"coresPerNode", s.CoresPerNode},
	}
	for _, d := range dims {
		if d.value <= 0 {
			errs = multierror.Append(errs, ConfigurationErrorf("topology dimension %s must be positive, got %d", d.name, d.value))
		}
	}
	return errs
}

// Topology is an immutable shape together with its derived counts.
type Topology struct {
	shape Shape

	routersPerGroup int
	routerCount     int
	nodeCount       int
	coreCount       int
	coresPerRouter  int
}

// NewTopology validates the shape and caches the derived counts.
func NewTopology(shape Shape) (*Topology, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	product := 1
	for _, d := range []int{shape.Groups, shape.Rows, shape.Columns, shape.NodesPerRouter, shape.CoresPerNode} {
		if product > math.MaxInt32/d {
			return nil, ConfigurationErrorf("topology %s has more than %d cores", shape, math.MaxInt32)
		}
		product *= d
	}

	t := &Topology{
		shape:           shape,
		routersPerGroup: shape.Rows * shape.Columns,
		coresPerRouter:  shape.NodesPerRouter * shape.CoresPerNode,
	}
	t.routerCount = shape.Groups * t.routersPerGroup
	t.nodeCount = t.routerCount * shape.NodesPerRouter
	t.coreCount = t.nodeCount * shape.CoresPerNode
	return t, nil
}

// Shape returns the topology shape.
func (t *Topology) Shape() Shape { return t.shape }

// RouterCount returns groups*rows*columns.
func (t *Topology) RouterCount() int { return t.routerCount }

// NodeCount returns routerCount*nodesPerRouter.
func (t *Topology) NodeCount() int { return t.nodeCount }

// CoreCount returns nodeCount*coresPerNode.
func (t *Topology) CoreCount() int { return t.coreCount }

// CoresPerRouter returns nodesPerRouter*coresPerNode.
func (t *Topology) CoresPerRouter() int { return t.coresPerRouter }

// CoresPerNode returns the number of cores of one node.
func (t *Topology) CoresPerNode() int { return t.shape.CoresPerNode }

// NodesPerRouter returns the number of nodes attached to one router.
func (t *Topology) NodesPerRouter() int { return t.shape.NodesPerRouter }

// RoutersPerGroup returns rows*columns.
func (t *Topology) RoutersPerGroup() int { return t.routersPerGroup }

// Level is a granularity of the hierarchy at which cores can be handed out.
type Level string

const (
	// LevelCore is a single core.
	LevelCore Level = "core"
	// LevelNode is all the cores of a node.
	LevelNode Level = "node"
	// LevelRouter is all the cores behind a router.
	LevelRouter Level = "router"
	// LevelRow is all the routers of one row of a group, the chassis of a
	// dragonfly cabinet.
	LevelRow Level = "row"
	// LevelGroup is a whole group.
	LevelGroup Level = "group"
)

// ParseLevel converts a case-insensitive level name.
func ParseLevel(name string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(name))); l {
	case LevelCore, LevelNode, LevelRouter, LevelRow, LevelGroup:
		return l, nil
	case "chassis":
		return LevelRow, nil
	default:
		return "", ConfigurationErrorf("unknown topology level %q", name)
	}
}

// CoresPerUnit returns how many cores one unit of the level covers.
func (t *Topology) CoresPerUnit(level Level) int {
	switch level {
	case LevelCore:
		return 1
	case LevelNode:
		return t.shape.CoresPerNode
	case LevelRouter:
		return t.coresPerRouter
	case LevelRow:
		return t.shape.Columns * t.coresPerRouter
	case LevelGroup:
		return t.routersPerGroup * t.coresPerRouter
	default:
		panic(fmt.Sprintf("unknown topology level %q", level))
	}
}

// UnitCount returns how many units of the level the topology has.
func (t *Topology) UnitCount(level Level) int {
	return t.coreCount / t.CoresPerUnit(level)
}

// UnitsPerGroup returns how many units of the level one group holds.
func (t *Topology) UnitsPerGroup(level Level) int {
	return t.UnitCount(level) / t.shape.Groups
}
