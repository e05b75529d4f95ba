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

import "fmt"

// Coordinates locates a core in the hierarchy.
type Coordinates struct {
	Group  int
	Row    int
	Column int
	Node   int
	Core   int
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%d,%d,%d,%d,%d", c.Group, c.Row, c.Column, c.Node, c.Core)
}

// RankToCoordinates decodes a core rank, innermost level first.
func (t *Topology) RankToCoordinates(rank int) (Coordinates, error) {
	if rank < 0 || rank >= t.coreCount {
		return Coordinates{}, OutOfRangeErrorf("core rank %d not in [0,%d)", rank, t.coreCount)
	}

	var c Coordinates
	c.Core = rank % t.shape.CoresPerNode
	rank /= t.shape.CoresPerNode

	c.Node = rank % t.shape.NodesPerRouter
	rank /= t.shape.NodesPerRouter

	c.Column = rank % t.shape.Columns
	rank /= t.shape.Columns

	c.Row = rank % t.shape.Rows
	rank /= t.shape.Rows

	c.Group = rank % t.shape.Groups
	return c, nil
}

// CoordinatesToRank is the inverse of RankToCoordinates.
func (t *Topology) CoordinatesToRank(c Coordinates) (int, error) {
	router, err := t.RouterIndex(c.Group, c.Row, c.Column)
	if err != nil {
		return 0, err
	}
	if c.Node < 0 || c.Node >= t.shape.NodesPerRouter {
		return 0, OutOfRangeErrorf("node %d not in [0,%d)", c.Node, t.shape.NodesPerRouter)
	}
	if c.Core < 0 || c.Core >= t.shape.CoresPerNode {
		return 0, OutOfRangeErrorf("core %d not in [0,%d)", c.Core, t.shape.CoresPerNode)
	}
	return (router*t.shape.NodesPerRouter+c.Node)*t.shape.CoresPerNode + c.Core, nil
}

// RouterIndex returns group*(rows*columns) + row*columns + column.
func (t *Topology) RouterIndex(group, row, column int) (int, error) {
	switch {
	case group < 0 || group >= t.shape.Groups:
		return 0, OutOfRangeErrorf("group %d not in [0,%d)", group, t.shape.Groups)
	case row < 0 || row >= t.shape.Rows:
		return 0, OutOfRangeErrorf("row %d not in [0,%d)", row, t.shape.Rows)
	case column < 0 || column >= t.shape.Columns:
		return 0, OutOfRangeErrorf("column %d not in [0,%d)", column, t.shape.Columns)
	}
	return group*t.routersPerGroup + row*t.shape.Columns + column, nil
}

// RouterCoordinates returns the (group, row, column) of a router index.
func (t *Topology) RouterCoordinates(router int) (group, row, column int, err error) {
	if router < 0 || router >= t.routerCount {
		return 0, 0, 0, OutOfRangeErrorf("router %d not in [0,%d)", router, t.routerCount)
	}
	column = router % t.shape.Columns
	router /= t.shape.Columns
	row = router % t.shape.Rows
	group = router / t.shape.Rows
	return group, row, column, nil
}

// NodeCoordinates returns the coordinates of the first core of a node.
func (t *Topology) NodeCoordinates(node int) (Coordinates, error) {
	if node < 0 || node >= t.nodeCount {
		return Coordinates{}, OutOfRangeErrorf("node %d not in [0,%d)", node, t.nodeCount)
	}
	return t.RankToCoordinates(node * t.shape.CoresPerNode)
}

// FirstNodeOfRouter returns the index of the first node behind a router.
func (t *Topology) FirstNodeOfRouter(router int) (int, error) {
	if router < 0 || router >= t.routerCount {
		return 0, OutOfRangeErrorf("router %d not in [0,%d)", router, t.routerCount)
	}
	return router * t.shape.NodesPerRouter, nil
}

// FirstCoreOfRouter returns the rank of the first core behind a router.
func (t *Topology) FirstCoreOfRouter(router int) (int, error) {
	if router < 0 || router >= t.routerCount {
		return 0, OutOfRangeErrorf("router %d not in [0,%d)", router, t.routerCount)
	}
	return router * t.coresPerRouter, nil
}

// FirstCoreOfNode returns the rank of the first core of a node.
func (t *Topology) FirstCoreOfNode(node int) (int, error) {
	if node < 0 || node >= t.nodeCount {
		return 0, OutOfRangeErrorf("node %d not in [0,%d)", node, t.nodeCount)
	}
	return node * t.shape.CoresPerNode, nil
}

// FirstCoreOfUnit returns the rank of the first core of a unit at any level.
func (t *Topology) FirstCoreOfUnit(level Level, unit int) (int, error) {
	if count := t.UnitCount(level); unit < 0 || unit >= count {
		return 0, OutOfRangeErrorf("%s %d not in [0,%d)", level, unit, count)
	}
	return unit * t.CoresPerUnit(level), nil
}
