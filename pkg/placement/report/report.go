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

// Package report summarises how local the placement of every task is.
package report

import (
	"io"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"k8s.io/apimachinery/pkg/util/sets"
	"sigs.k8s.io/yaml"

	"jobplacer.sh/jobplacer/pkg/placement/api"
)

// LevelSystem is the tier of a task spanning several groups.
const LevelSystem api.Level = "system"

// Report is the locality report of one run.
type Report struct {
	RunUID   string          `json:"runUID"`
	Seed     int64           `json:"seed"`
	Policy   string          `json:"policy"`
	Topology api.Shape       `json:"topology"`
	Tasks    []TaskFootprint `json:"tasks"`
	Summary  Summary         `json:"summary"`
}

// TaskFootprint describes the part of the machine a task occupies.
type TaskFootprint struct {
	Task    int `json:"task"`
	Size    int `json:"size"`
	Nodes   int `json:"nodes"`
	Routers int `json:"routers"`
	Rows    int `json:"rows"`
	Groups  int `json:"groups"`
	// Tier is the smallest level with a single unit holding the whole task.
	Tier api.Level `json:"tier"`
	// Packing is the share of the cores behind the touched routers that the
	// task uses.
	Packing float64 `json:"packing"`
}

// Summary aggregates the footprints of all tasks.
type Summary struct {
	Routers     Distribution   `json:"routers"`
	Groups      Distribution   `json:"groups"`
	Packing     Distribution   `json:"packing"`
	TierCounts  map[string]int `json:"tierCounts"`
	FreeCores   int            `json:"freeCores"`
	PlacedCores int            `json:"placedCores"`
}

// Distribution describes a sample.
type Distribution struct {
	Min    float64 `json:"min"`
	Mean   float64 `json:"mean"`
	Max    float64 `json:"max"`
	P25    float64 `json:"p25"`
	Median float64 `json:"median"`
	P75    float64 `json:"p75"`
}

// Describe returns the distribution of values. An empty sample gives zeros.
func Describe(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return Distribution{
		Min:    floats.Min(sorted),
		Mean:   stat.Mean(sorted, nil),
		Max:    floats.Max(sorted),
		P25:    stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P75:    stat.Quantile(0.75, stat.Empirical, sorted, nil),
	}
}

// Footprint computes the footprint of task in a.
func Footprint(a *api.Assignment, task *api.Task) (TaskFootprint, error) {
	topo := a.Topology()
	nodes := sets.New[int]()
	routers := sets.New[int]()
	rows := sets.New[int]()
	groups := sets.New[int]()

	for _, rank := range a.Cores(task.ID) {
		c, err := topo.RankToCoordinates(rank)
		if err != nil {
			return TaskFootprint{}, err
		}
		router, err := topo.RouterIndex(c.Group, c.Row, c.Column)
		if err != nil {
			return TaskFootprint{}, err
		}
		nodes.Insert(rank / topo.CoresPerNode())
		routers.Insert(router)
		rows.Insert(c.Group*topo.Shape().Rows + c.Row)
		groups.Insert(c.Group)
	}

	fp := TaskFootprint{
		Task:    int(task.ID),
		Size:    task.Size,
		Nodes:   nodes.Len(),
		Routers: routers.Len(),
		Rows:    rows.Len(),
		Groups:  groups.Len(),
	}
	switch {
	case fp.Nodes <= 1:
		fp.Tier = api.LevelNode
	case fp.Routers == 1:
		fp.Tier = api.LevelRouter
	case fp.Rows == 1:
		fp.Tier = api.LevelRow
	case fp.Groups == 1:
		fp.Tier = api.LevelGroup
	default:
		fp.Tier = LevelSystem
	}
	if fp.Routers > 0 {
		fp.Packing = float64(a.Count(task.ID)) / float64(fp.Routers*topo.CoresPerRouter())
	}
	return fp, nil
}

// Build computes the report of a finished run.
func Build(runUID string, seed int64, policy string, a *api.Assignment, tasks []*api.Task) (*Report, error) {
	r := &Report{
		RunUID:   runUID,
		Seed:     seed,
		Policy:   policy,
		Topology: a.Topology().Shape(),
		Tasks:    make([]TaskFootprint, 0, len(tasks)),
	}

	routers := make([]float64, 0, len(tasks))
	groups := make([]float64, 0, len(tasks))
	packing := make([]float64, 0, len(tasks))
	tiers := map[string]int{}
	for _, task := range tasks {
		fp, err := Footprint(a, task)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to compute footprint of %s", task)
		}
		r.Tasks = append(r.Tasks, fp)
		routers = append(routers, float64(fp.Routers))
		groups = append(groups, float64(fp.Groups))
		packing = append(packing, fp.Packing)
		tiers[string(fp.Tier)]++
		r.Summary.PlacedCores += a.Count(task.ID)
	}
	r.Summary.Routers = Describe(routers)
	r.Summary.Groups = Describe(groups)
	r.Summary.Packing = Describe(packing)
	r.Summary.TierCounts = tiers
	r.Summary.FreeCores = a.Free()
	return r, nil
}

// Write renders r as YAML to w.
func Write(w io.Writer, r *Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "failed to marshal locality report")
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "failed to write locality report")
	}
	return nil
}
