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

// Package linkstats summarises per-link traffic counters produced by a
// network simulation, split by link class.
package linkstats

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"jobplacer.sh/jobplacer/pkg/placement/api"
)

// Class selects the links a statistic covers.
type Class string

const (
	// All covers every link.
	All Class = "all"
	// Green covers intra-row links.
	Green Class = "g"
	// Black covers intra-column links.
	Black Class = "k"
	// Blue covers global links.
	Blue Class = "b"
)

// Classes lists the classes in report order.
var Classes = []Class{All, Green, Black, Blue}

// TotalColumn selects the aggregate counter instead of a job's.
const TotalColumn = -1

// Percentiles are the quantiles reported for every class.
var Percentiles = []float64{0, 0.25, 0.5, 0.75, 1}

var leadingColumns = []string{"sg", "sr", "sc", "dg", "dr", "dc", "color", "bytes"}

const (
	colorColumn = 6
	bytesColumn = 7
)

// Table holds the counters of every link.
type Table struct {
	colors []Class
	// counters[0] is the aggregate, counters[1+j] is job j.
	counters [][]float64
}

// Read parses a link counter CSV. The header must start with
// sg,sr,sc,dg,dr,dc,color,bytes and may carry one column per job.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, api.ConfigurationErrorf("failed to read link counter header: %v", err)
	}
	if len(header) < len(leadingColumns) {
		return nil, api.ConfigurationErrorf("link counter header has %d columns, need at least %d", len(header), len(leadingColumns))
	}
	for i, name := range leadingColumns {
		if strings.TrimSpace(header[i]) != name {
			return nil, api.ConfigurationErrorf("link counter column %d is %q, expected %q", i, header[i], name)
		}
	}
	for j, name := range header[len(leadingColumns):] {
		if expected := fmt.Sprintf("job%d", j); strings.TrimSpace(name) != expected {
			return nil, api.ConfigurationErrorf("link counter column %d is %q, expected %q", len(leadingColumns)+j, name, expected)
		}
	}

	t := &Table{counters: make([][]float64, len(header)-bytesColumn)}
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, api.ConfigurationErrorf("failed to read link counters at line %d: %v", line, err)
		}
		color := Class(strings.TrimSpace(record[colorColumn]))
		if color != Green && color != Black && color != Blue {
			return nil, api.ConfigurationErrorf("unknown link color %q at line %d", record[colorColumn], line)
		}
		t.colors = append(t.colors, color)
		for k := range t.counters {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[bytesColumn+k]), 64)
			if err != nil {
				return nil, api.ConfigurationErrorf("invalid counter %q in column %s at line %d", record[bytesColumn+k], header[bytesColumn+k], line)
			}
			t.counters[k] = append(t.counters[k], v)
		}
	}
	return t, nil
}

// Jobs returns the number of per-job columns.
func (t *Table) Jobs() int {
	return len(t.counters) - 1
}

// Links returns the number of links.
func (t *Table) Links() int {
	return len(t.colors)
}

// Column returns the counters of one class, for the aggregate column or for
// one job.
func (t *Table) Column(job int, class Class) ([]float64, error) {
	if job < TotalColumn || job >= t.Jobs() {
		return nil, api.OutOfRangeErrorf("job %d not in [0,%d)", job, t.Jobs())
	}
	counters := t.counters[job+1]
	if class == All {
		out := make([]float64, len(counters))
		copy(out, counters)
		return out, nil
	}
	var out []float64
	for i, c := range t.colors {
		if c == class {
			out = append(out, counters[i])
		}
	}
	return out, nil
}

// Stats summarises the counters of one class.
type Stats struct {
	Job   int
	Class Class
	Links int
	Min   float64
	Avg   float64
	Max   float64
	// NonZero counts links that carried any traffic; NonZeroAvg averages
	// over those links only.
	NonZero     int
	NonZeroAvg  float64
	Percentiles []float64
}

// Summarize computes the statistics of values. An empty sample yields zero
// statistics.
func Summarize(job int, class Class, values []float64) Stats {
	s := Stats{Job: job, Class: class, Links: len(values), Percentiles: make([]float64, len(Percentiles))}
	if len(values) == 0 {
		return s
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s.Min = floats.Min(sorted)
	s.Max = floats.Max(sorted)
	s.Avg = stat.Mean(sorted, nil)
	s.NonZero = floats.Count(func(v float64) bool { return v != 0 }, sorted)
	if s.NonZero > 0 {
		s.NonZeroAvg = floats.Sum(sorted) / float64(s.NonZero)
	}
	for i, p := range Percentiles {
		s.Percentiles[i] = stat.Quantile(p, stat.LinInterp, sorted, nil)
	}
	return s
}

// Report returns the statistics of every class for the aggregate column or
// one job.
func (t *Table) Report(job int) ([]Stats, error) {
	out := make([]Stats, 0, len(Classes))
	for _, class := range Classes {
		values, err := t.Column(job, class)
		if err != nil {
			return nil, err
		}
		out = append(out, Summarize(job, class, values))
	}
	return out, nil
}

// ReportHeader is the header line written by WriteReport.
var ReportHeader = []string{"jobid", "color", "links", "min", "avg", "max", "nonzero", "nzavg", "p0", "p25", "p50", "p75", "p100"}

// WriteReport writes stats as CSV with three decimals.
func WriteReport(w io.Writer, stats []Stats) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ReportHeader); err != nil {
		return errors.Wrap(err, "failed to write link statistics header")
	}
	for _, s := range stats {
		row := []string{
			strconv.Itoa(s.Job),
			string(s.Class),
			strconv.Itoa(s.Links),
			format(s.Min),
			format(s.Avg),
			format(s.Max),
			strconv.Itoa(s.NonZero),
			format(s.NonZeroAvg),
		}
		for _, p := range s.Percentiles {
			row = append(row, format(p))
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "failed to write link statistics of class %s", s.Class)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "failed to flush link statistics")
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
