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

// Package output turns an assignment into per-core records and writes them
// to the configured sinks.
package output

//go:generate mockgen -destination=mocks/mock_sink.go -package=mocks jobplacer.sh/jobplacer/pkg/placement/output Sink

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"jobplacer.sh/jobplacer/pkg/placement/api"
)

// Record is one placed core: its coordinates and the zero-based id of the
// task owning it.
type Record struct {
	Group  int32
	Row    int32
	Column int32
	Node   int32
	Core   int32
	Task   int32
}

func (r Record) String() string {
	return fmt.Sprintf("%d,%d,%d,%d,%d,%d", r.Group, r.Row, r.Column, r.Node, r.Core, r.Task)
}

// Sink receives the records of one run.
type Sink interface {
	Write(r Record) error
	Close() error
}

// Records lists the assigned cores of a, grouped by task id ascending and by
// rank ascending within a task.
func Records(a *api.Assignment) ([]Record, error) {
	topo := a.Topology()
	slots := a.Slots()

	// counting sort of the ranks by owner
	offsets := make([]int, a.TaskCount()+1)
	for _, slot := range slots {
		if slot > 0 {
			offsets[slot]++
		}
	}
	for i := 1; i < len(offsets); i++ {
		offsets[i] += offsets[i-1]
	}
	ranks := make([]int, offsets[len(offsets)-1])
	next := make([]int, a.TaskCount())
	copy(next, offsets[:a.TaskCount()])
	for rank, slot := range slots {
		if slot > 0 {
			ranks[next[slot-1]] = rank
			next[slot-1]++
		}
	}

	records := make([]Record, len(ranks))
	for i, rank := range ranks {
		c, err := topo.RankToCoordinates(rank)
		if err != nil {
			return nil, err
		}
		records[i] = Record{
			Group:  int32(c.Group),
			Row:    int32(c.Row),
			Column: int32(c.Column),
			Node:   int32(c.Node),
			Core:   int32(c.Core),
			Task:   slots[rank] - 1,
		}
	}
	return records, nil
}

// Emit writes every record to every sink, then closes all sinks. Writing
// stops at the first failure.
func Emit(records []Record, sinks ...Sink) error {
	var errs error
	if err := writeAll(records, sinks); err != nil {
		errs = multierror.Append(errs, err)
	}
	for _, s := range sinks {
		if err := s.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs
}

func writeAll(records []Record, sinks []Sink) error {
	for _, r := range records {
		for _, s := range sinks {
			if err := s.Write(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// Create opens path for writing, "-" being standard output, which is never
// closed.
func Create(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", path)
	}
	return f, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
