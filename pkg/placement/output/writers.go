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

package output

import (
	"bufio"
	"encoding/binary"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// CSVHeader is the first line of the csv listing.
var CSVHeader = []string{"g", "r", "c", "n", "core", "jobid"}

// BinaryWriter packs records as six little-endian int32 values each.
type BinaryWriter struct {
	w      io.WriteCloser
	buf    *bufio.Writer
	record [6]int32
}

// NewBinaryWriter returns a sink packing records into w. Closing the sink
// closes w.
func NewBinaryWriter(w io.WriteCloser) *BinaryWriter {
	return &BinaryWriter{w: w, buf: bufio.NewWriter(w)}
}

func (bw *BinaryWriter) Write(r Record) error {
	bw.record = [6]int32{r.Group, r.Row, r.Column, r.Node, r.Core, r.Task}
	if err := binary.Write(bw.buf, binary.LittleEndian, bw.record); err != nil {
		return errors.Wrap(err, "failed to write binary record")
	}
	return nil
}

func (bw *BinaryWriter) Close() error {
	if err := bw.buf.Flush(); err != nil {
		bw.w.Close()
		return errors.Wrap(err, "failed to flush binary records")
	}
	return bw.w.Close()
}

// CSVWriter lists records as csv lines below CSVHeader.
type CSVWriter struct {
	w      io.WriteCloser
	csv    *csv.Writer
	header bool
	fields []string
}

// NewCSVWriter returns a sink listing records into w. Closing the sink
// closes w.
func NewCSVWriter(w io.WriteCloser) *CSVWriter {
	return &CSVWriter{w: w, csv: csv.NewWriter(w), fields: make([]string, 6)}
}

func (cw *CSVWriter) writeHeader() error {
	if cw.header {
		return nil
	}
	cw.header = true
	return cw.csv.Write(CSVHeader)
}

func (cw *CSVWriter) Write(r Record) error {
	if err := cw.writeHeader(); err != nil {
		return errors.Wrap(err, "failed to write csv header")
	}
	for i, v := range []int32{r.Group, r.Row, r.Column, r.Node, r.Core, r.Task} {
		cw.fields[i] = strconv.FormatInt(int64(v), 10)
	}
	if err := cw.csv.Write(cw.fields); err != nil {
		return errors.Wrap(err, "failed to write csv record")
	}
	return nil
}

func (cw *CSVWriter) Close() error {
	err := cw.writeHeader()
	cw.csv.Flush()
	if err == nil {
		err = cw.csv.Error()
	}
	if cerr := cw.w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.Wrap(err, "failed to close csv listing")
	}
	return nil
}
