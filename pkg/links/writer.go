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

package links

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Counts is the number of links written per file.
type Counts struct {
	Intra int
	Inter int
}

// Write streams the links of src as little-endian int32 records: intra-group
// links as (source, destination, color) to intra and global links as
// (source, destination) to inter.
func Write(src Source, intra, inter io.Writer) (Counts, error) {
	var counts Counts
	iw := bufio.NewWriter(intra)
	ew := bufio.NewWriter(inter)

	err := src.Walk(func(l Link) error {
		if l.Color == Blue {
			counts.Inter++
			return binary.Write(ew, binary.LittleEndian, [2]int32{int32(l.Source), int32(l.Destination)})
		}
		counts.Intra++
		return binary.Write(iw, binary.LittleEndian, [3]int32{int32(l.Source), int32(l.Destination), int32(l.Color)})
	})
	if err != nil {
		return counts, errors.Wrap(err, "failed to write link list")
	}
	if err := iw.Flush(); err != nil {
		return counts, errors.Wrap(err, "failed to flush intra-group links")
	}
	if err := ew.Flush(); err != nil {
		return counts, errors.Wrap(err, "failed to flush global links")
	}
	return counts, nil
}
