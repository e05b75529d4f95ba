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

package sampler

// Pool is the set of still free indices of one index space. Picking a
// uniformly random member and removing any member are O(1).
type Pool struct {
	items []int
	// pos[i] is the position of i in items, -1 once removed.
	pos []int
}

// NewPool returns a pool holding every index of [0,size).
func NewPool(size int) *Pool {
	p := &Pool{
		items: make([]int, size),
		pos:   make([]int, size),
	}
	for i := 0; i < size; i++ {
		p.items[i] = i
		p.pos[i] = i
	}
	return p
}

// Len returns the number of free indices.
func (p *Pool) Len() int {
	return len(p.items)
}

// Capacity returns the size of the index space.
func (p *Pool) Capacity() int {
	return len(p.pos)
}

// Has reports whether i is still free.
func (p *Pool) Has(i int) bool {
	return i >= 0 && i < len(p.pos) && p.pos[i] >= 0
}

// Pick returns a uniformly chosen free index without removing it. The pool
// must not be empty.
func (p *Pool) Pick(rng Rand) int {
	return p.items[rng.Intn(len(p.items))]
}

// Remove takes i out of the pool and reports whether it was free.
func (p *Pool) Remove(i int) bool {
	if !p.Has(i) {
		return false
	}
	at := p.pos[i]
	last := len(p.items) - 1
	moved := p.items[last]
	p.items[at] = moved
	p.pos[moved] = at
	p.items = p.items[:last]
	p.pos[i] = -1
	return true
}

// Items returns a copy of the free indices in pool order.
func (p *Pool) Items() []int {
	out := make([]int, len(p.items))
	copy(out, p.items)
	return out
}
