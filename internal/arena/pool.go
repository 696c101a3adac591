package arena

import (
	"errors"
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

var (
	// ErrFull is returned when a pool has no empty slot left.
	ErrFull = errors.New("arena: pool is full")
	// ErrReleased is returned when a pool is used after Free.
	ErrReleased = errors.New("arena: pool released")
)

// Ref addresses a slot inside a Pool.
type Ref int32

// Nil is the reference that addresses no slot.
const Nil Ref = -1

// Stats describes pool occupancy.
type Stats struct {
	Name     string
	Capacity int
	InUse    int
	Acquires uint64 // Historical: total successful acquisitions
	Resets   uint64 // Historical: number of Reset calls
}

// Pool is a fixed-capacity array of node slots.
type Pool struct {
	name     string
	dims     int
	capacity int

	coords []float32 // capacity * dims, slot i at [i*dims, (i+1)*dims)
	left   []Ref
	right  []Ref
	dist   []float32

	used  *bitset.BitSet
	inUse int

	acquires uint64
	resets   uint64
}

// New creates a pool with room for capacity points of dims coordinates each.
func New(name string, capacity, dims int) (*Pool, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("arena: invalid capacity %d", capacity)
	}
	if dims <= 0 {
		return nil, fmt.Errorf("arena: invalid dimensions %d", dims)
	}

	p := &Pool{
		name:     name,
		dims:     dims,
		capacity: capacity,
		coords:   make([]float32, capacity*dims),
		left:     make([]Ref, capacity),
		right:    make([]Ref, capacity),
		dist:     make([]float32, capacity),
		used:     bitset.New(uint(capacity)),
	}
	p.clearLinks()
	return p, nil
}

// Acquire claims the first empty slot, copies point into it and returns its
// reference. The scan always starts at slot 0.
func (p *Pool) Acquire(point []float32) (Ref, error) {
	if p.used == nil {
		return Nil, ErrReleased
	}
	idx, ok := p.used.NextClear(0)
	if !ok || idx >= uint(p.capacity) {
		return Nil, fmt.Errorf("%w: %s (capacity %d)", ErrFull, p.name, p.capacity)
	}

	r := Ref(idx) //nolint:gosec // idx < capacity which fits in int32
	p.used.Set(idx)
	p.inUse++
	p.acquires++

	copy(p.coords[p.offset(r):p.offset(r)+p.dims], point)
	p.left[r] = Nil
	p.right[r] = Nil
	p.dist[r] = 0
	return r, nil
}

// Release returns a slot to the empty state and clears its links.
func (p *Pool) Release(r Ref) {
	if !p.Occupied(r) {
		return
	}
	p.used.Clear(uint(r))
	p.inUse--
	p.left[r] = Nil
	p.right[r] = Nil
	p.dist[r] = 0
	clear(p.coords[p.offset(r) : p.offset(r)+p.dims])
}

// Reset empties every slot.
func (p *Pool) Reset() {
	if p.used == nil {
		return
	}
	p.used.ClearAll()
	p.inUse = 0
	p.resets++
	clear(p.coords)
	clear(p.dist)
	p.clearLinks()
}

// Free releases the backing storage. The pool is unusable afterwards.
func (p *Pool) Free() {
	p.coords = nil
	p.left = nil
	p.right = nil
	p.dist = nil
	p.used = nil
	p.inUse = 0
}

// Occupied reports whether r addresses an occupied slot.
func (p *Pool) Occupied(r Ref) bool {
	if p.used == nil || r < 0 || int(r) >= p.capacity {
		return false
	}
	return p.used.Test(uint(r))
}

// Point returns a view of the slot's coordinates.
// The view aliases pool memory and is only valid until the slot is released.
func (p *Pool) Point(r Ref) []float32 {
	off := p.offset(r)
	return p.coords[off : off+p.dims : off+p.dims]
}

// SetPoint overwrites the slot's coordinates.
func (p *Pool) SetPoint(r Ref, point []float32) {
	copy(p.coords[p.offset(r):p.offset(r)+p.dims], point)
}

// Left returns the left child of r.
func (p *Pool) Left(r Ref) Ref { return p.left[r] }

// Right returns the right child of r.
func (p *Pool) Right(r Ref) Ref { return p.right[r] }

// SetLeft links child as the left child of r.
func (p *Pool) SetLeft(r, child Ref) { p.left[r] = child }

// SetRight links child as the right child of r.
func (p *Pool) SetRight(r, child Ref) { p.right[r] = child }

// Distance returns the distance recorded for r during candidate collection.
func (p *Pool) Distance(r Ref) float32 { return p.dist[r] }

// SetDistance records the distance of r to the current query point.
func (p *Pool) SetDistance(r Ref, d float32) { p.dist[r] = d }

// Len returns the number of occupied slots.
func (p *Pool) Len() int { return p.inUse }

// Cap returns the fixed slot capacity.
func (p *Pool) Cap() int { return p.capacity }

// Dims returns the number of coordinates per slot.
func (p *Pool) Dims() int { return p.dims }

// Stats returns a snapshot of pool usage.
func (p *Pool) Stats() Stats {
	return Stats{
		Name:     p.name,
		Capacity: p.capacity,
		InUse:    p.inUse,
		Acquires: p.acquires,
		Resets:   p.resets,
	}
}

func (p *Pool) offset(r Ref) int {
	return int(r) * p.dims
}

func (p *Pool) clearLinks() {
	for i := range p.left {
		p.left[i] = Nil
		p.right[i] = Nil
	}
}
