package arena

import (
	"github.com/boljen/go-bitmap"

	"github.com/voidshard/roadgraph/internal/encoding"
)

// ID is a handle into an Arena. The high 32 bits hold the slot generation,
// the low 32 bits the slot index. The zero ID is never valid.
type ID uint64

// newID packs a generation & slot index
func newID(gen, index uint32) ID {
	return ID(encoding.Merge32(gen, index))
}

// Index returns the slot index of the handle
func (i ID) Index() int {
	_, idx := encoding.Split64(uint64(i))
	return int(idx)
}

// Generation returns the slot generation the handle was issued for
func (i ID) Generation() uint32 {
	gen, _ := encoding.Split64(uint64(i))
	return gen
}

// Arena stores values in slots addressed by generation-checked handles.
// Slots are reused after removal; each reuse bumps the generation so handles
// to the old value stop validating rather than aliasing the new one.
type Arena[T any] struct {
	items []T
	gens  []uint32
	live  bitmap.Bitmap
	free  []uint32
	count int
}

// New returns an empty arena
func New[T any]() *Arena[T] {
	return &Arena[T]{
		items: []T{},
		gens:  []uint32{},
		live:  bitmap.New(0),
		free:  []uint32{},
	}
}

// Len returns the number of live values
func (a *Arena[T]) Len() int {
	return a.count
}

// Insert stores v & returns its handle
func (a *Arena[T]) Insert(v T) ID {
	var idx uint32
	if len(a.free) > 0 {
		idx = a.free[len(a.free)-1]
		a.free = a.free[:len(a.free)-1]
		a.items[idx] = v
	} else {
		idx = uint32(len(a.items))
		a.items = append(a.items, v)
		a.gens = append(a.gens, 1)
		a.grow(len(a.items))
	}

	a.live.Set(int(idx), true)
	a.count++

	return newID(a.gens[idx], idx)
}

// Valid returns if id refers to a live value
func (a *Arena[T]) Valid(id ID) bool {
	idx := id.Index()
	if idx < 0 || idx >= len(a.items) {
		return false
	}
	return a.live.Get(idx) && a.gens[idx] == id.Generation()
}

// Get returns the value for id, false if the handle is stale or unknown
func (a *Arena[T]) Get(id ID) (T, bool) {
	if !a.Valid(id) {
		var zero T
		return zero, false
	}
	return a.items[id.Index()], true
}

// Set replaces the value for id
func (a *Arena[T]) Set(id ID, v T) bool {
	if !a.Valid(id) {
		return false
	}
	a.items[id.Index()] = v
	return true
}

// Remove frees the slot held by id
func (a *Arena[T]) Remove(id ID) bool {
	if !a.Valid(id) {
		return false
	}

	idx := id.Index()
	var zero T
	a.items[idx] = zero
	a.gens[idx]++
	if a.gens[idx] == 0 { // wrapped, zero is reserved
		a.gens[idx] = 1
	}
	a.live.Set(idx, false)
	a.free = append(a.free, uint32(idx))
	a.count--

	return true
}

// IDs returns handles for all live values in slot order
func (a *Arena[T]) IDs() []ID {
	ids := make([]ID, 0, a.count)
	for i := range a.items {
		if !a.live.Get(i) {
			continue
		}
		ids = append(ids, newID(a.gens[i], uint32(i)))
	}
	return ids
}

// Each calls fn for every live value in slot order until fn returns false
func (a *Arena[T]) Each(fn func(ID, T) bool) {
	for i, v := range a.items {
		if !a.live.Get(i) {
			continue
		}
		if !fn(newID(a.gens[i], uint32(i)), v) {
			return
		}
	}
}

// grow ensures the occupancy bitmap can address n slots
func (a *Arena[T]) grow(n int) {
	if n <= len(a.live)*8 {
		return
	}
	bm := bitmap.New(2*n + 8)
	copy(bm, a.live)
	a.live = bm
}
