// Package heap implements the interpreter's simulated byte-addressable
// heap: a single growable byte buffer plus an allocator metadata table
// of {address -> (size, live)}.
//
// Storage is backed by internal/mem.Bytes, so addresses are stable
// across reallocation-induced growth and bytes of a live range that
// were never written read back as zero. Loads and stores outside every
// live range fail with a SegFault Fault.
package heap

import (
	"encoding/binary"
	"math"

	"github.com/ShimamotoWONQ/cwalk/internal/mem"
)

// Kind enumerates the heap's failure modes.
type Kind int

const (
	KindOK Kind = iota
	KindOOM
	KindInvalidFree
	KindDoubleFree
	KindSegFault
)

// Fault is returned by Heap operations that fail.
type Fault struct {
	Kind    Kind
	Message string
}

func (f Fault) Error() string { return f.Message }

type allocation struct {
	size uint64
	live bool
	// stack marks a Reserve-d frame-local range rather than a
	// malloc/realloc allocation; LiveBytes and Leaked ignore these so
	// local variables never show up as leaked heap memory.
	stack bool
}

// Heap is a single interpretation's simulated address space. Construct
// one with New: it reserves address 0 as the null sentinel, which
// Allocate never hands out.
type Heap struct {
	store  mem.Bytes
	bump   uint64
	allocs map[uint64]*allocation // address -> allocation, keyed by allocation head
	limit  uint64
}

// New returns a Heap whose total size is bounded by limit bytes (0
// means unbounded).
func New(limit uint64) *Heap {
	h := &Heap{
		bump:   1, // reserve address 0 for null
		allocs: make(map[uint64]*allocation),
		limit:  limit,
	}
	h.store.Limit = uint(limit)
	return h
}

// Allocate reserves nbytes starting at a fresh address and returns its
// head address. malloc(0) returns a unique, non-dereferenceable
// pointer rather than null, so distinct zero-size allocations compare
// unequal.
func (h *Heap) Allocate(nbytes uint64) (uint64, error) {
	addr := h.bump
	grow := nbytes
	if grow == 0 {
		grow = 1
	}
	if h.limit != 0 && addr+grow > h.limit {
		return 0, Fault{Kind: KindOOM, Message: "out of memory"}
	}
	h.bump += grow
	h.allocs[addr] = &allocation{size: nbytes, live: true}
	return addr, nil
}

// Free marks the allocation headed at addr as no longer live. Freeing
// the null address is a documented no-op. Freeing a non-head or
// already-dead address fails.
func (h *Heap) Free(addr uint64) error {
	if addr == 0 {
		return nil
	}
	a, ok := h.allocs[addr]
	if !ok {
		return Fault{Kind: KindInvalidFree, Message: "free of non-allocation address"}
	}
	if !a.live {
		return Fault{Kind: KindDoubleFree, Message: "double free"}
	}
	a.live = false
	return nil
}

// Reallocate copies min(old size, nbytes) bytes from addr into a fresh
// allocation, marks addr non-live, and returns the new address. If
// addr is null, Reallocate behaves as Allocate.
func (h *Heap) Reallocate(addr uint64, nbytes uint64) (uint64, error) {
	if addr == 0 {
		return h.Allocate(nbytes)
	}
	a, ok := h.allocs[addr]
	if !ok || !a.live {
		return 0, Fault{Kind: KindInvalidFree, Message: "realloc of non-live address"}
	}

	newAddr, err := h.Allocate(nbytes)
	if err != nil {
		return 0, err
	}

	n := a.size
	if nbytes < n {
		n = nbytes
	}
	if n > 0 {
		buf := make([]byte, n)
		if err := h.store.LoadInto(uint(addr), buf); err != nil {
			return 0, Fault{Kind: KindSegFault, Message: err.Error()}
		}
		if err := h.store.Stor(uint(newAddr), buf...); err != nil {
			return 0, Fault{Kind: KindOOM, Message: err.Error()}
		}
	}
	a.live = false
	return newAddr, nil
}

// liveRange reports whether [addr, addr+n) lies entirely within a live
// allocation (or, for stack ranges registered via Reserve, within a
// reserved range — see Reserve).
func (h *Heap) liveRange(addr, n uint64) bool {
	if n == 0 {
		return true
	}
	for head, a := range h.allocs {
		if !a.live || a.size == 0 {
			continue // a zero-size allocation covers no bytes
		}
		if addr >= head && addr+n <= head+a.size {
			return true
		}
	}
	return false
}

// Reserve carves out a fixed-size live range for stack-allocated
// locals/arrays at a caller-chosen address, sharing the same byte
// space as heap allocations. The caller (eval's allocStorage, which
// takes the address from Grow) is responsible for choosing
// non-overlapping addresses; Release marks the range dead.
func (h *Heap) Reserve(addr, nbytes uint64) {
	h.allocs[addr] = &allocation{size: nbytes, live: true, stack: true}
}

// Release marks a previously Reserve-d range as dead, without
// reclaiming address space (the allocator is bump-pointer only).
func (h *Heap) Release(addr uint64) {
	if a, ok := h.allocs[addr]; ok {
		a.live = false
	}
}

// ReleaseFrom marks every stack-reserved range at or above base as
// dead, without reclaiming address space. Called when a call frame
// pops, so that frame-local storage is actually released on frame
// pop, distinct from malloc'd memory which the bump-pointer allocator
// never reclaims.
func (h *Heap) ReleaseFrom(base uint64) {
	for addr, a := range h.allocs {
		if a.stack && a.live && addr >= base {
			a.live = false
		}
	}
}

// Bump returns the current high-water address, used by eval when it
// pushes a call frame to record the base that ReleaseFrom releases
// from on frame pop.
func (h *Heap) Bump() uint64 { return h.bump }

// Grow advances the bump pointer by n bytes and returns the address
// prior to the advance, without registering an allocation entry
// (eval's allocStorage registers its own Reserve range).
func (h *Heap) Grow(n uint64) uint64 {
	addr := h.bump
	h.bump += n
	return addr
}

func (h *Heap) segfault(op string) error {
	return Fault{Kind: KindSegFault, Message: "segmentation fault: " + op}
}

// LoadBytes reads n raw bytes at addr, failing with SegFault if the
// range is not live.
func (h *Heap) LoadBytes(addr uint64, n int) ([]byte, error) {
	if !h.liveRange(addr, uint64(n)) {
		return nil, h.segfault("load")
	}
	buf := make([]byte, n)
	if err := h.store.LoadInto(uint(addr), buf); err != nil {
		return nil, h.segfault("load")
	}
	return buf, nil
}

// StoreBytes writes buf at addr, failing with SegFault if the range is
// not live.
func (h *Heap) StoreBytes(addr uint64, buf []byte) error {
	if !h.liveRange(addr, uint64(len(buf))) {
		return h.segfault("store")
	}
	if err := h.store.Stor(uint(addr), buf...); err != nil {
		return h.segfault("store")
	}
	return nil
}

// LoadInt64 reads an n-byte little-endian signed integer at addr,
// sign-extended to int64. n must be 1, 4, or 8.
func (h *Heap) LoadInt64(addr uint64, n int) (int64, error) {
	buf, err := h.LoadBytes(addr, n)
	if err != nil {
		return 0, err
	}
	switch n {
	case 1:
		return int64(int8(buf[0])), nil
	case 4:
		return int64(int32(binary.LittleEndian.Uint32(buf))), nil
	case 8:
		return int64(binary.LittleEndian.Uint64(buf)), nil
	default:
		return 0, Fault{Kind: KindSegFault, Message: "unsupported int width"}
	}
}

// StoreInt64 truncates v to n bytes (1, 4, or 8) and writes it
// little-endian at addr.
func (h *Heap) StoreInt64(addr uint64, v int64, n int) error {
	buf := make([]byte, n)
	switch n {
	case 1:
		buf[0] = byte(v)
	case 4:
		binary.LittleEndian.PutUint32(buf, uint32(v))
	case 8:
		binary.LittleEndian.PutUint64(buf, uint64(v))
	default:
		return Fault{Kind: KindSegFault, Message: "unsupported int width"}
	}
	return h.StoreBytes(addr, buf)
}

// LoadFloat32 reads a 4-byte IEEE-754 float at addr (C's "float"
// stored at its native 4-byte width, distinct from Go's float64).
func (h *Heap) LoadFloat32(addr uint64) (float64, error) {
	buf, err := h.LoadBytes(addr, 4)
	if err != nil {
		return 0, err
	}
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(buf))), nil
}

// StoreFloat32 truncates v to float32 and writes its 4-byte
// representation at addr.
func (h *Heap) StoreFloat32(addr uint64, v float64) error {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(v)))
	return h.StoreBytes(addr, buf)
}

// LiveBytes returns the total size of all currently live, non-stack
// allocations (bytes returned by live mallocs minus bytes freed).
func (h *Heap) LiveBytes() uint64 {
	var total uint64
	for _, a := range h.allocs {
		if a.live && !a.stack {
			total += a.size
		}
	}
	return total
}

// Leaked returns the addresses of malloc/realloc allocations that are
// still live, for strict-mode LeakWarning diagnostics. Frame-local
// (Reserve-d) ranges are never reported as leaks.
func (h *Heap) Leaked() []uint64 {
	var out []uint64
	for addr, a := range h.allocs {
		if a.live && !a.stack {
			out = append(out, addr)
		}
	}
	return out
}
