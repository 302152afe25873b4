package vm

import "fmt"

// A FramePool tracks the ownership of the physical page frames. Each frame
// carries a mapcount, the number of valid page table entries that point at
// the frame across all processes. A frame with mapcount zero is free.
type FramePool struct {
	mapcounts []int
	free      int
}

// NewFramePool creates a pool of numFrames frames, all free.
func NewFramePool(numFrames int) *FramePool {
	if numFrames <= 0 {
		panic("frame pool must hold at least one frame")
	}

	p := &FramePool{
		mapcounts: make([]int, numFrames),
		free:      numFrames,
	}

	return p
}

// Allocate picks the free frame with the smallest number, marks it mapped
// once, and returns it. It returns ErrOutOfFrames when no frame is free.
func (p *FramePool) Allocate() (PFN, error) {
	for pfn, count := range p.mapcounts {
		if count == 0 {
			p.mapcounts[pfn] = 1
			p.free--

			return PFN(pfn), nil
		}
	}

	return 0, ErrOutOfFrames
}

// Retain adds one mapping to a frame. Fork uses it when a child page table
// starts pointing at a frame the parent already maps.
func (p *FramePool) Retain(pfn PFN) {
	p.pfnMustBeInRange(pfn)

	if p.mapcounts[pfn] == 0 {
		p.free--
	}

	p.mapcounts[pfn]++
}

// Release removes one mapping from a frame. The frame becomes free when its
// mapcount drops to zero. Releasing a free frame means the accounting is
// already corrupt, so Release panics rather than continue with bad numbers.
func (p *FramePool) Release(pfn PFN) {
	p.pfnMustBeInRange(pfn)

	if p.mapcounts[pfn] == 0 {
		panic(fmt.Sprintf("accounting violation: frame %d released below zero", pfn))
	}

	p.mapcounts[pfn]--
	if p.mapcounts[pfn] == 0 {
		p.free++
	}
}

// MapCount returns the number of mappings a frame currently has.
func (p *FramePool) MapCount(pfn PFN) int {
	p.pfnMustBeInRange(pfn)

	return p.mapcounts[pfn]
}

// NumFrames returns the total number of frames in the pool.
func (p *FramePool) NumFrames() int {
	return len(p.mapcounts)
}

// FreeFrames returns the number of frames with no mapping.
func (p *FramePool) FreeFrames() int {
	return p.free
}

func (p *FramePool) pfnMustBeInRange(pfn PFN) {
	// The comparison must stay unsigned; a wrapped pfn would dodge the guard.
	if pfn >= PFN(len(p.mapcounts)) {
		panic(fmt.Sprintf("pfn %d is out of the frame pool", pfn))
	}
}
