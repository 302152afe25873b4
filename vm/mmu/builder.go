package mmu

import (
	"github.com/pagelab/vmsim/vm"
	"github.com/pagelab/vmsim/vm/tlb"
)

// A Builder can build MMUs.
type Builder struct {
	numFrames       int
	vpnSpace        int
	entriesPerTable int
	cache           TranslationCache
}

// MakeBuilder returns a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		numFrames:       128,
		vpnSpace:        256,
		entriesPerTable: 16,
	}
}

// WithNumFrames sets the number of physical frames in the pool.
func (b Builder) WithNumFrames(n int) Builder {
	b.numFrames = n
	return b
}

// WithVPNSpace sets the number of virtual pages each process can map.
func (b Builder) WithVPNSpace(n int) Builder {
	b.vpnSpace = n
	return b
}

// WithEntriesPerTable sets the size of the second-level page tables.
func (b Builder) WithEntriesPerTable(n int) Builder {
	b.entriesPerTable = n
	return b
}

// WithTranslationCache sets the cache the MMU probes before walking the page
// table. Without one, the MMU builds its own TLB with default parameters.
func (b Builder) WithTranslationCache(cache TranslationCache) Builder {
	b.cache = cache
	return b
}

// Build creates a new MMU. No process is running yet. The first
// SwitchProcess call brings one to life.
func (b Builder) Build(name string) *Comp {
	b.parametersMustBeValid()

	cache := b.cache
	if cache == nil {
		cache = tlb.MakeBuilder().Build(name + ".TLB")
	}

	m := &Comp{
		ComponentBase:   vm.NewComponentBase(name),
		cache:           cache,
		frames:          vm.NewFramePool(b.numFrames),
		vpnSpace:        b.vpnSpace,
		entriesPerTable: b.entriesPerTable,
	}

	return m
}

func (b Builder) parametersMustBeValid() {
	if b.numFrames <= 0 {
		panic("mmu must have at least one frame")
	}

	if b.vpnSpace <= 0 || b.entriesPerTable <= 0 {
		panic("page table dimensions must be positive")
	}

	if b.vpnSpace%b.entriesPerTable != 0 {
		panic("vpn space must be a multiple of the entries per table")
	}
}
