// Package tlb provides the translation lookaside buffer of the simulator.
package tlb

import (
	"github.com/pagelab/vmsim/tracing"
	"github.com/pagelab/vmsim/vm"
)

// A slot is one entry of the fully associative buffer.
type slot struct {
	valid bool
	vpn   vm.VPN
	pfn   vm.PFN
}

// An Entry is a snapshot of one slot, for inspection.
type Entry struct {
	Slot  int
	Valid bool
	VPN   vm.VPN
	PFN   vm.PFN
}

// Comp caches recent translations. The buffer is fully associative. Lookups
// scan the slots in order and return the first valid match. The buffer caches
// translations only, never permissions, so a write must still be checked
// against the page table by the caller.
type Comp struct {
	*vm.ComponentBase

	slots []slot
}

// Lookup searches the buffer for a translation of vpn. Apart from the op
// record it emits, a lookup changes nothing.
func (c *Comp) Lookup(vpn vm.VPN) (vm.PFN, bool) {
	for _, s := range c.slots {
		if s.valid && s.vpn == vpn {
			tracing.RecordOp(c, tracing.Op{
				Kind:    tracing.KindTLBLookup,
				VPN:     vpn,
				PFN:     s.pfn,
				Outcome: tracing.OutcomeHit,
			})

			return s.pfn, true
		}
	}

	tracing.RecordOp(c, tracing.Op{
		Kind:    tracing.KindTLBLookup,
		VPN:     vpn,
		Outcome: tracing.OutcomeMiss,
	})

	return 0, false
}

// Insert stores a translation in the first invalid slot. When every slot is
// valid, the translation is dropped without evicting anything.
func (c *Comp) Insert(vpn vm.VPN, pfn vm.PFN) {
	for i := range c.slots {
		if c.slots[i].valid {
			continue
		}

		c.slots[i] = slot{valid: true, vpn: vpn, pfn: pfn}

		tracing.RecordOp(c, tracing.Op{
			Kind:    tracing.KindTLBInsert,
			VPN:     vpn,
			PFN:     pfn,
			Outcome: tracing.OutcomeOK,
		})

		return
	}

	tracing.RecordOp(c, tracing.Op{
		Kind:    tracing.KindTLBInsert,
		VPN:     vpn,
		PFN:     pfn,
		Outcome: tracing.OutcomeDropped,
	})
}

// Invalidate clears every slot that caches a translation of vpn.
func (c *Comp) Invalidate(vpn vm.VPN) {
	for i := range c.slots {
		if c.slots[i].valid && c.slots[i].vpn == vpn {
			c.slots[i] = slot{}
		}
	}

	tracing.RecordOp(c, tracing.Op{
		Kind:    tracing.KindTLBInvalidate,
		VPN:     vpn,
		Outcome: tracing.OutcomeOK,
	})
}

// Flush clears the whole buffer.
func (c *Comp) Flush() {
	for i := range c.slots {
		c.slots[i] = slot{}
	}

	tracing.RecordOp(c, tracing.Op{
		Kind:    tracing.KindTLBFlush,
		Outcome: tracing.OutcomeOK,
	})
}

// NumSlots returns the capacity of the buffer.
func (c *Comp) NumSlots() int {
	return len(c.slots)
}

// ValidCount returns the number of slots that hold a translation.
func (c *Comp) ValidCount() int {
	count := 0
	for _, s := range c.slots {
		if s.valid {
			count++
		}
	}

	return count
}

// Entries returns a snapshot of all the slots.
func (c *Comp) Entries() []Entry {
	entries := make([]Entry, len(c.slots))
	for i, s := range c.slots {
		entries[i] = Entry{
			Slot:  i,
			Valid: s.valid,
			VPN:   s.vpn,
			PFN:   s.pfn,
		}
	}

	return entries
}
