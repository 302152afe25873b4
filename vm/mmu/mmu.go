// Package mmu provides the memory management unit of the simulator. The MMU
// owns the frame pool and the process list, translates virtual page numbers
// through a translation cache and per-process page tables, and resolves
// copy-on-write faults.
package mmu

import (
	"fmt"

	"github.com/pagelab/vmsim/tracing"
	"github.com/pagelab/vmsim/vm"
)

// Comp is the MMU. All methods that act on pages apply to the process that is
// currently running. The page-table base always points at the running
// process's table.
type Comp struct {
	*vm.ComponentBase

	cache  TranslationCache
	frames *vm.FramePool

	vpnSpace        int
	entriesPerTable int

	current   *vm.Process
	suspended []*vm.Process
	ptbr      *vm.PageTable
}

// LookupTLB probes the translation cache directly.
func (c *Comp) LookupTLB(vpn vm.VPN) (vm.PFN, bool) {
	return c.cache.Lookup(vpn)
}

// InsertTLB stores a translation in the cache directly.
func (c *Comp) InsertTLB(vpn vm.VPN, pfn vm.PFN) {
	c.cache.Insert(vpn, pfn)
}

// AllocPage maps vpn to the free frame with the smallest number. The access
// intent decides the permission of the new page. A write request makes the
// page writable, a read request makes it read-only for good.
//
// Allocating a vpn that is already mapped is a defect of the caller. Callers
// that take untrusted input check with IsMapped first.
func (c *Comp) AllocPage(vpn vm.VPN, access vm.Access) (vm.PFN, error) {
	c.mustHaveProcess()

	if _, mapped := c.ptbr.Find(vpn); mapped {
		panic(fmt.Sprintf("vpn %d is already mapped", vpn))
	}

	pfn, err := c.frames.Allocate()
	if err != nil {
		c.recordOp(tracing.KindAlloc, vpn, 0, tracing.OutcomeOutOfFrames)
		return 0, fmt.Errorf("allocating vpn %d: %w", vpn, err)
	}

	c.ptbr.Map(vpn, pfn, pageAccessFor(access))

	c.recordOp(tracing.KindAlloc, vpn, pfn, tracing.OutcomeOK)

	return pfn, nil
}

func pageAccessFor(access vm.Access) vm.PageAccess {
	if access == vm.AccessWrite {
		return vm.PageWritable
	}

	return vm.PageReadOnly
}

// FreePage unmaps vpn from the running process, releases one mapping of the
// frame behind it, and drops any cached translation. Freeing a vpn that is
// not mapped is a no-op, so FreePage is idempotent.
func (c *Comp) FreePage(vpn vm.VPN) {
	c.mustHaveProcess()

	prior, ok := c.ptbr.Unmap(vpn)
	if !ok {
		c.recordOp(tracing.KindFree, vpn, 0, tracing.OutcomeNoOp)
		return
	}

	c.frames.Release(prior.PFN)
	c.cache.Invalidate(vpn)

	c.recordOp(tracing.KindFree, vpn, prior.PFN, tracing.OutcomeOK)
}

// HandlePageFault tries to resolve a fault on vpn. Only a write to a
// copy-on-write page is resolvable. When the frame behind the page has a
// single mapping, the entry is promoted to writable in place. When the frame
// is shared, its content moves to a fresh frame that the running process maps
// exclusively, and the shared frame loses one mapping.
//
// On success, any cached translation of vpn is dropped, and the return value
// is true. Every other fault, including a failed frame allocation during a
// copy, leaves all state unchanged and returns false.
func (c *Comp) HandlePageFault(vpn vm.VPN, access vm.Access) bool {
	c.mustHaveProcess()

	pte, ok := c.ptbr.Find(vpn)
	if !ok || pte.Access != vm.PageCopyOnWrite || access != vm.AccessWrite {
		c.recordOp(tracing.KindFault, vpn, 0, tracing.OutcomeUnhandled)
		return false
	}

	outcome := tracing.OutcomePromoted

	if c.frames.MapCount(pte.PFN) > 1 {
		newPFN, err := c.frames.Allocate()
		if err != nil {
			c.recordOp(tracing.KindFault, vpn, 0, tracing.OutcomeOutOfFrames)
			return false
		}

		c.frames.Release(pte.PFN)
		pte.PFN = newPFN
		outcome = tracing.OutcomeSplit
	}

	pte.Access = vm.PageWritable
	c.ptbr.Update(vpn, pte)
	c.cache.Invalidate(vpn)

	c.recordOp(tracing.KindFault, vpn, pte.PFN, outcome)

	return true
}

// SwitchProcess makes pid the running process. A pid that is suspended
// resumes. A pid never seen before forks from the running process, sharing
// every mapped frame copy-on-write, or starts empty when nothing runs yet.
// Switching to the running pid changes nothing. Every actual switch flushes
// the translation cache, because cached translations belong to the outgoing
// address space.
func (c *Comp) SwitchProcess(pid vm.PID) {
	if c.current != nil && c.current.PID == pid {
		c.recordOp(tracing.KindSwitch, 0, 0, tracing.OutcomeNoOp)
		return
	}

	for i, proc := range c.suspended {
		if proc.PID == pid {
			c.resume(i)
			return
		}
	}

	c.forkInto(pid)
}

func (c *Comp) resume(i int) {
	target := c.suspended[i]
	c.suspended = append(c.suspended[:i], c.suspended[i+1:]...)

	if c.current != nil {
		c.suspended = append(c.suspended, c.current)
	}

	c.current = target
	c.ptbr = target.PageTable
	c.cache.Flush()

	c.recordOp(tracing.KindSwitch, 0, 0, tracing.OutcomeResumed)
}

func (c *Comp) forkInto(pid vm.PID) {
	child := vm.NewProcess(pid, c.vpnSpace, c.entriesPerTable)

	outcome := tracing.OutcomeSpawned
	if c.current != nil {
		c.shareCopyOnWrite(c.current.PageTable, child.PageTable)
		c.suspended = append(c.suspended, c.current)
		outcome = tracing.OutcomeForked
	}

	c.current = child
	c.ptbr = child.PageTable
	c.cache.Flush()

	c.recordOp(tracing.KindSwitch, 0, 0, outcome)
}

// shareCopyOnWrite hands every parent mapping to the child. Writable entries
// demote to copy-on-write on both sides. Read-only and still-pending entries
// carry over as they are. Each shared frame gains one mapping.
func (c *Comp) shareCopyOnWrite(parent, child *vm.PageTable) {
	parent.Walk(func(vpn vm.VPN, pte vm.PTE) {
		c.frames.Retain(pte.PFN)

		if pte.Access == vm.PageWritable {
			pte.Access = vm.PageCopyOnWrite
			parent.Update(vpn, pte)
		}

		child.Map(vpn, pte.PFN, pte.Access)
	})
}

// Translate resolves vpn to a frame for the given access intent. The cache
// answers reads directly. A cached translation satisfies a write only if the
// page table grants write permission, since the cache carries none. On a
// cache miss the table is walked, and a failed walk runs the fault handler
// once before the walk retries. Granted translations enter the cache.
func (c *Comp) Translate(vpn vm.VPN, access vm.Access) (vm.PFN, error) {
	c.mustHaveProcess()

	if pfn, ok := c.cache.Lookup(vpn); ok {
		if access == vm.AccessRead || c.tableGrantsWrite(vpn) {
			c.recordOp(tracing.KindTranslate, vpn, pfn, tracing.OutcomeTLBHit)
			return pfn, nil
		}
	}

	if pfn, ok := c.walk(vpn, access); ok {
		c.cache.Insert(vpn, pfn)
		c.recordOp(tracing.KindTranslate, vpn, pfn, tracing.OutcomeWalkHit)

		return pfn, nil
	}

	if !c.HandlePageFault(vpn, access) {
		c.recordOp(tracing.KindTranslate, vpn, 0, tracing.OutcomeFailed)
		return 0, c.faultError(vpn, access)
	}

	pfn, ok := c.walk(vpn, access)
	if !ok {
		panic("fault handler reported success but the walk still fails")
	}

	c.cache.Insert(vpn, pfn)
	c.recordOp(tracing.KindTranslate, vpn, pfn, tracing.OutcomeCOWResolved)

	return pfn, nil
}

func (c *Comp) walk(vpn vm.VPN, access vm.Access) (vm.PFN, bool) {
	pte, ok := c.ptbr.Find(vpn)
	if !ok {
		return 0, false
	}

	if access == vm.AccessWrite && pte.Access != vm.PageWritable {
		return 0, false
	}

	return pte.PFN, true
}

func (c *Comp) tableGrantsWrite(vpn vm.VPN) bool {
	pte, ok := c.ptbr.Find(vpn)

	return ok && pte.Access == vm.PageWritable
}

func (c *Comp) faultError(vpn vm.VPN, access vm.Access) error {
	pte, ok := c.ptbr.Find(vpn)
	if ok && pte.Access == vm.PageCopyOnWrite &&
		access == vm.AccessWrite && c.frames.FreeFrames() == 0 {
		return fmt.Errorf("translating vpn %d for %s: %w",
			vpn, access, vm.ErrOutOfFrames)
	}

	return fmt.Errorf("translating vpn %d for %s: %w",
		vpn, access, vm.ErrUnhandledFault)
}

// IsMapped reports whether the running process maps vpn. Without a running
// process, nothing is mapped.
func (c *Comp) IsMapped(vpn vm.VPN) bool {
	if c.current == nil {
		return false
	}

	_, ok := c.ptbr.Find(vpn)

	return ok
}

// Current returns the running process, or nil before the first switch.
func (c *Comp) Current() *vm.Process {
	return c.current
}

// Processes returns all processes, the running one first.
func (c *Comp) Processes() []*vm.Process {
	return c.processes()
}

func (c *Comp) processes() []*vm.Process {
	ps := make([]*vm.Process, 0, len(c.suspended)+1)

	if c.current != nil {
		ps = append(ps, c.current)
	}

	ps = append(ps, c.suspended...)

	return ps
}

// PageTableOf returns the page table of the process with the given pid.
func (c *Comp) PageTableOf(pid vm.PID) (*vm.PageTable, bool) {
	for _, p := range c.processes() {
		if p.PID == pid {
			return p.PageTable, true
		}
	}

	return nil, false
}

// FramePool returns the frame pool of the MMU.
func (c *Comp) FramePool() *vm.FramePool {
	return c.frames
}

// VerifyAccounting audits the frame accounting invariant. Every frame's
// mapcount must equal the number of valid page table entries that point at
// the frame, across all processes.
func (c *Comp) VerifyAccounting() error {
	counts := make([]int, c.frames.NumFrames())

	for _, p := range c.processes() {
		p.PageTable.Walk(func(_ vm.VPN, pte vm.PTE) {
			counts[pte.PFN]++
		})
	}

	for pfn, want := range counts {
		got := c.frames.MapCount(vm.PFN(pfn))
		if got != want {
			return fmt.Errorf(
				"frame %d has mapcount %d, but %d valid entries map it",
				pfn, got, want)
		}
	}

	return nil
}

func (c *Comp) mustHaveProcess() {
	if c.current == nil {
		panic("no process is running")
	}
}

func (c *Comp) currentPID() vm.PID {
	if c.current == nil {
		return 0
	}

	return c.current.PID
}

func (c *Comp) recordOp(kind string, vpn vm.VPN, pfn vm.PFN, outcome string) {
	tracing.RecordOp(c, tracing.Op{
		PID:     c.currentPID(),
		Kind:    kind,
		VPN:     vpn,
		PFN:     pfn,
		Outcome: outcome,
	})
}
