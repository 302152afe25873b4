// Package vm provides the elementary building blocks of the virtual memory
// simulator, including page tables, the physical frame pool, and the hooking
// mechanism that supports instrumentation.
package vm

// PID is the identifier of a simulated process.
type PID uint32

// VPN is a virtual page number. It indexes a page in a process's virtual
// address space.
type VPN uint64

// PFN is a physical frame number. It indexes a frame in the physical frame
// pool.
type PFN uint64

// Tick is the value of the simulation's operation counter. Ticks only serve
// diagnostics. No translation or allocation decision depends on them.
type Tick uint64

// Access is the intent of a memory operation, either a read or a write.
type Access int

// The two access intents.
const (
	AccessRead Access = iota
	AccessWrite
)

func (a Access) String() string {
	switch a {
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	}

	panic("unknown access intent")
}

// PageAccess is the permission state of a page table entry. A page is either
// freely writable, read-only for good, or read-only pending a copy-on-write
// resolution.
type PageAccess int

// The three permission states of a mapped page.
const (
	// PageReadOnly pages accept reads only. A write to such a page is a
	// genuine permission violation that the fault handler refuses.
	PageReadOnly PageAccess = iota

	// PageWritable pages accept both reads and writes.
	PageWritable

	// PageCopyOnWrite pages are temporarily read-only. The frame behind the
	// page may be shared with other processes. A write triggers a fault that
	// either promotes the entry in place or copies the frame.
	PageCopyOnWrite
)

func (a PageAccess) String() string {
	switch a {
	case PageReadOnly:
		return "read-only"
	case PageWritable:
		return "writable"
	case PageCopyOnWrite:
		return "copy-on-write"
	}

	panic("unknown page access state")
}
