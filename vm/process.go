package vm

// A Process is one simulated process. It owns a page table and nothing else.
// All frame bookkeeping lives in the shared FramePool.
type Process struct {
	PID       PID
	PageTable *PageTable
}

// NewProcess creates a process with an empty page table.
func NewProcess(pid PID, vpnSpace, entriesPerTable int) *Process {
	p := &Process{
		PID:       pid,
		PageTable: NewPageTable(vpnSpace, entriesPerTable),
	}

	return p
}
