package vm

import "errors"

var (
	// ErrOutOfFrames is returned when an allocation needs a physical frame
	// but every frame in the pool is mapped. The condition is recoverable.
	// The caller decides whether to stop or to skip the operation.
	ErrOutOfFrames = errors.New("out of page frames")

	// ErrUnhandledFault is returned when a translation faults and the fault
	// handler refuses to resolve it, such as a write to a read-only page or
	// an access to a page that was never allocated.
	ErrUnhandledFault = errors.New("unhandled page fault")
)
