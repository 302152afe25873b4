// Package driver replays page access traces against a virtual memory
// subsystem.
package driver

import (
	"fmt"
	"log"

	"github.com/pagelab/vmsim/vm"
)

// A Machine is the virtual memory subsystem a driver drives.
type Machine interface {
	AllocPage(vpn vm.VPN, access vm.Access) (vm.PFN, error)
	FreePage(vpn vm.VPN)
	Translate(vpn vm.VPN, access vm.Access) (vm.PFN, error)
	SwitchProcess(pid vm.PID)
	IsMapped(vpn vm.VPN) bool
	VerifyAccounting() error
}

// A Failure is one trace operation the machine could not complete.
type Failure struct {
	Line   int
	Tick   vm.Tick
	Reason string
}

// A Summary reports what one replay did. The counters count attempted
// operations by kind. The ones that failed are listed with the reason.
type Summary struct {
	Ops      int
	Allocs   int
	Frees    int
	Reads    int
	Writes   int
	Switches int

	Failures []Failure
	Audit    error
}

// Comp replays trace operations against a machine, one operation per tick.
type Comp struct {
	*vm.ComponentBase

	machine  Machine
	tick     *vm.TickCounter
	logger   *log.Logger
	vpnSpace int
}

// Run replays ops in order and returns a summary. When the trace does not
// open with a switch, process 0 starts implicitly. A failed operation is
// recorded and the replay continues, so one bad trace line cannot hide the
// rest of the trace. The final accounting audit lands in the summary.
func (c *Comp) Run(ops []TraceOp) Summary {
	s := Summary{}

	for i, op := range ops {
		tick := c.tick.Advance()

		if i == 0 && op.Kind != OpSwitch {
			c.machine.SwitchProcess(0)
		}

		s.Ops++

		reason := c.apply(op, &s)
		if reason == "" {
			continue
		}

		s.Failures = append(s.Failures, Failure{
			Line:   op.Line,
			Tick:   tick,
			Reason: reason,
		})

		if c.logger != nil {
			c.logger.Printf("line %d: %s", op.Line, reason)
		}
	}

	s.Audit = c.machine.VerifyAccounting()

	return s
}

func (c *Comp) apply(op TraceOp, s *Summary) string {
	switch op.Kind {
	case OpSwitch:
		s.Switches++
		c.machine.SwitchProcess(op.PID)

		return ""
	case OpAlloc:
		s.Allocs++
		return c.alloc(op)
	case OpFree:
		s.Frees++
		return c.free(op)
	case OpRead:
		s.Reads++
		return c.access(op)
	case OpWrite:
		s.Writes++
		return c.access(op)
	}

	panic("unknown op kind")
}

func (c *Comp) alloc(op TraceOp) string {
	if reason := c.checkVPN(op.VPN); reason != "" {
		return reason
	}

	if c.machine.IsMapped(op.VPN) {
		return fmt.Sprintf("vpn %d is already mapped", op.VPN)
	}

	_, err := c.machine.AllocPage(op.VPN, op.Access)
	if err != nil {
		return err.Error()
	}

	return ""
}

func (c *Comp) free(op TraceOp) string {
	if reason := c.checkVPN(op.VPN); reason != "" {
		return reason
	}

	c.machine.FreePage(op.VPN)

	return ""
}

func (c *Comp) access(op TraceOp) string {
	if reason := c.checkVPN(op.VPN); reason != "" {
		return reason
	}

	_, err := c.machine.Translate(op.VPN, op.Access)
	if err != nil {
		return err.Error()
	}

	return ""
}

// checkVPN flags out-of-range page numbers before they reach the machine,
// since the machine treats them as caller defects. The comparison stays
// unsigned so a vpn above the signed range cannot wrap past the guard.
func (c *Comp) checkVPN(vpn vm.VPN) string {
	if vpn >= vm.VPN(c.vpnSpace) {
		return fmt.Sprintf("vpn %d is out of the address space", vpn)
	}

	return ""
}
