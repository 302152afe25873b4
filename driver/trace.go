package driver

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pagelab/vmsim/vm"
)

// OpKind enumerates the operations a trace line can request.
type OpKind int

// The operations a trace can hold.
const (
	OpAlloc OpKind = iota
	OpRead
	OpWrite
	OpFree
	OpSwitch
)

func (k OpKind) String() string {
	switch k {
	case OpAlloc:
		return "alloc"
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	case OpFree:
		return "free"
	case OpSwitch:
		return "switch"
	}

	panic("unknown op kind")
}

// A TraceOp is one parsed trace line.
type TraceOp struct {
	Line int

	Kind   OpKind
	VPN    vm.VPN
	PID    vm.PID
	Access vm.Access
}

// ParseTrace reads a trace, one operation per line:
//
//	a <vpn> <ro|rw>    allocate a page, read-only or writable
//	r <vpn>            read a page
//	w <vpn>            write a page
//	f <vpn>            free a page
//	s <pid>            switch to a process
//
// Text after a # is a comment. Blank lines are skipped.
func ParseTrace(r io.Reader) ([]TraceOp, error) {
	var ops []TraceOp

	line := 0
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line++

		text := scanner.Text()
		if i := strings.Index(text, "#"); i >= 0 {
			text = text[:i]
		}

		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		op, err := parseOp(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		op.Line = line
		ops = append(ops, op)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return ops, nil
}

func parseOp(fields []string) (TraceOp, error) {
	switch fields[0] {
	case "a":
		return parseAlloc(fields)
	case "r":
		return parseVPNOp(OpRead, fields)
	case "w":
		return parseVPNOp(OpWrite, fields)
	case "f":
		return parseVPNOp(OpFree, fields)
	case "s":
		return parseSwitch(fields)
	}

	return TraceOp{}, fmt.Errorf("unknown operation %q", fields[0])
}

func parseAlloc(fields []string) (TraceOp, error) {
	if len(fields) != 3 {
		return TraceOp{}, fmt.Errorf("a takes a vpn and ro or rw")
	}

	vpn, err := parseVPN(fields[1])
	if err != nil {
		return TraceOp{}, err
	}

	var access vm.Access

	switch fields[2] {
	case "ro":
		access = vm.AccessRead
	case "rw":
		access = vm.AccessWrite
	default:
		return TraceOp{}, fmt.Errorf("bad permission %q, want ro or rw", fields[2])
	}

	return TraceOp{Kind: OpAlloc, VPN: vpn, Access: access}, nil
}

func parseVPNOp(kind OpKind, fields []string) (TraceOp, error) {
	if len(fields) != 2 {
		return TraceOp{}, fmt.Errorf("%s takes a vpn", fields[0])
	}

	vpn, err := parseVPN(fields[1])
	if err != nil {
		return TraceOp{}, err
	}

	op := TraceOp{Kind: kind, VPN: vpn}
	if kind == OpWrite {
		op.Access = vm.AccessWrite
	}

	return op, nil
}

func parseSwitch(fields []string) (TraceOp, error) {
	if len(fields) != 2 {
		return TraceOp{}, fmt.Errorf("s takes a pid")
	}

	pid, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return TraceOp{}, fmt.Errorf("bad pid %q", fields[1])
	}

	return TraceOp{Kind: OpSwitch, PID: vm.PID(pid)}, nil
}

func parseVPN(s string) (vm.VPN, error) {
	vpn, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad vpn %q", s)
	}

	return vm.VPN(vpn), nil
}
