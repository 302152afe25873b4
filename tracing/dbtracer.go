package tracing

import (
	"sync"

	"github.com/pagelab/vmsim/datarecording"
	"github.com/pagelab/vmsim/vm"
	"github.com/tebeka/atexit"
)

type opTableEntry struct {
	ID       string `json:"id" vmsim_data:"unique"`
	Tick     uint64 `json:"tick" vmsim_data:"index"`
	PID      uint32 `json:"pid" vmsim_data:"index"`
	Kind     string `json:"kind" vmsim_data:"index"`
	VPN      uint64 `json:"vpn"`
	PFN      uint64 `json:"pfn"`
	Outcome  string `json:"outcome"`
	Location string `json:"location"`
}

// A DBTracer stores op records in a database. The database can be either a
// local file or a remote database, depending on the DataRecorder behind it.
type DBTracer struct {
	lock sync.Mutex

	tickTeller vm.TickTeller
	backend    datarecording.DataRecorder
}

// NewDBTracer creates a new DBTracer. Records are stamped with the tick the
// tickTeller reports at record time.
func NewDBTracer(
	tickTeller vm.TickTeller,
	backend datarecording.DataRecorder,
) *DBTracer {
	backend.CreateTable("ops", opTableEntry{})

	t := &DBTracer{
		tickTeller: tickTeller,
		backend:    backend,
	}

	atexit.Register(func() { t.Terminate() })

	return t
}

// RecordOp buffers the op for insertion into the ops table.
func (t *DBTracer) RecordOp(op Op) {
	t.lock.Lock()
	defer t.lock.Unlock()

	entry := opTableEntry{
		ID:       op.ID,
		Tick:     uint64(t.tickTeller.CurrentTick()),
		PID:      uint32(op.PID),
		Kind:     op.Kind,
		VPN:      uint64(op.VPN),
		PFN:      uint64(op.PFN),
		Outcome:  op.Outcome,
		Location: op.Where,
	}

	t.backend.InsertData("ops", entry)
}

// Terminate flushes the buffered records into the database.
func (t *DBTracer) Terminate() {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.backend.Flush()
}
