// Package monitoring provides a web server that exposes the live state of a
// running simulation for external inspection.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/pagelab/vmsim/tracing"
	"github.com/pagelab/vmsim/vm"
	"github.com/pagelab/vmsim/vm/mmu"
	"github.com/pagelab/vmsim/vm/tlb"
)

// Monitor can turn a simulation into a server and allows external monitoring
// of the simulation.
type Monitor struct {
	portNumber int
	actualPort int

	tickTeller vm.TickTeller
	mmu        *mmu.Comp
	tlb        *tlb.Comp
	stats      *tracing.StatsTracer

	components []vm.Component
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterTickTeller registers the operation counter of the simulation.
func (m *Monitor) RegisterTickTeller(t vm.TickTeller) {
	m.tickTeller = t
}

// RegisterMMU registers the MMU so that frames, processes, page tables, and
// the accounting audit can be served.
func (m *Monitor) RegisterMMU(c *mmu.Comp) {
	m.mmu = c
	m.RegisterComponent(c)
}

// RegisterTLB registers the TLB so that its slots can be served.
func (m *Monitor) RegisterTLB(c *tlb.Comp) {
	m.tlb = c
	m.RegisterComponent(c)
}

// RegisterStatsTracer registers the tracer that serves the op counts.
func (m *Monitor) RegisterStatsTracer(t *tracing.StatsTracer) {
	m.stats = t
}

// RegisterComponent register a component to be monitored.
func (m *Monitor) RegisterComponent(c vm.Component) {
	m.components = append(m.components, c)
}

// StartServer starts the monitor as a web server with a custom port if
// wanted.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()

	r.HandleFunc("/api/tick", m.tick)
	r.HandleFunc("/api/list_components", m.listComponents)
	r.HandleFunc("/api/component/{name}", m.listComponentDetails)
	r.HandleFunc("/api/field/{json}", m.listFieldValue)
	r.HandleFunc("/api/frames", m.listFrames)
	r.HandleFunc("/api/processes", m.listProcesses)
	r.HandleFunc("/api/pagetable/{pid}", m.listPageTable)
	r.HandleFunc("/api/tlb", m.listTLBSlots)
	r.HandleFunc("/api/audit", m.audit)
	r.HandleFunc("/api/stats", m.listStats)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	m.actualPort = listener.Addr().(*net.TCPAddr).Port

	fmt.Fprintf(
		os.Stderr,
		"Monitoring simulation with http://localhost:%d\n",
		m.actualPort)

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()
}

// URL returns the address of the server. It is only valid after StartServer
// has been called.
func (m *Monitor) URL() string {
	return fmt.Sprintf("http://localhost:%d", m.actualPort)
}

func (m *Monitor) tick(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"tick\":%d}", m.tickTeller.CurrentTick())
}

func (m *Monitor) listComponents(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "[")
	for i, c := range m.components {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w, "\"%s\"", c.Name())
	}
	fmt.Fprint(w, "]")
}

func (m *Monitor) listComponentDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	component := m.findComponentOr404(w, name)
	if component == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(component)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type fieldReq struct {
	CompName  string `json:"comp_name,omitempty"`
	FieldName string `json:"field_name,omitempty"`
}

func (m *Monitor) listFieldValue(w http.ResponseWriter, r *http.Request) {
	jsonString := mux.Vars(r)["json"]
	req := fieldReq{}

	err := json.Unmarshal([]byte(jsonString), &req)
	dieOnErr(err)

	name := req.CompName
	fields := strings.Split(req.FieldName, ".")

	component := m.findComponentOr404(w, name)
	if component == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(component)
	serializer.SetMaxDepth(1)

	err = serializer.SetEntryPoint(fields)
	dieOnErr(err)

	err = serializer.Serialize(w)
	dieOnErr(err)
}

type frameState struct {
	PFN      uint64 `json:"pfn"`
	MapCount int    `json:"mapcount"`
}

func (m *Monitor) frameStates() []frameState {
	pool := m.mmu.FramePool()

	states := make([]frameState, pool.NumFrames())
	for pfn := range states {
		states[pfn] = frameState{
			PFN:      uint64(pfn),
			MapCount: pool.MapCount(vm.PFN(pfn)),
		}
	}

	return states
}

func (m *Monitor) listFrames(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.frameStates())
}

type processState struct {
	PID         uint32 `json:"pid"`
	Running     bool   `json:"running"`
	MappedPages int    `json:"mapped_pages"`
}

func (m *Monitor) processStates() []processState {
	processes := m.mmu.Processes()
	running := m.mmu.Current()

	states := make([]processState, len(processes))
	for i, p := range processes {
		states[i] = processState{
			PID:         uint32(p.PID),
			Running:     p == running,
			MappedPages: p.PageTable.MappedCount(),
		}
	}

	return states
}

func (m *Monitor) listProcesses(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.processStates())
}

type pteState struct {
	VPN    uint64 `json:"vpn"`
	PFN    uint64 `json:"pfn"`
	Access string `json:"access"`
}

func (m *Monitor) pageTableStates(pid vm.PID) ([]pteState, bool) {
	table, ok := m.mmu.PageTableOf(pid)
	if !ok {
		return nil, false
	}

	states := []pteState{}
	table.Walk(func(vpn vm.VPN, pte vm.PTE) {
		states = append(states, pteState{
			VPN:    uint64(vpn),
			PFN:    uint64(pte.PFN),
			Access: pte.Access.String(),
		})
	})

	return states, true
}

func (m *Monitor) listPageTable(w http.ResponseWriter, r *http.Request) {
	pidString := mux.Vars(r)["pid"]

	pid, err := strconv.ParseUint(pidString, 10, 32)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Invalid pid: %s", pidString)

		return
	}

	states, ok := m.pageTableStates(vm.PID(pid))
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, "Process not found")

		return
	}

	writeJSON(w, states)
}

type tlbSlotState struct {
	Slot  int    `json:"slot"`
	Valid bool   `json:"valid"`
	VPN   uint64 `json:"vpn"`
	PFN   uint64 `json:"pfn"`
}

func (m *Monitor) tlbSlotStates() []tlbSlotState {
	entries := m.tlb.Entries()

	states := make([]tlbSlotState, len(entries))
	for i, e := range entries {
		states[i] = tlbSlotState{
			Slot:  e.Slot,
			Valid: e.Valid,
			VPN:   uint64(e.VPN),
			PFN:   uint64(e.PFN),
		}
	}

	return states
}

func (m *Monitor) listTLBSlots(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.tlbSlotStates())
}

type auditRsp struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (m *Monitor) auditState() auditRsp {
	err := m.mmu.VerifyAccounting()
	if err != nil {
		return auditRsp{OK: false, Error: err.Error()}
	}

	return auditRsp{OK: true}
}

func (m *Monitor) audit(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.auditState())
}

func (m *Monitor) statsState() map[string]uint64 {
	counts := map[string]uint64{}

	if m.stats == nil {
		return counts
	}

	for _, key := range m.stats.Keys() {
		counts[key] = m.stats.CountKey(key)
	}

	return counts
}

func (m *Monitor) listStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.statsState())
}

func (m *Monitor) findComponentOr404(
	w http.ResponseWriter,
	name string,
) vm.Component {
	var component vm.Component
	for _, c := range m.components {
		if c.Name() == name {
			component = c
		}
	}

	if component == nil {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Component not found"))
		dieOnErr(err)
	}

	return component
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	writeJSON(w, rsp)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
