package vm

import "fmt"

// A PTE is a page table entry. It maps one virtual page to one physical
// frame, together with the permission state of the mapping. The zero value is
// an invalid entry.
type PTE struct {
	Valid  bool
	PFN    PFN
	Access PageAccess
}

// A PageTable is the two-level translation structure owned by one process.
// The outer level is a directory of second-level entry tables. Second-level
// tables come into existence the first time a page in their range is mapped,
// so a sparse address space costs little memory.
type PageTable struct {
	vpnSpace        int
	entriesPerTable int
	directory       []*pteTable
}

type pteTable struct {
	entries []PTE
}

// NewPageTable creates an empty page table that covers vpnSpace pages, with
// each second-level table holding entriesPerTable entries.
func NewPageTable(vpnSpace, entriesPerTable int) *PageTable {
	if vpnSpace <= 0 || entriesPerTable <= 0 {
		panic("page table dimensions must be positive")
	}

	if vpnSpace%entriesPerTable != 0 {
		panic("vpn space must be a multiple of the entries per table")
	}

	t := &PageTable{
		vpnSpace:        vpnSpace,
		entriesPerTable: entriesPerTable,
		directory:       make([]*pteTable, vpnSpace/entriesPerTable),
	}

	return t
}

// VPNSpace returns the number of virtual pages the table covers.
func (t *PageTable) VPNSpace() int {
	return t.vpnSpace
}

// EntriesPerTable returns the size of each second-level table.
func (t *PageTable) EntriesPerTable() int {
	return t.entriesPerTable
}

func (t *PageTable) decompose(vpn VPN) (dir, index int) {
	t.vpnMustBeInRange(vpn)

	dir = int(vpn) / t.entriesPerTable
	index = int(vpn) % t.entriesPerTable

	return dir, index
}

func (t *PageTable) vpnMustBeInRange(vpn VPN) {
	// Unsigned comparison, so a vpn above the signed range cannot wrap
	// negative and slip past the guard into the directory index.
	if vpn >= VPN(t.vpnSpace) {
		panic(fmt.Sprintf("vpn %d is out of the address space", vpn))
	}
}

// Find returns the entry that maps vpn. The second return value is false if
// vpn is not mapped. Find never allocates second-level tables.
func (t *PageTable) Find(vpn VPN) (PTE, bool) {
	dir, index := t.decompose(vpn)

	table := t.directory[dir]
	if table == nil {
		return PTE{}, false
	}

	pte := table.entries[index]
	if !pte.Valid {
		return PTE{}, false
	}

	return pte, true
}

// Map installs a valid entry for vpn, allocating the second-level table on
// demand. Mapping a vpn that is already mapped is a defect of the caller.
func (t *PageTable) Map(vpn VPN, pfn PFN, access PageAccess) {
	dir, index := t.decompose(vpn)

	table := t.directory[dir]
	if table == nil {
		table = &pteTable{entries: make([]PTE, t.entriesPerTable)}
		t.directory[dir] = table
	}

	if table.entries[index].Valid {
		panic(fmt.Sprintf("vpn %d is already mapped", vpn))
	}

	table.entries[index] = PTE{Valid: true, PFN: pfn, Access: access}
}

// Update overwrites the entry of a vpn that is already mapped. The fault
// handler uses it to promote or redirect entries in place.
func (t *PageTable) Update(vpn VPN, pte PTE) {
	dir, index := t.decompose(vpn)

	table := t.directory[dir]
	if table == nil || !table.entries[index].Valid {
		panic(fmt.Sprintf("vpn %d is not mapped", vpn))
	}

	table.entries[index] = pte
}

// Unmap clears the entry for vpn and returns the entry as it was. Unmapping a
// vpn that is not mapped is a no-op that returns false.
func (t *PageTable) Unmap(vpn VPN) (PTE, bool) {
	dir, index := t.decompose(vpn)

	table := t.directory[dir]
	if table == nil {
		return PTE{}, false
	}

	prior := table.entries[index]
	if !prior.Valid {
		return PTE{}, false
	}

	table.entries[index] = PTE{}

	return prior, true
}

// Walk calls f for every valid entry in ascending vpn order. The callback may
// update the entry it is visiting.
func (t *PageTable) Walk(f func(vpn VPN, pte PTE)) {
	for dir, table := range t.directory {
		if table == nil {
			continue
		}

		for index := range table.entries {
			pte := table.entries[index]
			if !pte.Valid {
				continue
			}

			f(VPN(dir*t.entriesPerTable+index), pte)
		}
	}
}

// MappedCount returns the number of valid entries in the table.
func (t *PageTable) MappedCount() int {
	count := 0
	t.Walk(func(VPN, PTE) { count++ })

	return count
}
