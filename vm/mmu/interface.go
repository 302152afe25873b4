package mmu

import "github.com/pagelab/vmsim/vm"

// A TranslationCache is the buffer the MMU probes before it walks the page
// table. The cache holds translations only. Permission checks stay with the
// page table.
type TranslationCache interface {
	// Lookup returns the cached translation of vpn, if there is one.
	Lookup(vpn vm.VPN) (vm.PFN, bool)

	// Insert stores a translation. The cache may drop it silently.
	Insert(vpn vm.VPN, pfn vm.PFN)

	// Invalidate removes every cached translation of vpn.
	Invalidate(vpn vm.VPN)

	// Flush empties the cache.
	Flush()
}
