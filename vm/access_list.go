package vm

import "github.com/concordant-chain/evmcore/types"

// AccessList tracks EIP-2929 warm/cold status for addresses and storage
// slots within a transaction, with journaling so a reverted frame's
// warming does not survive the revert. Adapted from the teacher's
// core/vm/access_list_tracker.go (AccessListTracker), restructured to
// take GasSchedule values as parameters instead of package constants since
// this module derives the schedule per SpecGates rather than baking it
// into one fork's era.
type AccessList struct {
	addresses   map[types.Address]int
	slots       map[types.Address]map[types.Hash]int
	journal     []accessListChange
	snapshotIDs []int
}

type accessListChangeKind uint8

const (
	changeAddAddress accessListChangeKind = iota
	changeAddSlot
)

type accessListChange struct {
	kind    accessListChangeKind
	address types.Address
	slot    types.Hash
}

// NewAccessList returns an empty tracker.
func NewAccessList() *AccessList {
	return &AccessList{
		addresses: make(map[types.Address]int),
		slots:     make(map[types.Address]map[types.Hash]int),
	}
}

// PrePopulate warms the sender, the call target (nil for contract
// creation), and precompile addresses 0x01..0x09, per EIP-2929's
// transaction-start warm set.
func (al *AccessList) PrePopulate(sender types.Address, to *types.Address, precompiles []types.Address) {
	al.addAddressNoJournal(sender)
	if to != nil {
		al.addAddressNoJournal(*to)
	}
	for _, addr := range precompiles {
		al.addAddressNoJournal(addr)
	}
}

func (al *AccessList) addAddressNoJournal(addr types.Address) {
	if _, ok := al.addresses[addr]; !ok {
		al.addresses[addr] = -1
	}
}

// ContainsAddress reports whether addr is currently warm.
func (al *AccessList) ContainsAddress(addr types.Address) bool {
	_, ok := al.addresses[addr]
	return ok
}

// TouchAddress warms addr if cold. Returns true if it was already warm.
func (al *AccessList) TouchAddress(addr types.Address) bool {
	if _, ok := al.addresses[addr]; ok {
		return true
	}
	idx := len(al.journal)
	al.addresses[addr] = idx
	al.journal = append(al.journal, accessListChange{kind: changeAddAddress, address: addr})
	return false
}

// TouchSlot warms (addr, slot) if cold. Returns whether the address and
// the slot, respectively, were already warm.
func (al *AccessList) TouchSlot(addr types.Address, slot types.Hash) (addrWarm, slotWarm bool) {
	addrWarm = al.TouchAddress(addr)

	slots, ok := al.slots[addr]
	if !ok {
		slots = make(map[types.Hash]int)
		al.slots[addr] = slots
	}
	if _, ok := slots[slot]; ok {
		return addrWarm, true
	}
	idx := len(al.journal)
	slots[slot] = idx
	al.journal = append(al.journal, accessListChange{kind: changeAddSlot, address: addr, slot: slot})
	return addrWarm, false
}

// Snapshot returns an id that RevertTo can later roll back to.
func (al *AccessList) Snapshot() int {
	id := len(al.snapshotIDs)
	al.snapshotIDs = append(al.snapshotIDs, len(al.journal))
	return id
}

// RevertTo undoes every warming recorded since Snapshot(id). Pre-populated
// entries (journal index -1) are never reverted, matching EIP-2929's rule
// that the transaction-start warm set survives every revert.
func (al *AccessList) RevertTo(id int) {
	if id < 0 || id >= len(al.snapshotIDs) {
		return
	}
	journalLen := al.snapshotIDs[id]
	for i := len(al.journal) - 1; i >= journalLen; i-- {
		change := al.journal[i]
		switch change.kind {
		case changeAddSlot:
			if slots := al.slots[change.address]; slots != nil {
				if idx, ok := slots[change.slot]; ok && idx >= journalLen {
					delete(slots, change.slot)
				}
			}
		case changeAddAddress:
			if idx, ok := al.addresses[change.address]; ok && idx >= journalLen {
				delete(al.addresses, change.address)
			}
		}
	}
	al.journal = al.journal[:journalLen]
	al.snapshotIDs = al.snapshotIDs[:id]
}

// AddressGasCost returns the surcharge for accessing addr (0 if already
// warm), warming it as a side effect.
func (al *AccessList) AddressGasCost(g GasSchedule, addr types.Address) uint64 {
	if al.TouchAddress(addr) {
		return 0
	}
	return g.ColdAccountAccessCost - g.WarmStorageReadCost
}

// SlotGasCost returns the surcharge for accessing (addr, slot) (0 if
// already warm), warming it as a side effect.
func (al *AccessList) SlotGasCost(g GasSchedule, addr types.Address, slot types.Hash) uint64 {
	_, slotWarm := al.TouchSlot(addr, slot)
	if slotWarm {
		return 0
	}
	return g.ColdSloadCost - g.WarmStorageReadCost
}
