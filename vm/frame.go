package vm

import (
	"github.com/concordant-chain/evmcore/state"
	"github.com/concordant-chain/evmcore/types"
)

// ExecutionKind tags how a Frame came to exist, per spec.md §4.E.
// DELEGATECALL is represented as a Callcode frame with Delegate set: both
// inherit the parent's address and storage context for code execution,
// differing only in whose value/sender the child observes.
type ExecutionKind int

const (
	KindTransaction ExecutionKind = iota
	KindDirectCreate
	KindDirectPrecompile
	KindCall
	KindCallcode
	KindCreate
	KindPrecompile
)

func (k ExecutionKind) String() string {
	switch k {
	case KindTransaction:
		return "Transaction"
	case KindDirectCreate:
		return "DirectCreate"
	case KindDirectPrecompile:
		return "DirectPrecompile"
	case KindCall:
		return "Call"
	case KindCallcode:
		return "Callcode"
	case KindCreate:
		return "Create"
	case KindPrecompile:
		return "Precompile"
	default:
		return "Unknown"
	}
}

// IsRoot reports whether frames of this kind have no parent to resume.
func (k ExecutionKind) IsRoot() bool {
	return k == KindTransaction || k == KindDirectCreate || k == KindDirectPrecompile
}

// Frame is one call context: code, stack, memory, gas, environment and
// snapshots (spec.md §3, §4.E). Adapted from the teacher's Contract plus
// the environment fields the teacher threads through *EVM instead —
// folded into one value here because CallOrchestrator (§4.G), not the Go
// call stack, now owns frame lifetime.
type Frame struct {
	Kind ExecutionKind

	// Environment.
	Address  types.Address // executing account
	Caller   types.Address
	Origin   types.Address
	Value    *Word256 // value attached to this call
	Input    []byte
	GasPrice *Word256
	Block    BlockContext
	Depth    int
	Static   bool
	Delegate bool // true iff Kind==KindCallcode and this is DELEGATECALL

	Code *CodeInfo
	PC   uint64
	Gas  uint64

	Stack  *Stack
	Memory *Memory

	// ReturnData is the full, unclamped output of the most recently
	// completed child call, visible to RETURNDATASIZE/RETURNDATACOPY.
	ReturnData []byte

	Logs        []types.Log
	DestroySet  map[types.Address]types.Address // self-destructed addr -> inheritor
	Refund      uint64

	StateSnap      state.SnapshotID
	StorageSnap    state.SnapshotID
	TransientSnap  state.SnapshotID
	AccessListSnap int

	// OutputDest/OutputLen are the offset/length the parent's CALL chose
	// for this frame's output, set when the parent suspends to create
	// this frame. Unused for Create-kind frames.
	OutputDest uint64
	OutputLen  uint64

	// resumed is true once this frame has been stepped at least once;
	// a fresh frame clears return data on its first step instead of
	// feeding resume inputs (spec.md §4.G loop invariant 1).
	resumed bool

	// pendingTouch marks an address that gets a zero-value balance delta
	// applied if this frame exits with a fault, clearing the Parity
	// touch-bug carve-out (DESIGN NOTES §9); a Halt or Revert exit leaves
	// it unapplied. Zero address means no pending touch.
	pendingTouch types.Address
}

// NewFrame constructs a frame ready for its first step.
func NewFrame(kind ExecutionKind, addr, caller, origin types.Address, value *Word256, input []byte, gasPrice *Word256, block BlockContext, depth int, static bool, code *CodeInfo, gas uint64, stateSnap, storageSnap, transientSnap state.SnapshotID, accessListSnap int) *Frame {
	return &Frame{
		Kind:           kind,
		Address:        addr,
		Caller:         caller,
		Origin:         origin,
		Value:          value,
		Input:          input,
		GasPrice:       gasPrice,
		Block:          block,
		Depth:          depth,
		Static:         static,
		Code:           code,
		Gas:            gas,
		Stack:          NewStack(),
		Memory:         NewMemory(),
		DestroySet:     make(map[types.Address]types.Address),
		StateSnap:      stateSnap,
		StorageSnap:    storageSnap,
		TransientSnap:  transientSnap,
		AccessListSnap: accessListSnap,
	}
}
