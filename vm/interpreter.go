package vm

import (
	"github.com/concordant-chain/evmcore/log"
	"github.com/concordant-chain/evmcore/state"
	"github.com/concordant-chain/evmcore/types"
)

// TraceEntry is one per-opcode record a trace sink receives (spec.md §6).
type TraceEntry struct {
	Depth     int
	PC        uint64
	Op        OpCode
	GasBefore uint64
	GasCost   uint64
}

// TraceSink receives one TraceEntry per executed opcode. No persistent
// format is mandated (spec.md §6); hosts decide what to do with it.
type TraceSink interface {
	Trace(TraceEntry)
}

// Interpreter is a pure function of one frame at a time (DESIGN NOTES §9:
// "the interpreter is a pure function of one frame"): it never constructs
// or owns child frames, only describes them via ChildRequest for
// CallOrchestrator to act on. Adapted from the teacher's EVM.Run loop
// (core/vm/interpreter.go), split so the call-stack recursion the teacher
// performs natively becomes the orchestrator's explicit frame stack.
type Interpreter struct {
	State       state.StateStore
	Storage     state.StorageStore
	BlockHashes state.BlockHashOracle
	Precompiles PrecompileSet

	Gates SpecGates
	Gas   GasSchedule
	Access *AccessList
	Code  *CodeCache

	ChainID uint64

	// transient backs TLOAD/TSTORE (EIP-1153). Reusing MemoryStorageStore
	// here is deliberate: transient storage needs exactly the same
	// snapshot/restore-on-revert journal as persistent storage, it is
	// simply never committed past the transaction (nothing merges it into
	// Storage; a fresh one is created per NewInterpreter).
	transient *state.MemoryStorageStore

	Log   *log.Logger
	Trace TraceSink

	table jumpTable
}

// NewInterpreter builds an interpreter bound to one transaction's
// collaborators. The jump table is derived once from gates.
func NewInterpreter(st state.StateStore, storage state.StorageStore, blockHashes state.BlockHashOracle, precompiles PrecompileSet, gates SpecGates, chainID uint64, logger *log.Logger) *Interpreter {
	return &Interpreter{
		State:       st,
		Storage:     storage,
		BlockHashes: blockHashes,
		Precompiles: precompiles,
		Gates:       gates,
		Gas:         NewGasSchedule(gates),
		Access:      NewAccessList(),
		Code:        NewCodeCache(DefaultCodeCacheCapacity),
		ChainID:     chainID,
		transient:   state.NewMemoryStorageStore(),
		Log:         logger,
		table:       newJumpTable(gates),
	}
}

// StepFrame runs frame until it suspends or reaches a terminal outcome
// (spec.md §4.F). resumeValue/resumeOutput/resumeOutputDest carry a just-
// completed child call's result back in; all three are the zero value for
// a frame's first step.
func (ip *Interpreter) StepFrame(f *Frame, resumeValue *Word256, resumeOutput []byte, resumeOutputDest uint64) StepOutcome {
	if !f.resumed {
		f.ReturnData = nil
	} else {
		if resumeValue != nil {
			if err := f.Stack.Push(resumeValue); err != nil {
				return FaultOutcome(faultFor(err))
			}
		}
		if len(resumeOutput) > 0 {
			f.Memory.Store(resumeOutputDest, resumeOutput)
		}
	}
	f.resumed = true

	for {
		op := f.Code.OpAt(f.PC)
		operation := ip.table[op]
		if operation == nil {
			return FaultOutcome(FaultInvalidInstruction)
		}
		if f.Stack.Len() < operation.minStack {
			return FaultOutcome(FaultStackUnderflow)
		}
		if f.Stack.Len() > operation.maxStack {
			return FaultOutcome(FaultStackOverflow)
		}
		if operation.writes && f.Static {
			return FaultOutcome(FaultStaticViolation)
		}

		gasBefore := f.Gas

		if operation.memorySize != nil {
			size, overflow := operation.memorySize(f.Stack)
			if overflow {
				return FaultOutcome(FaultOutOfGas)
			}
			newWords := (size + 31) / 32
			oldWords := f.Memory.WordSize()
			if newWords > oldWords {
				growth := ip.Gas.GrowthCost(oldWords, newWords)
				if f.Gas < growth {
					return FaultOutcome(FaultOutOfGas)
				}
				f.Gas -= growth
				f.Memory.Resize(size)
			}
		}

		gasCost := operation.constantGas
		if operation.dynamicGas != nil {
			dyn, err := operation.dynamicGas(ip, f)
			if err != nil {
				return FaultOutcome(faultFor(err))
			}
			gasCost += dyn
		}
		if f.Gas < gasCost {
			return FaultOutcome(FaultOutOfGas)
		}
		f.Gas -= gasCost

		if ip.Trace != nil {
			ip.Trace.Trace(TraceEntry{Depth: f.Depth, PC: f.PC, Op: op, GasBefore: gasBefore, GasCost: gasBefore - f.Gas})
		}

		res, err := operation.execute(ip, f)
		if err != nil {
			return FaultOutcome(faultFor(err))
		}
		if res.Suspend != nil {
			if !res.Jumped {
				f.PC++
			}
			return SuspendOutcome(res.Suspend)
		}
		if res.Halted {
			if res.Reverted {
				return RevertOutcome(res.Output)
			}
			return HaltOutcome(res.Output)
		}
		if !res.Jumped {
			f.PC++
		}
	}
}

// warmSelf pre-populates the access list the way the teacher's
// AccessListTracker.PrePopulate does at transaction start (core/vm/
// access_list_tracker.go): sender, target, and precompile addresses are
// warm from the first opcode.
func (ip *Interpreter) warmSelf(sender types.Address, to *types.Address) {
	precompiles := make([]types.Address, 0, len(ip.Precompiles))
	for addr := range ip.Precompiles {
		precompiles = append(precompiles, addr)
	}
	ip.Access.PrePopulate(sender, to, precompiles)
}
