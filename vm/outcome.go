package vm

import "github.com/concordant-chain/evmcore/types"

// OutcomeKind is the tag of the StepOutcome sum type DESIGN NOTES §9
// calls for, replacing the exception/sentinel mix of the source material:
// every step_frame call returns exactly one of these, never a panic.
type OutcomeKind int

const (
	OutcomeHalt OutcomeKind = iota
	OutcomeRevert
	OutcomeSuspend
	OutcomeFault
)

// ChildRequest describes the child frame a CALL/CREATE family opcode asks
// the orchestrator to construct and run, per spec.md §4.F "CALL family
// suspension". The interpreter never constructs the child Frame itself —
// only the orchestrator has the StateStore/StorageStore needed to take
// the child's entry snapshots (§4.G).
type ChildRequest struct {
	Kind ExecutionKind // KindCall, KindCallcode, KindCreate, or KindPrecompile

	Target   types.Address // call target; ignored for Create
	Delegate bool          // DELEGATECALL: inherit caller/value, target supplies code only
	Static   bool          // STATICCALL, or parent already static: child forbids state writes

	Value *Word256
	Input []byte
	Gas   uint64

	// OutputDest/OutputLen: where in the parent's memory the result
	// should land once the child halts or reverts (Call/Callcode only).
	OutputDest uint64
	OutputLen  uint64

	// Salt is set for CREATE2; nil for CREATE.
	Salt *Word256
}

// StepOutcome is the sum type `{Halt | Revert | Suspend | Fault(kind)}`
// DESIGN NOTES §9 asks for in place of exceptions.
type StepOutcome struct {
	Kind   OutcomeKind
	Output []byte
	Fault  FaultKind
	Child  *ChildRequest
}

func HaltOutcome(output []byte) StepOutcome {
	return StepOutcome{Kind: OutcomeHalt, Output: output}
}

func RevertOutcome(output []byte) StepOutcome {
	return StepOutcome{Kind: OutcomeRevert, Output: output}
}

func SuspendOutcome(child *ChildRequest) StepOutcome {
	return StepOutcome{Kind: OutcomeSuspend, Child: child}
}

func FaultOutcome(kind FaultKind) StepOutcome {
	return StepOutcome{Kind: OutcomeFault, Fault: kind}
}
