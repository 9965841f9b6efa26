package vm

import (
	"github.com/holiman/uint256"

	"github.com/concordant-chain/evmcore/state"
	"github.com/concordant-chain/evmcore/types"
)

// Substate is the per-transaction accumulator that survives only on
// non-reverted paths: refund counter, self-destruct set, and logs.
type Substate struct {
	Refund     uint64
	Logs       []types.Log
	DestroySet map[types.Address]types.Address
}

// RunResult is what Run returns to the host: the transaction's output
// bytes plus substate on success, or a fault kind on transaction-level
// failure. A Revert is reported as !Success with Output carrying the
// revert reason, same as a root-level Fault but with FaultKind left at
// its zero value and Reverted set.
type RunResult struct {
	Output   []byte
	Success  bool
	Reverted bool
	Fault    FaultKind
	Substate Substate
}

// CallOrchestrator owns the LIFO of frames and applies each StepFrame
// outcome to it. The interpreter itself never constructs or frees a
// frame — only this type does, which is what lets StepFrame stay a pure
// function of the one frame it is handed.
type CallOrchestrator struct {
	ip    *Interpreter
	stack []*Frame
}

// NewCallOrchestrator binds an orchestrator to one interpreter. One
// Interpreter/CallOrchestrator pair executes exactly one transaction.
func NewCallOrchestrator(ip *Interpreter) *CallOrchestrator {
	return &CallOrchestrator{ip: ip}
}

// Run drives root to completion: a Transaction/DirectCreate/DirectPrecompile
// frame with no parent to resume. sender/to populate the EIP-2929 warm set
// before the first opcode runs.
func (co *CallOrchestrator) Run(root *Frame, sender types.Address, to *types.Address) RunResult {
	co.ip.warmSelf(sender, to)

	if root.Kind == KindDirectPrecompile {
		return co.runDirectPrecompile(root)
	}

	current := root
	var resumeValue *Word256
	var resumeOutput []byte
	var resumeOutputDest uint64

	for {
		outcome := co.ip.StepFrame(current, resumeValue, resumeOutput, resumeOutputDest)
		resumeValue, resumeOutput, resumeOutputDest = nil, nil, 0

		switch outcome.Kind {
		case OutcomeSuspend:
			next, rv, ro, rd, halted := co.applySuspend(current, outcome.Child)
			if halted != nil {
				return *halted
			}
			if next == nil {
				// Precompile or depth-limit short-circuit: current frame
				// keeps running, fed the result directly.
				resumeValue, resumeOutput, resumeOutputDest = rv, ro, rd
				continue
			}
			co.stack = append(co.stack, current)
			current = next

		case OutcomeHalt:
			if current.Kind.IsRoot() {
				return RunResult{Output: outcome.Output, Success: true, Substate: co.collect(current)}
			}
			parent := co.pop()
			rv, ro, rd := co.applyHalt(parent, current, outcome.Output)
			current = parent
			resumeValue, resumeOutput, resumeOutputDest = rv, ro, rd

		case OutcomeRevert:
			co.restore(current)
			if current.Kind.IsRoot() {
				return RunResult{Output: outcome.Output, Reverted: true}
			}
			parent := co.pop()
			rv, ro, rd := co.applyRevert(parent, current, outcome.Output)
			current = parent
			resumeValue, resumeOutput, resumeOutputDest = rv, ro, rd

		case OutcomeFault:
			co.restore(current)
			co.clearPendingTouch(current)
			if current.Kind.IsRoot() {
				return RunResult{Success: false, Fault: outcome.Fault}
			}
			parent := co.pop()
			rv, ro, rd := co.applyFault(parent)
			current = parent
			resumeValue, resumeOutput, resumeOutputDest = rv, ro, rd
		}
	}
}

func (co *CallOrchestrator) pop() *Frame {
	n := len(co.stack) - 1
	f := co.stack[n]
	co.stack = co.stack[:n]
	return f
}

func (co *CallOrchestrator) collect(root *Frame) Substate {
	return Substate{Refund: root.Refund, Logs: root.Logs, DestroySet: root.DestroySet}
}

// restore unwinds child's state/storage/transient-storage/access-list
// snapshots, used on both Revert and Fault outcomes. Transient storage
// (EIP-1153) is journaled the same way persistent storage is, so a
// reverted or faulted child's TSTOREs must not survive into the parent
// any more than its SSTOREs do.
func (co *CallOrchestrator) restore(child *Frame) {
	co.ip.State.Restore(child.StateSnap)
	co.ip.Storage.Restore(child.StorageSnap)
	co.ip.transient.Restore(child.TransientSnap)
	co.ip.Access.RevertTo(child.AccessListSnap)
}

// clearPendingTouch clears the Parity touch-bug carve-out (EIP-161 edge
// on an OOG precompile call with zero value transfer): writing a zero
// balance delta re-triggers the store's own dead-account pruning without
// otherwise perturbing balance.
func (co *CallOrchestrator) clearPendingTouch(f *Frame) {
	if f.pendingTouch.IsZero() {
		return
	}
	co.ip.State.UpdateBalance(f.pendingTouch, state.Credit(new(uint256.Int)), co.ip.Gates)
	f.pendingTouch = types.Address{}
}

const maxCallDepth = 1024

// applySuspend decides what a Suspend(child) outcome becomes: a
// precompile invocation handled inline (no frame pushed), a depth-limit
// failure (no frame pushed), or a genuine child frame to push. A non-nil
// *RunResult return means the whole transaction already concluded
// (only possible if somehow a suspend happened on... never, kept for
// symmetry with the other apply* signatures, always nil in practice).
func (co *CallOrchestrator) applySuspend(parent *Frame, req *ChildRequest) (next *Frame, resumeValue *Word256, resumeOutput []byte, resumeOutputDest uint64, halted *RunResult) {
	if req.Kind != KindCreate {
		if pc, ok := co.ip.Precompiles.Lookup(req.Target); ok {
			output, gasUsed, success := runPrecompile(pc, req)
			remaining := req.Gas - gasUsed
			if !success {
				remaining = 0
				if co.ip.Gates.EIP158 && req.Value.IsZero() {
					parent.pendingTouch = req.Target
				}
			}
			parent.Gas += remaining
			if success {
				parent.ReturnData = output
				return nil, WordFromUint64(1), clamp(output, req.OutputLen), req.OutputDest, nil
			}
			parent.ReturnData = nil
			return nil, NewWord(), nil, 0, nil
		}
	}

	if parent.Depth+1 > maxCallDepth {
		parent.Gas += req.Gas
		return nil, NewWord(), nil, 0, nil
	}

	child := co.buildChild(parent, req)
	return child, nil, nil, 0, nil
}

func (co *CallOrchestrator) buildChild(parent *Frame, req *ChildRequest) *Frame {
	stateSnap := co.ip.State.TakeSnapshot()
	storageSnap := co.ip.Storage.TakeSnapshot()
	transientSnap := co.ip.transient.TakeSnapshot()
	accessSnap := co.ip.Access.Snapshot()

	// addr is the execution context: whose storage and balance the child
	// reads and writes. codeSource is whose code actually runs. These
	// differ only for CALLCODE/DELEGATECALL, both Kind==KindCallcode:
	// both execute the target's code against the caller's own address.
	addr := req.Target
	codeSource := req.Target
	caller := parent.Address
	value := req.Value
	transferFrom := parent.Address

	if req.Kind == KindCallcode {
		addr = parent.Address
		if req.Delegate {
			caller = parent.Caller
			value = parent.Value
		}
		transferFrom = parent.Address
	}

	if req.Kind == KindCreate {
		co.ip.State.CreateAccount(addr)
	}

	// DELEGATECALL never transfers value (it pops no value operand; value
	// here is always parent.Value echoed through, not a fresh transfer).
	if !value.IsZero() && !req.Delegate {
		co.ip.State.UpdateBalance(transferFrom, state.Debit(value.AsUint256()), co.ip.Gates)
		co.ip.State.UpdateBalance(addr, state.Credit(value.AsUint256()), co.ip.Gates)
	}

	var codeInfo *CodeInfo
	if req.Kind == KindCreate {
		codeInfo = NewCodeInfo(req.Input)
	} else {
		hash := co.ip.State.GetCodeHash(codeSource)
		codeInfo = co.ip.Code.GetOrBuild(hash, func() []byte { return co.ip.State.GetCode(hash) })
	}

	input := req.Input
	if req.Kind == KindCreate {
		input = nil
	}

	child := NewFrame(req.Kind, addr, caller, parent.Origin, value, input, parent.GasPrice, parent.Block, parent.Depth+1, req.Static, codeInfo, req.Gas, stateSnap, storageSnap, transientSnap, accessSnap)
	child.Delegate = req.Delegate
	child.OutputDest = req.OutputDest
	child.OutputLen = req.OutputLen
	return child
}

// applyHalt merges a non-reverted child's effects into parent and
// returns the (resumeValue, resumeOutput, resumeOutputDest) triple the
// next StepFrame(parent, ...) call should be fed.
func (co *CallOrchestrator) applyHalt(parent, child *Frame, output []byte) (*Word256, []byte, uint64) {
	parent.Refund += child.Refund
	parent.Logs = append(parent.Logs, child.Logs...)
	for addr, inheritor := range child.DestroySet {
		parent.DestroySet[addr] = inheritor
	}

	if child.Kind == KindCreate {
		return co.applyCreateDeposit(parent, child, output)
	}

	parent.Gas += child.Gas
	parent.ReturnData = output
	return WordFromUint64(1), clamp(output, child.OutputLen), child.OutputDest
}

// applyCreateDeposit charges CodeDeposit gas per output byte and installs
// the code, or (pre-EIP-2) lets an account with no code survive an OOG
// deposit while still returning unused gas, or (post-EIP-2) deletes the
// account and consumes all of its gas.
func (co *CallOrchestrator) applyCreateDeposit(parent, child *Frame, output []byte) (*Word256, []byte, uint64) {
	depositCost := uint64(len(output)) * co.ip.Gas.CodeDeposit
	if child.Gas < depositCost {
		if co.ip.Gates.EIP2 {
			co.ip.State.DeleteAccount(child.Address)
			return NewWord(), nil, 0
		}
		parent.Gas += child.Gas
		return WordFromAddress(child.Address), nil, 0
	}
	child.Gas -= depositCost
	parent.Gas += child.Gas
	hash := co.ip.State.UpdateCode(output)
	co.ip.State.UpdateCodeHash(child.Address, hash, co.ip.Gates)
	return WordFromAddress(child.Address), nil, 0
}

// applyRevert restores child's snapshots (done by the caller before this
// runs), returns child's gas, and copies clamped output into parent
// memory and the return-data buffer, but does not merge refund/logs/
// destroy-set.
func (co *CallOrchestrator) applyRevert(parent, child *Frame, output []byte) (*Word256, []byte, uint64) {
	parent.Gas += child.Gas
	parent.ReturnData = output
	if child.Kind == KindCreate {
		return NewWord(), nil, 0
	}
	return NewWord(), clamp(output, child.OutputLen), child.OutputDest
}

// applyFault discards child's gas entirely and clears the parent's
// return-data buffer; restore() has already unwound state/storage.
func (co *CallOrchestrator) applyFault(parent *Frame) (*Word256, []byte, uint64) {
	parent.ReturnData = nil
	return NewWord(), nil, 0
}

func (co *CallOrchestrator) runDirectPrecompile(root *Frame) RunResult {
	pc, ok := co.ip.Precompiles.Lookup(root.Address)
	if !ok {
		return RunResult{Success: false, Fault: FaultInvalidInstruction}
	}
	req := &ChildRequest{Input: root.Input, Gas: root.Gas, Value: root.Value}
	output, _, success := runPrecompile(pc, req)
	if !success {
		return RunResult{Success: false, Fault: FaultPrecompileFailure}
	}
	return RunResult{Output: output, Success: true}
}

func runPrecompile(pc Precompile, req *ChildRequest) (output []byte, gasUsed uint64, ok bool) {
	cost := pc.BaseCost() + pc.DataCost(req.Input)
	if req.Gas < cost {
		return nil, 0, false
	}
	out, success := pc.Run(req.Input)
	if !success {
		return nil, cost, false
	}
	return out, cost, true
}

func clamp(output []byte, length uint64) []byte {
	if uint64(len(output)) > length {
		return output[:length]
	}
	return output
}
