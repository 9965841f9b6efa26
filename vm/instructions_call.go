package vm

import (
	"github.com/concordant-chain/evmcore/crypto"
	"github.com/concordant-chain/evmcore/rlp"
	"github.com/concordant-chain/evmcore/state"
	"github.com/concordant-chain/evmcore/types"
)

func opStop(ip *Interpreter, f *Frame) (execResult, error) {
	return execResult{Halted: true}, nil
}

func opReturn(ip *Interpreter, f *Frame) (execResult, error) {
	off, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	length, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	data := f.Memory.Load(off.Uint64(), length.Uint64())
	return execResult{Halted: true, Output: data}, nil
}

func opRevert(ip *Interpreter, f *Frame) (execResult, error) {
	off, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	length, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	data := f.Memory.Load(off.Uint64(), length.Uint64())
	return execResult{Halted: true, Reverted: true, Output: data}, nil
}

func opInvalid(ip *Interpreter, f *Frame) (execResult, error) {
	return execResult{}, ErrInvalidInstruction
}

// opSelfDestruct records the self-destruct and halts immediately. Balance
// is moved here directly, since it is unconditional once the opcode runs;
// the orchestrator only decides at frame-exit time whether this frame's
// destroy-set entry survives a revert.
//
// Open question resolved (DESIGN NOTES §9): self-destructing to one's own
// address must leave balance unchanged. Moving balance at all when
// inheritor == self would debit and then re-credit the same account
// through two separate UpdateBalance calls, which is not guaranteed to
// net to zero once a Spec-gated side effect (e.g. dead-account pruning)
// sits between them. Skipping the transfer entirely when inheritor == self
// is the direct fix.
func opSelfDestruct(ip *Interpreter, f *Frame) (execResult, error) {
	inheritorWord, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	inheritor := inheritorWord.Address()

	balance := ip.State.GetBalance(f.Address)
	if inheritor != f.Address && !balance.IsZero() {
		if !ip.State.AccountExists(inheritor) {
			ip.State.CreateAccount(inheritor)
		}
		ip.State.UpdateBalance(inheritor, state.Credit(balance), ip.Gates)
		ip.State.UpdateBalance(f.Address, state.Debit(balance), ip.Gates)
	}
	f.DestroySet[f.Address] = inheritor
	return execResult{Halted: true}, nil
}

func gasSelfDestruct(ip *Interpreter, f *Frame) (uint64, error) {
	inheritorWord, err := f.Stack.Back(0)
	if err != nil {
		return 0, err
	}
	inheritor := inheritorWord.Address()
	var cost uint64
	if ip.Gates.EIP150 && !ip.State.AccountExists(inheritor) && !ip.State.GetBalance(f.Address).IsZero() {
		cost += ip.Gas.NewAccount
	}
	if ip.Gates.EIP2929 {
		cost += ip.Access.AddressGasCost(ip.Gas, inheritor)
	}
	return cost, nil
}

// --- CREATE / CREATE2 ---

type createAddressSeed struct {
	Sender types.Address
	Nonce  uint64
}

func deriveCreateAddress(sender types.Address, nonce uint64) types.Address {
	enc, err := rlp.EncodeToBytes(createAddressSeed{Sender: sender, Nonce: nonce})
	if err != nil {
		return types.Address{}
	}
	hash := crypto.Keccak256(enc)
	return types.BytesToAddress(hash[12:])
}

func deriveCreate2Address(sender types.Address, salt *Word256, initCode []byte) types.Address {
	codeHash := crypto.Keccak256(initCode)
	saltBytes := salt.Bytes32()
	payload := make([]byte, 0, 1+20+32+32)
	payload = append(payload, 0xff)
	payload = append(payload, sender[:]...)
	payload = append(payload, saltBytes[:]...)
	payload = append(payload, codeHash...)
	hash := crypto.Keccak256(payload)
	return types.BytesToAddress(hash[12:])
}

// collision implements the CREATE collision test: an account already
// exists at the derived address with non-empty code or a non-zero nonce.
func (ip *Interpreter) collision(addr types.Address) bool {
	if !ip.State.AccountExists(addr) {
		return false
	}
	if ip.State.GetNonce(addr) != 0 {
		return true
	}
	hash := ip.State.GetCodeHash(addr)
	return !hash.IsZero() && hash != types.EmptyCodeHash
}

func opCreate(ip *Interpreter, f *Frame) (execResult, error) {
	return doCreate(ip, f, false)
}

func opCreate2(ip *Interpreter, f *Frame) (execResult, error) {
	return doCreate(ip, f, true)
}

func doCreate(ip *Interpreter, f *Frame, isCreate2 bool) (execResult, error) {
	value, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	off, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	length, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	var salt *Word256
	if isCreate2 {
		salt, err = f.Stack.Pop()
		if err != nil {
			return execResult{}, err
		}
	}

	initCode := f.Memory.Load(off.Uint64(), length.Uint64())

	nonce := ip.State.GetNonce(f.Address)
	var addr types.Address
	if isCreate2 {
		addr = deriveCreate2Address(f.Address, salt, initCode)
	} else {
		addr = deriveCreateAddress(f.Address, nonce)
	}
	ip.State.IncrementNonce(f.Address)

	if ip.collision(addr) {
		return execResult{}, f.Stack.Push(NewWord())
	}

	childGas := ForwardedGas(ip.Gates, f.Gas)
	f.Gas -= childGas

	req := &ChildRequest{
		Kind:   KindCreate,
		Target: addr,
		Static: f.Static,
		Value:  value,
		Input:  initCode,
		Gas:    childGas,
	}
	if isCreate2 {
		req.Salt = salt
	}
	return execResult{Suspend: req}, nil
}

func gasCreate2(ip *Interpreter, f *Frame) (uint64, error) {
	length, err := f.Stack.Back(2)
	if err != nil {
		return 0, err
	}
	words := (length.Uint64() + 31) / 32
	return ip.Gas.Sha3Word * words, nil
}

// --- CALL family ---

func opCall(ip *Interpreter, f *Frame) (execResult, error) {
	return doCall(ip, f, KindCall, true, false)
}

func opCallCode(ip *Interpreter, f *Frame) (execResult, error) {
	return doCall(ip, f, KindCallcode, true, false)
}

func opDelegateCall(ip *Interpreter, f *Frame) (execResult, error) {
	return doCall(ip, f, KindCallcode, false, false)
}

func opStaticCall(ip *Interpreter, f *Frame) (execResult, error) {
	return doCall(ip, f, KindCall, false, true)
}

// doCall builds the ChildRequest common to all four CALL-family opcodes.
// kind distinguishes CALL from CALLCODE/DELEGATECALL (both KindCallcode,
// split by hasValue: DELEGATECALL never carries a value operand). forced
// is true only for STATICCALL, which imposes a static child regardless of
// the parent's own context.
func doCall(ip *Interpreter, f *Frame, kind ExecutionKind, hasValue, forced bool) (execResult, error) {
	gasWord, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	addrWord, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	target := addrWord.Address()

	value := NewWord()
	if hasValue {
		value, err = f.Stack.Pop()
		if err != nil {
			return execResult{}, err
		}
	}
	argsOff, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	argsLen, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	retOff, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	retLen, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}

	if kind == KindCall && hasValue && !value.IsZero() && f.Static {
		return execResult{}, ErrStaticViolation
	}

	input := f.Memory.Load(argsOff.Uint64(), argsLen.Uint64())

	available := ForwardedGas(ip.Gates, f.Gas)
	// A gas operand that overflows uint64 is always >= available, so it
	// never tightens the cap; only check Uint64() once it's known to fit.
	if gasWord.IsUint64() {
		if requested := gasWord.Uint64(); requested < available {
			available = requested
		}
	}
	if available > f.Gas {
		available = f.Gas
	}
	f.Gas -= available

	if hasValue && !value.IsZero() {
		available += ip.Gas.CallStipend
	}

	req := &ChildRequest{
		Kind:       kind,
		Target:     target,
		Delegate:   kind == KindCallcode && !hasValue,
		Static:     forced || f.Static,
		Value:      value,
		Input:      input,
		Gas:        available,
		OutputDest: retOff.Uint64(),
		OutputLen:  retLen.Uint64(),
	}
	return execResult{Suspend: req}, nil
}

func gasCallFamily(ip *Interpreter, f *Frame) (uint64, error) {
	addrWord, err := f.Stack.Back(1)
	if err != nil {
		return 0, err
	}
	var cost uint64
	if ip.Gates.EIP2929 {
		cost += ip.Access.AddressGasCost(ip.Gas, addrWord.Address())
	} else if ip.Gates.EIP150 {
		cost += ip.Gas.CallOrCallCode
	}
	return cost, nil
}

func gasCallWithValue(ip *Interpreter, f *Frame) (uint64, error) {
	cost, err := gasCallFamily(ip, f)
	if err != nil {
		return 0, err
	}
	value, err := f.Stack.Back(2)
	if err != nil {
		return 0, err
	}
	if !value.IsZero() {
		cost += ip.Gas.CallValue
		addrWord, _ := f.Stack.Back(1)
		if !ip.State.AccountExists(addrWord.Address()) {
			cost += ip.Gas.NewAccount
		}
	}
	return cost, nil
}

func gasCallNoValue(ip *Interpreter, f *Frame) (uint64, error) {
	return gasCallFamily(ip, f)
}
