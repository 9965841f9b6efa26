package vm

import "github.com/concordant-chain/evmcore/types"

func opAddress(ip *Interpreter, f *Frame) (execResult, error) {
	return execResult{}, f.Stack.Push(WordFromAddress(f.Address))
}

func opCaller(ip *Interpreter, f *Frame) (execResult, error) {
	return execResult{}, f.Stack.Push(WordFromAddress(f.Caller))
}

func opOrigin(ip *Interpreter, f *Frame) (execResult, error) {
	return execResult{}, f.Stack.Push(WordFromAddress(f.Origin))
}

func opCallValue(ip *Interpreter, f *Frame) (execResult, error) {
	return execResult{}, f.Stack.Push(f.Value.Clone())
}

func opGasPrice(ip *Interpreter, f *Frame) (execResult, error) {
	return execResult{}, f.Stack.Push(f.GasPrice.Clone())
}

func opChainID(ip *Interpreter, f *Frame) (execResult, error) {
	return execResult{}, f.Stack.Push(WordFromUint64(ip.ChainID))
}

func opCoinbase(ip *Interpreter, f *Frame) (execResult, error) {
	return execResult{}, f.Stack.Push(WordFromAddress(f.Block.Coinbase))
}

func opTimestamp(ip *Interpreter, f *Frame) (execResult, error) {
	return execResult{}, f.Stack.Push(WordFromUint64(f.Block.Time))
}

func opNumber(ip *Interpreter, f *Frame) (execResult, error) {
	return execResult{}, f.Stack.Push(WordFromUint64(f.Block.BlockNumber))
}

func opPrevRandao(ip *Interpreter, f *Frame) (execResult, error) {
	return execResult{}, f.Stack.Push(WordFromBytes(f.Block.PrevRandao.Bytes()))
}

func opGasLimit(ip *Interpreter, f *Frame) (execResult, error) {
	return execResult{}, f.Stack.Push(WordFromUint64(f.Block.GasLimit))
}

func opBaseFee(ip *Interpreter, f *Frame) (execResult, error) {
	if f.Block.BaseFee == nil {
		return execResult{}, f.Stack.Push(NewWord())
	}
	return execResult{}, f.Stack.Push(f.Block.BaseFee.Clone())
}

func opSelfBalance(ip *Interpreter, f *Frame) (execResult, error) {
	bal := ip.State.GetBalance(f.Address)
	return execResult{}, f.Stack.Push(WordFromBytes(bal.Bytes()))
}

func opBalance(ip *Interpreter, f *Frame) (execResult, error) {
	addrWord, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	addr := addrWord.Address()
	bal := ip.State.GetBalance(addr)
	return execResult{}, f.Stack.Push(WordFromBytes(bal.Bytes()))
}

func gasAccountAccess(addrBack int) func(ip *Interpreter, f *Frame) (uint64, error) {
	return func(ip *Interpreter, f *Frame) (uint64, error) {
		if !ip.Gates.EIP2929 {
			return 0, nil
		}
		addrWord, err := f.Stack.Back(addrBack)
		if err != nil {
			return 0, err
		}
		return ip.Access.AddressGasCost(ip.Gas, addrWord.Address()), nil
	}
}

func opCallDataLoad(ip *Interpreter, f *Frame) (execResult, error) {
	off, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	data := SliceWithZeroPadding(f.Input, off.Uint64(), 32)
	return execResult{}, f.Stack.Push(WordFromBytes(data))
}

func opCallDataSize(ip *Interpreter, f *Frame) (execResult, error) {
	return execResult{}, f.Stack.Push(WordFromUint64(uint64(len(f.Input))))
}

func opCallDataCopy(ip *Interpreter, f *Frame) (execResult, error) {
	destOff, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	srcOff, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	length, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	data := SliceWithZeroPadding(f.Input, srcOff.Uint64(), length.Uint64())
	f.Memory.Store(destOff.Uint64(), data)
	return execResult{}, nil
}

func opCodeSize(ip *Interpreter, f *Frame) (execResult, error) {
	return execResult{}, f.Stack.Push(WordFromUint64(uint64(f.Code.Len())))
}

func opCodeCopy(ip *Interpreter, f *Frame) (execResult, error) {
	destOff, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	srcOff, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	length, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	data := SliceWithZeroPadding(f.Code.Code, srcOff.Uint64(), length.Uint64())
	f.Memory.Store(destOff.Uint64(), data)
	return execResult{}, nil
}

func opExtCodeSize(ip *Interpreter, f *Frame) (execResult, error) {
	addrWord, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	hash := ip.State.GetCodeHash(addrWord.Address())
	code := ip.State.GetCode(hash)
	return execResult{}, f.Stack.Push(WordFromUint64(uint64(len(code))))
}

func opExtCodeHash(ip *Interpreter, f *Frame) (execResult, error) {
	addrWord, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	addr := addrWord.Address()
	if !ip.State.AccountExists(addr) || ip.State.IsDeadAccount(addr) {
		return execResult{}, f.Stack.Push(NewWord())
	}
	hash := ip.State.GetCodeHash(addr)
	return execResult{}, f.Stack.Push(WordFromBytes(hash.Bytes()))
}

func opExtCodeCopy(ip *Interpreter, f *Frame) (execResult, error) {
	addrWord, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	destOff, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	srcOff, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	length, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	hash := ip.State.GetCodeHash(addrWord.Address())
	code := ip.State.GetCode(hash)
	data := SliceWithZeroPadding(code, srcOff.Uint64(), length.Uint64())
	f.Memory.Store(destOff.Uint64(), data)
	return execResult{}, nil
}

func gasExtCodeCopy(ip *Interpreter, f *Frame) (uint64, error) {
	access, err := gasAccountAccess(0)(ip, f)
	if err != nil {
		return 0, err
	}
	copyGas, err := gasMemCopy(3)(ip, f)
	if err != nil {
		return 0, err
	}
	return access + copyGas, nil
}

func opReturnDataSize(ip *Interpreter, f *Frame) (execResult, error) {
	return execResult{}, f.Stack.Push(WordFromUint64(uint64(len(f.ReturnData))))
}

func opReturnDataCopy(ip *Interpreter, f *Frame) (execResult, error) {
	destOff, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	srcOff, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	length, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	end, overflow := addOverflow(srcOff.Uint64(), length.Uint64())
	if overflow || end > uint64(len(f.ReturnData)) {
		return execResult{}, ErrAccessViolation
	}
	data := make([]byte, length.Uint64())
	copy(data, f.ReturnData[srcOff.Uint64():end])
	f.Memory.Store(destOff.Uint64(), data)
	return execResult{}, nil
}

func opBlockHash(ip *Interpreter, f *Frame) (execResult, error) {
	num, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	if ip.BlockHashes == nil || !num.IsUint64() {
		return execResult{}, f.Stack.Push(NewWord())
	}
	hash, ok := ip.BlockHashes.Get(f.Block.BlockNumber, num.Uint64())
	if !ok {
		return execResult{}, f.Stack.Push(NewWord())
	}
	return execResult{}, f.Stack.Push(WordFromBytes(hash.Bytes()))
}

func opSLoad(ip *Interpreter, f *Frame) (execResult, error) {
	key, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	k := types.BytesToHash(key.Bytes32()[:])
	val := ip.Storage.Get(f.Address, k)
	return execResult{}, f.Stack.Push(WordFromBytes(val.Bytes()))
}

func gasSLoad(ip *Interpreter, f *Frame) (uint64, error) {
	if !ip.Gates.EIP2929 {
		return 0, nil
	}
	key, err := f.Stack.Back(0)
	if err != nil {
		return 0, err
	}
	k := types.BytesToHash(key.Bytes32()[:])
	return ip.Access.SlotGasCost(ip.Gas, f.Address, k), nil
}

// opSStore implements the simplified classic rules of spec.md §4.F: charge
// SReset up front, additionally charge SSet-SReset on a zero->nonzero
// write, and credit SClear to the refund counter on a nonzero->zero write.
func opSStore(ip *Interpreter, f *Frame) (execResult, error) {
	key, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	val, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	k := types.BytesToHash(key.Bytes32()[:])
	newHash := types.BytesToHash(val.Bytes32()[:])

	prev := ip.Storage.Get(f.Address, k)
	if prev.IsZero() && !newHash.IsZero() {
		extra := ip.Gas.SSet - ip.Gas.SReset
		if f.Gas < extra {
			return execResult{}, ErrOutOfGas
		}
		f.Gas -= extra
	}
	if !prev.IsZero() && newHash.IsZero() {
		f.Refund += ip.Gas.SClear
	}
	if prev != newHash {
		ip.Storage.Set(f.Address, k, newHash)
	}
	return execResult{}, nil
}

func gasSStore(ip *Interpreter, f *Frame) (uint64, error) {
	base := ip.Gas.SReset
	if !ip.Gates.EIP2929 {
		return base, nil
	}
	key, err := f.Stack.Back(0)
	if err != nil {
		return 0, err
	}
	k := types.BytesToHash(key.Bytes32()[:])
	return base + ip.Access.SlotGasCost(ip.Gas, f.Address, k), nil
}

// opTLoad/opTStore implement EIP-1153 transient storage: frame-scoped in
// spirit, but journaled exactly like persistent storage, with the same
// per-child TakeSnapshot/Restore pairing the orchestrator applies to
// StorageStore — a reverted or faulted child's TSTOREs are unwound just
// like its SSTOREs, so they never become visible to the parent's TLOAD.
// ip.transient is never merged into the real StorageStore; it is created
// fresh by NewInterpreter, and one Interpreter runs one transaction, so
// its contents do not outlive that transaction.
func opTLoad(ip *Interpreter, f *Frame) (execResult, error) {
	key, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	k := types.BytesToHash(key.Bytes32()[:])
	val := ip.transient.Get(f.Address, k)
	return execResult{}, f.Stack.Push(WordFromBytes(val.Bytes()))
}

func opTStore(ip *Interpreter, f *Frame) (execResult, error) {
	key, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	val, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	k := types.BytesToHash(key.Bytes32()[:])
	ip.transient.Set(f.Address, k, types.BytesToHash(val.Bytes32()[:]))
	return execResult{}, nil
}

func opLog(topics int) executionFunc {
	return func(ip *Interpreter, f *Frame) (execResult, error) {
		off, err := f.Stack.Pop()
		if err != nil {
			return execResult{}, err
		}
		length, err := f.Stack.Pop()
		if err != nil {
			return execResult{}, err
		}
		topicHashes := make([]types.Hash, topics)
		for i := 0; i < topics; i++ {
			t, err := f.Stack.Pop()
			if err != nil {
				return execResult{}, err
			}
			topicHashes[i] = types.BytesToHash(t.Bytes32()[:])
		}
		data := f.Memory.Load(off.Uint64(), length.Uint64())
		f.Logs = append(f.Logs, types.Log{Address: f.Address, Topics: topicHashes, Data: data})
		return execResult{}, nil
	}
}

func gasLog(topics int) func(ip *Interpreter, f *Frame) (uint64, error) {
	return func(ip *Interpreter, f *Frame) (uint64, error) {
		length, err := f.Stack.Back(1)
		if err != nil {
			return 0, err
		}
		return uint64(topics)*ip.Gas.LogTopic + length.Uint64()*ip.Gas.LogData, nil
	}
}
