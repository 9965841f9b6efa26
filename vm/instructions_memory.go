package vm

import "github.com/concordant-chain/evmcore/crypto"

// addOverflow returns a+b and whether it overflowed uint64, used to guard
// memory-size calculations against a crafted offset+length that would
// otherwise wrap around and under-charge gas.
func addOverflow(a, b uint64) (uint64, bool) {
	r := a + b
	return r, r < a
}

func memSize1(off int) func(*Stack) (uint64, bool) {
	return func(st *Stack) (uint64, bool) {
		o, err := st.Back(off)
		if err != nil {
			return 0, true
		}
		if !o.IsUint64() {
			return 0, true
		}
		return addOverflow(o.Uint64(), 32)
	}
}

func memSizeRange(offIdx, lenIdx int) func(*Stack) (uint64, bool) {
	return func(st *Stack) (uint64, bool) {
		off, err := st.Back(offIdx)
		if err != nil {
			return 0, true
		}
		length, err := st.Back(lenIdx)
		if err != nil {
			return 0, true
		}
		if length.IsZero() {
			return 0, false
		}
		if !off.IsUint64() || !length.IsUint64() {
			return 0, true
		}
		return addOverflow(off.Uint64(), length.Uint64())
	}
}

func memSizeCall(argsOff, argsLen, retOff, retLen int) func(*Stack) (uint64, bool) {
	return func(st *Stack) (uint64, bool) {
		a, overflow := memSizeRange(argsOff, argsLen)(st)
		if overflow {
			return 0, true
		}
		r, overflow := memSizeRange(retOff, retLen)(st)
		if overflow {
			return 0, true
		}
		if a > r {
			return a, false
		}
		return r, false
	}
}

func opPop(ip *Interpreter, f *Frame) (execResult, error) {
	_, err := f.Stack.Pop()
	return execResult{}, err
}

func opMload(ip *Interpreter, f *Frame) (execResult, error) {
	off, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	word := f.Memory.LoadWord(off.Uint64())
	if err := f.Stack.Push(WordFromBytes(word)); err != nil {
		return execResult{}, err
	}
	return execResult{}, nil
}

func opMstore(ip *Interpreter, f *Frame) (execResult, error) {
	off, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	val, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	f.Memory.StoreWord(off.Uint64(), val)
	return execResult{}, nil
}

func opMstore8(ip *Interpreter, f *Frame) (execResult, error) {
	off, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	val, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	f.Memory.StoreByte(off.Uint64(), byte(val.Uint64()))
	return execResult{}, nil
}

func opMsize(ip *Interpreter, f *Frame) (execResult, error) {
	return execResult{}, f.Stack.Push(WordFromUint64(uint64(f.Memory.Len())))
}

func opMcopy(ip *Interpreter, f *Frame) (execResult, error) {
	dst, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	src, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	length, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	if length.IsZero() {
		return execResult{}, nil
	}
	data := f.Memory.Load(src.Uint64(), length.Uint64())
	f.Memory.Store(dst.Uint64(), data)
	return execResult{}, nil
}

func gasMcopy(ip *Interpreter, f *Frame) (uint64, error) {
	length, err := f.Stack.Back(2)
	if err != nil {
		return 0, err
	}
	words := (length.Uint64() + 31) / 32
	return ip.Gas.Memory * words, nil
}

func memSizeMcopy(st *Stack) (uint64, bool) {
	dstEnd, overflow := memSizeRange(0, 2)(st)
	if overflow {
		return 0, true
	}
	srcEnd, overflow := memSizeRange(1, 2)(st)
	if overflow {
		return 0, true
	}
	if dstEnd > srcEnd {
		return dstEnd, false
	}
	return srcEnd, false
}

func opPc(ip *Interpreter, f *Frame) (execResult, error) {
	return execResult{}, f.Stack.Push(WordFromUint64(f.PC))
}

func opGas(ip *Interpreter, f *Frame) (execResult, error) {
	return execResult{}, f.Stack.Push(WordFromUint64(f.Gas))
}

func opJumpdest(ip *Interpreter, f *Frame) (execResult, error) {
	return execResult{}, nil
}

func opJump(ip *Interpreter, f *Frame) (execResult, error) {
	dest, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	if !dest.IsUint64() || !f.Code.ValidJump(dest.Uint64()) {
		return execResult{}, ErrInvalidJump
	}
	f.PC = dest.Uint64()
	return execResult{Jumped: true}, nil
}

// opJumpi fails the frame with InvalidJump when the branch is taken to an
// invalid destination; when the condition is false, it falls through
// regardless of whether dest would have been valid. The source material's
// path that both raises an exception and returns an invalid-jump sentinel
// on the same branch is dead code (DESIGN NOTES §9 open question) — there
// is exactly one outcome here: a taken branch to a bad destination is a
// fault, full stop.
func opJumpi(ip *Interpreter, f *Frame) (execResult, error) {
	dest, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	cond, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	if cond.IsZero() {
		return execResult{}, nil
	}
	if !dest.IsUint64() || !f.Code.ValidJump(dest.Uint64()) {
		return execResult{}, ErrInvalidJump
	}
	f.PC = dest.Uint64()
	return execResult{Jumped: true}, nil
}

func opPush(size int) executionFunc {
	return func(ip *Interpreter, f *Frame) (execResult, error) {
		start := f.PC + 1
		data := SliceWithZeroPadding(f.Code.Code, start, uint64(size))
		if err := f.Stack.Push(WordFromBytes(data)); err != nil {
			return execResult{}, err
		}
		f.PC = start + uint64(size)
		if end := uint64(f.Code.Len()); f.PC > end {
			f.PC = end
		}
		return execResult{Jumped: true}, nil
	}
}

func opDup(n int) executionFunc {
	return func(ip *Interpreter, f *Frame) (execResult, error) {
		return execResult{}, f.Stack.Dup(n)
	}
}

func opSwap(n int) executionFunc {
	return func(ip *Interpreter, f *Frame) (execResult, error) {
		return execResult{}, f.Stack.Swap(n)
	}
}

func opKeccak256(ip *Interpreter, f *Frame) (execResult, error) {
	off, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	length, err := f.Stack.Pop()
	if err != nil {
		return execResult{}, err
	}
	data := f.Memory.Load(off.Uint64(), length.Uint64())
	hash := crypto.Keccak256(data)
	return execResult{}, f.Stack.Push(WordFromBytes(hash))
}

func gasKeccak256(ip *Interpreter, f *Frame) (uint64, error) {
	length, err := f.Stack.Back(1)
	if err != nil {
		return 0, err
	}
	words := (length.Uint64() + 31) / 32
	return ip.Gas.Sha3Word * words, nil
}
