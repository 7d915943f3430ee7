// This file is part of intcode - https://github.com/db47h/intcode
//
// Copyright 2019 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vm

import (
	"github.com/pkg/errors"
)

// State is the execution state reported by Step.
type State int

// Execution states.
const (
	Running    State = iota // the instruction completed, execution may continue
	Halted                  // the VM executed a halt instruction
	WantsInput              // the VM needs input to proceed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Halted:
		return "halted"
	case WantsInput:
		return "wants input"
	}
	return "unknown"
}

// Step decodes and executes a single instruction.
//
// If an error occurs, the PC will point to the instruction that triggered the
// error and the VM state is left untouched. The returned State is only
// meaningful if err is nil.
func (i *Instance) Step() (State, error) {
	if i.halted {
		return Halted, nil
	}
	pc := i.PC
	var m []Cell
	if pc >= 0 && pc < len(i.mem) {
		m = i.mem[pc:]
	}
	s, err := i.exec(m)
	if err != nil {
		return s, errors.Wrapf(err, "pc=%d (%d)", pc, i.Peek(pc))
	}
	return s, nil
}

func (i *Instance) exec(m []Cell) (State, error) {
	in, err := Decode(m)
	if err != nil {
		return Running, err
	}
	if i.log != nil {
		i.log.Debug("exec", "pc", i.PC, "insn", in, "relbase", i.relBase)
	}
	// the PC is only updated if the instruction completes
	next := i.PC + in.Len()
	p := in.Params[:]
	switch in.Op {
	case OpHlt:
		i.halted = true
		i.wantsInput = false
		i.insCount++
		if i.log != nil {
			i.log.Info("halted", "pc", i.PC, "instructions", i.insCount)
		}
		return Halted, nil
	case OpAdd, OpMul, OpLt, OpEq:
		a, b, err := i.load2(p)
		if err != nil {
			return Running, err
		}
		dst, err := i.address(p[2])
		if err != nil {
			return Running, err
		}
		var v Cell
		switch in.Op {
		case OpAdd:
			var ok bool
			if v, ok = add(a, b); !ok {
				return Running, errors.Wrapf(ErrOverflow, "%d + %d", a, b)
			}
		case OpMul:
			var ok bool
			if v, ok = mul(a, b); !ok {
				return Running, errors.Wrapf(ErrOverflow, "%d * %d", a, b)
			}
		case OpLt:
			if a < b {
				v = 1
			}
		case OpEq:
			if a == b {
				v = 1
			}
		}
		if err = i.store(dst, v); err != nil {
			return Running, err
		}
	case OpIn:
		dst, err := i.address(p[0])
		if err != nil {
			return Running, err
		}
		if len(i.input) == 0 {
			i.wantsInput = true
			if i.log != nil {
				i.log.Info("waiting for input", "pc", i.PC)
			}
			return WantsInput, nil
		}
		if err = i.store(dst, i.input[0]); err != nil {
			return Running, err
		}
		i.input.pop()
	case OpOut:
		v, err := i.load(p[0])
		if err != nil {
			return Running, err
		}
		i.output.push(v)
	case OpJnz, OpJz:
		c, t, err := i.load2(p)
		if err != nil {
			return Running, err
		}
		if (c != 0) == (in.Op == OpJnz) {
			if next, err = i.toAddress(t); err != nil {
				return Running, errors.Wrap(err, "jump target")
			}
		}
	case OpArb:
		d, err := i.load(p[0])
		if err != nil {
			return Running, err
		}
		rb, ok := add(i.relBase, d)
		if !ok {
			return Running, errors.Wrapf(ErrOverflow, "relative base %d%+d", i.relBase, d)
		}
		i.relBase = rb
	default:
		// unreachable: Decode only returns valid opcodes.
		return Running, errors.Wrapf(ErrBadOpcode, "opcode %d", in.Op)
	}
	i.wantsInput = false
	i.PC = next
	i.insCount++
	return Running, nil
}

// Run runs the VM until it either halts or needs input. A halted VM cannot be
// resumed and calling Run on it is a no-op.
//
// If an error occurs, the PC will point to the instruction that triggered the
// error.
func (i *Instance) Run() error {
	for {
		s, err := i.Step()
		if err != nil || s != Running {
			return err
		}
	}
}

// RunUntilOutput runs the VM until it produces an output value, halts or needs
// input. If a value was output, it is removed from the output queue and
// returned along with true. If the VM stopped without producing output,
// RunUntilOutput returns false.
func (i *Instance) RunUntilOutput() (Cell, bool, error) {
	for {
		s, err := i.Step()
		if err != nil || s != Running {
			return 0, false, err
		}
		if v, ok := i.output.pop(); ok {
			return v, true, nil
		}
	}
}
