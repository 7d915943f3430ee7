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
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Opcode is the operation selector held in the two low decimal digits of an
// instruction's first cell.
type Opcode Cell

// Intcode Virtual Machine Opcodes.
const (
	OpAdd     Opcode = 1
	OpMul     Opcode = 2
	OpIn      Opcode = 3
	OpOut     Opcode = 4
	OpJnz     Opcode = 5
	OpJz      Opcode = 6
	OpLt      Opcode = 7
	OpEq      Opcode = 8
	OpArb     Opcode = 9
	OpHlt     Opcode = 99
	maxParams        = 3
)

type opInfo struct {
	name   string
	params int
}

var opcodes = map[Opcode]opInfo{
	OpAdd: {"add", 3},
	OpMul: {"mul", 3},
	OpIn:  {"in", 1},
	OpOut: {"out", 1},
	OpJnz: {"jnz", 2},
	OpJz:  {"jz", 2},
	OpLt:  {"lt", 3},
	OpEq:  {"eq", 3},
	OpArb: {"arb", 1},
	OpHlt: {"hlt", 0},
}

// Opcodes returns all valid opcodes in ascending order.
func Opcodes() []Opcode {
	return []Opcode{OpAdd, OpMul, OpIn, OpOut, OpJnz, OpJz, OpLt, OpEq, OpArb, OpHlt}
}

// Valid returns true if op is part of the instruction set.
func (op Opcode) Valid() bool {
	_, ok := opcodes[op]
	return ok
}

// NumParams returns the number of parameters expected by op.
func (op Opcode) NumParams() int {
	return opcodes[op].params
}

func (op Opcode) String() string {
	if info, ok := opcodes[op]; ok {
		return info.name
	}
	return "op(" + strconv.Itoa(int(op)) + ")"
}

// Mode is a parameter addressing mode.
type Mode int8

// Parameter modes.
const (
	Position Mode = iota
	Immediate
	Relative
)

// Param is a decoded instruction parameter. For Position parameters, Value is
// an address. For Immediate parameters, it is the literal value. For Relative
// parameters, it is an offset from the relative base.
type Param struct {
	Mode  Mode
	Value Cell
}

// String returns the parameter in assembler syntax.
func (p Param) String() string {
	v := strconv.FormatInt(int64(p.Value), 10)
	switch p.Mode {
	case Immediate:
		return "#" + v
	case Relative:
		return "@" + v
	}
	return v
}

// Instruction is a decoded instruction.
type Instruction struct {
	Op     Opcode
	Params [maxParams]Param
}

// Len returns the number of memory cells used to encode the instruction.
func (in Instruction) Len() int {
	return 1 + in.Op.NumParams()
}

// Encode returns the memory cells encoding the instruction.
func (in Instruction) Encode() []Cell {
	n := in.Op.NumParams()
	c := make([]Cell, 1, 1+n)
	c[0] = Cell(in.Op)
	for k, m := Cell(100), 0; m < n; k, m = k*10, m+1 {
		c[0] += Cell(in.Params[m].Mode) * k
		c = append(c, in.Params[m].Value)
	}
	return c
}

// String returns the instruction in assembler syntax.
func (in Instruction) String() string {
	var b strings.Builder
	b.WriteString(in.Op.String())
	for _, p := range in.Params[:in.Op.NumParams()] {
		b.WriteByte(' ')
		b.WriteString(p.String())
	}
	return b.String()
}

var modeDiv = [maxParams]Cell{100, 1000, 10000}

// DecodeParam decodes parameter number i (0 based) of the instruction starting
// at m[0].
func DecodeParam(m []Cell, i int) (Param, error) {
	if i < 0 || i >= maxParams {
		return Param{}, errors.Errorf("bad parameter number %d", i)
	}
	if i+1 >= len(m) {
		return Param{}, errors.Wrapf(ErrTruncated, "parameter %d of %d", i, m[0])
	}
	p := Param{Mode(m[0] / modeDiv[i] % 10), m[i+1]}
	switch p.Mode {
	case Position:
		if p.Value < 0 {
			return Param{}, errors.Wrapf(ErrBadAddress, "parameter %d of %d: %d", i, m[0], p.Value)
		}
	case Immediate, Relative:
	default:
		return Param{}, errors.Wrapf(ErrBadMode, "mode %d for parameter %d of %d", p.Mode, i, m[0])
	}
	return p, nil
}

// Decode decodes the instruction at the start of m. It does not modify m.
func Decode(m []Cell) (Instruction, error) {
	var in Instruction
	if len(m) == 0 {
		return in, errors.Wrap(ErrTruncated, "no opcode")
	}
	in.Op = Opcode(m[0] % 100)
	if !in.Op.Valid() {
		return Instruction{}, errors.Wrapf(ErrBadOpcode, "opcode %d in %d", in.Op, m[0])
	}
	for k := 0; k < in.Op.NumParams(); k++ {
		p, err := DecodeParam(m, k)
		if err != nil {
			return Instruction{}, err
		}
		in.Params[k] = p
	}
	return in, nil
}
