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

package asm

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/db47h/intcode/internal/iox"
	"github.com/db47h/intcode/vm"
)

var mnemonics = [...]struct {
	op    vm.Opcode
	names []string
}{
	{vm.OpAdd, []string{"add"}},
	{vm.OpMul, []string{"mul"}},
	{vm.OpIn, []string{"in"}},
	{vm.OpOut, []string{"out"}},
	{vm.OpJnz, []string{"jnz", "jt"}},
	{vm.OpJz, []string{"jz", "jf"}},
	{vm.OpLt, []string{"lt"}},
	{vm.OpEq, []string{"eq"}},
	{vm.OpArb, []string{"arb"}},
	{vm.OpHlt, []string{"hlt", "halt"}},
}

var opcodeIndex = make(map[string]vm.Opcode)

func init() {
	for _, m := range mnemonics {
		for _, n := range m.names {
			opcodeIndex[n] = m.op
		}
	}
}

// Error is an assembler error at a given source position.
type Error struct {
	Pos scanner.Position
	Msg string
}

func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// ErrAsm is the error type returned by Assemble. It holds up to 10 errors.
type ErrAsm []Error

func (e ErrAsm) Error() string {
	var b strings.Builder
	for i := range e {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e[i].Error())
	}
	return b.String()
}

// Assemble compiles assembly read from the supplied io.Reader and returns the
// resulting image and error if any.
//
// The name parameter is used only in error messages to name the source of the
// error. If the io.Reader is a file, name should be the file name.
//
// The returned error, if not nil, can safely be cast to an ErrAsm value.
func Assemble(name string, r io.Reader) (img vm.Image, err error) {
	p := newParser()
	return p.Parse(name, r)
}

// Disassemble writes a disassembly of the instruction in m at position pc to
// the specified io.Writer and returns the position of the next instruction and
// any write error. Cells that cannot be decoded are written as .dat
// directives.
func Disassemble(m []vm.Cell, pc int, w io.Writer) (next int, err error) {
	ew := iox.NewErrWriter(w)
	in, derr := vm.Decode(m[pc:])
	if derr != nil {
		io.WriteString(ew, ".dat ")
		io.WriteString(ew, strconv.FormatInt(int64(m[pc]), 10))
		return pc + 1, ew.Err
	}
	io.WriteString(ew, in.String())
	return pc + in.Len(), ew.Err
}

// DisassembleAll writes a disassembly of all cells in the given slice to
// the specified io.Writer. The base argument specifies the real address of the
// first cell (m[0]). It will return any write error.
func DisassembleAll(m []vm.Cell, base int, w io.Writer) error {
	ew := iox.NewErrWriter(w)
	for pc := 0; pc < len(m); {
		fmt.Fprintf(ew, "% 10d\t", base+pc)
		pc, _ = Disassemble(m, pc, ew)
		ew.Write([]byte{'\n'})
		if ew.Err != nil {
			return ew.Err
		}
	}
	return nil
}
