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

package asm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/db47h/intcode/asm"
	"github.com/db47h/intcode/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble(t *testing.T) {
	tests := []struct {
		name string
		code string
		want vm.Image
	}{
		{"add", "add 0 0 0 hlt", vm.Image{1, 0, 0, 0, 99}},
		{"modes", "mul 4 #3 @4", vm.Image{21002, 4, 3, 4}},
		{"io", "in @-1 out #'A'", vm.Image{203, -1, 104, 65}},
		{"aliases", "jt #1 #0 jf 5 @6 halt", vm.Image{1105, 1, 0, 2006, 5, 6, 99}},
		{"labels", ":start in x jz x #start :x .dat 0", vm.Image{3, 5, 1006, 5, 0, 0}},
		{"consts", ".equ N 0x10 lt #N #'\\n' 0", vm.Image{1107, 16, 10, 0}},
		{"comments", "( nothing here ) arb #-3 ( the end )", vm.Image{109, -3}},
		{"dat", ".dat 0666 .dat -2 .dat end :end", vm.Image{438, -2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := asm.Assemble(tt.name, strings.NewReader(tt.code))
			require.NoError(t, err)
			assert.Equal(t, tt.want, img)
		})
	}
}

// check some errors. We're not checking the whole messages, rather that they
// point at the correct place.
func TestAssemble_errors(t *testing.T) {
	code := `
	foo
	.org 12
	out :x
	.equ Z bar
	jz #
:twice	hlt
:twice	hlt
	out nowhere`
	_, err := asm.Assemble("test_errors", strings.NewReader(code))
	require.Error(t, err)
	errs, ok := err.(asm.ErrAsm)
	require.True(t, ok)

	wants := []struct {
		token string
		msg   string
	}{
		{"foo", "Unknown mnemonic foo"},
		{".org", "Unknown directive .org"},
		{"12", "Unknown mnemonic 12"},
		{":x", "Unexpected :x as operand 1 for out"},
		{"bar", ".equ: invalid value bar"},
		{"#", "Empty operand 1 for jz"},
		{":twice", "Label redefinition: twice"},
		{"nowhere", "Undefined label nowhere"},
	}
	require.Len(t, errs, len(wants), "%v", err)
	for i, w := range wants {
		e := errs[i]
		o := e.Pos.Offset
		assert.True(t, strings.HasPrefix(code[o:], w.token), "error %q points to %q", e.Msg, code[o:])
		assert.True(t, strings.HasPrefix(e.Msg, w.msg), "got %q, expected %q", e.Msg, w.msg)
	}
}

func TestAssemble_missingOperand(t *testing.T) {
	_, err := asm.Assemble("eof", strings.NewReader("add 1 2"))
	require.Error(t, err)
	errs := err.(asm.ErrAsm)
	require.Len(t, errs, 1)
	assert.Equal(t, "Missing operand 3 for add", errs[0].Msg)
}

func TestAssemble_maxErrors(t *testing.T) {
	_, err := asm.Assemble("many", strings.NewReader(strings.Repeat("bad ", 20)))
	require.Error(t, err)
	assert.Len(t, err.(asm.ErrAsm), 10)
}

func TestDisassemble_roundTrip(t *testing.T) {
	prog, err := vm.Parse("109,1,204,-1,1001,100,1,100,1008,100,16,101,1006,101,0,99")
	require.NoError(t, err)

	var b bytes.Buffer
	for pc := 0; pc < len(prog); {
		pc, err = asm.Disassemble(prog, pc, &b)
		require.NoError(t, err)
		b.WriteByte('\n')
	}
	assert.Equal(t, "arb #1\nout @-1\nadd 100 #1 100\neq 100 #16 101\njz 101 #0\nhlt\n", b.String())

	img, err := asm.Assemble("roundtrip", &b)
	require.NoError(t, err)
	assert.Equal(t, prog, img)
}

func TestDisassemble_data(t *testing.T) {
	var b bytes.Buffer
	err := asm.DisassembleAll(vm.Image{-7, 1, 1, 2, 3, 398, 4}, 10, &b)
	require.NoError(t, err)
	assert.Equal(t, "        10\t.dat -7\n        11\tadd 1 2 3\n        15\t.dat 398\n        16\t.dat 4\n", b.String())
}
