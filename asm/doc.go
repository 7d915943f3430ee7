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

// Package asm provides utility functions to assemble and disassemble Intcode
// VM code.
//
// Supported assembler mnemonics:
//
//	opcode	asm		params	description
//	------	---		------	------------------------------------------------
//	1	add		a b dst	dst = a + b
//	2	mul		a b dst	dst = a * b
//	3	in		dst	read one value from the input queue into dst
//	4	out		src	write src to the output queue
//	5	jnz, jt		c t	jump to t if c != 0
//	6	jz, jf		c t	jump to t if c == 0
//	7	lt		a b dst	dst = 1 if a < b, else 0
//	8	eq		a b dst	dst = 1 if a == b, else 0
//	9	arb		d	add d to the relative base
//	99	hlt, halt		halt
//
// Operands:
//
// The addressing mode of an operand is given by an optional prefix:
//
//	42	position mode: the value at address 42
//	#42	immediate mode: the value 42
//	@-1	relative mode: the value at address relative base - 1
//
// Comments:
//
// Comments are placed between parentheses, i.e. '(' and ')'. The body of the
// comment must be separated from the enclosing parentheses by a space:
//
//	( this is a valid comment )
//	(this is not )
//
// Literals and label/const identifiers:
//
// Input is split at white space (space, tab or new line) into tokens. Operand
// values are handled as follows:
//
//   - If a token can be converted to a Go integer (see strconv.ParseInt), it will
//     be converted to an integer literal.
//   - If it is a Go character literal between single quotes, it will be converted to
//     the corresponding integer literal.
//   - If a token is the name of a defined constant, it will be replaced by
//     the constant's value.
//   - Anything else is a label reference.
//
// Labels:
//
// Labels are defined by prefixing them with a colon (:) and evaluate to the
// address of the next compiled cell. Forward references are ok:
//
//	:loop	in x
//		jz x #loop	( read again if x is 0 )
//		out x
//		hlt
//	:x	.dat 0
//
// Since position mode operands are addresses, labels on .dat cells are the
// usual way to define variables:
//
//		in n
//		mul n #2 n
//		out n
//		hlt
//	:n	.dat 0
//
// Assembler directives:
//
//	.equ <IDENTIFIER> <value>
//
// defines a constant value. The value must be an integer value, named constant
// or character literal.
//
//	.dat <value>
//
// compiles the specified integer value, named constant, character literal or
// label address as-is.
package asm
