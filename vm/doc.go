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

// Package vm implements the Intcode virtual machine.
//
// An Intcode program is a comma separated list of integers that is loaded
// as-is into the VM memory. Instructions are variable width: the first cell
// holds the opcode in its two low decimal digits and one addressing mode digit
// per parameter in the hundreds, thousands and ten thousands places. The
// following cells hold the parameters.
//
//	opcode	asm	params	description
//	------	---	------	------------------------------------------------
//	1	add	a b dst	dst = a + b
//	2	mul	a b dst	dst = a * b
//	3	in	dst	dst = next input value; suspends if there is none
//	4	out	src	append src to the output queue
//	5	jnz	c t	jump to t if c != 0
//	6	jz	c t	jump to t if c == 0
//	7	lt	a b dst	dst = 1 if a < b, else 0
//	8	eq	a b dst	dst = 1 if a == b, else 0
//	9	arb	d	add d to the relative base
//	99	hlt		halt
//
// Parameter modes are 0 (position: the parameter is an address), 1
// (immediate: the parameter is the value) and 2 (relative: the parameter is
// an offset from the relative base).
//
// Memory grows as needed: reading past the end of memory yields 0, writing past
// the end extends it with zeroes. Growth is capped by a memory limit,
// DefaultMemLimit cells unless set with the MemLimit option: writing at or
// beyond the limit does not extend memory, it is a fatal ErrBadAddress error.
//
// The VM never blocks. When an input instruction finds the input queue empty,
// the VM suspends: Run returns with WantsInput set and the PC still pointing at
// the input instruction. Push more input and call Run again to resume. Several
// instances can be driven this way from a single goroutine, and Clone takes a
// snapshot of an instance to explore alternate executions.
//
// All other abnormal conditions (bad opcodes or modes, writes to immediate
// parameters, integer overflow, negative addresses) are fatal and reported as
// errors wrapping one of the Err* values of this package. Use errors.Cause from
// github.com/pkg/errors to get at them.
package vm
