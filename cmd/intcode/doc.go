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

// The intcode command line tool runs, assembles and disassembles Intcode
// programs.
//
// Usage:
//
//	intcode [global flags] command [flags] FILE
//
// Commands:
//
//	run FILE	run a program until it halts and print its output values
//	interact FILE	run a text based program interactively
//	asm FILE	assemble a program and print it as program text
//	disasm FILE	disassemble a program
//	amp FILE	run a chain of amplifiers
//	nat FILE	run a network of nodes exchanging packets
//
// Global flags:
//
//	--debug
//		print a full stack trace and the VM state should the VM crash
//	--trace
//		log every executed instruction, at debug level
//	--log-level level
//		log level: debug, info, warn or error (default "warn")
//	--log-file filename
//		also write JSON logs to filename
//
// run flags:
//
//	-i, --input values
//		input values (can be repeated or comma separated)
//	-t, --text string
//		queue the characters of string as input, after any --input values
//	-s, --set addr=value
//		patch memory before running (can be repeated)
//	--ascii
//		print output values as text. The last value that is not a valid
//		code point is printed on its own line.
//	--dump
//		dump VM registers and memory upon exit
//
// Running out of input in run mode is an error.
//
// interact reads input from stdin, one line at a time. If stdin is a terminal,
// line editing and history are enabled, the history file being
// $HOME/.intcode_history.
//
// amp flags:
//
//	-p, --phases settings
//		comma separated phase settings (default "0,1,2,3,4")
//	--input value
//		input signal of the first amplifier (default 0)
//	-f, --feedback
//		feed the output of the last amplifier back to the first one
//	--max
//		try every ordering of the phase settings and print the highest
//		output along with the matching phase settings
//
// nat flags:
//
//	-n, --nodes int
//		number of nodes (default 50)
//	--first
//		print the Y value of the first packet sent to the NAT
//	--idle rounds
//		number of idle rounds before the NAT wakes up (default 2)
package main
