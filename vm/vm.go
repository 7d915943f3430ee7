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
	"log/slog"

	"github.com/pkg/errors"
)

// Cell is the raw type stored in a memory location.
type Cell int64

// DefaultMemLimit is the default maximum memory size in cells. Writes at or
// beyond the memory limit are fatal instead of growing memory.
const DefaultMemLimit = 1 << 26

// Fatal VM errors.
var (
	ErrBadOpcode      = errors.New("invalid opcode")
	ErrBadMode        = errors.New("invalid parameter mode")
	ErrBadAddress     = errors.New("invalid address")
	ErrTruncated      = errors.New("truncated instruction")
	ErrOverflow       = errors.New("integer overflow")
	ErrImmediateWrite = errors.New("write to immediate parameter")
	ErrSyntax         = errors.New("syntax error")
)

// Instance represents an Intcode VM instance.
type Instance struct {
	PC         int // Program Counter
	mem        Image
	relBase    Cell
	input      queue
	output     queue
	halted     bool
	wantsInput bool
	insCount   int64
	memLimit   int
	log        *slog.Logger
}

// Option interface
type Option func(*Instance) error

// Input queues the given values for input instructions.
func Input(v ...Cell) Option {
	return func(i *Instance) error { i.PushInput(v...); return nil }
}

// InputString queues the characters of s for input instructions.
func InputString(s string) Option {
	return func(i *Instance) error { i.PushInputString(s); return nil }
}

// MemLimit sets the maximum memory size in cells. Writing beyond that limit is
// a fatal error. The default is DefaultMemLimit.
func MemLimit(cells int) Option {
	return func(i *Instance) error {
		if cells < len(i.mem) {
			return errors.Errorf("memory limit %d smaller than image size %d", cells, len(i.mem))
		}
		i.memLimit = cells
		return nil
	}
}

// Trace enables execution tracing: every executed instruction is logged at
// debug level, suspensions and halts at info level.
func Trace(l *slog.Logger) Option {
	return func(i *Instance) error { i.log = l; return nil }
}

// SetOptions sets the provided options.
func (i *Instance) SetOptions(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return err
		}
	}
	return nil
}

// New creates a new Intcode Virtual Machine instance.
//
// The image is copied, so the same image can be used to create several
// instances.
//
// Options will be set by calling SetOptions.
func New(image Image, opts ...Option) (*Instance, error) {
	i := &Instance{
		mem:      append(Image(nil), image...),
		memLimit: DefaultMemLimit,
	}
	if len(i.mem) > i.memLimit {
		i.memLimit = len(i.mem)
	}
	if err := i.SetOptions(opts...); err != nil {
		return nil, err
	}
	return i, nil
}

// NewFromString parses the program text s and creates a new instance for it.
func NewFromString(s string, opts ...Option) (*Instance, error) {
	img, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return New(img, opts...)
}

// Clone returns a deep copy of the instance. The clone shares no mutable
// state with i.
func (i *Instance) Clone() *Instance {
	c := *i
	c.mem = append(Image(nil), i.mem...)
	c.input = append(queue(nil), i.input...)
	c.output = append(queue(nil), i.output...)
	return &c
}

// Halted returns true if the VM has executed a halt instruction.
func (i *Instance) Halted() bool {
	return i.halted
}

// WantsInput returns true if the VM is suspended on an input instruction
// because the input queue was empty.
func (i *Instance) WantsInput() bool {
	return i.wantsInput
}

// RelBase returns the current relative base.
func (i *Instance) RelBase() Cell {
	return i.relBase
}

// InstructionCount returns the number of instructions executed so far.
func (i *Instance) InstructionCount() int64 {
	return i.insCount
}

// PushInput appends values to the input queue.
func (i *Instance) PushInput(v ...Cell) {
	i.input.push(v...)
}

// PushInputString appends the code points of the characters in s to the input
// queue.
func (i *Instance) PushInputString(s string) {
	for _, r := range s {
		i.input.push(Cell(r))
	}
}

// InputLen returns the number of values waiting in the input queue.
func (i *Instance) InputLen() int {
	return len(i.input)
}

// ClearInput discards any pending input.
func (i *Instance) ClearInput() {
	i.input = nil
}

// OutputLen returns the number of values waiting in the output queue.
func (i *Instance) OutputLen() int {
	return len(i.output)
}

// PopOutput removes the oldest value from the output queue and returns it. The
// boolean return value is false if the queue was empty.
func (i *Instance) PopOutput() (Cell, bool) {
	return i.output.pop()
}

// DrainOutput empties the output queue and returns its contents.
func (i *Instance) DrainOutput() []Cell {
	out := []Cell(i.output)
	i.output = nil
	return out
}
