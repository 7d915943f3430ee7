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
	"math"

	"github.com/pkg/errors"
)

type queue []Cell

func (q *queue) push(v ...Cell) {
	*q = append(*q, v...)
}

func (q *queue) pop() (Cell, bool) {
	if len(*q) == 0 {
		return 0, false
	}
	v := (*q)[0]
	*q = (*q)[1:]
	return v, true
}

// Mem returns the VM memory. Note that value changes will be reflected in the
// instance's memory, but re-slicing will not affect it. Use Poke to write
// beyond the end of memory.
func (i *Instance) Mem() Image {
	return i.mem
}

// Peek returns the value at address addr. Addresses past the end of memory
// read as 0.
func (i *Instance) Peek(addr int) Cell {
	if addr < 0 || addr >= len(i.mem) {
		return 0
	}
	return i.mem[addr]
}

// Poke writes v at address addr, growing memory as needed up to the memory
// limit.
func (i *Instance) Poke(addr int, v Cell) error {
	if addr < 0 {
		return errors.Wrapf(ErrBadAddress, "poke %d", addr)
	}
	return i.store(addr, v)
}

func (i *Instance) store(addr int, v Cell) error {
	if addr >= len(i.mem) {
		if addr >= i.memLimit {
			return errors.Wrapf(ErrBadAddress, "address %d beyond memory limit %d", addr, i.memLimit)
		}
		i.mem = append(i.mem, make(Image, addr+1-len(i.mem))...)
	}
	i.mem[addr] = v
	return nil
}

// address returns the effective address for a Position or Relative parameter.
func (i *Instance) address(p Param) (int, error) {
	switch p.Mode {
	case Position:
		return i.toAddress(p.Value)
	case Relative:
		a, ok := add(i.relBase, p.Value)
		if !ok {
			return 0, errors.Wrapf(ErrOverflow, "relative address %d%+d", i.relBase, p.Value)
		}
		return i.toAddress(a)
	case Immediate:
		return 0, errors.Wrapf(ErrImmediateWrite, "parameter %v", p)
	}
	return 0, errors.Wrapf(ErrBadMode, "mode %d", p.Mode)
}

func (i *Instance) toAddress(v Cell) (int, error) {
	if v < 0 || uint64(v) > math.MaxInt {
		return 0, errors.Wrapf(ErrBadAddress, "address %d", v)
	}
	return int(v), nil
}

func (i *Instance) load(p Param) (Cell, error) {
	if p.Mode == Immediate {
		return p.Value, nil
	}
	a, err := i.address(p)
	if err != nil {
		return 0, err
	}
	return i.Peek(a), nil
}

func (i *Instance) load2(p []Param) (a, b Cell, err error) {
	if a, err = i.load(p[0]); err != nil {
		return 0, 0, err
	}
	if b, err = i.load(p[1]); err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// add and mul return false on overflow.

func add(a, b Cell) (Cell, bool) {
	c := a + b
	return c, (c > a) == (b > 0)
}

func mul(a, b Cell) (Cell, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	c := a * b
	if c/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return c, false
	}
	return c, true
}
