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

package network

import (
	"context"
	"runtime"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Errors returned by the network drivers.
var (
	ErrDeadlock = errors.New("deadlock")
	ErrNoOutput = errors.New("no output")
	ErrIdle     = errors.New("network idle")
	ErrAddress  = errors.New("invalid node address")
	ErrHalted   = errors.New("all nodes halted")
)

// Chain runs one amplifier per phase setting, all running the program prog.
// The first amplifier receives the input signal. Chain returns the last value
// output by the last amplifier.
//
// If feedback is true, the output of the last amplifier is fed back to the
// first one, until the last amplifier halts.
func Chain(prog vm.Image, phases []vm.Cell, input vm.Cell, feedback bool) (vm.Cell, error) {
	if len(phases) == 0 {
		return 0, errors.New("no phase settings")
	}
	amps := make([]*vm.Instance, len(phases))
	for k, ph := range phases {
		a, err := vm.New(prog, vm.Input(ph))
		if err != nil {
			return 0, err
		}
		amps[k] = a
	}
	return chain(amps, input, feedback)
}

func chain(amps []*vm.Instance, input vm.Cell, feedback bool) (vm.Cell, error) {
	var (
		signal vm.Cell
		got    bool
	)
	pending := []vm.Cell{input}
	last := len(amps) - 1
	for {
		moved := false
		for k, a := range amps {
			a.PushInput(pending...)
			if err := a.Run(); err != nil {
				return 0, errors.Wrapf(err, "amplifier %d", k)
			}
			pending = a.DrainOutput()
			if len(pending) == 0 {
				continue
			}
			moved = true
			if k == last {
				signal, got = pending[len(pending)-1], true
			}
		}
		if !feedback || amps[last].Halted() {
			if !got {
				return 0, errors.Wrapf(ErrNoOutput, "amplifier %d", last)
			}
			return signal, nil
		}
		if !moved {
			return 0, errors.Wrapf(ErrDeadlock, "amplifier %d waiting for input", last)
		}
	}
}

// MaxChain tries every ordering of phases and returns the highest signal
// output by Chain with an input signal of 0, along with the matching phase
// settings. Orderings are evaluated in parallel.
func MaxChain(ctx context.Context, prog vm.Image, phases []vm.Cell, feedback bool) (vm.Cell, []vm.Cell, error) {
	if len(phases) == 0 {
		return 0, nil, errors.New("no phase settings")
	}
	// amplifiers that consumed their phase setting and wait for a signal.
	bases := make([]*vm.Instance, len(phases))
	for k, ph := range phases {
		b, err := vm.New(prog, vm.Input(ph))
		if err != nil {
			return 0, nil, err
		}
		if err = b.Run(); err != nil {
			return 0, nil, errors.Wrapf(err, "phase %d", ph)
		}
		bases[k] = b
	}

	perms := permutations(len(phases))
	results := make([]vm.Cell, len(perms))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for k, perm := range perms {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			amps := make([]*vm.Instance, len(perm))
			for j, idx := range perm {
				amps[j] = bases[idx].Clone()
			}
			v, err := chain(amps, 0, feedback)
			if err != nil {
				return errors.Wrapf(err, "phases %v", settings(phases, perm))
			}
			results[k] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, nil, err
	}

	best := 0
	for k, v := range results {
		if v > results[best] {
			best = k
		}
	}
	return results[best], settings(phases, perms[best]), nil
}

func settings(phases []vm.Cell, perm []int) []vm.Cell {
	s := make([]vm.Cell, len(perm))
	for k, idx := range perm {
		s[k] = phases[idx]
	}
	return s
}

// permutations returns all permutations of [0, n) using Heap's algorithm.
func permutations(n int) [][]int {
	p := make([]int, n)
	for k := range p {
		p[k] = k
	}
	out := [][]int{append([]int(nil), p...)}
	c := make([]int, n)
	for k := 0; k < n; {
		if c[k] < k {
			if k%2 == 0 {
				p[0], p[k] = p[k], p[0]
			} else {
				p[c[k]], p[k] = p[k], p[c[k]]
			}
			out = append(out, append([]int(nil), p...))
			c[k]++
			k = 0
			continue
		}
		c[k] = 0
		k++
	}
	return out
}
