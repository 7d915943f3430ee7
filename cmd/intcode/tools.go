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

package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/db47h/intcode/asm"
	"github.com/db47h/intcode/network"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newAsmCmd(a *app) *cobra.Command {
	var outFile string
	cmd := &cobra.Command{
		Use:   "asm FILE",
		Short: "Assemble a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			img, err := asm.Assemble(args[0], f)
			if err != nil {
				return err
			}
			if outFile == "" {
				_, err = img.WriteTo(a.stdout)
				return err
			}
			out, err := os.Create(outFile)
			if err != nil {
				return err
			}
			if _, err = img.WriteTo(out); err != nil {
				out.Close()
				return err
			}
			return out.Close()
		},
	}
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "write program text to `filename`")
	return cmd
}

func newDisasmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "disasm FILE",
		Short: "Disassemble a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := vm.Load(args[0])
			if err != nil {
				return err
			}
			w := bufio.NewWriter(a.stdout)
			if err = asm.DisassembleAll(img, 0, w); err != nil {
				return err
			}
			return w.Flush()
		},
	}
}

func parseCells(s string) ([]vm.Cell, error) {
	var cells []vm.Cell
	for _, f := range strings.Split(s, ",") {
		n, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid value list %q", s)
		}
		cells = append(cells, vm.Cell(n))
	}
	return cells, nil
}

func newAmpCmd(a *app) *cobra.Command {
	var (
		phases   string
		input    int64
		feedback bool
		best     bool
	)
	cmd := &cobra.Command{
		Use:   "amp FILE",
		Short: "Run a chain of amplifiers",
		Long: `Run one instance of the program per phase setting, feeding the output of each
instance to the next one. The output of the last amplifier is printed.

With --max, every ordering of the phase settings is tried and the highest output
is printed along with the matching phase settings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := vm.Load(args[0])
			if err != nil {
				return err
			}
			ph, err := parseCells(phases)
			if err != nil {
				return err
			}
			if best {
				v, order, err := network.MaxChain(cmd.Context(), img, ph, feedback)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(a.stdout, "%d %v\n", v, order)
				return err
			}
			v, err := network.Chain(img, ph, vm.Cell(input), feedback)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.stdout, v)
			return err
		},
	}
	f := cmd.Flags()
	f.StringVarP(&phases, "phases", "p", "0,1,2,3,4", "comma separated phase `settings`")
	f.Int64Var(&input, "input", 0, "input signal of the first amplifier")
	f.BoolVarP(&feedback, "feedback", "f", false, "feed the output of the last amplifier back to the first one")
	f.BoolVar(&best, "max", false, "find the phase settings ordering giving the highest output")
	return cmd
}

func newNATCmd(a *app) *cobra.Command {
	var (
		nodes int
		first bool
		idle  int
	)
	cmd := &cobra.Command{
		Use:   "nat FILE",
		Short: "Run a network of nodes",
		Long: `Run a network of nodes exchanging packets, and print the first Y value
delivered twice in a row by the NAT to node 0.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := vm.Load(args[0])
			if err != nil {
				return err
			}
			opts := []network.Option{
				network.Logger(a.log),
				network.IdleRounds(idle),
				network.VMOptions(a.vmOptions()...),
			}
			if first {
				opts = append(opts, network.FirstNATPacket())
			}
			n, err := network.New(img, nodes, opts...)
			if err != nil {
				return err
			}
			y, err := n.Run(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.stdout, y)
			return err
		},
	}
	f := cmd.Flags()
	f.IntVarP(&nodes, "nodes", "n", 50, "number of nodes")
	f.BoolVar(&first, "first", false, "print the Y value of the first packet sent to the NAT")
	f.IntVar(&idle, "idle", 2, "number of idle rounds before the NAT wakes up")
	return cmd
}
