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
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// parsePoke parses an "addr=value" memory patch.
func parsePoke(s string) (addr int, v vm.Cell, err error) {
	a, val, ok := strings.Cut(s, "=")
	if !ok {
		return 0, 0, errors.Errorf("invalid memory patch %q, want addr=value", s)
	}
	if addr, err = strconv.Atoi(strings.TrimSpace(a)); err != nil {
		return 0, 0, errors.Wrapf(err, "memory patch %q", s)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "memory patch %q", s)
	}
	return addr, vm.Cell(n), nil
}

func (a *app) loadPatched(fileName string, pokes []string, opts ...vm.Option) (*vm.Instance, error) {
	i, err := a.newVM(fileName, opts...)
	if err != nil {
		return nil, err
	}
	for _, s := range pokes {
		addr, v, err := parsePoke(s)
		if err != nil {
			return nil, err
		}
		if err = i.Poke(addr, v); err != nil {
			return nil, err
		}
	}
	return i, nil
}

func newRunCmd(a *app) *cobra.Command {
	var (
		inputs []int64
		text   string
		pokes  []string
		dump   bool
		ascii  bool
	)
	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Run a program until it halts",
		Long: `Run a program until it halts and print its output values, one per line.

Running out of input is an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := a.loadPatched(args[0], pokes)
			if err != nil {
				return err
			}
			for _, v := range inputs {
				i.PushInput(vm.Cell(v))
			}
			i.PushInputString(text)
			if err = i.Run(); err != nil {
				return err
			}
			w := bufio.NewWriter(a.stdout)
			out := i.DrainOutput()
			if ascii {
				s, status, ok := vm.DecodeText(out)
				w.WriteString(s)
				if ok {
					fmt.Fprintf(w, "%d\n", status)
				}
			} else {
				for _, v := range out {
					fmt.Fprintf(w, "%d\n", v)
				}
			}
			if dump {
				if err = dumpVM(i, w); err != nil {
					return err
				}
			}
			if err = w.Flush(); err != nil {
				return err
			}
			if !i.Halted() {
				return errors.Errorf("program waiting for input at pc=%d", i.PC)
			}
			a.log.Info("done", "instructions", i.InstructionCount())
			return nil
		},
	}
	f := cmd.Flags()
	f.Int64SliceVarP(&inputs, "input", "i", nil, "input `values` (can be repeated)")
	f.StringVarP(&text, "text", "t", "", "queue the characters of `string` as input, after any --input values")
	f.StringArrayVarP(&pokes, "set", "s", nil, "patch memory before running (`addr=value`, can be repeated)")
	f.BoolVar(&dump, "dump", false, "dump VM state and memory upon exit")
	f.BoolVar(&ascii, "ascii", false, "print output values as text")
	return cmd
}

type lineReader struct {
	*readline.Instance
}

func (r lineReader) ReadLine() (string, error) {
	l, err := r.Readline()
	if err == readline.ErrInterrupt {
		return l, io.EOF
	}
	return l, err
}

func newInteractCmd(a *app) *cobra.Command {
	var pokes []string
	cmd := &cobra.Command{
		Use:   "interact FILE",
		Short: "Run a text based program interactively",
		Long: `Run a text based program interactively: output values are printed as text
and input is read from stdin, one line at a time.

Output values that are not valid unicode code points, like game scores, are
printed once the program halts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := a.loadPatched(args[0], pokes)
			if err != nil {
				return err
			}
			var (
				in  vm.LineReader
				out io.Writer
			)
			if f, ok := a.stdin.(*os.File); ok && isTerminal(f.Fd()) {
				var history string
				if home, err := os.UserHomeDir(); err == nil {
					history = filepath.Join(home, ".intcode_history")
				}
				rl, err := readline.NewEx(&readline.Config{
					Prompt:      "> ",
					HistoryFile: history,
				})
				if err != nil {
					return errors.Wrap(err, "readline")
				}
				defer rl.Close()
				in, out = lineReader{rl}, rl.Stdout()
			} else {
				w := bufio.NewWriter(a.stdout)
				in, out = vm.NewLineReader(a.stdin), w
			}
			status, ok, err := i.Interact(in, out)
			if err != nil && err != io.EOF {
				return err
			}
			if ok {
				fmt.Fprintf(out, "\nstatus: %d\n", status)
			}
			if f, isFlusher := out.(*bufio.Writer); isFlusher {
				return f.Flush()
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&pokes, "set", "s", nil, "patch memory before running (`addr=value`, can be repeated)")
	return cmd
}
