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
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type app struct {
	stdin          io.Reader
	stdout, stderr io.Writer

	debug    bool
	trace    bool
	logLevel string
	logFile  string

	log     *slog.Logger
	closeFn func() error

	// instance of the last run, for diagnostics
	i *vm.Instance
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "intcode",
		Short: "Intcode virtual machine",
		Long: `Run, debug, assemble and disassemble Intcode programs.

Intcode programs are plain text files containing a comma separated list of
integers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setupLog()
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.BoolVar(&a.debug, "debug", false, "enable debug diagnostics")
	pf.BoolVar(&a.trace, "trace", false, "log every executed instruction (requires --log-level debug)")
	pf.StringVar(&a.logLevel, "log-level", "warn", "log `level`: debug, info, warn or error")
	pf.StringVar(&a.logFile, "log-file", "", "also write JSON logs to `filename`")

	root.AddCommand(
		newRunCmd(a),
		newInteractCmd(a),
		newAsmCmd(a),
		newDisasmCmd(a),
		newAmpCmd(a),
		newNATCmd(a),
	)
	return root
}

// vmOptions returns the VM options common to all commands.
func (a *app) vmOptions() []vm.Option {
	if a.trace {
		return []vm.Option{vm.Trace(a.log)}
	}
	return nil
}

func (a *app) newVM(fileName string, opts ...vm.Option) (*vm.Instance, error) {
	img, err := vm.Load(fileName)
	if err != nil {
		return nil, err
	}
	a.i, err = vm.New(img, append(a.vmOptions(), opts...)...)
	return a.i, err
}

func (a *app) atExit(err error) int {
	if a.closeFn != nil {
		if cerr := a.closeFn(); err == nil {
			err = cerr
		}
	}
	if err == nil {
		return 0
	}
	if !a.debug {
		fmt.Fprintf(a.stderr, "%v\n", err)
		return 1
	}
	fmt.Fprintf(a.stderr, "%+v\n", err)
	if i := a.i; i != nil {
		in, derr := vm.Decode(i.Mem()[min(max(i.PC, 0), len(i.Mem())):])
		if derr != nil {
			fmt.Fprintf(a.stderr, "PC: %d (%d), RelBase: %d\n", i.PC, i.Peek(i.PC), i.RelBase())
		} else {
			fmt.Fprintf(a.stderr, "PC: %d (%v), RelBase: %d\n", i.PC, in, i.RelBase())
		}
	}
	return 1
}

func run(ctx context.Context, a *app, args []string) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if errors.Cause(err) == context.Canceled {
		err = nil
	}
	return a.atExit(err)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, &app{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}, os.Args[1:])
	stop()
	os.Exit(code)
}
