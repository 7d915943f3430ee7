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
	"io"
	"strconv"

	"github.com/db47h/intcode/internal/iox"
	"github.com/db47h/intcode/vm"
)

// dumpVM writes the VM registers on one line, followed by its memory as program
// text.
func dumpVM(i *vm.Instance, w io.Writer) error {
	ew := iox.NewErrWriter(w)
	ew.WriteString("pc=" + strconv.Itoa(i.PC))
	ew.WriteString(" relbase=" + strconv.FormatInt(int64(i.RelBase()), 10))
	ew.WriteString(" halted=" + strconv.FormatBool(i.Halted()))
	ew.WriteString(" input=" + strconv.Itoa(i.InputLen()) + "\n")
	if ew.Err != nil {
		return ew.Err
	}
	return i.Dump(ew)
}
