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
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/db47h/intcode/internal/iox"
	"github.com/pkg/errors"
)

// Image encapsulates a VM's memory
type Image []Cell

// Parse parses program text: a comma separated list of decimal integers.
// White space around each value is ignored.
func Parse(s string) (Image, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.Wrap(ErrSyntax, "empty program")
	}
	fields := strings.Split(s, ",")
	img := make(Image, len(fields))
	for k, f := range fields {
		f = strings.TrimSpace(f)
		n, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(ErrSyntax, "cell %d: %q", k, f)
		}
		img[k] = Cell(n)
	}
	return img, nil
}

// Load loads program text from file fileName.
func Load(fileName string) (Image, error) {
	b, err := os.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "Load")
	}
	img, err := Parse(string(b))
	if err != nil {
		return nil, errors.Wrapf(err, "Load %s", fileName)
	}
	return img, nil
}

// WriteTo writes the image to w as program text, terminated by a new line.
func (m Image) WriteTo(w io.Writer) (int64, error) {
	ew := iox.NewErrWriter(w)
	n := ew.N
	for k, v := range m {
		if k > 0 {
			ew.Write([]byte{','})
		}
		ew.WriteString(strconv.FormatInt(int64(v), 10))
	}
	ew.Write([]byte{'\n'})
	return ew.N - n, ew.Err
}

func (m Image) String() string {
	var b strings.Builder
	m.WriteTo(&b)
	return strings.TrimSuffix(b.String(), "\n")
}

// Dump writes the VM memory to w as program text.
func (i *Instance) Dump(w io.Writer) error {
	_, err := i.mem.WriteTo(w)
	return err
}
