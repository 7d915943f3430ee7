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
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

type flusher interface {
	Flush() error
}

type runeWriter interface {
	WriteRune(r rune) (size int, err error)
}

type runeWriterWrapper struct {
	io.Writer
}

func (w *runeWriterWrapper) WriteRune(r rune) (size int, err error) {
	b := [utf8.UTFMax]byte{}
	l := utf8.EncodeRune(b[:], r)
	return w.Writer.Write(b[:l])
}

// newWriter returns either w if it implements runeWriter or wraps it up into
// a runeWriterWrapper
func newWriter(w io.Writer) runeWriter {
	switch ww := w.(type) {
	case runeWriter:
		return ww
	default:
		return &runeWriterWrapper{w}
	}
}

// IsText returns true if v is a Unicode code point. Output values that are not
// are status values, like a game score.
func IsText(v Cell) bool {
	return v >= 0 && v <= utf8.MaxRune && utf8.ValidRune(rune(v))
}

// DecodeText converts output values to text. The last value that is not a
// valid code point is returned as a status value, if any.
func DecodeText(out []Cell) (text string, status Cell, ok bool) {
	var b strings.Builder
	b.Grow(len(out))
	for _, v := range out {
		if !IsText(v) {
			status, ok = v, true
			continue
		}
		b.WriteRune(rune(v))
	}
	return b.String(), status, ok
}

// LineReader is the source of input lines for Interact. ReadLine returns a
// line without its end of line marker.
type LineReader interface {
	ReadLine() (string, error)
}

type lineScanner struct {
	s *bufio.Scanner
}

func (l *lineScanner) ReadLine() (string, error) {
	if l.s.Scan() {
		return l.s.Text(), nil
	}
	if err := l.s.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// NewLineReader returns a LineReader reading lines from r.
func NewLineReader(r io.Reader) LineReader {
	return &lineScanner{bufio.NewScanner(r)}
}

// Interact drives text based programs. It runs the VM, writes pending output
// to out, then, if the VM needs input, reads a line from in and queues its
// characters followed by a new line. This repeats until the VM halts.
//
// Output values that are not valid code points are not written; the last such
// value is returned along with true. If the program outputs several status
// values, only the last one is kept, the others are discarded.
//
// If in has no more lines while the VM needs input, Interact returns io.EOF.
// This is a normal exit condition in most use cases.
func (i *Instance) Interact(in LineReader, out io.Writer) (status Cell, ok bool, err error) {
	w := newWriter(out)
	for {
		if err = i.Run(); err != nil {
			return status, ok, err
		}
		for _, v := range i.DrainOutput() {
			if !IsText(v) {
				status, ok = v, true
				continue
			}
			if _, err = w.WriteRune(rune(v)); err != nil {
				return status, ok, errors.Wrap(err, "Interact output")
			}
		}
		if f, isFlusher := out.(flusher); isFlusher {
			if err = f.Flush(); err != nil {
				return status, ok, errors.Wrap(err, "Interact output")
			}
		}
		if i.halted {
			return status, ok, nil
		}
		var line string
		if line, err = in.ReadLine(); err != nil {
			if err == io.EOF {
				return status, ok, err
			}
			return status, ok, errors.Wrap(err, "Interact input")
		}
		i.PushInputString(line)
		i.PushInput('\n')
	}
}
