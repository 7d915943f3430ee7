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

package asm

import (
	"io"
	"sort"
	"strconv"
	"text/scanner"
	"unicode"

	"github.com/db47h/intcode/vm"
)

const maxErrors = 10

func isIdentRune(ch rune, i int) bool {
	return unicode.IsLetter(ch) || unicode.IsSymbol(ch) || unicode.IsPunct(ch) || unicode.IsDigit(ch)
}

type labelSite struct {
	pos     scanner.Position
	address int
}

type label struct {
	labelSite
	uses []labelSite
}

type parser struct {
	img    vm.Image
	s      scanner.Scanner
	labels map[string]*label
	consts map[string]vm.Cell
	errs   ErrAsm
}

func newParser() *parser {
	p := new(parser)
	p.labels = make(map[string]*label)
	p.consts = make(map[string]vm.Cell)
	return p
}

func (p *parser) error(msg string) {
	pos := p.s.Position
	if !pos.IsValid() {
		pos = p.s.Pos()
	}
	if len(p.errs) < maxErrors {
		p.errs = append(p.errs, Error{pos, msg})
	}
}

func (p *parser) write(v vm.Cell) {
	p.img = append(p.img, v)
}

func (p *parser) useLabel(name string) {
	lbl := p.labels[name]
	if lbl == nil {
		lbl = &label{labelSite{p.s.Position, -1}, nil}
		p.labels[name] = lbl
	}
	lbl.uses = append(lbl.uses, labelSite{p.s.Position, len(p.img)})
}

func (p *parser) defineLabel(name string) {
	if name == "" {
		p.error("Empty label name")
		return
	}
	if _, ok := p.consts[name]; ok {
		p.error("Label redefinition: " + name + ", previously defined as a constant")
		return
	}
	l, ok := p.labels[name]
	if !ok {
		p.labels[name] = &label{labelSite{p.s.Position, len(p.img)}, nil}
		return
	}
	if l.address != -1 {
		p.error("Label redefinition: " + name + ", previous definition here: " + l.pos.String())
		return
	}
	l.address = len(p.img)
	l.pos = p.s.Position
}

// literal converts s to an integer if it is an integer literal, a character
// literal or a constant name.
func (p *parser) literal(s string) (vm.Cell, bool) {
	if n, err := strconv.ParseInt(s, 0, 64); err == nil {
		return vm.Cell(n), true
	}
	if len(s) > 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		r, _, tail, err := strconv.UnquoteChar(s[1:len(s)-1], '\'')
		if err != nil || tail != "" {
			p.error("Invalid character literal " + s)
			return 0, true
		}
		return vm.Cell(r), true
	}
	if c, ok := p.consts[s]; ok {
		return c, true
	}
	return 0, false
}

// value compiles s as a literal or label reference.
func (p *parser) value(s string) {
	if v, ok := p.literal(s); ok {
		p.write(v)
		return
	}
	p.useLabel(s)
	p.write(0)
}

// next scans the next token and returns its text, skipping comments. It
// returns false at EOF.
func (p *parser) next() (string, bool) {
	for {
		tok := p.s.Scan()
		switch tok {
		case scanner.EOF:
			return "", false
		case scanner.Ident:
		default:
			p.error("Unexpected character " + strconv.QuoteRune(tok))
			continue
		}
		s := p.s.TokenText()
		if s != "(" {
			return s, true
		}
		for tok = p.s.Scan(); tok != scanner.EOF && (tok != scanner.Ident || p.s.TokenText() != ")"); tok = p.s.Scan() {
		}
	}
}

func (p *parser) operand(op vm.Opcode, n int) (vm.Mode, bool) {
	s, ok := p.next()
	if !ok {
		p.error("Missing operand " + strconv.Itoa(n+1) + " for " + op.String())
		return vm.Position, false
	}
	mode := vm.Position
	switch s[0] {
	case '#':
		mode, s = vm.Immediate, s[1:]
	case '@':
		mode, s = vm.Relative, s[1:]
	case ':', '.':
		p.error("Unexpected " + s + " as operand " + strconv.Itoa(n+1) + " for " + op.String())
		return mode, false
	}
	if s == "" {
		p.error("Empty operand " + strconv.Itoa(n+1) + " for " + op.String())
		return mode, false
	}
	p.value(s)
	return mode, true
}

func (p *parser) instruction(op vm.Opcode) {
	at := len(p.img)
	p.write(vm.Cell(op))
	scale := vm.Cell(100)
	for n := 0; n < op.NumParams(); n++ {
		mode, ok := p.operand(op, n)
		if !ok {
			return
		}
		p.img[at] += vm.Cell(mode) * scale
		scale *= 10
	}
}

func (p *parser) directive(s string) {
	switch s {
	case ".dat":
		v, ok := p.next()
		if !ok {
			p.error(".dat: missing value")
			return
		}
		p.value(v)
	case ".equ":
		name, ok := p.next()
		if !ok {
			p.error(".equ: missing identifier")
			return
		}
		if l, ok := p.labels[name]; ok {
			p.error(".equ: redefinition of " + name + ", previously defined/used as a label here: " + l.pos.String())
			return
		}
		v, ok := p.next()
		if !ok {
			p.error(".equ: missing value")
			return
		}
		c, ok := p.literal(v)
		if !ok {
			p.error(".equ: invalid value " + v)
			return
		}
		p.consts[name] = c
	default:
		p.error("Unknown directive " + s)
	}
}

// Parse does the parsing and compiling.
func (p *parser) Parse(name string, r io.Reader) (vm.Image, error) {
	p.s.Init(r)
	p.s.Error = func(s *scanner.Scanner, msg string) {
		p.error(msg)
	}
	p.s.IsIdentRune = isIdentRune
	p.s.Mode = scanner.ScanIdents
	p.s.Filename = name

	for len(p.errs) < maxErrors {
		s, ok := p.next()
		if !ok {
			break
		}
		switch s[0] {
		case ':':
			p.defineLabel(s[1:])
		case '.':
			p.directive(s)
		default:
			op, ok := opcodeIndex[s]
			if !ok {
				p.error("Unknown mnemonic " + s)
				continue
			}
			p.instruction(op)
		}
	}

	// write labels
	var undef ErrAsm
	for n, l := range p.labels {
		if l.address == -1 {
			undef = append(undef, Error{l.uses[0].pos, "Undefined label " + n})
			continue
		}
		for _, u := range l.uses {
			p.img[u.address] = vm.Cell(l.address)
		}
	}
	sort.Slice(undef, func(i, j int) bool { return undef[i].Pos.Offset < undef[j].Pos.Offset })
	p.errs = append(p.errs, undef...)

	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return p.img, nil
}
