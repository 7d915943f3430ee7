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

package vm_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	img, err := vm.Parse(" 1, -2 ,3\n")
	require.NoError(t, err)
	assert.Equal(t, vm.Image{1, -2, 3}, img)
	assert.Equal(t, "1,-2,3", img.String())

	for _, s := range []string{"", " \n", "1,,2", "1,a", "1;2", "1,2,", "99999999999999999999"} {
		_, err := vm.Parse(s)
		assert.Equal(t, vm.ErrSyntax, errors.Cause(err), "%q", s)
	}
}

func TestLoad(t *testing.T) {
	name := filepath.Join(t.TempDir(), "prog.txt")
	require.NoError(t, os.WriteFile(name, []byte("104,1125899906842624,99\n"), 0o644))
	img, err := vm.Load(name)
	require.NoError(t, err)
	assert.Equal(t, vm.Image{104, 1125899906842624, 99}, img)

	_, err = vm.Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestRun_arithmetic(t *testing.T) {
	tests := []struct {
		prog string
		want C
	}{
		{"1,0,0,0,99", C{2, 0, 0, 0, 99}},
		{"2,3,0,3,99", C{2, 3, 0, 6, 99}},
		{"2,4,4,5,99,0", C{2, 4, 4, 5, 99, 9801}},
		{"1,1,1,4,99,5,6,0,99", C{30, 1, 1, 4, 2, 5, 6, 0, 99}},
		{"1002,4,3,4,33", C{1002, 4, 3, 4, 99}},
	}
	for _, tt := range tests {
		i := newVM(t, tt.prog)
		require.NoError(t, i.Run(), tt.prog)
		assert.True(t, i.Halted(), tt.prog)
		assert.Equal(t, tt.want, C(i.Mem()[:len(tt.want)]), tt.prog)
	}
}

func TestRun_quine(t *testing.T) {
	prog := parse(t, "109,1,204,-1,1001,100,1,100,1008,100,16,101,1006,101,0,99")
	i, err := vm.New(prog)
	require.NoError(t, err)
	require.NoError(t, i.Run())
	assert.Equal(t, []vm.Cell(prog), i.DrainOutput())
	assert.Equal(t, 0, i.OutputLen())
}

func TestRun_largeNumbers(t *testing.T) {
	i := newVM(t, "1102,34915192,34915192,7,4,7,99,0")
	require.NoError(t, i.Run())
	assert.Equal(t, []vm.Cell{1219070632396864}, i.DrainOutput())

	i = newVM(t, "104,1125899906842624,99")
	require.NoError(t, i.Run())
	assert.Equal(t, []vm.Cell{1125899906842624}, i.DrainOutput())
}

func TestInput(t *testing.T) {
	i := newVM(t, "3,3,99,9999")
	i.PushInput(8888)
	assert.Equal(t, 1, i.InputLen())
	require.NoError(t, i.Run())
	assert.Equal(t, vm.Image{3, 3, 99, 8888}, i.Mem())
	assert.Equal(t, 0, i.InputLen())
}

func TestInput_suspend(t *testing.T) {
	i := newVM(t, "3,0,4,0,99")
	require.NoError(t, i.Run())
	assert.True(t, i.WantsInput())
	assert.False(t, i.Halted())
	assert.Equal(t, 0, i.PC, "PC must stay on the input instruction")
	assert.EqualValues(t, 3, i.Peek(0))

	// running again without input does not change anything
	require.NoError(t, i.Run())
	assert.True(t, i.WantsInput())
	assert.Equal(t, 0, i.PC)

	i.PushInput(-42)
	require.NoError(t, i.Run())
	assert.False(t, i.WantsInput())
	assert.True(t, i.Halted())
	assert.Equal(t, []vm.Cell{-42}, i.DrainOutput())
}

func TestPushInputString(t *testing.T) {
	i := newVM(t, "3,9,3,10,4,9,4,10,99,0,0", vm.InputString("hé"))
	require.NoError(t, i.Run())
	assert.Equal(t, []vm.Cell{'h', 'é'}, i.DrainOutput())
}

func TestClearInput(t *testing.T) {
	i := newVM(t, "3,0,99", vm.Input(1, 2))
	assert.Equal(t, 2, i.InputLen())
	i.ClearInput()
	assert.Equal(t, 0, i.InputLen())
	require.NoError(t, i.Run())
	assert.True(t, i.WantsInput())
}

func TestOutput(t *testing.T) {
	i := newVM(t, "104,1234,99")
	require.NoError(t, i.Run())
	assert.Equal(t, 1, i.OutputLen())
	v, ok := i.PopOutput()
	assert.True(t, ok)
	assert.EqualValues(t, 1234, v)
	_, ok = i.PopOutput()
	assert.False(t, ok)
	assert.Empty(t, i.DrainOutput())
}

func TestRunUntilOutput(t *testing.T) {
	i := newVM(t, "104,0,3,9,4,9,104,7,99,0")
	v, ok, err := i.RunUntilOutput()
	require.NoError(t, err)
	assert.True(t, ok, "a zero output is still an output")
	assert.EqualValues(t, 0, v)

	_, ok, err = i.RunUntilOutput()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, i.WantsInput())

	i.PushInput(5)
	v, ok, err = i.RunUntilOutput()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 5, v)

	v, ok, err = i.RunUntilOutput()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 7, v)

	_, ok, err = i.RunUntilOutput()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, i.Halted())
	assert.Equal(t, 0, i.OutputLen())

	_, ok, err = i.RunUntilOutput()
	require.NoError(t, err)
	assert.False(t, ok)
}

// running sum of its input, until it reads 0.
const sumAsm = `
:loop	in x
		jz x #done
		add sum x sum
		out sum
		jz #0 #loop
:done	out sum
		hlt
:x		.dat 0
:sum	.dat 0
`

func TestDeterminism(t *testing.T) {
	in := []vm.Cell{3, 4, 5, 0}
	a := newAsmVM(t, sumAsm, vm.Input(in...))
	b := newAsmVM(t, sumAsm, vm.Input(in...))
	require.NoError(t, a.Run())
	require.NoError(t, b.Run())
	assert.Equal(t, a.Mem(), b.Mem())
	assert.Equal(t, a.DrainOutput(), b.DrainOutput())
}

func TestSuspendResume(t *testing.T) {
	in := []vm.Cell{3, 4, 5, -12, 100, 0}
	ref := newAsmVM(t, sumAsm, vm.Input(in...))
	require.NoError(t, ref.Run())
	require.True(t, ref.Halted())
	want := ref.DrainOutput()
	assert.Equal(t, []vm.Cell{3, 7, 12, 0, 100, 100}, want)

	// feed input in chunks of every size
	for chunk := 1; chunk <= len(in); chunk++ {
		i := newAsmVM(t, sumAsm)
		rest := in
		var out []vm.Cell
		for !i.Halted() {
			require.NoError(t, i.Run())
			out = append(out, i.DrainOutput()...)
			if i.WantsInput() {
				require.NotEmpty(t, rest)
				n := min(chunk, len(rest))
				i.PushInput(rest[:n]...)
				rest = rest[n:]
			}
		}
		assert.Equal(t, want, out, "chunk size %d", chunk)
		assert.Equal(t, ref.Mem(), i.Mem(), "chunk size %d", chunk)
		assert.Equal(t, ref.InstructionCount(), i.InstructionCount(), "chunk size %d", chunk)
	}
}

func TestClone(t *testing.T) {
	i := newAsmVM(t, sumAsm, vm.Input(3))
	require.NoError(t, i.Run())
	require.True(t, i.WantsInput())
	i.PushInput(4)

	pc, mem, rb := i.PC, append(vm.Image(nil), i.Mem()...), i.RelBase()
	c := i.Clone()
	assert.Equal(t, i.Mem(), c.Mem())
	assert.Equal(t, 1, c.InputLen())
	assert.Equal(t, 1, c.OutputLen())

	c.PushInput(10, 0)
	require.NoError(t, c.Run())
	require.True(t, c.Halted())
	require.NoError(t, c.Poke(1000, 1))
	assert.Equal(t, []vm.Cell{3, 7, 17, 17}, c.DrainOutput())

	// the original is untouched
	assert.Equal(t, pc, i.PC)
	assert.Equal(t, rb, i.RelBase())
	assert.Equal(t, mem, i.Mem())
	assert.Equal(t, 1, i.InputLen())
	assert.Equal(t, 1, i.OutputLen())
	assert.False(t, i.Halted())
	assert.True(t, i.WantsInput())

	// and the other way round
	i.PushInput(0)
	require.NoError(t, i.Run())
	assert.Equal(t, []vm.Cell{3, 7, 7}, i.DrainOutput())
	assert.Equal(t, 0, c.OutputLen())
	assert.EqualValues(t, 1, c.Peek(1000))
	assert.EqualValues(t, 0, i.Peek(1000))
}

func TestMemory(t *testing.T) {
	i := newVM(t, "99")
	assert.EqualValues(t, 0, i.Peek(1000))
	assert.EqualValues(t, 0, i.Peek(-1))
	assert.Len(t, i.Mem(), 1, "reads must not grow memory")

	require.NoError(t, i.Poke(100, 7))
	assert.Len(t, i.Mem(), 101)
	for a := 1; a < 100; a++ {
		require.EqualValues(t, 0, i.Peek(a))
	}
	assert.EqualValues(t, 7, i.Peek(100))

	err := i.Poke(-1, 1)
	assert.Equal(t, vm.ErrBadAddress, errors.Cause(err))

	// write past the end from a program, in position and relative mode
	i = newVM(t, "1101,1,2,50,21101,3,4,10,99", vm.Input())
	require.NoError(t, i.Run())
	assert.Len(t, i.Mem(), 51)
	assert.EqualValues(t, 3, i.Peek(50))
	assert.EqualValues(t, 7, i.Peek(10))
}

func TestNew_copiesImage(t *testing.T) {
	img := parse(t, "1,0,0,0,99")
	i, err := vm.New(img)
	require.NoError(t, err)
	require.NoError(t, i.Run())
	assert.EqualValues(t, 1, img[0])
	assert.EqualValues(t, 2, i.Peek(0))
}

func TestMemLimit(t *testing.T) {
	_, err := vm.New(parse(t, "1,0,0,0,99"), vm.MemLimit(4))
	assert.Error(t, err)

	i := newVM(t, "1101,1,1,9,1101,1,1,10,99", vm.MemLimit(10))
	err = i.Run()
	assert.Equal(t, vm.ErrBadAddress, errors.Cause(err))
	assert.Equal(t, 4, i.PC)
	assert.EqualValues(t, 2, i.Peek(9))
}

func TestMemLimit_default(t *testing.T) {
	i := newVM(t, "1101,1,1,67108864,99")
	err := i.Run()
	assert.Equal(t, vm.ErrBadAddress, errors.Cause(err))
	assert.Contains(t, err.Error(), "memory limit 67108864")
	assert.Equal(t, 0, i.PC)
	assert.Len(t, i.Mem(), 5)
	assert.EqualValues(t, 0, i.Peek(vm.DefaultMemLimit))
}

func TestDump(t *testing.T) {
	i := newVM(t, "1,0,0,0,99")
	require.NoError(t, i.Run())
	var b bytes.Buffer
	require.NoError(t, i.Dump(&b))
	assert.Equal(t, "2,0,0,0,99\n", b.String())
}

func TestTrace(t *testing.T) {
	var b bytes.Buffer
	l := slog.New(slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelDebug}))
	i := newVM(t, "3,0,104,-1,99", vm.Trace(l))
	require.NoError(t, i.Run())
	assert.Contains(t, b.String(), "waiting for input")
	i.PushInput(1)
	require.NoError(t, i.Run())
	assert.Contains(t, b.String(), `insn="out #-1"`)
	assert.Contains(t, b.String(), "msg=halted")
}

const countdownAsm = `
		in n
:loop	add n #-1 n
		jnz n #loop
		hlt
:n		.dat 0
`

func BenchmarkRun(b *testing.B) {
	base := newAsmVM(b, countdownAsm, vm.Input(100000))
	b.ResetTimer()
	var count int64
	for n := 0; n < b.N; n++ {
		i := base.Clone()
		if err := i.Run(); err != nil {
			b.Fatalf("%+v", err)
		}
		count += i.InstructionCount()
	}
	b.ReportMetric(float64(count)/b.Elapsed().Seconds()/1e6, "MIPS")
}

func BenchmarkClone(b *testing.B) {
	i := newVM(b, "109,1,204,-1,1001,100,1,100,1008,100,16,101,1006,101,0,99")
	require.NoError(b, i.Poke(10000, 1))
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		_ = i.Clone()
	}
}
