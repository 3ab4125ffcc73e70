/*
 * Copyright 2024 Cobalt Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ssa

import (
    `testing`

    `github.com/brianvoe/gofakeit/v6`
    `github.com/stretchr/testify/require`
)

// cfgshape snapshots the block graph: every block ID with its successor
// IDs, in layout order.
func cfgshape(fn *Func) [][]int {
    var ret [][]int
    for _, bb := range fn.Blocks {
        row := []int{bb.Id}
        for _, p := range bb.Successors() {
            row = append(row, p.Id)
        }
        ret = append(ret, row)
    }
    return ret
}

func TestBDCE_DeadShiftChain(t *testing.T) {
    b := NewFuncBuilder("dead_shift", I32)
    bb := b.Block()
    x := b.Arg(0)
    a := b.Shl(x, ConstInt(I32, 24))
    b.LShr(a, ConstInt(I32, 28))
    b.Ret()
    fn := b.Build()

    shape := cfgshape(fn)
    triv0 := StatTrivialized.Load()
    rem0 := StatRemoved.Load()

    pa := BDCE{}.Apply(fn, NewAnalysisManager())
    require.False(t, pa.All())
    require.True(t, pa.CFG())
    require.True(t, pa.GlobalsAA())

    /* both instructions are gone, the terminator stays */
    require.Empty(t, bb.Ins)
    require.Equal(t, 1, fn.NumIns())
    require.Equal(t, triv0+2, StatTrivialized.Load())
    require.Equal(t, rem0+2, StatRemoved.Load())
    require.Equal(t, shape, cfgshape(fn))
    require.NoError(t, VerifyFunc(fn))
}

func TestBDCE_PartiallyDeadBitsUnchanged(t *testing.T) {
    b := NewFuncBuilder("partial", I32, I32)
    b.Block()
    a := b.Mul(b.Arg(0), b.Arg(1))
    m := b.And(a, ConstInt(I32, 255))
    b.Ret(m)
    fn := b.Build()

    before := fn.String()
    triv0 := StatTrivialized.Load()
    rem0 := StatRemoved.Load()

    pa := BDCE{}.Apply(fn, NewAnalysisManager())
    require.True(t, pa.All())
    require.Equal(t, before, fn.String())
    require.Equal(t, triv0, StatTrivialized.Load())
    require.Equal(t, rem0, StatRemoved.Load())
}

func TestBDCE_StoreKeepsValueVisible(t *testing.T) {
    b := NewFuncBuilder("visible", I32, I32, Ptr)
    b.Block()
    a := b.Or(b.Arg(0), b.Arg(1))
    b.Store(a, b.Arg(2))
    b.Ret()
    fn := b.Build()

    before := fn.String()
    pa := BDCE{}.Apply(fn, NewAnalysisManager())
    require.True(t, pa.All())
    require.Equal(t, before, fn.String())
}

func TestBDCE_ClearsFlagsOnUsers(t *testing.T) {
    b := NewFuncBuilder("clear_nsw", I32)
    b.Block()
    x := b.Arg(0)
    a := b.Add(x, ConstInt(I32, 1))
    v := b.Add(a, a).SetFlags(FlagNSW)
    m := b.And(v, ConstInt(I32, 1))
    b.Ret(m)
    fn := b.Build()

    /* the oracle is an input: a computes nothing observable, v only has
     * its low bit observed, m is externally visible */
    db := &DemandedBits{
        bits: map[int]uint64{
            a.Id: 0,
            v.Id: 1,
            m.Id: I32.Mask(),
        },
        visited: map[int]struct{}{},
    }

    changed := BDCE{}.sweep(fn, db)
    require.True(t, changed)

    /* v lost its flag and computes on zeros now, a itself survives */
    require.Equal(t, Flags(0), v.Flags)
    for _, arg := range v.Args {
        c, ok := arg.(*IntConst)
        require.True(t, ok)
        require.Equal(t, int64(0), c.V)
        require.Equal(t, uint8(32), c.Ty.Bits)
    }
    require.False(t, a.HasUses())
    require.NotNil(t, a.Blk)
    require.NoError(t, VerifyFunc(fn))
}

func TestBDCE_PhiCycleTerminates(t *testing.T) {
    b := NewFuncBuilder("phi_cycle", I32)
    b1 := b.Block()
    b2 := b.Block()
    b3 := b.Block()

    b.SetBlock(b1)
    x := b.Arg(0)
    i := b.Add(x, ConstInt(I32, 1))
    b.Br(b2)

    b.SetBlock(b2)
    p := b.Phi(I32)
    n := b.Add(p, ConstInt(I32, 1)).SetFlags(FlagNSW)
    c := b.CmpNe(n, ConstInt(I32, 10))
    b.CondBr(c, b2, b3)
    p.AddIncoming(i, b1)
    p.AddIncoming(n, b2)

    b.SetBlock(b3)
    b.Ret()
    fn := b.Build()

    db := &DemandedBits{
        bits: map[int]uint64{
            i.Id: 0,
            p.Id: 1,
            n.Id: 1,
            c.Id: I1.Mask(),
        },
        visited: map[int]struct{}{},
    }

    shape := cfgshape(fn)
    changed := BDCE{}.sweep(fn, db)
    require.True(t, changed)

    /* the walk went around the loop exactly once */
    require.Equal(t, Flags(0), n.Flags)
    zero, ok := p.Args[0].(*IntConst)
    require.True(t, ok)
    require.Equal(t, int64(0), zero.V)
    require.Equal(t, shape, cfgshape(fn))
    require.NoError(t, VerifyFunc(fn))
}

func TestBDCE_FloatSelectKeepsCondition(t *testing.T) {
    b := NewFuncBuilder("float_select", I32, F64, F64)
    bb := b.Block()
    a := b.Add(b.Arg(0), ConstInt(I32, 1))
    c := b.CmpLt(a, ConstInt(I32, 0))
    b.Select(c, b.Arg(1), b.Arg(2))
    b.Ret()
    fn := b.Build()

    /* the select has no uses but selects between floats, it anchors the
     * whole chain */
    before := fn.String()
    pa := BDCE{}.Apply(fn, NewAnalysisManager())
    require.True(t, pa.All())
    require.Equal(t, before, fn.String())
    require.Len(t, bb.Ins, 3)
    require.NoError(t, VerifyFunc(fn))
}

func TestBDCE_EmptyFunction(t *testing.T) {
    b := NewFuncBuilder("empty")
    b.Block()
    b.Ret()
    fn := b.Build()

    triv0 := StatTrivialized.Load()
    rem0 := StatRemoved.Load()

    pa := BDCE{}.Apply(fn, NewAnalysisManager())
    require.True(t, pa.All())
    require.Equal(t, 1, fn.NumIns())
    require.Equal(t, triv0, StatTrivialized.Load())
    require.Equal(t, rem0, StatRemoved.Load())
}

func TestBDCE_TrivializedInstructionSurvives(t *testing.T) {
    b := NewFuncBuilder("shl8_trunc", I32, Ptr)
    bb := b.Block()
    a := b.Add(b.Arg(0), ConstInt(I32, 5))
    s := b.Shl(a, ConstInt(I32, 8))
    v := b.Trunc(s, I8)
    b.Store(v, b.Arg(1))
    b.Ret()
    fn := b.Build()

    pa := BDCE{}.Apply(fn, NewAnalysisManager())
    require.False(t, pa.All())

    /* a stays in the block, its use inside s is a zero constant now */
    require.Contains(t, bb.Ins, a)
    require.False(t, a.HasUses())
    zero, ok := s.Args[0].(*IntConst)
    require.True(t, ok)
    require.Equal(t, int64(0), zero.V)
    require.NoError(t, VerifyFunc(fn))
}

func TestBDCE_PipelineCleansTrivialized(t *testing.T) {
    b := NewFuncBuilder("pipeline", I32, Ptr)
    bb := b.Block()
    a := b.Add(b.Arg(0), ConstInt(I32, 5))
    s := b.Shl(a, ConstInt(I32, 8))
    v := b.Trunc(s, I8)
    b.Store(v, b.Arg(1))
    b.Ret()
    fn := b.Build()

    changed := RunPasses(fn, NewAnalysisManager())
    require.True(t, changed)

    /* the mop-up pass erased the neutralized add */
    require.Nil(t, a.Blk)
    require.NotContains(t, bb.Ins, a)
    require.NoError(t, VerifyFunc(fn))

    /* a second full run finds nothing left to do */
    snap := fn.String()
    require.False(t, RunPasses(fn, NewAnalysisManager()))
    require.Equal(t, snap, fn.String())
}

func TestBDCE_CountersMonotone(t *testing.T) {
    triv0 := StatTrivialized.Load()
    rem0 := StatRemoved.Load()

    b := NewFuncBuilder("counters", I32)
    b.Block()
    b.Xor(b.Arg(0), ConstInt(I32, -1))
    b.Ret()
    fn := b.Build()

    BDCE{}.Apply(fn, NewAnalysisManager())
    require.GreaterOrEqual(t, StatTrivialized.Load(), triv0)
    require.GreaterOrEqual(t, StatRemoved.Load(), rem0)
}

func buildRandomFunc(f *gofakeit.Faker, name string) *Func {
    b := NewFuncBuilder(name, I64, I64, Ptr)
    b.Block()

    /* seed values */
    vals := []Value{b.Arg(0), b.Arg(1), ConstInt(I64, int64(f.Number(-1000, 1000)))}
    pick := func() Value { return vals[f.Number(0, len(vals)-1)] }

    /* a random DAG of integer arithmetic */
    for i := 0; i < 24; i++ {
        var p *Ins
        switch f.Number(0, 9) {
        case 0:
            p = b.Add(pick(), pick())
        case 1:
            p = b.Sub(pick(), pick())
        case 2:
            p = b.Mul(pick(), pick())
        case 3:
            p = b.And(pick(), pick())
        case 4:
            p = b.Or(pick(), pick())
        case 5:
            p = b.Xor(pick(), pick())
        case 6:
            p = b.Shl(pick(), ConstInt(I64, int64(f.Number(0, 63))))
        case 7:
            p = b.LShr(pick(), ConstInt(I64, int64(f.Number(0, 63))))
        case 8:
            p = b.AShr(pick(), ConstInt(I64, int64(f.Number(0, 63))))
        default:
            p = b.BSwap(pick())
        }
        if f.Bool() {
            p.SetFlags(FlagNSW)
        }
        vals = append(vals, p)
    }

    /* observe a random subset */
    if f.Bool() {
        b.Store(pick(), b.Arg(2))
    }
    if f.Bool() {
        b.Ret(pick())
    } else {
        b.Ret()
    }
    return b.Build()
}

func TestBDCE_IdempotentOnRandomFunctions(t *testing.T) {
    f := gofakeit.New(7)
    for i := 0; i < 50; i++ {
        fn := buildRandomFunc(f, "rand")

        RunPasses(fn, NewAnalysisManager())
        require.NoError(t, VerifyFunc(fn))
        snap := fn.String()

        /* a recomputed oracle must find nothing new */
        changed := RunPasses(fn, NewAnalysisManager())
        require.False(t, changed, "IR after first run:\n%s", snap)
        require.Equal(t, snap, fn.String())
    }
}
