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

    `github.com/stretchr/testify/require`
)

func TestDCE_RemovesUnusedChain(t *testing.T) {
    b := NewFuncBuilder("unused_chain", I32)
    bb := b.Block()
    x := b.Arg(0)
    a := b.Add(x, ConstInt(I32, 1))
    b.Mul(a, a)
    b.Ret()
    fn := b.Build()

    /* the mul goes first, the add is stranded and goes on the next
     * round */
    pa := DCE{}.Apply(fn, NewAnalysisManager())
    require.False(t, pa.All())
    require.Empty(t, bb.Ins)
    require.NoError(t, VerifyFunc(fn))
}

func TestDCE_KeepsSideEffects(t *testing.T) {
    b := NewFuncBuilder("keep_call", I32)
    bb := b.Block()
    b.Call(I32, 7, b.Arg(0))
    b.Ret()
    fn := b.Build()

    pa := DCE{}.Apply(fn, NewAnalysisManager())
    require.True(t, pa.All())
    require.Len(t, bb.Ins, 1)
}

func TestDCE_RemovesUnusedPhi(t *testing.T) {
    b := NewFuncBuilder("unused_phi", I32)
    b1 := b.Block()
    b2 := b.Block()

    b.SetBlock(b1)
    i := b.Add(b.Arg(0), ConstInt(I32, 1))
    b.Br(b2)

    b.SetBlock(b2)
    p := b.Phi(I32)
    p.AddIncoming(i, b1)
    b.Ret()
    fn := b.Build()

    /* the phi goes first, then the add feeding it */
    pa := DCE{}.Apply(fn, NewAnalysisManager())
    require.False(t, pa.All())
    require.Empty(t, b2.Phi)
    require.Empty(t, b1.Ins)
    require.NoError(t, VerifyFunc(fn))
}
