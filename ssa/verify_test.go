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

func TestVerify_MissingTerminator(t *testing.T) {
    bb := &BasicBlock{Id: 1}
    fn := &Func{Name: "broken", Root: bb, Blocks: []*BasicBlock{bb}}

    err := VerifyFunc(fn)
    require.Error(t, err)
    require.Contains(t, err.Error(), "no terminator")
}

func TestVerify_DefUseAsymmetry(t *testing.T) {
    b := NewFuncBuilder("asym", I32)
    b.Block()
    a := b.Add(b.Arg(0), ConstInt(I32, 1))
    v := b.Mul(a, a)
    b.Ret(v)
    fn := b.Build()
    require.NoError(t, VerifyFunc(fn))

    /* forge an extra back-edge */
    a.users = append(a.users, v)
    err := VerifyFunc(fn)
    require.Error(t, err)
    require.Contains(t, err.Error(), "user list")
}

func TestVerify_PhiFromNonPredecessor(t *testing.T) {
    b := NewFuncBuilder("bad_phi", I32)
    b1 := b.Block()
    b2 := b.Block()
    b3 := b.Block()

    b.SetBlock(b1)
    a := b.Add(b.Arg(0), ConstInt(I32, 1))
    b.Br(b2)

    b.SetBlock(b2)
    p := b.Phi(I32)
    p.AddIncoming(a, b1)
    b.Br(b3)

    b.SetBlock(b3)
    b.Ret()
    fn := b.Build()
    require.NoError(t, VerifyFunc(fn))

    /* rewire the incoming edge to a block that never branches here */
    p.To[0] = b3
    err := VerifyFunc(fn)
    require.Error(t, err)
    require.Contains(t, err.Error(), "non-predecessor")
}

func TestVerify_EntryBlockFirst(t *testing.T) {
    b := NewFuncBuilder("entry", I32)
    b1 := b.Block()
    b2 := b.Block()
    b.SetBlock(b1)
    b.Br(b2)
    b.SetBlock(b2)
    b.Ret()
    fn := b.Build()

    fn.Root = b2
    err := VerifyFunc(fn)
    require.Error(t, err)
    require.Contains(t, err.Error(), "entry block")
}
