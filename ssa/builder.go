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

// FuncBuilder constructs a Func one block at a time. Instructions are
// appended to the current block, Build wires the predecessor lists and
// verifies the result.
type FuncBuilder struct {
    fn  *Func
    cur *BasicBlock
    nid int
    nbb int
}

func NewFuncBuilder(name string, args ...Type) *FuncBuilder {
    ps := make([]*Param, 0, len(args))
    for i, ty := range args {
        ps = append(ps, &Param { Ty: ty, Id: i })
    }
    return &FuncBuilder {
        fn: &Func { Name: name, Args: ps },
    }
}

// Arg returns the i-th formal parameter.
func (self *FuncBuilder) Arg(i int) *Param {
    return self.fn.Args[i]
}

// Block creates a new basic block and makes it current.
func (self *FuncBuilder) Block() *BasicBlock {
    self.nbb++
    bb := &BasicBlock { Id: self.nbb }
    self.fn.Blocks = append(self.fn.Blocks, bb)
    self.cur = bb
    return bb
}

// SetBlock makes bb the block new instructions are appended to.
func (self *FuncBuilder) SetBlock(bb *BasicBlock) {
    self.cur = bb
}

func (self *FuncBuilder) emit(op Op, ty Type, args ...Value) *Ins {
    if self.cur == nil {
        panic("ssa: emitting outside of a block")
    }

    /* create the instruction */
    self.nid++
    p := &Ins {
        Id   : self.nid,
        Op   : op,
        Ty   : ty,
        Blk  : self.cur,
        Args : args,
    }

    /* wire the def-use back-edges */
    for _, a := range args {
        if v, ok := a.(*Ins); ok {
            v.users = append(v.users, p)
        }
    }

    /* attach to the current block */
    switch {
        case p.Op == OpPhi   : self.cur.Phi = append(self.cur.Phi, p)
        case p.IsTerminator(): self.cur.Term = p
        default              : self.cur.Ins = append(self.cur.Ins, p)
    }
    return p
}

func (self *FuncBuilder) Add(x Value, y Value) *Ins { return self.emit(OpAdd, x.Type(), x, y) }
func (self *FuncBuilder) Sub(x Value, y Value) *Ins { return self.emit(OpSub, x.Type(), x, y) }
func (self *FuncBuilder) Mul(x Value, y Value) *Ins { return self.emit(OpMul, x.Type(), x, y) }
func (self *FuncBuilder) And(x Value, y Value) *Ins { return self.emit(OpAnd, x.Type(), x, y) }
func (self *FuncBuilder) Or (x Value, y Value) *Ins { return self.emit(OpOr , x.Type(), x, y) }
func (self *FuncBuilder) Xor(x Value, y Value) *Ins { return self.emit(OpXor, x.Type(), x, y) }

func (self *FuncBuilder) Shl (x Value, y Value) *Ins { return self.emit(OpShl , x.Type(), x, y) }
func (self *FuncBuilder) LShr(x Value, y Value) *Ins { return self.emit(OpLShr, x.Type(), x, y) }
func (self *FuncBuilder) AShr(x Value, y Value) *Ins { return self.emit(OpAShr, x.Type(), x, y) }

func (self *FuncBuilder) Trunc(v Value, ty Type) *Ins { return self.emit(OpTrunc, ty, v) }
func (self *FuncBuilder) ZExt (v Value, ty Type) *Ins { return self.emit(OpZExt , ty, v) }
func (self *FuncBuilder) SExt (v Value, ty Type) *Ins { return self.emit(OpSExt , ty, v) }
func (self *FuncBuilder) BSwap(v Value)          *Ins { return self.emit(OpBSwap, v.Type(), v) }

func (self *FuncBuilder) CmpEq(x Value, y Value) *Ins { return self.emit(OpCmpEq, I1, x, y) }
func (self *FuncBuilder) CmpNe(x Value, y Value) *Ins { return self.emit(OpCmpNe, I1, x, y) }
func (self *FuncBuilder) CmpLt(x Value, y Value) *Ins { return self.emit(OpCmpLt, I1, x, y) }

func (self *FuncBuilder) Select(c Value, x Value, y Value) *Ins {
    return self.emit(OpSelect, x.Type(), c, x, y)
}

// Phi creates an empty phi node, incoming pairs are added with AddIncoming.
func (self *FuncBuilder) Phi(ty Type) *Ins {
    return self.emit(OpPhi, ty)
}

func (self *FuncBuilder) Load(ty Type, mem Value) *Ins {
    return self.emit(OpLoad, ty, mem)
}

func (self *FuncBuilder) Store(v Value, mem Value) *Ins {
    return self.emit(OpStore, Void, v, mem)
}

// Call emits a call to the callee slot id of the host environment.
func (self *FuncBuilder) Call(ty Type, id int64, args ...Value) *Ins {
    p := self.emit(OpCall, ty, args...)
    p.Iv = id
    return p
}

func (self *FuncBuilder) Ret(vals ...Value) *Ins {
    return self.emit(OpRet, Void, vals...)
}

func (self *FuncBuilder) Br(to *BasicBlock) *Ins {
    p := self.emit(OpBr, Void)
    p.To = []*BasicBlock { to }
    return p
}

func (self *FuncBuilder) CondBr(c Value, t *BasicBlock, f *BasicBlock) *Ins {
    p := self.emit(OpCondBr, Void, c)
    p.To = []*BasicBlock { t, f }
    return p
}

// Build finalizes the function: wires predecessor lists from the
// terminators and verifies well-formedness.
func (self *FuncBuilder) Build() *Func {
    fn := self.fn

    /* the entry block is the first one */
    if len(fn.Blocks) == 0 {
        panic("ssa: building a function with no blocks")
    } else {
        fn.Root = fn.Blocks[0]
    }

    /* wire the predecessors */
    for _, bb := range fn.Blocks {
        bb.Pred = bb.Pred[:0]
    }
    for _, bb := range fn.Blocks {
        for _, p := range bb.Successors() {
            p.Pred = append(p.Pred, bb)
        }
    }

    /* reject malformed functions early */
    if err := VerifyFunc(fn); err != nil {
        panic("ssa: malformed function: " + err.Error())
    }
    return fn
}
