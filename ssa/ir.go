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
    `fmt`
    `sort`
    `strings`
)

type Op uint8

const (
    OpAdd Op = iota
    OpSub
    OpMul
    OpAnd
    OpOr
    OpXor
    OpShl
    OpLShr
    OpAShr
    OpTrunc
    OpZExt
    OpSExt
    OpBSwap
    OpCmpEq
    OpCmpNe
    OpCmpLt
    OpSelect
    OpPhi
    OpLoad
    OpStore
    OpCall
    OpRet
    OpBr
    OpCondBr
)

func (self Op) String() string {
    switch self {
        case OpAdd    : return "add"
        case OpSub    : return "sub"
        case OpMul    : return "mul"
        case OpAnd    : return "and"
        case OpOr     : return "or"
        case OpXor    : return "xor"
        case OpShl    : return "shl"
        case OpLShr   : return "lshr"
        case OpAShr   : return "ashr"
        case OpTrunc  : return "trunc"
        case OpZExt   : return "zext"
        case OpSExt   : return "sext"
        case OpBSwap  : return "bswap"
        case OpCmpEq  : return "cmp_eq"
        case OpCmpNe  : return "cmp_ne"
        case OpCmpLt  : return "cmp_lt"
        case OpSelect : return "select"
        case OpPhi    : return "phi"
        case OpLoad   : return "load"
        case OpStore  : return "store"
        case OpCall   : return "call"
        case OpRet    : return "ret"
        case OpBr     : return "br"
        case OpCondBr : return "br.cond"
        default       : panic("unreachable")
    }
}

// Flags are per-instruction annotations asserting absence of overflow or
// loss of precision under the operand values present when the flag was set.
// They are dropped, never added, by the passes in this package.
type Flags uint8

const (
    FlagNSW Flags = 1 << iota
    FlagNUW
    FlagExact
)

const _PoisonFlags = FlagNSW | FlagNUW | FlagExact

func (self Flags) String() string {
    var fs []string
    if self & FlagNSW   != 0 { fs = append(fs, "nsw") }
    if self & FlagNUW   != 0 { fs = append(fs, "nuw") }
    if self & FlagExact != 0 { fs = append(fs, "exact") }
    return strings.Join(fs, ".")
}

// Ins is a single SSA instruction. Operands are held in Args, the def-use
// back-edges in users (one entry per use, so an operand used twice by the
// same instruction contributes two entries). For phi nodes To holds the
// incoming block of each operand, for terminators it holds the successor
// blocks.
type Ins struct {
    Id    int
    Op    Op
    Ty    Type
    Iv    int64
    Args  []Value
    To    []*BasicBlock
    Flags Flags
    Blk   *BasicBlock
    users []*Ins
}

func (self *Ins) Type() Type {
    return self.Ty
}

func (self *Ins) Name() string {
    return fmt.Sprintf("%%%d", self.Id)
}

// Users returns the def-use back-edges of this instruction. The returned
// slice is the live list, callers must not mutate it.
func (self *Ins) Users() []*Ins {
    return self.users
}

func (self *Ins) HasUses() bool {
    return len(self.users) != 0
}

func (self *Ins) IsTerminator() bool {
    return self.Op == OpRet || self.Op == OpBr || self.Op == OpCondBr
}

// MayHaveSideEffects reports whether executing the instruction can be
// observed other than through its result value.
func (self *Ins) MayHaveSideEffects() bool {
    return self.Op == OpStore || self.Op == OpCall || self.IsTerminator()
}

// DropPoisonFlags removes every flag whose soundness depends on the
// current operand values.
func (self *Ins) DropPoisonFlags() {
    self.Flags &^= _PoisonFlags
}

// ReplaceUsesWith rewrites every use of this instruction to refer to v
// instead, and empties the user list.
func (self *Ins) ReplaceUsesWith(v Value) {
    users := self.users
    self.users = nil

    /* the list may contain one entry per use of the same user, the slot
     * scan rewrites them all on the first entry */
    for _, u := range users {
        n := 0
        for i, a := range u.Args {
            if a == self {
                u.Args[i] = v
                n++
            }
        }
        if p, ok := v.(*Ins); ok {
            for i := 0; i < n; i++ {
                p.users = append(p.users, u)
            }
        }
    }
}

// DropReferences disconnects this instruction from its operands, removing
// the matching user entries. The instruction stays in its block until it is
// erased.
func (self *Ins) DropReferences() {
    for _, a := range self.Args {
        if p, ok := a.(*Ins); ok {
            p.removeUser(self)
        }
    }
    self.Args = nil
    if self.Op == OpPhi {
        self.To = nil
    }
}

// EraseFromBlock removes the instruction from its containing block. The
// caller must have dropped or rewritten every reference beforehand.
func (self *Ins) EraseFromBlock() {
    bb := self.Blk
    if bb == nil {
        panic("ssa: erasing a detached instruction")
    }
    if self.IsTerminator() {
        panic("ssa: erasing a terminator")
    }
    if self.Op == OpPhi {
        bb.Phi = insremove(bb.Phi, self)
    } else {
        bb.Ins = insremove(bb.Ins, self)
    }
    self.Blk = nil
}

// AddIncoming appends a (value, predecessor) pair to a phi node.
func (self *Ins) AddIncoming(v Value, bb *BasicBlock) {
    if self.Op != OpPhi {
        panic("ssa: AddIncoming on a non-phi instruction")
    }
    self.Args = append(self.Args, v)
    self.To = append(self.To, bb)
    if p, ok := v.(*Ins); ok {
        p.users = append(p.users, self)
    }
}

func (self *Ins) SetFlags(fs Flags) *Ins {
    self.Flags |= fs
    return self
}

func (self *Ins) removeUser(u *Ins) {
    for i, p := range self.users {
        if p == u {
            self.users = append(self.users[:i], self.users[i + 1:]...)
            return
        }
    }
    panic("ssa: removing a user that is not on the list")
}

func (self *Ins) argstr(i int) string {
    if i < len(self.Args) && self.Args[i] != nil {
        return self.Args[i].String()
    } else {
        return "?"
    }
}

func (self *Ins) opstr() string {
    if fs := self.Flags.String(); fs == "" {
        return self.Op.String()
    } else {
        return self.Op.String() + "." + fs
    }
}

func (self *Ins) String() string {
    switch self.Op {
        default: {
            return fmt.Sprintf("%s = %s.%s %s, %s", self.Name(), self.opstr(), self.Ty, self.argstr(0), self.argstr(1))
        }

        /* unary value conversions */
        case OpTrunc, OpZExt, OpSExt, OpBSwap: {
            return fmt.Sprintf("%s = %s.%s %s", self.Name(), self.opstr(), self.Ty, self.argstr(0))
        }

        /* ternary select */
        case OpSelect: {
            return fmt.Sprintf("%s = select %s ? %s : %s", self.Name(), self.argstr(0), self.argstr(1), self.argstr(2))
        }

        /* phi nodes, sorted by incoming block ID */
        case OpPhi: {
            nb := len(self.Args)
            phi := make([]struct{b int; v string}, 0, nb)

            /* add each path */
            for i, v := range self.Args {
                vv := "?"
                if v != nil {
                    vv = v.String()
                }
                phi = append(phi, struct{b int; v string}{b: self.To[i].Id, v: vv})
            }

            /* sort by basic block ID */
            sort.Slice(phi, func(i int, j int) bool {
                return phi[i].b < phi[j].b
            })

            /* dump as string */
            ret := make([]string, 0, nb)
            for _, p := range phi {
                ret = append(ret, fmt.Sprintf("bb_%d: %s", p.b, p.v))
            }

            /* join them together */
            return fmt.Sprintf(
                "%s = φ(%s)",
                self.Name(),
                strings.Join(ret, ", "),
            )
        }

        /* memory operations */
        case OpLoad  : return fmt.Sprintf("%s = load.%s *%s", self.Name(), self.Ty, self.argstr(0))
        case OpStore : return fmt.Sprintf("store.%s %s -> *%s", self.typestrof(0), self.argstr(0), self.argstr(1))

        /* calls, Iv is the callee slot */
        case OpCall: {
            in := make([]string, 0, len(self.Args))
            for i := range self.Args {
                in = append(in, self.argstr(i))
            }
            if self.Ty.Kind == KindVoid {
                return fmt.Sprintf("call #%d, {%s}", self.Iv, strings.Join(in, ", "))
            } else {
                return fmt.Sprintf("%s = call.%s #%d, {%s}", self.Name(), self.Ty, self.Iv, strings.Join(in, ", "))
            }
        }

        /* terminators */
        case OpRet: {
            rs := make([]string, 0, len(self.Args))
            for i := range self.Args {
                rs = append(rs, self.argstr(i))
            }
            return fmt.Sprintf("ret {%s}", strings.Join(rs, ", "))
        }

        case OpBr: {
            return fmt.Sprintf("goto bb_%d", self.To[0].Id)
        }

        case OpCondBr: {
            return fmt.Sprintf("br %s ? bb_%d : bb_%d", self.argstr(0), self.To[0].Id, self.To[1].Id)
        }
    }
}

func (self *Ins) typestrof(i int) string {
    if i < len(self.Args) && self.Args[i] != nil {
        return self.Args[i].Type().String()
    } else {
        return "?"
    }
}
