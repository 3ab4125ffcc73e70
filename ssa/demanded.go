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
    `math/bits`

    `github.com/oleiade/lane`
)

// DemandedBits answers, for every integer-typed instruction of a function,
// which bits of its result can influence an externally observable output.
// The facts are computed once and never refreshed, mutating the function
// invalidates the analysis.
type DemandedBits struct {
    bits    map[int]uint64
    visited map[int]struct{}
}

// ComputeDemandedBits runs the analysis over fn. Demand propagates
// backwards from the always-live roots (terminators, side-effecting
// instructions and non-integer values) through the per-opcode transfer
// functions.
func ComputeDemandedBits(fn *Func) *DemandedBits {
    q := lane.NewQueue()
    db := &DemandedBits {
        bits    : make(map[int]uint64),
        visited : make(map[int]struct{}),
    }

    /* Phase 1: seed the roots, integer roots demand every result bit */
    fn.ForEachIns(func(p *Ins) {
        if !alwaysLive(p) {
            return
        }
        if p.Ty.IsInt() {
            db.bits[p.Id] = p.Ty.Mask()
        } else {
            db.visited[p.Id] = struct{}{}
        }
        q.Enqueue(p)
    })

    /* Phase 2: backward propagation to a fixed point */
    for !q.Empty() {
        p := q.Dequeue().(*Ins)

        /* demand on the result of p, zero for non-integer results */
        aout := uint64(0)
        if p.Ty.IsInt() {
            aout = db.bits[p.Id]
        }

        /* derive operand demand per slot */
        for i, a := range p.Args {
            o, ok := a.(*Ins)
            if !ok {
                continue
            }

            /* non-integer operands are only ever live or dead */
            if !o.Ty.IsInt() {
                if _, seen := db.visited[o.Id]; !seen {
                    db.visited[o.Id] = struct{}{}
                    q.Enqueue(o)
                }
                continue
            }

            /* a fully dead result of a non-root integer user demands
             * nothing of its operands */
            var ab uint64
            if p.Ty.IsInt() && aout == 0 && !alwaysLive(p) {
                ab = 0
            } else {
                ab = liveOperandBits(p, i, aout, o.Ty.Bits)
            }

            /* grow the operand mask monotonically */
            old, seen := db.bits[o.Id]
            if !seen || old | ab != old {
                db.bits[o.Id] = old | ab
                q.Enqueue(o)
            }
        }
    }
    return db
}

// Demanded returns the bit-mask of demanded result bits. Instructions the
// liveness propagation never reached demand nothing.
func (self *DemandedBits) Demanded(p *Ins) uint64 {
    if !p.Ty.IsInt() {
        panic("ssa: demanded bits of a non-integer value")
    }
    return self.bits[p.Id]
}

// AllOnes reports whether every result bit is demanded, such a value is
// externally visible bit-for-bit.
func (self *DemandedBits) AllOnes(p *Ins) bool {
    return self.Demanded(p) == p.Ty.Mask()
}

// Zero reports whether no result bit is demanded.
func (self *DemandedBits) Zero(p *Ins) bool {
    return self.Demanded(p) == 0
}

// InstructionDead reports whether the instruction as a whole is
// unnecessary: it is not a root and the liveness propagation never
// reached it.
func (self *DemandedBits) InstructionDead(p *Ins) bool {
    if alwaysLive(p) {
        return false
    }
    if _, ok := self.visited[p.Id]; ok {
        return false
    }
    _, ok := self.bits[p.Id]
    return !ok
}

// alwaysLive reports whether p is a liveness root: side-effecting
// instructions and terminators are observable by definition, and values
// outside the integer domain have no bit-level demand to track, so they
// are kept live wholesale.
func alwaysLive(p *Ins) bool {
    return p.MayHaveSideEffects() || !p.Ty.IsInt()
}

// liveOperandBits maps the demand aout on the result of p to the demand on
// its i-th operand of the given width. Unknown opcodes conservatively
// demand every operand bit.
func liveOperandBits(p *Ins, i int, aout uint64, width uint8) uint64 {
    switch p.Op {
        default: {
            return allones(width)
        }

        /* carries only move towards the high bits */
        case OpAdd, OpSub, OpMul: {
            return carrymask(aout)
        }

        /* bit-parallel operations pass the demand straight through */
        case OpAnd, OpOr, OpXor, OpPhi: {
            return aout
        }

        /* constant shifts move the demand, the shift amount itself is
         * fully demanded */
        case OpShl: {
            if c, ok := shiftamount(p, i); ok {
                return (aout >> c) & allones(width)
            } else {
                return allones(width)
            }
        }

        case OpLShr: {
            if c, ok := shiftamount(p, i); ok {
                return (aout << c) & allones(width)
            } else {
                return allones(width)
            }
        }

        case OpAShr: {
            c, ok := shiftamount(p, i)
            if !ok {
                return allones(width)
            }
            ab := (aout << c) & allones(width)

            /* the shifted-in high bits replicate the sign bit */
            if c != 0 && aout & (allones(p.Ty.Bits) &^ (allones(p.Ty.Bits) >> c)) != 0 {
                ab |= 1 << (width - 1)
            }
            return ab
        }

        /* width changes keep the low-bit alignment */
        case OpTrunc, OpZExt: {
            return aout & allones(width)
        }

        case OpSExt: {
            ab := aout & allones(width)
            if aout &^ allones(width) != 0 {
                ab |= 1 << (width - 1)
            }
            return ab
        }

        case OpBSwap: {
            return bswapmask(aout, width)
        }

        /* only the condition slot of a select is special */
        case OpSelect: {
            if i == 0 {
                return allones(width)
            } else {
                return aout
            }
        }
    }
}

// shiftamount resolves the shift amount of p when the value slot i is the
// shifted operand and the amount is a constant.
func shiftamount(p *Ins, i int) (uint64, bool) {
    if i != 0 {
        return 0, false
    }
    c, ok := p.Args[1].(*IntConst)
    if !ok {
        return 0, false
    }
    return uint64(c.V) % uint64(p.Ty.Bits), true
}

// carrymask extends a demand mask down to bit zero: an operand bit can
// influence every result bit at or above its own position.
func carrymask(v uint64) uint64 {
    if v == 0 {
        return 0
    } else if n := bits.Len64(v); n >= 64 {
        return ^uint64(0)
    } else {
        return (1 << n) - 1
    }
}

// bswapmask permutes a demand mask the way a byte swap permutes value
// bytes. Widths that are not whole bytes cannot be byte-swapped, demand
// everything for them.
func bswapmask(v uint64, width uint8) uint64 {
    if width % 8 != 0 {
        return allones(width)
    }
    nb := int(width / 8)
    r := uint64(0)
    for i := 0; i < nb; i++ {
        r |= ((v >> (8 * i)) & 0xff) << (8 * (nb - 1 - i))
    }
    return r
}
