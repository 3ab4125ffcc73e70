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
    `go.uber.org/zap`

    `github.com/oleiade/lane`
)

// BDCE is bit-tracking dead code elimination. Shifts, masks and
// truncations kill some of the bits of their inputs, instructions whose
// every result bit is killed before it can reach an observable output are
// neutralized and, when nothing else needs them, removed.
type BDCE struct{}

// visible reports whether every result bit of p is demanded. Such a value
// is externally visible bit-for-bit, so no upstream rewrite can change
// what it computes.
func (BDCE) visible(p *Ins, db *DemandedBits) bool {
    if !p.Ty.IsInt() {
        panic("bdce: trivializing a non-integer value?")
    }
    return db.AllOnes(p)
}

// clearAssumptions strips the poison-generating flags from the transitive
// users of an instruction that is about to be replaced with a constant.
// Flags on those users were justified by the old operand value and may no
// longer hold. The walk prunes at externally visible users: their flags
// are sound under any operand value, or the rewrite would not have been
// legal in the first place.
func (self BDCE) clearAssumptions(ins *Ins, db *DemandedBits) {
    vis := make(map[int]struct{})
    st := lane.NewStack()

    /* seed with the eligible direct users, flags only ever sit on
     * integer instructions so users outside the integer domain are
     * not walked */
    for _, u := range ins.Users() {
        if u.Ty.IsInt() && !self.visible(u, db) {
            st.Push(u)
        }
    }

    /* DFS through subsequent users, the visited set guards phi cycles */
    for !st.Empty() {
        p := st.Pop().(*Ins)
        if _, ok := vis[p.Id]; ok {
            continue
        }
        vis[p.Id] = struct{}{}
        p.DropPoisonFlags()

        for _, u := range p.Users() {
            if !u.Ty.IsInt() {
                continue
            }
            if _, ok := vis[u.Id]; !ok && !self.visible(u, db) {
                st.Push(u)
            }
        }
    }
}

// sweep makes a single pass over the function in program order: integer
// instructions with no demanded bits get their uses replaced by zero, and
// instructions the analysis proved unnecessary are queued for removal.
// Erasure is deferred so the traversal never invalidates itself.
func (self BDCE) sweep(fn *Func, db *DemandedBits) bool {
    var dead []*Ins
    changed := false

    /* Phase 1: trivialize and schedule */
    fn.ForEachIns(func(p *Ins) {
        /* a side-effecting instruction with no uses cannot be helped,
         * skip it without consulting the analysis */
        if p.MayHaveSideEffects() && !p.HasUses() {
            return
        }

        /* live instructions with all dead bits are made dead first by
         * replacing their uses with an equivalent constant */
        if p.Ty.IsInt() && db.Zero(p) {
            Logger().Debug("bdce: trivializing", zap.String("ins", p.String()))
            self.clearAssumptions(p, db)
            p.ReplaceUsesWith(IntZero(p.Ty.Bits))
            StatTrivialized.add(1)
            changed = true
        }

        /* removal is gated on the analysis, not on the rewrite above:
         * a trivialized instruction may still have to stay */
        if !db.InstructionDead(p) {
            return
        }

        /* break the def-use edges now so that erasure order cannot
         * matter, then queue the instruction */
        dead = append(dead, p)
        p.DropReferences()
        changed = true
    })

    /* Phase 2: deferred removal */
    for _, p := range dead {
        p.EraseFromBlock()
        StatRemoved.add(1)
    }
    return changed
}

func (self BDCE) Apply(fn *Func, am *AnalysisManager) PreservedAnalyses {
    if !self.sweep(fn, am.DemandedBitsOf(fn)) {
        return PreserveAll()
    }
    return PreserveCFGAndGlobalsAA()
}
