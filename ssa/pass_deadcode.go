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

// DCE removes trivial dead code: pure instructions that no longer have any
// users. Removing one may strand its operands, so the sweep repeats until
// nothing changes.
type DCE struct{}

func (DCE) Apply(fn *Func, am *AnalysisManager) PreservedAnalyses {
    changed := false

    for {
        done := true
        var dead []*Ins

        /* Phase 1: collect the userless pure instructions */
        fn.DFS().ForEach(func(bb *BasicBlock) {
            for _, v := range bb.Phi {
                if !v.HasUses() {
                    dead = append(dead, v)
                }
            }
            for _, v := range bb.Ins {
                if !v.MayHaveSideEffects() && !v.HasUses() {
                    dead = append(dead, v)
                }
            }
        })

        /* Phase 2: unlink and erase them */
        for _, v := range dead {
            v.DropReferences()
            v.EraseFromBlock()
            done = false
        }

        /* no more modifications */
        if done {
            break
        } else {
            changed = true
        }
    }

    if !changed {
        return PreserveAll()
    }
    return PreserveCFGAndGlobalsAA()
}
