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
)

// VerifyFunc checks the structural well-formedness of a function: block
// layout, phi wiring, terminator placement, and def-use symmetry.
func VerifyFunc(fn *Func) error {
    if fn.Root == nil || len(fn.Blocks) == 0 || fn.Root != fn.Blocks[0] {
        return fmt.Errorf("ssa: verify: entry block is not the first block")
    }

    /* index the blocks */
    blks := make(map[*BasicBlock]struct{}, len(fn.Blocks))
    for _, bb := range fn.Blocks {
        blks[bb] = struct{}{}
    }

    /* expected use multiplicity, per (def, user) pair */
    uses := make(map[*Ins]map[*Ins]int)

    /* per-block structural checks */
    for _, bb := range fn.Blocks {
        if bb.Term == nil {
            return fmt.Errorf("ssa: verify: bb_%d has no terminator", bb.Id)
        }
        if !bb.Term.IsTerminator() {
            return fmt.Errorf("ssa: verify: bb_%d ends with a non-terminator: %s", bb.Id, bb.Term)
        }

        /* successor targets must belong to the function */
        for _, p := range bb.Successors() {
            if _, ok := blks[p]; !ok {
                return fmt.Errorf("ssa: verify: bb_%d branches to a foreign block bb_%d", bb.Id, p.Id)
            }
        }

        /* per-instruction checks */
        var err error
        bb.ForEachIns(func(p *Ins) {
            if err != nil {
                return
            }
            if p.Blk != bb {
                err = fmt.Errorf("ssa: verify: %s claims bb_%v, found in bb_%d", p.Name(), blkid(p.Blk), bb.Id)
                return
            }
            if p.Op == OpPhi {
                if len(p.Args) != len(p.To) {
                    err = fmt.Errorf("ssa: verify: phi %s has %d values for %d blocks", p.Name(), len(p.Args), len(p.To))
                    return
                }
                for _, in := range p.To {
                    if !blkin(bb.Pred, in) {
                        err = fmt.Errorf("ssa: verify: phi %s has an incoming edge from non-predecessor bb_%d", p.Name(), in.Id)
                        return
                    }
                }
            }
            for _, a := range p.Args {
                if v, ok := a.(*Ins); ok {
                    m := uses[v]
                    if m == nil {
                        m = make(map[*Ins]int)
                        uses[v] = m
                    }
                    m[p]++
                }
            }
        })
        if err != nil {
            return err
        }
    }

    /* def-use symmetry: the user lists must match the operand edges */
    var err error
    fn.ForEachIns(func(p *Ins) {
        if err != nil {
            return
        }
        seen := make(map[*Ins]int)
        for _, u := range p.users {
            seen[u]++
        }
        want := uses[p]
        if len(seen) != len(want) {
            err = fmt.Errorf("ssa: verify: %s has %d distinct users, operand edges imply %d", p.Name(), len(seen), len(want))
            return
        }
        for u, n := range want {
            if seen[u] != n {
                err = fmt.Errorf("ssa: verify: %s is used %d times by %s, user list says %d", p.Name(), n, u.Name(), seen[u])
                return
            }
        }
    })
    return err
}

func blkid(bb *BasicBlock) interface{} {
    if bb == nil {
        return "<nil>"
    } else {
        return bb.Id
    }
}

func blkin(bbs []*BasicBlock, bb *BasicBlock) bool {
    for _, p := range bbs {
        if p == bb {
            return true
        }
    }
    return false
}
