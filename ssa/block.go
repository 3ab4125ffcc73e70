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
    `strings`
)

// BasicBlock is a straight-line run of instructions: phi nodes first, then
// the body, then exactly one terminator.
type BasicBlock struct {
    Id   int
    Phi  []*Ins
    Ins  []*Ins
    Pred []*BasicBlock
    Term *Ins
}

// Successors returns the blocks the terminator may transfer control to.
func (self *BasicBlock) Successors() []*BasicBlock {
    if self.Term == nil {
        return nil
    } else {
        return self.Term.To
    }
}

// ForEachIns visits every instruction of the block in program order.
func (self *BasicBlock) ForEachIns(action func(p *Ins)) {
    for _, v := range self.Phi {
        action(v)
    }
    for _, v := range self.Ins {
        action(v)
    }
    if self.Term != nil {
        action(self.Term)
    }
}

func (self *BasicBlock) String() string {
    buf := []string { fmt.Sprintf("bb_%d:", self.Id) }
    self.ForEachIns(func(p *Ins) {
        for _, ss := range strings.Split(p.String(), "\n") {
            buf = append(buf, "    " + ss)
        }
    })
    return strings.Join(buf, "\n")
}

func insremove(ins []*Ins, p *Ins) []*Ins {
    for i, v := range ins {
        if v == p {
            return append(ins[:i], ins[i + 1:]...)
        }
    }
    panic("ssa: removing an instruction that is not in the block")
}
