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
    `github.com/oleiade/lane`
)

// BasicBlockIter walks the blocks reachable from the entry block in
// depth-first order.
type BasicBlockIter struct {
    b *BasicBlock
    s *lane.Stack
    v map[int]struct{}
}

func newBasicBlockIter(fn *Func) *BasicBlockIter {
    s := lane.NewStack()
    s.Push(fn.Root)
    return &BasicBlockIter {
        s: s,
        v: map[int]struct{} { fn.Root.Id: {} },
    }
}

func (self *BasicBlockIter) Next() bool {
    if self.s.Empty() {
        self.b = nil
        return false
    }

    /* pop the next block, push unvisited successors */
    self.b = self.s.Pop().(*BasicBlock)
    for _, p := range self.b.Successors() {
        if _, ok := self.v[p.Id]; !ok {
            self.v[p.Id] = struct{}{}
            self.s.Push(p)
        }
    }
    return true
}

func (self *BasicBlockIter) Block() *BasicBlock {
    return self.b
}

func (self *BasicBlockIter) ForEach(action func(bb *BasicBlock)) {
    for self.Next() {
        action(self.b)
    }
}

// DFS returns an iterator over the blocks reachable from the entry block.
func (self *Func) DFS() *BasicBlockIter {
    return newBasicBlockIter(self)
}
