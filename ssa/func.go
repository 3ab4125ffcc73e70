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
    `strings`
)

// Func is a function in SSA form: an entry block and every block of the
// function in layout order.
type Func struct {
    Name   string
    Args   []*Param
    Root   *BasicBlock
    Blocks []*BasicBlock
}

// ForEachIns visits every instruction of the function in program order:
// blocks in layout order, phi nodes then body then terminator within each
// block. The callback must not erase instructions during the walk.
func (self *Func) ForEachIns(action func(p *Ins)) {
    for _, bb := range self.Blocks {
        bb.ForEachIns(action)
    }
}

// ForEachBlock visits every block in layout order.
func (self *Func) ForEachBlock(action func(bb *BasicBlock)) {
    for _, bb := range self.Blocks {
        action(bb)
    }
}

// NumIns counts the instructions of the function, terminators included.
func (self *Func) NumIns() (n int) {
    self.ForEachIns(func(_ *Ins) { n++ })
    return
}

func (self *Func) String() string {
    buf := make([]string, 0, len(self.Blocks) + 1)
    buf = append(buf, "func " + self.Name + " {")
    for _, bb := range self.Blocks {
        buf = append(buf, bb.String())
    }
    buf = append(buf, "}")
    return strings.Join(buf, "\n")
}
