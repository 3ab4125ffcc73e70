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
    `sync/atomic`
)

// Stat is a monotonically increasing process-wide counter. Passes only
// ever add to it, hosts read it with Load.
type Stat struct {
    v int64
}

func (self *Stat) add(n int64) {
    atomic.AddInt64(&self.v, n)
}

func (self *Stat) Load() int64 {
    return atomic.LoadInt64(&self.v)
}

var (
    // StatTrivialized counts instructions whose uses were rewritten to a
    // zero constant because none of their result bits were demanded.
    StatTrivialized Stat

    // StatRemoved counts instructions erased from their blocks.
    StatRemoved Stat
)
