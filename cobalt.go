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

// Package cobalt is a small SSA middle-end: an instruction graph with
// def-use edges and the dead-code elimination passes that run over it. The
// host front-end builds functions with ssa.FuncBuilder, optimizes them
// here, and consumes the result however it sees fit.
package cobalt

import (
    `github.com/cobaltvm/cobalt/ssa`
)

// Optimize runs the default pass pipeline over fn in place. It reports
// whether any pass changed the function.
func Optimize(fn *ssa.Func) bool {
    return ssa.RunPasses(fn, ssa.NewAnalysisManager())
}

// OptimizeWithOptions is Optimize with pipeline tuning.
func OptimizeWithOptions(fn *ssa.Func, opts *ssa.Options) bool {
    return ssa.RunPassesWithOptions(fn, ssa.NewAnalysisManager(), opts)
}
