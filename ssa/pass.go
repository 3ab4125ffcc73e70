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
)

// Pass is a function transform. Apply mutates fn in place and reports
// which analysis families survive the mutation.
type Pass interface {
    Apply(fn *Func, am *AnalysisManager) PreservedAnalyses
}

type PassDescriptor struct {
    Pass Pass
    Name string
}

var Passes = [...]PassDescriptor {
    { Name: "Bit-tracking Dead Code Elimination" , Pass: new(BDCE) },
    { Name: "Dead Code Elimination"              , Pass: new(DCE) },
}

// PreservedAnalyses describes which cached analysis families remain valid
// after a pass ran.
type PreservedAnalyses struct {
    all       bool
    cfg       bool
    globalsAA bool
}

// PreserveAll marks every analysis as still valid, a pass returns it when
// it did not change the function.
func PreserveAll() PreservedAnalyses {
    return PreservedAnalyses { all: true, cfg: true, globalsAA: true }
}

// PreserveCFGAndGlobalsAA marks the control-flow family and the globals
// alias facts as valid, everything else is invalidated.
func PreserveCFGAndGlobalsAA() PreservedAnalyses {
    return PreservedAnalyses { cfg: true, globalsAA: true }
}

func PreserveNone() PreservedAnalyses {
    return PreservedAnalyses {}
}

func (self PreservedAnalyses) All() bool       { return self.all }
func (self PreservedAnalyses) CFG() bool       { return self.cfg }
func (self PreservedAnalyses) GlobalsAA() bool { return self.globalsAA }

// AnalysisManager caches per-function analysis results and drops them when
// a pass reports them invalid.
type AnalysisManager struct {
    demanded map[*Func]*DemandedBits
}

func NewAnalysisManager() *AnalysisManager {
    return &AnalysisManager {
        demanded: make(map[*Func]*DemandedBits),
    }
}

// DemandedBitsOf returns the cached demanded-bits facts for fn, computing
// them on first use.
func (self *AnalysisManager) DemandedBitsOf(fn *Func) *DemandedBits {
    if db, ok := self.demanded[fn]; ok {
        return db
    }
    db := ComputeDemandedBits(fn)
    self.demanded[fn] = db
    return db
}

// invalidate drops the caches for fn that pa does not cover. Demanded bits
// is a value-level analysis, it survives only a full preserve.
func (self *AnalysisManager) invalidate(fn *Func, pa PreservedAnalyses) {
    if !pa.All() {
        delete(self.demanded, fn)
    }
}

// RunPasses applies the default pass table to fn in order, returns true if
// any pass changed the function.
func RunPasses(fn *Func, am *AnalysisManager) bool {
    return RunPassesWithOptions(fn, am, nil)
}

// RunPassesWithOptions is RunPasses with per-pass tuning.
func RunPassesWithOptions(fn *Func, am *AnalysisManager, opts *Options) bool {
    changed := false
    for _, d := range Passes {
        if opts.disabled(d.Pass) {
            continue
        }

        /* apply the pass, then drop stale analysis facts */
        pa := d.Pass.Apply(fn, am)
        am.invalidate(fn, pa)
        if !pa.All() {
            changed = true
        }

        Logger().Debug("pass applied",
            zap.String("func", fn.Name),
            zap.String("pass", d.Name),
            zap.Bool("changed", !pa.All()),
        )

        /* optional per-pass hooks */
        if opts.verifyEachPass() {
            if err := VerifyFunc(fn); err != nil {
                panic("ssa: " + d.Name + " produced a malformed function: " + err.Error())
            }
        }
        if dir := opts.dumpDir(); dir != "" {
            dumpPassDot(fn, dir, d.Name)
        }
    }
    return changed
}
