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
    `os`

    `github.com/pelletier/go-toml/v2`
)

// Options tunes the pass pipeline. The zero value runs every pass with no
// extra checking.
type Options struct {
    // DisableBDCE skips the bit-tracking elimination pass.
    DisableBDCE bool `toml:"disable_bdce"`

    // DisableDCE skips the plain dead code elimination pass.
    DisableDCE bool `toml:"disable_dce"`

    // VerifyEachPass re-verifies the function after every pass and panics
    // on the first malformed result.
    VerifyEachPass bool `toml:"verify_each_pass"`

    // DumpDot, when non-empty, is a directory that receives a Graphviz
    // dump of the function after each pass.
    DumpDot string `toml:"dump_dot"`
}

// LoadOptions reads Options from a TOML file.
func LoadOptions(path string) (*Options, error) {
    data, err := os.ReadFile(path)
    if err != nil {
        return nil, fmt.Errorf("ssa: cannot read options file: %w", err)
    }
    var opts Options
    if err := toml.Unmarshal(data, &opts); err != nil {
        return nil, fmt.Errorf("ssa: cannot parse options file: %w", err)
    }
    return &opts, nil
}

func (self *Options) disabled(p Pass) bool {
    if self == nil {
        return false
    }
    switch p.(type) {
    case *BDCE:
        return self.DisableBDCE
    case *DCE:
        return self.DisableDCE
    default:
        return false
    }
}

func (self *Options) verifyEachPass() bool {
    return self != nil && self.VerifyEachPass
}

func (self *Options) dumpDir() string {
    if self == nil {
        return ""
    }
    return self.DumpDot
}
