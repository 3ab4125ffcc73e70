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

// Value is anything an instruction can take as an operand: another
// instruction, a function parameter, or a constant.
type Value interface {
    fmt.Stringer
    Type() Type
}

// IntConst is an integer literal of a specific width. The value is kept
// sign-extended in V, Bitcast truncates it to the type mask.
type IntConst struct {
    Ty Type
    V  int64
}

func ConstInt(ty Type, v int64) *IntConst {
    if !ty.IsInt() {
        panic("ssa: integer constant of a non-integer type")
    } else {
        return &IntConst { Ty: ty, V: v }
    }
}

// IntZero constructs the zero constant of the given bit width.
func IntZero(bits uint8) *IntConst {
    return ConstInt(IntType(bits), 0)
}

func (self *IntConst) Type() Type {
    return self.Ty
}

// Bitcast returns the value masked to the width of the type.
func (self *IntConst) Bitcast() uint64 {
    return uint64(self.V) & self.Ty.Mask()
}

func (self *IntConst) String() string {
    return fmt.Sprintf("$%d", self.V)
}

// Param is a formal parameter of a function. Parameters are defined by the
// environment, they are never rewritten or removed by any pass.
type Param struct {
    Ty Type
    Id int
}

func (self *Param) Type() Type {
    return self.Ty
}

func (self *Param) String() string {
    return fmt.Sprintf("%%arg%d", self.Id)
}
