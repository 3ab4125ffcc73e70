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

type TypeKind uint8

const (
    KindVoid TypeKind = iota
    KindInt
    KindPtr
    KindFloat
)

// Type is the semantic type of an SSA value. Integer types carry a bit
// width in the range 1..64, all other kinds leave Bits as zero.
type Type struct {
    Kind TypeKind
    Bits uint8
}

var (
    Void = Type { Kind: KindVoid }
    Ptr  = Type { Kind: KindPtr }
    F64  = Type { Kind: KindFloat, Bits: 64 }
)

var (
    I1  = Type { Kind: KindInt, Bits: 1 }
    I8  = Type { Kind: KindInt, Bits: 8 }
    I16 = Type { Kind: KindInt, Bits: 16 }
    I32 = Type { Kind: KindInt, Bits: 32 }
    I64 = Type { Kind: KindInt, Bits: 64 }
)

func IntType(bits uint8) Type {
    if bits == 0 || bits > 64 {
        panic("ssa: invalid integer width")
    } else {
        return Type { Kind: KindInt, Bits: bits }
    }
}

func (self Type) IsInt() bool {
    return self.Kind == KindInt
}

// Mask returns the all-ones bit pattern of this integer type.
func (self Type) Mask() uint64 {
    if self.Kind != KindInt {
        panic("ssa: mask of a non-integer type")
    } else {
        return allones(self.Bits)
    }
}

func (self Type) String() string {
    switch self.Kind {
        case KindVoid  : return "void"
        case KindInt   : return fmt.Sprintf("i%d", self.Bits)
        case KindPtr   : return "ptr"
        case KindFloat : return "f64"
        default        : panic("unreachable")
    }
}
