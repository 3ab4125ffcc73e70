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
    `sync`

    `go.uber.org/zap`
)

var (
    logger     *zap.Logger
    loggerOnce sync.Once
)

// Logger returns the package logger. It is a no-op logger unless the host
// installed one with SetLogger.
func Logger() *zap.Logger {
    loggerOnce.Do(func() {
        if logger == nil {
            logger = zap.NewNop()
        }
    })
    return logger
}

// SetLogger installs the logger used by the passes in this package. Call
// it before the first pass runs.
func SetLogger(l *zap.Logger) {
    logger = l
}
