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
    `html`
    `os`
    `path/filepath`
    `strings`

    `github.com/oleiade/lane`
    `go.uber.org/zap`
)

func dumpbb(bb *BasicBlock) string {
    var w int
    var ins []string

    /* dump instructions */
    bb.ForEachIns(func(p *Ins) {
        for _, ss := range strings.Split(p.String(), "\n") {
            vv := strings.ReplaceAll(html.EscapeString(ss), " ", "&nbsp;")
            ins = append(ins, fmt.Sprintf("<tr><td align=\"left\">%s</td></tr>\n", vv))
            if len(ss) > w {
                w = len(ss)
            }
        }
    })

    /* dump predecessors */
    var pred []string
    for _, d := range bb.Pred {
        pred = append(pred, fmt.Sprintf("bb_%d", d.Id))
    }

    /* block metadata */
    meta := []string {
        fmt.Sprintf("# pred = {%s}", strings.Join(pred, ", ")),
    }
    for i, ss := range meta {
        meta[i] = fmt.Sprintf("<tr><td align=\"left\">%s</td></tr>\n", ss)
        if len(ss) > w {
            w = len(ss)
        }
    }

    /* assemble the table */
    buf := []string {
        "<table border=\"1\" cellborder=\"0\" cellspacing=\"0\">\n",
        fmt.Sprintf("<tr><td width=\"%d\">bb_%d</td></tr>\n", w * 10 + 5, bb.Id),
        "<hr/>\n",
    }
    buf = append(buf, meta...)
    if len(ins) != 0 {
        buf = append(buf, "<hr/>\n")
        buf = append(buf, ins...)
    }
    buf = append(buf, "</table>")
    return strings.Join(buf, "")
}

// WriteDot renders the function as a Graphviz digraph into fn at path.
func WriteDot(fn *Func, path string) error {
    q := lane.NewQueue()
    n := make(map[int]bool)
    e := make(map[struct{A, B int}]bool)
    buf := []string {
        "digraph CFG {",
        `    xdotversion = "15"`,
        `    graph [ fontname = "Fira Code" ]`,
        `    node [ fontname = "Fira Code" fontsize="16" shape = "plaintext" ]`,
        `    edge [ fontname = "Fira Code" ]`,
        `    START [ shape = "circle" ]`,
        fmt.Sprintf(`    START -> bb_%d`, fn.Root.Id),
    }
    for q.Enqueue(fn.Root); !q.Empty(); {
        p := q.Dequeue().(*BasicBlock)
        buf = append(buf, fmt.Sprintf(`    bb_%d [ label = < %s > ]`, p.Id, dumpbb(p)))
        n[p.Id] = true
        for _, ln := range p.Successors() {
            if !n[ln.Id] {
                n[ln.Id] = true
                q.Enqueue(ln)
            }
            edge := struct{A, B int}{p.Id, ln.Id}
            if !e[edge] {
                e[edge] = true
                buf = append(buf, fmt.Sprintf(`    bb_%d -> bb_%d`, p.Id, ln.Id))
            }
        }
    }
    buf = append(buf, "}")
    return os.WriteFile(path, []byte(strings.Join(buf, "\n")), 0644)
}

func slugify(name string) string {
    return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

func dumpPassDot(fn *Func, dir string, pass string) {
    name := fmt.Sprintf("%s_%s.dot", fn.Name, slugify(pass))
    if err := WriteDot(fn, filepath.Join(dir, name)); err != nil {
        Logger().Warn("cannot dump CFG", zap.String("pass", pass), zap.Error(err))
    }
}
