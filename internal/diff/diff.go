// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package diff turns a tool call's before/after text content into the
// structured line atoms the transcript renders as an edit block.
package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffType is the kind of one diff line.
type DiffType int

const (
	DiffEqual DiffType = iota
	DiffInsert
	DiffDelete
)

// DiffLine is one line of a line-level diff, tagged with its type.
type DiffLine struct {
	Type    DiffType
	Content string
}

// Lines computes a line-granular diff between a and b using Myers' diff
// over a line-hashed alphabet (diffmatchpatch's line-mode optimization),
// which is both faster and more readable for source text than a
// character-level diff.
func Lines(a, b string) []DiffLine {
	dmp := diffmatchpatch.New()
	aChars, bChars, lineArray := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffMain(aChars, bChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var out []DiffLine
	for _, d := range diffs {
		var typ DiffType
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			typ = DiffInsert
		case diffmatchpatch.DiffDelete:
			typ = DiffDelete
		default:
			typ = DiffEqual
		}
		for _, line := range splitKeepEmpty(d.Text) {
			out = append(out, DiffLine{Type: typ, Content: line})
		}
	}
	return out
}

// splitKeepEmpty splits on "\n" without dropping the content of a trailing
// newline-terminated chunk as an extra empty line.
func splitKeepEmpty(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Unified renders a's and b's line diff in unified-diff style ("-"/"+"/" "
// prefixed lines, no hunk headers since tool-call content has no surrounding
// file context to anchor them to).
func Unified(a, b string) string {
	lines := Lines(a, b)
	var sb strings.Builder
	for _, l := range lines {
		switch l.Type {
		case DiffInsert:
			sb.WriteString("+")
		case DiffDelete:
			sb.WriteString("-")
		default:
			sb.WriteString(" ")
		}
		sb.WriteString(l.Content)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// GenerateDiff builds the unified diff for a tool call's edit content and
// reports the old/new line counts (used for the "+N -M" summary badge).
// Returns ("", 0, 0) when old and new are identical.
func GenerateDiff(old, new, filename string) (string, int, int) {
	if old == new {
		return "", 0, 0
	}
	unified := Unified(old, new)
	oldLines := countLines(old)
	newLines := countLines(new)
	if filename != "" {
		unified = fmt.Sprintf("--- %s\n+++ %s\n%s", filename, filename, unified)
	}
	return unified, oldLines, newLines
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
