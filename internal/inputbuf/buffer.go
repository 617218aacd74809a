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

// Package inputbuf implements the composer's text buffer: grapheme-cluster-
// aware cursor arithmetic over byte-backed storage, paste-burst detection for
// terminals without bracketed-paste support, and the deferred-submit-on-
// Enter protocol that lets a burst still landing when Enter is pressed
// finish arriving as newlines instead of firing a premature submit.
package inputbuf

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Buffer is a single growable line editor. Cursor and all mutation offsets
// are expressed in grapheme clusters (what a user perceives as "one
// character"), not bytes or runes, so multi-byte and combining-mark text
// edits the same way plain ASCII does.
type Buffer struct {
	text    string
	cursor  int // grapheme-cluster offset
	version int

	burst *PasteBurstDetector

	// pendingSubmit is set by every Enter: a newline is inserted immediately
	// (so a burst's remaining characters still land correctly) and the
	// buffer is submitted only once no burst is active.
	pendingSubmit bool
}

// New returns an empty Buffer.
func New() *Buffer {
	return &Buffer{burst: NewPasteBurstDetector()}
}

// Text returns the buffer's current contents.
func (b *Buffer) Text() string { return b.text }

// Version returns the monotonically increasing counter bumped on every
// mutation; callers memoize derived state (wrapped line layout, visual
// height) keyed on this instead of diffing the text itself.
func (b *Buffer) Version() int { return b.version }

// LineCount returns the number of lines (1 + number of newlines).
func (b *Buffer) LineCount() int {
	return strings.Count(b.text, "\n") + 1
}

// PendingSubmit reports whether a deferred submit is armed.
func (b *Buffer) PendingSubmit() bool { return b.pendingSubmit }

// clusters splits text into grapheme clusters.
func clusters(text string) []string {
	var out []string
	state := -1
	for len(text) > 0 {
		var cluster string
		cluster, text, _, state = uniseg.FirstGraphemeClusterInString(text, state)
		out = append(out, cluster)
	}
	return out
}

func (b *Buffer) bump() { b.version++ }

// InsertAtCursor inserts s at the cursor and advances the cursor past it.
func (b *Buffer) InsertAtCursor(s string) {
	cs := clusters(b.text)
	if b.cursor > len(cs) {
		b.cursor = len(cs)
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
	before := strings.Join(cs[:b.cursor], "")
	after := strings.Join(cs[b.cursor:], "")
	b.text = before + s + after
	b.cursor += len(clusters(s))
	b.bump()
}

// DeleteBackward removes the grapheme cluster before the cursor, if any.
func (b *Buffer) DeleteBackward() {
	cs := clusters(b.text)
	if b.cursor <= 0 || b.cursor > len(cs) {
		return
	}
	b.text = strings.Join(cs[:b.cursor-1], "") + strings.Join(cs[b.cursor:], "")
	b.cursor--
	b.bump()
}

// DeleteForward removes the grapheme cluster at the cursor, if any.
func (b *Buffer) DeleteForward() {
	cs := clusters(b.text)
	if b.cursor < 0 || b.cursor >= len(cs) {
		return
	}
	b.text = strings.Join(cs[:b.cursor], "") + strings.Join(cs[b.cursor+1:], "")
	b.bump()
}

// MoveCursor shifts the cursor by delta grapheme clusters, clamped to the
// buffer's bounds.
func (b *Buffer) MoveCursor(delta int) {
	n := len(clusters(b.text))
	b.cursor += delta
	if b.cursor < 0 {
		b.cursor = 0
	}
	if b.cursor > n {
		b.cursor = n
	}
}

// Cursor returns the current grapheme-cluster cursor offset.
func (b *Buffer) Cursor() int { return b.cursor }

// Clear empties the buffer and resets the cursor.
func (b *Buffer) Clear() {
	b.text = ""
	b.cursor = 0
	b.pendingSubmit = false
	b.burst.Reset()
	b.bump()
}

// HandleKeyEvent feeds a key event through the paste-burst detector. Call
// this once per key before dispatching the key's actual edit.
func (b *Buffer) HandleKeyEvent() bool {
	return b.burst.OnKeyEvent(b.LineCount())
}

// HandleEnter implements the deferred-submit-on-Enter rule: Enter always
// inserts a newline and arms a pending submit, regardless of whether a
// paste burst is currently active. The decision of whether to actually
// submit is made later, once per frame, by DrainPendingSubmit — after the
// rest of the burst (if this Enter landed inside one) has had a chance to
// arrive. Deciding at keypress time instead would submit prematurely on an
// Enter that is itself the first character of a burst.
func (b *Buffer) HandleEnter() {
	b.InsertAtCursor("\n")
	b.pendingSubmit = true
}

// DrainPendingSubmit checks, once per frame tick, whether a deferred submit
// should now fire: it does once the burst has settled (gone idle past the
// burst interval). Returns true exactly once when the deferred submit
// fires, clearing the pending flag.
func (b *Buffer) DrainPendingSubmit() bool {
	if !b.pendingSubmit {
		return false
	}
	if b.burst.IsActive() {
		return false
	}
	b.pendingSubmit = false
	return true
}
