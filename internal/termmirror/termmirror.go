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

// Package termmirror mirrors the output of terminals the agent spawns
// (tool calls of kind "execute" that attach a terminal_id) into the
// tool-call record's TerminalOutput, so the transcript can render a live
// tail of a long-running command without polling the agent for it.
package termmirror

import (
	"sync"

	"github.com/wireterm/wireterm/internal/csync"
)

// Terminal is an append-only output buffer for one live terminal.
type Terminal struct {
	id  string
	mu  sync.Mutex
	buf []byte
}

// NewTerminal returns an empty Terminal for id.
func NewTerminal(id string) *Terminal {
	return &Terminal{id: id}
}

// Append adds bytes to the terminal's buffer. Safe to call from the
// subprocess reader goroutine; Len and the clone Snapshot takes go through
// the same per-terminal lock.
func (t *Terminal) Append(p []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
}

// Len reports the current buffer length in bytes.
func (t *Terminal) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.buf)
}

// clone returns a copy of the buffer's current bytes.
func (t *Terminal) clone() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]byte, len(t.buf))
	copy(out, t.buf)
	return out
}

// Mirror owns the set of live terminals, keyed by terminal id.
type Mirror struct {
	terminals *csync.Map[string, *Terminal]
}

// New returns an empty Mirror.
func New() *Mirror {
	return &Mirror{terminals: csync.NewMap[string, *Terminal]()}
}

// Open registers a new terminal, replacing any existing one with the same
// id (the agent reuses ids only after a terminal has been released).
func (m *Mirror) Open(id string) {
	m.terminals.Set(id, NewTerminal(id))
}

// Append feeds bytes into the named terminal, a no-op if it isn't open.
func (m *Mirror) Append(id string, p []byte) {
	if t, ok := m.terminals.Get(id); ok {
		t.Append(p)
	}
}

// Close releases a terminal's buffer.
func (m *Mirror) Close(id string) {
	m.terminals.Delete(id)
}

// TrackedOutput is a record's view of a terminal's mirrored output: the
// owning session_update code keeps TerminalOutput and TerminalOutputLen
// on the ToolCallRecord itself; this lets termmirror stay agnostic of the
// message package.
type TrackedOutput struct {
	Text string
	Len  int
}

// Snapshot reads terminalID's buffer if it has grown past knownLen, cloning
// the bytes under the terminal's lock and converting to a string outside of
// it.
// Returns (output, false) when there's nothing new: either the terminal
// isn't open, it's empty, or its length hasn't changed since knownLen —
// matching the "skip if L==0 || L==record.terminal_output_len" rule so the
// scheduler doesn't re-decode unchanged output every frame.
func (m *Mirror) Snapshot(terminalID string, knownLen int) (TrackedOutput, bool) {
	t, ok := m.terminals.Get(terminalID)
	if !ok {
		return TrackedOutput{}, false
	}
	l := t.Len()
	if l == 0 || l == knownLen {
		return TrackedOutput{}, false
	}
	raw := t.clone()
	return TrackedOutput{Text: string(raw), Len: l}, true
}
