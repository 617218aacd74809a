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

// Package permission implements the inline tool-call permission prompt: an
// ordered queue of tool calls awaiting a user decision, each backed by a
// one-shot reply channel to the agent link.
package permission

import "github.com/wireterm/wireterm/internal/wire"

// OptionKind mirrors wire.PermissionOptionKind for the UI-facing option list.
type OptionKind = wire.PermissionOptionKind

// Option is one choice a user can pick for a pending permission.
type Option struct {
	ID    string
	Label string
	Kind  OptionKind
}

// Outcome is what gets sent back on the reply channel. Selected=false means
// the request was cancelled or implicitly rejected (channel dropped unset).
type Outcome struct {
	Selected bool
	OptionID string
}

// Permission is attached inline to a ToolCallRecord. It is destroyed (its
// reply channel sent to exactly once) when a reply is sent or the session
// ends; dropping it unset is an implicit reject.
type Permission struct {
	ToolCallID    string
	Description   string
	Options       []Option
	SelectedIndex int
	Focused       bool

	replyOnce bool
	replyCh   chan Outcome
}

// New creates a pending permission for toolCallID with the given options.
// The returned channel receives exactly one Outcome.
func New(toolCallID, description string, options []Option) (*Permission, <-chan Outcome) {
	ch := make(chan Outcome, 1)
	return &Permission{
		ToolCallID:  toolCallID,
		Description: description,
		Options:     options,
		replyCh:     ch,
	}, ch
}

// Replied reports whether Reply has already fired for this permission.
func (p *Permission) Replied() bool { return p.replyOnce }

// Reply sends outcome exactly once; subsequent calls are no-ops.
func (p *Permission) Reply(o Outcome) {
	if p.replyOnce {
		return
	}
	p.replyOnce = true
	p.replyCh <- o
	close(p.replyCh)
}

// RejectLastOption replies with the last option (unknown-tool-call
// auto-reject, duplicate-request auto-reject, and the 'n'/Esc shortcut).
func (p *Permission) RejectLastOption() {
	if len(p.Options) == 0 {
		p.Reply(Outcome{Selected: false})
		return
	}
	last := p.Options[len(p.Options)-1]
	p.Reply(Outcome{Selected: true, OptionID: last.ID})
}

// MoveSelection moves SelectedIndex by delta, clamped to [0, len(Options)).
// A no-op at the bounds, never an error.
func (p *Permission) MoveSelection(delta int) {
	if len(p.Options) == 0 {
		return
	}
	idx := p.SelectedIndex + delta
	if idx < 0 {
		idx = 0
	}
	if idx > len(p.Options)-1 {
		idx = len(p.Options) - 1
	}
	p.SelectedIndex = idx
}

// Queue is the ordered list of tool-call ids awaiting a decision; head is
// focused. Per the spec's design note, the queue order is the single source
// of truth — each Permission's Focused flag is written out immediately after
// every mutation rather than derived lazily at render time, since the
// Permission carries that field directly and must stay in sync with it.
type Queue struct {
	ids []string
}

// Lookup resolves a tool-call id to its live *Permission, or nil if none is
// pending for that id (e.g. already replied and detached).
type Lookup func(toolCallID string) *Permission

// Len reports the number of pending permissions.
func (q *Queue) Len() int { return len(q.ids) }

// IDs returns the queue order (head first), a defensive copy.
func (q *Queue) IDs() []string {
	out := make([]string, len(q.ids))
	copy(out, q.ids)
	return out
}

// Head returns the focused tool-call id, or "" if the queue is empty.
func (q *Queue) Head() string {
	if len(q.ids) == 0 {
		return ""
	}
	return q.ids[0]
}

// Enqueue appends id to the tail and resyncs focus flags.
func (q *Queue) Enqueue(id string, lookup Lookup) {
	q.ids = append(q.ids, id)
	q.syncFocus(lookup)
}

// Remove drops id from anywhere in the queue and resyncs focus.
func (q *Queue) Remove(id string, lookup Lookup) {
	for i, v := range q.ids {
		if v == id {
			q.ids = append(q.ids[:i], q.ids[i+1:]...)
			break
		}
	}
	q.syncFocus(lookup)
}

// RotateDown moves the head to the tail (bound to the Down key). A no-op
// unless at least two permissions are queued.
func (q *Queue) RotateDown(lookup Lookup) {
	if len(q.ids) < 2 {
		return
	}
	head := q.ids[0]
	q.ids = append(q.ids[1:], head)
	q.syncFocus(lookup)
}

// RotateUp moves the tail to the head (bound to the Up key). A no-op unless
// at least two permissions are queued.
func (q *Queue) RotateUp(lookup Lookup) {
	if len(q.ids) < 2 {
		return
	}
	last := q.ids[len(q.ids)-1]
	q.ids = append([]string{last}, q.ids[:len(q.ids)-1]...)
	q.syncFocus(lookup)
}

// PopHead removes and returns the current head, or "" if empty, and resyncs
// focus onto the new head.
func (q *Queue) PopHead(lookup Lookup) string {
	if len(q.ids) == 0 {
		return ""
	}
	head := q.ids[0]
	q.ids = q.ids[1:]
	q.syncFocus(lookup)
	return head
}

func (q *Queue) syncFocus(lookup Lookup) {
	if lookup == nil {
		return
	}
	for i, id := range q.ids {
		if p := lookup(id); p != nil {
			p.Focused = i == 0
		}
	}
}

// HandleKey applies one of the key bindings from spec 4.5 ("Permission input
// handling") to the queue's current head. key is one of "left", "right",
// "up", "down", "enter", "y" (or "ctrl+y"), "a", "n", "esc". Returns true if
// the key was a recognized permission binding.
func (q *Queue) HandleKey(key string, lookup Lookup) bool {
	headID := q.Head()
	if headID == "" {
		return false
	}
	head := lookup(headID)
	if head == nil {
		return false
	}
	switch key {
	case "left":
		head.MoveSelection(-1)
	case "right":
		head.MoveSelection(1)
	case "up":
		q.RotateUp(lookup)
	case "down":
		q.RotateDown(lookup)
	case "enter":
		if head.SelectedIndex >= 0 && head.SelectedIndex < len(head.Options) {
			opt := head.Options[head.SelectedIndex]
			head.Reply(Outcome{Selected: true, OptionID: opt.ID})
		} else {
			head.Reply(Outcome{Selected: false})
		}
		q.PopHead(lookup)
	case "y", "ctrl+y":
		if len(head.Options) > 0 {
			head.Reply(Outcome{Selected: true, OptionID: head.Options[0].ID})
			q.PopHead(lookup)
		}
	case "a":
		if len(head.Options) > 1 {
			head.Reply(Outcome{Selected: true, OptionID: head.Options[1].ID})
			q.PopHead(lookup)
		}
	case "n", "esc":
		head.RejectLastOption()
		q.PopHead(lookup)
	default:
		return false
	}
	return true
}
