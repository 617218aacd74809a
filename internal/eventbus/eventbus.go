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

// Package eventbus is the two-lane FIFO the frame scheduler drains each
// tick: terminal input rides its own lane, separate from the agent link and
// internal timers (the update-check probe, the git-branch refresh), and
// exactly one goroutine — the scheduler — ever reads from either. This
// keeps every downstream mutation of session state on one thread, matching
// the "no task spawned off the scheduler may touch session state directly"
// rule: producers publish events, they never call back into the model. The
// two-lane split exists so the scheduler can give terminal input strict
// priority over agent events within a frame (spec.md §4.1/§5): a burst of
// streamed agent chunks must never get to run ahead of a keystroke that was
// already waiting.
package eventbus

import "github.com/wireterm/wireterm/internal/wire"

// Source tags where an Event originated, so the scheduler can route it
// without re-deriving that from the payload shape.
type Source string

const (
	SourceAgent    Source = "agent"
	SourceInput    Source = "input"
	SourceTick     Source = "tick"
	SourceInternal Source = "internal" // update-check, git-branch refresh, etc.
)

// Event is one item placed on the bus.
type Event struct {
	Source Source
	Agent  *wire.EventEnvelope // populated when Source == SourceAgent
	Tick   bool                // populated when Source == SourceTick
	Label  string              // SourceInternal/SourceInput discriminator
	Key    string              // raw key name, when Source == SourceInput
	Err    error
}

// Bus is a pair of bounded FIFO channels: one for terminal input, one for
// everything else (agent events and internal timers). Publish routes each
// Event onto the lane its Source belongs to. Generous buffers absorb a
// burst of agent notifications between scheduler ticks without blocking
// producers; within a lane, ordering is preserved regardless of buffer
// depth.
type Bus struct {
	input chan Event
	other chan Event
}

// New returns a Bus with the given per-lane buffer capacity.
func New(capacity int) *Bus {
	if capacity <= 0 {
		capacity = 256
	}
	return &Bus{input: make(chan Event, capacity), other: make(chan Event, capacity)}
}

// Publish enqueues an event onto its Source's lane. Never blocks the caller
// indefinitely in practice: the scheduler is the only consumer and drains
// continuously, so a full buffer indicates the scheduler has stalled, at
// which point backpressure here is the correct behavior rather than
// dropping events.
func (b *Bus) Publish(e Event) {
	if e.Source == SourceInput {
		b.input <- e
		return
	}
	b.other <- e
}

// InputEvents returns the receive-only terminal-input lane.
func (b *Bus) InputEvents() <-chan Event {
	return b.input
}

// AgentEvents returns the receive-only lane carrying agent events and
// internal-timer events (SourceAgent and SourceInternal).
func (b *Bus) AgentEvents() <-chan Event {
	return b.other
}

// Close shuts both lanes down; subsequent Publish calls will panic, matching
// close-then-send being a programmer error rather than a runtime condition
// to guard against once shutdown has begun.
func (b *Bus) Close() {
	close(b.input)
	close(b.other)
}
