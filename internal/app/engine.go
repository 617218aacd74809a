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

// Package app hosts the frame scheduler: a single-threaded cooperative loop
// that drains terminal input, agent events, and ~33ms frame ticks, applying
// each to session state through pure transition functions. Nothing spawned
// from a transition function may touch session state directly — outbound
// agent calls are fire-and-forget, and whatever the agent sends back arrives
// later as an ordinary event on the bus.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wireterm/wireterm/internal/agentlink"
	"github.com/wireterm/wireterm/internal/autocomplete"
	"github.com/wireterm/wireterm/internal/errclass"
	"github.com/wireterm/wireterm/internal/eventbus"
	"github.com/wireterm/wireterm/internal/focus"
	"github.com/wireterm/wireterm/internal/inputbuf"
	"github.com/wireterm/wireterm/internal/message"
	"github.com/wireterm/wireterm/internal/permission"
	"github.com/wireterm/wireterm/internal/session"
	"github.com/wireterm/wireterm/internal/termmirror"
	"github.com/wireterm/wireterm/internal/viewport"
	"github.com/wireterm/wireterm/internal/wire"
)

// tickInterval is the frame-scheduler's render cadence, matched to the
// teacher's TUI redraw budget: fast enough that streaming text and the
// spinner read as smooth, slow enough not to burn a core doing it.
const tickInterval = 33 * time.Millisecond

// gitBranchInterval is the idle-triggered cadence for refreshing the cached
// git branch header: git plumbing is a blocking collaborator, so it runs far
// slower than the render tick rather than on every frame.
const gitBranchInterval = 5 * time.Second

// Config wires an Engine to its collaborators.
type Config struct {
	Link   *agentlink.Link
	Bus    *eventbus.Bus
	Logger *zap.Logger
}

// Engine owns one session's worth of state and is the only thing allowed to
// mutate it. Everything else — agentlink, termmirror, the input buffer — only
// ever publishes facts onto the bus or exposes read-only snapshots.
type Engine struct {
	link   *agentlink.Link
	bus    *eventbus.Bus
	logger *zap.Logger

	Session  *session.Session
	Input    *inputbuf.Buffer
	Terms    *termmirror.Mirror
	Focus    *focus.Manager
	Mention  autocomplete.MentionState
	Slash    autocomplete.SlashState
	mentionC *autocomplete.FileCache

	SpinnerFrame int
	ShouldQuit   bool
	ForceRedraw  bool
	HelpVisible  bool
	HeaderHidden bool
	Chat         *viewport.State

	requestSeq     int
	pendingReplies map[string]<-chan permission.Outcome
}

// New returns an Engine for the given session, ready to Run.
func New(cfg Config, sess *session.Session) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		link:           cfg.Link,
		bus:            cfg.Bus,
		logger:         logger,
		Session:        sess,
		Input:          inputbuf.New(),
		Terms:          termmirror.New(),
		Focus:          &focus.Manager{},
		Chat:           viewport.New(),
		pendingReplies: make(map[string]<-chan permission.Outcome),
	}
	e.Mention.Trigger.Row = -1
	e.Slash.Trigger.Row = -1
	e.mentionC = autocomplete.NewFileCache(sess.Cwd)
	if err := e.mentionC.Watch(); err != nil {
		logger.Debug("mention file cache: live invalidation unavailable", zap.Error(err))
	}
	return e
}

// focusContext reports which focus targets are currently claimable, derived
// from live session/popup state rather than tracked independently.
func (e *Engine) focusContext() focus.Context {
	return focus.Context{
		TodoFocusAvailable: e.Session.TodosVisible(),
		MentionActive:      e.Mention.Active() || e.Slash.Active(),
		PermissionActive:   e.Session.Permissions.Len() > 0,
		HelpActive:         e.HelpVisible,
	}
}

// nextRequestID returns a locally-unique, monotonically increasing request
// id for outbound commands; the agent simply echoes it back unexamined.
func (e *Engine) nextRequestID() string {
	e.requestSeq++
	return "r" + itoa(e.requestSeq)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(buf[pos:])
}

// ReplayHistory applies a resumed session's history updates through the same
// transition function live updates go through, once at startup before Run
// begins — so a reconnected session's transcript/tool-call index/todos end
// up identical to having watched it happen live.
func (e *Engine) ReplayHistory(updates []wire.SessionUpdate) {
	for _, u := range updates {
		e.handleSessionUpdate(u)
	}
}

// Run drives the scheduler loop until ctx is cancelled or ShouldQuit is set
// by a transition. render is called once per frame after all queued events
// for that frame have been drained.
func (e *Engine) Run(ctx context.Context, render func()) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	gitTicker := time.NewTicker(gitBranchInterval)
	defer gitTicker.Stop()

	for {
		// Terminal input gets first refusal on every iteration: if a
		// keystroke is already waiting, take it before even entering the
		// multi-way select below, so an agent event that raced it into
		// readiness never jumps the queue.
		select {
		case ev := <-e.bus.InputEvents():
			e.dispatch(ev)
			e.drainPending()
		default:
			select {
			case <-ctx.Done():
				return
			case ev := <-e.bus.InputEvents():
				e.dispatch(ev)
				e.drainPending()
			case ev := <-e.bus.AgentEvents():
				e.dispatch(ev)
				e.drainPending()
			case <-gitTicker.C:
				e.RefreshGitBranch(ctx)
			case <-ticker.C:
			}
		}

		if e.ShouldQuit {
			return
		}

		if e.Input.DrainPendingSubmit() {
			e.submit()
		}

		e.advanceSpinner()
		e.snapshotTerminals()
		render()
	}
}

// drainPending applies every event already queued on the bus without
// blocking, input lane first and to exhaustion, then the agent lane — so a
// burst of agent chunks collapses into a single render, and can never be
// applied ahead of terminal input still waiting in the same frame (spec.md
// §4.1/§5's input-priority requirement).
func (e *Engine) drainPending() {
	for {
		select {
		case ev := <-e.bus.InputEvents():
			e.dispatch(ev)
			continue
		default:
		}
		break
	}
	for {
		select {
		case ev := <-e.bus.AgentEvents():
			e.dispatch(ev)
		default:
			return
		}
	}
}

func (e *Engine) dispatch(ev eventbus.Event) {
	switch ev.Source {
	case eventbus.SourceAgent, eventbus.SourceInternal:
		if ev.Err != nil {
			e.logger.Error("agent link closed", zap.Error(ev.Err))
			e.Session.Status = session.StatusError
			e.Session.LastError = ev.Err.Error()
			return
		}
		if ev.Agent != nil {
			e.handleAgentEvent(*ev.Agent)
		}
	case eventbus.SourceInput:
		e.handleKey(ev.Key)
	}
}

func (e *Engine) advanceSpinner() {
	switch e.Session.Status {
	case session.StatusThinking, session.StatusRunning:
		e.SpinnerFrame++
	}
}

// snapshotTerminals refreshes every tool call's mirrored terminal output
// from the append-only buffers in e.Terms, invalidating render caches for
// anything that grew since the last frame.
func (e *Engine) snapshotTerminals() {
	for i := range e.Session.Messages {
		msg := &e.Session.Messages[i]
		for j := range msg.Blocks {
			b := &msg.Blocks[j]
			if b.Kind != message.BlockToolCall || b.Tool == nil || b.Tool.TerminalID == "" {
				continue
			}
			snap, ok := e.Terms.Snapshot(b.Tool.TerminalID, b.Tool.TerminalOutputLen)
			if !ok {
				continue
			}
			b.Tool.TerminalOutput = snap.Text
			b.Tool.TerminalOutputLen = snap.Len
			b.Tool.Cache.Invalidate()
		}
	}
}

// SetChatViewport tells the chat scroll target the rendered transcript's
// current total line count and the terminal height available to show it,
// so it can keep following the bottom while AutoScroll is engaged. The
// renderer calls this once per frame, after laying out the transcript at
// the current width, before slicing out the visible window.
func (e *Engine) SetChatViewport(totalLines, height int) {
	e.Chat.Resize(height)
	e.Chat.SetTotalLines(totalLines)
}

// Shutdown dismisses every outstanding permission by rejecting its last
// option, cancels an in-flight turn, and closes the agent link.
func (e *Engine) Shutdown(ctx context.Context) {
	for _, id := range e.Session.Permissions.IDs() {
		if rec := e.Session.LookupToolCall(id); rec != nil && rec.Pending != nil {
			rec.Pending.RejectLastOption()
		}
	}
	switch e.Session.Status {
	case session.StatusThinking, session.StatusRunning:
		if e.link != nil {
			_ = e.link.Send(wire.NewCancelTurn(e.nextRequestID(), e.Session.ID))
		}
	}
	if e.link != nil {
		_ = e.link.Shutdown(ctx)
	}
}

// PublishKey enqueues a terminal key event onto the bus, to be picked up and
// applied by Run on its next drain. This is how an external event-reading
// loop (bubbletea, or a raw terminal reader) hands input to the engine
// without ever mutating Session directly itself.
func (e *Engine) PublishKey(key string) {
	e.bus.Publish(eventbus.Event{Source: eventbus.SourceInput, Key: key})
}

// classifyAndRecordError applies errclass to an error-bearing message so the
// session's LastError reads as a short, user-facing summary rather than a
// raw stack trace or wire payload.
func (e *Engine) classifyAndRecordError(raw string) {
	e.Session.LastError = errclass.Summarize(raw)
	e.Session.Status = session.StatusError
}
