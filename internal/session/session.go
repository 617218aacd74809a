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

// Package session holds the in-process state of one conversation with the
// agent: its transcript, tool-call index, pending permissions, plan, and
// connection status. It is mutated exclusively by the frame scheduler's
// transition functions (internal/app) and never touched from a goroutine.
package session

import (
	"strings"

	"github.com/wireterm/wireterm/internal/message"
	"github.com/wireterm/wireterm/internal/ordered"
	"github.com/wireterm/wireterm/internal/permission"
	"github.com/wireterm/wireterm/internal/wire"
)

// Status is the session's overall connection/turn state.
type Status string

const (
	StatusConnecting Status = "connecting"
	StatusResuming   Status = "resuming"
	StatusReady      Status = "ready"
	StatusThinking   Status = "thinking"
	StatusRunning    Status = "running"
	StatusError      Status = "error"
)

// ToolCallLocation is where a tool call lives in the transcript: never an
// owning pointer, just coordinates, so the index can be rebuilt or pruned
// without creating reference cycles with message.ChatMessage.
type ToolCallLocation struct {
	MessageIndex int
	BlockIndex   int
}

// Session is the full state of one conversation.
type Session struct {
	ID    string
	Cwd   string
	Model string

	// GitBranch is the cached header line for cwd's current branch, refreshed
	// by an idle-triggered external probe rather than on every frame.
	GitBranch string

	Messages []message.ChatMessage

	// toolCallIndex maps a tool-call id to its (message, block) coordinates
	// so updates by id don't require a linear scan of the transcript.
	toolCallIndex map[string]ToolCallLocation

	// activeTaskIDs holds the ids of in-flight Task (sub-agent) tool calls.
	activeTaskIDs map[string]struct{}

	Permissions     *permission.Queue
	pendingByToolID map[string]*permission.Permission

	Status Status

	Mode wire.ModeState

	Todos       *ordered.Map[string, Todo]
	todosHidden bool

	// ToolsCollapsed is the user's current collapse preference for tool-call
	// blocks: a freshly created record defaults to it, and a record resets to
	// it when it transitions into Completed or Failed.
	ToolsCollapsed bool

	AvailableCommands []wire.AvailableCommand

	Usage wire.UsageUpdate

	FilesAccessed int

	LastError string
}

// New returns an empty session rooted at cwd.
func New(id, cwd string) *Session {
	return &Session{
		ID:              id,
		Cwd:             cwd,
		toolCallIndex:   make(map[string]ToolCallLocation),
		activeTaskIDs:   make(map[string]struct{}),
		Permissions:     &permission.Queue{},
		pendingByToolID: make(map[string]*permission.Permission),
		Status:          StatusConnecting,
		Todos:           ordered.New[string, Todo](),
		ToolsCollapsed:  true,
	}
}

// Todo is one TodoWrite entry.
type Todo struct {
	Content    string
	ActiveForm string
	Status     TodoStatus
}

// TodoStatus is the normalized lifecycle state of a Todo.
type TodoStatus string

const (
	TodoPending    TodoStatus = "pending"
	TodoInProgress TodoStatus = "in_progress"
	TodoCompleted  TodoStatus = "completed"
)

// todoStatusFromWire maps the agent's raw status string onto TodoStatus;
// anything other than "in_progress"/"completed" reads as Pending.
func todoStatusFromWire(raw string) TodoStatus {
	switch raw {
	case "in_progress":
		return TodoInProgress
	case "completed":
		return TodoCompleted
	default:
		return TodoPending
	}
}

// ApplyTodoWrite ingests a TodoWrite tool call's entries. An empty list, or
// a list where every entry is Completed, is treated as "no plan": the todo
// set is cleared and the panel hides — a fully completed plan is equivalent
// to having no plan at all. The session keeps no todo-panel scroll
// position, so there is none to reset.
func (s *Session) ApplyTodoWrite(entries []struct {
	Content    string
	ActiveForm string
	Status     string
}) {
	if len(entries) == 0 {
		s.clearTodos()
		return
	}
	allDone := true
	for _, e := range entries {
		if todoStatusFromWire(e.Status) != TodoCompleted {
			allDone = false
			break
		}
	}
	if allDone {
		s.clearTodos()
		return
	}
	s.Todos = ordered.New[string, Todo]()
	for i, e := range entries {
		key := e.Content
		if key == "" {
			key = itoa(i)
		}
		s.Todos.Set(key, Todo{
			Content:    e.Content,
			ActiveForm: e.ActiveForm,
			Status:     todoStatusFromWire(e.Status),
		})
	}
	s.todosHidden = false
}

func (s *Session) clearTodos() {
	s.Todos = ordered.New[string, Todo]()
	s.todosHidden = true
}

// TodosVisible reports whether the todo panel should render.
func (s *Session) TodosVisible() bool {
	return !s.todosHidden && s.Todos.Len() > 0
}

// ToggleTodosHidden flips the user's manual show/hide preference for the
// todo panel; a non-empty plan can still be hidden this way without being
// cleared, unlike clearTodos which does both.
func (s *Session) ToggleTodosHidden() {
	s.todosHidden = !s.todosHidden
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// AppendAssistantText appends streamed text to the trailing assistant
// message, creating one if the transcript is empty or its last message
// belongs to another role — the same aggregation rule message.AppendText
// applies within a message, lifted to session scope for agent_message_chunk/
// agent_thought_chunk events.
func (s *Session) AppendAssistantText(text string) {
	idx := s.trailingAssistantMessage()
	s.Messages[idx].AppendText(text)
}

// AppendMessage adds a new message to the transcript and returns its index.
func (s *Session) AppendMessage(m message.ChatMessage) int {
	s.Messages = append(s.Messages, m)
	return len(s.Messages) - 1
}

// LookupToolCall resolves a tool-call id to its live record, or nil if the
// transcript has no block for that id.
func (s *Session) LookupToolCall(id string) *message.ToolCallRecord {
	loc, ok := s.toolCallIndex[id]
	if !ok {
		return nil
	}
	if loc.MessageIndex >= len(s.Messages) {
		return nil
	}
	msg := &s.Messages[loc.MessageIndex]
	if loc.BlockIndex >= len(msg.Blocks) {
		return nil
	}
	b := &msg.Blocks[loc.BlockIndex]
	if b.Kind != message.BlockToolCall {
		return nil
	}
	return b.Tool
}

// lookupPermission implements permission.Lookup against pendingByToolID,
// passed to Queue mutators so they can resync each Permission's Focused flag.
func (s *Session) lookupPermission(toolCallID string) *permission.Permission {
	return s.pendingByToolID[toolCallID]
}

// UpsertToolCall applies a "tool_call" session_update: if a record for
// tc.ID already exists, its fields are overwritten in place (a duplicate
// create is treated as an update, never a second block); otherwise a new
// block is appended to the current trailing assistant message, creating
// one if none is open.
func (s *Session) UpsertToolCall(tc wire.ToolCall) {
	if existing := s.LookupToolCall(tc.ID); existing != nil {
		fields := wire.ToolCallUpdateFields{
			Title:          &tc.Title,
			Status:         &tc.Status,
			Content:        tc.Content,
			Locations:      tc.Locations,
			ClaudeToolName: &tc.ClaudeToolName,
			RawInput:       tc.RawInput,
		}
		if tc.Kind != "" {
			fields.Kind = &tc.Kind
		}
		existing.ApplyUpdate(fields, s.Cwd, s.ToolsCollapsed)
		s.trackTask(existing)
		return
	}

	rec := message.NewToolCallRecord(tc, s.Cwd, s.ToolsCollapsed)
	msgIdx := s.trailingAssistantMessage()
	msg := &s.Messages[msgIdx]
	msg.AppendToolCall(rec)
	s.toolCallIndex[tc.ID] = ToolCallLocation{MessageIndex: msgIdx, BlockIndex: len(msg.Blocks) - 1}
	s.trackTask(rec)
}

// UpdateToolCall applies a "tool_call_update" session_update. An update
// referencing an unknown id is logged by the caller and otherwise ignored
// here (no block is synthesized for it).
func (s *Session) UpdateToolCall(u wire.ToolCallUpdate) bool {
	rec := s.LookupToolCall(u.ID)
	if rec == nil {
		return false
	}
	rec.ApplyUpdate(u.Fields, s.Cwd, s.ToolsCollapsed)
	s.trackTask(rec)
	return true
}

func (s *Session) trackTask(rec *message.ToolCallRecord) {
	if !rec.IsTask() {
		return
	}
	switch rec.Status {
	case wire.ToolStatusCompleted, wire.ToolStatusFailed:
		delete(s.activeTaskIDs, rec.ID)
	default:
		s.activeTaskIDs[rec.ID] = struct{}{}
	}
}

// ActiveTaskCount reports how many Task tool calls are currently running.
func (s *Session) ActiveTaskCount() int {
	return len(s.activeTaskIDs)
}

// trailingAssistantMessage returns the index of the open assistant message
// to append tool-call blocks to, creating one if the transcript is empty or
// the last message isn't an assistant message.
func (s *Session) trailingAssistantMessage() int {
	if n := len(s.Messages); n > 0 && s.Messages[n-1].Role == message.Assistant {
		return n - 1
	}
	return s.AppendMessage(message.NewChatMessage(message.Assistant))
}

// EnqueuePermission attaches a new Permission to the tool call it targets
// and enters it into the queue. Returns the reply channel, or false if the
// tool call id is unknown (caller should auto-reject in that case).
func (s *Session) EnqueuePermission(req wire.PermissionRequest) (<-chan permission.Outcome, bool) {
	rec := s.LookupToolCall(req.ToolCallID)
	if rec == nil {
		return nil, false
	}
	if rec.Pending != nil {
		// Duplicate request for a tool call already awaiting a decision:
		// auto-reject the new one, leave the existing one queued.
		dup, ch := permission.New(req.ToolCallID, req.Description, toOptions(req.Options))
		dup.RejectLastOption()
		return ch, true
	}

	opts := toOptions(req.Options)
	p, ch := permission.New(req.ToolCallID, req.Description, opts)
	p.Focused = s.Permissions.Len() == 0
	rec.Pending = p
	s.pendingByToolID[req.ToolCallID] = p
	s.Permissions.Enqueue(req.ToolCallID, s.lookupPermission)
	return ch, true
}

// ResolvePermission detaches a replied-to permission from its tool call and
// the pending index, regardless of where it sat in the queue.
func (s *Session) ResolvePermission(toolCallID string) {
	if rec := s.LookupToolCall(toolCallID); rec != nil {
		rec.Pending = nil
	}
	delete(s.pendingByToolID, toolCallID)
	s.Permissions.Remove(toolCallID, s.lookupPermission)
}

// HandlePermissionKey forwards a key to the permission queue, resolving the
// head's Permission from the pending index once it has actually replied
// (rotation and selection-movement keys leave it pending; 'a' pressed with
// only one option, for instance, does nothing and must stay queued). When a
// permission is actually resolved by this call, resolvedID names it so the
// caller can forward the reply to the agent; otherwise resolvedID is empty.
func (s *Session) HandlePermissionKey(key string) (handled bool, resolvedID string) {
	head := s.Permissions.Head()
	var p *permission.Permission
	if head != "" {
		p = s.lookupPermission(head)
	}
	handled = s.Permissions.HandleKey(key, s.lookupPermission)
	if head != "" && p != nil && p.Replied() {
		s.ResolvePermission(head)
		resolvedID = head
	}
	return handled, resolvedID
}

func toOptions(opts []wire.PermissionOption) []permission.Option {
	out := make([]permission.Option, len(opts))
	for i, o := range opts {
		out[i] = permission.Option{ID: o.OptionID, Label: o.Label, Kind: o.Kind}
	}
	return out
}

// NormalizeCwdTitle mirrors message.NormalizeTitle for callers outside the
// message package that only have a raw title and this session's cwd, e.g.
// when formatting a file path surfaced by the mention autocomplete cache.
func (s *Session) NormalizeCwdTitle(title string) string {
	return message.NormalizeTitle(title, s.Cwd)
}

// RelativePath strips the session's cwd prefix from an absolute path for
// display, falling back to the original path when it isn't rooted there.
func RelativePath(cwd, path string) string {
	if cwd == "" {
		return path
	}
	trimmed := strings.TrimRight(cwd, "/\\")
	for _, sep := range []string{"/", "\\"} {
		prefix := trimmed + sep
		if strings.HasPrefix(path, prefix) {
			return strings.TrimPrefix(path, prefix)
		}
	}
	return path
}
