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

// Package message holds the chat transcript data model: messages built of
// text and tool-call blocks, each with a render cache the viewport uses to
// avoid re-laying-out unchanged content every frame.
package message

import (
	"strings"

	"github.com/wireterm/wireterm/internal/permission"
	"github.com/wireterm/wireterm/internal/wire"
)

// Role identifies who authored a ChatMessage.
type Role string

const (
	User      Role = "user"
	Assistant Role = "assistant"
	System    Role = "system"
)

// BlockKind discriminates the tagged MessageBlock union.
type BlockKind string

const (
	BlockText     BlockKind = "text"
	BlockToolCall BlockKind = "tool_call"
)

// BlockCache holds a block's memoized rendered lines, keyed by an integer
// version: Version != 0 means stale (must re-render), Version == 0 means the
// cached Lines are current. Invalidate bumps the version; Store resets it.
type BlockCache struct {
	Version int
	Lines   []string
}

// NewBlockCache returns a cache that starts stale (nothing rendered yet).
func NewBlockCache() BlockCache {
	return BlockCache{Version: 1}
}

// Stale reports whether the cached Lines no longer reflect the block.
func (c BlockCache) Stale() bool { return c.Version != 0 }

// Invalidate marks the cache stale. Safe to call repeatedly; each call
// bumps the version, skipping 0, so the cache stays stale until the next
// Store. Store does not compare versions: any Store marks it current.
func (c *BlockCache) Invalidate() {
	c.Version++
	if c.Version == 0 {
		c.Version = 1
	}
}

// Store records freshly rendered lines and marks the cache current.
func (c *BlockCache) Store(lines []string) {
	c.Lines = lines
	c.Version = 0
}

// MessageBlock is one atom of a ChatMessage's content: either a run of text
// or a reference to a ToolCallRecord. Exactly one of Text/Tool is populated,
// selected by Kind.
type MessageBlock struct {
	Kind  BlockKind
	Text  string
	Tool  *ToolCallRecord
	Cache BlockCache
}

// NewTextBlock returns a text block.
func NewTextBlock(text string) MessageBlock {
	return MessageBlock{Kind: BlockText, Text: text, Cache: NewBlockCache()}
}

// NewToolCallBlockFrom returns a block wrapping an existing ToolCallRecord.
func NewToolCallBlockFrom(rec *ToolCallRecord) MessageBlock {
	return MessageBlock{Kind: BlockToolCall, Tool: rec, Cache: NewBlockCache()}
}

// ChatMessage is one entry of the transcript.
type ChatMessage struct {
	Role   Role
	Blocks []MessageBlock

	cachedHeight int
	cachedWidth  int
}

// NewChatMessage returns an empty message for role.
func NewChatMessage(role Role) ChatMessage {
	return ChatMessage{Role: role}
}

// AppendText appends text to the message's trailing block if it is already
// a text block, otherwise starts a new text block. This is the
// streaming-chunk aggregation rule: consecutive agent_message_chunk/
// user_message_chunk/agent_thought_chunk events accumulate into one block
// instead of fragmenting into one block per chunk.
func (m *ChatMessage) AppendText(text string) {
	if n := len(m.Blocks); n > 0 && m.Blocks[n-1].Kind == BlockText {
		m.Blocks[n-1].Text += text
		m.Blocks[n-1].Cache.Invalidate()
		m.invalidateSize()
		return
	}
	m.Blocks = append(m.Blocks, NewTextBlock(text))
	m.invalidateSize()
}

// AppendToolCall appends a new tool-call block.
func (m *ChatMessage) AppendToolCall(rec *ToolCallRecord) {
	m.Blocks = append(m.Blocks, NewToolCallBlockFrom(rec))
	m.invalidateSize()
}

// FindToolCallBlock returns the index of the block carrying a ToolCallRecord
// with the given id, or -1 if none.
func (m *ChatMessage) FindToolCallBlock(id string) int {
	for i, b := range m.Blocks {
		if b.Kind == BlockToolCall && b.Tool != nil && b.Tool.ID == id {
			return i
		}
	}
	return -1
}

// CachedHeight returns the memoized visual height for the given width, and
// whether it is still valid. A width mismatch always invalidates.
func (m *ChatMessage) CachedHeight(width int) (int, bool) {
	if m.cachedWidth != width {
		return 0, false
	}
	return m.cachedHeight, true
}

// StoreHeight memoizes the visual height computed for width.
func (m *ChatMessage) StoreHeight(width, height int) {
	m.cachedWidth = width
	m.cachedHeight = height
}

func (m *ChatMessage) invalidateSize() {
	m.cachedWidth = 0
	m.cachedHeight = 0
}

// ToolCallStatus mirrors wire.ToolCallStatus as the record's lifecycle state.
type ToolCallStatus = wire.ToolCallStatus

// ToolCallRecord is the client-side lifecycle state of one tool call: it
// starts Pending, the agent advances it through InProgress to Completed or
// Failed via tool_call_update events, and it may carry at most one inline
// Permission while awaiting a user decision.
type ToolCallRecord struct {
	ID             string
	Title          string
	Kind           wire.ToolCallKind
	Status         ToolCallStatus
	Content        []wire.ToolCallContent
	Locations      []wire.ToolLocation
	ClaudeToolName string
	RawInput       map[string]any

	// Collapsed controls whether the tool call's content is rendered
	// expanded or summarized. Forced-expanded cases (e.g. a failed tool
	// call, or one carrying a pending permission) override this.
	Collapsed bool

	// TerminalID, when non-empty, names a live terminal whose output this
	// tool call mirrors; TerminalOutput/TerminalOutputLen track the last
	// snapshot taken by the terminal mirror (internal/termmirror).
	TerminalID        string
	TerminalOutput    string
	TerminalOutputLen int

	// Pending is set while a permission_request is outstanding for this
	// tool call; cleared once the queue pops it.
	Pending *permission.Permission

	Cache BlockCache
}

// NewToolCallRecord builds a record from a wire.ToolCall "tool_call"
// session_update, normalizing its title against cwd. collapsed is the
// session's collapse preference, which a freshly created record defaults to
// until it is individually toggled.
func NewToolCallRecord(tc wire.ToolCall, cwd string, collapsed bool) *ToolCallRecord {
	status := tc.Status
	if status == "" {
		status = wire.ToolStatusPending
	}
	return &ToolCallRecord{
		ID:             tc.ID,
		Title:          NormalizeTitle(tc.Title, cwd),
		Kind:           tc.Kind,
		Status:         status,
		Content:        tc.Content,
		Locations:      tc.Locations,
		ClaudeToolName: tc.ClaudeToolName,
		RawInput:       tc.RawInput,
		Collapsed:      collapsed,
		Cache:          NewBlockCache(),
	}
}

// IsTask reports whether this record is a Task-subagent invocation, tracked
// separately by the session's active-task-id set.
func (r *ToolCallRecord) IsTask() bool {
	return r.ClaudeToolName == "Task"
}

// ApplyUpdate merges a tool_call_update's populated fields onto the record
// and invalidates its render cache. Fields left nil in the update are left
// unchanged on the record. collapsed is the session's current collapse
// preference: on a transition into Completed or Failed, the record resets to
// it, so a tool call that was force-expanded while running (e.g. it carried
// a pending permission) settles back to the user's preferred display state
// once it's done rather than staying stuck expanded.
func (r *ToolCallRecord) ApplyUpdate(u wire.ToolCallUpdateFields, cwd string, collapsed bool) {
	prevStatus := r.Status
	if u.Title != nil {
		r.Title = NormalizeTitle(*u.Title, cwd)
	}
	if u.Kind != nil {
		r.Kind = *u.Kind
	}
	if u.Status != nil {
		r.Status = *u.Status
	}
	if u.Content != nil {
		r.Content = u.Content
	}
	if u.Locations != nil {
		r.Locations = u.Locations
	}
	if u.ClaudeToolName != nil {
		r.ClaudeToolName = *u.ClaudeToolName
	}
	if u.RawInput != nil {
		r.RawInput = u.RawInput
	}
	if u.Status != nil && prevStatus != r.Status &&
		(r.Status == wire.ToolStatusCompleted || r.Status == wire.ToolStatusFailed) {
		r.Collapsed = collapsed
	}
	r.Cache.Invalidate()
}

// ForceExpanded reports whether the record must render expanded regardless
// of its Collapsed flag: a failed tool call, one with a pending permission
// decision, or one carrying a diff content atom is always shown in full.
func (r *ToolCallRecord) ForceExpanded() bool {
	if r.Status == wire.ToolStatusFailed || r.Pending != nil {
		return true
	}
	for _, c := range r.Content {
		if c.Type == "diff" {
			return true
		}
	}
	return false
}

// NormalizeTitle strips a leading cwd prefix from title (recognizing both
// '/' and '\' path separators) so tool-call titles read as relative paths
// when the tool operated inside the working directory.
func NormalizeTitle(title, cwd string) string {
	if cwd == "" {
		return title
	}
	for _, sep := range []string{"/", "\\"} {
		prefix := strings.TrimRight(cwd, "/\\") + sep
		if strings.HasPrefix(title, prefix) {
			return strings.TrimPrefix(title, prefix)
		}
	}
	return title
}
