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

// Package wire defines the line-delimited JSON envelopes exchanged with the
// agent subprocess: outbound commands and inbound events, plus the payload
// types carried by session_update notifications.
package wire

// ToolCallKind enumerates the kind of action a tool call performs.
type ToolCallKind string

const (
	ToolKindRead       ToolCallKind = "read"
	ToolKindEdit       ToolCallKind = "edit"
	ToolKindDelete     ToolCallKind = "delete"
	ToolKindMove       ToolCallKind = "move"
	ToolKindExecute    ToolCallKind = "execute"
	ToolKindSearch     ToolCallKind = "search"
	ToolKindFetch      ToolCallKind = "fetch"
	ToolKindThink      ToolCallKind = "think"
	ToolKindSwitchMode ToolCallKind = "switch_mode"
	ToolKindOther      ToolCallKind = "other"
)

// ToolCallStatus enumerates the wire-level status of a tool call.
type ToolCallStatus string

const (
	ToolStatusPending    ToolCallStatus = "pending"
	ToolStatusInProgress ToolCallStatus = "in_progress"
	ToolStatusCompleted  ToolCallStatus = "completed"
	ToolStatusFailed     ToolCallStatus = "failed"
)

// ToolLocation identifies a filesystem location a tool call touches.
type ToolLocation struct {
	Path string `json:"path"`
	Line *int   `json:"line,omitempty"`
}

// ToolCallContent is one atom of a tool call's content list: exactly one of
// Text, Diff, or Terminal is populated, mirroring the agent's tagged union.
type ToolCallContent struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Path     string `json:"path,omitempty"`
	OldText  string `json:"old_text,omitempty"`
	NewText  string `json:"new_text,omitempty"`
	Terminal string `json:"terminal_id,omitempty"`
}

// ToolCall is the payload of a session_update "tool_call" variant: the
// initial create of a tool-call record.
type ToolCall struct {
	ID             string            `json:"tool_call_id"`
	Title          string            `json:"title"`
	Kind           ToolCallKind      `json:"kind,omitempty"`
	Status         ToolCallStatus    `json:"status,omitempty"`
	Content        []ToolCallContent `json:"content,omitempty"`
	Locations      []ToolLocation    `json:"locations,omitempty"`
	ClaudeToolName string            `json:"claude_tool_name,omitempty"`
	RawInput       map[string]any    `json:"raw_input,omitempty"`
}

// ToolCallUpdateFields carries the optional fields of a tool_call_update;
// nil pointers/slices mean "unchanged".
type ToolCallUpdateFields struct {
	Title          *string           `json:"title,omitempty"`
	Kind           *ToolCallKind     `json:"kind,omitempty"`
	Status         *ToolCallStatus   `json:"status,omitempty"`
	Content        []ToolCallContent `json:"content,omitempty"`
	Locations      []ToolLocation    `json:"locations,omitempty"`
	ClaudeToolName *string           `json:"claude_tool_name,omitempty"`
	RawInput       map[string]any    `json:"raw_input,omitempty"`
}

// ToolCallUpdate is the payload of a "tool_call_update" variant.
type ToolCallUpdate struct {
	ID     string               `json:"tool_call_id"`
	Fields ToolCallUpdateFields `json:"fields"`
}

// PlanEntryStatus mirrors the agent's plan-entry status strings.
type PlanEntryStatus string

// PlanEntry is one item of a "plan" session_update.
type PlanEntry struct {
	Content    string          `json:"content"`
	ActiveForm string          `json:"active_form,omitempty"`
	Status     PlanEntryStatus `json:"status"`
}

// ModeInfo names one operating mode the agent advertises.
type ModeInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ModeState is the agent's current mode plus the advertised mode list.
type ModeState struct {
	CurrentModeID   string     `json:"current_mode_id"`
	CurrentModeName string     `json:"current_mode_name,omitempty"`
	AvailableModes  []ModeInfo `json:"available_modes"`
}

// AvailableCommand is one agent-advertised slash command.
type AvailableCommand struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UsageUpdate reports token/cost usage for the current turn.
type UsageUpdate struct {
	PromptTokens     *int     `json:"prompt_tokens,omitempty"`
	CompletionTokens *int     `json:"completion_tokens,omitempty"`
	TotalTokens      *int     `json:"total_tokens,omitempty"`
	CostUSD          *float64 `json:"cost_usd,omitempty"`
}

// SessionStatus is the payload of a "session_status_update" variant.
type SessionStatus struct {
	Status string `json:"status"`
}

// ContentBlock is a single content atom in a streaming chunk: exactly one of
// Text or a richer variant (image/resource) is populated; only Text is
// consumed by the core engine, other kinds are decoded but ignored.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// SessionUpdate is the tagged union carried by the "session_update" event,
// discriminated by Type. Exactly the fields relevant to Type are populated;
// unknown Type values are preserved for logging but otherwise ignored.
type SessionUpdate struct {
	Type string `json:"type"`

	// agent_message_chunk / user_message_chunk / agent_thought_chunk
	Content *ContentBlock `json:"content,omitempty"`

	// tool_call
	ToolCall *ToolCall `json:"tool_call,omitempty"`

	// tool_call_update
	ToolCallUpdate *ToolCallUpdate `json:"tool_call_update,omitempty"`

	// plan
	Entries []PlanEntry `json:"entries,omitempty"`

	// available_commands_update
	AvailableCommands []AvailableCommand `json:"available_commands,omitempty"`

	// current_mode_update
	CurrentModeID string `json:"current_mode_id,omitempty"`

	// config_option_update
	ConfigOption map[string]any `json:"config_option,omitempty"`

	// usage_update
	Usage *UsageUpdate `json:"usage,omitempty"`

	// session_status_update
	SessionStatus *SessionStatus `json:"session_status,omitempty"`

	// compaction_boundary carries no extra fields.
}

// PermissionOptionKind enumerates the kind of a permission choice.
type PermissionOptionKind string

const (
	PermissionAllowOnce    PermissionOptionKind = "allow_once"
	PermissionAllowAlways  PermissionOptionKind = "allow_always"
	PermissionRejectOnce   PermissionOptionKind = "reject_once"
	PermissionRejectAlways PermissionOptionKind = "reject_always"
	PermissionQuestion     PermissionOptionKind = "question_choice"
)

// PermissionOption is one choice offered by a permission_request.
type PermissionOption struct {
	OptionID string               `json:"option_id"`
	Label    string               `json:"label"`
	Kind     PermissionOptionKind `json:"kind"`
}

// PermissionRequest is the payload of the "permission_request" event.
type PermissionRequest struct {
	ToolCallID  string             `json:"tool_call_id"`
	Description string             `json:"description,omitempty"`
	Options     []PermissionOption `json:"options"`
}

// PermissionOutcome is what the client sends back in PermissionResponse.
type PermissionOutcome struct {
	Outcome  string  `json:"outcome"` // "selected" | "cancelled"
	OptionID *string `json:"option_id,omitempty"`
}

// AuthMethod is one authentication method the agent advertises.
type AuthMethod struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// InitializeResult is the payload of the "initialized" event.
type InitializeResult struct {
	ProtocolVersion string       `json:"protocol_version"`
	AuthMethods     []AuthMethod `json:"auth_methods,omitempty"`
}

// SessionListEntry is one entry of a "sessions_listed" event.
type SessionListEntry struct {
	SessionID string `json:"session_id"`
	Title     string `json:"title,omitempty"`
	UpdatedAt int64  `json:"updated_at,omitempty"`
}

// PromptChunk is one piece of an outbound prompt's content array.
type PromptChunk struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// TurnErrorKind is the agent's own preclassification of a turn_error, when
// it chooses to supply one; the client's errclass package reclassifies from
// the message text regardless, per spec.
type TurnErrorKind string

const (
	TurnErrorPlanLimit    TurnErrorKind = "plan_limit"
	TurnErrorAuthRequired TurnErrorKind = "auth_required"
	TurnErrorInternal     TurnErrorKind = "internal"
	TurnErrorOther        TurnErrorKind = "other"
)
