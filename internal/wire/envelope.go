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
package wire

import (
	"encoding/json"
	"fmt"
)

// Command is the outbound command tag vocabulary, one line per envelope.
type Command string

const (
	CmdInitialize         Command = "initialize"
	CmdCreateSession      Command = "create_session"
	CmdLoadSession        Command = "load_session"
	CmdPrompt             Command = "prompt"
	CmdCancelTurn         Command = "cancel_turn"
	CmdSetModel           Command = "set_model"
	CmdSetMode            Command = "set_mode"
	CmdNewSession         Command = "new_session"
	CmdPermissionResponse Command = "permission_response"
	CmdShutdown           Command = "shutdown"
)

// Event is the inbound event tag vocabulary.
type Event string

const (
	EvConnected        Event = "connected"
	EvAuthRequired     Event = "auth_required"
	EvConnectionFailed Event = "connection_failed"
	EvSessionUpdate    Event = "session_update"
	EvPermissionReq    Event = "permission_request"
	EvTurnComplete     Event = "turn_complete"
	EvTurnError        Event = "turn_error"
	EvSlashError       Event = "slash_error"
	EvSessionReplaced  Event = "session_replaced"
	EvInitialized      Event = "initialized"
	EvSessionsListed   Event = "sessions_listed"
	EvUpdateAvailable  Event = "update_available"
)

// CommandEnvelope is one outbound line: {"request_id"?, "command": tag, ...fields}.
// Fields are flattened onto the envelope rather than nested, matching the
// agent's wire shape; the fields struct for a given Command is documented on
// each New* constructor below.
type CommandEnvelope struct {
	RequestID string         `json:"request_id,omitempty"`
	Command   Command        `json:"command"`
	Fields    map[string]any `json:"-"`
}

// MarshalJSON flattens Fields alongside request_id/command, skipping any
// field whose value is nil, so an optional field that was left out or set
// to nil is serialized absent, never null. Non-nil zero values are kept.
func (e CommandEnvelope) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Fields)+2)
	for k, v := range e.Fields {
		if v == nil {
			continue
		}
		out[k] = v
	}
	out["command"] = string(e.Command)
	if e.RequestID != "" {
		out["request_id"] = e.RequestID
	}
	return json.Marshal(out)
}

// UnmarshalJSON splits the flattened object back into Command/RequestID/Fields.
func (e *CommandEnvelope) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	cmd, _ := raw["command"].(string)
	e.Command = Command(cmd)
	if rid, ok := raw["request_id"].(string); ok {
		e.RequestID = rid
	}
	delete(raw, "command")
	delete(raw, "request_id")
	e.Fields = raw
	return nil
}

// NewInitialize builds an "initialize" {cwd, metadata?} command.
func NewInitialize(requestID, cwd string, metadata map[string]any) CommandEnvelope {
	f := map[string]any{"cwd": cwd}
	if len(metadata) > 0 {
		f["metadata"] = metadata
	}
	return CommandEnvelope{RequestID: requestID, Command: CmdInitialize, Fields: f}
}

// NewCreateSession builds a "create_session" {cwd, yolo, model?, resume?, metadata?} command.
func NewCreateSession(requestID, cwd string, yolo bool, model, resume string, metadata map[string]any) CommandEnvelope {
	f := map[string]any{"cwd": cwd, "yolo": yolo}
	if model != "" {
		f["model"] = model
	}
	if resume != "" {
		f["resume"] = resume
	}
	if len(metadata) > 0 {
		f["metadata"] = metadata
	}
	return CommandEnvelope{RequestID: requestID, Command: CmdCreateSession, Fields: f}
}

// NewLoadSession builds a "load_session" {session_id, metadata?} command.
func NewLoadSession(requestID, sessionID string, metadata map[string]any) CommandEnvelope {
	f := map[string]any{"session_id": sessionID}
	if len(metadata) > 0 {
		f["metadata"] = metadata
	}
	return CommandEnvelope{RequestID: requestID, Command: CmdLoadSession, Fields: f}
}

// NewPrompt builds a "prompt" {session_id, chunks} command.
func NewPrompt(requestID, sessionID string, chunks []PromptChunk) CommandEnvelope {
	return CommandEnvelope{RequestID: requestID, Command: CmdPrompt, Fields: map[string]any{
		"session_id": sessionID,
		"chunks":     chunks,
	}}
}

// NewCancelTurn builds a "cancel_turn" {session_id} command.
func NewCancelTurn(requestID, sessionID string) CommandEnvelope {
	return CommandEnvelope{RequestID: requestID, Command: CmdCancelTurn, Fields: map[string]any{"session_id": sessionID}}
}

// NewSetModel builds a "set_model" {session_id, model} command.
func NewSetModel(requestID, sessionID, model string) CommandEnvelope {
	return CommandEnvelope{RequestID: requestID, Command: CmdSetModel, Fields: map[string]any{"session_id": sessionID, "model": model}}
}

// NewSetMode builds a "set_mode" {session_id, mode} command.
func NewSetMode(requestID, sessionID, mode string) CommandEnvelope {
	return CommandEnvelope{RequestID: requestID, Command: CmdSetMode, Fields: map[string]any{"session_id": sessionID, "mode": mode}}
}

// NewNewSession builds a "new_session" {cwd, yolo, model?} command.
func NewNewSession(requestID, cwd string, yolo bool, model string) CommandEnvelope {
	f := map[string]any{"cwd": cwd, "yolo": yolo}
	if model != "" {
		f["model"] = model
	}
	return CommandEnvelope{RequestID: requestID, Command: CmdNewSession, Fields: f}
}

// NewPermissionResponse builds a "permission_response" {session_id, tool_call_id, outcome} command.
func NewPermissionResponse(requestID, sessionID, toolCallID string, outcome PermissionOutcome) CommandEnvelope {
	return CommandEnvelope{RequestID: requestID, Command: CmdPermissionResponse, Fields: map[string]any{
		"session_id":   sessionID,
		"tool_call_id": toolCallID,
		"outcome":      outcome,
	}}
}

// NewShutdown builds a "shutdown" command.
func NewShutdown(requestID string) CommandEnvelope {
	return CommandEnvelope{RequestID: requestID, Command: CmdShutdown}
}

// EventEnvelope is one inbound line: {"request_id"?, "event": tag, ...fields}.
type EventEnvelope struct {
	RequestID string `json:"request_id,omitempty"`
	Event     Event  `json:"event"`

	SessionID        string             `json:"session_id,omitempty"`
	Cwd              string             `json:"cwd,omitempty"`
	ModelName        string             `json:"model_name,omitempty"`
	Mode             *ModeState         `json:"mode,omitempty"`
	HistoryUpdates   []SessionUpdate    `json:"history_updates,omitempty"`
	MethodName       string             `json:"method_name,omitempty"`
	MethodDesc       string             `json:"method_description,omitempty"`
	Message          string             `json:"message,omitempty"`
	Update           *SessionUpdate     `json:"update,omitempty"`
	Request          *PermissionRequest `json:"request,omitempty"`
	Kind             TurnErrorKind      `json:"kind,omitempty"`
	Result           *InitializeResult  `json:"result,omitempty"`
	Sessions         []SessionListEntry `json:"sessions,omitempty"`
	NextCursor       string             `json:"next_cursor,omitempty"`
	LatestVersion    string             `json:"latest_version,omitempty"`
}

// Parse decodes one line of agent stdout into an EventEnvelope. Unknown
// envelope fields are ignored by the underlying json.Unmarshal (extra keys
// in the object that don't map to a struct field are silently dropped).
func Parse(line []byte) (EventEnvelope, error) {
	var ev EventEnvelope
	if err := json.Unmarshal(line, &ev); err != nil {
		return EventEnvelope{}, fmt.Errorf("wire: parse event line: %w", err)
	}
	return ev, nil
}

// Encode serializes a command envelope to a single JSON line (no trailing
// newline; callers append it before writing to the subprocess's stdin).
func Encode(cmd CommandEnvelope) ([]byte, error) {
	return json.Marshal(cmd)
}
