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

package app

import (
	"go.uber.org/zap"

	"github.com/wireterm/wireterm/internal/focus"
	"github.com/wireterm/wireterm/internal/session"
	"github.com/wireterm/wireterm/internal/wire"
)

// handleAgentEvent applies one inbound agent event to session state. This is
// the engine's one and only agent-facing transition function; nothing else
// mutates Session in response to the bus.
func (e *Engine) handleAgentEvent(ev wire.EventEnvelope) {
	switch ev.Event {
	case wire.EvSessionUpdate:
		if ev.Update != nil {
			e.handleSessionUpdate(*ev.Update)
		}
		for _, u := range ev.HistoryUpdates {
			e.handleSessionUpdate(u)
		}
	case wire.EvPermissionReq:
		if ev.Request != nil {
			e.handlePermissionRequest(*ev.Request)
		}
	case wire.EvTurnComplete:
		e.Session.Status = session.StatusReady
	case wire.EvTurnError:
		e.logger.Error("turn error", zap.String("message", ev.Message), zap.String("kind", string(ev.Kind)))
		e.classifyAndRecordError(ev.Message)
	case wire.EvSlashError:
		e.classifyAndRecordError(ev.Message)
	case wire.EvConnectionFailed:
		e.logger.Error("agent connection failed", zap.String("message", ev.Message))
		e.Session.Status = session.StatusError
		e.Session.LastError = ev.Message
	case wire.EvAuthRequired:
		e.logger.Warn("agent requires authentication")
	case wire.EvSessionReplaced:
		e.logger.Warn("session replaced by another client", zap.String("session_id", ev.SessionID))
	case wire.EvConnected, wire.EvInitialized, wire.EvSessionsListed, wire.EvUpdateAvailable:
		// Logged by agentlink/updatecheck; no session state to mutate here.
	}
}

func (e *Engine) handleSessionUpdate(u wire.SessionUpdate) {
	switch u.Type {
	case "agent_message_chunk", "agent_thought_chunk":
		if u.Content != nil && u.Content.Type == "text" {
			e.Session.AppendAssistantText(u.Content.Text)
		}
	case "user_message_chunk":
		// Our own message, already shown locally; the agent's echo is dropped.
	case "tool_call":
		if u.ToolCall != nil {
			e.Session.UpsertToolCall(*u.ToolCall)
			e.Session.Status = session.StatusRunning
			e.Session.FilesAccessed++
		}
	case "tool_call_update":
		if u.ToolCallUpdate != nil {
			e.trackTerminals(*u.ToolCallUpdate)
			if !e.Session.UpdateToolCall(*u.ToolCallUpdate) {
				e.logger.Warn("tool_call_update for unknown id", zap.String("tool_call_id", u.ToolCallUpdate.ID))
			}
		}
	case "plan":
		e.Session.ApplyTodoWrite(planEntriesToTodos(u.Entries))
	case "available_commands_update":
		e.Session.AvailableCommands = u.AvailableCommands
	case "current_mode_update":
		e.applyModeUpdate(u.CurrentModeID)
	case "config_option_update":
		e.logger.Debug("config option update", zap.Any("option", u.ConfigOption))
	case "usage_update":
		if u.Usage != nil {
			e.Session.Usage = *u.Usage
		}
		e.Session.EstimateUsage()
	case "session_status_update":
		if u.SessionStatus != nil {
			e.applySessionStatus(u.SessionStatus.Status)
		}
	case "compaction_boundary":
		// No extra fields; the transcript itself is unaffected client-side.
	default:
		e.logger.Debug("unhandled session update", zap.String("type", u.Type))
	}
}

func planEntriesToTodos(entries []wire.PlanEntry) []struct {
	Content    string
	ActiveForm string
	Status     string
} {
	out := make([]struct {
		Content    string
		ActiveForm string
		Status     string
	}, len(entries))
	for i, e := range entries {
		out[i].Content = e.Content
		out[i].ActiveForm = e.ActiveForm
		out[i].Status = string(e.Status)
	}
	return out
}

// trackTerminals opens a mirror buffer for any newly attached terminal
// content block and records its id on the tool call, so snapshotTerminals
// can find it on the next frame tick.
func (e *Engine) trackTerminals(u wire.ToolCallUpdate) {
	for _, cb := range u.Content {
		if cb.Type != "terminal" || cb.Terminal == "" {
			continue
		}
		e.Terms.Open(cb.Terminal)
		if rec := e.Session.LookupToolCall(u.ID); rec != nil {
			rec.TerminalID = cb.Terminal
		}
	}
}

func (e *Engine) applyModeUpdate(modeID string) {
	if modeID == "" {
		return
	}
	e.Session.Mode.CurrentModeID = modeID
	for _, mi := range e.Session.Mode.AvailableModes {
		if mi.ID == modeID {
			e.Session.Mode.CurrentModeName = mi.Name
			return
		}
	}
	e.Session.Mode.CurrentModeName = modeID
}

func (e *Engine) applySessionStatus(raw string) {
	switch raw {
	case "ready":
		e.Session.Status = session.StatusReady
	case "thinking":
		e.Session.Status = session.StatusThinking
	case "running":
		e.Session.Status = session.StatusRunning
	case "error":
		e.Session.Status = session.StatusError
	}
}

func (e *Engine) handlePermissionRequest(req wire.PermissionRequest) {
	ch, ok := e.Session.EnqueuePermission(req)
	if !ok {
		e.logger.Warn("permission request for unknown tool call; auto-rejecting",
			zap.String("tool_call_id", req.ToolCallID))
		if len(req.Options) == 0 {
			return
		}
		last := req.Options[len(req.Options)-1]
		outcome := wire.PermissionOutcome{Outcome: "selected", OptionID: &last.OptionID}
		_ = e.link.Send(wire.NewPermissionResponse(e.nextRequestID(), e.Session.ID, req.ToolCallID, outcome))
		return
	}
	if orig, dup := e.pendingReplies[req.ToolCallID]; dup {
		// Duplicate request: EnqueuePermission already auto-rejected it on
		// ch. Forward that reply and keep the original's channel pending.
		e.pendingReplies[req.ToolCallID] = ch
		e.forwardPermissionReply(req.ToolCallID)
		e.pendingReplies[req.ToolCallID] = orig
		return
	}
	e.pendingReplies[req.ToolCallID] = ch
	e.Focus.Claim(focus.Permission, e.focusContext())
}

// forwardPermissionReply drains the resolved permission's reply channel
// (already ready, since Reply fires synchronously before the channel is
// handed back) and forwards the outcome to the agent as a permission_response.
func (e *Engine) forwardPermissionReply(toolCallID string) {
	ch, ok := e.pendingReplies[toolCallID]
	if !ok {
		return
	}
	delete(e.pendingReplies, toolCallID)
	select {
	case outcome := <-ch:
		wireOutcome := wire.PermissionOutcome{Outcome: "cancelled"}
		if outcome.Selected {
			wireOutcome = wire.PermissionOutcome{Outcome: "selected", OptionID: &outcome.OptionID}
		}
		_ = e.link.Send(wire.NewPermissionResponse(e.nextRequestID(), e.Session.ID, toolCallID, wireOutcome))
	default:
		e.logger.Warn("resolved permission had no outcome ready", zap.String("tool_call_id", toolCallID))
	}
	e.Focus.Normalize(e.focusContext())
}
