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
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/wireterm/wireterm/internal/autocomplete"
	"github.com/wireterm/wireterm/internal/focus"
	"github.com/wireterm/wireterm/internal/message"
	"github.com/wireterm/wireterm/internal/session"
	"github.com/wireterm/wireterm/internal/viewport"
	"github.com/wireterm/wireterm/internal/wire"
)

// handleKey routes one terminal key event to whichever surface currently
// owns it, per e.Focus.Owner. Permission always wins over everything else
// (the user cannot type past an outstanding decision); otherwise the topmost
// still-valid claim (mention/slash popup, help) takes it; any other owner,
// a todo-list owner included, falls back to the input composer.
func (e *Engine) handleKey(key string) {
	if e.Session.Permissions.Len() > 0 {
		e.handlePermissionKey(key)
		return
	}

	switch e.Focus.Owner(e.focusContext()) {
	case focus.OwnerMention:
		e.handlePopupKey(key)
	case focus.OwnerHelp:
		switch key {
		case "esc", "ctrl+g", "enter":
			e.ToggleHelp()
		}
	default:
		e.handleComposerKey(key)
	}
}

func (e *Engine) handlePermissionKey(key string) {
	_, resolvedID := e.Session.HandlePermissionKey(key)
	if resolvedID != "" {
		e.forwardPermissionReply(resolvedID)
	}
}

func (e *Engine) handlePopupKey(key string) {
	if e.Mention.Active() {
		switch key {
		case "up":
			e.Mention.Dialog.MoveUp(len(e.Mention.Candidates))
		case "down":
			e.Mention.Dialog.MoveDown(len(e.Mention.Candidates))
		case "enter", "tab":
			if sel := e.Mention.Dialog.Selected; sel < len(e.Mention.Candidates) {
				for range utf8.RuneCountInString(e.Mention.Trigger.Query) + 1 {
					e.Input.DeleteBackward()
				}
				e.Input.InsertAtCursor(autocomplete.ConfirmMention(e.Mention.Candidates[sel]))
			}
			e.Mention.Close()
			e.Focus.Release(focus.Mention, e.focusContext())
		case "esc":
			e.Mention.Close()
			e.Focus.Release(focus.Mention, e.focusContext())
		default:
			e.handleComposerKey(key)
			e.refreshMentionQuery()
		}
		return
	}
	if e.Slash.Active() {
		switch key {
		case "up":
			e.Slash.Dialog.MoveUp(len(e.Slash.Candidates))
		case "down":
			e.Slash.Dialog.MoveDown(len(e.Slash.Candidates))
		case "enter", "tab":
			if sel := e.Slash.Dialog.Selected; sel < len(e.Slash.Candidates) {
				for range utf8.RuneCountInString(e.Slash.Trigger.Query) + 1 {
					e.Input.DeleteBackward()
				}
				e.Input.InsertAtCursor(autocomplete.ConfirmSlash(e.Slash.Candidates[sel].Name))
			}
			e.Slash.Close()
			e.Focus.Release(focus.Mention, e.focusContext())
		case "esc":
			e.Slash.Close()
			e.Focus.Release(focus.Mention, e.focusContext())
		default:
			e.handleComposerKey(key)
			e.refreshSlashQuery()
		}
	}
}

func (e *Engine) refreshMentionQuery() {
	e.Mention.UpdateQuery(currentTriggerQuery(e.Input.Text(), '@'), e.mentionC.Paths())
}

func (e *Engine) refreshSlashQuery() {
	e.Slash.UpdateQuery(currentTriggerQuery(e.Input.Text(), '/'), e.Session.AvailableCommands)
}

// currentTriggerQuery returns the text typed since the last unclosed
// occurrence of trigger in text, or "" if there is none currently open.
func currentTriggerQuery(text string, trigger byte) string {
	idx := strings.LastIndexByte(text, trigger)
	if idx < 0 {
		return ""
	}
	rest := text[idx+1:]
	if strings.ContainsAny(rest, " \n") {
		return ""
	}
	return rest
}

func (e *Engine) handleComposerKey(key string) {
	switch key {
	case "ctrl+c", "ctrl+q":
		e.ShouldQuit = true
	case "ctrl+t":
		e.Session.ToggleTodosHidden()
	case "ctrl+h":
		e.HeaderHidden = !e.HeaderHidden
	case "esc":
		e.cancelTurn()
	case "enter":
		e.Input.HandleKeyEvent()
		e.Input.HandleEnter()
		// Newline inserted, submit armed; the DrainPendingSubmit check below
		// and the one Run makes every frame fire it once no more burst keys
		// are still landing.
	case "shift+enter":
		e.Input.InsertAtCursor("\n")
	case "left":
		e.Input.MoveCursor(-1)
	case "right":
		e.Input.MoveCursor(1)
	case "ctrl+up":
		e.scrollChat(-1)
	case "ctrl+down":
		e.scrollChat(1)
	case "scroll_up":
		e.scrollChat(-viewport.WheelLines)
	case "scroll_down":
		e.scrollChat(viewport.WheelLines)
	case "backspace":
		e.Input.DeleteBackward()
	case "delete":
		e.Input.DeleteForward()
	case "ctrl+o":
		e.toggleAllToolCalls()
	case "ctrl+l":
		e.ForceRedraw = true
	case "shift+tab":
		e.cycleMode()
	case "ctrl+g":
		e.ToggleHelp()
	default:
		if r, size := utf8.DecodeRuneInString(key); size == len(key) && r != utf8.RuneError {
			e.Input.InsertAtCursor(key)
			e.Input.HandleKeyEvent()
			e.maybeOpenTrigger(r)
		}
	}

	if e.Input.DrainPendingSubmit() {
		e.submit()
	}
}

func (e *Engine) maybeOpenTrigger(r rune) {
	switch r {
	case '@':
		e.Mention.Open(0, e.Input.Cursor())
		e.Focus.Claim(focus.Mention, e.focusContext())
	case '/':
		if e.Input.Text() == "/" {
			e.Slash.Open(0, e.Input.Cursor())
			e.Slash.UpdateQuery("", e.Session.AvailableCommands)
			e.Focus.Claim(focus.Mention, e.focusContext())
		}
	}
}

// scrollChat moves the chat viewport's scroll offset by delta lines; the
// renderer owns how that offset maps onto its laid-out lines, the engine
// only keeps the authoritative scroll target and auto-scroll state.
func (e *Engine) scrollChat(delta int) {
	e.Chat.ScrollBy(delta)
}

func (e *Engine) toggleAllToolCalls() {
	e.Session.ToolsCollapsed = !e.Session.ToolsCollapsed
	for i := range e.Session.Messages {
		msg := &e.Session.Messages[i]
		for j := range msg.Blocks {
			if msg.Blocks[j].Kind == message.BlockToolCall && msg.Blocks[j].Tool != nil {
				msg.Blocks[j].Tool.Collapsed = e.Session.ToolsCollapsed
				msg.Blocks[j].Tool.Cache.Invalidate()
			}
		}
	}
}

func (e *Engine) cycleMode() {
	modes := e.Session.Mode.AvailableModes
	if len(modes) < 2 {
		return
	}
	cur := 0
	for i, m := range modes {
		if m.ID == e.Session.Mode.CurrentModeID {
			cur = i
			break
		}
	}
	next := modes[(cur+1)%len(modes)]
	e.Session.Mode.CurrentModeID = next.ID
	e.Session.Mode.CurrentModeName = next.Name
	if e.link != nil {
		_ = e.link.Send(wire.NewSetMode(e.nextRequestID(), e.Session.ID, next.ID))
	}
}

func (e *Engine) cancelTurn() {
	switch e.Session.Status {
	case session.StatusThinking, session.StatusRunning:
		if e.link != nil {
			_ = e.link.Send(wire.NewCancelTurn(e.nextRequestID(), e.Session.ID))
		}
		e.Session.Status = session.StatusReady
	}
}

// submit sends the composer's text as a prompt and resets the input buffer,
// appending the user's message and a placeholder assistant message so the
// thinking indicator has somewhere to render immediately.
func (e *Engine) submit() {
	// HandleEnter always inserts the newline that arms a submit, whether or
	// not it ends up firing right away; strip that one trailing newline
	// before it goes out as the prompt.
	text := strings.TrimSuffix(e.Input.Text(), "\n")
	if strings.TrimSpace(text) == "" {
		return
	}

	userMsg := message.NewChatMessage(message.User)
	userMsg.AppendText(text)
	e.Session.AppendMessage(userMsg)
	e.Session.AppendMessage(message.NewChatMessage(message.Assistant))

	e.Input.Clear()
	e.Session.Status = session.StatusThinking

	if e.link != nil {
		chunks := []wire.PromptChunk{{Kind: "text", Value: text}}
		_ = e.link.Send(wire.NewPrompt(e.nextRequestID(), e.Session.ID, chunks))
	}
	e.logger.Debug("submitted prompt", zap.Int("len", len(text)))
}
