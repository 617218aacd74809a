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

// Package tui is the thin bubbletea shell around the frame-scheduler
// engine: it forwards terminal key/mouse events onto the engine's bus and
// renders a read-only snapshot of the resulting session state after each
// render signal. It owns no session state of its own — internal/app.Engine
// remains the only thing that mutates Session, running its own Run loop in
// the background exactly as it would outside of bubbletea.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"
	"github.com/muesli/termenv"
	"go.uber.org/zap"

	"github.com/wireterm/wireterm/internal/app"
	"github.com/wireterm/wireterm/internal/message"
)

// renderMsg is sent into the program once per engine frame; it carries no
// data, it only prompts Update to re-read the (already-mutated) session.
type renderMsg struct{}

// Model adapts an *app.Engine to tea.Model.
type Model struct {
	engine *app.Engine
	logger *zap.Logger

	width, height int
	colorProfile  termenv.Profile
}

// New returns a Model driving engine. The caller is responsible for having
// already connected the engine's Session via app.Connect and for starting
// engine.Run in a background goroutine whose render callback calls
// program.Send(renderMsg{}).
func New(engine *app.Engine, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Model{engine: engine, logger: logger, colorProfile: termenv.ColorProfile()}
}

func (m Model) Init() tea.Cmd {
	return tea.EnableMouseCellMotion
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case renderMsg:
		// Nothing to do beyond re-rendering below; Session already mutated.
	case tea.KeyPressMsg:
		key := msg.String()
		if key == "ctrl+y" && !copyLastAssistantMessage(m.engine) {
			// No assistant text yet to copy; fall through to the engine,
			// which treats an un-copyable ctrl+y as an ordinary permission
			// shortcut or no-op depending on focus.
			m.engine.PublishKey(key)
		} else if key != "ctrl+y" {
			m.engine.PublishKey(key)
		}
	case tea.MouseWheelMsg:
		if key := mouseWheelKey(msg); key != "" {
			m.engine.PublishKey(key)
		}
	}

	if m.engine.ShouldQuit {
		return m, tea.Quit
	}
	return m, nil
}

func mouseWheelKey(msg tea.MouseWheelMsg) string {
	switch msg.Button {
	case tea.MouseWheelDown:
		return "scroll_down"
	case tea.MouseWheelUp:
		return "scroll_up"
	default:
		return ""
	}
}

// copyLastAssistantMessage flattens the most recent assistant message's
// text blocks to the system clipboard. Returns false if there is nothing
// to copy, so the caller can decide whether ctrl+y should still reach the
// engine as a permission shortcut.
func copyLastAssistantMessage(e *app.Engine) bool {
	msgs := e.Session.Messages
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role != message.Assistant {
			continue
		}
		var b strings.Builder
		for _, blk := range msgs[i].Blocks {
			if blk.Kind == message.BlockText {
				b.WriteString(blk.Text)
			}
		}
		text := b.String()
		if text == "" {
			return false
		}
		return clipboard.WriteAll(text) == nil
	}
	return false
}

// View renders a minimal read-only snapshot of the session: full layout,
// markdown rendering, and incremental-cache-driven diffing belong to the
// renderer this package only stands in for. It does, however, drive the
// engine's chat viewport for real: the transcript is laid out into lines,
// the engine is told how many there are and how much room is available, and
// only the resulting visible window is written out, so auto-scroll and
// wheel/keyboard scrolling have actual rendered content to act on.
func (m Model) View() string {
	sess := m.engine.Session
	var b strings.Builder

	headerLines := 0
	if !m.engine.HeaderHidden {
		header := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("wireterm — %s", sess.Cwd))
		b.WriteString(header)
		if sess.GitBranch != "" {
			b.WriteString(lipgloss.NewStyle().Faint(true).Render(" (" + sess.GitBranch + ")"))
		}
		b.WriteString("\n")
		b.WriteString(strings.Repeat("─", maxInt(1, m.width)))
		b.WriteString("\n")
		headerLines = 2
	}

	var chatLines []string
	for _, msg := range sess.Messages {
		rendered := strings.TrimSuffix(renderMessage(msg), "\n")
		chatLines = append(chatLines, strings.Split(rendered, "\n")...)
	}

	footerLines := 1 // the "> " composer line
	if sess.LastError != "" {
		footerLines++
	}
	chatHeight := maxInt(1, m.height-headerLines-footerLines)
	m.engine.SetChatViewport(len(chatLines), chatHeight)

	start := m.engine.Chat.Offset
	end := minInt(len(chatLines), start+chatHeight)
	if start > end {
		start = end
	}
	for _, line := range chatLines[start:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if sess.LastError != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("error: " + sess.LastError))
		b.WriteString("\n")
	}

	b.WriteString("\n> ")
	b.WriteString(m.engine.Input.Text())
	return b.String()
}

func renderMessage(msg message.ChatMessage) string {
	var b strings.Builder
	prefix := "assistant"
	if msg.Role == message.User {
		prefix = "you"
	}
	b.WriteString(lipgloss.NewStyle().Faint(true).Render(prefix + ":"))
	b.WriteString(" ")
	for _, blk := range msg.Blocks {
		switch blk.Kind {
		case message.BlockText:
			b.WriteString(blk.Text)
		case message.BlockToolCall:
			if blk.Tool != nil {
				b.WriteString(fmt.Sprintf("[%s: %s]", blk.Tool.Status, blk.Tool.Title))
			}
		}
	}
	b.WriteString("\n")
	return b.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Run starts the engine's frame scheduler in the background and drives a
// bubbletea program on the foreground goroutine until the user quits or ctx
// is cancelled, then runs the engine's own shutdown sequence.
func Run(ctx context.Context, engine *app.Engine, logger *zap.Logger) error {
	p := tea.NewProgram(New(engine, logger), tea.WithAltScreen())

	go engine.Run(ctx, func() { p.Send(renderMsg{}) })
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	_, err := p.Run()
	engine.Shutdown(context.Background())
	return err
}
