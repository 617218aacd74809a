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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wireterm/wireterm/internal/session"
	"github.com/wireterm/wireterm/internal/wire"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	sess := session.New("s1", "/tmp/proj")
	return New(Config{}, sess)
}

func TestHandleKeyQuitOnCtrlCOrCtrlQ(t *testing.T) {
	for _, key := range []string{"ctrl+c", "ctrl+q"} {
		e := newTestEngine(t)
		e.handleKey(key)
		assert.True(t, e.ShouldQuit, "key %q should quit", key)
	}
}

func TestHandleKeyCtrlHTogglesHeader(t *testing.T) {
	e := newTestEngine(t)
	assert.False(t, e.HeaderHidden)

	e.handleKey("ctrl+h")
	assert.True(t, e.HeaderHidden)

	e.handleKey("ctrl+h")
	assert.False(t, e.HeaderHidden)
}

func TestHandleKeyCtrlTTogglesTodosIndependentlyOfClear(t *testing.T) {
	e := newTestEngine(t)
	e.Session.Todos.Set("1", session.Todo{Content: "write tests", Status: session.TodoPending})

	assert.True(t, e.Session.TodosVisible())

	e.handleKey("ctrl+t")
	assert.False(t, e.Session.TodosVisible())

	e.handleKey("ctrl+t")
	assert.True(t, e.Session.TodosVisible(), "toggling back on should not have cleared the plan")
}

func TestScrollChatClampsWithinContentBounds(t *testing.T) {
	e := newTestEngine(t)
	e.Chat.AutoScroll = false
	e.Chat.Resize(5)
	e.Chat.SetTotalLines(20)

	e.scrollChat(-100)
	assert.Equal(t, 0, e.Chat.Offset)

	e.scrollChat(3)
	assert.Equal(t, 3, e.Chat.Offset)

	e.scrollChat(100)
	assert.Equal(t, 15, e.Chat.Offset, "clamped at total-height")
}

func TestHandleKeyMouseWheelScrollsThreeLinesKeyboardScrollsOne(t *testing.T) {
	e := newTestEngine(t)
	e.Chat.AutoScroll = false
	e.Chat.Resize(5)
	e.Chat.SetTotalLines(100)
	e.Chat.Offset = 50

	e.handleKey("ctrl+down")
	assert.Equal(t, 51, e.Chat.Offset)

	e.handleKey("scroll_down")
	assert.Equal(t, 54, e.Chat.Offset)

	e.handleKey("ctrl+up")
	assert.Equal(t, 53, e.Chat.Offset)

	e.handleKey("scroll_up")
	assert.Equal(t, 50, e.Chat.Offset)
}

func TestScrollingToBottomReengagesAutoScroll(t *testing.T) {
	e := newTestEngine(t)
	e.Chat.Resize(5)
	e.Chat.SetTotalLines(20) // starts auto-scrolled to the bottom, offset 15

	e.scrollChat(-10)
	assert.False(t, e.Chat.AutoScroll, "scrolling away from the bottom disengages auto-scroll")

	e.scrollChat(10)
	assert.True(t, e.Chat.AutoScroll, "scrolling back to the bottom re-engages it")
}

func TestHandleKeyEnterDefersSubmitUntilBurstSettles(t *testing.T) {
	e := newTestEngine(t)
	e.Input.InsertAtCursor("hello")

	e.handleKey("enter")

	assert.True(t, e.Input.PendingSubmit())
	assert.Empty(t, e.Session.Messages, "a just-pressed Enter must not submit before the burst-settle check runs")

	time.Sleep(15 * time.Millisecond)
	if e.Input.DrainPendingSubmit() {
		e.submit()
	}

	assert.Len(t, e.Session.Messages, 2)
	assert.Equal(t, "hello", e.Session.Messages[0].Blocks[0].Text, "the trailing newline HandleEnter inserted must be stripped before submit")
}

func TestCtrlGOpensAndClosesHelpPanel(t *testing.T) {
	e := newTestEngine(t)
	assert.False(t, e.HelpVisible)

	e.handleKey("ctrl+g")
	assert.True(t, e.HelpVisible)

	e.handleKey("ctrl+g")
	assert.False(t, e.HelpVisible)
}

func TestCycleModeAdvancesAndWraps(t *testing.T) {
	e := newTestEngine(t)
	e.Session.Mode = wire.ModeState{
		CurrentModeID: "default",
		AvailableModes: []wire.ModeInfo{
			{ID: "default", Name: "Default"},
			{ID: "plan", Name: "Plan"},
		},
	}

	e.cycleMode()
	assert.Equal(t, "plan", e.Session.Mode.CurrentModeID)

	e.cycleMode()
	assert.Equal(t, "default", e.Session.Mode.CurrentModeID)
}

func TestCycleModeNoOpWithFewerThanTwoModes(t *testing.T) {
	e := newTestEngine(t)
	e.Session.Mode = wire.ModeState{
		CurrentModeID:  "default",
		AvailableModes: []wire.ModeInfo{{ID: "default", Name: "Default"}},
	}

	e.cycleMode()
	assert.Equal(t, "default", e.Session.Mode.CurrentModeID)
}

func TestCurrentTriggerQuery(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		trigger byte
		want    string
	}{
		{name: "no trigger present", text: "hello", trigger: '@', want: ""},
		{name: "open trigger at end", text: "see @src/ma", trigger: '@', want: "src/ma"},
		{name: "trigger closed by space", text: "see @src/main.go is here", trigger: '@', want: ""},
		{name: "slash command in progress", text: "/mod", trigger: '/', want: "mod"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, currentTriggerQuery(tt.text, tt.trigger))
		})
	}
}

func TestSubmitIgnoresBlankInput(t *testing.T) {
	e := newTestEngine(t)
	e.Input.InsertAtCursor("   ")

	e.submit()

	assert.Empty(t, e.Session.Messages)
}

func TestSubmitAppendsUserAndPlaceholderAssistantMessage(t *testing.T) {
	e := newTestEngine(t)
	e.Input.InsertAtCursor("hello agent")

	e.submit()

	assert.Len(t, e.Session.Messages, 2)
	assert.Equal(t, session.StatusThinking, e.Session.Status)
	assert.Equal(t, "", e.Input.Text())
}
