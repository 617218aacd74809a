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
package message

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wireterm/wireterm/internal/permission"
	"github.com/wireterm/wireterm/internal/wire"
)

func TestAppendTextAggregatesConsecutiveChunks(t *testing.T) {
	m := NewChatMessage(Assistant)
	m.AppendText("Hello")
	m.AppendText(", world")

	assert.Len(t, m.Blocks, 1)
	assert.Equal(t, "Hello, world", m.Blocks[0].Text)
}

func TestAppendTextStartsNewBlockAfterToolCall(t *testing.T) {
	m := NewChatMessage(Assistant)
	m.AppendText("before")
	m.AppendToolCall(&ToolCallRecord{ID: "tc1"})
	m.AppendText("after")

	assert.Len(t, m.Blocks, 3)
	assert.Equal(t, BlockText, m.Blocks[0].Kind)
	assert.Equal(t, BlockToolCall, m.Blocks[1].Kind)
	assert.Equal(t, BlockText, m.Blocks[2].Kind)
	assert.Equal(t, "after", m.Blocks[2].Text)
}

func TestAppendTextInvalidatesCachedSize(t *testing.T) {
	m := NewChatMessage(Assistant)
	m.StoreHeight(80, 3)

	m.AppendText("x")

	_, ok := m.CachedHeight(80)
	assert.False(t, ok)
}

func TestCachedHeightMissesOnWidthChange(t *testing.T) {
	m := NewChatMessage(Assistant)
	m.StoreHeight(80, 5)

	h, ok := m.CachedHeight(80)
	assert.True(t, ok)
	assert.Equal(t, 5, h)

	_, ok = m.CachedHeight(100)
	assert.False(t, ok)
}

func TestFindToolCallBlock(t *testing.T) {
	m := NewChatMessage(Assistant)
	m.AppendToolCall(&ToolCallRecord{ID: "a"})
	m.AppendToolCall(&ToolCallRecord{ID: "b"})

	assert.Equal(t, 1, m.FindToolCallBlock("b"))
	assert.Equal(t, -1, m.FindToolCallBlock("missing"))
}

func TestBlockCacheInvalidateNeverSettlesOnZero(t *testing.T) {
	c := NewBlockCache()
	c.Store([]string{"a"})
	assert.False(t, c.Stale())

	for i := 0; i < 1<<17; i++ {
		c.Invalidate()
		assert.True(t, c.Stale())
	}
}

func TestNormalizeTitleStripsCwdPrefix(t *testing.T) {
	tests := []struct {
		name  string
		title string
		cwd   string
		want  string
	}{
		{name: "unix separator", title: "/home/user/proj/main.go", cwd: "/home/user/proj", want: "main.go"},
		{name: "windows separator", title: `C:\work\proj\main.go`, cwd: `C:\work\proj`, want: "main.go"},
		{name: "no cwd", title: "/a/b/main.go", cwd: "", want: "/a/b/main.go"},
		{name: "title outside cwd left alone", title: "/other/main.go", cwd: "/home/user/proj", want: "/other/main.go"},
		{name: "trailing separator on cwd tolerated", title: "/proj/sub/file.go", cwd: "/proj/", want: "sub/file.go"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTitle(tt.title, tt.cwd))
		})
	}
}

func TestToolCallRecordForceExpanded(t *testing.T) {
	r := &ToolCallRecord{Status: wire.ToolStatusCompleted}
	assert.False(t, r.ForceExpanded())

	r.Status = wire.ToolStatusFailed
	assert.True(t, r.ForceExpanded())

	r.Status = wire.ToolStatusCompleted
	r.Pending = &permission.Permission{}
	assert.True(t, r.ForceExpanded())
}

func TestApplyUpdateLeavesUnsetFieldsUnchanged(t *testing.T) {
	r := NewToolCallRecord(wire.ToolCall{ID: "tc1", Title: "/cwd/file.go", Status: wire.ToolStatusPending}, "/cwd", true)
	newStatus := wire.ToolStatusInProgress

	r.ApplyUpdate(wire.ToolCallUpdateFields{Status: &newStatus}, "/cwd", true)

	assert.Equal(t, wire.ToolStatusInProgress, r.Status)
	assert.Equal(t, "file.go", r.Title)
}

func TestNewToolCallRecordDefaultsToSessionCollapsePreference(t *testing.T) {
	r := NewToolCallRecord(wire.ToolCall{ID: "tc1", Title: "f.go"}, "", true)
	assert.True(t, r.Collapsed)

	r = NewToolCallRecord(wire.ToolCall{ID: "tc2", Title: "f.go"}, "", false)
	assert.False(t, r.Collapsed)
}

func TestApplyUpdateResetsToCollapsePreferenceOnCompletion(t *testing.T) {
	r := NewToolCallRecord(wire.ToolCall{ID: "tc1", Title: "f.go", Status: wire.ToolStatusInProgress}, "", false)
	r.Collapsed = false // force-expanded while running, e.g. a pending permission
	completed := wire.ToolStatusCompleted

	r.ApplyUpdate(wire.ToolCallUpdateFields{Status: &completed}, "", true)

	assert.True(t, r.Collapsed)
}

func TestForceExpandedOnDiffContent(t *testing.T) {
	r := &ToolCallRecord{
		Status:  wire.ToolStatusCompleted,
		Content: []wire.ToolCallContent{{Type: "diff", Path: "f.go", OldText: "a", NewText: "b"}},
	}
	assert.True(t, r.ForceExpanded())
}

func TestIsTask(t *testing.T) {
	r := &ToolCallRecord{ClaudeToolName: "Task"}
	assert.True(t, r.IsTask())

	r.ClaudeToolName = "Read"
	assert.False(t, r.IsTask())
}
