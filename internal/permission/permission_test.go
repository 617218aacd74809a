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
package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func options() []Option {
	return []Option{
		{ID: "deny", Label: "Deny"},
		{ID: "allow", Label: "Allow"},
		{ID: "allow_always", Label: "Allow always"},
	}
}

func TestReplyFiresOnlyOnce(t *testing.T) {
	p, ch := New("tc1", "run rm -rf", options())

	p.Reply(Outcome{Selected: true, OptionID: "allow"})
	p.Reply(Outcome{Selected: true, OptionID: "deny"})

	got := <-ch
	assert.Equal(t, "allow", got.OptionID)
	assert.True(t, p.Replied())

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed after the single reply")
}

func TestRejectLastOptionWithNoOptionsRejectsUnselected(t *testing.T) {
	p, ch := New("tc1", "desc", nil)
	p.RejectLastOption()

	got := <-ch
	assert.False(t, got.Selected)
}

func TestRejectLastOptionPicksFinalOption(t *testing.T) {
	p, ch := New("tc1", "desc", options())
	p.RejectLastOption()

	got := <-ch
	assert.True(t, got.Selected)
	assert.Equal(t, "allow_always", got.OptionID)
}

func TestMoveSelectionClampsAtBounds(t *testing.T) {
	p, _ := New("tc1", "desc", options())

	p.MoveSelection(-5)
	assert.Equal(t, 0, p.SelectedIndex)

	p.MoveSelection(5)
	assert.Equal(t, len(options())-1, p.SelectedIndex)
}

func TestQueueEnqueueSyncsFocusOntoHeadOnly(t *testing.T) {
	var q Queue
	perms := map[string]*Permission{
		"a": {},
		"b": {},
	}
	lookup := func(id string) *Permission { return perms[id] }

	q.Enqueue("a", lookup)
	q.Enqueue("b", lookup)

	assert.True(t, perms["a"].Focused)
	assert.False(t, perms["b"].Focused)
	assert.Equal(t, "a", q.Head())
}

func TestQueueRotateDownMovesFocus(t *testing.T) {
	var q Queue
	perms := map[string]*Permission{"a": {}, "b": {}}
	lookup := func(id string) *Permission { return perms[id] }
	q.Enqueue("a", lookup)
	q.Enqueue("b", lookup)

	q.RotateDown(lookup)

	assert.Equal(t, "b", q.Head())
	assert.True(t, perms["b"].Focused)
	assert.False(t, perms["a"].Focused)
}

func TestQueueRotateDownNoOpWithFewerThanTwo(t *testing.T) {
	var q Queue
	perms := map[string]*Permission{"a": {}}
	lookup := func(id string) *Permission { return perms[id] }
	q.Enqueue("a", lookup)

	q.RotateDown(lookup)

	assert.Equal(t, "a", q.Head())
}

func TestQueueRemoveResyncsFocus(t *testing.T) {
	var q Queue
	perms := map[string]*Permission{"a": {}, "b": {}}
	lookup := func(id string) *Permission { return perms[id] }
	q.Enqueue("a", lookup)
	q.Enqueue("b", lookup)

	q.Remove("a", lookup)

	assert.Equal(t, 1, q.Len())
	assert.Equal(t, "b", q.Head())
	assert.True(t, perms["b"].Focused)
}

func TestHandleKeyYAcceptsFirstOptionAndPops(t *testing.T) {
	var q Queue
	p, ch := New("tc1", "desc", options())
	perms := map[string]*Permission{"tc1": p}
	lookup := func(id string) *Permission { return perms[id] }
	q.Enqueue("tc1", lookup)

	handled := q.HandleKey("y", lookup)
	assert.True(t, handled)
	assert.Equal(t, 0, q.Len())

	got := <-ch
	assert.Equal(t, "deny", got.OptionID)
}

func TestHandleKeyOnEmptyQueueReturnsFalse(t *testing.T) {
	var q Queue
	lookup := func(id string) *Permission { return nil }
	assert.False(t, q.HandleKey("y", lookup))
}

func TestHandleKeyEnterUsesSelectedIndex(t *testing.T) {
	var q Queue
	p, ch := New("tc1", "desc", options())
	perms := map[string]*Permission{"tc1": p}
	lookup := func(id string) *Permission { return perms[id] }
	q.Enqueue("tc1", lookup)

	q.HandleKey("right", lookup)
	handled := q.HandleKey("enter", lookup)

	assert.True(t, handled)
	got := <-ch
	assert.Equal(t, "allow", got.OptionID)
}

func TestHandleKeyUnrecognizedReturnsFalse(t *testing.T) {
	var q Queue
	p, _ := New("tc1", "desc", options())
	perms := map[string]*Permission{"tc1": p}
	lookup := func(id string) *Permission { return perms[id] }
	q.Enqueue("tc1", lookup)

	assert.False(t, q.HandleKey("z", lookup))
}
