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

package inputbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsertAndDeleteRoundTrip(t *testing.T) {
	b := New()
	b.InsertAtCursor("hello")
	assert.Equal(t, "hello", b.Text())
	assert.Equal(t, 5, b.Cursor())
	b.DeleteBackward()
	assert.Equal(t, "hell", b.Text())
	assert.Equal(t, 4, b.Cursor())
}

func TestMutationBumpsVersion(t *testing.T) {
	b := New()
	v0 := b.Version()
	b.InsertAtCursor("x")
	assert.Greater(t, b.Version(), v0)
}

func TestMultiByteGraphemeDeletesAsOneUnit(t *testing.T) {
	b := New()
	b.InsertAtCursor("a\U0001F468\U0000200D\U0001F469\U0000200D\U0001F467z") // family emoji ZWJ sequence
	before := b.Text()
	b.MoveCursor(-1) // before trailing 'z'
	b.DeleteBackward()
	assert.NotEqual(t, before, b.Text())
	assert.Contains(t, b.Text(), "a")
	assert.Contains(t, b.Text(), "z")
}

func TestHandleEnterAlwaysInsertsNewlineAndArmsSubmit(t *testing.T) {
	b := New()
	b.InsertAtCursor("hi")
	b.HandleEnter()
	assert.True(t, b.PendingSubmit())
	assert.Equal(t, "hi\n", b.Text())
}

func TestHandleEnterArmsSubmitDuringActiveBurstToo(t *testing.T) {
	b := New()
	for i := 0; i < minBurstLen; i++ {
		b.HandleKeyEvent()
	}
	b.HandleEnter()
	assert.True(t, b.PendingSubmit())
	assert.Contains(t, b.Text(), "\n")
}

func TestDrainPendingSubmitFiresOnceAfterSettle(t *testing.T) {
	b := New()
	for i := 0; i < minBurstLen; i++ {
		b.HandleKeyEvent()
	}
	b.HandleEnter()
	assert.True(t, b.PendingSubmit())
	b.burst.lastKeyTime = b.burst.lastKeyTime.Add(-2 * burstInterval())
	assert.True(t, b.DrainPendingSubmit())
	assert.False(t, b.DrainPendingSubmit())
}

func TestClearResetsState(t *testing.T) {
	b := New()
	b.InsertAtCursor("abc")
	b.Clear()
	assert.Equal(t, "", b.Text())
	assert.Equal(t, 0, b.Cursor())
	assert.False(t, b.PendingSubmit())
}
