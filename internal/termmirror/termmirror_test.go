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
package termmirror

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotSkipsUnopenedTerminal(t *testing.T) {
	m := New()
	_, ok := m.Snapshot("missing", 0)
	assert.False(t, ok)
}

func TestSnapshotSkipsEmptyTerminal(t *testing.T) {
	m := New()
	m.Open("t1")

	_, ok := m.Snapshot("t1", 0)
	assert.False(t, ok)
}

func TestSnapshotSkipsUnchangedLength(t *testing.T) {
	m := New()
	m.Open("t1")
	m.Append("t1", []byte("hello"))

	snap, ok := m.Snapshot("t1", 5)
	assert.False(t, ok)
	assert.Equal(t, TrackedOutput{}, snap)
}

func TestSnapshotReturnsGrowth(t *testing.T) {
	m := New()
	m.Open("t1")
	m.Append("t1", []byte("hello"))

	snap, ok := m.Snapshot("t1", 0)
	assert.True(t, ok)
	assert.Equal(t, "hello", snap.Text)
	assert.Equal(t, 5, snap.Len)

	m.Append("t1", []byte(" world"))
	snap, ok = m.Snapshot("t1", 5)
	assert.True(t, ok)
	assert.Equal(t, "hello world", snap.Text)
	assert.Equal(t, 11, snap.Len)
}

func TestAppendToUnopenedTerminalIsNoOp(t *testing.T) {
	m := New()
	m.Append("ghost", []byte("data"))

	_, ok := m.Snapshot("ghost", 0)
	assert.False(t, ok)
}

func TestOpenReplacesExistingBuffer(t *testing.T) {
	m := New()
	m.Open("t1")
	m.Append("t1", []byte("first run"))

	m.Open("t1")

	_, ok := m.Snapshot("t1", 0)
	assert.False(t, ok, "reopened terminal should start with an empty buffer")
}

func TestCloseReleasesTerminal(t *testing.T) {
	m := New()
	m.Open("t1")
	m.Append("t1", []byte("data"))

	m.Close("t1")

	_, ok := m.Snapshot("t1", 0)
	assert.False(t, ok)
}
