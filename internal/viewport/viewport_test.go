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
package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStartsAutoScrolledAtBottom(t *testing.T) {
	s := New()
	assert.True(t, s.AutoScroll)
	assert.Equal(t, 0, s.Offset)
}

func TestSetTotalLinesFollowsBottomWhileAutoScrolled(t *testing.T) {
	s := New()
	s.Resize(10)

	s.SetTotalLines(5)
	assert.Equal(t, 0, s.Offset, "content shorter than the viewport has nowhere to scroll")

	s.SetTotalLines(30)
	assert.Equal(t, 20, s.Offset, "pinned to the new bottom as content streams in")
}

func TestScrollByDisengagesAutoScroll(t *testing.T) {
	s := New()
	s.Resize(10)
	s.SetTotalLines(30)

	s.ScrollBy(-5)
	assert.False(t, s.AutoScroll)
	assert.Equal(t, 15, s.Offset)

	s.SetTotalLines(40)
	assert.Equal(t, 15, s.Offset, "disengaged viewport does not follow new content")
}

func TestScrollByClampsToContentBounds(t *testing.T) {
	s := New()
	s.Resize(10)
	s.SetTotalLines(30)
	s.AutoScroll = false

	s.ScrollBy(-1000)
	assert.Equal(t, 0, s.Offset)

	s.ScrollBy(1000)
	assert.Equal(t, 20, s.Offset)
	assert.True(t, s.AutoScroll, "scrolling back to the bottom re-engages auto-scroll")
}

func TestGotoBottomReengagesAutoScroll(t *testing.T) {
	s := New()
	s.Resize(10)
	s.SetTotalLines(30)
	s.ScrollBy(-10)
	assert.False(t, s.AutoScroll)

	s.GotoBottom()
	assert.True(t, s.AutoScroll)
	assert.Equal(t, 20, s.Offset)
}
