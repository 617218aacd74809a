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

// Package viewport tracks a scrollable region's offset and auto-scroll
// engagement. It holds no rendered content itself — the caller still owns
// laying out lines at the current width — it only owns where in that
// content the visible window currently sits.
package viewport

// WheelLines is how many lines one mouse-wheel tick scrolls, independent of
// the single-line-per-press keyboard scroll keys.
const WheelLines = 3

// State is one scrollable region: Offset is the index of the line currently
// at the top of the visible window, clamped to [0, maxOffset]. AutoScroll
// reports whether the viewport is currently pinned to the bottom.
type State struct {
	Offset     int
	AutoScroll bool

	height int
	total  int
}

// New returns a State pinned to the bottom, as a freshly opened chat starts
// with nothing to scroll back through.
func New() *State {
	return &State{AutoScroll: true}
}

// Resize records the viewport's visible height.
func (s *State) Resize(height int) {
	s.height = height
	s.clamp()
}

// SetTotalLines records the current total line count of the laid-out
// content. While AutoScroll is engaged, the offset follows the new bottom,
// so streaming text keeps scrolling into view as it arrives; once
// disengaged, new content accumulates below the visible window without
// moving it.
func (s *State) SetTotalLines(total int) {
	s.total = total
	if s.AutoScroll {
		s.Offset = s.maxOffset()
		return
	}
	s.clamp()
}

func (s *State) maxOffset() int {
	max := s.total - s.height
	if max < 0 {
		return 0
	}
	return max
}

func (s *State) clamp() {
	if s.Offset < 0 {
		s.Offset = 0
	}
	if max := s.maxOffset(); s.Offset > max {
		s.Offset = max
	}
}

// ScrollBy moves the offset by delta lines: negative scrolls up toward
// older content, positive scrolls down toward newer. Scrolling away from
// the bottom disengages AutoScroll; landing back on the bottom re-engages
// it, so paging down to catch up resumes following new output without a
// separate "resume follow" action.
func (s *State) ScrollBy(delta int) {
	s.Offset += delta
	s.clamp()
	s.AutoScroll = s.Offset >= s.maxOffset()
}

// GotoBottom jumps straight to the bottom and re-engages AutoScroll.
func (s *State) GotoBottom() {
	s.AutoScroll = true
	s.Offset = s.maxOffset()
}
