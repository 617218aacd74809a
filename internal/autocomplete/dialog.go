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

// Package autocomplete implements the composer's two trigger-driven
// popups: "@path" mention completion and "/command" slash-command
// completion. Both share the same trigger/query/candidate/dialog shape;
// only how candidates are sourced and how a selection is applied differ.
package autocomplete

// MaxVisible is the number of candidate rows the dialog renders at once.
const MaxVisible = 8

// MaxCandidates caps how many matches are kept after filtering, so a very
// broad query over a large tree doesn't make every frame re-sort thousands
// of entries.
const MaxCandidates = 50

// DialogState is the shared selection/scroll state of either popup.
type DialogState struct {
	Selected     int
	ScrollOffset int
}

// Clamp keeps Selected and ScrollOffset valid for a candidate list of length
// n, scrolling the visible window to keep Selected on screen.
func (d *DialogState) Clamp(n int) {
	if n == 0 {
		d.Selected = 0
		d.ScrollOffset = 0
		return
	}
	if d.Selected < 0 {
		d.Selected = 0
	}
	if d.Selected > n-1 {
		d.Selected = n - 1
	}
	if d.Selected < d.ScrollOffset {
		d.ScrollOffset = d.Selected
	}
	if d.Selected >= d.ScrollOffset+MaxVisible {
		d.ScrollOffset = d.Selected - MaxVisible + 1
	}
	maxOffset := n - MaxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if d.ScrollOffset > maxOffset {
		d.ScrollOffset = maxOffset
	}
	if d.ScrollOffset < 0 {
		d.ScrollOffset = 0
	}
}

// MoveDown selects the next candidate, clamped at the tail (no wraparound).
func (d *DialogState) MoveDown(n int) {
	d.Selected++
	d.Clamp(n)
}

// MoveUp selects the previous candidate, clamped at the head.
func (d *DialogState) MoveUp(n int) {
	d.Selected--
	d.Clamp(n)
}

// Reset returns the dialog to its initial selection.
func (d *DialogState) Reset() {
	d.Selected = 0
	d.ScrollOffset = 0
}

// Trigger is the shared position/query state both popups open with: the
// row/column in the input buffer where '@' or '/' was typed, and the text
// typed since then.
type Trigger struct {
	Row   int
	Col   int
	Query string
}
