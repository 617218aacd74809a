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
	"runtime"
	"time"
)

// burstInterval is the maximum gap between consecutive key events to still
// count as the same paste burst. Humans type at roughly 200ms between
// keystrokes; terminals that don't support bracketed paste (Windows
// Terminal in particular, which adds ~10-15ms of latency per pasted
// character) need a looser threshold than other platforms.
func burstInterval() time.Duration {
	if runtime.GOOS == "windows" {
		return 30 * time.Millisecond
	}
	return 8 * time.Millisecond
}

// minBurstLen is the minimum number of key events in a burst to classify it
// as a paste rather than fast typing or key repeat.
const minBurstLen = 4

// PasteBurstDetector tracks rapid key events to distinguish a pasted block
// of text (arriving as a flood of synthetic key events with no
// bracketed-paste framing) from ordinary typing.
type PasteBurstDetector struct {
	lastKeyTime      time.Time
	hasLastKey       bool
	burstLen         int
	linesBeforeBurst int
}

// NewPasteBurstDetector returns a detector in its initial state.
func NewPasteBurstDetector() *PasteBurstDetector {
	return &PasteBurstDetector{linesBeforeBurst: 1}
}

// OnKeyEvent must be called on every key event, passing the input's current
// line count. Returns whether a paste burst is currently in progress.
func (d *PasteBurstDetector) OnKeyEvent(currentLineCount int) bool {
	now := time.Now()
	if d.hasLastKey && now.Sub(d.lastKeyTime) <= burstInterval() {
		d.burstLen++
	} else {
		d.burstLen = 1
		d.linesBeforeBurst = currentLineCount
	}
	d.lastKeyTime = now
	d.hasLastKey = true
	return d.IsPaste()
}

// IsPaste reports whether the current burst qualifies as a paste.
func (d *PasteBurstDetector) IsPaste() bool {
	return d.burstLen >= minBurstLen
}

// IsActive reports whether key events are still arriving inside the burst
// interval — the current burst, if any, is still live.
func (d *PasteBurstDetector) IsActive() bool {
	return d.hasLastKey && time.Since(d.lastKeyTime) <= burstInterval()
}

// IsSettled reports whether a detected paste burst has gone idle long
// enough to be treated as complete.
func (d *PasteBurstDetector) IsSettled() bool {
	return d.IsPaste() && !d.IsActive()
}

// LinesAdded reports how many lines have been added since the burst began.
func (d *PasteBurstDetector) LinesAdded(currentLineCount int) int {
	n := currentLineCount - d.linesBeforeBurst
	if n < 0 {
		return 0
	}
	return n
}

// Reset clears burst state. Call after processing a completed burst, or
// after a drain cycle ends without one forming.
func (d *PasteBurstDetector) Reset() {
	d.hasLastKey = false
	d.burstLen = 0
}
