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

package autocomplete

import (
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sahilm/fuzzy"

	"github.com/wireterm/wireterm/internal/fsext"
)

// FileCache is a lazily populated listing of the working tree's paths
// (files and directories, joined onto root), invalidated by an fsnotify
// watcher rather than re-walked on every keystroke. Entries whose names
// match defaultExcludes are skipped; .gitignore files are not read.
type FileCache struct {
	root string

	mu      sync.Mutex
	paths   []string
	loaded  bool
	watcher *fsnotify.Watcher
}

// NewFileCache returns a cache rooted at root. Population is deferred until
// the first Paths() call.
func NewFileCache(root string) *FileCache {
	return &FileCache{root: root}
}

// Paths returns the cached file list, populating it on first use.
func (c *FileCache) Paths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		c.reload()
	}
	out := make([]string, len(c.paths))
	copy(out, c.paths)
	return out
}

func (c *FileCache) reload() {
	files, _, err := fsext.ListDirectory(c.root, defaultExcludes, 8, 20000)
	if err == nil {
		c.paths = files
	}
	c.loaded = true
}

var defaultExcludes = []string{".git", "node_modules", "target", "dist", "build"}

// Watch starts an fsnotify watcher on root that invalidates the cache on
// any filesystem event there, so a file created or removed directly in root
// mid-session is picked up on the next Paths() call instead of requiring a
// restart. Subdirectories are not watched: changes below root do not
// invalidate the cache. The returned
// error is non-nil only if the watcher itself failed to start; a caller
// that doesn't care about live invalidation may ignore it and keep using
// the cache as a one-shot snapshot.
func (c *FileCache) Watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(c.root); err != nil {
		w.Close()
		return err
	}
	c.mu.Lock()
	c.watcher = w
	c.mu.Unlock()

	go func() {
		for range w.Events {
			c.mu.Lock()
			c.loaded = false
			c.mu.Unlock()
		}
	}()
	return nil
}

// Close stops the watcher, if running.
func (c *FileCache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.watcher != nil {
		c.watcher.Close()
		c.watcher = nil
	}
}

// MentionState is the "@path" autocomplete popup's state.
type MentionState struct {
	Trigger    Trigger
	Candidates []string
	Dialog     DialogState
}

// Active reports whether a mention popup is open (Row >= 0 marks "open").
func (m *MentionState) Active() bool { return m.Trigger.Row >= 0 }

// Open begins a new mention trigger at (row, col) with an empty query.
func (m *MentionState) Open(row, col int) {
	m.Trigger = Trigger{Row: row, Col: col, Query: ""}
	m.Dialog.Reset()
	m.Candidates = nil
}

// Close dismisses the popup.
func (m *MentionState) Close() {
	m.Trigger = Trigger{Row: -1, Col: -1}
	m.Candidates = nil
	m.Dialog.Reset()
}

// UpdateQuery sets the query text typed since '@' and refilters cache
// against it: case-insensitive substring matches first (most intuitive for
// short queries), then a fuzzy subsequence ranking for anything that
// remains, capped at MaxCandidates.
func (m *MentionState) UpdateQuery(query string, cache []string) {
	m.Trigger.Query = query
	m.Candidates = FilterPaths(query, cache)
	m.Dialog.Reset()
	m.Dialog.Clamp(len(m.Candidates))
}

// FilterPaths ranks cache entries against query: exact case-insensitive
// substring matches sort first in cache order, then the remainder is
// ranked by fuzzy subsequence match. An empty query returns the cache
// truncated to MaxCandidates.
func FilterPaths(query string, cache []string) []string {
	if query == "" {
		if len(cache) > MaxCandidates {
			return cache[:MaxCandidates]
		}
		return cache
	}

	lowerQuery := strings.ToLower(query)
	var substrMatches, rest []string
	for _, p := range cache {
		if strings.Contains(strings.ToLower(p), lowerQuery) {
			substrMatches = append(substrMatches, p)
		} else {
			rest = append(rest, p)
		}
	}

	out := substrMatches
	if len(out) < MaxCandidates {
		matches := fuzzy.Find(query, rest)
		for _, m := range matches {
			out = append(out, m.Str)
			if len(out) >= MaxCandidates {
				break
			}
		}
	}
	if len(out) > MaxCandidates {
		out = out[:MaxCandidates]
	}
	return out
}

// ConfirmMention returns the replacement text for the input buffer: the
// trigger's '@' through the current cursor is replaced verbatim with
// "@" + path, leaving no trailing query fragment behind.
func ConfirmMention(path string) string {
	return "@" + path
}
