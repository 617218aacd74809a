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
	"sort"
	"strings"

	"github.com/wireterm/wireterm/internal/wire"
)

// SlashCandidate is one matched slash command, carrying the description
// alongside the name so the popup can render both columns.
type SlashCandidate struct {
	Name        string
	Description string
}

// SlashState is the "/command" autocomplete popup's state. Unlike mentions,
// its candidate universe is whatever the agent most recently advertised via
// available_commands, not a filesystem walk.
type SlashState struct {
	Trigger    Trigger
	Candidates []SlashCandidate
	Dialog     DialogState
}

// Active reports whether a slash popup is open.
func (s *SlashState) Active() bool { return s.Trigger.Row >= 0 }

// Open begins a new slash trigger at (row, col) with an empty query.
func (s *SlashState) Open(row, col int) {
	s.Trigger = Trigger{Row: row, Col: col, Query: ""}
	s.Dialog.Reset()
	s.Candidates = nil
}

// Close dismisses the popup.
func (s *SlashState) Close() {
	s.Trigger = Trigger{Row: -1, Col: -1}
	s.Candidates = nil
	s.Dialog.Reset()
}

// UpdateQuery sets the query text typed since '/' and refilters the
// available commands against it by name prefix, falling back to a
// substring match anywhere in the name.
func (s *SlashState) UpdateQuery(query string, available []wire.AvailableCommand) {
	s.Trigger.Query = query
	s.Candidates = FilterCommands(query, available)
	s.Dialog.Reset()
	s.Dialog.Clamp(len(s.Candidates))
}

// FilterCommands ranks available commands against query: prefix matches
// first (alphabetical), then substring matches elsewhere in the name
// (alphabetical), each capped at MaxCandidates overall. An empty query
// returns every command, alphabetized.
func FilterCommands(query string, available []wire.AvailableCommand) []SlashCandidate {
	lowerQuery := strings.ToLower(query)

	var prefix, substr []wire.AvailableCommand
	for _, c := range available {
		lowerName := strings.ToLower(c.Name)
		switch {
		case query == "" || strings.HasPrefix(lowerName, lowerQuery):
			prefix = append(prefix, c)
		case strings.Contains(lowerName, lowerQuery):
			substr = append(substr, c)
		}
	}
	sortCommands(prefix)
	sortCommands(substr)

	out := make([]SlashCandidate, 0, len(prefix)+len(substr))
	for _, c := range append(prefix, substr...) {
		out = append(out, SlashCandidate{Name: c.Name, Description: c.Description})
		if len(out) >= MaxCandidates {
			break
		}
	}
	return out
}

func sortCommands(cmds []wire.AvailableCommand) {
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
}

// ConfirmSlash returns the full input-buffer replacement text for selecting
// name: the trigger's '/' through the current cursor becomes "/name "
// (trailing space so the user can start typing arguments immediately).
func ConfirmSlash(name string) string {
	return "/" + name + " "
}
