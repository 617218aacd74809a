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

// Package focus resolves which UI surface owns directional/navigation keys
// on any given frame: a stack of claims, where the topmost claim still
// valid in the current context wins, and an Input fallback when nothing is
// claimed (or every claim has gone stale).
package focus

// Target is a logical surface that can claim focus.
type Target int

const (
	TodoList Target = iota
	Mention
	Permission
	Help
)

// Owner is the effective owner of key routing for the frame.
type Owner int

const (
	OwnerInput Owner = iota
	OwnerTodoList
	OwnerMention
	OwnerPermission
	OwnerHelp
)

func (t Target) owner() Owner {
	switch t {
	case TodoList:
		return OwnerTodoList
	case Mention:
		return OwnerMention
	case Permission:
		return OwnerPermission
	case Help:
		return OwnerHelp
	default:
		return OwnerInput
	}
}

// Context reports, for the current frame, which targets are legitimately
// claimable: a claim for a target not currently supported is pruned rather
// than honored.
type Context struct {
	TodoFocusAvailable bool
	MentionActive      bool
	PermissionActive   bool
	HelpActive         bool
}

// Supports reports whether target is valid under this context.
func (c Context) Supports(target Target) bool {
	switch target {
	case TodoList:
		return c.TodoFocusAvailable
	case Mention:
		return c.MentionActive
	case Permission:
		return c.PermissionActive
	case Help:
		return c.HelpActive
	default:
		return false
	}
}

// Manager is a stack of focus claims. Latest valid claim wins; Normalize
// prunes stale claims on every key dispatch.
type Manager struct {
	stack []Target
}

// Owner walks the stack from the top down and returns the first target the
// context still supports, or OwnerInput if none do.
func (m *Manager) Owner(ctx Context) Owner {
	for i := len(m.stack) - 1; i >= 0; i-- {
		if ctx.Supports(m.stack[i]) {
			return m.stack[i].owner()
		}
	}
	return OwnerInput
}

// Claim pushes target to the top of the stack (removing any earlier claim
// for the same target first, so re-claiming moves it to the top rather than
// duplicating it), then normalizes against ctx.
func (m *Manager) Claim(target Target, ctx Context) {
	m.removeAll(target)
	m.stack = append(m.stack, target)
	m.Normalize(ctx)
}

// Release removes the most recent claim for target, if any, then
// normalizes against ctx.
func (m *Manager) Release(target Target, ctx Context) {
	for i := len(m.stack) - 1; i >= 0; i-- {
		if m.stack[i] == target {
			m.stack = append(m.stack[:i], m.stack[i+1:]...)
			break
		}
	}
	m.Normalize(ctx)
}

// Normalize drops every claim no longer valid under ctx.
func (m *Manager) Normalize(ctx Context) {
	kept := m.stack[:0]
	for _, t := range m.stack {
		if ctx.Supports(t) {
			kept = append(kept, t)
		}
	}
	m.stack = kept
}

func (m *Manager) removeAll(target Target) {
	kept := m.stack[:0]
	for _, t := range m.stack {
		if t != target {
			kept = append(kept, t)
		}
	}
	m.stack = kept
}
