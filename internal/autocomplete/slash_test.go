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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wireterm/wireterm/internal/wire"
)

func commandSet() []wire.AvailableCommand {
	return []wire.AvailableCommand{
		{Name: "help", Description: "show help"},
		{Name: "compact", Description: "compact history"},
		{Name: "clear", Description: "clear session"},
	}
}

func TestFilterCommandsPrefixBeforeSubstring(t *testing.T) {
	got := FilterCommands("c", commandSet())
	assert.Len(t, got, 2)
	assert.Equal(t, "clear", got[0].Name)
	assert.Equal(t, "compact", got[1].Name)
}

func TestFilterCommandsEmptyQueryReturnsAllAlphabetized(t *testing.T) {
	got := FilterCommands("", commandSet())
	assert.Equal(t, []string{"clear", "compact", "help"}, []string{got[0].Name, got[1].Name, got[2].Name})
}

func TestFilterCommandsNoMatch(t *testing.T) {
	got := FilterCommands("zzz", commandSet())
	assert.Empty(t, got)
}

func TestSlashStateOpenCloseLifecycle(t *testing.T) {
	var s SlashState
	s.Close()
	assert.False(t, s.Active())

	s.Open(1, 0)
	assert.True(t, s.Active())

	s.UpdateQuery("he", commandSet())
	assert.Equal(t, "help", s.Candidates[0].Name)

	s.Close()
	assert.False(t, s.Active())
	assert.Nil(t, s.Candidates)
}

func TestConfirmSlashAppendsTrailingSpace(t *testing.T) {
	assert.Equal(t, "/compact ", ConfirmSlash("compact"))
}
