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
)

func TestFilterPathsPrefersSubstringMatches(t *testing.T) {
	cache := []string{"internal/session/session.go", "internal/message/message.go", "README.md"}
	got := FilterPaths("session", cache)
	assert.Equal(t, []string{"internal/session/session.go"}, got)
}

func TestFilterPathsFallsBackToFuzzyMatch(t *testing.T) {
	cache := []string{"internal/session/session.go", "internal/message/message.go"}
	got := FilterPaths("isess", cache)
	assert.Contains(t, got, "internal/session/session.go")
}

func TestFilterPathsEmptyQueryReturnsWholeCacheTruncated(t *testing.T) {
	cache := make([]string, 0, MaxCandidates+10)
	for i := 0; i < MaxCandidates+10; i++ {
		cache = append(cache, "file.go")
	}
	got := FilterPaths("", cache)
	assert.Len(t, got, MaxCandidates)
}

func TestMentionStateOpenCloseLifecycle(t *testing.T) {
	var m MentionState
	m.Close()
	assert.False(t, m.Active())

	m.Open(2, 5)
	assert.True(t, m.Active())
	assert.Equal(t, Trigger{Row: 2, Col: 5, Query: ""}, m.Trigger)

	m.UpdateQuery("sess", []string{"internal/session/session.go"})
	assert.Equal(t, []string{"internal/session/session.go"}, m.Candidates)

	m.Close()
	assert.False(t, m.Active())
	assert.Nil(t, m.Candidates)
}

func TestConfirmMentionProducesAtPrefixedPath(t *testing.T) {
	assert.Equal(t, "@internal/session/session.go", ConfirmMention("internal/session/session.go"))
}
