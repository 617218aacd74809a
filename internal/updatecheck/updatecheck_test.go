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

package updatecheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleVersionAcceptsVPrefix(t *testing.T) {
	v, ok := parseSimpleVersion("v1.2.3")
	require.True(t, ok)
	assert.Equal(t, simpleVersion{1, 2, 3}, v)

	v, ok = parseSimpleVersion("1.2.3")
	require.True(t, ok)
	assert.Equal(t, simpleVersion{1, 2, 3}, v)
}

func TestParseSimpleVersionRejectsInvalidShapes(t *testing.T) {
	cases := []string{"", "1.2", "1.2.3.4", "a.b.c", "1..3", "latest"}
	for _, raw := range cases {
		_, ok := parseSimpleVersion(raw)
		assert.Falsef(t, ok, "expected %q to be rejected", raw)
	}
}

func TestParseSimpleVersionIgnoresPrereleaseSuffix(t *testing.T) {
	v, ok := parseSimpleVersion("v2.0.0-beta.1")
	require.True(t, ok)
	assert.Equal(t, simpleVersion{2, 0, 0}, v)
}

func TestIsNewerVersion(t *testing.T) {
	assert.True(t, isNewerVersion("v1.3.0", "v1.2.9"))
	assert.False(t, isNewerVersion("v1.2.0", "v1.2.0"))
	assert.False(t, isNewerVersion("v1.1.9", "v1.2.0"))
	assert.False(t, isNewerVersion("not-a-version", "v1.0.0"))
}

func TestIsValidVersion(t *testing.T) {
	assert.True(t, isValidVersion("v0.1.0"))
	assert.False(t, isValidVersion("garbage"))
}

func TestDisabledRespectsFlagAndEnv(t *testing.T) {
	assert.True(t, Disabled(true))

	t.Setenv(disableEnv, "")
	assert.False(t, Disabled(false))

	t.Setenv(disableEnv, "1")
	assert.True(t, Disabled(false))

	t.Setenv(disableEnv, "true")
	assert.True(t, Disabled(false))
}
