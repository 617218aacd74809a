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
package home

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirIsDotWiretermUnderHome(t *testing.T) {
	dir, err := Dir()
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(UserHome(), ".wireterm"), dir)
}

func TestCacheDirIsUnderUserCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	dir, err := CacheDir()
	assert.NoError(t, err)
	assert.DirExists(t, dir)
	assert.Equal(t, "wireterm", filepath.Base(dir))
}

func TestEnsureDirCreatesHome(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	assert.NoError(t, EnsureDir())
	dir, err := Dir()
	assert.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestShortReplacesHomePrefix(t *testing.T) {
	home := UserHome()
	if home == "" {
		t.Skip("no resolvable home directory in this environment")
	}

	got := Short(filepath.Join(home, "proj", "main.go"))
	assert.Equal(t, filepath.Join("~", "proj", "main.go"), got)
}

func TestShortLeavesUnrelatedPathAlone(t *testing.T) {
	assert.Equal(t, "/var/tmp/file", Short("/var/tmp/file"))
}
