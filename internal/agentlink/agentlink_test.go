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

package agentlink

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSDKPrefixRecognizesSeverity(t *testing.T) {
	verb, rest, ok := parseSDKPrefix("[sdk warn] retrying connection")
	assert.True(t, ok)
	assert.Equal(t, "warn", verb)
	assert.Equal(t, "retrying connection", rest)
}

func TestParseSDKPrefixRejectsPlainLine(t *testing.T) {
	_, _, ok := parseSDKPrefix("plain stderr output")
	assert.False(t, ok)
}

func TestTrimEOLStripsCRLF(t *testing.T) {
	assert.Equal(t, []byte("hello"), trimEOL([]byte("hello\r\n")))
	assert.Equal(t, []byte("hello"), trimEOL([]byte("hello\n")))
	assert.Equal(t, []byte("hello"), trimEOL([]byte("hello")))
}
