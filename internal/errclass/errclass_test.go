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

package errclass

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifiesPlanLimitErrors(t *testing.T) {
	assert.Equal(t, PlanLimit, Classify("HTTP 429 Too Many Requests"))
	assert.Equal(t, PlanLimit, Classify("turn failed: max budget exceeded"))
}

func TestClassifiesAuthRequiredErrors(t *testing.T) {
	assert.Equal(t, AuthRequired, Classify("authentication failed: please log in"))
}

func TestClassifiesInternalErrors(t *testing.T) {
	assert.Equal(t, Internal, Classify(`{"jsonrpc":"2.0","error":{"code":-32603,"message":"internal rpc fault"}}`))
	assert.True(t, LooksLikeInternal("<error><code>-32603</code><message>Adapter process crashed</message></error>"))
}

func TestClassifiesOtherErrors(t *testing.T) {
	assert.Equal(t, Other, Classify("turn failed: timeout"))
}

func TestParsesBridgeTurnErrorKindTags(t *testing.T) {
	cases := map[string]Class{
		"plan_limit":    PlanLimit,
		"auth_required": AuthRequired,
		"internal":      Internal,
		"other":         Other,
	}
	for tag, want := range cases {
		got, ok := ParseClass(tag)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := ParseClass("unexpected")
	assert.False(t, ok)
}

func TestSummarizePrefersPermissionSchemaErrorMessage(t *testing.T) {
	payload := `Tool permission request failed: ZodError: [{"message":"Invalid input: expected record, received undefined"}]`
	assert.Equal(t,
		"Tool permission request failed: Invalid input: expected record, received undefined",
		Summarize(payload))
}

func TestSummarizeTruncatesLongMessages(t *testing.T) {
	long := make([]byte, 400)
	for i := range long {
		long[i] = 'x'
	}
	got := Summarize(string(long))
	assert.True(t, len(got) < len(long))
	assert.Contains(t, got, "...")
}

func TestSummarizeEscapesNewlinesInExtractedJSONField(t *testing.T) {
	payload := `{"code":-32603,"message":"line one\nline two"}`
	got := Summarize(payload)
	assert.NotContains(t, got, "\n")
	assert.Contains(t, got, `\n`)
}
