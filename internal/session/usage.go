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

package session

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/wireterm/wireterm/internal/message"
)

// tokenEncoder lazily builds a singleton cl100k_base encoder, shared across
// sessions: it's a good-enough approximation for Claude-family models and
// the same encoding the agent side of this protocol reports usage in.
type tokenEncoder struct {
	enc *tiktoken.Tiktoken
	mu  sync.Mutex
}

var (
	globalEncoder *tokenEncoder
	encoderOnce   sync.Once
)

func getTokenEncoder() *tokenEncoder {
	encoderOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			globalEncoder = &tokenEncoder{enc: nil}
			return
		}
		globalEncoder = &tokenEncoder{enc: enc}
	})
	return globalEncoder
}

// countTokens returns an estimated token count for text. Falls back to a
// char/4 approximation if the encoder failed to load (e.g. no network
// access to fetch the BPE rank file on first use).
func (e *tokenEncoder) countTokens(text string) int {
	if e.enc == nil {
		return len(text) / 4
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.enc.Encode(text, nil, nil))
}

// transcriptText concatenates every text block authored by role across the
// session's messages, most recent last.
func transcriptText(messages []message.ChatMessage, role message.Role) string {
	var b strings.Builder
	for _, m := range messages {
		if m.Role != role {
			continue
		}
		for _, blk := range m.Blocks {
			if blk.Kind == message.BlockText {
				b.WriteString(blk.Text)
			}
		}
	}
	return b.String()
}

// EstimateUsage fills in whichever of PromptTokens/CompletionTokens/
// TotalTokens the agent's usage_update event left nil, estimating from the
// transcript seen so far. The agent's own reported counts always win when
// present; this only covers agents that omit the field entirely.
func (s *Session) EstimateUsage() {
	enc := getTokenEncoder()

	if s.Usage.PromptTokens == nil {
		n := enc.countTokens(transcriptText(s.Messages, message.User))
		s.Usage.PromptTokens = &n
	}
	if s.Usage.CompletionTokens == nil {
		n := enc.countTokens(transcriptText(s.Messages, message.Assistant))
		s.Usage.CompletionTokens = &n
	}
	if s.Usage.TotalTokens == nil {
		total := *s.Usage.PromptTokens + *s.Usage.CompletionTokens
		s.Usage.TotalTokens = &total
	}
}
