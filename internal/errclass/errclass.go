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

// Package errclass classifies a turn_error's free-text message into one of
// a small set of buckets the status line and error banner react to
// differently, and produces a short, log-safe summary of internal errors.
package errclass

import (
	"strconv"
	"strings"
)

// Class is the classification bucket for a turn error.
type Class string

const (
	PlanLimit    Class = "plan_limit"
	AuthRequired Class = "auth_required"
	Internal     Class = "internal"
	Other        Class = "other"
)

// ParseClass maps the agent's own preclassification tag, if it sent one,
// onto Class. Returns ("", false) for an unrecognized tag — callers should
// fall back to Classify(message) in that case.
func ParseClass(tag string) (Class, bool) {
	switch tag {
	case "plan_limit":
		return PlanLimit, true
	case "auth_required":
		return AuthRequired, true
	case "internal":
		return Internal, true
	case "other":
		return Other, true
	default:
		return "", false
	}
}

// Classify reclassifies a turn error from its message text regardless of
// any tag the agent supplied, checked in this fixed precedence order:
// plan limit, then auth required, then internal, else Other.
func Classify(input string) Class {
	lower := strings.ToLower(input)
	switch {
	case looksLikePlanLimit(lower):
		return PlanLimit
	case looksLikeAuthRequired(lower):
		return AuthRequired
	case LooksLikeInternal(input):
		return Internal
	default:
		return Other
	}
}

var planLimitNeedles = []string{
	"rate limit", "rate-limit", "max turns", "max turn", "max budget",
	"quota", "plan limit", "plan-limit", "429", "too many requests",
	"usage limit", "insufficient quota",
}

func looksLikePlanLimit(lower string) bool {
	return containsAny(lower, planLimitNeedles)
}

var authRequiredNeedles = []string{
	"/login", "auth required", "authentication failed", "please log in",
	"login required", "not authenticated", "unauthorized",
}

func looksLikeAuthRequired(lower string) bool {
	return containsAny(lower, authRequiredNeedles)
}

var internalErrorNeedles = []string{
	"internal error", "agent sdk", "claude-agent-sdk", "adapter", "bridge",
	"json-rpc", "rpc", "protocol error", "transport", "handshake failed",
	"session creation failed", "connection closed", "event channel closed",
	"tool permission request failed", "zoderror", "invalid_union",
	"bridge command failed", "agent stream failed", "agent initialization failed",
}

// LooksLikeInternal reports whether input reads as an internal/transport
// fault: either one of the keyword needles, or a JSON-RPC/XML error shape.
func LooksLikeInternal(input string) bool {
	lower := strings.ToLower(input)
	return containsAny(lower, internalErrorNeedles) ||
		looksLikeJSONRPCErrorShape(lower) ||
		looksLikeXMLErrorShape(lower)
}

func looksLikeJSONRPCErrorShape(lower string) bool {
	return (strings.Contains(lower, `"jsonrpc"`) && strings.Contains(lower, `"error"`)) ||
		strings.Contains(lower, `"code":-32603`) ||
		strings.Contains(lower, `"code": -32603`)
}

func looksLikeXMLErrorShape(lower string) bool {
	hasErrorNode := strings.Contains(lower, "<error") || strings.Contains(lower, "<fault")
	hasDetailNode := strings.Contains(lower, "<message>") || strings.Contains(lower, "<code>")
	return hasErrorNode && hasDetailNode
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

const summaryLimit = 240

// Summarize produces a short, single-line summary of an internal error
// message, preferring (in order): a permission-schema failure's detail, an
// XML <message> tag, a JSON "message" field, then the first non-empty
// line — truncated to 240 runes with a trailing "...", newlines rewritten
// to the literal two-character escape "\n".
func Summarize(input string) string {
	if summary, ok := summarizePermissionSchemaError(input); ok {
		return truncateForLog(summary)
	}
	if msg, ok := extractXMLTagValue(input, "message"); ok {
		return truncateForLog(msg)
	}
	if msg, ok := extractJSONStringField(input, "message"); ok {
		return truncateForLog(msg)
	}
	fallback := input
	for _, line := range strings.Split(input, "\n") {
		if strings.TrimSpace(line) != "" {
			fallback = line
			break
		}
	}
	return truncateForLog(strings.TrimSpace(fallback))
}

func summarizePermissionSchemaError(input string) (string, bool) {
	lower := strings.ToLower(input)
	if !strings.Contains(lower, "tool permission request failed") {
		return "", false
	}
	detail, ok := extractJSONStringField(input, "message")
	if !ok {
		detail = input
		for _, line := range strings.Split(input, "\n") {
			if strings.TrimSpace(line) != "" {
				detail = strings.TrimSpace(line)
				break
			}
		}
	}
	return "Tool permission request failed: " + detail, true
}

func truncateForLog(input string) string {
	runes := []rune(input)
	var out strings.Builder
	for i, r := range runes {
		if i >= summaryLimit {
			out.WriteString("...")
			break
		}
		out.WriteRune(r)
	}
	return strings.ReplaceAll(out.String(), "\n", `\n`)
}

func extractXMLTagValue(input, tag string) (string, bool) {
	lower := strings.ToLower(input)
	open := "<" + tag + ">"
	closeTag := "</" + tag + ">"
	startIdx := strings.Index(lower, open)
	if startIdx < 0 {
		return "", false
	}
	start := startIdx + len(open)
	endOffset := strings.Index(lower[start:], closeTag)
	if endOffset < 0 {
		return "", false
	}
	end := start + endOffset
	value := strings.TrimSpace(input[start:end])
	if value == "" {
		return "", false
	}
	return value, true
}

func extractJSONStringField(input, field string) (string, bool) {
	needle := strconv.Quote(field)
	idx := strings.Index(input, needle)
	if idx < 0 {
		return "", false
	}
	rest := strings.TrimLeft(input[idx+len(needle):], " \t")
	colonIdx := strings.Index(rest, ":")
	if colonIdx < 0 {
		return "", false
	}
	rest = strings.TrimLeft(rest[colonIdx+1:], " \t")
	if len(rest) == 0 || rest[0] != '"' {
		return "", false
	}
	rest = rest[1:]

	var out strings.Builder
	escaped := false
	for _, ch := range rest {
		if escaped {
			switch ch {
			case 'n':
				out.WriteRune('\n')
			case 'r':
				out.WriteRune('\r')
			case 't':
				out.WriteRune('\t')
			case '"':
				out.WriteRune('"')
			case '\\':
				out.WriteRune('\\')
			default:
				out.WriteRune(ch)
			}
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			escaped = true
		case '"':
			return out.String(), true
		default:
			out.WriteRune(ch)
		}
	}
	return "", false
}
