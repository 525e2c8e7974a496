// Package dataset decodes and validates line-delimited JSON fine-tuning
// datasets in the chat-completions format: one record per line, each with a
// "messages" list of role/content turns.
//
// Validation is a single decode-and-collect pass: a line is decoded in
// stages into a typed Record, and every structural problem found along the
// way becomes a diagnostic string rather than a hard unmarshal failure.
// Diagnostics accumulate so one run surfaces every problem in the file.
package dataset

import (
	"encoding/json"
	"fmt"
	"strings"

	"tunelint/internal/tokens"
)

// Role is the speaker category of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleFunction  Role = "function"
)

// Known reports whether r is one of the accepted conversational roles.
func (r Role) Known() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleFunction:
		return true
	}
	return false
}

// Message is one conversation turn. Fields hold whatever decoded, even when
// the message failed validation, so token counting stays total.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Record is one training example.
type Record struct {
	Messages []Message `json:"messages"`
}

// Result carries the per-record diagnostics. Warnings never affect Valid.
type Result struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// DecodeRecord decodes one dataset line into a Record, collecting
// diagnostics. line is the 1-based line number embedded in every diagnostic;
// message indices are 0-based.
//
// The returned Record is never nil and holds whatever fields decoded, so the
// caller can still count tokens defensively. A record is invalid iff at
// least one error was collected.
func DecodeRecord(line int, data []byte) (*Record, Result) {
	rec := &Record{}
	res := Result{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		if _, ok := err.(*json.UnmarshalTypeError); ok {
			// Valid JSON, but not an object: no mapping means no field.
			res.Errors = append(res.Errors, fmt.Sprintf("Line %d: Missing 'messages' field", line))
		} else {
			res.Errors = append(res.Errors, fmt.Sprintf("Line %d: Invalid JSON - %v", line, err))
		}
		return rec, res
	}

	msgsRaw, ok := fields["messages"]
	if !ok {
		res.Errors = append(res.Errors, fmt.Sprintf("Line %d: Missing 'messages' field", line))
		return rec, res
	}

	var msgs []json.RawMessage
	if err := json.Unmarshal(msgsRaw, &msgs); err != nil || isNull(msgsRaw) {
		res.Errors = append(res.Errors, fmt.Sprintf("Line %d: 'messages' must be a list", line))
		return rec, res
	}
	if len(msgs) == 0 {
		res.Errors = append(res.Errors, fmt.Sprintf("Line %d: 'messages' cannot be empty", line))
		return rec, res
	}

	seen := map[Role]bool{}
	for i, raw := range msgs {
		var obj map[string]json.RawMessage
		// A JSON null unmarshals into a nil map without error.
		if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Line %d: Message %d must be a dictionary", line, i))
			rec.Messages = append(rec.Messages, Message{})
			continue
		}

		var m Message
		roleRaw, hasRole := obj["role"]
		contentRaw, hasContent := obj["content"]
		if hasRole {
			var s string
			if json.Unmarshal(roleRaw, &s) == nil && !isNull(roleRaw) {
				m.Role = Role(s)
			} else {
				// Non-string role: keep the raw JSON token for diagnostics.
				m.Role = Role(roleRaw)
			}
		}
		if hasContent {
			// Stays empty when content is not a string.
			_ = json.Unmarshal(contentRaw, &m.Content)
		}
		rec.Messages = append(rec.Messages, m)

		if !hasRole {
			res.Errors = append(res.Errors, fmt.Sprintf("Line %d: Message %d missing 'role' field", line, i))
			continue
		}
		if !hasContent {
			res.Errors = append(res.Errors, fmt.Sprintf("Line %d: Message %d missing 'content' field", line, i))
			continue
		}

		if !m.Role.Known() {
			res.Errors = append(res.Errors, fmt.Sprintf("Line %d: Invalid role '%s' in message %d", line, m.Role, i))
		}
		seen[m.Role] = true

		var content string
		if err := json.Unmarshal(contentRaw, &content); err != nil || isNull(contentRaw) {
			res.Errors = append(res.Errors, fmt.Sprintf("Line %d: Content in message %d must be a string", line, i))
		} else if strings.TrimSpace(content) == "" {
			res.Warnings = append(res.Warnings, fmt.Sprintf("Line %d: Empty content in message %d", line, i))
		}
	}

	if !seen[RoleUser] {
		res.Warnings = append(res.Warnings, fmt.Sprintf("Line %d: No 'user' message found", line))
	}
	if !seen[RoleAssistant] {
		res.Warnings = append(res.Warnings, fmt.Sprintf("Line %d: No 'assistant' message found", line))
	}

	res.Valid = len(res.Errors) == 0
	return rec, res
}

// isNull reports whether raw is the JSON null literal, which unmarshals
// into Go zero values without error.
func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

// Tokens returns the approximate token count of the whole record: the sum of
// role and content counts over all messages. Total for any Record, including
// ones that failed validation — absent fields contribute zero.
func (r *Record) Tokens(est tokens.Estimator) int {
	total := 0
	for _, m := range r.Messages {
		total += est.Count(string(m.Role))
		total += est.Count(m.Content)
	}
	return total
}
