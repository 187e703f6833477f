// Package transcript parses Claude Code JSONL session transcripts and
// classifies each record as a countable prompt, a countable assistant
// turn, or noise.
package transcript

import (
	"encoding/json"
	"time"
)

// Record kinds that appear in session transcripts. Anything outside
// user/assistant is never counted.
const (
	kindUser         = "user"
	kindAssistant    = "assistant"
	kindFileSnapshot = "file-history-snapshot"
	kindSummary      = "summary"
)

// logRecord is one decoded line of a session transcript. Unknown fields
// are ignored by encoding/json, matching the append-only log format where
// new fields show up without notice.
type logRecord struct {
	Type        string       `json:"type"`
	IsMeta      bool         `json:"isMeta"`
	IsSidechain bool         `json:"isSidechain"`
	Timestamp   string       `json:"timestamp"`
	SessionID   string       `json:"sessionId"`
	Message     *messageBody `json:"message"`
}

type messageBody struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// contentBlock is one element of a block-structured message content array.
// Text blocks carry Text; tool_use blocks carry Name and, for shell tools,
// the invoked command in Input.
type contentBlock struct {
	Type  string     `json:"type"`
	Text  string     `json:"text"`
	Name  string     `json:"name"`
	Input *toolInput `json:"input"`
}

type toolInput struct {
	Command string `json:"command"`
}

// decodeContent splits a message content field into its two schema
// variants: a plain string or an ordered list of typed blocks.
func decodeContent(raw json.RawMessage) (text string, blocks []contentBlock, ok bool) {
	if len(raw) == 0 {
		return "", nil, false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil, true
	}
	var bs []contentBlock
	if err := json.Unmarshal(raw, &bs); err == nil {
		return "", bs, true
	}
	return "", nil, false
}

// PromptRecord is one accepted user prompt. CodeGenerated flips to true
// when the following assistant turn in the same file invoked a
// code-modifying tool; the record is never mutated after that.
type PromptRecord struct {
	Text          string    `json:"text"`
	Timestamp     time.Time `json:"timestamp"`
	SessionID     string    `json:"sessionId"`
	CodeGenerated bool      `json:"codeGenerated"`
}

// SessionSummary holds the aggregated counts for one session file within
// one time window. UserPrompts always equals len(Prompts).
type SessionSummary struct {
	SessionID         string         `json:"sessionId"`
	UserPrompts       int            `json:"userPrompts"`
	CodePrompts       int            `json:"codePrompts"`
	AIResponses       int            `json:"aiResponses"`
	ToolCalls         int            `json:"toolCalls"`
	TotalInteractions int            `json:"totalInteractions"`
	StartTime         *time.Time     `json:"startTime,omitempty"`
	EndTime           *time.Time     `json:"endTime,omitempty"`
	Prompts           []PromptRecord `json:"prompts"`
}
