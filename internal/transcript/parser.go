package transcript

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// ParseSessionFile reads one newline-delimited session transcript and
// returns its summary bounded to [since, until].
//
// It degrades rather than fails: a missing file or a file with no countable
// activity yields (nil, nil), and individual lines that do not decode are
// skipped. A non-nil error is returned only when the file exists but cannot
// be read at all.
func ParseSessionFile(path string, since, until time.Time) (*SessionSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open transcript %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024) // 10 MB max line

	var (
		sessionID       string
		aiResponses     int
		toolCalls       int
		startTime       *time.Time
		endTime         *time.Time
		prompts         []PromptRecord
		lastPromptIdx   = -1
		lastHasResponse = true
	)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec logRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}

		switch rec.Type {
		case kindUser, kindAssistant:
			// countable; handled below
		default:
			// snapshot, summary, unknown
			continue
		}

		if rec.SessionID != "" {
			sessionID = rec.SessionID
		}

		// Records without a timestamp are not time-filtered.
		var ts time.Time
		if rec.Timestamp != "" {
			parsed, err := time.Parse(time.RFC3339Nano, rec.Timestamp)
			if err == nil {
				if parsed.Before(since) || parsed.After(until) {
					continue
				}
				ts = parsed
				if startTime == nil || parsed.Before(*startTime) {
					t := parsed
					startTime = &t
				}
				if endTime == nil || parsed.After(*endTime) {
					t := parsed
					endTime = &t
				}
			}
		}

		if rec.Message == nil {
			continue
		}

		switch rec.Type {
		case kindUser:
			if rec.Message.Role != "user" || rec.IsMeta || rec.IsSidechain {
				continue
			}
			text, blocks, ok := decodeContent(rec.Message.Content)
			if !ok {
				continue
			}
			accepted, ok := promptText(text, blocks)
			if !ok {
				continue
			}
			prompts = append(prompts, PromptRecord{
				Text:      accepted,
				Timestamp: ts,
				SessionID: sessionID,
			})
			lastPromptIdx = len(prompts) - 1
			lastHasResponse = false

		case kindAssistant:
			if rec.Message.Role != "assistant" {
				continue
			}
			aiResponses++
			lastHasResponse = true
			_, blocks, ok := decodeContent(rec.Message.Content)
			if !ok {
				continue
			}
			toolCalls += countToolUses(blocks)
			if lastPromptIdx >= 0 && hasCodeToolUse(blocks) {
				prompts[lastPromptIdx].CodeGenerated = true
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan transcript %s: %w", path, err)
	}

	// An unanswered trailing prompt never counts; it would make the score
	// flicker before the assistant replies.
	if !lastHasResponse && len(prompts) > 0 {
		prompts = prompts[:len(prompts)-1]
	}

	codePrompts := 0
	for _, p := range prompts {
		if p.CodeGenerated {
			codePrompts++
		}
	}

	if len(prompts) == 0 && aiResponses == 0 {
		return nil, nil
	}

	return &SessionSummary{
		SessionID:         sessionID,
		UserPrompts:       len(prompts),
		CodePrompts:       codePrompts,
		AIResponses:       aiResponses,
		ToolCalls:         toolCalls,
		TotalInteractions: len(prompts) + aiResponses,
		StartTime:         startTime,
		EndTime:           endTime,
		Prompts:           prompts,
	}, nil
}
