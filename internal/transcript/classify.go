package transcript

import (
	"regexp"
	"strings"
)

// maxPromptLen is the hard cap on stored prompt text, in characters.
const maxPromptLen = 500

// Tools whose use means the assistant actually modified code.
var codeGeneratingTools = map[string]bool{
	"Write":        true,
	"Edit":         true,
	"NotebookEdit": true,
}

// A Bash command counts as code-modifying when it removes a file: an "rm "
// token at the start of the command or right after a shell separator.
var fileRemovePattern = regexp.MustCompile(`(^|[;&|]\s*)rm\s`)

const interruptPrefix = "[Request interrupted by user]"

// flattenText concatenates the text blocks of block-structured content in
// order, with no separator. Plain-string content passes through as-is.
func flattenText(text string, blocks []contentBlock) string {
	if blocks == nil {
		return text
	}
	var b strings.Builder
	for _, blk := range blocks {
		b.WriteString(blk.Text)
	}
	return b.String()
}

// isCommandText reports whether content carries a slash-command marker.
// Command invocations are tool bookkeeping, not user effort.
func isCommandText(text string) bool {
	return strings.Contains(text, "<command-name>") || strings.Contains(text, "<local-command")
}

// isSystemGenerated reports whether a user record's text was written by
// the tool itself rather than the developer.
func isSystemGenerated(text string) bool {
	trimmed := strings.TrimSpace(text)
	switch {
	case trimmed == interruptPrefix:
		return true
	case strings.HasPrefix(trimmed, "[Request interrupted by user for tool use]"):
		return true
	case strings.HasPrefix(trimmed, "Implement the following plan:"):
		return true
	case strings.HasPrefix(trimmed, "<task-notification>"):
		return true
	}
	return false
}

// stripInterruptPrefix removes a leading interrupt marker from a message
// that also carries the user's real follow-up instruction.
func stripInterruptPrefix(text string) string {
	if strings.HasPrefix(text, interruptPrefix) {
		return strings.TrimSpace(text[len(interruptPrefix):])
	}
	return text
}

// truncatePrompt caps prompt text at maxPromptLen characters.
func truncatePrompt(text string) string {
	runes := []rune(text)
	if len(runes) <= maxPromptLen {
		return text
	}
	return string(runes[:maxPromptLen])
}

// countToolUses counts tool_use blocks; plain-string content has none.
func countToolUses(blocks []contentBlock) int {
	n := 0
	for _, blk := range blocks {
		if blk.Type == "tool_use" {
			n++
		}
	}
	return n
}

// hasCodeToolUse reports whether any tool_use block invoked a
// code-generating tool or a file-removing Bash command.
func hasCodeToolUse(blocks []contentBlock) bool {
	for _, blk := range blocks {
		if blk.Type != "tool_use" {
			continue
		}
		if codeGeneratingTools[blk.Name] {
			return true
		}
		if blk.Name == "Bash" && blk.Input != nil && fileRemovePattern.MatchString(blk.Input.Command) {
			return true
		}
	}
	return false
}

// promptText applies the user-record content pipeline: flatten, reject
// system-generated and command text, strip the interrupt prefix, trim and
// truncate. ok is false when the record should not count as a prompt.
func promptText(text string, blocks []contentBlock) (string, bool) {
	flat := flattenText(text, blocks)
	if isCommandText(flat) || isSystemGenerated(flat) {
		return "", false
	}
	trimmed := stripInterruptPrefix(strings.TrimSpace(flat))
	if trimmed == "" {
		return "", false
	}
	return truncatePrompt(trimmed), true
}
