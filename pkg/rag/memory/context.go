package memory

import "strings"

// ChatContext is the per-request view of a conversation. It is rebuilt on
// every request and never persisted.
type ChatContext struct {
	FirstQuestion string
	UserMessages  []string // at most the 6-message window's user turns
	AIMessages    []string // at most the 6-message window's assistant turns
	Summary       string   // empty when no summary exists
}

// HasContent reports whether there is any prior conversation to enrich a
// query with.
func (c *ChatContext) HasContent() bool {
	if c == nil {
		return false
	}
	return c.Summary != "" || len(c.UserMessages) > 0 || len(c.AIMessages) > 0
}

// ContextText flattens the context into one plain-text blob, used for query
// enrichment and lexical overlap scoring.
func (c *ChatContext) ContextText() string {
	if c == nil {
		return ""
	}
	var parts []string
	if c.Summary != "" {
		parts = append(parts, c.Summary)
	}
	parts = append(parts, c.UserMessages...)
	parts = append(parts, c.AIMessages...)
	return strings.Join(parts, "\n")
}
