// Package schema defines the shape of one conversation-log record and
// normalizes raw JSONL lines into it. The log format is externally defined
// and evolves, so unknown fields are preserved rather than rejected.
package schema

import (
	"encoding/json"
	"time"
)

// LogRecord is one normalized log line: a single conversational turn or event.
// The only strict requirement is a parseable timestamp; everything else is
// optional. Unknown top-level keys are carried in Extra untouched.
type LogRecord struct {
	Timestamp time.Time
	// TimestampDefaulted is true when the source line carried no timestamp
	// and the processing time was substituted.
	TimestampDefaulted bool

	Cwd       string
	SessionID string
	CostUSD   *float64
	Message   *Message

	Extra map[string]json.RawMessage
}

// Message is the nested message envelope of a record.
type Message struct {
	Role    string
	Model   string
	Content Content
	Usage   Usage

	Extra map[string]json.RawMessage
}

// Usage holds token counts from the API response. All counters default to
// zero when absent, never null.
type Usage struct {
	InputTokens              int64          `json:"input_tokens"`
	OutputTokens             int64          `json:"output_tokens"`
	CacheCreationInputTokens int64          `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int64          `json:"cache_read_input_tokens"`
	CacheCreation            *CacheCreation `json:"cache_creation,omitempty"`
}

// CacheCreation breaks down cache write tokens by TTL bucket.
type CacheCreation struct {
	Ephemeral5mInputTokens int64 `json:"ephemeral_5m_input_tokens"`
	Ephemeral1hInputTokens int64 `json:"ephemeral_1h_input_tokens"`
}

// Known content block types. Blocks outside this set are kept opaque.
const (
	BlockText       = "text"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
	BlockImage      = "image"
)

// ContentBlock is one typed block of a structured message content list.
// Raw always holds the original JSON so unknown block types survive a
// round trip unchanged.
type ContentBlock struct {
	Type string
	Text string
	Raw  json.RawMessage
}

// Content is either a plain string or a list of typed content blocks.
type Content struct {
	// Text is set when the source content was a plain string.
	Text string
	// Blocks is set when the source content was a list.
	Blocks []ContentBlock
}

// IsText reports whether the content was a plain string.
func (c Content) IsText() bool {
	return c.Blocks == nil
}

// UnmarshalJSON accepts both content encodings.
func (c *Content) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &c.Text)
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}

	c.Blocks = make([]ContentBlock, 0, len(raws))
	for _, raw := range raws {
		var head struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}
		// A malformed block stays opaque rather than failing the record.
		_ = json.Unmarshal(raw, &head)
		c.Blocks = append(c.Blocks, ContentBlock{
			Type: head.Type,
			Text: head.Text,
			Raw:  raw,
		})
	}
	return nil
}

// MarshalJSON re-emits the original encoding.
func (c Content) MarshalJSON() ([]byte, error) {
	if c.IsText() {
		return json.Marshal(c.Text)
	}
	raws := make([]json.RawMessage, len(c.Blocks))
	for i, b := range c.Blocks {
		raws[i] = b.Raw
	}
	return json.Marshal(raws)
}
