package schema

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_RoundTrip(t *testing.T) {
	line := []byte(`{
		"timestamp": "2025-03-04T10:30:00.250Z",
		"cwd": "/home/user/projects/gadget",
		"sessionId": "sess-42",
		"costUSD": 0.0123,
		"message": {
			"role": "assistant",
			"model": "claude-sonnet-4-20250514",
			"content": "hello",
			"usage": {
				"input_tokens": 100,
				"output_tokens": 50,
				"cache_creation_input_tokens": 20,
				"cache_read_input_tokens": 300,
				"cache_creation": {"ephemeral_5m_input_tokens": 15, "ephemeral_1h_input_tokens": 5}
			}
		}
	}`)

	rec, err := Normalize(line)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 3, 4, 10, 30, 0, 250_000_000, time.UTC), rec.Timestamp.UTC())
	assert.False(t, rec.TimestampDefaulted)
	assert.Equal(t, "/home/user/projects/gadget", rec.Cwd)
	assert.Equal(t, "sess-42", rec.SessionID)
	require.NotNil(t, rec.CostUSD)
	assert.InDelta(t, 0.0123, *rec.CostUSD, 1e-9)

	require.NotNil(t, rec.Message)
	assert.Equal(t, "assistant", rec.Message.Role)
	assert.Equal(t, "claude-sonnet-4-20250514", rec.Message.Model)
	assert.True(t, rec.Message.Content.IsText())
	assert.Equal(t, "hello", rec.Message.Content.Text)

	u := rec.Message.Usage
	assert.Equal(t, int64(100), u.InputTokens)
	assert.Equal(t, int64(50), u.OutputTokens)
	assert.Equal(t, int64(20), u.CacheCreationInputTokens)
	assert.Equal(t, int64(300), u.CacheReadInputTokens)
	require.NotNil(t, u.CacheCreation)
	assert.Equal(t, int64(15), u.CacheCreation.Ephemeral5mInputTokens)
	assert.Equal(t, int64(5), u.CacheCreation.Ephemeral1hInputTokens)
}

func TestNormalize_MalformedTimestampFails(t *testing.T) {
	_, err := Normalize([]byte(`{"timestamp":"not-a-date"}`))
	require.Error(t, err)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Error(), "invalid timestamp format")
}

func TestNormalize_AbsentTimestampDefaultsToNow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec, err := normalizeAt([]byte(`{"cwd":"/tmp/x"}`), now)
	require.NoError(t, err)
	assert.True(t, rec.TimestampDefaulted)
	assert.Equal(t, now, rec.Timestamp)
}

func TestNormalize_UnknownFieldsPreserved(t *testing.T) {
	line := []byte(`{"timestamp":"2025-06-01T10:00:00Z","gitBranch":"main","message":{"role":"user","futureField":42}}`)

	rec, err := Normalize(line)
	require.NoError(t, err)

	require.Contains(t, rec.Extra, "gitBranch")
	assert.Equal(t, json.RawMessage(`"main"`), rec.Extra["gitBranch"])
	require.NotNil(t, rec.Message)
	assert.Contains(t, rec.Message.Extra, "futureField")
}

func TestNormalize_ContentBlockList(t *testing.T) {
	line := []byte(`{"timestamp":"2025-06-01T10:00:00Z","message":{"content":[` +
		`{"type":"text","text":"hi"},` +
		`{"type":"tool_use","name":"Bash"},` +
		`{"type":"hologram","payload":"???"}]}}`)

	rec, err := Normalize(line)
	require.NoError(t, err)
	require.NotNil(t, rec.Message)

	blocks := rec.Message.Content.Blocks
	require.Len(t, blocks, 3)
	assert.Equal(t, BlockText, blocks[0].Type)
	assert.Equal(t, "hi", blocks[0].Text)
	assert.Equal(t, BlockToolUse, blocks[1].Type)

	// Unknown block types are kept opaque, raw bytes intact.
	assert.Equal(t, "hologram", blocks[2].Type)
	assert.JSONEq(t, `{"type":"hologram","payload":"???"}`, string(blocks[2].Raw))
}

func TestNormalize_UsageDefaultsToZero(t *testing.T) {
	rec, err := Normalize([]byte(`{"timestamp":"2025-06-01T10:00:00Z","message":{"usage":{}}}`))
	require.NoError(t, err)
	require.NotNil(t, rec.Message)
	assert.Zero(t, rec.Message.Usage.InputTokens)
	assert.Zero(t, rec.Message.Usage.OutputTokens)
	assert.Zero(t, rec.Message.Usage.CacheCreationInputTokens)
	assert.Zero(t, rec.Message.Usage.CacheReadInputTokens)
}

func TestNormalize_NonObjectIsSchemaError(t *testing.T) {
	var schemaErr *SchemaError

	_, err := Normalize([]byte(`[1,2,3]`))
	require.ErrorAs(t, err, &schemaErr)

	_, err = Normalize([]byte(`"just a string"`))
	require.ErrorAs(t, err, &schemaErr)
}

func TestNormalize_GarbageIsNotSchemaError(t *testing.T) {
	_, err := Normalize([]byte(`{broken`))
	require.Error(t, err)

	var schemaErr *SchemaError
	assert.False(t, errors.As(err, &schemaErr), "raw JSON garbage must not classify as a schema error")
}
