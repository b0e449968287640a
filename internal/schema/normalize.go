package schema

import (
	"encoding/json"
	"fmt"
	"time"
)

// SchemaError reports a line that parsed as JSON but violated a semantic
// invariant of the record shape.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

// Normalize validates and coerces one raw JSON line into a LogRecord.
//
// Failure modes:
//   - not valid JSON at all: a plain wrapped error from encoding/json
//   - valid JSON violating the record shape: *SchemaError
//
// A present-but-malformed timestamp fails the record. An absent timestamp is
// defaulted to the current processing time and normalization succeeds; the
// record is flagged via TimestampDefaulted so consumers can tell.
func Normalize(line []byte) (*LogRecord, error) {
	return normalizeAt(line, time.Now())
}

func normalizeAt(line []byte, now time.Time) (*LogRecord, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(line, &top); err != nil {
		if json.Valid(line) {
			return nil, &SchemaError{Field: "record", Reason: "not a JSON object"}
		}
		return nil, fmt.Errorf("parsing record: %w", err)
	}

	rec := &LogRecord{}

	if raw, ok := top["timestamp"]; ok {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, &SchemaError{Field: "timestamp", Reason: "invalid timestamp format: not a string"}
		}
		ts, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, &SchemaError{Field: "timestamp", Reason: fmt.Sprintf("invalid timestamp format %q", s)}
		}
		rec.Timestamp = ts
		delete(top, "timestamp")
	} else {
		rec.Timestamp = now
		rec.TimestampDefaulted = true
	}

	if raw, ok := top["cwd"]; ok {
		if err := json.Unmarshal(raw, &rec.Cwd); err == nil {
			delete(top, "cwd")
		}
	}
	if raw, ok := top["sessionId"]; ok {
		if err := json.Unmarshal(raw, &rec.SessionID); err == nil {
			delete(top, "sessionId")
		}
	}
	if raw, ok := top["costUSD"]; ok {
		var cost float64
		if err := json.Unmarshal(raw, &cost); err == nil {
			rec.CostUSD = &cost
			delete(top, "costUSD")
		}
	}

	if raw, ok := top["message"]; ok {
		msg, err := normalizeMessage(raw)
		if err != nil {
			return nil, err
		}
		if msg != nil {
			rec.Message = msg
			delete(top, "message")
		}
	}

	// Everything not claimed above rides along untouched.
	if len(top) > 0 {
		rec.Extra = top
	}

	return rec, nil
}

func normalizeMessage(raw json.RawMessage) (*Message, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		// A non-object message is tolerated as an unknown field shape.
		return nil, nil //nolint:nilnil // absent message, not an error
	}

	msg := &Message{}

	if r, ok := fields["role"]; ok {
		if err := json.Unmarshal(r, &msg.Role); err == nil {
			delete(fields, "role")
		}
	}
	if r, ok := fields["model"]; ok {
		if err := json.Unmarshal(r, &msg.Model); err == nil {
			delete(fields, "model")
		}
	}
	if r, ok := fields["content"]; ok {
		if err := json.Unmarshal(r, &msg.Content); err != nil {
			return nil, &SchemaError{Field: "message.content", Reason: "must be a string or a list of blocks"}
		}
		delete(fields, "content")
	}
	if r, ok := fields["usage"]; ok {
		if err := json.Unmarshal(r, &msg.Usage); err != nil {
			return nil, &SchemaError{Field: "message.usage", Reason: "malformed usage object"}
		}
		delete(fields, "usage")
	}

	if len(fields) > 0 {
		msg.Extra = fields
	}

	return msg, nil
}
