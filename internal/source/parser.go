package source

import (
	"bufio"
	"bytes"
	"errors"

	"convoscope/internal/entry"
	"convoscope/internal/schema"
)

// InvalidLine is a line that parsed as JSON but failed a semantic invariant
// of the record schema. Kept for diagnostics, excluded from analytics.
type InvalidLine struct {
	File   string
	Line   int
	Reason string
}

// ParseFailure is a line that was not valid JSON at all.
type ParseFailure struct {
	File string
	Line int
	Raw  string
	Err  string
}

// FileResult holds everything one file's content produced.
type FileResult struct {
	File     string
	Entries  []entry.Entry
	Invalid  []InvalidLine
	Failures []ParseFailure
}

// ParseContent splits file content into lines and classifies each one:
// valid entry, invalid entry, or parse failure. Blank lines are skipped but
// still counted, so line numbers match the source file. No single line can
// abort processing of the rest.
func ParseContent(file string, data []byte) FileResult {
	result := FileResult{File: file}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 256*1024), 2*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		rec, err := schema.Normalize(line)
		if err != nil {
			var schemaErr *schema.SchemaError
			if errors.As(err, &schemaErr) {
				result.Invalid = append(result.Invalid, InvalidLine{
					File:   file,
					Line:   lineNo,
					Reason: schemaErr.Error(),
				})
			} else {
				result.Failures = append(result.Failures, ParseFailure{
					File: file,
					Line: lineNo,
					Raw:  string(line),
					Err:  err.Error(),
				})
			}
			continue
		}

		result.Entries = append(result.Entries, entry.New(rec))
	}

	// An oversized line surfaces as a parse failure for the remainder of
	// the file rather than an aborted load.
	if err := scanner.Err(); err != nil {
		result.Failures = append(result.Failures, ParseFailure{
			File: file,
			Line: lineNo + 1,
			Err:  err.Error(),
		})
	}

	return result
}
