package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSON renders the batch as indented JSON. A batch holding exactly one
// report and nothing skipped is rendered as that report alone.
func WriteJSON(w io.Writer, b *BatchReport) error {
	var v interface{} = b
	if len(b.Reports) == 1 && len(b.Skipped) == 0 {
		v = b.Reports[0]
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// ReadJSON decodes a document written by WriteJSON after checking it against
// the report schema. A single report is returned as a batch of one.
func ReadJSON(doc []byte) (*BatchReport, error) {
	if err := Validate(doc); err != nil {
		return nil, err
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(doc, &probe); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(doc))
	if _, ok := probe["reports"]; ok {
		var b BatchReport
		if err := dec.Decode(&b); err != nil {
			return nil, fmt.Errorf("failed to decode batch report: %w", err)
		}
		return NewBatch(b.Reports, b.Skipped), nil
	}

	var r Report
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return NewBatch([]*Report{&r}, nil), nil
}
