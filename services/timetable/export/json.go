package export

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/rmrobinson/ztm/services/timetable"
)

// DefaultIndent is the indentation used by WriteJSON when none is supplied.
const DefaultIndent = "  "

// WriteJSON writes the nested document as UTF-8. Mappings are emitted with sorted keys.
func WriteJSON(w io.Writer, doc []interface{}, indent string) error {
	if doc == nil {
		doc = []interface{}{}
	}
	if len(indent) < 1 {
		indent = DefaultIndent
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(doc); err != nil {
		return err
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// ReadJSON rebuilds the line hierarchy from a document written by WriteJSON.
func ReadJSON(r io.Reader) ([]*timetable.Line, error) {
	var lines []*timetable.Line
	if err := json.NewDecoder(r).Decode(&lines); err != nil {
		return nil, err
	}
	return lines, nil
}
