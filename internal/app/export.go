package app

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
)

// ExportCSV writes a header row and one row per record. Columns follow the
// record's JSON field order, so every export of a kind has the same header.
func (s *ResourceService[R, F]) ExportCSV(ctx context.Context, w io.Writer) (int, error) {
	rs, err := s.store.List(ctx)
	if err != nil {
		return 0, err
	}
	header := fieldNames(jsonFields(reflect.TypeOf((*R)(nil)).Elem()))

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return 0, err
	}
	for _, r := range rs {
		row, err := csvRow(r, header)
		if err != nil {
			return 0, fmt.Errorf("export %s %d: %w", s.kind.Name, r.Key(), err)
		}
		if err := cw.Write(row); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	return len(rs), cw.Error()
}

func csvRow(v any, header []string) ([]string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	obj := map[string]json.RawMessage{}
	if err := json.Unmarshal(buf.Bytes(), &obj); err != nil {
		return nil, err
	}
	row := make([]string, len(header))
	for i, col := range header {
		row[i] = cellText(obj[col])
	}
	return row, nil
}

// cellText renders one JSON value: strings verbatim, null empty, the rest as JSON.
func cellText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}
