package app

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// BulkReport summarises one CSV import. Row numbers count data rows from 1.
type BulkReport struct {
	Total        int        `json:"total"`
	Created      int        `json:"created"`
	Errors       int        `json:"errors"`
	ErrorDetails []RowError `json:"errorDetails"`
}

// ErrBadCSV marks input whose header row cannot be read.
var ErrBadCSV = errors.New("invalid csv")

// ImportCSV creates one record per data row. The header names JSON fields;
// columns that name no writable field (id, createdAt, ...) are skipped and an
// empty cell leaves the field unset.
func (s *ResourceService[R, F]) ImportCSV(ctx context.Context, r io.Reader) (BulkReport, error) {
	rep := BulkReport{ErrorDetails: []RowError{}}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return rep, fmt.Errorf("%w: %w", ErrBadCSV, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	byName := map[string]jsonField{}
	for _, f := range jsonFields(reflect.TypeOf((*F)(nil)).Elem()) {
		byName[f.name] = f
	}

	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if err != nil && !errors.As(err, &perr) {
			return rep, fmt.Errorf("read csv row %d: %w", row, err)
		}
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		rep.Total++
		if err == nil {
			err = s.importRow(ctx, header, rec, byName)
		}
		if err != nil {
			rep.Errors++
			rep.ErrorDetails = append(rep.ErrorDetails, RowError{Row: row, Error: err.Error()})
			log.Warn().Str("kind", s.kind.Name).Int("row", row).Err(err).Msg("csv row rejected")
			continue
		}
		rep.Created++
	}
	return rep, nil
}

func (s *ResourceService[R, F]) importRow(ctx context.Context, header, rec []string, byName map[string]jsonField) error {
	obj := map[string]json.RawMessage{}
	for i, col := range header {
		f, ok := byName[strings.TrimSpace(col)]
		if !ok || i >= len(rec) || rec[i] == "" {
			continue
		}
		raw, err := cellJSON(rec[i], f.typ)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		obj[f.name] = raw
	}
	body, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	_, err = s.CreateJSON(ctx, body)
	return err
}

var rawMessageType = reflect.TypeOf(json.RawMessage{})

// cellJSON converts a CSV cell to the JSON form of the target field type.
func cellJSON(cell string, t reflect.Type) (json.RawMessage, error) {
	if t == rawMessageType {
		if !json.Valid([]byte(cell)) {
			return nil, errors.New("not valid JSON")
		}
		return json.RawMessage(cell), nil
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return json.Marshal(cell)
	case reflect.Int64, reflect.Int:
		n, err := strconv.ParseInt(strings.TrimSpace(cell), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("not an integer: %q", cell)
		}
		return json.Marshal(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(cell))
		if err != nil {
			return nil, fmt.Errorf("not a boolean: %q", cell)
		}
		return json.Marshal(b)
	default:
		return nil, fmt.Errorf("unsupported field type %s", t)
	}
}
