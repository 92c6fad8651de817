package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"listings_admin/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valBool(p *bool) any {
	if p == nil {
		return nil
	}
	return *p
}
func valJSON(b json.RawMessage) any {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	return string(b)
}

func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(v int64) time.Time { return time.UnixMilli(v).UTC() }

// jsonCol scans a JSON/TEXT column into a json.RawMessage. MySQL hands back
// []byte, SQLite a string.
type jsonCol struct{ p *json.RawMessage }

func (c jsonCol) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*c.p = nil
	case []byte:
		*c.p = append(json.RawMessage(nil), v...)
	case string:
		*c.p = json.RawMessage(v)
	default:
		return fmt.Errorf("json column: unsupported type %T", src)
	}
	return nil
}

// argOf turns one field pointer from a column list into a driver argument.
func argOf(p any) any {
	switch v := p.(type) {
	case *string:
		return *v
	case **string:
		return valStr(*v)
	case *int64:
		return *v
	case **int64:
		return valInt64(*v)
	case *bool:
		return *v
	case **bool:
		return valBool(*v)
	case jsonCol:
		return valJSON(*v.p)
	default:
		panic(fmt.Sprintf("sqlstore: unsupported column pointer %T", p))
	}
}

// tableSpec describes how one record kind maps onto its table.
type tableSpec[R any, F any] struct {
	name string
	// columns are the writable columns, aligned with cols.
	columns []string
	cols    func(f *F) []any
	// readOnly columns are selected after the writable ones and never written.
	readOnly []string
	extra    func(r *R) []any
	fields   func(r *R) *F
	id       func(r *R) *int64
	stamps   func(r *R) *domain.Timestamps
}

// Table implements domain.Store for one record kind.
type Table[R any, F any] struct {
	db   *sql.DB
	now  func() time.Time
	spec tableSpec[R, F]

	selectSQL string
	insertSQL string
	updateSQL string
	deleteSQL string
}

func newTable[R any, F any](db *sql.DB, now func() time.Time, spec tableSpec[R, F]) *Table[R, F] {
	sel := append([]string{"id"}, spec.columns...)
	sel = append(sel, spec.readOnly...)
	sel = append(sel, "created_at", "updated_at")

	ins := append(append([]string{}, spec.columns...), "created_at", "updated_at")
	ph := strings.TrimSuffix(strings.Repeat("?, ", len(ins)), ", ")

	sets := make([]string, 0, len(spec.columns)+1)
	for _, c := range spec.columns {
		sets = append(sets, c+" = ?")
	}
	sets = append(sets, "updated_at = ?")

	return &Table[R, F]{
		db:        db,
		now:       now,
		spec:      spec,
		selectSQL: "SELECT " + strings.Join(sel, ", ") + " FROM " + spec.name,
		insertSQL: "INSERT INTO " + spec.name + " (" + strings.Join(ins, ", ") + ") VALUES (" + ph + ")",
		updateSQL: "UPDATE " + spec.name + " SET " + strings.Join(sets, ", ") + " WHERE id = ?",
		deleteSQL: "DELETE FROM " + spec.name + " WHERE id = ?",
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (t *Table[R, F]) scan(sc rowScanner) (R, error) {
	var r R
	var created, updated int64
	dst := []any{t.spec.id(&r)}
	dst = append(dst, t.spec.cols(t.spec.fields(&r))...)
	if t.spec.extra != nil {
		dst = append(dst, t.spec.extra(&r)...)
	}
	dst = append(dst, &created, &updated)
	if err := sc.Scan(dst...); err != nil {
		return r, err
	}
	ts := t.spec.stamps(&r)
	ts.CreatedAt = fromMillis(created)
	ts.UpdatedAt = fromMillis(updated)
	return r, nil
}

func (t *Table[R, F]) args(f *F) []any {
	ptrs := t.spec.cols(f)
	out := make([]any, 0, len(ptrs)+2)
	for _, p := range ptrs {
		out = append(out, argOf(p))
	}
	return out
}

func (t *Table[R, F]) List(ctx context.Context) ([]R, error) {
	rows, err := t.db.QueryContext(ctx, t.selectSQL+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.spec.name, err)
	}
	defer rows.Close()

	out := []R{}
	for rows.Next() {
		r, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.spec.name, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", t.spec.name, err)
	}
	return out, nil
}

func (t *Table[R, F]) Get(ctx context.Context, id int64) (R, error) {
	return t.getWhere(ctx, "id = ?", id)
}

func (t *Table[R, F]) getWhere(ctx context.Context, where string, arg any) (R, error) {
	row := t.db.QueryRowContext(ctx, t.selectSQL+" WHERE "+where+" ORDER BY id LIMIT 1", arg)
	r, err := t.scan(row)
	if err != nil {
		var zero R
		if errors.Is(err, sql.ErrNoRows) {
			return zero, domain.ErrNotFound
		}
		return zero, fmt.Errorf("get %s: %w", t.spec.name, err)
	}
	return r, nil
}

func (t *Table[R, F]) Create(ctx context.Context, f F) (R, error) {
	now := toMillis(t.now())
	args := append(t.args(&f), now, now)
	res, err := t.db.ExecContext(ctx, t.insertSQL, args...)
	if err != nil {
		var zero R
		return zero, fmt.Errorf("insert %s: %w", t.spec.name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		var zero R
		return zero, fmt.Errorf("insert %s: last insert id: %w", t.spec.name, err)
	}
	return t.Get(ctx, id)
}

// Update overwrites every writable column. MySQL reports zero affected rows
// for unchanged values, so existence is settled by the re-read.
func (t *Table[R, F]) Update(ctx context.Context, id int64, f F) (R, error) {
	args := append(t.args(&f), toMillis(t.now()), id)
	if _, err := t.db.ExecContext(ctx, t.updateSQL, args...); err != nil {
		var zero R
		return zero, fmt.Errorf("update %s: %w", t.spec.name, err)
	}
	return t.Get(ctx, id)
}

func (t *Table[R, F]) Delete(ctx context.Context, id int64) error {
	res, err := t.db.ExecContext(ctx, t.deleteSQL, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", t.spec.name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: rows affected: %w", t.spec.name, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// PropertyTable adds reference lookups used by the feed importer.
type PropertyTable struct {
	*Table[domain.Property, domain.PropertyFields]
}

func (t PropertyTable) GetByReference(ctx context.Context, reference string) (domain.Property, error) {
	return t.getWhere(ctx, "reference = ?", reference)
}

// EnquiryTable adds the read flag toggle.
type EnquiryTable struct {
	*Table[domain.Enquiry, domain.EnquiryFields]
}

func (t EnquiryTable) MarkRead(ctx context.Context, id int64) (domain.Enquiry, error) {
	if _, err := t.db.ExecContext(ctx, markEnquiryReadSQL, true, toMillis(t.now()), id); err != nil {
		return domain.Enquiry{}, fmt.Errorf("mark enquiry read: %w", err)
	}
	return t.Get(ctx, id)
}
