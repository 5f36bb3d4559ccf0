package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// execCall records one statement executed against the fake database.
type execCall struct {
	sql  string
	args []interface{}
}

// fakeDB is an in-memory DBTX. Executed statements are recorded for
// inspection; query results are queued by SQL substring.
type fakeDB struct {
	execs   []execCall
	execErr error

	queries map[string][][]interface{} // substring -> rows of scan values
	rowVals map[string][]interface{}   // substring -> single-row scan values

	begun     int
	commits   int
	rollbacks int
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	return pgconn.CommandTag{}, nil
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	for frag, rows := range f.queries {
		if strings.Contains(sql, frag) {
			return &fakeRows{rows: rows}, nil
		}
	}
	return &fakeRows{}, nil
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	for frag, vals := range f.rowVals {
		if strings.Contains(sql, frag) {
			return &fakeRow{vals: vals}
		}
	}
	return &fakeRow{err: pgx.ErrNoRows}
}

func (f *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	f.begun++
	return &fakeTx{db: f}, nil
}

// execsMatching returns the recorded statements containing frag.
func (f *fakeDB) execsMatching(frag string) []execCall {
	var out []execCall
	for _, c := range f.execs {
		if strings.Contains(c.sql, frag) {
			out = append(out, c)
		}
	}
	return out
}

// fakeTx delegates statements to its fakeDB and tracks completion.
type fakeTx struct {
	db   *fakeDB
	done bool
}

func (t *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }

func (t *fakeTx) Commit(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.db.commits++
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.db.rollbacks++
	return nil
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return t.db.Exec(ctx, sql, args...)
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return t.db.Query(ctx, sql, args...)
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return t.db.QueryRow(ctx, sql, args...)
}

func (t *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, errors.New("fakeTx: CopyFrom not supported")
}

func (t *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }

func (t *fakeTx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }

func (t *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, errors.New("fakeTx: Prepare not supported")
}

func (t *fakeTx) Conn() *pgx.Conn { return nil }

type fakeRows struct {
	rows [][]interface{}
	idx  int
	err  error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...interface{}) error {
	return scanInto(r.rows[r.idx-1], dest)
}

func (r *fakeRows) Values() ([]interface{}, error) { return r.rows[r.idx-1], nil }
func (r *fakeRows) RawValues() [][]byte            { return nil }
func (r *fakeRows) Conn() *pgx.Conn                { return nil }

type fakeRow struct {
	vals []interface{}
	err  error
}

func (r *fakeRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	return scanInto(r.vals, dest)
}

func scanInto(src, dest []interface{}) error {
	if len(src) != len(dest) {
		return fmt.Errorf("scan: %d values into %d destinations", len(src), len(dest))
	}
	for i, v := range src {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *int:
			*d = v.(int)
		case *int64:
			*d = v.(int64)
		case *[]byte:
			*d = v.([]byte)
		default:
			return fmt.Errorf("scan: unsupported destination %T", dest[i])
		}
	}
	return nil
}
