package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// rowStub implements pgx.Row.
type rowStub struct{ scan func(dest ...any) error }

func (r rowStub) Scan(dest ...any) error { return r.scan(dest...) }

// rowsStub implements pgx.Rows over a fixed list of scan functions.
type rowsStub struct {
	scans []func(dest ...any) error
	idx   int
	err   error
}

func (r *rowsStub) Close()                                       {}
func (r *rowsStub) Err() error                                   { return r.err }
func (r *rowsStub) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *rowsStub) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *rowsStub) Values() ([]any, error)                       { return nil, nil }
func (r *rowsStub) RawValues() [][]byte                          { return nil }
func (r *rowsStub) Conn() *pgx.Conn                              { return nil }

func (r *rowsStub) Next() bool {
	if r.idx >= len(r.scans) {
		return false
	}
	r.idx++
	return true
}

func (r *rowsStub) Scan(dest ...any) error { return r.scans[r.idx-1](dest...) }

// poolStub implements postgres.PgxPool and records every call so tests can
// assert SQL shapes and arguments.
type poolStub struct {
	execErr  error
	execSQL  []string
	execArgs [][]any

	row     pgx.Row
	rowSQL  string
	rowArgs []any

	rows      pgx.Rows
	queryErr  error
	querySQL  string
	queryArgs []any
}

func (p *poolStub) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	p.execSQL = append(p.execSQL, sql)
	p.execArgs = append(p.execArgs, args)
	return pgconn.CommandTag{}, p.execErr
}

func (p *poolStub) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	p.rowSQL = sql
	p.rowArgs = args
	if p.row == nil {
		return rowStub{scan: func(...any) error { return errors.New("no row configured") }}
	}
	return p.row
}

func (p *poolStub) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	p.querySQL = sql
	p.queryArgs = args
	if p.queryErr != nil {
		return nil, p.queryErr
	}
	if p.rows == nil {
		return &rowsStub{}, nil
	}
	return p.rows, nil
}

// assign copies vals into the scan destinations the way pgx would, with nil
// meaning SQL NULL (the destination keeps its zero value).
func assign(dest []any, vals ...any) error {
	if len(dest) != len(vals) {
		return fmt.Errorf("scan expects %d destinations, got %d", len(vals), len(dest))
	}
	for i, v := range vals {
		if v == nil {
			continue
		}
		rd := reflect.ValueOf(dest[i]).Elem()
		rv := reflect.ValueOf(v)
		switch {
		case rv.Type().AssignableTo(rd.Type()):
			rd.Set(rv)
		case rv.Type().ConvertibleTo(rd.Type()):
			rd.Set(rv.Convert(rd.Type()))
		default:
			return fmt.Errorf("cannot assign %T to %T", v, dest[i])
		}
	}
	return nil
}
