//Copyright 2025 The mariadb-go Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of this software and associated
// documentation files (the "Software"), to deal in the Software without restriction, including without limitation
// the rights to use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of the Software, and to
// permit persons to whom the Software is furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all copies or substantial portions of the
// Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE
// WARRANTIES OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS
// OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR
// OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

package mariadb

import (
	"context"
	"database/sql"
)

// Statement is a prepared statement bound to a connection's session.
// Preparation is deferred to the first use, so creating a statement never
// costs a round-trip on its own. Like the connection it borrows, a
// Statement is not safe for concurrent use.
type Statement struct {
	conn *Connection
	text string
	stmt *sql.Stmt
}

// Text returns the statement text the Statement was created with.
func (s *Statement) Text() string { return s.text }

func (s *Statement) prepare(ctx context.Context) bool {
	if s.stmt != nil {
		return true
	}
	stmt, err := s.conn.conn.PrepareContext(ctx, s.text)
	if err != nil {
		s.conn.report(err)
		return false
	}
	s.stmt = stmt
	return true
}

// Query runs the statement with the given parameters and returns a
// buffered result set, or nil on failure.
func (s *Statement) Query(ctx context.Context, args ...any) *ResultSet {
	if !s.conn.Connect(ctx) || !s.prepare(ctx) {
		return nil
	}
	rows, err := s.stmt.QueryContext(ctx, args...)
	if err != nil {
		s.conn.report(err)
		return nil
	}
	result, err := newResultSet(rows)
	if err != nil {
		s.conn.report(err)
		return nil
	}
	return result
}

// Execute runs the statement and returns its affected-row count, 0 on
// failure.
func (s *Statement) Execute(ctx context.Context, args ...any) uint64 {
	if !s.conn.Connect(ctx) || !s.prepare(ctx) {
		return 0
	}
	result, err := s.stmt.ExecContext(ctx, args...)
	if err != nil {
		s.conn.report(err)
		return 0
	}
	affected, err := result.RowsAffected()
	if err != nil || affected < 0 {
		return 0
	}
	return uint64(affected)
}

// Insert runs the statement and returns the last auto-generated id, 0 on
// failure or when the statement generated none.
func (s *Statement) Insert(ctx context.Context, args ...any) uint64 {
	if !s.conn.Connect(ctx) || !s.prepare(ctx) {
		return 0
	}
	result, err := s.stmt.ExecContext(ctx, args...)
	if err != nil {
		s.conn.report(err)
		return 0
	}
	id, err := result.LastInsertId()
	if err != nil || id < 0 {
		return 0
	}
	return uint64(id)
}

// Close releases the prepared statement on the server. Closing an
// unprepared or already closed statement is a no-op.
func (s *Statement) Close() error {
	if s.stmt == nil {
		return nil
	}
	err := s.stmt.Close()
	s.stmt = nil
	return err
}
