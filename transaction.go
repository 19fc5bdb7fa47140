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
	"fmt"
)

// IsolationLevel selects the isolation of a transaction created through
// Connection.CreateTransaction.
type IsolationLevel int

const (
	IsolationRepeatableRead IsolationLevel = iota
	IsolationReadCommitted
	IsolationReadUncommitted
	IsolationSerializable
)

func (l IsolationLevel) String() string {
	switch l {
	case IsolationReadCommitted:
		return "READ COMMITTED"
	case IsolationReadUncommitted:
		return "READ UNCOMMITTED"
	case IsolationSerializable:
		return "SERIALIZABLE"
	default:
		return "REPEATABLE READ"
	}
}

// Transaction is an explicit transaction on the connection's session,
// started by CreateTransaction. The caller finishes it with Commit or
// Rollback; after either, further Commit/Rollback calls are no-ops. The
// transaction is started with a consistent snapshot when requested at
// creation, so the read view is established atomically with the start.
//
// Transaction state is not consulted by database/sql; the statements go
// straight to the session, which the Connection owns exclusively.
type Transaction struct {
	conn       *Connection
	level      IsolationLevel
	snapshot   bool
	done       bool
	savepoints uint
}

// IsolationLevel returns the level the transaction was started with.
func (t *Transaction) IsolationLevel() IsolationLevel { return t.level }

// ConsistentSnapshot reports whether the transaction started from a
// consistent snapshot.
func (t *Transaction) ConsistentSnapshot() bool { return t.snapshot }

func (t *Transaction) begin(ctx context.Context) bool {
	if err := t.conn.exec(ctx, "SET TRANSACTION ISOLATION LEVEL "+t.level.String()); err != nil {
		t.conn.report(err)
		return false
	}
	start := "START TRANSACTION"
	if t.snapshot {
		start += " WITH CONSISTENT SNAPSHOT"
	}
	if err := t.conn.exec(ctx, start); err != nil {
		t.conn.report(err)
		return false
	}
	return true
}

// Commit makes the transaction's changes permanent. Returns false on
// failure; true (without a round-trip) when the transaction has already
// finished.
func (t *Transaction) Commit(ctx context.Context) bool {
	if t.done {
		return true
	}
	if err := t.conn.exec(ctx, "COMMIT"); err != nil {
		t.conn.report(err)
		return false
	}
	t.done = true
	return true
}

// Rollback discards the transaction's changes. Same finish semantics as
// Commit.
func (t *Transaction) Rollback(ctx context.Context) bool {
	if t.done {
		return true
	}
	if err := t.conn.exec(ctx, "ROLLBACK"); err != nil {
		t.conn.report(err)
		return false
	}
	t.done = true
	return true
}

// CreateSavepoint marks a named point inside the transaction that can later
// be released or rolled back to without ending the transaction. Names are
// generated (SP1, SP2, ...). Returns nil on failure or on a finished
// transaction.
func (t *Transaction) CreateSavepoint(ctx context.Context) *SavePoint {
	if t.done {
		return nil
	}
	t.savepoints++
	name := fmt.Sprintf("SP%d", t.savepoints)
	if err := t.conn.exec(ctx, "SAVEPOINT "+name); err != nil {
		t.conn.report(err)
		return nil
	}
	return &SavePoint{tx: t, name: name}
}

// SavePoint is a named rollback point inside a transaction.
type SavePoint struct {
	tx   *Transaction
	name string
}

// Name returns the generated savepoint name.
func (sp *SavePoint) Name() string { return sp.name }

// Release discards the savepoint, keeping every change made since it was
// set.
func (sp *SavePoint) Release(ctx context.Context) bool {
	if err := sp.tx.conn.exec(ctx, "RELEASE SAVEPOINT "+sp.name); err != nil {
		sp.tx.conn.report(err)
		return false
	}
	return true
}

// Rollback undoes every change made since the savepoint was set; the
// enclosing transaction stays open.
func (sp *SavePoint) Rollback(ctx context.Context) bool {
	if err := sp.tx.conn.exec(ctx, "ROLLBACK TO SAVEPOINT "+sp.name); err != nil {
		sp.tx.conn.report(err)
		return false
	}
	return true
}
