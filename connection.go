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

// Package mariadb is a thin session-oriented facade over the MySQL/MariaDB
// native driver. A Connection owns one dedicated server session and tracks
// the state applied to it (schema, charset, autocommit); statements,
// transactions, and result sets borrow that session.
//
// Failures are never raised as panics. Every operation returns a sentinel
// (false, nil, or 0) and records the server error code and message, which
// can be read back through Connection.LastError.
package mariadb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Connection is a stateful session with a MySQL/MariaDB server.
//
// The session is established lazily: every operation that needs the server
// first runs Connect, which is an idempotent no-op on a live session. A
// Connection and the objects borrowing it are not safe for concurrent use
// by multiple goroutines; callers sharing one must serialize access.
type Connection struct {
	account *Account

	// db and conn together are the native session handle. conn is the
	// dedicated driver connection; db is the pool it was drawn from,
	// capped at a single connection so the session is never shared.
	db      *sql.DB
	conn    *sql.Conn
	tlsName string

	schema     string
	charset    string
	autoCommit bool

	lastErr *Error
	onError func(*Error)
	logger  *slog.Logger

	// open allocates the handle; swappable so tests can supply a mock
	// driver in place of the real connector.
	open func(ctx context.Context) (db *sql.DB, tlsName string, err error)
}

// NewConnection creates a disconnected Connection over the given account.
// The autocommit cache starts as true, mirroring the server default.
func NewConnection(account *Account) *Connection {
	c := &Connection{
		account:    account,
		autoCommit: true,
	}
	c.open = c.openSession
	return c
}

// Account returns the account this connection was created from.
func (c *Connection) Account() *Account { return c.account }

// Connected reports whether a live session exists. The liveness check is a
// driver-level ping on the dedicated connection, a status probe rather than
// a query round-trip. It has no side effects.
func (c *Connection) Connected(ctx context.Context) bool {
	if c.conn == nil {
		return false
	}
	return c.conn.PingContext(ctx) == nil
}

// Connect establishes the session if needed; it returns true immediately
// when already connected. On success the session is fully configured: the
// account's autocommit default is applied, its default schema is selected
// when non-empty, and every session option has been issued. If any step
// fails the session is torn down again, so a partially configured session
// is never observable.
func (c *Connection) Connect(ctx context.Context) bool {
	if c.Connected(ctx) {
		return true
	}
	// A dead session may still hold driver resources; release them
	// before dialing a fresh one.
	c.Disconnect()

	db, tlsName, err := c.open(ctx)
	if err != nil {
		c.report(err)
		return false
	}
	c.db = db
	c.tlsName = tlsName

	conn, err := db.Conn(ctx)
	if err != nil {
		c.report(err)
		c.Disconnect()
		return false
	}
	c.conn = conn

	if !c.SetAutoCommit(ctx, c.account.AutoCommit()) {
		c.Disconnect()
		return false
	}
	if schema := c.account.Schema(); schema != "" {
		if !c.SetSchema(ctx, schema) {
			c.Disconnect()
			return false
		}
	}
	for name, value := range c.account.Options() {
		if affected := c.Execute(ctx, "SET OPTION "+name+"="+value); affected != 1 {
			c.reportf("session option %s affected %d rows, want 1", name, affected)
			c.Disconnect()
			return false
		}
	}
	return true
}

// openSession allocates the native session handle: driver configuration,
// optional TLS registration, and the connector. The network handshake
// itself happens when Connect acquires the dedicated connection.
func (c *Connection) openSession(ctx context.Context) (*sql.DB, string, error) {
	cfg := mysql.NewConfig()
	cfg.User = c.account.User()
	cfg.Passwd = c.account.Password()
	if socket := c.account.UnixSocket(); socket != "" {
		cfg.Net = "unix"
		cfg.Addr = socket
	} else {
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(c.account.Host(), strconv.Itoa(int(c.account.Port())))
	}
	// Multi-statement support is always requested so Execute can submit
	// several semicolon-separated statements in one text.
	cfg.MultiStatements = true
	cfg.AllowNativePasswords = true

	tlsName := ""
	if c.account.SSLKey() != "" {
		tlsCfg, err := newTLSConfig(c.account)
		if err != nil {
			return nil, "", err
		}
		tlsName = fmt.Sprintf("mariadb-%p", c)
		if err := mysql.RegisterTLSConfig(tlsName, tlsCfg); err != nil {
			return nil, "", err
		}
		cfg.TLSConfig = tlsName
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		if tlsName != "" {
			mysql.DeregisterTLSConfig(tlsName)
		}
		return nil, "", err
	}

	db := sql.OpenDB(connector)
	// The session is exclusively owned; never let the pool grow past it.
	db.SetMaxOpenConns(1)
	return db, tlsName, nil
}

// Disconnect closes the session and releases everything registered when it
// was acquired, including the TLS configuration held by the driver. Safe to
// call any number of times; cached schema/charset/autocommit values are
// kept for the next session.
func (c *Connection) Disconnect() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	if c.db != nil {
		_ = c.db.Close()
		c.db = nil
	}
	if c.tlsName != "" {
		mysql.DeregisterTLSConfig(c.tlsName)
		c.tlsName = ""
	}
}

// Close disconnects and makes Connection usable with io.Closer plumbing.
func (c *Connection) Close() error {
	c.Disconnect()
	return nil
}

// Schema returns the cached schema name; it does not query the server.
func (c *Connection) Schema() string { return c.schema }

// SetSchema selects the default database for the session, connecting first
// if needed. On failure the error is reported and false returned, but the
// session stays connected and the cached schema keeps its previous value;
// unlike the setup path inside Connect, a user-facing failure here does not
// tear the session down.
func (c *Connection) SetSchema(ctx context.Context, schema string) bool {
	if !c.Connect(ctx) {
		return false
	}
	if err := c.exec(ctx, "USE "+quoteIdentifier(schema)); err != nil {
		c.report(err)
		return false
	}
	c.schema = schema
	return true
}

// Charset returns the cached character set; it does not query the server.
func (c *Connection) Charset() string { return c.charset }

// SetCharset changes the session character set. Failure semantics match
// SetSchema: reported, false returned, session left usable.
func (c *Connection) SetCharset(ctx context.Context, charset string) bool {
	if !c.Connect(ctx) {
		return false
	}
	if err := c.exec(ctx, "SET NAMES "+charset); err != nil {
		c.report(err)
		return false
	}
	c.charset = charset
	return true
}

// AutoCommit returns the cached autocommit mode.
func (c *Connection) AutoCommit() bool { return c.autoCommit }

// SetAutoCommit switches the server-side autocommit mode. When the
// requested mode already matches the cache this is a no-op returning true
// with no server round-trip.
func (c *Connection) SetAutoCommit(ctx context.Context, autoCommit bool) bool {
	if c.autoCommit == autoCommit {
		return true
	}
	if !c.Connect(ctx) {
		return false
	}
	mode := "0"
	if autoCommit {
		mode = "1"
	}
	if err := c.exec(ctx, "SET autocommit="+mode); err != nil {
		c.report(err)
		return false
	}
	c.autoCommit = autoCommit
	return true
}

// Query runs a statement expected to produce rows and returns the fully
// buffered result set, or nil on failure.
func (c *Connection) Query(ctx context.Context, query string) *ResultSet {
	if !c.Connect(ctx) {
		return nil
	}
	rows, err := c.conn.QueryContext(ctx, query)
	if err != nil {
		c.report(err)
		return nil
	}
	result, err := newResultSet(rows)
	if err != nil {
		c.report(err)
		return nil
	}
	return result
}

// Execute runs one or more semicolon-separated statements and returns the
// cumulative affected-row count across them. Result sets produced by
// statements inside the text are discarded; only statements without a
// result set contribute to the total. On failure the error is reported and
// the count accumulated up to that point is returned.
func (c *Connection) Execute(ctx context.Context, query string) uint64 {
	if !c.Connect(ctx) {
		return 0
	}
	var total uint64
	err := c.conn.Raw(func(driverConn any) error {
		execer, ok := driverConn.(driver.ExecerContext)
		if !ok {
			return errors.New("driver does not implement ExecerContext")
		}
		result, err := execer.ExecContext(ctx, query, nil)
		if err != nil {
			return err
		}
		total = sumAffected(result)
		return nil
	})
	if err != nil {
		c.report(err)
	}
	return total
}

// sumAffected totals the affected-row counts of every statement in a
// submitted text. The native driver drains all pending results during the
// call and exposes the per-statement counts through its Result extension;
// statements that produced a result set report no affected rows there.
func sumAffected(result driver.Result) uint64 {
	var total uint64
	if native, ok := result.(mysql.Result); ok {
		for _, affected := range native.AllRowsAffected() {
			if affected > 0 {
				total += uint64(affected)
			}
		}
		return total
	}
	if affected, err := result.RowsAffected(); err == nil && affected > 0 {
		total = uint64(affected)
	}
	return total
}

// Insert runs a single statement and returns the last auto-generated id on
// the session, or 0 when the statement failed or generated none.
func (c *Connection) Insert(ctx context.Context, query string) uint64 {
	if !c.Connect(ctx) {
		return 0
	}
	result, err := c.conn.ExecContext(ctx, query)
	if err != nil {
		c.report(err)
		return 0
	}
	id, err := result.LastInsertId()
	if err != nil {
		c.report(err)
		return 0
	}
	if id < 0 {
		return 0
	}
	return uint64(id)
}

// CreateStatement binds a prepared statement to this connection. The
// statement is prepared lazily on first use; creation only ensures the
// session is live. Returns nil when connecting fails.
func (c *Connection) CreateStatement(ctx context.Context, query string) *Statement {
	if !c.Connect(ctx) {
		return nil
	}
	return &Statement{conn: c, text: query}
}

// CreateTransaction starts an explicit transaction on the session with the
// requested isolation level, optionally established from a consistent
// snapshot. Returns nil when connecting or starting fails.
func (c *Connection) CreateTransaction(ctx context.Context, level IsolationLevel, consistentSnapshot bool) *Transaction {
	if !c.Connect(ctx) {
		return nil
	}
	tx := &Transaction{conn: c, level: level, snapshot: consistentSnapshot}
	if !tx.begin(ctx) {
		return nil
	}
	return tx
}

// exec runs a single side-effect statement on the live session.
func (c *Connection) exec(ctx context.Context, statement string) error {
	if c.conn == nil {
		return errors.New("not connected")
	}
	_, err := c.conn.ExecContext(ctx, statement)
	return err
}

func quoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
