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
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-sql-driver/mysql"
)

// Error carries the server error code and message of a failed operation.
// Code is 0 for failures that did not originate from the server (TLS setup,
// dial errors, driver-level problems).
type Error struct {
	Code    uint16
	Message string
}

func (e *Error) Error() string {
	if e.Code == 0 {
		return "mariadb: " + e.Message
	}
	return fmt.Sprintf("mariadb: error %d: %s", e.Code, e.Message)
}

// report records a failure on the side channel: the connection's last error,
// the optional handler, and the logger when one is configured. Operations
// never panic on failure; they signal it through their sentinel return value
// and leave the details here.
func (c *Connection) report(err error) {
	reported := &Error{Message: err.Error()}
	var nativeErr *mysql.MySQLError
	if errors.As(err, &nativeErr) {
		reported.Code = nativeErr.Number
		reported.Message = nativeErr.Message
	}
	c.lastErr = reported
	if c.onError != nil {
		c.onError(reported)
	}
	if c.logger != nil {
		c.logger.Error("operation failed",
			slog.Int("code", int(reported.Code)),
			slog.String("message", reported.Message))
	}
}

func (c *Connection) reportf(format string, args ...any) {
	c.report(fmt.Errorf(format, args...))
}

// LastError returns the most recently reported failure, or nil if nothing
// has failed yet. It is not cleared by successful operations.
func (c *Connection) LastError() *Error { return c.lastErr }

// OnError installs a handler invoked for every reported failure.
func (c *Connection) OnError(handler func(*Error)) { c.onError = handler }

// SetLogger makes the connection log reported failures. Logging is off by
// default.
func (c *Connection) SetLogger(logger *slog.Logger) { c.logger = logger }
