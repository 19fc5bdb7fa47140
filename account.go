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

// Account describes how to reach and configure a server session: address,
// credentials, optional TLS material, the default schema, the autocommit
// default, and any session options to apply after the handshake.
//
// An Account is shared by reference between the caller and every Connection
// created from it; connections treat it as read-only. Mutating an Account
// while a connection derived from it is live only affects sessions
// established afterwards.
type Account struct {
	host       string
	port       uint16
	user       string
	password   string
	schema     string
	unixSocket string

	sslKey    string
	sslCert   string
	sslCA     string
	sslCAPath string
	sslCipher string

	autoCommit bool
	options    map[string]string
}

// NewAccount creates an account for a TCP endpoint. Autocommit defaults to
// on, matching the server default.
func NewAccount(host string, port uint16, user, password string) *Account {
	return &Account{
		host:       host,
		port:       port,
		user:       user,
		password:   password,
		autoCommit: true,
		options:    make(map[string]string),
	}
}

func (a *Account) Host() string { return a.host }

func (a *Account) Port() uint16 { return a.port }

func (a *Account) User() string { return a.user }

func (a *Account) Password() string { return a.password }

// Schema is the default database selected right after connecting. Empty
// means no schema is selected.
func (a *Account) Schema() string { return a.schema }

func (a *Account) SetSchema(schema string) { a.schema = schema }

// UnixSocket, when non-empty, makes connections dial the local socket
// instead of host:port.
func (a *Account) UnixSocket() string { return a.unixSocket }

func (a *Account) SetUnixSocket(socket string) { a.unixSocket = socket }

// EnableSSL configures client TLS. key and cert name the client key pair,
// ca an optional PEM bundle, caPath an optional directory of PEM files, and
// cipher an optional cipher suite restriction (standard suite name). An
// empty key means TLS is not requested at all.
func (a *Account) EnableSSL(key, cert, ca, caPath, cipher string) {
	a.sslKey = key
	a.sslCert = cert
	a.sslCA = ca
	a.sslCAPath = caPath
	a.sslCipher = cipher
}

func (a *Account) SSLKey() string { return a.sslKey }

func (a *Account) SSLCertificate() string { return a.sslCert }

func (a *Account) SSLCA() string { return a.sslCA }

func (a *Account) SSLCAPath() string { return a.sslCAPath }

func (a *Account) SSLCipher() string { return a.sslCipher }

// AutoCommit is the autocommit mode applied to every new session.
func (a *Account) AutoCommit() bool { return a.autoCommit }

func (a *Account) SetAutoCommit(autoCommit bool) { a.autoCommit = autoCommit }

// SetOption records a session option applied after every successful
// handshake, as SET OPTION <name>=<value>. Application order is undefined.
func (a *Account) SetOption(name, value string) { a.options[name] = value }

// Option returns a configured session option value.
func (a *Account) Option(name string) (string, bool) {
	value, ok := a.options[name]
	return value, ok
}

// Options exposes the session option map. Callers must not mutate it while
// a connection is being established.
func (a *Account) Options() map[string]string { return a.options }
