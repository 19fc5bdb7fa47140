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
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"path/filepath"
)

// newTLSConfig builds the TLS parameters requested by the account: the
// client key/certificate pair, the CA bundle (a PEM file, a directory of
// PEM files, or both), and an optional cipher suite restriction. Only
// called when the account carries a TLS key.
func newTLSConfig(account *Account) (*tls.Config, error) {
	certificate, err := tls.LoadX509KeyPair(account.SSLCertificate(), account.SSLKey())
	if err != nil {
		return nil, err
	}
	cfg := &tls.Config{Certificates: []tls.Certificate{certificate}}

	if account.SSLCA() != "" || account.SSLCAPath() != "" {
		pool := x509.NewCertPool()
		if ca := account.SSLCA(); ca != "" {
			pem, err := os.ReadFile(ca)
			if err != nil {
				return nil, err
			}
			if !pool.AppendCertsFromPEM(pem) {
				return nil, fmt.Errorf("no CA certificates found in %s", ca)
			}
		}
		if dir := account.SSLCAPath(); dir != "" {
			entries, err := os.ReadDir(dir)
			if err != nil {
				return nil, err
			}
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				pem, err := os.ReadFile(filepath.Join(dir, entry.Name()))
				if err != nil {
					return nil, err
				}
				pool.AppendCertsFromPEM(pem)
			}
		}
		cfg.RootCAs = pool
	}

	if cipher := account.SSLCipher(); cipher != "" {
		id, err := cipherSuiteID(cipher)
		if err != nil {
			return nil, err
		}
		cfg.CipherSuites = []uint16{id}
	}
	return cfg, nil
}

// cipherSuiteID resolves a cipher suite by its standard name.
func cipherSuiteID(name string) (uint16, error) {
	for _, suite := range tls.CipherSuites() {
		if suite.Name == name {
			return suite.ID, nil
		}
	}
	for _, suite := range tls.InsecureCipherSuites() {
		if suite.Name == name {
			return suite.ID, nil
		}
	}
	return 0, fmt.Errorf("unknown cipher suite %q", name)
}
