package client

import (
	"crypto/tls"
	"crypto/x509"
	"net/http"
	"os"

	"github.com/pkg/errors"
)

// newTransport returns a plain transport unless tls files are configured;
// a ca file alone verifies the server, a certificate and key pair are
// presented to the server as well
func newTransport(sslCaFile, sslCrtFile, sslKeyFile string) (*http.Transport, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if sslCaFile == "" && sslCrtFile == "" && sslKeyFile == "" {
		return transport, nil
	}
	tlsConfig := &tls.Config{
		// TLS versions below 1.2 are considered insecure
		// see https://www.rfc-editor.org/rfc/rfc7525.txt for details
		MinVersion: tls.VersionTLS12,
	}
	if sslCaFile != "" {
		bytes, err := os.ReadFile(sslCaFile)
		if err != nil {
			return nil, errors.Wrap(err, "error while reading ca file")
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(bytes) {
			return nil, errors.Errorf("no certificates found in %s", sslCaFile)
		}
		tlsConfig.RootCAs = caCertPool
	}
	switch {
	case sslCrtFile != "" && sslKeyFile != "":
		certificate, err := tls.LoadX509KeyPair(sslCrtFile, sslKeyFile)
		if err != nil {
			return nil, errors.Wrap(err, "error while loading certificate")
		}
		tlsConfig.Certificates = []tls.Certificate{certificate}
	case sslCrtFile != "" || sslKeyFile != "":
		return nil, errors.New("both SSL_CRT_FILE and SSL_KEY_FILE are required")
	}
	transport.TLSClientConfig = tlsConfig
	return transport, nil
}
