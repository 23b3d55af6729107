package ude

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
)

// LoadCredentials returns TLS credentials which trust the PEM encoded
// root certificates in certPEM
func LoadCredentials(certPEM []byte) (*tls.Config, error) {
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(certPEM) {
		return nil, errors.New("loadCredentials: no certificates found " +
			"in PEM data")
	}

	return &tls.Config{
		RootCAs:    pool,
		MinVersion: tls.VersionTLS12,
	}, nil
}

// LoadCredentialsFile returns TLS credentials which trust the root
// certificates in the PEM file at path
func LoadCredentialsFile(path string) (*tls.Config, error) {
	certPEM, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loadCredentialsFile: could not read "+
			"certificate: %w", err)
	}

	creds, err := LoadCredentials(certPEM)
	if err != nil {
		return nil, fmt.Errorf("loadCredentialsFile: %v: %w", path, err)
	}
	return creds, nil
}
