// Package tlsconf validates and builds TLS settings for the host bridge,
// on both the locusctl side and the simulated host side.
package tlsconf

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	ErrTLSRequired        = errors.New("tlsconf: tls required")
	ErrCertFileRequired   = errors.New("tlsconf: cert file required")
	ErrKeyFileRequired    = errors.New("tlsconf: key file required")
	ErrCAFileRequired     = errors.New("tlsconf: ca file required")
	ErrInsecureWithMutual = errors.New("tlsconf: insecure skip verify not allowed with mutual tls")
	ErrUnreadableCABundle = errors.New("tlsconf: no certificates in ca bundle")
)

// Config is the TLS section shared by client and host settings. A zero
// Config means plain HTTP.
type Config struct {
	Enabled            bool
	Mutual             bool
	CAFile             string
	CertFile           string
	KeyFile            string
	ServerName         string
	InsecureSkipVerify bool
}

func (c Config) ValidateClient() error {
	if c.Mutual && !c.Enabled {
		return ErrTLSRequired
	}
	if !c.Enabled {
		return nil
	}
	if c.Mutual && c.InsecureSkipVerify {
		return ErrInsecureWithMutual
	}
	if strings.TrimSpace(c.CAFile) == "" && !c.InsecureSkipVerify {
		return ErrCAFileRequired
	}
	if c.Mutual {
		if strings.TrimSpace(c.CertFile) == "" {
			return ErrCertFileRequired
		}
		if strings.TrimSpace(c.KeyFile) == "" {
			return ErrKeyFileRequired
		}
	}
	return nil
}

func (c Config) ValidateServer() error {
	if c.Mutual && !c.Enabled {
		return ErrTLSRequired
	}
	if !c.Enabled {
		return nil
	}
	if strings.TrimSpace(c.CertFile) == "" {
		return ErrCertFileRequired
	}
	if strings.TrimSpace(c.KeyFile) == "" {
		return ErrKeyFileRequired
	}
	if c.Mutual && strings.TrimSpace(c.CAFile) == "" {
		return ErrCAFileRequired
	}
	return nil
}

// Client builds the dialing side. host is used as ServerName when none is
// configured. Returns nil when TLS is disabled.
func (c Config) Client(host string) (*tls.Config, error) {
	if err := c.ValidateClient(); err != nil {
		return nil, err
	}
	if !c.Enabled {
		return nil, nil
	}
	cfg := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: c.InsecureSkipVerify,
		ServerName:         strings.TrimSpace(c.ServerName),
	}
	if cfg.ServerName == "" {
		cfg.ServerName = host
	}
	if caPath := strings.TrimSpace(c.CAFile); caPath != "" {
		pool, err := loadPool(caPath)
		if err != nil {
			return nil, err
		}
		cfg.RootCAs = pool
	}
	if c.Mutual {
		cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, err
		}
		cfg.Certificates = []tls.Certificate{cert}
	}
	return cfg, nil
}

// Server builds the listening side. Returns nil when TLS is disabled.
func (c Config) Server() (*tls.Config, error) {
	if err := c.ValidateServer(); err != nil {
		return nil, err
	}
	if !c.Enabled {
		return nil, nil
	}
	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return nil, err
	}
	cfg := &tls.Config{
		MinVersion:   tls.VersionTLS12,
		Certificates: []tls.Certificate{cert},
		ClientAuth:   tls.NoClientCert,
	}
	if c.Mutual {
		pool, err := loadPool(c.CAFile)
		if err != nil {
			return nil, err
		}
		cfg.ClientAuth = tls.RequireAndVerifyClientCert
		cfg.ClientCAs = pool
	}
	return cfg, nil
}

func loadPool(path string) (*x509.CertPool, error) {
	caPEM, err := os.ReadFile(strings.TrimSpace(path))
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if ok := pool.AppendCertsFromPEM(caPEM); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnreadableCABundle, path)
	}
	return pool, nil
}
