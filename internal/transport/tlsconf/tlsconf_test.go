package tlsconf_test

import (
	"crypto/tls"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danmuck/locuslink/internal/testutil/tlstest"
	"github.com/danmuck/locuslink/internal/transport/tlsconf"
)

func TestValidateClient(t *testing.T) {
	tests := []struct {
		name string
		cfg  tlsconf.Config
		want error
	}{
		{name: "disabled", cfg: tlsconf.Config{}, want: nil},
		{name: "mutual without tls", cfg: tlsconf.Config{Mutual: true}, want: tlsconf.ErrTLSRequired},
		{name: "missing ca", cfg: tlsconf.Config{Enabled: true}, want: tlsconf.ErrCAFileRequired},
		{name: "insecure skips ca", cfg: tlsconf.Config{Enabled: true, InsecureSkipVerify: true}, want: nil},
		{
			name: "insecure with mutual",
			cfg:  tlsconf.Config{Enabled: true, Mutual: true, InsecureSkipVerify: true},
			want: tlsconf.ErrInsecureWithMutual,
		},
		{
			name: "mutual missing cert",
			cfg:  tlsconf.Config{Enabled: true, Mutual: true, CAFile: "ca.crt", KeyFile: "c.key"},
			want: tlsconf.ErrCertFileRequired,
		},
		{
			name: "mutual missing key",
			cfg:  tlsconf.Config{Enabled: true, Mutual: true, CAFile: "ca.crt", CertFile: "c.crt"},
			want: tlsconf.ErrKeyFileRequired,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.ValidateClient(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateServer(t *testing.T) {
	tests := []struct {
		name string
		cfg  tlsconf.Config
		want error
	}{
		{name: "disabled", cfg: tlsconf.Config{}, want: nil},
		{name: "mutual without tls", cfg: tlsconf.Config{Mutual: true}, want: tlsconf.ErrTLSRequired},
		{name: "missing cert", cfg: tlsconf.Config{Enabled: true, KeyFile: "s.key"}, want: tlsconf.ErrCertFileRequired},
		{name: "missing key", cfg: tlsconf.Config{Enabled: true, CertFile: "s.crt"}, want: tlsconf.ErrKeyFileRequired},
		{
			name: "mutual missing ca",
			cfg:  tlsconf.Config{Enabled: true, Mutual: true, CertFile: "s.crt", KeyFile: "s.key"},
			want: tlsconf.ErrCAFileRequired,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.ValidateServer(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestDisabledBuildsNothing(t *testing.T) {
	client, err := tlsconf.Config{}.Client("localhost")
	if err != nil || client != nil {
		t.Fatalf("expected nil client config, got %v err=%v", client, err)
	}
	server, err := tlsconf.Config{}.Server()
	if err != nil || server != nil {
		t.Fatalf("expected nil server config, got %v err=%v", server, err)
	}
}

func TestBuildMutualConfigs(t *testing.T) {
	ca := tlstest.NewAuthority(t, t.TempDir())

	server, err := ca.HostTLS(t, true).Server()
	if err != nil {
		t.Fatalf("server config: %v", err)
	}
	if server.ClientAuth != tls.RequireAndVerifyClientCert || server.ClientCAs == nil {
		t.Fatalf("expected client cert verification, got %v", server.ClientAuth)
	}
	if len(server.Certificates) != 1 || server.MinVersion != tls.VersionTLS12 {
		t.Fatalf("unexpected server config: certs=%d min=%x", len(server.Certificates), server.MinVersion)
	}

	client, err := ca.ClientTLS(t, true).Client("127.0.0.1")
	if err != nil {
		t.Fatalf("client config: %v", err)
	}
	if client.ServerName != "127.0.0.1" || client.RootCAs == nil || len(client.Certificates) != 1 {
		t.Fatalf("unexpected client config: name=%q certs=%d", client.ServerName, len(client.Certificates))
	}

	named := ca.ClientTLS(t, false)
	named.ServerName = "hostsim.local"
	client, err = named.Client("127.0.0.1")
	if err != nil || client.ServerName != "hostsim.local" {
		t.Fatalf("expected configured server name, got %v err=%v", client, err)
	}
}

func TestGarbageCABundleRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ca.crt")
	if err := os.WriteFile(path, []byte("not a certificate"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := tlsconf.Config{Enabled: true, CAFile: path}.Client("localhost")
	if !errors.Is(err, tlsconf.ErrUnreadableCABundle) {
		t.Fatalf("expected unreadable bundle, got %v", err)
	}
}
