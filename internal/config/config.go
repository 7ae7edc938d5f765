package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/locuslink/internal/hostapp"
	"github.com/danmuck/locuslink/internal/logging"
	"github.com/danmuck/locuslink/internal/transport/tlsconf"
)

// ClientConfig drives locusctl: which hosts exist and how to reach them.
type ClientConfig struct {
	LogLevel      string
	Preference    []hostapp.Flavor
	BridgeAddr    string
	BridgeToken   string
	Timeout       time.Duration
	Retry         RetryConfig
	TLS           tlsconf.Config
	Installations []InstallationConfig
}

type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
	Jitter       bool
}

type InstallationConfig struct {
	Flavor      string `toml:"flavor"`
	Package     string `toml:"package"`
	VersionCode int32  `toml:"version_code"`
	VersionName string `toml:"version_name"`
}

// HostSimConfig drives the simulated host app.
type HostSimConfig struct {
	LogLevel     string
	Addr         string
	Flavor       hostapp.Flavor
	Package      string
	VersionCode  int32
	VersionName  string
	CorsOrigins  []string
	AuthToken    string
	TLS          tlsconf.Config
	MissingTiles int32
	Profiles     []ProfileConfig
}

type ProfileConfig struct {
	ID          int64  `toml:"id"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		LogLevel:   "info",
		Preference: append([]hostapp.Flavor(nil), hostapp.DefaultPreference...),
		Timeout:    5 * time.Second,
		Retry: RetryConfig{
			MaxAttempts:  3,
			InitialDelay: 250 * time.Millisecond,
			Multiplier:   2.0,
			MaxDelay:     2 * time.Second,
			Jitter:       true,
		},
	}
}

func DefaultHostSimConfig() HostSimConfig {
	return HostSimConfig{
		LogLevel:    "info",
		Addr:        ":9300",
		Flavor:      hostapp.FlavorPro,
		Package:     hostapp.FlavorPro.PackageName(),
		VersionCode: hostapp.VersionUpdate13,
		VersionName: "4.0.0",
		CorsOrigins: []string{"http://localhost:3000"},
		Profiles: []ProfileConfig{
			{ID: 1, Name: "Walk", Description: "walking and hiking"},
			{ID: 2, Name: "Cycle", Description: "road and mtb"},
		},
	}
}

// clientFile is the client.toml key mapping.
type clientFile struct {
	LogLevel      string               `toml:"log_level"`
	Preference    []string             `toml:"preference"`
	BridgeAddr    string               `toml:"bridge_addr"`
	BridgeToken   string               `toml:"bridge_token"`
	Timeout       string               `toml:"timeout"`
	RetryAttempts int                  `toml:"retry_max_attempts"`
	RetryInitial  string               `toml:"retry_initial_delay"`
	RetryMax      string               `toml:"retry_max_delay"`
	RetryMult     float64              `toml:"retry_multiplier"`
	RetryJitter   bool                 `toml:"retry_jitter"`
	TLS           tlsFile              `toml:"tls"`
	Installations []InstallationConfig `toml:"installations"`
}

// hostSimFile is the hostsim.toml key mapping.
type hostSimFile struct {
	LogLevel     string          `toml:"log_level"`
	Addr         string          `toml:"addr"`
	Flavor       string          `toml:"flavor"`
	Package      string          `toml:"package"`
	VersionCode  int32           `toml:"version_code"`
	VersionName  string          `toml:"version_name"`
	CorsOrigins  []string        `toml:"cors_origins"`
	AuthToken    string          `toml:"auth_token"`
	TLS          tlsFile         `toml:"tls"`
	MissingTiles int32           `toml:"missing_tiles"`
	Profiles     []ProfileConfig `toml:"profiles"`
}

// tlsFile is the [tls] table shared by both files.
type tlsFile struct {
	Enabled            bool   `toml:"enabled"`
	Mutual             bool   `toml:"mutual"`
	CAFile             string `toml:"ca_file"`
	CertFile           string `toml:"cert_file"`
	KeyFile            string `toml:"key_file"`
	ServerName         string `toml:"server_name"`
	InsecureSkipVerify bool   `toml:"insecure_skip_verify"`
}

func (f tlsFile) config() tlsconf.Config {
	return tlsconf.Config{
		Enabled:            f.Enabled,
		Mutual:             f.Mutual,
		CAFile:             strings.TrimSpace(f.CAFile),
		CertFile:           strings.TrimSpace(f.CertFile),
		KeyFile:            strings.TrimSpace(f.KeyFile),
		ServerName:         strings.TrimSpace(f.ServerName),
		InsecureSkipVerify: f.InsecureSkipVerify,
	}
}

// LoadClientConfig overlays the keys present in path onto the defaults.
func LoadClientConfig(path string) (ClientConfig, error) {
	cfg := DefaultClientConfig()

	var raw clientFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return ClientConfig{}, fmt.Errorf("load client config: %w", err)
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("preference") {
		pref, err := hostapp.ParsePreference(raw.Preference)
		if err != nil {
			return ClientConfig{}, fmt.Errorf("load client config: preference: %w", err)
		}
		cfg.Preference = pref
	}
	if meta.IsDefined("bridge_addr") {
		cfg.BridgeAddr = strings.TrimSpace(raw.BridgeAddr)
	}
	if meta.IsDefined("bridge_token") {
		cfg.BridgeToken = strings.TrimSpace(raw.BridgeToken)
	}
	if meta.IsDefined("timeout") {
		if cfg.Timeout, err = parseDuration("timeout", raw.Timeout); err != nil {
			return ClientConfig{}, err
		}
	}
	if meta.IsDefined("retry_max_attempts") {
		cfg.Retry.MaxAttempts = raw.RetryAttempts
	}
	if meta.IsDefined("retry_initial_delay") {
		if cfg.Retry.InitialDelay, err = parseDuration("retry_initial_delay", raw.RetryInitial); err != nil {
			return ClientConfig{}, err
		}
	}
	if meta.IsDefined("retry_max_delay") {
		if cfg.Retry.MaxDelay, err = parseDuration("retry_max_delay", raw.RetryMax); err != nil {
			return ClientConfig{}, err
		}
	}
	if meta.IsDefined("retry_multiplier") {
		cfg.Retry.Multiplier = raw.RetryMult
	}
	if meta.IsDefined("retry_jitter") {
		cfg.Retry.Jitter = raw.RetryJitter
	}
	if meta.IsDefined("tls") {
		cfg.TLS = raw.TLS.config()
	}
	if meta.IsDefined("installations") {
		cfg.Installations = raw.Installations
	}

	if err := ValidateClientConfig(cfg); err != nil {
		return ClientConfig{}, err
	}
	return cfg, nil
}

func LoadHostSimConfig(path string) (HostSimConfig, error) {
	cfg := DefaultHostSimConfig()

	var raw hostSimFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return HostSimConfig{}, fmt.Errorf("load hostsim config: %w", err)
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("addr") {
		cfg.Addr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("flavor") {
		if cfg.Flavor, err = hostapp.ParseFlavor(raw.Flavor); err != nil {
			return HostSimConfig{}, fmt.Errorf("load hostsim config: %w", err)
		}
		if !meta.IsDefined("package") {
			cfg.Package = cfg.Flavor.PackageName()
		}
	}
	if meta.IsDefined("package") {
		cfg.Package = strings.TrimSpace(raw.Package)
	}
	if meta.IsDefined("version_code") {
		cfg.VersionCode = raw.VersionCode
	}
	if meta.IsDefined("version_name") {
		cfg.VersionName = strings.TrimSpace(raw.VersionName)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = raw.CorsOrigins
	}
	if meta.IsDefined("auth_token") {
		cfg.AuthToken = strings.TrimSpace(raw.AuthToken)
	}
	if meta.IsDefined("tls") {
		cfg.TLS = raw.TLS.config()
	}
	if meta.IsDefined("missing_tiles") {
		cfg.MissingTiles = raw.MissingTiles
	}
	if meta.IsDefined("profiles") {
		cfg.Profiles = raw.Profiles
	}

	if err := ValidateHostSimConfig(cfg); err != nil {
		return HostSimConfig{}, err
	}
	return cfg, nil
}

func parseDuration(key, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("config %s: %w", key, err)
	}
	return d, nil
}

func ValidateClientConfig(cfg ClientConfig) error {
	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("client config invalid log_level %q", cfg.LogLevel)
	}
	if len(cfg.Preference) == 0 {
		return fmt.Errorf("client config preference is empty")
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("client config timeout must be positive")
	}
	if cfg.Retry.MaxAttempts < 1 {
		return fmt.Errorf("client config retry_max_attempts must be >= 1")
	}
	if cfg.Retry.InitialDelay < 0 || cfg.Retry.MaxDelay < 0 {
		return fmt.Errorf("client config retry delays must not be negative")
	}
	if err := cfg.TLS.ValidateClient(); err != nil {
		return fmt.Errorf("client config: %w", err)
	}
	for i, inst := range cfg.Installations {
		if err := ValidateInstallationEntry(inst); err != nil {
			return fmt.Errorf("installations[%d] invalid: %w", i, err)
		}
	}
	return nil
}

func ValidateInstallationEntry(cfg InstallationConfig) error {
	if _, err := hostapp.ParseFlavor(cfg.Flavor); err != nil {
		return err
	}
	if cfg.VersionCode <= 0 {
		return fmt.Errorf("version_code must be positive")
	}
	return nil
}

func ValidateHostSimConfig(cfg HostSimConfig) error {
	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("hostsim config invalid log_level %q", cfg.LogLevel)
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("hostsim config missing addr")
	}
	if !cfg.Flavor.Valid() {
		return fmt.Errorf("hostsim config invalid flavor")
	}
	if strings.TrimSpace(cfg.Package) == "" {
		return fmt.Errorf("hostsim config missing package")
	}
	if cfg.VersionCode <= 0 {
		return fmt.Errorf("hostsim config version_code must be positive")
	}
	if err := cfg.TLS.ValidateServer(); err != nil {
		return fmt.Errorf("hostsim config: %w", err)
	}
	if cfg.MissingTiles < 0 {
		return fmt.Errorf("hostsim config missing_tiles must not be negative")
	}
	seen := make(map[int64]struct{}, len(cfg.Profiles))
	for i, p := range cfg.Profiles {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("profiles[%d] missing name", i)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("profiles[%d] duplicate id %d", i, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}
