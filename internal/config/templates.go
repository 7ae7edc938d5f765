package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "client":
		return clientTemplate, nil
	case "hostsim":
		return hostSimTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const clientTemplate = `log_level = "info"
preference = ["pro", "free", "gis"]
bridge_addr = "http://localhost:9300"
# bridge_token = "change-me"
timeout = "5s"
retry_max_attempts = 3
retry_initial_delay = "250ms"
retry_max_delay = "2s"
retry_multiplier = 2.0
retry_jitter = true

[tls]
enabled = false
# ca_file = "certs/ca.crt"
# mutual = true
# cert_file = "certs/locusctl.crt"
# key_file = "certs/locusctl.key"

# Static installations are used when bridge_addr is empty.
[[installations]]
flavor = "pro"
package = "menion.android.locus.pro"
version_code = 602
version_name = "4.0.0"
`

const hostSimTemplate = `log_level = "info"
addr = ":9300"
flavor = "pro"
package = "menion.android.locus.pro"
version_code = 602
version_name = "4.0.0"
cors_origins = ["http://localhost:3000"]
# auth_token = "change-me"
missing_tiles = 0

[tls]
enabled = false
# cert_file = "certs/hostsim.crt"
# key_file = "certs/hostsim.key"
# mutual = true
# ca_file = "certs/ca.crt"

[[profiles]]
id = 1
name = "Walk"
description = "walking and hiking"

[[profiles]]
id = 2
name = "Cycle"
description = "road and mtb"
`
