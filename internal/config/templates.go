package config

import (
	"fmt"
	"os"
)

// WriteTemplate writes a commented starter service config to path.
func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(serverTemplate), 0o600)
}

const serverTemplate = `name = "chessjudge"
addr = ":9300"
cors_origins = ["http://localhost:3000"]

# candidate command for POST /runs; leave empty to accept submissions only
exec = ""
timeout = "10s"
max_concurrent_runs = 4

[generator]
min_n = 8
max_n = 50
min_c = 2
max_c = 8
min_wall_p = 0.15
max_wall_p = 0.65
`
