// Package config loads the driver's TOML configuration file, interpolating
// environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the default configuration file name looked up in the working
// directory when --config is not given.
const FileName = "pesticide.toml"

// Config is the flat options record described in the external interfaces:
// adapter command, its args, optional adapter id, an optional external
// terminal prefix, a default session name, and the opaque launch payload
// forwarded verbatim to the adapter's "launch" request.
type Config struct {
	Adapter     string          `toml:"adapter"`
	AdapterArgs []string        `toml:"adapter_args"`
	AdapterID   string          `toml:"adapter_id,omitempty"`
	TermCmd     []string        `toml:"term_cmd,omitempty"`
	SessionName string          `toml:"session_name,omitempty"`
	LaunchArgs  json.RawMessage `toml:"-"`

	// LaunchArgsRaw carries the launch_args TOML table as a generic map so
	// it round-trips through the TOML decoder; LaunchArgs is derived from
	// it for forwarding as DAP's opaque launch payload.
	LaunchArgsRaw map[string]any `toml:"launch_args,omitempty"`
}

var envPattern = regexp.MustCompile(`\$\{(.*?)\}`)

// Load reads and parses the configuration file at path, interpolating
// ${NAME} environment variable references and unescaping the literal
// sequence $$ into a single $.
func Load(path string) (*Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read configuration file: %w", err)
	}

	expanded := envPattern.ReplaceAllStringFunc(string(contents), func(match string) string {
		name := envPattern.FindStringSubmatch(match)[1]
		return os.Getenv(name)
	})
	expanded = strings.ReplaceAll(expanded, "$$", "$")

	cfg := &Config{}
	if _, err := toml.Decode(expanded, cfg); err != nil {
		return nil, fmt.Errorf("parse configuration file: %w", err)
	}

	if cfg.LaunchArgsRaw != nil {
		raw, err := json.Marshal(cfg.LaunchArgsRaw)
		if err != nil {
			return nil, fmt.Errorf("encode launch_args: %w", err)
		}
		cfg.LaunchArgs = raw
	} else {
		cfg.LaunchArgs = json.RawMessage("{}")
	}

	if cfg.Adapter == "" {
		return nil, fmt.Errorf("configuration is missing required field %q", "adapter")
	}

	return cfg, nil
}
