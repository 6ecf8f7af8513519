package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable names. The ZILLIZ_* names match the ones the Zilliz
// Cloud documentation uses, so a token that works for other clients works
// here unchanged.
const (
	EnvToken             = "ZILLIZ_CLOUD_TOKEN"
	EnvCloudURI          = "ZILLIZ_CLOUD_URI"
	EnvClusterEndpoint   = "ZILLIZ_CLOUD_CLUSTER_ENDPOINT"
	EnvFreeClusterRegion = "ZILLIZ_CLOUD_FREE_CLUSTER_REGION"
	EnvServerHost        = "MCP_SERVER_HOST"
	EnvServerPort        = "MCP_SERVER_PORT"
	EnvTimeout           = "ZILLIZ_CLOUD_TIMEOUT"
)

// envPattern matches ${VAR} and ${VAR:-default} expressions.
var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-((?:[^}\\]|\\.)*))?\}`)

// Load builds the configuration record. Environment variables are read
// first; when path is non-empty, the YAML file there overrides them.
// Defaults are filled and the result validated before it is returned —
// a Config obtained from Load is always usable.
func Load(path string) (*Config, error) {
	cfg, err := fromEnv()
	if err != nil {
		return nil, err
	}

	if path != "" {
		if err := overlayFile(cfg, path); err != nil {
			return nil, err
		}
	}

	cfg.defaults()

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fromEnv reads the environment into a Config without defaulting.
// An explicitly set but unparseable port is an error here rather than in
// Validate, because after defaulting the zero value is indistinguishable
// from "unset".
func fromEnv() (*Config, error) {
	cfg := &Config{
		Zilliz: ZillizConfig{
			Token:             os.Getenv(EnvToken),
			CloudURI:          os.Getenv(EnvCloudURI),
			ClusterEndpoint:   os.Getenv(EnvClusterEndpoint),
			FreeClusterRegion: os.Getenv(EnvFreeClusterRegion),
		},
		Server: ServerConfig{
			Host: os.Getenv(EnvServerHost),
		},
	}

	if raw := os.Getenv(EnvServerPort); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("config: %s must be an integer in [1, 65535], got %q", EnvServerPort, raw)
		}
		cfg.Server.Port = port
	}
	if raw := os.Getenv(EnvTimeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("config: %s is not a valid duration: %q", EnvTimeout, raw)
		}
		cfg.Zilliz.Timeout = d
	}

	return cfg, nil
}

// overlayFile reads a YAML file, expands environment variables, and decodes
// it over the given Config. Fields absent from the file keep their values.
func overlayFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}

	expanded, err := expandEnv(raw)
	if err != nil {
		return fmt.Errorf("config: expanding variables in %s: %w", path, err)
	}

	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return nil
}

// UnmarshalYAML decodes ZillizConfig with the timeout given as a Go duration
// string ("30s", "2m"). yaml.v3 has no native duration support.
func (z *ZillizConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Token             string `yaml:"token"`
		CloudURI          string `yaml:"cloud_uri"`
		ClusterEndpoint   string `yaml:"cluster_endpoint"`
		FreeClusterRegion string `yaml:"free_cluster_region"`
		Timeout           string `yaml:"timeout"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.Token != "" {
		z.Token = raw.Token
	}
	if raw.CloudURI != "" {
		z.CloudURI = raw.CloudURI
	}
	if raw.ClusterEndpoint != "" {
		z.ClusterEndpoint = raw.ClusterEndpoint
	}
	if raw.FreeClusterRegion != "" {
		z.FreeClusterRegion = raw.FreeClusterRegion
	}
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		z.Timeout = d
	}
	return nil
}

// MarshalYAML emits the timeout as a duration string ("30s") so files
// written by `config init` round-trip through UnmarshalYAML.
func (z ZillizConfig) MarshalYAML() (any, error) {
	out := struct {
		Token             string `yaml:"token"`
		CloudURI          string `yaml:"cloud_uri"`
		ClusterEndpoint   string `yaml:"cluster_endpoint,omitempty"`
		FreeClusterRegion string `yaml:"free_cluster_region"`
		Timeout           string `yaml:"timeout,omitempty"`
	}{
		Token:             z.Token,
		CloudURI:          z.CloudURI,
		ClusterEndpoint:   z.ClusterEndpoint,
		FreeClusterRegion: z.FreeClusterRegion,
	}
	if z.Timeout != 0 {
		out.Timeout = z.Timeout.String()
	}
	return out, nil
}

// expandEnv replaces ${VAR} and ${VAR:-default} patterns in raw YAML bytes.
// Returns an error listing all unresolved variables (no default, no env value).
func expandEnv(raw []byte) ([]byte, error) {
	var errs []error

	result := envPattern.ReplaceAllFunc(raw, func(match []byte) []byte {
		subs := envPattern.FindSubmatch(match)
		name := string(subs[1])
		hasDefault := len(subs) > 2 && subs[2] != nil
		defaultVal := ""
		if hasDefault {
			defaultVal = string(subs[2])
		}

		value, ok := os.LookupEnv(name)
		if ok {
			return []byte(value)
		}

		if hasDefault {
			return []byte(defaultVal)
		}

		errs = append(errs, fmt.Errorf("unresolved variable: %s", name))
		return match
	})

	return result, errors.Join(errs...)
}
