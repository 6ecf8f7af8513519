package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the structural validity of a Config. Values are rejected,
// never corrected: every violation is reported with the field that caused it,
// and all violations are reported at once.
func Validate(cfg *Config) error {
	var errs []error

	if strings.TrimSpace(cfg.Zilliz.Token) == "" {
		errs = append(errs, fmt.Errorf("config: %s is required and cannot be empty", EnvToken))
	}

	if cfg.Zilliz.CloudURI != "" {
		u, err := url.Parse(cfg.Zilliz.CloudURI)
		if err != nil || !u.IsAbs() || u.Host == "" {
			errs = append(errs, fmt.Errorf("config: cloud_uri %q is not an absolute URL", cfg.Zilliz.CloudURI))
		}
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("config: server port must be in [1, 65535], got %d", cfg.Server.Port))
	}

	if cfg.Zilliz.Timeout < 0 {
		errs = append(errs, fmt.Errorf("config: timeout must be positive, got %s", cfg.Zilliz.Timeout))
	}

	return errors.Join(errs...)
}
