package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/getmockd/libraryql/pkg/logging"
)

// reservedPaths are served by the server itself.
var reservedPaths = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
}

// ValidationError reports an invalid configuration value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks every setting and returns all problems joined.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, &ValidationError{Field: KeyServerPort, Message: fmt.Sprintf("invalid port %d, must be 1-65535", c.Server.Port)})
	}

	switch {
	case !strings.HasPrefix(c.Server.Path, "/"):
		errs = append(errs, &ValidationError{Field: KeyServerPath, Message: fmt.Sprintf("path %q must start with /", c.Server.Path)})
	case c.Server.Path == "/":
		errs = append(errs, &ValidationError{Field: KeyServerPath, Message: "path must not be the root"})
	case reservedPaths[c.Server.Path]:
		errs = append(errs, &ValidationError{Field: KeyServerPath, Message: fmt.Sprintf("path %s is reserved", c.Server.Path)})
	}

	for key, d := range map[string]int64{
		KeyServerReadTimeout:     int64(c.Server.ReadTimeout),
		KeyServerWriteTimeout:    int64(c.Server.WriteTimeout),
		KeyServerShutdownTimeout: int64(c.Server.ShutdownTimeout),
		KeyServerMaxBodySize:     c.Server.MaxBodySize,
	} {
		if d < 0 {
			errs = append(errs, &ValidationError{Field: key, Message: "must not be negative"})
		}
	}

	if !logging.ValidLevel(c.Log.Level) {
		errs = append(errs, &ValidationError{Field: KeyLogLevel, Message: fmt.Sprintf("unknown level %q (use debug, info, warn or error)", c.Log.Level)})
	}
	switch strings.ToLower(c.Log.Format) {
	case "", string(logging.FormatText), string(logging.FormatJSON):
	default:
		errs = append(errs, &ValidationError{Field: KeyLogFormat, Message: fmt.Sprintf("unknown format %q (use text or json)", c.Log.Format)})
	}

	if err := validateFilePath(c.Seed.File, KeySeedFile); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// validateFilePath checks that an optional path names an existing file.
func validateFilePath(path, fieldName string) error {
	if path == "" {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ValidationError{Field: fieldName, Message: fmt.Sprintf("file does not exist: %s", path)}
		}
		return &ValidationError{Field: fieldName, Message: fmt.Sprintf("cannot access file: %s", err.Error())}
	}
	if info.IsDir() {
		return &ValidationError{Field: fieldName, Message: fmt.Sprintf("path is a directory, not a file: %s", path)}
	}
	return nil
}
