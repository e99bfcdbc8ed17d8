package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// ResolvePath returns the configuration file to load. An explicit path is
// canonicalized; otherwise config.toml two directories above the directory
// holding the running executable is used.
func ResolvePath(explicit string) (string, error) {
	return resolvePath(explicit, os.Executable)
}

func resolvePath(explicit string, executable func() (string, error)) (string, error) {
	if explicit == "" {
		exe, err := executable()
		if err != nil {
			return "", &ConfigLoadError{Err: fmt.Errorf("%w: %v", ErrConfigPath, err)}
		}
		return filepath.Join(filepath.Dir(exe), "..", "..", DefaultFileName), nil
	}

	abs, err := filepath.Abs(explicit)
	if err != nil {
		return "", &ConfigLoadError{Path: explicit, Err: err}
	}
	path, err := filepath.EvalSymlinks(abs)
	if err != nil {
		log.Printf("[Config] Could not canonicalize %s: %v", explicit, err)
		return "", &ConfigLoadError{Path: explicit, Err: err}
	}
	log.Printf("[Config] Config file canonicalized path = %s", path)
	return path, nil
}

// LoadEnvFile loads variables from a .env file so they can feed the
// SYSTIME_* overrides. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return &ConfigLoadError{Path: path, Err: err}
	}
	log.Printf("[Config] Loaded environment from %s", path)
	return nil
}
