package config

import (
	"os"
	"path/filepath"

	"github.com/qcrbox/cifprobe/internal/errors"
)

// configHome is the configuration directory name, both globally under the
// user's home directory and per project.
const configHome = ".cifprobe"

// GlobalConfigDir returns the path to the global configuration directory,
// typically ~/.cifprobe on Unix systems.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, configHome), nil
}

// ProjectConfigPath returns the relative path to the project configuration
// file, always .cifprobe/config.yaml relative to the working directory.
func ProjectConfigPath() string {
	return filepath.Join(configHome, "config.yaml")
}
