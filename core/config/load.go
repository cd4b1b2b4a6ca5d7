package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory. A directory without a
// configuration file yields the defaults.
func Load(path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	// BasePathFs rejects every name under a relative base like ".".
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	return load(afero.NewBasePathFs(afero.NewOsFs(), abs))
}

func load(configFs afero.Fs) (*Configuration, error) {
	configContents, err := afero.ReadFile(configFs, ConfigurationName)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		out := defaultConfig()
		out.configFs = configFs
		return out, nil
	case err != nil:
		return nil, err
	}

	var out Configuration
	if err := yaml.UnmarshalStrict(configContents, &out); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ConfigurationName, err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigurationName, err)
	}
	out.configFs = configFs
	return &out, nil
}

// Initialize writes the default configuration into the directory if none is
// present and returns the resulting configuration.
func Initialize(path string, logger *log.Logger) (*Configuration, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if err := afero.NewOsFs().MkdirAll(abs, 0700); err != nil {
		return nil, err
	}
	return initialize(afero.NewBasePathFs(afero.NewOsFs(), abs), logger)
}

func initialize(configFs afero.Fs, logger *log.Logger) (*Configuration, error) {
	switch _, err := configFs.Stat(ConfigurationName); {
	case err == nil:
		logger.Printf("%s already exists, skipping\n", ConfigurationName)
	case errors.Is(err, fs.ErrNotExist):
		logger.Printf("Writing %s\n", ConfigurationName)
		if err := afero.WriteFile(configFs, ConfigurationName, defaultConfigData, 0600); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return load(configFs)
}
