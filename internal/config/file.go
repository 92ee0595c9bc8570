package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/goccy/go-yaml"
)

// fileConfig is the YAML schema of the config file.
type fileConfig struct {
	Color    string `yaml:"color"`
	Filename *bool  `yaml:"filename"`
	Height   *int   `yaml:"height"`
	Image    string `yaml:"image"`
	Verbose  *bool  `yaml:"verbose"`
	Width    *int   `yaml:"width"`
}

// GetFile returns the Config parsed from a config file, or nil if one cannot
// be found.
func GetFile(path string) (*Config, error) {
	path, buf, err := getConfigFile(path)
	if err != nil || path == "" {
		return nil, err
	}

	var fc fileConfig
	if err := yaml.UnmarshalWithOptions(buf, &fc, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	cfg, err := fc.toConfig()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (fc *fileConfig) toConfig() (*Config, error) {
	var cfg Config
	if fc.Color != "" {
		if err := cfg.ParseColor(fc.Color); err != nil {
			return nil, err
		}
	}
	if fc.Image != "" {
		if err := cfg.ParseImageSetting(fc.Image); err != nil {
			return nil, err
		}
	}
	if fc.Width != nil {
		if *fc.Width <= 0 {
			return nil, fmt.Errorf("width must be greater than zero")
		}
		cfg.Width = fc.Width
	}
	if fc.Height != nil {
		if *fc.Height <= 0 {
			return nil, fmt.Errorf("height must be greater than zero")
		}
		cfg.Height = fc.Height
	}
	cfg.Filename = fc.Filename
	cfg.Verbose = fc.Verbose
	return &cfg, nil
}

// getConfigFile searches for a local config file, returning the file contents
// if it exists.
func getConfigFile(path string) (string, []byte, error) {
	if path != "" {
		// Expand '~' to the home directory.
		if len(path) >= 2 && path[0] == '~' && path[1] == os.PathSeparator {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", nil, err
			}
			path = home + path[1:]
		}
		// Direct config path was provided.
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", nil, err
		}
		return readFile(abs)
	}

	if runtime.GOOS == "windows" {
		appData := os.Getenv("AppData")
		if appData == "" {
			return "", nil, nil
		}
		path, buf, err := readFile(filepath.Join(appData, "dcmview", "config.yaml"))
		if err != nil {
			return "", nil, nil
		}
		return path, buf, nil
	}

	xdgHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgHome != "" {
		path, buf, err := readFile(xdgHome + "/dcmview/config.yaml")
		if err == nil {
			return path, buf, nil
		}
	}

	home := os.Getenv("HOME")
	if home != "" {
		path, buf, err := readFile(home + "/.config/dcmview/config.yaml")
		if err == nil {
			return path, buf, nil
		}
	}

	return "", nil, nil
}

func readFile(path string) (string, []byte, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	return path, buf, nil
}
