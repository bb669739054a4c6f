// ABOUTME: Project configuration loader for frond.yaml.
// ABOUTME: Carries extra void-element names and the default check-service address.
package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultConfigFile is looked for in the working directory when -config is
// not given.
const defaultConfigFile = "frond.yaml"

// projectConfig is the YAML project configuration.
type projectConfig struct {
	// VoidTags lists additional tag names treated as void elements, for
	// custom elements that render without content.
	VoidTags []string `yaml:"void_tags"`

	// Addr is the default listen address for the check service.
	Addr string `yaml:"addr"`
}

// loadConfig reads the project config. An explicitly given path must exist;
// the implicit default file is optional.
func loadConfig(path string) (*projectConfig, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return &projectConfig{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg projectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}
