package config

import (
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory.
func Load(path string) (*Config, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	return loadFs(afero.NewBasePathFs(afero.NewOsFs(), path), path)
}

func loadFs(fsys afero.Fs, dir string) (*Config, error) {
	configContents, err := afero.ReadFile(fsys, ConfigurationName)
	if err != nil {
		return nil, err
	}

	var out Config
	if err := yaml.UnmarshalStrict(configContents, &out); err != nil {
		return nil, err
	}
	out.configFs = fsys
	out.configurationDir = dir

	if err := out.Validate(); err != nil {
		return nil, err
	}

	return &out, nil
}
