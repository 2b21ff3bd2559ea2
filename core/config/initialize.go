package config

import (
	"log"

	"github.com/spf13/afero"
)

// Initialize writes the default configuration into dir if none exists
// yet and returns the loaded result.
func Initialize(dir string, out *log.Logger) (*Config, error) {
	fsys := afero.NewBasePathFs(afero.NewOsFs(), dir)

	exists, err := afero.Exists(fsys, ConfigurationName)
	if err != nil {
		return nil, err
	}

	if exists {
		out.Printf("%s already exists, leaving as-is", ConfigurationName)
	} else {
		out.Printf("Writing default %s", ConfigurationName)
		if err := afero.WriteFile(fsys, ConfigurationName, defaultConfigData, 0600); err != nil {
			return nil, err
		}
	}

	return Load(dir)
}
