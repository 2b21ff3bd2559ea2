package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
)

// Config holds the shell's operator-tunable settings.
type Config struct {
	configFs         afero.Fs
	configurationDir string

	// Prompt supports the escapes \u (user), \h (hostname), \w (working
	// directory) and \$ (# for root, $ otherwise).
	Prompt string `json:"prompt" validate:"required"`

	// HistoryFile names the readline history file, relative to the
	// configuration directory.
	HistoryFile string `json:"history_file" validate:"required"`

	// EventLog names the JSON-lines event log, relative to the
	// configuration directory.
	EventLog string `json:"event_log" validate:"required"`

	// BackgroundInterrupt picks the SIGINT disposition for background
	// jobs: "inherit" keeps them away from the terminal's Ctrl-C,
	// "default" leaves them eligible for it.
	BackgroundInterrupt string `json:"background_interrupt" validate:"required,oneof=inherit default"`
}

// Validate the configuration for basic semantic errors.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Config) fs() afero.Fs {
	return c.configFs
}

// OpenEventLog opens the shell's event log in an append only state.
func (c *Config) OpenEventLog() (afero.File, error) {
	return c.fs().OpenFile(c.EventLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadEventLog opens the shell's event log for reading.
func (c *Config) ReadEventLog() (afero.File, error) {
	return c.fs().OpenFile(c.EventLog, os.O_RDONLY, 0600)
}

// HistoryPath returns the OS path of the readline history file, or ""
// when the configuration isn't backed by a directory.
func (c *Config) HistoryPath() string {
	if c.configurationDir == "" {
		return ""
	}
	return filepath.Join(c.configurationDir, c.HistoryFile)
}

func defaultConfig() *Config {
	var out Config
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
