package config

import (
	stderrors "errors"
	"io"
	"os"

	"github.com/ygrebnov/errorc"
	"gopkg.in/yaml.v3"

	"github.com/ygrebnov/callshape/errors"
)

// Config controls which methods an inspector shows and how they are labelled.
type Config struct {
	// Show disables inspection entirely when false.
	Show bool `yaml:"show_delegates"`
	// ShowNonDefault keeps methods whose signature is not a registered known callable.
	// Methods that fail to classify are reported either way.
	ShowNonDefault bool `yaml:"show_non_default"`
	// ShowHidden keeps methods the receiver lists in HiddenMethods.
	ShowHidden bool `yaml:"show_hidden"`
	// ShortNames renders types as pkg.T instead of import/path.T, including the
	// named types inside pointers, slices, maps and funcs.
	ShortNames bool `yaml:"short_names"`
}

// Default returns the configuration used when none is given.
func Default() Config {
	return Config{
		Show:           true,
		ShowNonDefault: true,
		ShowHidden:     true,
		ShortNames:     true,
	}
}

// Load decodes a YAML document from r on top of Default. Unknown keys are rejected.
// An empty document yields Default.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return Config{}, errorc.With(errors.ErrInvalidConfig, errorc.Error(errors.ErrorFieldCause, err))
	}
	return cfg, nil
}

// LoadFile reads the YAML configuration at path.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errorc.With(
			errors.ErrInvalidConfig,
			errorc.String(errors.ErrorFieldPath, path),
			errorc.Error(errors.ErrorFieldCause, err),
		)
	}
	defer f.Close()

	return Load(f)
}
