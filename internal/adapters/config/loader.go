// Package config loads diff defaults from a YAML file.
package config

import (
	"bytes"
	"errors"
	"io"
	iofs "io/fs"
	"os"

	"go.trai.ch/nixdiff/internal/adapters/fs"
	"go.trai.ch/nixdiff/internal/core/domain"
	"go.trai.ch/nixdiff/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	fsys   fs.FileSystem
	logger ports.Logger
}

// NewLoader creates a new Loader reading through fsys.
func NewLoader(fsys fs.FileSystem, logger ports.Logger) *Loader {
	return &Loader{fsys: fsys, logger: logger}
}

// Load returns the options found in the config file, on top of
// domain.DefaultOptions. An empty path falls back to $NIXDIFF_CONFIG and then
// to the user config directory. Only a missing file in the user config
// directory is tolerated.
func (l *Loader) Load(path string) (domain.Options, error) {
	explicit := true
	if path == "" {
		path = os.Getenv(domain.ConfigEnvVar)
	}
	if path == "" {
		explicit = false
		p, err := domain.DefaultConfigPath()
		if err != nil {
			l.logger.Debug("no user config directory", "error", err)
			return domain.DefaultOptions(), nil
		}
		path = p
	}

	data, err := l.fsys.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, iofs.ErrNotExist) {
			l.logger.Debug("no config file", "path", path)
			return domain.DefaultOptions(), nil
		}
		return domain.Options{}, zerr.With(errors.Join(domain.ErrConfigReadFailed, err), "path", path)
	}

	opts, err := parse(data)
	if err != nil {
		return domain.Options{}, zerr.With(err, "path", path)
	}

	l.logger.Debug("loaded config", "path", path,
		"granularity", opts.Granularity.String(), "context", opts.ContextLines, "color", opts.Color.String())
	return opts, nil
}

func parse(data []byte) (domain.Options, error) {
	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return domain.Options{}, errors.Join(domain.ErrConfigParseFailed, err)
	}

	if file.Version != "" && file.Version != currentVersion {
		return domain.Options{}, zerr.With(zerr.Wrap(domain.ErrUnsupportedConfigVersion, ""), "version", file.Version)
	}

	opts := domain.DefaultOptions()
	if file.Granularity != "" {
		g, err := domain.ParseGranularity(file.Granularity)
		if err != nil {
			return domain.Options{}, err
		}
		opts.Granularity = g
	}
	if file.Context != nil {
		opts.ContextLines = *file.Context
	}
	if file.Color != "" {
		c, err := domain.ParseColorMode(file.Color)
		if err != nil {
			return domain.Options{}, err
		}
		opts.Color = c
	}

	if err := opts.Validate(); err != nil {
		return domain.Options{}, err
	}
	return opts, nil
}
