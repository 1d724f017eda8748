package ports

import "go.trai.ch/nixdiff/internal/core/domain"

// ConfigLoader loads diff defaults from a config file.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the file at path, or discovers one when path is empty.
	// A missing discovered file yields domain.DefaultOptions.
	Load(path string) (domain.Options, error)
}
