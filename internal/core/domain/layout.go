package domain

import (
	"os"
	"path/filepath"
)

const (
	// AppName is the directory name used under the user config directory.
	AppName = "nixdiff"

	// ConfigFileName is the name of the optional defaults file.
	ConfigFileName = "config.yaml"

	// ConfigEnvVar names an explicit config file path.
	ConfigEnvVar = "NIXDIFF_CONFIG"

	// NoColorEnvVar disables color when set to any non-empty value.
	NoColorEnvVar = "NO_COLOR"

	// StepFileExt is the extension of step description files.
	StepFileExt = ".drv"

	// ExpressionFileExt is the extension of files that need evaluation.
	ExpressionFileExt = ".nix"

	// FlakeAttrSeparator separates a flake reference from its attribute path.
	FlakeAttrSeparator = "#"

	// ResultLinkName is the name of the GC root created while instantiating.
	ResultLinkName = "result"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultConfigPath returns <UserConfigDir>/nixdiff/config.yaml.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, ConfigFileName), nil
}
