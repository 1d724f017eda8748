package config

// currentVersion is the only config file version understood by this build.
const currentVersion = "1"

// File is the on-disk shape of config.yaml. Absent keys keep their defaults.
type File struct {
	Version     string `yaml:"version"`
	Granularity string `yaml:"granularity"`
	Context     *int   `yaml:"context"`
	Color       string `yaml:"color"`
}
