// Package cliconfig loads optional defaults for CI Lens's CLI flags
// from a YAML file, so a recurring invocation against the same project
// does not need to repeat every flag.
package cliconfig

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cilens-dev/cilens/pkg/cierrors"
)

// File is the shape of an optional cilens config file. Every field is
// a default: an explicit CLI flag always overrides it, and an
// explicit environment variable overrides the default but loses to
// the flag (spec §2.3's flag > env > file > built-in precedence).
type File struct {
	URL               string `yaml:"url"`
	Project           string `yaml:"project"`
	Branch            string `yaml:"branch"`
	Limit             int    `yaml:"limit"`
	MinTypePercentage int    `yaml:"min_type_percentage"`
	Output            string `yaml:"output"`
	Pretty            bool   `yaml:"pretty"`
}

// Load reads and parses path. A missing file is not an error — it
// simply yields a zero-value File so the CLI falls through to
// environment variables and built-in defaults.
func Load(path string) (File, error) {
	var f File
	if path == "" {
		return f, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return f, cierrors.NewIOError(path, err)
	}

	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, cierrors.NewConfigError("failed to parse config file "+path, err)
	}
	return f, nil
}

// StringOr returns flagValue if it is non-empty, otherwise env looked
// up by envKey if set, otherwise fileValue.
func StringOr(flagValue, envKey, fileValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v, ok := os.LookupEnv(envKey); ok && v != "" {
		return v
	}
	return fileValue
}

// IntOr returns flagValue if it is non-zero, otherwise fileValue.
func IntOr(flagValue, fileValue int) int {
	if flagValue != 0 {
		return flagValue
	}
	return fileValue
}
