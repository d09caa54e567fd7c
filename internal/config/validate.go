package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValidationError reports a malformed config file.
type ValidationError struct {
	FilePath string
	Message  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// ValidateYAMLSyntax checks that path parses as YAML. A missing or empty
// file is valid.
func ValidateYAMLSyntax(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &ValidationError{FilePath: path, Message: err.Error()}
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return &ValidationError{FilePath: path, Message: err.Error()}
	}
	return nil
}

// Validate checks the non-quality settings and the quality bounds.
func (f *File) Validate() error {
	if f.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", f.Workers)
	}
	if f.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	if err := f.Quality.ToOptions().Validate(); err != nil {
		return fmt.Errorf("quality: %w", err)
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (f *File) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}
