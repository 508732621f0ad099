package storyboard

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Write saves a storyboard as YAML.
func Write(s *Storyboard, path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "marshal storyboard")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "write %s", path)
}

// Read loads a storyboard from a YAML file.
func Read(path string) (*Storyboard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	var s Storyboard
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return &s, nil
}
