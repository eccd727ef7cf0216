package lconfig

import (
	"io"
	"os"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// LoadStaticYamlConfig decodes a YAML (or JSON) file into target. Field names follow the
// target's json tags.
func LoadStaticYamlConfig(filename string, filesystem afero.Fs, target interface{}) error {
	file, err := filesystem.OpenFile(filename, os.O_RDONLY, 0)
	if err != nil {
		return errors.Wrapf(err, "opening %s", filename)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return errors.Wrapf(err, "reading %s", filename)
	}

	if err := yaml.Unmarshal(content, target); err != nil {
		return errors.Wrapf(err, "decoding %s", filename)
	}
	return nil
}
