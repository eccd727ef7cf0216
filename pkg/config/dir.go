package lconfig

import (
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/spf13/afero"
)

type ConfigDir struct {
	dirPath string
	fs      afero.Fs
}

func NewConfigDir(dirPath string) (*ConfigDir, error) {
	return newConfigDir(dirPath, afero.NewOsFs())
}

func newConfigDir(dirPath string, base afero.Fs) (*ConfigDir, error) {
	if dirPath == "" {
		return nil, fmt.Errorf("empty config dir path")
	}
	configDir := &ConfigDir{
		dirPath: dirPath,
		fs:      afero.NewBasePathFs(base, dirPath),
	}

	stat, err := configDir.fs.Stat(".")
	if err != nil {
		return nil, err
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("config dir path %s is not a directory", dirPath)
	}
	return configDir, nil
}

// EnvironmentMap reads every regular file of the directory as one variable. Dot-files are
// skipped (mounted config maps keep their bookkeeping under "..data").
func (config *ConfigDir) EnvironmentMap() (map[string]string, error) {
	envMap := make(map[string]string)

	err := afero.Walk(config.fs, ".", func(path string, fileInfo fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		name := fileInfo.Name()
		if fileInfo.IsDir() {
			if path != "." && strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if _, alreadyExists := envMap[name]; alreadyExists {
			return fmt.Errorf("duplicate configuration value %s", name)
		}
		file, err := config.fs.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		contents, err := io.ReadAll(file)
		if err != nil {
			return err
		}
		envMap[name] = strings.TrimSpace(string(contents))
		return nil
	})

	if err != nil {
		return nil, err
	}

	return envMap, nil
}
