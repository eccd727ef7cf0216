package lconfig

import (
	"encoding/json"
	"os"
	"reflect"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/pkg/errors"
)

var parseFuncs = map[reflect.Type]env.ParserFunc{
	reflect.TypeOf(map[string]string{}): env.ParserFunc(func(v string) (interface{}, error) {
		ret := make(map[string]string)
		err := json.Unmarshal([]byte(v), &ret)
		return ret, err
	}),
}

// Parse fills v from the environment. When CONFIG_DIR is set, every file in that directory
// provides one variable (file name = variable name); real environment variables win.
func Parse(v interface{}) error {
	return ParseWithFuncs(v, nil)
}

func MustParse(v interface{}) {
	if err := Parse(v); err != nil {
		panic(err)
	}
}

type ParseFuncs map[reflect.Type]env.ParserFunc

func (f ParseFuncs) With(t reflect.Type, fn env.ParserFunc) ParseFuncs {
	if f == nil {
		f = make(map[reflect.Type]env.ParserFunc)
	}
	f[t] = fn
	return f
}

func ParseWithFuncs(v interface{}, funcs ParseFuncs) error {
	newFuncs := make(map[reflect.Type]env.ParserFunc)
	for k, v := range funcs {
		newFuncs[k] = v
	}
	for k, v := range parseFuncs {
		newFuncs[k] = v
	}

	opts, err := options()
	if err != nil {
		return err
	}
	return errors.WithStack(env.ParseWithFuncs(v, newFuncs, opts))
}

func options() (env.Options, error) {
	opts := env.Options{}
	configDirPath := os.Getenv("CONFIG_DIR")
	if configDirPath == "" {
		return opts, nil
	}

	configDir, err := NewConfigDir(configDirPath)
	if err != nil {
		return opts, err
	}
	opts.Environment, err = configDir.EnvironmentMap()
	if err != nil {
		return opts, err
	}

	for _, existingEnv := range os.Environ() {
		envVar := strings.SplitN(existingEnv, "=", 2)
		opts.Environment[envVar[0]] = os.Getenv(envVar[0])
	}
	return opts, nil
}
