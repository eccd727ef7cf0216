package config

import (
	"sort"

	"github.com/spf13/afero"
	lconfig "github.infra.cloudera.com/CAI/MLFlowClient/pkg/config"
)

type Config struct {
	ExperimentName string `env:"EXAMPLE_EXPERIMENT_NAME" envDefault:"Default"`
	Runs           int    `env:"EXAMPLE_RUNS" envDefault:"1"`
	BatchFile      string `env:"EXAMPLE_BATCH_FILE"`
	// FakeServer runs against an in-memory tracking server instead of MLFLOW_TRACKING_URI.
	FakeServer bool   `env:"EXAMPLE_FAKE_SERVER" envDefault:"false"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
}

func NewConfigFromEnv() (*Config, error) {
	var cfg Config
	err := lconfig.Parse(&cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Batch is what every example run logs in its log-batch request.
type Batch struct {
	Params  map[string]string  `json:"params"`
	Tags    map[string]string  `json:"tags"`
	Metrics map[string]float64 `json:"metrics"`
}

var defaultBatch = Batch{
	Params: map[string]string{"KEY1": "VALUE"},
	Tags:   map[string]string{"KEY2": "VALU2"},
}

func NewBatchFromConfig(cfg *Config) (*Batch, error) {
	return loadBatch(afero.NewOsFs(), cfg.BatchFile)
}

func loadBatch(fs afero.Fs, path string) (*Batch, error) {
	if path == "" {
		batch := defaultBatch
		return &batch, nil
	}
	var batch Batch
	if err := lconfig.LoadStaticYamlConfig(path, fs, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

// SortedKeys returns the keys of m in order, so requests are reproducible.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
