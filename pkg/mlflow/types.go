package mlflow

import (
	"strconv"
	"time"
)

// Well-known tag keys understood by the tracking server and UI.
const (
	TagRunName    = "mlflow.runName"
	TagSourceName = "mlflow.source.name"
	TagSourceType = "mlflow.source.type"
	TagUser       = "mlflow.user"

	SourceTypeLocal = "LOCAL"
)

type KeyValue struct {
	Key   string
	Value string
}

type Param = KeyValue
type RunTag = KeyValue
type ExperimentTag = KeyValue

type Experiment struct {
	ExperimentId     string
	Name             string
	ArtifactLocation string
	LifecycleStage   string
	LastUpdateTime   int64
	CreationTime     int64
	Tags             []ExperimentTag
}

// Metric values are kept as strings so they cross the wire without float rounding.
type Metric struct {
	Key       string
	Value     string
	Timestamp int64
	Step      int64
}

// NewMetric stamps the metric with the current time in epoch milliseconds.
func NewMetric(key, value string, step int64) Metric {
	return NewMetricAt(key, value, time.Now().UnixMilli(), step)
}

func NewMetricAt(key, value string, timestamp, step int64) Metric {
	return Metric{
		Key:       key,
		Value:     value,
		Timestamp: timestamp,
		Step:      step,
	}
}

// FormatMetricValue renders v with the fewest digits that parse back to the same float64.
func FormatMetricValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

type RunInfo struct {
	RunId          string
	RunName        string
	ExperimentId   string
	UserId         string
	Status         RunStatus
	StartTime      int64
	EndTime        int64
	ArtifactUri    string
	LifecycleStage string
}

type RunData struct {
	Metrics []Metric
	Params  []Param
	Tags    []RunTag
}

type Run struct {
	Info RunInfo
	Data RunData
}

// Tag returns the value of the run tag with the given key.
func (d RunData) Tag(key string) (string, bool) {
	for _, tag := range d.Tags {
		if tag.Key == key {
			return tag.Value, true
		}
	}
	return "", false
}
