package mlflow

import (
	"encoding/json"
	"strconv"
)

// numericString carries a number as a JSON string. Decoding also accepts a bare
// JSON number since some servers emit those.
type numericString string

func newNumericString(v int64) *numericString {
	s := numericString(strconv.FormatInt(v, 10))
	return &s
}

func (s *numericString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = numericString(str)
		return nil
	}
	*s = numericString(data)
	return nil
}

type keyValueWire struct {
	Key   *string `json:"key"`
	Value *string `json:"value"`
}

type experimentWire struct {
	ExperimentId     *string        `json:"experiment_id"`
	Name             *string        `json:"name"`
	ArtifactLocation *string        `json:"artifact_location"`
	LifecycleStage   *string        `json:"lifecycle_stage"`
	LastUpdateTime   *numericString `json:"last_update_time"`
	CreationTime     *numericString `json:"creation_time"`
	Tags             []keyValueWire `json:"tags"`
}

type metricWire struct {
	Key       *string        `json:"key"`
	Value     *numericString `json:"value"`
	Timestamp *numericString `json:"timestamp"`
	Step      *numericString `json:"step"`
}

type runInfoWire struct {
	RunId          *string        `json:"run_id"`
	RunName        *string        `json:"run_name,omitempty"`
	ExperimentId   *string        `json:"experiment_id"`
	UserId         *string        `json:"user_id"`
	Status         *string        `json:"status"`
	StartTime      *numericString `json:"start_time"`
	EndTime        *numericString `json:"end_time"`
	ArtifactUri    *string        `json:"artifact_uri"`
	LifecycleStage *string        `json:"lifecycle_stage"`
}

type runDataWire struct {
	Metrics []metricWire   `json:"metrics"`
	Params  []keyValueWire `json:"params"`
	Tags    []keyValueWire `json:"tags"`
}

type runWire struct {
	Info *runInfoWire `json:"info"`
	Data *runDataWire `json:"data"`
}

// fieldReader converts wire values to domain values and keeps the first error, so a decoder
// can read every field and check once at the end.
type fieldReader struct {
	err error
}

func (f *fieldReader) fail(err error) {
	if f.err == nil {
		f.err = err
	}
}

func (f *fieldReader) str(key string, v *string) string {
	if v == nil {
		f.fail(&MissingFieldError{Key: key})
		return ""
	}
	return *v
}

func (f *fieldReader) optionalStr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func (f *fieldReader) int64(key string, v *numericString) int64 {
	if v == nil {
		f.fail(&MissingFieldError{Key: key})
		return 0
	}
	return f.parseInt64(key, *v)
}

func (f *fieldReader) optionalInt64(key string, v *numericString) int64 {
	if v == nil {
		return 0
	}
	return f.parseInt64(key, *v)
}

func (f *fieldReader) parseInt64(key string, v numericString) int64 {
	parsed, err := strconv.ParseInt(string(v), 10, 64)
	if err != nil {
		f.fail(&InvalidFieldError{Key: key, Value: string(v)})
		return 0
	}
	return parsed
}

// metricValue keeps the value text as sent. A bare JSON number keeps its literal form.
func (f *fieldReader) metricValue(key string, v *numericString) string {
	if v == nil {
		f.fail(&MissingFieldError{Key: key})
		return ""
	}
	return string(*v)
}

func (f *fieldReader) status(key string, v *string) RunStatus {
	name := f.str(key, v)
	if v == nil {
		return RunStatusUninitialized
	}
	status, err := ParseRunStatus(name)
	if err != nil {
		f.fail(err)
	}
	return status
}

func (f *fieldReader) keyValues(wire []keyValueWire) []KeyValue {
	if len(wire) == 0 {
		return nil
	}
	out := make([]KeyValue, 0, len(wire))
	for _, kv := range wire {
		out = append(out, f.keyValue(kv))
	}
	return out
}

func (f *fieldReader) keyValue(wire keyValueWire) KeyValue {
	return KeyValue{
		Key:   f.str("key", wire.Key),
		Value: f.str("value", wire.Value),
	}
}

func (f *fieldReader) metric(wire metricWire) Metric {
	return Metric{
		Key:       f.str("key", wire.Key),
		Value:     f.metricValue("value", wire.Value),
		Timestamp: f.int64("timestamp", wire.Timestamp),
		Step:      f.int64("step", wire.Step),
	}
}

func (f *fieldReader) metrics(wire []metricWire) []Metric {
	if len(wire) == 0 {
		return nil
	}
	out := make([]Metric, 0, len(wire))
	for _, m := range wire {
		out = append(out, f.metric(m))
	}
	return out
}

func (f *fieldReader) experiment(wire experimentWire) Experiment {
	return Experiment{
		ExperimentId:     f.str("experiment_id", wire.ExperimentId),
		Name:             f.str("name", wire.Name),
		ArtifactLocation: f.str("artifact_location", wire.ArtifactLocation),
		LifecycleStage:   f.str("lifecycle_stage", wire.LifecycleStage),
		LastUpdateTime:   f.optionalInt64("last_update_time", wire.LastUpdateTime),
		CreationTime:     f.optionalInt64("creation_time", wire.CreationTime),
		Tags:             f.keyValues(wire.Tags),
	}
}

func (f *fieldReader) runInfo(wire runInfoWire) RunInfo {
	return RunInfo{
		RunId:          f.str("run_id", wire.RunId),
		RunName:        f.optionalStr(wire.RunName),
		ExperimentId:   f.str("experiment_id", wire.ExperimentId),
		UserId:         f.str("user_id", wire.UserId),
		Status:         f.status("status", wire.Status),
		StartTime:      f.int64("start_time", wire.StartTime),
		EndTime:        f.optionalInt64("end_time", wire.EndTime),
		ArtifactUri:    f.str("artifact_uri", wire.ArtifactUri),
		LifecycleStage: f.str("lifecycle_stage", wire.LifecycleStage),
	}
}

func (f *fieldReader) runData(wire *runDataWire) RunData {
	if wire == nil {
		return RunData{}
	}
	return RunData{
		Metrics: f.metrics(wire.Metrics),
		Params:  f.keyValues(wire.Params),
		Tags:    f.keyValues(wire.Tags),
	}
}

func (f *fieldReader) run(wire runWire) Run {
	if wire.Info == nil {
		f.fail(&MissingFieldError{Key: "info"})
		return Run{}
	}
	return Run{
		Info: f.runInfo(*wire.Info),
		Data: f.runData(wire.Data),
	}
}

func keyValueToWire(kv KeyValue) keyValueWire {
	return keyValueWire{Key: &kv.Key, Value: &kv.Value}
}

func keyValuesToWire(kvs []KeyValue) []keyValueWire {
	out := make([]keyValueWire, 0, len(kvs))
	for _, kv := range kvs {
		out = append(out, keyValueToWire(kv))
	}
	return out
}

func metricToWire(m Metric) metricWire {
	value := numericString(m.Value)
	return metricWire{
		Key:       &m.Key,
		Value:     &value,
		Timestamp: newNumericString(m.Timestamp),
		Step:      newNumericString(m.Step),
	}
}

func metricsToWire(metrics []Metric) []metricWire {
	out := make([]metricWire, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, metricToWire(m))
	}
	return out
}

func experimentToWire(e Experiment) experimentWire {
	return experimentWire{
		ExperimentId:     &e.ExperimentId,
		Name:             &e.Name,
		ArtifactLocation: &e.ArtifactLocation,
		LifecycleStage:   &e.LifecycleStage,
		LastUpdateTime:   newNumericString(e.LastUpdateTime),
		CreationTime:     newNumericString(e.CreationTime),
		Tags:             keyValuesToWire(e.Tags),
	}
}

func runInfoToWire(info RunInfo) (runInfoWire, error) {
	status, err := info.Status.MarshalText()
	if err != nil {
		return runInfoWire{}, err
	}
	statusName := string(status)
	wire := runInfoWire{
		RunId:          &info.RunId,
		ExperimentId:   &info.ExperimentId,
		UserId:         &info.UserId,
		Status:         &statusName,
		StartTime:      newNumericString(info.StartTime),
		EndTime:        newNumericString(info.EndTime),
		ArtifactUri:    &info.ArtifactUri,
		LifecycleStage: &info.LifecycleStage,
	}
	if info.RunName != "" {
		wire.RunName = &info.RunName
	}
	return wire, nil
}

func runDataToWire(data RunData) runDataWire {
	return runDataWire{
		Metrics: metricsToWire(data.Metrics),
		Params:  keyValuesToWire(data.Params),
		Tags:    keyValuesToWire(data.Tags),
	}
}

func runToWire(run Run) (runWire, error) {
	info, err := runInfoToWire(run.Info)
	if err != nil {
		return runWire{}, err
	}
	data := runDataToWire(run.Data)
	return runWire{Info: &info, Data: &data}, nil
}

func EncodeKeyValue(kv KeyValue) (json.RawMessage, error) {
	return json.Marshal(keyValueToWire(kv))
}

func DecodeKeyValue(data []byte) (KeyValue, error) {
	var wire keyValueWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return KeyValue{}, err
	}
	var f fieldReader
	kv := f.keyValue(wire)
	return kv, f.err
}

func EncodeMetric(m Metric) (json.RawMessage, error) {
	return json.Marshal(metricToWire(m))
}

func DecodeMetric(data []byte) (Metric, error) {
	var wire metricWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return Metric{}, err
	}
	var f fieldReader
	m := f.metric(wire)
	return m, f.err
}

func EncodeExperiment(e Experiment) (json.RawMessage, error) {
	return json.Marshal(experimentToWire(e))
}

// DecodeExperiment requires experiment_id, name, artifact_location and lifecycle_stage. Times
// default to 0 and tags to empty.
func DecodeExperiment(data []byte) (Experiment, error) {
	var wire experimentWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return Experiment{}, err
	}
	var f fieldReader
	e := f.experiment(wire)
	return e, f.err
}

// EncodeRunInfo fails with an InvalidEnumError when the status is RunStatusUninitialized.
func EncodeRunInfo(info RunInfo) (json.RawMessage, error) {
	wire, err := runInfoToWire(info)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wire)
}

// DecodeRunInfo requires every field except end_time (default 0) and run_name.
func DecodeRunInfo(data []byte) (RunInfo, error) {
	var wire runInfoWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return RunInfo{}, err
	}
	var f fieldReader
	info := f.runInfo(wire)
	return info, f.err
}

func EncodeRunData(d RunData) (json.RawMessage, error) {
	return json.Marshal(runDataToWire(d))
}

// DecodeRunData treats each absent sequence as empty.
func DecodeRunData(data []byte) (RunData, error) {
	var wire runDataWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return RunData{}, err
	}
	var f fieldReader
	d := f.runData(&wire)
	return d, f.err
}

func EncodeRun(run Run) (json.RawMessage, error) {
	wire, err := runToWire(run)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wire)
}

// DecodeRun requires info. An absent data object decodes as empty.
func DecodeRun(data []byte) (Run, error) {
	var wire runWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return Run{}, err
	}
	var f fieldReader
	run := f.run(wire)
	return run, f.err
}
