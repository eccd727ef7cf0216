package mlflow

import (
	"unicode"

	ltime "github.infra.cloudera.com/CAI/MLFlowClient/pkg/time"
	"pgregory.net/rapid"
)

func TestingTextGenerator() *rapid.Generator[string] {
	return rapid.StringOfN(rapid.RuneFrom(nil, unicode.L, unicode.N, unicode.P, unicode.Zs), 0, 24, -1)
}

// TestingIdGenerator draws ids in the shapes servers hand out: small integers and hex uuids.
func TestingIdGenerator() *rapid.Generator[string] {
	return rapid.OneOf(
		rapid.StringMatching(`[0-9]{1,6}`),
		rapid.StringMatching(`[0-9a-f]{32}`),
	)
}

// optionalSlice draws a slice that is nil when empty, matching what the decoders produce.
func optionalSlice[V any](gen *rapid.Generator[V]) *rapid.Generator[[]V] {
	return rapid.Map(rapid.SliceOfN(gen, 0, 4), func(v []V) []V {
		if len(v) == 0 {
			return nil
		}
		return v
	})
}

func TestingKeyValueGenerator() *rapid.Generator[KeyValue] {
	return rapid.Custom(func(t *rapid.T) KeyValue {
		return KeyValue{
			Key:   TestingTextGenerator().Draw(t, "key"),
			Value: TestingTextGenerator().Draw(t, "value"),
		}
	})
}

// TestingMetricValueGenerator mostly draws formatted floats but also arbitrary text, which the
// codec carries unchanged.
func TestingMetricValueGenerator() *rapid.Generator[string] {
	return rapid.OneOf(
		rapid.Map(rapid.Float64Range(-1e12, 1e12), FormatMetricValue),
		TestingTextGenerator(),
	)
}

func TestingMetricGenerator() *rapid.Generator[Metric] {
	return rapid.Custom(func(t *rapid.T) Metric {
		return Metric{
			Key:       TestingTextGenerator().Draw(t, "key"),
			Value:     TestingMetricValueGenerator().Draw(t, "value"),
			Timestamp: ltime.TestingMillisGenerator().Draw(t, "timestamp"),
			Step:      rapid.Int64().Draw(t, "step"),
		}
	})
}

func TestingRunStatusGenerator() *rapid.Generator[RunStatus] {
	return rapid.SampledFrom(RunStatuses)
}

func TestingExperimentGenerator() *rapid.Generator[Experiment] {
	return rapid.Custom(func(t *rapid.T) Experiment {
		return Experiment{
			ExperimentId:     TestingIdGenerator().Draw(t, "experiment_id"),
			Name:             TestingTextGenerator().Draw(t, "name"),
			ArtifactLocation: TestingTextGenerator().Draw(t, "artifact_location"),
			LifecycleStage:   rapid.SampledFrom([]string{"active", "deleted"}).Draw(t, "lifecycle_stage"),
			LastUpdateTime:   ltime.TestingMillisGenerator().Draw(t, "last_update_time"),
			CreationTime:     ltime.TestingMillisGenerator().Draw(t, "creation_time"),
			Tags:             optionalSlice(TestingKeyValueGenerator()).Draw(t, "tags"),
		}
	})
}

func TestingRunInfoGenerator() *rapid.Generator[RunInfo] {
	return rapid.Custom(func(t *rapid.T) RunInfo {
		return RunInfo{
			RunId:          TestingIdGenerator().Draw(t, "run_id"),
			RunName:        TestingTextGenerator().Draw(t, "run_name"),
			ExperimentId:   TestingIdGenerator().Draw(t, "experiment_id"),
			UserId:         TestingTextGenerator().Draw(t, "user_id"),
			Status:         TestingRunStatusGenerator().Draw(t, "status"),
			StartTime:      ltime.TestingMillisGenerator().Draw(t, "start_time"),
			EndTime:        ltime.TestingMillisGenerator().Draw(t, "end_time"),
			ArtifactUri:    TestingTextGenerator().Draw(t, "artifact_uri"),
			LifecycleStage: rapid.SampledFrom([]string{"active", "deleted"}).Draw(t, "lifecycle_stage"),
		}
	})
}

func TestingRunDataGenerator() *rapid.Generator[RunData] {
	return rapid.Custom(func(t *rapid.T) RunData {
		return RunData{
			Metrics: optionalSlice(TestingMetricGenerator()).Draw(t, "metrics"),
			Params:  optionalSlice(TestingKeyValueGenerator()).Draw(t, "params"),
			Tags:    optionalSlice(TestingKeyValueGenerator()).Draw(t, "tags"),
		}
	})
}

func TestingRunGenerator() *rapid.Generator[Run] {
	return rapid.Custom(func(t *rapid.T) Run {
		return Run{
			Info: TestingRunInfoGenerator().Draw(t, "info"),
			Data: TestingRunDataGenerator().Draw(t, "data"),
		}
	})
}
