package ltime

import (
	"time"

	"pgregory.net/rapid"
)

var times = []string{
	"2020-06-01T00:00:00Z",
	"2020-06-01T06:00:00Z",
	"2023-11-14T22:13:20.123Z",
	"2038-01-19T03:14:08Z",
}

var timeSampler *rapid.Generator[time.Time]

func init() {
	timeGenerators := make([]*rapid.Generator[time.Time], 0)
	for _, time_ := range times {
		parsed, err := time.Parse(time.RFC3339Nano, time_)
		if err != nil {
			panic(err)
		}
		timeGenerators = append(timeGenerators, rapid.Just(parsed))
	}
	timeSampler = rapid.OneOf(timeGenerators...)
}

func TestingTimeGenerator() *rapid.Generator[time.Time] {
	return timeSampler
}

// TestingMillisGenerator draws epoch-millisecond values, mixing well-known instants with
// arbitrary non-negative values large enough to lose precision as float64.
func TestingMillisGenerator() *rapid.Generator[int64] {
	return rapid.OneOf(
		rapid.Map(timeSampler, func(t time.Time) int64 { return t.UnixMilli() }),
		rapid.Int64Range(0, 1<<62),
	)
}
