package ltime

import "time"

type Watch interface {
	Now() time.Time
}

type WallWatch struct{}

func (WallWatch) Now() time.Time {
	return time.Now()
}

func NewWallWatch() WallWatch { return WallWatch{} }

var _ Watch = WallWatch{}

type TestingWatch struct {
	Current time.Time
}

func (f *TestingWatch) Now() time.Time {
	return f.Current
}

// Advance moves the testing clock forward.
func (f *TestingWatch) Advance(d time.Duration) {
	f.Current = f.Current.Add(d)
}

var _ Watch = &TestingWatch{}

// NowMillis returns the watch time in milliseconds since the epoch.
func NowMillis(w Watch) int64 {
	return w.Now().UnixMilli()
}
