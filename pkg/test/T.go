package ltest

import (
	"fmt"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// T is the subset of testing.T shared by plain tests, rapid property tests and example
// programs, so helpers such as fake servers can be used from all of them.
type T interface {
	Helper()
	Fatalf(format string, args ...interface{})
	Cleanup(func())
	assert.TestingT
}

func NewRapidT(t *rapid.T) *RapidT {
	return &RapidT{
		T: t,
	}
}

// RapidT adds Cleanup to rapid.T. Callers must defer RunCleanup at the end of each property
// check iteration.
type RapidT struct {
	*rapid.T
	cleanups []func()
}

func (r *RapidT) Helper() {
}

func (r *RapidT) Cleanup(f func()) {
	r.cleanups = append(r.cleanups, f)
}

func (r *RapidT) RunCleanup() {
	for i := len(r.cleanups) - 1; i >= 0; i-- {
		r.cleanups[i]()
	}
	r.cleanups = nil
}

var _ T = &RapidT{}

func NewMainT() *MainT {
	return &MainT{}
}

// MainT is a T for code running outside of go test. Failures panic.
type MainT struct {
	cleanups []func()
}

func (m *MainT) Errorf(format string, args ...interface{}) {
	panic(fmt.Sprintf(format, args...))
}

func (m *MainT) Helper() {
}

func (m *MainT) Fatalf(format string, args ...interface{}) {
	panic(fmt.Sprintf(format, args...))
}

func (m *MainT) Cleanup(f func()) {
	m.cleanups = append(m.cleanups, f)
}

func (m *MainT) RunCleanup() {
	for i := len(m.cleanups) - 1; i >= 0; i-- {
		m.cleanups[i]()
	}
	m.cleanups = nil
}

var _ T = &MainT{}
