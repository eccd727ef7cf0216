// Package lgomega lets tests use the global gomega.Expect with plain testing.T tests: a failed
// expectation panics with a pruned stack trace, which fails the running test.
package lgomega

import (
	"fmt"
	"regexp"
	"runtime/debug"
	"strings"

	"github.com/onsi/gomega"
	omegatypes "github.com/onsi/gomega/types"
)

func init() {
	gomega.RegisterFailHandler(failHandler())
}

var (
	// frames from the test runner itself carry no information
	testingFrames = regexp.MustCompile(`testing\.tRunner|created by testing\.RunTests`)
	offsetSuffix  = regexp.MustCompile(` \+0x[0-9a-f]+$`)
)

// Adapted from https://github.com/fgrosse/gomega-matchers/blob/master/testing_t_support.go
func failHandler() omegatypes.GomegaFailHandler {
	return func(message string, callerSkip ...int) {
		skip := 2 // runtime/debug.Stack frame + this handler
		if len(callerSkip) > 0 {
			skip += callerSkip[0]
		}
		stackTrace := strings.TrimSpace(pruneStack(string(debug.Stack()), skip))

		panic(fmt.Sprintf("\n%s\n%s", stackTrace, message))
	}
}

// pruneStack drops the first skip frames and the testing runner frames. Each frame occupies two
// lines of the debug.Stack output (function, then file:line).
func pruneStack(fullStackTrace string, skip int) string {
	stack := strings.Split(fullStackTrace, "\n")
	if len(stack) > 1+2*skip {
		stack = stack[1+2*skip:]
	}

	pruned := make([]string, 0, len(stack))
	for i := 0; i+1 < len(stack); i += 2 {
		if testingFrames.MatchString(stack[i]) {
			continue
		}
		pruned = append(pruned,
			offsetSuffix.ReplaceAllString(stack[i], ""),
			offsetSuffix.ReplaceAllString(stack[i+1], ""))
	}

	return strings.Join(pruned, "\n")
}
