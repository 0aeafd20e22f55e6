package livetest

import (
	"os"
	"strings"
)

// LiveTestingSkipped is the log message when live testing is skipped
const LiveTestingSkipped = "Live testing skipped for %s, set PRICETRACE_LIVE_TESTS=true to enable"

// ShouldSkipLiveTests returns true unless live endpoint testing was asked for
func ShouldSkipLiveTests() bool {
	return !envIsTrue("PRICETRACE_LIVE_TESTS")
}

func envIsTrue(name string) bool {
	value := strings.TrimSpace(os.Getenv(name))
	return strings.EqualFold(value, "true") || value == "1"
}
